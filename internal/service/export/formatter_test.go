package export

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/masaken/backoffice/internal/domain/models"
)

func dec(v int64) *decimal.Decimal {
	d := decimal.NewFromInt(v)
	return &d
}

func TestDebtSummary(t *testing.T) {
	units := []models.EnrichedUnit{
		{Unit: models.Unit{ID: "u1", UnitNumber: 5}, ProjectName: "مشروع النخيل", ProjectNumber: "110"},
		{Unit: models.Unit{ID: "u2", UnitNumber: 6}, ProjectName: "مشروع النخيل", ProjectNumber: "110"},
	}
	rows := map[string]models.DebtRow{
		"u1": {ContractValue: dec(1000), PaidValue: dec(400)},
		// u2 untouched: absent values render as "-" and aggregate as zero.
	}
	lookup := func(id string) models.DebtRow { return rows[id] }

	totals := models.DebtTotals{
		Contract:  decimal.NewFromInt(1000),
		Paid:      decimal.NewFromInt(400),
		Remaining: decimal.NewFromInt(600),
	}

	summary := DebtSummary("أحمد", units, lookup, totals)
	lines := strings.Split(summary, "\n")
	require.Len(t, lines, 6)

	assert.Equal(t, "ملخص المديونية للعميل: أحمد", lines[0])
	assert.Equal(t, "", lines[1])
	assert.Equal(t, "الوحدة 110-5 | قيمة العقد: 1000 | المدفوع: 400 | المتبقي: 600", lines[2])
	assert.Equal(t, "الوحدة 110-6 | قيمة العقد: - | المدفوع: - | المتبقي: 0", lines[3])
	assert.Equal(t, "", lines[4])
	assert.Equal(t, "الإجمالي — قيمة العقود: 1000 | المدفوع: 400 | المتبقي: 600", lines[5])

	t.Run("unit search header without a client", func(t *testing.T) {
		summary := DebtSummary("", nil, lookup, models.DebtTotals{})
		assert.True(t, strings.HasPrefix(summary, "ملخص المديونية (بحث وحدة)"))
	})
}

func TestReportSummary(t *testing.T) {
	name := "أحمد"
	rows := []models.DebtRecord{
		{
			ProjectNumber:      "110",
			UnitNumber:         5,
			OriginalClientName: &name,
			ContractValue:      dec(1000),
			PaidValue:          dec(400),
			RemainingValue:     decimal.NewFromInt(600),
		},
		{ProjectNumber: "200", UnitNumber: 12, RemainingValue: decimal.Zero},
	}

	totals := models.DebtTotals{
		Contract:  decimal.NewFromInt(1000),
		Paid:      decimal.NewFromInt(400),
		Remaining: decimal.NewFromInt(600),
	}

	summary := ReportSummary(rows, totals)
	lines := strings.Split(summary, "\n")
	require.Len(t, lines, 6)

	assert.Equal(t, "تقرير المديونية:", lines[0])
	assert.Equal(t, "الوحدة 110-5 | العميل: أحمد | قيمة العقد: 1000 | المدفوع: 400 | المتبقي: 600", lines[2])
	// Missing client falls back to the display dash.
	assert.Equal(t, "الوحدة 200-12 | العميل: - | قيمة العقد: - | المدفوع: - | المتبقي: 0", lines[3])
}

func TestResaleExport(t *testing.T) {
	units := []models.EnrichedUnit{
		{Unit: models.Unit{ID: "u1", UnitNumber: 5}, ProjectName: "مشروع النخيل", ProjectNumber: "110"},
	}
	lookup := func(string) models.ResaleRow {
		return models.ResaleRow{
			ResaleFee:    dec(100),
			MarketingFee: dec(50),
			AgreedAmount: dec(1_000_000),
		}
	}

	payload, err := ResaleExport(units, lookup)
	require.NoError(t, err)

	var entries []map[string]any
	require.NoError(t, json.Unmarshal(payload, &entries))
	require.Len(t, entries, 1)

	entry := entries[0]
	assert.Equal(t, "u1", entry["unit_id"])
	assert.Equal(t, float64(5), entry["unit_number"])
	assert.Equal(t, "مشروع النخيل", entry["project"])
	// The fee total excludes the agreed amount.
	assert.Equal(t, float64(150), entry["total_fees"])
	assert.Equal(t, float64(1_000_000), entry["agreed_amount"])
	assert.Nil(t, entry["company_fee"])

	// Human-readable indentation, as the clipboard payload.
	assert.True(t, strings.HasPrefix(string(payload), "[\n  {"))
}
