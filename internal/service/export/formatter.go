package export

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/masaken/backoffice/internal/domain/models"
)

// RowLookup resolves a unit's current edit buffer by unit id.
type RowLookup func(unitID string) models.DebtRow

// DebtSummary renders the debt page's clipboard block: one line per visible
// unit followed by a trailing totals line.
func DebtSummary(client string, units []models.EnrichedUnit, lookup RowLookup, totals models.DebtTotals) string {
	var lines []string
	if client != "" {
		lines = append(lines, "ملخص المديونية للعميل: "+client)
	} else {
		lines = append(lines, "ملخص المديونية (بحث وحدة)")
	}
	lines = append(lines, "")

	for _, u := range units {
		row := lookup(u.ID)
		lines = append(lines, strings.Join([]string{
			"الوحدة " + u.Code(),
			"قيمة العقد: " + models.DisplayAmount(row.ContractValue),
			"المدفوع: " + models.DisplayAmount(row.PaidValue),
			"المتبقي: " + row.Remaining().String(),
		}, " | "))
	}

	lines = append(lines, "", totalsLine(totals))
	return strings.Join(lines, "\n")
}

// ReportSummary renders the report page's clipboard block from persisted
// records; the remaining value is printed verbatim, not recomputed.
func ReportSummary(rows []models.DebtRecord, totals models.DebtTotals) string {
	lines := []string{"تقرير المديونية:", ""}

	for _, r := range rows {
		lines = append(lines, strings.Join([]string{
			"الوحدة " + r.Code(),
			"العميل: " + displayName(r.OriginalClientName),
			"قيمة العقد: " + models.DisplayAmount(r.ContractValue),
			"المدفوع: " + models.DisplayAmount(r.PaidValue),
			"المتبقي: " + r.RemainingValue.String(),
		}, " | "))
	}

	lines = append(lines, "", totalsLine(totals))
	return strings.Join(lines, "\n")
}

// ResaleEntry is one element of the resale JSON export.
type ResaleEntry struct {
	UnitID        string           `json:"unit_id"`
	UnitNumber    int              `json:"unit_number"`
	Project       string           `json:"project"`
	ProjectNumber string           `json:"project_number"`
	ResaleFee     *decimal.Decimal `json:"resale_fee"`
	MarketingFee  *decimal.Decimal `json:"marketing_fee"`
	CompanyFee    *decimal.Decimal `json:"company_fee"`
	LawyerFee     *decimal.Decimal `json:"lawyer_fee"`
	AgreedAmount  *decimal.Decimal `json:"agreed_amount"`
	TotalFees     decimal.Decimal  `json:"total_fees"`
}

// ResaleExport renders the filtered resale view as an indented JSON array of
// per-unit records, including every editable field and the computed fee
// total.
func ResaleExport(units []models.EnrichedUnit, lookup func(unitID string) models.ResaleRow) ([]byte, error) {
	entries := make([]ResaleEntry, 0, len(units))
	for _, u := range units {
		row := lookup(u.ID)
		entries = append(entries, ResaleEntry{
			UnitID:        u.ID,
			UnitNumber:    u.UnitNumber,
			Project:       u.ProjectName,
			ProjectNumber: u.ProjectNumber,
			ResaleFee:     row.ResaleFee,
			MarketingFee:  row.MarketingFee,
			CompanyFee:    row.CompanyFee,
			LawyerFee:     row.LawyerFee,
			AgreedAmount:  row.AgreedAmount,
			TotalFees:     row.Total(),
		})
	}

	payload, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal resale export: %w", err)
	}
	return payload, nil
}

func totalsLine(t models.DebtTotals) string {
	return fmt.Sprintf("الإجمالي — قيمة العقود: %s | المدفوع: %s | المتبقي: %s",
		t.Contract.String(), t.Paid.String(), t.Remaining.String())
}

func displayName(s *string) string {
	if s == nil || *s == "" {
		return "-"
	}
	return *s
}
