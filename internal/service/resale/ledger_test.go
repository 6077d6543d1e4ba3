package resale

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/masaken/backoffice/internal/domain/models"
)

type fakeRepo struct {
	patches map[string]models.ResalePatch
	calls   int
	err     error
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{patches: make(map[string]models.ResalePatch)}
}

func (f *fakeRepo) ListProjects(context.Context) ([]models.Project, error) { return nil, nil }

func (f *fakeRepo) ListUnits(context.Context) ([]models.Unit, error) { return nil, nil }

func (f *fakeRepo) ListDebts(context.Context) ([]models.DebtRecord, error) { return nil, nil }

func (f *fakeRepo) UpsertDebt(context.Context, models.DebtRecord) error { return nil }

func (f *fakeRepo) UpdateUnitResale(_ context.Context, unitID string, patch models.ResalePatch) error {
	f.calls++
	if f.err != nil {
		return f.err
	}
	f.patches[unitID] = patch
	return nil
}

func (f *fakeRepo) Ping(context.Context) error { return nil }

func dec(v int64) *decimal.Decimal {
	d := decimal.NewFromInt(v)
	return &d
}

func testUnit() models.EnrichedUnit {
	return models.EnrichedUnit{
		Unit:          models.Unit{ID: "u1", ProjectID: "p1", UnitNumber: 5, ClientName: "أحمد"},
		ProjectName:   "مشروع النخيل",
		ProjectNumber: "110",
	}
}

func TestRowTotalExcludesAgreedAmount(t *testing.T) {
	row := models.ResaleRow{
		ResaleFee:    dec(100),
		MarketingFee: dec(50),
		CompanyFee:   dec(0),
		LawyerFee:    dec(0),
		AgreedAmount: dec(1_000_000),
	}
	assert.True(t, row.Total().Equal(decimal.NewFromInt(150)))

	// Absent components aggregate as zero.
	assert.True(t, models.ResaleRow{}.Total().IsZero())
}

func TestReloadSeedsFromUnitColumns(t *testing.T) {
	ledger := NewLedger(newFakeRepo(), nil)

	unit := testUnit()
	unit.ResaleFee = dec(100)
	unit.ResaleAgreedAmount = dec(900_000)
	ledger.Reload([]models.EnrichedUnit{unit})

	row := ledger.Row("u1")
	require.NotNil(t, row.ResaleFee)
	assert.True(t, row.ResaleFee.Equal(decimal.NewFromInt(100)))
	require.NotNil(t, row.AgreedAmount)
	assert.Nil(t, row.MarketingFee)
}

func TestReloadMergesUnsavedEdits(t *testing.T) {
	ledger := NewLedger(newFakeRepo(), nil)

	unit := testUnit()
	unit.ResaleFee = dec(100)
	ledger.Reload([]models.EnrichedUnit{unit})

	// Operator edits two fields but does not save.
	require.NoError(t, ledger.UpdateField("u1", FieldMarketingFee, "75"))
	require.NoError(t, ledger.UpdateField("u1", FieldResaleFee, ""))

	// Another unit's save triggers a list refresh; the persisted columns
	// still carry the old values.
	ledger.Reload([]models.EnrichedUnit{unit})

	row := ledger.Row("u1")
	require.NotNil(t, row.MarketingFee)
	assert.True(t, row.MarketingFee.Equal(decimal.NewFromInt(75)))
	// The explicit clear survives too.
	assert.Nil(t, row.ResaleFee)
}

func TestSaveRequiresAgreedAmount(t *testing.T) {
	repo := newFakeRepo()
	ledger := NewLedger(repo, nil)
	ledger.Reload([]models.EnrichedUnit{testUnit()})

	_, err := ledger.Save(context.Background(), testUnit())
	assert.ErrorIs(t, err, ErrAgreedAmountRequired)
	// Rejected locally: no store call was made.
	assert.Zero(t, repo.calls)
}

func TestSave(t *testing.T) {
	repo := newFakeRepo()
	ledger := NewLedger(repo, nil)
	savedAt := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	ledger.now = func() time.Time { return savedAt }

	ledger.Reload([]models.EnrichedUnit{testUnit()})
	require.NoError(t, ledger.UpdateField("u1", FieldResaleFee, "100"))
	require.NoError(t, ledger.UpdateField("u1", FieldAgreedAmount, "900000"))

	patch, err := ledger.Save(context.Background(), testUnit())
	require.NoError(t, err)

	assert.Equal(t, models.UnitStatusForResale, patch.Status)
	assert.True(t, patch.ResaleAgreedAmount.Equal(decimal.NewFromInt(900_000)))
	assert.Equal(t, savedAt, patch.ResaleSavedAt)
	assert.Equal(t, 1, repo.calls)

	t.Run("in-memory list is patched without a re-fetch", func(t *testing.T) {
		units := resaleApplyFixture()
		units = Apply(units, "u1", patch)
		assert.Equal(t, models.UnitStatusForResale, units[0].Status)
		require.NotNil(t, units[0].ResaleSavedAt)
		assert.Equal(t, savedAt, *units[0].ResaleSavedAt)
		// Other units untouched.
		assert.Empty(t, units[1].Status)
	})

	t.Run("buffer is clean after save", func(t *testing.T) {
		unit := testUnit()
		unit.ResaleFee = dec(999)
		ledger.Reload([]models.EnrichedUnit{unit})
		// No unsaved edits remain, so the reload reseeds from the columns.
		row := ledger.Row("u1")
		require.NotNil(t, row.ResaleFee)
		assert.True(t, row.ResaleFee.Equal(decimal.NewFromInt(999)))
	})
}

func TestSaveFailureKeepsEdits(t *testing.T) {
	repo := newFakeRepo()
	repo.err = errors.New("permission denied for table units")
	ledger := NewLedger(repo, nil)

	ledger.Reload([]models.EnrichedUnit{testUnit()})
	require.NoError(t, ledger.UpdateField("u1", FieldAgreedAmount, "900000"))

	_, err := ledger.Save(context.Background(), testUnit())
	require.Error(t, err)
	assert.Equal(t, "permission denied for table units", err.Error())

	// The dirty edit survives a refresh for retry.
	ledger.Reload([]models.EnrichedUnit{testUnit()})
	require.NotNil(t, ledger.Row("u1").AgreedAmount)
}

func resaleApplyFixture() []models.EnrichedUnit {
	return []models.EnrichedUnit{
		testUnit(),
		{Unit: models.Unit{ID: "u2", UnitNumber: 6}, ProjectName: "آخر", ProjectNumber: "111"},
	}
}
