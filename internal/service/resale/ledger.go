package resale

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/masaken/backoffice/internal/domain/models"
	"github.com/masaken/backoffice/internal/repository/records"
)

// Field names an editable column of the resale buffer.
type Field string

const (
	FieldResaleFee    Field = "resale_fee"
	FieldMarketingFee Field = "marketing_fee"
	FieldCompanyFee   Field = "company_fee"
	FieldLawyerFee    Field = "lawyer_fee"
	FieldAgreedAmount Field = "agreed_amount"
)

var (
	// ErrAgreedAmountRequired rejects a save before any store call when the
	// negotiated sale price has not been entered.
	ErrAgreedAmountRequired = errors.New("يرجى تعبئة مبلغ البيع المتفق قبل الحفظ")
	// ErrUnknownField rejects updates to a field the buffer does not have.
	ErrUnknownField = errors.New("unknown resale field")
	// ErrSaveInFlight rejects a save while one is already running for the
	// same unit.
	ErrSaveInFlight = errors.New("a save for this unit is already in progress")
)

// row pairs a buffer with the set of fields edited since the last seed or
// save, so a reload can merge instead of discarding unsaved work.
type row struct {
	buf   models.ResaleRow
	dirty map[Field]bool
}

// Ledger is the resale page view-model. Buffers are seeded from the unit's
// own persisted resale columns and saved back onto the unit row in place.
type Ledger struct {
	repo   records.Repository
	logger *zap.Logger
	now    func() time.Time

	mu     sync.Mutex
	rows   map[string]*row
	saving map[string]bool
}

// NewLedger wires a new resale ledger instance.
func NewLedger(repo records.Repository, logger *zap.Logger) *Ledger {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Ledger{
		repo:   repo,
		logger: logger,
		now:    time.Now,
		rows:   make(map[string]*row),
		saving: make(map[string]bool),
	}
}

// Reload reseeds every buffer from the given unit list. Fields with unsaved
// edits survive the refresh: the persisted columns only overwrite clean
// fields, so saving one unit can no longer wipe another unit's pending work.
func (l *Ledger) Reload(units []models.EnrichedUnit) {
	l.mu.Lock()
	defer l.mu.Unlock()

	next := make(map[string]*row, len(units))
	for _, u := range units {
		seeded := models.NewResaleRow(u.Unit)
		prev, ok := l.rows[u.ID]
		if !ok || len(prev.dirty) == 0 {
			next[u.ID] = &row{buf: seeded, dirty: map[Field]bool{}}
			continue
		}

		merged := seeded
		for field := range prev.dirty {
			setField(&merged, field, fieldValue(prev.buf, field))
		}
		next[u.ID] = &row{buf: merged, dirty: prev.dirty}
	}
	l.rows = next
}

// Row returns the current buffer for a unit.
func (l *Ledger) Row(unitID string) models.ResaleRow {
	l.mu.Lock()
	defer l.mu.Unlock()
	if r, ok := l.rows[unitID]; ok {
		return r.buf
	}
	return models.ResaleRow{}
}

// UpdateField parses the raw input into the unit's buffer and marks the
// field dirty. An empty input clears the field to absent, not zero.
func (l *Ledger) UpdateField(unitID string, field Field, raw string) error {
	var value *decimal.Decimal
	if trimmed := strings.TrimSpace(raw); trimmed != "" {
		parsed, err := decimal.NewFromString(trimmed)
		if err != nil {
			return fmt.Errorf("invalid amount %q: %w", raw, err)
		}
		value = &parsed
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	r, ok := l.rows[unitID]
	if !ok {
		r = &row{dirty: map[Field]bool{}}
		l.rows[unitID] = r
	}

	if !setField(&r.buf, field, value) {
		return ErrUnknownField
	}
	r.dirty[field] = true
	return nil
}

// Save validates the buffer locally, patches the unit row in the store, and
// returns the patch so the caller can update its in-memory unit list without
// a re-fetch.
func (l *Ledger) Save(ctx context.Context, unit models.EnrichedUnit) (models.ResalePatch, error) {
	l.mu.Lock()
	if l.saving[unit.ID] {
		l.mu.Unlock()
		return models.ResalePatch{}, ErrSaveInFlight
	}
	r, ok := l.rows[unit.ID]
	if !ok {
		r = &row{buf: models.NewResaleRow(unit.Unit), dirty: map[Field]bool{}}
		l.rows[unit.ID] = r
	}
	buf := r.buf
	if buf.AgreedAmount == nil {
		l.mu.Unlock()
		return models.ResalePatch{}, ErrAgreedAmountRequired
	}
	l.saving[unit.ID] = true
	l.mu.Unlock()

	patch := models.ResalePatch{
		Status:             models.UnitStatusForResale,
		ResaleFee:          buf.ResaleFee,
		MarketingFee:       buf.MarketingFee,
		CompanyFee:         buf.CompanyFee,
		LawyerFee:          buf.LawyerFee,
		ResaleAgreedAmount: buf.AgreedAmount,
		ResaleSavedAt:      l.now().UTC(),
	}

	err := l.repo.UpdateUnitResale(ctx, unit.ID, patch)

	l.mu.Lock()
	delete(l.saving, unit.ID)
	if err == nil {
		// The buffer now mirrors the store again.
		l.rows[unit.ID].dirty = map[Field]bool{}
	}
	l.mu.Unlock()

	if err != nil {
		l.logger.Warn("resale save failed", zap.String("unit_id", unit.ID), zap.Error(err))
		return models.ResalePatch{}, err
	}
	return patch, nil
}

// Apply patches the saved resale state onto the in-memory unit list,
// avoiding a full re-fetch after a successful save.
func Apply(units []models.EnrichedUnit, unitID string, patch models.ResalePatch) []models.EnrichedUnit {
	for i := range units {
		if units[i].ID != unitID {
			continue
		}
		savedAt := patch.ResaleSavedAt
		units[i].Status = patch.Status
		units[i].ResaleFee = patch.ResaleFee
		units[i].MarketingFee = patch.MarketingFee
		units[i].CompanyFee = patch.CompanyFee
		units[i].LawyerFee = patch.LawyerFee
		units[i].ResaleAgreedAmount = patch.ResaleAgreedAmount
		units[i].ResaleSavedAt = &savedAt
	}
	return units
}

func setField(r *models.ResaleRow, field Field, value *decimal.Decimal) bool {
	switch field {
	case FieldResaleFee:
		r.ResaleFee = value
	case FieldMarketingFee:
		r.MarketingFee = value
	case FieldCompanyFee:
		r.CompanyFee = value
	case FieldLawyerFee:
		r.LawyerFee = value
	case FieldAgreedAmount:
		r.AgreedAmount = value
	default:
		return false
	}
	return true
}

func fieldValue(r models.ResaleRow, field Field) *decimal.Decimal {
	switch field {
	case FieldResaleFee:
		return r.ResaleFee
	case FieldMarketingFee:
		return r.MarketingFee
	case FieldCompanyFee:
		return r.CompanyFee
	case FieldLawyerFee:
		return r.LawyerFee
	case FieldAgreedAmount:
		return r.AgreedAmount
	}
	return nil
}
