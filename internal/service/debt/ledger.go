package debt

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

// Field names an editable column of the debt buffer.
type Field string

const (
	FieldContractValue Field = "contract_value"
	FieldPaidValue     Field = "paid_value"
)

// RowState tracks a unit's buffer through the edit/save cycle.
type RowState int

const (
	StateUnset RowState = iota
	StateEditing
	StateSaving
	StateSaved
	StateSaveFailed
)

// String renders the state for logs and API payloads.
func (s RowState) String() string {
	switch s {
	case StateEditing:
		return "editing"
	case StateSaving:
		return "saving"
	case StateSaved:
		return "saved"
	case StateSaveFailed:
		return "save_failed"
	default:
		return "unset"
	}
}

var (
	// ErrSaveInFlight rejects a save while one is already running for the
	// same unit. Saves for different units may overlap freely.
	ErrSaveInFlight = errors.New("a save for this unit is already in progress")
	// ErrUnknownField rejects updates to a field the buffer does not have.
	ErrUnknownField = errors.New("unknown debt field")
)

// Ledger is the debt page view-model: a per-unit edit buffer independent of
// persisted state until an explicit save snapshots it into the debts table.
type Ledger struct {
	repo   records.Repository
	logger *zap.Logger
	now    func() time.Time

	mu     sync.Mutex
	rows   map[string]models.DebtRow
	states map[string]RowState
}

// NewLedger wires a new debt ledger instance.
func NewLedger(repo records.Repository, logger *zap.Logger) *Ledger {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Ledger{
		repo:   repo,
		logger: logger,
		now:    time.Now,
		rows:   make(map[string]models.DebtRow),
		states: make(map[string]RowState),
	}
}

// Row returns the current buffer for a unit; an untouched unit yields the
// zero row.
func (l *Ledger) Row(unitID string) models.DebtRow {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.rows[unitID]
}

// State returns the buffer's position in the edit/save cycle.
func (l *Ledger) State(unitID string) RowState {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.states[unitID]
}

// UpdateField parses the raw input and stores it in the unit's buffer. An
// empty input clears the field to absent, not zero.
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

	if l.states[unitID] == StateSaving {
		return ErrSaveInFlight
	}

	row := l.rows[unitID]
	switch field {
	case FieldContractValue:
		row.ContractValue = value
	case FieldPaidValue:
		row.PaidValue = value
	default:
		return ErrUnknownField
	}

	l.rows[unitID] = row
	l.states[unitID] = StateEditing
	return nil
}

// Totals aggregates the buffers of exactly the given visible units. Each
// row's remaining is floored at zero before summing, so the remaining total
// is not simply totalContract minus totalPaid.
func (l *Ledger) Totals(visible []models.EnrichedUnit) models.DebtTotals {
	l.mu.Lock()
	defer l.mu.Unlock()

	var t models.DebtTotals
	for _, u := range visible {
		row := l.rows[u.ID]
		t.Contract = t.Contract.Add(models.Zero(row.ContractValue))
		t.Paid = t.Paid.Add(models.Zero(row.PaidValue))
		t.Remaining = t.Remaining.Add(row.Remaining())
	}
	return t
}

// Save snapshots the unit's buffer into a DebtRecord and upserts it keyed on
// unit_id. The buffer is kept on both success and failure so the operator
// can keep editing or simply retry.
func (l *Ledger) Save(ctx context.Context, unit models.EnrichedUnit) (models.DebtRecord, error) {
	l.mu.Lock()
	if l.states[unit.ID] == StateSaving {
		l.mu.Unlock()
		return models.DebtRecord{}, ErrSaveInFlight
	}
	row := l.rows[unit.ID]
	l.states[unit.ID] = StateSaving
	l.mu.Unlock()

	record := l.snapshot(unit, row)

	err := l.repo.UpsertDebt(ctx, record)

	l.mu.Lock()
	if err != nil {
		l.states[unit.ID] = StateSaveFailed
	} else {
		l.states[unit.ID] = StateSaved
	}
	l.mu.Unlock()

	if err != nil {
		l.logger.Warn("debt save failed", zap.String("unit_id", unit.ID), zap.Error(err))
		return models.DebtRecord{}, err
	}
	return record, nil
}

// snapshot derives the persisted record from the unit identity fields and
// the current buffer. The remaining value is always recomputed here, never
// taken from user input.
func (l *Ledger) snapshot(unit models.EnrichedUnit, row models.DebtRow) models.DebtRecord {
	return models.DebtRecord{
		UnitID:              unit.ID,
		ProjectID:           unit.ProjectID,
		ProjectNumber:       unit.ProjectNumber,
		ProjectName:         unit.ProjectName,
		UnitNumber:          unit.UnitNumber,
		DeedNumber:          unit.DeedNumber,
		OriginalClientName:  optional(unit.ClientName),
		OriginalClientPhone: optional(unit.ClientPhone),
		OriginalClientID:    optional(unit.ClientIDNumber),
		CurrentOwnerName:    unit.TitleDeedOwner,
		CurrentOwnerPhone:   unit.TitleDeedOwnerPhone,
		ContractValue:       row.ContractValue,
		PaidValue:           row.PaidValue,
		RemainingValue:      row.Remaining(),
		SavedAt:             l.now().UTC(),
	}
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
