package models

import (
	"strconv"
	"time"

	"github.com/shopspring/decimal"
)

// DebtRow is the per-unit edit buffer on the debt page. It lives in memory
// only; a save action derives a DebtRecord from it.
type DebtRow struct {
	ContractValue *decimal.Decimal `json:"contract_value"`
	PaidValue     *decimal.Decimal `json:"paid_value"`
}

// Remaining computes the outstanding balance, floored at zero so an
// overpayment never shows as negative debt.
func (r DebtRow) Remaining() decimal.Decimal {
	rem := Zero(r.ContractValue).Sub(Zero(r.PaidValue))
	if rem.IsNegative() {
		return decimal.Zero
	}
	return rem
}

// DebtRecord is the persisted snapshot of a unit's financial state, one row
// per unit (unique on unit_id, last write wins).
type DebtRecord struct {
	ID                  string           `json:"id,omitempty"`
	UnitID              string           `json:"unit_id"`
	ProjectID           string           `json:"project_id"`
	ProjectNumber       string           `json:"project_number"`
	ProjectName         string           `json:"project_name"`
	UnitNumber          int              `json:"unit_number"`
	DeedNumber          *string          `json:"deed_number"`
	OriginalClientName  *string          `json:"original_client_name"`
	OriginalClientPhone *string          `json:"original_client_phone"`
	OriginalClientID    *string          `json:"original_client_id"`
	CurrentOwnerName    *string          `json:"current_owner_name"`
	CurrentOwnerPhone   *string          `json:"current_owner_phone"`
	ContractValue       *decimal.Decimal `json:"contract_value"`
	PaidValue           *decimal.Decimal `json:"paid_value"`
	RemainingValue      decimal.Decimal  `json:"remaining_value"`
	SavedAt             time.Time        `json:"saved_at"`
}

// Code returns the derived unit identifier for a persisted record.
func (d DebtRecord) Code() string {
	return d.ProjectNumber + "-" + strconv.Itoa(d.UnitNumber)
}

// DebtTotals aggregates the currently visible row set. Remaining is the sum
// of per-row floored remainders, not totalContract minus totalPaid.
type DebtTotals struct {
	Contract  decimal.Decimal `json:"total_contract"`
	Paid      decimal.Decimal `json:"total_paid"`
	Remaining decimal.Decimal `json:"total_remaining"`
}
