package models

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

func init() {
	// PostgREST numeric columns expect bare JSON numbers, not quoted strings.
	decimal.MarshalJSONWithoutQuotes = true
}

// UnitStatusForResale marks a unit whose resale fees have been saved.
const UnitStatusForResale = "for_resale"

// Unit is a sellable item belonging to a Project. Pointer fields map to
// nullable columns in the hosted store.
type Unit struct {
	ID                  string           `json:"id"`
	ProjectID           string           `json:"project_id"`
	UnitNumber          int              `json:"unit_number"`
	FloorNumber         int              `json:"floor_number"`
	ClientName          string           `json:"client_name"`
	ClientPhone         string           `json:"client_phone"`
	ClientIDNumber      string           `json:"client_id_number"`
	TitleDeedOwner      *string          `json:"title_deed_owner"`
	TitleDeedOwnerPhone *string          `json:"title_deed_owner_phone"`
	DeedNumber          *string          `json:"deed_number"`
	Status              string           `json:"status"`
	ResaleFee           *decimal.Decimal `json:"resale_fee"`
	MarketingFee        *decimal.Decimal `json:"marketing_fee"`
	CompanyFee          *decimal.Decimal `json:"company_fee"`
	LawyerFee           *decimal.Decimal `json:"lawyer_fee"`
	ResaleAgreedAmount  *decimal.Decimal `json:"resale_agreed_amount"`
	ResaleSavedAt       *time.Time       `json:"resale_saved_at"`
}

// HasResaleData reports whether any resale column has ever been populated.
func (u Unit) HasResaleData() bool {
	return u.ResaleFee != nil ||
		u.MarketingFee != nil ||
		u.CompanyFee != nil ||
		u.LawyerFee != nil ||
		u.ResaleAgreedAmount != nil ||
		u.ResaleSavedAt != nil ||
		u.Status == UnitStatusForResale
}

// EnrichedUnit widens a Unit with its parent project display fields, resolved
// in memory at fetch time and never persisted.
type EnrichedUnit struct {
	Unit
	ProjectName   string `json:"project_name"`
	ProjectNumber string `json:"project_number"`
}

// Code returns the human-facing identifier, e.g. "110-5".
func (u EnrichedUnit) Code() string {
	return fmt.Sprintf("%s-%d", u.ProjectNumber, u.UnitNumber)
}

// Zero returns the decimal value or zero when the column is absent.
// Absent is distinct from zero everywhere except aggregation.
func Zero(d *decimal.Decimal) decimal.Decimal {
	if d == nil {
		return decimal.Zero
	}
	return *d
}

// DisplayAmount renders an optional amount, falling back to "-" when absent.
func DisplayAmount(d *decimal.Decimal) string {
	if d == nil {
		return "-"
	}
	return d.String()
}
