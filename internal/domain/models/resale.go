package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// ResaleRow is the per-unit edit buffer on the resale page. Unlike the debt
// buffer it round-trips through the unit's own columns rather than a side
// table, so it is seeded from the unit on load.
type ResaleRow struct {
	ResaleFee    *decimal.Decimal `json:"resale_fee"`
	MarketingFee *decimal.Decimal `json:"marketing_fee"`
	CompanyFee   *decimal.Decimal `json:"company_fee"`
	LawyerFee    *decimal.Decimal `json:"lawyer_fee"`
	AgreedAmount *decimal.Decimal `json:"agreed_amount"`
}

// NewResaleRow seeds a buffer from the unit's persisted resale columns.
func NewResaleRow(u Unit) ResaleRow {
	return ResaleRow{
		ResaleFee:    u.ResaleFee,
		MarketingFee: u.MarketingFee,
		CompanyFee:   u.CompanyFee,
		LawyerFee:    u.LawyerFee,
		AgreedAmount: u.ResaleAgreedAmount,
	}
}

// Total sums the four fee components. The agreed amount is the negotiated
// sale price, not a fee, and is excluded.
func (r ResaleRow) Total() decimal.Decimal {
	return Zero(r.ResaleFee).
		Add(Zero(r.MarketingFee)).
		Add(Zero(r.CompanyFee)).
		Add(Zero(r.LawyerFee))
}

// ResalePatch is the update applied in place on the unit row when resale
// fees are saved.
type ResalePatch struct {
	Status             string           `json:"status"`
	ResaleFee          *decimal.Decimal `json:"resale_fee"`
	MarketingFee       *decimal.Decimal `json:"marketing_fee"`
	CompanyFee         *decimal.Decimal `json:"company_fee"`
	LawyerFee          *decimal.Decimal `json:"lawyer_fee"`
	ResaleAgreedAmount *decimal.Decimal `json:"resale_agreed_amount"`
	ResaleSavedAt      time.Time        `json:"resale_saved_at"`
}
