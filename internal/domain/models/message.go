package models

// MessageKind enumerates the fixed outbound message templates.
type MessageKind string

const (
	MessageDeedTransfer    MessageKind = "deed_transfer"
	MessageResaleContract  MessageKind = "resale_contract"
	MessagePaymentReminder MessageKind = "payment_reminder"
)

// Valid reports whether the kind is one of the supported templates.
func (k MessageKind) Valid() bool {
	switch k {
	case MessageDeedTransfer, MessageResaleContract, MessagePaymentReminder:
		return true
	}
	return false
}

// Recipient selects which of the unit's two contacts a message addresses.
type Recipient string

const (
	RecipientOriginal Recipient = "original"
	RecipientCurrent  Recipient = "current"
)

// ShareField names a toggleable line of the custom share message. The
// declaration order here is the rendering order of the composed text.
type ShareField string

const (
	ShareCurrentName        ShareField = "current_name"
	ShareCurrentPhone       ShareField = "current_phone"
	ShareOriginalName       ShareField = "original_name"
	ShareOriginalPhone      ShareField = "original_phone"
	ShareProjectName        ShareField = "project_name"
	ShareProjectNumber      ShareField = "project_number"
	ShareUnitNumber         ShareField = "unit_number"
	ShareFloorNumber        ShareField = "floor_number"
	ShareDeedNumber         ShareField = "deed_number"
	ShareResaleFee          ShareField = "resale_fee"
	ShareMarketingFee       ShareField = "marketing_fee"
	ShareCompanyFee         ShareField = "company_fee"
	ShareLawyerFee          ShareField = "lawyer_fee"
	ShareResaleAgreedAmount ShareField = "resale_agreed_amount"
	ShareResaleSavedAt      ShareField = "resale_saved_at"
)

// DefaultShareFields mirrors the toggles preselected when the composer opens.
func DefaultShareFields() map[ShareField]bool {
	return map[ShareField]bool{
		ShareCurrentName:        true,
		ShareCurrentPhone:       false,
		ShareOriginalName:       false,
		ShareOriginalPhone:      false,
		ShareProjectName:        true,
		ShareProjectNumber:      true,
		ShareUnitNumber:         true,
		ShareFloorNumber:        true,
		ShareDeedNumber:         true,
		ShareResaleFee:          false,
		ShareMarketingFee:       false,
		ShareCompanyFee:         false,
		ShareLawyerFee:          false,
		ShareResaleAgreedAmount: false,
		ShareResaleSavedAt:      false,
	}
}
