package domain

import (
	"time"
)

// FinanceType represents how the buyer pays for the property
type FinanceType string

const (
	FinanceTypeLoan  FinanceType = "LOAN"
	FinanceTypeCash  FinanceType = "CASH"
	FinanceTypeFHAVA FinanceType = "FHA/VA"
)

// IsValid reports whether f is a known finance type
func (f FinanceType) IsValid() bool {
	switch f {
	case FinanceTypeLoan, FinanceTypeCash, FinanceTypeFHAVA:
		return true
	}
	return false
}

// AmountMode says whether a deposit or down payment input is a percentage of the price or a dollar amount
type AmountMode string

const (
	AmountModePercent AmountMode = "percent"
	AmountModeDollar  AmountMode = "dollar"
)

// Contingency is a day count, or waived
type Contingency struct {
	Days   int  `json:"days" validate:"gte=0"`
	Waived bool `json:"waived"`
}

// PresentingAgent is the buyer's agent presenting the offer
type PresentingAgent struct {
	Name    string `json:"name"`
	License string `json:"license"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Image   string `json:"image"`
}

// Brokerage is the presenting agent's brokerage
type Brokerage struct {
	Name         string `json:"name"`
	License      string `json:"license"`
	AddressLine1 string `json:"addressLine1"`
	AddressLine2 string `json:"addressLine2"`
}

// Offer is a draft purchase offer for a listing. It has no identity until it is submitted.
// Derived amounts (loan amount, percent down, balance of down payment) are never stored;
// they are computed from these inputs on read.
type Offer struct {
	ListingID             string          `json:"listingId"`
	PurchasePrice         string          `json:"purchasePrice"`
	InitialDeposit        string          `json:"initialDeposit"`
	InitialDepositMode    AmountMode      `json:"initialDepositMode"`
	FinanceType           FinanceType     `json:"financeType"`
	DownPayment           string          `json:"downPayment"`
	DownPaymentMode       AmountMode      `json:"downPaymentMode"`
	FinanceContingency    Contingency     `json:"financeContingency"`
	AppraisalContingency  Contingency     `json:"appraisalContingency"`
	InspectionContingency Contingency     `json:"inspectionContingency"`
	HomeSaleContingency   Contingency     `json:"homeSaleContingency"`
	CloseOfEscrowDays     int             `json:"closeOfEscrowDays"`
	SellerRentBackDays    int             `json:"sellerRentBackDays"`
	SubmittedAt           time.Time       `json:"submittedAt"`
	ExpiresAt             time.Time       `json:"expiresAt"`
	BuyerName             string          `json:"buyerName"`
	BuyerAgentCommission  string          `json:"buyerAgentCommission"`
	SpecialTerms          string          `json:"specialTerms"`
	MessageToListingAgent string          `json:"messageToListingAgent"`
	PresentingAgent       PresentingAgent `json:"presentingAgent"`
	Brokerage             Brokerage       `json:"brokerage"`
}

// NewOffer returns the default draft: empty fields, LOAN financing, home sale contingency waived,
// submitted now and expiring 24 hours later rounded up to the next hour.
func NewOffer(now time.Time) Offer {
	submittedAt := now.UTC()
	return Offer{
		InitialDepositMode:  AmountModePercent,
		FinanceType:         FinanceTypeLoan,
		DownPaymentMode:     AmountModePercent,
		HomeSaleContingency: Contingency{Waived: true},
		SubmittedAt:         submittedAt,
		ExpiresAt:           DefaultExpiry(submittedAt),
	}
}

// DefaultExpiry is submittedAt + 24h, rounded up to the next whole hour
func DefaultExpiry(submittedAt time.Time) time.Time {
	expiry := submittedAt.UTC().Add(24 * time.Hour)
	if truncated := expiry.Truncate(time.Hour); !truncated.Equal(expiry) {
		return truncated.Add(time.Hour)
	}
	return expiry
}

// OfferUpdate is a partial offer. Nil fields are left untouched when merged.
type OfferUpdate struct {
	ListingID             *string          `json:"listingId,omitempty" validate:"omitempty,max=100"`
	PurchasePrice         *string          `json:"purchasePrice,omitempty" validate:"omitempty,max=32"`
	InitialDeposit        *string          `json:"initialDeposit,omitempty" validate:"omitempty,max=32"`
	InitialDepositMode    *AmountMode      `json:"initialDepositMode,omitempty" validate:"omitempty,oneof=percent dollar"`
	FinanceType           *FinanceType     `json:"financeType,omitempty" validate:"omitempty,oneof=LOAN CASH FHA/VA"`
	DownPayment           *string          `json:"downPayment,omitempty" validate:"omitempty,max=32"`
	DownPaymentMode       *AmountMode      `json:"downPaymentMode,omitempty" validate:"omitempty,oneof=percent dollar"`
	FinanceContingency    *Contingency     `json:"financeContingency,omitempty"`
	AppraisalContingency  *Contingency     `json:"appraisalContingency,omitempty"`
	InspectionContingency *Contingency     `json:"inspectionContingency,omitempty"`
	HomeSaleContingency   *Contingency     `json:"homeSaleContingency,omitempty"`
	CloseOfEscrowDays     *int             `json:"closeOfEscrowDays,omitempty" validate:"omitempty,gte=0"`
	SellerRentBackDays    *int             `json:"sellerRentBackDays,omitempty" validate:"omitempty,gte=0"`
	SubmittedAt           *time.Time       `json:"submittedAt,omitempty"`
	ExpiresAt             *time.Time       `json:"expiresAt,omitempty"`
	BuyerName             *string          `json:"buyerName,omitempty" validate:"omitempty,max=200"`
	BuyerAgentCommission  *string          `json:"buyerAgentCommission,omitempty" validate:"omitempty,max=16"`
	SpecialTerms          *string          `json:"specialTerms,omitempty" validate:"omitempty,max=5000"`
	MessageToListingAgent *string          `json:"messageToListingAgent,omitempty" validate:"omitempty,max=5000"`
	PresentingAgent       *PresentingAgent `json:"presentingAgent,omitempty"`
	Brokerage             *Brokerage       `json:"brokerage,omitempty"`
}

// Apply returns a copy of o with the non-nil fields of u merged in
func (o Offer) Apply(u OfferUpdate) Offer {
	if u.ListingID != nil {
		o.ListingID = *u.ListingID
	}
	if u.PurchasePrice != nil {
		o.PurchasePrice = *u.PurchasePrice
	}
	if u.InitialDeposit != nil {
		o.InitialDeposit = *u.InitialDeposit
	}
	if u.InitialDepositMode != nil {
		o.InitialDepositMode = *u.InitialDepositMode
	}
	if u.FinanceType != nil {
		o.FinanceType = *u.FinanceType
	}
	if u.DownPayment != nil {
		o.DownPayment = *u.DownPayment
	}
	if u.DownPaymentMode != nil {
		o.DownPaymentMode = *u.DownPaymentMode
	}
	if u.FinanceContingency != nil {
		o.FinanceContingency = *u.FinanceContingency
	}
	if u.AppraisalContingency != nil {
		o.AppraisalContingency = *u.AppraisalContingency
	}
	if u.InspectionContingency != nil {
		o.InspectionContingency = *u.InspectionContingency
	}
	if u.HomeSaleContingency != nil {
		o.HomeSaleContingency = *u.HomeSaleContingency
	}
	if u.CloseOfEscrowDays != nil {
		o.CloseOfEscrowDays = *u.CloseOfEscrowDays
	}
	if u.SellerRentBackDays != nil {
		o.SellerRentBackDays = *u.SellerRentBackDays
	}
	if u.SubmittedAt != nil {
		o.SubmittedAt = u.SubmittedAt.UTC()
	}
	if u.ExpiresAt != nil {
		o.ExpiresAt = u.ExpiresAt.UTC()
	}
	if u.BuyerName != nil {
		o.BuyerName = *u.BuyerName
	}
	if u.BuyerAgentCommission != nil {
		o.BuyerAgentCommission = *u.BuyerAgentCommission
	}
	if u.SpecialTerms != nil {
		o.SpecialTerms = *u.SpecialTerms
	}
	if u.MessageToListingAgent != nil {
		o.MessageToListingAgent = *u.MessageToListingAgent
	}
	if u.PresentingAgent != nil {
		o.PresentingAgent = *u.PresentingAgent
	}
	if u.Brokerage != nil {
		o.Brokerage = *u.Brokerage
	}
	return o
}

// OfferDraft is a persisted offer snapshot in the database storage backend
type OfferDraft struct {
	Key       string    `gorm:"column:draft_key;type:varchar(200);primaryKey"`
	Payload   []byte    `gorm:"column:payload;not null"`
	UpdatedAt time.Time `gorm:"column:updated_at;not null"`
}

// TableName overrides the table name
func (OfferDraft) TableName() string {
	return "offer_drafts"
}
