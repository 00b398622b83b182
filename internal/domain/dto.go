package domain

import (
	"time"

	"github.com/google/uuid"
)

// DTOs for API requests and responses

// ErrorResponse represents an API error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
	Code    int    `json:"code,omitempty"`
}

// FinancialsDTO holds the derived offer amounts, formatted for display
type FinancialsDTO struct {
	PurchasePrice         string `json:"purchasePrice"`
	InitialDepositDollar  string `json:"initialDepositDollar"`
	PercentInitialDeposit string `json:"percentInitialDeposit"`
	DownPaymentDollar     string `json:"downPaymentDollar"`
	PercentDown           string `json:"percentDown"`
	LoanAmount            string `json:"loanAmount"`
	BalanceOfDownPayment  string `json:"balanceOfDownPayment"`
}

// OfferDTO is the offer draft together with its computed financials
type OfferDTO struct {
	Offer      Offer         `json:"offer"`
	Financials FinancialsDTO `json:"financials"`
}

type DocumentDTO struct {
	ID             string         `json:"id"`
	Title          string         `json:"title"`
	Type           DocumentType   `json:"type"`
	Size           int64          `json:"size"`
	Pages          int            `json:"pages,omitempty"`
	SendForSigning bool           `json:"sendForSigning"`
	Status         DocumentStatus `json:"status"`
	Temp           bool           `json:"temp,omitempty"`
	Deleted        bool           `json:"deleted,omitempty"`
	Source         DocumentSource `json:"source,omitempty"`
}

type RecipientDTO struct {
	ID       string        `json:"id"`
	Type     RecipientType `json:"type"`
	Role     RecipientRole `json:"role"`
	Name     string        `json:"name"`
	Email    string        `json:"email"`
	Required bool          `json:"required"`
	Order    int           `json:"order"`
}

type PurchaseAgreementDTO struct {
	Mode          PurchaseAgreementMode `json:"mode,omitempty"`
	DocumentID    string                `json:"documentId,omitempty"`
	CanRegenerate bool                  `json:"canRegenerate"`
}

type SigningDTO struct {
	DocuSignConnected bool             `json:"docuSignConnected"`
	Status            ConnectionStatus `json:"status"`
	Recipients        []RecipientDTO   `json:"recipients"`
	Skip              bool             `json:"skip"`
}

type WorkflowDTO struct {
	Documents         []DocumentDTO        `json:"documents"`
	PurchaseAgreement PurchaseAgreementDTO `json:"purchaseAgreement"`
	Signing           SigningDTO           `json:"signing"`
}

// ValidationIssueDTO is a single blocking issue or warning
type ValidationIssueDTO struct {
	Field   string `json:"field,omitempty"`
	Message string `json:"message"`
}

// WizardDTO describes where the session is in the wizard
type WizardDTO struct {
	Step       string   `json:"step"`
	Steps      []string `json:"steps"`
	CanGoBack  bool     `json:"canGoBack"`
	Submitting bool     `json:"submitting"`
	OfferID    string   `json:"offerId,omitempty"`
	LastError  string   `json:"lastError,omitempty"`
}

// SessionDTO is the full state of a wizard session
type SessionDTO struct {
	ID        uuid.UUID   `json:"id"`
	ListingID string      `json:"listingId"`
	Wizard    WizardDTO   `json:"wizard"`
	Offer     OfferDTO    `json:"offer"`
	Workflow  WorkflowDTO `json:"workflow"`
	CreatedAt string      `json:"createdAt"` // ISO 8601
	UpdatedAt string      `json:"updatedAt"` // ISO 8601
}

// ReviewDTO is the final review of an offer before submission
type ReviewDTO struct {
	CanSubmit  bool                 `json:"canSubmit"`
	Issues     []ValidationIssueDTO `json:"issues"`
	Warnings   []ValidationIssueDTO `json:"warnings"`
	Offer      Offer                `json:"offer"`
	Financials FinancialsDTO        `json:"financials"`
	Documents  []DocumentDTO        `json:"documents"`
	Recipients []RecipientDTO       `json:"recipients"`
}

// DocuSignDTO is the e-signature connection state of a session
type DocuSignDTO struct {
	Status    ConnectionStatus `json:"status"`
	Connected bool             `json:"connected"`
	AuthURL   string           `json:"authUrl,omitempty"`
	PopupOpen bool             `json:"popupOpen"`
	LastError string           `json:"lastError,omitempty"`
}

// AnalysisResultDTO is returned after a purchase agreement has been analyzed
type AnalysisResultDTO struct {
	Document      DocumentDTO `json:"document"`
	AppliedFields []string    `json:"appliedFields"`
	SkippedFields []string    `json:"skippedFields,omitempty"`
	Offer         OfferDTO    `json:"offer"`
}

// SubmissionDocument is a document reference in the submission payload
type SubmissionDocument struct {
	ID             string       `json:"id"`
	Type           DocumentType `json:"type"`
	Title          string       `json:"title"`
	SendForSigning bool         `json:"sendForSigning"`
}

// OfferSubmission is the payload posted to the backend offer-creation endpoint
type OfferSubmission struct {
	Offer
	LoanAmount            string               `json:"loanAmount"`
	PercentDown           string               `json:"percentDown"`
	PercentInitialDeposit string               `json:"percentInitialDeposit"`
	DownPaymentDollar     string               `json:"downPaymentDollar"`
	InitialDepositDollar  string               `json:"initialDepositDollar"`
	BalanceOfDownPayment  string               `json:"balanceOfDownPayment"`
	Documents             []SubmissionDocument `json:"documents"`
	PurchaseAgreementMode PurchaseAgreementMode `json:"purchaseAgreementMode,omitempty"`
	SkipSigning           bool                 `json:"skipSigning"`
	Recipients            []RecipientDTO       `json:"recipients"`
	IdempotencyKey        string               `json:"idempotencyKey"`
}

// SubmitResponseDTO is returned after a successful submission
type SubmitResponseDTO struct {
	OfferID     string    `json:"offerId"`
	SubmittedAt time.Time `json:"submittedAt"`
}

// Request DTOs

type CreateSessionRequest struct {
	ListingID string `json:"listingId" validate:"required,max=100"`
}

type UpdateDocumentTypeRequest struct {
	Type DocumentType `json:"type" validate:"required"`
}

type SetSendForSigningRequest struct {
	SendForSigning bool `json:"sendForSigning"`
}

type AddRecipientRequest struct {
	Type  RecipientType `json:"type" validate:"required,oneof=agent buyer"`
	Role  RecipientRole `json:"role" validate:"omitempty,oneof=agent signer"`
	Name  string        `json:"name" validate:"max=200"`
	Email string        `json:"email" validate:"omitempty,email,max=255"`
}

type UpdateRecipientRequest struct {
	Name  string `json:"name" validate:"max=200"`
	Email string `json:"email" validate:"omitempty,email,max=255"`
}

type SetPurchaseAgreementRequest struct {
	Mode       PurchaseAgreementMode `json:"mode" validate:"required,oneof=upload generate skip"`
	DocumentID string                `json:"documentId,omitempty"`
}

// DocuSignMessageRequest relays a cross-window message received by the browser
type DocuSignMessageRequest struct {
	Origin string `json:"origin" validate:"required"`
	Type   string `json:"type" validate:"required"`
}
