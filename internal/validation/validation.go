// Package validation derives blocking issues and advisory warnings for the final review.
package validation

import (
	"errors"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/straye-as/offer-workflow/internal/domain"
)

// Warning messages
const (
	WarnNoPurchaseAgreement = "No purchase agreement is attached to this offer."
	WarnSigningNotConnected = "Documents are selected for signing but DocuSign is not connected."
	WarnRecipientIncomplete = "Every signing recipient needs a name and email address."
)

// Issue is a blocking problem on a single field
type Issue struct {
	Field   string
	Message string
}

// Result is the outcome of a validation pass
type Result struct {
	Issues    []Issue
	Warnings  []string
	CanSubmit bool
}

// submissionFields are the offer fields a submission cannot go out without
type submissionFields struct {
	BuyerName  string    `json:"buyerName" validate:"required"`
	ExpiresAt  time.Time `json:"expiresAt" validate:"required"`
	AgentName  string    `json:"presentingAgent.name" validate:"required"`
	AgentEmail string    `json:"presentingAgent.email" validate:"required,email"`
}

var fieldMessages = map[string]string{
	"buyerName":             "Buyer name is required",
	"expiresAt":             "Offer expiration is required",
	"presentingAgent.name":  "Presenting agent name is required",
	"presentingAgent.email": "Presenting agent email is required",
}

// Engine validates offers and document workflows
type Engine struct {
	validate *validator.Validate
}

func NewEngine() *Engine {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return &Engine{validate: v}
}

// ValidateOffer returns the blocking issues for an offer
func (e *Engine) ValidateOffer(offer domain.Offer) []Issue {
	fields := submissionFields{
		BuyerName:  strings.TrimSpace(offer.BuyerName),
		ExpiresAt:  offer.ExpiresAt,
		AgentName:  strings.TrimSpace(offer.PresentingAgent.Name),
		AgentEmail: strings.TrimSpace(offer.PresentingAgent.Email),
	}

	err := e.validate.Struct(fields)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []Issue{{Message: err.Error()}}
	}

	issues := make([]Issue, 0, len(verrs))
	for _, fe := range verrs {
		msg := domain.GetValidationMessage(fe.Tag())
		if fe.Tag() == "required" {
			if m, ok := fieldMessages[fe.Field()]; ok {
				msg = m
			}
		}
		issues = append(issues, Issue{Field: fe.Field(), Message: msg})
	}
	return issues
}

// ValidateDocuments warns when no purchase agreement is attached or requested for generation
func (e *Engine) ValidateDocuments(wf domain.DocumentWorkflow) []string {
	if wf.HasPurchaseAgreement() || wf.PurchaseAgreement.Mode == domain.PurchaseAgreementGenerate {
		return nil
	}
	return []string{WarnNoPurchaseAgreement}
}

// ValidateSigning warns about signing that cannot go out as configured
func (e *Engine) ValidateSigning(wf domain.DocumentWorkflow) []string {
	if !wf.SigningEnabled() {
		return nil
	}

	var warnings []string
	if !wf.Signing.DocuSignConnected {
		warnings = append(warnings, WarnSigningNotConnected)
	}
	for _, r := range wf.Signing.Recipients {
		if strings.TrimSpace(r.Name) == "" || strings.TrimSpace(r.Email) == "" {
			warnings = append(warnings, WarnRecipientIncomplete)
			break
		}
	}
	return warnings
}

// Review combines every rule for the final review step. Warnings never block submission.
func (e *Engine) Review(offer domain.Offer, wf domain.DocumentWorkflow) Result {
	issues := e.ValidateOffer(offer)
	warnings := append(e.ValidateDocuments(wf), e.ValidateSigning(wf)...)
	return Result{
		Issues:    issues,
		Warnings:  warnings,
		CanSubmit: len(issues) == 0,
	}
}
