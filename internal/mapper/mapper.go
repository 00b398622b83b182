package mapper

import (
	"fmt"
	"time"

	"github.com/straye-as/offer-workflow/internal/calculator"
	"github.com/straye-as/offer-workflow/internal/domain"
	"github.com/straye-as/offer-workflow/internal/validation"
)

// ToFinancialsDTO formats calculator output for display
func ToFinancialsDTO(r calculator.Result) domain.FinancialsDTO {
	return domain.FinancialsDTO{
		PurchasePrice:         calculator.Format(r.PurchasePrice),
		InitialDepositDollar:  calculator.Format(r.InitialDepositDollar),
		PercentInitialDeposit: calculator.Format(r.PercentInitialDeposit),
		DownPaymentDollar:     calculator.Format(r.DownPaymentDollar),
		PercentDown:           calculator.Format(r.PercentDown),
		LoanAmount:            calculator.Format(r.LoanAmount),
		BalanceOfDownPayment:  calculator.Format(r.BalanceOfDownPayment),
	}
}

// ToOfferDTO converts an offer draft to OfferDTO, computing its financials
func ToOfferDTO(offer domain.Offer) domain.OfferDTO {
	return domain.OfferDTO{
		Offer:      offer,
		Financials: ToFinancialsDTO(calculator.FromOffer(offer)),
	}
}

// ToDocumentDTO converts either kind of document entry to DocumentDTO
func ToDocumentDTO(entry domain.DocumentEntry) domain.DocumentDTO {
	switch e := entry.(type) {
	case domain.UploadingDocument:
		return domain.DocumentDTO{
			ID:             e.TempID,
			Title:          e.Title,
			Type:           e.Type,
			Size:           e.Size,
			SendForSigning: e.SendForSigning,
			Status:         e.Status(),
			Temp:           true,
		}
	case domain.Document:
		return domain.DocumentDTO{
			ID:             e.ID,
			Title:          e.Title,
			Type:           e.Type,
			Size:           e.Size,
			Pages:          e.Pages,
			SendForSigning: e.SendForSigning,
			Status:         e.Status(),
			Deleted:        e.Deleted,
			Source:         e.Source,
		}
	}
	return domain.DocumentDTO{ID: entry.EntryID(), Status: entry.Status()}
}

// ToRecipientDTO converts Recipient to RecipientDTO
func ToRecipientDTO(r domain.Recipient) domain.RecipientDTO {
	return domain.RecipientDTO{
		ID:       r.ID,
		Type:     r.Type,
		Role:     r.Role,
		Name:     r.Name,
		Email:    r.Email,
		Required: r.Required,
		Order:    r.Order,
	}
}

func toRecipientDTOs(recipients []domain.Recipient) []domain.RecipientDTO {
	dtos := make([]domain.RecipientDTO, len(recipients))
	for i, r := range recipients {
		dtos[i] = ToRecipientDTO(r)
	}
	return dtos
}

// ToWorkflowDTO converts DocumentWorkflow to WorkflowDTO
func ToWorkflowDTO(wf domain.DocumentWorkflow) domain.WorkflowDTO {
	docs := make([]domain.DocumentDTO, len(wf.Documents))
	for i, entry := range wf.Documents {
		docs[i] = ToDocumentDTO(entry)
	}
	return domain.WorkflowDTO{
		Documents: docs,
		PurchaseAgreement: domain.PurchaseAgreementDTO{
			Mode:          wf.PurchaseAgreement.Mode,
			DocumentID:    wf.PurchaseAgreement.DocumentID,
			CanRegenerate: wf.PurchaseAgreement.CanRegenerate,
		},
		Signing: domain.SigningDTO{
			DocuSignConnected: wf.Signing.DocuSignConnected,
			Status:            wf.Signing.Status,
			Recipients:        toRecipientDTOs(wf.Signing.Recipients),
			Skip:              wf.Signing.Skip,
		},
	}
}

// ToReviewDTO builds the final review from the validation result and current state
func ToReviewDTO(result validation.Result, offer domain.Offer, wf domain.DocumentWorkflow) domain.ReviewDTO {
	issues := make([]domain.ValidationIssueDTO, len(result.Issues))
	for i, issue := range result.Issues {
		issues[i] = domain.ValidationIssueDTO{Field: issue.Field, Message: issue.Message}
	}
	warnings := make([]domain.ValidationIssueDTO, len(result.Warnings))
	for i, w := range result.Warnings {
		warnings[i] = domain.ValidationIssueDTO{Message: w}
	}

	active := wf.Active()
	docs := make([]domain.DocumentDTO, len(active))
	for i, d := range active {
		docs[i] = ToDocumentDTO(d)
	}

	return domain.ReviewDTO{
		CanSubmit:  result.CanSubmit,
		Issues:     issues,
		Warnings:   warnings,
		Offer:      offer,
		Financials: ToFinancialsDTO(calculator.FromOffer(offer)),
		Documents:  docs,
		Recipients: toRecipientDTOs(wf.Signing.Recipients),
	}
}

// ToSubmission merges the offer and its document workflow into the submission payload.
// Only confirmed, non-removed documents are included; recipients only when signing is enabled.
func ToSubmission(offer domain.Offer, wf domain.DocumentWorkflow, idempotencyKey string) domain.OfferSubmission {
	fin := calculator.FromOffer(offer)

	active := wf.Active()
	docs := make([]domain.SubmissionDocument, len(active))
	for i, d := range active {
		docs[i] = domain.SubmissionDocument{
			ID:             d.ID,
			Type:           d.Type,
			Title:          d.Title,
			SendForSigning: d.SendForSigning && !wf.Signing.Skip,
		}
	}

	recipients := []domain.RecipientDTO{}
	if wf.SigningEnabled() {
		recipients = toRecipientDTOs(wf.Signing.Recipients)
	}

	return domain.OfferSubmission{
		Offer:                 offer,
		LoanAmount:            calculator.Format(fin.LoanAmount),
		PercentDown:           calculator.Format(fin.PercentDown),
		PercentInitialDeposit: calculator.Format(fin.PercentInitialDeposit),
		DownPaymentDollar:     calculator.Format(fin.DownPaymentDollar),
		InitialDepositDollar:  calculator.Format(fin.InitialDepositDollar),
		BalanceOfDownPayment:  calculator.Format(fin.BalanceOfDownPayment),
		Documents:             docs,
		PurchaseAgreementMode: wf.PurchaseAgreement.Mode,
		SkipSigning:           wf.Signing.Skip,
		Recipients:            recipients,
		IdempotencyKey:        idempotencyKey,
	}
}

// FormatTime renders timestamps the way every DTO exposes them
func FormatTime(t time.Time) string {
	return t.UTC().Format("2006-01-02T15:04:05Z")
}

// FormatError creates a formatted error message
func FormatError(entity, operation string, err error) error {
	return fmt.Errorf("failed to %s %s: %w", operation, entity, err)
}
