package validation_test

import (
	"testing"
	"time"

	"github.com/straye-as/offer-workflow/internal/domain"
	"github.com/straye-as/offer-workflow/internal/validation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func completeOffer() domain.Offer {
	o := domain.NewOffer(time.Date(2026, 5, 4, 9, 0, 0, 0, time.UTC))
	o.BuyerName = "Ada Lovelace"
	o.PresentingAgent = domain.PresentingAgent{Name: "Jane Agent", Email: "jane@brokerage.test"}
	return o
}

func workflowWith(docs ...domain.Document) domain.DocumentWorkflow {
	wf := domain.NewDocumentWorkflow()
	for _, d := range docs {
		wf.AddDocument(d)
	}
	return wf
}

func TestValidateOffer_Complete(t *testing.T) {
	assert.Empty(t, validation.NewEngine().ValidateOffer(completeOffer()))
}

func TestValidateOffer_BlockingIssues(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*domain.Offer)
		field  string
		msg    string
	}{
		{"missing buyer name", func(o *domain.Offer) { o.BuyerName = "  " }, "buyerName", "Buyer name is required"},
		{"missing expiry", func(o *domain.Offer) { o.ExpiresAt = time.Time{} }, "expiresAt", "Offer expiration is required"},
		{"missing agent name", func(o *domain.Offer) { o.PresentingAgent.Name = "" }, "presentingAgent.name", "Presenting agent name is required"},
		{"missing agent email", func(o *domain.Offer) { o.PresentingAgent.Email = "" }, "presentingAgent.email", "Presenting agent email is required"},
		{"malformed agent email", func(o *domain.Offer) { o.PresentingAgent.Email = "jane-at-brokerage" }, "presentingAgent.email", "Must be a valid email address"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			offer := completeOffer()
			tt.mutate(&offer)

			issues := validation.NewEngine().ValidateOffer(offer)
			require.Len(t, issues, 1)
			assert.Equal(t, tt.field, issues[0].Field)
			assert.Equal(t, tt.msg, issues[0].Message)
		})
	}
}

func TestValidateDocuments(t *testing.T) {
	engine := validation.NewEngine()

	assert.Equal(t, []string{validation.WarnNoPurchaseAgreement}, engine.ValidateDocuments(workflowWith()))

	withPA := workflowWith(domain.Document{ID: "pa", Type: domain.DocumentTypePurchaseAgreement})
	assert.Empty(t, engine.ValidateDocuments(withPA))

	generate := workflowWith()
	generate.PurchaseAgreement.Mode = domain.PurchaseAgreementGenerate
	assert.Empty(t, engine.ValidateDocuments(generate))
}

func TestValidateSigning(t *testing.T) {
	engine := validation.NewEngine()

	wf := workflowWith(domain.Document{ID: "d1", Type: domain.DocumentTypeDisclosurePacket, SendForSigning: true})
	wf.AddRecipient(domain.Recipient{ID: "r1", Type: domain.RecipientTypeBuyer, Name: "Ada"})

	assert.Equal(t, []string{validation.WarnSigningNotConnected, validation.WarnRecipientIncomplete}, engine.ValidateSigning(wf))

	wf.SetConnection(domain.ConnectionReady)
	require.NoError(t, wf.UpdateRecipient("r1", "Ada", "ada@example.test"))
	assert.Empty(t, engine.ValidateSigning(wf))

	wf.SetConnection(domain.ConnectionNotConfigured)
	wf.SkipSigning()
	assert.Empty(t, engine.ValidateSigning(wf))
}

func TestReview_WarningsDoNotBlock(t *testing.T) {
	result := validation.NewEngine().Review(completeOffer(), workflowWith())

	assert.True(t, result.CanSubmit)
	assert.Empty(t, result.Issues)
	assert.Equal(t, []string{validation.WarnNoPurchaseAgreement}, result.Warnings)
}

func TestReview_IssuesBlock(t *testing.T) {
	offer := completeOffer()
	offer.BuyerName = ""

	result := validation.NewEngine().Review(offer, workflowWith(domain.Document{ID: "pa", Type: domain.DocumentTypePurchaseAgreement}))

	assert.False(t, result.CanSubmit)
	assert.Len(t, result.Issues, 1)
	assert.Empty(t, result.Warnings)
}
