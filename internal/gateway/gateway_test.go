package gateway_test

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/straye-as/offer-workflow/internal/backend"
	"github.com/straye-as/offer-workflow/internal/config"
	"github.com/straye-as/offer-workflow/internal/domain"
	"github.com/straye-as/offer-workflow/internal/gateway"
	"github.com/straye-as/offer-workflow/internal/storage"
	"github.com/straye-as/offer-workflow/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var pdfBytes = []byte("%PDF-1.4\n1 0 obj\n<< /Type /Catalog >>\nendobj\ntrailer\n%%EOF\n")

type fakeBackend struct {
	mu        sync.Mutex
	uploadErr error
	uploads   []string
	analyze   func(documentID string) (backend.AnalysisResult, error)
	release   chan struct{}
}

func (f *fakeBackend) UploadDocument(ctx context.Context, target string, file backend.File, idempotencyKey string) (backend.UploadedDocument, error) {
	f.mu.Lock()
	f.uploads = append(f.uploads, target)
	f.mu.Unlock()
	if f.release != nil {
		<-f.release
	}
	if f.uploadErr != nil {
		return backend.UploadedDocument{}, f.uploadErr
	}
	return backend.UploadedDocument{ID: "doc-rpa", Size: int64(len(file.Data)), Pages: 12}, nil
}

func (f *fakeBackend) AnalyzePurchaseAgreement(ctx context.Context, documentID, pages string) (backend.AnalysisResult, error) {
	if f.analyze == nil {
		return backend.AnalysisResult{Success: true}, nil
	}
	return f.analyze(documentID)
}

func limits() config.UploadConfig {
	return config.UploadConfig{AnalysisMaxMB: 50, OfferDocumentMaxMB: 50, ListingDocumentMaxMB: 10}
}

func setup(t *testing.T, fb *fakeBackend) (*gateway.Gateway, *store.OfferStore, *store.WorkflowStore) {
	t.Helper()
	local, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)
	now := func() time.Time { return time.Date(2026, 5, 4, 9, 30, 0, 0, time.UTC) }
	offers, err := store.NewOfferStore(context.Background(), local, store.DraftKey("s1"), now, zap.NewNop())
	require.NoError(t, err)
	workflow := store.NewWorkflowStore()
	return gateway.NewGateway(fb, offers, workflow, limits(), "1,3-7", zap.NewNop()), offers, workflow
}

func rpaFile() backend.File {
	return backend.File{Name: "rpa.pdf", ContentType: "application/pdf", Data: pdfBytes}
}

func raw(s string) json.RawMessage { return json.RawMessage(s) }

func TestAnalyze_MergesExtractedFields(t *testing.T) {
	fb := &fakeBackend{analyze: func(id string) (backend.AnalysisResult, error) {
		assert.Equal(t, "doc-rpa", id)
		return backend.AnalysisResult{Success: true, MappedData: map[string]json.RawMessage{
			"purchasePrice": raw(`750000`),
			"buyerName":     raw(`"Grace Hopper"`),
			"financeType":   raw(`"BARTER"`),
			"unknownField":  raw(`"x"`),
			"inspectionContingency": raw(`{"days": 10, "waived": false}`),
		}}, nil
	}}
	gw, offers, workflow := setup(t, fb)

	outcome, err := gw.Analyze(context.Background(), rpaFile(), "listing-7")
	require.NoError(t, err)

	assert.Equal(t, []string{"buyerName", "inspectionContingency", "purchasePrice"}, outcome.Applied)
	assert.Equal(t, []string{"financeType", "unknownField"}, outcome.Skipped)

	offer := offers.Get()
	assert.Equal(t, "750000", offer.PurchasePrice)
	assert.Equal(t, "Grace Hopper", offer.BuyerName)
	assert.Equal(t, domain.FinanceTypeLoan, offer.FinanceType)
	assert.Equal(t, 10, offer.InspectionContingency.Days)

	wf := workflow.Get()
	doc, ok := wf.Document("doc-rpa")
	require.True(t, ok)
	assert.Equal(t, domain.DocumentTypePurchaseAgreement, doc.Type)
	assert.Equal(t, domain.DocumentSourceAnalysis, doc.Source)
	assert.Equal(t, "rpa.pdf", doc.Title)
	assert.Equal(t, domain.PurchaseAgreementUpload, wf.PurchaseAgreement.Mode)
	assert.Equal(t, "doc-rpa", wf.PurchaseAgreement.DocumentID)
	assert.Equal(t, []string{"listing-7"}, fb.uploads)
}

func TestAnalyze_FailureLeavesStoresUnchanged(t *testing.T) {
	fb := &fakeBackend{analyze: func(string) (backend.AnalysisResult, error) {
		return backend.AnalysisResult{Success: false, Message: "Unreadable PDF"}, nil
	}}
	gw, offers, workflow := setup(t, fb)
	offerBefore := offers.Get()
	workflowBefore := workflow.Get()

	_, err := gw.Analyze(context.Background(), rpaFile(), "listing-7")

	require.Error(t, err)
	assert.Equal(t, "Unreadable PDF", err.Error())
	assert.ErrorIs(t, err, gateway.ErrAnalysisFailed)
	assert.Equal(t, offerBefore, offers.Get())
	assert.Equal(t, workflowBefore, workflow.Get())
	assert.False(t, gw.Busy())
}

func TestAnalyze_BackendErrorUsesServerMessageOrFallback(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"server message", &backend.Error{Operation: "analyze_rpa", Status: 422, Message: "Pages out of range"}, "Pages out of range"},
		{"no message", &backend.Error{Operation: "analyze_rpa", Status: 500}, gateway.DefaultAnalysisFailureMessage},
		{"transport", backend.ErrUnavailable, gateway.DefaultAnalysisFailureMessage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gw, offers, _ := setup(t, &fakeBackend{analyze: func(string) (backend.AnalysisResult, error) {
				return backend.AnalysisResult{}, tt.err
			}})

			_, err := gw.Analyze(context.Background(), rpaFile(), "listing-7")

			assert.EqualError(t, err, tt.want)
			assert.ErrorIs(t, err, tt.err)
			assert.Equal(t, domain.NewOffer(offers.Get().SubmittedAt), offers.Get())
		})
	}
}

func TestAnalyze_InconsistentDatesAreSkipped(t *testing.T) {
	fb := &fakeBackend{analyze: func(string) (backend.AnalysisResult, error) {
		return backend.AnalysisResult{Success: true, MappedData: map[string]json.RawMessage{
			"buyerName": raw(`"Ada"`),
			"expiresAt": raw(`"2020-01-01T00:00:00Z"`),
		}}, nil
	}}
	gw, offers, _ := setup(t, fb)

	outcome, err := gw.Analyze(context.Background(), rpaFile(), "listing-7")
	require.NoError(t, err)

	assert.Equal(t, []string{"buyerName"}, outcome.Applied)
	assert.Contains(t, outcome.Skipped, "expiresAt")
	assert.Equal(t, "Ada", offers.Get().BuyerName)
}

func TestAnalyze_KeepsSessionListing(t *testing.T) {
	fb := &fakeBackend{analyze: func(string) (backend.AnalysisResult, error) {
		return backend.AnalysisResult{Success: true, MappedData: map[string]json.RawMessage{
			"listingId": raw(`"someone-elses-listing"`),
			"buyerName": raw(`"Ada"`),
		}}, nil
	}}
	gw, offers, _ := setup(t, fb)
	listing := "listing-7"
	_, err := offers.Update(context.Background(), domain.OfferUpdate{ListingID: &listing})
	require.NoError(t, err)

	outcome, err := gw.Analyze(context.Background(), rpaFile(), "listing-7")
	require.NoError(t, err)

	assert.Equal(t, []string{"buyerName"}, outcome.Applied)
	assert.Equal(t, []string{"listingId"}, outcome.Skipped)
	assert.Equal(t, "listing-7", offers.Get().ListingID)
	assert.Equal(t, "listing-7", outcome.Offer.ListingID)
}

func TestAnalyze_RejectsConcurrentRun(t *testing.T) {
	fb := &fakeBackend{release: make(chan struct{})}
	gw, _, _ := setup(t, fb)

	done := make(chan error, 1)
	go func() {
		_, err := gw.Analyze(context.Background(), rpaFile(), "listing-7")
		done <- err
	}()

	require.Eventually(t, gw.Busy, time.Second, 5*time.Millisecond)
	_, err := gw.Analyze(context.Background(), rpaFile(), "listing-7")
	assert.ErrorIs(t, err, gateway.ErrAnalysisInProgress)

	close(fb.release)
	assert.NoError(t, <-done)
	assert.False(t, gw.Busy())
}

func TestValidate(t *testing.T) {
	gw, _, _ := setup(t, &fakeBackend{})
	big := append(append([]byte{}, pdfBytes...), make([]byte, 10<<20)...)

	tests := []struct {
		name    string
		file    backend.File
		context gateway.UploadContext
		wantErr error
	}{
		{"pdf", rpaFile(), gateway.ContextOfferDocument, nil},
		{"empty", backend.File{Name: "a.pdf"}, gateway.ContextOfferDocument, gateway.ErrEmptyFile},
		{"wrong extension", backend.File{Name: "a.png", ContentType: "image/png", Data: pdfBytes}, gateway.ContextOfferDocument, gateway.ErrNotPDF},
		{"renamed image", backend.File{Name: "a.pdf", ContentType: "application/pdf", Data: []byte("\x89PNG\r\n\x1a\n0000")}, gateway.ContextOfferDocument, gateway.ErrNotPDF},
		{"listing limit", backend.File{Name: "big.pdf", Data: big}, gateway.ContextListingDocument, gateway.ErrFileTooLarge},
		{"offer limit allows same file", backend.File{Name: "big.pdf", Data: big}, gateway.ContextOfferDocument, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := gw.Validate(tt.file, tt.context)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestUpload_WrapsBackendFailure(t *testing.T) {
	gw, _, _ := setup(t, &fakeBackend{uploadErr: errors.New("boom")})

	_, err := gw.Upload(context.Background(), rpaFile(), "pkg-1", gateway.ContextOfferDocument)
	assert.ErrorIs(t, err, gateway.ErrUploadFailed)
}

func TestAnalyze_InvalidFileNeverUploads(t *testing.T) {
	fb := &fakeBackend{}
	gw, _, _ := setup(t, fb)

	_, err := gw.Analyze(context.Background(), backend.File{Name: "notes.txt", Data: []byte("hello")}, "listing-7")

	assert.ErrorIs(t, err, gateway.ErrNotPDF)
	assert.Empty(t, fb.uploads)
}

func TestMapFields(t *testing.T) {
	update, applied, skipped := gateway.MapFields(map[string]json.RawMessage{
		"closeOfEscrowDays": raw(`30`),
		"initialDeposit":    raw(`3`),
		"downPaymentMode":   raw(`"dollar"`),
		"sellerRentBackDays": raw(`-2`),
		"specialTerms":      raw(`null`),
		"buyerName":         raw(`{"first":"Ada"}`),
		"listingId":         raw(`"someone-elses-listing"`),
	})

	assert.Equal(t, []string{"closeOfEscrowDays", "downPaymentMode", "initialDeposit"}, applied)
	assert.Equal(t, []string{"buyerName", "listingId", "sellerRentBackDays", "specialTerms"}, skipped)
	assert.Nil(t, update.ListingID)
	require.NotNil(t, update.CloseOfEscrowDays)
	assert.Equal(t, 30, *update.CloseOfEscrowDays)
	require.NotNil(t, update.InitialDeposit)
	assert.Equal(t, "3", *update.InitialDeposit)
	require.NotNil(t, update.DownPaymentMode)
	assert.Equal(t, domain.AmountModeDollar, *update.DownPaymentMode)
	assert.Nil(t, update.BuyerName)
}
