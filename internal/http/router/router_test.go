package router_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/straye-as/offer-workflow/internal/auth"
	"github.com/straye-as/offer-workflow/internal/backend"
	"github.com/straye-as/offer-workflow/internal/config"
	"github.com/straye-as/offer-workflow/internal/domain"
	"github.com/straye-as/offer-workflow/internal/http/handler"
	"github.com/straye-as/offer-workflow/internal/http/middleware"
	"github.com/straye-as/offer-workflow/internal/http/router"
	"github.com/straye-as/offer-workflow/internal/service"
	"github.com/straye-as/offer-workflow/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const signingKey = "router-test-signing-key-0123456789"

var pdfBytes = []byte("%PDF-1.4\n1 0 obj\n<< /Type /Catalog >>\nendobj\ntrailer\n%%EOF\n")

type fakeBackend struct {
	submitted []domain.OfferSubmission
	connected bool
}

func (f *fakeBackend) UploadDocument(ctx context.Context, target string, file backend.File, key string) (backend.UploadedDocument, error) {
	return backend.UploadedDocument{ID: "doc-" + file.Name, Size: int64(len(file.Data)), Pages: 1}, nil
}

func (f *fakeBackend) AnalyzePurchaseAgreement(ctx context.Context, documentID, pages string) (backend.AnalysisResult, error) {
	return backend.AnalysisResult{
		Success: true,
		MappedData: map[string]json.RawMessage{
			"purchasePrice": json.RawMessage(`"750000"`),
			"buyerName":     json.RawMessage(`"Sam Buyer"`),
		},
	}, nil
}

func (f *fakeBackend) DocuSignStatus(ctx context.Context) (bool, error) { return f.connected, nil }

func (f *fakeBackend) DocuSignAuthURL(ctx context.Context) (string, error) {
	return "https://account-d.docusign.com/oauth/auth?client_id=x", nil
}

func (f *fakeBackend) SubmitOffer(ctx context.Context, s domain.OfferSubmission) (backend.SubmittedOffer, error) {
	f.submitted = append(f.submitted, s)
	return backend.SubmittedOffer{ID: "offer-99"}, nil
}

func (f *fakeBackend) DeleteDocument(ctx context.Context, id string) error { return nil }

func (f *fakeBackend) DisclosurePacket(ctx context.Context, listingID string) (backend.UploadedDocument, error) {
	return backend.UploadedDocument{}, backend.ErrNotFound
}

type testServer struct {
	handler http.Handler
	backend *fakeBackend
}

func newTestServer(t *testing.T) testServer {
	t.Helper()

	cfg := &config.Config{
		App:       config.AppConfig{Environment: "development"},
		Backend:   config.BackendConfig{BaseURL: "https://api.listings.test", AnalysisPages: "1,3-7"},
		DocuSign:  config.DocuSignConfig{ProviderOrigins: []string{"https://account-d.docusign.com"}, AppOrigin: "https://app.listings.test", CallbackMessageType: "DOCUSIGN_OAUTH_CALLBACK", PollAttempts: 3, PollInterval: 1, PopupTimeout: 300, ClosedRecheckDelay: 1},
		Upload:    config.UploadConfig{AnalysisMaxMB: 5, OfferDocumentMaxMB: 5, ListingDocumentMaxMB: 1},
		Documents: config.DocumentsConfig{DeletePolicy: service.DeletePolicyOptimistic},
		Session:   config.SessionConfig{IdleTTL: 120},
		Auth:      config.AuthConfig{SigningKey: signingKey},
		Security:  config.SecurityConfig{ContentTypeNosniff: true, FrameOptions: "DENY"},
		RateLimit: config.RateLimitConfig{Enabled: false},
	}
	logger := zap.NewNop()

	drafts, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	fb := &fakeBackend{}
	sessions := service.NewSessionService(cfg, fb, drafts, logger)

	reg := prometheus.NewRegistry()
	metrics, err := middleware.NewMetrics(reg)
	require.NoError(t, err)

	rt := router.NewRouter(
		cfg, logger, reg, metrics,
		map[string]router.ReadinessCheck{
			"storage": func(r *http.Request) error { return nil },
		},
		auth.NewMiddleware(cfg, logger),
		middleware.NewRateLimiter(&cfg.RateLimit, logger),
		handler.NewSessionHandler(sessions, logger),
		handler.NewOfferHandler(sessions, service.NewOfferService(logger), logger),
		handler.NewDocumentHandler(sessions, service.NewDocumentService(cfg, fb, logger), cfg.Upload, logger),
		handler.NewDocuSignHandler(sessions, service.NewSigningService(logger), logger),
		handler.NewWizardHandler(sessions, service.NewWizardService(logger), logger),
	)

	return testServer{handler: rt.Setup(), backend: fb}
}

func token(t *testing.T, agentID string) string {
	t.Helper()
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":     agentID,
		"name":    "Jane Agent",
		"email":   "jane@brokerage.test",
		"license": "DRE-0123",
		"exp":     time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte(signingKey))
	require.NoError(t, err)
	return signed
}

func (s testServer) do(t *testing.T, agentID, method, path string, body io.Reader, contentType string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, body)
	if agentID != "" {
		req.Header.Set("Authorization", "Bearer "+token(t, agentID))
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	w := httptest.NewRecorder()
	s.handler.ServeHTTP(w, req)
	return w
}

func (s testServer) json(t *testing.T, agentID, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	return s.do(t, agentID, method, path, r, "application/json")
}

func (s testServer) upload(t *testing.T, agentID, path, filename string, data []byte, fields map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	part, err := mw.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
	require.NoError(t, mw.Close())
	return s.do(t, agentID, http.MethodPost, path, &buf, mw.FormDataContentType())
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

func (s testServer) createSession(t *testing.T, agentID string) domain.SessionDTO {
	t.Helper()
	w := s.json(t, agentID, http.MethodPost, "/api/v1/sessions", `{"listingId":"listing-7"}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return decode[domain.SessionDTO](t, w)
}

func TestHealthAndMetrics(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, "", http.MethodGet, "/health", nil, "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
	assert.NotEmpty(t, w.Header().Get(middleware.RequestIDHeader))

	w = s.do(t, "", http.MethodGet, "/health/ready", nil, "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"storage"`)

	w = s.do(t, "", http.MethodGet, "/metrics", nil, "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "http_requests_total")
}

func TestAPI_RequiresToken(t *testing.T) {
	s := newTestServer(t)

	w := s.json(t, "", http.MethodPost, "/api/v1/sessions", `{"listingId":"listing-7"}`)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestCreateSession(t *testing.T) {
	s := newTestServer(t)

	w := s.json(t, "agent-1", http.MethodPost, "/api/v1/sessions", `{"listingId":"listing-7"}`)
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "no-store", w.Header().Get("Cache-Control"))

	sess := decode[domain.SessionDTO](t, w)
	assert.Equal(t, "/api/v1/sessions/"+sess.ID.String(), w.Header().Get("Location"))
	assert.Equal(t, "listing-7", sess.ListingID)
	assert.Equal(t, "upload_rpa", sess.Wizard.Step)
	assert.Equal(t, "Jane Agent", sess.Offer.Offer.PresentingAgent.Name)
	assert.Len(t, sess.Workflow.Signing.Recipients, 2)

	again := s.createSession(t, "agent-1")
	assert.Equal(t, sess.ID, again.ID, "open session for the same listing is reused")
}

func TestCreateSession_ValidationError(t *testing.T) {
	s := newTestServer(t)

	w := s.json(t, "agent-1", http.MethodPost, "/api/v1/sessions", `{}`)
	require.Equal(t, http.StatusBadRequest, w.Code)

	problem := decode[domain.APIError](t, w)
	assert.Equal(t, domain.ErrorTypeValidation, problem.Type)
	assert.Contains(t, problem.Errors, "listingId")
}

func TestGetSession_NotFoundAndForeign(t *testing.T) {
	s := newTestServer(t)
	sess := s.createSession(t, "agent-1")

	w := s.json(t, "agent-1", http.MethodGet, "/api/v1/sessions/not-a-uuid", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.json(t, "agent-2", http.MethodGet, "/api/v1/sessions/"+sess.ID.String(), "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = s.json(t, "agent-1", http.MethodGet, "/api/v1/sessions/"+sess.ID.String(), "")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestUpdateOffer_CashSyncsDownPayment(t *testing.T) {
	s := newTestServer(t)
	sess := s.createSession(t, "agent-1")
	base := "/api/v1/sessions/" + sess.ID.String()

	w := s.json(t, "agent-1", http.MethodPatch, base+"/offer", `{"purchasePrice":"500000","financeType":"CASH"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	offer := decode[domain.OfferDTO](t, w)
	assert.Equal(t, "500000", offer.Offer.DownPayment)
	assert.Equal(t, domain.AmountModeDollar, offer.Offer.DownPaymentMode)

	w = s.json(t, "agent-1", http.MethodGet, base+"/offer/financials", "")
	require.Equal(t, http.StatusOK, w.Code)
	fin := decode[domain.FinancialsDTO](t, w)
	assert.Equal(t, offer.Financials, fin)
}

func TestUpdateOffer_Rejections(t *testing.T) {
	s := newTestServer(t)
	base := "/api/v1/sessions/" + s.createSession(t, "agent-1").ID.String()

	tests := []struct {
		name   string
		body   string
		status int
	}{
		{"derived field", `{"loanAmount":"100"}`, http.StatusBadRequest},
		{"bad finance type", `{"financeType":"BARTER"}`, http.StatusBadRequest},
		{"negative escrow", `{"closeOfEscrowDays":-1}`, http.StatusBadRequest},
		{"expiry before submission", `{"submittedAt":"2030-01-02T00:00:00Z","expiresAt":"2030-01-01T00:00:00Z"}`, http.StatusUnprocessableEntity},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := s.json(t, "agent-1", http.MethodPatch, base+"/offer", tt.body)
			assert.Equal(t, tt.status, w.Code, w.Body.String())
		})
	}
}

func TestDocuments_UploadAndAnalyze(t *testing.T) {
	s := newTestServer(t)
	base := "/api/v1/sessions/" + s.createSession(t, "agent-1").ID.String()

	w := s.upload(t, "agent-1", base+"/documents", "notes.txt", []byte("plain text"), nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.upload(t, "agent-1", base+"/documents", "proof.pdf", pdfBytes, map[string]string{
		"type":           string(domain.DocumentTypeProofOfFunds),
		"sendForSigning": "true",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	doc := decode[domain.DocumentDTO](t, w)
	assert.Equal(t, "doc-proof.pdf", doc.ID)
	assert.True(t, doc.SendForSigning)

	w = s.upload(t, "agent-1", base+"/documents/analyze", "rpa.pdf", pdfBytes, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	result := decode[domain.AnalysisResultDTO](t, w)
	assert.ElementsMatch(t, []string{"buyerName", "purchasePrice"}, result.AppliedFields)
	assert.Equal(t, "Sam Buyer", result.Offer.Offer.BuyerName)
	assert.Equal(t, domain.DocumentTypePurchaseAgreement, result.Document.Type)
}

func TestRecipients_RequiredCannotBeRemoved(t *testing.T) {
	s := newTestServer(t)
	base := "/api/v1/sessions/" + s.createSession(t, "agent-1").ID.String()

	w := s.json(t, "agent-1", http.MethodDelete, base+"/signing/recipients/"+service.BuyerRecipientID, "")
	assert.Equal(t, http.StatusConflict, w.Code)

	w = s.json(t, "agent-1", http.MethodPost, base+"/signing/recipients", `{"type":"buyer","name":"Co Buyer","email":"co@buyer.test"}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	added := decode[domain.RecipientDTO](t, w)

	w = s.json(t, "agent-1", http.MethodDelete, base+"/signing/recipients/"+added.ID, "")
	require.Equal(t, http.StatusOK, w.Code)
	wf := decode[domain.WorkflowDTO](t, w)
	assert.Len(t, wf.Signing.Recipients, 2)
}

func TestDocuSign_UntrustedMessageRejected(t *testing.T) {
	s := newTestServer(t)
	base := "/api/v1/sessions/" + s.createSession(t, "agent-1").ID.String()

	w := s.json(t, "agent-1", http.MethodPost, base+"/docusign/connect", "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.True(t, decode[domain.DocuSignDTO](t, w).PopupOpen)

	w = s.json(t, "agent-1", http.MethodPost, base+"/docusign/message", `{"origin":"https://evil.test","type":"DOCUSIGN_OAUTH_CALLBACK"}`)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = s.json(t, "agent-1", http.MethodPost, base+"/docusign/popup-closed", "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	state := decode[domain.DocuSignDTO](t, w)
	assert.False(t, state.Connected)
	assert.Empty(t, state.LastError)
}

func TestDocuSign_MessageFromUntrustedPageRejected(t *testing.T) {
	s := newTestServer(t)
	base := "/api/v1/sessions/" + s.createSession(t, "agent-1").ID.String()

	w := s.json(t, "agent-1", http.MethodPost, base+"/docusign/connect", "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	relay := func(pageOrigin string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, base+"/docusign/message",
			strings.NewReader(`{"origin":"https://account-d.docusign.com","type":"DOCUSIGN_OAUTH_CALLBACK"}`))
		req.Header.Set("Authorization", "Bearer "+token(t, "agent-1"))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Origin", pageOrigin)
		rec := httptest.NewRecorder()
		s.handler.ServeHTTP(rec, req)
		return rec
	}

	s.backend.connected = true
	w = relay("https://evil.test")
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, domain.ErrorTypeForbidden, decode[domain.APIError](t, w).Type)

	w = relay("https://app.listings.test")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.True(t, decode[domain.DocuSignDTO](t, w).Connected)
}

func TestWizard_SubmitFlow(t *testing.T) {
	s := newTestServer(t)
	base := "/api/v1/sessions/" + s.createSession(t, "agent-1").ID.String()

	w := s.json(t, "agent-1", http.MethodPost, base+"/wizard/back", "")
	assert.Equal(t, http.StatusConflict, w.Code)

	w = s.json(t, "agent-1", http.MethodPost, base+"/wizard/submit", "")
	assert.Equal(t, http.StatusConflict, w.Code, "submit only from final review")

	var state domain.WizardDTO
	for state.Step != "final_review" {
		w = s.json(t, "agent-1", http.MethodPost, base+"/wizard/next", "")
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		state = decode[domain.WizardDTO](t, w)
	}

	w = s.json(t, "agent-1", http.MethodPost, base+"/wizard/submit", "")
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, decode[domain.APIError](t, w).Errors, "buyerName")

	w = s.json(t, "agent-1", http.MethodPatch, base+"/offer", `{"buyerName":"Sam Buyer"}`)
	require.Equal(t, http.StatusOK, w.Code)

	w = s.json(t, "agent-1", http.MethodGet, base+"/wizard/review", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, decode[domain.ReviewDTO](t, w).CanSubmit)

	w = s.json(t, "agent-1", http.MethodPost, base+"/wizard/submit", "")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Equal(t, "offer-99", decode[domain.SubmitResponseDTO](t, w).OfferID)
	require.Len(t, s.backend.submitted, 1)
	assert.Equal(t, "Sam Buyer", s.backend.submitted[0].BuyerName)
}

func TestDiscardSession(t *testing.T) {
	s := newTestServer(t)
	base := "/api/v1/sessions/" + s.createSession(t, "agent-1").ID.String()

	w := s.json(t, "agent-1", http.MethodDelete, base, "")
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = s.json(t, "agent-1", http.MethodGet, base, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}
