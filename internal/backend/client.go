// Package backend is the HTTP client for the listing platform REST API that owns
// documents, e-signature credentials and submitted offers.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"strings"
	"time"

	"github.com/straye-as/offer-workflow/internal/auth"
	"github.com/straye-as/offer-workflow/internal/config"
	"github.com/straye-as/offer-workflow/internal/domain"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"
)

var (
	// ErrUnavailable wraps transport failures; the call may be retried
	ErrUnavailable = errors.New("backend unavailable")
	// ErrNotFound is returned when the backend has no such resource
	ErrNotFound = errors.New("backend resource not found")
	// ErrInvalidResponse is returned when a response body does not match its contract
	ErrInvalidResponse = errors.New("invalid backend response")
)

// Error is a non-2xx response from the backend
type Error struct {
	Operation string
	Status    int
	Message   string
}

func (e *Error) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s failed with status %d: %s", e.Operation, e.Status, e.Message)
	}
	return fmt.Sprintf("%s failed with status %d", e.Operation, e.Status)
}

// IsRetryable reports whether err is a transport failure or a 5xx response
func IsRetryable(err error) bool {
	if errors.Is(err, ErrUnavailable) {
		return true
	}
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.Status >= 500
}

// ServerMessage returns the message the backend attached to a failed response, if any
func ServerMessage(err error) string {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	return ""
}

// File is an uploaded file held in memory
type File struct {
	Name        string
	ContentType string
	Data        []byte
}

// UploadedDocument is the backend record of a stored document
type UploadedDocument struct {
	ID    string `json:"_id"`
	Title string `json:"title,omitempty"`
	Size  int64  `json:"size"`
	Pages int    `json:"pages"`
}

// AnalysisResult is the outcome of a purchase agreement analysis
type AnalysisResult struct {
	Success    bool                       `json:"success"`
	MappedData map[string]json.RawMessage `json:"mappedData"`
	Message    string                     `json:"message,omitempty"`
}

// SubmittedOffer is the backend record of a submitted offer
type SubmittedOffer struct {
	ID string `json:"_id"`
}

// Client calls the listing platform REST API
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	metrics    *Metrics
	logger     *zap.Logger
}

// NewClient creates a backend client. The transport is instrumented with OpenTelemetry.
func NewClient(cfg *config.BackendConfig, metrics *Metrics, logger *zap.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:  cfg.APIKey,
		httpClient: &http.Client{
			Timeout:   cfg.TimeoutDuration(),
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		metrics: metrics,
		logger:  logger,
	}
}

// UploadDocument stores a file under target (a listing id or package id)
func (c *Client) UploadDocument(ctx context.Context, target string, file File, idempotencyKey string) (UploadedDocument, error) {
	const op = "upload_document"

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="files"; filename=%q`, file.Name))
	header.Set("Content-Type", file.ContentType)
	part, err := mw.CreatePart(header)
	if err != nil {
		return UploadedDocument{}, fmt.Errorf("failed to build upload body: %w", err)
	}
	if _, err := part.Write(file.Data); err != nil {
		return UploadedDocument{}, fmt.Errorf("failed to build upload body: %w", err)
	}
	if err := mw.Close(); err != nil {
		return UploadedDocument{}, fmt.Errorf("failed to build upload body: %w", err)
	}

	var docs []UploadedDocument
	err = c.do(ctx, op, request{
		method:         http.MethodPost,
		path:           "/api/documents/" + url.PathEscape(target),
		body:           &body,
		contentType:    mw.FormDataContentType(),
		idempotencyKey: idempotencyKey,
	}, &docs)
	if err != nil {
		return UploadedDocument{}, err
	}
	if len(docs) == 0 || docs[0].ID == "" {
		return UploadedDocument{}, fmt.Errorf("%w: upload returned no document", ErrInvalidResponse)
	}
	return docs[0], nil
}

// AnalyzePurchaseAgreement runs field extraction on an uploaded purchase agreement.
// A response with success=false is returned as a result, not an error.
func (c *Client) AnalyzePurchaseAgreement(ctx context.Context, documentID, pages string) (AnalysisResult, error) {
	const op = "analyze_rpa"

	payload, err := json.Marshal(map[string]string{
		"documentId": documentID,
		"pages":      pages,
	})
	if err != nil {
		return AnalysisResult{}, err
	}

	var raw json.RawMessage
	err = c.do(ctx, op, request{
		method:      http.MethodPost,
		path:        "/api/documents/analyze-rpa",
		body:        bytes.NewReader(payload),
		contentType: "application/json",
	}, &raw)
	if err != nil {
		return AnalysisResult{}, err
	}

	if err := validateAnalysis(raw); err != nil {
		return AnalysisResult{}, err
	}

	var result AnalysisResult
	if err := json.Unmarshal(raw, &result); err != nil {
		return AnalysisResult{}, fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}
	return result, nil
}

// DeleteDocument removes a stored document
func (c *Client) DeleteDocument(ctx context.Context, documentID string) error {
	return c.do(ctx, "delete_document", request{
		method: http.MethodDelete,
		path:   "/api/documents/" + url.PathEscape(documentID),
	}, nil)
}

// DocuSignStatus reports whether the agent has a working e-signature connection
func (c *Client) DocuSignStatus(ctx context.Context) (bool, error) {
	var resp struct {
		IsConnected bool `json:"isConnected"`
	}
	if err := c.do(ctx, "docusign_status", request{method: http.MethodGet, path: "/api/docusign/status"}, &resp); err != nil {
		return false, err
	}
	return resp.IsConnected, nil
}

// DocuSignAuthURL returns the provider authorization URL to open in the popup
func (c *Client) DocuSignAuthURL(ctx context.Context) (string, error) {
	var resp struct {
		AuthURL string `json:"authUrl"`
	}
	if err := c.do(ctx, "docusign_auth_url", request{method: http.MethodGet, path: "/api/docusign/auth-url"}, &resp); err != nil {
		return "", err
	}
	if resp.AuthURL == "" {
		return "", fmt.Errorf("%w: empty authUrl", ErrInvalidResponse)
	}
	return resp.AuthURL, nil
}

// DisclosurePacket returns the listing's pre-built disclosure signature packet.
// ErrNotFound means the listing has none.
func (c *Client) DisclosurePacket(ctx context.Context, listingID string) (UploadedDocument, error) {
	var doc UploadedDocument
	err := c.do(ctx, "disclosure_packet", request{
		method: http.MethodGet,
		path:   "/api/documents/disclosure-packet/" + url.PathEscape(listingID),
	}, &doc)
	if err != nil {
		return UploadedDocument{}, err
	}
	if doc.ID == "" {
		return UploadedDocument{}, ErrNotFound
	}
	return doc, nil
}

// SubmitOffer posts the final offer. The idempotency key lets the backend drop duplicates.
func (c *Client) SubmitOffer(ctx context.Context, submission domain.OfferSubmission) (SubmittedOffer, error) {
	payload, err := json.Marshal(submission)
	if err != nil {
		return SubmittedOffer{}, err
	}

	var resp SubmittedOffer
	err = c.do(ctx, "submit_offer", request{
		method:         http.MethodPost,
		path:           "/api/offers",
		body:           bytes.NewReader(payload),
		contentType:    "application/json",
		idempotencyKey: submission.IdempotencyKey,
	}, &resp)
	if err != nil {
		return SubmittedOffer{}, err
	}
	if resp.ID == "" {
		return SubmittedOffer{}, fmt.Errorf("%w: submission returned no id", ErrInvalidResponse)
	}
	return resp, nil
}

type request struct {
	method         string
	path           string
	body           io.Reader
	contentType    string
	idempotencyKey string
}

func (c *Client) do(ctx context.Context, op string, r request, out interface{}) (err error) {
	start := time.Now()
	defer func() { c.metrics.observe(op, start, err) }()

	req, err := http.NewRequestWithContext(ctx, r.method, c.baseURL+r.path, r.body)
	if err != nil {
		return fmt.Errorf("failed to build %s request: %w", op, err)
	}
	req.Header.Set("Accept", "application/json")
	if r.contentType != "" {
		req.Header.Set("Content-Type", r.contentType)
	}
	if token := auth.AccessTokenFromContext(ctx); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if c.apiKey != "" {
		req.Header.Set("x-api-key", c.apiKey)
	}
	if r.idempotencyKey != "" {
		req.Header.Set("Idempotency-Key", r.idempotencyKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn("Backend request failed",
			zap.String("operation", op),
			zap.String("path", r.path),
			zap.Error(err),
		)
		return fmt.Errorf("%w: %s: %v", ErrUnavailable, op, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 10<<20))
	if err != nil {
		return fmt.Errorf("%w: %s: reading response: %v", ErrUnavailable, op, err)
	}

	if resp.StatusCode == http.StatusNotFound && r.method == http.MethodGet {
		return ErrNotFound
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &Error{Operation: op, Status: resp.StatusCode, Message: errorMessage(data)}
		c.logger.Warn("Backend returned error",
			zap.String("operation", op),
			zap.Int("status", resp.StatusCode),
			zap.String("message", apiErr.Message),
		)
		return apiErr
	}

	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrInvalidResponse, op, err)
	}
	return nil
}

// errorMessage extracts {"message": ...} or {"error": ...} from an error body
func errorMessage(data []byte) string {
	var body struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(data, &body); err != nil {
		return ""
	}
	if body.Message != "" {
		return body.Message
	}
	return body.Error
}
