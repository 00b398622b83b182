// Package esign drives the e-signature provider connection: the authorization popup,
// the callback message and status polling.
package esign

import (
	"context"
	"errors"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/straye-as/offer-workflow/internal/backend"
	"github.com/straye-as/offer-workflow/internal/config"
	"github.com/straye-as/offer-workflow/internal/domain"
	"github.com/straye-as/offer-workflow/internal/store"
	"go.uber.org/zap"
)

var (
	ErrUntrustedMessage = errors.New("callback message rejected")
	ErrPopupTimeout     = errors.New("DocuSign authorization timed out. Please try again.")
	ErrConnectFailed    = errors.New("could not confirm the DocuSign connection. Please try again.")
	ErrNoPopup          = errors.New("no authorization window is open")
)

// StatusBackend is the subset of the backend client the connector calls
type StatusBackend interface {
	DocuSignStatus(ctx context.Context) (bool, error)
	DocuSignAuthURL(ctx context.Context) (string, error)
}

// State is a point-in-time view of the connection
type State struct {
	Status    domain.ConnectionStatus
	AuthURL   string
	PopupOpen bool
	LastError error
}

// Connector owns the connection state machine for one wizard session
type Connector struct {
	backend  StatusBackend
	workflow *store.WorkflowStore
	cfg      config.DocuSignConfig
	origins  map[string]bool
	logger   *zap.Logger

	mu               sync.Mutex
	status           domain.ConnectionStatus
	popup            Popup
	authURL          string
	callbackReceived bool
	timer            *time.Timer
	lastErr          error
}

// NewConnector creates a connector. Callback messages are trusted from the provider
// origins, the app origin and the backend origin.
func NewConnector(b StatusBackend, workflow *store.WorkflowStore, cfg *config.Config, logger *zap.Logger) *Connector {
	origins := make(map[string]bool)
	for _, o := range cfg.DocuSign.ProviderOrigins {
		origins[normalizeOrigin(o)] = true
	}
	if cfg.DocuSign.AppOrigin != "" {
		origins[normalizeOrigin(cfg.DocuSign.AppOrigin)] = true
	}
	if u, err := url.Parse(cfg.Backend.BaseURL); err == nil && u.Host != "" {
		origins[normalizeOrigin(u.Scheme+"://"+u.Host)] = true
	}

	return &Connector{
		backend:  b,
		workflow: workflow,
		cfg:      cfg.DocuSign,
		origins:  origins,
		logger:   logger,
		status:   domain.ConnectionNotConfigured,
	}
}

func normalizeOrigin(o string) string {
	return strings.ToLower(strings.TrimRight(strings.TrimSpace(o), "/"))
}

// State returns the current connection state
func (c *Connector) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return State{
		Status:    c.status,
		AuthURL:   c.authURL,
		PopupOpen: c.popup != nil && !c.popup.Closed(),
		LastError: c.lastErr,
	}
}

// Refresh queries the provider status. Any failure leaves the connection not configured.
func (c *Connector) Refresh(ctx context.Context) (domain.ConnectionStatus, error) {
	connected, err := c.backend.DocuSignStatus(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()
	if err != nil {
		c.logger.Warn("DocuSign status check failed", zap.Error(err))
		c.setStatusLocked(domain.ConnectionNotConfigured)
		return c.status, err
	}
	if connected {
		c.lastErr = nil
		c.setStatusLocked(domain.ConnectionReady)
	} else {
		c.setStatusLocked(domain.ConnectionNotConfigured)
	}
	return c.status, nil
}

// Connect fetches an authorization URL and opens it in popup. The popup is
// force-closed when no callback arrives within the popup timeout.
func (c *Connector) Connect(ctx context.Context, popup Popup) (string, error) {
	authURL, err := c.backend.DocuSignAuthURL(ctx)
	if err != nil {
		c.mu.Lock()
		c.lastErr = err
		c.setStatusLocked(domain.ConnectionNotConfigured)
		c.mu.Unlock()
		return "", err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.stopTimerLocked()
	if c.popup != nil && c.popup != popup && !c.popup.Closed() {
		c.popup.Close()
	}
	if err := popup.Open(authURL); err != nil {
		c.lastErr = err
		c.setStatusLocked(domain.ConnectionNotConfigured)
		return "", err
	}

	c.popup = popup
	c.authURL = authURL
	c.callbackReceived = false
	c.lastErr = nil
	c.setStatusLocked(domain.ConnectionAwaitingCallback)

	if timeout := c.cfg.PopupTimeoutDuration(); timeout > 0 {
		c.timer = time.AfterFunc(timeout, func() { c.expire(popup) })
	}

	c.logger.Info("DocuSign authorization started")
	return authURL, nil
}

func (c *Connector) expire(popup Popup) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.popup != popup || c.callbackReceived {
		return
	}
	if !popup.Closed() {
		popup.Close()
	}
	c.timer = nil
	c.lastErr = ErrPopupTimeout
	c.setStatusLocked(domain.ConnectionNotConfigured)
	c.logger.Warn("DocuSign authorization popup timed out")
}

// Trusted reports whether a message from origin with msgType is the provider callback.
// The origin is the one the browser observed and relayed, so this check is only as strong
// as the relaying client; completion is always confirmed against the backend status.
func (c *Connector) Trusted(origin, msgType string) bool {
	return c.TrustedOrigin(origin) && msgType == c.cfg.CallbackMessageType
}

// TrustedOrigin reports whether origin is one of the provider, app or backend origins
func (c *Connector) TrustedOrigin(origin string) bool {
	return c.origins[normalizeOrigin(origin)]
}

// HandleMessage processes a callback message relayed from the opener window.
// Completion is handled once; later messages are ignored.
func (c *Connector) HandleMessage(ctx context.Context, origin, msgType string) error {
	if !c.Trusted(origin, msgType) {
		c.logger.Warn("Rejected DocuSign callback message",
			zap.String("origin", origin),
			zap.String("type", msgType),
		)
		return ErrUntrustedMessage
	}

	c.mu.Lock()
	if c.callbackReceived {
		c.mu.Unlock()
		return nil
	}
	c.callbackReceived = true
	c.stopTimerLocked()
	if c.popup != nil && !c.popup.Closed() {
		c.popup.Close()
	}
	c.setStatusLocked(domain.ConnectionConnecting)
	c.mu.Unlock()

	return c.poll(ctx)
}

func (c *Connector) poll(ctx context.Context) error {
	attempts := c.cfg.PollAttempts
	if attempts < 1 {
		attempts = 1
	}

	for attempt := 1; attempt <= attempts; attempt++ {
		if attempt > 1 {
			if err := sleep(ctx, c.cfg.PollIntervalDuration()); err != nil {
				c.finish(domain.ConnectionNotConfigured, err)
				return err
			}
		}

		connected, err := c.backend.DocuSignStatus(ctx)
		if err != nil {
			c.logger.Debug("DocuSign status poll failed", zap.Int("attempt", attempt), zap.Error(err))
			if !backend.IsRetryable(err) {
				break
			}
			continue
		}
		if connected {
			c.finish(domain.ConnectionReady, nil)
			c.logger.Info("DocuSign connected", zap.Int("attempt", attempt))
			return nil
		}
	}

	c.finish(domain.ConnectionNotConfigured, ErrConnectFailed)
	return ErrConnectFailed
}

// PopupClosed handles the agent closing the popup. Without a callback, the status
// is re-checked once after a short delay. A disconnected result is not an error.
func (c *Connector) PopupClosed(ctx context.Context) error {
	c.mu.Lock()
	if c.popup == nil {
		c.mu.Unlock()
		return ErrNoPopup
	}
	if c.callbackReceived {
		c.mu.Unlock()
		return nil
	}
	c.stopTimerLocked()
	c.popup.Close()
	c.mu.Unlock()

	if err := sleep(ctx, c.cfg.ClosedRecheckDelayDuration()); err != nil {
		return err
	}

	// The callback may have arrived during the delay
	c.mu.Lock()
	handled := c.callbackReceived
	c.mu.Unlock()
	if handled {
		return nil
	}

	connected, err := c.backend.DocuSignStatus(ctx)
	if err != nil {
		c.logger.Warn("DocuSign status re-check failed", zap.Error(err))
		c.finish(domain.ConnectionNotConfigured, nil)
		return nil
	}
	if connected {
		c.finish(domain.ConnectionReady, nil)
		return nil
	}
	c.finish(domain.ConnectionNotConfigured, nil)
	return nil
}

func (c *Connector) finish(status domain.ConnectionStatus, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lastErr = err
	c.setStatusLocked(status)
}

func (c *Connector) stopTimerLocked() {
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
}

func (c *Connector) setStatusLocked(status domain.ConnectionStatus) {
	c.status = status
	if c.workflow == nil {
		return
	}
	_, _ = c.workflow.Update(func(wf *domain.DocumentWorkflow) error {
		wf.SetConnection(status)
		return nil
	})
}

// Close stops the popup timer
func (c *Connector) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stopTimerLocked()
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
