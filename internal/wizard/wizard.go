// Package wizard sequences the offer wizard steps and submits the assembled offer.
package wizard

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/straye-as/offer-workflow/internal/backend"
	"github.com/straye-as/offer-workflow/internal/domain"
	"github.com/straye-as/offer-workflow/internal/mapper"
	"github.com/straye-as/offer-workflow/internal/store"
	"github.com/straye-as/offer-workflow/internal/validation"
	"go.uber.org/zap"
)

// Step is a wizard step
type Step string

const (
	StepUploadRPA           Step = "upload_rpa"
	StepPurchasePrice       Step = "purchase_price"
	StepDocumentsAndSigning Step = "documents_and_signing"
	StepDocuSign            Step = "docusign"
	StepFinalReview         Step = "final_review"
	StepSubmitted           Step = "submitted"
)

// allSteps is the canonical order; StepDocuSign is skipped when signing is disabled
var allSteps = []Step{
	StepUploadRPA,
	StepPurchasePrice,
	StepDocumentsAndSigning,
	StepDocuSign,
	StepFinalReview,
	StepSubmitted,
}

var (
	ErrOperationInProgress  = errors.New("an upload, analysis or signing operation is in progress")
	ErrSubmissionInProgress = errors.New("the offer is already being submitted")
	ErrAtFirstStep          = errors.New("already at the first step")
	ErrUseSubmit            = errors.New("submit the offer to leave the final review")
	ErrNotAtReview          = errors.New("the offer can only be submitted from the final review")
	ErrAlreadySubmitted     = errors.New("the offer has already been submitted")
	ErrUploadsPending       = errors.New("wait for uploads to finish before submitting")
	ErrCannotSubmit         = errors.New("the offer is missing required fields")
)

// SubmitBlockedError lists the issues that prevent submission
type SubmitBlockedError struct {
	Issues []validation.Issue
}

func (e *SubmitBlockedError) Error() string {
	return fmt.Sprintf("%s (%d issues)", ErrCannotSubmit.Error(), len(e.Issues))
}

func (e *SubmitBlockedError) Unwrap() error { return ErrCannotSubmit }

// Submitter posts the assembled offer
type Submitter interface {
	SubmitOffer(ctx context.Context, submission domain.OfferSubmission) (backend.SubmittedOffer, error)
}

// State is a point-in-time view of the wizard
type State struct {
	Step       Step
	Steps      []Step
	CanGoBack  bool
	Submitting bool
	OfferID    string
	LastError  error
}

// Wizard tracks the current step of one session
type Wizard struct {
	offers    *store.OfferStore
	workflow  *store.WorkflowStore
	engine    *validation.Engine
	submitter Submitter
	logger    *zap.Logger

	mu          sync.Mutex
	step        Step
	inFlight    int
	submitting  bool
	key         string
	fingerprint string
	offerID     string
	lastErr     error
}

func New(offers *store.OfferStore, workflow *store.WorkflowStore, engine *validation.Engine, submitter Submitter, logger *zap.Logger) *Wizard {
	return &Wizard{
		offers:    offers,
		workflow:  workflow,
		engine:    engine,
		submitter: submitter,
		logger:    logger,
		step:      StepUploadRPA,
	}
}

// Steps returns the steps that apply to the current workflow
func (w *Wizard) Steps() []Step {
	wf := w.workflow.Get()
	return stepsFor(&wf)
}

func stepsFor(wf *domain.DocumentWorkflow) []Step {
	steps := make([]Step, 0, len(allSteps))
	for _, s := range allSteps {
		if s == StepDocuSign && !wf.SigningEnabled() {
			continue
		}
		steps = append(steps, s)
	}
	return steps
}

func position(s Step) int {
	for i, step := range allSteps {
		if step == s {
			return i
		}
	}
	return -1
}

// State returns the current wizard state
func (w *Wizard) State() State {
	steps := w.Steps()

	w.mu.Lock()
	defer w.mu.Unlock()
	return State{
		Step:       w.step,
		Steps:      steps,
		CanGoBack:  w.canGoBackLocked(),
		Submitting: w.submitting,
		OfferID:    w.offerID,
		LastError:  w.lastErr,
	}
}

func (w *Wizard) canGoBackLocked() bool {
	return w.inFlight == 0 && !w.submitting && w.step != StepUploadRPA && w.step != StepSubmitted
}

// Next moves forward one step. It never validates; submission is the only gate.
func (w *Wizard) Next() (Step, error) {
	steps := w.Steps()

	w.mu.Lock()
	defer w.mu.Unlock()

	switch w.step {
	case StepSubmitted:
		return w.step, ErrAlreadySubmitted
	case StepFinalReview:
		return w.step, ErrUseSubmit
	}

	current := position(w.step)
	for _, s := range steps {
		if position(s) > current {
			w.step = s
			break
		}
	}
	return w.step, nil
}

// Back moves back one step unless an operation is in flight
func (w *Wizard) Back() (Step, error) {
	steps := w.Steps()

	w.mu.Lock()
	defer w.mu.Unlock()

	switch {
	case w.step == StepSubmitted:
		return w.step, ErrAlreadySubmitted
	case w.inFlight > 0 || w.submitting:
		return w.step, ErrOperationInProgress
	case w.step == StepUploadRPA:
		return w.step, ErrAtFirstStep
	}

	current := position(w.step)
	for i := len(steps) - 1; i >= 0; i-- {
		if position(steps[i]) < current {
			w.step = steps[i]
			break
		}
	}
	return w.step, nil
}

// BeginOperation marks an upload, analysis or signing call as in flight. Every call
// must be paired with EndOperation.
func (w *Wizard) BeginOperation() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.inFlight++
}

func (w *Wizard) EndOperation() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.inFlight > 0 {
		w.inFlight--
	}
}

// Review validates the current offer and workflow
func (w *Wizard) Review() (validation.Result, domain.Offer, domain.DocumentWorkflow) {
	offer := w.offers.Get()
	wf := w.workflow.Get()
	return w.engine.Review(offer, wf), offer, wf
}

// Submit sends the assembled offer once. Retrying an unchanged offer after a failure
// reuses the same idempotency key. On success both stores are cleared.
func (w *Wizard) Submit(ctx context.Context) (backend.SubmittedOffer, error) {
	w.mu.Lock()
	switch {
	case w.step == StepSubmitted:
		w.mu.Unlock()
		return backend.SubmittedOffer{}, ErrAlreadySubmitted
	case w.step != StepFinalReview:
		w.mu.Unlock()
		return backend.SubmittedOffer{}, ErrNotAtReview
	case w.submitting:
		w.mu.Unlock()
		return backend.SubmittedOffer{}, ErrSubmissionInProgress
	}

	result, offer, wf := w.Review()
	if wf.HasPending() {
		w.mu.Unlock()
		return backend.SubmittedOffer{}, ErrUploadsPending
	}
	if !result.CanSubmit {
		w.mu.Unlock()
		return backend.SubmittedOffer{}, &SubmitBlockedError{Issues: result.Issues}
	}

	submission := mapper.ToSubmission(offer, wf, "")
	if fp := fingerprint(submission); fp != w.fingerprint || w.key == "" {
		w.fingerprint = fp
		w.key = uuid.NewString()
	}
	submission.IdempotencyKey = w.key
	w.submitting = true
	w.lastErr = nil
	w.mu.Unlock()

	resp, err := w.submitter.SubmitOffer(ctx, submission)

	w.mu.Lock()
	w.submitting = false
	if err != nil {
		w.lastErr = err
		w.mu.Unlock()
		w.logger.Warn("Offer submission failed",
			zap.String("listing_id", offer.ListingID),
			zap.String("idempotency_key", submission.IdempotencyKey),
			zap.Error(err),
		)
		return backend.SubmittedOffer{}, err
	}
	w.step = StepSubmitted
	w.offerID = resp.ID
	w.key, w.fingerprint = "", ""
	w.mu.Unlock()

	w.logger.Info("Offer submitted",
		zap.String("listing_id", offer.ListingID),
		zap.String("offer_id", resp.ID),
	)

	if _, err := w.offers.Reset(ctx); err != nil {
		w.logger.Warn("Failed to clear offer draft after submission", zap.Error(err))
	}
	w.workflow.Reset()
	return resp, nil
}

// Reset returns the wizard to the first step
func (w *Wizard) Reset() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.step = StepUploadRPA
	w.inFlight = 0
	w.submitting = false
	w.key, w.fingerprint = "", ""
	w.offerID = ""
	w.lastErr = nil
}

func fingerprint(s domain.OfferSubmission) string {
	data, err := json.Marshal(s)
	if err != nil {
		return ""
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
