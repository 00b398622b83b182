package wizard_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/straye-as/offer-workflow/internal/backend"
	"github.com/straye-as/offer-workflow/internal/domain"
	"github.com/straye-as/offer-workflow/internal/storage"
	"github.com/straye-as/offer-workflow/internal/store"
	"github.com/straye-as/offer-workflow/internal/validation"
	"github.com/straye-as/offer-workflow/internal/wizard"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeSubmitter struct {
	mu      sync.Mutex
	errs    []error
	keys    []string
	block   chan struct{}
	started chan struct{}
}

func (f *fakeSubmitter) SubmitOffer(ctx context.Context, s domain.OfferSubmission) (backend.SubmittedOffer, error) {
	if f.started != nil {
		close(f.started)
	}
	if f.block != nil {
		<-f.block
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.keys = append(f.keys, s.IdempotencyKey)
	if len(f.errs) > 0 {
		err := f.errs[0]
		f.errs = f.errs[1:]
		if err != nil {
			return backend.SubmittedOffer{}, err
		}
	}
	return backend.SubmittedOffer{ID: "offer-9"}, nil
}

type fixture struct {
	wizard   *wizard.Wizard
	offers   *store.OfferStore
	workflow *store.WorkflowStore
	backend  storage.Storage
}

func newFixture(t *testing.T, sub wizard.Submitter) fixture {
	t.Helper()
	local, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)
	now := func() time.Time { return time.Date(2026, 5, 4, 9, 30, 0, 0, time.UTC) }
	offers, err := store.NewOfferStore(context.Background(), local, store.DraftKey("s1"), now, zap.NewNop())
	require.NoError(t, err)
	workflow := store.NewWorkflowStore()
	return fixture{
		wizard:   wizard.New(offers, workflow, validation.NewEngine(), sub, zap.NewNop()),
		offers:   offers,
		workflow: workflow,
		backend:  local,
	}
}

func strPtr(s string) *string { return &s }

func (f fixture) completeOffer(t *testing.T) {
	t.Helper()
	_, err := f.offers.Update(context.Background(), domain.OfferUpdate{
		ListingID:       strPtr("listing-7"),
		BuyerName:       strPtr("Ada Lovelace"),
		PurchasePrice:   strPtr("500000"),
		PresentingAgent: &domain.PresentingAgent{Name: "Jane Agent", Email: "jane@brokerage.test"},
	})
	require.NoError(t, err)
}

func (f fixture) enableSigning(t *testing.T) {
	t.Helper()
	_, err := f.workflow.Update(func(wf *domain.DocumentWorkflow) error {
		wf.AddDocument(domain.Document{ID: "pa", Type: domain.DocumentTypePurchaseAgreement, SendForSigning: true})
		return nil
	})
	require.NoError(t, err)
}

func (f fixture) toReview(t *testing.T) {
	t.Helper()
	for f.wizard.State().Step != wizard.StepFinalReview {
		_, err := f.wizard.Next()
		require.NoError(t, err)
	}
}

func TestSteps_DocuSignOnlyWhenSigning(t *testing.T) {
	f := newFixture(t, &fakeSubmitter{})

	assert.Equal(t, []wizard.Step{
		wizard.StepUploadRPA, wizard.StepPurchasePrice, wizard.StepDocumentsAndSigning,
		wizard.StepFinalReview, wizard.StepSubmitted,
	}, f.wizard.Steps())

	f.enableSigning(t)
	assert.Contains(t, f.wizard.Steps(), wizard.StepDocuSign)

	_, err := f.workflow.Update(func(wf *domain.DocumentWorkflow) error {
		wf.SkipSigning()
		return nil
	})
	require.NoError(t, err)
	assert.NotContains(t, f.wizard.Steps(), wizard.StepDocuSign)
}

func TestNext_IsUnconditional(t *testing.T) {
	f := newFixture(t, &fakeSubmitter{})
	f.enableSigning(t)

	var visited []wizard.Step
	for {
		step, err := f.wizard.Next()
		if errors.Is(err, wizard.ErrUseSubmit) {
			break
		}
		require.NoError(t, err)
		visited = append(visited, step)
	}

	assert.Equal(t, []wizard.Step{
		wizard.StepPurchasePrice, wizard.StepDocumentsAndSigning, wizard.StepDocuSign, wizard.StepFinalReview,
	}, visited)
}

func TestBack_BlockedWhileOperationInFlight(t *testing.T) {
	f := newFixture(t, &fakeSubmitter{})
	_, err := f.wizard.Back()
	assert.ErrorIs(t, err, wizard.ErrAtFirstStep)

	_, err = f.wizard.Next()
	require.NoError(t, err)

	f.wizard.BeginOperation()
	assert.False(t, f.wizard.State().CanGoBack)
	_, err = f.wizard.Back()
	assert.ErrorIs(t, err, wizard.ErrOperationInProgress)

	f.wizard.EndOperation()
	step, err := f.wizard.Back()
	require.NoError(t, err)
	assert.Equal(t, wizard.StepUploadRPA, step)
}

func TestBack_SkipsDocuSignWhenSigningDisabled(t *testing.T) {
	f := newFixture(t, &fakeSubmitter{})
	f.toReview(t)

	step, err := f.wizard.Back()
	require.NoError(t, err)
	assert.Equal(t, wizard.StepDocumentsAndSigning, step)
}

func TestSubmit_BlockedByIssues(t *testing.T) {
	sub := &fakeSubmitter{}
	f := newFixture(t, sub)
	f.toReview(t)

	_, err := f.wizard.Submit(context.Background())

	var blocked *wizard.SubmitBlockedError
	require.ErrorAs(t, err, &blocked)
	assert.ErrorIs(t, err, wizard.ErrCannotSubmit)
	assert.Len(t, blocked.Issues, 3)
	assert.Empty(t, sub.keys)
	assert.Equal(t, wizard.StepFinalReview, f.wizard.State().Step)
}

func TestSubmit_OnlyFromReview(t *testing.T) {
	f := newFixture(t, &fakeSubmitter{})
	f.completeOffer(t)

	_, err := f.wizard.Submit(context.Background())
	assert.ErrorIs(t, err, wizard.ErrNotAtReview)
}

func TestSubmit_SuccessClearsStores(t *testing.T) {
	sub := &fakeSubmitter{}
	f := newFixture(t, sub)
	f.completeOffer(t)
	f.enableSigning(t)
	f.toReview(t)

	resp, err := f.wizard.Submit(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "offer-9", resp.ID)
	state := f.wizard.State()
	assert.Equal(t, wizard.StepSubmitted, state.Step)
	assert.Equal(t, "offer-9", state.OfferID)
	assert.False(t, state.Submitting)
	assert.Empty(t, f.offers.Get().BuyerName)
	assert.Empty(t, f.workflow.Get().Documents)

	_, err = f.backend.Get(context.Background(), store.DraftKey("s1"))
	assert.ErrorIs(t, err, storage.ErrNotFound)

	_, err = f.wizard.Submit(context.Background())
	assert.ErrorIs(t, err, wizard.ErrAlreadySubmitted)
}

func TestSubmit_FailureStaysAtReviewAndReusesKey(t *testing.T) {
	sub := &fakeSubmitter{errs: []error{backend.ErrUnavailable, nil}}
	f := newFixture(t, sub)
	f.completeOffer(t)
	f.toReview(t)

	_, err := f.wizard.Submit(context.Background())
	assert.ErrorIs(t, err, backend.ErrUnavailable)
	state := f.wizard.State()
	assert.Equal(t, wizard.StepFinalReview, state.Step)
	assert.False(t, state.Submitting)
	assert.ErrorIs(t, state.LastError, backend.ErrUnavailable)
	assert.Equal(t, "Ada Lovelace", f.offers.Get().BuyerName)

	_, err = f.wizard.Submit(context.Background())
	require.NoError(t, err)

	require.Len(t, sub.keys, 2)
	assert.NotEmpty(t, sub.keys[0])
	assert.Equal(t, sub.keys[0], sub.keys[1])
}

func TestReset_ReturnsToFirstStepWithFreshKey(t *testing.T) {
	sub := &fakeSubmitter{errs: []error{backend.ErrUnavailable, nil}}
	f := newFixture(t, sub)
	f.completeOffer(t)
	f.toReview(t)

	_, err := f.wizard.Submit(context.Background())
	require.ErrorIs(t, err, backend.ErrUnavailable)

	f.wizard.Reset()
	state := f.wizard.State()
	assert.Equal(t, wizard.StepUploadRPA, state.Step)
	assert.False(t, state.CanGoBack)
	assert.NoError(t, state.LastError)
	assert.Empty(t, state.OfferID)

	f.toReview(t)
	_, err = f.wizard.Submit(context.Background())
	require.NoError(t, err)

	require.Len(t, sub.keys, 2)
	assert.NotEqual(t, sub.keys[0], sub.keys[1])
}

func TestSubmit_ChangedOfferGetsNewKey(t *testing.T) {
	sub := &fakeSubmitter{errs: []error{backend.ErrUnavailable, nil}}
	f := newFixture(t, sub)
	f.completeOffer(t)
	f.toReview(t)

	_, err := f.wizard.Submit(context.Background())
	require.Error(t, err)

	_, err = f.offers.Update(context.Background(), domain.OfferUpdate{PurchasePrice: strPtr("510000")})
	require.NoError(t, err)
	_, err = f.wizard.Submit(context.Background())
	require.NoError(t, err)

	require.Len(t, sub.keys, 2)
	assert.NotEqual(t, sub.keys[0], sub.keys[1])
}

func TestSubmit_ConcurrentSubmitRejected(t *testing.T) {
	sub := &fakeSubmitter{block: make(chan struct{}), started: make(chan struct{})}
	f := newFixture(t, sub)
	f.completeOffer(t)
	f.toReview(t)

	done := make(chan error, 1)
	go func() {
		_, err := f.wizard.Submit(context.Background())
		done <- err
	}()
	<-sub.started

	assert.True(t, f.wizard.State().Submitting)
	_, err := f.wizard.Submit(context.Background())
	assert.ErrorIs(t, err, wizard.ErrSubmissionInProgress)
	_, err = f.wizard.Back()
	assert.ErrorIs(t, err, wizard.ErrOperationInProgress)

	close(sub.block)
	require.NoError(t, <-done)
	assert.Len(t, sub.keys, 1)
}

func TestSubmit_WaitsForUploads(t *testing.T) {
	f := newFixture(t, &fakeSubmitter{})
	f.completeOffer(t)
	_, err := f.workflow.Update(func(wf *domain.DocumentWorkflow) error {
		wf.AddPlaceholder(domain.UploadingDocument{TempID: "tmp-1"})
		return nil
	})
	require.NoError(t, err)
	f.toReview(t)

	_, err = f.wizard.Submit(context.Background())
	assert.ErrorIs(t, err, wizard.ErrUploadsPending)
}
