package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ResponseStore abstracts persistence operations required by ResponseService.
// ListResponses must return a slice the caller may keep and aggregate
// without further locking.
type ResponseStore interface {
	AddResponse(ctx context.Context, r *ResponseRecord) error
	ListResponses(ctx context.Context) ([]ResponseRecord, error)
}

// ResponseService hosts the submission workflow for survey responses.
type ResponseService struct {
	store       ResponseStore
	now         func() time.Time
	idGenerator func() string
}

// NewResponseService constructs a service bound to the provided persistence interface.
func NewResponseService(store ResponseStore) *ResponseService {
	return &ResponseService{
		store:       store,
		now:         func() time.Time { return time.Now().UTC() },
		idGenerator: uuid.NewString,
	}
}

// Submit normalises and stores one response with messages in the default
// locale. The returned record carries the assigned ID and CreatedAt.
func (s *ResponseService) Submit(ctx context.Context, rec ResponseRecord) (*ResponseRecord, error) {
	return s.SubmitLocalized(ctx, rec, "")
}

// SubmitLocalized is Submit with validation messages rendered in locale.
// Training entries of a trained respondent pass the same checks as the
// intake form; a rejected entry returns a *ValidationFailure.
func (s *ResponseService) SubmitLocalized(ctx context.Context, rec ResponseRecord, locale string) (*ResponseRecord, error) {
	if s.store == nil {
		return nil, errors.New("response service store is nil")
	}
	rec.PFNumber = strings.TrimSpace(rec.PFNumber)
	rec.FullName = strings.TrimSpace(rec.FullName)
	if rec.PFNumber == "" || rec.FullName == "" {
		return nil, NewInvalidError("pf_number and full_name required")
	}
	if !rec.HasTraining.Valid() {
		return nil, NewInvalidError("has_training must be yes or no")
	}
	if rec.ReadyForTraining != "" && !rec.ReadyForTraining.Valid() {
		return nil, NewInvalidError("ready_for_training must be yes or no")
	}
	if rec.HasTraining == No {
		rec.TrainingHistory = nil
	} else {
		v := NewFormValidator(locale)
		v.now = s.now
		if err := v.validateHistory(rec.TrainingHistory); err != nil {
			return nil, err
		}
	}
	if rec.NoTrainingReasons == nil {
		rec.NoTrainingReasons = []string{}
	}
	rec.ID = s.idGenerator()
	rec.CreatedAt = s.now()
	if err := s.store.AddResponse(ctx, &rec); err != nil {
		return nil, err
	}
	return &rec, nil
}

// List returns every stored response in submission order.
func (s *ResponseService) List(ctx context.Context) ([]ResponseRecord, error) {
	if s.store == nil {
		return nil, errors.New("response service store is nil")
	}
	return s.store.ListResponses(ctx)
}
