package services

import (
	"errors"
	"fmt"
	"slices"
)

// Event drives the intake wizard state machine.
type Event string

const (
	EventNext   Event = "next"
	EventBack   Event = "back"
	EventSubmit Event = "submit"
	EventReset  Event = "reset"
)

var (
	// ErrInvalidTransition is returned for an event the current step does not accept.
	ErrInvalidTransition = errors.New("invalid wizard transition")
	// ErrLastTrainingEntry is returned when removing the only remaining training entry.
	ErrLastTrainingEntry = errors.New("at least one training entry must remain")
	// ErrNoSuchEntry is returned for an out-of-range training entry index.
	ErrNoSuchEntry = errors.New("training entry index out of range")
)

type transitionKey struct {
	from  Step
	event Event
}

var transitions = map[transitionKey]Step{
	{StepIdentification, EventNext}: StepJobInfo,
	{StepIdentification, EventBack}: StepIdentification,
	{StepJobInfo, EventNext}:        StepTrainingStatus,
	{StepJobInfo, EventBack}:        StepIdentification,
	{StepTrainingStatus, EventNext}: StepTrainingDetail,
	{StepTrainingStatus, EventBack}: StepJobInfo,
	{StepTrainingDetail, EventNext}: StepReview,
	{StepTrainingDetail, EventBack}: StepTrainingStatus,
	{StepReview, EventBack}:         StepTrainingDetail,
	{StepReview, EventSubmit}:       StepSubmitted,
	{StepSubmitted, EventBack}:      StepReview,
}

// Wizard owns one intake session: the current step and the draft being edited.
// It performs no I/O; after EventSubmit the caller sends Draft() and fires
// EventReset on success or EventBack to return to the review page.
type Wizard struct {
	step      Step
	draft     *FormDraft
	validator *FormValidator
}

func NewWizard(validator *FormValidator) *Wizard {
	if validator == nil {
		validator = NewFormValidator("")
	}
	return &Wizard{step: StepIdentification, draft: NewFormDraft(), validator: validator}
}

func (w *Wizard) Step() Step        { return w.step }
func (w *Wizard) Draft() *FormDraft { return w.draft }

// Fire applies event. A rejected next or submit returns the *ValidationFailure
// and leaves the step unchanged.
func (w *Wizard) Fire(event Event) (Step, error) {
	if event == EventReset {
		w.step = StepIdentification
		w.draft = NewFormDraft()
		return w.step, nil
	}
	to, ok := transitions[transitionKey{w.step, event}]
	if !ok {
		return w.step, fmt.Errorf("%w: %s from %s", ErrInvalidTransition, event, w.step)
	}
	switch event {
	case EventNext:
		if err := w.validator.ValidateStep(w.step, w.draft); err != nil {
			return w.step, err
		}
	case EventSubmit:
		if err := w.validator.ValidateAll(w.draft); err != nil {
			return w.step, err
		}
	}
	w.step = to
	return w.step, nil
}

func (w *Wizard) Next() (Step, error)   { return w.Fire(EventNext) }
func (w *Wizard) Back() (Step, error)   { return w.Fire(EventBack) }
func (w *Wizard) Submit() (Step, error) { return w.Fire(EventSubmit) }
func (w *Wizard) Reset()                { _, _ = w.Fire(EventReset) }

// AddTraining appends an empty training entry and returns its index.
func (w *Wizard) AddTraining() int {
	w.draft.TrainingHistory = append(w.draft.TrainingHistory, TrainingEntry{})
	return len(w.draft.TrainingHistory) - 1
}

// UpdateTraining replaces entry i.
func (w *Wizard) UpdateTraining(i int, e TrainingEntry) error {
	if i < 0 || i >= len(w.draft.TrainingHistory) {
		return ErrNoSuchEntry
	}
	w.draft.TrainingHistory[i] = e
	return nil
}

// RemoveTraining deletes entry i, keeping at least one entry.
func (w *Wizard) RemoveTraining(i int) error {
	if i < 0 || i >= len(w.draft.TrainingHistory) {
		return ErrNoSuchEntry
	}
	if len(w.draft.TrainingHistory) == 1 {
		return ErrLastTrainingEntry
	}
	w.draft.TrainingHistory = slices.Delete(w.draft.TrainingHistory, i, i+1)
	return nil
}

// ToggleReason checks or unchecks a no-training reason.
func (w *Wizard) ToggleReason(reason string, checked bool) {
	idx := slices.Index(w.draft.NoTrainingReasons, reason)
	switch {
	case checked && idx < 0:
		w.draft.NoTrainingReasons = append(w.draft.NoTrainingReasons, reason)
	case !checked && idx >= 0:
		w.draft.NoTrainingReasons = slices.Delete(w.draft.NoTrainingReasons, idx, idx+1)
	}
}
