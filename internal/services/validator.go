package services

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/orci-tz/mafunzo/internal/utils"
)

// Step identifies a page of the intake wizard.
type Step int

const (
	StepIdentification Step = iota
	StepJobInfo
	StepTrainingStatus
	StepTrainingDetail
	StepReview
	StepSubmitted
)

var stepNames = [...]string{"Identification", "JobInfo", "TrainingStatus", "TrainingDetail", "Review", "Submitted"}

func (s Step) String() string {
	if s < 0 || int(s) >= len(stepNames) {
		return fmt.Sprintf("Step(%d)", int(s))
	}
	return stepNames[s]
}

// ValidationCode is the machine-readable reason a step was rejected.
type ValidationCode string

const (
	MissingIdentifier       ValidationCode = "MissingIdentifier"
	IncompleteJobInfo       ValidationCode = "IncompleteJobInfo"
	IncompleteTrainingEntry ValidationCode = "IncompleteTrainingEntry"
	FutureDate              ValidationCode = "FutureDate"
	InvalidDateOrder        ValidationCode = "InvalidDateOrder"
	DurationTypeMismatch    ValidationCode = "DurationTypeMismatch"
	NoReasonGiven           ValidationCode = "NoReasonGiven"
)

// ValidationFailure is a user-correctable rejection of one wizard step.
// Entry is the index of the offending training entry, or -1.
type ValidationFailure struct {
	Step    Step
	Code    ValidationCode
	Message string
	Entry   int
}

func (f *ValidationFailure) Error() string {
	return fmt.Sprintf("%s: %s", f.Code, f.Message)
}

// Average month length used to turn a date span into months.
const daysPerMonth = 30.44

// Tolerance band around the six month boundary between short and long courses.
const (
	shortMaxMonths = 6.5
	longMinMonths  = 5.5
)

// FormValidator gates forward navigation through the intake wizard.
type FormValidator struct {
	now    func() time.Time
	locale string
}

// NewFormValidator returns a validator whose messages are rendered in locale.
func NewFormValidator(locale string) *FormValidator {
	if locale == "" {
		locale = utils.DefaultLocale
	}
	return &FormValidator{
		now:    func() time.Time { return time.Now().UTC() },
		locale: locale,
	}
}

// ValidateStep checks the draft before leaving step. It returns nil when the
// wizard may advance, or a *ValidationFailure.
func (v *FormValidator) ValidateStep(step Step, d *FormDraft) error {
	if d == nil {
		d = NewFormDraft()
	}
	switch step {
	case StepIdentification:
		if d.EmployeeID == "" {
			return v.fail(step, MissingIdentifier, -1)
		}
	case StepJobInfo:
		if d.FullName == "" || d.Position == "" || d.Department == "" || d.Section == "" {
			return v.fail(step, IncompleteJobInfo, -1)
		}
	case StepTrainingDetail:
		if d.HasTraining == Yes {
			return v.validateHistory(d.TrainingHistory)
		}
		if len(d.NoTrainingReasons) == 0 && d.OtherReasons == "" {
			return v.fail(step, NoReasonGiven, -1)
		}
	}
	return nil
}

// ValidateAll runs every gated step in wizard order and returns the first failure.
func (v *FormValidator) ValidateAll(d *FormDraft) error {
	for s := StepIdentification; s < StepReview; s++ {
		if err := v.ValidateStep(s, d); err != nil {
			return err
		}
	}
	return nil
}

func (v *FormValidator) validateHistory(history []TrainingEntry) error {
	for i, h := range history {
		if h.TrainingType == "" || h.Institution == "" || h.Sponsor == "" || h.StartDate == "" || h.EndDate == "" {
			return v.fail(StepTrainingDetail, IncompleteTrainingEntry, i)
		}
	}

	today := truncateDay(v.now())
	for i, h := range history {
		start, okStart := ParseDate(h.StartDate)
		end, okEnd := ParseDate(h.EndDate)
		if !okStart || !okEnd {
			return v.fail(StepTrainingDetail, InvalidDateOrder, i)
		}
		if truncateDay(start).After(today) || truncateDay(end).After(today) {
			return v.fail(StepTrainingDetail, FutureDate, i)
		}
		if !start.Before(end) {
			return v.fail(StepTrainingDetail, InvalidDateOrder, i)
		}
		months := DurationMonths(start, end)
		if h.TrainingType == TrainingShort && months > shortMaxMonths {
			return v.failKey(StepTrainingDetail, DurationTypeMismatch, i, "validation.DurationTypeMismatch.short")
		}
		if h.TrainingType == TrainingLong && months < longMinMonths {
			return v.failKey(StepTrainingDetail, DurationTypeMismatch, i, "validation.DurationTypeMismatch.long")
		}
	}
	return nil
}

func (v *FormValidator) fail(step Step, code ValidationCode, entry int) *ValidationFailure {
	return v.failKey(step, code, entry, "validation."+string(code))
}

func (v *FormValidator) failKey(step Step, code ValidationCode, entry int, key string) *ValidationFailure {
	return &ValidationFailure{
		Step:    step,
		Code:    code,
		Message: utils.T(v.locale, key),
		Entry:   entry,
	}
}

// DurationMonths is the whole-day span between start and end divided by the
// average month length.
func DurationMonths(start, end time.Time) float64 {
	days := math.Ceil(math.Abs(end.Sub(start).Hours()) / 24)
	return days / daysPerMonth
}

// ParseDate accepts YYYY-MM-DD or RFC 3339 text and returns the instant in UTC.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, true
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.UTC(), true
	}
	return time.Time{}, false
}

func truncateDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
