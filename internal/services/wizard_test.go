package services

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestWizard() *Wizard {
	return NewWizard(newTestValidator("sw"))
}

func fillToReview(t *testing.T, w *Wizard) {
	t.Helper()
	d := w.Draft()
	d.EmployeeID = "1234"
	d.FullName = "Asha Juma"
	d.Position = "Afisa"
	d.Department = "HR"
	d.Section = "Mafunzo"
	d.HasTraining = Yes
	require.NoError(t, w.UpdateTraining(0, entry(TrainingLong, "2015-01-01", "2015-09-01")))
	for i := 0; i < 4; i++ {
		_, err := w.Next()
		require.NoError(t, err)
	}
	require.Equal(t, StepReview, w.Step())
}

func TestWizardStartsAtIdentification(t *testing.T) {
	w := newTestWizard()
	assert.Equal(t, StepIdentification, w.Step())
	assert.Equal(t, No, w.Draft().HasTraining)
	assert.Equal(t, Yes, w.Draft().ReadyForTraining)
	assert.Len(t, w.Draft().TrainingHistory, 1)
}

func TestWizardNextBlockedByValidation(t *testing.T) {
	w := newTestWizard()
	step, err := w.Next()
	assert.Equal(t, StepIdentification, step)
	var vf *ValidationFailure
	require.True(t, errors.As(err, &vf))
	assert.Equal(t, MissingIdentifier, vf.Code)

	w.Draft().EmployeeID = "1234"
	step, err = w.Next()
	require.NoError(t, err)
	assert.Equal(t, StepJobInfo, step)
}

func TestWizardBackAndSubmit(t *testing.T) {
	w := newTestWizard()

	// back on the first step stays put
	step, err := w.Back()
	require.NoError(t, err)
	assert.Equal(t, StepIdentification, step)

	fillToReview(t, w)

	_, err = w.Next()
	assert.ErrorIs(t, err, ErrInvalidTransition)

	step, err = w.Back()
	require.NoError(t, err)
	assert.Equal(t, StepTrainingDetail, step)
	_, err = w.Submit()
	assert.ErrorIs(t, err, ErrInvalidTransition)

	_, err = w.Next()
	require.NoError(t, err)
	step, err = w.Submit()
	require.NoError(t, err)
	assert.Equal(t, StepSubmitted, step)

	// a failed send returns to review with the draft intact
	step, err = w.Back()
	require.NoError(t, err)
	assert.Equal(t, StepReview, step)
	assert.Equal(t, "1234", w.Draft().EmployeeID)
}

func TestWizardSubmitRevalidates(t *testing.T) {
	w := newTestWizard()
	fillToReview(t, w)
	w.Draft().FullName = ""
	step, err := w.Submit()
	assert.Equal(t, StepReview, step)
	var vf *ValidationFailure
	require.True(t, errors.As(err, &vf))
	assert.Equal(t, IncompleteJobInfo, vf.Code)
}

func TestWizardResetClearsDraft(t *testing.T) {
	w := newTestWizard()
	fillToReview(t, w)
	_, err := w.Submit()
	require.NoError(t, err)

	w.Reset()
	assert.Equal(t, StepIdentification, w.Step())
	assert.Empty(t, w.Draft().EmployeeID)
	assert.Equal(t, No, w.Draft().HasTraining)
}

func TestWizardTrainingEntries(t *testing.T) {
	w := newTestWizard()
	assert.Equal(t, 1, w.AddTraining())
	assert.Len(t, w.Draft().TrainingHistory, 2)

	require.NoError(t, w.UpdateTraining(1, TrainingEntry{Institution: "Mzumbe"}))
	assert.ErrorIs(t, w.UpdateTraining(5, TrainingEntry{}), ErrNoSuchEntry)

	require.NoError(t, w.RemoveTraining(0))
	require.Len(t, w.Draft().TrainingHistory, 1)
	assert.Equal(t, "Mzumbe", w.Draft().TrainingHistory[0].Institution)
	assert.ErrorIs(t, w.RemoveTraining(0), ErrLastTrainingEntry)
	assert.ErrorIs(t, w.RemoveTraining(-1), ErrNoSuchEntry)
}

func TestWizardToggleReason(t *testing.T) {
	w := newTestWizard()
	r := NoTrainingReasonOptions[0]
	w.ToggleReason(r, true)
	w.ToggleReason(r, true)
	assert.Equal(t, []string{r}, w.Draft().NoTrainingReasons)
	w.ToggleReason(r, false)
	assert.Empty(t, w.Draft().NoTrainingReasons)
}

func TestStepString(t *testing.T) {
	assert.Equal(t, "TrainingDetail", StepTrainingDetail.String())
	assert.Equal(t, "Step(9)", Step(9).String())
}
