package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/orci-tz/mafunzo/internal/cli/formatter"
	"github.com/orci-tz/mafunzo/internal/services"
	"github.com/orci-tz/mafunzo/internal/utils"
	"github.com/orci-tz/mafunzo/pkg/client"
)

type action string

const (
	actionNext        action = "next"
	actionBack        action = "back"
	actionSubmit      action = "submit"
	actionAddEntry    action = "add"
	actionRemoveEntry action = "remove"
	actionCancel      action = "cancel"
)

func (a action) label() string {
	switch a {
	case actionNext:
		return "Endelea"
	case actionBack:
		return "Rudi Nyuma"
	case actionSubmit:
		return "Wasilisha"
	case actionAddEntry:
		return "Ongeza Mafunzo Mengine"
	case actionRemoveEntry:
		return "Ondoa Mafunzo ya Mwisho"
	case actionCancel:
		return "Ghairi"
	}
	return string(a)
}

var errIntakeCancelled = errors.New("intake cancelled")

// prompter fills in one wizard page of w's draft and returns the chosen
// navigation. failure is the rejection of the previous attempt, if any.
type prompter interface {
	Page(step services.Step, w *services.Wizard, failure *services.ValidationFailure) (action, error)
}

// intakeSession drives a Wizard with answers from a prompter and submits the
// finished draft through the API client.
type intakeSession struct {
	client      *client.Client
	locale      string
	wizard      *services.Wizard
	employees   []services.Employee
	departments []services.Department
	out         io.Writer
}

func newIntakeSession(app *App, out io.Writer) *intakeSession {
	return &intakeSession{
		client: app.Client,
		locale: app.locale(),
		wizard: services.NewWizard(services.NewFormValidator(app.locale())),
		out:    out,
	}
}

// loadDirectory fetches employees and departments for autofill. A failure
// only costs the autofill, so it is reported and otherwise ignored.
func (s *intakeSession) loadDirectory(ctx context.Context) {
	emps, err := s.client.FetchEmployees(ctx)
	if err != nil {
		fmt.Fprintln(s.out, formatter.Dim(utils.T(s.locale, "directory.employeesUnavailable")+client.UserMessage(err, s.locale)))
	} else {
		s.employees = emps
	}
	depts, err := s.client.FetchDepartments(ctx)
	if err != nil {
		fmt.Fprintln(s.out, formatter.Dim(utils.T(s.locale, "directory.departmentsUnavailable")+client.UserMessage(err, s.locale)))
	} else {
		s.departments = depts
	}
}

func (s *intakeSession) autofill() {
	d := s.wizard.Draft()
	if m, ok := services.LookupEmployee(s.employees, s.departments, d.EmployeeID); ok {
		services.ApplyMatch(d, m)
	}
}

func (s *intakeSession) run(ctx context.Context, p prompter) (*services.ResponseRecord, error) {
	var failure *services.ValidationFailure
	for {
		step := s.wizard.Step()
		act, err := p.Page(step, s.wizard, failure)
		if err != nil {
			return nil, err
		}
		failure = nil

		switch act {
		case actionCancel:
			return nil, errIntakeCancelled
		case actionAddEntry:
			s.wizard.AddTraining()
		case actionRemoveEntry:
			if err := s.wizard.RemoveTraining(len(s.wizard.Draft().TrainingHistory) - 1); err != nil {
				fmt.Fprintln(s.out, formatter.Error(err.Error()))
			}
		case actionBack:
			if _, err := s.wizard.Back(); err != nil {
				return nil, err
			}
		case actionNext:
			if _, err := s.wizard.Next(); err != nil {
				if failure = s.report(err); failure == nil {
					return nil, err
				}
				continue
			}
			if step == services.StepIdentification {
				s.autofill()
			}
		case actionSubmit:
			if _, err := s.wizard.Submit(); err != nil {
				if failure = s.report(err); failure == nil {
					return nil, err
				}
				continue
			}
			rec := services.DraftToRecord(s.wizard.Draft(), s.departments)
			stored, err := s.client.SubmitResponse(ctx, rec)
			if err != nil {
				fmt.Fprintln(s.out, formatter.Error(client.UserMessage(err, s.locale)))
				// Keep the draft so the user can retry from the review page.
				if _, backErr := s.wizard.Back(); backErr != nil {
					return nil, backErr
				}
				if errors.Is(err, client.ErrUnauthorized) {
					return nil, err
				}
				continue
			}
			s.wizard.Reset()
			return stored, nil
		default:
			return nil, fmt.Errorf("unknown action %q", act)
		}
	}
}

// report prints a validation failure and returns it, or returns nil for any
// other error.
func (s *intakeSession) report(err error) *services.ValidationFailure {
	var vf *services.ValidationFailure
	if !errors.As(err, &vf) {
		return nil
	}
	fmt.Fprintln(s.out, formatter.Error(vf.Message))
	return vf
}

// draftPrompter replays a prepared draft: it advances through every page and
// submits at the review page. Any rejection ends the run.
type draftPrompter struct{}

func (draftPrompter) Page(step services.Step, _ *services.Wizard, failure *services.ValidationFailure) (action, error) {
	if failure != nil {
		return "", failure
	}
	if step == services.StepReview {
		return actionSubmit, nil
	}
	return actionNext, nil
}

func newIntakeCmd(app *App) *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "intake",
		Short: "Fill in the training history survey",
		Long: "Walks through the survey pages interactively. With --file, a saved\n" +
			"draft (JSON) is validated page by page and submitted without prompts.",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			out := cmd.OutOrStdout()
			s := newIntakeSession(app, out)

			var p prompter
			if file != "" {
				draft, err := readDraft(file)
				if err != nil {
					return err
				}
				*s.wizard.Draft() = *draft
				p = draftPrompter{}
			} else {
				s.loadDirectory(ctx)
				p = &huhPrompter{departments: s.departments, out: out}
			}

			stored, err := s.run(ctx, p)
			if errors.Is(err, errIntakeCancelled) {
				fmt.Fprintln(out, formatter.Dim("Imeghairiwa."))
				return nil
			}
			if err != nil {
				return err
			}
			fmt.Fprintln(out, formatter.Success(app.message("submit.ok")))
			fmt.Fprintln(out, formatter.Dim("ID: "+stored.ID))
			return nil
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "Submit a saved draft JSON file instead of prompting")

	return cmd
}

func readDraft(path string) (*services.FormDraft, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read draft: %w", err)
	}
	d := services.NewFormDraft()
	if err := json.Unmarshal(b, d); err != nil {
		return nil, fmt.Errorf("decode draft: %w", err)
	}
	return d, nil
}
