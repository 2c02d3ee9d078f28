package cli

import (
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/orci-tz/mafunzo/internal/cli/formatter"
	"github.com/orci-tz/mafunzo/internal/services"
)

// huhPrompter asks each wizard page as a huh form.
type huhPrompter struct {
	departments []services.Department
	out         io.Writer
}

func (p *huhPrompter) Page(step services.Step, w *services.Wizard, failure *services.ValidationFailure) (action, error) {
	d := w.Draft()
	switch step {
	case services.StepIdentification:
		return p.identification(d)
	case services.StepJobInfo:
		return p.jobInfo(d)
	case services.StepTrainingStatus:
		return p.trainingStatus(d)
	case services.StepTrainingDetail:
		if d.HasTraining == services.Yes {
			return p.trainingHistory(w, failure)
		}
		return p.noTraining(d)
	case services.StepReview:
		return p.review(d)
	}
	return actionCancel, nil
}

func (p *huhPrompter) identification(d *services.FormDraft) (action, error) {
	next := actionNext
	err := newForm(
		huh.NewGroup(
			huh.NewInput().
				Title("PF Number").
				Description("Taarifa zako zitajazwa kutoka orodha ya watumishi").
				Value(&d.EmployeeID),
			actionSelect(&next, actionNext, actionCancel),
		),
	).Run()
	d.EmployeeID = strings.TrimSpace(d.EmployeeID)
	return next, err
}

func (p *huhPrompter) jobInfo(d *services.FormDraft) (action, error) {
	fields := []huh.Field{
		requiredInput("Jina Kamili", &d.FullName),
		requiredInput("Cheo", &d.Position),
	}
	if sel := departmentSelect(p.departments, &d.Department); sel != nil {
		fields = append(fields, sel)
	} else {
		fields = append(fields, requiredInput("Idara", &d.Department))
	}
	if err := newForm(huh.NewGroup(fields...)).Run(); err != nil {
		return "", err
	}

	next := actionNext
	var section huh.Field = requiredInput("Kitengo", &d.Section)
	if dept, ok := services.FindDepartment(p.departments, d.Department); ok {
		if !slices.ContainsFunc(dept.Sections, func(s services.Section) bool { return string(s.ID) == d.Section }) {
			d.Section = ""
		}
		if sel := sectionSelect(dept, &d.Section); sel != nil {
			section = sel
		}
	}
	err := newForm(
		huh.NewGroup(section, actionSelect(&next, actionNext, actionBack, actionCancel)),
	).Run()
	return next, err
}

func (p *huhPrompter) trainingStatus(d *services.FormDraft) (action, error) {
	next := actionNext
	err := newForm(
		huh.NewGroup(
			yesNoSelect("Je, umewahi kupata mafunzo?", &d.HasTraining),
			actionSelect(&next, actionNext, actionBack, actionCancel),
		),
	).Run()
	return next, err
}

func (p *huhPrompter) trainingHistory(w *services.Wizard, failure *services.ValidationFailure) (action, error) {
	d := w.Draft()
	for i := range d.TrainingHistory {
		if failure != nil && failure.Entry >= 0 && failure.Entry != i {
			continue
		}
		e := d.TrainingHistory[i]
		if e.TrainingType == "" {
			e.TrainingType = services.TrainingShort
		}
		err := newForm(
			huh.NewGroup(
				trainingTypeSelect(&e.TrainingType),
				huh.NewInput().Title("Taasisi").Value(&e.Institution),
				sponsorSelect(&e.Sponsor),
				dateInput("Tarehe ya Kuanza", &e.StartDate),
				dateInput("Tarehe ya Kumaliza", &e.EndDate),
			).Title(fmt.Sprintf("Mafunzo #%d", i+1)),
		).Run()
		if err != nil {
			return "", err
		}
		if err := w.UpdateTraining(i, e); err != nil {
			return "", err
		}
	}

	next := actionNext
	choices := []action{actionNext, actionAddEntry}
	if len(d.TrainingHistory) > 1 {
		choices = append(choices, actionRemoveEntry)
	}
	choices = append(choices, actionBack, actionCancel)
	err := newForm(huh.NewGroup(actionSelect(&next, choices...))).Run()
	return next, err
}

func (p *huhPrompter) noTraining(d *services.FormDraft) (action, error) {
	next := actionNext
	opts := huh.NewOptions(services.NoTrainingReasonOptions...)
	err := newForm(
		huh.NewGroup(
			huh.NewMultiSelect[string]().
				Title("Sababu za kutopata mafunzo").
				Options(opts...).
				Value(&d.NoTrainingReasons),
			huh.NewText().
				Title("Sababu nyingine").
				Value(&d.OtherReasons),
			yesNoSelect("Je, uko tayari kupata mafunzo?", &d.ReadyForTraining),
			actionSelect(&next, actionNext, actionBack, actionCancel),
		),
	).Run()
	d.OtherReasons = strings.TrimSpace(d.OtherReasons)
	return next, err
}

func (p *huhPrompter) review(d *services.FormDraft) (action, error) {
	fmt.Fprint(p.out, formatDraft(services.DraftToRecord(d, p.departments)))
	next := actionSubmit
	err := newForm(
		huh.NewGroup(actionSelect(&next, actionSubmit, actionBack, actionCancel)),
	).Run()
	return next, err
}

// formatDraft renders the review page.
func formatDraft(rec services.ResponseRecord) string {
	var b strings.Builder
	b.WriteString(formatter.Header("Hakiki Taarifa"))
	b.WriteString("\n")
	rows := [][]string{
		{"PF Number", rec.PFNumber},
		{"Jina", rec.FullName},
		{"Cheo", rec.Position},
		{"Idara", rec.Department},
		{"Kitengo", rec.Section},
		{"Mafunzo", formatter.TrainingIndicator(rec.HasTraining)},
	}
	if rec.HasTraining == services.No {
		reasons := append([]string{}, rec.NoTrainingReasons...)
		if rec.OtherReasons != "" {
			reasons = append(reasons, rec.OtherReasons)
		}
		rows = append(rows,
			[]string{"Sababu", strings.Join(reasons, "; ")},
			[]string{"Tayari", string(rec.ReadyForTraining)},
		)
	}
	b.WriteString(formatter.RenderTable([]string{"", ""}, rows))
	if len(rec.TrainingHistory) > 0 {
		b.WriteString("\n")
		hist := make([][]string, 0, len(rec.TrainingHistory))
		for i, t := range rec.TrainingHistory {
			hist = append(hist, []string{fmt.Sprint(i + 1), t.TrainingType, t.Institution, t.Sponsor, t.StartDate, t.EndDate})
		}
		b.WriteString(formatter.RenderTable([]string{"#", "AINA", "TAASISI", "MFADHILI", "KUANZA", "KUMALIZA"}, hist))
	}
	return b.String()
}
