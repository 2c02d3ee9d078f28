package cli

import (
	"errors"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/orci-tz/mafunzo/internal/services"
)

// dateInput returns a huh.Input for a YYYY-MM-DD date. Blank is accepted here;
// completeness is checked when the wizard step is submitted.
func dateInput(title string, value *string) *huh.Input {
	return huh.NewInput().
		Title(title).
		Placeholder("2024-06-30").
		Value(value).
		Validate(validateOptionalDate)
}

func validateOptionalDate(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	if _, ok := services.ParseDate(s); !ok {
		return errors.New("tumia muundo YYYY-MM-DD")
	}
	return nil
}

func requiredInput(title string, value *string) *huh.Input {
	return huh.NewInput().
		Title(title).
		Value(value).
		Validate(func(s string) error {
			if strings.TrimSpace(s) == "" {
				return errors.New("sehemu hii inahitajika")
			}
			return nil
		})
}

func yesNoSelect(title string, value *services.YesNo) *huh.Select[services.YesNo] {
	return huh.NewSelect[services.YesNo]().
		Title(title).
		Options(
			huh.NewOption("Ndiyo", services.Yes),
			huh.NewOption("Hapana", services.No),
		).
		Value(value)
}

func trainingTypeSelect(value *string) *huh.Select[string] {
	return huh.NewSelect[string]().
		Title("Aina ya Mafunzo").
		Options(
			huh.NewOption("Muda Mfupi", services.TrainingShort),
			huh.NewOption("Muda Mrefu", services.TrainingLong),
		).
		Value(value)
}

func sponsorSelect(value *string) *huh.Select[string] {
	opts := make([]huh.Option[string], 0, len(services.SponsorOptions))
	for _, s := range services.SponsorOptions {
		opts = append(opts, huh.NewOption(s, s))
	}
	return huh.NewSelect[string]().
		Title("Mfadhili").
		Options(opts...).
		Value(value)
}

// departmentSelect offers the directory departments, or nil when there are
// none so the caller falls back to free text.
func departmentSelect(departments []services.Department, value *string) *huh.Select[string] {
	if len(departments) == 0 {
		return nil
	}
	opts := make([]huh.Option[string], 0, len(departments))
	for _, d := range departments {
		opts = append(opts, huh.NewOption(d.Name, string(d.ID)))
	}
	return huh.NewSelect[string]().
		Title("Idara").
		Options(opts...).
		Value(value)
}

func sectionSelect(dept services.Department, value *string) *huh.Select[string] {
	if len(dept.Sections) == 0 {
		return nil
	}
	opts := make([]huh.Option[string], 0, len(dept.Sections))
	for _, s := range dept.Sections {
		opts = append(opts, huh.NewOption(s.Name, string(s.ID)))
	}
	return huh.NewSelect[string]().
		Title("Kitengo").
		Options(opts...).
		Value(value)
}

// actionSelect is the navigation row at the bottom of every wizard page.
func actionSelect(value *action, choices ...action) *huh.Select[action] {
	opts := make([]huh.Option[action], 0, len(choices))
	for _, c := range choices {
		opts = append(opts, huh.NewOption(c.label(), c))
	}
	return huh.NewSelect[action]().
		Title("Hatua").
		Options(opts...).
		Value(value)
}
