package formatter

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/orci-tz/mafunzo/internal/services"
)

var matrixHeaders = []string{"NA", "MWAKA", "MUDA MREFU", "MUDA MFUPI", "SERIKALI", "BINAFSI", "WADAU", "JUMLA KUU"}

// FormatSummary renders the dashboard cards and both charts as text.
func FormatSummary(d *services.Dashboard) string {
	var b strings.Builder
	b.WriteString(Header("Muhtasari"))
	b.WriteString("\n")
	s := d.Summary
	stale := strconv.Itoa(s.Stale)
	if !s.StaleImplemented {
		stale = Dim("n/a")
	}
	b.WriteString(RenderTable(
		[]string{"JUMLA", "WENYE MAFUNZO", "WASIO NA MAFUNZO", "MUDA MREFU BILA MAFUNZO"},
		[][]string{{strconv.Itoa(s.Total), strconv.Itoa(s.Trained), strconv.Itoa(s.NotTrained), stale}},
		0, 1, 2, 3,
	))

	b.WriteString("\n")
	b.WriteString(Header("Hali ya Mafunzo"))
	b.WriteString("\n")
	b.WriteString(renderSlices(d.StatusSplit, s.Total))

	b.WriteString("\n")
	b.WriteString(Header("Idara"))
	b.WriteString("\n")
	if len(d.Departments) == 0 {
		b.WriteString(Dim("Hakuna taarifa") + "\n")
	} else {
		b.WriteString(renderSlices(d.Departments, s.Total))
	}
	return b.String()
}

func renderSlices(slices []services.ChartSlice, total int) string {
	rows := make([][]string, 0, len(slices))
	for _, sl := range slices {
		rows = append(rows, []string{sl.Name, strconv.Itoa(sl.Value), bar(sl.Value, total)})
	}
	return RenderTable([]string{"", "IDADI", ""}, rows, 1)
}

const barWidth = 24

func bar(value, total int) string {
	if total <= 0 || value <= 0 {
		return ""
	}
	n := max(value*barWidth/total, 1)
	return StyleYellow.Render(strings.Repeat("█", n))
}

// FormatYearMatrix renders the report table with its title. The TOTAL row
// is shown under the Swahili label used on the printed return.
func FormatYearMatrix(m services.YearMatrix) string {
	var b strings.Builder
	b.WriteString(Bold(services.ReportTitle))
	b.WriteString("\n")
	b.WriteString(Dim(services.ReportSubtitle))
	b.WriteString("\n\n")

	body := services.ReportBody(m)
	for i, row := range body {
		if i == len(body)-1 && row[1] == services.ReportTotalRow {
			body[i] = []string{"", Bold(services.ReportTotalRow), "", "", "", "", "", Bold(row[7])}
		}
	}
	b.WriteString(RenderTable(matrixHeaders, body, 0, 2, 3, 4, 5, 6, 7))
	if m.Dropped > 0 {
		b.WriteString(StyleYellow.Render(fmt.Sprintf("! %d mafunzo yameachwa kwa kukosa tarehe sahihi ya kuanza", m.Dropped)))
		b.WriteString("\n")
	}
	return b.String()
}

// FormatDetailPage renders one page of the respondent table with a pager line.
func FormatDetailPage(p services.DetailPage) string {
	var b strings.Builder
	rows := make([][]string, 0, len(p.Items))
	for i, r := range p.Items {
		dept := r.Department
		if dept == "" {
			dept = Dim(services.UnknownDepartment)
		}
		rows = append(rows, []string{
			strconv.Itoa((p.Page-1)*p.Size + i + 1),
			r.PFNumber,
			r.FullName,
			dept,
			TrainingIndicator(r.HasTraining),
		})
	}
	b.WriteString(RenderTable([]string{"#", "PF NUMBER", "JINA", "IDARA", "MAFUNZO"}, rows, 0))
	pages := max(p.Pages, 1)
	b.WriteString(Dim(fmt.Sprintf("Ukurasa %d/%d · %d jumla", p.Page, pages, p.Total)))
	b.WriteString("\n")
	return b.String()
}
