package services

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"

	"github.com/go-pdf/fpdf"
	"github.com/xuri/excelize/v2"
)

// Fixed wording of the official training return.
const (
	ReportTitle    = "JEDWALI LA KUWASILISHA TAARIFA ZA WATUMISHI WA UMMA WALIOPATA MAFUNZO KWA KIPINDI CHA KUANZIA JULAI, 2008 HADI DESEMBA, 2025"
	ReportSubtitle = "Public servants who received training, July 2008 - December 2025"
	ReportTotalRow = "JUMLA"
)

// Two-row column header. Group headers span the leaf columns beneath them.
var (
	reportGroupHeader = []string{"NA", "MWAKA", "AINA YA MAFUNZO YALIYOTOLEWA", "", "UFADHILI", "", "", "JUMLA KUU YA WATUMISHI WALIOPATA MAFUNZO"}
	reportLeafHeader  = []string{"", "", "MAFUNZO YA MUDA MREFU", "MAFUNZO YA MUDA MFUPI", "SERIKALI", "BINAFSI", "WADAU WA MAENDELEO", ""}
	reportSignature   = []string{
		"JINA LA ANAYETOA TAARIFA: ......................................................................",
		"CHEO: .........................................................................................................",
		"TAREHE: .....................................................................................................",
	}
)

// Export formats for the year matrix.
const (
	FormatJSON = "json"
	FormatCSV  = "csv"
	FormatXLSX = "xlsx"
	FormatPDF  = "pdf"
)

type ExportResult struct {
	Filename    string
	ContentType string
	Data        []byte
}

// ReportHeader returns the two header rows of the report table.
func ReportHeader() [][]string {
	return [][]string{append([]string(nil), reportGroupHeader...), append([]string(nil), reportLeafHeader...)}
}

// ReportBody renders matrix rows as table cells: per-year rows carry every
// count and the TOTAL row only the grand total.
func ReportBody(m YearMatrix) [][]string {
	out := make([][]string, 0, len(m.Rows))
	for _, r := range m.Rows {
		if r.Label == TotalLabel {
			out = append(out, []string{"", ReportTotalRow, "", "", "", "", "", strconv.Itoa(r.Total)})
			continue
		}
		out = append(out, []string{
			strconv.Itoa(r.Index),
			strconv.Itoa(r.Year),
			strconv.Itoa(r.LongTerm),
			strconv.Itoa(r.ShortTerm),
			strconv.Itoa(r.Gov),
			strconv.Itoa(r.Private),
			strconv.Itoa(r.Partners),
			strconv.Itoa(r.Total),
		})
	}
	return out
}

// ExportYearMatrix renders the report in the requested file format.
func ExportYearMatrix(m YearMatrix, format string) (*ExportResult, error) {
	base := fmt.Sprintf("Training_Report_%d_%d", m.StartYear, m.EndYear)
	switch format {
	case FormatCSV:
		b, err := ExportMatrixCSV(m)
		if err != nil {
			return nil, err
		}
		return &ExportResult{Filename: base + ".csv", ContentType: "text/csv", Data: b}, nil
	case FormatXLSX:
		b, err := ExportMatrixXLSX(m)
		if err != nil {
			return nil, err
		}
		return &ExportResult{Filename: base + ".xlsx", ContentType: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", Data: b}, nil
	case FormatPDF:
		b, err := ExportMatrixPDF(m)
		if err != nil {
			return nil, err
		}
		return &ExportResult{Filename: base + ".pdf", ContentType: "application/pdf", Data: b}, nil
	default:
		return nil, NewInvalidError("unsupported format")
	}
}

// ExportMatrixCSV writes both header rows followed by the body.
func ExportMatrixCSV(m YearMatrix) ([]byte, error) {
	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)
	for _, rec := range append(ReportHeader(), ReportBody(m)...) {
		if err := w.Write(rec); err != nil {
			return nil, err
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}

const reportSheet = "Mafunzo"

// ExportMatrixXLSX lays the report out on one sheet: merged title, merged
// two-row header, then numeric body cells.
func ExportMatrixXLSX(m YearMatrix) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", reportSheet); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}
	if err := f.SetCellValue(reportSheet, "A1", ReportTitle); err != nil {
		return nil, err
	}
	if err := f.MergeCell(reportSheet, "A1", "H1"); err != nil {
		return nil, err
	}
	if err := f.SetCellValue(reportSheet, "A2", ReportSubtitle); err != nil {
		return nil, err
	}
	if err := f.MergeCell(reportSheet, "A2", "H2"); err != nil {
		return nil, err
	}

	group := toAny(reportGroupHeader)
	if err := f.SetSheetRow(reportSheet, "A3", &group); err != nil {
		return nil, err
	}
	leaf := toAny(reportLeafHeader)
	if err := f.SetSheetRow(reportSheet, "A4", &leaf); err != nil {
		return nil, err
	}
	for _, span := range [][2]string{{"A3", "A4"}, {"B3", "B4"}, {"C3", "D3"}, {"E3", "G3"}, {"H3", "H4"}} {
		if err := f.MergeCell(reportSheet, span[0], span[1]); err != nil {
			return nil, fmt.Errorf("merge %s:%s: %w", span[0], span[1], err)
		}
	}

	for i, r := range m.Rows {
		var row []any
		if r.Label == TotalLabel {
			row = []any{"", ReportTotalRow, "", "", "", "", "", r.Total}
		} else {
			row = []any{r.Index, r.Year, r.LongTerm, r.ShortTerm, r.Gov, r.Private, r.Partners, r.Total}
		}
		cell, err := excelize.CoordinatesToCellName(1, 5+i)
		if err != nil {
			return nil, err
		}
		if err := f.SetSheetRow(reportSheet, cell, &row); err != nil {
			return nil, err
		}
	}

	border := []excelize.Border{
		{Type: "left", Color: "000000", Style: 1},
		{Type: "top", Color: "000000", Style: 1},
		{Type: "right", Color: "000000", Style: 1},
		{Type: "bottom", Color: "000000", Style: 1},
	}
	titleStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Alignment: &excelize.Alignment{Horizontal: "center", WrapText: true},
	})
	if err != nil {
		return nil, err
	}
	headStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 9},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"DCDCDC"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center", WrapText: true},
		Border:    border,
	})
	if err != nil {
		return nil, err
	}
	bodyStyle, err := f.NewStyle(&excelize.Style{
		Alignment: &excelize.Alignment{Horizontal: "center"},
		Border:    border,
	})
	if err != nil {
		return nil, err
	}
	lastRow := 4 + len(m.Rows)
	if err := f.SetCellStyle(reportSheet, "A1", "H2", titleStyle); err != nil {
		return nil, err
	}
	if err := f.SetCellStyle(reportSheet, "A3", "H4", headStyle); err != nil {
		return nil, err
	}
	if lastRow >= 5 {
		if err := f.SetCellStyle(reportSheet, "A5", "H"+strconv.Itoa(lastRow), bodyStyle); err != nil {
			return nil, err
		}
	}
	if err := f.SetRowHeight(reportSheet, 1, 32); err != nil {
		return nil, err
	}
	if err := f.SetColWidth(reportSheet, "A", "A", 6); err != nil {
		return nil, err
	}
	if err := f.SetColWidth(reportSheet, "C", "H", 18); err != nil {
		return nil, err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write xlsx: %w", err)
	}
	return buf.Bytes(), nil
}

// PDF layout in points on A4 portrait.
const (
	pdfMargin    = 40.0
	pdfColNA     = 30.0
	pdfColYear   = 50.0
	pdfHeadRow   = 30.0
	pdfBodyRow   = 14.0
	pdfLineH     = 8.0
	pdfNumCols   = 6
	pdfFontSize  = 8.0
	pdfTitleSize = 11.0
)

// ExportMatrixPDF draws the report as a grid table with the signature block
// underneath.
func ExportMatrixPDF(m YearMatrix) ([]byte, error) {
	pdf := fpdf.New("P", "pt", "A4", "")
	pdf.SetMargins(pdfMargin, pdfMargin, pdfMargin)
	pdf.SetAutoPageBreak(true, pdfMargin)
	pdf.AddPage()

	pageW, _ := pdf.GetPageSize()
	tableW := pageW - 2*pdfMargin
	colW := (tableW - pdfColNA - pdfColYear) / pdfNumCols
	widths := []float64{pdfColNA, pdfColYear, colW, colW, colW, colW, colW, colW}

	pdf.SetFont("Helvetica", "B", pdfTitleSize)
	pdf.MultiCell(0, 14, ReportTitle, "", "C", false)
	pdf.SetFont("Helvetica", "", pdfFontSize)
	pdf.MultiCell(0, 12, ReportSubtitle, "", "C", false)
	pdf.Ln(10)

	x0, y0 := pdf.GetX(), pdf.GetY()
	pdf.SetFillColor(220, 220, 220)
	pdf.SetFont("Helvetica", "B", 6.5)
	half := pdfHeadRow / 2
	// Group row: NA, MWAKA and the grand total span both header rows.
	pdfHeaderCell(pdf, x0, y0, pdfColNA, pdfHeadRow, reportGroupHeader[0])
	pdfHeaderCell(pdf, x0+pdfColNA, y0, pdfColYear, pdfHeadRow, reportGroupHeader[1])
	x := x0 + pdfColNA + pdfColYear
	pdfHeaderCell(pdf, x, y0, 2*colW, half, reportGroupHeader[2])
	pdfHeaderCell(pdf, x+2*colW, y0, 3*colW, half, reportGroupHeader[4])
	pdfHeaderCell(pdf, x+5*colW, y0, colW, pdfHeadRow, reportGroupHeader[7])
	for i := 2; i <= 6; i++ {
		pdfHeaderCell(pdf, x+float64(i-2)*colW, y0+half, colW, half, reportLeafHeader[i])
	}
	pdf.SetXY(x0, y0+pdfHeadRow)

	pdf.SetFont("Helvetica", "", pdfFontSize)
	for _, rec := range ReportBody(m) {
		for i, cell := range rec {
			ln := 0
			if i == len(rec)-1 {
				ln = 1
				pdf.SetFont("Helvetica", "B", pdfFontSize)
			}
			pdf.CellFormat(widths[i], pdfBodyRow, cell, "1", ln, "C", false, 0, "")
		}
		pdf.SetFont("Helvetica", "", pdfFontSize)
	}

	pdf.Ln(40)
	pdf.SetFont("Helvetica", "", 10)
	for _, line := range reportSignature {
		pdf.CellFormat(0, 14, line, "", 1, "L", false, 0, "")
		pdf.Ln(11)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("write pdf: %w", err)
	}
	return buf.Bytes(), nil
}

// pdfHeaderCell draws a filled bordered box with txt wrapped and vertically
// centred inside it.
func pdfHeaderCell(pdf *fpdf.Fpdf, x, y, w, h float64, txt string) {
	pdf.Rect(x, y, w, h, "FD")
	lines := pdf.SplitLines([]byte(txt), w-2)
	top := y + (h-float64(len(lines))*pdfLineH)/2
	if top < y {
		top = y
	}
	for i, l := range lines {
		pdf.SetXY(x, top+float64(i)*pdfLineH)
		pdf.CellFormat(w, pdfLineH, string(l), "", 0, "C", false, 0, "")
	}
}

func toAny(ss []string) []any {
	out := make([]any, len(ss))
	for i, s := range ss {
		out[i] = s
	}
	return out
}
