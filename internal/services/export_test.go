package services

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func readCSV(b []byte) ([][]string, error) {
	r := csv.NewReader(strings.NewReader(string(b)))
	return r.ReadAll()
}

func sampleMatrix() YearMatrix {
	recs := []ResponseRecord{
		trained("HR", TrainingEntry{TrainingType: "long", Sponsor: "Serikali", StartDate: "2015-01-01"}),
		trained("HR", TrainingEntry{TrainingType: "short", Sponsor: "Binafsi", StartDate: "2016-03-01"}),
	}
	return BuildYearMatrix(recs, 2014, 2016)
}

func TestReportBody(t *testing.T) {
	body := ReportBody(sampleMatrix())
	require.Len(t, body, 4)
	assert.Equal(t, []string{"2", "2015", "1", "0", "1", "0", "0", "1"}, body[1])
	assert.Equal(t, []string{"", ReportTotalRow, "", "", "", "", "", "2"}, body[3])
}

func TestExportMatrixCSV(t *testing.T) {
	b, err := ExportMatrixCSV(sampleMatrix())
	require.NoError(t, err)
	recs, err := readCSV(b)
	require.NoError(t, err)
	require.Len(t, recs, 2+4)
	assert.Equal(t, "NA", recs[0][0])
	assert.Equal(t, "MAFUNZO YA MUDA MREFU", recs[1][2])
	assert.Equal(t, "2016", recs[4][1])
	assert.Equal(t, "1", recs[4][5])
}

func TestExportMatrixXLSX(t *testing.T) {
	b, err := ExportMatrixXLSX(sampleMatrix())
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(b))
	require.NoError(t, err)
	defer f.Close()

	title, err := f.GetCellValue(reportSheet, "A1")
	require.NoError(t, err)
	assert.Equal(t, ReportTitle, title)

	group, err := f.GetCellValue(reportSheet, "E3")
	require.NoError(t, err)
	assert.Equal(t, "UFADHILI", group)

	year, err := f.GetCellValue(reportSheet, "B6")
	require.NoError(t, err)
	assert.Equal(t, "2015", year)

	grand, err := f.GetCellValue(reportSheet, "H8")
	require.NoError(t, err)
	assert.Equal(t, "2", grand)

	merged, err := f.GetMergeCells(reportSheet)
	require.NoError(t, err)
	assert.Len(t, merged, 7)
}

func TestExportMatrixPDF(t *testing.T) {
	b, err := ExportMatrixPDF(BuildYearMatrix(nil, ReportStartYear, ReportEndYear))
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(b, []byte("%PDF-")))
}

func TestExportYearMatrixFormats(t *testing.T) {
	m := sampleMatrix()
	for format, want := range map[string]string{
		FormatCSV:  "Training_Report_2014_2016.csv",
		FormatXLSX: "Training_Report_2014_2016.xlsx",
		FormatPDF:  "Training_Report_2014_2016.pdf",
	} {
		res, err := ExportYearMatrix(m, format)
		require.NoError(t, err, format)
		assert.Equal(t, want, res.Filename)
		assert.NotEmpty(t, res.Data)
		assert.NotEmpty(t, res.ContentType)
	}

	_, err := ExportYearMatrix(m, "docx")
	se, ok := AsServiceError(err)
	require.True(t, ok)
	assert.Equal(t, ErrorInvalid, se.Code)
}
