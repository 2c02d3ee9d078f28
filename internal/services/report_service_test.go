package services

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReportServiceDashboard(t *testing.T) {
	store := &stubResponseStore{records: []ResponseRecord{
		trained("HR", TrainingEntry{TrainingType: "long", Sponsor: "Serikali", StartDate: "2015-01-01"}),
		untrained(""),
	}}
	svc := NewReportService(store, 0, 0)
	start, end := svc.Years()
	assert.Equal(t, ReportStartYear, start)
	assert.Equal(t, ReportEndYear, end)

	d, err := svc.Dashboard(context.Background(), "en", 0)
	require.NoError(t, err)
	assert.Equal(t, 2, d.Summary.Total)
	assert.Equal(t, 1, d.StatusSplit[0].Value)
	assert.Equal(t, []ChartSlice{{Name: "HR", Value: 1}, {Name: UnknownDepartment, Value: 1}}, d.Departments)
}

func TestReportServiceYearMatrix(t *testing.T) {
	store := &stubResponseStore{records: []ResponseRecord{
		trained("HR", TrainingEntry{TrainingType: "short", Sponsor: "Taasisi", StartDate: "2020-05-01"}),
	}}
	svc := NewReportService(store, 2018, 2021)

	m, err := svc.YearMatrix(context.Background(), 0, 0)
	require.NoError(t, err)
	assert.Len(t, m.Rows, 5)
	assert.Equal(t, 1, m.Rows[2].Partners)

	m, err = svc.YearMatrix(context.Background(), 2020, 2020)
	require.NoError(t, err)
	assert.Len(t, m.Rows, 2)

	_, err = svc.YearMatrix(context.Background(), 2021, 2019)
	se, ok := AsServiceError(err)
	require.True(t, ok)
	assert.Equal(t, ErrorInvalid, se.Code)
}

func TestReportServiceYearMatrixRejectsOutOfRangeYears(t *testing.T) {
	svc := NewReportService(&stubResponseStore{}, 2008, 2025)
	for _, tc := range []struct{ start, end int }{
		{1, 2000000},
		{1899, 2000},
		{2000, 2101},
		{math.MinInt, math.MaxInt},
		{-5, 2020},
	} {
		_, err := svc.YearMatrix(context.Background(), tc.start, tc.end)
		se, ok := AsServiceError(err)
		require.True(t, ok, "%d-%d", tc.start, tc.end)
		assert.Equal(t, ErrorInvalid, se.Code)
	}
	m, err := svc.YearMatrix(context.Background(), MinReportYear, MaxReportYear)
	require.NoError(t, err)
	assert.Len(t, m.Rows, MaxReportYear-MinReportYear+2)
}

func TestReportServiceDetails(t *testing.T) {
	store := &stubResponseStore{records: manyRecords(12)}
	p, err := NewReportService(store, 0, 0).Details(context.Background(), 2, 0)
	require.NoError(t, err)
	assert.Len(t, p.Items, 2)
	assert.Equal(t, 2, p.Pages)
}
