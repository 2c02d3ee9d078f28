package services

import (
	"context"
	"fmt"
)

// ReportStore is the read side ReportService aggregates over.
type ReportStore interface {
	ListResponses(ctx context.Context) ([]ResponseRecord, error)
}

// ReportService recomputes dashboard figures from a fresh snapshot on every
// call. Nothing is cached between calls.
type ReportService struct {
	store     ReportStore
	startYear int
	endYear   int
}

// Dashboard is the payload behind the dashboard's cards and charts.
type Dashboard struct {
	Summary     Summary      `json:"summary"`
	StatusSplit []ChartSlice `json:"status_split"`
	Departments []ChartSlice `json:"departments"`
}

func NewReportService(store ReportStore, startYear, endYear int) *ReportService {
	if startYear == 0 {
		startYear = ReportStartYear
	}
	if endYear == 0 {
		endYear = ReportEndYear
	}
	return &ReportService{store: store, startYear: startYear, endYear: endYear}
}

// Years returns the default report range.
func (s *ReportService) Years() (int, int) { return s.startYear, s.endYear }

func (s *ReportService) Dashboard(ctx context.Context, locale string, topN int) (*Dashboard, error) {
	records, err := s.store.ListResponses(ctx)
	if err != nil {
		return nil, err
	}
	return &Dashboard{
		Summary:     Summarize(records),
		StatusSplit: StatusSplit(records, locale),
		Departments: DepartmentHistogram(records, topN),
	}, nil
}

// YearMatrix builds the report for [start, end]; zero bounds take the
// service defaults.
func (s *ReportService) YearMatrix(ctx context.Context, start, end int) (YearMatrix, error) {
	if start == 0 {
		start = s.startYear
	}
	if end == 0 {
		end = s.endYear
	}
	if start < MinReportYear || end > MaxReportYear {
		return YearMatrix{}, NewInvalidError(fmt.Sprintf("years must be within %d-%d", MinReportYear, MaxReportYear))
	}
	if end < start {
		return YearMatrix{}, NewInvalidError("end year before start year")
	}
	records, err := s.store.ListResponses(ctx)
	if err != nil {
		return YearMatrix{}, err
	}
	return BuildYearMatrix(records, start, end), nil
}

// Details pages the respondent table.
func (s *ReportService) Details(ctx context.Context, page, size int) (DetailPage, error) {
	records, err := s.store.ListResponses(ctx)
	if err != nil {
		return DetailPage{}, err
	}
	return PageResponses(records, page, size), nil
}
