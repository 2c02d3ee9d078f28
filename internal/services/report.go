package services

import (
	"strconv"
	"strings"

	"github.com/orci-tz/mafunzo/internal/utils"
)

// Report year range covered by the official training return.
const (
	ReportStartYear = 2008
	ReportEndYear   = 2025
)

// Outer bounds of any year matrix. Requests outside them are rejected by
// ReportService and clamped by BuildYearMatrix.
const (
	MinReportYear = 1900
	MaxReportYear = 2100
)

// DefaultTopDepartments is the number of bars shown in the department chart.
const DefaultTopDepartments = 7

// UnknownDepartment labels records submitted without a department.
const UnknownDepartment = "Unknown"

// TotalLabel marks the synthetic last row of a YearMatrix.
const TotalLabel = "TOTAL"

// Duration classes.
const (
	DurationShort = "short"
	DurationLong  = "long"
)

// Sponsor classes. SponsorOther is counted in no sponsor column.
const (
	SponsorGov     = "gov"
	SponsorPrivate = "private"
	SponsorPartner = "partner"
	SponsorOther   = "other"
)

// Summary holds the dashboard headline counts. Stale (years without training)
// is not computed yet and is always zero; StaleImplemented says so to clients.
type Summary struct {
	Total            int  `json:"total"`
	Trained          int  `json:"trained"`
	NotTrained       int  `json:"not_trained"`
	Stale            int  `json:"stale"`
	StaleImplemented bool `json:"stale_implemented"`
}

// ChartSlice is one named value of a pie or bar chart.
type ChartSlice struct {
	Name  string `json:"name"`
	Value int    `json:"value"`
}

// Summarize counts records by training status.
func Summarize(records []ResponseRecord) Summary {
	s := Summary{Total: len(records)}
	for _, r := range records {
		switch r.HasTraining {
		case Yes:
			s.Trained++
		case No:
			s.NotTrained++
		}
	}
	return s
}

// StatusSplit returns the trained / not-trained pie data with labels in locale.
func StatusSplit(records []ResponseRecord, locale string) []ChartSlice {
	s := Summarize(records)
	return []ChartSlice{
		{Name: utils.T(locale, "status.trained"), Value: s.Trained},
		{Name: utils.T(locale, "status.notTrained"), Value: s.NotTrained},
	}
}

// DepartmentHistogram counts records per department and keeps the first topN
// groups in the order they were first seen, not by count.
func DepartmentHistogram(records []ResponseRecord, topN int) []ChartSlice {
	if topN <= 0 {
		topN = DefaultTopDepartments
	}
	index := map[string]int{}
	out := []ChartSlice{}
	for _, r := range records {
		dept := r.Department
		if dept == "" {
			dept = UnknownDepartment
		}
		if i, ok := index[dept]; ok {
			out[i].Value++
			continue
		}
		index[dept] = len(out)
		out = append(out, ChartSlice{Name: dept, Value: 1})
	}
	if len(out) > topN {
		out = out[:topN]
	}
	return out
}

// ClassifyDuration maps a declared training type to long or short. Anything
// that does not mention "mrefu" or "long", including an empty type, is short.
func ClassifyDuration(trainingType string) string {
	t := strings.ToLower(trainingType)
	if strings.Contains(t, "mrefu") || strings.Contains(t, "long") {
		return DurationLong
	}
	return DurationShort
}

// ClassifySponsor maps free sponsor text to gov, private or partner; empty
// text is other.
func ClassifySponsor(sponsor string) string {
	if sponsor == "" {
		return SponsorOther
	}
	s := strings.ToLower(sponsor)
	switch {
	case strings.Contains(s, "serikali") || strings.Contains(s, "government"):
		return SponsorGov
	case strings.Contains(s, "binafsi") || strings.Contains(s, "private") || strings.Contains(s, "self"):
		return SponsorPrivate
	default:
		return SponsorPartner
	}
}

// BuildYearMatrix cross-tabulates every training entry of trained respondents
// by start year, duration class and sponsor class. It always returns
// endYear-startYear+1 year rows followed by a TOTAL row. Both bounds are
// first clamped to [MinReportYear, MaxReportYear].
//
// Entries whose start date is missing or unparseable are skipped and counted
// in Dropped. A row's Total is LongTerm+ShortTerm; entries with an empty
// sponsor still count there but in no sponsor column, so Gov+Private+Partners
// can be less than Total.
func BuildYearMatrix(records []ResponseRecord, startYear, endYear int) YearMatrix {
	startYear = min(max(startYear, MinReportYear), MaxReportYear)
	endYear = min(max(endYear, MinReportYear), MaxReportYear)
	if endYear < startYear {
		endYear = startYear - 1
	}
	m := YearMatrix{StartYear: startYear, EndYear: endYear}
	rows := make([]YearRow, 0, endYear-startYear+2)
	for y := startYear; y <= endYear; y++ {
		rows = append(rows, YearRow{Index: y - startYear + 1, Label: strconv.Itoa(y), Year: y})
	}

	for _, r := range records {
		if r.HasTraining != Yes {
			continue
		}
		for _, t := range r.TrainingHistory {
			start, ok := ParseDate(t.StartDate)
			if !ok {
				m.Dropped++
				continue
			}
			y := start.Year()
			if y < startYear || y > endYear {
				continue
			}
			row := &rows[y-startYear]
			if ClassifyDuration(t.TrainingType) == DurationLong {
				row.LongTerm++
			} else {
				row.ShortTerm++
			}
			switch ClassifySponsor(t.Sponsor) {
			case SponsorGov:
				row.Gov++
			case SponsorPrivate:
				row.Private++
			case SponsorPartner:
				row.Partners++
			}
		}
	}

	grand := 0
	for i := range rows {
		rows[i].Total = rows[i].LongTerm + rows[i].ShortTerm
		grand += rows[i].Total
	}
	rows = append(rows, YearRow{Label: TotalLabel, Total: grand})
	m.Rows = rows
	return m
}
