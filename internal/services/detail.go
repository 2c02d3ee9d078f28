package services

// DefaultPageSize is the number of rows in one page of the detail table.
const DefaultPageSize = 10

// DetailRow is one line of the dashboard's respondent table.
type DetailRow struct {
	ID          string `json:"id,omitempty"`
	PFNumber    string `json:"pf_number"`
	FullName    string `json:"full_name"`
	Department  string `json:"department"`
	HasTraining YesNo  `json:"has_training"`
}

// DetailPage is a page of DetailRows. Page is 1-based.
type DetailPage struct {
	Items []DetailRow `json:"results"`
	Page  int         `json:"page"`
	Size  int         `json:"size"`
	Total int         `json:"count"`
	Pages int         `json:"pages"`
}

// PageResponses slices records in their given order. Out-of-range pages are
// returned empty rather than as an error.
func PageResponses(records []ResponseRecord, page, size int) DetailPage {
	if page < 1 {
		page = 1
	}
	if size < 1 {
		size = DefaultPageSize
	}
	total := len(records)
	p := DetailPage{Items: []DetailRow{}, Page: page, Size: size, Total: total, Pages: (total + size - 1) / size}
	from, to := PageBounds(total, page, size)
	for _, r := range records[from:to] {
		p.Items = append(p.Items, DetailRow{
			ID:          r.ID,
			PFNumber:    r.PFNumber,
			FullName:    r.FullName,
			Department:  r.Department,
			HasTraining: r.HasTraining,
		})
	}
	return p
}

// PageBounds returns the [from, to) slice bounds PageResponses would use.
func PageBounds(total, page, size int) (int, int) {
	if page < 1 {
		page = 1
	}
	if size < 1 {
		size = DefaultPageSize
	}
	from := min((page-1)*size, total)
	return from, min(from+size, total)
}
