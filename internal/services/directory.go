package services

import (
	"bytes"
	"encoding/json"
	"strings"
)

// FlexString decodes a JSON string or number into its string form. Staff
// directory exports are inconsistent about quoting IDs and badge numbers.
type FlexString string

func (f *FlexString) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*f = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*f = FlexString(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*f = FlexString(n.String())
	return nil
}

// Employee is one staff directory entry used for PF number autofill.
type Employee struct {
	BadgeNumber FlexString      `json:"badgeNumber"`
	Name        string          `json:"name,omitempty"`
	FullName    string          `json:"full_name,omitempty"`
	Designation string          `json:"designation,omitempty"`
	Position    string          `json:"position,omitempty"`
	JobTitle    string          `json:"job_title,omitempty"`
	Department  json.RawMessage `json:"department,omitempty"`
	Dept        string          `json:"dept,omitempty"`
}

// DisplayName prefers name over full_name.
func (e Employee) DisplayName() string {
	if e.Name != "" {
		return e.Name
	}
	return e.FullName
}

// Title prefers designation, then position, then job_title.
func (e Employee) Title() string {
	for _, s := range []string{e.Designation, e.Position, e.JobTitle} {
		if s != "" {
			return s
		}
	}
	return ""
}

// DepartmentName reads department as either an object with a name or a plain
// string, falling back to dept.
func (e Employee) DepartmentName() string {
	if len(e.Department) > 0 {
		var obj struct {
			Name string `json:"name"`
		}
		if err := json.Unmarshal(e.Department, &obj); err == nil && obj.Name != "" {
			return obj.Name
		}
		var s string
		if err := json.Unmarshal(e.Department, &s); err == nil && s != "" {
			return s
		}
	}
	return e.Dept
}

type Section struct {
	ID   FlexString `json:"id"`
	Name string     `json:"name"`
}

type Department struct {
	ID       FlexString `json:"id"`
	Name     string     `json:"name"`
	Sections []Section  `json:"sections,omitempty"`
}

// EmployeeMatch is the autofill result of a PF lookup.
type EmployeeMatch struct {
	FullName     string
	Position     string
	DepartmentID string
	Section      string
}

// LookupEmployee finds the employee whose badge number equals pf after
// trimming. The department is resolved to an ID by case-insensitive name;
// an unmatched department leaves DepartmentID empty. Section is always reset.
func LookupEmployee(employees []Employee, departments []Department, pf string) (EmployeeMatch, bool) {
	pf = strings.TrimSpace(pf)
	if pf == "" {
		return EmployeeMatch{}, false
	}
	for _, e := range employees {
		if string(e.BadgeNumber) != pf {
			continue
		}
		m := EmployeeMatch{FullName: e.DisplayName(), Position: e.Title()}
		if name := e.DepartmentName(); name != "" {
			for _, d := range departments {
				if strings.EqualFold(d.Name, name) {
					m.DepartmentID = string(d.ID)
					break
				}
			}
		}
		return m, true
	}
	return EmployeeMatch{}, false
}

// ApplyMatch copies an autofill result into the draft.
func ApplyMatch(d *FormDraft, m EmployeeMatch) {
	d.FullName = m.FullName
	d.Position = m.Position
	d.Department = m.DepartmentID
	d.Section = m.Section
}

// FindDepartment returns the department with the given ID.
func FindDepartment(departments []Department, id string) (Department, bool) {
	for _, d := range departments {
		if string(d.ID) == id {
			return d, true
		}
	}
	return Department{}, false
}

// ResolveNames maps department and section IDs to display names. IDs that do
// not resolve are returned unchanged so free-typed values survive.
func ResolveNames(departments []Department, deptID, sectionID string) (string, string) {
	d, ok := FindDepartment(departments, deptID)
	if !ok {
		return deptID, sectionID
	}
	section := sectionID
	for _, s := range d.Sections {
		if string(s.ID) == sectionID {
			section = s.Name
			break
		}
	}
	return d.Name, section
}

// DraftToRecord builds the submission payload from a completed draft.
func DraftToRecord(d *FormDraft, departments []Department) ResponseRecord {
	dept, section := ResolveNames(departments, d.Department, d.Section)
	rec := ResponseRecord{
		PFNumber:          strings.TrimSpace(d.EmployeeID),
		FullName:          d.FullName,
		Position:          d.Position,
		Department:        dept,
		Section:           section,
		HasTraining:       d.HasTraining,
		ReadyForTraining:  d.ReadyForTraining,
		NoTrainingReasons: append([]string{}, d.NoTrainingReasons...),
		OtherReasons:      d.OtherReasons,
	}
	if d.HasTraining == Yes {
		rec.TrainingHistory = append([]TrainingEntry(nil), d.TrainingHistory...)
	}
	return rec
}

// DecodeRecordList accepts either a bare JSON array of responses or an object
// with a results array.
func DecodeRecordList(b []byte) ([]ResponseRecord, error) {
	return decodeList[ResponseRecord](b, "results")
}

// DecodeEmployeeList accepts a bare array or an object with a data array.
func DecodeEmployeeList(b []byte) ([]Employee, error) {
	return decodeList[Employee](b, "data")
}

// DecodeDepartmentList accepts a bare array or an object with a data array.
func DecodeDepartmentList(b []byte) ([]Department, error) {
	return decodeList[Department](b, "data")
}

func decodeList[T any](b []byte, envelopeKey string) ([]T, error) {
	b = bytes.TrimSpace(b)
	if len(b) == 0 {
		return []T{}, nil
	}
	if b[0] == '[' {
		out := []T{}
		if err := json.Unmarshal(b, &out); err != nil {
			return nil, err
		}
		return out, nil
	}
	var env map[string]json.RawMessage
	if err := json.Unmarshal(b, &env); err != nil {
		return nil, err
	}
	raw, ok := env[envelopeKey]
	if !ok || bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
		return []T{}, nil
	}
	out := []T{}
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, NewInvalidError("decode " + envelopeKey + ": " + err.Error())
	}
	return out, nil
}
