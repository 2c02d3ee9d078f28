package services

import "time"

// YesNo is the two-valued answer used by the survey radio groups.
type YesNo string

const (
	Yes YesNo = "yes"
	No  YesNo = "no"
)

// Valid reports whether v is one of the accepted answers.
func (v YesNo) Valid() bool { return v == Yes || v == No }

// Declared training types offered by the intake form.
const (
	TrainingShort = "short"
	TrainingLong  = "long"
)

// Reasons offered as checkboxes when an employee has not been trained.
var NoTrainingReasonOptions = []string{
	"Hukuwahi kuteuliwa",
	"Hakukuwa na fursa",
	"Sababu binafsi",
	"Sababu za kiafya",
}

// Sponsor choices offered by the intake form. Stored records may carry any free text.
var SponsorOptions = []string{"Taasisi", "Wadau wengine", "Binafsi"}

// TrainingEntry is one course an employee attended. Dates are YYYY-MM-DD text.
type TrainingEntry struct {
	TrainingType string `json:"training_type"`
	Institution  string `json:"institution"`
	Sponsor      string `json:"sponsor"`
	StartDate    string `json:"start_date"`
	EndDate      string `json:"end_date"`
}

// ResponseRecord is a submitted survey response as stored and served by the API.
type ResponseRecord struct {
	ID                string          `json:"id,omitempty"`
	PFNumber          string          `json:"pf_number"`
	FullName          string          `json:"full_name"`
	Position          string          `json:"position,omitempty"`
	Department        string          `json:"department"`
	Section           string          `json:"section"`
	HasTraining       YesNo           `json:"has_training"`
	ReadyForTraining  YesNo           `json:"ready_for_training"`
	NoTrainingReasons []string        `json:"no_training_reasons"`
	OtherReasons      string          `json:"other_reasons"`
	TrainingHistory   []TrainingEntry `json:"training_history"`
	CreatedAt         time.Time       `json:"created_at"`
}

// FormDraft is the mutable state of one intake session.
type FormDraft struct {
	EmployeeID        string          `json:"employeeId"`
	FullName          string          `json:"fullName"`
	Position          string          `json:"position"`
	Department        string          `json:"department"`
	Section           string          `json:"section"`
	HasTraining       YesNo           `json:"hasTraining"`
	TrainingHistory   []TrainingEntry `json:"trainingHistory"`
	NoTrainingReasons []string        `json:"noTrainingReasons"`
	OtherReasons      string          `json:"otherReasons"`
	ReadyForTraining  YesNo           `json:"readyForTraining"`
}

// NewFormDraft returns a draft with the form's initial values.
func NewFormDraft() *FormDraft {
	return &FormDraft{
		HasTraining:       No,
		TrainingHistory:   []TrainingEntry{{}},
		NoTrainingReasons: []string{},
		ReadyForTraining:  Yes,
	}
}

// YearRow is one line of the year matrix. The trailing synthetic row has
// Label "TOTAL", Year 0 and only Total populated.
type YearRow struct {
	Index     int    `json:"index,omitempty"`
	Label     string `json:"label"`
	Year      int    `json:"year,omitempty"`
	LongTerm  int    `json:"long_term"`
	ShortTerm int    `json:"short_term"`
	Gov       int    `json:"gov"`
	Private   int    `json:"private"`
	Partners  int    `json:"partners"`
	Total     int    `json:"total"`
}

// YearMatrix is the report table plus the number of entries left out because
// their start date was missing or could not be parsed.
type YearMatrix struct {
	StartYear int       `json:"start_year"`
	EndYear   int       `json:"end_year"`
	Rows      []YearRow `json:"rows"`
	Dropped   int       `json:"dropped"`
}

// User is a staff account allowed to log in to the dashboard.
type User struct {
	ID           string    `yaml:"id" json:"id"`
	Username     string    `yaml:"username" json:"username"`
	PasswordHash string    `yaml:"password_hash" json:"-"`
	Role         string    `yaml:"role" json:"role"`
	CreatedAt    time.Time `yaml:"-" json:"created_at"`
}

// Dashboard roles.
const (
	RoleViewer = "viewer"
	RoleAdmin  = "admin"
)
