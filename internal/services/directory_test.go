package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const employeesJSON = `{"data":[
 {"badgeNumber": 1234, "name": "Asha Juma", "designation": "Afisa Utumishi", "department": {"name": "rasilimali watu"}},
 {"badgeNumber": "5678", "full_name": "Baraka Mushi", "job_title": "Mhasibu", "department": "Fedha"},
 {"badgeNumber": "9999", "name": "Chausiku", "position": "Dereva", "dept": "Usafirishaji"}
]}`

const departmentsJSON = `{"data":[
 {"id": 1, "name": "Rasilimali Watu", "sections": [{"id": 11, "name": "Mafunzo"}, {"id": 12, "name": "Ajira"}]},
 {"id": "2", "name": "Fedha", "sections": []}
]}`

func loadDirectory(t *testing.T) ([]Employee, []Department) {
	t.Helper()
	emps, err := DecodeEmployeeList([]byte(employeesJSON))
	require.NoError(t, err)
	depts, err := DecodeDepartmentList([]byte(departmentsJSON))
	require.NoError(t, err)
	return emps, depts
}

func TestLookupEmployee(t *testing.T) {
	emps, depts := loadDirectory(t)

	m, ok := LookupEmployee(emps, depts, " 1234 ")
	require.True(t, ok)
	assert.Equal(t, EmployeeMatch{FullName: "Asha Juma", Position: "Afisa Utumishi", DepartmentID: "1"}, m)

	m, ok = LookupEmployee(emps, depts, "5678")
	require.True(t, ok)
	assert.Equal(t, "Baraka Mushi", m.FullName)
	assert.Equal(t, "Mhasibu", m.Position)
	assert.Equal(t, "2", m.DepartmentID)

	m, ok = LookupEmployee(emps, depts, "9999")
	require.True(t, ok)
	assert.Equal(t, "Dereva", m.Position)
	assert.Empty(t, m.DepartmentID)

	_, ok = LookupEmployee(emps, depts, "123")
	assert.False(t, ok)
	_, ok = LookupEmployee(emps, depts, "")
	assert.False(t, ok)
}

func TestApplyMatchResetsSection(t *testing.T) {
	d := NewFormDraft()
	d.Section = "12"
	ApplyMatch(d, EmployeeMatch{FullName: "Asha", Position: "Afisa", DepartmentID: "1"})
	assert.Equal(t, "Asha", d.FullName)
	assert.Equal(t, "1", d.Department)
	assert.Empty(t, d.Section)
}

func TestResolveNames(t *testing.T) {
	_, depts := loadDirectory(t)
	dept, section := ResolveNames(depts, "1", "12")
	assert.Equal(t, "Rasilimali Watu", dept)
	assert.Equal(t, "Ajira", section)

	dept, section = ResolveNames(depts, "2", "Hazina")
	assert.Equal(t, "Fedha", dept)
	assert.Equal(t, "Hazina", section)

	dept, section = ResolveNames(depts, "Mipango", "Bajeti")
	assert.Equal(t, "Mipango", dept)
	assert.Equal(t, "Bajeti", section)
}

func TestDraftToRecord(t *testing.T) {
	_, depts := loadDirectory(t)
	d := trainedDraft(entry(TrainingLong, "2015-01-01", "2015-09-01"))
	d.Department = "1"
	d.Section = "11"

	rec := DraftToRecord(d, depts)
	assert.Equal(t, "1234", rec.PFNumber)
	assert.Equal(t, "Rasilimali Watu", rec.Department)
	assert.Equal(t, "Mafunzo", rec.Section)
	require.Len(t, rec.TrainingHistory, 1)

	d.HasTraining = No
	d.NoTrainingReasons = []string{NoTrainingReasonOptions[0]}
	rec = DraftToRecord(d, depts)
	assert.Nil(t, rec.TrainingHistory)
	assert.Equal(t, []string{NoTrainingReasonOptions[0]}, rec.NoTrainingReasons)
}

func TestDecodeRecordList(t *testing.T) {
	bare, err := DecodeRecordList([]byte(`[{"pf_number":"1","has_training":"yes"}]`))
	require.NoError(t, err)
	require.Len(t, bare, 1)
	assert.Equal(t, Yes, bare[0].HasTraining)

	env, err := DecodeRecordList([]byte(`{"count":2,"results":[{"pf_number":"1"},{"pf_number":"2"}]}`))
	require.NoError(t, err)
	assert.Len(t, env, 2)

	empty, err := DecodeRecordList([]byte(`{"detail":"nothing"}`))
	require.NoError(t, err)
	assert.Empty(t, empty)

	_, err = DecodeRecordList([]byte(`{"results":"oops"}`))
	assert.Error(t, err)
	_, err = DecodeRecordList([]byte(`<html>`))
	assert.Error(t, err)
}

func TestFlexStringAcceptsNumbers(t *testing.T) {
	emps, err := DecodeEmployeeList([]byte(`[{"badgeNumber": 42}, {"badgeNumber": null}]`))
	require.NoError(t, err)
	assert.Equal(t, FlexString("42"), emps[0].BadgeNumber)
	assert.Equal(t, FlexString(""), emps[1].BadgeNumber)
}
