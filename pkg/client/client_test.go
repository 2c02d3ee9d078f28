package client

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orci-tz/mafunzo/internal/services"
)

const recordsJSON = `[{"id":"r1","pf_number":"1234","full_name":"Asha","has_training":"yes"}]`

func newServer(t *testing.T, h http.HandlerFunc) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return srv
}

func TestFetchResponsesBareAndEnvelope(t *testing.T) {
	for name, body := range map[string]string{
		"bare":     recordsJSON,
		"envelope": `{"count":1,"results":` + recordsJSON + `}`,
	} {
		t.Run(name, func(t *testing.T) {
			var auth string
			srv := newServer(t, func(w http.ResponseWriter, r *http.Request) {
				auth = r.Header.Get("Authorization")
				assert.Equal(t, "/api/v1/responses/", r.URL.Path)
				assert.NotEmpty(t, r.Header.Get("X-Request-ID"))
				_, _ = io.WriteString(w, body)
			})
			c := NewClient(srv.URL)
			require.NoError(t, c.Session().Set("tok", ""))

			got, err := c.FetchResponses(context.Background())
			require.NoError(t, err)
			require.Len(t, got, 1)
			assert.Equal(t, "1234", got[0].PFNumber)
			assert.Equal(t, services.Yes, got[0].HasTraining)
			assert.Equal(t, "Bearer tok", auth)
		})
	}
}

func TestFetchResponsesErrors(t *testing.T) {
	status := http.StatusUnauthorized
	srv := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", status)
	})
	c := NewClient(srv.URL)
	require.NoError(t, c.Session().Set("stale", "r"))

	_, err := c.FetchResponses(context.Background())
	assert.ErrorIs(t, err, ErrUnauthorized)
	assert.False(t, c.Session().LoggedIn(), "401 clears the session")
	assert.Equal(t, "Muda wa kuingia umekwisha. Tafadhali ingia tena.", UserMessage(err, "sw"))

	status = http.StatusForbidden
	_, err = c.FetchResponses(context.Background())
	assert.ErrorIs(t, err, ErrForbidden)
	assert.Contains(t, UserMessage(err, "en"), "Access Denied")

	status = http.StatusInternalServerError
	_, err = c.FetchResponses(context.Background())
	var fe *FetchError
	require.True(t, errors.As(err, &fe))
	assert.Equal(t, 500, fe.Status)
	assert.Equal(t, "Kuna tatizo kwenye kupata taarifa.", UserMessage(err, "sw"))
}

func TestSubmitResponse(t *testing.T) {
	var got services.ResponseRecord
	fail := false
	srv := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Empty(t, r.Header.Get("Authorization"))
		if fail {
			http.Error(w, `{"detail":"bad"}`, http.StatusBadRequest)
			return
		}
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		got.ID = "new"
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(got)
	})
	c := NewClient(srv.URL)
	require.NoError(t, c.Session().Set("tok", ""))

	stored, err := c.SubmitResponse(context.Background(), services.ResponseRecord{PFNumber: "1", FullName: "n", HasTraining: services.No})
	require.NoError(t, err)
	assert.Equal(t, "new", stored.ID)
	assert.Equal(t, "1", got.PFNumber)

	fail = true
	_, err = c.SubmitResponse(context.Background(), services.ResponseRecord{})
	var se *SubmitError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, http.StatusBadRequest, se.Status)
	assert.Equal(t, "Kuna tatizo kwenye kuwasilisha data.", UserMessage(err, "sw"))
}

func TestLoginPersistsSession(t *testing.T) {
	srv := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		var req map[string]string
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		if req["password"] != "Siri123" {
			http.Error(w, `{"detail":"invalid credentials"}`, http.StatusUnauthorized)
			return
		}
		_, _ = io.WriteString(w, `{"access":"a1","refresh":"r1"}`)
	})
	path := filepath.Join(t.TempDir(), "session.json")
	sess, err := LoadSession(path)
	require.NoError(t, err)
	c := NewClient(srv.URL, WithSession(sess))

	pair, err := c.Login(context.Background(), "hr", "Siri123")
	require.NoError(t, err)
	assert.Equal(t, "a1", pair.Access)

	reloaded, err := LoadSession(path)
	require.NoError(t, err)
	assert.Equal(t, "a1", reloaded.Token())

	_, err = c.Login(context.Background(), "hr", "bad")
	assert.ErrorIs(t, err, ErrUnauthorized)
	reloaded, err = LoadSession(path)
	require.NoError(t, err)
	assert.False(t, reloaded.LoggedIn())
}

func TestDirectoryLookups(t *testing.T) {
	srv := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/users":
			assert.Equal(t, "1000000", r.URL.Query().Get("size"))
			_, _ = io.WriteString(w, `{"data":[{"badgeNumber":1234,"name":"Asha","department":{"name":"HR"}}]}`)
		case "/api/v1/departments":
			_, _ = io.WriteString(w, `{"data":[{"id":1,"name":"HR","sections":[{"id":2,"name":"Mafunzo"}]}]}`)
		default:
			http.NotFound(w, r)
		}
	})
	c := NewClient("http://unused.invalid", WithDirectoryURL(srv.URL+"/"))
	emps, err := c.FetchEmployees(context.Background())
	require.NoError(t, err)
	depts, err := c.FetchDepartments(context.Background())
	require.NoError(t, err)

	m, ok := services.LookupEmployee(emps, depts, "1234")
	require.True(t, ok)
	assert.Equal(t, "1", m.DepartmentID)
}

func TestDownloadYearMatrix(t *testing.T) {
	srv := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "csv", r.URL.Query().Get("format"))
		assert.Equal(t, "2010", r.URL.Query().Get("start"))
		w.Header().Set("Content-Type", "text/csv")
		w.Header().Set("Content-Disposition", `attachment; filename="Training_Report_2010_2012.csv"`)
		_, _ = io.WriteString(w, "NA,MWAKA\n")
	})
	res, err := NewClient(srv.URL).DownloadYearMatrix(context.Background(), "csv", 2010, 2012)
	require.NoError(t, err)
	assert.Equal(t, "Training_Report_2010_2012.csv", res.Filename)
	assert.Equal(t, "NA,MWAKA\n", string(res.Data))
}
