package db

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/orci-tz/mafunzo/internal/services"
)

func openTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "survey.db"), zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestSQLiteResponsesRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)
	created := time.Date(2025, 3, 1, 8, 0, 0, 0, time.UTC)

	trained := &services.ResponseRecord{
		ID: "r1", PFNumber: "1234", FullName: "Asha Juma", Position: "Afisa", Department: "HR", Section: "Mafunzo",
		HasTraining: services.Yes, ReadyForTraining: services.Yes,
		TrainingHistory: []services.TrainingEntry{{TrainingType: "long", Institution: "UDSM", Sponsor: "Serikali", StartDate: "2015-01-01", EndDate: "2015-09-01"}},
		CreatedAt:       created,
	}
	untrained := &services.ResponseRecord{
		ID: "r2", PFNumber: "5678", FullName: "Baraka", HasTraining: services.No,
		NoTrainingReasons: []string{"Sababu binafsi"}, OtherReasons: "likizo", CreatedAt: created.Add(time.Minute),
	}
	require.NoError(t, s.AddResponse(ctx, trained))
	require.NoError(t, s.AddResponse(ctx, untrained))
	assert.Error(t, s.AddResponse(ctx, trained), "duplicate id")

	got, err := s.ListResponses(ctx)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, *trained, withEmptyReasons(got[0]))
	assert.Equal(t, "r2", got[1].ID)
	assert.Nil(t, got[1].TrainingHistory)
	assert.Equal(t, []string{"Sababu binafsi"}, got[1].NoTrainingReasons)

	n, err := s.CountResponses(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func withEmptyReasons(r services.ResponseRecord) services.ResponseRecord {
	if len(r.NoTrainingReasons) == 0 {
		r.NoTrainingReasons = nil
	}
	return r
}

func TestSQLiteUsers(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	u, err := s.FindUserByUsername(ctx, "hr")
	require.NoError(t, err)
	assert.Nil(t, u)

	require.NoError(t, s.UpsertUser(ctx, &services.User{Username: "hr", PasswordHash: "h1", Role: services.RoleViewer}))
	require.NoError(t, s.UpsertUser(ctx, &services.User{Username: "hr", PasswordHash: "h2", Role: services.RoleAdmin}))

	u, err = s.FindUserByUsername(ctx, "hr")
	require.NoError(t, err)
	require.NotNil(t, u)
	assert.Equal(t, "hr", u.ID)
	assert.Equal(t, "h2", u.PasswordHash)
	assert.Equal(t, services.RoleAdmin, u.Role)
}

func TestMigrationsRunOnce(t *testing.T) {
	s := openTestStore(t)
	require.NoError(t, RunMigrations(s.db, ""))

	var n int
	require.NoError(t, s.db.QueryRow(`SELECT COUNT(1) FROM schema_migrations`).Scan(&n))
	assert.Equal(t, 1, n)
}

func TestNewSQLiteStoreRejectsNil(t *testing.T) {
	_, err := NewSQLiteStore(nil, nil)
	assert.Error(t, err)
}
