package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"

	"github.com/orci-tz/mafunzo/internal/logging"
	"github.com/orci-tz/mafunzo/internal/services"
)

// SQLiteStore persists responses and dashboard users in one SQLite file.
type SQLiteStore struct {
	db     *sql.DB
	logger *zap.Logger
}

// Open opens (creating if needed) the database at path and applies migrations.
func Open(path string, logger *zap.Logger) (*SQLiteStore, error) {
	conn, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}
	// sqlite serialises writers; a single connection also keeps :memory: databases shared
	conn.SetMaxOpenConns(1)
	s, err := NewSQLiteStore(conn, logger)
	if err != nil {
		_ = conn.Close()
		return nil, err
	}
	if err := RunMigrations(conn, ""); err != nil {
		_ = conn.Close()
		return nil, err
	}
	return s, nil
}

func NewSQLiteStore(db *sql.DB, logger *zap.Logger) (*SQLiteStore, error) {
	if db == nil {
		return nil, errors.New("nil db")
	}
	pragmas := []string{
		"PRAGMA foreign_keys = ON",
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, stmt := range pragmas {
		if _, err := db.Exec(stmt); err != nil {
			return nil, fmt.Errorf("apply sqlite pragma %q: %w", stmt, err)
		}
	}
	return &SQLiteStore{db: db, logger: logging.OrNop(logger)}, nil
}

func (s *SQLiteStore) Close() error { return s.db.Close() }

func (s *SQLiteStore) AddResponse(ctx context.Context, r *services.ResponseRecord) error {
	reasons, err := json.Marshal(nonNilStrings(r.NoTrainingReasons))
	if err != nil {
		return err
	}
	var history sql.NullString
	if r.TrainingHistory != nil {
		b, err := json.Marshal(r.TrainingHistory)
		if err != nil {
			return err
		}
		history = sql.NullString{String: string(b), Valid: true}
	}
	_, err = s.db.ExecContext(ctx, `INSERT INTO responses
		(id, pf_number, full_name, position, department, section, has_training,
		 ready_for_training, no_training_reasons, other_reasons, training_history, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.ID, r.PFNumber, r.FullName, r.Position, r.Department, r.Section, string(r.HasTraining),
		string(r.ReadyForTraining), string(reasons), r.OtherReasons, history,
		r.CreatedAt.UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("insert response: %w", err)
	}
	return nil
}

// ListResponses returns every response in insertion order.
func (s *SQLiteStore) ListResponses(ctx context.Context) ([]services.ResponseRecord, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, pf_number, full_name, position, department, section,
		has_training, ready_for_training, no_training_reasons, other_reasons, training_history, created_at
		FROM responses ORDER BY seq`)
	if err != nil {
		return nil, fmt.Errorf("list responses: %w", err)
	}
	defer rows.Close()

	out := []services.ResponseRecord{}
	for rows.Next() {
		var (
			r                  services.ResponseRecord
			hasTraining, ready string
			reasons, created   string
			history            sql.NullString
		)
		if err := rows.Scan(&r.ID, &r.PFNumber, &r.FullName, &r.Position, &r.Department, &r.Section,
			&hasTraining, &ready, &reasons, &r.OtherReasons, &history, &created); err != nil {
			return nil, fmt.Errorf("scan response: %w", err)
		}
		r.HasTraining = services.YesNo(hasTraining)
		r.ReadyForTraining = services.YesNo(ready)
		if err := json.Unmarshal([]byte(reasons), &r.NoTrainingReasons); err != nil {
			s.logger.Warn("decode no_training_reasons", zap.String("id", r.ID), zap.Error(err))
		}
		if history.Valid && strings.TrimSpace(history.String) != "" {
			if err := json.Unmarshal([]byte(history.String), &r.TrainingHistory); err != nil {
				s.logger.Warn("decode training_history", zap.String("id", r.ID), zap.Error(err))
			}
		}
		if t, err := time.Parse(time.RFC3339Nano, created); err == nil {
			r.CreatedAt = t
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// CountResponses returns the number of stored responses.
func (s *SQLiteStore) CountResponses(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(1) FROM responses`).Scan(&n)
	return n, err
}

func (s *SQLiteStore) FindUserByUsername(ctx context.Context, username string) (*services.User, error) {
	var (
		u       services.User
		created string
	)
	err := s.db.QueryRowContext(ctx, `SELECT id, username, password_hash, role, created_at FROM users WHERE username = ?`, username).
		Scan(&u.ID, &u.Username, &u.PasswordHash, &u.Role, &created)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	if t, err := time.Parse(time.RFC3339Nano, created); err == nil {
		u.CreatedAt = t
	}
	return &u, nil
}

// UpsertUser inserts u or refreshes the hash and role of an existing username.
func (s *SQLiteStore) UpsertUser(ctx context.Context, u *services.User) error {
	id := u.ID
	if id == "" {
		id = u.Username
	}
	created := u.CreatedAt
	if created.IsZero() {
		created = time.Now().UTC()
	}
	_, err := s.db.ExecContext(ctx, `INSERT INTO users (id, username, password_hash, role, created_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(username) DO UPDATE SET password_hash = excluded.password_hash, role = excluded.role`,
		id, u.Username, u.PasswordHash, u.Role, created.Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("upsert user %s: %w", u.Username, err)
	}
	return nil
}

func nonNilStrings(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
