package db

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"sort"
)

//go:embed migrations/*.sql
var embeddedMigrations embed.FS

type migrationFile struct {
	name string
	data []byte
}

// RunMigrations applies pending migrations from the given directory, falling
// back to embedded files. Applied file names are recorded in
// schema_migrations so each file runs once.
func RunMigrations(db *sql.DB, migrationsDir string) error {
	files, err := loadMigrations(migrationsDir)
	if err != nil {
		return err
	}
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS schema_migrations (name TEXT PRIMARY KEY)`); err != nil {
		return fmt.Errorf("create schema_migrations: %w", err)
	}
	for _, mf := range files {
		var seen int
		if err := db.QueryRow(`SELECT COUNT(1) FROM schema_migrations WHERE name = ?`, mf.name).Scan(&seen); err != nil {
			return fmt.Errorf("check migration %s: %w", mf.name, err)
		}
		if seen > 0 || len(mf.data) == 0 {
			continue
		}
		tx, err := db.Begin()
		if err != nil {
			return err
		}
		if _, err := tx.Exec(string(mf.data)); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("exec migration %s: %w", mf.name, err)
		}
		if _, err := tx.Exec(`INSERT INTO schema_migrations (name) VALUES (?)`, mf.name); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("record migration %s: %w", mf.name, err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("commit migration %s: %w", mf.name, err)
		}
	}
	return nil
}

func loadMigrations(dir string) ([]migrationFile, error) {
	var files []migrationFile
	if dir != "" {
		entries, err := os.ReadDir(dir)
		if err == nil {
			for _, entry := range entries {
				if entry.IsDir() || filepath.Ext(entry.Name()) != ".sql" {
					continue
				}
				content, err := os.ReadFile(filepath.Join(dir, entry.Name()))
				if err != nil {
					return nil, fmt.Errorf("read migration %s: %w", entry.Name(), err)
				}
				files = append(files, migrationFile{name: entry.Name(), data: content})
			}
			sort.Slice(files, func(i, j int) bool { return files[i].name < files[j].name })
			return files, nil
		}
		if !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("read migrations: %w", err)
		}
	}

	entries, err := embeddedMigrations.ReadDir("migrations")
	if err != nil {
		return nil, fmt.Errorf("read embedded migrations: %w", err)
	}
	for _, entry := range entries {
		if entry.IsDir() || path.Ext(entry.Name()) != ".sql" {
			continue
		}
		content, err := embeddedMigrations.ReadFile(path.Join("migrations", entry.Name()))
		if err != nil {
			return nil, fmt.Errorf("read embedded migration %s: %w", entry.Name(), err)
		}
		files = append(files, migrationFile{name: entry.Name(), data: content})
	}
	sort.Slice(files, func(i, j int) bool { return files[i].name < files[j].name })
	return files, nil
}
