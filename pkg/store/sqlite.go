package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"vsubgo/pkg/db"
	"vsubgo/pkg/model"
)

// Store defines the repository interface.
// It composes all sub-interfaces for full store access.
// Consumers should depend on specific sub-interfaces when possible.
type Store interface {
	ProjectStore
	TemplateStore
	StateStore

	// Close closes the store connection.
	Close() error
}

// SQLiteStore implements Store.
type SQLiteStore struct {
	db *db.DB
}

// NewSQLiteStore opens (or creates) the database at path and seeds the
// built-in voice templates on first use.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	d, err := db.Init(path)
	if err != nil {
		return nil, err
	}
	s := &SQLiteStore{db: d}
	if err := s.seedTemplates(context.Background()); err != nil {
		d.Close()
		return nil, fmt.Errorf("failed to seed voice templates: %w", err)
	}
	return s, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// --- Projects ---

func (s *SQLiteStore) SaveProject(ctx context.Context, p *model.Project) error {
	if p.Title == "" {
		return errors.New("project has no title")
	}
	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("failed to encode project: %w", err)
	}

	query := `INSERT OR REPLACE INTO projects (name, data, updated_at) VALUES (?, ?, ?)`
	_, err = s.db.ExecContext(ctx, query, p.Title, string(data), time.Now())
	if err == nil {
		slog.Debug("Store: Saved project", "name", p.Title, "bytes", len(data))
	}
	return err
}

func (s *SQLiteStore) GetProject(ctx context.Context, name string) (*model.Project, error) {
	var data string
	err := s.db.QueryRowContext(ctx, "SELECT data FROM projects WHERE name = ?", name).Scan(&data)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil // Not found
		}
		return nil, err
	}

	var p model.Project
	if err := json.Unmarshal([]byte(data), &p); err != nil {
		return nil, fmt.Errorf("failed to decode project %q: %w", name, err)
	}
	return &p, nil
}

func (s *SQLiteStore) ListProjects(ctx context.Context) ([]ProjectInfo, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT name, updated_at FROM projects ORDER BY updated_at DESC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []ProjectInfo
	for rows.Next() {
		var info ProjectInfo
		if err := rows.Scan(&info.Name, &info.UpdatedAt); err != nil {
			return nil, err
		}
		results = append(results, info)
	}
	return results, rows.Err()
}

func (s *SQLiteStore) DeleteProject(ctx context.Context, name string) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM projects WHERE name = ?", name)
	return err
}

// --- Voice templates ---

func (s *SQLiteStore) ListTemplates(ctx context.Context) ([]model.VoiceTemplate, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT name, pitch, rate FROM voice_templates ORDER BY created_at, name")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []model.VoiceTemplate
	for rows.Next() {
		var t model.VoiceTemplate
		if err := rows.Scan(&t.Name, &t.Pitch, &t.Rate); err != nil {
			return nil, err
		}
		results = append(results, t)
	}
	return results, rows.Err()
}

func (s *SQLiteStore) SaveTemplate(ctx context.Context, t model.VoiceTemplate) error {
	if t.Name == "" {
		return errors.New("template has no name")
	}
	query := `INSERT INTO voice_templates (name, pitch, rate, created_at)
			  VALUES (?, ?, ?, ?)
			  ON CONFLICT(name) DO UPDATE SET
			  pitch=excluded.pitch,
			  rate=excluded.rate`
	_, err := s.db.ExecContext(ctx, query, t.Name, t.Pitch, t.Rate, time.Now())
	return err
}

func (s *SQLiteStore) DeleteTemplate(ctx context.Context, name string) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM voice_templates WHERE name = ?", name)
	return err
}

// seedTemplates inserts the built-in presets, leaving user edits alone on
// later opens.
func (s *SQLiteStore) seedTemplates(ctx context.Context) error {
	var count int
	if err := s.db.QueryRowContext(ctx, "SELECT count(*) FROM voice_templates").Scan(&count); err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	for _, t := range model.DefaultTemplates() {
		if err := s.SaveTemplate(ctx, t); err != nil {
			return err
		}
	}
	slog.Info("Store: Seeded default voice templates", "count", len(model.DefaultTemplates()))
	return nil
}

// --- State ---

func (s *SQLiteStore) GetState(ctx context.Context, key string) (string, bool) {
	var val string
	err := s.db.QueryRowContext(ctx, "SELECT value FROM persistent_state WHERE key = ?", key).Scan(&val)
	if err != nil {
		return "", false
	}
	return val, true
}

func (s *SQLiteStore) SetState(ctx context.Context, key, val string) error {
	query := `INSERT OR REPLACE INTO persistent_state (key, value, created_at) VALUES (?, ?, ?)`
	_, err := s.db.ExecContext(ctx, query, key, val, time.Now())
	return err
}

func (s *SQLiteStore) DeleteState(ctx context.Context, key string) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM persistent_state WHERE key = ?", key)
	return err
}
