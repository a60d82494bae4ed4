package db

import (
	"path/filepath"
	"testing"
)

func TestInit(t *testing.T) {
	// Nested path exercises directory creation.
	path := filepath.Join(t.TempDir(), "data", "test.db")

	d, err := Init(path)
	if err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	defer d.Close()

	// All tables must exist after migration.
	for _, table := range []string{"projects", "voice_templates", "persistent_state"} {
		var name string
		err := d.QueryRow("SELECT name FROM sqlite_master WHERE type='table' AND name=?", table).Scan(&name)
		if err != nil {
			t.Errorf("table %q missing: %v", table, err)
		}
	}

	// Re-opening an existing database must not fail.
	if err := d.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	d2, err := Init(path)
	if err != nil {
		t.Fatalf("second Init() error = %v", err)
	}
	d2.Close()
}
