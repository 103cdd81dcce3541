package db

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeMigrations(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0644); err != nil {
			t.Fatalf("failed to write test file %s: %v", name, err)
		}
	}
	return dir
}

func TestLoadMigrations_SplitsUpAndDown(t *testing.T) {
	dir := writeMigrations(t, map[string]string{
		"001_clinic.sql": "-- +migrate Up\nCREATE TABLE clients (id UUID PRIMARY KEY);\n\n-- +migrate Down\nDROP TABLE clients;\n",
		"002_plain.sql":  "CREATE INDEX idx ON clients (id);",
	})

	migrations, err := NewMigrator(nil, dir).LoadMigrations()
	if err != nil {
		t.Fatalf("LoadMigrations() error: %v", err)
	}
	if len(migrations) != 2 {
		t.Fatalf("expected 2 migrations, got %d", len(migrations))
	}

	if migrations[0].UpSQL != "CREATE TABLE clients (id UUID PRIMARY KEY);" {
		t.Errorf("unexpected up SQL: %q", migrations[0].UpSQL)
	}
	if migrations[0].DownSQL != "DROP TABLE clients;" {
		t.Errorf("unexpected down SQL: %q", migrations[0].DownSQL)
	}
	if migrations[1].UpSQL != "CREATE INDEX idx ON clients (id);" {
		t.Errorf("unexpected up SQL: %q", migrations[1].UpSQL)
	}
	if migrations[1].DownSQL != "" {
		t.Errorf("expected empty down SQL, got %q", migrations[1].DownSQL)
	}
}

func TestLoadMigrations_SortOrderAndSkips(t *testing.T) {
	dir := writeMigrations(t, map[string]string{
		"010_tables.sql":  "SELECT 10;",
		"002_second.sql":  "SELECT 2;",
		"001_first.sql":   "SELECT 1;",
		"readme.sql":      "-- no version prefix",
		"abc_invalid.sql": "-- non-numeric prefix",
		"notes.txt":       "not sql",
	})

	migrations, err := NewMigrator(nil, dir).LoadMigrations()
	if err != nil {
		t.Fatalf("LoadMigrations() error: %v", err)
	}

	expected := []int{1, 2, 10}
	if len(migrations) != len(expected) {
		t.Fatalf("expected %d migrations, got %d", len(expected), len(migrations))
	}
	for i, v := range expected {
		if migrations[i].Version != v {
			t.Errorf("migration[%d]: expected version %d, got %d", i, v, migrations[i].Version)
		}
	}
}

func TestLoadMigrations_DuplicateVersion(t *testing.T) {
	dir := writeMigrations(t, map[string]string{
		"001_a.sql":  "SELECT 1;",
		"0001_b.sql": "SELECT 1;",
	})
	if _, err := NewMigrator(nil, dir).LoadMigrations(); err == nil {
		t.Error("expected error for duplicate versions")
	}
}

func TestLoadMigrations_NonExistentDir(t *testing.T) {
	if _, err := NewMigrator(nil, "/nonexistent/path").LoadMigrations(); err == nil {
		t.Error("expected error for non-existent directory")
	}
}

func sampleMigrations() []Migration {
	return []Migration{
		{Version: 1, Name: "001_clinic.sql"},
		{Version: 2, Name: "002_templates.sql"},
		{Version: 3, Name: "003_indexes.sql"},
	}
}

func TestPendingMigrations(t *testing.T) {
	applied := map[int]time.Time{1: time.Now()}

	pending := pendingMigrations(sampleMigrations(), applied, 0)
	if len(pending) != 2 || pending[0].Version != 2 || pending[1].Version != 3 {
		t.Fatalf("unexpected pending set: %+v", pending)
	}

	upTo := pendingMigrations(sampleMigrations(), applied, 2)
	if len(upTo) != 1 || upTo[0].Version != 2 {
		t.Fatalf("expected only version 2 with target 2, got %+v", upTo)
	}
}

func TestRollbackMigrations(t *testing.T) {
	applied := map[int]time.Time{1: time.Now(), 2: time.Now()}

	back := rollbackMigrations(sampleMigrations(), applied, 1)
	if len(back) != 1 || back[0].Version != 2 {
		t.Fatalf("expected to roll back version 2, got %+v", back)
	}

	all := rollbackMigrations(sampleMigrations(), applied, 5)
	if len(all) != 2 || all[0].Version != 2 || all[1].Version != 1 {
		t.Fatalf("expected reverse order 2,1, got %+v", all)
	}
}

func TestBuildStatus(t *testing.T) {
	at := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	statuses := buildStatus(sampleMigrations(), map[int]time.Time{1: at})

	if len(statuses) != 3 {
		t.Fatalf("expected 3 statuses, got %d", len(statuses))
	}
	if !statuses[0].Applied || statuses[0].AppliedAt == nil || !statuses[0].AppliedAt.Equal(at) {
		t.Errorf("expected migration 1 applied at %v, got %+v", at, statuses[0])
	}
	if statuses[1].Applied || statuses[1].AppliedAt != nil {
		t.Error("expected migration 2 pending")
	}
}

func TestMigrationsDirectory_Loads(t *testing.T) {
	migrations, err := NewMigrator(nil, "../../../migrations").LoadMigrations()
	if err != nil {
		t.Fatalf("LoadMigrations() error: %v", err)
	}
	if len(migrations) == 0 {
		t.Fatal("expected the repository migrations to load")
	}
	for _, m := range migrations {
		if m.UpSQL == "" || m.DownSQL == "" {
			t.Errorf("migration %s must carry both up and down sections", m.Name)
		}
	}
}
