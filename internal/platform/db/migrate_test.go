package db

import (
	"strings"
	"testing"
	"testing/fstest"
	"time"
)

func TestLoadMigrations(t *testing.T) {
	fsys := fstest.MapFS{
		"002_snapshots.sql": {Data: []byte("CREATE TABLE b (id SERIAL PRIMARY KEY);")},
		"001_items.sql":     {Data: []byte("CREATE TABLE a (id SERIAL PRIMARY KEY);")},
		"010_index.sql":     {Data: []byte("SELECT 10;")},
	}

	migrations, err := NewMigrator(nil, fsys).LoadMigrations()
	if err != nil {
		t.Fatalf("LoadMigrations() error: %v", err)
	}
	if len(migrations) != 3 {
		t.Fatalf("expected 3 migrations, got %d", len(migrations))
	}

	expected := []int{1, 2, 10}
	for i, v := range expected {
		if migrations[i].Version != v {
			t.Errorf("migration[%d]: expected version %d, got %d", i, v, migrations[i].Version)
		}
	}
	if migrations[0].Name != "001_items.sql" {
		t.Errorf("expected name 001_items.sql, got %s", migrations[0].Name)
	}
	if migrations[0].SQL != "CREATE TABLE a (id SERIAL PRIMARY KEY);" {
		t.Errorf("unexpected SQL content: %s", migrations[0].SQL)
	}
}

func TestLoadMigrations_SkipsUnversionedFiles(t *testing.T) {
	fsys := fstest.MapFS{
		"001_valid.sql":      {Data: []byte("SELECT 1;")},
		"readme.sql":         {Data: []byte("-- no prefix")},
		"notes.txt":          {Data: []byte("not sql")},
		"abc_invalid.sql":    {Data: []byte("-- non-numeric prefix")},
		"002_also_valid.sql": {Data: []byte("SELECT 2;")},
		"sub/003_nested.sql": {Data: []byte("SELECT 3;")},
	}

	migrations, err := NewMigrator(nil, fsys).LoadMigrations()
	if err != nil {
		t.Fatalf("LoadMigrations() error: %v", err)
	}
	if len(migrations) != 2 {
		t.Fatalf("expected 2 valid migrations, got %d", len(migrations))
	}
}

func TestLoadMigrations_DuplicateVersion(t *testing.T) {
	fsys := fstest.MapFS{
		"001_a.sql":  {Data: []byte("SELECT 1;")},
		"0001_b.sql": {Data: []byte("SELECT 1;")},
	}

	_, err := NewMigrator(nil, fsys).LoadMigrations()
	if err == nil {
		t.Fatal("expected error for duplicate version")
	}
	if !strings.Contains(err.Error(), "share version 1") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestEmbeddedMigrations(t *testing.T) {
	migrations, err := NewMigrator(nil, Migrations()).LoadMigrations()
	if err != nil {
		t.Fatalf("LoadMigrations() error: %v", err)
	}
	if len(migrations) == 0 {
		t.Fatal("expected embedded migrations")
	}
	if migrations[0].Version != 1 {
		t.Errorf("expected first version 1, got %d", migrations[0].Version)
	}
	for _, table := range []string{"patient_history_item", "patient_history_snapshot"} {
		if !strings.Contains(migrations[0].SQL, table) {
			t.Errorf("expected first migration to create %s", table)
		}
	}
}

func TestPendingAndStatuses(t *testing.T) {
	migrations := []Migration{
		{Version: 1, Name: "001_a.sql"},
		{Version: 2, Name: "002_b.sql"},
		{Version: 3, Name: "003_c.sql"},
	}
	at := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	applied := map[int]time.Time{1: at, 3: at}

	pending := Pending(migrations, applied)
	if len(pending) != 1 || pending[0].Version != 2 {
		t.Fatalf("expected only version 2 pending, got %+v", pending)
	}

	statuses := Statuses(migrations, applied)
	if len(statuses) != 3 {
		t.Fatalf("expected 3 statuses, got %d", len(statuses))
	}
	if !statuses[0].Applied || statuses[0].AppliedAt == nil || !statuses[0].AppliedAt.Equal(at) {
		t.Errorf("expected version 1 applied at %v, got %+v", at, statuses[0])
	}
	if statuses[1].Applied || statuses[1].AppliedAt != nil {
		t.Errorf("expected version 2 pending, got %+v", statuses[1])
	}
}
