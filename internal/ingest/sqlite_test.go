package ingest_test

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	_ "modernc.org/sqlite"

	"execlink/internal/ingest"
)

func seedSQLite(t *testing.T, table string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "source.db")
	db, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	defer db.Close()

	if _, err := db.Exec(`CREATE TABLE ` + table + ` (
        id INTEGER PRIMARY KEY,
        executive_name TEXT,
        job_title TEXT,
        location TEXT,
        employer TEXT
    )`); err != nil {
		t.Fatalf("create table: %v", err)
	}
	if _, err := db.Exec(`INSERT INTO `+table+` (id, executive_name, job_title, location, employer) VALUES
        (10, 'John Smith', 'CEO', '100 Main St', 'Acme Corp'),
        (11, 'Mary Jones', 'CFO', NULL, 'Widget Inc')`); err != nil {
		t.Fatalf("insert rows: %v", err)
	}
	return path
}

func TestSQLiteSourceFetch(t *testing.T) {
	path := seedSQLite(t, "executives")
	source := ingest.NewSQLiteSource(path, "")

	batch, err := source.Fetch(context.Background())
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	if len(batch) != 2 {
		t.Fatalf("expected 2 records, got %d", len(batch))
	}
	if batch[0].ID != "10" || batch[0].Name != "John Smith" || batch[0].Company != "Acme Corp" {
		t.Fatalf("unexpected first record: %+v", batch[0])
	}
	if batch[1].Address != "" {
		t.Fatalf("expected empty address for NULL column, got %q", batch[1].Address)
	}
}

func TestSQLiteSourceConfiguredTable(t *testing.T) {
	path := seedSQLite(t, "board_members")
	source := ingest.NewSQLiteSource(path, "board_members")

	batch, err := source.Fetch(context.Background())
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	if len(batch) != 2 {
		t.Fatalf("expected 2 records, got %d", len(batch))
	}
}

func TestSQLiteSourceNoTable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.db")
	db, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if _, err := db.Exec(`CREATE TABLE unrelated (x TEXT)`); err != nil {
		t.Fatalf("create table: %v", err)
	}
	_ = db.Close()

	if _, err := ingest.NewSQLiteSource(path, "").Fetch(context.Background()); err == nil {
		t.Fatal("expected error when no executive table exists")
	}
}
