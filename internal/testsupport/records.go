package testsupport

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"execlink/internal/records"
)

// SampleRecords returns a small raw batch with two obvious duplicates, one
// borderline variant, and one unrelated record.
func SampleRecords() []records.Record {
	return []records.Record{
		{ID: "1", Name: "John Smith", Title: "CEO", Address: "100 Main St, Springfield", Company: "Acme Corp"},
		{ID: "2", Name: "Jon Smith", Title: "Chief Executive Officer", Address: "100 Main Street, Springfield", Company: "Acme Corporation"},
		{ID: "3", Name: "J. Smith", Title: "CEO", Address: "100 Main St", Company: "Acme"},
		{ID: "4", Name: "Mary Jones", Title: "CFO", Address: "42 Oak Ave, Portland", Company: "Widget Inc"},
	}
}

// WriteCSV writes records as a headered CSV file and returns its path.
func WriteCSV(t testing.TB, dir string, recs []records.Record) string {
	t.Helper()

	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("mkdir %s: %v", dir, err)
	}
	path := filepath.Join(dir, "records.csv")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create %s: %v", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"id", "name", "title", "address", "company"}); err != nil {
		t.Fatalf("write header: %v", err)
	}
	for _, rec := range recs {
		if err := w.Write([]string{rec.ID, rec.Name, rec.Title, rec.Address, rec.Company}); err != nil {
			t.Fatalf("write record %s: %v", rec.ID, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		t.Fatalf("flush csv: %v", err)
	}
	return path
}
