package sink_test

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"execlink/internal/sink"
)

func TestFileSinkWritesSnapshot(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	persons, links := sampleBatch()

	s := sink.NewFileSink(dir)
	result, err := s.Upload(context.Background(), persons, links)
	if err != nil {
		t.Fatalf("Upload failed: %v", err)
	}
	if result.Persons != 2 || result.Links != 3 {
		t.Fatalf("unexpected result: %#v", result)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read sink dir: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected one snapshot file, got %d", len(entries))
	}

	payload, err := os.ReadFile(filepath.Join(dir, entries[0].Name()))
	if err != nil {
		t.Fatalf("read snapshot: %v", err)
	}

	var doc struct {
		Executives map[string]struct {
			Name      string   `json:"name"`
			Companies []string `json:"companies"`
		} `json:"executives"`
		Companies map[string]map[string]struct {
			PersonName string `json:"person_name"`
		} `json:"person_companies"`
	}
	if err := json.Unmarshal(payload, &doc); err != nil {
		t.Fatalf("decode snapshot: %v", err)
	}

	person, ok := doc.Executives["john_smith"]
	if !ok || person.Name != "John Smith" || len(person.Companies) != 2 {
		t.Fatalf("unexpected person entry: %#v", doc.Executives)
	}
	if doc.Companies["widget_inc"]["mary_jones"].PersonName != "Mary Jones" {
		t.Fatalf("unexpected company links: %#v", doc.Companies)
	}
}

func TestFileSinkEmptyBatch(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	s := sink.NewFileSink(dir)

	result, err := s.Upload(context.Background(), nil, nil)
	if err != nil {
		t.Fatalf("Upload failed: %v", err)
	}
	if result.Persons != 0 || result.Links != 0 || result.Failed() {
		t.Fatalf("unexpected result: %#v", result)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read sink dir: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected snapshot even for empty batch, got %d entries", len(entries))
	}
}
