package ingest

import (
	"errors"
	"testing"
)

func TestIdentifyColumns(t *testing.T) {
	tests := []struct {
		name   string
		header []string
		want   columnMap
	}{
		{
			name:   "canonical headers",
			header: []string{"id", "name", "title", "address", "company"},
			want:   columnMap{id: 0, name: 1, title: 2, address: 3, company: 4},
		},
		{
			name:   "variant headers",
			header: []string{"exec_id", "executive_name", "job_title", "mailing_address", "employer"},
			want:   columnMap{id: 0, name: 1, title: 2, address: 3, company: 4},
		},
		{
			name:   "sparse feed",
			header: []string{"full_name", "notes"},
			want:   columnMap{id: -1, name: 0, title: -1, address: -1, company: -1},
		},
		{
			name:   "first match wins",
			header: []string{"name", "person_name", "city", "state"},
			want:   columnMap{id: -1, name: 0, title: -1, address: 2, company: -1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := identifyColumns(tt.header)
			if err != nil {
				t.Fatalf("identifyColumns(%v) failed: %v", tt.header, err)
			}
			if got != tt.want {
				t.Errorf("identifyColumns(%v) = %+v, want %+v", tt.header, got, tt.want)
			}
		})
	}
}

func TestIdentifyColumnsRequiresName(t *testing.T) {
	_, err := identifyColumns([]string{"id", "notes", "created_at"})
	if !errors.Is(err, ErrNoNameColumn) {
		t.Fatalf("expected ErrNoNameColumn, got %v", err)
	}
}
