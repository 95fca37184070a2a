package ingest

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	"execlink/internal/records"
)

// CSVSource reads a headered CSV export.
type CSVSource struct {
	path string
}

// NewCSVSource builds a source for the given CSV file.
func NewCSVSource(path string) *CSVSource {
	return &CSVSource{path: path}
}

func (s *CSVSource) Name() string {
	return "csv:" + s.path
}

func (s *CSVSource) Fetch(ctx context.Context) ([]records.Record, error) {
	f, err := os.Open(s.path)
	if err != nil {
		return nil, fmt.Errorf("open csv source: %w", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("csv source %s is empty", s.path)
	}
	if err != nil {
		return nil, fmt.Errorf("read csv header: %w", err)
	}
	cols, err := identifyColumns(header)
	if err != nil {
		return nil, fmt.Errorf("csv source %s: %w", s.path, err)
	}

	var batch []records.Record
	for row := 1; ; row++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		fields, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv row %d: %w", row, err)
		}
		rec := records.Record{
			ID:      fieldAt(fields, cols.id),
			Name:    fieldAt(fields, cols.name),
			Title:   fieldAt(fields, cols.title),
			Address: fieldAt(fields, cols.address),
			Company: fieldAt(fields, cols.company),
		}
		if rec.ID == "" {
			rec.ID = strconv.Itoa(row)
		}
		batch = append(batch, rec)
	}
	return batch, nil
}
