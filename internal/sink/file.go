package sink

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"execlink/internal/canonical"
)

// FileSink mirrors the rtdb document tree on local disk. Each batch lands in
// a timestamped snapshot file holding the whole tree.
type FileSink struct {
	dir string
	now func() time.Time
}

// NewFileSink builds a sink writing under the given directory.
func NewFileSink(dir string) *FileSink {
	return &FileSink{dir: dir, now: time.Now}
}

func (s *FileSink) Name() string {
	return "file:" + s.dir
}

type snapshot struct {
	WrittenAt  string                                      `json:"written_at"`
	Executives map[string]canonical.PersonRecord           `json:"executives"`
	Companies  map[string]map[string]canonical.CompanyLink `json:"person_companies"`
}

func (s *FileSink) Upload(ctx context.Context, persons []canonical.PersonRecord, links []canonical.CompanyLink) (Result, error) {
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return Result{}, fmt.Errorf("create sink dir: %w", err)
	}

	doc := snapshot{
		WrittenAt:  s.now().UTC().Format(time.RFC3339),
		Executives: make(map[string]canonical.PersonRecord, len(persons)),
		Companies:  make(map[string]map[string]canonical.CompanyLink),
	}
	var result Result
	for _, person := range persons {
		doc.Executives[person.PersonKey] = person
		result.Persons++
	}
	for _, link := range links {
		companyLinks, ok := doc.Companies[link.CompanyKey]
		if !ok {
			companyLinks = make(map[string]canonical.CompanyLink)
			doc.Companies[link.CompanyKey] = companyLinks
		}
		companyLinks[link.PersonKey] = link
		result.Links++
	}

	payload, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return Result{}, fmt.Errorf("marshal snapshot: %w", err)
	}

	name := fmt.Sprintf("canonical_%s.json", s.now().UTC().Format("20060102_150405"))
	path := filepath.Join(s.dir, name)
	if err := os.WriteFile(path, payload, 0o644); err != nil {
		return Result{}, fmt.Errorf("write snapshot: %w", err)
	}
	return result, nil
}
