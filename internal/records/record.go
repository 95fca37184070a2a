package records

import "strings"

// Record is one source-system row describing an executive. All fields are
// free text and any of them except ID may be empty. Records are never
// mutated once ingested.
type Record struct {
	ID      string
	Name    string
	Title   string
	Address string
	Company string
}

// IsEmpty reports whether every descriptive field is blank.
func (r Record) IsEmpty() bool {
	return strings.TrimSpace(r.Name) == "" &&
		strings.TrimSpace(r.Title) == "" &&
		strings.TrimSpace(r.Address) == "" &&
		strings.TrimSpace(r.Company) == ""
}

// FieldCount returns the number of non-blank descriptive fields. Used to
// pick the most complete record of a cluster.
func (r Record) FieldCount() int {
	count := 0
	for _, v := range []string{r.Name, r.Title, r.Address, r.Company} {
		if strings.TrimSpace(v) != "" {
			count++
		}
	}
	return count
}
