package ingest

import (
	"errors"
	"strings"
)

// Common header variations seen across executive feeds. Matching is
// substring-based on the lowercased column name; the first hit wins.
var (
	nameVariations = []string{
		"name", "executive_name", "person_name", "full_name",
		"first_name", "last_name", "exec_name",
	}
	titleVariations = []string{
		"title", "job_title", "position", "role", "job", "exec_title",
	}
	addressVariations = []string{
		"address", "location", "city", "state", "address_line",
		"street", "mailing_address",
	}
	companyVariations = []string{
		"company", "company_name", "employer", "firm",
		"organization", "org",
	}
)

// ErrNoNameColumn is returned when no column resembling a person name exists.
var ErrNoNameColumn = errors.New("no name column identified")

// columnMap holds the resolved positions of the record fields within a row.
// An absent field is -1.
type columnMap struct {
	id      int
	name    int
	title   int
	address int
	company int
}

func matchesAny(column string, variations []string) bool {
	for _, variation := range variations {
		if strings.Contains(column, variation) {
			return true
		}
	}
	return false
}

// identifyColumns resolves field positions from a header row. Title, address,
// and company are optional; records simply carry empty values for them.
func identifyColumns(header []string) (columnMap, error) {
	cols := columnMap{id: -1, name: -1, title: -1, address: -1, company: -1}
	for i, raw := range header {
		column := strings.ToLower(strings.TrimSpace(raw))
		if cols.id < 0 && (column == "id" || strings.HasSuffix(column, "_id")) {
			cols.id = i
			continue
		}
		if cols.name < 0 && matchesAny(column, nameVariations) {
			cols.name = i
		}
		if cols.title < 0 && matchesAny(column, titleVariations) {
			cols.title = i
		}
		if cols.address < 0 && matchesAny(column, addressVariations) {
			cols.address = i
		}
		if cols.company < 0 && matchesAny(column, companyVariations) {
			cols.company = i
		}
	}
	if cols.name < 0 {
		return cols, ErrNoNameColumn
	}
	return cols, nil
}

func fieldAt(row []string, index int) string {
	if index < 0 || index >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[index])
}
