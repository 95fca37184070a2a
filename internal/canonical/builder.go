package canonical

import (
	"sort"
	"strings"
	"time"

	"execlink/internal/match"
	"execlink/internal/records"
	"execlink/internal/textutil"
)

// Variation preserves the original field set of one merged raw record for
// audit. Variations are never discarded after a merge.
type Variation struct {
	RecordID string `json:"record_id"`
	Name     string `json:"name"`
	Title    string `json:"title"`
	Company  string `json:"company"`
	Address  string `json:"address"`
}

// PersonRecord is the single merged representation of a person used for
// downstream attribution.
type PersonRecord struct {
	PersonKey   string      `json:"person_key"`
	Name        string      `json:"name"`
	Address     string      `json:"address"`
	Companies   []string    `json:"companies"`
	Titles      []string    `json:"titles,omitempty"`
	GroupedFrom int         `json:"grouped_from"`
	Variations  []Variation `json:"all_variations"`
}

// CompanyLink attributes a person to one company they serve. One link exists
// per distinct company in the person's record.
type CompanyLink struct {
	Company    string    `json:"company"`
	CompanyKey string    `json:"-"`
	PersonKey  string    `json:"-"`
	PersonName string    `json:"person_name"`
	LinkedAt   time.Time `json:"linked_at"`
}

// Build merges clusters with status Confirmed or AutoApproved into canonical
// person records and company links. Clusters in any other status are
// ignored. linkedAt stamps every emitted link with the build time, not the
// original record creation time.
func Build(clusters []*match.Cluster, linkedAt time.Time) ([]PersonRecord, []CompanyLink) {
	var persons []PersonRecord
	var links []CompanyLink

	for _, cluster := range clusters {
		if cluster.Status != match.StatusConfirmed && cluster.Status != match.StatusAutoApproved {
			continue
		}
		person := buildPerson(cluster)
		persons = append(persons, person)
		for _, company := range person.Companies {
			links = append(links, CompanyLink{
				Company:    company,
				CompanyKey: textutil.SanitizeKey(company),
				PersonKey:  person.PersonKey,
				PersonName: person.Name,
				LinkedAt:   linkedAt,
			})
		}
	}
	return persons, links
}

func buildPerson(cluster *match.Cluster) PersonRecord {
	representative := representativeRecord(cluster.Members)
	address := strings.TrimSpace(representative.Address)
	if address == "" {
		for _, member := range cluster.Members {
			if a := strings.TrimSpace(member.Address); a != "" {
				address = a
				break
			}
		}
	}

	variations := make([]Variation, len(cluster.Members))
	for i, member := range cluster.Members {
		variations[i] = Variation{
			RecordID: member.ID,
			Name:     member.Name,
			Title:    member.Title,
			Company:  member.Company,
			Address:  member.Address,
		}
	}

	return PersonRecord{
		PersonKey:   textutil.SanitizeKey(representative.Name),
		Name:        strings.TrimSpace(representative.Name),
		Address:     address,
		Companies:   append([]string(nil), cluster.Companies...),
		Titles:      append([]string(nil), cluster.Titles...),
		GroupedFrom: cluster.Size(),
		Variations:  variations,
	}
}

// representativeRecord picks the member whose exact name string occurs most
// often in the cluster, breaking ties by longest name and then lowest record
// id. The selection is stable across runs.
func representativeRecord(members []records.Record) records.Record {
	counts := make(map[string]int, len(members))
	for _, member := range members {
		counts[strings.TrimSpace(member.Name)]++
	}

	sorted := make([]records.Record, len(members))
	copy(sorted, members)
	sort.SliceStable(sorted, func(i, j int) bool {
		ni, nj := strings.TrimSpace(sorted[i].Name), strings.TrimSpace(sorted[j].Name)
		if counts[ni] != counts[nj] {
			return counts[ni] > counts[nj]
		}
		if len(ni) != len(nj) {
			return len(ni) > len(nj)
		}
		return sorted[i].ID < sorted[j].ID
	})
	return sorted[0]
}
