package inventory

import (
	"slices"
	"strings"
)

// Query selects records. Area, Zone and Category match exactly when set;
// Search is a case-insensitive substring match over the descriptive and
// vendor columns and the tags.
type Query struct {
	Search   string `json:"search,omitempty"`
	Area     string `json:"area,omitempty"`
	Zone     string `json:"zone,omitempty"`
	Category string `json:"category,omitempty"`
}

// IsZero reports whether the query matches everything.
func (q Query) IsZero() bool {
	return strings.TrimSpace(q.Search) == "" && q.Area == "" && q.Zone == "" && q.Category == ""
}

// Match reports whether r is selected by q.
func (q Query) Match(r *Record) bool {
	if q.Area != "" && string(r.Area) != q.Area {
		return false
	}
	if q.Zone != "" && string(r.Zone) != q.Zone {
		return false
	}
	if q.Category != "" && string(r.Category) != q.Category {
		return false
	}
	needle := strings.ToLower(strings.TrimSpace(q.Search))
	if needle == "" {
		return true
	}
	return strings.Contains(haystack(r), needle)
}

func haystack(r *Record) string {
	parts := []string{
		string(r.Area), string(r.Zone), string(r.Category), string(r.SectionNote),
		string(r.Spec), string(r.Description), string(r.Notes),
		string(r.Vendor), string(r.Model), string(r.PartNumber),
		strings.Join(r.Tags, " "),
	}
	return strings.ToLower(strings.Join(parts, " "))
}

// Filter returns the records matched by q, in their original order.
func Filter(records []Record, q Query) []Record {
	if q.IsZero() {
		return records
	}
	out := make([]Record, 0, len(records))
	for i := range records {
		if q.Match(&records[i]) {
			out = append(out, records[i])
		}
	}
	return out
}

// Facets are the distinct non-blank values offered as filter choices.
type Facets struct {
	Areas      []string `json:"areas" yaml:"areas"`
	Zones      []string `json:"zones" yaml:"zones"`
	Categories []string `json:"categories" yaml:"categories"`
}

// FacetsOf collects sorted distinct areas, zones and categories.
func FacetsOf(records []Record) Facets {
	var areas, zones, cats []string
	for i := range records {
		areas = append(areas, string(records[i].Area))
		zones = append(zones, string(records[i].Zone))
		cats = append(cats, string(records[i].Category))
	}
	return Facets{
		Areas:      distinct(areas),
		Zones:      distinct(zones),
		Categories: distinct(cats),
	}
}

func distinct(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			out = append(out, v)
		}
	}
	slices.Sort(out)
	return slices.Compact(out)
}
