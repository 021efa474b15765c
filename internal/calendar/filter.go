package calendar

import (
	"fmt"
	"strings"

	"github.com/pfrederiksen/compcal/internal/competition"
)

// DefaultRegion is used when a request names no region or sub-region.
const DefaultRegion = "DE"

// Selection is the set of regions and sub-regions a calendar covers
type Selection struct {
	Regions    []string
	SubRegions []string
}

// ParsePath splits a feed path such as "DE+AT" or "US/Oregon" into regions
// (two-letter country codes) and sub-regions (anything longer).
func ParsePath(path string) Selection {
	var sel Selection
	tokens := strings.FieldsFunc(path, func(r rune) bool {
		return r == '/' || r == '+'
	})
	for _, tok := range tokens {
		tok = strings.TrimSpace(tok)
		switch {
		case tok == "":
		case len(tok) == 2:
			sel.Regions = append(sel.Regions, strings.ToUpper(tok))
		default:
			sel.SubRegions = append(sel.SubRegions, tok)
		}
	}
	if len(sel.Regions) == 0 && len(sel.SubRegions) == 0 {
		sel.Regions = []string{DefaultRegion}
	}
	return sel
}

// Name is the calendar display name for the selection.
func (s Selection) Name() string {
	return fmt.Sprintf("Competition Calendar for %s", strings.Join(append(append([]string{}, s.Regions...), s.SubRegions...), ","))
}

// Match reports whether rec belongs to the selection. An empty list does not
// restrict its field.
func (s Selection) Match(rec competition.Record) bool {
	if len(s.Regions) > 0 && !containsFold(s.Regions, rec.Region) {
		return false
	}
	if len(s.SubRegions) > 0 && !containsFold(s.SubRegions, rec.SubRegion) {
		return false
	}
	return true
}

// Filter returns the records matching the selection, in order.
func (s Selection) Filter(records []competition.Record) []competition.Record {
	var out []competition.Record
	for _, rec := range records {
		if s.Match(rec) {
			out = append(out, rec)
		}
	}
	return out
}

func containsFold(list []string, v string) bool {
	v = strings.TrimSpace(v)
	for _, item := range list {
		if strings.EqualFold(item, v) {
			return true
		}
	}
	return false
}
