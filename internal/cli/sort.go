package cli

import (
	"sort"
	"strings"
	"time"

	"github.com/pfrederiksen/compcal/internal/competition"
)

// SortOrder represents the available sorting options
type SortOrder string

const (
	SortByDate   SortOrder = "date"
	SortByRegion SortOrder = "region"
	SortByName   SortOrder = "name"
)

// sortRecords sorts records based on the specified sort order
func sortRecords(records []competition.Record, sortOrder SortOrder) {
	switch sortOrder {
	case SortByDate:
		sort.SliceStable(records, func(i, j int) bool {
			return compareByDate(records[i], records[j])
		})
	case SortByRegion:
		sort.SliceStable(records, func(i, j int) bool {
			if records[i].Region != records[j].Region {
				return records[i].Region < records[j].Region
			}
			// If regions are equal, sort by date
			return compareByDate(records[i], records[j])
		})
	case SortByName:
		sort.SliceStable(records, func(i, j int) bool {
			if !strings.EqualFold(records[i].Name, records[j].Name) {
				return strings.ToLower(records[i].Name) < strings.ToLower(records[j].Name)
			}
			return compareByDate(records[i], records[j])
		})
	}
}

// compareByDate compares two records by their start date
// Returns true if record i should come before record j
func compareByDate(i, j competition.Record) bool {
	dateI, errI := time.Parse(time.DateOnly, i.StartDate)
	dateJ, errJ := time.Parse(time.DateOnly, j.StartDate)

	// If both dates are valid, compare them
	if errI == nil && errJ == nil && !dateI.Equal(dateJ) {
		return dateI.Before(dateJ)
	}

	// If only one date is valid, put the valid one first
	if errI == nil && errJ != nil {
		return true
	}
	if errI != nil && errJ == nil {
		return false
	}

	// Same or missing dates: sort by region then name
	if i.Region != j.Region {
		return i.Region < j.Region
	}
	return strings.ToLower(i.Name) < strings.ToLower(j.Name)
}
