package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/pfrederiksen/compcal/internal/competition"
	"github.com/pfrederiksen/compcal/internal/crawler"
)

// OutputFormat specifies the output format
type OutputFormat string

const (
	FormatText OutputFormat = "text"
	FormatJSON OutputFormat = "json"
)

// RecordList contains the records printed by list
type RecordList struct {
	Count   int                  `json:"count"`
	Records []competition.Record `json:"records"`
}

// WriteRunResult writes the summary of a crawler run in the specified format
func WriteRunResult(w io.Writer, res crawler.Result, format OutputFormat) error {
	switch format {
	case FormatJSON:
		return writeJSON(w, res)
	case FormatText:
		fmt.Fprintf(w, "Run %s (%s, cutoff %s)\n", res.RunID, res.Mode, res.Cutoff)
		fmt.Fprintf(w, "  Fetched:   %d\n", res.Fetched)
		fmt.Fprintf(w, "  Kept:      %d\n", res.Kept)
		fmt.Fprintf(w, "  Persisted: %d\n", res.Persisted)
		if res.Fallbacks > 0 {
			fmt.Fprintf(w, "  Fallbacks: %d\n", res.Fallbacks)
		}
		if res.Skipped > 0 {
			fmt.Fprintf(w, "  Skipped:   %d\n", res.Skipped)
		}
		fmt.Fprintf(w, "%s\n", res.Message)
		return nil
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}

// WriteRecords writes stored records in the specified format
func WriteRecords(w io.Writer, records []competition.Record, format OutputFormat, verbose bool) error {
	switch format {
	case FormatJSON:
		if records == nil {
			records = []competition.Record{}
		}
		return writeJSON(w, RecordList{Count: len(records), Records: records})
	case FormatText:
		return writeText(w, records, verbose)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}

// writeJSON outputs results as JSON
func writeJSON(w io.Writer, v any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

// writeText outputs records as human-readable text
func writeText(w io.Writer, records []competition.Record, verbose bool) error {
	if len(records) == 0 {
		fmt.Fprintln(w, "No competitions found.")
		return nil
	}

	for _, rec := range records {
		fmt.Fprintf(w, "%s  %-2s  %s (%s)\n", rec.StartDate, rec.Region, rec.Name, rec.City)
		if verbose {
			fmt.Fprintf(w, "    ID: %s\n", rec.ID)
			fmt.Fprintf(w, "    URL: %s\n", rec.URL)
			if rec.RegistrationOpen != "" {
				fmt.Fprintf(w, "    Registration: %s - %s\n", rec.RegistrationOpen, rec.RegistrationClose)
			}
			if rec.VenueAddress != "" {
				fmt.Fprintf(w, "    Venue: %s\n", rec.VenueAddress)
			}
		}
	}
	fmt.Fprintf(w, "\nTotal: %d competitions\n", len(records))
	return nil
}
