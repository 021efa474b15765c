// Package cli implements the command-line interface for compcal.
//
// The cli package provides the Cobra-based CLI: run performs one ingest of WCA
// competitions, serve exposes the stored competitions as an iCalendar feed, and
// list prints the stored records (text/JSON, sorted by date/region/name). It
// loads the configuration once and wires the store, notifier, scraper and
// metrics into the crawler and server packages.
package cli
