// Package competition provides the WCA competition record as received from the
// competitions API, the registration window scraped for it, and the flat record
// persisted to the store.
//
// Records are keyed by competition id. Projection from an enriched competition to a
// stored record is pure: the organizer list is flattened to a comma-joined email
// string and the city is split into a sub-region.
package competition
