// Package wca fetches competition summaries from the World Cube Association
// competitions API.
//
// The API returns at most PageSize competitions per page; a shorter page marks the
// last one. Pager walks the pages lazily and stops after the short page or after a
// configured maximum, so a source that never returns a short page cannot loop forever.
package wca
