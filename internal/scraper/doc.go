// Package scraper fetches WCA competition pages and extracts the registration window.
//
// The competitions API does not publish registration dates, so each competition's
// public page is fetched and the two data-utc-time attributes of the registration
// period are read from fixed positions in the document. Any change to the page
// layout breaks extraction; the selectors live behind the Extractor interface so
// they can be replaced without touching the crawler.
//
// What happens when a page cannot be enriched is decided by a Policy.
package scraper
