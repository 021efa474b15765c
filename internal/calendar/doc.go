// Package calendar renders stored competitions as an iCalendar feed that
// calendar clients can subscribe to, filtered by region and sub-region.
package calendar
