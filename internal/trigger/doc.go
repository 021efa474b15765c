// Package trigger decides how a crawler invocation loads competitions.
//
// A scheduled trigger (an event whose detail-type is "Scheduled Event") selects an
// incremental load of competitions announced in the last six hours. Any other
// payload, including none, selects the initial load of every competition starting
// today or later.
package trigger
