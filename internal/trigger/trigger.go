package trigger

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/url"
	"time"
)

const (
	// DetailTypeKey is the event field checked for the schedule discriminator.
	DetailTypeKey = "detail-type"
	// ScheduledEvent marks a time-based schedule trigger.
	ScheduledEvent = "Scheduled Event"
	// IncrementalWindow is how far back an incremental load looks.
	IncrementalWindow = 6 * time.Hour
	// CutoffLayout matches the shape of the API's announced_at values.
	CutoffLayout = "2006-01-02T15:04:05.000Z"
)

// Event is the opaque trigger payload.
type Event map[string]any

// Kind is the load mode of a run
type Kind string

const (
	InitialLoad Kind = "initial"
	Incremental Kind = "incremental"
)

// Mode is the selected load mode and its cutoff.
type Mode struct {
	Kind   Kind
	Cutoff time.Time
}

// Parse decodes a JSON trigger payload. Empty input yields an empty event.
func Parse(raw []byte) (Event, error) {
	if len(bytes.TrimSpace(raw)) == 0 {
		return Event{}, nil
	}

	var ev Event
	if err := json.Unmarshal(raw, &ev); err != nil {
		return nil, fmt.Errorf("parsing trigger event: %w", err)
	}
	if ev == nil {
		ev = Event{}
	}
	return ev, nil
}

// Scheduled returns the event a schedule trigger would deliver.
func Scheduled() Event {
	return Event{DetailTypeKey: ScheduledEvent}
}

// IsScheduled reports whether the event carries the schedule discriminator.
func (e Event) IsScheduled() bool {
	v, ok := e[DetailTypeKey].(string)
	return ok && v == ScheduledEvent
}

// SelectMode picks the load mode for ev using the given window. A zero window
// falls back to IncrementalWindow.
func SelectMode(ev Event, now time.Time, window time.Duration) Mode {
	now = now.UTC()
	if window <= 0 {
		window = IncrementalWindow
	}
	if ev.IsScheduled() {
		return Mode{Kind: Incremental, Cutoff: now.Add(-window)}
	}
	return Mode{Kind: InitialLoad, Cutoff: now}
}

// CutoffString formats the cutoff for both the API query and announced_at comparison.
func (m Mode) CutoffString() string {
	return m.Cutoff.UTC().Format(CutoffLayout)
}

// Query returns the base query parameters for the competitions API.
func (m Mode) Query() url.Values {
	q := url.Values{}
	q.Set("q", "")
	if m.Kind == Incremental {
		q.Set("announced_after", m.CutoffString())
	} else {
		q.Set("start", m.CutoffString())
	}
	return q
}
