package competition

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// Organizer is one entry of a competition's organizer list. Email is nil when the
// API omits it.
type Organizer struct {
	Email *string `json:"email,omitempty"`
}

// Competition represents a WCA competition as returned by the competitions API
type Competition struct {
	URL          string      `json:"url"`
	ID           string      `json:"id"`
	Name         string      `json:"name"`
	City         string      `json:"city"`
	StartDate    string      `json:"start_date"`
	EndDate      string      `json:"end_date"`
	AnnouncedAt  string      `json:"announced_at"`
	CountryISO2  string      `json:"country_iso2"`
	VenueAddress string      `json:"venue_address"`
	Organizers   []Organizer `json:"organizers"`

	// Attributes holds every field of the API object. Numbers are kept as
	// json.Number so their decimal text survives unchanged.
	Attributes map[string]any `json:"-"`
	// Raw is the object exactly as received.
	Raw json.RawMessage `json:"-"`
}

// Decode parses a single competition object from the API. The typed fields are
// read from the attribute map, so a value of an unexpected type leaves its
// field empty instead of failing the page.
func Decode(data []byte) (Competition, error) {
	var c Competition
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&c.Attributes); err != nil {
		return Competition{}, fmt.Errorf("decoding competition: %w", err)
	}

	c.URL = text(c.Attributes["url"])
	c.ID = text(c.Attributes["id"])
	c.Name = text(c.Attributes["name"])
	c.City = text(c.Attributes["city"])
	c.StartDate = text(c.Attributes["start_date"])
	c.EndDate = text(c.Attributes["end_date"])
	c.AnnouncedAt = text(c.Attributes["announced_at"])
	c.CountryISO2 = text(c.Attributes["country_iso2"])
	c.VenueAddress = text(c.Attributes["venue_address"])
	c.Organizers = organizers(c.Attributes["organizers"])

	c.Raw = append(json.RawMessage(nil), data...)
	return c, nil
}

// text renders scalar attribute values as strings. Objects, arrays and null
// yield "".
func text(v any) string {
	switch v := v.(type) {
	case string:
		return v
	case json.Number:
		return v.String()
	case bool:
		return strconv.FormatBool(v)
	default:
		return ""
	}
}

func organizers(v any) []Organizer {
	list, ok := v.([]any)
	if !ok {
		return nil
	}
	orgs := make([]Organizer, 0, len(list))
	for _, item := range list {
		var o Organizer
		if m, ok := item.(map[string]any); ok {
			if email, ok := m["email"].(string); ok {
				o.Email = &email
			}
		}
		orgs = append(orgs, o)
	}
	return orgs
}

// DecodeList parses a JSON array of competition objects, preserving order.
func DecodeList(data []byte) ([]Competition, error) {
	var items []json.RawMessage
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&items); err != nil {
		return nil, fmt.Errorf("decoding competition list: %w", err)
	}

	comps := make([]Competition, 0, len(items))
	for i, item := range items {
		c, err := Decode(item)
		if err != nil {
			return nil, fmt.Errorf("item %d: %w", i, err)
		}
		comps = append(comps, c)
	}
	return comps, nil
}

// RawString returns the original API object as text. When the competition was
// built in code rather than decoded, the typed fields are marshaled instead.
func (c Competition) RawString() string {
	if len(c.Raw) > 0 {
		return string(c.Raw)
	}
	data, err := json.Marshal(c)
	if err != nil {
		return ""
	}
	return string(data)
}

// Registration is the registration window scraped from a competition page.
// Both values are UTC timestamps as published in the page's data-utc-time attributes.
type Registration struct {
	Open  string `json:"registration_open"`
	Close string `json:"registration_close"`
}

// Enriched is a competition together with its registration window
type Enriched struct {
	Competition
	Registration Registration
}
