package competition

import (
	"strings"
)

// NoEmail stands in for an organizer without an email address.
const NoEmail = "no-email"

// Record is the projection persisted to the store, keyed by ID.
type Record struct {
	URL               string `json:"url"`
	ID                string `json:"id"`
	Name              string `json:"name"`
	City              string `json:"city"`
	StartDate         string `json:"start_date"`
	AnnouncedAt       string `json:"announced_at"`
	EndDate           string `json:"end_date"`
	RegistrationOpen  string `json:"registration_open"`
	RegistrationClose string `json:"registration_close"`
	VenueAddress      string `json:"venue_address"`
	Organizer         string `json:"organizer"`
	Region            string `json:"region"`
	SubRegion         string `json:"sub_region"`
}

// Project reduces an enriched competition to the stored field set.
func Project(e Enriched) Record {
	return Record{
		URL:               e.URL,
		ID:                e.ID,
		Name:              e.Name,
		City:              e.City,
		StartDate:         e.StartDate,
		AnnouncedAt:       e.AnnouncedAt,
		EndDate:           e.EndDate,
		RegistrationOpen:  e.Registration.Open,
		RegistrationClose: e.Registration.Close,
		VenueAddress:      e.VenueAddress,
		Organizer:         OrganizerField(e.Organizers),
		Region:            e.CountryISO2,
		SubRegion:         SubRegion(e.City),
	}
}

// SubRegion returns the part of city after the first comma, or the whole city
// when it has no comma.
func SubRegion(city string) string {
	_, after, found := strings.Cut(city, ",")
	if !found {
		return city
	}
	return strings.TrimSpace(after)
}

// OrganizerField joins organizer emails with commas in list order, using NoEmail
// for organizers without one.
func OrganizerField(orgs []Organizer) string {
	emails := make([]string, 0, len(orgs))
	for _, o := range orgs {
		if o.Email != nil {
			emails = append(emails, *o.Email)
		} else {
			emails = append(emails, NoEmail)
		}
	}
	return strings.Join(emails, ",")
}

// FromRecord rebuilds an enriched competition from a stored record, so that
// Project(FromRecord(r)) == r.
func FromRecord(r Record) Enriched {
	var orgs []Organizer
	if r.Organizer != "" {
		for _, email := range strings.Split(r.Organizer, ",") {
			if email == NoEmail {
				orgs = append(orgs, Organizer{})
				continue
			}
			orgs = append(orgs, Organizer{Email: &email})
		}
	}

	return Enriched{
		Competition: Competition{
			URL:          r.URL,
			ID:           r.ID,
			Name:         r.Name,
			City:         r.City,
			StartDate:    r.StartDate,
			EndDate:      r.EndDate,
			AnnouncedAt:  r.AnnouncedAt,
			CountryISO2:  r.Region,
			VenueAddress: r.VenueAddress,
			Organizers:   orgs,
		},
		Registration: Registration{
			Open:  r.RegistrationOpen,
			Close: r.RegistrationClose,
		},
	}
}
