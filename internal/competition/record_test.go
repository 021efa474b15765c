package competition

import (
	"testing"
)

func strPtr(s string) *string { return &s }

func TestSubRegion(t *testing.T) {
	tests := []struct {
		city     string
		expected string
	}{
		{"Berlin, Germany", "Germany"},
		{"Tokyo", "Tokyo"},
		{"Portland, Oregon", "Oregon"},
		{"Springfield, Illinois, USA", "Illinois, USA"},
		{"", ""},
		{"Trailing,", ""},
	}

	for _, tt := range tests {
		t.Run(tt.city, func(t *testing.T) {
			if got := SubRegion(tt.city); got != tt.expected {
				t.Errorf("SubRegion(%q) = %q, want %q", tt.city, got, tt.expected)
			}
		})
	}
}

func TestOrganizerField(t *testing.T) {
	tests := []struct {
		name     string
		orgs     []Organizer
		expected string
	}{
		{
			name:     "email and missing email",
			orgs:     []Organizer{{Email: strPtr("a@x.com")}, {}},
			expected: "a@x.com,no-email",
		},
		{
			name:     "empty list",
			orgs:     []Organizer{},
			expected: "",
		},
		{
			name:     "nil list",
			orgs:     nil,
			expected: "",
		},
		{
			name:     "order preserved",
			orgs:     []Organizer{{}, {Email: strPtr("b@x.com")}, {Email: strPtr("a@x.com")}},
			expected: "no-email,b@x.com,a@x.com",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := OrganizerField(tt.orgs); got != tt.expected {
				t.Errorf("OrganizerField() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestProject(t *testing.T) {
	e := Enriched{
		Competition: Competition{
			URL:          "https://www.worldcubeassociation.org/competitions/BerlinOpen2026",
			ID:           "BerlinOpen2026",
			Name:         "Berlin Open 2026",
			City:         "Berlin, Germany",
			StartDate:    "2026-11-14",
			EndDate:      "2026-11-15",
			AnnouncedAt:  "2026-10-01T10:00:00.000Z",
			CountryISO2:  "DE",
			VenueAddress: "Alexanderplatz 1, 10178 Berlin",
			Organizers:   []Organizer{{Email: strPtr("org@example.com")}, {}},
		},
		Registration: Registration{
			Open:  "2026-10-05T18:00:00Z",
			Close: "2026-11-07T23:59:00Z",
		},
	}

	want := Record{
		URL:               e.URL,
		ID:                "BerlinOpen2026",
		Name:              "Berlin Open 2026",
		City:              "Berlin, Germany",
		StartDate:         "2026-11-14",
		AnnouncedAt:       "2026-10-01T10:00:00.000Z",
		EndDate:           "2026-11-15",
		RegistrationOpen:  "2026-10-05T18:00:00Z",
		RegistrationClose: "2026-11-07T23:59:00Z",
		VenueAddress:      "Alexanderplatz 1, 10178 Berlin",
		Organizer:         "org@example.com,no-email",
		Region:            "DE",
		SubRegion:         "Germany",
	}

	got := Project(e)
	if got != want {
		t.Errorf("Project() = %+v\nwant %+v", got, want)
	}

	// Deterministic
	if again := Project(e); again != got {
		t.Errorf("Project() not deterministic: %+v vs %+v", again, got)
	}
}

func TestProject_Reprojection(t *testing.T) {
	records := []Record{
		{
			ID:        "TokyoSpring2026",
			City:      "Tokyo",
			SubRegion: "Tokyo",
			Region:    "JP",
			Organizer: "a@x.com,no-email,b@x.com",
		},
		{
			ID:        "NoOrganizers2026",
			City:      "Portland, Oregon",
			SubRegion: "Oregon",
			Region:    "US",
			Organizer: "",
		},
	}

	for _, r := range records {
		t.Run(r.ID, func(t *testing.T) {
			if got := Project(FromRecord(r)); got != r {
				t.Errorf("Project(FromRecord(r)) = %+v, want %+v", got, r)
			}
		})
	}
}
