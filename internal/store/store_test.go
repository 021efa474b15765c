package store

import (
	"context"
	"strings"
	"testing"

	"github.com/pfrederiksen/compcal/internal/competition"
)

func TestOpen(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		opts    Options
		wantErr bool
	}{
		{name: "file", opts: Options{Driver: DriverFile, Table: "Competitions", DSN: t.TempDir()}},
		{name: "default driver is file", opts: Options{Table: "Competitions", DSN: t.TempDir()}},
		{name: "gist", opts: Options{Driver: DriverGist, Table: "Competitions", GistID: "g", GitHubToken: "t"}},
		{name: "gist without token", opts: Options{Driver: DriverGist, Table: "Competitions", GistID: "g"}, wantErr: true},
		{name: "missing table", opts: Options{Driver: DriverFile, DSN: t.TempDir()}, wantErr: true},
		{name: "unknown driver", opts: Options{Driver: "dynamodb", Table: "Competitions"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := Open(ctx, tt.opts)
			if tt.wantErr {
				if err == nil {
					t.Error("Open() expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("Open() unexpected error: %v", err)
			}
			defer s.Close()
		})
	}
}

func TestPostgresStatements(t *testing.T) {
	s := &PostgresStore{table: `"Competitions"`}

	create := s.createTableSQL()
	if !strings.HasPrefix(create, `CREATE TABLE IF NOT EXISTS "Competitions" (id TEXT PRIMARY KEY, url TEXT`) {
		t.Errorf("createTableSQL() = %s", create)
	}

	upsert := s.upsertSQL()
	for _, want := range []string{
		`INSERT INTO "Competitions" (id, url, name`,
		"VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)",
		"ON CONFLICT (id) DO UPDATE SET url = EXCLUDED.url",
		"sub_region = EXCLUDED.sub_region",
	} {
		if !strings.Contains(upsert, want) {
			t.Errorf("upsertSQL() missing %q in %s", want, upsert)
		}
	}
	if strings.Contains(upsert, "id = EXCLUDED.id") {
		t.Error("upsertSQL() must not update the key column")
	}

	if len(recordValues(competitionRecordFixture())) != len(recordColumns) {
		t.Error("recordValues() does not match recordColumns")
	}
}

func competitionRecordFixture() competition.Record {
	return competition.Record{ID: "X", URL: "u", Region: "DE", SubRegion: "Berlin"}
}

func fullRecordFixture(id, name string) competition.Record {
	return competition.Record{
		URL:               "https://www.worldcubeassociation.org/competitions/" + id,
		ID:                id,
		Name:              name,
		City:              "Köln, Nordrhein-Westfalen",
		StartDate:         "2026-11-14",
		AnnouncedAt:       "2026-10-16T06:00:10.000Z",
		EndDate:           "2026-11-15",
		RegistrationOpen:  "2026-10-20 18:00:00 UTC",
		RegistrationClose: "2026-11-10 18:00:00 UTC",
		VenueAddress:      "Messeplatz 1",
		Organizer:         "a@x.com,no-email",
		Region:            "DE",
		SubRegion:         "Nordrhein-Westfalen",
	}
}

// testUpsertLastWriteWins checks the Store contract shared by every backend:
// Put replaces the record with the same ID and List returns records by ID with
// every field intact.
func testUpsertLastWriteWins(t *testing.T, s Store) {
	t.Helper()
	ctx := context.Background()

	puts := []competition.Record{
		fullRecordFixture("ViennaCube2026", "Vienna Cube"),
		fullRecordFixture("BerlinOpen2026", "old"),
		fullRecordFixture("BerlinOpen2026", "new"),
	}
	for _, rec := range puts {
		if err := s.Put(ctx, rec); err != nil {
			t.Fatalf("Put(%s) error: %v", rec.ID, err)
		}
	}

	records, err := s.List(ctx)
	if err != nil {
		t.Fatalf("List() error: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("List() returned %d records, want 2", len(records))
	}
	if records[0].ID != "BerlinOpen2026" || records[1].ID != "ViennaCube2026" {
		t.Errorf("List() order = %s, %s; want ordered by ID", records[0].ID, records[1].ID)
	}
	if want := fullRecordFixture("BerlinOpen2026", "new"); records[0] != want {
		t.Errorf("record = %+v, want %+v", records[0], want)
	}
}
