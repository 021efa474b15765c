package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/pfrederiksen/compcal/internal/competition"
)

// recordColumns is the column order used by the SQL backends.
var recordColumns = []string{
	"id", "url", "name", "city", "start_date", "announced_at", "end_date",
	"registration_open", "registration_close", "venue_address", "organizer",
	"region", "sub_region",
}

// PostgresStore keeps records in a PostgreSQL table with id as primary key
type PostgresStore struct {
	pool  *pgxpool.Pool
	table string
}

// NewPostgresStore connects with dsn and creates the table if it is missing.
func NewPostgresStore(ctx context.Context, dsn, table string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("creating postgres pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("connecting to postgres: %w", err)
	}

	s := &PostgresStore{
		pool:  pool,
		table: pgx.Identifier{table}.Sanitize(),
	}
	if _, err := pool.Exec(ctx, s.createTableSQL()); err != nil {
		pool.Close()
		return nil, fmt.Errorf("creating table %s: %w", table, err)
	}
	return s, nil
}

func (s *PostgresStore) createTableSQL() string {
	cols := make([]string, 0, len(recordColumns))
	for _, c := range recordColumns {
		if c == "id" {
			cols = append(cols, "id TEXT PRIMARY KEY")
			continue
		}
		cols = append(cols, c+" TEXT NOT NULL DEFAULT ''")
	}
	return fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (%s)", s.table, strings.Join(cols, ", "))
}

func (s *PostgresStore) upsertSQL() string {
	placeholders := make([]string, len(recordColumns))
	updates := make([]string, 0, len(recordColumns)-1)
	for i, c := range recordColumns {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
		if c != "id" {
			updates = append(updates, fmt.Sprintf("%s = EXCLUDED.%s", c, c))
		}
	}
	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s) ON CONFLICT (id) DO UPDATE SET %s",
		s.table, strings.Join(recordColumns, ", "), strings.Join(placeholders, ", "), strings.Join(updates, ", "))
}

// recordValues returns rec's fields in recordColumns order.
func recordValues(rec competition.Record) []any {
	return []any{
		rec.ID, rec.URL, rec.Name, rec.City, rec.StartDate, rec.AnnouncedAt, rec.EndDate,
		rec.RegistrationOpen, rec.RegistrationClose, rec.VenueAddress, rec.Organizer,
		rec.Region, rec.SubRegion,
	}
}

// Put upserts rec.
func (s *PostgresStore) Put(ctx context.Context, rec competition.Record) error {
	if _, err := s.pool.Exec(ctx, s.upsertSQL(), recordValues(rec)...); err != nil {
		return fmt.Errorf("writing record %s: %w", rec.ID, err)
	}
	return nil
}

// List returns all records ordered by ID.
func (s *PostgresStore) List(ctx context.Context) ([]competition.Record, error) {
	query := fmt.Sprintf("SELECT %s FROM %s ORDER BY id", strings.Join(recordColumns, ", "), s.table)
	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("reading records: %w", err)
	}

	records, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (competition.Record, error) {
		var r competition.Record
		err := row.Scan(&r.ID, &r.URL, &r.Name, &r.City, &r.StartDate, &r.AnnouncedAt, &r.EndDate,
			&r.RegistrationOpen, &r.RegistrationClose, &r.VenueAddress, &r.Organizer,
			&r.Region, &r.SubRegion)
		return r, err
	})
	if err != nil {
		return nil, fmt.Errorf("scanning records: %w", err)
	}
	return records, nil
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}
