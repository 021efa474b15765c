package store

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/pfrederiksen/compcal/internal/competition"
)

// Store persists competition records keyed by ID
type Store interface {
	// Put inserts or replaces the record with the same ID.
	Put(ctx context.Context, rec competition.Record) error
	// List returns every stored record ordered by ID.
	List(ctx context.Context) ([]competition.Record, error)
	Close() error
}

// Driver names a store backend
type Driver string

const (
	DriverFile     Driver = "file"
	DriverRedis    Driver = "redis"
	DriverPostgres Driver = "postgres"
	DriverMySQL    Driver = "mysql"
	DriverGist     Driver = "gist"
)

// Options configures Open
type Options struct {
	Driver Driver
	// Table is the table identifier: a file name, hash key, SQL table or gist file.
	Table string
	// DSN is the connection string: a directory for file, a redis URL, or an SQL DSN.
	DSN         string
	GistID      string
	GitHubToken string
}

// Open creates the backend named by opts.Driver.
func Open(ctx context.Context, opts Options) (Store, error) {
	if opts.Table == "" {
		return nil, fmt.Errorf("store table is required")
	}

	switch Driver(strings.ToLower(string(opts.Driver))) {
	case DriverFile, "":
		return NewFileStore(opts.DSN, opts.Table)
	case DriverRedis:
		return NewRedisStore(ctx, opts.DSN, opts.Table)
	case DriverPostgres:
		return NewPostgresStore(ctx, opts.DSN, opts.Table)
	case DriverMySQL:
		return NewMySQLStore(opts.DSN, opts.Table)
	case DriverGist:
		return NewGistStore(opts.GistID, opts.GitHubToken, opts.Table)
	default:
		return nil, fmt.Errorf("unknown store driver: %s", opts.Driver)
	}
}

// sortedRecords returns the values of an id-keyed map ordered by ID.
func sortedRecords(m map[string]competition.Record) []competition.Record {
	records := make([]competition.Record, 0, len(m))
	for _, rec := range m {
		records = append(records, rec)
	}
	sort.Slice(records, func(i, j int) bool {
		return records[i].ID < records[j].ID
	})
	return records
}
