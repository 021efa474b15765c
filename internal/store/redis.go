package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/pfrederiksen/compcal/internal/competition"
)

// RedisStore keeps records as JSON values of one Redis hash, one field per ID
type RedisStore struct {
	client *redis.Client
	key    string
}

// NewRedisStore connects to the redis URL in dsn (redis://host:port/db) and uses
// table as the hash key. An empty dsn connects to localhost:6379.
func NewRedisStore(ctx context.Context, dsn, table string) (*RedisStore, error) {
	opts := &redis.Options{Addr: "localhost:6379"}
	if dsn != "" {
		parsed, err := redis.ParseURL(dsn)
		if err != nil {
			return nil, fmt.Errorf("parsing redis url: %w", err)
		}
		opts = parsed
	}

	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("connecting to redis: %w", err)
	}

	return newRedisStore(client, table), nil
}

func newRedisStore(client *redis.Client, key string) *RedisStore {
	return &RedisStore{client: client, key: key}
}

// Put upserts rec with HSET.
func (s *RedisStore) Put(ctx context.Context, rec competition.Record) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("encoding record: %w", err)
	}
	if err := s.client.HSet(ctx, s.key, rec.ID, data).Err(); err != nil {
		return fmt.Errorf("writing record %s: %w", rec.ID, err)
	}
	return nil
}

// List returns all records ordered by ID.
func (s *RedisStore) List(ctx context.Context) ([]competition.Record, error) {
	fields, err := s.client.HGetAll(ctx, s.key).Result()
	if err != nil {
		return nil, fmt.Errorf("reading records: %w", err)
	}

	records := make(map[string]competition.Record, len(fields))
	for id, value := range fields {
		var rec competition.Record
		if err := json.Unmarshal([]byte(value), &rec); err != nil {
			return nil, fmt.Errorf("parsing record %s: %w", id, err)
		}
		records[id] = rec
	}
	return sortedRecords(records), nil
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}
