package store

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/pfrederiksen/compcal/internal/competition"
)

const (
	gistAPIURL  = "https://api.github.com/gists"
	gistTimeout = 15 * time.Second
)

// GistStore keeps the id-keyed record document in a file of a private GitHub Gist
type GistStore struct {
	mu          sync.Mutex
	gistID      string
	githubToken string
	filename    string
	baseURL     string
	httpClient  *http.Client
}

// NewGistStore creates a Gist-backed store writing <table>.json in the gist
func NewGistStore(gistID, githubToken, table string) (*GistStore, error) {
	if gistID == "" {
		return nil, fmt.Errorf("gist ID is required")
	}
	if githubToken == "" {
		return nil, fmt.Errorf("GitHub token is required")
	}

	return &GistStore{
		gistID:      gistID,
		githubToken: githubToken,
		filename:    table + ".json",
		baseURL:     gistAPIURL,
		httpClient: &http.Client{
			Timeout: gistTimeout,
		},
	}, nil
}

func (g *GistStore) newRequest(ctx context.Context, method string, body []byte) (*http.Request, error) {
	url := fmt.Sprintf("%s/%s", g.baseURL, g.gistID)

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	req.Header.Set("Authorization", fmt.Sprintf("token %s", g.githubToken))
	req.Header.Set("Accept", "application/vnd.github.v3+json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return req, nil
}

// load retrieves the record document from the gist
func (g *GistStore) load(ctx context.Context) (map[string]competition.Record, error) {
	req, err := g.newRequest(ctx, http.MethodGet, nil)
	if err != nil {
		return nil, err
	}

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching gist: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		// Don't include response body in error to prevent information leakage
		return nil, fmt.Errorf("GitHub API error (status %d)", resp.StatusCode)
	}

	var gistResp struct {
		Files map[string]struct {
			Content string `json:"content"`
		} `json:"files"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&gistResp); err != nil {
		return nil, fmt.Errorf("decoding gist response: %w", err)
	}

	records := make(map[string]competition.Record)
	file, exists := gistResp.Files[g.filename]
	if !exists || file.Content == "" {
		return records, nil
	}
	if err := json.Unmarshal([]byte(file.Content), &records); err != nil {
		return nil, fmt.Errorf("parsing records: %w", err)
	}
	return records, nil
}

// save replaces the record document in the gist
func (g *GistStore) save(ctx context.Context, records map[string]competition.Record) error {
	content, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling records: %w", err)
	}

	payload := map[string]interface{}{
		"files": map[string]interface{}{
			g.filename: map[string]string{
				"content": string(content),
			},
		},
	}
	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshaling payload: %w", err)
	}

	req, err := g.newRequest(ctx, http.MethodPatch, payloadBytes)
	if err != nil {
		return err
	}

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("updating gist: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("GitHub API error (status %d)", resp.StatusCode)
	}
	return nil
}

// Put upserts rec with a read-modify-write of the gist file.
func (g *GistStore) Put(ctx context.Context, rec competition.Record) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	records, err := g.load(ctx)
	if err != nil {
		return fmt.Errorf("writing record %s: %w", rec.ID, err)
	}
	records[rec.ID] = rec
	if err := g.save(ctx, records); err != nil {
		return fmt.Errorf("writing record %s: %w", rec.ID, err)
	}
	return nil
}

// List returns all records ordered by ID.
func (g *GistStore) List(ctx context.Context) ([]competition.Record, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	records, err := g.load(ctx)
	if err != nil {
		return nil, err
	}
	return sortedRecords(records), nil
}

func (g *GistStore) Close() error { return nil }
