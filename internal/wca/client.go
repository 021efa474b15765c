package wca

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/pfrederiksen/compcal/internal/competition"
)

const (
	CompetitionsURL = "https://www.worldcubeassociation.org/api/v0/competitions"
	UserAgent       = "compcal/1.0 (github.com/pfrederiksen/compcal)"
	Timeout         = 30 * time.Second
)

// Client is a client for the WCA competitions API
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a client for the competitions endpoint at baseURL. An empty
// baseURL uses CompetitionsURL.
func NewClient(baseURL string, httpClient *http.Client) *Client {
	if baseURL == "" {
		baseURL = CompetitionsURL
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: Timeout}
	}
	return &Client{
		baseURL:    baseURL,
		httpClient: httpClient,
	}
}

// Page fetches one 1-indexed page of competitions matching query.
func (c *Client) Page(ctx context.Context, query url.Values, page int) ([]competition.Competition, error) {
	params := url.Values{}
	for k, v := range query {
		params[k] = append([]string(nil), v...)
	}
	params.Set("page", strconv.Itoa(page))

	reqURL := fmt.Sprintf("%s?%s", c.baseURL, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", UserAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching page %d: %w", page, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetching page %d: unexpected status code: %d", page, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading page %d: %w", page, err)
	}

	comps, err := competition.DecodeList(body)
	if err != nil {
		return nil, fmt.Errorf("page %d: %w", page, err)
	}
	return comps, nil
}
