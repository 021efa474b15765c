package scraper

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/pfrederiksen/compcal/internal/competition"
)

const (
	UserAgent = "compcal/1.0 (github.com/pfrederiksen/compcal)"
	Timeout   = 30 * time.Second
)

// ErrDegraded is wrapped by StatusError when a page answers with a non-success status.
var ErrDegraded = errors.New("competition page unavailable")

// StatusError reports the status code of a degraded competition page
type StatusError struct {
	URL        string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s: %s: unexpected status code: %d", ErrDegraded, e.URL, e.StatusCode)
}

func (e *StatusError) Unwrap() error { return ErrDegraded }

// Outcome tells how a competition was enriched
type Outcome string

const (
	OutcomeScraped  Outcome = "scraped"
	OutcomeFallback Outcome = "fallback"
	OutcomeSkipped  Outcome = "skipped"
)

// Scraper fetches competition pages and extracts registration windows
type Scraper struct {
	client    *http.Client
	extractor Extractor
	policy    Policy
}

// Option configures a Scraper
type Option func(*Scraper)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(c *http.Client) Option {
	return func(s *Scraper) { s.client = c }
}

// WithExtractor replaces the positional extractor.
func WithExtractor(e Extractor) Option {
	return func(s *Scraper) { s.extractor = e }
}

// WithPolicy sets the enrichment failure policy.
func WithPolicy(p Policy) Option {
	return func(s *Scraper) { s.policy = p }
}

// New creates a new Scraper instance
func New(opts ...Option) *Scraper {
	s := &Scraper{
		client: &http.Client{
			Timeout: Timeout,
		},
		extractor: NewPositionalExtractor(),
		policy:    PolicyLegacy,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Policy returns the configured failure policy.
func (s *Scraper) Policy() Policy {
	return s.policy
}

// Registration fetches the competition page and extracts its registration window.
func (s *Scraper) Registration(ctx context.Context, comp competition.Competition) (competition.Registration, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, comp.URL, nil)
	if err != nil {
		return competition.Registration{}, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", UserAgent)

	resp, err := s.client.Do(req)
	if err != nil {
		return competition.Registration{}, fmt.Errorf("fetching page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return competition.Registration{}, &StatusError{URL: comp.URL, StatusCode: resp.StatusCode}
	}

	reg, err := s.extractor.Extract(resp.Body)
	if err != nil {
		return competition.Registration{}, fmt.Errorf("%s: %w", comp.URL, err)
	}
	return reg, nil
}

// Enrich attaches the registration window to comp, applying the failure policy.
// A fallback substitutes the unmodified competition record for both registration
// values. A skip returns OutcomeSkipped and no error. An abort returns the error.
func (s *Scraper) Enrich(ctx context.Context, comp competition.Competition) (competition.Enriched, Outcome, error) {
	reg, err := s.Registration(ctx, comp)
	if err == nil {
		return competition.Enriched{Competition: comp, Registration: reg}, OutcomeScraped, nil
	}

	switch s.policy.Decide(err) {
	case ActionFallback:
		raw := comp.RawString()
		return competition.Enriched{
			Competition:  comp,
			Registration: competition.Registration{Open: raw, Close: raw},
		}, OutcomeFallback, nil
	case ActionSkip:
		return competition.Enriched{Competition: comp}, OutcomeSkipped, nil
	default:
		return competition.Enriched{}, "", fmt.Errorf("enriching %s: %w", comp.ID, err)
	}
}
