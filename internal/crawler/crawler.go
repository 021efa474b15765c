// Package crawler runs one ingest of WCA competitions: select the load mode,
// page through the API, drop stale announcements, scrape registration windows,
// store the projected records and publish a summary.
//
// Every step is sequential. The first unrecovered error ends the run; records
// already stored stay stored and no summary is published.
package crawler

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/pfrederiksen/compcal/internal/competition"
	"github.com/pfrederiksen/compcal/internal/logger"
	"github.com/pfrederiksen/compcal/internal/metrics"
	"github.com/pfrederiksen/compcal/internal/notifier"
	"github.com/pfrederiksen/compcal/internal/scraper"
	"github.com/pfrederiksen/compcal/internal/store"
	"github.com/pfrederiksen/compcal/internal/trigger"
	"github.com/pfrederiksen/compcal/internal/wca"
)

// Enricher attaches a registration window to a competition
type Enricher interface {
	Enrich(ctx context.Context, comp competition.Competition) (competition.Enriched, scraper.Outcome, error)
}

// Deps are the collaborators of a Crawler. They are created once per process.
type Deps struct {
	Source    wca.PageSource
	Enricher  Enricher
	Store     store.Store
	Publisher notifier.Publisher
	// Optional
	Metrics *metrics.Metrics
	Logger  *logger.Logger
	Now     func() time.Time
}

// Options tune a Crawler
type Options struct {
	// Topic is passed to the publisher.
	Topic string
	// MaxPages caps pagination, 0 means unbounded.
	MaxPages int
	// Window is the incremental look-back, zero selects trigger.IncrementalWindow.
	Window time.Duration
}

// Result summarises a run
type Result struct {
	RunID     string       `json:"run_id"`
	Mode      trigger.Kind `json:"mode"`
	Cutoff    string       `json:"cutoff"`
	Fetched   int          `json:"fetched"`
	Kept      int          `json:"kept"`
	Persisted int          `json:"persisted"`
	Fallbacks int          `json:"fallbacks"`
	Skipped   int          `json:"skipped"`
	Message   string       `json:"message,omitempty"`
}

// Crawler runs ingests
type Crawler struct {
	deps Deps
	opts Options
}

// New creates a Crawler. Missing optional deps get defaults.
func New(deps Deps, opts Options) *Crawler {
	if deps.Metrics == nil {
		deps.Metrics = metrics.New()
	}
	if deps.Logger == nil {
		deps.Logger = logger.Default()
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}
	return &Crawler{deps: deps, opts: opts}
}

// Run performs one ingest for ev.
func (c *Crawler) Run(ctx context.Context, ev trigger.Event) (Result, error) {
	started := time.Now()
	res, err := c.run(ctx, ev)
	c.deps.Metrics.ObserveRun(err, time.Since(started))
	return res, err
}

func (c *Crawler) run(ctx context.Context, ev trigger.Event) (Result, error) {
	mode := trigger.SelectMode(ev, c.deps.Now(), c.opts.Window)
	res := Result{
		RunID:  uuid.NewString(),
		Mode:   mode.Kind,
		Cutoff: mode.CutoffString(),
	}
	log := c.deps.Logger.With(logger.Fields{"run_id": res.RunID})

	log.Info("Starting run", logger.Fields{
		"mode":   string(mode.Kind),
		"cutoff": res.Cutoff,
	})

	comps, err := c.fetch(ctx, log, mode)
	if err != nil {
		log.Error("Fetch failed", logger.Fields{"mode": string(mode.Kind)}, err)
		return res, err
	}
	res.Fetched = len(comps)
	c.deps.Metrics.Fetched(len(comps))

	if mode.Kind == trigger.Incremental {
		comps = competition.FilterAnnouncedSince(comps, res.Cutoff)
	}
	res.Kept = len(comps)
	log.Info("Fetched competitions", logger.Fields{
		"count": res.Fetched,
		"kept":  res.Kept,
	})

	for _, comp := range comps {
		enriched, outcome, err := c.deps.Enricher.Enrich(ctx, comp)
		if err != nil {
			log.Error("Enrichment failed", logger.Fields{"competition_id": comp.ID}, err)
			return res, err
		}

		switch outcome {
		case scraper.OutcomeSkipped:
			res.Skipped++
			c.deps.Metrics.Skipped()
			log.Warn("Skipping competition", logger.Fields{"competition_id": comp.ID})
			continue
		case scraper.OutcomeFallback:
			res.Fallbacks++
			c.deps.Metrics.Fallback()
			log.Warn("Registration window unavailable, storing raw record", logger.Fields{"competition_id": comp.ID})
		}

		rec := competition.Project(enriched)
		if err := c.deps.Store.Put(ctx, rec); err != nil {
			log.Error("Store write failed", logger.Fields{"competition_id": comp.ID}, err)
			return res, fmt.Errorf("storing %s: %w", comp.ID, err)
		}
		res.Persisted++
		c.deps.Metrics.Persisted()
		log.Debug("Stored competition", logger.Fields{"competition_id": comp.ID})
	}

	res.Message = notifier.Summary(res.Fetched)
	if err := c.deps.Publisher.Publish(ctx, c.opts.Topic, res.Message); err != nil {
		log.Error("Publish failed", logger.Fields{"topic": c.opts.Topic}, err)
		return res, fmt.Errorf("publishing summary: %w", err)
	}

	log.Info("Run complete", logger.Fields{
		"persisted": res.Persisted,
		"fallbacks": res.Fallbacks,
		"skipped":   res.Skipped,
	})
	return res, nil
}

func (c *Crawler) fetch(ctx context.Context, log *logger.Logger, mode trigger.Mode) ([]competition.Competition, error) {
	all, err := wca.FetchAll(ctx, c.deps.Source, mode.Query(), c.opts.MaxPages,
		func(page int, comps []competition.Competition) {
			log.Debug("Fetched page", logger.Fields{
				"page":  page,
				"count": len(comps),
			})
		})
	if err != nil {
		return nil, fmt.Errorf("fetching competitions: %w", err)
	}
	return all, nil
}
