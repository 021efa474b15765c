package wca

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	"github.com/pfrederiksen/compcal/internal/competition"
)

// PageSize is the number of competitions the API returns on a full page.
const PageSize = 25

// ErrPageLimit is returned when the maximum page count is reached and the last
// page was still full.
var ErrPageLimit = errors.New("page limit reached before a short page")

// PageSource returns one page of competitions.
type PageSource interface {
	Page(ctx context.Context, query url.Values, page int) ([]competition.Competition, error)
}

// Pager iterates the pages of a query. It is finite and cannot be restarted.
//
//	p := NewPager(src, query, maxPages)
//	for p.Next(ctx) {
//	    use(p.Page())
//	}
//	if err := p.Err(); err != nil { ... }
type Pager struct {
	src      PageSource
	query    url.Values
	maxPages int

	page    int
	current []competition.Competition
	done    bool
	err     error
}

// NewPager creates a pager over src. maxPages <= 0 means no limit.
func NewPager(src PageSource, query url.Values, maxPages int) *Pager {
	return &Pager{
		src:      src,
		query:    query,
		maxPages: maxPages,
	}
}

// Next fetches the next page. It returns false once the previous page was short,
// the page limit is hit, or a fetch failed.
func (p *Pager) Next(ctx context.Context) bool {
	if p.done {
		return false
	}

	if p.maxPages > 0 && p.page >= p.maxPages {
		p.done = true
		p.current = nil
		p.err = fmt.Errorf("%w (%d pages)", ErrPageLimit, p.maxPages)
		return false
	}

	p.page++
	comps, err := p.src.Page(ctx, p.query, p.page)
	if err != nil {
		p.done = true
		p.current = nil
		p.err = err
		return false
	}

	p.current = comps
	if len(comps) < PageSize {
		p.done = true
	}
	return true
}

// Page returns the page fetched by the last successful Next.
func (p *Pager) Page() []competition.Competition {
	return p.current
}

// PageNumber returns the 1-indexed number of the current page.
func (p *Pager) PageNumber() int {
	return p.page
}

// Err returns the error that stopped the pager, if any.
func (p *Pager) Err() error {
	return p.err
}

// PageFunc observes each page as FetchAll receives it.
type PageFunc func(page int, comps []competition.Competition)

// FetchAll concatenates every page of query in order. onPage, when not nil, is
// called once per fetched page.
func FetchAll(ctx context.Context, src PageSource, query url.Values, maxPages int, onPage PageFunc) ([]competition.Competition, error) {
	var all []competition.Competition
	p := NewPager(src, query, maxPages)
	for p.Next(ctx) {
		if onPage != nil {
			onPage(p.PageNumber(), p.Page())
		}
		all = append(all, p.Page()...)
	}
	if err := p.Err(); err != nil {
		return nil, err
	}
	return all, nil
}
