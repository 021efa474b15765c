package scraper

import (
	"errors"
	"fmt"
	"io"

	"github.com/PuerkitoBio/goquery"
	"github.com/pfrederiksen/compcal/internal/competition"
)

const (
	// registrationPeriod is the paragraph holding the registration period on a
	// competition page: /html/body/div[3]/div/div[2]/div/div[1]/div/div[3]/dl/dd[1]/p
	registrationPeriod = "html > body > div:nth-of-type(3) > div > div:nth-of-type(2) > div > " +
		"div:nth-of-type(1) > div > div:nth-of-type(3) > dl > dd:nth-of-type(1) > p"

	OpenSelector  = registrationPeriod + " > span:nth-of-type(1)"
	CloseSelector = registrationPeriod + " > span:nth-of-type(2)"
	UTCTimeAttr   = "data-utc-time"
)

// ErrSelectorNotFound is returned when an expected node or attribute is absent.
var ErrSelectorNotFound = errors.New("selector not found")

// Extractor reads the registration window from a competition page.
type Extractor interface {
	Extract(r io.Reader) (competition.Registration, error)
}

// PositionalExtractor reads the window from fixed document positions
type PositionalExtractor struct {
	OpenSelector  string
	CloseSelector string
	Attr          string
}

// NewPositionalExtractor returns an extractor for the current WCA page layout.
func NewPositionalExtractor() *PositionalExtractor {
	return &PositionalExtractor{
		OpenSelector:  OpenSelector,
		CloseSelector: CloseSelector,
		Attr:          UTCTimeAttr,
	}
}

// Extract parses the HTML and returns the first match of each selector's attribute.
func (e *PositionalExtractor) Extract(r io.Reader) (competition.Registration, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return competition.Registration{}, fmt.Errorf("parsing HTML: %w", err)
	}

	open, err := e.attr(doc, e.OpenSelector)
	if err != nil {
		return competition.Registration{}, fmt.Errorf("registration open: %w", err)
	}
	closeAt, err := e.attr(doc, e.CloseSelector)
	if err != nil {
		return competition.Registration{}, fmt.Errorf("registration close: %w", err)
	}

	return competition.Registration{Open: open, Close: closeAt}, nil
}

func (e *PositionalExtractor) attr(doc *goquery.Document, selector string) (string, error) {
	sel := doc.Find(selector).First()
	if sel.Length() == 0 {
		return "", fmt.Errorf("%w: %s", ErrSelectorNotFound, selector)
	}
	val, ok := sel.Attr(e.Attr)
	if !ok {
		return "", fmt.Errorf("%w: %s[%s]", ErrSelectorNotFound, selector, e.Attr)
	}
	return val, nil
}
