package scraper

import (
	"errors"
	"fmt"
	"strings"
)

// Policy decides what happens to a competition whose page could not be enriched.
type Policy string

const (
	// PolicyLegacy falls back on a non-success status and aborts on a selector
	// mismatch. This is the historical crawler behaviour.
	PolicyLegacy Policy = "legacy"
	// PolicyFallback substitutes the raw competition for the registration window.
	PolicyFallback Policy = "fallback"
	// PolicyAbort fails the run.
	PolicyAbort Policy = "abort"
	// PolicySkip drops the competition and continues.
	PolicySkip Policy = "skip"
)

// Action is the consequence of a policy for one failure
type Action string

const (
	ActionFallback Action = "fallback"
	ActionAbort    Action = "abort"
	ActionSkip     Action = "skip"
)

// ParsePolicy parses a policy name. Empty selects PolicyLegacy.
func ParsePolicy(s string) (Policy, error) {
	switch p := Policy(strings.ToLower(strings.TrimSpace(s))); p {
	case "":
		return PolicyLegacy, nil
	case PolicyLegacy, PolicyFallback, PolicyAbort, PolicySkip:
		return p, nil
	default:
		return "", fmt.Errorf("invalid enrichment policy: %s (must be legacy, fallback, abort or skip)", s)
	}
}

// Decide maps an enrichment error to an action. Errors that are neither a
// degraded page nor a selector mismatch (transport failures, cancelled contexts)
// always abort.
func (p Policy) Decide(err error) Action {
	degraded := errors.Is(err, ErrDegraded)
	mismatch := errors.Is(err, ErrSelectorNotFound)
	if !degraded && !mismatch {
		return ActionAbort
	}

	switch p {
	case PolicyFallback:
		return ActionFallback
	case PolicySkip:
		return ActionSkip
	case PolicyAbort:
		return ActionAbort
	default:
		if degraded {
			return ActionFallback
		}
		return ActionAbort
	}
}
