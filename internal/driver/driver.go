package driver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

var (
	// ErrPageUnavailable means the browser page can no longer be driven:
	// the connection dropped or a navigation tore the document down mid-call.
	ErrPageUnavailable = errors.New("page unavailable")

	// ErrNavigationTimeout means a navigation started but did not settle
	// within the caller's bound.
	ErrNavigationTimeout = errors.New("navigation timeout")
)

// pageErr tags a failed driver call with ErrPageUnavailable so callers can
// match it with errors.Is, while the underlying browser error stays in the
// message for diagnosis.
func pageErr(op string, cause error) error {
	return fmt.Errorf("%s: %w: %v", op, ErrPageUnavailable, cause)
}

// Page is the capability surface the analysis core drives a page through.
// The rod-backed Session implements it; tests implement it with fixtures.
type Page interface {
	// Eval runs a script in page context and returns its JSON result.
	// js must be a function expression; args are passed as its parameters.
	Eval(ctx context.Context, js string, args ...interface{}) (json.RawMessage, error)

	// Click dispatches a mouse click at viewport coordinates.
	Click(ctx context.Context, x, y float64) error

	// WaitNavigation waits up to timeout for the page to navigate away from
	// fromURL and settle. It reports the new URL and whether a completed
	// navigation happened. A navigation that starts but never settles
	// returns ErrNavigationTimeout.
	WaitNavigation(ctx context.Context, fromURL string, timeout time.Duration) (string, bool, error)

	// URL returns the page's current URL.
	URL(ctx context.Context) (string, error)

	// Title returns the page's current title.
	Title(ctx context.Context) (string, error)
}
