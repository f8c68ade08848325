// Package interact performs highlight and click operations against elements
// found by an earlier analysis pass, through the page driver.
package interact

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"clickmap/internal/driver"
	"clickmap/internal/scan"
)

var (
	// ErrElementNotInteractable: the target is disabled, has no size, or is
	// covered by another element. Pick a different index.
	ErrElementNotInteractable = errors.New("element not interactable")

	// ErrStaleElement: the recorded xpath no longer resolves; the DOM changed
	// since the analysis. Re-analyze.
	ErrStaleElement = errors.New("stale element")

	// ErrHighlightFailed: the element could not be marked, usually because it
	// has no rendered box.
	ErrHighlightFailed = errors.New("highlight failed")
)

// Outcome reports what a click did to the page.
type Outcome struct {
	Navigated bool
	NewURL    string
}

// Controller drives highlight and click through the page driver. It holds no
// state beyond its timeout bounds; outcomes are fully reported to the caller.
type Controller struct {
	navTimeout  time.Duration
	callTimeout time.Duration
	log         *zap.Logger
}

// New returns a Controller that bounds each driver call by callTimeout and
// waits up to navTimeout for post-click navigations to settle.
func New(navTimeout, callTimeout time.Duration, log *zap.Logger) *Controller {
	return &Controller{navTimeout: navTimeout, callTimeout: callTimeout, log: log}
}

// highlightScript draws an outline overlay plus an index label around the
// element the xpath resolves to, and scrolls it into view. Returns false when
// the xpath resolves to nothing.
const highlightScript = `(xpath, index) => {
	const found = document.evaluate(xpath, document, null, XPathResult.FIRST_ORDERED_NODE_TYPE, null);
	const el = found.singleNodeValue;
	if (!el) return false;

	const rect = el.getBoundingClientRect();

	const overlay = document.createElement('div');
	overlay.id = 'clickmap-overlay-' + index;
	overlay.style.position = 'absolute';
	overlay.style.border = '2px solid red';
	overlay.style.backgroundColor = 'rgba(255, 0, 0, 0.2)';
	overlay.style.zIndex = '10000';
	overlay.style.pointerEvents = 'none';
	overlay.style.top = (rect.top + window.scrollY) + 'px';
	overlay.style.left = (rect.left + window.scrollX) + 'px';
	overlay.style.width = rect.width + 'px';
	overlay.style.height = rect.height + 'px';

	const label = document.createElement('div');
	label.textContent = index;
	label.style.position = 'absolute';
	label.style.backgroundColor = 'red';
	label.style.color = 'white';
	label.style.padding = '2px 5px';
	label.style.borderRadius = '3px';
	label.style.fontSize = '12px';
	label.style.zIndex = '10001';
	label.style.pointerEvents = 'none';
	label.style.top = (rect.top + window.scrollY - 20) + 'px';
	label.style.left = (rect.left + window.scrollX) + 'px';

	document.body.appendChild(overlay);
	document.body.appendChild(label);
	el.scrollIntoView({ behavior: 'smooth', block: 'center' });
	return true;
}`

// hitTestScript re-resolves the xpath and checks what actually sits at the
// click point. Distinguishes a vanished element from an obscured one.
const hitTestScript = `(xpath, x, y) => {
	const found = document.evaluate(xpath, document, null, XPathResult.FIRST_ORDERED_NODE_TYPE, null);
	const el = found.singleNodeValue;
	if (!el) return 'stale';
	const hit = document.elementFromPoint(x, y);
	if (!hit) return 'obscured';
	if (el === hit || el.contains(hit) || hit.contains(el)) return 'ok';
	return 'obscured';
}`

// Highlight draws a temporary visible marker around the element's box.
func (c *Controller) Highlight(ctx context.Context, page driver.Page, rec *scan.Record) error {
	if rec.BoundingBox == nil {
		return fmt.Errorf("element %d has no rendered box: %w", rec.Index, ErrHighlightFailed)
	}

	ctx, cancel := context.WithTimeout(ctx, c.callTimeout)
	defer cancel()

	raw, err := page.Eval(ctx, highlightScript, rec.XPath, rec.Index)
	if err != nil {
		return fmt.Errorf("highlighting element %d: %w", rec.Index, err)
	}
	var ok bool
	if err := json.Unmarshal(raw, &ok); err != nil || !ok {
		return fmt.Errorf("element %d xpath no longer resolves: %w", rec.Index, ErrHighlightFailed)
	}

	c.log.Debug("highlighted element", zap.Int("index", rec.Index), zap.String("xpath", rec.XPath))
	return nil
}

// Click dispatches a click at the element's center and reports whether it
// caused a navigation. Disabled, zero-size, obscured, and vanished targets
// fail with distinct errors so the caller can decide between picking another
// index and re-analyzing.
func (c *Controller) Click(ctx context.Context, page driver.Page, rec *scan.Record) (Outcome, error) {
	if rec.Disabled() {
		return Outcome{}, fmt.Errorf("element %d is disabled: %w", rec.Index, ErrElementNotInteractable)
	}

	x, y, ok := rec.Center()
	if !ok || rec.BoundingBox.Width == 0 || rec.BoundingBox.Height == 0 {
		return Outcome{}, fmt.Errorf("element %d has no clickable area: %w", rec.Index, ErrElementNotInteractable)
	}

	callCtx, cancel := context.WithTimeout(ctx, c.callTimeout)
	defer cancel()

	raw, err := page.Eval(callCtx, hitTestScript, rec.XPath, x, y)
	if err != nil {
		return Outcome{}, fmt.Errorf("hit-testing element %d: %w", rec.Index, err)
	}
	var hit string
	if err := json.Unmarshal(raw, &hit); err != nil {
		return Outcome{}, fmt.Errorf("decoding hit test for element %d: %w", rec.Index, err)
	}
	switch hit {
	case "ok":
	case "stale":
		return Outcome{}, fmt.Errorf("element %d no longer in DOM: %w", rec.Index, ErrStaleElement)
	default:
		return Outcome{}, fmt.Errorf("element %d is obscured at (%.0f, %.0f): %w", rec.Index, x, y, ErrElementNotInteractable)
	}

	urlCtx, cancelURL := context.WithTimeout(ctx, c.callTimeout)
	defer cancelURL()
	before, err := page.URL(urlCtx)
	if err != nil {
		return Outcome{}, fmt.Errorf("reading url before click: %w", err)
	}

	clickCtx, cancelClick := context.WithTimeout(ctx, c.callTimeout)
	defer cancelClick()
	if err := page.Click(clickCtx, x, y); err != nil {
		return Outcome{}, fmt.Errorf("clicking element %d: %w", rec.Index, err)
	}
	c.log.Debug("clicked element", zap.Int("index", rec.Index), zap.Float64("x", x), zap.Float64("y", y))

	newURL, navigated, err := page.WaitNavigation(ctx, before, c.navTimeout)
	if err != nil {
		return Outcome{}, fmt.Errorf("after clicking element %d: %w", rec.Index, err)
	}
	if navigated {
		c.log.Debug("click caused navigation", zap.Int("index", rec.Index), zap.String("url", newURL))
		return Outcome{Navigated: true, NewURL: newURL}, nil
	}
	return Outcome{}, nil
}
