package scan

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"clickmap/internal/driver"
)

// rawNode is the wire shape the snapshot script emits, one per candidate,
// in depth-first pre-order.
type rawNode struct {
	Tag        string       `json:"tag"`
	Text       string       `json:"text"`
	Attrs      []Attr       `json:"attrs"`
	XPath      string       `json:"xpath"`
	Cursor     string       `json:"cursor"`
	Handler    bool         `json:"handler"`
	AccName    string       `json:"acc"`
	Hidden     bool         `json:"hidden"`
	Box        *BoundingBox `json:"box"`
	InViewport bool         `json:"inViewport"`
}

type candidate struct {
	node       rawNode
	reason     Reason
	suppressed bool
}

// Extract runs one analysis pass: snapshot the DOM, classify every candidate
// in document order, suppress redundant cursor-style matches, and assign
// stable zero-based indices. All-or-nothing: a page-level failure returns no
// partial result, so index semantics stay unambiguous.
func Extract(ctx context.Context, page driver.Page, log *zap.Logger) (*Analysis, error) {
	raw, err := page.Eval(ctx, snapshotScript)
	if err != nil {
		return nil, fmt.Errorf("snapshotting page: %w", err)
	}

	var nodes []rawNode
	if err := json.Unmarshal(raw, &nodes); err != nil {
		return nil, fmt.Errorf("decoding snapshot: %w", err)
	}

	url, err := page.URL(ctx)
	if err != nil {
		return nil, fmt.Errorf("reading url: %w", err)
	}
	title, err := page.Title(ctx)
	if err != nil {
		return nil, fmt.Errorf("reading title: %w", err)
	}

	cands := classifyAll(nodes)

	elements := make([]Record, 0, len(cands))
	suppressed := 0
	for _, c := range cands {
		if c.suppressed {
			suppressed++
			continue
		}
		n := c.node
		elements = append(elements, Record{
			Index:        len(elements),
			TagName:      n.Tag,
			Text:         n.Text,
			Attributes:   Attributes(n.Attrs),
			XPath:        n.XPath,
			IsVisible:    !n.Hidden && n.Box != nil && n.Box.Width > 0 && n.Box.Height > 0,
			IsInViewport: n.InViewport,
			BoundingBox:  n.Box,
			Reason:       c.reason,
		})
	}

	log.Debug("analysis pass complete",
		zap.String("url", url),
		zap.Int("candidates", len(nodes)),
		zap.Int("clickable", len(elements)),
		zap.Int("suppressed", suppressed))

	return &Analysis{
		URL:       url,
		Title:     title,
		Timestamp: time.Now().Format("2006-01-02 15:04:05"),
		Elements:  elements,
	}, nil
}

// classifyAll runs the classifier over the DFS-ordered candidate stream,
// carrying an ancestor stack so cursor-style matches can be suppressed in
// both directions: a cursor match nested under an already clickable ancestor
// never counts, and a cursor match that later turns out to wrap a clickable
// descendant is retracted. One pass, no rescans.
//
// Ancestry comes from the recorded xpaths: the stream only contains
// candidates, so a deeper node may belong to an unrelated subtree and depth
// alone cannot tell a descendant from a cousin.
func classifyAll(nodes []rawNode) []*candidate {
	var all []*candidate
	var stack []*candidate // clickable ancestors of the current node

	for _, n := range nodes {
		for len(stack) > 0 && !isAncestor(stack[len(stack)-1].node.XPath, n.XPath) {
			stack = stack[:len(stack)-1]
		}

		reason, ok := Classify(Node{
			Tag:            n.Tag,
			Attrs:          Attributes(n.Attrs),
			Cursor:         n.Cursor,
			HasHandler:     n.Handler,
			AccessibleName: n.AccName,
		})
		if !ok {
			continue
		}

		c := &candidate{node: n, reason: reason}
		if reason == CursorStyleMatch {
			if len(stack) > 0 {
				c.suppressed = true
			}
		} else {
			for _, anc := range stack {
				if anc.reason == CursorStyleMatch {
					anc.suppressed = true
				}
			}
		}

		all = append(all, c)
		stack = append(stack, c)
	}

	return all
}

// isAncestor reports whether the element at ancestor's xpath contains the
// element at xpath. Every xpath is fully indexed, so plain prefix matching
// on a segment boundary is exact.
func isAncestor(ancestor, xpath string) bool {
	return strings.HasPrefix(xpath, ancestor+"/")
}
