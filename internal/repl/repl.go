// Package repl is the interactive command loop over one analysis. All parsing
// lives here; decisions belong to scan and interact.
package repl

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"clickmap/internal/capture"
	"clickmap/internal/driver"
	"clickmap/internal/interact"
	"clickmap/internal/scan"
)

// Pager is everything the loop needs from the browser session.
type Pager interface {
	driver.Page
	Screenshot(ctx context.Context) ([]byte, error)
}

// Loop runs interactive commands against the current analysis.
type Loop struct {
	page     Pager
	ctrl     *interact.Controller
	analysis *scan.Analysis
	stale    bool
	in       *bufio.Reader
	out      io.Writer
	log      *zap.Logger
}

// New builds a loop over an initial analysis.
func New(page Pager, ctrl *interact.Controller, analysis *scan.Analysis, in io.Reader, out io.Writer, log *zap.Logger) *Loop {
	return &Loop{
		page:     page,
		ctrl:     ctrl,
		analysis: analysis,
		in:       bufio.NewReader(in),
		out:      out,
		log:      log,
	}
}

// Run reads commands until quit or EOF.
func (l *Loop) Run(ctx context.Context) error {
	fmt.Fprintln(l.out, "=== Interactive Mode ===")
	fmt.Fprintln(l.out, "Commands:")
	fmt.Fprintln(l.out, "  h <index> - Highlight element")
	fmt.Fprintln(l.out, "  c <index> - Click element")
	fmt.Fprintln(l.out, "  i <index> - Inspect element")
	fmt.Fprintln(l.out, "  l         - List all elements")
	fmt.Fprintln(l.out, "  p [file]  - Save screenshot (default page.png)")
	fmt.Fprintln(l.out, "  r         - Re-analyze the page")
	fmt.Fprintln(l.out, "  q         - Quit")

	for {
		fmt.Fprint(l.out, "\n> ")
		line, err := l.in.ReadString('\n')
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if line == "q" || line == "quit" || line == "exit" {
			return nil
		}

		if err := l.dispatch(ctx, line); err != nil {
			fmt.Fprintf(l.out, "error: %v\n", err)
		}
	}
}

func (l *Loop) dispatch(ctx context.Context, line string) error {
	parts := strings.Fields(line)
	cmd := parts[0]

	switch cmd {
	case "l":
		l.list()
		return nil
	case "r":
		return l.reanalyze(ctx)
	case "p":
		path := "page.png"
		if len(parts) > 1 {
			path = parts[1]
		}
		if err := capture.Save(ctx, l.page, path); err != nil {
			return err
		}
		fmt.Fprintf(l.out, "saved screenshot to %s\n", path)
		return nil
	case "h", "c", "i":
		if len(parts) != 2 {
			return fmt.Errorf("usage: %s <index>", cmd)
		}
		index, err := strconv.Atoi(parts[1])
		if err != nil {
			return fmt.Errorf("invalid index %q", parts[1])
		}
		return l.elementCommand(ctx, cmd, index)
	default:
		return fmt.Errorf("unknown command %q", cmd)
	}
}

func (l *Loop) elementCommand(ctx context.Context, cmd string, index int) error {
	// Inspecting a stale analysis is harmless; acting on it is not.
	if l.stale && cmd != "i" {
		return errors.New("analysis is stale after a click; run 'r' to re-analyze")
	}

	rec, err := l.analysis.Resolve(index)
	if err != nil {
		return err
	}

	switch cmd {
	case "h":
		if err := l.ctrl.Highlight(ctx, l.page, rec); err != nil {
			return err
		}
		fmt.Fprintf(l.out, "highlighted element %d\n", index)
	case "c":
		outcome, err := l.ctrl.Click(ctx, l.page, rec)
		if err != nil {
			// The DOM may have changed even on a failed attempt that got as
			// far as dispatching; only mark stale when the click went out.
			if errors.Is(err, driver.ErrNavigationTimeout) {
				l.stale = true
			}
			return err
		}
		l.stale = true
		if outcome.Navigated {
			fmt.Fprintf(l.out, "clicked element %d, navigated to %s\n", index, outcome.NewURL)
		} else {
			fmt.Fprintf(l.out, "clicked element %d (no navigation)\n", index)
		}
		fmt.Fprintln(l.out, "indices are now stale; run 'r' before the next highlight/click")
	case "i":
		l.inspect(rec)
	}
	return nil
}

func (l *Loop) list() {
	fmt.Fprintf(l.out, "%d clickable elements on %s\n", len(l.analysis.Elements), l.analysis.URL)
	for i := range l.analysis.Elements {
		fmt.Fprintln(l.out, l.analysis.Elements[i].String())
	}
}

func (l *Loop) inspect(rec *scan.Record) {
	fmt.Fprintln(l.out, "Element details:")
	fmt.Fprintf(l.out, "  Index: %d\n", rec.Index)
	fmt.Fprintf(l.out, "  Tag: %s\n", rec.TagName)
	fmt.Fprintf(l.out, "  Text: %s\n", rec.Text)
	fmt.Fprintf(l.out, "  XPath: %s\n", rec.XPath)
	fmt.Fprintf(l.out, "  Reason: %s\n", rec.Reason)
	fmt.Fprintf(l.out, "  Visible: %t  In viewport: %t\n", rec.IsVisible, rec.IsInViewport)
	if len(rec.Attributes) > 0 {
		fmt.Fprintln(l.out, "  Attributes:")
		for _, attr := range rec.Attributes {
			fmt.Fprintf(l.out, "    %s: %s\n", attr.Name, attr.Value)
		}
	}
	if rec.BoundingBox != nil {
		b := rec.BoundingBox
		fmt.Fprintf(l.out, "  Box: x=%.1f y=%.1f w=%.1f h=%.1f\n", b.X, b.Y, b.Width, b.Height)
	}
}

func (l *Loop) reanalyze(ctx context.Context) error {
	analysis, err := scan.Extract(ctx, l.page, l.log)
	if err != nil {
		return err
	}
	l.analysis = analysis
	l.stale = false
	fmt.Fprintf(l.out, "re-analyzed: %d clickable elements\n", len(analysis.Elements))
	return nil
}
