package driver

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"go.uber.org/zap"
)

// Options configures a browser session.
type Options struct {
	Headless   bool
	Width      int
	Height     int
	ProfileDir string // Chrome/Chromium profile directory for authenticated sessions
}

// Session owns one browser page and implements Page on top of rod.
type Session struct {
	browser *rod.Browser
	page    *rod.Page
	log     *zap.Logger
}

// Launch starts a browser and opens a blank page.
func Launch(opts Options, log *zap.Logger) (*Session, error) {
	path, _ := launcher.LookPath()
	l := launcher.New().Bin(path).Headless(opts.Headless)
	if opts.ProfileDir != "" {
		l = l.UserDataDir(opts.ProfileDir)
	}

	u, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("launching browser: %w", err)
	}

	browser := rod.New().ControlURL(u)
	if err := browser.Connect(); err != nil {
		return nil, fmt.Errorf("connecting to browser: %w", err)
	}

	page, err := browser.Page(proto.TargetCreateTarget{})
	if err != nil {
		browser.Close()
		return nil, fmt.Errorf("opening page: %w", err)
	}

	if err := page.SetViewport(&proto.EmulationSetDeviceMetricsOverride{
		Width:             opts.Width,
		Height:            opts.Height,
		DeviceScaleFactor: 1,
	}); err != nil {
		browser.Close()
		return nil, fmt.Errorf("setting viewport: %w", err)
	}

	log.Debug("browser launched",
		zap.Bool("headless", opts.Headless),
		zap.Int("width", opts.Width),
		zap.Int("height", opts.Height))

	return &Session{browser: browser, page: page, log: log}, nil
}

// Close shuts the page and browser down.
func (s *Session) Close() {
	if s.page != nil {
		s.page.Close()
	}
	if s.browser != nil {
		s.browser.Close()
	}
}

// Navigate loads a URL and waits for the page to settle. The network-idle
// wait is bounded so persistent connections (websockets, polling) don't hang it.
func (s *Session) Navigate(ctx context.Context, url string) error {
	page := s.page.Context(ctx)

	if err := page.Navigate(url); err != nil {
		return pageErr(fmt.Sprintf("navigating to %s", url), err)
	}
	if err := page.WaitLoad(); err != nil {
		return pageErr(fmt.Sprintf("waiting for load of %s", url), err)
	}
	page.Timeout(5 * time.Second).WaitRequestIdle(500*time.Millisecond, nil, nil, nil)()

	s.log.Debug("navigated", zap.String("url", url))
	return nil
}

// Eval implements Page.
func (s *Session) Eval(ctx context.Context, js string, args ...interface{}) (json.RawMessage, error) {
	res, err := s.page.Context(ctx).Eval(js, args...)
	if err != nil {
		return nil, pageErr("evaluating script", err)
	}
	raw, err := json.Marshal(res.Value.Val())
	if err != nil {
		return nil, fmt.Errorf("encoding script result: %w", err)
	}
	return raw, nil
}

// Click implements Page: a left click at viewport coordinates.
func (s *Session) Click(ctx context.Context, x, y float64) error {
	mouse := s.page.Context(ctx).Mouse
	if err := mouse.MoveTo(proto.NewPoint(x, y)); err != nil {
		return pageErr("moving mouse", err)
	}
	if err := mouse.Click(proto.InputMouseButtonLeft, 1); err != nil {
		return pageErr("dispatching click", err)
	}
	return nil
}

// WaitNavigation implements Page. It polls the page URL and readiness until
// either a navigation away from fromURL completes, or the timeout passes with
// the page still on fromURL (no navigation, not an error), or the timeout
// passes mid-navigation (ErrNavigationTimeout).
func (s *Session) WaitNavigation(ctx context.Context, fromURL string, timeout time.Duration) (string, bool, error) {
	deadline := time.Now().Add(timeout)
	for {
		info, err := s.page.Info()
		if err != nil {
			return "", false, pageErr("reading page info", err)
		}

		if info.URL != fromURL {
			state := s.readyState(ctx)
			if state == "complete" {
				s.log.Debug("navigation settled", zap.String("url", info.URL))
				return info.URL, true, nil
			}
			if time.Now().After(deadline) {
				return "", false, fmt.Errorf("navigation to %s pending: %w", info.URL, ErrNavigationTimeout)
			}
		} else if time.Now().After(deadline) {
			return fromURL, false, nil
		}

		select {
		case <-ctx.Done():
			return "", false, ctx.Err()
		case <-time.After(100 * time.Millisecond):
		}
	}
}

// URL implements Page.
func (s *Session) URL(ctx context.Context) (string, error) {
	info, err := s.page.Context(ctx).Info()
	if err != nil {
		return "", pageErr("reading page url", err)
	}
	return info.URL, nil
}

// Title implements Page.
func (s *Session) Title(ctx context.Context) (string, error) {
	info, err := s.page.Context(ctx).Info()
	if err != nil {
		return "", pageErr("reading page title", err)
	}
	return info.Title, nil
}

// Screenshot captures the current viewport as PNG bytes.
func (s *Session) Screenshot(ctx context.Context) ([]byte, error) {
	data, err := s.page.Context(ctx).Screenshot(false, &proto.PageCaptureScreenshot{
		Format: proto.PageCaptureScreenshotFormatPng,
	})
	if err != nil {
		return nil, pageErr("capturing screenshot", err)
	}
	return data, nil
}

func (s *Session) readyState(ctx context.Context) string {
	res, err := s.page.Context(ctx).Eval(`() => document.readyState`)
	if err != nil {
		return ""
	}
	state, _ := res.Value.Val().(string)
	return state
}
