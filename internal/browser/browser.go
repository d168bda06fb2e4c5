/*
Package browser renders result pages in a headless Chromium session and
returns their visible text. One session (browser, context and page) is reused
for every probe in a run.
*/
package browser

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/playwright-community/playwright-go"

	"github.com/shanehull/tripwatch/internal/scan"
)

const (
	DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
	DefaultSettle    = 3 * time.Second

	viewportWidth  = 1280
	viewportHeight = 720
)

type Options struct {
	Headless  bool
	UserAgent string
	// Settle is how long to let dynamic content finish after network idle.
	Settle time.Duration
}

type Session struct {
	pw      *playwright.Playwright
	browser playwright.Browser
	context playwright.BrowserContext
	page    playwright.Page
	settle  time.Duration
}

// Start launches Chromium and opens the page used for every fetch. Failures
// wrap scan.ErrFatalSession.
func Start(opts Options) (*Session, error) {
	if opts.UserAgent == "" {
		opts.UserAgent = DefaultUserAgent
	}
	if opts.Settle <= 0 {
		opts.Settle = DefaultSettle
	}

	pw, err := playwright.Run()
	if err != nil {
		return nil, fmt.Errorf("%w: failed to start playwright: %w", scan.ErrFatalSession, err)
	}
	s := &Session{pw: pw, settle: opts.Settle}

	s.browser, err = pw.Chromium.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(opts.Headless),
		Args: []string{
			"--no-sandbox",
			"--disable-setuid-sandbox",
			"--disable-dev-shm-usage",
		},
	})
	if err != nil {
		_ = s.Close()
		return nil, fmt.Errorf("%w: failed to launch chromium: %w", scan.ErrFatalSession, err)
	}

	s.context, err = s.browser.NewContext(playwright.BrowserNewContextOptions{
		UserAgent: playwright.String(opts.UserAgent),
		Viewport: &playwright.Size{
			Width:  viewportWidth,
			Height: viewportHeight,
		},
	})
	if err != nil {
		_ = s.Close()
		return nil, fmt.Errorf("%w: failed to create browser context: %w", scan.ErrFatalSession, err)
	}

	s.page, err = s.context.NewPage()
	if err != nil {
		_ = s.Close()
		return nil, fmt.Errorf("%w: failed to create page: %w", scan.ErrFatalSession, err)
	}

	return s, nil
}

// Fetch navigates to url, waits for network idle plus the settle delay, and
// returns the body's innerText. The whole sequence is capped by timeout.
//
// Playwright navigation does not take a context, so ctx is only checked
// between steps. A cancellation during Goto or InnerText takes effect once
// that step returns or the remaining budget runs out.
func (s *Session) Fetch(ctx context.Context, url string, timeout time.Duration) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", fmt.Errorf("%w: not fetching %s: %w", scan.ErrFetch, url, err)
	}
	if !s.browser.IsConnected() || s.page.IsClosed() {
		return "", fmt.Errorf("%w: browser is no longer connected", scan.ErrFatalSession)
	}

	b := newBudget(time.Now(), timeout)

	_, err := s.page.Goto(url, playwright.PageGotoOptions{
		WaitUntil: playwright.WaitUntilStateNetworkidle,
		Timeout:   playwright.Float(b.remainingMillis(time.Now())),
	})
	if err != nil {
		return "", s.fetchErr(fmt.Sprintf("failed to navigate to %s", url), err)
	}

	if err := settle(ctx, b.clamp(time.Now(), s.settle)); err != nil {
		return "", fmt.Errorf("%w: interrupted while waiting for %s: %w", scan.ErrFetch, url, err)
	}

	if err := ctx.Err(); err != nil {
		return "", fmt.Errorf("%w: interrupted while waiting for %s: %w", scan.ErrFetch, url, err)
	}
	if b.expired(time.Now()) {
		return "", fmt.Errorf("%w: timed out after %s waiting for %s", scan.ErrFetch, timeout, url)
	}

	text, err := s.page.Locator("body").InnerText(playwright.LocatorInnerTextOptions{
		Timeout: playwright.Float(b.remainingMillis(time.Now())),
	})
	if err != nil {
		return "", s.fetchErr(fmt.Sprintf("failed to read page text from %s", url), err)
	}

	return text, nil
}

// fetchErr marks err fatal when the browser went away, and per-date otherwise.
func (s *Session) fetchErr(msg string, err error) error {
	if !s.browser.IsConnected() || errors.Is(err, playwright.ErrTargetClosed) {
		return fmt.Errorf("%w: %s: %w", scan.ErrFatalSession, msg, err)
	}
	return fmt.Errorf("%w: %s: %w", scan.ErrFetch, msg, err)
}

// Close releases the page, context, browser and driver.
func (s *Session) Close() error {
	var errs []error
	if s.page != nil {
		errs = append(errs, s.page.Close())
	}
	if s.context != nil {
		errs = append(errs, s.context.Close())
	}
	if s.browser != nil {
		errs = append(errs, s.browser.Close())
	}
	if s.pw != nil {
		errs = append(errs, s.pw.Stop())
	}
	return errors.Join(errs...)
}

func settle(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
