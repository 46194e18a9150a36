// Package render drives a headless browser to produce the fully-settled HTML
// of a target page, including content that only appears after scripted
// scrolling. Every invocation launches and tears down its own browser
// session; ingestion is human-paced, so isolation wins over throughput.
package render

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/playwright-community/playwright-go"

	"civicscan/internal/config"
	"civicscan/internal/logger"
)

// ErrTimeout marks navigation that exceeded the configured render timeout.
var ErrTimeout = errors.New("render timeout")

// ErrRender marks network, DNS, TLS, malformed-URL and browser failures.
var ErrRender = errors.New("render failed")

const scrollWheelDelta = 12000

type Service struct {
	log *logger.Logger
	cfg config.Config
}

func NewService(cfg config.Config) *Service {
	return &Service{log: logger.New("RenderService"), cfg: cfg}
}

// Render loads url in a fresh chromium session, waits for the initial DOM,
// auto-scrolls a bounded number of steps to trigger lazy-loaded content,
// lets the page settle, and returns the final document HTML.
func (s *Service) Render(ctx context.Context, url string) (string, error) {
	start := time.Now()
	s.log.Info().Str("url", url).Msg("render start")

	pw, err := playwright.Run()
	if err != nil {
		return "", fmt.Errorf("%w: playwright run: %v", ErrRender, err)
	}
	defer pw.Stop()

	browser, err := pw.Chromium.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(true),
		Args: []string{
			"--no-sandbox",
			"--disable-dev-shm-usage",
			"--disable-blink-features=AutomationControlled",
			"--no-first-run",
			"--disable-default-apps",
			"--disable-extensions",
		},
	})
	if err != nil {
		return "", fmt.Errorf("%w: launch: %v", ErrRender, err)
	}
	defer browser.Close()

	profile := defaultHeaderProfile()
	bctx, err := browser.NewContext(playwright.BrowserNewContextOptions{
		UserAgent:        playwright.String(profile.UserAgent),
		ExtraHttpHeaders: profile.Headers(),
	})
	if err != nil {
		return "", fmt.Errorf("%w: browser context: %v", ErrRender, err)
	}
	page, err := bctx.NewPage()
	if err != nil {
		return "", fmt.Errorf("%w: new page: %v", ErrRender, err)
	}

	_, err = page.Goto(url, playwright.PageGotoOptions{
		WaitUntil: playwright.WaitUntilStateDomcontentloaded,
		Timeout:   playwright.Float(float64(s.cfg.RenderTimeoutMs)),
	})
	if err != nil {
		if isTimeout(err) {
			return "", fmt.Errorf("%w: navigation exceeded %dms: %v", ErrTimeout, s.cfg.RenderTimeoutMs, err)
		}
		return "", fmt.Errorf("%w: goto: %v", ErrRender, err)
	}

	s.autoScroll(page)
	page.WaitForTimeout(float64(s.cfg.SettleMs))

	html, err := page.Content()
	if err != nil {
		return "", fmt.Errorf("%w: content: %v", ErrRender, err)
	}

	s.log.Info().Str("url", url).Int("bytes", len(html)).Dur("took", time.Since(start)).Msg("render complete")
	return html, nil
}

// autoScroll wheels down a fixed number of steps with a fixed delay so
// lazy-loaded sections get a chance to mount.
func (s *Service) autoScroll(page playwright.Page) {
	for i := 0; i < s.cfg.ScrollSteps; i++ {
		if err := page.Mouse().Wheel(0, scrollWheelDelta); err != nil {
			s.log.LogDebugf("scroll step %d failed: %v", i, err)
			return
		}
		page.WaitForTimeout(float64(s.cfg.ScrollDelayMs))
	}
}

func isTimeout(err error) bool {
	es := strings.ToLower(err.Error())
	return strings.Contains(es, "timeout") || strings.Contains(es, "deadline exceeded")
}
