package listing

import (
	"context"
	"fmt"
	"sync"
	"time"

	"inventory-tracker/core/inventory"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"go.uber.org/zap"
)

// BrowserFetcher loads each page URL in a real browser and reads the JSON
// the browser renders inside a <pre> element. The browser is launched on the
// first request and reused until Close.
type BrowserFetcher struct {
	baseURL  string
	headless bool
	bin      string
	timeout  time.Duration
	logger   *zap.Logger

	mu       sync.Mutex
	launcher *launcher.Launcher
	browser  *rod.Browser
}

// NewBrowserFetcher creates a BrowserFetcher from cfg.
func NewBrowserFetcher(cfg Config, logger *zap.Logger) *BrowserFetcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	timeout := cfg.FetchTimeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &BrowserFetcher{
		baseURL:  cfg.BaseURL,
		headless: cfg.Headless,
		bin:      cfg.BrowserBin,
		timeout:  timeout,
		logger:   logger,
	}
}

func (f *BrowserFetcher) connect() (*rod.Browser, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.browser != nil {
		return f.browser, nil
	}

	l := launcher.New().Headless(f.headless)
	if f.bin != "" {
		l = l.Bin(f.bin)
	}
	controlURL, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("launch browser: %w", err)
	}

	browser := rod.New().ControlURL(controlURL)
	if err := browser.Connect(); err != nil {
		l.Cleanup()
		return nil, fmt.Errorf("connect browser: %w", err)
	}

	f.logger.Info("Browser transport started", zap.Bool("headless", f.headless))
	f.launcher = l
	f.browser = browser
	return browser, nil
}

// FetchPage navigates to the page URL and returns the rendered JSON text.
func (f *BrowserFetcher) FetchPage(ctx context.Context, req inventory.PageRequest) (inventory.RawPage, error) {
	pageURL, err := PageURL(f.baseURL, req)
	if err != nil {
		return inventory.RawPage{}, err
	}

	browser, err := f.connect()
	if err != nil {
		return inventory.RawPage{}, err
	}

	page, err := browser.Page(proto.TargetCreateTarget{})
	if err != nil {
		return inventory.RawPage{}, fmt.Errorf("open tab: %w", err)
	}
	defer page.Close()

	p := page.Context(ctx).Timeout(f.timeout)
	if err := p.Navigate(pageURL); err != nil {
		return inventory.RawPage{}, fmt.Errorf("navigate: %w", err)
	}
	if err := p.WaitLoad(); err != nil {
		return inventory.RawPage{}, fmt.Errorf("wait load: %w", err)
	}

	pre, err := p.Element("pre")
	if err != nil {
		return inventory.RawPage{}, fmt.Errorf("find json body: %w", err)
	}
	text, err := pre.Text()
	if err != nil {
		return inventory.RawPage{}, fmt.Errorf("read json body: %w", err)
	}

	return inventory.RawPage{
		Offset:      req.Offset,
		Body:        []byte(text),
		ContentType: "application/json",
	}, nil
}

// Close shuts the browser down if it was started.
func (f *BrowserFetcher) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.browser == nil {
		return nil
	}
	err := f.browser.Close()
	f.launcher.Cleanup()
	f.browser = nil
	f.launcher = nil
	return err
}
