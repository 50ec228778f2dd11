package listing

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"inventory-tracker/core/inventory"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// maxPageBytes bounds a single page body.
const maxPageBytes = 16 << 20

// HTTPFetcher requests pages directly from the vendor JSON endpoint.
type HTTPFetcher struct {
	client    *http.Client
	baseURL   string
	userAgent string
	limiter   *rate.Limiter
	logger    *zap.Logger
}

// NewHTTPFetcher creates an HTTPFetcher from cfg.
func NewHTTPFetcher(cfg Config, logger *zap.Logger) *HTTPFetcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	timeout := cfg.FetchTimeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	f := &HTTPFetcher{
		client:    &http.Client{Timeout: timeout},
		baseURL:   cfg.BaseURL,
		userAgent: cfg.UserAgent,
		logger:    logger,
	}
	if cfg.RatePerMinute > 0 {
		f.limiter = rate.NewLimiter(rate.Every(time.Minute/time.Duration(cfg.RatePerMinute)), 1)
	}
	return f
}

// FetchPage performs one GET for req.
func (f *HTTPFetcher) FetchPage(ctx context.Context, req inventory.PageRequest) (inventory.RawPage, error) {
	if f.limiter != nil {
		if err := f.limiter.Wait(ctx); err != nil {
			return inventory.RawPage{}, err
		}
	}

	pageURL, err := PageURL(f.baseURL, req)
	if err != nil {
		return inventory.RawPage{}, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return inventory.RawPage{}, fmt.Errorf("build request: %w", err)
	}
	httpReq.Header.Set("Accept", "application/json")
	if f.userAgent != "" {
		httpReq.Header.Set("User-Agent", f.userAgent)
	}

	resp, err := f.client.Do(httpReq)
	if err != nil {
		return inventory.RawPage{}, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxPageBytes))
	if err != nil {
		return inventory.RawPage{}, fmt.Errorf("read body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		f.logger.Debug("Vendor returned non-OK status",
			zap.Int("offset", req.Offset),
			zap.Int("status", resp.StatusCode),
		)
		return inventory.RawPage{}, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	return inventory.RawPage{
		Offset:      req.Offset,
		Body:        body,
		ContentType: resp.Header.Get("Content-Type"),
	}, nil
}

// Close releases idle connections.
func (f *HTTPFetcher) Close() error {
	f.client.CloseIdleConnections()
	return nil
}
