package paginator

import (
	"context"
	"errors"
	"fmt"
	"time"

	"inventory-tracker/core/inventory"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// DefaultPageSize is the vendor's maximum page size.
const DefaultPageSize = 50

// Fetcher issues one network request for one page.
type Fetcher interface {
	FetchPage(ctx context.Context, req inventory.PageRequest) (inventory.RawPage, error)
}

// Parser turns a raw page into records and the query's total match count.
type Parser interface {
	Parse(page inventory.RawPage) (records []inventory.Record, totalMatches int, err error)
}

// Config controls page size and pacing.
type Config struct {
	// PageSize is the number of records requested per page.
	PageSize int `mapstructure:"page_size" default:"50"`
	// PageDelay is waited before every page after the first.
	PageDelay time.Duration `mapstructure:"page_delay" default:"5s"`
}

// WaitFunc blocks for d or until ctx is done.
type WaitFunc func(ctx context.Context, d time.Duration) error

// Paginator drives a Fetcher and Parser across all pages of a query.
type Paginator struct {
	fetcher  Fetcher
	parser   Parser
	pageSize int
	delay    time.Duration
	wait     WaitFunc
	logger   *zap.Logger
	tracer   trace.Tracer
}

// New creates a Paginator. A non-positive page size falls back to DefaultPageSize.
func New(fetcher Fetcher, parser Parser, cfg Config, logger *zap.Logger) *Paginator {
	pageSize := cfg.PageSize
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Paginator{
		fetcher:  fetcher,
		parser:   parser,
		pageSize: pageSize,
		delay:    cfg.PageDelay,
		wait:     Sleep,
		logger:   logger,
		tracer:   otel.Tracer("inventory-tracker/paginator"),
	}
}

// WithWait replaces the inter-page wait. Used by tests and dry runs.
func (p *Paginator) WithWait(wait WaitFunc) *Paginator {
	p.wait = wait
	return p
}

// PageSize returns the effective page size.
func (p *Paginator) PageSize() int {
	return p.pageSize
}

// cursor is the pagination state threaded through one FetchAll call.
type cursor struct {
	offset int
	total  int
	pages  int
}

// at returns the cursor for page k.
func (c cursor) at(k, pageSize int) cursor {
	c.offset = k * pageSize
	return c
}

// PagesNeeded returns ceil(total / pageSize).
func PagesNeeded(total, pageSize int) int {
	if total <= 0 || pageSize <= 0 {
		return 0
	}
	return (total + pageSize - 1) / pageSize
}

// FetchAll retrieves every page of q and returns the accumulated records.
func (p *Paginator) FetchAll(ctx context.Context, q inventory.Query) ([]inventory.Record, error) {
	ctx, span := p.tracer.Start(ctx, "paginator.fetch_all",
		trace.WithAttributes(attribute.Int("page.size", p.pageSize)),
	)
	defer span.End()

	records, err := p.fetchAll(ctx, q)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	span.SetAttributes(attribute.Int("records.fetched", len(records)))
	return records, nil
}

func (p *Paginator) fetchAll(ctx context.Context, q inventory.Query) ([]inventory.Record, error) {
	cur := cursor{}

	first, total, err := p.fetchPage(ctx, q, cur)
	if err != nil {
		return nil, err
	}
	if total < 0 {
		return nil, &inventory.ParseError{Offset: cur.offset, Err: fmt.Errorf("negative total match count %d", total)}
	}
	cur.total = total
	cur.pages = PagesNeeded(total, p.pageSize)

	p.logger.Debug("First page fetched",
		zap.Int("total_matches", cur.total),
		zap.Int("pages", cur.pages),
		zap.Int("records", len(first)),
	)

	// The total comes from the vendor, so capacity follows what was received.
	all := make([]inventory.Record, 0, len(first))
	all = append(all, first...)

	for k := 1; k < cur.pages; k++ {
		if err := p.wait(ctx, p.delay); err != nil {
			return nil, err
		}
		page := cur.at(k, p.pageSize)
		records, _, err := p.fetchPage(ctx, q, page)
		if err != nil {
			return nil, err
		}
		all = append(all, records...)
		p.logger.Debug("Page fetched",
			zap.Int("page", k+1),
			zap.Int("offset", page.offset),
			zap.Int("records", len(records)),
		)
	}

	return all, nil
}

// fetchPage fetches and parses one page, classifying failures.
func (p *Paginator) fetchPage(ctx context.Context, q inventory.Query, cur cursor) ([]inventory.Record, int, error) {
	if err := ctx.Err(); err != nil {
		return nil, 0, err
	}

	raw, err := p.fetcher.FetchPage(ctx, inventory.PageRequest{
		Query:    q,
		Offset:   cur.offset,
		PageSize: p.pageSize,
	})
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil && errors.Is(err, ctxErr) {
			return nil, 0, ctxErr
		}
		var te *inventory.TransportError
		if errors.As(err, &te) {
			return nil, 0, err
		}
		return nil, 0, &inventory.TransportError{Offset: cur.offset, Err: err}
	}
	raw.Offset = cur.offset

	records, total, err := p.parser.Parse(raw)
	if err != nil {
		var pe *inventory.ParseError
		if errors.As(err, &pe) {
			return nil, 0, err
		}
		return nil, 0, &inventory.ParseError{Offset: cur.offset, Err: err}
	}
	return records, total, nil
}

// Sleep waits for d, returning early with the context error if ctx is done.
func Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
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
