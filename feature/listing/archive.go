package listing

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"
	"time"

	"inventory-tracker/core/inventory"
	"inventory-tracker/core/paginator"
	"inventory-tracker/core/storage"

	"github.com/minio/minio-go/v7"
	"go.uber.org/zap"
)

// archiveRoot is the object prefix under which every cycle is stored.
const archiveRoot = "cycles/"

// PageKey returns the object name of the page at offset within a cycle prefix.
func PageKey(prefix string, offset int) string {
	return fmt.Sprintf("%soffset-%06d.json", prefix, offset)
}

// ArchivingFetcher stores every page it fetches in object storage before
// returning it. A page at offset 0 starts a new cycle prefix.
type ArchivingFetcher struct {
	next   paginator.Fetcher
	client storage.Client
	bucket string
	now    func() time.Time
	logger *zap.Logger

	mu     sync.Mutex
	prefix string
}

// NewArchivingFetcher wraps next.
func NewArchivingFetcher(next paginator.Fetcher, client storage.Client, bucket string, logger *zap.Logger) *ArchivingFetcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ArchivingFetcher{
		next:   next,
		client: client,
		bucket: bucket,
		now:    time.Now,
		logger: logger,
	}
}

// FetchPage fetches through the wrapped fetcher and archives the result.
// Archive failures are logged and never fail the fetch.
func (a *ArchivingFetcher) FetchPage(ctx context.Context, req inventory.PageRequest) (inventory.RawPage, error) {
	page, err := a.next.FetchPage(ctx, req)
	if err != nil {
		return page, err
	}

	key := PageKey(a.cyclePrefix(req.Offset), req.Offset)
	_, err = a.client.PutObject(ctx, a.bucket, key, bytes.NewReader(page.Body), int64(len(page.Body)), minio.PutObjectOptions{
		ContentType: "application/json",
	})
	if err != nil {
		a.logger.Warn("Failed to archive page",
			zap.String("object", key),
			zap.Int("offset", req.Offset),
			zap.Error(err),
		)
	}
	return page, nil
}

func (a *ArchivingFetcher) cyclePrefix(offset int) string {
	a.mu.Lock()
	defer a.mu.Unlock()
	if offset == 0 || a.prefix == "" {
		a.prefix = archiveRoot + a.now().UTC().Format("20060102T150405Z") + "/"
	}
	return a.prefix
}

// Close closes the wrapped fetcher when it has a Close method.
func (a *ArchivingFetcher) Close() error {
	if c, ok := a.next.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

// ReplayFetcher serves pages from an archived cycle instead of the vendor.
type ReplayFetcher struct {
	client storage.Client
	bucket string
	prefix string
}

// NewReplayFetcher replays the archived cycle under prefix. An empty prefix
// selects the most recent archived cycle.
func NewReplayFetcher(ctx context.Context, client storage.Client, bucket, prefix string) (*ReplayFetcher, error) {
	if prefix == "" {
		latest, err := LatestCycle(ctx, client, bucket)
		if err != nil {
			return nil, err
		}
		prefix = latest
	}
	if !strings.HasSuffix(prefix, "/") {
		prefix += "/"
	}
	return &ReplayFetcher{client: client, bucket: bucket, prefix: prefix}, nil
}

// Prefix returns the cycle being replayed.
func (r *ReplayFetcher) Prefix() string {
	return r.prefix
}

// FetchPage reads the archived page at req.Offset.
func (r *ReplayFetcher) FetchPage(ctx context.Context, req inventory.PageRequest) (inventory.RawPage, error) {
	key := PageKey(r.prefix, req.Offset)
	obj, err := r.client.GetObject(ctx, r.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return inventory.RawPage{}, fmt.Errorf("open %s: %w", key, err)
	}
	defer obj.Close()

	body, err := io.ReadAll(io.LimitReader(obj, maxPageBytes))
	if err != nil {
		return inventory.RawPage{}, fmt.Errorf("read %s: %w", key, err)
	}
	return inventory.RawPage{Offset: req.Offset, Body: body, ContentType: "application/json"}, nil
}

// Close is a no-op.
func (r *ReplayFetcher) Close() error {
	return nil
}

// LatestCycle returns the prefix of the newest archived cycle.
func LatestCycle(ctx context.Context, client storage.Client, bucket string) (string, error) {
	var prefixes []string
	for obj := range client.ListObjects(ctx, bucket, minio.ListObjectsOptions{Prefix: archiveRoot}) {
		if obj.Err != nil {
			return "", fmt.Errorf("list archived cycles: %w", obj.Err)
		}
		if strings.HasSuffix(obj.Key, "/") {
			prefixes = append(prefixes, obj.Key)
		}
	}
	if len(prefixes) == 0 {
		return "", fmt.Errorf("no archived cycles in bucket %s", bucket)
	}
	// Prefix timestamps sort lexically.
	sort.Strings(prefixes)
	return prefixes[len(prefixes)-1], nil
}
