package listing

import (
	"context"
	"fmt"

	"inventory-tracker/core/paginator"
	"inventory-tracker/core/storage"

	"go.uber.org/zap"
)

// Transport is a page fetcher that holds resources until closed.
type Transport interface {
	paginator.Fetcher
	Close() error
}

// Archive names the object store that receives or replays raw pages.
// A nil Client disables archiving.
type Archive struct {
	Client storage.Client
	Bucket string
}

// Open builds the transport selected by cfg.Kind. With an archive client,
// live transports store every page they fetch.
func Open(ctx context.Context, cfg Config, archive Archive, logger *zap.Logger) (Transport, error) {
	var live Transport

	switch cfg.Kind {
	case KindHTTP, "":
		live = NewHTTPFetcher(cfg, logger)
	case KindBrowser:
		live = NewBrowserFetcher(cfg, logger)
	case KindReplay:
		if archive.Client == nil {
			return nil, fmt.Errorf("replay transport requires object storage")
		}
		replay, err := NewReplayFetcher(ctx, archive.Client, archive.Bucket, cfg.ReplayPrefix)
		if err != nil {
			return nil, err
		}
		return replay, nil
	default:
		return nil, fmt.Errorf("unknown transport %q", cfg.Kind)
	}

	if archive.Client != nil {
		return NewArchivingFetcher(live, archive.Client, archive.Bucket, logger), nil
	}
	return live, nil
}
