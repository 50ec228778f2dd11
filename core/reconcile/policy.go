package reconcile

import (
	"context"
	"fmt"
	"strings"

	"inventory-tracker/core/inventory"
)

// Metadata policy names accepted by PolicyByName.
const (
	PolicyFirstWriteWins = "first_write_wins"
	PolicyLastWriteWins  = "last_write_wins"
)

// MetadataPolicy decides how metadata of a re-observed item is written.
type MetadataPolicy interface {
	// Name returns the configuration name of the policy.
	Name() string

	// Write persists m through w.
	Write(ctx context.Context, w MetadataWriter, m inventory.Metadata) error
}

type firstWriteWins struct{}

func (firstWriteWins) Name() string { return PolicyFirstWriteWins }

func (firstWriteWins) Write(ctx context.Context, w MetadataWriter, m inventory.Metadata) error {
	return w.UpsertMetadata(ctx, m)
}

type lastWriteWins struct{}

func (lastWriteWins) Name() string { return PolicyLastWriteWins }

func (lastWriteWins) Write(ctx context.Context, w MetadataWriter, m inventory.Metadata) error {
	return w.OverwriteMetadata(ctx, m)
}

var (
	// FirstWriteWins never changes metadata once written.
	FirstWriteWins MetadataPolicy = firstWriteWins{}

	// LastWriteWins replaces metadata with the latest observation.
	LastWriteWins MetadataPolicy = lastWriteWins{}
)

// PolicyByName returns the policy for a configuration value.
// An empty name selects FirstWriteWins.
func PolicyByName(name string) (MetadataPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", PolicyFirstWriteWins:
		return FirstWriteWins, nil
	case PolicyLastWriteWins:
		return LastWriteWins, nil
	default:
		return nil, fmt.Errorf("unknown metadata policy %q", name)
	}
}
