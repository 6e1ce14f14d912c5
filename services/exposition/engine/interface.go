package engine

import (
	"context"

	"github.com/iulianpascalau/metrics-exposition/snapshot"
)

// Snapshotter defines the interface for producing point-in-time snapshots
type Snapshotter interface {
	// Snapshot assembles a fresh snapshot from all configured providers
	Snapshot(ctx context.Context) *snapshot.Snapshot

	IsInterfaceNil() bool
}

// Storage defines the interface for archiving encoded snapshots
type Storage interface {
	// SaveSnapshot appends one encoded snapshot to the archive
	SaveSnapshot(ctx context.Context, recordedAt int64, durationNs int64, format string, payload []byte) error

	IsInterfaceNil() bool
}
