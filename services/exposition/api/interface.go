package api

import (
	"context"

	"github.com/iulianpascalau/metrics-exposition/services/exposition/common"
	"github.com/iulianpascalau/metrics-exposition/snapshot"
)

// Storage defines the interface for querying the snapshot archive
type Storage interface {
	// GetLatestSnapshot fetches the most recently captured snapshot, payload included
	GetLatestSnapshot(ctx context.Context) (*common.StoredSnapshot, error)

	// GetSnapshotHistory returns up to limit archive rows, newest first, without payloads
	GetSnapshotHistory(ctx context.Context, limit int) ([]common.StoredSnapshot, error)

	// DeleteAllSnapshots empties the archive
	DeleteAllSnapshots(ctx context.Context) error

	// Close shuts down the database connection
	Close() error

	IsInterfaceNil() bool
}

// MetricsSource provides the hashed projection of the latest capture
type MetricsSource interface {
	// LatestHashed returns nil before the first capture completes
	LatestHashed() *snapshot.HashedSnapshot

	IsInterfaceNil() bool
}
