package testsCommon

import (
	"context"

	"github.com/iulianpascalau/metrics-exposition/services/exposition/common"
)

// StoreStub -
type StoreStub struct {
	SaveSnapshotHandler       func(ctx context.Context, recordedAt int64, durationNs int64, format string, payload []byte) error
	GetLatestSnapshotHandler  func(ctx context.Context) (*common.StoredSnapshot, error)
	GetSnapshotHistoryHandler func(ctx context.Context, limit int) ([]common.StoredSnapshot, error)
	DeleteAllSnapshotsHandler func(ctx context.Context) error
	CloseHandler              func() error
}

// SaveSnapshot -
func (stub *StoreStub) SaveSnapshot(ctx context.Context, recordedAt int64, durationNs int64, format string, payload []byte) error {
	if stub.SaveSnapshotHandler != nil {
		return stub.SaveSnapshotHandler(ctx, recordedAt, durationNs, format, payload)
	}

	return nil
}

// GetLatestSnapshot -
func (stub *StoreStub) GetLatestSnapshot(ctx context.Context) (*common.StoredSnapshot, error) {
	if stub.GetLatestSnapshotHandler != nil {
		return stub.GetLatestSnapshotHandler(ctx)
	}

	return &common.StoredSnapshot{}, nil
}

// GetSnapshotHistory -
func (stub *StoreStub) GetSnapshotHistory(ctx context.Context, limit int) ([]common.StoredSnapshot, error) {
	if stub.GetSnapshotHistoryHandler != nil {
		return stub.GetSnapshotHistoryHandler(ctx, limit)
	}

	return nil, nil
}

// DeleteAllSnapshots -
func (stub *StoreStub) DeleteAllSnapshots(ctx context.Context) error {
	if stub.DeleteAllSnapshotsHandler != nil {
		return stub.DeleteAllSnapshotsHandler(ctx)
	}

	return nil
}

// Close -
func (stub *StoreStub) Close() error {
	if stub.CloseHandler != nil {
		return stub.CloseHandler()
	}

	return nil
}

// IsInterfaceNil -
func (stub *StoreStub) IsInterfaceNil() bool {
	return stub == nil
}
