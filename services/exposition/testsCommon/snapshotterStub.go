package testsCommon

import (
	"context"
	"time"

	"github.com/iulianpascalau/metrics-exposition/snapshot"
)

// SnapshotterStub -
type SnapshotterStub struct {
	SnapshotHandler func(ctx context.Context) *snapshot.Snapshot
}

// Snapshot -
func (stub *SnapshotterStub) Snapshot(ctx context.Context) *snapshot.Snapshot {
	if stub.SnapshotHandler != nil {
		return stub.SnapshotHandler(ctx)
	}

	return snapshot.NewSnapshotV2(snapshot.SnapshotV2{
		Systemtime: time.Now(),
	})
}

// IsInterfaceNil -
func (stub *SnapshotterStub) IsInterfaceNil() bool {
	return stub == nil
}
