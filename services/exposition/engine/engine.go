package engine

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/iulianpascalau/metrics-exposition/services/exposition/common"
	"github.com/iulianpascalau/metrics-exposition/snapshot"
	"github.com/multiversx/mx-chain-core-go/core/check"
	logger "github.com/multiversx/mx-chain-logger-go"
)

var log = logger.GetOrCreate("engine")

// expositionEngine captures a snapshot per cycle, archives its encoding and
// keeps the canonical-name-keyed projection of the latest capture for serving
type expositionEngine struct {
	snapshotter Snapshotter
	storage     Storage
	format      string
	mutLatest   sync.RWMutex
	latest      *snapshot.HashedSnapshot
}

// NewExpositionEngine creates a new engine instance
func NewExpositionEngine(format string, snapshotterInstance Snapshotter, storageInstance Storage) (*expositionEngine, error) {
	if check.IfNil(snapshotterInstance) {
		return nil, errors.New("nil snapshotter")
	}
	if check.IfNil(storageInstance) {
		return nil, errors.New("nil storage")
	}
	if format != common.FormatJSON && format != common.FormatMsgpack {
		return nil, errors.New("unknown encoding format: " + format)
	}

	return &expositionEngine{
		snapshotter: snapshotterInstance,
		storage:     storageInstance,
		format:      format,
	}, nil
}

// Process captures one snapshot, encodes and archives it and refreshes the
// latest hashed projection. The snapshot is encoded before being projected:
// projection drains the record collections and spends the instance.
func (e *expositionEngine) Process(ctx context.Context) {
	snap := e.snapshotter.Snapshot(ctx)

	recordedAt := snap.Systemtime().UnixNano()
	durationNs := int64(0)
	duration, hasDuration := snap.Duration()
	if hasDuration {
		durationNs = duration.Nanoseconds()
	}

	payload, err := e.encode(snap)
	if err != nil {
		log.Warn("failed to encode snapshot, it will be discarded", "error", err)
		return
	}

	hashed := snapshot.NewHashedSnapshot(snap)

	saveCtx, cancelSave := context.WithTimeout(ctx, 10*time.Second)
	defer cancelSave()

	err = e.storage.SaveSnapshot(saveCtx, recordedAt, durationNs, e.format, payload)
	if err != nil {
		log.Warn("failed to archive snapshot, serving it from memory only", "error", err)
	}

	e.mutLatest.Lock()
	e.latest = hashed
	e.mutLatest.Unlock()

	log.Debug("processed snapshot",
		"recorded_at", recordedAt,
		"format", e.format,
		"payload_size", len(payload),
	)
}

func (e *expositionEngine) encode(snap *snapshot.Snapshot) ([]byte, error) {
	if e.format == common.FormatMsgpack {
		return snapshot.ToMsgpack(snap)
	}

	return snapshot.ToJSON(snap)
}

// LatestHashed returns the projection of the most recent capture, nil before
// the first Process call completes
func (e *expositionEngine) LatestHashed() *snapshot.HashedSnapshot {
	e.mutLatest.RLock()
	defer e.mutLatest.RUnlock()

	return e.latest
}

// IsInterfaceNil returns true if the value under the interface is nil
func (e *expositionEngine) IsInterfaceNil() bool {
	return e == nil
}
