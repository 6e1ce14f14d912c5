package snapshotter

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

var log = logger.GetOrCreate("snapshotter")

// ArgsSnapshotter defines the snapshotter arguments
type ArgsSnapshotter struct {
	Providers []Provider
	Metadata  map[string]string
}

// snapshotter assembles provider readings into versioned snapshots
type snapshotter struct {
	providers   []Provider
	metadata    map[string]string
	mutLastTime sync.Mutex
	lastTime    time.Time
}

// NewSnapshotter creates a new snapshotter instance. The duration of the
// first produced snapshot is measured from this call.
func NewSnapshotter(args ArgsSnapshotter) (*snapshotter, error) {
	if len(args.Providers) == 0 {
		return nil, errors.New("no providers")
	}
	for _, p := range args.Providers {
		if check.IfNil(p) {
			return nil, errors.New("nil provider")
		}
	}

	return &snapshotter{
		providers: args.Providers,
		metadata:  args.Metadata,
		lastTime:  time.Now(),
	}, nil
}

// Snapshot collects readings from all providers and assembles a current-schema
// snapshot carrying the configured metadata, the capture time and the elapsed
// time since the previous capture
func (s *snapshotter) Snapshot(ctx context.Context) *snapshot.Snapshot {
	now := time.Now()

	s.mutLastTime.Lock()
	elapsed := now.Sub(s.lastTime)
	s.lastTime = now
	s.mutLastTime.Unlock()

	readings := common.Readings{}
	for _, p := range s.providers {
		readings.Append(p.Collect(ctx))
	}

	log.Debug("assembled snapshot",
		"counters", len(readings.Counters),
		"gauges", len(readings.Gauges),
		"histograms", len(readings.Histograms),
		"elapsed", elapsed,
	)

	metadata := make(map[string]string, len(s.metadata))
	for k, v := range s.metadata {
		metadata[k] = v
	}

	return snapshot.NewSnapshotV2(snapshot.SnapshotV2{
		Systemtime: now,
		Duration:   elapsed,
		Metadata:   metadata,
		Counters:   readings.Counters,
		Gauges:     readings.Gauges,
		Histograms: readings.Histograms,
	})
}

// IsInterfaceNil returns true if the value under the interface is nil
func (s *snapshotter) IsInterfaceNil() bool {
	return s == nil
}
