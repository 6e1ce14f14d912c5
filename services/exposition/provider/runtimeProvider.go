package provider

import (
	"context"
	"runtime"

	"github.com/iulianpascalau/metrics-exposition/services/exposition/common"
	"github.com/iulianpascalau/metrics-exposition/snapshot"
)

type runtimeProvider struct{}

// NewRuntimeProvider creates a provider that samples the Go runtime of this
// process. It emits opaque raw names and reconstructs identities from
// metadata, the same naming scheme new-style external producers use.
func NewRuntimeProvider() *runtimeProvider {
	return &runtimeProvider{}
}

// Collect reads the runtime memory statistics and goroutine count
func (p *runtimeProvider) Collect(_ context.Context) common.Readings {
	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)

	counters := []snapshot.Counter{
		{
			Name:     "rt_0",
			Value:    memStats.TotalAlloc,
			Metadata: map[string]string{"metric": "memory", "op": "alloc", "unit": "bytes"},
		},
		{
			Name:     "rt_1",
			Value:    memStats.Mallocs,
			Metadata: map[string]string{"metric": "memory", "op": "malloc"},
		},
		{
			Name:     "rt_2",
			Value:    memStats.Frees,
			Metadata: map[string]string{"metric": "memory", "op": "free"},
		},
		{
			Name:     "rt_3",
			Value:    uint64(memStats.NumGC),
			Metadata: map[string]string{"metric": "gc", "op": "cycle"},
		},
		{
			Name:     "rt_4",
			Value:    memStats.PauseTotalNs,
			Metadata: map[string]string{"metric": "gc", "op": "pause", "unit": "nanoseconds"},
		},
	}

	gauges := []snapshot.Gauge{
		{
			Name:     "rt_5",
			Value:    int64(memStats.HeapAlloc),
			Metadata: map[string]string{"metric": "memory", "state": "heap", "unit": "bytes"},
		},
		{
			Name:     "rt_6",
			Value:    int64(memStats.HeapObjects),
			Metadata: map[string]string{"metric": "memory", "name": "objects", "state": "heap"},
		},
		{
			Name:     "rt_7",
			Value:    int64(runtime.NumGoroutine()),
			Metadata: map[string]string{"metric": "runtime", "name": "goroutines"},
		},
	}

	return common.Readings{
		Counters: counters,
		Gauges:   gauges,
	}
}

// IsInterfaceNil returns true if the value under the interface is nil
func (p *runtimeProvider) IsInterfaceNil() bool {
	return p == nil
}
