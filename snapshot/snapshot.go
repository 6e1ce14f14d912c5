package snapshot

import (
	"time"

	"github.com/iulianpascalau/metrics-exposition/histogram"
)

// Counter is a single monotonic counter reading together with its metadata
type Counter struct {
	Name     string            `json:"name" msgpack:"name"`
	Value    uint64            `json:"value" msgpack:"value"`
	Metadata map[string]string `json:"metadata" msgpack:"metadata"`
}

// Gauge is a single instantaneous level reading, possibly negative
type Gauge struct {
	Name     string            `json:"name" msgpack:"name"`
	Value    int64             `json:"value" msgpack:"value"`
	Metadata map[string]string `json:"metadata" msgpack:"metadata"`
}

// Histogram is a single bucketed distribution reading
type Histogram struct {
	Name     string              `json:"name" msgpack:"name"`
	Value    histogram.Histogram `json:"value" msgpack:"value"`
	Metadata map[string]string   `json:"metadata" msgpack:"metadata"`
}

// SnapshotV1 holds a point-in-time set of metric readings. This schema
// predates duration tracking and is kept for wire compatibility with old
// producers.
type SnapshotV1 struct {
	Systemtime time.Time         `json:"systemtime" msgpack:"systemtime"`
	Metadata   map[string]string `json:"metadata,omitempty" msgpack:"metadata,omitempty"`
	Counters   []Counter         `json:"counters" msgpack:"counters"`
	Gauges     []Gauge           `json:"gauges" msgpack:"gauges"`
	Histograms []Histogram       `json:"histograms" msgpack:"histograms"`
}

// SnapshotV2 is the current schema: SnapshotV1 plus the elapsed time since
// the previous capture, which lets consumers compute rates.
type SnapshotV2 struct {
	Systemtime time.Time         `json:"systemtime" msgpack:"systemtime"`
	Duration   time.Duration     `json:"duration" msgpack:"duration"`
	Metadata   map[string]string `json:"metadata,omitempty" msgpack:"metadata,omitempty"`
	Counters   []Counter         `json:"counters" msgpack:"counters"`
	Gauges     []Gauge           `json:"gauges" msgpack:"gauges"`
	Histograms []Histogram       `json:"histograms" msgpack:"histograms"`
}

// Snapshot is the externally visible capture type, holding either a V1 or a
// V2 schema. It is serialized without a discriminant tag: decoders infer the
// variant from the presence of the duration field.
//
// The Metadata, Counters, Gauges and Histograms accessors drain the
// underlying field: the first call returns the contents and empties the
// field, any further call returns an empty result. This is a deliberate
// move-out design that avoids duplicating potentially large collections
// during projection or encoding. Callers needing more than one pass must
// extract everything they need before discarding the value.
type Snapshot struct {
	v1 *SnapshotV1
	v2 *SnapshotV2
}

// NewSnapshotV1 wraps a V1 schema instance
func NewSnapshotV1(s SnapshotV1) *Snapshot {
	return &Snapshot{v1: &s}
}

// NewSnapshotV2 wraps a V2 schema instance
func NewSnapshotV2(s SnapshotV2) *Snapshot {
	return &Snapshot{v2: &s}
}

// Systemtime returns the capture instant. Non-destructive.
func (s *Snapshot) Systemtime() time.Time {
	if s.v2 != nil {
		return s.v2.Systemtime
	}

	return s.v1.Systemtime
}

// Duration returns the elapsed time since the previous capture and true for
// a V2 snapshot. V1 snapshots carry no duration at all, so the second return
// is false: "not recorded" is distinct from a zero duration. Non-destructive.
func (s *Snapshot) Duration() (time.Duration, bool) {
	if s.v2 != nil {
		return s.v2.Duration, true
	}

	return 0, false
}

// Metadata drains and returns the top-level metadata. Returns an empty map
// on any call after the first.
func (s *Snapshot) Metadata() map[string]string {
	var m map[string]string
	if s.v2 != nil {
		m, s.v2.Metadata = s.v2.Metadata, nil
	} else {
		m, s.v1.Metadata = s.v1.Metadata, nil
	}

	if m == nil {
		m = make(map[string]string)
	}

	return m
}

// Counters drains and returns the counter readings. Empty after the first call.
func (s *Snapshot) Counters() []Counter {
	var c []Counter
	if s.v2 != nil {
		c, s.v2.Counters = s.v2.Counters, nil
	} else {
		c, s.v1.Counters = s.v1.Counters, nil
	}

	return c
}

// Gauges drains and returns the gauge readings. Empty after the first call.
func (s *Snapshot) Gauges() []Gauge {
	var g []Gauge
	if s.v2 != nil {
		g, s.v2.Gauges = s.v2.Gauges, nil
	} else {
		g, s.v1.Gauges = s.v1.Gauges, nil
	}

	return g
}

// Histograms drains and returns the histogram readings. Empty after the first call.
func (s *Snapshot) Histograms() []Histogram {
	var h []Histogram
	if s.v2 != nil {
		h, s.v2.Histograms = s.v2.Histograms, nil
	} else {
		h, s.v1.Histograms = s.v1.Histograms, nil
	}

	return h
}
