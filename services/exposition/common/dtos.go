package common

import "github.com/iulianpascalau/metrics-exposition/snapshot"

// Readings holds one provider collection pass, partitioned by metric kind
type Readings struct {
	Counters   []snapshot.Counter
	Gauges     []snapshot.Gauge
	Histograms []snapshot.Histogram
}

// Append merges another set of readings into this one
func (r *Readings) Append(other Readings) {
	r.Counters = append(r.Counters, other.Counters...)
	r.Gauges = append(r.Gauges, other.Gauges...)
	r.Histograms = append(r.Histograms, other.Histograms...)
}

// StoredSnapshot is one archived snapshot row: the encoded payload plus the
// columns needed to list and serve it without decoding
type StoredSnapshot struct {
	ID         int64  `json:"id"`
	RecordedAt int64  `json:"recordedAt"`
	DurationNs int64  `json:"durationNs"`
	Format     string `json:"format"`
	Payload    []byte `json:"payload,omitempty"`
}

// Encoding format identifiers accepted in the config and stored alongside payloads
const (
	FormatJSON    = "json"
	FormatMsgpack = "msgpack"
)
