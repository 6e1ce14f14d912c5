package snapshot

import "time"

// HashedSnapshot re-keys every record collection of a snapshot by canonical
// metric name for O(1) lookup. When two records canonicalize to the same
// name the later one in input order wins; this aliasing is intentional.
type HashedSnapshot struct {
	Ts         uint64
	Duration   *uint64
	Counters   map[string]Counter
	Gauges     map[string]Gauge
	Histograms map[string]Histogram
}

// NewHashedSnapshot builds the projection by draining the given snapshot:
// the source must be treated as spent afterwards. Panics if the capture time
// predates the Unix epoch, which can only mean a corrupted or misconfigured
// system clock.
func NewHashedSnapshot(snap *Snapshot) *HashedSnapshot {
	systemtime := snap.Systemtime()
	if systemtime.Before(time.Unix(0, 0)) {
		panic("system clock is earlier than 1970, needs reset")
	}

	ts := uint64(systemtime.UnixNano())

	var durationNanos *uint64
	duration, hasDuration := snap.Duration()
	if hasDuration {
		nanos := uint64(duration.Nanoseconds())
		durationNanos = &nanos
	}

	counters := make(map[string]Counter)
	for _, record := range snap.Counters() {
		counters[CanonicalMetricName(record.Name, record.Metadata)] = record
	}

	gauges := make(map[string]Gauge)
	for _, record := range snap.Gauges() {
		gauges[CanonicalMetricName(record.Name, record.Metadata)] = record
	}

	histograms := make(map[string]Histogram)
	for _, record := range snap.Histograms() {
		histograms[CanonicalMetricName(record.Name, record.Metadata)] = record
	}

	return &HashedSnapshot{
		Ts:         ts,
		Duration:   durationNanos,
		Counters:   counters,
		Gauges:     gauges,
		Histograms: histograms,
	}
}
