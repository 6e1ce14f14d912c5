package histogram

// Histogram is an opaque, pre-bucketed distribution as produced by an external
// metrics provider. The bucket layout is fully described by the two power
// parameters, so two histograms with the same parameters are directly
// comparable bucket by bucket. This package does not interpret the buckets.
type Histogram struct {
	GroupingPower uint8    `json:"grouping_power" msgpack:"grouping_power"`
	MaxValuePower uint8    `json:"max_value_power" msgpack:"max_value_power"`
	Buckets       []uint64 `json:"buckets" msgpack:"buckets"`
}

// New creates a histogram value from an already-bucketed distribution
func New(groupingPower uint8, maxValuePower uint8, buckets []uint64) Histogram {
	return Histogram{
		GroupingPower: groupingPower,
		MaxValuePower: maxValuePower,
		Buckets:       buckets,
	}
}
