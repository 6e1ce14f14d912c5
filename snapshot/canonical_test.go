package snapshot

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanonicalMetricName(t *testing.T) {
	t.Parallel()

	t.Run("no metric key returns the raw name unchanged", func(t *testing.T) {
		assert.Equal(t, "cpu.usage", CanonicalMetricName("cpu.usage", map[string]string{}))
		assert.Equal(t, "cpu.usage", CanonicalMetricName("cpu.usage", nil))
		assert.Equal(t, "cpu.usage", CanonicalMetricName("cpu.usage", map[string]string{
			"unit": "percent",
		}))
	})
	t.Run("metric key only yields the base name", func(t *testing.T) {
		assert.Equal(t, "cpu", CanonicalMetricName("m1", map[string]string{
			"metric": "cpu",
		}))
	})
	t.Run("dimension keys are appended in fixed order, id last", func(t *testing.T) {
		result := CanonicalMetricName("m123", map[string]string{
			"metric": "cpu",
			"op":     "busy",
			"state":  "user",
			"id":     "0",
		})
		assert.Equal(t, "cpu/busy/user/0", result)
	})
	t.Run("remaining keys are appended lexicographically, ignored keys skipped", func(t *testing.T) {
		result := CanonicalMetricName("m1", map[string]string{
			"metric":    "net",
			"direction": "rx",
			"unit":      "bytes",
			"iface":     "eth0",
		})
		assert.Equal(t, "net/rx/eth0", result)
	})
	t.Run("multiple remaining keys sort by key, not by value", func(t *testing.T) {
		result := CanonicalMetricName("m1", map[string]string{
			"metric": "disk",
			"op":     "read",
			"zone":   "a",
			"device": "sda",
		})
		// "device" < "zone", so "sda" comes before "a"
		assert.Equal(t, "disk/read/sda/a", result)
	})
	t.Run("bucket layout parameters never contribute segments", func(t *testing.T) {
		result := CanonicalMetricName("m77", map[string]string{
			"metric":          "latency",
			"grouping_power":  "7",
			"max_value_power": "64",
			"unit":            "nanoseconds",
			"id":              "3",
		})
		assert.Equal(t, "latency/3", result)
	})
	t.Run("deterministic across calls", func(t *testing.T) {
		metadata := map[string]string{
			"metric": "net",
			"op":     "tx",
			"queue":  "4",
			"iface":  "eth1",
			"id":     "1",
		}

		first := CanonicalMetricName("m9", metadata)
		for i := 0; i < 100; i++ {
			assert.Equal(t, first, CanonicalMetricName("m9", metadata))
		}
		assert.Equal(t, "net/tx/eth1/4/1", first)
	})
}
