package snapshotter

import (
	"context"
	"testing"
	"time"

	"github.com/iulianpascalau/metrics-exposition/services/exposition/common"
	"github.com/iulianpascalau/metrics-exposition/services/exposition/testsCommon"
	"github.com/iulianpascalau/metrics-exposition/snapshot"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSnapshotter(t *testing.T) {
	t.Parallel()

	t.Run("no providers should error", func(t *testing.T) {
		instance, err := NewSnapshotter(ArgsSnapshotter{})

		assert.Nil(t, instance)
		assert.True(t, instance.IsInterfaceNil())
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "no providers")
	})
	t.Run("nil provider should error", func(t *testing.T) {
		instance, err := NewSnapshotter(ArgsSnapshotter{
			Providers: []Provider{&testsCommon.ProviderStub{}, nil},
		})

		assert.Nil(t, instance)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "nil provider")
	})
	t.Run("should work", func(t *testing.T) {
		instance, err := NewSnapshotter(ArgsSnapshotter{
			Providers: []Provider{&testsCommon.ProviderStub{}},
		})

		assert.NotNil(t, instance)
		assert.False(t, instance.IsInterfaceNil())
		assert.Nil(t, err)
	})
}

func TestSnapshotter_Snapshot(t *testing.T) {
	t.Parallel()

	t.Run("merges readings from all providers into a V2 snapshot", func(t *testing.T) {
		provider1 := &testsCommon.ProviderStub{
			CollectHandler: func(ctx context.Context) common.Readings {
				return common.Readings{
					Counters: []snapshot.Counter{
						{Name: "c1", Value: 1},
					},
				}
			},
		}
		provider2 := &testsCommon.ProviderStub{
			CollectHandler: func(ctx context.Context) common.Readings {
				return common.Readings{
					Counters: []snapshot.Counter{
						{Name: "c2", Value: 2},
					},
					Gauges: []snapshot.Gauge{
						{Name: "g1", Value: -1},
					},
				}
			},
		}

		instance, err := NewSnapshotter(ArgsSnapshotter{
			Providers: []Provider{provider1, provider2},
			Metadata:  map[string]string{"source": "test"},
		})
		require.NoError(t, err)

		before := time.Now()
		snap := instance.Snapshot(context.Background())
		after := time.Now()

		systemtime := snap.Systemtime()
		assert.False(t, systemtime.Before(before))
		assert.False(t, systemtime.After(after))

		duration, hasDuration := snap.Duration()
		assert.True(t, hasDuration)
		assert.GreaterOrEqual(t, duration, time.Duration(0))

		assert.Equal(t, map[string]string{"source": "test"}, snap.Metadata())

		counters := snap.Counters()
		require.Len(t, counters, 2)
		assert.Equal(t, "c1", counters[0].Name)
		assert.Equal(t, "c2", counters[1].Name)

		assert.Len(t, snap.Gauges(), 1)
		assert.Empty(t, snap.Histograms())
	})
	t.Run("duration measures the gap between captures", func(t *testing.T) {
		instance, err := NewSnapshotter(ArgsSnapshotter{
			Providers: []Provider{&testsCommon.ProviderStub{}},
		})
		require.NoError(t, err)

		_ = instance.Snapshot(context.Background())
		time.Sleep(20 * time.Millisecond)
		snap := instance.Snapshot(context.Background())

		duration, hasDuration := snap.Duration()
		require.True(t, hasDuration)
		assert.GreaterOrEqual(t, duration, 20*time.Millisecond)
		assert.Less(t, duration, 5*time.Second)
	})
	t.Run("configured metadata is copied, not shared, between snapshots", func(t *testing.T) {
		instance, err := NewSnapshotter(ArgsSnapshotter{
			Providers: []Provider{&testsCommon.ProviderStub{}},
			Metadata:  map[string]string{"source": "test"},
		})
		require.NoError(t, err)

		first := instance.Snapshot(context.Background())
		firstMetadata := first.Metadata()
		firstMetadata["source"] = "mutated"

		second := instance.Snapshot(context.Background())
		assert.Equal(t, "test", second.Metadata()["source"])
	})
}
