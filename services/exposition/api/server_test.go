package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/iulianpascalau/metrics-exposition/services/exposition/common"
	"github.com/iulianpascalau/metrics-exposition/services/exposition/storage"
	"github.com/iulianpascalau/metrics-exposition/services/exposition/testsCommon"
	"github.com/iulianpascalau/metrics-exposition/snapshot"
	"github.com/stretchr/testify/require"
)

// fullStorage adds the write operation the API interface does not need, so
// tests can seed the archive directly
type fullStorage interface {
	Storage
	SaveSnapshot(ctx context.Context, recordedAt int64, durationNs int64, format string, payload []byte) error
}

func setupTestServer(t *testing.T, metrics MetricsSource) (*server, fullStorage) {
	store, err := storage.NewSQLiteStorage(":memory:", 3600)
	require.NoError(t, err)

	args := ArgsWebServer{
		ServiceKeyApi:  "test-secret",
		ListenAddress:  ":0",
		Storage:        store,
		Metrics:        metrics,
		GeneralHandler: func(h http.Handler) http.Handler { return h },
	}

	serv, err := NewServer(args)
	require.NoError(t, err)

	return serv, store
}

func TestNewServer(t *testing.T) {
	t.Parallel()

	t.Run("nil storage should error", func(t *testing.T) {
		serv, err := NewServer(ArgsWebServer{
			Metrics:        &testsCommon.MetricsSourceStub{},
			GeneralHandler: func(h http.Handler) http.Handler { return h },
		})

		require.Nil(t, serv)
		require.Error(t, err)
	})
	t.Run("nil metrics source should error", func(t *testing.T) {
		store, err := storage.NewSQLiteStorage(":memory:", 3600)
		require.NoError(t, err)
		defer func() {
			_ = store.Close()
		}()

		serv, err := NewServer(ArgsWebServer{
			Storage:        store,
			GeneralHandler: func(h http.Handler) http.Handler { return h },
		})

		require.Nil(t, serv)
		require.Error(t, err)
	})
	t.Run("nil http handler should error", func(t *testing.T) {
		store, err := storage.NewSQLiteStorage(":memory:", 3600)
		require.NoError(t, err)
		defer func() {
			_ = store.Close()
		}()

		serv, err := NewServer(ArgsWebServer{
			Storage: store,
			Metrics: &testsCommon.MetricsSourceStub{},
		})

		require.Nil(t, serv)
		require.Error(t, err)
	})
}

func TestMetricsEndpoint(t *testing.T) {
	t.Run("no capture yet returns 503", func(t *testing.T) {
		serv, store := setupTestServer(t, &testsCommon.MetricsSourceStub{})
		defer func() {
			_ = store.Close()
		}()

		req, _ := http.NewRequest("GET", "/api/metrics", nil)
		w := httptest.NewRecorder()
		serv.router.ServeHTTP(w, req)
		require.Equal(t, http.StatusServiceUnavailable, w.Code)
	})
	t.Run("serves the hashed projection keyed by canonical name", func(t *testing.T) {
		durationNs := uint64(5 * time.Second)
		metrics := &testsCommon.MetricsSourceStub{
			LatestHashedHandler: func() *snapshot.HashedSnapshot {
				return &snapshot.HashedSnapshot{
					Ts:       1700000000000000000,
					Duration: &durationNs,
					Counters: map[string]snapshot.Counter{
						"cpu/busy": {Name: "m1", Value: 42},
					},
					Gauges: map[string]snapshot.Gauge{
						"runtime/goroutines": {Name: "rt_7", Value: 12},
					},
				}
			},
		}

		serv, store := setupTestServer(t, metrics)
		defer func() {
			_ = store.Close()
		}()

		req, _ := http.NewRequest("GET", "/api/metrics", nil)
		w := httptest.NewRecorder()
		serv.router.ServeHTTP(w, req)
		require.Equal(t, http.StatusOK, w.Code)

		var response MetricsResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		require.Equal(t, uint64(1700000000000000000), response.Timestamp)
		require.NotNil(t, response.DurationNs)
		require.Equal(t, durationNs, *response.DurationNs)
		require.Equal(t, uint64(42), response.Counters["cpu/busy"])
		require.Equal(t, int64(12), response.Gauges["runtime/goroutines"])
	})
}

func TestLatestSnapshotStatusCodes(t *testing.T) {
	t.Parallel()

	newServerWithStore := func(t *testing.T, store Storage) *server {
		serv, err := NewServer(ArgsWebServer{
			ServiceKeyApi:  "test-secret",
			ListenAddress:  ":0",
			Storage:        store,
			Metrics:        &testsCommon.MetricsSourceStub{},
			GeneralHandler: func(h http.Handler) http.Handler { return h },
		})
		require.NoError(t, err)

		return serv
	}

	t.Run("empty archive should return 404", func(t *testing.T) {
		serv := newServerWithStore(t, &testsCommon.StoreStub{
			GetLatestSnapshotHandler: func(ctx context.Context) (*common.StoredSnapshot, error) {
				return nil, storage.ErrNoSnapshot
			},
		})

		req, _ := http.NewRequest("GET", "/api/snapshot/latest", nil)
		w := httptest.NewRecorder()
		serv.router.ServeHTTP(w, req)
		require.Equal(t, http.StatusNotFound, w.Code)
	})
	t.Run("storage failure should return 500", func(t *testing.T) {
		serv := newServerWithStore(t, &testsCommon.StoreStub{
			GetLatestSnapshotHandler: func(ctx context.Context) (*common.StoredSnapshot, error) {
				return nil, errors.New("database is locked")
			},
		})

		req, _ := http.NewRequest("GET", "/api/snapshot/latest", nil)
		w := httptest.NewRecorder()
		serv.router.ServeHTTP(w, req)
		require.Equal(t, http.StatusInternalServerError, w.Code)
	})
}

func TestSnapshotEndpoints(t *testing.T) {
	serv, store := setupTestServer(t, &testsCommon.MetricsSourceStub{})
	defer func() {
		_ = store.Close()
	}()

	// Empty archive
	req, _ := http.NewRequest("GET", "/api/snapshot/latest", nil)
	w := httptest.NewRecorder()
	serv.router.ServeHTTP(w, req)
	require.Equal(t, http.StatusNotFound, w.Code)

	// Seed the archive
	now := time.Now().UnixNano()
	err := store.SaveSnapshot(context.Background(), now, int64(time.Second), "json", []byte(`{"systemtime":"2023-11-14T22:13:20Z","counters":[],"gauges":[],"histograms":[]}`+"\n"))
	require.NoError(t, err)

	// Latest serves the raw payload with the right content type
	req, _ = http.NewRequest("GET", "/api/snapshot/latest", nil)
	w = httptest.NewRecorder()
	serv.router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Header().Get("Content-Type"), "application/json")
	require.Equal(t, byte('\n'), w.Body.Bytes()[len(w.Body.Bytes())-1])

	// History honors the limit parameter
	req, _ = http.NewRequest("GET", "/api/snapshots?limit=10", nil)
	w = httptest.NewRecorder()
	serv.router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var historyResponse struct {
		Snapshots []struct {
			RecordedAt int64  `json:"recordedAt"`
			Format     string `json:"format"`
		} `json:"snapshots"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &historyResponse))
	require.Len(t, historyResponse.Snapshots, 1)
	require.Equal(t, now, historyResponse.Snapshots[0].RecordedAt)
	require.Equal(t, "json", historyResponse.Snapshots[0].Format)

	// Invalid limits are rejected
	req, _ = http.NewRequest("GET", "/api/snapshots?limit=0", nil)
	w = httptest.NewRecorder()
	serv.router.ServeHTTP(w, req)
	require.Equal(t, http.StatusBadRequest, w.Code)

	// Deletion requires the service key
	req, _ = http.NewRequest("DELETE", "/api/snapshots", nil)
	w = httptest.NewRecorder()
	serv.router.ServeHTTP(w, req)
	require.Equal(t, http.StatusUnauthorized, w.Code)

	req, _ = http.NewRequest("DELETE", "/api/snapshots", nil)
	req.Header.Set("X-Api-Key", "test-secret")
	w = httptest.NewRecorder()
	serv.router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	req, _ = http.NewRequest("GET", "/api/snapshot/latest", nil)
	w = httptest.NewRecorder()
	serv.router.ServeHTTP(w, req)
	require.Equal(t, http.StatusNotFound, w.Code)
}
