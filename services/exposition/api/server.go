package api

import (
	"context"
	"errors"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/iulianpascalau/metrics-exposition/histogram"
	"github.com/iulianpascalau/metrics-exposition/services/exposition/common"
	"github.com/iulianpascalau/metrics-exposition/services/exposition/storage"
	"github.com/multiversx/mx-chain-core-go/core/check"
	logger "github.com/multiversx/mx-chain-logger-go"
)

var log = logger.GetOrCreate("api")

const defaultHistoryLimit = 50
const maxHistoryLimit = 1000

// MetricsResponse is the payload of /api/metrics: the latest capture keyed by
// canonical metric name
type MetricsResponse struct {
	Timestamp  uint64                         `json:"timestamp"`
	DurationNs *uint64                        `json:"durationNs,omitempty"`
	Counters   map[string]uint64              `json:"counters"`
	Gauges     map[string]int64               `json:"gauges"`
	Histograms map[string]histogram.Histogram `json:"histograms"`
}

// ArgsWebServer defines the web server arguments
type ArgsWebServer struct {
	ServiceKeyApi  string
	ListenAddress  string
	Storage        Storage
	Metrics        MetricsSource
	GeneralHandler func(http.Handler) http.Handler
}

type server struct {
	router         *gin.Engine
	httpServer     *http.Server
	storage        Storage
	metrics        MetricsSource
	serviceKey     string
	listenAddr     string
	generalHandler func(http.Handler) http.Handler
	wg             sync.WaitGroup
}

// NewServer initializes the Gin engine and mounts all routes
func NewServer(args ArgsWebServer) (*server, error) {
	if check.IfNil(args.Storage) {
		return nil, errors.New("storage is required")
	}
	if check.IfNil(args.Metrics) {
		return nil, errors.New("metrics source is required")
	}
	if args.GeneralHandler == nil {
		return nil, errors.New("nil http handler")
	}

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()

	router.Use(gin.Recovery())

	s := &server{
		router:         router,
		storage:        args.Storage,
		metrics:        args.Metrics,
		serviceKey:     args.ServiceKeyApi,
		listenAddr:     args.ListenAddress,
		generalHandler: args.GeneralHandler,
	}

	s.setupRoutes()
	return s, nil
}

func (s *server) setupRoutes() {
	api := s.router.Group("/api")

	api.GET("/metrics", s.handleGetMetrics)
	api.GET("/snapshot/latest", s.handleLatestSnapshot)
	api.GET("/snapshots", s.handleSnapshotHistory)

	// Destructive operations require the service key
	api.DELETE("/snapshots", s.authAPIKey(), s.handleDeleteSnapshots)
}

// Start listens and serves connections
func (s *server) Start() {
	handler := s.generalHandler(s.router)

	s.httpServer = &http.Server{
		Addr:    s.listenAddr,
		Handler: handler,
	}

	ln, err := net.Listen("tcp", s.listenAddr)
	if err != nil {
		log.Error("failed to listen", "error", err)
		return
	}
	s.listenAddr = ln.Addr().String()

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		log.Info("starting HTTP server", "address", s.listenAddr)

		err := s.httpServer.Serve(ln)
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("http server failed", "error", err)
		}
	}()
}

// Address returns the actual listen address
func (s *server) Address() string {
	return s.listenAddr
}

// Close gracefully stops the server
func (s *server) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if s.httpServer != nil {
		if err := s.httpServer.Shutdown(ctx); err != nil {
			return err
		}
	}
	s.wg.Wait()
	return nil
}

// --- Middlewares ---

func (s *server) authAPIKey() gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.GetHeader("X-Api-Key")
		if key != s.serviceKey {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			c.Abort()
			return
		}
		c.Next()
	}
}

// CORSMiddleware allows browser dashboards on other origins to read the API
func CORSMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, X-Api-Key")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// --- Handlers ---

func (s *server) handleGetMetrics(c *gin.Context) {
	hashed := s.metrics.LatestHashed()
	if hashed == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "no snapshot captured yet"})
		return
	}

	response := MetricsResponse{
		Timestamp:  hashed.Ts,
		DurationNs: hashed.Duration,
		Counters:   make(map[string]uint64, len(hashed.Counters)),
		Gauges:     make(map[string]int64, len(hashed.Gauges)),
		Histograms: make(map[string]histogram.Histogram, len(hashed.Histograms)),
	}

	for name, record := range hashed.Counters {
		response.Counters[name] = record.Value
	}
	for name, record := range hashed.Gauges {
		response.Gauges[name] = record.Value
	}
	for name, record := range hashed.Histograms {
		response.Histograms[name] = record.Value
	}

	c.JSON(http.StatusOK, response)
}

func (s *server) handleLatestSnapshot(c *gin.Context) {
	stored, err := s.storage.GetLatestSnapshot(c.Request.Context())
	if errors.Is(err, storage.ErrNoSnapshot) {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	contentType := "application/json"
	if stored.Format == common.FormatMsgpack {
		contentType = "application/msgpack"
	}

	c.Header("X-Snapshot-Recorded-At", strconv.FormatInt(stored.RecordedAt, 10))
	c.Data(http.StatusOK, contentType, stored.Payload)
}

func (s *server) handleSnapshotHistory(c *gin.Context) {
	limit := defaultHistoryLimit
	rawLimit := c.Query("limit")
	if rawLimit != "" {
		parsed, err := strconv.Atoi(rawLimit)
		if err != nil || parsed < 1 || parsed > maxHistoryLimit {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid limit"})
			return
		}
		limit = parsed
	}

	history, err := s.storage.GetSnapshotHistory(c.Request.Context(), limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"snapshots": history})
}

func (s *server) handleDeleteSnapshots(c *gin.Context) {
	err := s.storage.DeleteAllSnapshots(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// IsInterfaceNil returns true if the value under the interface is nil
func (s *server) IsInterfaceNil() bool {
	return s == nil
}
