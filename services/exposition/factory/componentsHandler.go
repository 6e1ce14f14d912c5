package factory

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/iulianpascalau/metrics-exposition/commonGo"
	"github.com/iulianpascalau/metrics-exposition/services/exposition/api"
	"github.com/iulianpascalau/metrics-exposition/services/exposition/config"
	"github.com/iulianpascalau/metrics-exposition/services/exposition/engine"
	"github.com/iulianpascalau/metrics-exposition/services/exposition/provider"
	"github.com/iulianpascalau/metrics-exposition/services/exposition/snapshotter"
	"github.com/iulianpascalau/metrics-exposition/services/exposition/storage"
)

type componentsHandler struct {
	store           api.Storage
	engine          Engine
	server          Server
	mutCancel       sync.Mutex
	cancel          func()
	captureInterval time.Duration
}

// NewComponentsHandler creates and wires all service components
func NewComponentsHandler(
	sqlitePath string,
	serviceKeyApi string,
	cfg config.Config,
) (*componentsHandler, error) {
	if cfg.CaptureIntervalInSeconds == 0 {
		return nil, errors.New("invalid CaptureIntervalInSeconds, it should be greater than 0")
	}

	store, err := storage.NewSQLiteStorage(sqlitePath, cfg.RetentionSeconds)
	if err != nil {
		return nil, err
	}

	providers := []snapshotter.Provider{
		provider.NewRuntimeProvider(),
	}
	if len(cfg.Scrapes) > 0 {
		scrapeTimeout := time.Duration(cfg.ScrapeTimeoutInSeconds) * time.Second
		providers = append(providers, provider.NewHTTPProvider(cfg.Scrapes, scrapeTimeout))
	}

	metadata := make(map[string]string, len(cfg.Metadata)+1)
	for k, v := range cfg.Metadata {
		metadata[k] = v
	}
	metadata["source"] = cfg.Name

	snapshotterInstance, err := snapshotter.NewSnapshotter(snapshotter.ArgsSnapshotter{
		Providers: providers,
		Metadata:  metadata,
	})
	if err != nil {
		_ = store.Close()
		return nil, err
	}

	eng, err := engine.NewExpositionEngine(cfg.Format, snapshotterInstance, store)
	if err != nil {
		_ = store.Close()
		return nil, err
	}

	serverArgs := api.ArgsWebServer{
		ServiceKeyApi:  serviceKeyApi,
		ListenAddress:  cfg.ListenAddress,
		Storage:        store,
		Metrics:        eng,
		GeneralHandler: api.CORSMiddleware,
	}

	webServer, err := api.NewServer(serverArgs)
	if err != nil {
		_ = store.Close()
		return nil, err
	}

	return &componentsHandler{
		store:           store,
		engine:          eng,
		server:          webServer,
		captureInterval: time.Duration(cfg.CaptureIntervalInSeconds) * time.Second,
	}, nil
}

// GetStore returns the storage component
func (ch *componentsHandler) GetStore() api.Storage {
	return ch.store
}

// GetEngine returns the engine component
func (ch *componentsHandler) GetEngine() Engine {
	return ch.engine
}

// GetServer returns the server component
func (ch *componentsHandler) GetServer() Server {
	return ch.server
}

// Start starts the inner components
func (ch *componentsHandler) Start() {
	ch.mutCancel.Lock()
	defer ch.mutCancel.Unlock()

	if ch.cancel != nil {
		return
	}

	ch.server.Start()

	var ctx context.Context
	ctx, ch.cancel = context.WithCancel(context.Background())

	commonGo.CronJobStarter(ctx, ch.engine.Process, ch.captureInterval)
}

// Close closes the inner components
func (ch *componentsHandler) Close() {
	ch.mutCancel.Lock()
	defer ch.mutCancel.Unlock()

	if ch.cancel != nil {
		ch.cancel()
		ch.cancel = nil
	}

	_ = ch.server.Close()
	_ = ch.store.Close()
}
