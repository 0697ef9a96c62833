package internal

import (
	"context"
	"fmt"
	"sync"

	"github.com/vidgrab/vidgrab/internal/api"
	"github.com/vidgrab/vidgrab/internal/extractor"
	"github.com/vidgrab/vidgrab/internal/retention"
	"github.com/vidgrab/vidgrab/internal/store"
	"github.com/vidgrab/vidgrab/pkg/logger"
)

var log = logger.Get("Core")

type (
	RunnableService interface {
		Run(context.Context) error
	}
)

// vidgrabImpl represents the top-level object for the server, and is
// responsible for initialising the artifact store, the extraction
// gateway, and the long-running services built on them.
type vidgrabImpl struct {
	config        AppConfig
	artifactStore *store.Store

	restGateway RunnableService
	sweeper     RunnableService
}

func New(config AppConfig) (*vidgrabImpl, error) {
	log.Emit(logger.DEBUG, "Bootstrapping vidgrab services using config: %#v\n", config)

	artifactStore, err := store.New(config.getDownloadDir())
	if err != nil {
		return nil, fmt.Errorf("failed to construct artifact store: %w", err)
	}

	gateway := extractor.New(extractor.Config{BinPath: config.YtDlpBinPath})

	return &vidgrabImpl{
		config:        config,
		artifactStore: artifactStore,
		restGateway:   api.NewRestGateway(&config.Rest, gateway, artifactStore),
		sweeper: retention.New(retention.Config{
			TTL:      config.FileTTL(),
			Interval: config.SweepInterval(),
		}, artifactStore),
	}, nil
}

// Run brings up the retention sweeper and the REST gateway and does
// not return until both have stopped. To stop the server, the
// provided context must be cancelled; a crash of either service also
// brings the other down.
func (app *vidgrabImpl) Run(parent context.Context) error {
	ctx, cancel := context.WithCancel(parent)
	crashHandler := func(label string, err error) {
		log.Emit(logger.FATAL, "Service crash (%s)! %s\n", label, err.Error())
		cancel()
	}

	wg := &sync.WaitGroup{}
	app.spawnAsyncService(ctx, wg, app.sweeper, "retention-sweeper", crashHandler)
	app.spawnAsyncService(ctx, wg, app.restGateway, "rest-gateway", crashHandler)
	log.Emit(logger.SUCCESS, "vidgrab services spawned!\n")

	wg.Wait()
	return nil
}

// spawnAsyncService will run the provided service as its own
// go-routine, ensuring that the service waitgroup is updated correctly.
func (app *vidgrabImpl) spawnAsyncService(context context.Context, wg *sync.WaitGroup, service RunnableService, serviceLabel string, crashHandler func(string, error)) {
	log.Emit(logger.NEW, "Spawning %s\n", serviceLabel)
	wg.Add(1)

	go func(wg *sync.WaitGroup, label string, crash func(string, error)) {
		defer func() {
			if r := recover(); r != nil {
				crash(label, fmt.Errorf("panic %v", r))
			}
		}()

		defer wg.Done()
		if err := service.Run(context); err != nil {
			crash(label, err)
		}
	}(wg, serviceLabel, crashHandler)
}
