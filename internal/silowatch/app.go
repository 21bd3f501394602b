package silowatch

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/silowatch/silowatch/internal/config"
	"github.com/silowatch/silowatch/internal/conversation"
	"github.com/silowatch/silowatch/internal/httpapi"
	"github.com/silowatch/silowatch/internal/ingest"
	"github.com/silowatch/silowatch/internal/management"
	"github.com/silowatch/silowatch/internal/models"
	"github.com/silowatch/silowatch/internal/notifier"
	"github.com/silowatch/silowatch/internal/positions"
	"github.com/silowatch/silowatch/internal/repository"
	"github.com/silowatch/silowatch/internal/telegram"
	"github.com/silowatch/silowatch/pkg/logger"
)

// App wires the whole service together: the subscription store, the bot with
// its wizard machines, the update ingestion pipeline and the operational API.
type App struct {
	logger *logger.Logger
	config *config.Config

	store    models.SubscriptionStore
	bot      *telegram.Service
	pipeline *ingest.Pipeline
	listener *ingest.Listener
	api      *httpapi.HTTPServer
}

// NewApp builds all components from the configuration.
func NewApp(cfg *config.Config, log *logger.Logger) (*App, error) {
	store, err := repository.NewPostgresDB(cfg.PostgresDSN(), log)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %s", err)
	}
	if pg, ok := store.(*repository.PostgresDB); ok {
		if err := pg.EnsureTrigger(cfg.ListenChannel); err != nil {
			// The indexer schema may live in another database; the webhook
			// endpoint still works without the trigger.
			log.Warn("Failed to install notify trigger ", "error ", err)
		}
	}

	lookup := positions.NewClient(cfg.PositionsAPIURL, log)
	conv := conversation.NewMachine(store, lookup, log)
	mgmt := management.NewMachine(store, log)

	bot, err := telegram.NewService(cfg.TelegramBotToken, conv, mgmt, log)
	if err != nil {
		return nil, err
	}

	matcher := notifier.NewMatcher(store, log)
	dispatcher := notifier.NewDispatcher(store, bot.Messenger(),
		time.Duration(cfg.SendTimeoutSeconds)*time.Second, log)
	service := notifier.NewService(matcher, dispatcher, log)

	pipeline := ingest.NewPipeline(cfg.IngestWorkers, service.HandleUpdate, log)
	listener := ingest.NewListener(cfg.PostgresDSN(), cfg.ListenChannel, pipeline, log)
	api := httpapi.NewHTTPServer(store, pipeline, cfg.APIPort, log)

	return &App{
		logger:   log,
		config:   cfg,
		store:    store,
		bot:      bot,
		pipeline: pipeline,
		listener: listener,
		api:      api,
	}, nil
}

// Run starts all components and blocks until the context is canceled, then
// shuts everything down in order.
func (a *App) Run(ctx context.Context) error {
	a.pipeline.Start(ctx)
	go a.api.Start()

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		a.bot.Start(ctx)
	}()
	go func() {
		defer wg.Done()
		if err := a.listener.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			a.logger.Error("Listener stopped ", "error ", err)
		}
	}()

	<-ctx.Done()
	a.logger.Info("Shutting down...")

	wg.Wait()
	a.pipeline.Stop()

	if err := a.api.Shutdown(); err != nil {
		a.logger.Error("Failed to shut down HTTP server ", "error ", err)
	}
	if err := a.store.Close(); err != nil {
		a.logger.Error("Failed to close database ", "error ", err)
	}

	a.logger.Info("Shutdown complete")
	return nil
}
