package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/spec-kit/support-desk/internal/advisor"
	httptransport "github.com/spec-kit/support-desk/internal/api/http"
	"github.com/spec-kit/support-desk/internal/api/http/handlers"
	"github.com/spec-kit/support-desk/internal/config"
	"github.com/spec-kit/support-desk/internal/credential"
	"github.com/spec-kit/support-desk/internal/desk"
	"github.com/spec-kit/support-desk/internal/events"
	"github.com/spec-kit/support-desk/internal/observability"
	"github.com/spec-kit/support-desk/internal/persistence"
	"github.com/spec-kit/support-desk/internal/repository"
	"github.com/spec-kit/support-desk/internal/seed"
	"github.com/spec-kit/support-desk/internal/service"
	"github.com/spec-kit/support-desk/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger, cfg.App)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics := observability.NewMetrics(registry)

	backend, err := openMirrorBackend(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("failed to open mirror backend", zap.String("backend", cfg.Mirror.Backend), zap.Error(err))
	}
	defer backend.close()

	seedData, err := seed.Default(time.Now())
	if err != nil {
		logger.Fatal("failed to load seed board", zap.Error(err))
	}

	store := desk.NewStore(
		desk.WithColumns(seedData.Columns),
		desk.WithTags(seedData.Tags),
		desk.WithMembers(seedData.Team),
	)
	dispatcher := events.NewInMemoryDispatcher(logger)
	mirror := service.NewMirror(backend.mirror, logger, metrics)
	activity := service.NewActivityService(backend.activity, logger)

	ticketService := service.NewTicketService(service.TicketDependencies{
		Store:      store,
		Mirror:     mirror,
		Dispatcher: dispatcher,
		Activity:   activity,
		Metrics:    metrics,
		Logger:     logger,
	})
	ticketService.RegisterHandlers()
	defer ticketService.Close()

	boardService := service.NewBoardService(service.BoardDependencies{
		Store: store, Mirror: mirror, Dispatcher: dispatcher, Activity: activity, Metrics: metrics,
	})
	teamService := service.NewTeamService(service.TeamDependencies{
		Store: store, Mirror: mirror, Dispatcher: dispatcher, Activity: activity, Metrics: metrics,
	})
	settingsService := service.NewSettingsService(mirror, dispatcher, activity)
	inboundService := service.NewInboundService(store, mirror, dispatcher, logger)

	service.Bootstrap(ctx, store, mirror, settingsService, seedData.Tickets, cfg.Desk.SeedOnEmpty, logger)

	notificationService := service.NewNotificationService(dispatcher, logger, cfg.Notification)
	worker.StartNotificationWorker(notificationService)
	defer notificationService.Close()
	go worker.NewSLAWatcher(store, notificationService, logger, 0).Run(ctx)

	knowledgeBase := advisor.NewKnowledgeBase(cfg.Advisor.MaxDocs, cfg.Advisor.MaxChars)
	advisorService := service.NewAdvisorService(newAdvisorClient(cfg.Advisor, knowledgeBase, logger), logger, metrics)
	knowledgeService := service.NewKnowledgeService(knowledgeBase, activity, seedData.Scripts)

	app := fiber.New(fiber.Config{
		AppName:     cfg.App.Name,
		BodyLimit:   2 * service.MaxLogoBytes,
		ReadTimeout: cfg.App.RequestTimeout(),
		IdleTimeout: 2 * time.Minute,
	})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	eventsHandler := handlers.NewEventsHandler(dispatcher, logger)
	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:   handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, backend.pingers),
		Tickets:  handlers.NewTicketsHandler(ticketService, boardService),
		Board:    handlers.NewBoardHandler(boardService),
		Team:     handlers.NewTeamHandler(teamService),
		Settings: handlers.NewSettingsHandler(settingsService, inboundService),
		Advisor:  handlers.NewAdvisorHandler(advisorService, knowledgeService),
		Feed:     handlers.NewFeedHandler(notificationService, activity, service.NewDashboardService(store, nil), cfg.Desk.ActivityLogLimit),
		Events:   eventsHandler,
		Metrics:  promhttp.HandlerFor(registry, promhttp.HandlerOpts{Registry: registry}),
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	cancel()
	eventsHandler.Close()
	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		logger.Warn("shutdown incomplete", zap.Error(err))
	}
}

// mirrorBackend is the durable side of the desk for the selected backend.
type mirrorBackend struct {
	mirror   repository.MirrorRepository
	activity repository.ActivityRepository
	pingers  map[string]handlers.Pinger
	closers  []func()
}

func (b *mirrorBackend) close() {
	for i := len(b.closers) - 1; i >= 0; i-- {
		b.closers[i]()
	}
}

func openMirrorBackend(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*mirrorBackend, error) {
	backend := &mirrorBackend{
		activity: repository.NewMemoryActivityRepository(cfg.Desk.ActivityLogLimit),
		pingers:  map[string]handlers.Pinger{},
	}

	switch cfg.Mirror.Backend {
	case config.MirrorMemory:
		backend.mirror = repository.NewMemoryMirrorRepository()

	case config.MirrorPostgres:
		pg, err := persistence.OpenPostgres(ctx, cfg.Postgres, logger)
		if err != nil {
			return nil, err
		}
		backend.closers = append(backend.closers, pg.Close)
		if cfg.Postgres.RunMigrations {
			if err := pg.Migrate(ctx, logger); err != nil {
				pg.Close()
				return nil, err
			}
		}
		backend.mirror = repository.NewPostgresMirrorRepository(pg.Pool())
		backend.activity = repository.NewPostgresActivityRepository(pg.Pool())
		backend.pingers["postgres"] = pg

	case config.MirrorRedis:
		rdb, err := persistence.OpenRedis(ctx, cfg.Redis, logger)
		if err != nil {
			return nil, err
		}
		backend.closers = append(backend.closers, rdb.Close)
		backend.mirror = repository.NewRedisMirrorRepository(rdb.Client)
		backend.pingers["redis"] = rdb

	default:
		db, err := persistence.NewSQLite(cfg.Mirror.SQLitePath, logger)
		if err != nil {
			return nil, err
		}
		backend.closers = append(backend.closers, func() { _ = db.Close() })
		backend.mirror = repository.NewSQLiteMirrorRepository(db.DB)
		backend.pingers["sqlite"] = db
	}
	return backend, nil
}

// newAdvisorClient resolves the API key from config or the keyring. A
// client without a key fails every request with ErrNoCredential.
func newAdvisorClient(cfg config.AdvisorConfig, knowledge *advisor.KnowledgeBase, logger *zap.Logger) *advisor.Client {
	resolver := credential.NewResolver(nil)
	if cfg.APIKey == "" && cfg.UseKeyring {
		ring, err := credential.Open()
		if err != nil {
			logger.Warn("keyring unavailable", zap.Error(err))
		} else {
			resolver = credential.NewResolver(ring)
		}
	}
	key, err := resolver.AdvisorKey(cfg.APIKey)
	if err != nil {
		logger.Warn("advisor credential lookup failed", zap.Error(err))
	}
	if key == "" {
		logger.Warn("advisor API key not configured; advice requests will return null")
	}
	return advisor.NewClient(advisor.Config{
		APIKey:      key,
		Model:       cfg.Model,
		BaseURL:     cfg.BaseURL,
		Temperature: cfg.Temperature,
	}, knowledge)
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
