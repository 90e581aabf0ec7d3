package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/coaching-service/internal/api/http"
	"github.com/spec-kit/coaching-service/internal/api/http/handlers"
	"github.com/spec-kit/coaching-service/internal/auth"
	"github.com/spec-kit/coaching-service/internal/cache"
	"github.com/spec-kit/coaching-service/internal/config"
	"github.com/spec-kit/coaching-service/internal/domain"
	"github.com/spec-kit/coaching-service/internal/events"
	"github.com/spec-kit/coaching-service/internal/matching"
	"github.com/spec-kit/coaching-service/internal/observability"
	"github.com/spec-kit/coaching-service/internal/persistence"
	"github.com/spec-kit/coaching-service/internal/repository"
	"github.com/spec-kit/coaching-service/internal/service"
	"github.com/spec-kit/coaching-service/internal/worker"
)

const migrationsDir = "migrations"

// repositories groups the storage backends chosen at startup.
type repositories struct {
	coaches        repository.CoachRepository
	requests       repository.CoachingRequestRepository
	sessions       repository.SessionRepository
	users          repository.UserRepository
	resets         repository.PasswordResetRepository
	matchingConfig repository.MatchingConfigRepository
	matches        repository.MatchRepository
	subscriptions  repository.SubscriptionRepository
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	pool := pg.PoolHandle()
	if pool != nil && cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pool, migrationsDir, logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	broker, err := persistence.NewNATS(cfg.NATS, logger)
	if err != nil {
		logger.Fatal("failed to connect nats", zap.Error(err))
	}
	defer broker.Close()

	repos := newRepositories(pool)
	metrics := observability.NewMetrics()

	dispatcher := events.WithNATS(events.NewInMemoryDispatcher(logger), broker.Handle(), cfg.NATS.EventPrefix, logger)
	notifier := worker.NewRetryNotifier(service.NewNotifier(cfg.Notification, logger),
		cfg.Notification.DeliveryAttempts, cfg.Notification.RetryBackoff(), logger)
	notificationService := service.NewNotificationService(dispatcher, notifier, logger)
	worker.StartNotificationWorker(notificationService)

	coachRepo := cache.NewCachedCoachRepository(repos.coaches, redis.Handle(), cfg.Cache.CoachTTL(), logger)

	authService := service.NewAuthService(cfg.Auth, service.AuthDependencies{
		UserRepo:          repos.users,
		PasswordResetRepo: repos.resets,
		Dispatcher:        dispatcher,
		Logger:            logger,
	})
	authMiddleware := auth.NewAuthMiddleware(authService.TokenManager(), repos.users)

	coachService := service.NewCoachService(service.CoachDependencies{
		CoachRepo:  coachRepo,
		Dispatcher: dispatcher,
		Logger:     logger,
	})
	matchingConfigService := service.NewMatchingConfigService(repos.matchingConfig, cfg.Matching)
	matchingService := service.NewMatchingService(service.MatchingDependencies{
		Engine:      matching.NewEngine(cfg.Matching.AlgorithmVersion),
		CoachRepo:   coachRepo,
		Config:      matchingConfigService,
		ResultCache: cache.NewMatchResultCache(redis.Handle(), cfg.Cache.MatchResultTTL()),
		Stats:       cache.NewProcessingStats(redis.Handle()),
		Logger:      logger,
	})
	requestService := service.NewCoachingRequestService(service.CoachingRequestDependencies{
		RequestRepo: repos.requests,
		MatchRepo:   repos.matches,
		Matching:    matchingService,
		Dispatcher:  dispatcher,
		Logger:      logger,
	})
	sessionService := service.NewSessionService(service.SessionDependencies{
		SessionRepo:    repos.sessions,
		CoachRepo:      coachRepo,
		RequestRepo:    repos.requests,
		Dispatcher:     dispatcher,
		Logger:         logger,
		MaxReschedules: cfg.Sessions.MaxReschedules,
	})
	recommendationService := service.NewRecommendationService(service.RecommendationDependencies{
		CoachRepo:     coachRepo,
		RequestRepo:   repos.requests,
		SessionRepo:   repos.sessions,
		Sessions:      sessionService,
		Notifications: notificationService,
		Logger:        logger,
	})
	subscriptionService := service.NewSubscriptionService(repos.subscriptions, logger)

	consumer := worker.NewMatchingConsumer(broker.Handle(), matchingService, cfg.NATS, logger)
	if err := consumer.Start(); err != nil {
		logger.Fatal("failed to start matching consumer", zap.Error(err))
	}
	defer consumer.Stop()

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ErrorHandler: httptransport.ErrorHandler,
	})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health: handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, map[string]handlers.Pinger{
			"postgres": pg,
			"redis":    redis,
			"nats":     broker,
		}, metrics),
		Auth:             handlers.NewAuthHandler(authService, cfg.App.Env != "production"),
		Mentors:          handlers.NewMentorsHandler(coachService, matchingService),
		Matching:         handlers.NewMatchingHandler(matchingConfigService, matchingService, requestService),
		CoachingRequests: handlers.NewCoachingRequestsHandler(requestService),
		Sessions:         handlers.NewSessionsHandler(sessionService, recommendationService),
		Subscriptions:    handlers.NewSubscriptionsHandler(subscriptionService),
		AuthMiddleware:   authMiddleware,
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	_ = app.Shutdown()
}

// newRepositories picks the pgx repositories when a pool exists and otherwise the
// in-memory store seeded with the demo mentors.
func newRepositories(pool *pgxpool.Pool) repositories {
	if pool == nil {
		mem := repository.NewMemory(domain.SeedCoaches())
		return repositories{
			coaches:        mem.Coaches(),
			requests:       mem.CoachingRequests(),
			sessions:       mem.Sessions(),
			users:          mem.Users(),
			resets:         mem.PasswordResets(),
			matchingConfig: mem.MatchingConfig(),
			matches:        mem.Matches(),
			subscriptions:  mem.Subscriptions(),
		}
	}
	return repositories{
		coaches:        repository.NewCoachRepository(pool),
		requests:       repository.NewCoachingRequestRepository(pool),
		sessions:       repository.NewSessionRepository(pool),
		users:          repository.NewUserRepository(pool),
		resets:         repository.NewPasswordResetRepository(pool),
		matchingConfig: repository.NewMatchingConfigRepository(pool),
		matches:        repository.NewMatchRepository(pool),
		subscriptions:  repository.NewSubscriptionRepository(pool),
	}
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
