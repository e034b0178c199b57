package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/simplificateurs/advisory-api/internal/api/http"
	"github.com/simplificateurs/advisory-api/internal/api/http/handlers"
	"github.com/simplificateurs/advisory-api/internal/auth"
	"github.com/simplificateurs/advisory-api/internal/cache"
	"github.com/simplificateurs/advisory-api/internal/config"
	"github.com/simplificateurs/advisory-api/internal/events"
	"github.com/simplificateurs/advisory-api/internal/identity"
	"github.com/simplificateurs/advisory-api/internal/observability"
	"github.com/simplificateurs/advisory-api/internal/persistence"
	"github.com/simplificateurs/advisory-api/internal/repository"
	"github.com/simplificateurs/advisory-api/internal/rotation"
	"github.com/simplificateurs/advisory-api/internal/service"
	"github.com/simplificateurs/advisory-api/internal/session"
	"github.com/simplificateurs/advisory-api/internal/storage"
	"github.com/simplificateurs/advisory-api/internal/worker"
)

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

	if cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	pool := pg.PoolHandle()
	advisorRepo := repository.NewAdvisorRepository(pool)
	userRepo := repository.NewUserRepository(pool)
	roleRepo := repository.NewRoleRepository(pool)
	appointmentRepo := repository.NewAppointmentRepository(pool)
	postRepo := repository.NewPostRepository(pool)

	photoStore, err := storage.NewDiskStore(cfg.Storage.Dir, cfg.Storage.PublicBaseURL)
	if err != nil {
		logger.Fatal("failed to init photo store", zap.Error(err))
	}

	advisorCache := cache.NewAdvisorCache(redis, cfg.Redis.CacheTTL(), logger)
	dispatcher := events.NewInMemoryDispatcher()

	teamService := service.NewTeamService(service.TeamDependencies{
		AdvisorRepo: advisorRepo,
		Cache:       advisorCache,
		Photos:      photoStore,
		Dispatcher:  dispatcher,
	}, logger)

	appointmentService := service.NewAppointmentService(service.AppointmentDependencies{
		AppointmentRepo: appointmentRepo,
		Pool:            teamService,
		Assigner:        rotation.NewAssigner(),
		Dispatcher:      dispatcher,
	}, logger)

	postService := service.NewPostService(postRepo, logger)
	authService := service.NewAuthService(*cfg, userRepo, roleRepo, logger)

	notificationService := service.NewNotificationService(dispatcher, logger, cfg.Notification)
	worker.StartNotificationWorker(notificationService)

	if created, err := authService.EnsureDefaultAdmin(ctx); err != nil {
		logger.Error("default admin bootstrap failed", zap.Error(err))
	} else if created {
		logger.Info("default admin created", zap.String("email", cfg.Admin.Email))
	}

	tokenManager := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.SessionTTL())
	registry := session.NewRegistry(func() *session.Guard {
		provider := identity.NewProvider(userRepo, cfg.Auth.BcryptCost, logger)
		return session.NewGuard(provider, roleRepo, logger)
	}, cfg.Auth.SessionTTL(), logger)
	registry.StartReaper(ctx, time.Minute)
	sessionMiddleware := auth.NewSessionMiddleware(tokenManager, registry)

	metrics := observability.NewMetrics()

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		BodyLimit:    10 * 1024 * 1024,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())
	app.Static("/media", cfg.Storage.Dir)

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:            handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis),
		Team:              handlers.NewTeamHandler(teamService),
		Posts:             handlers.NewPostsHandler(postService),
		Appointments:      handlers.NewAppointmentsHandler(appointmentService),
		Auth:              handlers.NewAuthHandler(authService, registry, tokenManager),
		AdminTeam:         handlers.NewAdminTeamHandler(teamService),
		SessionMiddleware: sessionMiddleware,
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	registry.CloseAll()
	_ = app.Shutdown()
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
