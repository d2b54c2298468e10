package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"

	"github.com/clinicore/scheduling-api/internal/config"
	appointmentHandler "github.com/clinicore/scheduling-api/internal/handler/appointment"
	availabilityHandler "github.com/clinicore/scheduling-api/internal/handler/availability"
	healthHandler "github.com/clinicore/scheduling-api/internal/handler/health"
	promHandler "github.com/clinicore/scheduling-api/internal/handler/prometheus"
	scheduleHandler "github.com/clinicore/scheduling-api/internal/handler/schedule"
	"github.com/clinicore/scheduling-api/internal/middleware"
	"github.com/clinicore/scheduling-api/internal/model"
	"github.com/clinicore/scheduling-api/internal/repository"
	"github.com/clinicore/scheduling-api/internal/repository/memory"
	"github.com/clinicore/scheduling-api/internal/repository/postgres"
	"github.com/clinicore/scheduling-api/internal/router"
	availabilityService "github.com/clinicore/scheduling-api/internal/service/availability"
	bookingService "github.com/clinicore/scheduling-api/internal/service/booking"
	eventService "github.com/clinicore/scheduling-api/internal/service/event"
	lifecycleService "github.com/clinicore/scheduling-api/internal/service/lifecycle"
	scheduleService "github.com/clinicore/scheduling-api/internal/service/schedule"
	"github.com/clinicore/scheduling-api/pkg/logger"
	redisbroker "github.com/clinicore/scheduling-api/pkg/messaging/redis"
	"github.com/clinicore/scheduling-api/pkg/metrics"
	"github.com/clinicore/scheduling-api/pkg/worker"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	lg := logger.NewLogger(nil)
	m := metrics.NewMetrics("clinicore", "scheduling")

	var (
		db              *sqlx.DB
		scheduleRepo    repository.ScheduleRepository
		appointmentRepo repository.AppointmentRepository
		outboxRepo      repository.OutboxRepository
	)

	switch cfg.Storage.Driver {
	case "postgres":
		db, err = postgres.NewDB(cfg.Database)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to database")
		}
		defer db.Close()

		base := postgres.NewBaseRepository(db)
		scheduleRepo = postgres.NewScheduleRepository(base)
		appointmentRepo = postgres.NewAppointmentRepository(base)
		outboxRepo = postgres.NewOutboxRepository(base)
	case "memory":
		scheduleRepo = memory.NewScheduleRepository()
		appointmentRepo = memory.NewAppointmentRepository()
		outboxRepo = memory.NewOutboxRepository()
	}

	// Services
	eventSvc := eventService.NewService(outboxRepo)
	scheduleSvc := scheduleService.NewService(scheduleRepo)
	availabilitySvc := availabilityService.NewService(scheduleSvc, appointmentRepo)
	bookingSvc := bookingService.NewService(
		availabilitySvc,
		appointmentRepo,
		eventSvc,
		model.AppointmentStatus(cfg.Booking.InitialStatus),
		lg,
		m,
	)
	lifecycleSvc := lifecycleService.NewService(
		appointmentRepo,
		eventSvc,
		cfg.Lifecycle.AllowWalkinComplete,
		lg,
	)

	// Handlers
	authMiddleware := middleware.NewAuthMiddleware(cfg.JWT.Secret)
	promH := promHandler.New()
	r := router.NewRouter(
		authMiddleware,
		availabilityHandler.NewHandler(availabilitySvc, m),
		appointmentHandler.NewHandler(bookingSvc, lifecycleSvc, appointmentRepo),
		scheduleHandler.NewHandler(scheduleSvc),
		healthHandler.NewHandler(db),
		promH,
		router.DefaultConfig(),
	)
	r.Setup()

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      r.Engine(),
		ReadTimeout:  time.Duration(cfg.Server.TimeoutSeconds) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.TimeoutSeconds) * time.Second,
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Drain the outbox in-process when a broker is configured; the
	// dedicated worker binary does the same job for multi-replica runs.
	if cfg.Redis.URL != "" {
		broker, err := redisbroker.NewRedisBroker(cfg.Redis.URL)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to Redis")
		}
		defer broker.Close()

		processor := worker.NewOutboxProcessor(outboxRepo, broker, worker.OutboxProcessorConfig{
			BatchSize:    50,
			PollInterval: 5 * time.Second,
			RetryDelay:   30 * time.Second,
		}, lg, m)
		go processor.Start(ctx)
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("failed to start server")
		}
	}()
	log.Info().Int("port", cfg.Server.Port).Msg("scheduling API started")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down server...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
	}
}
