package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/hiredeck/scheduling-api/api/swagger"
	"github.com/hiredeck/scheduling-api/internal/events"
	"github.com/hiredeck/scheduling-api/internal/handler"
	"github.com/hiredeck/scheduling-api/internal/repository"
	"github.com/hiredeck/scheduling-api/internal/service"
	"github.com/hiredeck/scheduling-api/pkg/cache"
	"github.com/hiredeck/scheduling-api/pkg/calendar"
	"github.com/hiredeck/scheduling-api/pkg/config"
	"github.com/hiredeck/scheduling-api/pkg/database"
	"github.com/hiredeck/scheduling-api/pkg/export"
	"github.com/hiredeck/scheduling-api/pkg/logger"
	"github.com/hiredeck/scheduling-api/pkg/notify"
	"github.com/hiredeck/scheduling-api/pkg/storage"
	"github.com/hiredeck/scheduling-api/pkg/token"
)

// @title Scheduling API
// @version 1.0.0
// @description Interview scheduling, matching and billing service
// @BasePath /api/v1
// @schemes http

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close()

	if cfg.Database.Migrate {
		if err := database.Migrate(ctx, db); err != nil {
			logr.Sugar().Fatalw("failed to apply migrations", "error", err)
		}
	}

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Sugar().Warnw("redis unavailable, matching cache disabled", "error", err)
		redisClient = nil
	}
	defer func() {
		if redisClient != nil {
			redisClient.Close() //nolint:errcheck
		}
	}()

	metricsSvc := service.NewMetricsService()
	recorder := events.NewRecorder(logr, metricsSvc.Registry())

	dispatcher := notify.NewDispatcher(notify.NewLogSender(logr), notify.DispatcherConfig{
		Workers:    cfg.Notifications.Workers,
		MaxRetries: cfg.Notifications.MaxRetries,
		RetryDelay: cfg.Notifications.RetryDelay,
	}, logr)
	dispatcher.Start(ctx)
	defer dispatcher.Stop()

	codec := token.NewCodec(cfg.Scheduling.TokenSecret, cfg.Scheduling.TokenTTL)

	var meetings calendar.Meetings
	if cfg.Calendar.Enabled {
		meetings = calendar.NewGoogleCalendar(cfg.Calendar)
	}

	txRunner := repository.NewTxRunner(db, metricsSvc)
	slotRepo := repository.NewAvailabilityRepository(db)
	matchRepo := repository.NewMatchRepository(db)
	candidateRepo := repository.NewCandidateRepository(db)
	interviewerRepo := repository.NewInterviewerRepository(db)
	jobRepo := repository.NewJobRepository(db)
	interviewRepo := repository.NewInterviewRepository(db)
	attemptRepo := repository.NewSchedulingAttemptRepository(db)
	feedbackRepo := repository.NewFeedbackRepository(db)
	billingRepo := repository.NewBillingRepository(db)
	cacheRepo := repository.NewCacheRepository(redisClient, metricsSvc, logr)

	availabilitySvc := service.NewAvailabilityService(slotRepo, txRunner, recorder, nil, logr, service.AvailabilityServiceOptions{
		Meetings:        meetings,
		Cache:           cacheRepo,
		CalendarEnabled: cfg.Calendar.Enabled,
		Timezone:        cfg.Calendar.Timezone,
	})
	matchSvc := service.NewMatchService(matchRepo, jobRepo, cacheRepo, nil, logr, cfg.Matching.CacheTTL, cfg.Matching.ExperienceMargin)
	dispatchSvc := service.NewDispatchService(
		candidateRepo, slotRepo, interviewRepo, attemptRepo, interviewerRepo,
		txRunner, codec, dispatcher, recorder, nil, logr,
		cfg.Scheduling.SiteDomain, cfg.Scheduling.ReinitiateCooldown,
	)
	confirmationSvc := service.NewConfirmationService(
		codec, candidateRepo, interviewRepo, availabilitySvc, attemptRepo,
		interviewerRepo, jobRepo, txRunner, dispatcher, recorder, logr,
		service.ConfirmationServiceOptions{
			Meetings:        meetings,
			CalendarEnabled: cfg.Calendar.Enabled,
			OrganizerEmail:  cfg.Calendar.OrganizerEmail,
			BufferGap:       cfg.Scheduling.BufferGap,
		},
	)

	var reportSvc *service.ReportService
	if cfg.Reports.Enabled {
		store, err := storage.NewLocalStorage(cfg.Reports.StorageDir)
		if err != nil {
			logr.Sugar().Fatalw("failed to init report storage", "error", err)
		}
		reportSvc = service.NewReportService(export.NewFeedbackPDF(), store, feedbackRepo, logr, service.ReportServiceConfig{
			Enabled:     true,
			Concurrency: cfg.Reports.WorkerConcurrency,
			MaxRetries:  cfg.Reports.WorkerRetries,
		})
		reportSvc.Start(ctx)
		defer reportSvc.Stop()
	}

	feedbackSvc := service.NewFeedbackService(
		feedbackRepo, interviewRepo, candidateRepo, billingRepo, reportSvc,
		txRunner, recorder, nil, logr,
		cfg.Billing.DueDateGraceDays, cfg.Billing.NoShowMinutes,
	)
	billingSvc := service.NewBillingService(billingRepo, logr)

	router := handler.NewRouter(cfg, logr, handler.Handlers{
		Availability:   handler.NewAvailabilityHandler(availabilitySvc),
		Match:          handler.NewMatchHandler(matchSvc),
		Scheduling:     handler.NewSchedulingHandler(dispatchSvc, confirmationSvc),
		Feedback:       handler.NewFeedbackHandler(feedbackSvc),
		Billing:        handler.NewBillingHandler(billingSvc),
		Metrics:        handler.NewMetricsHandler(metricsSvc, db, redisClient),
		MetricsService: metricsSvc,
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logr.Sugar().Infow("server starting", "addr", srv.Addr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	<-ctx.Done()
	logr.Sugar().Infow("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Sugar().Errorw("graceful shutdown failed", "error", err)
	}
}
