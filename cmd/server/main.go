// cmd/server/main.go
package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/unclebandit/ggph-smms/internal/cache"
	"github.com/unclebandit/ggph-smms/internal/config"
	"github.com/unclebandit/ggph-smms/internal/controller"
	"github.com/unclebandit/ggph-smms/internal/handler"
	"github.com/unclebandit/ggph-smms/internal/logging"
	"github.com/unclebandit/ggph-smms/internal/observability"
	"github.com/unclebandit/ggph-smms/internal/queue"
	"github.com/unclebandit/ggph-smms/internal/service"
	"github.com/unclebandit/ggph-smms/internal/session"
)

var version = "dev"

func main() {
	// Load .env
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found, relying on OS environment variables")
	}

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatal(err)
	}

	lg, err := logging.Init(cfg.LogLevel, cfg.Env)
	if err != nil {
		log.Fatal(err)
	}
	defer lg.Closer()
	logger := lg.Base

	flush, err := observability.InitSentry(cfg.SentryDSN, cfg.Env, version)
	if err != nil {
		logger.Warn("sentry disabled", zap.Error(err))
	}
	defer flush()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	st, err := openStores(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("failed to open data store", zap.String("backend", cfg.DataBackend), zap.Error(err))
	}
	defer st.close()

	// In-process queue feeds the cache purger; the broker feeds cmd/worker.
	mem := queue.NewInMemoryQueue(logger)
	var changes queue.Queue = mem
	if cfg.AMQPURL != "" {
		broker, err := queue.DialAMQP(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue, logger)
		if err != nil {
			logger.Fatal("failed to connect to broker", zap.Error(err))
		}
		defer broker.Close()
		changes = queue.Multi{mem, broker}
	}

	sessions := session.NewStore(cfg.SessionTTL)
	loader := &service.SnapshotLoader{
		Campaigns:  st.campaigns,
		Branches:   st.branches,
		Categories: st.categories,
		EventTypes: st.eventTypes,
		Users:      st.users,
		Timeout:    cfg.FetchTimeout,
		Log:        logger,
	}
	dashboardService := &service.DashboardService{
		Loader:   loader,
		Cache:    cache.NewLRUCache[service.DashboardView](cfg.DashboardCacheSize, cfg.DashboardCacheTTL),
		Location: cfg.Location,
		Currency: cfg.CurrencyPrefix,
		Log:      logger,
	}
	calendarService := &service.CalendarService{Loader: loader, Location: cfg.Location}
	campaignService := &service.CampaignService{
		CampaignRepo: st.campaigns,
		AuditRepo:    st.audit,
		Queue:        changes,
		Dashboards:   dashboardService,
		Location:     cfg.Location,
		Log:          logger,
	}
	adminService := &service.AdminService{
		Branches:   st.branches,
		Categories: st.categories,
		EventTypes: st.eventTypes,
		Users:      st.users,
		Sessions:   sessions,
		Queue:      mem,
		Dashboards: dashboardService,
		Log:        logger,
	}
	authService := &service.AuthService{Users: st.users, Sessions: sessions, Log: logger}

	if err := queue.StartCachePurger(mem, dashboardService.Purge, logger); err != nil {
		logger.Fatal("failed to start cache purger", zap.Error(err))
	}
	// Without a broker the server records its own history.
	if cfg.AMQPURL == "" {
		if err := service.NewAuditRecorder(st.audit, logger).Start(mem); err != nil {
			logger.Fatal("failed to start audit recorder", zap.Error(err))
		}
	}

	router := controller.NewRouter(controller.Routes{
		Auth:      &controller.AuthController{AuthService: authService},
		Dashboard: &controller.DashboardController{DashboardService: dashboardService, CalendarService: calendarService, Location: cfg.Location},
		Campaign:  &controller.CampaignController{CampaignService: campaignService},
		Admin:     &controller.AdminController{AdminService: adminService},
		Export:    &handler.ExportHandler{Dashboard: dashboardService, Calendar: calendarService, Location: cfg.Location, Log: logger},
		Sessions:  sessions,
		Log:       logger,
	})

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		logger.Info("server running", zap.String("addr", cfg.HTTPAddr), zap.String("backend", cfg.DataBackend))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", zap.Error(err))
	}
	mem.Wait()
}
