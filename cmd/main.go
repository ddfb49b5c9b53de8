package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	// embedded zone database so display.timezone resolves on minimal images
	_ "time/tzdata"

	"sensor_dashboard/internal/config"
	"sensor_dashboard/internal/fiware"
	"sensor_dashboard/internal/handlers"
	"sensor_dashboard/internal/logger"
	"sensor_dashboard/internal/metrics"
	"sensor_dashboard/internal/repository"
	"sensor_dashboard/internal/repository/db"
	"sensor_dashboard/internal/server"
	"sensor_dashboard/internal/service"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const shutdownTimeout = 10 * time.Second

func main() {
	configFile := pflag.String("config", "", "path to config file (default: ./configs/config.yml)")
	pflag.String("log-level", logger.InfoLevel, "log level: debug, info, warn, error")
	pflag.Parse()

	// load config.yml, env and flags
	v := viper.New()
	_ = v.BindPFlag("log_level", pflag.Lookup("log-level"))
	cfg, err := config.Load(v, *configFile)
	if err != nil {
		logger.Get(logger.InfoLevel).Fatalw("error reading config", "err", err)
	}

	// init logger
	log := logger.Get(cfg.LogLevel)
	defer func() { _ = log.Sync() }()

	// open DB
	sqlDB, err := db.InitDB(cfg.DBPath)
	if err != nil {
		log.Fatalw("failed to init sqlite", "err", err, "path", cfg.DBPath)
	}
	defer func() {
		if cerr := sqlDB.Close(); cerr != nil {
			log.Errorw("failed to close sqlite", "err", cerr)
		}
	}()

	// wire dependencies
	m := metrics.New()
	repos := repository.NewRepository(sqlDB, cfg.Poll.HistoryCount)
	client := fiware.NewClient(fiware.Config{
		STHURL:      cfg.Fiware.STHURL,
		OrionURL:    cfg.Fiware.OrionURL,
		Service:     cfg.Fiware.Service,
		ServicePath: cfg.Fiware.ServicePath,
		EntityID:    cfg.Fiware.EntityID,
		EntityType:  cfg.Fiware.EntityType,
		Timeout:     cfg.Fiware.Timeout,
	}, nil)
	services := service.NewService(service.Deps{
		Repos:      repos,
		Fetcher:    client,
		Sender:     client,
		Thresholds: cfg.Thresholds,
		FetchCount: cfg.Poll.FetchCount,
		Location:   cfg.Display.Location,
		Metrics:    m,
		Log:        log,
	})
	apiHandler := handlers.NewHandler(services, m, log.Named("http"))

	log.Infow("starting sensor dashboard",
		"port", cfg.Port,
		"sth", cfg.Fiware.STHURL,
		"orion", cfg.Fiware.OrionURL,
		"entity", cfg.Fiware.EntityID,
		"interval", cfg.Poll.Interval.String(),
		"timezone", cfg.Display.Timezone,
	)

	// context for background goroutines
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// start the poll loop
	go services.Poller.Run(ctx, cfg.Poll.Interval)

	// start HTTP server
	srv := &server.Server{}
	runHTTPServer(srv, cfg.Port, server.WithCORS(apiHandler.InitRoutes(), cfg.HTTP.AllowedOrigins), log)

	// graceful shutdown
	waitForShutdown(cancel, srv, log)
}

// runHTTPServer runs the HTTP server in a separate goroutine.
func runHTTPServer(srv *server.Server, port string, handler http.Handler, log *logger.Logger) {
	go func() {
		if err := srv.Run(port, handler); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalw("error starting server", "err", err)
		}
	}()
}

// waitForShutdown listens for termination signals and performs graceful shutdown.
func waitForShutdown(cancel context.CancelFunc, srv *server.Server, log *logger.Logger) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Infow("shutting down server...")

	// stop background goroutines
	cancel()

	// allow in-flight requests to complete
	ctx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Errorw("server forced to shutdown", "err", err)
	}
}
