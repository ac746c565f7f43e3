package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "booth_dashboard/docs"
	"booth_dashboard/internal/config"
	"booth_dashboard/internal/device"
	"booth_dashboard/internal/handlers"
	"booth_dashboard/internal/logger"
	"booth_dashboard/internal/registry"
	"booth_dashboard/internal/repository"
	"booth_dashboard/internal/repository/db"
	"booth_dashboard/internal/server"
	"booth_dashboard/internal/service"
)

func main() {
	configPath := flag.String("config", "", "path to config file (default configs/config.yml)")
	flag.Parse()

	// load config.yml + BOOTH_* env
	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Get(logger.InfoLevel, logger.FormatConsole).Fatalw("error reading config", "err", err)
	}

	// init logger
	log := logger.Get(cfg.Log.Level, cfg.Log.Format)

	// open DB
	sqlDB, err := openDB(cfg.DB, log)
	if err != nil {
		log.Fatalw("failed to init sqlite", "err", err)
	}
	if sqlDB != nil {
		defer func() {
			if cerr := sqlDB.Close(); cerr != nil {
				log.Errorw("failed to close sqlite", "err", cerr)
			}
		}()
	}

	reg, err := registry.New(cfg.MonitoredPoints())
	if err != nil {
		log.Fatalw("invalid point registry", "err", err)
	}

	// context for background goroutines
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	dialer := newDialer(ctx, cfg.Device, cfg.RegisterMap(), log)

	// wire dependencies
	repos := repository.NewRepository(sqlDB)
	services, err := service.NewService(repos, dialer, reg, cfg, log)
	if err != nil {
		log.Fatalw("failed to init services", "err", err)
	}
	if !services.Gate.Enabled() {
		log.Warnw("write gate is open; set auth.secret to require a PIN for writes")
	}
	apiHandler := handlers.NewHandler(services, log)

	log.Infow("booth dashboard starting",
		"port", cfg.Port,
		"driver", cfg.Device.Driver,
		"plc_ip", cfg.Device.Address,
		"points", reg.Len(),
	)

	// start HTTP server
	srv := &server.Server{}
	runHTTPServer(ctx, srv, cfg, apiHandler, log)

	// graceful shutdown
	waitForShutdown(cancel, srv, cfg.Server.ShutdownTimeout, log)
}

// openDB initializes the SQLite audit log. A disabled log returns a nil DB.
func openDB(cfg config.DBConfig, log *logger.Logger) (*sql.DB, error) {
	if !cfg.Enabled {
		log.Infow("command log disabled")
		return nil, nil
	}
	return db.InitDB(cfg.Path)
}

// newDialer picks the device driver. The simulator runs until ctx ends.
func newDialer(ctx context.Context, cfg config.DeviceConfig, regs map[string]device.RegisterMap, log *logger.Logger) device.Dialer {
	switch cfg.Driver {
	case config.DriverModbus:
		return &device.ModbusDialer{
			Points:  regs,
			SlaveID: cfg.SlaveID,
			Timeout: cfg.Timeout,
		}
	default:
		log.Infow("using simulated booth", "tick", cfg.SimTick)
		booth := device.NewSimBooth(time.Now())
		go booth.Run(ctx, cfg.SimTick)
		return booth.Dialer()
	}
}

// runHTTPServer runs the HTTP server in a separate goroutine.
// Requests inherit ctx, so canceling it closes every push stream.
func runHTTPServer(ctx context.Context, srv *server.Server, cfg *config.Config, handler *handlers.Handler, log *logger.Logger) {
	opts := server.Options{
		ReadHeaderTimeout: cfg.Server.ReadHeaderTimeout,
		IdleTimeout:       cfg.Server.IdleTimeout,
		BaseContext:       ctx,
	}
	go func() {
		if err := srv.Run(cfg.Port, handler.InitRoutes(), opts); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalw("error starting server", "err", err)
		}
	}()
}

// waitForShutdown listens for termination signals and performs graceful shutdown.
func waitForShutdown(cancel context.CancelFunc, srv *server.Server, timeout time.Duration, log *logger.Logger) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Infow("shutting down server...")

	// stop the simulator and end every open stream
	cancel()

	// allow in-flight requests to complete
	ctx, shutdownCancel := context.WithTimeout(context.Background(), timeout)
	defer shutdownCancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Errorw("server forced to shutdown", "err", err)
	}
}
