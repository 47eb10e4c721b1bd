package main

import (
	"context"
	"database/sql"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "aqi_predictor/docs"
	"aqi_predictor/internal/config"
	"aqi_predictor/internal/handlers"
	"aqi_predictor/internal/logger"
	"aqi_predictor/internal/metrics"
	"aqi_predictor/internal/predictor"
	"aqi_predictor/internal/publisher"
	"aqi_predictor/internal/repository"
	"aqi_predictor/internal/repository/db"
	"aqi_predictor/internal/server"
	"aqi_predictor/internal/service"

	"github.com/spf13/pflag"
	"golang.org/x/time/rate"
)

const shutdownTimeout = 10 * time.Second

// @title           AQI Predictor API
// @version         1.0
// @description     Classifies air-quality predictions and keeps a short per-session history.
// @BasePath        /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	fs := pflag.NewFlagSet(os.Args[0], pflag.ExitOnError)
	configDir := fs.String("config-dir", "configs", "directory holding config.yml")
	envFile := fs.String("env-file", ".env", "optional dotenv file loaded before the config")
	fs.String("port", "", "HTTP port (overrides config)")
	fs.String("log-level", "", "debug|info|warn|error (overrides config)")
	_ = fs.Parse(os.Args[1:])

	// bootstrap logger until the configured level is known
	boot := logger.New(logger.InfoLevel)

	cfg, err := loadConfig(*configDir, *envFile, fs)
	if err != nil {
		boot.Fatalw("error reading config", "err", err)
	}

	log := logger.Get(cfg.LogLevel)
	defer func() { _ = log.Sync() }()

	// open DB
	sqlDB, err := openDB(cfg.DBPath, log)
	if err != nil {
		log.Fatalw("failed to init sqlite", "err", err)
	}
	defer func() {
		if cerr := sqlDB.Close(); cerr != nil {
			log.Errorw("failed to close sqlite", "err", cerr)
		}
	}()

	// context for background goroutines
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	m := metrics.New()

	pub, err := newPublisher(ctx, cfg.MQTT, log)
	if err != nil {
		log.Fatalw("failed to init publisher", "err", err)
	}
	defer pub.Close()

	client, err := predictor.NewClient(
		predictor.WithLogger(log.Desugar()),
		predictor.WithLimiter(rate.NewLimiter(rate.Limit(cfg.Predictor.RatePerSec), cfg.Predictor.Burst)),
		predictor.WithTimeout(cfg.Predictor.Timeout),
	)
	if err != nil {
		log.Fatalw("failed to init prediction client", "err", err)
	}

	// wire dependencies
	repos := repository.NewRepository(sqlDB)
	services, err := service.NewService(repos, service.Options{
		Log:       log,
		Metrics:   m,
		Publisher: pub,
		Endpoints: func(url string) predictor.Source { return client.Endpoint(url) },
		Predictor: service.PredictorConfig{
			Endpoint:             cfg.Predictor.Endpoint,
			AllowRequestEndpoint: cfg.Predictor.AllowRequestEndpoint,
			Strict:               cfg.Predictor.Strict,
		},
		Sessions: service.SessionsConfig{
			SigningKey:    cfg.Sessions.SigningKey,
			TokenTTL:      cfg.Sessions.TokenTTL,
			IdleTTL:       cfg.Sessions.IdleTTL,
			SweepSchedule: cfg.Sessions.SweepSchedule,
		},
	})
	if err != nil {
		log.Fatalw("failed to wire services", "err", err)
	}
	apiHandler := handlers.NewHandler(services, log, m.Handler())

	// idle session sweeper
	go services.Sweeper.Run(ctx)

	if cfg.Predictor.Endpoint == "" {
		log.Infow("no prediction endpoint configured; serving demo data")
	}

	// start HTTP server
	srv := &server.Server{WriteTimeout: cfg.WriteTimeout()}
	runHTTPServer(srv, cfg.Port, apiHandler, log)

	// graceful shutdown
	waitForShutdown(cancel, srv, log)
}

func loadConfig(dir, envFile string, fs *pflag.FlagSet) (config.Config, error) {
	if err := config.LoadDotEnv(envFile); err != nil {
		return config.Config{}, err
	}
	v := config.NewViper(dir)
	if err := config.BindFlags(v, fs); err != nil {
		return config.Config{}, err
	}
	return config.Load(v)
}

// openDB initializes the SQLite event log.
func openDB(path string, log *logger.Logger) (*sql.DB, error) {
	log.Infow("opening event log", "path", path)
	return db.InitDB(path)
}

// newPublisher returns the MQTT publisher when a broker is configured, otherwise a no-op.
// The broker connection is established in the background so startup never blocks on it.
func newPublisher(ctx context.Context, cfg config.MQTTConfig, log *logger.Logger) (publisher.Publisher, error) {
	if cfg.Broker == "" {
		return publisher.Noop{}, nil
	}
	p, err := publisher.NewMQTT(publisher.MQTTOptions{
		Broker:   cfg.Broker,
		ClientID: cfg.ClientID,
		Topic:    cfg.Topic,
		QoS:      byte(cfg.QoS),
	}, log)
	if err != nil {
		return nil, err
	}
	go func() {
		if err := p.Connect(ctx); err != nil {
			log.Warnw("mqtt connect gave up", "broker", cfg.Broker, "err", err)
		}
	}()
	return p, nil
}

// runHTTPServer runs the HTTP server in a separate goroutine.
func runHTTPServer(srv *server.Server, port string, handler *handlers.Handler, log *logger.Logger) {
	go func() {
		log.Infow("http server starting", "port", port)
		if err := srv.Run(port, handler.InitRoutes()); err != nil {
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
