package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"kds/cmd"
	"kds/internal/adapters/out/postgres"
	"kds/internal/pkg/logging"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"
)

const shutdownTimeout = 10 * time.Second

func main() {
	configs := getConfigs()
	if err := configs.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	logger, closeLog, err := logging.New(logging.Options{Level: configs.LogLevel, File: configs.LogFile})
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer func() { _ = closeLog() }()

	db, err := postgres.Open(configs.DBDriver, configs.DSN())
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	if err = postgres.Migrate(db); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := cmd.NewCompositionRoot(ctx, configs, db, logger)
	if err != nil {
		log.Fatalf("Failed to build application: %v", err)
	}

	if err = app.StartKafkaForwarder(ctx); err != nil {
		log.Fatalf("Failed to start Kafka forwarder: %v", err)
	}
	app.JobManager().StartAll(configs.SimulationAutostart)

	e := app.NewRouter()
	go func() {
		logger.Info("HTTP server listening", "port", configs.HTTPPort)
		if startErr := e.Start(fmt.Sprintf("0.0.0.0:%s", configs.HTTPPort)); startErr != nil &&
			!errors.Is(startErr, http.ErrServerClosed) {
			logger.Error("HTTP server failed", "error", startErr)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down")
	shutdown(app, e)
}

// shutdown closes the application first so open event streams end and do not
// hold up the HTTP server.
func shutdown(app *cmd.CompositionRoot, e *echo.Echo) {
	if err := app.Close(); err != nil {
		log.Errorf("Failed to close application: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		log.Errorf("Failed to shut down HTTP server: %v", err)
	}
}

func getConfigs() cmd.Config {
	// .env is optional; real environment variables win.
	if err := godotenv.Load(".env"); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Fatalf("Error loading .env file: %v", err)
	}

	return cmd.Config{
		HTTPPort:               envOr("HTTP_PORT", "8080"),
		DBDriver:               envOr("DB_DRIVER", postgres.DriverPostgres),
		DBHost:                 os.Getenv("DB_HOST"),
		DBPort:                 envOr("DB_PORT", "5432"),
		DBUser:                 os.Getenv("DB_USER"),
		DBPassword:             os.Getenv("DB_PASSWORD"),
		DBName:                 os.Getenv("DB_NAME"),
		DBSslMode:              envOr("DB_SSLMODE", "disable"),
		DBSQLitePath:           envOr("DB_SQLITE_PATH", "kds.db"),
		MaxOrders:              intEnv("MAX_ORDERS", cmd.DefaultMaxOrders),
		SequenceBackend:        envOr("SEQUENCE_BACKEND", cmd.SequenceBackendPostgres),
		RedisAddr:              os.Getenv("REDIS_ADDR"),
		RedisPassword:          os.Getenv("REDIS_PASSWORD"),
		KafkaHost:              os.Getenv("KAFKA_HOST"),
		KafkaOrderChangedTopic: os.Getenv("KAFKA_ORDER_CHANGED_TOPIC"),
		LogLevel:               os.Getenv("LOG_LEVEL"),
		LogFile:                os.Getenv("LOG_FILE"),
		SimulationAutostart:    boolEnv("SIMULATION_AUTOSTART"),
	}
}

func envOr(key, def string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return def
}

func intEnv(key string, def int) int {
	raw := os.Getenv(key)
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		log.Fatalf("%s must be an integer, got %q", key, raw)
	}
	return v
}

func boolEnv(key string) bool {
	v, err := strconv.ParseBool(os.Getenv(key))
	return err == nil && v
}
