package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/uptrace/bun"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/pairup/pairup/internal/activity"
	"github.com/pairup/pairup/internal/config"
	"github.com/pairup/pairup/internal/database"
	"github.com/pairup/pairup/internal/health"
	"github.com/pairup/pairup/internal/history"
	"github.com/pairup/pairup/internal/pairing"
	"github.com/pairup/pairup/internal/rpc"
	"github.com/pairup/pairup/internal/users"
)

// app owns everything main has to shut down
type app struct {
	state *rpc.AppState
	db    *bun.DB
}

func main() {
	// .env is optional; real environment variables win
	_ = godotenv.Load()

	config.Load()

	logger := initLogger()
	defer logger.Sync()

	if err := config.Get().Validate(); err != nil {
		logger.Fatal("Invalid configuration", zap.Error(err))
	}
	logger.Info("Configuration loaded",
		zap.String("database_driver", config.Database().Driver),
		zap.Int("reminder_streak", config.Pairing().ReminderStreak))

	ctx := context.Background()
	a, err := newApp(ctx, logger)
	if err != nil {
		logger.Fatal("Failed to initialize application state", zap.Error(err))
	}

	if err := a.state.Health.StartupHealthCheck(ctx); err != nil {
		logger.Fatal("Startup health check failed", zap.Error(err))
	}

	gin.SetMode(gin.ReleaseMode)
	router := rpc.NewRouter(a.state, config.Http().AllowedOrigins)

	addr := fmt.Sprintf("%s:%d", config.Http().Host, config.Http().Port)
	server := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  time.Duration(config.Http().ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(config.Http().WriteTimeout) * time.Second,
	}

	done := setupSignalHandler(a, server, logger)

	logger.Info("Starting pairing server", zap.String("address", addr))

	err = server.ListenAndServe()
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatal("Failed to start server", zap.Error(err))
	}

	<-done
	logger.Info("Server shutdown complete")
}

// newApp wires stores, services and health checks for the configured driver
func newApp(ctx context.Context, logger *zap.Logger) (*app, error) {
	directory := users.NewStaticDirectory(loadUsers(logger))
	logger.Info("User directory loaded", zap.Int("users", directory.Len()))

	var (
		db            *bun.DB
		historyStore  history.Store
		activityStore activity.Store
	)

	switch config.Database().Driver {
	case config.DriverMemory:
		logger.Warn("Using in-memory storage, pairing history will not survive a restart")
		historyStore = history.NewInMemoryStore()
		activityStore = activity.NewInMemoryStore()

	default:
		pgConfig := config.Database().Postgres
		logger.Info("Database configuration",
			zap.String("host", pgConfig.Host),
			zap.Int("port", pgConfig.Port),
			zap.String("database", pgConfig.Database),
			zap.String("user", pgConfig.User))

		var err error
		db, err = database.Open(ctx, pgConfig.DSN(), pgConfig.MaxOpenConnections)
		if err != nil {
			return nil, err
		}
		if err := history.CreateSchema(ctx, db); err != nil {
			db.Close()
			return nil, err
		}
		if err := activity.CreateSchema(ctx, db); err != nil {
			db.Close()
			return nil, err
		}

		historyStore = history.NewPostgresStore(db)
		activityStore = activity.NewPostgresStore(db)
	}

	pairingService := pairing.NewService(
		users.NewUserService(directory),
		historyStore,
		pairing.NewGenerator(),
		logger.Named("pairing"),
		pairing.Options{
			ReminderStreak:        config.Pairing().ReminderStreak,
			MaxRegenerateAttempts: config.Pairing().MaxRegenerateAttempts,
		},
	)
	recorder := activity.NewRecorder(activityStore, logger.Named("activity"))

	healthManager := health.NewManager(logger.Named("health"))
	healthManager.AddChecker(health.NewConfigChecker(config.Get()))
	healthManager.AddChecker(health.NewStoreChecker("database", historyStore, true))
	healthManager.AddChecker(health.NewStoreChecker("activity_log", recorder, false))
	healthManager.AddChecker(health.NewDirectoryChecker(directory))

	return &app{
		state: &rpc.AppState{
			Pairing:   pairingService,
			Activity:  recorder,
			Health:    healthManager,
			Logger:    logger,
			StartedAt: time.Now(),
		},
		db: db,
	}, nil
}

// loadUsers merges the configured list with the base64 source. A base64
// value that fails to decode is logged and contributes no users.
func loadUsers(logger *zap.Logger) []users.User {
	usersConfig := config.Users()

	list := make([]users.User, 0, len(usersConfig.List))
	for _, entry := range usersConfig.List {
		list = append(list, users.User{Name: entry.Name, Identifier: entry.Identifier, Active: entry.Active})
	}

	if usersConfig.Base64 != "" {
		decoded, err := users.ParseBase64(usersConfig.Base64)
		if err != nil {
			logger.Error("Failed to parse users from base64", zap.Error(err))
		} else {
			list = append(list, decoded...)
		}
	}

	valid := list[:0]
	for _, u := range list {
		if err := u.Validate(); err != nil {
			logger.Warn("Skipping invalid user entry", zap.String("identifier", u.Identifier), zap.Error(err))
			continue
		}
		valid = append(valid, u)
	}
	return valid
}

func initLogger() *zap.Logger {
	logConfig := config.Logger()

	var config zap.Config
	if logConfig.Format == "json" {
		config = zap.NewProductionConfig()
	} else {
		config = zap.NewDevelopmentConfig()
	}

	switch logConfig.Level {
	case "debug":
		config.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	case "warn":
		config.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	case "error":
		config.Level = zap.NewAtomicLevelAt(zap.ErrorLevel)
	default:
		config.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	}

	config.EncoderConfig.TimeKey = "timestamp"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	logger, err := config.Build()
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}

	return logger
}

func setupSignalHandler(a *app, server *http.Server, logger *zap.Logger) chan struct{} {
	done := make(chan struct{}, 1)

	signalCh := make(chan os.Signal, 1)
	signal.Notify(signalCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-signalCh

		logger.Info("Shutting down server...", zap.String("signal", sig.String()))

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := server.Shutdown(ctx); err != nil {
			logger.Error("Error during server shutdown", zap.Error(err))
		}

		if err := a.state.Activity.Wait(ctx); err != nil {
			logger.Error("Pending activity writes did not finish", zap.Error(err))
		}

		if a.db != nil {
			if err := a.db.Close(); err != nil {
				logger.Error("Error closing database", zap.Error(err))
			}
		}

		done <- struct{}{}
	}()

	return done
}
