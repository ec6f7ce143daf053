package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/medbook/medbook-go/internal/config"
	"github.com/medbook/medbook-go/internal/crypto"
	"github.com/medbook/medbook-go/internal/handler"
	"github.com/medbook/medbook-go/internal/middleware"
	"github.com/medbook/medbook-go/internal/repository"
	"github.com/medbook/medbook-go/internal/service"
	"go.mongodb.org/mongo-driver/v2/mongo"
)

const shutdownTimeout = 10 * time.Second

// stores bundles the persistence backends selected by STORE_DRIVER.
type stores struct {
	users        service.UserStore
	appointments service.AppointmentStore
	close        func(context.Context) error
}

func main() {
	if err := godotenv.Load(); err != nil {
		slog.Warn("no .env file found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	slog.SetDefault(newLogger(cfg.Env))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	st, err := openStores(ctx, cfg)
	if err != nil {
		slog.Error("store initialisation failed", "driver", cfg.StoreDriver, "error", err)
		os.Exit(1)
	}

	tokens := crypto.NewTokens(cfg.JWTSecret, cfg.JWTExpiry)
	authService := service.NewAuthService(st.users)

	router := handler.NewRouter(handler.Dependencies{
		Tokens:         tokens,
		Session:        handler.NewSession(tokens, cfg.CookieExpiry, cfg.Production()),
		Auth:           authService,
		Appointments:   service.NewAppointmentService(st.appointments),
		AuthRateLimit:  middleware.RateLimit(ctx, cfg.AuthRateRPS, cfg.AuthRateBurst),
		AllowedOrigins: cfg.AllowedOrigins,
		RequestTimeout: cfg.RequestTimeout,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      cfg.RequestTimeout + 5*time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		slog.Info("server starting", "port", cfg.Port, "env", cfg.Env, "store", cfg.StoreDriver)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()

	slog.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server forced shutdown", "error", err)
	}
	if err := st.close(shutdownCtx); err != nil {
		slog.Error("closing store", "error", err)
	}

	slog.Info("server stopped")
}

func newLogger(env string) *slog.Logger {
	opts := &slog.HandlerOptions{Level: slog.LevelInfo}
	if env == "production" {
		return slog.New(slog.NewJSONHandler(os.Stdout, opts))
	}
	opts.Level = slog.LevelDebug
	return slog.New(slog.NewTextHandler(os.Stdout, opts))
}

func openStores(ctx context.Context, cfg config.Config) (*stores, error) {
	switch cfg.StoreDriver {
	case config.StoreMongo:
		client, db, err := repository.NewMongo(ctx, cfg.MongoURI, cfg.MongoDatabase)
		if err != nil {
			return nil, err
		}
		return newMongoStores(client, db, cfg.RequestTimeout), nil

	case config.StoreMySQL:
		db, err := repository.NewDB(cfg.DatabaseDSN)
		if err != nil {
			return nil, err
		}
		if err := repository.Migrate(ctx, db); err != nil {
			db.Close()
			return nil, err
		}
		return newSQLStores(db, cfg.RequestTimeout), nil

	case config.StoreMemory:
		slog.Warn("using in-memory store, data is lost on restart")
		return &stores{
			users:        repository.NewMemoryUserRepository(),
			appointments: repository.NewMemoryAppointmentRepository(),
			close:        func(context.Context) error { return nil },
		}, nil
	}

	return nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
}

// newMongoStores bounds every store call by timeout.
func newMongoStores(client *mongo.Client, db *mongo.Database, timeout time.Duration) *stores {
	return &stores{
		users:        repository.NewMongoUserRepository(db, timeout),
		appointments: repository.NewMongoAppointmentRepository(db, timeout),
		close:        client.Disconnect,
	}
}

// newSQLStores bounds every store call by timeout.
func newSQLStores(db *sql.DB, timeout time.Duration) *stores {
	return &stores{
		users:        repository.NewUserRepository(db, timeout),
		appointments: repository.NewAppointmentRepository(db, timeout),
		close:        func(context.Context) error { return db.Close() },
	}
}
