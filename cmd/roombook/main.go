package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/example/roombook/internal/application"
	"github.com/example/roombook/internal/catalog"
	"github.com/example/roombook/internal/config"
	"github.com/example/roombook/internal/directory"
	httptransport "github.com/example/roombook/internal/http"
	"github.com/example/roombook/internal/logging"
	"github.com/example/roombook/internal/persistence"
	"github.com/example/roombook/internal/persistence/memory"
	"github.com/example/roombook/internal/persistence/redis"
	"github.com/example/roombook/internal/persistence/sqlite"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		slog.New(slog.NewJSONHandler(os.Stderr, nil)).Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger := logging.New(os.Stdout, cfg.LogLevel)
	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("roombook exited with error", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Config, logger *slog.Logger) error {
	storage, err := openStore(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := storage.Close(); cerr != nil {
			logger.Error("failed to close storage", "error", cerr)
		}
	}()

	app, err := newApp(ctx, cfg, storage, logger)
	if err != nil {
		return err
	}

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:           app.handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("failed to shutdown server", "error", err)
		}
	}()

	logger.Info("roombook API listening", "addr", server.Addr, "storage", cfg.StorageDriver)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("serve: %w", err)
	}
	return nil
}

// openStore opens the client storage selected by the configured driver.
func openStore(ctx context.Context, cfg config.Config, logger *slog.Logger) (persistence.Store, error) {
	switch cfg.StorageDriver {
	case config.DriverMemory:
		logger.Warn("using in-memory storage; sessions and bookings will not survive a restart")
		return memory.New(), nil
	case config.DriverRedis:
		store, err := redis.Dial(ctx, redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
			Prefix:   cfg.RedisPrefix,
		})
		if err != nil {
			return nil, fmt.Errorf("open redis storage: %w", err)
		}
		return store, nil
	default:
		store, err := sqlite.Open(sqlite.Config{Path: cfg.SQLitePath, Logger: logger})
		if err != nil {
			return nil, fmt.Errorf("open sqlite storage: %w", err)
		}
		if err := store.Migrate(ctx); err != nil {
			_ = store.Close()
			return nil, fmt.Errorf("migrate sqlite storage: %w", err)
		}
		return store, nil
	}
}

type app struct {
	handler  http.Handler
	sessions *application.SessionManager
	ledger   *application.Ledger
	desk     *application.BookingDesk
}

// newApp loads reference data, restores persisted state and wires the API.
// A directory that cannot be read leaves everyone unable to sign in but does
// not stop the client; a missing room catalog does.
func newApp(ctx context.Context, cfg config.Config, storage persistence.Store, logger *slog.Logger) (*app, error) {
	people, err := directory.Load(cfg.DirectoryPath)
	if err != nil {
		logger.Error("failed to load student directory; sign in is unavailable", "error", err, "path", cfg.DirectoryPath)
		people = directory.Empty()
	}

	rooms, err := catalog.Load(cfg.RoomsPath)
	if err != nil {
		return nil, fmt.Errorf("load room catalog: %w", err)
	}

	sessions := application.NewSessionManager(people, storage, logger)
	ledger := application.NewLedger(rooms, storage, application.NewBookingID, time.Now, logger)
	desk := application.NewBookingDesk(people, rooms, ledger, application.NewSelection(), logger)

	if _, _, err := sessions.Restore(ctx); err != nil {
		logger.Error("failed to restore session", "error", err)
	}
	if err := ledger.Load(ctx); err != nil {
		if errors.Is(err, application.ErrLedgerUnavailable) {
			return nil, fmt.Errorf("load bookings: %w", err)
		}
		logger.Error("failed to load bookings; starting with an empty ledger", "error", err)
	}

	logger.Info("reference data loaded", "students", people.Len(), "rooms", rooms.Len())

	handler := httptransport.NewRouter(httptransport.RouterConfig{
		Sessions:    httptransport.NewSessionHandler(sessions, desk.Selection(), logger),
		Rooms:       httptransport.NewRoomHandler(ledger, desk, logger),
		Selection:   httptransport.NewSelectionHandler(desk, logger),
		Students:    httptransport.NewStudentHandler(desk, logger),
		Bookings:    httptransport.NewBookingHandler(desk, logger),
		Health:      httptransport.NewHealthHandler(people, rooms, storage, logger),
		Auth:        sessions,
		CORSOrigins: cfg.CORSOrigins,
		Logger:      logger,
	})

	return &app{handler: handler, sessions: sessions, ledger: ledger, desk: desk}, nil
}
