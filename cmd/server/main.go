// Package main is the entry point of the users backend.
// It wires together the modules and serves the REST API.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/rai/userdirectory/internal/platform/config"
	"github.com/rai/userdirectory/internal/platform/eventbus"
	"github.com/rai/userdirectory/internal/platform/httpserver"
	"github.com/rai/userdirectory/internal/platform/spanner"
	"github.com/rai/userdirectory/modules/audit"
	"github.com/rai/userdirectory/modules/shared/transaction"
	"github.com/rai/userdirectory/modules/users"
	"github.com/rai/userdirectory/modules/users/domain"
	userspersistence "github.com/rai/userdirectory/modules/users/infrastructure/persistence"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	fs := flag.NewFlagSet("server", flag.ContinueOnError)
	configPath := fs.String("config", "", "path to a YAML config file")
	dbPath := fs.String("db", "", "path to the db.json file (overrides config)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		return err
	}
	if *dbPath != "" {
		cfg.Store.Driver = config.StoreJSONFile
		cfg.Store.Path = *dbPath
	}

	logger := cfg.NewLogger(os.Stdout)
	slog.SetDefault(logger)
	logger.Info("starting users backend", slog.String("store", cfg.Store.Driver))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Initialize event bus (for inter-module communication)
	eventBus := eventbus.New(logger)

	store, closeStore, err := openStore(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeStore()

	// Initialize modules
	usersModule, err := users.New(users.Config{
		Repository:     store.repo,
		TxScope:        store.txScope,
		ReadScope:      store.readScope,
		IDStrategy:     cfg.Store.IDStrategy,
		EventPublisher: eventBus,
		Logger:         logger,
	})
	if err != nil {
		return err
	}

	if _, err := audit.New(audit.Config{EventSubscriber: eventBus, Logger: logger}); err != nil {
		return fmt.Errorf("initializing audit: %w", err)
	}

	router := buildRouter(usersModule)

	handler := httpserver.Middleware(router,
		httpserver.Recovery(logger),
		httpserver.Tracing(),
		httpserver.Logging(logger),
		httpserver.CORS(cfg.Server.AllowedOrigins),
	)

	server := httpserver.New(cfg.Server, handler, logger)
	if err := server.Run(ctx); err != nil {
		return err
	}
	logger.Info("server stopped")
	return nil
}

type userStore struct {
	repo      domain.UserRepository
	txScope   transaction.Scope
	readScope transaction.Scope
}

// openStore builds the repository and transaction scopes for the
// configured driver.
func openStore(ctx context.Context, cfg *config.Config, logger *slog.Logger) (userStore, func(), error) {
	switch cfg.Store.Driver {
	case config.StoreMemory:
		repo := userspersistence.NewInMemoryRepository()
		return userStore{repo: repo, txScope: repo}, func() {}, nil

	case config.StoreSpanner:
		client, err := spanner.NewClient(ctx, cfg.Spanner, logger)
		if err != nil {
			return userStore{}, nil, err
		}
		return userStore{
			repo:      userspersistence.NewSpannerRepository(client),
			txScope:   spanner.NewReadWriteTransactionScope(client, "users"),
			readScope: spanner.NewReadOnlyTransactionScope(client, cfg.Spanner.ReadStaleness),
		}, client.Close, nil

	default:
		repo, err := userspersistence.OpenJSONFile(cfg.Store.Path, logger)
		if err != nil {
			return userStore{}, nil, err
		}
		return userStore{repo: repo, txScope: repo}, func() {}, nil
	}
}

// buildRouter creates the main HTTP router with all module handlers.
func buildRouter(usersModule users.Module) http.Handler {
	mux := http.NewServeMux()

	// Health check endpoint
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})

	usersModule.RegisterRoutes(mux)

	return mux
}
