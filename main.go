package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"

	"finance/src/api"
	"finance/src/api/handlers"
	"finance/src/clients/quotes"
	"finance/src/config"
	"finance/src/database"
	"finance/src/metrics"
	"finance/src/repositories"
	"finance/src/repositories/memory"
	"finance/src/services"
	"finance/src/sessions"
	"finance/src/utils"
	aws_handler "finance/src/utils/aws"
	redis_utils "finance/src/utils/redis"
	"finance/src/utils/render"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

func main() {
	// .env is optional; real environment variables win.
	_ = godotenv.Load()

	cfg, err := config.LoadConfig("./settings", os.Getenv("ENV"))
	if err != nil {
		log.Println(err, "Error while loading config")
		os.Exit(1)
	}
	logger := utils.NewLogger(utils.ParseLevel(cfg.Logging.Level), cfg.Logging.ToFile, cfg.Logging.FilePath)

	errC, err := run(context.Background(), cfg, logger)
	if err != nil {
		logger.WithError(err).Error("Couldn't run")
		os.Exit(1)
	}

	if err := <-errC; err != nil {
		logger.WithError(err).Error("Error while running")
		os.Exit(1)
	}
}

type storage struct {
	transactor database.Transactor
	accounts   repositories.AccountRepository
	positions  repositories.PositionRepository
	history    repositories.HistoryRepository
}

func setupStorage(ctx context.Context, cfg *config.Config, logger logrus.FieldLogger) (*storage, error) {
	if cfg.Databases.SQL.Driver == config.MemoryDriver {
		logger.Warn("using in-memory storage, data is lost on restart")
		store := memory.NewStore()
		return &storage{
			transactor: store,
			accounts:   store.Accounts(),
			positions:  store.Positions(),
			history:    store.History(),
		}, nil
	}

	pool, err := database.SetupDB(ctx, cfg)
	if err != nil {
		return nil, err
	}
	if cfg.Databases.SQL.AutoMigrate {
		if err := database.MigratePool(ctx, pool); err != nil {
			pool.Close()
			return nil, err
		}
	}
	return &storage{
		transactor: database.NewTransactor(pool),
		accounts:   repositories.NewAccountRepository(pool),
		positions:  repositories.NewPositionRepository(pool),
		history:    repositories.NewHistoryRepository(pool),
	}, nil
}

func setupSessions(ctx context.Context, cfg *config.Config) (sessions.Store, error) {
	if cfg.Session.Store == config.MemorySessionStore {
		return sessions.NewMemoryStore(), nil
	}
	handler, err := redis_utils.NewRedisHandler(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return sessions.NewRedisStore(handler), nil
}

// resolveAPIKey prefers the configured key and falls back to Secrets Manager.
// The key value itself is never logged.
func resolveAPIKey(ctx context.Context, cfg *config.Config, logger logrus.FieldLogger) (string, error) {
	quotesCfg := cfg.ExternalClients.Quotes
	if quotesCfg.APIKey != "" {
		return quotesCfg.APIKey, nil
	}

	awsHandler, err := aws_handler.NewAWSHandler(cfg.ExternalClients.AWS)
	if err != nil {
		return "", err
	}
	key, err := awsHandler.SecretManager.GetSecretValue(ctx, quotesCfg.APIKeySecretID)
	if err != nil {
		return "", err
	}
	logger.WithField("secret_id", quotesCfg.APIKeySecretID).Info("quote API key loaded from Secrets Manager")
	return key, nil
}

func run(ctx context.Context, cfg *config.Config, logger *logrus.Logger) (<-chan error, error) {
	errC := make(chan error, 1)

	apiKey, err := resolveAPIKey(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(registry)

	store, err := setupStorage(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}
	sessionStore, err := setupSessions(ctx, cfg)
	if err != nil {
		return nil, err
	}
	renderer, err := render.New()
	if err != nil {
		return nil, err
	}

	// Trades always price against a fresh quote; pages may use cached ones.
	quoteClient := quotes.NewClient(cfg, apiKey, m)
	cachedQuotes := quotes.NewCachedClient(quoteClient, cfg.ExternalClients.Quotes.CacheTTL)

	handler := handlers.NewHandler(
		services.NewAuthService(store.accounts, services.NewBcryptHasher(bcrypt.DefaultCost), m),
		services.NewTradingService(store.transactor, store.accounts, store.positions, store.history, quoteClient, m),
		services.NewPortfolioService(store.accounts, store.positions, cachedQuotes),
		services.NewHistoryService(store.history),
		sessions.NewManager(sessionStore, cfg.Session),
		renderer,
		cfg.Service.RequestTimeout,
	)
	server := api.NewServer(handler, logger, m, registry)
	httpServer := api.NewHTTPServer(cfg, server)

	go func() {
		logger.WithField("port", cfg.Service.Port).Info("Starting server")

		// "ListenAndServe always returns a non-nil error. After Shutdown or Close, the returned error is
		// ErrServerClosed."
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errC <- err
			return
		}
		errC <- nil
	}()
	return errC, nil
}
