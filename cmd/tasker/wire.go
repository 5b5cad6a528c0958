package main

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/alexanderramin/tasker/internal/cli"
	"github.com/alexanderramin/tasker/internal/config"
	"github.com/alexanderramin/tasker/internal/db"
	"github.com/alexanderramin/tasker/internal/identity"
	"github.com/alexanderramin/tasker/internal/intelligence"
	"github.com/alexanderramin/tasker/internal/llm"
	"github.com/alexanderramin/tasker/internal/logging"
	"github.com/alexanderramin/tasker/internal/repository"
	"github.com/alexanderramin/tasker/internal/service"
)

// wire loads configuration and assembles the services behind app.
func wire(app *cli.App, configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	logger, syncLog, err := logging.New(cfg.Logging())
	if err != nil {
		return fmt.Errorf("creating logger: %w", err)
	}
	app.Logger = logger
	app.HTTPAddr = cfg.HTTP.Addr
	app.ShutdownTimeout = cfg.HTTP.ShutdownTimeout
	app.Closers = map[string]func(context.Context) error{
		"log": func(context.Context) error {
			// Syncing a console writer fails on some terminals; ignore.
			_ = syncLog()
			return nil
		},
	}

	database, err := db.Open(db.Driver(cfg.DB.Driver), cfg.DB.DSN)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	app.Closers["db"] = func(context.Context) error { return database.Close() }
	logger.Debug("database ready", zap.String("driver", cfg.DB.Driver), zap.String("dialect", database.Dialect().String()))

	// Wire repositories
	taskRepo := repository.NewSQLTaskRepo(database)
	categoryRepo := repository.NewSQLCategoryRepo(database)
	commitmentRepo := repository.NewSQLCommitmentRepo(database)
	userRepo := repository.NewSQLUserRepo(database)
	resetRepo := repository.NewSQLPasswordResetRepo(database)

	observer := service.NewZapUseCaseObserver(logger)

	var revocations identity.RevocationStore
	switch cfg.Auth.Revocation {
	case config.RevocationRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		app.Closers["redis"] = func(context.Context) error { return client.Close() }
		revocations = identity.NewRedisRevocationStore(client, identity.DefaultRevocationPrefix)
	default:
		sqlStore := identity.NewSQLRevocationStore(repository.NewSQLRevokedTokenRepo(database))
		if n, err := sqlStore.Purge(context.Background()); err != nil {
			logger.Warn("purging revoked tokens", zap.Error(err))
		} else if n > 0 {
			logger.Debug("purged revoked tokens", zap.Int64("count", n))
		}
		revocations = sqlStore
	}

	ids, err := identity.NewService(
		cfg.Identity(),
		userRepo,
		resetRepo,
		db.NewUnitOfWork(database),
		revocations,
		identity.NewLogResetNotifier(logger),
		observer,
	)
	if err != nil {
		return err
	}

	app.Identity = ids
	app.Tasks = service.NewTaskService(taskRepo, categoryRepo, observer)
	app.Categories = service.NewCategoryService(categoryRepo, observer)
	app.Commitments = service.NewCommitmentService(commitmentRepo, taskRepo, observer)

	backend, err := suggestionBackend(cfg, logger)
	if err != nil {
		return err
	}
	app.Suggestions = intelligence.NewSuggestionService(backend, observer)
	return nil
}

func suggestionBackend(cfg *config.Config, logger *zap.Logger) (intelligence.SuggestionBackend, error) {
	if cfg.Suggest.Backend == config.SuggestFunction {
		return intelligence.NewFunctionBackend(cfg.Suggest.FunctionURL, cfg.Suggest.FunctionKey, nil), nil
	}

	var observer llm.Observer = llm.NoopObserver{}
	if cfg.LLM.LogCalls {
		observer = llm.NewZapObserver(logger)
	}
	client, err := llm.NewClient(cfg.LLMClient(), observer)
	if err != nil {
		return nil, fmt.Errorf("creating llm client: %w", err)
	}
	return intelligence.NewLLMBackend(client), nil
}
