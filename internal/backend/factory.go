package backend

import (
	"context"
	"fmt"
	"path/filepath"

	"gofinances/internal/amqp"
	applog "gofinances/internal/log"
	"gofinances/internal/services"
	"gofinances/internal/storage"
	"gofinances/internal/storage/memory"
)

// DefaultFactory implements the Factory interface
type DefaultFactory struct {
	logger *applog.Logger
}

// NewFactory creates a new backend factory
func NewFactory(logger *applog.Logger) Factory {
	if logger == nil {
		logger = applog.Default()
	}
	return &DefaultFactory{logger: logger.WithComponent(applog.ComponentBackend)}
}

// CreateBackend builds the store for config.Type and wraps it in a
// TransactionService, with AMQP publishing when a URL is configured.
func (f *DefaultFactory) CreateBackend(ctx context.Context, config Config) (*BackendResult, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if config.DataDirectory == "" {
		config.DataDirectory = "data"
	}

	var (
		store services.Store
		err   error
	)
	switch config.Type {
	case SQLiteBackend:
		store, err = f.createSQLiteStore(ctx, config)
	case MemoryBackend:
		store = f.createMemoryStore(config)
	default:
		return nil, fmt.Errorf("unsupported backend type: %s (valid: %v)", config.Type, GetBackendTypeStrings())
	}
	if err != nil {
		return nil, err
	}

	var publisher services.EventPublisher
	if config.AMQPURL != "" {
		client, err := amqp.NewClient(config.AMQPURL, config.AMQPExchange, config.AMQPQueue, f.logger)
		if err != nil {
			f.logger.Warn("Failed to initialize AMQP client, continuing without events", applog.FieldError, err)
		} else {
			f.logger.Info("Initialized AMQP client", "exchange", config.AMQPExchange, "queue", config.AMQPQueue)
			publisher = client
		}
	}

	svc := services.NewTransactionService(store, publisher, f.logger)
	return &BackendResult{Backend: svc, Cleanup: svc.Close}, nil
}

func (f *DefaultFactory) createSQLiteStore(ctx context.Context, config Config) (services.Store, error) {
	repo, err := storage.NewSQLiteRepository(config.SQLiteDBPath, f.logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize SQLite repository: %w", err)
	}

	// The memory store assigns ids to the seed titles.
	seed, err := memory.New(memory.SeedTitles(filepath.Join(config.DataDirectory, "seed_categories.txt"))).ListCategories(ctx)
	if err != nil {
		repo.Close()
		return nil, fmt.Errorf("read seed categories: %w", err)
	}
	if err := repo.SeedCategories(ctx, seed); err != nil {
		repo.Close()
		return nil, fmt.Errorf("seed categories: %w", err)
	}

	f.logger.Info("Initialized SQLite backend", "db_path", config.SQLiteDBPath, "seeded", len(seed))
	return repo, nil
}

func (f *DefaultFactory) createMemoryStore(config Config) services.Store {
	store := memory.NewFromFiles(config.DataDirectory)
	f.logger.Info("Initialized memory backend", "data_directory", config.DataDirectory)
	return store
}
