package cli

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/burphub/burphub/internal/adapters/sqlstore"
	"github.com/burphub/burphub/internal/infrastructure/config"
	"github.com/burphub/burphub/internal/migrate"
)

// AppContext holds all shared dependencies for CLI commands.
type AppContext struct {
	Config *config.Config
	Logger *slog.Logger
	DB     *sql.DB
	Repos  *sqlstore.Repositories
}

// NewAppContext opens the store, applies pending migrations and seeds the
// singleton rows.
func NewAppContext(ctx context.Context, cfg *config.Config) (*AppContext, error) {
	logger := cfg.NewLogger()

	db, err := sqlstore.Open(cfg.DatabaseURL, cfg.DatabaseAuthToken)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := migrate.RunAll(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	if err := sqlstore.EnsureSingletons(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize singleton rows: %w", err)
	}

	return &AppContext{
		Config: cfg,
		Logger: logger,
		DB:     db,
		Repos:  sqlstore.NewRepositories(db),
	}, nil
}

// Close releases all resources held by the AppContext.
func (a *AppContext) Close() error {
	if a.DB != nil {
		return a.DB.Close()
	}
	return nil
}

// withApp loads config and runs fn with an initialized AppContext.
func withApp(ctx context.Context, fn func(*AppContext) error) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	app, err := NewAppContext(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() { _ = app.Close() }()
	return fn(app)
}
