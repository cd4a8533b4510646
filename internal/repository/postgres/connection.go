package postgres

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/singulaarityy/Ferrum-Store/internal/domain/repositories"
)

// RepositoryConfig holds shared configuration for repository implementations.
type RepositoryConfig struct {
	Pool   *pgxpool.Pool
	Tables *TableNames
	Logger *slog.Logger
}

// TableNames holds environment-prefixed table names.
type TableNames struct {
	Users       string
	Folders     string
	Files       string
	Permissions string
}

// NewTableNames creates table names with the given prefix.
func NewTableNames(prefix string) *TableNames {
	return &TableNames{
		Users:       fmt.Sprintf("%susers", prefix),
		Folders:     fmt.Sprintf("%sfolders", prefix),
		Files:       fmt.Sprintf("%sfiles", prefix),
		Permissions: fmt.Sprintf("%sfolder_permissions", prefix),
	}
}

// CreateConnectionPool creates a pgx connection pool and verifies it with a
// ping. The store is the single source of truth; every request handler shares
// this pool and relies on the database's own transactional guarantees.
func CreateConnectionPool(ctx context.Context, databaseURL string) (*pgxpool.Pool, error) {
	config, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse connection string: %w", err)
	}

	config.MaxConns = 25
	config.MinConns = 5

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return pool, nil
}

// GetExecutor returns the transaction from the context when present,
// otherwise the pool. Repositories call this on every operation so they
// automatically participate in ambient transactions.
func GetExecutor(ctx context.Context, pool *pgxpool.Pool) repositories.DBTX {
	if tx := repositories.GetTx(ctx); tx != nil {
		return tx
	}
	return pool
}
