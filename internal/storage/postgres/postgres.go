// Package postgres persists scheduler job state in PostgreSQL using pgx v5.
// The simulation itself is in-memory; the database only carries the
// last-fire times that let persistent jobs survive a restart.
package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/polishedworld/simcore/internal/config"
)

// connectTimeout bounds the initial pool creation and verification ping.
const connectTimeout = 10 * time.Second

// DB wraps a pgx connection pool scoped to the job-state schema.
type DB struct {
	pool   *pgxpool.Pool
	logger *zap.Logger
}

// Connect opens a connection pool for the configured database and verifies
// it with a ping before returning.
//
// Precondition: cfg must satisfy config validation; logger must be non-nil.
// Postcondition: Returns a DB ready for queries, or a non-nil error.
func Connect(ctx context.Context, cfg config.DatabaseConfig, logger *zap.Logger) (*DB, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("postgres: parsing database config: %w", err)
	}

	poolCfg.MaxConns = cfg.MaxConns
	poolCfg.MinConns = cfg.MinConns
	poolCfg.MaxConnLifetime = cfg.MaxConnLifetime

	connectCtx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	pool, err := pgxpool.NewWithConfig(connectCtx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("postgres: creating connection pool: %w", err)
	}
	if err := pool.Ping(connectCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres: verifying connection: %w", err)
	}

	logger.Info("postgres connected",
		zap.String("host", cfg.Host),
		zap.String("database", cfg.Name),
		zap.Int32("max_conns", cfg.MaxConns),
	)
	return &DB{pool: pool, logger: logger}, nil
}

// Health checks that the database answers within the given timeout and
// records pool saturation at debug level.
//
// Precondition: the DB must not be closed.
// Postcondition: Returns nil if the database responded within the timeout.
func (d *DB) Health(ctx context.Context, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	if err := d.pool.Ping(ctx); err != nil {
		return fmt.Errorf("postgres: health ping: %w", err)
	}
	stat := d.pool.Stat()
	d.logger.Debug("postgres pool healthy",
		zap.Int32("acquired_conns", stat.AcquiredConns()),
		zap.Int32("idle_conns", stat.IdleConns()),
		zap.Int32("total_conns", stat.TotalConns()),
	)
	return nil
}

// Close releases all pool resources.
//
// Postcondition: the DB is no longer usable.
func (d *DB) Close() {
	d.pool.Close()
	d.logger.Info("postgres connection pool closed")
}

// Pool returns the underlying pgxpool.Pool for use by repositories.
func (d *DB) Pool() *pgxpool.Pool {
	return d.pool
}
