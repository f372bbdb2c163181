package database

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
)

// DB owns one pgx pool shared by all request handlers and the
// background sweep. The *sql.DB handle is a view over the same pool.
type DB struct {
	Pool  *pgxpool.Pool
	sqlDB *sql.DB
}

func New(ctx context.Context, dsn string) (*DB, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, err
	}
	p, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, err
	}
	if err := p.Ping(ctx); err != nil {
		p.Close()
		return nil, err
	}
	return &DB{Pool: p, sqlDB: stdlib.OpenDBFromPool(p)}, nil
}

func (d *DB) SQL() *sql.DB { return d.sqlDB }

func (d *DB) Close() {
	_ = d.sqlDB.Close()
	d.Pool.Close()
}

// KeepAlive pings the pool until ctx is done. Connection health is the
// pool's problem; this just surfaces outages in the logs early.
func (d *DB) KeepAlive(ctx context.Context, every time.Duration, log *slog.Logger) {
	t := time.NewTicker(every)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			pctx, cancel := context.WithTimeout(ctx, 5*time.Second)
			if err := d.Pool.Ping(pctx); err != nil {
				log.Warn("db ping failed", "err", err)
			}
			cancel()
		}
	}
}
