package database

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	pgxpoolNew = pgxpool.New
	pingPool   = func(ctx context.Context, p *pgxpool.Pool) error { return p.Ping(ctx) }
	closePool  = func(p *pgxpool.Pool) { p.Close() }
)

// NewPgxPool 建立連線池並以 Ping 確認資料庫可連線；失敗時關閉連線池
func NewPgxPool(ctx context.Context, url string) (DB, error) {
	pool, err := pgxpoolNew(ctx, url)
	if err != nil {
		return nil, err
	}
	if err := pingPool(ctx, pool); err != nil {
		closePool(pool)
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return pool, nil
}
