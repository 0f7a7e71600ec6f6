package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nikolayk812/extract-cart/internal/db"
)

// queries is embedded by every repository. pool is nil when the repository
// was built on a caller's transaction; statements then join that transaction.
type queries struct {
	q    *db.Queries
	pool *pgxpool.Pool
}

func poolQueries(pool *pgxpool.Pool) queries {
	return queries{q: db.New(pool), pool: pool}
}

func txQueries(tx pgx.Tx) queries {
	return queries{q: db.New(tx)}
}

// inTx runs fn so that all of its statements commit together. pgx.BeginFunc
// rolls back when fn fails.
func (r queries) inTx(ctx context.Context, fn func(q *db.Queries) error) error {
	if r.pool == nil {
		return fn(r.q)
	}

	return pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		return fn(r.q.WithTx(tx))
	})
}
