package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nikolayk812/extract-cart/internal/db"
	"github.com/nikolayk812/extract-cart/internal/port"
)

type sessionStorage struct {
	queries
	sessionID string
}

func NewSessionStorage(pool *pgxpool.Pool, sessionID string) (port.SessionStorage, error) {
	if sessionID == "" {
		return nil, fmt.Errorf("sessionID is empty")
	}

	return &sessionStorage{
		queries:   poolQueries(pool),
		sessionID: sessionID,
	}, nil
}

func NewSessionStorageWithTx(tx pgx.Tx, sessionID string) (port.SessionStorage, error) {
	if sessionID == "" {
		return nil, fmt.Errorf("sessionID is empty")
	}

	return &sessionStorage{
		queries:   txQueries(tx),
		sessionID: sessionID,
	}, nil
}

func (r *sessionStorage) GetItem(ctx context.Context, key string) (string, bool, error) {
	if key == "" {
		return "", false, fmt.Errorf("key is empty")
	}

	value, err := r.q.GetEntry(ctx, db.GetEntryParams{
		SessionID: r.sessionID,
		Key:       key,
	})
	if errors.Is(err, pgx.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("q.GetEntry: %w", err)
	}

	return value, true, nil
}

func (r *sessionStorage) SetItem(ctx context.Context, key, value string) error {
	if key == "" {
		return fmt.Errorf("key is empty")
	}

	return r.inTx(ctx, func(q *db.Queries) error {
		if err := q.TouchSession(ctx, r.sessionID); err != nil {
			return fmt.Errorf("q.TouchSession: %w", err)
		}

		err := q.UpsertEntry(ctx, db.UpsertEntryParams{
			SessionID: r.sessionID,
			Key:       key,
			Value:     value,
		})
		if err != nil {
			return fmt.Errorf("q.UpsertEntry: %w", err)
		}

		return nil
	})
}

func (r *sessionStorage) RemoveItem(ctx context.Context, key string) error {
	if key == "" {
		return fmt.Errorf("key is empty")
	}

	_, err := r.q.DeleteEntry(ctx, db.DeleteEntryParams{
		SessionID: r.sessionID,
		Key:       key,
	})
	if err != nil {
		return fmt.Errorf("q.DeleteEntry: %w", err)
	}

	return nil
}
