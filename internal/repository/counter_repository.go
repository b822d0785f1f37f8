package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vhu-platform/complaint-service/internal/ticketid"
)

// CounterRepository provides named atomic counters. The single-statement
// upsert-and-increment guarantees two concurrent callers never observe the
// same value, which a count-then-write scheme cannot.
type CounterRepository interface {
	Increment(ctx context.Context, name string) (int64, error)
}

type counterRepository struct {
	pool *pgxpool.Pool
}

// NewCounterRepository instantiates repository.
func NewCounterRepository(pool *pgxpool.Pool) CounterRepository {
	return &counterRepository{pool: pool}
}

func (r *counterRepository) Increment(ctx context.Context, name string) (int64, error) {
	const query = `
        INSERT INTO counters (name, value) VALUES ($1, 1)
        ON CONFLICT (name) DO UPDATE SET value = counters.value + 1
        RETURNING value`
	var value int64
	err := r.pool.QueryRow(ctx, query, name).Scan(&value)
	return value, err
}

// CounterSequence adapts a named counter to the ticketid.Sequence contract.
func CounterSequence(counters CounterRepository, name string) ticketid.Sequence {
	return counterSequence{counters: counters, name: name}
}

type counterSequence struct {
	counters CounterRepository
	name     string
}

func (s counterSequence) Next(ctx context.Context) (int64, error) {
	return s.counters.Increment(ctx, s.name)
}
