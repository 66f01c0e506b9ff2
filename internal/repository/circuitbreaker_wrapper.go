package repository

import (
	"context"
	"errors"

	"github.com/guttosm/fare-offer-service/internal/circuitbreaker"
)

// guarded runs fn through cb and returns its result.
func guarded[T any](ctx context.Context, cb *circuitbreaker.CircuitBreaker, fn func() (T, error)) (T, error) {
	var result T
	err := cb.Execute(ctx, func() error {
		var fnErr error
		result, fnErr = fn()
		return fnErr
	})
	return result, err
}

// PayloadsRepositoryWithCircuitBreaker guards the payload archive with a circuit breaker.
//
// ErrPayloadNotFound and ErrInvalidPayloadID are caller errors and do not
// count as failures.
type PayloadsRepositoryWithCircuitBreaker struct {
	repo           PayloadsRepositoryInterface
	circuitBreaker *circuitbreaker.CircuitBreaker
}

// NewPayloadsRepositoryWithCircuitBreaker wraps repo.
func NewPayloadsRepositoryWithCircuitBreaker(repo PayloadsRepositoryInterface, cb *circuitbreaker.CircuitBreaker) *PayloadsRepositoryWithCircuitBreaker {
	return &PayloadsRepositoryWithCircuitBreaker{
		repo:           repo,
		circuitBreaker: cb,
	}
}

// Save archives doc.
func (r *PayloadsRepositoryWithCircuitBreaker) Save(ctx context.Context, doc *PayloadDocument) error {
	return r.circuitBreaker.Execute(ctx, func() error {
		return r.repo.Save(ctx, doc)
	})
}

// GetByID loads an archived payload.
func (r *PayloadsRepositoryWithCircuitBreaker) GetByID(ctx context.Context, id string) (*PayloadDocument, error) {
	var lookupErr error
	doc, err := guarded(ctx, r.circuitBreaker, func() (*PayloadDocument, error) {
		d, err := r.repo.GetByID(ctx, id)
		if errors.Is(err, ErrPayloadNotFound) || errors.Is(err, ErrInvalidPayloadID) {
			lookupErr = err
			return nil, nil
		}
		return d, err
	})
	if err != nil {
		return nil, err
	}
	if lookupErr != nil {
		return nil, lookupErr
	}
	return doc, nil
}

// ListRecent lists archived payload metadata.
func (r *PayloadsRepositoryWithCircuitBreaker) ListRecent(ctx context.Context, cacheKey string, limit int) ([]PayloadDocument, error) {
	return guarded(ctx, r.circuitBreaker, func() ([]PayloadDocument, error) {
		return r.repo.ListRecent(ctx, cacheKey, limit)
	})
}

// GetCircuitBreaker exposes the breaker for health reporting.
func (r *PayloadsRepositoryWithCircuitBreaker) GetCircuitBreaker() *circuitbreaker.CircuitBreaker {
	return r.circuitBreaker
}

// LogsRepositoryWithCircuitBreaker guards the request log sink. Writes are
// dropped while the circuit is open.
type LogsRepositoryWithCircuitBreaker struct {
	repo           LogsRepositoryInterface
	circuitBreaker *circuitbreaker.CircuitBreaker
}

// NewLogsRepositoryWithCircuitBreaker wraps repo.
func NewLogsRepositoryWithCircuitBreaker(repo LogsRepositoryInterface, cb *circuitbreaker.CircuitBreaker) *LogsRepositoryWithCircuitBreaker {
	return &LogsRepositoryWithCircuitBreaker{
		repo:           repo,
		circuitBreaker: cb,
	}
}

// Create stores one entry.
func (r *LogsRepositoryWithCircuitBreaker) Create(ctx context.Context, entry *LogEntryDocument) error {
	return dropWhenOpen(r.circuitBreaker.Execute(ctx, func() error {
		return r.repo.Create(ctx, entry)
	}))
}

// CreateMany stores entries in bulk.
func (r *LogsRepositoryWithCircuitBreaker) CreateMany(ctx context.Context, entries []*LogEntryDocument) error {
	return dropWhenOpen(r.circuitBreaker.Execute(ctx, func() error {
		return r.repo.CreateMany(ctx, entries)
	}))
}

// Query reads entries.
func (r *LogsRepositoryWithCircuitBreaker) Query(ctx context.Context, opts LogQueryOptions) ([]*LogEntryDocument, error) {
	return guarded(ctx, r.circuitBreaker, func() ([]*LogEntryDocument, error) {
		return r.repo.Query(ctx, opts)
	})
}

// Count counts entries.
func (r *LogsRepositoryWithCircuitBreaker) Count(ctx context.Context, opts LogQueryOptions) (int64, error) {
	return guarded(ctx, r.circuitBreaker, func() (int64, error) {
		return r.repo.Count(ctx, opts)
	})
}

// GetCircuitBreaker exposes the breaker for health reporting.
func (r *LogsRepositoryWithCircuitBreaker) GetCircuitBreaker() *circuitbreaker.CircuitBreaker {
	return r.circuitBreaker
}

func dropWhenOpen(err error) error {
	if errors.Is(err, circuitbreaker.ErrCircuitOpen) {
		return nil
	}
	return err
}
