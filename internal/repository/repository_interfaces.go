package repository

import (
	"context"
)

// PayloadsRepositoryInterface is the payload archive contract used by the offer service.
type PayloadsRepositoryInterface interface {
	Save(ctx context.Context, doc *PayloadDocument) error
	GetByID(ctx context.Context, id string) (*PayloadDocument, error)
	ListRecent(ctx context.Context, cacheKey string, limit int) ([]PayloadDocument, error)
}

// LogsRepositoryInterface is the request log sink contract.
type LogsRepositoryInterface interface {
	Create(ctx context.Context, entry *LogEntryDocument) error
	CreateMany(ctx context.Context, entries []*LogEntryDocument) error
	Query(ctx context.Context, opts LogQueryOptions) ([]*LogEntryDocument, error)
	Count(ctx context.Context, opts LogQueryOptions) (int64, error)
}
