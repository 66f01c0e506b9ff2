package service

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/guttosm/fare-offer-service/internal/domain/model"
	"github.com/guttosm/fare-offer-service/internal/repository"
)

// LoggingService persists request and audit log entries.
type LoggingService interface {
	CreateLog(ctx context.Context, entry *model.LogEntry) error
	CreateLogs(ctx context.Context, entries []*model.LogEntry) error
	QueryLogs(ctx context.Context, opts model.LogQueryOptions) ([]model.LogEntry, error)
	CountLogs(ctx context.Context, opts model.LogQueryOptions) (int64, error)
}

// LoggingServiceImpl stores log entries through a logs repository.
type LoggingServiceImpl struct {
	repo repository.LogsRepositoryInterface
}

// NewLoggingService creates a logging service.
func NewLoggingService(repo repository.LogsRepositoryInterface) LoggingService {
	return &LoggingServiceImpl{repo: repo}
}

// CreateLog stores entry and writes the generated id back into it.
func (s *LoggingServiceImpl) CreateLog(ctx context.Context, entry *model.LogEntry) error {
	doc := toLogDocument(entry)
	if err := s.repo.Create(ctx, doc); err != nil {
		return err
	}
	entry.ID = doc.ID.Hex()
	return nil
}

// CreateLogs stores entries in bulk.
func (s *LoggingServiceImpl) CreateLogs(ctx context.Context, entries []*model.LogEntry) error {
	if len(entries) == 0 {
		return nil
	}
	docs := make([]*repository.LogEntryDocument, len(entries))
	for i, entry := range entries {
		docs[i] = toLogDocument(entry)
	}
	return s.repo.CreateMany(ctx, docs)
}

// QueryLogs returns matching entries, newest first.
func (s *LoggingServiceImpl) QueryLogs(ctx context.Context, opts model.LogQueryOptions) ([]model.LogEntry, error) {
	docs, err := s.repo.Query(ctx, toRepoQuery(opts))
	if err != nil {
		return nil, err
	}

	entries := make([]model.LogEntry, len(docs))
	for i, doc := range docs {
		entries[i] = fromLogDocument(doc)
	}
	return entries, nil
}

// CountLogs counts matching entries.
func (s *LoggingServiceImpl) CountLogs(ctx context.Context, opts model.LogQueryOptions) (int64, error) {
	return s.repo.Count(ctx, toRepoQuery(opts))
}

func toRepoQuery(opts model.LogQueryOptions) repository.LogQueryOptions {
	return repository.LogQueryOptions{
		RequestID: opts.RequestID,
		Level:     opts.Level,
		Action:    opts.Action,
		StartTime: opts.StartTime,
		EndTime:   opts.EndTime,
		Limit:     opts.Limit,
		Skip:      opts.Skip,
	}
}

func toLogDocument(entry *model.LogEntry) *repository.LogEntryDocument {
	id, err := primitive.ObjectIDFromHex(entry.ID)
	if err != nil {
		id = primitive.NewObjectID()
	}
	ts := entry.Timestamp
	if ts.IsZero() {
		ts = time.Now()
	}

	return &repository.LogEntryDocument{
		ID:         id,
		Timestamp:  ts,
		Level:      entry.Level,
		Message:    entry.Message,
		RequestID:  entry.RequestID,
		Method:     entry.Method,
		Path:       entry.Path,
		StatusCode: entry.StatusCode,
		Duration:   entry.Duration,
		IP:         entry.IP,
		UserAgent:  entry.UserAgent,
		Error:      entry.Error,
		ClientID:   entry.ClientID,
		Action:     entry.Action,
		Fields:     entry.Fields,
	}
}

func fromLogDocument(doc *repository.LogEntryDocument) model.LogEntry {
	return model.LogEntry{
		ID:         doc.ID.Hex(),
		Timestamp:  doc.Timestamp,
		Level:      doc.Level,
		Message:    doc.Message,
		RequestID:  doc.RequestID,
		Method:     doc.Method,
		Path:       doc.Path,
		StatusCode: doc.StatusCode,
		Duration:   doc.Duration,
		IP:         doc.IP,
		UserAgent:  doc.UserAgent,
		Error:      doc.Error,
		ClientID:   doc.ClientID,
		Action:     doc.Action,
		Fields:     doc.Fields,
	}
}
