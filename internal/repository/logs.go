package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// LogEntryDocument is a request or audit log entry as stored in MongoDB.
type LogEntryDocument struct {
	ID         primitive.ObjectID `bson:"_id,omitempty"`
	Timestamp  time.Time          `bson:"timestamp"`
	Level      string             `bson:"level"`
	Message    string             `bson:"message"`
	RequestID  string             `bson:"request_id,omitempty"`
	Method     string             `bson:"method,omitempty"`
	Path       string             `bson:"path,omitempty"`
	StatusCode int                `bson:"status_code,omitempty"`
	Duration   int64              `bson:"duration_ms,omitempty"`
	IP         string             `bson:"ip,omitempty"`
	UserAgent  string             `bson:"user_agent,omitempty"`
	Error      string             `bson:"error,omitempty"`
	ClientID   string             `bson:"client_id,omitempty"`
	Action     string             `bson:"action,omitempty"`
	Fields     map[string]any     `bson:"fields,omitempty"`
}

// LogQueryOptions filters log queries. Zero values are ignored.
type LogQueryOptions struct {
	RequestID string
	Level     string
	Method    string
	Path      string
	Action    string
	StartTime *time.Time
	EndTime   *time.Time
	Limit     int
	Skip      int
}

func (o LogQueryOptions) filter() bson.M {
	filter := bson.M{}
	if o.RequestID != "" {
		filter["request_id"] = o.RequestID
	}
	if o.Level != "" {
		filter["level"] = o.Level
	}
	if o.Method != "" {
		filter["method"] = o.Method
	}
	if o.Path != "" {
		filter["path"] = o.Path
	}
	if o.Action != "" {
		filter["action"] = o.Action
	}
	if o.StartTime != nil || o.EndTime != nil {
		window := bson.M{}
		if o.StartTime != nil {
			window["$gte"] = *o.StartTime
		}
		if o.EndTime != nil {
			window["$lte"] = *o.EndTime
		}
		filter["timestamp"] = window
	}
	return filter
}

// LogsRepository stores request logs.
type LogsRepository struct {
	collection *mongo.Collection
}

// NewLogsRepository creates a logs repository.
func NewLogsRepository(db *MongoDB) *LogsRepository {
	return &LogsRepository{collection: db.Logs}
}

func prepareLogEntry(entry *LogEntryDocument) {
	if entry.ID.IsZero() {
		entry.ID = primitive.NewObjectID()
	}
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now()
	}
}

// Create inserts one entry.
func (r *LogsRepository) Create(ctx context.Context, entry *LogEntryDocument) error {
	prepareLogEntry(entry)
	_, err := r.collection.InsertOne(ctx, entry)
	return err
}

// CreateMany inserts entries with one unordered bulk write.
func (r *LogsRepository) CreateMany(ctx context.Context, entries []*LogEntryDocument) error {
	if len(entries) == 0 {
		return nil
	}

	docs := make([]any, len(entries))
	for i, entry := range entries {
		prepareLogEntry(entry)
		docs[i] = entry
	}
	_, err := r.collection.InsertMany(ctx, docs, options.InsertMany().SetOrdered(false))
	return err
}

// Query returns matching entries, newest first.
func (r *LogsRepository) Query(ctx context.Context, opts LogQueryOptions) ([]*LogEntryDocument, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "timestamp", Value: -1}})
	if opts.Limit > 0 {
		findOptions.SetLimit(int64(opts.Limit))
	}
	if opts.Skip > 0 {
		findOptions.SetSkip(int64(opts.Skip))
	}

	cursor, err := r.collection.Find(ctx, opts.filter(), findOptions)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = cursor.Close(ctx)
	}()

	var entries []*LogEntryDocument
	if err := cursor.All(ctx, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// Count returns the number of matching entries.
func (r *LogsRepository) Count(ctx context.Context, opts LogQueryOptions) (int64, error) {
	return r.collection.CountDocuments(ctx, opts.filter())
}
