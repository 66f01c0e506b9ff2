package repository

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/guttosm/fare-offer-service/internal/domain/model"
)

var (
	// ErrPayloadNotFound is returned when no archived payload has the given id.
	ErrPayloadNotFound = errors.New("payload not found")
	// ErrInvalidPayloadID is returned for ids that are not valid ObjectIDs.
	ErrInvalidPayloadID = errors.New("invalid payload id")
)

// DefaultPayloadRetention is how long archived payloads are kept.
const DefaultPayloadRetention = 72 * time.Hour

// PayloadDocument is a raw provider response as stored in provider_payloads.
type PayloadDocument struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	CacheKey  string             `bson:"cache_key" json:"cache_key"`
	Query     model.SearchQuery  `bson:"query" json:"query"`
	Body      []byte             `bson:"body,omitempty" json:"-"`
	Size      int                `bson:"size" json:"size"`
	FromCache bool               `bson:"from_cache" json:"from_cache"`
	FetchedAt time.Time          `bson:"fetched_at" json:"fetched_at"`
	ExpiresAt time.Time          `bson:"expires_at" json:"expires_at"`
}

// PayloadsRepository archives provider payloads so they can be replayed.
type PayloadsRepository struct {
	collection *mongo.Collection
	retention  time.Duration
	now        func() time.Time
}

// NewPayloadsRepository creates a payload archive. A non-positive retention
// falls back to DefaultPayloadRetention.
func NewPayloadsRepository(db *MongoDB, retention time.Duration) *PayloadsRepository {
	if retention <= 0 {
		retention = DefaultPayloadRetention
	}
	return &PayloadsRepository{
		collection: db.Payloads,
		retention:  retention,
		now:        time.Now,
	}
}

// Save inserts doc, filling in the id, size and timestamps.
func (r *PayloadsRepository) Save(ctx context.Context, doc *PayloadDocument) error {
	if doc.ID.IsZero() {
		doc.ID = primitive.NewObjectID()
	}
	if doc.FetchedAt.IsZero() {
		doc.FetchedAt = r.now()
	}
	doc.FetchedAt = doc.FetchedAt.UTC()
	doc.ExpiresAt = doc.FetchedAt.Add(r.retention)
	doc.Size = len(doc.Body)

	_, err := r.collection.InsertOne(ctx, doc)
	return err
}

// GetByID returns the archived payload including its body.
func (r *PayloadsRepository) GetByID(ctx context.Context, id string) (*PayloadDocument, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrInvalidPayloadID
	}

	var doc PayloadDocument
	err = r.collection.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrPayloadNotFound
	}
	if err != nil {
		return nil, err
	}
	return &doc, nil
}

// ListRecent returns payload metadata, newest first, without bodies.
// An empty cacheKey lists every query.
func (r *PayloadsRepository) ListRecent(ctx context.Context, cacheKey string, limit int) ([]PayloadDocument, error) {
	filter := bson.M{}
	if cacheKey != "" {
		filter["cache_key"] = cacheKey
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "fetched_at", Value: -1}}).
		SetProjection(bson.M{"body": 0})
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = cursor.Close(ctx)
	}()

	docs := make([]PayloadDocument, 0)
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}
	return docs, nil
}
