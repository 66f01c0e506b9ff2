//go:build integration

package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/guttosm/fare-offer-service/internal/circuitbreaker"
	"github.com/guttosm/fare-offer-service/internal/domain/model"
)

func TestPayloadsRepository_Integration(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	db := setupTestDB(t)
	repo := NewPayloadsRepository(db, time.Hour)

	query := model.SearchQuery{Origin: "GRU", Destination: "LIS", DepartureDate: "2025-09-01", Adults: 2}
	fetched := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)

	first := &PayloadDocument{CacheKey: "search:GRU:LIS", Query: query, Body: []byte(`{"solutions":[]}`), FetchedAt: fetched}
	second := &PayloadDocument{CacheKey: "search:GRU:LIS", Query: query, Body: []byte(`{"solutions":[{}]}`), FetchedAt: fetched.Add(time.Minute)}
	other := &PayloadDocument{CacheKey: "search:GRU:MAD", Body: []byte(`{}`), FetchedAt: fetched}

	for _, doc := range []*PayloadDocument{first, second, other} {
		require.NoError(t, repo.Save(ctx, doc))
	}

	t.Run("save fills derived fields", func(t *testing.T) {
		assert.False(t, first.ID.IsZero())
		assert.Equal(t, len(`{"solutions":[]}`), first.Size)
		assert.Equal(t, fetched.Add(time.Hour), first.ExpiresAt)
	})

	t.Run("get by id returns body", func(t *testing.T) {
		got, err := repo.GetByID(ctx, first.ID.Hex())
		require.NoError(t, err)

		assert.Equal(t, first.Body, got.Body)
		assert.Equal(t, query, got.Query)
		assert.True(t, fetched.Equal(got.FetchedAt))
	})

	t.Run("get by unknown id", func(t *testing.T) {
		_, err := repo.GetByID(ctx, primitive.NewObjectID().Hex())
		assert.ErrorIs(t, err, ErrPayloadNotFound)
	})

	t.Run("get by malformed id", func(t *testing.T) {
		_, err := repo.GetByID(ctx, "not-an-id")
		assert.ErrorIs(t, err, ErrInvalidPayloadID)
	})

	t.Run("list recent by cache key omits bodies", func(t *testing.T) {
		docs, err := repo.ListRecent(ctx, "search:GRU:LIS", 10)
		require.NoError(t, err)

		require.Len(t, docs, 2)
		assert.Equal(t, second.ID, docs[0].ID)
		assert.Equal(t, first.ID, docs[1].ID)
		assert.Nil(t, docs[0].Body)
		assert.Equal(t, second.Size, docs[0].Size)
	})

	t.Run("list recent across keys with limit", func(t *testing.T) {
		docs, err := repo.ListRecent(ctx, "", 2)
		require.NoError(t, err)
		assert.Len(t, docs, 2)
	})
}

func TestPayloadsRepositoryWithCircuitBreaker_Integration(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	db := setupTestDB(t)

	cb := circuitbreaker.New(circuitbreaker.Config{FailureThreshold: 1, SuccessThreshold: 1, Timeout: time.Hour, Name: "test-payloads"})
	repo := NewPayloadsRepositoryWithCircuitBreaker(NewPayloadsRepository(db, 0), cb)

	doc := &PayloadDocument{CacheKey: "k", Body: []byte(`{}`)}
	require.NoError(t, repo.Save(ctx, doc))

	_, err := repo.GetByID(ctx, primitive.NewObjectID().Hex())
	require.ErrorIs(t, err, ErrPayloadNotFound)

	got, err := repo.GetByID(ctx, doc.ID.Hex())
	require.NoError(t, err)
	assert.Equal(t, doc.Body, got.Body)
	assert.Equal(t, "closed", cb.GetStats().State)
}
