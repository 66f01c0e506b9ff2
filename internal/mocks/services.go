// Code generated manually. DO NOT EDIT.

package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/guttosm/fare-offer-service/internal/domain/model"
	"github.com/guttosm/fare-offer-service/internal/events"
	"github.com/guttosm/fare-offer-service/internal/provider"
	"github.com/guttosm/fare-offer-service/internal/repository"
)

type MockOfferService struct {
	mock.Mock
}

func (m *MockOfferService) Normalize(ctx context.Context, raw []byte) (model.OfferResult, error) {
	args := m.Called(ctx, raw)
	return args.Get(0).(model.OfferResult), args.Error(1)
}

func (m *MockOfferService) Search(ctx context.Context, q model.SearchQuery) (model.OfferResult, error) {
	args := m.Called(ctx, q)
	return args.Get(0).(model.OfferResult), args.Error(1)
}

func (m *MockOfferService) Confirm(ctx context.Context, raw []byte) (model.ConfirmResult, error) {
	args := m.Called(ctx, raw)
	return args.Get(0).(model.ConfirmResult), args.Error(1)
}

func (m *MockOfferService) Replay(ctx context.Context, payloadID string) (model.OfferResult, error) {
	args := m.Called(ctx, payloadID)
	return args.Get(0).(model.OfferResult), args.Error(1)
}

func (m *MockOfferService) Payload(ctx context.Context, payloadID string) (*repository.PayloadDocument, error) {
	args := m.Called(ctx, payloadID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.PayloadDocument), args.Error(1)
}

func (m *MockOfferService) RecentPayloads(ctx context.Context, q *model.SearchQuery, limit int) ([]repository.PayloadDocument, error) {
	args := m.Called(ctx, q, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]repository.PayloadDocument), args.Error(1)
}

type MockLoggingService struct {
	mock.Mock
}

func (m *MockLoggingService) CreateLog(ctx context.Context, entry *model.LogEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockLoggingService) CreateLogs(ctx context.Context, entries []*model.LogEntry) error {
	args := m.Called(ctx, entries)
	return args.Error(0)
}

func (m *MockLoggingService) QueryLogs(ctx context.Context, opts model.LogQueryOptions) ([]model.LogEntry, error) {
	args := m.Called(ctx, opts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.LogEntry), args.Error(1)
}

func (m *MockLoggingService) CountLogs(ctx context.Context, opts model.LogQueryOptions) (int64, error) {
	args := m.Called(ctx, opts)
	return args.Get(0).(int64), args.Error(1)
}

type MockPayloadFetcher struct {
	mock.Mock
}

func (m *MockPayloadFetcher) Search(ctx context.Context, q model.SearchQuery) (*provider.Response, error) {
	args := m.Called(ctx, q)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*provider.Response), args.Error(1)
}

type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) Publish(ctx context.Context, e events.Event) error {
	args := m.Called(ctx, e)
	return args.Error(0)
}

func (m *MockPublisher) Close() error {
	args := m.Called()
	return args.Error(0)
}
