// Package service holds the application services exposed over HTTP.
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/guttosm/fare-offer-service/internal/domain/model"
	"github.com/guttosm/fare-offer-service/internal/events"
	"github.com/guttosm/fare-offer-service/internal/fare"
	"github.com/guttosm/fare-offer-service/internal/logger"
	"github.com/guttosm/fare-offer-service/internal/metrics"
	"github.com/guttosm/fare-offer-service/internal/provider"
	"github.com/guttosm/fare-offer-service/internal/repository"
)

var (
	// ErrInvalidPayload is returned when a request body is not a usable provider payload.
	ErrInvalidPayload = errors.New("invalid provider payload")
	// ErrArchiveNotConfigured is returned by archive operations when MongoDB is disabled.
	ErrArchiveNotConfigured = errors.New("payload archive is not configured")
)

// Normalization outcome labels.
const (
	statusSuccess = "success"
	statusEmpty   = "empty"
	statusInvalid = "invalid"
)

// PayloadFetcher fetches raw payloads from the pricing provider.
type PayloadFetcher interface {
	Search(ctx context.Context, q model.SearchQuery) (*provider.Response, error)
}

// OfferService is the application API around the normalization pipeline.
type OfferService interface {
	// Normalize normalizes a raw provider payload supplied by the caller.
	Normalize(ctx context.Context, raw []byte) (model.OfferResult, error)
	// Search fetches a payload from the provider, archives it and normalizes it.
	Search(ctx context.Context, q model.SearchQuery) (model.OfferResult, error)
	// Confirm passes a confirmed offer through and re-derives its grand total.
	Confirm(ctx context.Context, raw []byte) (model.ConfirmResult, error)
	// Replay normalizes an archived payload again.
	Replay(ctx context.Context, payloadID string) (model.OfferResult, error)
	// Payload returns archived payload metadata.
	Payload(ctx context.Context, payloadID string) (*repository.PayloadDocument, error)
	// RecentPayloads lists archived payloads for a query, newest first.
	RecentPayloads(ctx context.Context, q *model.SearchQuery, limit int) ([]repository.PayloadDocument, error)
}

// OfferOption configures an OfferServiceImpl.
type OfferOption func(*OfferServiceImpl)

// WithNormalizer replaces the default pipeline.
func WithNormalizer(n *fare.Normalizer) OfferOption {
	return func(s *OfferServiceImpl) {
		s.normalizer = n
	}
}

// WithFetcher enables Search.
func WithFetcher(f PayloadFetcher) OfferOption {
	return func(s *OfferServiceImpl) {
		s.fetcher = f
	}
}

// WithArchive enables payload archiving and Replay.
func WithArchive(repo repository.PayloadsRepositoryInterface) OfferOption {
	return func(s *OfferServiceImpl) {
		s.archive = repo
	}
}

// WithPublisher sets the event publisher.
func WithPublisher(p events.Publisher) OfferOption {
	return func(s *OfferServiceImpl) {
		s.publisher = p
	}
}

// OfferServiceImpl implements OfferService.
type OfferServiceImpl struct {
	normalizer *fare.Normalizer
	fetcher    PayloadFetcher
	archive    repository.PayloadsRepositoryInterface
	publisher  events.Publisher
}

// NewOfferService creates an offer service. Without options it can only
// normalize caller supplied payloads.
func NewOfferService(opts ...OfferOption) *OfferServiceImpl {
	s := &OfferServiceImpl{}
	for _, opt := range opts {
		opt(s)
	}
	if s.normalizer == nil {
		s.normalizer = fare.NewNormalizer()
	}
	if s.publisher == nil {
		s.publisher = events.NoopPublisher{}
	}
	return s
}

// Normalize implements OfferService.
func (s *OfferServiceImpl) Normalize(ctx context.Context, raw []byte) (model.OfferResult, error) {
	if err := ctx.Err(); err != nil {
		return model.OfferResult{}, err
	}

	start := time.Now()
	p, err := fare.DecodePayload(raw)
	if err != nil {
		metrics.RecordNormalization(time.Since(start), statusInvalid, 0)
		return model.OfferResult{}, fmt.Errorf("%w: %w", ErrInvalidPayload, err)
	}
	return s.normalize(ctx, p, "", start), nil
}

// Search implements OfferService.
func (s *OfferServiceImpl) Search(ctx context.Context, q model.SearchQuery) (model.OfferResult, error) {
	if s.fetcher == nil {
		return model.OfferResult{}, provider.ErrNotConfigured
	}
	q = canonicalQuery(q)

	resp, err := s.fetcher.Search(ctx, q)
	if err != nil {
		return model.OfferResult{}, err
	}

	payloadID := s.archivePayload(ctx, q, resp)
	return s.normalizeBytes(ctx, resp.Body, payloadID), nil
}

// Confirm implements OfferService.
func (s *OfferServiceImpl) Confirm(ctx context.Context, raw []byte) (model.ConfirmResult, error) {
	if err := ctx.Err(); err != nil {
		return model.ConfirmResult{}, err
	}

	confirmed, err := fare.DecodeConfirmedOffer(raw)
	if err == nil {
		err = confirmed.Validate()
	}
	if err != nil {
		return model.ConfirmResult{}, fmt.Errorf("%w: %w", ErrInvalidPayload, err)
	}

	report := s.normalizer.NormalizePayload(confirmed)
	offer := report.Offers[0]
	result := model.ConfirmResult{
		Offer:           offer,
		RecomputedTotal: fare.RecomputeTotal(offer),
	}

	log := logger.FromContext(ctx)
	if err := fare.VerifyTotal(offer); err != nil {
		log.Warn().Err(err).Str("offer_id", offer.ID).Msg("Confirmed offer total does not match its price lines")
	} else {
		result.TotalMatches = true
	}

	s.publish(ctx, events.NewEvent(events.TypePriceConfirmed, offer.ID, events.PriceConfirmed{
		OfferID:         offer.ID,
		Currency:        offer.Price.Currency,
		GrandTotal:      offer.Price.GrandTotal,
		RecomputedTotal: result.RecomputedTotal,
		TotalMatches:    result.TotalMatches,
		Expired:         offer.Expired,
	}))
	return result, nil
}

// Replay implements OfferService.
func (s *OfferServiceImpl) Replay(ctx context.Context, payloadID string) (model.OfferResult, error) {
	doc, err := s.Payload(ctx, payloadID)
	if err != nil {
		return model.OfferResult{}, err
	}
	return s.normalizeBytes(ctx, doc.Body, doc.ID.Hex()), nil
}

// Payload implements OfferService.
func (s *OfferServiceImpl) Payload(ctx context.Context, payloadID string) (*repository.PayloadDocument, error) {
	if s.archive == nil {
		return nil, ErrArchiveNotConfigured
	}
	return s.archive.GetByID(ctx, payloadID)
}

// RecentPayloads implements OfferService. A nil query lists every payload.
func (s *OfferServiceImpl) RecentPayloads(ctx context.Context, q *model.SearchQuery, limit int) ([]repository.PayloadDocument, error) {
	if s.archive == nil {
		return nil, ErrArchiveNotConfigured
	}
	cacheKey := ""
	if q != nil {
		cacheKey = provider.CacheKey(canonicalQuery(*q))
	}
	return s.archive.ListRecent(ctx, cacheKey, limit)
}

// normalizeBytes normalizes a provider-originated payload. Undecodable
// payloads yield an empty result rather than an error.
func (s *OfferServiceImpl) normalizeBytes(ctx context.Context, raw []byte, payloadID string) model.OfferResult {
	start := time.Now()
	p, err := fare.DecodePayload(raw)
	if err != nil {
		logger.FromContext(ctx).Warn().Err(err).Str("payload_id", payloadID).Msg("Provider payload could not be decoded")
		metrics.RecordNormalization(time.Since(start), statusInvalid, 0)
		return model.OfferResult{Offers: []model.Offer{}, PayloadID: payloadID}
	}
	return s.normalize(ctx, p, payloadID, start)
}

func (s *OfferServiceImpl) normalize(ctx context.Context, p fare.Payload, payloadID string, start time.Time) model.OfferResult {
	report := s.normalizer.NormalizePayload(p)

	status := statusSuccess
	if len(report.Offers) == 0 {
		status = statusEmpty
	}
	metrics.RecordNormalization(time.Since(start), status, len(report.Offers))
	for _, skip := range report.Skipped {
		metrics.RecordSkippedSolution(skip.Reason)
	}

	logger.FromContext(ctx).Debug().
		Str("payload_id", payloadID).
		Int("solutions", report.Solutions).
		Int("offers", len(report.Offers)).
		Int("skipped", len(report.Skipped)).
		Bool("confirmed", report.Confirmed).
		Msg("Payload normalized")

	if !report.Confirmed {
		key := payloadID
		if key == "" {
			key = "inline"
		}
		s.publish(ctx, events.NewEvent(events.TypeOffersNormalized, key, events.OffersNormalized{
			PayloadID: payloadID,
			Solutions: report.Solutions,
			Offers:    len(report.Offers),
			Skipped:   len(report.Skipped),
		}))
	}

	return model.OfferResult{
		Offers:    report.Offers,
		Solutions: report.Solutions,
		Skipped:   len(report.Skipped),
		PayloadID: payloadID,
	}
}

// archivePayload stores freshly fetched payloads. Archiving is best effort:
// failures are logged and the search continues without a payload id.
func (s *OfferServiceImpl) archivePayload(ctx context.Context, q model.SearchQuery, resp *provider.Response) string {
	if s.archive == nil || resp.FromCache {
		return ""
	}

	doc := &repository.PayloadDocument{
		CacheKey:  resp.CacheKey,
		Query:     q,
		Body:      resp.Body,
		FetchedAt: resp.FetchedAt,
	}
	if err := s.archive.Save(ctx, doc); err != nil {
		logger.FromContext(ctx).Warn().Err(err).Str("cache_key", resp.CacheKey).Msg("Failed to archive provider payload")
		return ""
	}
	return doc.ID.Hex()
}

// publish delivers e. Event delivery never fails the request.
func (s *OfferServiceImpl) publish(ctx context.Context, e events.Event) {
	if err := s.publisher.Publish(ctx, e); err != nil {
		logger.FromContext(ctx).Warn().Err(err).Str("event_type", string(e.Type)).Msg("Failed to publish event")
	}
}

func canonicalQuery(q model.SearchQuery) model.SearchQuery {
	q.Origin = strings.ToUpper(strings.TrimSpace(q.Origin))
	q.Destination = strings.ToUpper(strings.TrimSpace(q.Destination))
	q.CabinClass = strings.ToUpper(strings.TrimSpace(q.CabinClass))
	return q
}
