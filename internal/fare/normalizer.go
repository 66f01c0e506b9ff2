package fare

import (
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/guttosm/fare-offer-service/internal/domain/model"
	"github.com/guttosm/fare-offer-service/internal/logger"
)

// Skip reasons reported for solutions that produced no offer.
const (
	SkipReasonNoFlights  = "no_flights"
	SkipReasonNoSegments = "no_segments"
	SkipReasonOther      = "unresolvable"
)

// Normalizer turns provider payloads into offers. It holds no per-payload
// state and is safe for concurrent use.
type Normalizer struct {
	assembler *Assembler
	now       func() time.Time
	logger    *zerolog.Logger
}

// Option configures a Normalizer.
type Option func(*Normalizer)

// WithClock sets the clock used for the ticketing-deadline expiry flag.
func WithClock(now func() time.Time) Option {
	return func(n *Normalizer) {
		n.now = now
	}
}

// WithLogger sets the logger used for skip diagnostics.
func WithLogger(l zerolog.Logger) Option {
	return func(n *Normalizer) {
		n.logger = &l
	}
}

// NewNormalizer creates a Normalizer.
func NewNormalizer(opts ...Option) *Normalizer {
	n := &Normalizer{now: time.Now}
	for _, opt := range opts {
		opt(n)
	}
	n.assembler = NewAssembler(n.now)
	return n
}

// Skip records a solution that produced no offer.
type Skip struct {
	SolutionKey string
	Reason      string
	Err         error
}

// Report is the detailed outcome of normalizing one payload.
type Report struct {
	Offers    []model.Offer
	Solutions int
	Skipped   []Skip
	Confirmed bool
}

// Normalize decodes and normalizes a raw provider payload. It never fails:
// a malformed or empty payload yields an empty slice.
func (n *Normalizer) Normalize(data []byte) []model.Offer {
	p, err := DecodePayload(data)
	if err != nil {
		n.log().Debug().Err(err).Msg("Discarding undecodable provider payload")
		return []model.Offer{}
	}
	return n.NormalizePayload(p).Offers
}

// NormalizePayload normalizes an already decoded payload. A confirmed offer
// is passed through untouched; every solution of a solutions payload is
// resolved and assembled independently.
func (n *Normalizer) NormalizePayload(p Payload) Report {
	switch v := p.(type) {
	case *ConfirmedOffer:
		if err := v.Validate(); err != nil {
			n.log().Debug().Err(err).Str("offer_id", v.Offer.ID).Msg("Passing through incomplete confirmed offer")
		}
		return Report{Offers: []model.Offer{v.Offer}, Confirmed: true}
	case *SolutionsPayload:
		return n.normalizeSolutions(v)
	default:
		return Report{Offers: []model.Offer{}}
	}
}

func (n *Normalizer) normalizeSolutions(p *SolutionsPayload) Report {
	report := Report{
		Offers:    make([]model.Offer, 0, len(p.Solutions)),
		Solutions: len(p.Solutions),
	}
	idx := NewPayloadIndex(p)

	for i := range p.Solutions {
		sol := &p.Solutions[i]
		key := sol.Key.String()
		if key == "" {
			key = fmt.Sprintf("solution-%d", i+1)
		}

		trip, err := Resolve(idx, sol)
		if err != nil {
			skip := Skip{SolutionKey: key, Reason: skipReason(err), Err: err}
			report.Skipped = append(report.Skipped, skip)
			n.log().Debug().
				Str("solution_key", skip.SolutionKey).
				Str("reason", skip.Reason).
				Msg("Skipping unresolvable solution")
			continue
		}
		offer := n.assembler.Assemble(trip, sol)
		offer.ID = key
		report.Offers = append(report.Offers, offer)
	}
	return report
}

func (n *Normalizer) log() *zerolog.Logger {
	if n.logger != nil {
		return n.logger
	}
	l := logger.Logger()
	return &l
}

func skipReason(err error) string {
	switch {
	case errors.Is(err, ErrNoFlights):
		return SkipReasonNoFlights
	case errors.Is(err, ErrNoSegments):
		return SkipReasonNoSegments
	default:
		return SkipReasonOther
	}
}
