package fare

import (
	"maps"
	"slices"
	"time"

	"github.com/guttosm/fare-offer-service/internal/domain/model"
)

// Assembler builds offers from resolved trips.
type Assembler struct {
	now func() time.Time
}

// NewAssembler creates an assembler that reads the current time from now.
// A nil now falls back to time.Now.
func NewAssembler(now func() time.Time) *Assembler {
	if now == nil {
		now = time.Now
	}
	return &Assembler{now: now}
}

// Assemble attaches baggage, rules and prices to a resolved trip and
// derives the trip-level fields. Every map and slice of the returned offer
// is freshly allocated.
func (a *Assembler) Assemble(trip *ResolvedTrip, sol *PricingSolution) model.Offer {
	offer := model.Offer{
		ID:             sol.Key.String(),
		Segments:       buildSegments(trip),
		Passengers:     sol.passengers(),
		Baggage:        AttachBaggage(sol, trip.Positions),
		Rules:          AttachRules(sol, trip.Positions),
		Price:          ComputePrice(sol),
		PlatingCarrier: sol.PlatingCarrier.String(),
		FareType:       sol.FareType.String(),
		Categories:     categories(sol.Categories),
		Ancillaries: model.Ancillaries{
			PaidBag:  bool(sol.PaidBag),
			PaidSeat: bool(sol.PaidSeat),
		},
	}

	first := offer.Segments[0]
	last := offer.Segments[len(offer.Segments)-1]
	offer.Origin = first.Origin
	offer.Destination = last.Destination
	offer.DepartureAt = first.DepartureAt
	offer.ArrivalAt = last.ArrivalAt
	offer.Stops = max(len(offer.Segments)-1, 0)
	offer.Terminals = model.Terminals{
		Departure: first.DepartureTerminal,
		Arrival:   last.ArrivalTerminal,
	}
	offer.MarketingCarriers, offer.OperatingCarriers = carriers(offer.Segments)

	for _, f := range trip.Flights {
		offer.JourneyMinutes += f.JourneyMinutes.Count()
		offer.TransferCount += f.TransferCount.Count()
	}
	if len(trip.Flights) > 0 {
		offer.LastTicketingAt = trip.Flights[0].LastTicketing.Ptr()
	}
	offer.Expired = offer.LastTicketingAt != nil && offer.LastTicketingAt.Before(a.now())

	return offer
}

func buildSegments(trip *ResolvedTrip) []model.Segment {
	segments := make([]model.Segment, 0, len(trip.Segments))
	for _, rs := range trip.Segments {
		s := rs.Segment
		segments = append(segments, model.Segment{
			ID:                s.ID.String(),
			FlightID:          rs.FlightID,
			Origin:            s.Origin.String(),
			Destination:       s.Destination.String(),
			DepartureTerminal: s.DepartureTerminal.String(),
			ArrivalTerminal:   s.ArrivalTerminal.String(),
			DepartureAt:       s.DepartureAt.Time(),
			ArrivalAt:         s.ArrivalAt.Time(),
			MarketingCarrier:  s.Airline.String(),
			OperatingCarrier:  s.OperatingAirline.String(),
			FlightNumber:      s.FlightNumber.String(),
			CabinClass:        s.CabinClass.String(),
			BookingClass:      s.BookingClass.String(),
			SeatsAvailable:    s.Availability.Count(),
			Equipment:         s.Equipment.String(),
		})
	}
	return segments
}

// carriers returns the de-duplicated marketing carriers in first-seen order
// and one operating carrier per segment. The operating entry is nil when the
// marketing carrier operates the segment itself.
func carriers(segments []model.Segment) ([]string, []*string) {
	marketing := make([]string, 0, len(segments))
	operating := make([]*string, 0, len(segments))
	seen := make(map[string]struct{}, len(segments))

	for _, s := range segments {
		if s.MarketingCarrier != "" {
			if _, ok := seen[s.MarketingCarrier]; !ok {
				seen[s.MarketingCarrier] = struct{}{}
				marketing = append(marketing, s.MarketingCarrier)
			}
		}
		if s.OperatingCarrier == "" || s.OperatingCarrier == s.MarketingCarrier {
			operating = append(operating, nil)
			continue
		}
		code := s.OperatingCarrier
		operating = append(operating, &code)
	}
	return marketing, operating
}

// AttachBaggage keys a solution's positional baggage blocks by segment
// identifier. Every passenger type gets a record, empty when the solution
// has no baggage for it.
func AttachBaggage(sol *PricingSolution, positions PositionIndex) map[model.PassengerType]model.BaggageAllowance {
	out := make(map[model.PassengerType]model.BaggageAllowance, len(model.PassengerTypes))
	for _, pt := range model.PassengerTypes {
		out[pt] = model.NewBaggageAllowance()
	}

	for _, key := range slices.Sorted(maps.Keys(sol.Baggage)) {
		pt, ok := passengerTypeFromKey(key)
		if !ok {
			continue
		}
		allowance := out[pt]
		for _, block := range sol.Baggage[key] {
			for _, id := range positions.Translate(block.Positions) {
				allowance.CheckedBySegment[id] = model.CheckedBaggage{
					Pieces:   block.CheckedPieces.Count(),
					WeightKg: block.CheckedWeight.Float(),
				}
				allowance.CarryOnBySegment[id] = model.CarryOnBaggage{
					Pieces:   block.CarryOnPieces.Count(),
					WeightKg: block.CarryOnWeight.Float(),
					Size:     block.CarryOnSize.String(),
				}
			}
		}
	}
	return out
}

// AttachRules keys a solution's positional fare rules by segment identifier
// groups. Blocks whose positions all fall outside the trip are skipped.
func AttachRules(sol *PricingSolution, positions PositionIndex) map[model.PassengerType][]model.FareRule {
	out := make(map[model.PassengerType][]model.FareRule, len(model.PassengerTypes))
	for _, pt := range model.PassengerTypes {
		out[pt] = []model.FareRule{}
	}

	for _, key := range slices.Sorted(maps.Keys(sol.Rules)) {
		pt, ok := passengerTypeFromKey(key)
		if !ok {
			continue
		}
		for _, block := range sol.Rules[key] {
			ids := positions.Translate(block.Positions)
			if len(ids) == 0 {
				continue
			}
			code := block.PenaltyType.IntPtr()
			out[pt] = append(out[pt], model.FareRule{
				SegmentIDs:  ids,
				PenaltyType: code,
				Label:       PenaltyLabel(code),
				Amount:      block.Amount.FloatPtr(),
				Currency:    block.Currency.String(),
				Remark:      block.Remark.String(),
			})
		}
	}
	return out
}

func categories(flags map[string]Flag) map[string]bool {
	if len(flags) == 0 {
		return nil
	}
	out := make(map[string]bool, len(flags))
	for name, v := range flags {
		out[name] = bool(v)
	}
	return out
}
