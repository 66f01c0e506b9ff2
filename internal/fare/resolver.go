// Package fare normalizes provider pricing payloads into self-contained offers.
//
// A payload is a graph keyed by surrogate identifiers: solutions reference
// flights, flights reference segments, and baggage and rule blocks reference
// segments by their 1-based position in the assembled trip. The resolver
// rebuilds the ordered trip for each solution and the assembler attaches
// baggage, rules and prices to it.
package fare

import "errors"

var (
	// ErrNoFlights is returned when a solution references no flights.
	ErrNoFlights = errors.New("solution references no flights")
	// ErrNoSegments is returned when none of a solution's segments resolve.
	ErrNoSegments = errors.New("solution resolves to no segments")
)

// PayloadIndex holds identifier lookups built once per payload.
type PayloadIndex struct {
	flights  map[string]*RawFlight
	segments map[string]*RawSegment
}

// NewPayloadIndex indexes flights and segments by identifier.
// The first occurrence of a duplicated identifier wins.
func NewPayloadIndex(p *SolutionsPayload) *PayloadIndex {
	idx := &PayloadIndex{
		flights:  make(map[string]*RawFlight, len(p.Flights)),
		segments: make(map[string]*RawSegment, len(p.Segments)),
	}
	for i := range p.Flights {
		f := &p.Flights[i]
		if _, seen := idx.flights[f.ID]; f.ID != "" && !seen {
			idx.flights[f.ID] = f
		}
	}
	for i := range p.Segments {
		s := &p.Segments[i]
		id := s.ID.String()
		if _, seen := idx.segments[id]; id != "" && !seen {
			idx.segments[id] = s
		}
	}
	return idx
}

// Flight returns the flight with the given identifier.
func (idx *PayloadIndex) Flight(id string) (*RawFlight, bool) {
	f, ok := idx.flights[id]
	return f, ok
}

// Segment returns the segment with the given identifier.
func (idx *PayloadIndex) Segment(id string) (*RawSegment, bool) {
	s, ok := idx.segments[id]
	return s, ok
}

// ResolvedSegment is a segment placed in a trip and tagged with its flight.
type ResolvedSegment struct {
	Position int
	FlightID string
	Segment  *RawSegment
}

// ResolvedTrip is the ordered segment sequence of one solution.
type ResolvedTrip struct {
	Flights   []*RawFlight
	Segments  []ResolvedSegment
	Positions PositionIndex
}

// Resolve rebuilds the ordered trip of a solution. Unknown flight and
// segment identifiers are dropped; the solution fails only when nothing
// is left.
func Resolve(idx *PayloadIndex, sol *PricingSolution) (*ResolvedTrip, error) {
	flightIDs := sol.Journeys.FlightIDs()
	if len(flightIDs) == 0 {
		return nil, ErrNoFlights
	}

	trip := &ResolvedTrip{}
	for _, flightID := range flightIDs {
		flight, ok := idx.Flight(flightID)
		if !ok {
			continue
		}
		trip.Flights = append(trip.Flights, flight)
		for _, segmentID := range flight.SegmentIDs {
			segment, ok := idx.Segment(segmentID)
			if !ok {
				continue
			}
			trip.Segments = append(trip.Segments, ResolvedSegment{
				Position: len(trip.Segments) + 1,
				FlightID: flightID,
				Segment:  segment,
			})
		}
	}

	if len(trip.Segments) == 0 {
		return nil, ErrNoSegments
	}
	trip.Positions = NewPositionIndex(trip.Segments)
	return trip, nil
}

// PositionIndex maps a 1-based trip position to a segment identifier.
type PositionIndex map[int]string

// NewPositionIndex numbers segments from 1 in sequence order.
func NewPositionIndex(segments []ResolvedSegment) PositionIndex {
	idx := make(PositionIndex, len(segments))
	for i, s := range segments {
		idx[i+1] = s.Segment.ID.String()
	}
	return idx
}

// Lookup returns the segment identifier at a position.
func (p PositionIndex) Lookup(position int) (string, bool) {
	id, ok := p[position]
	return id, ok
}

// Translate maps positions to segment identifiers in the order given.
// Positions outside the trip and repeated identifiers are dropped.
func (p PositionIndex) Translate(positions []Number) []string {
	ids := make([]string, 0, len(positions))
	seen := make(map[string]struct{}, len(positions))
	for _, pos := range positions {
		if !pos.Valid() {
			continue
		}
		id, ok := p.Lookup(pos.Int())
		if !ok {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	return ids
}
