package fare

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seg(id string) RawSegment {
	return RawSegment{ID: Text(id)}
}

func solutionWith(journeys ...Journey) *PricingSolution {
	return &PricingSolution{Key: "S1", Journeys: Journeys(journeys)}
}

func TestResolve(t *testing.T) {
	payload := &SolutionsPayload{
		Flights: []RawFlight{
			{ID: "F1", SegmentIDs: []string{"A", "B"}},
			{ID: "F2", SegmentIDs: []string{"C", "MISSING", "D"}},
			{ID: "F3", SegmentIDs: []string{"GHOST"}},
		},
		Segments: []RawSegment{seg("A"), seg("B"), seg("C"), seg("D")},
	}
	idx := NewPayloadIndex(payload)

	tests := []struct {
		name        string
		sol         *PricingSolution
		wantErr     error
		wantIDs     []string
		wantFlights []string
	}{
		{
			name:        "concatenates journeys in order",
			sol:         solutionWith(Journey{Key: "out", FlightIDs: []string{"F1"}}, Journey{Key: "in", FlightIDs: []string{"F2"}}),
			wantIDs:     []string{"A", "B", "C", "D"},
			wantFlights: []string{"F1", "F1", "F2", "F2"},
		},
		{
			name:        "reversed journey order reverses the trip",
			sol:         solutionWith(Journey{Key: "in", FlightIDs: []string{"F2"}}, Journey{Key: "out", FlightIDs: []string{"F1"}}),
			wantIDs:     []string{"C", "D", "A", "B"},
			wantFlights: []string{"F2", "F2", "F1", "F1"},
		},
		{
			name:        "unknown flights are dropped",
			sol:         solutionWith(Journey{Key: "out", FlightIDs: []string{"NOPE", "F1"}}),
			wantIDs:     []string{"A", "B"},
			wantFlights: []string{"F1", "F1"},
		},
		{
			name:    "no journeys",
			sol:     solutionWith(),
			wantErr: ErrNoFlights,
		},
		{
			name:    "empty journey lists",
			sol:     solutionWith(Journey{Key: "out"}),
			wantErr: ErrNoFlights,
		},
		{
			name:    "only unknown flights",
			sol:     solutionWith(Journey{Key: "out", FlightIDs: []string{"NOPE"}}),
			wantErr: ErrNoSegments,
		},
		{
			name:    "only unresolvable segments",
			sol:     solutionWith(Journey{Key: "out", FlightIDs: []string{"F3"}}),
			wantErr: ErrNoSegments,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			trip, err := Resolve(idx, tt.sol)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, trip)
				return
			}
			require.NoError(t, err)

			var ids, flights []string
			for i, s := range trip.Segments {
				assert.Equal(t, i+1, s.Position)
				ids = append(ids, s.Segment.ID.String())
				flights = append(flights, s.FlightID)
			}
			assert.Equal(t, tt.wantIDs, ids)
			assert.Equal(t, tt.wantFlights, flights)
			assert.Len(t, trip.Positions, len(tt.wantIDs))
		})
	}
}

func TestNewPayloadIndex_FirstOccurrenceWins(t *testing.T) {
	payload := &SolutionsPayload{
		Flights: []RawFlight{
			{ID: "F1", SegmentIDs: []string{"A"}},
			{ID: "F1", SegmentIDs: []string{"B"}},
			{ID: ""},
		},
		Segments: []RawSegment{
			{ID: "A", Origin: "JFK"},
			{ID: "A", Origin: "LAX"},
		},
	}
	idx := NewPayloadIndex(payload)

	f, ok := idx.Flight("F1")
	require.True(t, ok)
	assert.Equal(t, []string{"A"}, f.SegmentIDs)

	s, ok := idx.Segment("A")
	require.True(t, ok)
	assert.Equal(t, Text("JFK"), s.Origin)

	_, ok = idx.Flight("")
	assert.False(t, ok)
}

func TestPositionIndex(t *testing.T) {
	a, b, c := seg("A"), seg("B"), seg("C")
	segments := []ResolvedSegment{
		{Position: 1, Segment: &a},
		{Position: 2, Segment: &b},
		{Position: 3, Segment: &c},
	}
	idx := NewPositionIndex(segments)

	t.Run("is one based", func(t *testing.T) {
		_, ok := idx.Lookup(0)
		assert.False(t, ok)
		id, ok := idx.Lookup(1)
		assert.True(t, ok)
		assert.Equal(t, "A", id)
		id, ok = idx.Lookup(3)
		assert.True(t, ok)
		assert.Equal(t, "C", id)
	})

	t.Run("translates first and third positions only", func(t *testing.T) {
		got := idx.Translate([]Number{NumberOf(1), NumberOf(3)})
		assert.Equal(t, []string{"A", "C"}, got)
	})

	t.Run("drops out of range, invalid and duplicate positions", func(t *testing.T) {
		got := idx.Translate([]Number{NumberOf(4), {}, NumberOf(2), NumberOf(2), NumberOf(-1)})
		assert.Equal(t, []string{"B"}, got)
	})

	t.Run("is rebuilt per trip order", func(t *testing.T) {
		reversed := NewPositionIndex([]ResolvedSegment{{Segment: &c}, {Segment: &b}, {Segment: &a}})
		id, _ := reversed.Lookup(1)
		assert.Equal(t, "C", id)
		id, _ = idx.Lookup(1)
		assert.Equal(t, "A", id)
	})
}
