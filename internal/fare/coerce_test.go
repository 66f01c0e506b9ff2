package fare

import (
	"encoding/json"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNumber_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		wantValid bool
		want      float64
	}{
		{name: "integer", input: `12`, wantValid: true, want: 12},
		{name: "decimal", input: `12.34`, wantValid: true, want: 12.34},
		{name: "numeric string", input: `"99.5"`, wantValid: true, want: 99.5},
		{name: "padded numeric string", input: `" 7 "`, wantValid: true, want: 7},
		{name: "null", input: `null`, wantValid: false},
		{name: "empty string", input: `""`, wantValid: false},
		{name: "non numeric string", input: `"abc"`, wantValid: false},
		{name: "NaN string", input: `"NaN"`, wantValid: false},
		{name: "object", input: `{"a":1}`, wantValid: false},
		{name: "boolean", input: `true`, wantValid: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var n Number
			require.NoError(t, json.Unmarshal([]byte(tt.input), &n))
			assert.Equal(t, tt.wantValid, n.Valid())
			assert.InDelta(t, tt.want, n.Float(), 1e-9)
		})
	}
}

func TestNumber_Count(t *testing.T) {
	assert.Equal(t, 3, NumberOf(3.9).Count())
	assert.Equal(t, 1, NumberOf(1.5).Count(), "fractions truncate")
	assert.Equal(t, 0, NumberOf(0.7).Count())
	assert.Equal(t, 0, NumberOf(-2).Count())
	assert.Equal(t, MaxCount, NumberOf(1e20).Count())
	assert.Equal(t, 0, Number{}.Count())
	assert.Nil(t, Number{}.IntPtr())
	assert.Nil(t, Number{}.FloatPtr())

	code := NumberOf(4).IntPtr()
	require.NotNil(t, code)
	assert.Equal(t, 4, *code)
}

func TestNumber_InsideStruct(t *testing.T) {
	var sol PricingSolution
	err := json.Unmarshal([]byte(`{"adults":"2","adtFare":"100.10","adtTax":null,"tktFee":"oops"}`), &sol)
	require.NoError(t, err)

	assert.Equal(t, 2, sol.Adults.Count())
	assert.InDelta(t, 100.10, sol.AdultFare.Float(), 1e-9)
	assert.False(t, sol.AdultTax.Valid())
	assert.False(t, sol.TicketingFee.Valid())
}

func TestText_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  Text
	}{
		{name: "string", input: `"BA"`, want: "BA"},
		{name: "trimmed string", input: `"  178 "`, want: "178"},
		{name: "number", input: `178`, want: "178"},
		{name: "null", input: `null`, want: ""},
		{name: "array", input: `["x"]`, want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got Text
			require.NoError(t, json.Unmarshal([]byte(tt.input), &got))
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFlag_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		input string
		want  Flag
	}{
		{input: `true`, want: true},
		{input: `false`, want: false},
		{input: `"true"`, want: true},
		{input: `"Y"`, want: true},
		{input: `1`, want: true},
		{input: `0`, want: false},
		{input: `null`, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			var got Flag
			require.NoError(t, json.Unmarshal([]byte(tt.input), &got))
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTimestamp_UnmarshalJSON(t *testing.T) {
	want := time.Date(2025, 3, 1, 10, 30, 0, 0, time.UTC)
	ms := want.UnixMilli()

	tests := []struct {
		name      string
		input     string
		wantValid bool
	}{
		{name: "epoch millis number", input: `1740825000000`, wantValid: true},
		{name: "epoch millis string", input: `"1740825000000"`, wantValid: true},
		{name: "RFC3339", input: `"2025-03-01T10:30:00Z"`, wantValid: true},
		{name: "RFC3339 with offset", input: `"2025-03-01T11:30:00+01:00"`, wantValid: true},
		{name: "local layout", input: `"2025-03-01 10:30:00"`, wantValid: true},
		{name: "null", input: `null`, wantValid: false},
		{name: "garbage", input: `"tomorrow"`, wantValid: false},
	}

	require.Equal(t, int64(1740825000000), ms)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var ts Timestamp
			require.NoError(t, json.Unmarshal([]byte(tt.input), &ts))
			assert.Equal(t, tt.wantValid, ts.Valid())
			if tt.wantValid {
				assert.True(t, want.Equal(ts.Time()), "got %s", ts.Time())
				assert.Equal(t, time.UTC, ts.Time().Location())
				require.NotNil(t, ts.Ptr())
			} else {
				assert.True(t, ts.Time().IsZero())
				assert.Nil(t, ts.Ptr())
			}
		})
	}
}

func TestCents(t *testing.T) {
	assert.Equal(t, int64(1999), cents(19.99))
	assert.Equal(t, int64(30), cents(0.1+0.2))
	assert.Equal(t, int64(-150), cents(-1.5))
	assert.Equal(t, int64(math.MaxInt64), cents(1e17))
	assert.Equal(t, int64(math.MinInt64), cents(-1e300))
	assert.Equal(t, int64(0), cents(math.NaN()))
	assert.InDelta(t, 12.34, amount(1234), 1e-9)
}
