package fare

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/guttosm/fare-offer-service/internal/domain/model"
)

var (
	// ErrMalformedPayload is returned when the payload is not a JSON object.
	ErrMalformedPayload = errors.New("malformed provider payload")
	// ErrNotConfirmedOffer is returned when a confirmed offer was expected.
	ErrNotConfirmedOffer = errors.New("payload is not a confirmed offer")
	// ErrIncompleteOffer is returned for a confirmed offer without segments or a price.
	ErrIncompleteOffer = errors.New("confirmed offer has no segments or no price")
)

// precisePricingType tags a provider response that already holds a single confirmed offer.
const precisePricingType = "precisePricing"

// segmentIDAliases lists the accepted names for a flight's segment list in
// priority order. The second entry is a misspelling some providers emit.
var segmentIDAliases = []string{"segmentIds", "segementIds"}

// lookupAlias returns the first field among names that is present and non-empty.
func lookupAlias(fields map[string]json.RawMessage, names []string) json.RawMessage {
	for _, name := range names {
		raw, ok := fields[name]
		if !ok || isEmptyJSON(raw) {
			continue
		}
		return raw
	}
	return nil
}

// isEmptyJSON reports whether raw is absent, null, or an empty array,
// object or string. Whitespace inside the value does not count.
func isEmptyJSON(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, nullLiteral) {
		return true
	}

	var v any
	if err := json.Unmarshal(trimmed, &v); err != nil {
		return false
	}
	switch v := v.(type) {
	case []any:
		return len(v) == 0
	case map[string]any:
		return len(v) == 0
	case string:
		return strings.TrimSpace(v) == ""
	}
	return false
}

// decodeLenient decodes data into v and tolerates type mismatches on
// individual fields. Only syntax errors are reported.
func decodeLenient(data []byte, v any) error {
	err := json.Unmarshal(data, v)
	var typeErr *json.UnmarshalTypeError
	if err != nil && errors.As(err, &typeErr) {
		return nil
	}
	return err
}

// textList decodes a JSON array of identifiers, dropping empty entries.
func textList(raw json.RawMessage) []string {
	if len(raw) == 0 {
		return nil
	}
	var items []Text
	if err := decodeLenient(raw, &items); err != nil {
		return nil
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		if item != "" {
			out = append(out, item.String())
		}
	}
	return out
}

// RawFlight is a provider flight: an ordered group of segments.
type RawFlight struct {
	ID             string
	SegmentIDs     []string
	JourneyMinutes Number
	TransferCount  Number
	LastTicketing  Timestamp
}

type rawFlightFields struct {
	ID             Text      `json:"flightId"`
	JourneyMinutes Number    `json:"journeyTime"`
	TransferCount  Number    `json:"transferCount"`
	LastTicketing  Timestamp `json:"lastTktTime"`
}

// UnmarshalJSON resolves the segment list through its accepted aliases.
func (f *RawFlight) UnmarshalJSON(data []byte) error {
	var fields rawFlightFields
	if err := decodeLenient(data, &fields); err != nil {
		return err
	}
	var all map[string]json.RawMessage
	if err := decodeLenient(data, &all); err != nil {
		return err
	}

	*f = RawFlight{
		ID:             fields.ID.String(),
		SegmentIDs:     textList(lookupAlias(all, segmentIDAliases)),
		JourneyMinutes: fields.JourneyMinutes,
		TransferCount:  fields.TransferCount,
		LastTicketing:  fields.LastTicketing,
	}
	return nil
}

// RawSegment is a provider flight leg.
type RawSegment struct {
	ID                Text      `json:"segmentId"`
	Origin            Text      `json:"depAirport"`
	Destination       Text      `json:"arrAirport"`
	DepartureTerminal Text      `json:"depTerminal"`
	ArrivalTerminal   Text      `json:"arrTerminal"`
	DepartureAt       Timestamp `json:"depTime"`
	ArrivalAt         Timestamp `json:"arrTime"`
	Airline           Text      `json:"airline"`
	OperatingAirline  Text      `json:"opFltAirline"`
	FlightNumber      Text      `json:"flightNum"`
	CabinClass        Text      `json:"cabinClass"`
	BookingClass      Text      `json:"bookingCode"`
	Availability      Number    `json:"availabilityCount"`
	Equipment         Text      `json:"equipment"`
}

// Journey is one directional leg of a solution with its flight identifiers.
type Journey struct {
	Key       string
	FlightIDs []string
}

// Journeys keeps the provider's journey mapping in document order.
type Journeys []Journey

// UnmarshalJSON walks the object token by token so key order survives.
// An array of flight-id lists is accepted too, keyed by index.
func (j *Journeys) UnmarshalJSON(data []byte) error {
	*j = nil
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return nil
	}
	delim, ok := tok.(json.Delim)
	if !ok {
		return nil
	}

	switch delim {
	case '{':
		for dec.More() {
			keyTok, err := dec.Token()
			if err != nil {
				return nil
			}
			key, _ := keyTok.(string)
			var raw json.RawMessage
			if err := dec.Decode(&raw); err != nil {
				return nil
			}
			*j = append(*j, Journey{Key: key, FlightIDs: textList(raw)})
		}
	case '[':
		for i := 0; dec.More(); i++ {
			var raw json.RawMessage
			if err := dec.Decode(&raw); err != nil {
				return nil
			}
			*j = append(*j, Journey{Key: fmt.Sprintf("%d", i), FlightIDs: textList(raw)})
		}
	}
	return nil
}

// FlightIDs concatenates every journey's flight identifiers in order.
func (j Journeys) FlightIDs() []string {
	var ids []string
	for _, journey := range j {
		ids = append(ids, journey.FlightIDs...)
	}
	return ids
}

// BaggageBlock is one positional baggage entry of a solution.
type BaggageBlock struct {
	Positions     []Number `json:"segmentIndexList"`
	CheckedPieces Number   `json:"baggageAmount"`
	CheckedWeight Number   `json:"baggageWeight"`
	CarryOnPieces Number   `json:"carryOnAmount"`
	CarryOnWeight Number   `json:"carryOnWeight"`
	CarryOnSize   Text     `json:"carryOnSize"`
}

// RuleBlock is one positional fare-rule entry of a solution.
type RuleBlock struct {
	Positions   []Number `json:"segmentIndexList"`
	PenaltyType Number   `json:"penaltyType"`
	Amount      Number   `json:"penaltyAmount"`
	Currency    Text     `json:"currency"`
	Remark      Text     `json:"remark"`
}

// PricingSolution is one priced combination of flights.
type PricingSolution struct {
	Key                Text                      `json:"solutionKey"`
	Journeys           Journeys                  `json:"journeys"`
	Adults             Number                    `json:"adults"`
	Children           Number                    `json:"children"`
	Infants            Number                    `json:"infants"`
	AdultFare          Number                    `json:"adtFare"`
	AdultTax           Number                    `json:"adtTax"`
	ChildFare          Number                    `json:"chdFare"`
	ChildTax           Number                    `json:"chdTax"`
	InfantFare         Number                    `json:"infFare"`
	InfantTax          Number                    `json:"infTax"`
	QueueCharge        Number                    `json:"qCharge"`
	TicketingFee       Number                    `json:"tktFee"`
	PlatformServiceFee Number                    `json:"platformServiceFee"`
	MerchantFee        Number                    `json:"merchantFee"`
	Currency           Text                      `json:"currency"`
	Baggage            map[string][]BaggageBlock `json:"baggageMap"`
	Rules              map[string][]RuleBlock    `json:"miniRuleMap"`
	PlatingCarrier     Text                      `json:"platingCarrier"`
	FareType           Text                      `json:"fareType"`
	Categories         map[string]Flag           `json:"categoryFlags"`
	PaidBag            Flag                      `json:"paidBag"`
	PaidSeat           Flag                      `json:"paidSeat"`
}

// passengerTypeFromKey maps a provider passenger key onto a passenger type.
func passengerTypeFromKey(key string) (model.PassengerType, bool) {
	switch strings.ToUpper(strings.TrimSpace(key)) {
	case "ADT", "ADULT":
		return model.PassengerAdult, true
	case "CHD", "CHILD", "CNN":
		return model.PassengerChild, true
	case "INF", "INFANT":
		return model.PassengerInfant, true
	}
	return "", false
}

// Payload is a decoded provider payload: *SolutionsPayload or *ConfirmedOffer.
type Payload interface {
	payload()
}

// SolutionsPayload is a list of solutions plus the shared flight and segment pools.
type SolutionsPayload struct {
	Flights   []RawFlight
	Segments  []RawSegment
	Solutions []PricingSolution
}

// ConfirmedOffer is a single offer already normalized upstream.
type ConfirmedOffer struct {
	Offer model.Offer
}

// Validate reports ErrIncompleteOffer when the offer decoded without
// segments or without a positive grand total, which is what an offer sent
// with unrecognized field names looks like.
func (c *ConfirmedOffer) Validate() error {
	if len(c.Offer.Segments) == 0 || cents(c.Offer.Price.GrandTotal) <= 0 {
		return ErrIncompleteOffer
	}
	return nil
}

func (*SolutionsPayload) payload() {}
func (*ConfirmedOffer) payload()   {}

// DecodePayload decodes a provider response into its tagged variant.
// Elements that fail to decode are dropped individually.
func DecodePayload(data []byte) (Payload, error) {
	fields, err := decodeObject(data)
	if err != nil {
		return nil, err
	}

	if !hasAnyField(fields, "flights", "segments", "solutions", "offer", "type") {
		if inner, ok := fields["data"]; ok {
			if innerFields, err := decodeObject(inner); err == nil {
				fields = innerFields
				data = inner
			}
		}
	}

	if isConfirmed(fields) {
		return decodeConfirmed(data, fields)
	}

	p := &SolutionsPayload{}
	p.Flights = decodeEach[RawFlight](fields["flights"])
	p.Segments = decodeEach[RawSegment](fields["segments"])
	p.Solutions = decodeEach[PricingSolution](fields["solutions"])
	return p, nil
}

// DecodeConfirmedOffer decodes a payload that must hold a confirmed offer.
func DecodeConfirmedOffer(data []byte) (*ConfirmedOffer, error) {
	p, err := DecodePayload(data)
	if err != nil {
		return nil, err
	}
	confirmed, ok := p.(*ConfirmedOffer)
	if !ok {
		return nil, ErrNotConfirmedOffer
	}
	return confirmed, nil
}

func decodeObject(data []byte) (map[string]json.RawMessage, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || data[0] != '{' {
		return nil, ErrMalformedPayload
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}
	return fields, nil
}

func hasAnyField(fields map[string]json.RawMessage, names ...string) bool {
	for _, name := range names {
		if _, ok := fields[name]; ok {
			return true
		}
	}
	return false
}

func isConfirmed(fields map[string]json.RawMessage) bool {
	if raw, ok := fields["offer"]; ok && !isEmptyJSON(raw) {
		return true
	}
	var tag Text
	if raw, ok := fields["type"]; ok {
		_ = tag.UnmarshalJSON(raw)
	}
	return strings.EqualFold(tag.String(), precisePricingType)
}

func decodeConfirmed(data []byte, fields map[string]json.RawMessage) (*ConfirmedOffer, error) {
	source := data
	if raw, ok := fields["offer"]; ok && !isEmptyJSON(raw) {
		source = raw
	}
	var offer model.Offer
	if err := json.Unmarshal(source, &offer); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}
	return &ConfirmedOffer{Offer: offer}, nil
}

// decodeEach decodes every element of a JSON array, skipping elements that
// are not valid objects.
func decodeEach[T any](raw json.RawMessage) []T {
	if len(raw) == 0 {
		return nil
	}
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil
	}
	out := make([]T, 0, len(items))
	for _, item := range items {
		trimmed := bytes.TrimSpace(item)
		if len(trimmed) == 0 || trimmed[0] != '{' {
			continue
		}
		var v T
		if err := decodeLenient(trimmed, &v); err != nil {
			continue
		}
		out = append(out, v)
	}
	return out
}
