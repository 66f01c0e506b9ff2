// Package model defines the core domain entities for the fare offer service.
package model

import "time"

// PassengerType identifies a fare passenger category.
type PassengerType string

const (
	// PassengerAdult is the adult passenger type.
	PassengerAdult PassengerType = "ADT"
	// PassengerChild is the child passenger type.
	PassengerChild PassengerType = "CHD"
	// PassengerInfant is the infant passenger type.
	PassengerInfant PassengerType = "INF"
)

// PassengerTypes lists every passenger type in display order.
var PassengerTypes = []PassengerType{PassengerAdult, PassengerChild, PassengerInfant}

// Segment is a single resolved flight leg, tagged with the flight that owns it.
//
// @Description Resolved flight segment
type Segment struct {
	ID                string    `json:"id" example:"SEG1"`
	FlightID          string    `json:"flight_id" example:"FL1"`
	Origin            string    `json:"origin" example:"JFK"`
	Destination       string    `json:"destination" example:"LHR"`
	DepartureTerminal string    `json:"departure_terminal,omitempty" example:"4"`
	ArrivalTerminal   string    `json:"arrival_terminal,omitempty" example:"5"`
	DepartureAt       time.Time `json:"departure_at"`
	ArrivalAt         time.Time `json:"arrival_at"`
	MarketingCarrier  string    `json:"marketing_carrier" example:"BA"`
	OperatingCarrier  string    `json:"operating_carrier,omitempty" example:"AA"`
	FlightNumber      string    `json:"flight_number" example:"178"`
	CabinClass        string    `json:"cabin_class,omitempty" example:"Y"`
	BookingClass      string    `json:"booking_class,omitempty" example:"K"`
	SeatsAvailable    int       `json:"seats_available"`
	Equipment         string    `json:"equipment,omitempty" example:"777"`
}

// Passengers holds passenger counts by type.
type Passengers struct {
	Adults   int `json:"adults"`
	Children int `json:"children"`
	Infants  int `json:"infants"`
}

// Count returns the number of passengers of the given type.
func (p Passengers) Count(pt PassengerType) int {
	switch pt {
	case PassengerAdult:
		return p.Adults
	case PassengerChild:
		return p.Children
	case PassengerInfant:
		return p.Infants
	default:
		return 0
	}
}

// Total returns the number of passengers across all types.
func (p Passengers) Total() int {
	return p.Adults + p.Children + p.Infants
}

// CheckedBaggage is the checked allowance on one segment.
type CheckedBaggage struct {
	Pieces   int     `json:"pieces"`
	WeightKg float64 `json:"weight_kg"`
}

// CarryOnBaggage is the cabin allowance on one segment.
type CarryOnBaggage struct {
	Pieces   int     `json:"pieces"`
	WeightKg float64 `json:"weight_kg"`
	Size     string  `json:"size,omitempty"`
}

// BaggageAllowance holds one passenger type's allowances keyed by segment identifier.
type BaggageAllowance struct {
	CheckedBySegment map[string]CheckedBaggage `json:"checked_by_segment"`
	CarryOnBySegment map[string]CarryOnBaggage `json:"carry_on_by_segment"`
}

// NewBaggageAllowance returns an allowance with empty, non-nil maps.
func NewBaggageAllowance() BaggageAllowance {
	return BaggageAllowance{
		CheckedBySegment: make(map[string]CheckedBaggage),
		CarryOnBySegment: make(map[string]CarryOnBaggage),
	}
}

// FareRule is a penalty rule applying to a group of segments.
type FareRule struct {
	SegmentIDs  []string `json:"segment_ids"`
	PenaltyType *int     `json:"penalty_type,omitempty"`
	Label       string   `json:"label" example:"Refund"`
	Amount      *float64 `json:"amount,omitempty"`
	Currency    string   `json:"currency,omitempty"`
	Remark      string   `json:"remark,omitempty"`
}

// PassengerPrice is the price line for one passenger type.
type PassengerPrice struct {
	Count        int     `json:"count"`
	Fare         float64 `json:"fare"`
	Taxes        float64 `json:"taxes"`
	PerPassenger float64 `json:"per_passenger"`
	LineTotal    float64 `json:"line_total"`
}

// Fees holds the solution-level fee fields.
type Fees struct {
	QueueCharge        float64 `json:"queue_charge"`
	TicketingFee       float64 `json:"ticketing_fee"`
	PlatformServiceFee float64 `json:"platform_service_fee"`
	MerchantFee        float64 `json:"merchant_fee"`
}

// PriceBreakdown is the priced view of an offer.
// GrandTotal equals the sum of every LineTotal plus FeeTotal.
type PriceBreakdown struct {
	Currency   string                           `json:"currency" example:"USD"`
	Passengers map[PassengerType]PassengerPrice `json:"passengers"`
	Fees       Fees                             `json:"fees"`
	FeeTotal   float64                          `json:"fee_total"`
	GrandTotal float64                          `json:"grand_total" example:"240"`
}

// Terminals holds the trip's first departure and last arrival terminals.
type Terminals struct {
	Departure string `json:"departure,omitempty"`
	Arrival   string `json:"arrival,omitempty"`
}

// Ancillaries flags which paid extras the provider can sell for an offer.
type Ancillaries struct {
	PaidBag  bool `json:"paid_bag"`
	PaidSeat bool `json:"paid_seat"`
}

// Offer is a priced, bookable itinerary built from one pricing solution.
// Offers are values: consumers must copy before changing maps or slices.
//
// @Description Normalized fare offer
type Offer struct {
	ID                string                             `json:"id" example:"sol-1"`
	Segments          []Segment                          `json:"segments"`
	Origin            string                             `json:"origin" example:"JFK"`
	Destination       string                             `json:"destination" example:"LHR"`
	DepartureAt       time.Time                          `json:"departure_at"`
	ArrivalAt         time.Time                          `json:"arrival_at"`
	Stops             int                                `json:"stops"`
	Terminals         Terminals                          `json:"terminals"`
	Passengers        Passengers                         `json:"passengers"`
	JourneyMinutes    int                                `json:"journey_minutes"`
	TransferCount     int                                `json:"transfer_count"`
	Baggage           map[PassengerType]BaggageAllowance `json:"baggage"`
	Rules             map[PassengerType][]FareRule       `json:"rules"`
	Price             PriceBreakdown                     `json:"price"`
	MarketingCarriers []string                           `json:"marketing_carriers"`
	OperatingCarriers []*string                          `json:"operating_carriers"`
	PlatingCarrier    string                             `json:"plating_carrier,omitempty"`
	FareType          string                             `json:"fare_type,omitempty"`
	Categories        map[string]bool                    `json:"categories,omitempty"`
	LastTicketingAt   *time.Time                         `json:"last_ticketing_at,omitempty"`
	Expired           bool                               `json:"expired"`
	Ancillaries       Ancillaries                        `json:"ancillaries"`
}

// OfferResult is the outcome of normalizing one provider payload.
//
// @Description Offers normalized from a provider payload
type OfferResult struct {
	Offers    []Offer `json:"offers"`
	Solutions int     `json:"solutions"`
	Skipped   int     `json:"skipped"`
	PayloadID string  `json:"payload_id,omitempty"`
}

// ConfirmResult is the outcome of the confirm-price flow.
//
// @Description Confirmed offer with a re-derived grand total
type ConfirmResult struct {
	Offer           Offer   `json:"offer"`
	RecomputedTotal float64 `json:"recomputed_total"`
	TotalMatches    bool    `json:"total_matches"`
}

// SearchQuery describes a provider pricing search.
type SearchQuery struct {
	Origin        string `json:"origin" bson:"origin"`
	Destination   string `json:"destination" bson:"destination"`
	DepartureDate string `json:"departure_date" bson:"departure_date"`
	ReturnDate    string `json:"return_date,omitempty" bson:"return_date,omitempty"`
	Adults        int    `json:"adults" bson:"adults"`
	Children      int    `json:"children" bson:"children"`
	Infants       int    `json:"infants" bson:"infants"`
	CabinClass    string `json:"cabin_class,omitempty" bson:"cabin_class,omitempty"`
}
