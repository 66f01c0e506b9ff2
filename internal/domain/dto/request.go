// Package dto defines the HTTP request and response bodies of the API.
package dto

import (
	"strings"
	"time"

	"github.com/guttosm/fare-offer-service/internal/domain/model"
	"github.com/guttosm/fare-offer-service/internal/i18n"
)

const (
	dateLayout    = "2006-01-02"
	maxPassengers = 9
)

// SearchOffersRequest asks the pricing provider for offers.
//
// @Description Provider search for a one-way or round trip
type SearchOffersRequest struct {
	Origin        string `json:"origin" binding:"required" example:"JFK"`
	Destination   string `json:"destination" binding:"required" example:"LHR"`
	DepartureDate string `json:"departure_date" binding:"required" example:"2025-07-01"`
	ReturnDate    string `json:"return_date,omitempty" example:"2025-07-15"`
	Adults        int    `json:"adults" binding:"gte=0" example:"1"`
	Children      int    `json:"children" binding:"gte=0" example:"0"`
	Infants       int    `json:"infants" binding:"gte=0" example:"0"`
	CabinClass    string `json:"cabin_class,omitempty" example:"Y"`
} // @name SearchOffersRequest

// ValidationError is a field error carrying the i18n key of its message.
type ValidationError struct {
	Field      string
	MessageKey string
}

// Error returns the English message.
func (e *ValidationError) Error() string {
	return i18n.GetTranslator().Translate(e.MessageKey, i18n.DefaultLocale)
}

// Validate checks the request beyond what binding tags cover.
func (r *SearchOffersRequest) Validate() error {
	origin := strings.TrimSpace(r.Origin)
	destination := strings.TrimSpace(r.Destination)
	if !isAirportCode(origin) || !isAirportCode(destination) || strings.EqualFold(origin, destination) {
		return &ValidationError{Field: "origin", MessageKey: i18n.ErrKeyValidationAirport}
	}

	departure, err := time.Parse(dateLayout, r.DepartureDate)
	if err != nil {
		return &ValidationError{Field: "departure_date", MessageKey: i18n.ErrKeyValidationDepartureDate}
	}
	if r.ReturnDate != "" {
		ret, err := time.Parse(dateLayout, r.ReturnDate)
		if err != nil || ret.Before(departure) {
			return &ValidationError{Field: "return_date", MessageKey: i18n.ErrKeyValidationReturnDate}
		}
	}

	if r.Adults < 1 || r.Adults+r.Children+r.Infants > maxPassengers {
		return &ValidationError{Field: "adults", MessageKey: i18n.ErrKeyValidationPassengers}
	}
	if r.Infants > r.Adults {
		return &ValidationError{Field: "infants", MessageKey: i18n.ErrKeyValidationInfants}
	}
	return nil
}

// Query converts the request into a provider query.
func (r *SearchOffersRequest) Query() model.SearchQuery {
	return model.SearchQuery{
		Origin:        r.Origin,
		Destination:   r.Destination,
		DepartureDate: r.DepartureDate,
		ReturnDate:    r.ReturnDate,
		Adults:        r.Adults,
		Children:      r.Children,
		Infants:       r.Infants,
		CabinClass:    r.CabinClass,
	}
}

func isAirportCode(s string) bool {
	if len(s) != 3 {
		return false
	}
	for _, r := range s {
		if (r < 'A' || r > 'Z') && (r < 'a' || r > 'z') {
			return false
		}
	}
	return true
}
