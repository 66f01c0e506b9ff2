package fare

import (
	"errors"
	"fmt"

	"github.com/guttosm/fare-offer-service/internal/domain/model"
)

// DefaultCurrency is used when a solution carries no currency code.
const DefaultCurrency = "USD"

// ErrTotalMismatch is returned when an offer's grand total does not equal
// its line totals plus fees.
var ErrTotalMismatch = errors.New("grand total does not match price lines")

// maxAmountCents bounds every amount that enters a total. Three lines at
// MaxCount passengers plus four fees stay within int64.
const maxAmountCents = 1_000_000_000_000_000

// boundedCents converts v to cents clamped to ±maxAmountCents.
func boundedCents(v float64) int64 {
	return min(max(cents(v), -maxAmountCents), maxAmountCents)
}

type passengerFare struct {
	pt    model.PassengerType
	count Number
	fare  Number
	tax   Number
}

func (sol *PricingSolution) passengerFares() []passengerFare {
	return []passengerFare{
		{model.PassengerAdult, sol.Adults, sol.AdultFare, sol.AdultTax},
		{model.PassengerChild, sol.Children, sol.ChildFare, sol.ChildTax},
		{model.PassengerInfant, sol.Infants, sol.InfantFare, sol.InfantTax},
	}
}

func (sol *PricingSolution) passengers() model.Passengers {
	return model.Passengers{
		Adults:   sol.Adults.Count(),
		Children: sol.Children.Count(),
		Infants:  sol.Infants.Count(),
	}
}

// ComputePrice prices a solution per passenger type. Amounts are summed in
// integer cents so the grand total always equals the lines plus fees.
func ComputePrice(sol *PricingSolution) model.PriceBreakdown {
	breakdown := model.PriceBreakdown{
		Currency:   sol.Currency.String(),
		Passengers: make(map[model.PassengerType]model.PassengerPrice, len(model.PassengerTypes)),
	}
	if breakdown.Currency == "" {
		breakdown.Currency = DefaultCurrency
	}

	var linesCents int64
	for _, pf := range sol.passengerFares() {
		fareCents := boundedCents(pf.fare.Float())
		taxCents := boundedCents(pf.tax.Float())
		perCents := max(boundedCents(pf.fare.Float()+pf.tax.Float()), 0)
		count := pf.count.Count()
		lineCents := perCents * int64(count)
		linesCents += lineCents

		breakdown.Passengers[pf.pt] = model.PassengerPrice{
			Count:        count,
			Fare:         amount(fareCents),
			Taxes:        amount(taxCents),
			PerPassenger: amount(perCents),
			LineTotal:    amount(lineCents),
		}
	}

	fees := [...]int64{
		boundedCents(sol.QueueCharge.Float()),
		boundedCents(sol.TicketingFee.Float()),
		boundedCents(sol.PlatformServiceFee.Float()),
		boundedCents(sol.MerchantFee.Float()),
	}
	var feeCents int64
	for _, f := range fees {
		feeCents += f
	}
	breakdown.Fees = model.Fees{
		QueueCharge:        amount(fees[0]),
		TicketingFee:       amount(fees[1]),
		PlatformServiceFee: amount(fees[2]),
		MerchantFee:        amount(fees[3]),
	}
	breakdown.FeeTotal = amount(feeCents)
	breakdown.GrandTotal = amount(linesCents + feeCents)
	return breakdown
}

// RecomputeTotal re-derives an offer's grand total from its price lines and fee total.
func RecomputeTotal(o model.Offer) float64 {
	total := boundedCents(o.Price.FeeTotal)
	for _, line := range o.Price.Passengers {
		total += boundedCents(line.LineTotal)
	}
	return amount(total)
}

// VerifyTotal checks that an offer's grand total equals its line totals plus
// fee total to the cent.
func VerifyTotal(o model.Offer) error {
	recomputed := RecomputeTotal(o)
	if cents(recomputed) != cents(o.Price.GrandTotal) {
		return fmt.Errorf("%w: expected %.2f, got %.2f", ErrTotalMismatch, recomputed, o.Price.GrandTotal)
	}
	return nil
}
