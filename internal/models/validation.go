package models

import (
	"fmt"
	"math"
)

// MsgInvalidInput is shown for every missing, malformed or out-of-range field
const MsgInvalidInput = "Please check your inputs. Make sure all required fields are filled and values are valid."

// MsgHistoricalTooShort is shown when fewer than two historical revenues were entered
const MsgHistoricalTooShort = "Please enter at least 2 historical revenue values for forecasting, or leave the field empty."

// ValidationError reports a rejected input field
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s (%s)", e.Message, e.Field)
}

func invalid(field string) *ValidationError {
	return &ValidationError{Field: field, Message: MsgInvalidInput}
}

// Validate checks the request against the field ranges the simulation accepts.
// The first violated rule is reported.
func (r SimulationRequest) Validate() error {
	switch {
	case !finite(r.InitialInvestment) || r.InitialInvestment < 0:
		return invalid("initialInvestment")
	case r.Duration < 1 || r.Duration > 100:
		return invalid("duration")
	case !finite(r.MinRevenue) || r.MinRevenue < 0:
		return invalid("minRevenue")
	case !finite(r.MaxRevenue) || r.MaxRevenue < r.MinRevenue:
		return invalid("maxRevenue")
	case !finite(r.MinCost) || r.MinCost < 0:
		return invalid("minCost")
	case !finite(r.MaxCost) || r.MaxCost < r.MinCost:
		return invalid("maxCost")
	case !finite(r.DiscountRate) || r.DiscountRate < 0 || r.DiscountRate > 100:
		return invalid("discountRate")
	case r.NumSimulations < 1:
		return invalid("numSimulations")
	}

	if r.HistoricalRevenues != nil && len(r.HistoricalRevenues) < 2 {
		return &ValidationError{Field: "historicalRevenues", Message: MsgHistoricalTooShort}
	}
	for _, v := range r.HistoricalRevenues {
		if !finite(v) {
			return invalid("historicalRevenues")
		}
	}

	return nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
