package quantity

import (
	"fmt"
	"strings"

	"github.com/luminacommerce/copilot-actions/pkg/commerce"
	pkgerrors "github.com/luminacommerce/copilot-actions/pkg/errors"
)

// Result is the outcome of normalizing a requested quantity against a
// product's order rules. Adjusted is set whenever FinalQty differs from the
// caller's request; Reason then explains every applied correction so the
// caller can surface it instead of silently changing the order.
type Result struct {
	FinalQty int
	Adjusted bool
	Reason   string
}

// Sanitize replaces a non-positive request with 1. Fractional inputs are
// handled upstream at parameter decoding.
func Sanitize(requested int) int {
	if requested < 1 {
		return 1
	}
	return requested
}

// Normalize applies minimum, maximum and increment-unit rules to the
// requested quantity, then validates the outcome against live stock.
//
// The steps run in a fixed order, each on the previous step's output:
// an over-maximum request is rejected outright; the quantity is raised to
// the minimum, capped at the maximum, and snapped to the increment unit
// (never below the effective minimum, so minimum=3 with increment=2 yields
// 4, not 2). A stock shortfall after normalization is a hard failure unless
// the product is made to order; stock is never silently clamped into a
// smaller order than the user asked for.
func Normalize(requested int, moq *commerce.MOQRule, availableStock int, customOrder bool) (Result, error) {
	original := requested
	qty := Sanitize(requested)

	var reasons []string
	if qty != original {
		reasons = append(reasons, "quantity of 1 assumed")
	}

	var (
		minimum   int
		maximum   int
		increment int
	)
	if moq != nil {
		minimum = moq.Minimum
		maximum = moq.Maximum
		increment = moq.IncrementUnit
	}

	if maximum > 0 && qty > maximum {
		return Result{}, pkgerrors.New(pkgerrors.CodeExceedsMaxLimit,
			fmt.Sprintf("you can order at most %d unit(s) of this product", maximum)).
			WithDetails(map[string]any{
				"max_allowed": maximum,
				"requested":   original,
			})
	}

	if minimum > 0 && qty < minimum {
		qty = minimum
		reasons = append(reasons, fmt.Sprintf("quantity raised to the minimum order quantity of %d", minimum))
	}

	if maximum > 0 && qty > maximum {
		qty = maximum
		reasons = append(reasons, fmt.Sprintf("quantity reduced to the maximum of %d", maximum))
	}

	if increment > 1 {
		snapped := snapToIncrement(qty, increment, effectiveMinimum(minimum))
		if snapped != qty {
			qty = snapped
			reasons = append(reasons, fmt.Sprintf("quantity adjusted to the pack size of %d", increment))
		}
	}

	if maximum > 0 && qty > maximum {
		qty = maximum
		reasons = append(reasons, fmt.Sprintf("quantity reduced to the maximum of %d", maximum))
	}

	if !customOrder && availableStock < qty {
		if availableStock <= 0 {
			return Result{}, pkgerrors.New(pkgerrors.CodeOutOfStock, "this product is currently out of stock").
				WithDetails(map[string]any{"available_quantity": 0})
		}
		return Result{}, pkgerrors.New(pkgerrors.CodeInsufficientStock,
			fmt.Sprintf("only %d unit(s) are in stock", availableStock)).
			WithDetails(map[string]any{
				"available_quantity": availableStock,
				"requested":          original,
			})
	}

	return Result{
		FinalQty: qty,
		Adjusted: qty != original,
		Reason:   strings.Join(reasons, "; "),
	}, nil
}

// snapToIncrement returns the multiple of increment nearest below qty, but
// never below floor; when rounding down would cross the floor the next
// multiple at or above the floor is used instead.
func snapToIncrement(qty, increment, floor int) int {
	snapped := qty - qty%increment
	if snapped < floor {
		snapped = ((floor + increment - 1) / increment) * increment
	}
	if snapped == 0 {
		snapped = increment
		if floor > snapped {
			snapped = floor
		}
	}
	return snapped
}

func effectiveMinimum(minimum int) int {
	if minimum > 0 {
		return minimum
	}
	return 1
}
