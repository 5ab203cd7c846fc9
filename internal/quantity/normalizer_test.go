package quantity

import (
	"testing"

	"github.com/luminacommerce/copilot-actions/pkg/commerce"
	pkgerrors "github.com/luminacommerce/copilot-actions/pkg/errors"
)

func TestNormalizePassThrough(t *testing.T) {
	t.Parallel()

	moq := &commerce.MOQRule{Minimum: 2, Maximum: 10, IncrementUnit: 1}
	res, err := Normalize(3, moq, 5, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.FinalQty != 3 || res.Adjusted {
		t.Fatalf("expected untouched qty 3, got %+v", res)
	}
}

func TestNormalizeMinimumThenIncrementBoundary(t *testing.T) {
	t.Parallel()

	// minimum 3 with pack size 2: raised to 3, then snapped up to 4 since 2
	// would fall below the minimum.
	moq := &commerce.MOQRule{Minimum: 3, IncrementUnit: 2}
	res, err := Normalize(1, moq, 100, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.FinalQty != 4 {
		t.Fatalf("expected final qty 4, got %d", res.FinalQty)
	}
	if !res.Adjusted || res.Reason == "" {
		t.Fatalf("expected adjustment with reason, got %+v", res)
	}
}

func TestNormalizeIncrementRoundsDown(t *testing.T) {
	t.Parallel()

	moq := &commerce.MOQRule{IncrementUnit: 4}
	res, err := Normalize(6, moq, 100, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.FinalQty != 4 {
		t.Fatalf("expected qty snapped down to 4, got %d", res.FinalQty)
	}
}

func TestNormalizeExceedsMaximumIsTerminal(t *testing.T) {
	t.Parallel()

	moq := &commerce.MOQRule{Maximum: 5}
	_, err := Normalize(10, moq, 100, false)
	if err == nil {
		t.Fatal("expected error for over-maximum request")
	}
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeExceedsMaxLimit {
		t.Fatalf("expected exceeds-max code, got %v", err)
	}
	details, ok := typed.Details().(map[string]any)
	if !ok || details["max_allowed"] != 5 {
		t.Fatalf("expected max_allowed detail, got %+v", typed.Details())
	}
}

func TestNormalizeInsufficientStockIsHardFailure(t *testing.T) {
	t.Parallel()

	moq := &commerce.MOQRule{Minimum: 2, Maximum: 10, IncrementUnit: 1}
	_, err := Normalize(3, moq, 2, false)
	if err == nil {
		t.Fatal("expected insufficient stock error")
	}
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeInsufficientStock {
		t.Fatalf("expected insufficient stock code, got %v", err)
	}
	details, ok := typed.Details().(map[string]any)
	if !ok || details["available_quantity"] != 2 {
		t.Fatalf("expected available_quantity detail, got %+v", typed.Details())
	}
}

func TestNormalizeZeroStock(t *testing.T) {
	t.Parallel()

	_, err := Normalize(1, nil, 0, false)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeOutOfStock {
		t.Fatalf("expected out of stock code, got %v", err)
	}
}

func TestNormalizeCustomOrderIgnoresStock(t *testing.T) {
	t.Parallel()

	res, err := Normalize(5, nil, 0, true)
	if err != nil {
		t.Fatalf("unexpected error for custom order: %v", err)
	}
	if res.FinalQty != 5 {
		t.Fatalf("expected qty 5, got %d", res.FinalQty)
	}
}

func TestNormalizeSanitizesNonPositive(t *testing.T) {
	t.Parallel()

	res, err := Normalize(-2, nil, 10, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.FinalQty != 1 || !res.Adjusted {
		t.Fatalf("expected qty raised to 1 with adjustment, got %+v", res)
	}
}
