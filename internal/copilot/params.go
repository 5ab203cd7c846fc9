package copilot

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"reflect"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"

	pkgerrors "github.com/luminacommerce/copilot-actions/pkg/errors"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// AddToCartParams drives the single-product add pipeline. Product may be a
// slug or a variant slug; Position is a 1-based index into the on-screen
// listing; both empty falls back to the product page in view.
type AddToCartParams struct {
	Product  string `json:"product"`
	Position int    `json:"position" validate:"gte=0"`
	Size     string `json:"size"`
	Color    string `json:"color"`
	Quantity int    `json:"quantity" validate:"gte=0"`
	Pincode  string `json:"pincode"`
}

// ListingAddParams drives the multi-product add. Positions selects specific
// listing entries; Count selects the first N when Positions is empty.
type ListingAddParams struct {
	Positions []int  `json:"positions" validate:"dive,gt=0"`
	Count     int    `json:"count" validate:"gte=0"`
	Size      string `json:"size"`
	Color     string `json:"color"`
	Quantity  int    `json:"quantity" validate:"gte=0"`
	Pincode   string `json:"pincode"`
}

type CheckPincodeParams struct {
	Pincode string `json:"pincode"`
}

type ProductInfoParams struct {
	Product  string `json:"product"`
	Position int    `json:"position" validate:"gte=0"`
	Pincode  string `json:"pincode"`
}

type RedirectParams struct {
	Page     string `json:"page" validate:"required"`
	Product  string `json:"product"`
	Position int    `json:"position" validate:"gte=0"`
}

// decodeParams populates target from the raw parameter map. Keys the target
// does not declare are logged and dropped; they never reach a payload.
// Fractional numbers destined for integer fields are truncated.
func (d *Dispatcher) decodeParams(ctx context.Context, raw map[string]any, target any) error {
	known := jsonFieldNames(target)

	filtered := make(map[string]any, len(raw))
	var dropped []string
	for key, value := range raw {
		if _, ok := known[key]; !ok {
			dropped = append(dropped, key)
			continue
		}
		if key == "quantity" {
			filtered[key] = coerceQuantity(value)
			continue
		}
		filtered[key] = coerceNumber(value)
	}
	if len(dropped) > 0 {
		sort.Strings(dropped)
		d.logg.Warn(ctx, fmt.Sprintf("ignoring unrecognized parameters: %s", strings.Join(dropped, ", ")))
	}

	encoded, err := json.Marshal(filtered)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid action parameters")
	}
	if err := json.Unmarshal(encoded, target); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid action parameters")
	}
	if err := validate.Struct(target); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid action parameters").
			WithDetails(map[string]any{"reason": err.Error()})
	}
	return nil
}

// jsonFieldNames lists the json keys a params struct declares.
func jsonFieldNames(target any) map[string]struct{} {
	names := map[string]struct{}{}
	t := reflect.TypeOf(target)
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return names
	}
	for i := 0; i < t.NumField(); i++ {
		tag := t.Field(i).Tag.Get("json")
		name, _, _ := strings.Cut(tag, ",")
		if name != "" && name != "-" {
			names[name] = struct{}{}
		}
	}
	return names
}

// coerceQuantity replaces a non-integer quantity with 1: a fractional unit
// count is not a usable order size, so it falls back to the single-unit
// default the quantity rules start from.
func coerceQuantity(value any) any {
	if v, ok := value.(float64); ok && v != math.Trunc(v) {
		return float64(1)
	}
	return value
}

// coerceNumber truncates fractional values destined for integer fields
// (positions, counts) so they decode instead of failing.
func coerceNumber(value any) any {
	switch v := value.(type) {
	case float64:
		if v != math.Trunc(v) {
			return math.Trunc(v)
		}
		return v
	case []any:
		out := make([]any, len(v))
		for i, item := range v {
			out[i] = coerceNumber(item)
		}
		return out
	default:
		return value
	}
}
