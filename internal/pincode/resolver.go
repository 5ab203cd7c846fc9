package pincode

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/luminacommerce/copilot-actions/pkg/commerce"
	pkgerrors "github.com/luminacommerce/copilot-actions/pkg/errors"
	"github.com/luminacommerce/copilot-actions/pkg/statestore"
)

var pincodePattern = regexp.MustCompile(`^\d{6}$`)

// IsValidFormat reports whether the value is exactly six digits.
func IsValidFormat(value string) bool {
	return pincodePattern.MatchString(value)
}

type localityChecker interface {
	ValidateLocality(ctx context.Context, pincode, country string) (*commerce.Locality, error)
}

// Resolver determines the delivery pincode for one action invocation and
// checks its serviceability. It performs no retries and holds no state.
type Resolver struct {
	gateway localityChecker
	country string
}

// NewResolver builds the resolver; country is the ISO code passed to the
// locality lookup.
func NewResolver(gateway localityChecker, country string) (*Resolver, error) {
	if gateway == nil {
		return nil, fmt.Errorf("locality gateway required")
	}
	if strings.TrimSpace(country) == "" {
		return nil, fmt.Errorf("country code required")
	}
	return &Resolver{gateway: gateway, country: country}, nil
}

// Resolve picks the pincode in priority order: the explicit parameter, then
// the session snapshot's detected location. Format is checked before any
// network call is made.
func (r *Resolver) Resolve(explicit string, snap *statestore.Snapshot) (string, error) {
	candidate := strings.TrimSpace(explicit)
	if candidate == "" && snap != nil {
		candidate = strings.TrimSpace(snap.Pincode)
	}
	if candidate == "" {
		return "", pkgerrors.New(pkgerrors.CodePincodeRequired,
			"please share your delivery pincode").
			WithDetails(map[string]any{"example": "560001"})
	}
	if !IsValidFormat(candidate) {
		return "", pkgerrors.New(pkgerrors.CodeInvalidPincode,
			fmt.Sprintf("%q is not a valid pincode; expected exactly 6 digits", candidate)).
			WithDetails(map[string]any{"example": "560001"})
	}
	return candidate, nil
}

// CheckServiceability performs the single locality lookup. An absent
// locality means the pincode is not serviced; a lookup failure is reported
// as a verification failure, never propagated raw.
func (r *Resolver) CheckServiceability(ctx context.Context, pin string) (*commerce.Locality, error) {
	locality, err := r.gateway.ValidateLocality(ctx, pin, r.country)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodePincodeVerificationFailed, err,
			"could not verify the pincode, please try again")
	}
	if locality == nil {
		return nil, pkgerrors.New(pkgerrors.CodePincodeNotServiceable,
			fmt.Sprintf("sorry, we do not deliver to %s yet", pin)).
			WithDetails(map[string]any{"pincode": pin})
	}
	return locality, nil
}
