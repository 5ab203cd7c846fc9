package controllers

import (
	"context"
	"net/http"

	"github.com/luminacommerce/copilot-actions/api/middleware"
	"github.com/luminacommerce/copilot-actions/api/responses"
	"github.com/luminacommerce/copilot-actions/api/validators"
	pkgerrors "github.com/luminacommerce/copilot-actions/pkg/errors"
	"github.com/luminacommerce/copilot-actions/pkg/logger"
	"github.com/luminacommerce/copilot-actions/pkg/statestore"
)

// SessionStateStore is the per-session state surface the controllers need.
type SessionStateStore interface {
	SaveSnapshot(ctx context.Context, sessionID string, snap *statestore.Snapshot) error
	CartSummary(ctx context.Context, sessionID string) (*statestore.CartSummary, error)
	ClearSession(ctx context.Context, sessionID string) error
}

// statePayload is the storefront's state push: what the shopper currently
// sees. It replaces the previous snapshot wholesale.
type statePayload struct {
	Pincode      string            `json:"pincode" validate:"omitempty,len=6,numeric"`
	LocalityName string            `json:"locality_name"`
	ProductSlug  string            `json:"product_slug"`
	Listing      []string          `json:"listing" validate:"dive,required"`
	Custom       map[string]string `json:"custom"`
}

// PutState handles PUT /v1/state.
func PutState(store SessionStateStore, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessionID := middleware.SessionIDFromContext(r.Context())
		if sessionID == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing session"))
			return
		}

		var payload statePayload
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		snap := &statestore.Snapshot{
			Pincode:      payload.Pincode,
			LocalityName: payload.LocalityName,
			ProductSlug:  payload.ProductSlug,
			Listing:      payload.Listing,
			Custom:       payload.Custom,
		}
		if err := store.SaveSnapshot(r.Context(), sessionID, snap); err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save session state"))
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "saved"})
	}
}

// GetCartSummary handles GET /v1/state/cart.
func GetCartSummary(store SessionStateStore, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessionID := middleware.SessionIDFromContext(r.Context())
		if sessionID == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing session"))
			return
		}

		summary, err := store.CartSummary(r.Context(), sessionID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "read cart summary"))
			return
		}
		if summary == nil {
			responses.WriteSuccess(w, map[string]any{"cart_summary": nil})
			return
		}
		responses.WriteSuccess(w, map[string]any{"cart_summary": summary})
	}
}

// DeleteState handles DELETE /v1/state.
func DeleteState(store SessionStateStore, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessionID := middleware.SessionIDFromContext(r.Context())
		if sessionID == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing session"))
			return
		}

		if err := store.ClearSession(r.Context(), sessionID); err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "clear session state"))
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "cleared"})
	}
}
