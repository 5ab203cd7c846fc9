package controllers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/luminacommerce/copilot-actions/api/middleware"
	"github.com/luminacommerce/copilot-actions/api/responses"
	"github.com/luminacommerce/copilot-actions/api/validators"
	"github.com/luminacommerce/copilot-actions/pkg/logger"
	"github.com/luminacommerce/copilot-actions/pkg/types"
)

// ActionDispatcher runs one named action to completion.
type ActionDispatcher interface {
	Dispatch(ctx context.Context, sessionID, action string, params map[string]any) types.ActionResult
}

// InvokeAction handles POST /v1/actions/{action}: the body is the action's
// raw parameter map and the response is its ActionResult envelope.
func InvokeAction(dispatcher ActionDispatcher, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		action := chi.URLParam(r, "action")

		params, err := validators.DecodeParamMap(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		sessionID := middleware.SessionIDFromContext(r.Context())
		result := dispatcher.Dispatch(r.Context(), sessionID, action, params)
		responses.WriteResult(w, result)
	}
}
