package controllers

import (
	"net/http"

	"github.com/luminacommerce/copilot-actions/api/responses"
	"github.com/luminacommerce/copilot-actions/pkg/config"
	pkgerrors "github.com/luminacommerce/copilot-actions/pkg/errors"
	"github.com/luminacommerce/copilot-actions/pkg/logger"
	"github.com/luminacommerce/copilot-actions/pkg/statestore"
)

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Copilot-Env", cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady verifies the session state store is reachable. The commerce
// backend is third-party and deliberately not checked here; its failures
// surface per-action as DEPENDENCY_ERROR.
func HealthReady(cfg *config.Config, logg *logger.Logger, store statestore.Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Copilot-Env", cfg.App.Env)

		if store != nil {
			if err := store.Ping(r.Context()); err != nil {
				responses.WriteError(r.Context(), logg, w,
					pkgerrors.Wrap(pkgerrors.CodeDependency, err, "state store unavailable"))
				return
			}
		}
		responses.WriteSuccess(w, map[string]string{"status": "ready"})
	}
}
