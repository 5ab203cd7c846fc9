package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/luminacommerce/copilot-actions/api/controllers"
	"github.com/luminacommerce/copilot-actions/api/middleware"
	"github.com/luminacommerce/copilot-actions/pkg/config"
	"github.com/luminacommerce/copilot-actions/pkg/logger"
	"github.com/luminacommerce/copilot-actions/pkg/statestore"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dispatcher controllers.ActionDispatcher,
	store *statestore.Store,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(cfg.CORS),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, store))
	})

	r.Handle("/metrics", promhttp.Handler())

	r.Route("/v1", func(r chi.Router) {
		r.Use(middleware.Session(cfg.Session, logg))

		r.Post("/actions/{action}", controllers.InvokeAction(dispatcher, logg))

		r.Route("/state", func(r chi.Router) {
			r.Put("/", controllers.PutState(store, logg))
			r.Delete("/", controllers.DeleteState(store, logg))
			r.Get("/cart", controllers.GetCartSummary(store, logg))
		})
	})

	return r
}
