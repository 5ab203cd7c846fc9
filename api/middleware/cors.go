package middleware

import (
	"net/http"

	"github.com/go-chi/cors"

	"github.com/luminacommerce/copilot-actions/pkg/config"
)

// CORS applies the storefront origin policy. The copilot is embedded in the
// host storefront pages, so the allowed origins come from configuration.
func CORS(cfg config.CORSConfig) func(http.Handler) http.Handler {
	origins := cfg.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	return cors.New(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Requested-With"},
		AllowCredentials: true,
		MaxAge:           300,
	}).Handler
}
