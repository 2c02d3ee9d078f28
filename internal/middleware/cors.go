package middleware

import (
	"net/http"

	"github.com/go-chi/cors"
)

// CORS allows the dashboard and survey frontends to call the API from the
// listed origins. An empty list allows any origin without credentials.
func CORS(origins []string) func(http.Handler) http.Handler {
	opts := cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Accept-Language", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           300,
	}
	if len(origins) == 0 {
		opts.AllowedOrigins = []string{"*"}
		opts.AllowCredentials = false
	}
	return cors.Handler(opts)
}
