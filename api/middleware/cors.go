package middleware

import (
	"net/http"

	"github.com/go-chi/cors"
)

var defaultCORSOrigins = []string{
	"http://localhost:3000",           // local dev
	"http://localhost:19006",          // Expo web dev server
	"https://app.gracechapel.dev",     // member app
	"https://admin.gracechapel.dev",   // admin console
	"https://churchhub.gracechapel.dev",
}

// CORS returns middleware that applies the API's allowed origin policy.
func CORS() func(http.Handler) http.Handler {
	return cors.New(cors.Options{
		AllowedOrigins:   defaultCORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CH-Token", "X-Requested-With"},
		ExposedHeaders:   []string{"X-CH-Token", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           300,
	}).Handler
}
