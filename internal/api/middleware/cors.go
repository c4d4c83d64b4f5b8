package middleware

import (
	"net/http"

	"github.com/rs/cors"
)

type CORSConfig struct {
	AllowedOrigins   []string
	AllowedMethods   []string
	AllowedHeaders   []string
	AllowCredentials bool
}

func DefaultCORSConfig(origins []string) CORSConfig {
	return CORSConfig{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{http.MethodGet, http.MethodOptions},
		AllowedHeaders:   []string{"Content-Type", "X-Requested-With", "X-Request-ID"},
		AllowCredentials: true,
	}
}

// CORS answers preflight requests itself and decorates every other response
// with the allowed origin.
func CORS(config CORSConfig) Middleware {
	c := cors.New(cors.Options{
		AllowedOrigins:   config.AllowedOrigins,
		AllowedMethods:   config.AllowedMethods,
		AllowedHeaders:   config.AllowedHeaders,
		AllowCredentials: config.AllowCredentials,
	})
	return func(f http.HandlerFunc) http.HandlerFunc {
		return c.Handler(f).ServeHTTP
	}
}
