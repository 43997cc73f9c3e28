package main

import (
	"fmt"
	"net/http"

	"github.com/rs/cors"

	"github.com/agorahq/agora/go/internal/auth"
)

func setupServer(services *Services, verifier *auth.Verifier) *http.Server {
	mux := http.NewServeMux()

	c := cors.New(cors.Options{
		AllowedMethods: []string{
			http.MethodHead,
			http.MethodGet,
			http.MethodPost,
			http.MethodPut,
			http.MethodPatch,
			http.MethodDelete,
		},
		AllowedOrigins: []string{"*"},
		AllowedHeaders: []string{"*"},
	})

	registerServices(mux, services)

	// Health stays outside auth so load balancers can probe it.
	root := http.NewServeMux()
	setupHealthCheck(root)
	root.Handle("/", verifier.RequireAuth(mux))

	handler := c.Handler(root)

	return &http.Server{
		Addr:    fmt.Sprintf(":%s", getEnv("PORT", "8080")),
		Handler: handler,
	}
}

func setupHealthCheck(mux *http.ServeMux) {
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		fmt.Fprint(w, "OK")
	})
}
