// Package server wires the HTTP surface: REST endpoints for auth, lists,
// members and items, the websocket endpoint, and operational routes.
package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/olomek/trolley/internal/auth"
	"github.com/olomek/trolley/internal/realtime"
	"github.com/olomek/trolley/internal/service"
)

// New builds the router for the given services. The websocket endpoint sits
// outside the Observe middleware because the upgrade needs the raw
// response writer.
func New(
	authSvc *service.AuthService,
	listSvc *service.ListService,
	itemSvc *service.ItemService,
	tokens *auth.JWTManager,
	ws *realtime.Handler,
) http.Handler {
	authHandler := NewAuthHandler(authSvc)
	listHandler := NewListHandler(listSvc)
	itemHandler := NewItemHandler(itemSvc)

	r := chi.NewRouter()

	r.Get("/ws", ws.ServeHTTP)
	r.Handle("/metrics", promhttp.Handler())
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	r.Route("/api", func(r chi.Router) {
		r.Use(Observe)

		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", authHandler.Register)
			r.Post("/login", authHandler.Login)
		})

		r.Group(func(r chi.Router) {
			r.Use(RequireAuth(tokens))

			r.Route("/lists", func(r chi.Router) {
				r.Post("/", listHandler.Create)
				r.Get("/", listHandler.Index)
				r.Get("/{listID}", listHandler.Detail)
				r.Delete("/{listID}", listHandler.Delete)
				r.Post("/{listID}/members", listHandler.AddMember)
				r.Delete("/{listID}/members/{memberID}", listHandler.RemoveMember)
				r.Post("/{listID}/items", itemHandler.Create)
				r.Get("/{listID}/items", itemHandler.Index)
			})

			r.Route("/items", func(r chi.Router) {
				r.Patch("/{itemID}", itemHandler.Update)
				r.Delete("/{itemID}", itemHandler.Delete)
			})
		})
	})

	return r
}
