/*
Copyright 2026 Nscale.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

// Package fake is an in-process implementation of the Stellar Burgers API.
// It reproduces the status codes and messages of the live service closely
// enough for the integration suites to run without network access.
package fake

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Handler holds all API handler state.
type Handler struct {
	store *Store
}

// NewHandler creates a handler over the default catalog.
func NewHandler() *Handler {
	return NewHandlerWithStore(NewStore(DefaultCatalog()))
}

// NewHandlerWithStore creates a handler over an existing store.
func NewHandlerWithStore(store *Store) *Handler {
	return &Handler{store: store}
}

// Routes mounts the API.
func (h *Handler) Routes(r chi.Router) {
	r.Route("/api", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", h.Register)
			r.Post("/login", h.Login)
			r.Get("/user", h.GetUser)
			r.Patch("/user", h.UpdateUser)
			r.Delete("/user", h.DeleteUser)
		})

		r.Post("/orders", h.CreateOrder)
		r.Get("/orders", h.ListOrders)
		r.Get("/ingredients", h.ListIngredients)
	})
}

// Router returns a ready to serve router.
func (h *Handler) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	h.Routes(r)

	return r
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)

	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]any{
		"success": false,
		"message": message,
	})
}
