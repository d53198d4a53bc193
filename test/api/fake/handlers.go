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

package fake

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/samber/lo"
)

const (
	messageUserExists           = "User already exists"
	messageRequiredFields       = "Email, password and name are required fields"
	messageIncorrectCredentials = "email or password are incorrect"
	messageUnauthorised         = "You should be authorised"
	messageEmailTaken           = "User with such email already exists"
	messageIngredientsRequired  = "Ingredient ids must be provided"
	messageIncorrectIDs         = "One or more ids provided are incorrect"
	messageMalformedToken       = "jwt malformed"
	messageUserNotFound         = "User not found"
	messageUserRemoved          = "User successfully removed"
)

type accountRequest struct {
	Email    string  `json:"email"`
	Password string  `json:"password"`
	Name     *string `json:"name"`
}

type orderRequest struct {
	Ingredients []string `json:"ingredients"`
}

func userBody(user User) map[string]any {
	return map[string]any{
		"email": user.Email,
		"name":  user.Name,
	}
}

func authBody(user User, tokens Tokens) map[string]any {
	return map[string]any{
		"success":      true,
		"user":         userBody(user),
		"accessToken":  tokens.AccessToken,
		"refreshToken": tokens.RefreshToken,
	}
}

// writeAuthError maps session failures onto the service's responses.
func writeAuthError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrNoSession):
		writeError(w, http.StatusUnauthorized, messageUnauthorised)
	case errors.Is(err, ErrMalformedToken):
		writeError(w, http.StatusForbidden, messageMalformedToken)
	case errors.Is(err, ErrUserNotFound):
		writeError(w, http.StatusNotFound, messageUserNotFound)
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}

// Register handles POST /api/auth/register
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req accountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusForbidden, messageRequiredFields)
		return
	}

	if req.Email == "" || req.Password == "" || req.Name == nil || *req.Name == "" {
		writeError(w, http.StatusForbidden, messageRequiredFields)
		return
	}

	user, tokens, err := h.store.Register(req.Email, req.Password, *req.Name)
	if err != nil {
		writeError(w, http.StatusForbidden, messageUserExists)
		return
	}

	writeJSON(w, http.StatusOK, authBody(user, tokens))
}

// Login handles POST /api/auth/login
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req accountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusUnauthorized, messageIncorrectCredentials)
		return
	}

	user, tokens, err := h.store.Login(req.Email, req.Password)
	if err != nil {
		writeError(w, http.StatusUnauthorized, messageIncorrectCredentials)
		return
	}

	writeJSON(w, http.StatusOK, authBody(user, tokens))
}

// GetUser handles GET /api/auth/user
func (h *Handler) GetUser(w http.ResponseWriter, r *http.Request) {
	user, err := h.store.Profile(r.Header.Get("Authorization"))
	if err != nil {
		writeAuthError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"user":    userBody(user),
	})
}

// UpdateUser handles PATCH /api/auth/user
func (h *Handler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	var req accountRequest

	// Authentication is checked before the body so an anonymous request
	// with a garbage body still reports the missing session.
	if _, err := h.store.Profile(r.Header.Get("Authorization")); err != nil {
		writeAuthError(w, err)
		return
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	user, err := h.store.UpdateProfile(r.Header.Get("Authorization"), req.Email, req.Password, lo.FromPtr(req.Name))
	if err != nil {
		if errors.Is(err, ErrEmailTaken) {
			writeError(w, http.StatusForbidden, messageEmailTaken)
			return
		}

		writeAuthError(w, err)

		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"user":    userBody(user),
	})
}

// DeleteUser handles DELETE /api/auth/user
func (h *Handler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	if err := h.store.DeleteUser(r.Header.Get("Authorization")); err != nil {
		writeAuthError(w, err)
		return
	}

	writeJSON(w, http.StatusAccepted, map[string]any{
		"success": true,
		"message": messageUserRemoved,
	})
}

// CreateOrder handles POST /api/orders
func (h *Handler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	var req orderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, messageIngredientsRequired)
		return
	}

	order, owner, err := h.store.CreateOrder(r.Header.Get("Authorization"), req.Ingredients)
	if err != nil {
		switch {
		case errors.Is(err, ErrNoIngredients):
			writeError(w, http.StatusBadRequest, messageIngredientsRequired)
		case errors.Is(err, ErrUnknownID):
			writeError(w, http.StatusBadRequest, messageIncorrectIDs)
		default:
			// The live service surfaces its cast failure as an HTML error page.
			w.Header().Set("Content-Type", "text/html; charset=utf-8")
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = w.Write([]byte("<!DOCTYPE html>\n<html><body><pre>Internal Server Error</pre></body></html>\n"))
		}

		return
	}

	body := map[string]any{
		"number": order.Number,
	}

	if owner != nil {
		ingredients := h.store.Lookup(order.Ingredients)

		body["_id"] = order.ID
		body["name"] = order.Name
		body["status"] = order.Status
		body["ingredients"] = ingredients
		body["owner"] = userBody(*owner)
		body["price"] = lo.SumBy(ingredients, func(i Ingredient) int { return i.Price })
		body["createdAt"] = order.CreatedAt.UTC().Format(time.RFC3339Nano)
		body["updatedAt"] = order.UpdatedAt.UTC().Format(time.RFC3339Nano)
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"name":    order.Name,
		"order":   body,
	})
}

// ListOrders handles GET /api/orders
func (h *Handler) ListOrders(w http.ResponseWriter, r *http.Request) {
	orders, total, today, err := h.store.Orders(r.Header.Get("Authorization"))
	if err != nil {
		writeAuthError(w, err)
		return
	}

	summaries := lo.Map(orders, func(o Order, _ int) map[string]any {
		return map[string]any{
			"_id":         o.ID,
			"number":      o.Number,
			"name":        o.Name,
			"status":      o.Status,
			"ingredients": o.Ingredients,
			"createdAt":   o.CreatedAt.UTC().Format(time.RFC3339Nano),
			"updatedAt":   o.UpdatedAt.UTC().Format(time.RFC3339Nano),
		}
	})

	writeJSON(w, http.StatusOK, map[string]any{
		"success":    true,
		"orders":     summaries,
		"total":      total,
		"totalToday": today,
	})
}

// ListIngredients handles GET /api/ingredients
func (h *Handler) ListIngredients(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"data":    h.store.Ingredients(),
	})
}
