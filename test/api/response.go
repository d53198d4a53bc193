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

package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
)

// Messages returned by the service on the failure paths we exercise.
const (
	MessageUserExists           = "User already exists"
	MessageRequiredFields       = "Email, password and name are required fields"
	MessageIncorrectCredentials = "email or password are incorrect"
	MessageUnauthorised         = "You should be authorised"
	MessageEmailTaken           = "User with such email already exists"
	MessageIngredientsRequired  = "Ingredient ids must be provided"
)

// Response is the raw outcome of a single request.  It is never retained
// beyond the spec that made it.
type Response struct {
	Method     string
	Path       string
	StatusCode int
	Header     http.Header
	Body       []byte
	TraceID    string

	decoded map[string]interface{}
}

// JSON unmarshals the response body into v.
func (r *Response) JSON(v interface{}) error {
	if err := json.Unmarshal(r.Body, v); err != nil {
		return fmt.Errorf("unmarshaling %s %s response (trace ID: %s): %w", r.Method, r.Path, r.TraceID, err)
	}

	return nil
}

// Map returns the body as a generic JSON object.
func (r *Response) Map() (map[string]interface{}, error) {
	if r.decoded != nil {
		return r.decoded, nil
	}

	var decoded map[string]interface{}
	if err := r.JSON(&decoded); err != nil {
		return nil, err
	}

	r.decoded = decoded

	return decoded, nil
}

// Lookup resolves a dotted path such as "user.email" or "orders.0.number"
// against the body.  The boolean is false when any segment is missing.
func (r *Response) Lookup(path string) (interface{}, bool) {
	body, err := r.Map()
	if err != nil {
		return nil, false
	}

	var current interface{} = body

	for _, segment := range strings.Split(path, ".") {
		switch node := current.(type) {
		case map[string]interface{}:
			value, ok := node[segment]
			if !ok {
				return nil, false
			}

			current = value
		case []interface{}:
			index, err := strconv.Atoi(segment)
			if err != nil || index < 0 || index >= len(node) {
				return nil, false
			}

			current = node[index]
		default:
			return nil, false
		}
	}

	return current, true
}

// String renders the response for failure messages.
func (r *Response) String() string {
	return fmt.Sprintf("%s %s -> %d %s (trace ID: %s)", r.Method, r.Path, r.StatusCode, string(r.Body), r.TraceID)
}

// User is the user record echoed by the auth endpoints.
type User struct {
	Email string `json:"email"`
	Name  string `json:"name"`
}

// AuthBody is returned by register and login.
type AuthBody struct {
	Success      bool   `json:"success"`
	Message      string `json:"message,omitempty"`
	User         User   `json:"user"`
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// Session extracts the token pair from a successful auth response.
func (b *AuthBody) Session() Session {
	return Session{
		AccessToken:  b.AccessToken,
		RefreshToken: b.RefreshToken,
	}
}

// UserBody is returned by the profile endpoints.
type UserBody struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	User    User   `json:"user"`
}

// Order is the order record returned on creation.
type Order struct {
	ID     string `json:"_id,omitempty"`
	Number int    `json:"number"`
	Status string `json:"status,omitempty"`
	Name   string `json:"name,omitempty"`
}

// OrderBody is returned by order creation.
type OrderBody struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Name    string `json:"name"`
	Order   Order  `json:"order"`
}

// OrderSummary is an entry in a user's order history.
type OrderSummary struct {
	ID          string   `json:"_id"`
	Number      int      `json:"number"`
	Status      string   `json:"status"`
	Name        string   `json:"name"`
	Ingredients []string `json:"ingredients"`
	CreatedAt   string   `json:"createdAt"`
	UpdatedAt   string   `json:"updatedAt"`
}

// OrdersBody is returned by order listing.
type OrdersBody struct {
	Success    bool           `json:"success"`
	Message    string         `json:"message,omitempty"`
	Orders     []OrderSummary `json:"orders"`
	Total      int            `json:"total"`
	TotalToday int            `json:"totalToday"`
}

// Ingredient is a catalog entry.
type Ingredient struct {
	ID    string `json:"_id"`
	Name  string `json:"name"`
	Type  string `json:"type"`
	Price int    `json:"price"`
}

// IngredientsBody is returned by the catalog endpoint.
type IngredientsBody struct {
	Success bool         `json:"success"`
	Data    []Ingredient `json:"data"`
}
