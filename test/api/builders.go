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

// InvalidIngredientIDs cannot be parsed as object IDs, the service fails
// with a 500 rather than a validation error.
//
//nolint:gochecknoglobals
var InvalidIngredientIDs = []string{
	"invalid_hash_1",
	"invalid_hash_2",
}

// OrderRequest is the order creation body.
type OrderRequest struct {
	Ingredients []string `json:"ingredients"`
}

// normalize makes sure an empty order is sent as [] rather than null.
func (o OrderRequest) normalize() OrderRequest {
	if o.Ingredients == nil {
		o.Ingredients = []string{}
	}

	return o
}

// OrderPayloadBuilder builds order payloads for testing.
type OrderPayloadBuilder struct {
	ingredients []string
}

// NewOrderPayload creates a builder preloaded with the configured ingredients.
func NewOrderPayload(config *TestConfig) *OrderPayloadBuilder {
	return &OrderPayloadBuilder{
		ingredients: append([]string{}, config.IngredientIDs...),
	}
}

// WithIngredients replaces the ingredient list.
func (b *OrderPayloadBuilder) WithIngredients(ids ...string) *OrderPayloadBuilder {
	b.ingredients = append([]string{}, ids...)

	return b
}

// WithoutIngredients empties the ingredient list.
func (b *OrderPayloadBuilder) WithoutIngredients() *OrderPayloadBuilder {
	b.ingredients = []string{}

	return b
}

// WithInvalidIngredients uses IDs the service cannot parse.
func (b *OrderPayloadBuilder) WithInvalidIngredients() *OrderPayloadBuilder {
	return b.WithIngredients(InvalidIngredientIDs...)
}

// Build returns the completed order payload.
func (b *OrderPayloadBuilder) Build() OrderRequest {
	return OrderRequest{
		Ingredients: append([]string{}, b.ingredients...),
	}
}
