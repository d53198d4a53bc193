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
	"context"
	_ "embed"
	"fmt"
	"net/http"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/getkin/kin-openapi/openapi3filter"
	"github.com/getkin/kin-openapi/routers"
	"github.com/getkin/kin-openapi/routers/legacy"
)

//go:embed openapi.yaml
var openAPIDocument []byte

// SchemaValidator checks responses against the embedded OpenAPI document.
type SchemaValidator struct {
	router routers.Router
}

// NewSchemaValidator loads and validates the embedded document.
func NewSchemaValidator() (*SchemaValidator, error) {
	loader := openapi3.NewLoader()

	doc, err := loader.LoadFromData(openAPIDocument)
	if err != nil {
		return nil, fmt.Errorf("loading openapi document: %w", err)
	}

	if err := doc.Validate(context.Background()); err != nil {
		return nil, fmt.Errorf("validating openapi document: %w", err)
	}

	router, err := legacy.NewRouter(doc)
	if err != nil {
		return nil, fmt.Errorf("building openapi router: %w", err)
	}

	return &SchemaValidator{
		router: router,
	}, nil
}

// Validate checks the status code, content type and body of a response
// against the operation it was returned from.  Undocumented status codes
// are reported as errors.
func (v *SchemaValidator) Validate(ctx context.Context, resp *Response) error {
	// Routes are matched on the endpoint path alone so base URLs with a
	// path prefix still resolve.
	req, err := http.NewRequestWithContext(ctx, resp.Method, resp.Path, nil)
	if err != nil {
		return fmt.Errorf("creating validation request: %w", err)
	}

	route, pathParams, err := v.router.FindRoute(req)
	if err != nil {
		return fmt.Errorf("finding route for %s %s: %w", resp.Method, resp.Path, err)
	}

	input := &openapi3filter.ResponseValidationInput{
		RequestValidationInput: &openapi3filter.RequestValidationInput{
			Request:    req,
			PathParams: pathParams,
			Route:      route,
		},
		Status: resp.StatusCode,
		Header: resp.Header,
		Options: &openapi3filter.Options{
			IncludeResponseStatus: true,
		},
	}

	input.SetBodyBytes(resp.Body)

	if err := openapi3filter.ValidateResponse(ctx, input); err != nil {
		return fmt.Errorf("response to %s %s does not match schema (trace ID: %s): %w", resp.Method, resp.Path, resp.TraceID, err)
	}

	return nil
}
