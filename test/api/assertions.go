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
	"fmt"

	"github.com/onsi/gomega"
	"github.com/onsi/gomega/gcustom"
	"github.com/onsi/gomega/types"
)

// HaveStatus matches the exact HTTP status code.
func HaveStatus(code int) types.GomegaMatcher {
	return gcustom.MakeMatcher(func(resp *Response) (bool, error) {
		return resp.StatusCode == code, nil
	}).WithTemplate("Expected response\n\t{{.Actual}}\n{{.To}} have status {{.Data}}", code)
}

// HaveJSONPath applies the matcher to the value at a dotted path in the body,
// for example "user.email".  A missing path is a failure.
func HaveJSONPath(path string, matcher types.GomegaMatcher) types.GomegaMatcher {
	return gomega.WithTransform(func(resp *Response) (interface{}, error) {
		value, ok := resp.Lookup(path)
		if !ok {
			return nil, fmt.Errorf("response %s has no value at %q", resp, path)
		}

		return value, nil
	}, matcher)
}

// HaveNonNullJSONPath matches any present, non-null value at a dotted path,
// used for server generated values such as tokens and order numbers.
func HaveNonNullJSONPath(path string) types.GomegaMatcher {
	return HaveJSONPath(path, gomega.Not(gomega.BeNil()))
}

// HaveSuccess matches the success flag exactly.
func HaveSuccess(success bool) types.GomegaMatcher {
	return HaveJSONPath("success", gomega.Equal(success))
}

// HaveMessage matches the failure message exactly.
func HaveMessage(message string) types.GomegaMatcher {
	return HaveJSONPath("message", gomega.Equal(message))
}

// MatchResponseSchema validates the response against the OpenAPI document.
func MatchResponseSchema(validator *SchemaValidator) types.GomegaMatcher {
	return gcustom.MakeMatcher(func(resp *Response) (bool, error) {
		if err := validator.Validate(context.Background(), resp); err != nil {
			return false, err
		}

		return true, nil
	}).WithTemplate("Expected response\n\t{{.Actual}}\n{{.To}} match the OpenAPI schema")
}
