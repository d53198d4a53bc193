/*
Copyright 2024-2025 the Unikorn Authors.
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

//nolint:testpackage,revive // test package in suites is standard for these tests, dot imports standard for Ginkgo
package suites

import (
	"net/http"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/samber/lo"

	"github.com/nscaledev/stellar-burgers-api/test/api"
)

var _ = Describe("Ingredient Catalog", func() {
	Context("When listing ingredients", func() {
		It("should contain every configured ingredient", func() {
			resp, err := client.ListIngredients(ctx)
			Expect(err).NotTo(HaveOccurred())

			Expect(resp).To(api.HaveStatus(http.StatusOK))
			Expect(resp).To(api.HaveSuccess(true))
			Expect(resp).To(api.MatchResponseSchema(validator))

			catalog, err := api.Decode[api.IngredientsBody](resp)
			Expect(err).NotTo(HaveOccurred())

			ids := lo.Map(catalog.Data, func(i api.Ingredient, _ int) string { return i.ID })

			Expect(ids).To(ContainElements(config.IngredientIDs))
		})
	})
})
