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

	"github.com/nscaledev/stellar-burgers-api/test/api"
)

var _ = Describe("Order Creation", func() {
	Context("When placing an order", func() {
		Describe("Given a valid session", func() {
			var session api.Session

			BeforeEach(func() {
				_, session = api.CreateUserWithSession(client, ctx, factory)
			})

			It("should accept the configured ingredients", func() {
				resp, err := client.CreateOrder(ctx, api.NewOrderPayload(config).Build(), session.AccessToken)
				Expect(err).NotTo(HaveOccurred())

				Expect(resp).To(api.HaveStatus(http.StatusOK))
				Expect(resp).To(api.HaveSuccess(true))
				Expect(resp).To(api.HaveNonNullJSONPath("order.number"))
				Expect(resp).To(api.MatchResponseSchema(validator))
			})

			It("should reject an order without ingredients", func() {
				resp, err := client.CreateOrder(ctx, api.NewOrderPayload(config).WithoutIngredients().Build(), session.AccessToken)
				Expect(err).NotTo(HaveOccurred())

				Expect(resp).To(api.HaveStatus(http.StatusBadRequest))
				Expect(resp).To(api.HaveSuccess(false))
				Expect(resp).To(api.HaveMessage(api.MessageIngredientsRequired))
			})

			It("should fail on ingredient ids the service cannot parse", func() {
				resp, err := client.CreateOrder(ctx, api.NewOrderPayload(config).WithInvalidIngredients().Build(), session.AccessToken)
				Expect(err).NotTo(HaveOccurred())

				Expect(resp).To(api.HaveStatus(http.StatusInternalServerError))
			})
		})

		Describe("Given no session", func() {
			It("should accept an anonymous order", func() {
				resp, err := client.CreateOrder(ctx, api.NewOrderPayload(config).Build(), "")
				Expect(err).NotTo(HaveOccurred())

				Expect(resp).To(api.HaveStatus(http.StatusOK))
				Expect(resp).To(api.HaveSuccess(true))
				Expect(resp).To(api.HaveNonNullJSONPath("order.number"))
			})

			It("should reject an order without ingredients", func() {
				resp, err := client.CreateOrder(ctx, api.NewOrderPayload(config).WithoutIngredients().Build(), "")
				Expect(err).NotTo(HaveOccurred())

				Expect(resp).To(api.HaveStatus(http.StatusBadRequest))
				Expect(resp).To(api.HaveMessage(api.MessageIngredientsRequired))
			})
		})
	})
})
