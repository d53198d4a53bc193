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

// malformedToken has the bearer shape but is not a token the service issued.
const malformedToken = "Bearer not-a-jwt"

var _ = Describe("User Profile", func() {
	var (
		identity api.Identity
		session  api.Session
	)

	BeforeEach(func() {
		identity, session = api.CreateUserWithSession(client, ctx, factory)
	})

	Context("When reading the profile", func() {
		Describe("Given a valid session", func() {
			It("should return the registered user", func() {
				resp, err := client.GetProfile(ctx, session.AccessToken)
				Expect(err).NotTo(HaveOccurred())

				Expect(resp).To(api.HaveStatus(http.StatusOK))
				Expect(resp).To(api.HaveSuccess(true))
				Expect(resp).To(api.HaveJSONPath("user.email", Equal(identity.Email)))
				Expect(resp).To(api.HaveJSONPath("user.name", Equal(identity.DisplayName())))
				Expect(resp).To(api.MatchResponseSchema(validator))
			})
		})

		Describe("Given no session", func() {
			It("should require authorisation", func() {
				resp, err := client.GetProfile(ctx, "")
				Expect(err).NotTo(HaveOccurred())

				Expect(resp).To(api.HaveStatus(http.StatusUnauthorized))
				Expect(resp).To(api.HaveSuccess(false))
				Expect(resp).To(api.HaveMessage(api.MessageUnauthorised))
			})
		})

		Describe("Given a malformed token", func() {
			It("should reject it differently from a missing session", func() {
				resp, err := client.GetProfile(ctx, malformedToken)
				Expect(err).NotTo(HaveOccurred())

				Expect(resp).To(api.HaveStatus(http.StatusForbidden))
				Expect(resp).To(api.HaveSuccess(false))
				Expect(resp).NotTo(api.HaveMessage(api.MessageUnauthorised))
			})
		})
	})

	Context("When updating the profile", func() {
		Describe("Given a valid session", func() {
			It("should echo the new email and name", func() {
				updated := factory.Next().WithPassword(identity.Password)

				resp, err := client.UpdateProfile(ctx, session.AccessToken, updated)
				Expect(err).NotTo(HaveOccurred())

				Expect(resp).To(api.HaveStatus(http.StatusOK))
				Expect(resp).To(api.HaveSuccess(true))
				Expect(resp).To(api.HaveJSONPath("user.email", Equal(updated.Email)))
				Expect(resp).To(api.HaveJSONPath("user.name", Equal(updated.DisplayName())))
				Expect(resp).To(api.MatchResponseSchema(validator))
			})
		})

		Describe("Given no session", func() {
			It("should require authorisation", func() {
				resp, err := client.UpdateProfile(ctx, "", factory.Next())
				Expect(err).NotTo(HaveOccurred())

				Expect(resp).To(api.HaveStatus(http.StatusUnauthorized))
				Expect(resp).To(api.HaveSuccess(false))
				Expect(resp).To(api.HaveMessage(api.MessageUnauthorised))
			})
		})

		Describe("Given an email owned by another user", func() {
			It("should reject the conflict", func() {
				other := factory.Next()
				api.RegisterWithCleanup(client, ctx, other)

				resp, err := client.UpdateProfile(ctx, session.AccessToken, identity.WithEmail(other.Email))
				Expect(err).NotTo(HaveOccurred())

				Expect(resp).To(api.HaveStatus(http.StatusForbidden))
				Expect(resp).To(api.HaveSuccess(false))
				Expect(resp).To(api.HaveMessage(api.MessageEmailTaken))
			})
		})
	})
})
