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

var _ = Describe("User Registration", func() {
	Context("When registering a new user", func() {
		Describe("Given a unique identity", func() {
			It("should issue an access and refresh token", func() {
				identity := factory.Next()

				resp, err := client.Register(ctx, identity)
				api.TrackSession(client, ctx, identity, resp)

				Expect(err).NotTo(HaveOccurred())

				Expect(resp).To(api.HaveStatus(http.StatusOK))
				Expect(resp).To(api.HaveSuccess(true))
				Expect(resp).To(api.HaveNonNullJSONPath("accessToken"))
				Expect(resp).To(api.HaveNonNullJSONPath("refreshToken"))
				Expect(resp).To(api.HaveJSONPath("user.email", Equal(identity.Email)))
				Expect(resp).To(api.HaveJSONPath("user.name", Equal(identity.DisplayName())))
				Expect(resp).To(api.MatchResponseSchema(validator))
			})
		})

		Describe("Given an identity that is already registered", func() {
			It("should reject the duplicate", func() {
				identity := factory.Next()
				api.RegisterWithCleanup(client, ctx, identity)

				resp, err := client.Register(ctx, identity)

				// Should the service ever accept it, the duplicate is cleaned up too.
				api.TrackSession(client, ctx, identity, resp)

				Expect(err).NotTo(HaveOccurred())

				Expect(resp).To(api.HaveStatus(http.StatusForbidden))
				Expect(resp).To(api.HaveSuccess(false))
				Expect(resp).To(api.HaveMessage(api.MessageUserExists))
			})
		})

		Describe("Given an identity without a name", func() {
			It("should reject the missing required field", func() {
				identity := factory.NextWithoutName()

				resp, err := client.Register(ctx, identity)
				api.TrackSession(client, ctx, identity, resp)

				Expect(err).NotTo(HaveOccurred())

				Expect(resp).To(api.HaveStatus(http.StatusForbidden))
				Expect(resp).To(api.HaveSuccess(false))
				Expect(resp).To(api.HaveMessage(api.MessageRequiredFields))
			})
		})
	})
})
