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

// Package api provides integration test utilities for the Stellar Burgers API.
//
// # Separate Client Implementation
//
// The remote service has no published client, so this package keeps a small
// hand-written HTTP client (APIClient). Each method maps to exactly one
// endpoint and returns the raw Response so that specs can assert on the
// status code and body themselves:
//
//   - no retries, caching or session state, the token is an argument
//   - an empty token sends an empty Authorization header, which the server
//     treats differently from a malformed token
//   - W3C trace context headers on every request for log correlation
//   - optional validation of every response against the embedded OpenAPI
//     document (VALIDATE_SCHEMA)
//
// # Fixtures and Cleanup
//
// Test users are produced by an IdentityFactory. Identities are a pure
// function of (seed, worker, sequence), so a failing run can be replayed with
// TEST_SEED and the Ginkgo seed. Any user that yields a Session is deleted via
// DeferCleanup, which runs even when the spec body fails.
//
// # Running Offline
//
// Setting FAKE_API=true points the suites at the in-process implementation in
// the fake package instead of API_BASE_URL.
package api
