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

//nolint:revive,staticcheck // dot imports are standard for Ginkgo/Gomega test code
package api

import (
	"context"
	"encoding/binary"
	"fmt"
	"math/rand/v2"
	"net/http"

	"github.com/google/uuid"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"k8s.io/utils/ptr"
)

// Identity is a test user.  Name is nullable so the required field
// validation can be exercised, a nil name is sent as JSON null.
type Identity struct {
	Email    string  `json:"email"`
	Password string  `json:"password"`
	Name     *string `json:"name"`
}

// DisplayName returns the name, or the empty string for a nameless identity.
func (i Identity) DisplayName() string {
	return ptr.Deref(i.Name, "")
}

// WithoutName returns a copy that fails registration validation.
func (i Identity) WithoutName() Identity {
	i.Name = nil

	return i
}

// WithName returns a copy with a different name.
func (i Identity) WithName(name string) Identity {
	i.Name = ptr.To(name)

	return i
}

// WithEmail returns a copy with a different email.
func (i Identity) WithEmail(email string) Identity {
	i.Email = email

	return i
}

// WithPassword returns a copy with a different password.
func (i Identity) WithPassword(password string) Identity {
	i.Password = password

	return i
}

// Session is the token pair issued on registration or login.  It is only
// valid for the identity that produced it.
type Session struct {
	AccessToken  string
	RefreshToken string
}

// GenerateIdentity derives an identity from its inputs alone, the same
// arguments always produce the same user.  Distinct (worker, sequence) pairs
// under one seed yield distinct random UUIDs, so parallel processes never
// collide on email.
func GenerateIdentity(seed uint64, worker, sequence int, domain string) Identity {
	var key [32]byte

	binary.LittleEndian.PutUint64(key[0:], seed)
	binary.LittleEndian.PutUint64(key[8:], uint64(worker))   //nolint:gosec
	binary.LittleEndian.PutUint64(key[16:], uint64(sequence)) //nolint:gosec

	stream := rand.NewChaCha8(key)

	// ChaCha8 reads never fail.
	id := uuid.Must(uuid.NewRandomFromReader(stream))

	random := rand.New(stream) //nolint:gosec

	return Identity{
		Email:    fmt.Sprintf("test-%s@%s", id, domain),
		Password: fmt.Sprintf("password%012x", random.Uint64()&0xffffffffffff),
		Name:     ptr.To(fmt.Sprintf("User%06d", random.IntN(1000000))),
	}
}

// IdentityFactory hands out a deterministic stream of identities for one
// test process.
type IdentityFactory struct {
	seed     uint64
	worker   int
	domain   string
	sequence int
}

// NewIdentityFactory creates a factory, worker should be unique per parallel process.
func NewIdentityFactory(seed uint64, worker int, domain string) *IdentityFactory {
	if domain == "" {
		domain = DefaultEmailDomain
	}

	return &IdentityFactory{
		seed:   seed,
		worker: worker,
		domain: domain,
	}
}

// Next returns the next identity in the stream.
func (f *IdentityFactory) Next() Identity {
	identity := GenerateIdentity(f.seed, f.worker, f.sequence, f.domain)
	f.sequence++

	return identity
}

// NextWithoutName returns the next identity with its name removed.
func (f *IdentityFactory) NextWithoutName() Identity {
	return f.Next().WithoutName()
}

// TrackSession inspects a register or login response and, if it carries an
// access token, schedules deletion of the account.  It must be called before
// asserting on the response so a failed assertion cannot leak the user.
func TrackSession(client *APIClient, ctx context.Context, identity Identity, resp *Response) Session {
	if resp == nil || resp.StatusCode != http.StatusOK {
		return Session{}
	}

	body, err := Decode[AuthBody](resp)
	if err != nil || body.AccessToken == "" {
		return Session{}
	}

	session := body.Session()

	ScheduleUserCleanup(client, ctx, identity, session)

	return session
}

// ScheduleUserCleanup deletes the user when the spec ends, whether it passed
// or failed.  Failures are logged, never raised, as the account may already
// be gone.  The delete outlives the spec's context, which may have expired,
// and is bounded by the request timeout instead.
func ScheduleUserCleanup(client *APIClient, ctx context.Context, identity Identity, session Session) {
	DeferCleanup(func() {
		GinkgoWriter.Printf("Cleaning up user: %s\n", identity.Email)

		cleanupCtx := context.WithoutCancel(ctx)

		if timeout := client.config.RequestTimeout; timeout > 0 {
			var cancel context.CancelFunc

			cleanupCtx, cancel = context.WithTimeout(cleanupCtx, timeout)
			defer cancel()
		}

		if err := DeleteUserBestEffort(client, cleanupCtx, session); err != nil {
			GinkgoWriter.Printf("Warning: Failed to delete user %s: %v\n", identity.Email, err)
		} else {
			GinkgoWriter.Printf("Successfully deleted user: %s\n", identity.Email)
		}
	})
}

// DeleteUserBestEffort deletes the session's user and reports, but never
// panics on, any failure.
func DeleteUserBestEffort(client *APIClient, ctx context.Context, session Session) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("deleting user panicked: %v", r)
		}
	}()

	if session.AccessToken == "" {
		return fmt.Errorf("no access token")
	}

	resp, err := client.DeleteUser(ctx, session.AccessToken)
	if err != nil {
		return err
	}

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusAccepted {
		return fmt.Errorf("unexpected status code: %d, body: %s (trace ID: %s)", resp.StatusCode, string(resp.Body), resp.TraceID)
	}

	return nil
}

// RegisterWithCleanup registers the identity, schedules its deletion and
// asserts the registration succeeded.  A response is tracked even when it
// comes back with an error, schema mismatches still carry the session.
func RegisterWithCleanup(client *APIClient, ctx context.Context, identity Identity) Session {
	resp, err := client.Register(ctx, identity)

	session := TrackSession(client, ctx, identity, resp)

	Expect(err).NotTo(HaveOccurred())
	Expect(resp).To(HaveStatus(http.StatusOK))
	Expect(resp).To(HaveSuccess(true))
	Expect(session.AccessToken).NotTo(BeEmpty(), "registration should issue an access token")

	GinkgoWriter.Printf("Registered user: %s\n", identity.Email)

	return session
}

// CreateUserWithSession registers a fresh identity and logs it in, the
// returned session comes from the login.
func CreateUserWithSession(client *APIClient, ctx context.Context, factory *IdentityFactory) (Identity, Session) {
	identity := factory.Next()

	RegisterWithCleanup(client, ctx, identity)

	resp, err := client.Login(ctx, identity)
	Expect(err).NotTo(HaveOccurred())
	Expect(resp).To(HaveStatus(http.StatusOK))

	body, err := Decode[AuthBody](resp)
	Expect(err).NotTo(HaveOccurred())
	Expect(body.AccessToken).NotTo(BeEmpty(), "login should issue an access token")

	return identity, body.Session()
}
