/*
Copyright 2025 the Unikorn Authors.
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

package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-logr/logr"
	"github.com/go-logr/zapr"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/nscaledev/stellar-burgers-api/test/api"
)

type options struct {
	baseURL        string
	requestTimeout time.Duration
	timeout        time.Duration
	seed           uint64
	emailDomain    string
	ingredientIDs  []string
	validateSchema bool
	debug          bool
}

func (o *options) addFlags(f *pflag.FlagSet) {
	f.StringVar(&o.baseURL, "base-url", "", "API root to smoke test, for example https://stellarburgers.nomoreparties.site.")
	f.DurationVar(&o.requestTimeout, "request-timeout", 30*time.Second, "Timeout for each HTTP request.")
	f.DurationVar(&o.timeout, "timeout", 2*time.Minute, "Timeout for the whole run.")
	f.Uint64Var(&o.seed, "seed", 0, "Identity seed, defaults to the current time.")
	f.StringVar(&o.emailDomain, "email-domain", api.DefaultEmailDomain, "Domain for generated email addresses.")
	f.StringSliceVar(&o.ingredientIDs, "ingredient-ids", api.DefaultIngredientIDs, "Ingredient IDs to order.")
	f.BoolVar(&o.validateSchema, "validate-schema", true, "Validate responses against the OpenAPI document.")
	f.BoolVar(&o.debug, "debug", false, "Log request and response bodies.")
}

func (o *options) config() *api.TestConfig {
	return &api.TestConfig{
		BaseURL:        o.baseURL,
		RequestTimeout: o.requestTimeout,
		TestTimeout:    o.timeout,
		Seed:           o.seed,
		EmailDomain:    o.emailDomain,
		IngredientIDs:  o.ingredientIDs,
		ValidateSchema: o.validateSchema,
		DebugLogging:   o.debug,
		LogRequests:    true,
		LogResponses:   o.debug,
	}
}

// expect reports a deviation when the response is not what the flow needs.
func expect(resp *api.Response, err error, status int) error {
	if err != nil {
		return err
	}

	if resp.StatusCode != status {
		return fmt.Errorf("%w: expected %d, got %s", errUnexpectedResponse, status, resp)
	}

	return nil
}

var errUnexpectedResponse = errors.New("unexpected response")

// issuedToken returns the access token of a successful registration, if any.
func issuedToken(resp *api.Response) string {
	if resp == nil || resp.StatusCode != http.StatusOK {
		return ""
	}

	body, err := api.Decode[api.AuthBody](resp)
	if err != nil {
		return ""
	}

	return body.AccessToken
}

// run registers a throwaway user, exercises every authenticated operation
// with it, then deletes it.
//
//nolint:cyclop
func run(ctx context.Context, logger logr.Logger, client *api.APIClient, o *options) (err error) {
	seed := o.seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano()) //nolint:gosec
	}

	identity := api.NewIdentityFactory(seed, os.Getpid(), o.emailDomain).Next()

	logger = logger.WithValues("email", identity.Email, "seed", seed)

	resp, registerErr := client.Register(ctx, identity)

	// Any issued session is cleaned up, even when the response is otherwise
	// not what we expect.
	if token := issuedToken(resp); token != "" {
		defer func() {
			resp, deleteErr := client.DeleteUser(context.WithoutCancel(ctx), token)
			if deleteErr != nil {
				logger.Error(deleteErr, "failed to delete user")
				return
			}

			logger.Info("deleted user", "status", resp.StatusCode)
		}()
	}

	if err := expect(resp, registerErr, http.StatusOK); err != nil {
		return fmt.Errorf("registering: %w", err)
	}

	logger.Info("registered user")

	resp, err = client.Login(ctx, identity)
	if err := expect(resp, err, http.StatusOK); err != nil {
		return fmt.Errorf("logging in: %w", err)
	}

	login, err := api.Decode[api.AuthBody](resp)
	if err != nil {
		return err
	}

	token := login.Session().AccessToken

	resp, err = client.GetProfile(ctx, token)
	if err := expect(resp, err, http.StatusOK); err != nil {
		return fmt.Errorf("reading profile: %w", err)
	}

	profile, err := api.Decode[api.UserBody](resp)
	if err != nil {
		return err
	}

	if profile.User.Email != identity.Email {
		return fmt.Errorf("%w: profile email %q does not match %q", errUnexpectedResponse, profile.User.Email, identity.Email)
	}

	resp, err = client.CreateOrder(ctx, api.OrderRequest{Ingredients: o.ingredientIDs}, token)
	if err := expect(resp, err, http.StatusOK); err != nil {
		return fmt.Errorf("creating order: %w", err)
	}

	order, err := api.Decode[api.OrderBody](resp)
	if err != nil {
		return err
	}

	logger.Info("created order", "number", order.Order.Number, "name", order.Name)

	resp, err = client.ListOrders(ctx, token)
	if err := expect(resp, err, http.StatusOK); err != nil {
		return fmt.Errorf("listing orders: %w", err)
	}

	history, err := api.Decode[api.OrdersBody](resp)
	if err != nil {
		return err
	}

	logger.Info("listed orders", "count", len(history.Orders), "total", history.Total)

	return nil
}

func main() {
	var o options

	o.addFlags(pflag.CommandLine)

	pflag.Parse()

	zapLogger, err := zap.NewProduction()
	if o.debug {
		zapLogger, err = zap.NewDevelopment()
	}

	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}

	defer func() { _ = zapLogger.Sync() }()

	logger := zapr.NewLogger(zapLogger).WithName("burger-smoke")

	if o.baseURL == "" {
		logger.Info("--base-url is required")
		os.Exit(1)
	}

	client, err := api.NewAPIClientWithConfig(o.config(), api.WithLogger(logger.WithName("client")))
	if err != nil {
		logger.Error(err, "failed to create client")
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	ctx, cancel := context.WithTimeout(ctx, o.timeout)
	defer cancel()

	logger.Info("smoke test starting", "baseURL", client.BaseURL())

	if err := run(ctx, logger, client, &o); err != nil {
		logger.Error(err, "smoke test failed")
		cancel()
		stop()
		os.Exit(1) //nolint:gocritic
	}

	logger.Info("smoke test passed")
}
