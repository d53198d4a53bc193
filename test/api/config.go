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

package api

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// DefaultEmailDomain matches the domain the service's own test accounts use.
const DefaultEmailDomain = "yandex.ru"

// DefaultIngredientIDs are two ingredients known to exist in the catalog.
//
//nolint:gochecknoglobals
var DefaultIngredientIDs = []string{
	"61c0c5a71d1f82001bdaaa6d",
	"61c0c5a71d1f82001bdaaa71",
}

type TestConfig struct {
	BaseURL         string
	UseFake         bool
	RequestTimeout  time.Duration
	TestTimeout     time.Duration
	Seed            uint64
	EmailDomain     string
	IngredientIDs   []string
	SkipIntegration bool
	ValidateSchema  bool
	DebugLogging    bool
	LogRequests     bool
	LogResponses    bool
}

// LoadTestConfig loads configuration from environment variables and .env files.
// Returns an error if required configuration values are missing.
func LoadTestConfig() (*TestConfig, error) {
	loadEnvFile()

	config := &TestConfig{
		BaseURL:         os.Getenv("API_BASE_URL"),
		UseFake:         getBoolWithDefault("FAKE_API", false),
		RequestTimeout:  getDurationWithDefault("REQUEST_TIMEOUT", 30*time.Second),
		TestTimeout:     getDurationWithDefault("TEST_TIMEOUT", 2*time.Minute),
		Seed:            getUintWithDefault("TEST_SEED", 0),
		EmailDomain:     getStringWithDefault("TEST_EMAIL_DOMAIN", DefaultEmailDomain),
		IngredientIDs:   getListWithDefault("TEST_INGREDIENT_IDS", DefaultIngredientIDs),
		SkipIntegration: getBoolWithDefault("SKIP_INTEGRATION", false),
		ValidateSchema:  getBoolWithDefault("VALIDATE_SCHEMA", false),
		DebugLogging:    getBoolWithDefault("DEBUG_LOGGING", false),
		LogRequests:     getBoolWithDefault("LOG_REQUESTS", false),
		LogResponses:    getBoolWithDefault("LOG_RESPONSES", false),
	}

	if err := validateRequiredFields(config); err != nil {
		return nil, err
	}

	return config, nil
}

// getDurationWithDefault gets a duration from environment variable or returns default.
func getDurationWithDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	duration, err := time.ParseDuration(value)
	if err != nil {
		return defaultValue
	}

	return duration
}

// getBoolWithDefault gets a boolean from environment variable or returns default.
func getBoolWithDefault(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	boolValue, err := strconv.ParseBool(value)
	if err != nil {
		return defaultValue
	}

	return boolValue
}

func getUintWithDefault(key string, defaultValue uint64) uint64 {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	uintValue, err := strconv.ParseUint(value, 10, 64)
	if err != nil {
		return defaultValue
	}

	return uintValue
}

func getStringWithDefault(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}

	return defaultValue
}

// getListWithDefault splits a comma separated variable, dropping empty items.
func getListWithDefault(key string, defaultValue []string) []string {
	var items []string

	for _, item := range strings.Split(os.Getenv(key), ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}

	if len(items) == 0 {
		return append([]string(nil), defaultValue...)
	}

	return items
}

func loadEnvFile() {
	envPaths := []string{
		"../../../test/.env",    // From test/api/suites directory
		"../../test/.env",       // From test/api directory
		"../../../../test/.env", // From test/contracts/consumer/* directories
	}

	var envPath string
	for _, path := range envPaths {
		if _, err := os.Stat(path); err == nil {
			absPath, err := filepath.Abs(path)
			if err == nil {
				envPath = absPath
				break
			}
		}
	}

	if envPath == "" {
		// .env file not found - this is OK in CI/CD where env vars are set directly
		return
	}

	if err := godotenv.Load(envPath); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to load .env file from %s: %v\n", envPath, err)
	}
}

// validateRequiredFields checks that all required configuration values are set.
func validateRequiredFields(config *TestConfig) error {
	var missing []string

	if config.BaseURL == "" && !config.UseFake {
		missing = append(missing, "API_BASE_URL")
	}

	if len(config.IngredientIDs) < 2 {
		missing = append(missing, "TEST_INGREDIENT_IDS (at least two ids)")
	}

	if len(missing) > 0 {
		return fmt.Errorf("missing required configuration: %s. Please set these environment variables or add them to a .env file, or set FAKE_API=true to run against the in-process fake", strings.Join(missing, ", "))
	}

	return nil
}
