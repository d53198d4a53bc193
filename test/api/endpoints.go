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

// Endpoints contains all API endpoint patterns.
type Endpoints struct{}

// NewEndpoints creates a new Endpoints instance.
func NewEndpoints() *Endpoints {
	return &Endpoints{}
}

// Auth endpoints.
func (e *Endpoints) Register() string {
	return "/api/auth/register"
}

func (e *Endpoints) Login() string {
	return "/api/auth/login"
}

// User is shared by profile reads, updates and account deletion.
func (e *Endpoints) User() string {
	return "/api/auth/user"
}

// Order endpoints.
func (e *Endpoints) Orders() string {
	return "/api/orders"
}

// Catalog endpoints.
func (e *Endpoints) Ingredients() string {
	return "/api/ingredients"
}
