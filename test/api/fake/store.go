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

package fake

import (
	"errors"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"
	"github.com/spjmurray/go-util/pkg/set"
)

var (
	ErrUserExists     = errors.New("user exists")
	ErrEmailTaken     = errors.New("email taken")
	ErrBadCredentials = errors.New("bad credentials")
	ErrNoSession      = errors.New("no session")
	ErrMalformedToken = errors.New("malformed token")
	ErrUserNotFound   = errors.New("user not found")
	ErrNoIngredients  = errors.New("no ingredients")
	ErrUnparseableID  = errors.New("unparseable ingredient id")
	ErrUnknownID      = errors.New("unknown ingredient id")
)

// objectIDExpression matches ids the service can parse, anything else makes
// it fail with a 500.
var objectIDExpression = regexp.MustCompile(`^[0-9a-f]{24}$`)

// Ingredient is a catalog entry.
type Ingredient struct {
	ID    string `json:"_id"`
	Name  string `json:"name"`
	Type  string `json:"type"`
	Price int    `json:"price"`
}

// DefaultCatalog mirrors a slice of the live catalog, including the
// ingredients the suites order by default.
func DefaultCatalog() []Ingredient {
	return []Ingredient{
		{ID: "61c0c5a71d1f82001bdaaa6c", Name: "Краторная булка N-200i", Type: "bun", Price: 1255},
		{ID: "61c0c5a71d1f82001bdaaa6d", Name: "Флюоресцентная булка R2-D3", Type: "bun", Price: 988},
		{ID: "61c0c5a71d1f82001bdaaa6f", Name: "Мясо бессмертных моллюсков Protostomia", Type: "main", Price: 1337},
		{ID: "61c0c5a71d1f82001bdaaa70", Name: "Говяжий метеорит (отбивная)", Type: "main", Price: 3000},
		{ID: "61c0c5a71d1f82001bdaaa71", Name: "Биокотлета из марсианской Магнолии", Type: "main", Price: 424},
		{ID: "61c0c5a71d1f82001bdaaa72", Name: "Соус Spicy-X", Type: "sauce", Price: 90},
	}
}

// User is an account.
type User struct {
	ID       string
	Email    string
	Password string
	Name     string
}

// Order is a placed order.
type Order struct {
	ID          string
	Number      int
	Name        string
	Status      string
	Ingredients []string
	Owner       string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Tokens is an issued session.
type Tokens struct {
	AccessToken  string
	RefreshToken string
}

// Store keeps all state in memory.
type Store struct {
	lock sync.Mutex

	users       map[string]*User
	emails      map[string]string
	tokens      map[string]string
	orders      []*Order
	catalog     map[string]Ingredient
	catalogIDs  set.Set[string]
	ingredients []Ingredient
	nextNumber  int
	now         func() time.Time
}

// NewStore creates an empty store serving the given catalog.
func NewStore(catalog []Ingredient) *Store {
	return &Store{
		users:       map[string]*User{},
		emails:      map[string]string{},
		tokens:      map[string]string{},
		catalog:     lo.KeyBy(catalog, func(i Ingredient) string { return i.ID }),
		catalogIDs:  set.New[string](lo.Map(catalog, func(i Ingredient, _ int) string { return i.ID })...),
		ingredients: catalog,
		nextNumber:  10000,
		now:         time.Now,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// issue must be called with the lock held.
func (s *Store) issue(userID string) Tokens {
	tokens := Tokens{
		AccessToken:  "Bearer " + uuid.NewString(),
		RefreshToken: strings.ReplaceAll(uuid.NewString(), "-", ""),
	}

	s.tokens[tokens.AccessToken] = userID

	return tokens
}

// Register creates an account and issues a session.
func (s *Store) Register(email, password, name string) (User, Tokens, error) {
	s.lock.Lock()
	defer s.lock.Unlock()

	email = normalizeEmail(email)

	if _, ok := s.emails[email]; ok {
		return User{}, Tokens{}, ErrUserExists
	}

	user := &User{
		ID:       uuid.NewString(),
		Email:    email,
		Password: password,
		Name:     name,
	}

	s.users[user.ID] = user
	s.emails[email] = user.ID

	return *user, s.issue(user.ID), nil
}

// Login checks credentials and issues a session.
func (s *Store) Login(email, password string) (User, Tokens, error) {
	s.lock.Lock()
	defer s.lock.Unlock()

	id, ok := s.emails[normalizeEmail(email)]
	if !ok {
		return User{}, Tokens{}, ErrBadCredentials
	}

	user := s.users[id]
	if user.Password != password {
		return User{}, Tokens{}, ErrBadCredentials
	}

	return *user, s.issue(user.ID), nil
}

// authenticate must be called with the lock held.
func (s *Store) authenticate(token string) (*User, error) {
	if token == "" {
		return nil, ErrNoSession
	}

	id, ok := s.tokens[token]
	if !ok {
		return nil, ErrMalformedToken
	}

	user, ok := s.users[id]
	if !ok {
		return nil, ErrUserNotFound
	}

	return user, nil
}

// Profile returns the token's user.
func (s *Store) Profile(token string) (User, error) {
	s.lock.Lock()
	defer s.lock.Unlock()

	user, err := s.authenticate(token)
	if err != nil {
		return User{}, err
	}

	return *user, nil
}

// UpdateProfile changes any non-empty field of the token's user.
func (s *Store) UpdateProfile(token, email, password, name string) (User, error) {
	s.lock.Lock()
	defer s.lock.Unlock()

	user, err := s.authenticate(token)
	if err != nil {
		return User{}, err
	}

	if email = normalizeEmail(email); email != "" && email != user.Email {
		if _, ok := s.emails[email]; ok {
			return User{}, ErrEmailTaken
		}

		delete(s.emails, user.Email)
		s.emails[email] = user.ID
		user.Email = email
	}

	if password != "" {
		user.Password = password
	}

	if name != "" {
		user.Name = name
	}

	return *user, nil
}

// DeleteUser removes the token's user.  Its tokens stay known so later use
// reports a missing user rather than a malformed token.
func (s *Store) DeleteUser(token string) error {
	s.lock.Lock()
	defer s.lock.Unlock()

	user, err := s.authenticate(token)
	if err != nil {
		return err
	}

	delete(s.emails, user.Email)
	delete(s.users, user.ID)

	return nil
}

// Ingredients returns the catalog.
func (s *Store) Ingredients() []Ingredient {
	s.lock.Lock()
	defer s.lock.Unlock()

	return append([]Ingredient(nil), s.ingredients...)
}

// CreateOrder validates the ingredients and places an order.  An empty token
// places an anonymous order, as does a token that does not resolve.
func (s *Store) CreateOrder(token string, ingredients []string) (Order, *User, error) {
	if len(ingredients) == 0 {
		return Order{}, nil, ErrNoIngredients
	}

	for _, id := range ingredients {
		if !objectIDExpression.MatchString(id) {
			return Order{}, nil, ErrUnparseableID
		}
	}

	s.lock.Lock()
	defer s.lock.Unlock()

	for _, id := range ingredients {
		if !s.catalogIDs.Contains(id) {
			return Order{}, nil, ErrUnknownID
		}
	}

	now := s.now()

	order := &Order{
		ID:          strings.ReplaceAll(uuid.NewString(), "-", "")[:24],
		Number:      s.nextNumber,
		Name:        s.orderName(ingredients),
		Status:      "done",
		Ingredients: append([]string(nil), ingredients...),
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	s.nextNumber++

	owner, err := s.authenticate(token)
	if err == nil {
		order.Owner = owner.ID
	} else {
		owner = nil
	}

	s.orders = append(s.orders, order)

	if owner != nil {
		ownerCopy := *owner
		return *order, &ownerCopy, nil
	}

	return *order, nil, nil
}

// orderName must be called with the lock held.
func (s *Store) orderName(ingredients []string) string {
	names := lo.Uniq(lo.Map(ingredients, func(id string, _ int) string {
		return s.catalog[id].Name
	}))

	return strings.Join(names, " ") + " бургер"
}

// Lookup returns catalog entries for the ids.
func (s *Store) Lookup(ids []string) []Ingredient {
	s.lock.Lock()
	defer s.lock.Unlock()

	return lo.Map(ids, func(id string, _ int) Ingredient {
		return s.catalog[id]
	})
}

// Orders returns the token's order history and store wide totals.
func (s *Store) Orders(token string) ([]Order, int, int, error) {
	s.lock.Lock()
	defer s.lock.Unlock()

	user, err := s.authenticate(token)
	if err != nil {
		return nil, 0, 0, err
	}

	now := s.now()
	year, month, day := now.Date()

	owned := lo.FilterMap(s.orders, func(o *Order, _ int) (Order, bool) {
		return *o, o.Owner == user.ID
	})

	today := lo.CountBy(s.orders, func(o *Order) bool {
		y, m, d := o.CreatedAt.Date()
		return y == year && m == month && d == day
	})

	return owned, len(s.orders), today, nil
}
