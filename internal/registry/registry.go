package registry

import (
	"errors"
	"fmt"

	"github.com/Novip1906/tasks-notify/internal/models"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrPrincipalNotFound  = errors.New("principal not found")
	ErrInvalidSeed        = errors.New("invalid principal seed")
)

// Seed is the plaintext form of a principal before its secret is hashed.
type Seed struct {
	Id           string
	Username     string
	Secret       string
	Role         models.Role
	Email        string
	SubscriberId string
}

// Registry is the read-only set of principals known to the process.
type Registry struct {
	principals []models.Principal
	byId       map[string]int
	byUsername map[string]int
	admin      int
	dummyHash  []byte
}

func New(seeds []Seed, cost int) (*Registry, error) {
	r := &Registry{
		byId:       make(map[string]int, len(seeds)),
		byUsername: make(map[string]int, len(seeds)),
		admin:      -1,
	}

	for _, seed := range seeds {
		if seed.Id == "" || seed.Username == "" || seed.Secret == "" {
			return nil, fmt.Errorf("%w: id, username and secret are required", ErrInvalidSeed)
		}
		role, err := models.ParseRole(string(seed.Role))
		if err != nil {
			return nil, fmt.Errorf("%w: principal %s: %w", ErrInvalidSeed, seed.Id, err)
		}
		if _, ok := r.byId[seed.Id]; ok {
			return nil, fmt.Errorf("%w: duplicate id %s", ErrInvalidSeed, seed.Id)
		}
		if _, ok := r.byUsername[seed.Username]; ok {
			return nil, fmt.Errorf("%w: duplicate username %s", ErrInvalidSeed, seed.Username)
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(seed.Secret), cost)
		if err != nil {
			return nil, fmt.Errorf("hash secret of %s: %w", seed.Id, err)
		}

		subscriberId := seed.SubscriberId
		if subscriberId == "" {
			subscriberId = seed.Id
		}

		idx := len(r.principals)
		switch role {
		case models.RoleAdmin:
			if r.admin >= 0 {
				return nil, fmt.Errorf("%w: more than one admin", ErrInvalidSeed)
			}
			r.admin = idx
		case models.RoleGuest:
		}

		r.principals = append(r.principals, models.Principal{
			Id:           seed.Id,
			Username:     seed.Username,
			SecretHash:   hash,
			Role:         role,
			Email:        seed.Email,
			SubscriberId: subscriberId,
		})
		r.byId[seed.Id] = idx
		r.byUsername[seed.Username] = idx
	}

	if r.admin < 0 {
		return nil, fmt.Errorf("%w: exactly one admin is required", ErrInvalidSeed)
	}

	dummy, err := bcrypt.GenerateFromPassword([]byte("no-such-principal"), cost)
	if err != nil {
		return nil, fmt.Errorf("hash dummy secret: %w", err)
	}
	r.dummyHash = dummy

	return r, nil
}

// Authenticate checks a username/secret pair. Unknown usernames still pay
// for a bcrypt comparison so both failure paths take similar time.
func (r *Registry) Authenticate(username, secret string) (models.Principal, error) {
	idx, ok := r.byUsername[username]
	if !ok {
		_ = bcrypt.CompareHashAndPassword(r.dummyHash, []byte(secret))
		return models.Principal{}, ErrInvalidCredentials
	}

	p := r.principals[idx]
	if err := bcrypt.CompareHashAndPassword(p.SecretHash, []byte(secret)); err != nil {
		return models.Principal{}, ErrInvalidCredentials
	}
	return p, nil
}

func (r *Registry) Get(id string) (models.Principal, error) {
	idx, ok := r.byId[id]
	if !ok {
		return models.Principal{}, ErrPrincipalNotFound
	}
	return r.principals[idx], nil
}

func (r *Registry) Admin() models.Principal {
	return r.principals[r.admin]
}

// IsGuest reports whether id names a guest principal.
func (r *Registry) IsGuest(id string) bool {
	idx, ok := r.byId[id]
	return ok && r.principals[idx].Role == models.RoleGuest
}

func (r *Registry) Guests() []models.Principal {
	guests := make([]models.Principal, 0, len(r.principals)-1)
	for _, p := range r.principals {
		if p.Role == models.RoleGuest {
			guests = append(guests, p)
		}
	}
	return guests
}

// List returns every principal in seed order.
func (r *Registry) List() []models.Principal {
	return append([]models.Principal(nil), r.principals...)
}
