package models

import (
	"errors"
	"fmt"
	"time"
)

var ErrUnknownRole = errors.New("unknown role")

type Role string

const (
	RoleAdmin Role = "admin"
	RoleGuest Role = "guest"
)

func ParseRole(s string) (Role, error) {
	switch r := Role(s); r {
	case RoleAdmin, RoleGuest:
		return r, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownRole, s)
}

// Principal is an authenticated actor. SecretHash never leaves the
// registry; use Public for anything sent to a caller.
type Principal struct {
	Id           string
	Username     string
	SecretHash   []byte
	Role         Role
	Email        string
	SubscriberId string
}

func (p Principal) Public() PublicPrincipal {
	return PublicPrincipal{
		Id:           p.Id,
		Username:     p.Username,
		Role:         p.Role,
		Email:        p.Email,
		SubscriberId: p.SubscriberId,
	}
}

type PublicPrincipal struct {
	Id           string
	Username     string
	Role         Role
	Email        string
	SubscriberId string
}

// Claims is the verified payload of a session token.
type Claims struct {
	PrincipalId  string
	Username     string
	Role         Role
	SubscriberId string
	Email        string
	ExpiresAt    time.Time
}

func (c Claims) Public() PublicPrincipal {
	return PublicPrincipal{
		Id:           c.PrincipalId,
		Username:     c.Username,
		Role:         c.Role,
		Email:        c.Email,
		SubscriberId: c.SubscriberId,
	}
}
