package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/Novip1906/tasks-notify/internal/models"
	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrInvalidSignature = errors.New("token signature is invalid")
	ErrExpired          = errors.New("token expired")
	ErrMalformed        = errors.New("token malformed")
)

const (
	DefaultTTL = 24 * time.Hour
	issuer     = "tasks-notify"
)

type TokenClaims struct {
	Username     string `json:"username"`
	Role         string `json:"role"`
	SubscriberId string `json:"subscriberId"`
	Email        string `json:"email"`
	jwt.RegisteredClaims
}

type Option func(*Tokens)

func WithTTL(ttl time.Duration) Option {
	return func(t *Tokens) {
		if ttl > 0 {
			t.ttl = ttl
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(t *Tokens) {
		if now != nil {
			t.now = now
		}
	}
}

// Tokens issues and verifies HS256 session tokens with one shared secret.
type Tokens struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
	parser *jwt.Parser
}

func NewTokens(secret string, opts ...Option) *Tokens {
	t := &Tokens{
		secret: []byte(secret),
		ttl:    DefaultTTL,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(t)
	}

	t.parser = jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Name}),
		jwt.WithoutClaimsValidation(),
	)
	return t
}

func (t *Tokens) Issue(p models.Principal) (string, error) {
	now := t.now()
	claims := TokenClaims{
		Username:     p.Username,
		Role:         string(p.Role),
		SubscriberId: p.SubscriberId,
		Email:        p.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   p.Id,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiry(now, t.ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(t.secret)
}

// expiry rounds up to a whole second, the resolution of the exp claim,
// so a token never lives shorter than ttl.
func expiry(now time.Time, ttl time.Duration) time.Time {
	exp := now.Add(ttl)
	if r := exp.Truncate(time.Second); r.Before(exp) {
		return r.Add(time.Second)
	}
	return exp
}

// Verify accepts a token up to and including the instant it expires.
func (t *Tokens) Verify(tokenString string) (models.Claims, error) {
	var claims TokenClaims
	_, err := t.parser.ParseWithClaims(tokenString, &claims, func(token *jwt.Token) (interface{}, error) {
		return t.secret, nil
	})
	switch {
	case err == nil:
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return models.Claims{}, ErrInvalidSignature
	default:
		return models.Claims{}, fmt.Errorf("%w: %w", ErrMalformed, err)
	}

	if claims.ExpiresAt == nil {
		return models.Claims{}, fmt.Errorf("%w: missing expiry", ErrMalformed)
	}
	if t.now().After(claims.ExpiresAt.Time) {
		return models.Claims{}, ErrExpired
	}

	if claims.Subject == "" || claims.Username == "" {
		return models.Claims{}, fmt.Errorf("%w: missing identity", ErrMalformed)
	}
	role, err := models.ParseRole(claims.Role)
	if err != nil {
		return models.Claims{}, fmt.Errorf("%w: %w", ErrMalformed, err)
	}

	return models.Claims{
		PrincipalId:  claims.Subject,
		Username:     claims.Username,
		Role:         role,
		SubscriberId: claims.SubscriberId,
		Email:        claims.Email,
		ExpiresAt:    claims.ExpiresAt.Time,
	}, nil
}
