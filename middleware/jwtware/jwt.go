// Package jwtware guards fiber routes behind bearer-token validation. It
// mirrors the claims contract of the root auth package through small local
// interfaces so the two packages do not form an import cycle.
package jwtware

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
)

// DefaultContextKey is where validated claims land in the request locals.
const DefaultContextKey = "user"

// DefaultAuthScheme is the expected Authorization header scheme.
const DefaultAuthScheme = "Bearer"

// ErrJWTMissingOrMalformed covers requests with no usable bearer token.
var ErrJWTMissingOrMalformed = errors.New("missing or malformed JWT")

// AuthClaims mirrors the claims surface the middleware needs from the auth
// package without importing it.
type AuthClaims interface {
	Identity() string
}

// TokenValidator validates a raw token and returns its claims. Signature and
// expiry checks happen inside the validator.
type TokenValidator interface {
	Validate(token string) (AuthClaims, error)
}

type Config struct {
	// Filter skips the middleware when it returns true.
	Filter func(*fiber.Ctx) bool
	// SuccessHandler runs after validation instead of ctx.Next when set.
	SuccessHandler fiber.Handler
	// ErrorHandler shapes the rejection response. Required in practice;
	// defaults to a bare 401.
	ErrorHandler func(*fiber.Ctx, error) error
	// TokenValidator is required.
	TokenValidator TokenValidator
	// ContextKey overrides DefaultContextKey.
	ContextKey string
	// AuthScheme overrides DefaultAuthScheme.
	AuthScheme string
}

// New returns a fiber handler enforcing bearer-token auth per the config.
func New(config Config) fiber.Handler {
	if config.TokenValidator == nil {
		panic("jwtware requires a TokenValidator")
	}

	if config.ContextKey == "" {
		config.ContextKey = DefaultContextKey
	}

	if config.AuthScheme == "" {
		config.AuthScheme = DefaultAuthScheme
	}

	if config.ErrorHandler == nil {
		config.ErrorHandler = func(c *fiber.Ctx, err error) error {
			return c.SendStatus(fiber.StatusUnauthorized)
		}
	}

	return func(c *fiber.Ctx) error {
		if config.Filter != nil && config.Filter(c) {
			return c.Next()
		}

		token, err := tokenFromHeader(c.Get(fiber.HeaderAuthorization), config.AuthScheme)
		if err != nil {
			return config.ErrorHandler(c, err)
		}

		claims, err := config.TokenValidator.Validate(token)
		if err != nil {
			return config.ErrorHandler(c, err)
		}

		c.Locals(config.ContextKey, claims)

		if config.SuccessHandler != nil {
			return config.SuccessHandler(c)
		}

		return c.Next()
	}
}

func tokenFromHeader(header, scheme string) (string, error) {
	if header == "" {
		return "", ErrJWTMissingOrMalformed
	}

	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], scheme) || parts[1] == "" {
		return "", ErrJWTMissingOrMalformed
	}

	return parts[1], nil
}
