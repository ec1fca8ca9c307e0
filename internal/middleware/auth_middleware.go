package middleware

import (
	"strings"

	"quizforge/internal/domain"
	"quizforge/internal/dto"
	"quizforge/internal/service"

	"github.com/gofiber/fiber/v2"
)

const claimsLocalKey = "auth_claims"

// Protected returns a middleware that requires a valid Bearer token and
// stashes the identity claims in the request locals.
func Protected(auth *service.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := c.Get(fiber.HeaderAuthorization)
		if header == "" {
			return domain.NewUnauthorizedError("missing authorization header")
		}
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			return domain.NewUnauthorizedError("authorization header must be a bearer token")
		}

		claims, err := auth.ValidateToken(token)
		if err != nil {
			return err
		}

		c.Locals(claimsLocalKey, *claims)
		return c.Next()
	}
}

// ClaimsFromContext returns the identity stashed by Protected. The zero value
// means the middleware did not run, which only happens on unprotected routes.
func ClaimsFromContext(c *fiber.Ctx) dto.AuthClaims {
	if claims, ok := c.Locals(claimsLocalKey).(dto.AuthClaims); ok {
		return claims
	}
	return dto.AuthClaims{}
}
