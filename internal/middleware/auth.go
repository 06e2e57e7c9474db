package middleware

import (
	"fmt"

	"github.com/MegamindsITServices/Sri-Sai-Ram-Real-Estate/internal/services"
	"github.com/MegamindsITServices/Sri-Sai-Ram-Real-Estate/internal/types"
	"github.com/gofiber/fiber/v2"
)

const scopeKey = "scope"

// AuthAdmin validates that the request has admin role authorization
func AuthAdmin(validate services.SessionValidator) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := authorize(c, validate, []string{"admin"}, "projects.authorization.admin"); err != nil {
			return err
		}
		c.Locals(scopeKey, services.ScopeAdmin)
		return c.Next()
	}
}

// AdminScope switches a catalog read to admin scope when admin=true, which requires an admin session.
// Without the flag the request continues in public scope.
func AdminScope(validate services.SessionValidator) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if c.QueryBool("admin", false) {
			if err := authorize(c, validate, []string{"admin"}, "projects.authorization.admin"); err != nil {
				return err
			}
			c.Locals(scopeKey, services.ScopeAdmin)
		} else {
			c.Locals(scopeKey, services.ScopePublic)
		}
		return c.Next()
	}
}

// ScopeFrom returns the scope chosen by AdminScope, public when unset.
func ScopeFrom(c *fiber.Ctx) services.Scope {
	if s, ok := c.Locals(scopeKey).(services.Scope); ok {
		return s
	}
	return services.ScopePublic
}

// authorize performs the authorization check
func authorize(c *fiber.Ctx, validate services.SessionValidator, roles []string, errorType string) error {
	// Get session cookie
	session := c.Cookies("cookie_session")
	if session == "" {
		return types.Forbidden(errorType, "Authorizer cookie \"cookie_session\" not found")
	}

	data, err := validate(session, roles)
	if err != nil {
		return types.Forbidden(errorType, fmt.Sprintf("Invalid session: %v", err))
	}

	// Set user data in context
	if user, ok := data["user"]; ok {
		c.Locals("user", user)
	}
	return nil
}
