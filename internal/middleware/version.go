package middleware

import (
	"strings"

	"github.com/MegamindsITServices/Sri-Sai-Ram-Real-Estate/internal/types"
	"github.com/gofiber/fiber/v2"
)

// APIVersion is the catalog API version served under /api/v1.
const APIVersion = "1.0.0"

// VersionMiddleware rejects clients that ask for another major version and echoes the served version.
func VersionMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		requested := c.Get("X-Api-Version", APIVersion)

		// Support version aliases
		if requested == "1" || requested == "1.0" {
			requested = APIVersion
		}
		if major, _, _ := strings.Cut(requested, "."); major != "1" {
			return types.BadRequest("version", "Unsupported API version "+requested)
		}

		c.Locals("apiVersion", requested)
		c.Set("X-Api-Version", APIVersion)
		return c.Next()
	}
}
