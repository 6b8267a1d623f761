package http

import (
	"encoding/json"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/vkuzmenko/carvault/internal/server/auth"
)

const identityKey = "identity"

// TokenAuth guards protected routes. The token is looked up in order of
// precedence: body field, query parameter, Authorization Bearer header,
// cookie. On success the decoded identity is stored in Locals; the guard
// does not re-check that the user still exists.
func TokenAuth(jwtSecret []byte) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := extractToken(c)
		if token == "" {
			return fail(c, fiber.StatusUnauthorized, "Token is missing")
		}

		identity, err := auth.ParseToken(token, jwtSecret)
		if err != nil {
			return fail(c, fiber.StatusUnauthorized, "Token is invalid")
		}

		c.Locals(identityKey, identity)
		return c.Next()
	}
}

func extractToken(c *fiber.Ctx) string {
	// body field: multipart/urlencoded form value or JSON field
	if tok := c.FormValue("token"); tok != "" {
		return tok
	}
	if len(c.Body()) > 0 && strings.Contains(c.Get(fiber.HeaderContentType), fiber.MIMEApplicationJSON) {
		var body struct {
			Token string `json:"token"`
		}
		if err := json.Unmarshal(c.Body(), &body); err == nil && body.Token != "" {
			return body.Token
		}
	}

	if tok := c.Query("token"); tok != "" {
		return tok
	}

	if header := c.Get(fiber.HeaderAuthorization); header != "" {
		parts := strings.SplitN(header, " ", 2)
		if len(parts) == 2 && parts[0] == "Bearer" {
			return strings.TrimSpace(parts[1])
		}
	}

	return c.Cookies("token")
}

// identityFromCtx returns the identity the guard attached to the request.
func identityFromCtx(c *fiber.Ctx) *auth.Identity {
	identity, _ := c.Locals(identityKey).(*auth.Identity)
	if identity == nil {
		// guard always runs first on protected routes
		return &auth.Identity{}
	}
	return identity
}
