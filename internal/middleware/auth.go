package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gofiber/fiber/v2"

	"github.com/aebalz/wellmind-tracker/internal/apierror"
	"github.com/aebalz/wellmind-tracker/internal/auth"
	"github.com/aebalz/wellmind-tracker/internal/model"
)

const ClaimsKey = "claims"

// TokenValidator is satisfied by *auth.TokenManager.
type TokenValidator interface {
	Validate(raw string) (*auth.Claims, error)
}

// JWTAuthFiber rejects requests without a valid bearer token and stores the
// claims in c.Locals(ClaimsKey).
func JWTAuthFiber(tokens TokenValidator) fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims, err := tokens.Validate(c.Get(fiber.HeaderAuthorization))
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(
				apierror.New(fiber.StatusUnauthorized, "missing or invalid access token", c.Path()))
		}
		c.Locals(ClaimsKey, claims)
		return c.Next()
	}
}

// RequireRoleFiber lets through only callers holding role.
func RequireRoleFiber(role model.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims := ClaimsFromFiber(c)
		if claims == nil || claims.Role != role {
			return c.Status(fiber.StatusForbidden).JSON(
				apierror.New(fiber.StatusForbidden, "insufficient role", c.Path()))
		}
		return c.Next()
	}
}

// ClaimsFromFiber returns the authenticated caller, or nil.
func ClaimsFromFiber(c *fiber.Ctx) *auth.Claims {
	claims, _ := c.Locals(ClaimsKey).(*auth.Claims)
	return claims
}

// JWTAuthGin rejects requests without a valid bearer token and stores the
// claims under ClaimsKey.
func JWTAuthGin(tokens TokenValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, err := tokens.Validate(c.GetHeader("Authorization"))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized,
				apierror.New(http.StatusUnauthorized, "missing or invalid access token", c.Request.URL.Path))
			return
		}
		c.Set(ClaimsKey, claims)
		c.Next()
	}
}

// RequireRoleGin lets through only callers holding role.
func RequireRoleGin(role model.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := ClaimsFromGin(c)
		if claims == nil || claims.Role != role {
			c.AbortWithStatusJSON(http.StatusForbidden,
				apierror.New(http.StatusForbidden, "insufficient role", c.Request.URL.Path))
			return
		}
		c.Next()
	}
}

// ClaimsFromGin returns the authenticated caller, or nil.
func ClaimsFromGin(c *gin.Context) *auth.Claims {
	value, ok := c.Get(ClaimsKey)
	if !ok {
		return nil
	}
	claims, _ := value.(*auth.Claims)
	return claims
}
