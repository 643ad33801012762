// Package middleware provides HTTP middleware components for the application.
// It includes bearer token authentication and request metrics for the
// fiber web framework.
package middleware

import (
	"strings"

	"fxwallet/internal/logger"
	"fxwallet/internal/utils"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// AuthMiddleware handles JWT token validation and user authentication.
// It extracts the JWT token from the Authorization header, validates it,
// and adds the user claims to the request context.
type AuthMiddleware struct {
	secret string
	logger *zap.Logger
}

func NewAuthMiddleware(secret string, log *zap.Logger) *AuthMiddleware {
	return &AuthMiddleware{
		secret: secret,
		logger: logger.OrNop(log).Named("auth"),
	}
}

// Handler validates HS256 bearer tokens. The token subject must be the
// caller's UUID; it is stored under the "userID" local.
func (m *AuthMiddleware) Handler(c *fiber.Ctx) error {
	authHeader := c.Get(fiber.HeaderAuthorization)
	if authHeader == "" {
		return utils.Unauthorized(c, "missing authorization header")
	}

	if !strings.HasPrefix(authHeader, "Bearer ") {
		return utils.Unauthorized(c, "invalid authorization format")
	}
	tokenString := strings.TrimPrefix(authHeader, "Bearer ")

	claims, err := utils.ParseToken(m.secret, tokenString)
	if err != nil {
		m.logger.Debug("token validation failed", zap.Error(err), zap.String("ip", c.IP()))
		return utils.Unauthorized(c, "invalid token")
	}

	userID, err := claims.UserID()
	if err != nil {
		m.logger.Debug("token subject is not a user id", zap.String("subject", claims.Subject))
		return utils.Unauthorized(c, "invalid claims")
	}

	c.Locals("claims", claims)
	c.Locals("userID", userID)

	return c.Next()
}
