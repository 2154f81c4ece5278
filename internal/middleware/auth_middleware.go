package middleware

import (
	"net/http"
	"strings"

	"behaviorOpt/domain"
	"behaviorOpt/pkg/logger"
	"behaviorOpt/pkg/utils"

	jsonres "behaviorOpt/pkg/response"

	"github.com/labstack/echo/v4"
)

// Keys under which AuthMiddleware stores the token claims on the echo context.
const (
	ContextUserID         = "user_id"
	ContextOrganizationID = "organization_id"
	ContextRole           = "role"
)

const (
	RoleOwner  = domain.RoleOwner
	RoleAdmin  = domain.RoleAdmin
	RoleMember = domain.RoleMember
	RoleViewer = domain.RoleViewer
)

// AuthMiddleware validates the bearer access token issued at signup, login or refresh.
func AuthMiddleware(secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return c.JSON(http.StatusUnauthorized, jsonres.Error(
					"UNAUTHORIZED", "Missing authorization header", nil,
				))
			}

			tokenParts := strings.Split(authHeader, " ")
			if len(tokenParts) != 2 || tokenParts[0] != "Bearer" {
				return c.JSON(http.StatusUnauthorized, jsonres.Error(
					"UNAUTHORIZED", "Invalid authorization format", nil,
				))
			}

			claims, err := utils.ParseJWT(secret, tokenParts[1])
			if err != nil {
				logger.Warn("Rejected token", "error", err)
				return c.JSON(http.StatusUnauthorized, jsonres.Error(
					"UNAUTHORIZED", "Invalid token", nil,
				))
			}

			if claims.UserID == "" || claims.OrganizationID == "" {
				return c.JSON(http.StatusForbidden, jsonres.Error(
					"FORBIDDEN", "Token is missing user or organization", nil,
				))
			}

			c.Set(ContextUserID, claims.UserID)
			c.Set(ContextOrganizationID, claims.OrganizationID)
			c.Set(ContextRole, claims.Role)

			return next(c)
		}
	}
}

// RequireRole lets the request through only when the caller has one of roles.
func RequireRole(roles ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			roleStr, _ := c.Get(ContextRole).(string)
			for _, r := range roles {
				if strings.EqualFold(roleStr, r) {
					return next(c)
				}
			}

			return c.JSON(http.StatusForbidden, jsonres.Error(
				"FORBIDDEN", "Insufficient permissions", nil,
			))
		}
	}
}

// AdminOnly admits organization owners and admins.
func AdminOnly() echo.MiddlewareFunc {
	return RequireRole(RoleAdmin, RoleOwner)
}
