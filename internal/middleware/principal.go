package middleware

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Header names set by the authenticating gateway. Authentication itself is an
// external collaborator; this service only consumes the resulting identifiers.
const (
	HeaderUserID         = "X-User-ID"
	HeaderOrganizationID = "X-Org-ID"
)

// PrincipalMiddleware reads the gateway-supplied user and organization
// identifiers from request headers and stores them in the Gin context.
// Requests missing either header are rejected.
func PrincipalMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetHeader(HeaderUserID)
		orgID := c.GetHeader(HeaderOrganizationID)

		if userID == "" || orgID == "" {
			GetLoggerFromCtx(c.Request.Context()).Warn("Request missing principal headers",
				slog.Bool("has_user", userID != ""),
				slog.Bool("has_org", orgID != ""))
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		c.Set(string(userIDKey), userID)
		c.Set(string(organizationIDKey), orgID)
		c.Next()
	}
}
