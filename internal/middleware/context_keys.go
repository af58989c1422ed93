package middleware

import "github.com/gin-gonic/gin"

// userIDKey is the key used to store the acting user's ID in the Gin context.
const userIDKey = contextKey("userID")

// organizationIDKey is the key used to store the organization scope in the Gin context.
const organizationIDKey = contextKey("organizationID")

// GetUserIDFromContext retrieves the acting user ID from the Gin context.
// It returns the user ID and a boolean indicating if it was found.
func GetUserIDFromContext(c *gin.Context) (string, bool) {
	userIDVal, exists := c.Get(string(userIDKey))
	if !exists {
		return "", false
	}

	userID, ok := userIDVal.(string)
	if !ok {
		return "", false
	}

	return userID, true
}

// GetOrganizationIDFromContext retrieves the organization scope from the Gin context.
func GetOrganizationIDFromContext(c *gin.Context) (string, bool) {
	orgIDVal, exists := c.Get(string(organizationIDKey))
	if !exists {
		return "", false
	}

	orgID, ok := orgIDVal.(string)
	if !ok {
		return "", false
	}

	return orgID, true
}
