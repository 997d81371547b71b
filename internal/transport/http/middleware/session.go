package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Bonattii/secrets-auth-project/internal/infra/security"
)

// SessionCookie names the cookie carrying the signed session token.
const SessionCookie = "secrets_session"

// UserIDKey is the gin context key holding the authenticated user id.
const UserIDKey = "user_id"

// RequireAuth validates the session cookie and stores the user id on the
// context. Anonymous browsers are redirected to the login page, which is the
// only way into the authenticated state.
func RequireAuth(sessions *security.SessionManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(SessionCookie)
		if err != nil || token == "" {
			c.Redirect(http.StatusFound, "/login")
			c.Abort()
			return
		}

		claims, err := sessions.Parse(token)
		if err != nil {
			// Expired or tampered cookie; drop it and start over.
			c.SetCookie(SessionCookie, "", -1, "/", "", false, true)
			c.Redirect(http.StatusFound, "/login")
			c.Abort()
			return
		}

		c.Set(UserIDKey, claims.UserID)

		c.Next()
	}
}

// AuthenticatedUserID retrieves the user id set by RequireAuth.
func AuthenticatedUserID(c *gin.Context) (string, bool) {
	raw, exists := c.Get(UserIDKey)
	if !exists {
		return "", false
	}

	id, ok := raw.(string)
	if !ok || id == "" {
		return "", false
	}

	return id, true
}
