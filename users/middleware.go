package users

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

const SessionCookieName = "session_token"

// Session lifetime is enforced by the cookie; the server side holds no expiry.
const sessionCookieMaxAge = 7 * 24 * 60 * 60

// AuthMiddleware rejects requests without a valid session and exposes the
// session's username to the handler chain.
func (h *Handler) AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(SessionCookieName)
		if err != nil {
			c.JSON(401, gin.H{"message": "Not logged in"})
			c.Abort()
			return
		}

		username, exists := h.Sessions.Username(token)
		if !exists {
			c.JSON(401, gin.H{"message": "Not logged in"})
			c.Abort()
			return
		}

		c.Set("username", username)
		c.Next()
	}
}

// The client origin is hosted separately, so the cookie must survive
// cross-site requests: SameSite=None with Secure set.
func (h *Handler) setSessionCookie(c *gin.Context, token string) {
	c.SetSameSite(http.SameSiteNoneMode)
	c.SetCookie(SessionCookieName, token, sessionCookieMaxAge, "/", h.CookieDomain, true, true)
}

func (h *Handler) clearSessionCookie(c *gin.Context) {
	c.SetSameSite(http.SameSiteNoneMode)
	c.SetCookie(SessionCookieName, "", -1, "/", h.CookieDomain, true, true)
}
