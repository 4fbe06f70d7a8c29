package middleware

import (
	"net/http"

	"datadash/domain/core"
	"datadash/internal"

	"github.com/gin-gonic/gin"
)

// SessionKey is the gin context key holding the request's core.SessionID
const SessionKey = "datadash.session"

// EnsureSession is middleware that attaches a session ID to every request,
// issuing a new cookie when the client has none or sends a malformed one
func EnsureSession(cookieName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, err := c.Cookie(cookieName)
		var id core.SessionID
		if err == nil {
			id, err = core.ParseSessionID(raw)
		}
		if err != nil {
			id = core.NewSessionID()
			internal.DefaultLogger.Debug("[EnsureSession] Issued session %s", id)
			c.SetSameSite(http.SameSiteLaxMode)
			c.SetCookie(cookieName, id.String(), 0, "/", "", c.Request.TLS != nil, true)
		}

		c.Set(SessionKey, id)
		c.Next()
	}
}

// SessionID returns the session attached by EnsureSession
func SessionID(c *gin.Context) core.SessionID {
	if v, ok := c.Get(SessionKey); ok {
		if id, ok := v.(core.SessionID); ok {
			return id
		}
	}
	return ""
}
