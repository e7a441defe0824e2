package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/valeriaulyamaeva/fintrack/internal/database"
	"github.com/valeriaulyamaeva/fintrack/models"
)

const (
	SessionCookie       = "session_token"
	LegacySessionCookie = "session"

	userKey    = "fintrack.user"
	sessionKey = "fintrack.session"
)

// sessionToken finds the token in the session cookie, the legacy cookie or an
// Authorization: Bearer header, in that order.
func sessionToken(c *gin.Context) string {
	for _, name := range []string{SessionCookie, LegacySessionCookie} {
		if v, err := c.Cookie(name); err == nil && v != "" {
			return v
		}
	}
	if h := c.GetHeader("Authorization"); h != "" {
		scheme, token, ok := strings.Cut(h, " ")
		if ok && strings.EqualFold(scheme, "Bearer") {
			return strings.TrimSpace(token)
		}
	}
	return ""
}

// RequireSession admits a request only when its token verifies and the
// session it names is still active in the database.
func (h *Handler) RequireSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := sessionToken(c)
		if token == "" {
			fail(c, http.StatusUnauthorized, "authentication required")
			return
		}
		claims, err := h.tokens.Parse(token)
		if err != nil {
			fail(c, http.StatusUnauthorized, "invalid session")
			return
		}

		session, user, err := h.store.GetActiveSession(c.Request.Context(), claims.SessionID)
		if errors.Is(err, database.ErrNotFound) || (err == nil && user.ID != claims.UserID) {
			fail(c, http.StatusUnauthorized, "invalid session")
			return
		}
		if err != nil {
			handleError(c, err)
			return
		}

		c.Set(userKey, user)
		c.Set(sessionKey, session)
		c.Next()
	}
}

// RequireAdmin must run after RequireSession. The admin flag comes from the
// user row loaded for this request.
func (h *Handler) RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		user := currentUser(c)
		if user == nil || !user.IsAdmin {
			fail(c, http.StatusForbidden, "admin access required")
			return
		}
		c.Next()
	}
}

func currentUser(c *gin.Context) *models.User {
	v, ok := c.Get(userKey)
	if !ok {
		return nil
	}
	user, _ := v.(*models.User)
	return user
}

func currentSession(c *gin.Context) *models.Session {
	v, ok := c.Get(sessionKey)
	if !ok {
		return nil
	}
	session, _ := v.(*models.Session)
	return session
}

// CORSMiddleware echoes the Origin header back when it is in allowed. A single
// "*" entry allows any origin.
func CORSMiddleware(allowed []string) gin.HandlerFunc {
	origins := make(map[string]bool, len(allowed))
	for _, o := range allowed {
		origins[strings.TrimRight(o, "/")] = true
	}
	return func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")
		if origin != "" && (origins["*"] || origins[origin]) {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
			c.Writer.Header().Add("Vary", "Origin")
			c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
			c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
			c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS, PUT, DELETE")
		}

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
