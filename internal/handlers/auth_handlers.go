package handlers

import (
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/valeriaulyamaeva/fintrack/internal/auth"
	"github.com/valeriaulyamaeva/fintrack/models"
)

// LoginResponse is returned by register and login. Token is the same value
// written to the session cookie, for clients that send a Bearer header.
type LoginResponse struct {
	User      *models.User `json:"user"`
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expires_at"`
}

func (h *Handler) Register(c *gin.Context) {
	var req models.RegisterRequest
	if !bindJSON(c, &req) {
		return
	}
	if err := req.Validate(); err != nil {
		handleError(c, err)
		return
	}

	user, err := h.store.RegisterUser(c.Request.Context(), req)
	if err != nil {
		handleError(c, err)
		return
	}
	log.Printf("Зарегистрирован пользователь с ID %d", user.ID)

	h.startSession(c, user, http.StatusCreated)
}

func (h *Handler) Login(c *gin.Context) {
	var req models.LoginRequest
	if !bindJSON(c, &req) {
		return
	}
	if err := req.Validate(); err != nil {
		handleError(c, err)
		return
	}

	user, err := h.store.AuthenticateUser(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		handleError(c, err)
		return
	}
	h.startSession(c, user, http.StatusOK)
}

// startSession records a new session row, signs a token naming it and sets
// the session cookie.
func (h *Handler) startSession(c *gin.Context, user *models.User, status int) {
	sessionID := auth.NewSessionID()
	token, claims, err := h.tokens.Issue(sessionID, user.ID)
	if err != nil {
		handleError(c, err)
		return
	}

	session := &models.Session{
		ID:        sessionID,
		UserID:    user.ID,
		UserAgent: truncate(c.Request.UserAgent(), 255),
		IP:        c.ClientIP(),
		ExpiresAt: claims.ExpiresAt,
	}
	if err := h.store.CreateSession(c.Request.Context(), session); err != nil {
		handleError(c, err)
		return
	}

	h.setSessionCookie(c, token, int(h.tokens.TTL().Seconds()))
	respond(c, status, LoginResponse{User: user, Token: token, ExpiresAt: claims.ExpiresAt})
}

// Logout revokes the caller's session when the token still verifies and
// always clears the cookies.
func (h *Handler) Logout(c *gin.Context) {
	if token := sessionToken(c); token != "" {
		if claims, err := h.tokens.Parse(token); err == nil {
			if err := h.store.RevokeSession(c.Request.Context(), claims.SessionID); err != nil {
				handleError(c, err)
				return
			}
		}
	}

	h.setSessionCookie(c, "", -1)
	c.SetCookie(LegacySessionCookie, "", -1, "/", h.cookie.Domain, h.cookie.Secure, true)
	respond(c, http.StatusOK, gin.H{"message": "logged out"})
}

func (h *Handler) Me(c *gin.Context) {
	respond(c, http.StatusOK, gin.H{
		"user":    currentUser(c),
		"session": currentSession(c),
	})
}

func (h *Handler) setSessionCookie(c *gin.Context, value string, maxAge int) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(SessionCookie, value, maxAge, "/", h.cookie.Domain, h.cookie.Secure, true)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
