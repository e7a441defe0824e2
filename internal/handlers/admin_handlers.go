package handlers

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/valeriaulyamaeva/fintrack/models"
)

func (h *Handler) AdminStats(c *gin.Context) {
	stats, err := h.store.AdminStats(c.Request.Context())
	if err != nil {
		handleError(c, err)
		return
	}
	respond(c, http.StatusOK, stats)
}

func (h *Handler) AdminListUsers(c *gin.Context) {
	limit, err := queryInt(c, "limit", models.DefaultPageSize)
	if err != nil {
		handleError(c, err)
		return
	}
	offset, err := queryInt(c, "offset", 0)
	if err != nil {
		handleError(c, err)
		return
	}
	if limit <= 0 || limit > models.MaxPageSize {
		limit = models.DefaultPageSize
	}
	if offset < 0 {
		offset = 0
	}
	users, err := h.store.ListUsers(c.Request.Context(), limit, offset)
	if err != nil {
		handleError(c, err)
		return
	}
	respondMeta(c, http.StatusOK, users, gin.H{"limit": limit, "offset": offset})
}

type setAdminRequest struct {
	IsAdmin *bool `json:"is_admin"`
}

// AdminSetUserAdmin grants or revokes admin rights. A demoted user is signed
// out of every session.
func (h *Handler) AdminSetUserAdmin(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req setAdminRequest
	if !bindJSON(c, &req) {
		return
	}
	if req.IsAdmin == nil {
		handleError(c, &models.ValidationError{Field: "is_admin", Message: "is required"})
		return
	}
	admin := currentUser(c)
	if admin.ID == id && !*req.IsAdmin {
		handleError(c, &models.ValidationError{Field: "is_admin", Message: "admins cannot revoke their own rights"})
		return
	}

	user, err := h.store.SetUserAdmin(c.Request.Context(), id, *req.IsAdmin)
	if err != nil {
		handleError(c, err)
		return
	}
	if !user.IsAdmin {
		if _, err := h.store.RevokeUserSessions(c.Request.Context(), id); err != nil {
			handleError(c, err)
			return
		}
	}

	log.Printf("Администратор %d установил is_admin=%t пользователю %d", admin.ID, user.IsAdmin, user.ID)
	respond(c, http.StatusOK, user)
}
