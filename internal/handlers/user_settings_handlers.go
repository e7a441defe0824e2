package handlers

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/valeriaulyamaeva/fintrack/models"
)

// GetPreferences returns the caller's settings, or the defaults when none
// have been saved yet.
func (h *Handler) GetPreferences(c *gin.Context) {
	prefs, err := h.store.GetPreferences(c.Request.Context(), currentUser(c).ID)
	if err != nil {
		handleError(c, err)
		return
	}
	respond(c, http.StatusOK, prefs)
}

// UpdatePreferences merges the body into the stored settings.
func (h *Handler) UpdatePreferences(c *gin.Context) {
	var in models.PreferencesInput
	if !bindJSON(c, &in) {
		return
	}
	if err := in.Validate(); err != nil {
		handleError(c, err)
		return
	}
	user := currentUser(c)

	prefs, err := h.store.GetPreferences(c.Request.Context(), user.ID)
	if err != nil {
		handleError(c, err)
		return
	}
	in.Apply(prefs)
	if err := h.store.UpsertPreferences(c.Request.Context(), prefs); err != nil {
		handleError(c, err)
		return
	}

	log.Printf("Обновлены настройки пользователя с ID %d", user.ID)
	respond(c, http.StatusOK, prefs)
}
