package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/valeriaulyamaeva/fintrack/models"
)

func (h *Handler) ListCategories(c *gin.Context) {
	categoryType := models.TransactionType(c.Query("type"))
	if categoryType != "" && !categoryType.Valid() {
		handleError(c, &models.ValidationError{Field: "type", Message: "must be income or expense"})
		return
	}
	categories, err := h.store.ListCategories(c.Request.Context(), currentUser(c).ID, categoryType)
	if err != nil {
		handleError(c, err)
		return
	}
	respond(c, http.StatusOK, categories)
}

// CreateCategory creates a category owned by the caller, or a global one when
// an admin sends "global": true.
func (h *Handler) CreateCategory(c *gin.Context) {
	var in models.CategoryInput
	if !bindJSON(c, &in) {
		return
	}
	if err := in.ValidateCreate(); err != nil {
		handleError(c, err)
		return
	}
	user := currentUser(c)

	owner := &user.ID
	if in.Global != nil && *in.Global {
		if !user.IsAdmin {
			fail(c, http.StatusForbidden, "only admins can create global categories")
			return
		}
		owner = nil
	}

	category := in.NewCategory(owner)
	if err := h.store.CreateCategory(c.Request.Context(), &category); err != nil {
		handleError(c, err)
		return
	}
	respond(c, http.StatusCreated, category)
}

func (h *Handler) GetCategory(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	category, err := h.store.GetCategory(c.Request.Context(), currentUser(c).ID, id)
	if err != nil {
		handleError(c, err)
		return
	}
	respond(c, http.StatusOK, category)
}

// editableCategory loads a category the caller may change: their own, or a
// global one when they are an admin.
func (h *Handler) editableCategory(c *gin.Context) (*models.Category, bool) {
	id, ok := pathID(c)
	if !ok {
		return nil, false
	}
	user := currentUser(c)
	category, err := h.store.GetCategory(c.Request.Context(), user.ID, id)
	if err != nil {
		handleError(c, err)
		return nil, false
	}
	if category.Global() && !user.IsAdmin {
		fail(c, http.StatusForbidden, "only admins can change global categories")
		return nil, false
	}
	return category, true
}

func (h *Handler) UpdateCategory(c *gin.Context) {
	category, ok := h.editableCategory(c)
	if !ok {
		return
	}
	var in models.CategoryInput
	if !bindJSON(c, &in) {
		return
	}
	if err := in.ValidateUpdate(); err != nil {
		handleError(c, err)
		return
	}
	// Transactions and budgets rely on their category having the same type.
	if in.Type != nil && *in.Type != category.Type {
		used, err := h.store.CategoryInUse(c.Request.Context(), category.ID)
		if err != nil {
			handleError(c, err)
			return
		}
		if used {
			fail(c, http.StatusConflict, "category type cannot change while transactions or budgets use it")
			return
		}
	}

	in.Apply(category)
	if err := h.store.UpdateCategory(c.Request.Context(), category); err != nil {
		handleError(c, err)
		return
	}
	respond(c, http.StatusOK, category)
}

func (h *Handler) DeleteCategory(c *gin.Context) {
	category, ok := h.editableCategory(c)
	if !ok {
		return
	}
	if err := h.store.DeleteCategory(c.Request.Context(), category.UserID, category.ID); err != nil {
		handleError(c, err)
		return
	}
	respond(c, http.StatusOK, BatchDeleteResult{Requested: 1, Deleted: 1})
}

// BatchDeleteCategories only removes the caller's own categories.
func (h *Handler) BatchDeleteCategories(c *gin.Context) {
	h.batchDelete(c, h.store.BatchDeleteCategories)
}
