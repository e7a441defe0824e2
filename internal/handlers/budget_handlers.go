package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/valeriaulyamaeva/fintrack/models"
)

// ListBudgets lists the caller's budgets; ?active=YYYY-MM-DD keeps only those
// whose range contains that day.
func (h *Handler) ListBudgets(c *gin.Context) {
	activeOn, err := queryDate(c, "active")
	if err != nil {
		handleError(c, err)
		return
	}
	budgets, err := h.store.ListBudgets(c.Request.Context(), currentUser(c).ID, activeOn)
	if err != nil {
		handleError(c, err)
		return
	}
	respond(c, http.StatusOK, budgets)
}

func (h *Handler) CreateBudget(c *gin.Context) {
	var in models.BudgetInput
	if !bindJSON(c, &in) {
		return
	}
	if err := in.ValidateCreate(); err != nil {
		handleError(c, err)
		return
	}
	user := currentUser(c)

	budget := in.NewBudget(user.ID)
	if err := h.checkCategory(c, user.ID, budget.CategoryID, models.TransactionExpense); err != nil {
		handleError(c, err)
		return
	}
	if err := h.store.CreateBudget(c.Request.Context(), &budget); err != nil {
		handleError(c, err)
		return
	}
	respond(c, http.StatusCreated, budget)
}

func (h *Handler) GetBudget(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	budget, err := h.store.GetBudget(c.Request.Context(), currentUser(c).ID, id)
	if err != nil {
		handleError(c, err)
		return
	}
	respond(c, http.StatusOK, budget)
}

func (h *Handler) UpdateBudget(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var in models.BudgetInput
	if !bindJSON(c, &in) {
		return
	}
	if err := in.ValidateUpdate(); err != nil {
		handleError(c, err)
		return
	}
	user := currentUser(c)

	budget, err := h.store.GetBudget(c.Request.Context(), user.ID, id)
	if err != nil {
		handleError(c, err)
		return
	}
	if err := in.Apply(budget); err != nil {
		handleError(c, err)
		return
	}
	if in.CategoryID != nil {
		if err := h.checkCategory(c, user.ID, budget.CategoryID, models.TransactionExpense); err != nil {
			handleError(c, err)
			return
		}
	}
	if err := h.store.UpdateBudget(c.Request.Context(), budget); err != nil {
		handleError(c, err)
		return
	}
	respond(c, http.StatusOK, budget)
}

func (h *Handler) DeleteBudget(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.store.DeleteBudget(c.Request.Context(), currentUser(c).ID, id); err != nil {
		handleError(c, err)
		return
	}
	respond(c, http.StatusOK, BatchDeleteResult{Requested: 1, Deleted: 1})
}

func (h *Handler) BatchDeleteBudgets(c *gin.Context) {
	h.batchDelete(c, h.store.BatchDeleteBudgets)
}
