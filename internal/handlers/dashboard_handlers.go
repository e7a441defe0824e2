package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/valeriaulyamaeva/fintrack/models"
)

const (
	defaultMonths = 6
	maxMonths     = 36
)

// dateRange reads ?from= and ?to=, defaulting to the current calendar month.
func (h *Handler) dateRange(c *gin.Context) (models.Date, models.Date, error) {
	today := models.DateOf(h.now())
	from := models.NewDate(today.Year(), today.Month(), 1)
	to := models.NewDate(today.Year(), today.Month()+1, 0)

	if d, err := queryDate(c, "from"); err != nil {
		return from, to, err
	} else if d != nil {
		from = *d
	}
	if d, err := queryDate(c, "to"); err != nil {
		return from, to, err
	} else if d != nil {
		to = *d
	}
	if to.Before(from) {
		return from, to, &models.ValidationError{Field: "to", Message: "must not be before from"}
	}
	return from, to, nil
}

func (h *Handler) DashboardSummary(c *gin.Context) {
	from, to, err := h.dateRange(c)
	if err != nil {
		handleError(c, err)
		return
	}
	summary, err := h.store.Summary(c.Request.Context(), currentUser(c).ID, from, to)
	if err != nil {
		handleError(c, err)
		return
	}
	respond(c, http.StatusOK, summary)
}

// DashboardCategories breaks down spending (or ?type=income) by category.
func (h *Handler) DashboardCategories(c *gin.Context) {
	from, to, err := h.dateRange(c)
	if err != nil {
		handleError(c, err)
		return
	}
	txType := models.TransactionType(c.DefaultQuery("type", string(models.TransactionExpense)))
	if !txType.Valid() {
		handleError(c, &models.ValidationError{Field: "type", Message: "must be income or expense"})
		return
	}
	totals, err := h.store.CategoryBreakdown(c.Request.Context(), currentUser(c).ID, txType, from, to)
	if err != nil {
		handleError(c, err)
		return
	}
	respond(c, http.StatusOK, totals)
}

func (h *Handler) DashboardMonthly(c *gin.Context) {
	months, err := queryInt(c, "months", defaultMonths)
	if err != nil {
		handleError(c, err)
		return
	}
	if months < 1 || months > maxMonths {
		handleError(c, &models.ValidationError{Field: "months", Message: "must be between 1 and 36"})
		return
	}
	totals, err := h.store.MonthlyTotals(c.Request.Context(), currentUser(c).ID, months, h.now().In(time.UTC))
	if err != nil {
		handleError(c, err)
		return
	}
	respond(c, http.StatusOK, totals)
}
