package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/valeriaulyamaeva/fintrack/models"
)

func investmentType(c *gin.Context) (models.InvestmentType, error) {
	t := models.InvestmentType(c.Query("type"))
	if t != "" && !t.Valid() {
		return "", &models.ValidationError{Field: "type", Message: "is not a known investment type"}
	}
	return t, nil
}

func (h *Handler) ListInvestments(c *gin.Context) {
	t, err := investmentType(c)
	if err != nil {
		handleError(c, err)
		return
	}
	investments, err := h.store.ListInvestments(c.Request.Context(), currentUser(c).ID, t)
	if err != nil {
		handleError(c, err)
		return
	}
	views := make([]models.InvestmentView, 0, len(investments))
	for _, i := range investments {
		views = append(views, models.NewInvestmentView(i))
	}
	respond(c, http.StatusOK, views)
}

// InvestmentSummary totals the caller's portfolio, optionally for one type.
func (h *Handler) InvestmentSummary(c *gin.Context) {
	t, err := investmentType(c)
	if err != nil {
		handleError(c, err)
		return
	}
	investments, err := h.store.ListInvestments(c.Request.Context(), currentUser(c).ID, t)
	if err != nil {
		handleError(c, err)
		return
	}
	respond(c, http.StatusOK, models.SummarizePortfolio(investments))
}

func (h *Handler) CreateInvestment(c *gin.Context) {
	var in models.InvestmentInput
	if !bindJSON(c, &in) {
		return
	}
	if err := in.ValidateCreate(); err != nil {
		handleError(c, err)
		return
	}
	investment := in.NewInvestment(currentUser(c).ID)
	if err := h.store.CreateInvestment(c.Request.Context(), &investment); err != nil {
		handleError(c, err)
		return
	}
	respond(c, http.StatusCreated, models.NewInvestmentView(investment))
}

func (h *Handler) GetInvestment(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	investment, err := h.store.GetInvestment(c.Request.Context(), currentUser(c).ID, id)
	if err != nil {
		handleError(c, err)
		return
	}
	respond(c, http.StatusOK, models.NewInvestmentView(*investment))
}

func (h *Handler) UpdateInvestment(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var in models.InvestmentInput
	if !bindJSON(c, &in) {
		return
	}
	if err := in.ValidateUpdate(); err != nil {
		handleError(c, err)
		return
	}
	investment, err := h.store.GetInvestment(c.Request.Context(), currentUser(c).ID, id)
	if err != nil {
		handleError(c, err)
		return
	}
	in.Apply(investment)
	if err := h.store.UpdateInvestment(c.Request.Context(), investment); err != nil {
		handleError(c, err)
		return
	}
	respond(c, http.StatusOK, models.NewInvestmentView(*investment))
}

func (h *Handler) DeleteInvestment(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.store.DeleteInvestment(c.Request.Context(), currentUser(c).ID, id); err != nil {
		handleError(c, err)
		return
	}
	respond(c, http.StatusOK, BatchDeleteResult{Requested: 1, Deleted: 1})
}

func (h *Handler) BatchDeleteInvestments(c *gin.Context) {
	h.batchDelete(c, h.store.BatchDeleteInvestments)
}
