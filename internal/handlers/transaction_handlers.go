package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/valeriaulyamaeva/fintrack/internal/database"
	"github.com/valeriaulyamaeva/fintrack/models"
)

// ListMeta describes a page of a paginated list.
type ListMeta struct {
	Total  int `json:"total"`
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
}

// SeriesMeta accompanies a created transaction that belongs to a series.
type SeriesMeta struct {
	SeriesID string `json:"series_id"`
	Created  int    `json:"created"`
}

func transactionFilter(c *gin.Context) (models.TransactionFilter, error) {
	f := models.TransactionFilter{
		Type:     models.TransactionType(c.Query("type")),
		Search:   c.Query("search"),
		SeriesID: c.Query("series_id"),
		Sort:     c.Query("sort"),
	}
	var err error
	if f.CategoryID, err = queryInt(c, "category_id", 0); err != nil {
		return f, err
	}
	if f.Limit, err = queryInt(c, "limit", models.DefaultPageSize); err != nil {
		return f, err
	}
	if f.Offset, err = queryInt(c, "offset", 0); err != nil {
		return f, err
	}
	if f.From, err = queryDate(c, "from"); err != nil {
		return f, err
	}
	if f.To, err = queryDate(c, "to"); err != nil {
		return f, err
	}
	for key, dst := range map[string]**decimal.Decimal{"min_amount": &f.MinAmount, "max_amount": &f.MaxAmount} {
		raw := c.Query(key)
		if raw == "" {
			continue
		}
		v, perr := decimal.NewFromString(raw)
		if perr != nil {
			return f, &models.ValidationError{Field: key, Message: "must be a number"}
		}
		*dst = &v
	}
	if f.SeriesID != "" {
		if _, perr := uuid.Parse(f.SeriesID); perr != nil {
			return f, &models.ValidationError{Field: "series_id", Message: "must be a UUID"}
		}
	}
	return f, f.Normalize()
}

func (h *Handler) ListTransactions(c *gin.Context) {
	f, err := transactionFilter(c)
	if err != nil {
		handleError(c, err)
		return
	}
	user := currentUser(c)
	transactions, total, err := h.store.ListTransactions(c.Request.Context(), user.ID, f)
	if err != nil {
		handleError(c, err)
		return
	}
	respondMeta(c, http.StatusOK, transactions, ListMeta{Total: total, Limit: f.Limit, Offset: f.Offset})
}

// checkCategory verifies that the category exists, is visible to the user and
// has the same type as the transaction.
func (h *Handler) checkCategory(c *gin.Context, userID int, categoryID *int, txType models.TransactionType) error {
	if categoryID == nil {
		return nil
	}
	category, err := h.store.GetCategory(c.Request.Context(), userID, *categoryID)
	if errors.Is(err, database.ErrNotFound) {
		return &models.ValidationError{Field: "category_id", Message: "does not exist"}
	}
	if err != nil {
		return err
	}
	if category.Type != txType {
		return &models.ValidationError{Field: "category_id", Message: "category type does not match transaction type"}
	}
	return nil
}

// CreateTransaction stores a single transaction, an installment series or the
// first occurrence of a recurring series. The response data is the first row.
func (h *Handler) CreateTransaction(c *gin.Context) {
	var in models.TransactionInput
	if !bindJSON(c, &in) {
		return
	}
	if err := in.ValidateCreate(); err != nil {
		handleError(c, err)
		return
	}
	user := currentUser(c)

	rows := in.NewTransactions(user.ID, uuid.NewString())
	if err := h.checkCategory(c, user.ID, rows[0].CategoryID, rows[0].Type); err != nil {
		handleError(c, err)
		return
	}

	if rows[0].SeriesID == nil {
		if err := h.store.CreateTransaction(c.Request.Context(), &rows[0]); err != nil {
			handleError(c, err)
			return
		}
		respond(c, http.StatusCreated, rows[0])
		return
	}

	created, err := h.store.CreateTransactionSeries(c.Request.Context(), rows)
	if err != nil {
		handleError(c, err)
		return
	}
	respondMeta(c, http.StatusCreated, created[0], SeriesMeta{SeriesID: *created[0].SeriesID, Created: len(created)})
}

func (h *Handler) GetTransaction(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	transaction, err := h.store.GetTransaction(c.Request.Context(), currentUser(c).ID, id)
	if err != nil {
		handleError(c, err)
		return
	}
	respond(c, http.StatusOK, transaction)
}

// UpdateTransaction changes one row. Other rows of its series are untouched.
func (h *Handler) UpdateTransaction(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var in models.TransactionInput
	if !bindJSON(c, &in) {
		return
	}
	if err := in.ValidateUpdate(); err != nil {
		handleError(c, err)
		return
	}
	user := currentUser(c)

	transaction, err := h.store.GetTransaction(c.Request.Context(), user.ID, id)
	if err != nil {
		handleError(c, err)
		return
	}
	in.Apply(transaction)
	if err := transaction.Validate(); err != nil {
		handleError(c, err)
		return
	}
	if in.CategoryID != nil || in.Type != nil {
		if err := h.checkCategory(c, user.ID, transaction.CategoryID, transaction.Type); err != nil {
			handleError(c, err)
			return
		}
	}

	if err := h.store.UpdateTransaction(c.Request.Context(), transaction); err != nil {
		handleError(c, err)
		return
	}
	respond(c, http.StatusOK, transaction)
}

// DeleteTransaction deletes one row, or with ?scope=series every row of the
// series it belongs to.
func (h *Handler) DeleteTransaction(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	user := currentUser(c)
	ctx := c.Request.Context()

	switch c.DefaultQuery("scope", "single") {
	case "single":
		if err := h.store.DeleteTransaction(ctx, user.ID, id); err != nil {
			handleError(c, err)
			return
		}
		respond(c, http.StatusOK, BatchDeleteResult{Requested: 1, Deleted: 1})
	case "series":
		transaction, err := h.store.GetTransaction(ctx, user.ID, id)
		if err != nil {
			handleError(c, err)
			return
		}
		if transaction.SeriesID == nil {
			if err := h.store.DeleteTransaction(ctx, user.ID, id); err != nil {
				handleError(c, err)
				return
			}
			respond(c, http.StatusOK, BatchDeleteResult{Requested: 1, Deleted: 1})
			return
		}
		n, err := h.store.DeleteTransactionSeries(ctx, user.ID, *transaction.SeriesID)
		if err != nil {
			handleError(c, err)
			return
		}
		respond(c, http.StatusOK, BatchDeleteResult{Requested: int(n), Deleted: n})
	default:
		handleError(c, &models.ValidationError{Field: "scope", Message: "must be single or series"})
	}
}

func (h *Handler) BatchDeleteTransactions(c *gin.Context) {
	h.batchDelete(c, h.store.BatchDeleteTransactions)
}
