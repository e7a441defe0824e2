package handlers

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/valeriaulyamaeva/fintrack/internal/auth"
	"github.com/valeriaulyamaeva/fintrack/internal/database"
	"github.com/valeriaulyamaeva/fintrack/models"
)

// Store is the storage surface the HTTP layer needs. *database.Store
// implements it; tests use an in-memory fake.
type Store interface {
	Ping(ctx context.Context) error

	RegisterUser(ctx context.Context, req models.RegisterRequest) (*models.User, error)
	AuthenticateUser(ctx context.Context, email, password string) (*models.User, error)
	ListUsers(ctx context.Context, limit, offset int) ([]models.User, error)
	SetUserAdmin(ctx context.Context, id int, isAdmin bool) (*models.User, error)

	CreateSession(ctx context.Context, session *models.Session) error
	GetActiveSession(ctx context.Context, sessionID string) (*models.Session, *models.User, error)
	RevokeSession(ctx context.Context, sessionID string) error
	RevokeUserSessions(ctx context.Context, userID int) (int64, error)

	CreateTransaction(ctx context.Context, transaction *models.Transaction) error
	CreateTransactionSeries(ctx context.Context, series []models.Transaction) ([]models.Transaction, error)
	GetTransaction(ctx context.Context, userID, id int) (*models.Transaction, error)
	ListTransactions(ctx context.Context, userID int, f models.TransactionFilter) ([]models.Transaction, int, error)
	UpdateTransaction(ctx context.Context, transaction *models.Transaction) error
	DeleteTransaction(ctx context.Context, userID, id int) error
	DeleteTransactionSeries(ctx context.Context, userID int, seriesID string) (int64, error)
	BatchDeleteTransactions(ctx context.Context, userID int, ids []int) (int64, error)

	CreateCategory(ctx context.Context, category *models.Category) error
	GetCategory(ctx context.Context, userID, id int) (*models.Category, error)
	ListCategories(ctx context.Context, userID int, categoryType models.TransactionType) ([]models.Category, error)
	UpdateCategory(ctx context.Context, category *models.Category) error
	CategoryInUse(ctx context.Context, id int) (bool, error)
	DeleteCategory(ctx context.Context, owner *int, id int) error
	BatchDeleteCategories(ctx context.Context, userID int, ids []int) (int64, error)

	CreateBudget(ctx context.Context, budget *models.Budget) error
	GetBudget(ctx context.Context, userID, id int) (*models.Budget, error)
	ListBudgets(ctx context.Context, userID int, activeOn *models.Date) ([]models.Budget, error)
	UpdateBudget(ctx context.Context, budget *models.Budget) error
	DeleteBudget(ctx context.Context, userID, id int) error
	BatchDeleteBudgets(ctx context.Context, userID int, ids []int) (int64, error)

	CreateInvestment(ctx context.Context, investment *models.Investment) error
	GetInvestment(ctx context.Context, userID, id int) (*models.Investment, error)
	ListInvestments(ctx context.Context, userID int, investmentType models.InvestmentType) ([]models.Investment, error)
	UpdateInvestment(ctx context.Context, investment *models.Investment) error
	DeleteInvestment(ctx context.Context, userID, id int) error
	BatchDeleteInvestments(ctx context.Context, userID int, ids []int) (int64, error)

	CreateTodo(ctx context.Context, todo *models.Todo) error
	GetTodo(ctx context.Context, userID, id int) (*models.Todo, error)
	ListTodos(ctx context.Context, userID int, completed *bool) ([]models.Todo, error)
	UpdateTodo(ctx context.Context, todo *models.Todo) error
	DeleteTodo(ctx context.Context, userID, id int) error
	BatchDeleteTodos(ctx context.Context, userID int, ids []int) (int64, error)

	GetPreferences(ctx context.Context, userID int) (*models.UserPreferences, error)
	UpsertPreferences(ctx context.Context, prefs *models.UserPreferences) error

	Summary(ctx context.Context, userID int, from, to models.Date) (*models.Summary, error)
	CategoryBreakdown(ctx context.Context, userID int, txType models.TransactionType, from, to models.Date) ([]models.CategoryTotal, error)
	MonthlyTotals(ctx context.Context, userID int, months int, now time.Time) ([]models.MonthlyTotal, error)
	AdminStats(ctx context.Context) (*models.AdminStats, error)
}

var _ Store = (*database.Store)(nil)

// CookieOptions controls the session cookie written on login.
type CookieOptions struct {
	Secure bool
	Domain string
}

type Handler struct {
	store  Store
	tokens *auth.TokenManager
	cookie CookieOptions
	now    func() time.Time
}

func NewHandler(store Store, tokens *auth.TokenManager, cookie CookieOptions) *Handler {
	return &Handler{store: store, tokens: tokens, cookie: cookie, now: time.Now}
}

// Response is the envelope of every API reply.
type Response struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Meta    any    `json:"meta,omitempty"`
	Error   string `json:"error,omitempty"`
}

func respond(c *gin.Context, status int, data any) {
	c.JSON(status, Response{Success: true, Data: data})
}

func respondMeta(c *gin.Context, status int, data, meta any) {
	c.JSON(status, Response{Success: true, Data: data, Meta: meta})
}

func fail(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, Response{Success: false, Error: message})
}

// handleError maps storage and validation errors to a status code. Anything
// unexpected is logged and reported to the client without details.
func handleError(c *gin.Context, err error) {
	var verr *models.ValidationError
	switch {
	case errors.As(err, &verr):
		fail(c, http.StatusBadRequest, verr.Error())
	case errors.Is(err, database.ErrNotFound):
		fail(c, http.StatusNotFound, "not found")
	case errors.Is(err, database.ErrConflict):
		fail(c, http.StatusConflict, "already exists")
	case errors.Is(err, database.ErrInvalidReference):
		fail(c, http.StatusBadRequest, "referenced record does not exist")
	case errors.Is(err, database.ErrInvalidValue):
		fail(c, http.StatusBadRequest, "value is missing or out of range")
	case errors.Is(err, database.ErrInvalidCredentials):
		fail(c, http.StatusUnauthorized, "invalid email or password")
	case errors.Is(err, context.Canceled):
		c.Abort()
	default:
		log.Printf("Ошибка обработки запроса %s %s: %v", c.Request.Method, c.FullPath(), err)
		fail(c, http.StatusInternalServerError, "internal server error")
	}
}

func bindJSON(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		fail(c, http.StatusBadRequest, "invalid JSON body")
		return false
	}
	return true
}

func pathID(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		fail(c, http.StatusBadRequest, "invalid id")
		return 0, false
	}
	return id, true
}

func queryInt(c *gin.Context, key string, def int) (int, error) {
	raw := c.Query(key)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, &models.ValidationError{Field: key, Message: "must be an integer"}
	}
	return v, nil
}

func queryDate(c *gin.Context, key string) (*models.Date, error) {
	raw := c.Query(key)
	if raw == "" {
		return nil, nil
	}
	d, err := models.ParseDate(raw)
	if err != nil {
		return nil, &models.ValidationError{Field: key, Message: err.Error()}
	}
	return &d, nil
}

func queryBool(c *gin.Context, key string) (*bool, error) {
	raw := c.Query(key)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return nil, &models.ValidationError{Field: key, Message: "must be true or false"}
	}
	return &v, nil
}

// BatchDeleteResult is returned by the batch-delete endpoints.
type BatchDeleteResult struct {
	Requested int   `json:"requested"`
	Deleted   int64 `json:"deleted"`
}

// batchDelete binds and validates a BatchDeleteRequest and runs del for the
// current user.
func (h *Handler) batchDelete(c *gin.Context, del func(ctx context.Context, userID int, ids []int) (int64, error)) {
	var req models.BatchDeleteRequest
	if !bindJSON(c, &req) {
		return
	}
	if err := req.Validate(); err != nil {
		handleError(c, err)
		return
	}
	user := currentUser(c)
	n, err := del(c.Request.Context(), user.ID, req.IDs)
	if err != nil {
		handleError(c, err)
		return
	}
	respond(c, http.StatusOK, BatchDeleteResult{Requested: len(req.IDs), Deleted: n})
}

// Healthz pings the database.
func (h *Handler) Healthz(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()
	if err := h.store.Ping(ctx); err != nil {
		log.Printf("Проверка базы данных не прошла: %v", err)
		fail(c, http.StatusServiceUnavailable, "database unavailable")
		return
	}
	respond(c, http.StatusOK, gin.H{"status": "ok"})
}
