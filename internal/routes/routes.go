package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/valeriaulyamaeva/fintrack/internal/handlers"
)

// Options configures the router beyond the handler itself.
type Options struct {
	AllowedOrigins []string
	// AuthLimiter throttles register and login; nil disables it.
	AuthLimiter *handlers.Limiter
	// Middleware is installed before everything else, e.g. gin.Logger().
	Middleware []gin.HandlerFunc
}

func SetupRouter(h *handlers.Handler, opts Options) *gin.Engine {
	r := gin.New()
	r.Use(opts.Middleware...)
	r.Use(handlers.CORSMiddleware(opts.AllowedOrigins))

	r.GET("/healthz", h.Healthz)

	api := r.Group("/api")

	authRoutes := api.Group("/auth")
	if opts.AuthLimiter != nil {
		authRoutes.POST("/register", handlers.RateLimit(opts.AuthLimiter), h.Register)
		authRoutes.POST("/login", handlers.RateLimit(opts.AuthLimiter), h.Login)
	} else {
		authRoutes.POST("/register", h.Register)
		authRoutes.POST("/login", h.Login)
	}
	authRoutes.POST("/logout", h.Logout)
	authRoutes.GET("/me", h.RequireSession(), h.Me)

	protected := api.Group("", h.RequireSession())

	transactions := protected.Group("/transactions")
	transactions.GET("", h.ListTransactions)
	transactions.POST("", h.CreateTransaction)
	transactions.POST("/batch-delete", h.BatchDeleteTransactions)
	transactions.GET("/:id", h.GetTransaction)
	transactions.PUT("/:id", h.UpdateTransaction)
	transactions.DELETE("/:id", h.DeleteTransaction)

	categories := protected.Group("/categories")
	categories.GET("", h.ListCategories)
	categories.POST("", h.CreateCategory)
	categories.POST("/batch-delete", h.BatchDeleteCategories)
	categories.GET("/:id", h.GetCategory)
	categories.PUT("/:id", h.UpdateCategory)
	categories.DELETE("/:id", h.DeleteCategory)

	budgets := protected.Group("/budgets")
	budgets.GET("", h.ListBudgets)
	budgets.POST("", h.CreateBudget)
	budgets.POST("/batch-delete", h.BatchDeleteBudgets)
	budgets.GET("/:id", h.GetBudget)
	budgets.PUT("/:id", h.UpdateBudget)
	budgets.DELETE("/:id", h.DeleteBudget)

	investments := protected.Group("/investments")
	investments.GET("", h.ListInvestments)
	investments.POST("", h.CreateInvestment)
	investments.GET("/summary", h.InvestmentSummary)
	investments.POST("/batch-delete", h.BatchDeleteInvestments)
	investments.GET("/:id", h.GetInvestment)
	investments.PUT("/:id", h.UpdateInvestment)
	investments.DELETE("/:id", h.DeleteInvestment)

	todos := protected.Group("/todos")
	todos.GET("", h.ListTodos)
	todos.POST("", h.CreateTodo)
	todos.POST("/batch-delete", h.BatchDeleteTodos)
	todos.GET("/:id", h.GetTodo)
	todos.PUT("/:id", h.UpdateTodo)
	todos.DELETE("/:id", h.DeleteTodo)

	protected.GET("/preferences", h.GetPreferences)
	protected.PUT("/preferences", h.UpdatePreferences)

	dashboard := protected.Group("/dashboard")
	dashboard.GET("/summary", h.DashboardSummary)
	dashboard.GET("/categories", h.DashboardCategories)
	dashboard.GET("/monthly", h.DashboardMonthly)

	admin := protected.Group("/admin", h.RequireAdmin())
	admin.GET("/stats", h.AdminStats)
	admin.GET("/users", h.AdminListUsers)
	admin.PUT("/users/:id/admin", h.AdminSetUserAdmin)

	return r
}
