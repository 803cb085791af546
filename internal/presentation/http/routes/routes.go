package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/sangkips/invex-billing/internal/config"
	"github.com/sangkips/invex-billing/internal/domain/entity"
	domainRepo "github.com/sangkips/invex-billing/internal/domain/repository"
	"github.com/sangkips/invex-billing/internal/presentation/http/handler"
	"github.com/sangkips/invex-billing/internal/presentation/http/middleware"
	"github.com/sangkips/invex-billing/pkg/utils"
	"go.uber.org/zap"
)

// Handlers holds all the HTTP handlers used for route registration.
type Handlers struct {
	Health         *handler.HealthHandler
	Auth           *handler.AuthHandler
	User           *handler.UserHandler
	Product        *handler.ProductHandler
	Draft          *handler.DraftHandler
	Bill           *handler.BillHandler
	CompanyProfile *handler.CompanyProfileHandler
	Dashboard      *handler.DashboardHandler
	Printer        *handler.PrinterHandler
	Events         *handler.EventsHandler
}

// Deps holds shared dependencies needed by the routes.
type Deps struct {
	JWTManager      *utils.JWTManager
	Cfg             *config.Config
	IdempotencyRepo domainRepo.IdempotencyRepository
	RateLimiter     *middleware.RateLimiter
	Log             *zap.Logger
}

// Setup creates the Gin router and registers all routes.
func Setup(h *Handlers, deps *Deps) *gin.Engine {
	router := gin.New()

	// Global middleware
	router.Use(gin.Recovery())
	router.Use(middleware.LoggerMiddleware(deps.Log))
	router.Use(middleware.CORSMiddleware(&deps.Cfg.CORS))

	router.GET("/health", h.Health.Check)

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		// Public routes, limited per client IP
		public := v1.Group("")
		public.Use(deps.RateLimiter.Middleware())
		registerAuthRoutes(public, h)

		// Protected routes, limited per user
		protected := v1.Group("")
		protected.Use(middleware.AuthMiddleware(deps.JWTManager))
		protected.Use(deps.RateLimiter.Middleware())

		registerProtectedRoutes(protected, h, deps)
	}

	return router
}

func registerAuthRoutes(v1 *gin.RouterGroup, h *Handlers) {
	auth := v1.Group("/auth")
	{
		auth.POST("/login", h.Auth.Login)
		auth.POST("/register", h.Auth.Register)
		auth.POST("/refresh", h.Auth.RefreshToken)
	}
}

func registerProtectedRoutes(protected *gin.RouterGroup, h *Handlers, deps *Deps) {
	// Auth/Profile routes
	protected.POST("/auth/logout", h.Auth.Logout)
	protected.GET("/profile", h.Auth.GetProfile)
	protected.PUT("/profile", h.Auth.UpdateProfile)
	protected.PUT("/profile/password", h.Auth.ChangePassword)

	// Company profile
	profile := protected.Group("/company-profile")
	profile.Use(middleware.RequirePermission(entity.PermManageProfile))
	{
		profile.GET("", h.CompanyProfile.Get)
		profile.PUT("", h.CompanyProfile.Update)
	}

	// Dashboard
	protected.GET("/dashboard", middleware.RequirePermission(entity.PermViewDashboard), h.Dashboard.GetStats)

	// Change notifications
	protected.GET("/events", h.Events.Stream)

	registerProductRoutes(protected, h)
	registerDraftRoutes(protected, h, deps)
	registerBillRoutes(protected, h)
	registerUserRoutes(protected, h)
	registerPrinterRoutes(protected, h)
}

func registerProductRoutes(protected *gin.RouterGroup, h *Handlers) {
	products := protected.Group("/products")
	manage := middleware.RequirePermission(entity.PermManageProducts)
	{
		products.GET("", h.Product.List)
		products.GET("/:id", h.Product.Get)
		products.POST("", manage, h.Product.Create)
		products.PUT("/:id", manage, h.Product.Update)
		products.DELETE("/:id", manage, h.Product.Delete)
	}
}

func registerDraftRoutes(protected *gin.RouterGroup, h *Handlers, deps *Deps) {
	draft := protected.Group("/draft")
	draft.Use(middleware.RequirePermission(entity.PermCreateBills))
	{
		draft.GET("", h.Draft.Get)
		draft.PUT("", h.Draft.Update)
		draft.POST("/new", h.Draft.New)
		draft.POST("/items", h.Draft.AddItem)
		draft.PATCH("/items/:index", h.Draft.UpdateItem)
		draft.DELETE("/items/:index", h.Draft.RemoveItem)
		draft.POST("/preview", h.Draft.Preview)
		draft.POST("/edit", h.Draft.BackToEdit)
		draft.POST("/cancel", h.Draft.Cancel)
		// a retried pay with the same key replays the first answer
		draft.POST("/pay", middleware.Idempotency(middleware.IdempotencyConfig{
			Repo: deps.IdempotencyRepo,
			Log:  deps.Log,
		}), h.Draft.Pay)
	}
}

func registerBillRoutes(protected *gin.RouterGroup, h *Handlers) {
	bills := protected.Group("/bills")
	bills.Use(middleware.RequirePermission(entity.PermViewBills))
	{
		bills.GET("", h.Bill.List)
		bills.GET("/export", h.Bill.Export)
		bills.GET("/:id", h.Bill.Get)
		bills.GET("/:id/invoice", h.Bill.Invoice)
		bills.POST("/:id/print", h.Printer.PrintBill)
	}
}

func registerUserRoutes(protected *gin.RouterGroup, h *Handlers) {
	admin := middleware.RequireRole(entity.RoleAdmin)

	users := protected.Group("/users")
	users.Use(admin)
	{
		users.GET("", h.User.List)
		users.GET("/:id", h.User.Get)
		users.PUT("/:id/role", h.User.SetRole)
	}

	protected.GET("/roles", admin, h.User.ListRoles)
}

func registerPrinterRoutes(protected *gin.RouterGroup, h *Handlers) {
	printerGroup := protected.Group("/printer")
	printerGroup.Use(middleware.RequirePermission(entity.PermManagePrinter))
	{
		printerGroup.GET("/status", h.Printer.GetStatus)
		printerGroup.POST("/test", h.Printer.TestPrint)
	}
}
