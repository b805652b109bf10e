package server

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/vitalab/vitashop-backend/internal/handlers"
	"github.com/vitalab/vitashop-backend/internal/middleware"
)

type RouterConfig struct {
	ServiceName           string
	UploadsDir            string
	AuthMiddleware        *middleware.AuthMiddleware
	BruteForceMiddleware  *middleware.BruteForceMiddleware
	AuthHandler           *handlers.AuthHandler
	UserHandler           *handlers.UserHandler
	SurveyHandler         *handlers.SurveyHandler
	RecommendationHandler *handlers.RecommendationHandler
	ProductHandler        *handlers.ProductHandler
	CategoryHandler       *handlers.CategoryHandler
	OrderHandler          *handlers.OrderHandler
	ReferralHandler       *handlers.ReferralHandler
	FeedbackHandler       *handlers.FeedbackHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.Default()
	router.Use(otelgin.Middleware(cfg.ServiceName))

	// Cors
	router.Use(cors.New(cors.Config{
		AllowOrigins: []string{
			"http://localhost:80",
			"http://localhost:3000",
			"http://localhost:5174",
		},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With"},
		AllowCredentials: true,
	}))

	// ===============
	// || Public    ||
	// ===============
	router.GET("/healthcheck", handlers.HealthCheck)
	if cfg.UploadsDir != "" {
		router.Static("/uploads", cfg.UploadsDir)
	}
	api := router.Group("/api")
	{
		api.POST("/register", cfg.AuthHandler.Register)
		api.POST("/login", cfg.BruteForceMiddleware.Protect(), cfg.AuthHandler.Login)
		api.POST("/refresh", cfg.AuthHandler.Refresh)
		api.POST("/feedback", cfg.FeedbackHandler.SubmitFeedback)
		api.GET("/products", cfg.ProductHandler.ListProducts)
		api.GET("/products/:id", cfg.ProductHandler.GetProduct)
		api.GET("/categories", cfg.CategoryHandler.ListCategories)
	}

	// ===============
	// || Protected ||
	// ===============
	protected := router.Group("/api")
	protected.Use(cfg.AuthMiddleware.RequireAuth())
	// Auth
	protected.POST("/logout", cfg.AuthHandler.Logout)
	// User
	protected.GET("/user", cfg.UserHandler.GetMe)
	protected.PUT("/user", cfg.UserHandler.UpdateMe)
	protected.POST("/user/avatar", cfg.UserHandler.UploadAvatar)
	// Survey
	protected.POST("/survey", cfg.SurveyHandler.SaveSurvey)
	protected.GET("/survey", cfg.SurveyHandler.GetSurvey)
	// Recommendations
	protected.GET("/recommendations", cfg.RecommendationHandler.GetRecommendations)
	protected.GET("/recommendations/enhanced", cfg.RecommendationHandler.GetEnhancedRecommendations)
	protected.GET("/recommendations/full", cfg.RecommendationHandler.GetFullRecommendations)
	// Orders
	protected.POST("/orders", cfg.OrderHandler.CreateOrder)
	protected.GET("/orders", cfg.OrderHandler.GetOrders)
	protected.GET("/orders/summary", cfg.OrderHandler.GetOrderSummary)
	protected.GET("/orders/:id", cfg.OrderHandler.GetOrder)
	protected.POST("/orders/:id/cancel", cfg.OrderHandler.CancelOrder)
	// Referral
	protected.GET("/referral", cfg.ReferralHandler.GetReferralInfo)
	protected.GET("/referral/list", cfg.ReferralHandler.GetReferrals)
	protected.GET("/referral/points", cfg.ReferralHandler.GetPointsHistory)
	protected.POST("/referral/points/spend", cfg.ReferralHandler.SpendPoints)

	// ===============
	// || Admin     ||
	// ===============
	admin := router.Group("/api/admin")
	admin.Use(cfg.AuthMiddleware.RequireAuth(), cfg.AuthMiddleware.RequireAdmin())
	// Products
	admin.POST("/products", cfg.ProductHandler.CreateProduct)
	admin.PUT("/products/:id", cfg.ProductHandler.UpdateProduct)
	admin.DELETE("/products/:id", cfg.ProductHandler.DeleteProduct)
	// Categories
	admin.POST("/categories", cfg.CategoryHandler.CreateCategory)
	admin.PUT("/categories/:id", cfg.CategoryHandler.UpdateCategory)
	admin.DELETE("/categories/:id", cfg.CategoryHandler.DeleteCategory)
	// Orders
	admin.GET("/orders", cfg.OrderHandler.ListOrders)
	admin.PUT("/orders/:id/status", cfg.OrderHandler.UpdateOrderStatus)
	// Feedback
	admin.GET("/feedback", cfg.FeedbackHandler.ListFeedback)
	admin.POST("/feedback/:id/respond", cfg.FeedbackHandler.RespondFeedback)
	admin.PUT("/feedback/:id/status", cfg.FeedbackHandler.UpdateFeedbackStatus)
	// Users
	admin.GET("/users", cfg.UserHandler.ListUsers)

	return router
}
