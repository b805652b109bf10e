package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/vitalab/vitashop-backend/internal/db"
	"github.com/vitalab/vitashop-backend/internal/handlers"
	"github.com/vitalab/vitashop-backend/internal/logger"
	"github.com/vitalab/vitashop-backend/internal/middleware"
	"github.com/vitalab/vitashop-backend/internal/observability"
	"github.com/vitalab/vitashop-backend/internal/repos"
	"github.com/vitalab/vitashop-backend/internal/seed"
	"github.com/vitalab/vitashop-backend/internal/server"
	"github.com/vitalab/vitashop-backend/internal/services"
	"github.com/vitalab/vitashop-backend/internal/utils"
)

func main() {
	// Logger
	logMode := os.Getenv("LOG_MODE")
	if logMode == "" {
		logMode = "development"
	}
	log, err := logger.New(logMode)
	if err != nil {
		fmt.Printf("Failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	ctx := context.Background()

	// Env
	log.Info("Loading environment variables from main...")
	serviceName := utils.GetEnv("SERVICE_NAME", "vitashop", log)
	port := utils.GetEnv("PORT", "8080", log)
	jwtSecretKey := utils.GetEnv("JWT_SECRET_KEY", "defaultsecret", log)
	accessTokenTTL := utils.GetEnvAsInt("ACCESS_TOKEN_TTL", 3600, log)
	refreshTokenTTL := utils.GetEnvAsInt("REFRESH_TOKEN_TTL", 86400, log)
	uploadsDir := utils.GetEnv("UPLOADS_DIR", "./uploads", log)
	publicBaseURL := utils.GetEnv("PUBLIC_BASE_URL", "http://localhost:"+port, log)
	referralBaseURL := utils.GetEnv("REFERRAL_BASE_URL", publicBaseURL, log)

	// Tracing
	otelShutdown := observability.InitOTel(ctx, log, observability.OtelConfig{
		ServiceName: serviceName,
		Environment: logMode,
	})
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if sdErr := otelShutdown(shutdownCtx); sdErr != nil {
			log.Warn("OTel shutdown failed", "error", sdErr)
		}
	}()

	// Postgres
	postgresService, err := db.NewPostgresService(log)
	if err != nil {
		log.Fatal("Postgres init failed", "error", err)
	}
	if err = postgresService.AutoMigrateAll(); err != nil {
		log.Fatal("Postgres auto migration failed", "error", err)
	}
	thePG := postgresService.DB()

	// Repos
	log.Info("Setting up Repos from main...")
	userRepo := repos.NewUserRepo(thePG, log)
	userTokenRepo := repos.NewUserTokenRepo(thePG, log)
	productRepo := repos.NewProductRepo(thePG, log)
	categoryRepo := repos.NewCategoryRepo(thePG, log)
	vitaminRuleRepo := repos.NewVitaminRuleRepo(thePG, log)
	orderRepo := repos.NewOrderRepo(thePG, log)
	referralRepo := repos.NewReferralRepo(thePG, log)
	feedbackRepo := repos.NewFeedbackRepo(thePG, log)

	// Seed
	if err = seed.Rules(ctx, thePG, vitaminRuleRepo, log); err != nil {
		log.Fatal("Rule seeding failed", "error", err)
	}

	// Services
	log.Info("Setting up Services from main...")
	fileService, err := services.NewFileService(log, uploadsDir, publicBaseURL)
	if err != nil {
		log.Fatal("File service init failed", "error", err)
	}
	avatarService, err := services.NewAvatarService(log, fileService)
	if err != nil {
		log.Fatal("Avatar service init failed", "error", err)
	}
	referralService := services.NewReferralService(thePG, log, userRepo, referralRepo, referralBaseURL)
	authService := services.NewAuthService(
		thePG, log, userRepo, userTokenRepo, avatarService, referralService,
		jwtSecretKey,
		time.Duration(accessTokenTTL)*time.Second,
		time.Duration(refreshTokenTTL)*time.Second,
	)
	userService := services.NewUserService(thePG, log, userRepo, avatarService)
	surveyService := services.NewSurveyService(thePG, log, userRepo)
	productService := services.NewProductService(thePG, log, productRepo)
	categoryService := services.NewCategoryService(thePG, log, categoryRepo)
	orderService := services.NewOrderService(thePG, log, orderRepo, productRepo, referralService)
	feedbackService := services.NewFeedbackService(thePG, log, feedbackRepo)
	recommendationService := services.NewRecommendationService(thePG, log, userRepo, productRepo, vitaminRuleRepo)

	// Middleware
	var attemptStore middleware.AttemptStore
	if redisAddr := os.Getenv("REDIS_ADDR"); redisAddr != "" {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     redisAddr,
			Password: os.Getenv("REDIS_PASSWORD"),
		})
		attemptStore = middleware.NewRedisAttemptStore(redisClient)
		log.Info("Login attempt tracking backed by redis", "addr", redisAddr)
	} else {
		attemptStore = middleware.NewMemoryAttemptStore()
		log.Info("Login attempt tracking backed by in-process memory")
	}
	authMiddleware := middleware.NewAuthMiddleware(log, authService)
	bruteForceMiddleware := middleware.NewBruteForceMiddleware(log, attemptStore)

	// Handlers
	log.Info("Setting up Handlers from main...")
	authHandler := handlers.NewAuthHandler(authService)
	userHandler := handlers.NewUserHandler(userService)
	surveyHandler := handlers.NewSurveyHandler(surveyService)
	recommendationHandler := handlers.NewRecommendationHandler(recommendationService)
	productHandler := handlers.NewProductHandler(productService)
	categoryHandler := handlers.NewCategoryHandler(categoryService)
	orderHandler := handlers.NewOrderHandler(orderService)
	referralHandler := handlers.NewReferralHandler(referralService)
	feedbackHandler := handlers.NewFeedbackHandler(feedbackService)

	// Router
	router := server.NewRouter(server.RouterConfig{
		ServiceName:           serviceName,
		UploadsDir:            uploadsDir,
		AuthMiddleware:        authMiddleware,
		BruteForceMiddleware:  bruteForceMiddleware,
		AuthHandler:           authHandler,
		UserHandler:           userHandler,
		SurveyHandler:         surveyHandler,
		RecommendationHandler: recommendationHandler,
		ProductHandler:        productHandler,
		CategoryHandler:       categoryHandler,
		OrderHandler:          orderHandler,
		ReferralHandler:       referralHandler,
		FeedbackHandler:       feedbackHandler,
	})

	log.Info("Starting server...", "port", port)
	if err = router.Run(":" + port); err != nil {
		log.Fatal("Server exited", "error", err)
	}
}
