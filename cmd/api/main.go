package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"quizforge/internal/adapter"
	"quizforge/internal/adapter/quizgen"
	"quizforge/internal/cache"
	"quizforge/internal/config"
	"quizforge/internal/database"
	"quizforge/internal/handler"
	"quizforge/internal/logger"
	"quizforge/internal/middleware"
	"quizforge/internal/repository"
	"quizforge/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/zap"
)

// requestLogger logs every HTTP request with its outcome and latency.
func requestLogger() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		logger.Get().Info("HTTP Request",
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.Int("status", c.Response().StatusCode()),
			zap.Duration("duration", time.Since(start)),
			zap.String("ip", c.IP()),
		)
		return err
	}
}

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if err := logger.Initialize(cfg.Logger); err != nil {
		panic(err)
	}
	appLogger := logger.Get()
	defer logger.Sync()

	// Database
	db, err := database.NewSQLXPostgresDB(cfg.GetDSN())
	if err != nil {
		appLogger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	// Redis
	redisClient, err := cache.NewRedisClient(cfg.Redis)
	if err != nil {
		appLogger.Fatal("Failed to connect to Redis", zap.Error(err))
	}
	cacheAdapter := adapter.NewRedisCacheAdapter(redisClient)
	appLogger.Info("Connected to Redis", zap.String("address", cfg.Redis.Address))

	// LLM question supplier
	llm, err := quizgen.NewOllamaLLM(cfg.LLM)
	if err != nil {
		appLogger.Fatal("Failed to create LLM client", zap.Error(err))
	}
	supplier := quizgen.NewOllamaQuestionSupplier(llm, cfg.LLM)

	// Repositories
	txManager := repository.NewTransactionManagerAdapter(db)
	topicRepository := repository.NewTopicRepositoryAdapter(db)
	quizRepository := repository.NewQuizRepositoryAdapter(db)
	sessionRepository := repository.NewSessionRepositoryAdapter(db)
	resultRepository := repository.NewResultRepositoryAdapter(db)
	historyRepository := repository.NewHistoryRepositoryAdapter(db)
	userRepository := repository.NewUserRepositoryAdapter(db)

	// Services
	authService := service.NewAuthService(userRepository, cfg.JWT)
	quizService := service.NewQuizService(txManager, topicRepository, quizRepository, historyRepository, supplier, cacheAdapter)
	sessionService := service.NewSessionService(txManager, sessionRepository, quizRepository, resultRepository, historyRepository, userRepository, topicRepository, cacheAdapter)
	analyticsService := service.NewAnalyticsService(userRepository, resultRepository, historyRepository)

	// Handlers
	authHandler := handler.NewAuthHandler(authService)
	quizHandler := handler.NewQuizHandler(quizService)
	sessionHandler := handler.NewSessionHandler(sessionService)
	analyticsHandler := handler.NewAnalyticsHandler(analyticsService)

	app := fiber.New(fiber.Config{
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		ErrorHandler: middleware.ErrorHandler,
	})

	app.Use(requestLogger())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept,Authorization",
		MaxAge:       300,
	}))
	app.Use(recover.New())

	apiGroup := app.Group("/api")

	authGroup := apiGroup.Group("/auth")
	authGroup.Post("/signup", authHandler.Signup)
	authGroup.Post("/login", authHandler.Login)

	protected := middleware.Protected(authService)
	apiGroup.Get("/topics", protected, quizHandler.ListTopics)
	apiGroup.Post("/quizzes", protected, quizHandler.GenerateQuiz)
	apiGroup.Get("/quizzes/:id", protected, quizHandler.GetQuiz)
	apiGroup.Post("/sessions", protected, sessionHandler.StartSession)
	apiGroup.Get("/sessions/:id/status", protected, sessionHandler.GetSessionStatus)
	apiGroup.Post("/sessions/:id/submit", protected, sessionHandler.SubmitSession)
	apiGroup.Get("/analytics/me", protected, analyticsHandler.UserAnalytics)
	apiGroup.Get("/quiz-history", protected, analyticsHandler.QuizHistory)

	go func() {
		appLogger.Info("Starting server", zap.Int("port", cfg.Server.Port))
		if err := app.Listen(":" + strconv.Itoa(cfg.Server.Port)); err != nil {
			appLogger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	appLogger.Info("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := app.ShutdownWithContext(ctx); err != nil {
		appLogger.Fatal("Server forced to shutdown", zap.Error(err))
	}
	appLogger.Info("Server exited gracefully")
}
