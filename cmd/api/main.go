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
	"quizforge/internal/adapter/extractor"
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

// requestLogger is a middleware that logs HTTP requests
func requestLogger() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		path := c.Path()
		method := c.Method()

		err := c.Next()

		duration := time.Since(start)
		status := c.Response().StatusCode()

		logger.Get().Info("HTTP Request",
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("status", status),
			zap.Duration("duration", duration),
			zap.String("ip", c.IP()),
			zap.String("user_agent", c.Get("User-Agent")),
		)

		return err
	}
}

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	if err := logger.Initialize(cfg.Logger); err != nil {
		panic(err)
	}
	appLogger := logger.Get()
	defer logger.Sync()

	// Connect to database
	db, err := database.NewSQLXPostgresDB(cfg.GetDSN())
	if err != nil {
		appLogger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	// Initialize repositories
	topicRepository := repository.NewTopicRepository(db)
	questionRepository := repository.NewQuestionRepository(db)
	answerRepository := repository.NewAnswerRepository(db)

	// Initialize Redis client and cache adapter
	redisClient, err := cache.NewRedisClient(cfg.Redis)
	if err != nil {
		appLogger.Fatal("Failed to connect to Redis", zap.Error(err))
	}
	appLogger.Info("Successfully connected to Redis")
	cacheAdapter := adapter.NewRedisCacheAdapter(redisClient)

	// Initialize generation pipeline adapters
	completionEngine := quizgen.NewGeminiClient(cfg.GenAI.RequestTimeout, appLogger)
	contentExtractor := extractor.NewDocumentExtractor(cfg.GenAI.RequestTimeout, appLogger)

	// Initialize services
	generationService := service.NewGenerationService(
		completionEngine,
		contentExtractor,
		topicRepository,
		questionRepository,
		cacheAdapter,
		cfg.GenAI,
		cfg.Generation.CaseInsensitiveTopics,
		appLogger,
	)
	practiceService := service.NewPracticeService(
		topicRepository,
		questionRepository,
		answerRepository,
		cacheAdapter,
		appLogger,
	)
	streakService, err := service.NewStreakService(answerRepository, cacheAdapter, cfg.Streak, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to create streak service", zap.Error(err))
	}

	// Initialize handlers
	generateHandler := handler.NewGenerateHandler(generationService)
	practiceHandler := handler.NewPracticeHandler(practiceService, cfg.App.DefaultUserID)
	streakHandler := handler.NewStreakHandler(streakService, cfg.App.DefaultUserID)

	// Create Fiber app
	app := fiber.New(fiber.Config{
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  20 * time.Second,
		BodyLimit:    25 * 1024 * 1024,
		ErrorHandler: middleware.ErrorHandler(),
	})

	app.Use(requestLogger())
	app.Use(cors.New(cors.Config{AllowOrigins: "*", AllowMethods: "GET,POST,OPTIONS", AllowHeaders: "Origin,Content-Type,Accept", MaxAge: 300}))
	app.Use(recover.New())

	app.Get("/health", func(c *fiber.Ctx) error {
		if err := cacheAdapter.Ping(c.Context()); err != nil {
			return fiber.NewError(fiber.StatusServiceUnavailable, "cache unavailable")
		}
		if err := db.PingContext(c.Context()); err != nil {
			return fiber.NewError(fiber.StatusServiceUnavailable, "database unavailable")
		}
		return c.JSON(fiber.Map{"status": "ok"})
	})

	// API group
	apiGroup := app.Group("/api")

	// Generation routes
	generateGroup := apiGroup.Group("/generate")
	generateGroup.Post("/from-link", generateHandler.GenerateFromLink)
	generateGroup.Post("/from-pdf", generateHandler.GenerateFromPDF)

	// Browsing and practice routes
	apiGroup.Get("/topics", practiceHandler.ListTopics)
	apiGroup.Get("/topics/:id/sub_topics", practiceHandler.ListSubTopics)
	apiGroup.Get("/sub_topics/:id/questions", practiceHandler.GetQuestionsBySubTopic)
	apiGroup.Get("/questions/random", practiceHandler.GetRandomQuestions)
	apiGroup.Post("/answers", practiceHandler.SubmitAnswer)
	apiGroup.Get("/streak", streakHandler.GetStreak)

	// Start server
	go func() {
		appLogger.Info("Starting server", zap.Int("port", cfg.Server.Port), zap.String("env", os.Getenv("ENV")))
		if err := app.Listen(":" + strconv.Itoa(cfg.Server.Port)); err != nil {
			appLogger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
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
