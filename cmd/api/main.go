package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/websocket/v2"
	"go.uber.org/zap"

	"github.com/allerpredict/backend/internal/agents"
	"github.com/allerpredict/backend/internal/analysis"
	"github.com/allerpredict/backend/internal/api/handlers"
	rediscache "github.com/allerpredict/backend/internal/cache/redis"
	"github.com/allerpredict/backend/internal/catalog"
	"github.com/allerpredict/backend/internal/llm"
	"github.com/allerpredict/backend/internal/matcher"
	"github.com/allerpredict/backend/internal/metrics"
	"github.com/allerpredict/backend/internal/middleware/security"
	"github.com/allerpredict/backend/internal/middleware/validation"
	"github.com/allerpredict/backend/internal/storage/sqlite"
	"github.com/allerpredict/backend/pkg/config"
	appLogger "github.com/allerpredict/backend/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	err = appLogger.Init(cfg.Logging.Level, cfg.Logging.Format, cfg.Logging.OutputPath)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer appLogger.Sync()

	appLogger.Info("Starting AllerPredict API Server")

	metrics.Init()

	sqliteClient, err := sqlite.NewClient(cfg.SQLite.Path)
	if err != nil {
		appLogger.Fatal("Failed to create SQLite client", zap.Error(err))
	}
	defer sqliteClient.Close()

	err = sqliteClient.InitSchema()
	if err != nil {
		appLogger.Fatal("Failed to initialize schema", zap.Error(err))
	}

	llmClient := llm.NewClient(
		cfg.LLM.APIKey,
		cfg.LLM.Model,
		cfg.LLM.EmbeddingModel,
		cfg.LLM.Temperature,
		cfg.LLM.MaxTokens,
	)

	var redisClient *rediscache.Client
	if cfg.Redis.Enabled {
		redisClient, err = rediscache.NewClient(
			cfg.Redis.Host,
			cfg.Redis.Port,
			cfg.Redis.Password,
			cfg.Redis.DB,
			time.Duration(cfg.Redis.TTLSec)*time.Second,
		)
		if err != nil {
			appLogger.Warn("Redis unavailable, running without cache", zap.Error(err))
			redisClient = nil
		} else {
			defer redisClient.Close()
		}
	}

	store, err := catalog.Load(cfg.Catalog.Path)
	if err != nil {
		appLogger.Fatal("Failed to load product catalog", zap.Error(err))
	}

	// The catalog must be fully embedded before the server accepts traffic.
	err = store.BuildRepresentations(context.Background(), llmClient)
	if err != nil {
		appLogger.Fatal("Failed to build catalog representations", zap.Error(err))
	}

	var queryEmbedder matcher.Embedder = llmClient
	if redisClient != nil {
		queryEmbedder = rediscache.NewCachingEmbedder(llmClient, redisClient)
	}

	productMatcher := matcher.New(store, queryEmbedder, matcher.Config{
		NameWeight:     cfg.Matcher.NameWeight,
		SemanticWeight: cfg.Matcher.SemanticWeight,
		TopCandidates:  cfg.Matcher.TopCandidates,
	})

	riskScorer := analysis.NewRiskScorer(cfg.Risk.LowMax, cfg.Risk.MediumMax)

	engine := analysis.NewEngine(store, productMatcher, riskScorer, analysis.Config{
		MinNameScore:     cfg.Matcher.MinNameScore,
		MinCombinedScore: cfg.Matcher.MinCombinedScore,
		HighConfidence:   cfg.Matcher.HighConfidence,
		MediumConfidence: cfg.Matcher.MediumConfidence,
		CacheTTL:         time.Duration(cfg.Redis.TTLSec) * time.Second,
	}).WithHistory(sqliteClient)

	if redisClient != nil {
		engine = engine.WithCache(redisClient)
	}

	var recommender agents.Recommender
	if cfg.LLM.APIKey != "" {
		recommender = llmClient
	} else {
		appLogger.Warn("No LLM API key configured, recommendations disabled")
	}

	pipeline := agents.NewPipeline(engine, recommender)

	app := fiber.New(fiber.Config{
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		BodyLimit:    cfg.Server.BodyLimit,
	})

	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET, POST, PUT, DELETE, OPTIONS",
	}))
	app.Use(security.HeadersMiddleware(security.HeadersConfig{
		IsDevelopment: cfg.Logging.Level == "debug",
	}))
	app.Use(validation.Middleware(validation.Config{
		Logger: appLogger.GetLogger(),
	}))

	analyzeHandler := handlers.NewAnalyzeHandler(pipeline, engine)
	catalogHandler := handlers.NewCatalogHandler(store)
	historyHandler := handlers.NewHistoryHandler(sqliteClient)
	wsHandler := handlers.NewWebSocketHandler(pipeline)

	api := app.Group("/api/v1")

	api.Post("/analyze", analyzeHandler.HandleAnalyze)
	api.Post("/analyze/simple", analyzeHandler.HandleSimpleAnalyze)
	api.Post("/analysis", analyzeHandler.HandleAnalysis)
	api.Post("/quick-check", analyzeHandler.HandleQuickCheck)

	api.Get("/products", catalogHandler.HandleListProducts)
	api.Get("/products/category/:category", catalogHandler.HandleProductsByCategory)

	api.Get("/history", historyHandler.HandleHistory)
	api.Post("/feedback", historyHandler.HandleFeedback)

	api.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":   "healthy",
			"products": store.Len(),
			"agents":   []string{agents.AnalystAgent, agents.RecommenderAgent},
			"time":     time.Now().Unix(),
		})
	})

	api.Get("/ready", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "ready",
		})
	})

	app.Get("/metrics", metrics.MetricsHandler())

	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	app.Get("/ws/analyze", websocket.New(wsHandler.HandleConnection))

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	appLogger.Info("Server starting", zap.String("address", addr))

	go func() {
		if err := app.Listen(addr); err != nil {
			appLogger.Fatal("Server failed to start", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	appLogger.Info("Server shutting down gracefully...")
	app.Shutdown()
	appLogger.Info("Server stopped")
}
