package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"tutor-service/internal/agents"
	"tutor-service/internal/configs"
	"tutor-service/internal/db"
	"tutor-service/internal/event"
	"tutor-service/internal/handlers"
	"tutor-service/internal/llm"
	"tutor-service/internal/middleware"
	"tutor-service/internal/repository"
	"tutor-service/internal/search"
	"tutor-service/internal/service"
	"tutor-service/internal/workflow"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func main() {
	configs.LoadConfig()
	cfg := configs.AppConfig

	gin.SetMode(cfg.GinMode)

	db.InitMongo(cfg.MongoURI)
	db.InitRedis(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	database := db.Client.Database(cfg.MongoDatabase)

	// RabbitMQ event publisher
	var publisher *event.EventPublisher
	if cfg.RabbitMQURI != "" {
		var err error
		publisher, err = event.NewEventPublisher(cfg.RabbitMQURI, cfg.EventExchange)
		if err != nil {
			log.Printf("Warning: Failed to connect to RabbitMQ: %v", err)
			publisher = nil
		} else {
			defer publisher.Close()
		}
	} else {
		log.Println("RabbitMQ not configured, events will not be published")
	}

	// Repositories
	userRepo := repository.NewUserRepository(database)
	chapterRepo := repository.NewChapterRepository(database)
	turnRepo := repository.NewTurnRepository(database)
	summaryRepo := repository.NewSummaryRepository(database)
	sessionRepo := repository.NewSessionStateRepository(
		db.RedisClient,
		time.Duration(cfg.SessionTTLMinutes)*time.Minute,
	)

	// Seed chapter content on first start
	if err := chapterRepo.Seed(context.Background()); err != nil {
		log.Printf("Warning: Failed to seed chapters: %v", err)
	}

	// Outbound collaborators
	llmClient := llm.NewClient(cfg.LLMBaseURL, cfg.LLMAPIKey, cfg.LLMModel)
	if llmClient.IsConnected(context.Background()) {
		log.Printf("LLM backend reachable (%s, model %s)", cfg.LLMProvider, cfg.LLMModel)
	} else {
		log.Printf("Warning: LLM backend unreachable, agents will degrade to chapter content")
	}

	searchService := search.NewService(cfg.EmbeddingModelURL, cfg.EmbeddingModel, database.Collection("documents"))
	if err := searchService.LoadFromStore(context.Background()); err != nil {
		log.Printf("Warning: Failed to load knowledge base: %v", err)
	}
	if chapters, err := chapterRepo.FindAll(context.Background()); err == nil {
		go searchService.IndexChapters(context.Background(), chapters)
	}

	// Learning-loop agents and orchestrator
	orchestrator := workflow.NewOrchestrator(workflow.Agents{
		Theory:     agents.NewTheoryAgent(llmClient, chapterRepo),
		QnA:        agents.NewQnAAgent(llmClient, searchService, cfg.SearchTopK),
		Quiz:       agents.NewQuizAgent(llmClient, chapterRepo),
		Evaluator:  agents.NewEvaluationAgent(llmClient, cfg.PassingScore),
		Supervisor: agents.NewSupervisorAgent(cfg.PassingScore, cfg.MaxChapter),
	}, workflow.Config{
		PassingScore:       cfg.PassingScore,
		MaxRecentSummaries: cfg.MaxRecentSummaries,
		MaxChapter:         cfg.MaxChapter,
	})

	// Services
	authService := service.NewAuthService(userRepo)
	chapterService := service.NewChapterService(chapterRepo)
	learningService := service.NewLearningService(orchestrator, sessionRepo, turnRepo, summaryRepo, userRepo, sink(publisher))
	learningService.MaxRecentSummaries = cfg.MaxRecentSummaries

	// Handlers
	authHandler := handlers.NewAuthHandler(authService)
	chapterHandler := handlers.NewChapterHandler(chapterService)
	learningHandler := handlers.NewLearningHandler(learningService)

	r := setupRoutes(authHandler, chapterHandler, learningHandler, llmClient)

	log.Printf("Starting %s on port %s", cfg.ServiceName, cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}

// sink converts the concrete publisher to the service's event interface while
// keeping a nil publisher as a true nil interface.
func sink(p *event.EventPublisher) service.EventSink {
	if p == nil {
		return nil
	}
	return p
}

func setupRoutes(
	authHandler *handlers.AuthHandler,
	chapterHandler *handlers.ChapterHandler,
	learningHandler *handlers.LearningHandler,
	llmClient *llm.Client,
) *gin.Engine {
	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:3000"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Content-Type", "Content-Length", "Accept-Encoding", "X-CSRF-Token", "Authorization", "accept", "origin", "Cache-Control", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":    "healthy",
			"service":   configs.AppConfig.ServiceName,
			"version":   configs.AppConfig.ServiceVersion,
			"llm":       llmClient.IsConnected(c.Request.Context()),
			"timestamp": time.Now(),
		})
	})

	public := r.Group("/public/tutor")
	{
		public.POST("/auth/register", authHandler.Register)
		public.POST("/auth/login", authHandler.Login)
		public.GET("/chapters", chapterHandler.ListChapters)
		public.GET("/chapters/:id", chapterHandler.GetChapter)
	}

	protected := r.Group("/protected/tutor")
	protected.Use(middleware.AuthRequired())
	{
		protected.POST("/session", learningHandler.StartSession)
		protected.GET("/session", learningHandler.GetSession)
		protected.POST("/session/message", learningHandler.SendMessage)
		protected.DELETE("/session", learningHandler.EndSession)
		protected.GET("/progress", learningHandler.GetProgress)
	}

	return r
}
