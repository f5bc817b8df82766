package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"vocaresume/api/internal/config"
	"vocaresume/api/internal/handlers"
	"vocaresume/api/internal/repositories"
	"vocaresume/api/internal/services"
)

func main() {
	// Load configuration
	cfg := config.Load()
	log.Println("✅ Config loaded successfully")

	// Initialize database
	db, err := config.InitDatabase(cfg)
	if err != nil {
		log.Fatalf("❌ Failed to initialize database: %v", err)
	}

	// Initialize repositories
	docRepo := repositories.NewDocumentRepository(db)
	analysisRepo := repositories.NewAnalysisRepository(db)
	log.Println("✅ Repositories initialized successfully")

	// Initialize storage for uploads and audio artifacts
	storageService := services.NewStorageService(cfg.Storage.UploadPath)
	if err := storageService.EnsureUploadDir(); err != nil {
		log.Fatalf("❌ Failed to create upload directory: %v", err)
	}

	artifactStore := services.NewArtifactStore(cfg.Speech.AudioPath, cfg.Speech.Retention)
	if err := artifactStore.EnsureDir(); err != nil {
		log.Fatalf("❌ Failed to create audio directory: %v", err)
	}

	pdfParser := services.NewPDFParserService()
	log.Println("✅ Services initialized successfully")

	// Initialize Gemini AI
	geminiService, err := services.NewGeminiService(cfg.Gemini.APIKey, cfg.Gemini.EmbedModel)
	if err != nil {
		log.Printf("⚠️ Gemini unavailable, vector routing and Google models disabled: %v\n", err)
		geminiService = nil
	} else {
		log.Println("✅ Gemini AI initialized successfully")
	}

	// Initialize the routing index. Failures here only degrade the router to
	// its keyword fallback, they are never fatal.
	var vectorIndex services.VectorIndexService
	if geminiService != nil {
		vectorIndex, err = services.NewQdrantService(
			cfg.Qdrant.URL,
			cfg.Qdrant.APIKey,
			cfg.Qdrant.Collection,
		)
		if err != nil {
			log.Printf("⚠️ Qdrant unavailable, routing falls back to keywords: %v\n", err)
			vectorIndex = nil
		} else {
			ctx := context.Background()
			if err := vectorIndex.InitCollection(ctx); err != nil {
				log.Printf("⚠️ Failed to init routing collection, using keyword fallback: %v\n", err)
				vectorIndex = nil
			} else if err := vectorIndex.SeedTaskAnchors(ctx, geminiService); err != nil {
				log.Printf("⚠️ Failed to seed task anchors, using keyword fallback: %v\n", err)
				vectorIndex = nil
			} else {
				log.Println("✅ Qdrant routing index initialized successfully")
			}
		}
	}

	// LLM dispatch across providers
	groqService := services.NewOpenAICompatService("groq", cfg.Groq.APIKey, cfg.Groq.BaseURL)
	perplexityService := services.NewOpenAICompatService("perplexity", cfg.Perplexity.APIKey, cfg.Perplexity.BaseURL)
	llmService := services.NewLLMService(geminiService, groqService, perplexityService, cfg.Worker.RetryMaxAttempts)
	log.Println("✅ LLM dispatch initialized")

	// Speech cascade: neural sidecar → translate endpoint → offline espeak
	speechService := services.NewSpeechService(
		artifactStore,
		services.NewNeuralProvider(cfg.Speech.NeuralURL, cfg.Speech.Voice),
		services.NewTranslateProvider("en"),
		services.NewEspeakProvider(cfg.Speech.DisableOffline),
	)
	log.Println("✅ Speech cascade initialized")

	// Transcription cascade: whisper API → offline vosk
	transcribeService := services.NewTranscribeService(
		services.NewWhisperProvider(cfg.Groq.APIKey, cfg.Groq.BaseURL, cfg.STT.WhisperModel),
		services.NewVoskProvider(cfg.STT.DisableOffline),
	)
	log.Println("✅ Transcription cascade initialized")

	// Per-session state, router, ingestion, pipeline
	sessionManager := services.NewSessionManager(cfg.Router.HistoryLimit)
	var embedder services.Embedder
	if geminiService != nil {
		embedder = geminiService
	}
	taskRouter := services.NewTaskRouter(embedder, vectorIndex, cfg.Router.TopK)
	sanitizer := services.NewSanitizerService(cfg.Speech.MaxSpeechChars)
	ingestService := services.NewIngestService(pdfParser, services.NewTextChunker(), embedder, vectorIndex)

	pipelineService := services.NewPipelineService(
		analysisRepo,
		sessionManager,
		taskRouter,
		llmService,
		sanitizer,
		speechService,
	)
	log.Println("✅ Pipeline initialized")

	// Initialize worker
	worker := services.NewWorker(
		analysisRepo,
		pipelineService,
		artifactStore,
		cfg.Worker.Concurrency,
		cfg.Worker.SweepInterval,
	)

	ctx := context.Background()
	worker.Start(ctx)
	log.Println("✅ Worker started successfully")

	// Initialize handlers
	sessionHandler := handlers.NewSessionHandler(sessionManager, docRepo, vectorIndex)
	uploadHandler := handlers.NewUploadHandler(
		sessionManager,
		docRepo,
		storageService,
		ingestService,
		cfg.Storage.MaxFileSize,
	)
	transcribeHandler := handlers.NewTranscribeHandler(sessionManager, transcribeService, cfg.Storage.MaxFileSize)
	analyzeHandler := handlers.NewAnalyzeHandler(sessionManager, analysisRepo, llmService, worker)
	resultHandler := handlers.NewResultHandler(analysisRepo)
	audioHandler := handlers.NewAudioHandler(artifactStore)
	log.Println("✅ Handlers initialized")

	// Create Fiber app
	app := fiber.New(fiber.Config{
		AppName:      "VocaResume API",
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		BodyLimit:    int(cfg.Storage.MaxFileSize),
		ErrorHandler: customErrorHandler,
	})

	// Middleware
	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		Format:     "[${time}] ${status} - ${latency} ${method} ${path}\n",
		TimeFormat: "2006-01-02 15:04:05",
	}))

	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))

	// Routes
	api := app.Group("/api/v1")

	// Health check
	api.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now(),
		})
	})

	// API endpoints
	api.Post("/sessions", sessionHandler.HandleCreate)
	api.Delete("/sessions/:id", sessionHandler.HandleDelete)
	api.Post("/sessions/:id/upload", uploadHandler.HandleUpload)
	api.Post("/sessions/:id/transcribe", transcribeHandler.HandleTranscribe)
	api.Post("/analyze", analyzeHandler.HandleAnalyze)
	api.Get("/result/:id", resultHandler.HandleGetResult)
	api.Get("/audio/:name", audioHandler.HandleGetAudio)

	// Root route
	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"message": "VocaResume API",
			"version": "1.0.0",
			"endpoints": []string{
				"POST /api/v1/sessions",
				"POST /api/v1/sessions/:id/upload",
				"POST /api/v1/sessions/:id/transcribe",
				"POST /api/v1/analyze",
				"GET /api/v1/result/:id",
				"GET /api/v1/audio/:name",
			},
		})
	})

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-quit
		log.Println("\n🛑 Shutting down server...")
		worker.Stop()
		if err := app.Shutdown(); err != nil {
			log.Printf("❌ Server forced to shutdown: %v", err)
		}
	}()

	// Start server
	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	log.Printf("🚀 Server starting on %s\n", addr)

	if err := app.Listen(addr); err != nil {
		log.Fatalf("❌ Failed to start server: %v", err)
	}
}

func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError

	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
	}

	return c.Status(code).JSON(fiber.Map{
		"error": err.Error(),
		"code":  code,
	})
}
