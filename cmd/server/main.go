package main

import (
	"aura/internal/adapters"
	"aura/internal/config"
	"aura/internal/crypto"
	"aura/internal/database"
	"aura/internal/google"
	"aura/internal/handlers"
	"aura/internal/logging"
	"aura/internal/middleware"
	"aura/internal/services"
	"aura/pkg/auth"
	"context"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/fsnotify/fsnotify"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	// Initialize structured logging (JSON in production, text in dev)
	logging.Init()

	log.Println("🚀 Starting Aura Server...")

	// Load .env file (ignore error if file doesn't exist)
	if err := godotenv.Load(); err != nil {
		log.Printf("⚠️  No .env file found or error loading it: %v", err)
	} else {
		log.Println("✅ .env file loaded successfully")
	}

	// Load configuration
	cfg := config.Load()
	log.Printf("📋 Configuration loaded (Port: %s, DB: MySQL)", cfg.Port)

	// MySQL is the relational mirror; the server cannot run without it
	db, err := database.New(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("❌ Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := db.Initialize(); err != nil {
		log.Fatalf("❌ Failed to initialize database: %v", err)
	}

	// MongoDB credential vault is optional; without it integrations cannot be
	// connected but commands still work in local-only mode
	var mongoDB *database.MongoDB
	if cfg.MongoURI != "" {
		mongoDB, err = database.NewMongoDB(cfg.MongoURI)
		if err != nil {
			log.Printf("⚠️  MongoDB unavailable, credential vault disabled: %v", err)
		} else {
			initCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			if err := mongoDB.Initialize(initCtx); err != nil {
				log.Printf("⚠️  MongoDB index setup failed: %v", err)
			}
			cancel()
			defer mongoDB.Close(context.Background())
		}
	} else {
		log.Println("⚠️  MONGODB_URI not set, credential vault disabled")
	}

	// Redis is optional; the token cache falls back to an in-process cache and
	// the scheduler skips its multi-instance lock
	var redisService *services.RedisService
	if cfg.RedisURL != "" {
		redisService, err = services.NewRedisService(cfg.RedisURL)
		if err != nil {
			log.Printf("⚠️  Redis unavailable, using in-process caches: %v", err)
			redisService = nil
		} else {
			defer redisService.Close()
		}
	} else {
		log.Println("⚠️  REDIS_URL not set, using in-process caches")
	}

	// Prometheus metrics registry
	services.InitMetrics()

	// Local JWT auth (15 min access tokens, 7 day refresh tokens)
	jwtAuth, err := auth.NewLocalJWTAuth(cfg.JWTSecret, 15*time.Minute, 7*24*time.Hour)
	if err != nil {
		log.Fatalf("❌ Failed to initialize auth: %v", err)
	}

	// Credential vault encryption (per-user keys derived from the master key)
	var credentialService *services.CredentialService
	if mongoDB != nil {
		encryptionService, err := crypto.NewEncryptionService(cfg.EncryptionKey)
		if err != nil {
			log.Fatalf("❌ Failed to initialize encryption (set ENCRYPTION_MASTER_KEY): %v", err)
		}
		credentialService = services.NewCredentialService(mongoDB, encryptionService)
		log.Println("🔐 Credential vault enabled")
	}

	googleClient := google.NewClient(cfg.GoogleClientID, cfg.GoogleClientSecret)
	googleClient.Observe = services.ProviderObserver("google")

	// Services
	userService := services.NewUserService(db, jwtAuth)
	tokenService := services.NewTokenService(credentialService, googleClient, redisService)
	emailService := services.NewEmailService(db)
	calendarService := services.NewCalendarService(db)
	taskService := services.NewTaskService(db)
	voiceNoteService := services.NewVoiceNoteService(db)
	activityService := services.NewActivityService(db)
	historyService := services.NewHistoryService(db)
	integrationService := services.NewIntegrationService(db)

	notionConfig := services.NotionConfigResolver(credentialService, cfg.NotionToken, cfg.NotionDatabaseID)

	commandAdapters := &adapters.Adapters{
		Tokens:       tokenService,
		Email:        googleClient,
		Events:       googleClient,
		Tasks:        services.NotionCreator{},
		NotionConfig: notionConfig,

		Emails:     emailService,
		Calendar:   calendarService,
		TaskMirror: taskService,
		Voice:      voiceNoteService,
		Activities: activityService,
	}

	commandService := services.NewCommandService(commandAdapters, historyService)
	syncService := services.NewSyncService(googleClient, tokenService, emailService, calendarService, taskService, integrationService, notionConfig)

	// Background sync scheduler
	var schedulerService *services.SchedulerService
	if cfg.SyncEnabled {
		schedulerService, err = services.NewSchedulerService(syncService, userService, redisService, cfg.SyncCron)
		if err != nil {
			log.Fatalf("❌ Invalid SYNC_CRON expression %q: %v", cfg.SyncCron, err)
		}
		if err := schedulerService.Start(); err != nil {
			log.Fatalf("❌ Failed to start sync scheduler: %v", err)
		}
	} else {
		log.Println("⏭️  Background sync disabled (SYNC_ENABLED=false)")
	}

	// Billing
	plans, err := config.LoadPlans(cfg.PlansFile)
	if err != nil {
		log.Fatalf("❌ Failed to load plan catalog from %s: %v", cfg.PlansFile, err)
	}
	log.Printf("💳 Loaded %d billing plans from %s", len(plans.All()), cfg.PlansFile)
	billingService := services.NewBillingService(cfg.DodoAPIKey, cfg.DodoEnvironment, plans, userService)

	// Hot-reload the plan catalog when plans.yaml changes on disk
	go watchPlansFile(cfg.PlansFile, plans)

	// Initialize Fiber app
	app := fiber.New(fiber.Config{
		AppName:      "Aura v1.0",
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
		BodyLimit:    1 * 1024 * 1024, // commands and credentials are small JSON bodies
	})

	// Middleware
	app.Use(recover.New())
	app.Use(logger.New())

	// Prometheus metrics middleware
	prometheus := fiberprometheus.New("aura")
	prometheus.RegisterAt(app, "/metrics")
	app.Use(prometheus.Middleware)
	log.Println("📊 Prometheus metrics endpoint enabled at /metrics")

	// Load rate limiting configuration
	rateLimitConfig := middleware.LoadRateLimitConfig()
	log.Printf("🛡️  [RATE-LIMIT] Loaded config: Global=%d/min, Auth=%d/min, Command=%d/min, Sync=%d/min",
		rateLimitConfig.GlobalAPIMax,
		rateLimitConfig.AuthenticatedMax,
		rateLimitConfig.CommandMax,
		rateLimitConfig.SyncMax,
	)

	// CORS configuration with environment-based origins
	allowedOrigins := os.Getenv("ALLOWED_ORIGINS")
	if allowedOrigins == "" {
		allowedOrigins = "http://localhost:5173,http://localhost:3000"
		log.Println("⚠️  ALLOWED_ORIGINS not set, using development defaults")
	}

	// Fiber's CORS middleware does not allow AllowCredentials with wildcard origins
	app.Use(cors.New(cors.Config{
		AllowOrigins:     allowedOrigins,
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders:     "Origin,Content-Type,Accept,Authorization",
		AllowCredentials: allowedOrigins != "*",
	}))

	// Global API rate limiter - first line of DDoS defense
	app.Use("/api", middleware.GlobalAPIRateLimiter(rateLimitConfig))

	// Handlers
	healthHandler := handlers.NewHealthHandler(db, mongoDB, redisService)
	authHandler := handlers.NewAuthHandler(userService, jwtAuth)
	commandHandler := handlers.NewCommandHandler(commandService)
	syncHandler := handlers.NewSyncHandler(syncService)
	dashboardHandler := handlers.NewDashboardHandler(emailService, calendarService, taskService, voiceNoteService, activityService, historyService)
	integrationHandler := handlers.NewIntegrationHandler(credentialService, integrationService, tokenService)
	billingHandler := handlers.NewBillingHandler(billingService)

	// Public routes
	app.Get("/health", healthHandler.Health)
	app.Post("/api/auth/register", authHandler.Register)
	app.Post("/api/auth/login", authHandler.Login)
	app.Post("/api/auth/refresh", authHandler.Refresh)

	// Everything below requires a valid access token
	app.Use("/api", middleware.LocalAuthMiddleware(jwtAuth))
	app.Use("/api", middleware.AuthenticatedRateLimiter(rateLimitConfig))

	// Command processing
	app.Post("/api/command", middleware.CommandRateLimiter(rateLimitConfig), commandHandler.Process)

	// Provider sync
	sync := app.Group("/api/sync", middleware.SyncRateLimiter(rateLimitConfig))
	sync.Post("/gmail", syncHandler.Gmail)
	sync.Post("/calendar", syncHandler.Calendar)
	sync.Post("/notion", syncHandler.Notion)

	// Dashboard reads
	app.Get("/api/emails", dashboardHandler.Emails)
	app.Get("/api/events", dashboardHandler.Events)
	app.Get("/api/tasks", dashboardHandler.Tasks)
	app.Get("/api/voice-notes", dashboardHandler.VoiceNotes)
	app.Get("/api/activities", dashboardHandler.Activities)
	app.Get("/api/commands", dashboardHandler.Commands)

	// Integration credentials
	app.Post("/api/integrations/google", integrationHandler.ConnectGoogle)
	app.Post("/api/integrations/notion", integrationHandler.ConnectNotion)
	app.Get("/api/integrations", integrationHandler.List)

	// Billing
	app.Get("/api/billing/plans", billingHandler.Plans)
	app.Post("/api/billing/checkout", billingHandler.Checkout)

	// Handle graceful shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		log.Println("\n🛑 Shutting down server...")

		if schedulerService != nil {
			if err := schedulerService.Stop(); err != nil {
				log.Printf("⚠️ Error stopping scheduler: %v", err)
			}
		}

		if err := app.Shutdown(); err != nil {
			log.Printf("⚠️ Error shutting down server: %v", err)
		}
	}()

	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatalf("❌ Failed to start server: %v", err)
	}
}

// watchPlansFile watches the plan catalog file and reloads it on change
func watchPlansFile(filePath string, plans *config.PlanCatalog) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		log.Printf("⚠️  Failed to create file watcher: %v", err)
		return
	}

	absPath, err := filepath.Abs(filePath)
	if err != nil {
		log.Printf("⚠️  Failed to get absolute path for %s: %v", filePath, err)
		watcher.Close()
		return
	}

	// Watch the directory containing the file (more reliable than watching the file directly)
	dir := filepath.Dir(absPath)
	filename := filepath.Base(absPath)

	if err := watcher.Add(dir); err != nil {
		log.Printf("⚠️  Failed to watch directory %s: %v", dir, err)
		watcher.Close()
		return
	}

	log.Printf("👁️  Watching %s for changes (hot-reload enabled)", filePath)

	// Debounce timer to avoid multiple reloads for rapid file changes
	var debounceTimer *time.Timer
	debounceDuration := 500 * time.Millisecond

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return
			}

			if filepath.Base(event.Name) != filename {
				continue
			}

			if event.Op&fsnotify.Write == fsnotify.Write || event.Op&fsnotify.Create == fsnotify.Create {
				if debounceTimer != nil {
					debounceTimer.Stop()
				}

				debounceTimer = time.AfterFunc(debounceDuration, func() {
					if err := plans.Reload(filePath); err != nil {
						log.Printf("❌ Failed to reload plan catalog: %v", err)
					} else {
						log.Printf("✅ Plan catalog reloaded from %s", filePath)
					}
				})
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			log.Printf("⚠️  File watcher error: %v", err)
		}
	}
}
