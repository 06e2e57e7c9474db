package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/MegamindsITServices/Sri-Sai-Ram-Real-Estate/internal/config"
	"github.com/MegamindsITServices/Sri-Sai-Ram-Real-Estate/internal/database"
	"github.com/MegamindsITServices/Sri-Sai-Ram-Real-Estate/internal/handlers"
	"github.com/MegamindsITServices/Sri-Sai-Ram-Real-Estate/internal/logger"
	"github.com/MegamindsITServices/Sri-Sai-Ram-Real-Estate/internal/media"
	"github.com/MegamindsITServices/Sri-Sai-Ram-Real-Estate/internal/middleware"
	"github.com/MegamindsITServices/Sri-Sai-Ram-Real-Estate/internal/services"
	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	swagger "github.com/gofiber/swagger"
	"github.com/redis/go-redis/v9"

	_ "github.com/MegamindsITServices/Sri-Sai-Ram-Real-Estate/docs/api" // Swagger docs
)

// @title Sri Sai Ram Project Catalog API
// @version 1.0.0
// @description Property project catalog with admin managed listings and images
// @termsOfService http://swagger.io/terms/

// @contact.name API Support
// @contact.url https://github.com/MegamindsITServices/Sri-Sai-Ram-Real-Estate

// @license.name AGPL-3.0
// @license.url https://www.gnu.org/licenses/agpl-3.0.html

// @host localhost:3000
// @BasePath /api/v1
// @schemes http https

// @securityDefinitions.apikey CookieAuth
// @in cookie
// @name cookie_session

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		// logger mode is part of the config, fall back to production output
		log, _ := logger.New("production")
		log.Fatal("failed to load configuration", "error", err)
	}

	log, err := logger.New(cfg.LogMode)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	// Writer pool: mutations and migrations
	writerDB, err := database.Connect(cfg, log)
	if err != nil {
		log.Fatal("failed to connect to writer database", "error", err)
	}
	defer database.Close(writerDB)

	// Reader pool: catalog queries
	readerDB, err := database.ConnectReader(cfg, log)
	if err != nil {
		log.Fatal("failed to connect to reader database", "error", err)
	}
	defer database.Close(readerDB)

	if err := database.AutoMigrate(writerDB); err != nil {
		log.Fatal("failed to run migrations", "error", err)
	}

	// Optional page cache
	var cache *services.Cache
	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		defer rdb.Close()
		cache = services.NewCache(rdb, cfg.CacheTTL, log)
	}

	// Media store
	backend, err := media.NewGCSBackend(context.Background(), media.GCSOptions{
		Bucket:        cfg.MediaBucket,
		CDNDomain:     cfg.MediaCDNDomain,
		PublicBaseURL: cfg.MediaPublicBaseURL,
		EmulatorHost:  cfg.StorageEmulatorHost,
	}, log)
	if err != nil {
		log.Fatal("failed to create media backend", "error", err)
	}
	defer backend.Close()

	store := media.NewAdapter(backend, media.Options{
		Folder:   cfg.MediaFolder,
		MaxBytes: cfg.MaxUploadBytes,
		Timeout:  cfg.UploadTimeout,
	}, log)

	catalog := services.NewCatalog(readerDB, cache, log, services.CatalogOptions{QueryTimeout: cfg.DBQueryTimeout})
	mutations := services.NewMutations(writerDB, store, cache, log, services.MutationOptions{
		RequireThumbnail:  cfg.RequireThumbnail,
		MaxGalleryUploads: cfg.MaxGalleryUploads,
	})

	// Authorizer is initialized now if reachable, otherwise on the first authenticated request
	validate := services.LazySessionValidator(cfg, "", log)
	if err := services.InitAuthorizer(cfg, "", log); err != nil {
		log.Warn("authorizer not ready at startup", "error", err)
	}

	// every file part plus the text fields
	bodyLimit := int(cfg.MaxUploadBytes)*(cfg.MaxGalleryUploads+2) + 1024*1024

	app := fiber.New(fiber.Config{
		ErrorHandler: handlers.ErrorHandler,
		BodyLimit:    bodyLimit,
		ReadTimeout:  cfg.UploadTimeout + 30*time.Second,
	})

	// Global middleware
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(fiberlogger.New(fiberlogger.Config{
		Format: "${time} ${locals:requestid} ${status} - ${latency} ${method} ${path}\n",
	}))
	app.Use(compress.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.AllowedOrigins(),
		AllowCredentials: cfg.AllowedOrigins() != "*",
		AllowHeaders:     "Origin, Content-Type, Accept, X-Api-Version",
	}))

	// Prometheus metrics
	prometheus := fiberprometheus.New("catalog")
	prometheus.RegisterAt(app, "/metrics")
	app.Use(prometheus.Middleware)

	// Swagger documentation
	app.Get("/swagger/*", swagger.HandlerDefault)

	health := &handlers.HealthHandler{Health: &services.Health{
		Config: cfg,
		DB:     readerDB,
		Media:  store,
		Cache:  cache,
		Log:    log,
	}}
	app.Get("/healthz", health.Healthz)

	// API routes under /api/v1
	api := app.Group("/api/v1")
	api.Use(middleware.VersionMiddleware())

	projects := &handlers.ProjectHandler{
		Catalog:        catalog,
		Mutations:      mutations,
		MaxUploadBytes: cfg.MaxUploadBytes,
	}
	projects.Register(api, validate)

	// 404 handler
	app.Use(handlers.NotFound)

	// Graceful shutdown
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigs
		log.Info("gracefully shutting down")
		_ = app.ShutdownWithTimeout(cfg.UploadTimeout)
	}()

	log.Info("starting server", "port", cfg.Port, "db_type", cfg.DBType)
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatal("failed to start server", "error", err)
	}

	log.Info("server stopped")
}
