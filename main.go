package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bytedance/sonic"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/etag"
	"github.com/redis/go-redis/v9"

	"newsroom_backend/internals/configs"
	database "newsroom_backend/internals/databases"
	langService "newsroom_backend/internals/features/cms/languages/service"
	"newsroom_backend/internals/features/news"
	"newsroom_backend/internals/helpers/cache"
	"newsroom_backend/internals/helpers/images"
	middlewares "newsroom_backend/internals/middlewares"
	"newsroom_backend/internals/middlewares/logger"
	routes "newsroom_backend/internals/route"
	"newsroom_backend/internals/seeds"
)

func main() {
	configs.LoadEnv()

	app := fiber.New(fiber.Config{
		JSONEncoder:             sonic.Marshal,
		JSONDecoder:             sonic.Unmarshal,
		DisableStartupMessage:   true,
		BodyLimit:               images.MaxUploadSize + 1<<20,
		ErrorHandler:            middlewares.ErrorHandler,
		ProxyHeader:             fiber.HeaderXForwardedFor,
		EnableTrustedProxyCheck: true,
		TrustedProxies:          []string{"0.0.0.0/0"},
	})

	app.Use(middlewares.RecoveryMiddleware())
	app.Use(middlewares.RequestContext(5 * time.Second))
	app.Use(logger.LoggerMiddleware())
	app.Use(middlewares.CorsMiddleware())
	app.Use(compress.New(compress.Config{Level: compress.LevelDefault}))
	app.Use(etag.New())
	app.Use(middlewares.GlobalRateLimiter())

	// DB connect + pool + schema
	database.ConnectDB()
	database.TunePool()
	if err := database.AutoMigrate(database.DB); err != nil {
		log.Fatalf("[DB] migrate failed: %v", err)
	}
	seeds.RunAllSeeds(database.DB)
	database.WarmUpQueries()

	bootCtx, bootCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer bootCancel()

	languages := langService.NewService(database.DB)
	if err := languages.Refresh(bootCtx); err != nil {
		log.Fatalf("[INFO] load languages failed: %v", err)
	}

	store, rootURL := imageStore()
	if _, ok := store.(*images.LocalStore); ok {
		app.Static(rootURL, configs.UploadRootDir, fiber.Static{Compress: true, MaxAge: 86400})
	}

	var rdb *redis.Client
	if configs.RedisAddr != "" {
		client, err := cache.NewRedisClient(bootCtx, configs.RedisAddr, configs.RedisPassword)
		if err != nil {
			log.Printf("[CACHE] %v, feed cache disabled", err)
		} else {
			rdb = client
		}
	}
	ttl := time.Duration(configs.GetEnvInt("CACHE_TTL_SECONDS", 300)) * time.Second
	feeds := cache.NewFeedCache(rdb, ttl, configs.GetEnv("CACHE_PREFIX", "newsroom"))

	m := news.NewModule(news.Deps{
		DB:        database.DB,
		Languages: languages,
		Store:     store,
		RootURL:   rootURL,
		Cache:     feeds,
	})
	routes.SetupRoutes(app, m, configs.JWTSecret)

	m.Reaper.DryRun = configs.GetEnv("ORPHAN_REAPER_DRY_RUN") == "true"
	reaper, err := m.Reaper.Start(configs.GetEnv("ORPHAN_REAPER_SCHEDULE"))
	if err != nil {
		log.Fatalf("[REAPER] schedule failed: %v", err)
	}

	app.Server().ReadTimeout = 15 * time.Second
	app.Server().WriteTimeout = 30 * time.Second
	app.Server().IdleTimeout = 90 * time.Second

	port := configs.GetEnv("PORT", "3000")
	go func() {
		log.Printf("[INFO] listening on :%s", port)
		if err := app.Listen("0.0.0.0:" + port); err != nil {
			log.Fatalf("server error: %v", err)
		}
	}()

	// graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = app.ShutdownWithContext(ctx)

	if reaper != nil {
		<-reaper.Stop().Done()
	}
	if rdb != nil {
		_ = rdb.Close()
	}
	if sqlDB, err := database.DB.DB(); err == nil {
		_ = sqlDB.Close()
	}
}

// imageStore picks the upload backend from IMAGE_STORAGE. The returned root
// URL is the public prefix every image URL is built on.
func imageStore() (images.Store, string) {
	if configs.ImageStorage == "oss" {
		store, err := images.NewOSSStoreFromEnv(configs.GetEnv("ALI_OSS_PREFIX"))
		if err != nil {
			log.Fatalf("[INFO] oss store: %v", err)
		}
		if configs.UploadRootURL == "" {
			log.Fatal("[INFO] UPLOAD_ROOT_URL is required with IMAGE_STORAGE=oss")
		}
		return store, configs.UploadRootURL
	}
	rootURL := configs.UploadRootURL
	if rootURL == "" {
		rootURL = "/static"
	}
	return images.NewLocalStore(configs.UploadRootDir), rootURL
}
