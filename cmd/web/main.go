package main

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/template/html/v2"
	"go.uber.org/zap"

	"taskboard/configs"
	"taskboard/internal/apiclient"
	"taskboard/internal/middleware"
	"taskboard/internal/session"
	"taskboard/internal/web"
	"taskboard/internal/web/handlers"
	"taskboard/pkg/crypto"
	"taskboard/pkg/logger"
)

func main() {
	// Initialize loggers
	logger.InitLoggers()
	defer logger.SyncLoggers()
	logger.SystemLogger.Info("Starting application", zap.String("time", time.Now().Format(time.RFC3339)))

	// Load config
	cfg := configs.LoadConfig()

	// Session store: sealed cookie by default, Redis when configured
	var store session.Store
	switch cfg.SessionBackend {
	case "redis":
		rdb := session.ConnectRedis(cfg)
		defer rdb.Close()
		store = session.NewRedisStore(rdb)
		logger.SystemLogger.Info("Session backend: redis")
	default:
		sealer, err := crypto.NewSealer(cfg.SessionSecret)
		if err != nil {
			logger.ErrorLogger.Fatal("Cannot build cookie sealer", zap.Error(err))
		}
		store = session.NewCookieStore(sealer)
		logger.SystemLogger.Info("Session backend: cookie")
	}

	// Remote task API client
	api := apiclient.New(cfg.APIBaseURL, cfg.HTTPTimeout)
	logger.SystemLogger.Info("Task API configured", zap.String("base_url", cfg.APIBaseURL))

	engine := html.New("./views", ".html")
	app := fiber.New(fiber.Config{
		Views: engine,
	})

	// Middleware
	app.Use(middleware.ErrorHandler())
	app.Use(limiter.New(limiter.Config{
		Max:        100,
		Expiration: 1 * time.Minute,
	}))

	// Register routes
	h := handlers.New(api, store)
	web.RegisterRoutes(app, h, store)

	logger.SystemLogger.Info("Application ready", zap.String("listen_addr", cfg.ListenAddr))
	if err := app.Listen(cfg.ListenAddr); err != nil {
		logger.ErrorLogger.Error("Application failed to start", zap.Error(err))
	}
}
