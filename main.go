package main

import (
	"context"
	"embed"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"datadash/internal"
	"datadash/internal/config"
	"datadash/internal/container"
	"datadash/ui"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

//go:embed ui/templates/*.html ui/static
var embeddedFiles embed.FS

func main() {
	// .env is optional; real environment variables win
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	internal.SetDefaultLogger(internal.NewLoggerTo(os.Stdout, internal.ParseLogLevel(cfg.Log.Level), cfg.Log.Format))
	logger := internal.DefaultLogger
	gin.SetMode(cfg.Server.GinMode)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	c, err := container.New(cfg)
	if err != nil {
		log.Fatalf("Failed to build application container: %v", err)
	}
	if err := c.InitWithDatabase(ctx); err != nil {
		log.Fatalf("Failed to initialize question log database: %v", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := c.Shutdown(shutdownCtx); err != nil {
			logger.Warn("[Main] Shutdown: %v", err)
		}
	}()

	if !cfg.AI.Enabled() {
		logger.Warn("[Main] OPENAI_API_KEY not set, question answering is disabled")
	}
	if !cfg.Database.Enabled() {
		logger.Info("[Main] DATABASE_URL not set, questions are not logged")
	}

	server, err := ui.NewServer(c.Dashboard, embeddedFiles, ui.Options{
		MaxUploadBytes: cfg.Upload.MaxBytes(),
		CookieName:     cfg.Session.CookieName,
	})
	if err != nil {
		log.Fatalf("Failed to create web server: %v", err)
	}

	addr := ":" + cfg.Server.Port
	logger.Info("[Main] Dashboard listening on http://localhost%s", addr)
	if err := server.Start(ctx, addr); err != nil {
		logger.Error("[Main] Server stopped: %v", err)
		os.Exit(1)
	}
	logger.Info("[Main] Server stopped")
}
