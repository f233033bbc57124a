package main

import (
	"context"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/kyiku/textpin-back/internal/config"
	"github.com/kyiku/textpin-back/internal/editor"
	"github.com/kyiku/textpin-back/internal/handler"
	ratelimit "github.com/kyiku/textpin-back/internal/middleware"
	"github.com/kyiku/textpin-back/internal/session"
	"github.com/kyiku/textpin-back/internal/storage"
	"github.com/kyiku/textpin-back/internal/submit"
	"github.com/kyiku/textpin-back/internal/typeset"
)

// S3Adapter adapts AWS S3 client to our interface
type S3Adapter struct {
	client *s3.Client
	bucket string
}

func (a *S3Adapter) GetObject(key string) ([]byte, error) {
	output, err := a.client.GetObject(context.TODO(), &s3.GetObjectInput{
		Bucket: &a.bucket,
		Key:    &key,
	})
	if err != nil {
		return nil, err
	}
	defer output.Body.Close()
	return io.ReadAll(output.Body)
}

func (a *S3Adapter) ListObjects(prefix string) ([]string, error) {
	paginator := s3.NewListObjectsV2Paginator(a.client, &s3.ListObjectsV2Input{
		Bucket: &a.bucket,
		Prefix: &prefix,
	})

	var keys []string
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(context.TODO())
		if err != nil {
			return nil, err
		}
		for _, obj := range page.Contents {
			keys = append(keys, *obj.Key)
		}
	}
	return keys, nil
}

// newEditor gives every session its own typesetter; font faces are not shared across goroutines.
func newEditor() *editor.Editor {
	ts, err := typeset.New()
	if err != nil {
		log.Fatalf("failed to load font: %v", err)
	}
	return editor.New(ts)
}

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid config: %v", err)
	}

	e := echo.New()

	// Middleware
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogStatus: true,
		LogURI:    true,
		LogMethod: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			e.Logger.Infof("%s %s %d", v.Method, v.URI, v.Status)
			return nil
		},
	}))
	e.Use(middleware.Recover())
	// CORS configuration - AllowOrigins cannot be "*" when AllowCredentials is true
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     []string{cfg.AllowedOrigin},
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders:     []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
	}))
	if cfg.MaxUploadBytes > 0 {
		// Leave room for the multipart envelope.
		e.Use(middleware.BodyLimit(formatBytes(cfg.MaxUploadBytes + 1<<20)))
	}

	// Initialize dependencies
	newEditor() // fail fast if the embedded font cannot be parsed
	sessionStore := session.NewSessionStoreWithExpiry(newEditor, cfg.SessionExpiry)

	// Image catalog (optional)
	var catalog *storage.S3Client
	if cfg.S3Bucket != "" {
		awsCfg, err := awsconfig.LoadDefaultConfig(context.TODO(), awsconfig.WithRegion(cfg.AWSRegion))
		if err != nil {
			log.Printf("Warning: Failed to load AWS config: %v (image catalog disabled)", err)
		} else {
			s3Adapter := &S3Adapter{
				client: s3.NewFromConfig(awsCfg),
				bucket: cfg.S3Bucket,
			}
			catalog = storage.NewS3Client(s3Adapter, cfg.S3Bucket, cfg.CloudfrontDomain)
		}
	}

	submitClient := submit.NewClient(cfg.SubmitEndpoint, cfg.SubmitTimeout)

	// Initialize handlers
	healthHandler := handler.NewHealthHandler()
	healthHandler.SetSessions(sessionStore)
	healthHandler.SetCatalogEnabled(catalog != nil)

	sessionHandler := handler.NewSessionHandler(sessionStore)
	sessionHandler.SetSecureCookie(os.Getenv("COOKIE_SECURE") == "true")

	templateHandler := handler.NewTemplateHandler(sessionStore)
	templateHandler.SetMaxUploadBytes(cfg.MaxUploadBytes)

	submitHandler := handler.NewSubmitHandler(sessionStore, submitClient)
	submitHandler.SetTimeout(cfg.SubmitTimeout)

	wsHandler := handler.NewWebSocketHandler(sessionStore, cfg.AllowedOrigin)

	// Health check (root level for ALB)
	e.GET("/health", healthHandler.Check)

	// WebSocket endpoint
	e.GET("/ws", wsHandler.Connect)

	// API routes
	api := e.Group("/api")
	api.GET("/health", healthHandler.Check)
	api.POST("/session", sessionHandler.Create)

	tpl := api.Group("/template")
	tpl.GET("", templateHandler.Get)
	tpl.POST("/image", templateHandler.UploadImage)
	tpl.PUT("/container", templateHandler.SetContainer)
	tpl.PUT("/text", templateHandler.UpdateText)
	tpl.POST("/pointer", templateHandler.Pointer)
	tpl.GET("/overlay", templateHandler.Overlay)
	tpl.GET("/render.png", templateHandler.Render)
	tpl.GET("/preview.png", templateHandler.Preview)
	tpl.POST("/confirm", templateHandler.OpenConfirmation)
	tpl.DELETE("/confirm", templateHandler.CloseConfirmation)

	if cfg.SubmitRateLimit > 0 {
		submitLimiter := ratelimit.NewRateLimiter(cfg.SubmitRateLimit, time.Minute)
		defer submitLimiter.Stop()
		tpl.POST("/submit", submitHandler.Submit,
			ratelimit.RateLimitMiddlewareWithLimiter(submitLimiter, ratelimit.SessionOrIP))
	} else {
		tpl.POST("/submit", submitHandler.Submit)
	}

	// Image catalog endpoints
	if catalog != nil {
		catalogHandler := handler.NewCatalogHandler(sessionStore, catalog)
		api.GET("/images", catalogHandler.List)
		tpl.POST("/image/catalog", catalogHandler.Load)
	} else {
		api.GET("/images", unavailableHandler("S3"))
		tpl.POST("/image/catalog", unavailableHandler("S3"))
	}

	// Drop idle sessions
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if cfg.SessionExpiry > 0 {
		go cleanupSessions(ctx, sessionStore, cfg.SessionExpiry)
	}

	// Log registered endpoints
	log.Println("Registered endpoints:")
	for _, r := range e.Routes() {
		log.Printf("  %-6s %s", r.Method, r.Path)
	}
	log.Printf("Submitting templates to %s", submitClient.Endpoint())

	// Start server
	go func() {
		log.Printf("Starting server on :%s", cfg.Port)
		if err := e.Start(":" + cfg.Port); err != nil && err != http.ErrServerClosed {
			e.Logger.Fatal(err)
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		e.Logger.Fatal(err)
	}
}

// cleanupSessions periodically removes expired sessions until ctx is done.
func cleanupSessions(ctx context.Context, store *session.SessionStore, expiry time.Duration) {
	interval := expiry / 2
	if interval < time.Minute {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := store.Cleanup(); n > 0 {
				log.Printf("Removed %d expired sessions", n)
			}
		}
	}
}

// formatBytes renders n for echo's BodyLimit ("1024K").
func formatBytes(n int64) string {
	return strconv.FormatInt((n+1023)/1024, 10) + "K"
}

// unavailableHandler returns a handler that responds with service unavailable
func unavailableHandler(service string) echo.HandlerFunc {
	return func(c echo.Context) error {
		return c.JSON(http.StatusServiceUnavailable, map[string]interface{}{
			"error":   true,
			"message": service + " is not configured",
		})
	}
}
