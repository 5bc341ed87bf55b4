package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/baines-ai/voice-service/internal/api/handlers"
	"github.com/baines-ai/voice-service/internal/call"
	"github.com/baines-ai/voice-service/internal/persona"
	"github.com/baines-ai/voice-service/internal/pipeline"
	"github.com/baines-ai/voice-service/internal/session"
	"github.com/baines-ai/voice-service/pkg/env"
	"github.com/baines-ai/voice-service/pkg/logger"
	"github.com/baines-ai/voice-service/pkg/middleware"
	"github.com/baines-ai/voice-service/pkg/otel"
)

// Server wires the voice service: HTTP surface, persona store, call
// initiation and the media stream pipeline.
type Server struct {
	cfg         *env.Config
	redisClient *redis.Client
	handler     *handlers.Handler
}

func main() {
	cfg, err := env.Load(".env")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if err := logger.Init(cfg.LogLevel, cfg.AppEnv); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	if cfg.OTELEnabled {
		shutdown, err := otel.InitTracing("voice-service", "1.0.0", cfg.OTELEndpoint)
		if err != nil {
			logger.Log.Warn("Failed to initialize OpenTelemetry", zap.Error(err))
		} else {
			defer shutdown()
			logger.Log.Info("OpenTelemetry tracing enabled", zap.String("endpoint", cfg.OTELEndpoint))
		}
	}

	logger.Log.Info("Starting voice service",
		zap.String("env", cfg.AppEnv),
		zap.String("port", cfg.AppPort),
	)

	// Redis is optional: without it the /call endpoint runs unthrottled
	redisClient, err := middleware.NewRedisClient(cfg.RedisURL)
	if err != nil {
		logger.Log.Fatal("Failed to connect to Redis", zap.Error(err))
	}
	if redisClient == nil {
		logger.Log.Info("Redis not configured, rate limiting disabled")
	}

	store := persona.NewStore(cfg.PersonaFile)
	if _, err := store.Load(); err != nil {
		logger.Log.Fatal("Failed to load persona document", zap.Error(err))
	}

	callService := call.NewService(cfg, store)
	runner := pipeline.NewGeminiRunner(cfg)
	launcher := session.NewLauncher(cfg, store, runner)

	handler := handlers.NewHandler(cfg, store, callService, launcher, redisClient)

	server := &Server{
		cfg:         cfg,
		redisClient: redisClient,
		handler:     handler,
	}

	router := server.setupRouter()

	srv := &http.Server{
		Addr:        ":" + cfg.AppPort,
		Handler:     router,
		ReadTimeout: 15 * time.Second,
		// No WriteTimeout: /ws connections live as long as the call
		IdleTimeout: 60 * time.Second,
	}

	go func() {
		logger.Log.Info("Voice service listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Fatal("Server failed to start", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	logger.Log.Info("Server exited")
}

func (s *Server) setupRouter() *gin.Engine {
	if s.cfg.AppEnv == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.TraceMiddleware())
	router.Use(middleware.SecurityHeaders())
	router.Use(middleware.RequestSizeLimit(1 << 20)) // 1 MB limit
	router.Use(middleware.MetricsMiddleware())

	if s.cfg.OTELEnabled {
		router.Use(otel.GinMiddleware())
	}

	router.Use(gin.LoggerWithFormatter(func(param gin.LogFormatterParams) string {
		return fmt.Sprintf("[%s] %s %s %d %s\n",
			param.TimeStamp.Format(time.RFC3339),
			param.Method,
			param.Path,
			param.StatusCode,
			param.Latency,
		)
	}))

	corsConfig := cors.DefaultConfig()
	if s.cfg.CORSAllowedOrigins == "*" {
		corsConfig.AllowAllOrigins = true
	} else {
		corsConfig.AllowOrigins = []string{s.cfg.CORSAllowedOrigins}
	}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type"}
	router.Use(cors.New(corsConfig))

	router.GET("/", s.handler.Index)
	router.GET("/health", s.handler.HealthCheck)
	router.GET("/metrics", s.handler.GetMetrics)
	router.GET("/metrics/prometheus", s.handler.GetPrometheusMetrics)

	router.GET("/api/personas", s.handler.ListPersonas)

	if s.redisClient != nil {
		rateLimiter := middleware.NewRateLimiter(s.redisClient, s.cfg.APIRateLimitRPM)
		router.POST("/call", rateLimiter.Middleware(), s.handler.InitiateCall)
	} else {
		router.POST("/call", s.handler.InitiateCall)
	}

	// Provider-facing surface: webhook and media stream
	router.POST("/twiml", s.handler.ServeTwiML)
	router.GET("/ws", s.handler.MediaStream)

	return router
}
