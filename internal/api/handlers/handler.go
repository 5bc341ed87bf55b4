package handlers

import (
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/baines-ai/voice-service/internal/call"
	"github.com/baines-ai/voice-service/internal/persona"
	"github.com/baines-ai/voice-service/internal/session"
	"github.com/baines-ai/voice-service/pkg/env"
	"github.com/baines-ai/voice-service/pkg/logger"
)

type Handler struct {
	cfg         *env.Config
	store       *persona.Store
	calls       *call.Service
	launcher    *session.Launcher
	redisClient *redis.Client
	logger      *zap.Logger

	// IndexFile is the HTML document served at /.
	IndexFile string
}

func NewHandler(
	cfg *env.Config,
	store *persona.Store,
	calls *call.Service,
	launcher *session.Launcher,
	redisClient *redis.Client,
) *Handler {
	return &Handler{
		cfg:         cfg,
		store:       store,
		calls:       calls,
		launcher:    launcher,
		redisClient: redisClient,
		logger:      logger.Log,
		IndexFile:   "web/index.html",
	}
}
