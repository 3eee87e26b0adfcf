package handlers

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"growup-backend/config"
	"growup-backend/pagination"
	"growup-backend/services"
)

// Handler binds HTTP requests to the services.
type Handler struct {
	svc    *services.Services
	cfg    *config.Config
	logger *zap.Logger
}

func New(svc *services.Services, cfg *config.Config, logger *zap.Logger) *Handler {
	return &Handler{svc: svc, cfg: cfg, logger: logger.With(zap.String("component", "http"))}
}

func pageRequest(c *gin.Context, defaultLimit int) pagination.Request {
	return pagination.FromQuery(c.Query("page"), c.Query("limit"), c.Query("exportAll"), defaultLimit)
}
