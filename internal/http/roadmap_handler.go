package http

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"goal-roadmap/internal/domain"
	"goal-roadmap/internal/service"
)

const defaultListLimit = 20

// RoadmapGenerator es lo que el handler necesita del servicio de roadmaps.
type RoadmapGenerator interface {
	Generate(ctx context.Context, goal, userID string) (domain.Roadmap, error)
	Get(ctx context.Context, id string) (domain.Roadmap, error)
	ListByUser(ctx context.Context, userID string, limit int) ([]domain.Roadmap, error)
}

// RoadmapHandler expone la generación y consulta de roadmaps.
type RoadmapHandler struct {
	logger   *zap.Logger
	roadmaps RoadmapGenerator
}

func NewRoadmapHandler(logger *zap.Logger, roadmaps RoadmapGenerator) *RoadmapHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RoadmapHandler{logger: logger, roadmaps: roadmaps}
}

// GenerateRoadmap maneja POST /generate-roadmap.
func (h *RoadmapHandler) GenerateRoadmap(c *gin.Context) {
	var req domain.GoalRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			h.logger.Warn("invalid generate roadmap request", zap.Error(err))
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
			return
		}
	}
	if strings.TrimSpace(req.Goal) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": service.ErrMissingGoal.Error()})
		return
	}

	roadmap, err := h.roadmaps.Generate(c.Request.Context(), req.Goal, req.UserID)
	if err != nil {
		if errors.Is(err, service.ErrMissingGoal) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		h.logger.Error("generate roadmap failed", zap.String("goal", req.Goal), zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": "could not generate roadmap"})
		return
	}

	c.JSON(http.StatusOK, roadmap)
}

// GetRoadmap maneja GET /roadmaps/:id. Un id que no es UUID no puede existir.
func (h *RoadmapHandler) GetRoadmap(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "roadmap not found"})
		return
	}

	roadmap, err := h.roadmaps.Get(c.Request.Context(), id.String())
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			c.JSON(http.StatusNotFound, gin.H{"error": "roadmap not found"})
			return
		}
		h.logger.Error("get roadmap failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not fetch roadmap"})
		return
	}

	c.JSON(http.StatusOK, roadmap)
}

// ListRoadmaps maneja GET /roadmaps?user_id=&limit=.
func (h *RoadmapHandler) ListRoadmaps(c *gin.Context) {
	userID := c.Query("user_id")
	if userID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "user_id is required"})
		return
	}

	limit := defaultListLimit
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid limit"})
			return
		}
		limit = n
	}

	roadmaps, err := h.roadmaps.ListByUser(c.Request.Context(), userID, limit)
	if err != nil {
		h.logger.Error("list roadmaps failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not list roadmaps"})
		return
	}
	if roadmaps == nil {
		roadmaps = []domain.Roadmap{}
	}

	c.JSON(http.StatusOK, gin.H{"roadmaps": roadmaps})
}

// Health maneja GET /.
func (h *RoadmapHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
