package handlers

import (
	"CareClinic/database"
	"CareClinic/middlewares"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"gorm.io/gorm"
)

type HealthHandler struct {
	db    *gorm.DB
	redis *redis.Client
}

func NewHealthHandler(db *gorm.DB, client *redis.Client) *HealthHandler {
	return &HealthHandler{db: db, redis: client}
}

func (h *HealthHandler) Live(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Details reports connection pool usage for operators.
func (h *HealthHandler) Details(c *gin.Context) {
	dbStats, err := database.Stats(h.db)
	if err != nil {
		middlewares.HttpError(c, "Failed to read database stats", http.StatusInternalServerError, err)
		return
	}
	status := "ok"
	if err := h.redis.Ping(c.Request.Context()).Err(); err != nil {
		status = "degraded"
	}
	middlewares.RespondJSON(c, gin.H{
		"status":   status,
		"database": dbStats,
		"redis":    database.RedisPoolStats(h.redis),
	}, http.StatusOK)
}
