package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/vipoffers/consent-api/internal/config"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// HealthResponse reports the service and dependency status
type HealthResponse struct {
	Status  string `json:"status"`
	MongoDB string `json:"mongodb"`
	Redis   string `json:"redis"`
}

// HealthCheck handles GET /health
func HealthCheck(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	health := HealthResponse{Status: "healthy", MongoDB: "ok", Redis: "ok"}

	if config.MongoDB == nil {
		health.Status = "unhealthy"
		health.MongoDB = "not initialized"
	} else if err := config.MongoDB.Client().Ping(ctx, readpref.Primary()); err != nil {
		health.Status = "unhealthy"
		health.MongoDB = err.Error()
	}

	if config.Redis == nil {
		health.Status = "unhealthy"
		health.Redis = "not initialized"
	} else if err := config.Redis.Ping(ctx).Err(); err != nil {
		health.Status = "unhealthy"
		health.Redis = err.Error()
	}

	if health.Status != "healthy" {
		c.JSON(http.StatusServiceUnavailable, health)
		return
	}
	c.JSON(http.StatusOK, health)
}
