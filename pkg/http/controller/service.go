package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/tass-io/predictor/pkg/dto"
	"github.com/tass-io/predictor/pkg/env"
	"github.com/tass-io/predictor/pkg/state"
	"github.com/tass-io/predictor/pkg/tools/errorutils"
)

const (
	statusHealthy   = "healthy"
	statusUnhealthy = "unhealthy"
)

var endpoints = map[string]string{
	"health":  "/health",
	"predict": "/predict",
	"metrics": "/metrics",
	"schema":  "/schema",
}

// Info returns static service metadata and does not depend on the model.
func Info(c *gin.Context) {
	s := state.Get()
	c.JSON(http.StatusOK, dto.InfoResponse{
		Status:    "running",
		Service:   env.ServiceName,
		Version:   env.Version,
		Schema:    s.Schema().Name,
		Owner:     s.Owner(),
		Endpoints: endpoints,
	})
}

// Health is healthy iff the model artifact was loaded.
func Health(c *gin.Context) {
	s := state.Get()
	status := statusUnhealthy
	if s.ModelLoaded() {
		status = statusHealthy
	}
	c.JSON(http.StatusOK, dto.HealthResponse{
		Status:           status,
		ModelLoaded:      s.ModelLoaded(),
		MetricsAvailable: s.MetricsAvailable(),
	})
}

// Metrics returns the metrics record exactly as loaded, or 404 when it is empty.
func Metrics(c *gin.Context) {
	s := state.Get()
	if !s.MetricsAvailable() {
		err := &errorutils.NotFoundError{What: "Metrics"}
		c.JSON(http.StatusNotFound, dto.ErrorResponse{Detail: err.Error()})
		return
	}
	c.JSON(http.StatusOK, dto.MetricsResponse{
		Owner:        s.Owner(),
		ModelMetrics: s.Metrics(),
	})
}

// Schema describes the feature fields predict expects, in model column order.
func Schema(c *gin.Context) {
	sc := state.Get().Schema()
	c.JSON(http.StatusOK, dto.SchemaResponse{
		Name:    sc.Name,
		Fields:  sc.Fields,
		Example: sc.Example(),
	})
}
