package http

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/pprof"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/viper"
	"github.com/tass-io/predictor/pkg/env"
	"github.com/tass-io/predictor/pkg/http/controller"
)

// maxBodyBytes bounds a predict request body
const maxBodyBytes = 1 << 20

// NewEngine returns a gin engine with middleware and routes registered.
func NewEngine() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), RequestID(), AccessLog(), Instrument(), LimitBody(maxBodyBytes))
	RegisterRoute(r)
	return r
}

// RegisterRoute registers http routes
func RegisterRoute(r *gin.Engine) {
	r.Use(cors.New(cors.Config{
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", RequestIDHeader},
		AllowCredentials: true,
		AllowOriginFunc: func(origin string) bool {
			return true
		},
		MaxAge: 12 * time.Hour,
	}))
	r.GET("/", controller.Info)
	r.GET("/health", controller.Health)
	r.GET("/metrics", controller.Metrics)
	r.GET("/schema", controller.Schema)
	r.POST("/predict", controller.Predict)

	// /metrics is the model metrics contract, so prometheus lives elsewhere
	r.GET("/internal/metrics", prometheusHandler())
	if viper.GetBool(env.Pprof) {
		pprof.Register(r, "/internal/debug/pprof")
	}
}

func prometheusHandler() gin.HandlerFunc {
	h := promhttp.Handler()

	return func(c *gin.Context) {
		h.ServeHTTP(c.Writer, c.Request)
	}
}
