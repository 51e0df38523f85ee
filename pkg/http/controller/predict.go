package controller

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/tass-io/predictor/pkg/dto"
	"github.com/tass-io/predictor/pkg/predict"
	"github.com/tass-io/predictor/pkg/prom"
	"github.com/tass-io/predictor/pkg/schema"
	"github.com/tass-io/predictor/pkg/state"
	"github.com/tass-io/predictor/pkg/tools/errorutils"
	"github.com/tass-io/predictor/pkg/trace"
	"go.uber.org/zap"
)

// runPrediction is swapped in tests to observe engine calls
var runPrediction = predict.Predict

// Predict validates the body against the active schema and runs the model.
// The availability check comes first, so an unloaded model answers 503 even for
// invalid input.
func Predict(c *gin.Context) {
	s := state.Get()

	// 1. the model must have been loaded at startup
	if !s.ModelLoaded() {
		prom.Predictions.WithLabelValues(prom.OutcomeUnavailable).Inc()
		err := &errorutils.ModelUnavailableError{Path: s.ModelPath()}
		c.JSON(http.StatusServiceUnavailable, dto.ErrorResponse{Detail: err.Error()})
		return
	}

	sp := trace.StartSpanFromHeaders("predict", c.Request.Header)
	defer sp.Finish()
	sp.SetTag("schema", s.Schema().Name)

	// 2. validate against the fixed field list
	body, err := c.GetRawData()
	if err != nil {
		prom.Predictions.WithLabelValues(prom.OutcomeRejected).Inc()
		status := http.StatusBadRequest
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			status = http.StatusRequestEntityTooLarge
		}
		c.JSON(status, dto.ErrorResponse{Detail: err.Error()})
		return
	}
	vector, err := s.Schema().Validate(body)
	if err != nil {
		prom.Predictions.WithLabelValues(prom.OutcomeRejected).Inc()
		sp.SetTag("outcome", prom.OutcomeRejected)
		var verr *schema.ValidationError
		if errors.As(err, &verr) {
			c.JSON(http.StatusUnprocessableEntity, dto.ErrorResponse{Detail: verr.Fields})
			return
		}
		c.JSON(http.StatusUnprocessableEntity, dto.ErrorResponse{Detail: err.Error()})
		return
	}

	// 3. run the model
	start := time.Now()
	result, err := runPrediction(s.Model(), vector)
	prom.InferenceSeconds.Observe(time.Since(start).Seconds())
	if err != nil {
		prom.Predictions.WithLabelValues(prom.OutcomeFailed).Inc()
		sp.SetTag("error", true)
		zap.S().Errorw("prediction failed", "id", c.GetString("requestID"), "err", err)
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Detail: err.Error()})
		return
	}
	prom.Predictions.WithLabelValues(prom.OutcomeSucceeded).Inc()
	prom.PredictedLabels.WithLabelValues(strconv.Itoa(result.Label)).Inc()
	sp.SetTag("outcome", prom.OutcomeSucceeded)

	// 4. classification and regression models answer with different contracts
	if result.Classification() {
		c.JSON(http.StatusOK, dto.ClassificationResponse{
			QualityClass: result.Label,
			Confidence:   *result.Confidence,
			Owner:        s.Owner(),
			ModelMetrics: s.Metrics(),
		})
		return
	}
	c.JSON(http.StatusOK, dto.RegressionResponse{
		Quality:      result.Label,
		Owner:        s.Owner(),
		ModelMetrics: s.Metrics(),
	})
}
