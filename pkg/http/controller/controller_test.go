package controller

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	. "github.com/smartystreets/goconvey/convey"
	"github.com/tass-io/predictor/pkg/dto"
	"github.com/tass-io/predictor/pkg/model"
	"github.com/tass-io/predictor/pkg/predict"
	"github.com/tass-io/predictor/pkg/schema"
	"github.com/tass-io/predictor/pkg/state"
	"gonum.org/v1/gonum/mat"
)

const testdata = "../../model/testdata/"

var wineRequest = map[string]interface{}{
	"alcohol": 13.2, "malic_acid": 2.77, "ash": 2.51, "alcalinity_of_ash": 18.5, "magnesium": 96.0,
	"total_phenols": 2.45, "flavanoids": 2.53, "nonflavanoid_phenols": 0.29, "proanthocyanins": 1.54,
	"color_intensity": 4.6, "hue": 1.04, "od280_od315": 2.77, "proline": 562.0,
}

type panickingModel struct {
	model.Header
}

func (p *panickingModel) Predict(x mat.Matrix) ([]float64, error) {
	panic("corrupt tree")
}

func router() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/", Info)
	r.GET("/health", Health)
	r.GET("/metrics", Metrics)
	r.GET("/schema", Schema)
	r.POST("/predict", Predict)
	return r
}

func initState(t *testing.T, modelFile, metricsFile, schemaName string) {
	missing := filepath.Join(t.TempDir(), "absent")
	cfg := state.Config{
		ModelPath:   missing,
		MetricsPath: missing,
		Schema:      schemaName,
		Owner:       dto.Owner{Name: "Your Name", ID: "2022BCD0026", Lab: "Lab 6 - Jenkins CI/CD Pipeline"},
	}
	if modelFile != "" {
		cfg.ModelPath = testdata + modelFile
	}
	if metricsFile != "" {
		cfg.MetricsPath = testdata + metricsFile
	}
	if _, err := state.Init(cfg); err != nil {
		t.Fatalf("init state: %v", err)
	}
}

// countCalls wraps the engine and reports how often it ran
func countCalls() *int {
	calls := 0
	runPrediction = func(a model.Artifact, v schema.Vector) (predict.Result, error) {
		calls++
		return predict.Predict(a, v)
	}
	return &calls
}

func do(r *gin.Engine, method, path string, body interface{}) (*httptest.ResponseRecorder, map[string]interface{}) {
	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case []byte:
		reader = bytes.NewReader(b)
	default:
		raw, _ := json.Marshal(b)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	payload := map[string]interface{}{}
	_ = json.Unmarshal(w.Body.Bytes(), &payload)
	return w, payload
}

func without(field string) map[string]interface{} {
	body := map[string]interface{}{}
	for k, v := range wineRequest {
		if k != field {
			body[k] = v
		}
	}
	return body
}

func TestPredictLoadedClassifier(t *testing.T) {
	defer func() { runPrediction = predict.Predict }()

	Convey("predict with the wine forest loaded", t, func() {
		initState(t, "wine_forest.json", "metrics.json", "wine")
		calls := countCalls()
		r := router()

		Convey("valid wine sample", func() {
			w, payload := do(r, http.MethodPost, "/predict", wineRequest)
			So(w.Code, ShouldEqual, http.StatusOK)
			So(payload["quality_class"], ShouldEqual, 1.0)
			So(payload["confidence"], ShouldAlmostEqual, 0.4875)
			So(payload["confidence"], ShouldBeBetweenOrEqual, 0, 1)
			So(payload["owner"].(map[string]interface{})["id"], ShouldEqual, "2022BCD0026")
			So(payload["model_metrics"], ShouldResemble, map[string]interface{}{
				"accuracy": 0.9722, "f1_score": 0.9721, "mse": 0.0278,
			})
			So(*calls, ShouldEqual, 1)

			Convey("identical request, identical response", func() {
				again, _ := do(r, http.MethodPost, "/predict", wineRequest)
				So(again.Body.String(), ShouldEqual, w.Body.String())
			})
		})

		Convey("validation failures never reach the engine", func() {
			testcases := []struct {
				caseName string
				body     interface{}
				fields   []string
			}{
				{caseName: "missing alcohol", body: without("alcohol"), fields: []string{"alcohol"}},
				{caseName: "non numeric hue", body: map[string]interface{}{"hue": "pale"}, fields: schema.Wine.FieldNames()},
				{caseName: "empty object", body: []byte(`{}`), fields: schema.Wine.FieldNames()},
				{caseName: "not json", body: []byte(`alcohol=13.2`), fields: []string{"body"}},
			}
			for _, testcase := range testcases {
				Convey(testcase.caseName, func() {
					w, payload := do(r, http.MethodPost, "/predict", testcase.body)
					So(w.Code, ShouldEqual, http.StatusUnprocessableEntity)
					detail := payload["detail"].([]interface{})
					names := make([]string, 0, len(detail))
					for _, d := range detail {
						names = append(names, d.(map[string]interface{})["field"].(string))
					}
					So(names, ShouldResemble, testcase.fields)
					So(*calls, ShouldEqual, 0)
				})
			}
		})

		Convey("extra fields are ignored", func() {
			body := without("")
			body["vintage"] = 2015
			w, _ := do(r, http.MethodPost, "/predict", body)
			So(w.Code, ShouldEqual, http.StatusOK)
		})
	})
}

func TestPredictRegression(t *testing.T) {
	Convey("regression model answers with an integer quality and no confidence", t, func() {
		initState(t, "winequality_linear.yaml", "", "winequality")
		body := map[string]interface{}{}
		for k, v := range schema.WineQuality.Example() {
			body[k] = v
		}
		w, payload := do(router(), http.MethodPost, "/predict", body)
		So(w.Code, ShouldEqual, http.StatusOK)
		So(payload["quality"], ShouldEqual, 5.0)
		_, hasConfidence := payload["confidence"]
		So(hasConfidence, ShouldBeFalse)
		So(payload["model_metrics"], ShouldResemble, map[string]interface{}{})
	})
}

func TestPredictInferenceFailure(t *testing.T) {
	defer func() { runPrediction = predict.Predict }()

	Convey("engine failures map to 500 with a message", t, func() {
		initState(t, "wine_forest.json", "metrics.json", "wine")
		runPrediction = func(a model.Artifact, v schema.Vector) (predict.Result, error) {
			return predict.Predict(&panickingModel{Header: model.Header{Type: "broken", NFeatures: 13}}, v)
		}
		w, payload := do(router(), http.MethodPost, "/predict", wineRequest)
		So(w.Code, ShouldEqual, http.StatusInternalServerError)
		So(payload["detail"], ShouldStartWith, "Prediction error: ")
	})
}

func TestModelNotLoaded(t *testing.T) {
	defer func() { runPrediction = predict.Predict }()

	Convey("no model file at startup", t, func() {
		initState(t, "", "metrics.json", "wine")
		calls := countCalls()
		r := router()

		Convey("health reports unhealthy", func() {
			w, payload := do(r, http.MethodGet, "/health", nil)
			So(w.Code, ShouldEqual, http.StatusOK)
			So(payload["status"], ShouldEqual, "unhealthy")
			So(payload["model_loaded"], ShouldEqual, false)
			So(payload["metrics_available"], ShouldEqual, true)
		})

		Convey("predict is unavailable for valid and invalid bodies", func() {
			for _, body := range []interface{}{wineRequest, without("alcohol"), []byte(`nonsense`)} {
				w, payload := do(r, http.MethodPost, "/predict", body)
				So(w.Code, ShouldEqual, http.StatusServiceUnavailable)
				So(payload["detail"], ShouldEqual, "Model not loaded")
			}
			So(*calls, ShouldEqual, 0)
		})

		Convey("info still answers", func() {
			w, payload := do(r, http.MethodGet, "/", nil)
			So(w.Code, ShouldEqual, http.StatusOK)
			So(payload["status"], ShouldEqual, "running")
			So(payload["schema"], ShouldEqual, "wine")
		})
	})
}

func TestHealthAndMetrics(t *testing.T) {
	Convey("health and metrics read startup state only", t, func() {
		Convey("healthy with metrics", func() {
			initState(t, "wine_forest.json", "metrics.json", "wine")
			r := router()
			_, health := do(r, http.MethodGet, "/health", nil)
			So(health, ShouldResemble, map[string]interface{}{
				"status": "healthy", "model_loaded": true, "metrics_available": true,
			})
			w, payload := do(r, http.MethodGet, "/metrics", nil)
			So(w.Code, ShouldEqual, http.StatusOK)
			So(payload["model_metrics"], ShouldResemble, map[string]interface{}{
				"accuracy": 0.9722, "f1_score": 0.9721, "mse": 0.0278,
			})
			So(payload["owner"].(map[string]interface{})["name"], ShouldEqual, "Your Name")
		})

		Convey("no metrics file", func() {
			initState(t, "wine_forest.json", "", "wine")
			r := router()
			_, health := do(r, http.MethodGet, "/health", nil)
			So(health["metrics_available"], ShouldEqual, false)
			w, payload := do(r, http.MethodGet, "/metrics", nil)
			So(w.Code, ShouldEqual, http.StatusNotFound)
			So(payload["detail"], ShouldEqual, "Metrics not available")
		})
	})
}

func TestSchema(t *testing.T) {
	Convey("schema lists fields in model order with an example", t, func() {
		initState(t, "", "", "winequality")
		w, payload := do(router(), http.MethodGet, "/schema", nil)
		So(w.Code, ShouldEqual, http.StatusOK)
		So(payload["name"], ShouldEqual, "winequality")
		fields := payload["fields"].([]interface{})
		So(len(fields), ShouldEqual, 11)
		So(fields[0].(map[string]interface{})["name"], ShouldEqual, "fixed_acidity")
		So(payload["example"].(map[string]interface{})["pH"], ShouldEqual, 3.51)
	})
}
