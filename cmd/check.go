package cmd

import (
	"encoding/json"

	"github.com/spf13/cobra"
	"github.com/tass-io/predictor/pkg/metricstore"
	"github.com/tass-io/predictor/pkg/predict"
	"github.com/tass-io/predictor/pkg/schema"
	"github.com/tass-io/predictor/pkg/state"
	"github.com/tass-io/predictor/pkg/tools/errorutils"
)

var errModelNotLoaded = &errorutils.ModelUnavailableError{}

type checkReport struct {
	Schema           string             `json:"schema"`
	ModelPath        string             `json:"model_path"`
	ModelLoaded      bool               `json:"model_loaded"`
	ModelKind        string             `json:"model_kind,omitempty"`
	ModelError       string             `json:"model_error,omitempty"`
	MetricsAvailable bool               `json:"metrics_available"`
	Metrics          metricstore.Record `json:"model_metrics"`
	Example          *exampleResult     `json:"example,omitempty"`
}

type exampleResult struct {
	Label      int      `json:"label"`
	Value      float64  `json:"value"`
	Confidence *float64 `json:"confidence,omitempty"`
	Error      string   `json:"error,omitempty"`
}

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Load the model and metrics files and report whether they are usable.",
	Long: "check loads the configured model artifact and metrics file exactly as the server\n" +
		"would, runs the schema example through the model and prints a JSON report.\n" +
		"It exits non-zero when the model cannot be loaded or cannot predict.",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := state.New(stateConfig())
		if err != nil {
			return err
		}
		report, err := check(s)
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		if encErr := enc.Encode(report); encErr != nil {
			return encErr
		}
		return err
	},
}

func check(s *state.State) (checkReport, error) {
	report := checkReport{
		Schema:           s.Schema().Name,
		ModelPath:        s.ModelPath(),
		ModelLoaded:      s.ModelLoaded(),
		MetricsAvailable: s.MetricsAvailable(),
		Metrics:          s.Metrics(),
	}
	if !s.ModelLoaded() {
		report.ModelError = s.ModelError().Error()
		return report, errModelNotLoaded
	}
	report.ModelKind = s.Model().Kind()

	res, err := predict.Predict(s.Model(), exampleVector(s.Schema()))
	if err != nil {
		report.Example = &exampleResult{Error: err.Error()}
		return report, err
	}
	report.Example = &exampleResult{Label: res.Label, Value: res.Value, Confidence: res.Confidence}
	return report, nil
}

func exampleVector(sc schema.Schema) schema.Vector {
	v := make(schema.Vector, 0, sc.Len())
	for _, f := range sc.Fields {
		v = append(v, f.Example)
	}
	return v
}
