// Package state holds what the service loads once at startup: the feature schema,
// the model artifact and the metrics record. It is written by Init before the HTTP
// server starts and only read afterwards, so readers need no locking.
package state

import (
	"fmt"

	"github.com/tass-io/predictor/pkg/dto"
	"github.com/tass-io/predictor/pkg/metricstore"
	"github.com/tass-io/predictor/pkg/model"
	"github.com/tass-io/predictor/pkg/prom"
	"github.com/tass-io/predictor/pkg/schema"
	"go.uber.org/zap"
)

// Config selects the files and schema to load.
type Config struct {
	ModelPath   string
	MetricsPath string
	Schema      string
	Owner       dto.Owner
}

// State is immutable after construction.
type State struct {
	config   Config
	schema   schema.Schema
	artifact model.Artifact
	modelErr error
	metrics  metricstore.Record
}

var current *State

// New loads the model and metrics named by cfg. Model and metrics failures are
// recorded, not returned: only an unknown schema is an error.
func New(cfg Config) (*State, error) {
	sc, err := schema.Lookup(cfg.Schema)
	if err != nil {
		return nil, err
	}
	s := &State{
		config: cfg,
		schema: sc,
	}

	artifact, err := model.Load(cfg.ModelPath)
	if err == nil && artifact.NumFeatures() != sc.Len() {
		err = fmt.Errorf("model expects %d features but schema %s has %d", artifact.NumFeatures(), sc.Name, sc.Len())
	}
	if err != nil {
		s.modelErr = err
		zap.S().Warnw("model not loaded, predictions disabled", "path", cfg.ModelPath, "err", err)
	} else {
		s.artifact = artifact
		_, proba := model.Estimator(artifact)
		zap.S().Infow("model loaded", "path", cfg.ModelPath, "kind", artifact.Kind(),
			"features", artifact.NumFeatures(), "probability", proba)
	}

	s.metrics = metricstore.Load(cfg.MetricsPath)
	return s, nil
}

// Init builds the process-wide state. It must run before any request is served.
func Init(cfg Config) (*State, error) {
	s, err := New(cfg)
	if err != nil {
		return nil, err
	}
	current = s
	prom.ModelLoaded.Set(prom.Bool(s.ModelLoaded()))
	prom.MetricsAvailable.Set(prom.Bool(s.MetricsAvailable()))
	return s, nil
}

// Get returns the process-wide state, nil before Init.
func Get() *State {
	return current
}

func (s *State) Schema() schema.Schema {
	return s.schema
}

// Model returns the loaded artifact, nil when loading failed.
func (s *State) Model() model.Artifact {
	return s.artifact
}

// ModelError is why the model is not loaded, nil when it is.
func (s *State) ModelError() error {
	return s.modelErr
}

func (s *State) ModelLoaded() bool {
	return s.artifact != nil
}

func (s *State) ModelPath() string {
	return s.config.ModelPath
}

// Metrics returns a copy of the metrics record.
func (s *State) Metrics() metricstore.Record {
	return s.metrics.Clone()
}

func (s *State) MetricsAvailable() bool {
	return s.metrics.Available()
}

func (s *State) Owner() dto.Owner {
	return s.config.Owner
}
