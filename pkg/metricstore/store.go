// Package metricstore loads the scalar performance statistics written next to a
// model artifact by the training job.
package metricstore

import (
	"encoding/json"
	"fmt"
	"os"

	"go.uber.org/zap"
)

// Record maps a metric name (accuracy, f1_score, mse, ...) to its value.
type Record map[string]float64

// Available reports whether any metric was loaded.
func (r Record) Available() bool {
	return len(r) > 0
}

// Clone returns a copy that callers may modify.
func (r Record) Clone() Record {
	c := make(Record, len(r))
	for k, v := range r {
		c[k] = v
	}
	return c
}

// Read decodes the metrics file at path. The record is either complete or an error is returned.
func Read(path string) (Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var raw map[string]*float64
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decode metrics %s: %w", path, err)
	}
	record := make(Record, len(raw))
	for name, value := range raw {
		if value == nil {
			return nil, fmt.Errorf("decode metrics %s: %q is null", path, name)
		}
		record[name] = *value
	}
	return record, nil
}

// Load never fails: any problem yields an empty record and a warning.
func Load(path string) Record {
	record, err := Read(path)
	if err != nil {
		zap.S().Warnw("metrics file not loaded", "path", path, "err", err)
		return Record{}
	}
	zap.S().Infow("metrics loaded", "path", path, "metrics", record)
	return record
}
