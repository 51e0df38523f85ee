// Package schema declares the fixed, ordered feature lists a model expects and
// validates raw request bodies against them.
package schema

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"
)

// Field is one required numeric input.
type Field struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Example     float64 `json:"example"`
}

// Schema is an ordered list of required numeric fields. The order is the column
// order the model was trained with.
type Schema struct {
	Name   string  `json:"name"`
	Fields []Field `json:"fields"`
}

// Vector holds feature values in schema order.
type Vector []float64

const (
	msgMissing   = "field required"
	msgNotNumber = "value is not a valid number"
	msgNotFinite = "value is not a finite number"
)

// FieldError names one offending field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError lists every field that failed validation, in schema order.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Field+": "+f.Message)
	}
	return "invalid features: " + strings.Join(parts, "; ")
}

var registry = map[string]Schema{}

func register(s Schema) Schema {
	registry[s.Name] = s
	return s
}

// Lookup returns the built-in schema with the given name.
func Lookup(name string) (Schema, error) {
	s, ok := registry[name]
	if !ok {
		return Schema{}, fmt.Errorf("unknown schema %q, available: %s", name, strings.Join(Names(), ", "))
	}
	return s, nil
}

// Names returns the names of all built-in schemas, sorted.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// FieldNames returns the field names in order.
func (s Schema) FieldNames() []string {
	names := make([]string, len(s.Fields))
	for i, f := range s.Fields {
		names[i] = f.Name
	}
	return names
}

// Len is the dimensionality of vectors produced by this schema.
func (s Schema) Len() int {
	return len(s.Fields)
}

// Example returns the documented example payload.
func (s Schema) Example() map[string]float64 {
	example := make(map[string]float64, len(s.Fields))
	for _, f := range s.Fields {
		example[f.Name] = f.Example
	}
	return example
}

// Validate extracts every declared field from a JSON object body. Unknown fields
// are ignored.
func (s Schema) Validate(body []byte) (Vector, error) {
	if !gjson.ValidBytes(body) {
		return nil, &ValidationError{Fields: []FieldError{{Field: "body", Message: "invalid JSON"}}}
	}
	root := gjson.ParseBytes(body)
	if !root.IsObject() {
		return nil, &ValidationError{Fields: []FieldError{{Field: "body", Message: "expected a JSON object"}}}
	}

	// a repeated key keeps its last value
	members := map[string]gjson.Result{}
	root.ForEach(func(key, value gjson.Result) bool {
		members[key.String()] = value
		return true
	})

	vector := make(Vector, len(s.Fields))
	var errs []FieldError
	for i, f := range s.Fields {
		value, msg := parseField(members[f.Name])
		if msg != "" {
			errs = append(errs, FieldError{Field: f.Name, Message: msg})
			continue
		}
		vector[i] = value
	}
	if len(errs) > 0 {
		return nil, &ValidationError{Fields: errs}
	}
	return vector, nil
}

func parseField(r gjson.Result) (float64, string) {
	if !r.Exists() {
		return 0, msgMissing
	}
	var value float64
	switch r.Type {
	case gjson.Number:
		// gjson saturates out-of-range literals to ±Inf
		value = r.Float()
	case gjson.String:
		v, err := strconv.ParseFloat(strings.TrimSpace(r.Str), 64)
		if err != nil {
			return 0, msgNotNumber
		}
		value = v
	default:
		return 0, msgNotNumber
	}
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return 0, msgNotFinite
	}
	return value, ""
}
