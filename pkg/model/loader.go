package model

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Decodable is an artifact that can check its own structure after decoding.
type Decodable interface {
	Artifact
	Validate() error
}

var kinds = map[string]func() Decodable{
	KindDecisionTree:       func() Decodable { return &DecisionTree{} },
	KindRandomForest:       func() Decodable { return &RandomForest{} },
	KindLogisticRegression: func() Decodable { return &LogisticRegression{} },
	KindLinearRegression:   func() Decodable { return &LinearRegression{} },
}

// Register adds a decoder for a new artifact kind. It is meant to be called from init.
func Register(kind string, factory func() Decodable) {
	kinds[kind] = factory
}

// Kinds returns every registered artifact kind, sorted.
func Kinds() []string {
	names := make([]string, 0, len(kinds))
	for kind := range kinds {
		names = append(names, kind)
	}
	sort.Strings(names)
	return names
}

// UnmarshalFunc decodes a document into v, e.g. json.Unmarshal or yaml.Unmarshal.
type UnmarshalFunc func(data []byte, v interface{}) error

// YAML documents are accepted by extension, everything else is read as JSON.
func unmarshalerFor(path string) UnmarshalFunc {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return yaml.Unmarshal
	default:
		return json.Unmarshal
	}
}

// Load reads and validates the artifact at path.
func Load(path string) (Artifact, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read model artifact: %w", err)
	}
	return Decode(data, unmarshalerFor(path))
}

// Decode builds an artifact from an encoded document. The "kind" field selects the decoder.
func Decode(data []byte, unmarshal UnmarshalFunc) (Artifact, error) {
	var header Header
	if err := unmarshal(data, &header); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidArtifact, err)
	}
	factory, ok := kinds[header.Type]
	if !ok {
		return nil, fmt.Errorf("%w %q, supported: %s", ErrUnknownKind, header.Type, strings.Join(Kinds(), ", "))
	}
	artifact := factory()
	if err := unmarshal(data, artifact); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidArtifact, err)
	}
	if err := artifact.Validate(); err != nil {
		return nil, err
	}
	return artifact, nil
}
