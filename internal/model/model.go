package model

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/varscope/evf/internal/features"
)

// ArtifactSuffix is appended to the variant type tag to form the default
// model file name, e.g. "SNP.filter.model.json".
const ArtifactSuffix = ".filter.model.json"

// DefaultArtifactName returns the model output name used when the caller
// does not specify one.
func DefaultArtifactName(vt features.VariantType) string {
	return string(vt) + ArtifactSuffix
}

// Model is a trained classifier tagged with the variant type it was built
// for and the hyperparameters used to build it.
type Model struct {
	Type   features.VariantType
	Config Config

	clf BinaryClassifier
}

// New wraps an already constructed classifier. Used by tests and by Load.
func New(vt features.VariantType, cfg Config, clf BinaryClassifier) *Model {
	return &Model{Type: vt, Config: cfg, clf: clf}
}

// Train fits a classifier on the labeled feature table. This is the one
// blocking CPU-heavy external call in the pipeline; the library's internal
// parallelism is controlled by cfg.Threads.
func Train(X []features.Vector, y []int, vt features.VariantType, cfg Config) (*Model, error) {
	if len(X) != len(y) {
		return nil, fmt.Errorf("train: %d feature rows but %d labels", len(X), len(y))
	}
	if len(X) == 0 {
		return nil, fmt.Errorf("train: empty training set")
	}

	clf := newLightGBM(cfg)
	if err := clf.Fit(featureMatrix(X), labelVector(y)); err != nil {
		return nil, fmt.Errorf("fit %s classifier: %w", vt, err)
	}

	return &Model{Type: vt, Config: cfg, clf: clf}, nil
}

// Predict returns the classifier's binary output for one feature vector:
// 1 for a likely true variant, 0 for a likely false positive.
func (m *Model) Predict(vec features.Vector) (int, error) {
	return predictOne(m.clf, vec)
}

// envelope is the serialized artifact layout. The classifier blob's internal
// byte layout belongs to the external library.
type envelope struct {
	VariantType string          `json:"variant_type"`
	Config      Config          `json:"config"`
	Classifier  json.RawMessage `json:"classifier"`
}

// Save serializes the model to path as a JSON envelope. The classifier blob
// is the library's native model dump, so loading it restores a fitted
// predictor.
func Save(m *Model, path string) error {
	blob, err := marshalClassifier(m.clf)
	if err != nil {
		return fmt.Errorf("serialize classifier: %w", err)
	}

	env := envelope{
		VariantType: string(m.Type),
		Config:      m.Config,
		Classifier:  blob,
	}
	data, err := json.MarshalIndent(&env, "", "  ")
	if err != nil {
		return fmt.Errorf("serialize model: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write model: %w", err)
	}
	return nil
}

// Load reads a model artifact and validates that it was trained for the
// requested variant type. Any failure is a ModelError: the apply workflow
// must not touch a single record with a wrong or unreadable model.
func Load(path string, want features.VariantType) (*Model, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &ModelError{Path: path, Message: err.Error()}
	}

	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, &ModelError{Path: path, Message: "not a model artifact: " + err.Error()}
	}

	vt, err := features.ParseVariantType(env.VariantType)
	if err != nil {
		return nil, &ModelError{Path: path, Message: err.Error()}
	}
	if vt != want {
		return nil, &ModelError{
			Path:    path,
			Message: fmt.Sprintf("trained for %s, need %s", vt, want),
		}
	}

	clf, err := restoreClassifier(env.Classifier)
	if err != nil {
		return nil, &ModelError{Path: path, Message: "corrupt classifier blob: " + err.Error()}
	}

	return &Model{Type: vt, Config: env.Config, clf: clf}, nil
}
