// Package model wraps the gradient-boosted tree classifiers used to label
// variant calls as likely true or false positives.
package model

import (
	"fmt"

	"github.com/varscope/evf/internal/features"
)

// randomSeed fixes tree construction so repeated training runs on the same
// table produce the same model.
const randomSeed = 7

// Config holds the hyperparameters for one classifier.
type Config struct {
	Trees        int     `json:"trees"`
	MaxDepth     int     `json:"max_depth"`
	LearningRate float64 `json:"learning_rate"`
	Seed         int     `json:"seed"`
	// Threads is the classifier library's internal parallelism degree.
	Threads int `json:"threads"`
}

// ConfigFor returns the fixed hyperparameters for the given variant type.
// SNP models use 600 trees, indel models 1000; both use depth 6 and
// learning rate 0.3.
func ConfigFor(vt features.VariantType, threads int) (Config, error) {
	base := Config{
		MaxDepth:     6,
		LearningRate: 0.3,
		Seed:         randomSeed,
		Threads:      threads,
	}

	switch vt {
	case features.SNP:
		base.Trees = 600
	case features.Indel:
		base.Trees = 1000
	default:
		return Config{}, &ConfigError{Message: fmt.Sprintf("variant type must be SNP or INDEL, got %q", vt)}
	}

	return base, nil
}

// ConfigError reports invalid configuration detected before any file is
// opened. Runs that fail this way perform no work.
type ConfigError struct {
	Message string
}

func (e *ConfigError) Error() string {
	return "config error: " + e.Message
}

// ModelError reports a classifier artifact that is missing or incompatible
// with the requested variant type. It is fatal before any record is
// processed.
type ModelError struct {
	Path    string
	Message string
}

func (e *ModelError) Error() string {
	return fmt.Sprintf("model error (%s): %s", e.Path, e.Message)
}
