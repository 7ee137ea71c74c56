package model

import (
	"encoding/json"
	"fmt"

	"github.com/YuminosukeSato/scigo/sklearn/lightgbm"
	"gonum.org/v1/gonum/mat"

	"github.com/varscope/evf/internal/features"
)

// BinaryClassifier is the narrow surface consumed from the external
// gradient-boosted tree library. Tree construction itself is never
// reimplemented here.
type BinaryClassifier interface {
	Fit(X, y mat.Matrix) error
	Predict(X mat.Matrix) (mat.Matrix, error)
}

// newLightGBM builds a LightGBM binary classifier with the given
// hyperparameters. Thread count is passed explicitly rather than pinned
// through process-wide environment state; the library exposes it as a plain
// field rather than a chained option.
func newLightGBM(cfg Config) *lightgbm.LGBMClassifier {
	clf := lightgbm.NewLGBMClassifier().
		WithNumIterations(cfg.Trees).
		WithMaxDepth(cfg.MaxDepth).
		WithLearningRate(cfg.LearningRate).
		WithRandomState(cfg.Seed)
	clf.NumThreads = cfg.Threads
	return clf
}

// marshalClassifier serializes a classifier for persistence. A fitted
// LightGBM classifier is dumped in the library's native JSON model format so
// that restoring it rebuilds the predictor and its fitted state; anything
// else (test doubles) falls back to plain JSON.
func marshalClassifier(clf BinaryClassifier) ([]byte, error) {
	if lgbm, ok := clf.(*lightgbm.LGBMClassifier); ok {
		if lgbm.Model == nil {
			return nil, fmt.Errorf("classifier has not been fitted")
		}
		return json.Marshal(lgbm.Model)
	}
	return json.Marshal(clf)
}

// restoreClassifier rebuilds a fitted LightGBM classifier from its native
// JSON model dump.
func restoreClassifier(blob []byte) (*lightgbm.LGBMClassifier, error) {
	clf := lightgbm.NewLGBMClassifier()
	if err := clf.LoadModelFromJSON(blob); err != nil {
		return nil, err
	}
	return clf, nil
}

// featureMatrix lays feature vectors out as a dense row-major matrix.
func featureMatrix(X []features.Vector) *mat.Dense {
	data := make([]float64, 0, len(X)*features.NumFeatures)
	for _, vec := range X {
		data = append(data, vec[:]...)
	}
	return mat.NewDense(len(X), features.NumFeatures, data)
}

// labelVector lays binary labels out as a single-column matrix.
func labelVector(y []int) *mat.Dense {
	data := make([]float64, len(y))
	for i, label := range y {
		data[i] = float64(label)
	}
	return mat.NewDense(len(y), 1, data)
}

// predictOne runs one feature vector through the classifier and collapses
// the output to a binary label. Label and probability outputs both threshold
// at 0.5.
func predictOne(clf BinaryClassifier, vec features.Vector) (int, error) {
	X := mat.NewDense(1, features.NumFeatures, append([]float64(nil), vec[:]...))

	out, err := clf.Predict(X)
	if err != nil {
		return 0, fmt.Errorf("predict: %w", err)
	}
	rows, cols := out.Dims()
	if rows < 1 || cols < 1 {
		return 0, fmt.Errorf("predict: empty output matrix (%dx%d)", rows, cols)
	}

	if out.At(0, 0) >= 0.5 {
		return 1, nil
	}
	return 0, nil
}
