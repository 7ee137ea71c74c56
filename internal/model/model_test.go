package model

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/varscope/evf/internal/features"
	"github.com/varscope/evf/internal/vcf"
)

// stubClassifier returns a fixed output for every row.
type stubClassifier struct {
	out    float64
	fitted bool
}

func (s *stubClassifier) Fit(X, y mat.Matrix) error {
	s.fitted = true
	return nil
}

func (s *stubClassifier) Predict(X mat.Matrix) (mat.Matrix, error) {
	rows, _ := X.Dims()
	data := make([]float64, rows)
	for i := range data {
		data[i] = s.out
	}
	return mat.NewDense(rows, 1, data), nil
}

func TestConfigFor(t *testing.T) {
	snp, err := ConfigFor(features.SNP, 4)
	require.NoError(t, err)
	assert.Equal(t, Config{Trees: 600, MaxDepth: 6, LearningRate: 0.3, Seed: 7, Threads: 4}, snp)

	indel, err := ConfigFor(features.Indel, 2)
	require.NoError(t, err)
	assert.Equal(t, Config{Trees: 1000, MaxDepth: 6, LearningRate: 0.3, Seed: 7, Threads: 2}, indel)
}

func TestConfigFor_InvalidType(t *testing.T) {
	_, err := ConfigFor(features.VariantType("MNP"), 2)
	require.Error(t, err)

	var cerr *ConfigError
	require.ErrorAs(t, err, &cerr)
	assert.Contains(t, cerr.Error(), "SNP or INDEL")
}

func TestDecideFilter(t *testing.T) {
	tests := []struct {
		name       string
		vt         features.VariantType
		prediction int
		want       string
	}{
		{"failing SNP", features.SNP, 0, vcf.FilterFailSNP},
		{"failing indel", features.Indel, 0, vcf.FilterFailIndel},
		{"passing SNP", features.SNP, 1, vcf.FilterPass},
		{"passing indel", features.Indel, 1, vcf.FilterPass},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DecideFilter(tt.vt, tt.prediction))
		})
	}
}

func TestDual_PredictDispatch(t *testing.T) {
	snp := New(features.SNP, Config{}, &stubClassifier{out: 1})
	indel := New(features.Indel, Config{}, &stubClassifier{out: 0})
	dual := NewDual(snp, indel)

	var vec features.Vector

	pred, err := dual.Predict(vec, features.SNP)
	require.NoError(t, err)
	assert.Equal(t, 1, pred)

	pred, err = dual.Predict(vec, features.Indel)
	require.NoError(t, err)
	assert.Equal(t, 0, pred)
}

func TestPredictOne_Threshold(t *testing.T) {
	tests := []struct {
		out  float64
		want int
	}{
		{0.0, 0}, {0.49, 0}, {0.5, 1}, {0.9, 1}, {1.0, 1},
	}

	for _, tt := range tests {
		pred, err := predictOne(&stubClassifier{out: tt.out}, features.Vector{})
		require.NoError(t, err)
		assert.Equal(t, tt.want, pred, "output %v", tt.out)
	}
}

// separableTable builds a training table that is trivially separable on the
// first feature: true positives carry high QD, false positives low QD.
func separableTable(rows int) ([]features.Vector, []int) {
	X := make([]features.Vector, 0, rows)
	y := make([]int, 0, rows)
	for i := 0; i < rows/2; i++ {
		X = append(X, features.Vector{25 + float64(i), 60, 1, 0, 0, 1, 1, 20, 18, 0.52, 0.9})
		y = append(y, 1)
		X = append(X, features.Vector{2 + float64(i)*0.1, 30, 8, -3, -3, 3, 0, 30, 2, 0.94, 0.07})
		y = append(y, 0)
	}
	return X, y
}

func TestSaveLoad_TrainedRoundTrip(t *testing.T) {
	X, y := separableTable(40)
	cfg := Config{Trees: 30, MaxDepth: 3, LearningRate: 0.3, Seed: 7, Threads: 1}

	m, err := Train(X, y, features.SNP, cfg)
	require.NoError(t, err)

	truthy := features.Vector{28, 60, 1, 0, 0, 1, 1, 20, 18, 0.52, 0.9}
	falsy := features.Vector{2, 30, 8, -3, -3, 3, 0, 30, 2, 0.94, 0.07}

	pred, err := m.Predict(truthy)
	require.NoError(t, err)
	require.Equal(t, 1, pred)
	pred, err = m.Predict(falsy)
	require.NoError(t, err)
	require.Equal(t, 0, pred)

	path := filepath.Join(t.TempDir(), "snp.filter.model.json")
	require.NoError(t, Save(m, path))

	loaded, err := Load(path, features.SNP)
	require.NoError(t, err)
	assert.Equal(t, features.SNP, loaded.Type)
	assert.Equal(t, cfg, loaded.Config)

	// The restored classifier must be fitted and reproduce its predictions.
	pred, err = loaded.Predict(truthy)
	require.NoError(t, err)
	assert.Equal(t, 1, pred)
	pred, err = loaded.Predict(falsy)
	require.NoError(t, err)
	assert.Equal(t, 0, pred)
}

func TestSave_UnfittedClassifier(t *testing.T) {
	cfg := Config{Trees: 10, MaxDepth: 3, LearningRate: 0.3, Seed: 7, Threads: 1}
	m := New(features.SNP, cfg, newLightGBM(cfg))

	err := Save(m, filepath.Join(t.TempDir(), "unfitted.json"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not been fitted")
}

func TestLoad_TypeMismatch(t *testing.T) {
	cfg, err := ConfigFor(features.Indel, 2)
	require.NoError(t, err)

	m := New(features.Indel, cfg, &stubClassifier{})
	path := filepath.Join(t.TempDir(), "indel.filter.model.json")
	require.NoError(t, Save(m, path))

	_, err = Load(path, features.SNP)
	require.Error(t, err)

	var merr *ModelError
	require.ErrorAs(t, err, &merr)
	assert.Contains(t, merr.Error(), "trained for INDEL, need SNP")
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.json"), features.SNP)
	require.Error(t, err)

	var merr *ModelError
	require.ErrorAs(t, err, &merr)
}

func TestLoad_CorruptArtifact(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(path, []byte("not json"), 0644))

	_, err := Load(path, features.SNP)
	require.Error(t, err)

	var merr *ModelError
	require.ErrorAs(t, err, &merr)
	assert.Contains(t, merr.Error(), "not a model artifact")
}

func TestDefaultArtifactName(t *testing.T) {
	assert.Equal(t, "SNP.filter.model.json", DefaultArtifactName(features.SNP))
	assert.Equal(t, "INDEL.filter.model.json", DefaultArtifactName(features.Indel))
}
