// Package filter composes reading, feature extraction, classification and
// writing into the apply and train workflows.
package filter

import (
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/varscope/evf/internal/features"
	"github.com/varscope/evf/internal/model"
	"github.com/varscope/evf/internal/vcf"
)

// Applier runs the apply workflow: read, extract, classify, annotate, write.
// The whole input is held in memory; this is a bounded batch job with no
// streaming or cancellation.
type Applier struct {
	classifier *model.Dual
	logger     *zap.Logger
}

// NewApplier wraps an already loaded classifier pair.
func NewApplier(d *model.Dual) *Applier {
	return &Applier{
		classifier: d,
		logger:     zap.NewNop(),
	}
}

// LoadApplier loads both model artifacts before touching any input.
func LoadApplier(snpPath, indelPath string) (*Applier, error) {
	d, err := model.LoadDual(snpPath, indelPath)
	if err != nil {
		return nil, err
	}
	return NewApplier(d), nil
}

// SetLogger sets the logger for progress messages.
func (a *Applier) SetLogger(l *zap.Logger) {
	a.logger = l
}

// Run filters one VCF and writes the annotated copy next to the working
// directory under OutputName(path). Any extraction or prediction failure
// aborts the run before the output file is created, so a failed run never
// leaves a partial file behind.
func (a *Applier) Run(path string) (string, error) {
	f, err := vcf.ReadFile(path)
	if err != nil {
		return "", err
	}

	var snpFails, indelFails int
	for _, rec := range f.Records {
		vec, vt, err := features.Extract(rec)
		if err != nil {
			return "", err
		}
		pred, err := a.classifier.Predict(vec, vt)
		if err != nil {
			return "", err
		}

		rec.Filter = model.DecideFilter(vt, pred)
		switch rec.Filter {
		case vcf.FilterFailSNP:
			snpFails++
		case vcf.FilterFailIndel:
			indelFails++
		}
	}

	out := OutputName(path)
	if err := vcf.WriteFile(out, vcf.RenderHeader(f.Header), f.Records); err != nil {
		return "", err
	}

	a.logger.Info("filter applied",
		zap.String("input", path),
		zap.String("output", out),
		zap.Int("records", len(f.Records)),
		zap.Int("snp_fails", snpFails),
		zap.Int("indel_fails", indelFails))

	return out, nil
}

// OutputName derives the apply output name from the input path: the base
// name with a trailing .gz suffix stripped, the last extension stripped, and
// ".filter.vcf" appended.
func OutputName(path string) string {
	base := filepath.Base(path)
	base = strings.TrimSuffix(base, ".gz")
	base = strings.TrimSuffix(base, filepath.Ext(base))
	return base + ".filter.vcf"
}
