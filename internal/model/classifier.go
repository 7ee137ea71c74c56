package model

import (
	"github.com/varscope/evf/internal/features"
	"github.com/varscope/evf/internal/vcf"
)

// Dual routes feature vectors to the SNP or indel model by variant type.
type Dual struct {
	snp   *Model
	indel *Model
}

// NewDual wraps two already loaded models.
func NewDual(snp, indel *Model) *Dual {
	return &Dual{snp: snp, indel: indel}
}

// LoadDual loads both model artifacts, validating each against its expected
// variant type before any record is processed.
func LoadDual(snpPath, indelPath string) (*Dual, error) {
	snp, err := Load(snpPath, features.SNP)
	if err != nil {
		return nil, err
	}
	indel, err := Load(indelPath, features.Indel)
	if err != nil {
		return nil, err
	}
	return &Dual{snp: snp, indel: indel}, nil
}

// Predict dispatches the full ordered feature vector to the model matching
// the variant type and returns its binary output unchanged.
func (d *Dual) Predict(vec features.Vector, vt features.VariantType) (int, error) {
	if vt == features.SNP {
		return d.snp.Predict(vec)
	}
	return d.indel.Predict(vec)
}

// DecideFilter maps a variant type and prediction to the filter tag written
// into the FILTER column. A prediction of 1 always passes; a 0 fails with
// the tag matching the variant type. The three outcomes are exhaustive.
func DecideFilter(vt features.VariantType, prediction int) string {
	switch {
	case vt == features.SNP && prediction == 0:
		return vcf.FilterFailSNP
	case vt == features.Indel && prediction == 0:
		return vcf.FilterFailIndel
	default:
		return vcf.FilterPass
	}
}
