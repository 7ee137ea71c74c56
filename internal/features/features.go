// Package features converts variant records into the fixed numeric
// representation consumed by the SNP and indel classifiers.
package features

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/varscope/evf/internal/vcf"
)

// VariantType distinguishes single-nucleotide variants from insertions and
// deletions. The two types are filtered by independently trained models.
type VariantType string

const (
	SNP   VariantType = "SNP"
	Indel VariantType = "INDEL"
)

// ParseVariantType validates a user-supplied variant type string.
func ParseVariantType(s string) (VariantType, error) {
	switch VariantType(s) {
	case SNP, Indel:
		return VariantType(s), nil
	}
	return "", fmt.Errorf("variant type must be SNP or INDEL, got %q", s)
}

// NumFeatures is the fixed width of the model input.
const NumFeatures = 11

// Vector is the ordered 11-feature model input:
// QD, MQ, FS, MQRankSum, ReadPosRankSum, SOR, IsHet, RefDepth, AltDepth,
// RefDepthFraction, AltToRefRatio. The length and order never vary.
type Vector [NumFeatures]float64

// infoKeys are the INFO annotations used as features, in vector order.
var infoKeys = []string{"QD", "MQ", "FS", "MQRankSum", "ReadPosRankSum", "SOR"}

// ExtractInfo parses the semicolon-delimited INFO field into a map holding
// exactly the recognized keys. A recognized key absent from the record
// defaults to 0.0; unrecognized keys are ignored rather than rejected.
func ExtractInfo(info string) (map[string]float64, error) {
	out := make(map[string]float64, len(infoKeys))
	for _, key := range infoKeys {
		out[key] = 0.0
	}

	for _, part := range strings.Split(info, ";") {
		kv := strings.SplitN(part, "=", 2)
		if len(kv) != 2 {
			continue
		}
		if _, ok := out[kv[0]]; !ok {
			continue
		}
		val, err := strconv.ParseFloat(kv[1], 64)
		if err != nil {
			return nil, fmt.Errorf("malformed INFO value %s=%s: %w", kv[0], kv[1], err)
		}
		out[kv[0]] = val
	}

	return out, nil
}

// CallStats holds the per-sample features derived from the FORMAT/CALLS pair.
type CallStats struct {
	IsHet    float64 // 1 iff the genotype literal is exactly "0/1"
	RefDepth float64
	AltDepth float64
	// RefDepthFraction is RefDepth/(RefDepth+AltDepth). When both depths are
	// zero it is NaN and propagates into the feature vector; the classifier
	// library decides how to treat it.
	RefDepthFraction float64
	AltToRefRatio    float64 // AltDepth/(RefDepth+0.1)
}

// ExtractCalls zips the colon-delimited FORMAT keys to the sample call
// values by position and derives the genotype and allele-depth features.
// GT and AD are required; a record that cannot supply them fails extraction.
func ExtractCalls(format, calls string) (CallStats, error) {
	keys := strings.Split(format, ":")
	vals := strings.Split(calls, ":")
	if len(keys) != len(vals) {
		return CallStats{}, fmt.Errorf("FORMAT has %d keys but call has %d values", len(keys), len(vals))
	}

	fields := make(map[string]string, len(keys))
	for i, k := range keys {
		fields[k] = vals[i]
	}

	gt, ok := fields["GT"]
	if !ok {
		return CallStats{}, fmt.Errorf("missing required FORMAT key GT")
	}
	ad, ok := fields["AD"]
	if !ok {
		return CallStats{}, fmt.Errorf("missing required FORMAT key AD")
	}

	var stats CallStats
	if gt == "0/1" {
		stats.IsHet = 1
	}

	// Keep the reference and first-alternate depths; depths for any further
	// alternate alleles are discarded.
	depths := strings.Split(ad, ",")
	if len(depths) < 2 {
		return CallStats{}, fmt.Errorf("AD field %q has fewer than two values", ad)
	}
	refD, err := strconv.ParseFloat(depths[0], 64)
	if err != nil {
		return CallStats{}, fmt.Errorf("malformed reference depth %q: %w", depths[0], err)
	}
	altD, err := strconv.ParseFloat(depths[1], 64)
	if err != nil {
		return CallStats{}, fmt.Errorf("malformed alternate depth %q: %w", depths[1], err)
	}

	stats.RefDepth = refD
	stats.AltDepth = altD
	stats.RefDepthFraction = refD / (refD + altD)
	stats.AltToRefRatio = altD / (refD + 0.1)

	return stats, nil
}

// ClassifyType derives the variant type from the ref and alt allele lengths.
// For a multi-allelic record (comma in alt) the call is a SNP iff the ref is
// a single base and either of the first two alternates is a single base;
// alternates beyond the second do not participate. Otherwise a SNP needs
// single-base ref and alt. Everything else is an indel.
func ClassifyType(ref, alt string) VariantType {
	if strings.Contains(alt, ",") {
		alts := strings.Split(alt, ",")
		if len(ref) == 1 && (len(alts[0]) == 1 || len(alts[1]) == 1) {
			return SNP
		}
		return Indel
	}
	if len(ref) == 1 && len(alt) == 1 {
		return SNP
	}
	return Indel
}

// Extract converts one record into the fixed 11-feature vector and its
// variant type. Extraction failures carry the record's line number as a
// vcf.FormatError so a bad record aborts the whole run.
func Extract(rec *vcf.Record) (Vector, VariantType, error) {
	info, err := ExtractInfo(rec.Info)
	if err != nil {
		return Vector{}, "", &vcf.FormatError{Line: rec.Line, Message: err.Error()}
	}

	stats, err := ExtractCalls(rec.Format, rec.Calls)
	if err != nil {
		return Vector{}, "", &vcf.FormatError{Line: rec.Line, Message: err.Error()}
	}

	vec := Vector{
		info["QD"],
		info["MQ"],
		info["FS"],
		info["MQRankSum"],
		info["ReadPosRankSum"],
		info["SOR"],
		stats.IsHet,
		stats.RefDepth,
		stats.AltDepth,
		stats.RefDepthFraction,
		stats.AltToRefRatio,
	}

	return vec, ClassifyType(rec.Ref, rec.Alt), nil
}
