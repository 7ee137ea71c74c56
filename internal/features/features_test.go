package features

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/varscope/evf/internal/vcf"
)

func TestExtractInfo_AllKeysPresent(t *testing.T) {
	info := "QD=12.5;MQ=60.0;FS=1.2;MQRankSum=-0.5;ReadPosRankSum=0.3;SOR=0.7"

	m, err := ExtractInfo(info)
	require.NoError(t, err)

	assert.Equal(t, 12.5, m["QD"])
	assert.Equal(t, 60.0, m["MQ"])
	assert.Equal(t, 1.2, m["FS"])
	assert.Equal(t, -0.5, m["MQRankSum"])
	assert.Equal(t, 0.3, m["ReadPosRankSum"])
	assert.Equal(t, 0.7, m["SOR"])
}

func TestExtractInfo_MissingKeysDefaultToZero(t *testing.T) {
	m, err := ExtractInfo("QD=12.5;DP=30")
	require.NoError(t, err)

	assert.Equal(t, 12.5, m["QD"])
	assert.Equal(t, 0.0, m["MQ"])
	assert.Equal(t, 0.0, m["FS"])
	assert.Equal(t, 0.0, m["MQRankSum"])
	assert.Equal(t, 0.0, m["ReadPosRankSum"])
	assert.Equal(t, 0.0, m["SOR"])

	// Unrecognized keys are dropped, not stored.
	_, ok := m["DP"]
	assert.False(t, ok)
}

func TestExtractInfo_IgnoresUnrecognizedAndFlags(t *testing.T) {
	m, err := ExtractInfo("DB;DP=30;RAW_MQ=216000;MQ=60.0")
	require.NoError(t, err)

	assert.Len(t, m, 6)
	assert.Equal(t, 60.0, m["MQ"])
}

func TestExtractInfo_MalformedValue(t *testing.T) {
	_, err := ExtractInfo("QD=abc")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "malformed INFO value")
}

func TestExtractCalls(t *testing.T) {
	stats, err := ExtractCalls("GT:AD:DP", "0/1:10,5:15")
	require.NoError(t, err)

	assert.Equal(t, 1.0, stats.IsHet)
	assert.Equal(t, 10.0, stats.RefDepth)
	assert.Equal(t, 5.0, stats.AltDepth)
	assert.InDelta(t, 10.0/15.0, stats.RefDepthFraction, 1e-12)
	assert.InDelta(t, 5.0/10.1, stats.AltToRefRatio, 1e-12)
}

func TestExtractCalls_HomozygousNotHet(t *testing.T) {
	tests := []struct {
		gt string
	}{
		{"1/1"}, {"0/0"}, {"0|1"}, {"1/2"}, {"./."},
	}

	for _, tt := range tests {
		t.Run(tt.gt, func(t *testing.T) {
			stats, err := ExtractCalls("GT:AD", tt.gt+":10,5")
			require.NoError(t, err)
			assert.Equal(t, 0.0, stats.IsHet)
		})
	}
}

func TestExtractCalls_ThirdDepthDiscarded(t *testing.T) {
	stats, err := ExtractCalls("GT:AD", "0/1:10,5,3")
	require.NoError(t, err)

	assert.Equal(t, 10.0, stats.RefDepth)
	assert.Equal(t, 5.0, stats.AltDepth)
}

func TestExtractCalls_ZeroDepthsGiveNaNFraction(t *testing.T) {
	stats, err := ExtractCalls("GT:AD", "0/1:0,0")
	require.NoError(t, err)

	assert.True(t, math.IsNaN(stats.RefDepthFraction))
	assert.Equal(t, 0.0, stats.AltToRefRatio)
}

func TestExtractCalls_Errors(t *testing.T) {
	tests := []struct {
		name    string
		format  string
		calls   string
		wantMsg string
	}{
		{"missing GT", "AD:DP", "10,5:15", "missing required FORMAT key GT"},
		{"missing AD", "GT:DP", "0/1:15", "missing required FORMAT key AD"},
		{"arity mismatch", "GT:AD:DP", "0/1:10,5", "values"},
		{"single AD value", "GT:AD", "0/1:10", "fewer than two values"},
		{"non-numeric ref depth", "GT:AD", "0/1:x,5", "malformed reference depth"},
		{"non-numeric alt depth", "GT:AD", "0/1:10,y", "malformed alternate depth"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ExtractCalls(tt.format, tt.calls)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantMsg)
		})
	}
}

func TestClassifyType(t *testing.T) {
	tests := []struct {
		ref  string
		alt  string
		want VariantType
	}{
		{"A", "T", SNP},
		{"A", "AT", Indel},
		{"AT", "A", Indel},
		{"AT", "GC", Indel},
		// Multi-allelic: SNP iff ref is one base and either of the first
		// two alternates is one base.
		{"A", "T,AT", SNP},
		{"A", "AT,T", SNP},
		{"A", "AT,ATG", Indel},
		{"AT", "A,GC", Indel},
		{"AT", "A,G", Indel},
		// Only the first two alternates participate.
		{"A", "AT,ATG,C", Indel},
		{"A", "C,AT,ATG", SNP},
	}

	for _, tt := range tests {
		t.Run(tt.ref+">"+tt.alt, func(t *testing.T) {
			assert.Equal(t, tt.want, ClassifyType(tt.ref, tt.alt))
		})
	}
}

func TestParseVariantType(t *testing.T) {
	vt, err := ParseVariantType("SNP")
	require.NoError(t, err)
	assert.Equal(t, SNP, vt)

	vt, err = ParseVariantType("INDEL")
	require.NoError(t, err)
	assert.Equal(t, Indel, vt)

	_, err = ParseVariantType("snp")
	require.Error(t, err)
	_, err = ParseVariantType("MNP")
	require.Error(t, err)
}

func TestExtract(t *testing.T) {
	rec := &vcf.Record{
		Ref:    "A",
		Alt:    "T",
		Info:   "QD=1;MQ=2;FS=3;MQRankSum=4;ReadPosRankSum=5;SOR=6",
		Format: "GT:AD",
		Calls:  "0/1:8,2",
		Line:   7,
	}

	vec, vt, err := Extract(rec)
	require.NoError(t, err)
	assert.Equal(t, SNP, vt)

	want := Vector{1, 2, 3, 4, 5, 6, 1, 8, 2, 0.8, 2 / 8.1}
	for i := range want {
		assert.InDelta(t, want[i], vec[i], 1e-12, "feature %d", i)
	}
	assert.Len(t, vec, NumFeatures)
}

func TestExtract_MissingInfoKeysZeroFilled(t *testing.T) {
	rec := &vcf.Record{
		Ref:    "A",
		Alt:    "AT",
		Info:   ".",
		Format: "GT:AD",
		Calls:  "1/1:4,6",
	}

	vec, vt, err := Extract(rec)
	require.NoError(t, err)
	assert.Equal(t, Indel, vt)

	for i := 0; i < 6; i++ {
		assert.Equal(t, 0.0, vec[i], "feature %d", i)
	}
	assert.Equal(t, 0.0, vec[6])
	assert.Equal(t, 4.0, vec[7])
	assert.Equal(t, 6.0, vec[8])
}

func TestExtract_FailureIsFormatError(t *testing.T) {
	rec := &vcf.Record{
		Ref:    "A",
		Alt:    "T",
		Info:   ".",
		Format: "GT:DP",
		Calls:  "0/1:30",
		Line:   42,
	}

	_, _, err := Extract(rec)
	require.Error(t, err)

	var ferr *vcf.FormatError
	require.ErrorAs(t, err, &ferr)
	assert.Equal(t, 42, ferr.Line)
}
