// Package vcf provides reading and writing of single-sample VCF files.
package vcf

import "strings"

// NumFields is the fixed number of top-level columns in a supported VCF:
// CHROM, POS, ID, REF, ALT, QUAL, FILTER, INFO, FORMAT and exactly one
// sample column.
const NumFields = 10

// Record is a single variant call line. All columns are kept as raw strings
// so that columns this tool does not modify round-trip byte-for-byte.
type Record struct {
	Chrom  string
	Pos    string
	ID     string
	Ref    string
	Alt    string // raw comma-separated alternate alleles
	Qual   string
	Filter string // rewritten by the apply workflow
	Info   string // raw semicolon-delimited annotations
	Format string // colon-delimited key list
	Calls  string // colon-delimited value list for the single sample

	// Line is the 1-based line number in the source file, for error context.
	Line int
}

// String serializes the record back to its ten-column tab-delimited form.
func (r *Record) String() string {
	return strings.Join([]string{
		r.Chrom, r.Pos, r.ID, r.Ref, r.Alt,
		r.Qual, r.Filter, r.Info, r.Format, r.Calls,
	}, "\t")
}

// File is a fully parsed VCF: raw header lines plus all data records.
type File struct {
	Header  []string
	Records []*Record
}
