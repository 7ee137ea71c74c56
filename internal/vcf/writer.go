package vcf

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// Filter tags written into the FILTER column by the apply workflow.
const (
	FilterFailSNP   = "EVF_SNP"
	FilterFailIndel = "EVF_IND"
	FilterPass      = "."
)

// Header metadata lines describing the injected filter tags.
var filterHeaderLines = []string{
	fmt.Sprintf("##FILTER=<ID=%s,Description=\"Likely FP SNP as determined by loaded model\">", FilterFailSNP),
	fmt.Sprintf("##FILTER=<ID=%s,Description=\"Likely FP InDel as determined by loaded model\">", FilterFailIndel),
}

// RenderHeader returns the header with the two filter-definition lines
// inserted exactly once, immediately before the first pre-existing ##FILTER
// line or the #CHROM column-header line, whichever comes first. All original
// lines are preserved in order. If neither anchor exists the definitions are
// appended.
func RenderHeader(header []string) []string {
	out := make([]string, 0, len(header)+len(filterHeaderLines))
	inserted := false

	for _, line := range header {
		if !inserted && (strings.HasPrefix(line, "##FILTER") || strings.HasPrefix(line, "#CHROM")) {
			out = append(out, filterHeaderLines...)
			inserted = true
		}
		out = append(out, line)
	}
	if !inserted {
		out = append(out, filterHeaderLines...)
	}

	return out
}

// WriteFile writes the header verbatim followed by all records in the
// ten-column tab-delimited layout.
func WriteFile(path string, header []string, records []*Record) error {
	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create output vcf: %w", err)
	}
	defer out.Close()

	w := bufio.NewWriter(out)
	for _, line := range header {
		if _, err := w.WriteString(line + "\n"); err != nil {
			return fmt.Errorf("write header: %w", err)
		}
	}
	for _, rec := range records {
		if _, err := w.WriteString(rec.String() + "\n"); err != nil {
			return fmt.Errorf("write record: %w", err)
		}
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("flush output vcf: %w", err)
	}

	return out.Close()
}
