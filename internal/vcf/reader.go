package vcf

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/biogo/hts/bgzf"
)

// Reader parses a single-sample VCF from a file or stream.
// Files ending in .gz are decompressed with bgzf.
type Reader struct {
	reader     *bufio.Reader
	file       *os.File
	bgzfReader *bgzf.Reader
	lineNumber int
	header     []string
	headerDone bool
}

// NewReader opens a VCF file for reading. Compression is detected by the
// .gz filename suffix.
func NewReader(path string) (*Reader, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open vcf file: %w", err)
	}

	r := &Reader{file: file}

	if strings.HasSuffix(path, ".gz") {
		r.bgzfReader, err = bgzf.NewReader(file, 1)
		if err != nil {
			file.Close()
			return nil, fmt.Errorf("create bgzf reader: %w", err)
		}
		r.reader = bufio.NewReader(r.bgzfReader)
	} else {
		r.reader = bufio.NewReader(file)
	}

	return r, nil
}

// NewReaderFrom creates a Reader over an uncompressed stream.
func NewReaderFrom(r io.Reader) *Reader {
	return &Reader{reader: bufio.NewReader(r)}
}

// Next returns the next variant record, or nil, nil at end of input.
// Header lines are accumulated internally; '#' lines appearing after the
// first record are skipped like comments.
func (r *Reader) Next() (*Record, error) {
	for {
		line, err := r.reader.ReadString('\n')
		if err != nil && err != io.EOF {
			return nil, fmt.Errorf("read vcf line: %w", err)
		}
		atEOF := err == io.EOF

		r.lineNumber++
		line = strings.TrimRight(line, "\r\n")
		if line == "" {
			if atEOF {
				return nil, nil
			}
			continue
		}

		if strings.HasPrefix(line, "#") {
			if !r.headerDone {
				if err := r.checkHeaderLine(line); err != nil {
					return nil, err
				}
				r.header = append(r.header, line)
			}
			if atEOF {
				return nil, nil
			}
			continue
		}

		r.headerDone = true
		return r.parseLine(line)
	}
}

// checkHeaderLine validates the #CHROM column-header line: the fixed
// ten-column layout admits exactly one sample, and the FORMAT column is
// required.
func (r *Reader) checkHeaderLine(line string) error {
	if !strings.HasPrefix(line, "#CHROM") {
		return nil
	}

	fields := strings.Split(line, "\t")
	if len(fields) > NumFields {
		return &FormatError{
			Line:    r.lineNumber,
			Message: fmt.Sprintf("multi-sample VCF not supported: %d sample columns", len(fields)-9),
		}
	}
	hasFormat := false
	for _, f := range fields {
		if f == "FORMAT" {
			hasFormat = true
			break
		}
	}
	if len(fields) != NumFields || !hasFormat {
		return &FormatError{
			Line:    r.lineNumber,
			Message: "missing required FORMAT field",
		}
	}
	return nil
}

// parseLine splits a data line into the fixed ten-column record.
func (r *Reader) parseLine(line string) (*Record, error) {
	fields := strings.Split(line, "\t")
	if len(fields) != NumFields {
		return nil, &FormatError{
			Line:    r.lineNumber,
			Message: fmt.Sprintf("expected %d tab-separated fields, found %d", NumFields, len(fields)),
		}
	}

	rec := &Record{
		Chrom:  fields[0],
		Pos:    fields[1],
		ID:     fields[2],
		Ref:    fields[3],
		Alt:    fields[4],
		Qual:   fields[5],
		Filter: fields[6],
		Info:   fields[7],
		Format: fields[8],
		Calls:  fields[9],
		Line:   r.lineNumber,
	}

	if len(strings.Split(rec.Format, ":")) != len(strings.Split(rec.Calls, ":")) {
		return nil, &FormatError{
			Line:    r.lineNumber,
			Message: "FORMAT and sample call fields have mismatched arity",
		}
	}

	return rec, nil
}

// Header returns the header lines read so far.
func (r *Reader) Header() []string {
	return r.header
}

// Close closes the reader and the underlying file.
func (r *Reader) Close() error {
	if r.bgzfReader != nil {
		r.bgzfReader.Close()
	}
	if r.file != nil {
		return r.file.Close()
	}
	return nil
}

// ReadFile parses a whole VCF into memory. The apply and train workflows
// are bounded batch jobs, so the full record sequence is held at once.
func ReadFile(path string) (*File, error) {
	r, err := NewReader(path)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	f := &File{}
	for {
		rec, err := r.Next()
		if err != nil {
			return nil, err
		}
		if rec == nil {
			break
		}
		f.Records = append(f.Records, rec)
	}
	f.Header = r.Header()

	return f, nil
}

// FormatError reports a malformed VCF line with its line number.
type FormatError struct {
	Line    int
	Message string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("vcf format error at line %d: %s", e.Line, e.Message)
}
