package gwas

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/carbocation/gwasbetas"
	"github.com/carbocation/pfx"
)

// SeparatorAuto asks the Reader to detect the delimiter from the head of the
// file.
const SeparatorAuto = "auto"

const maxLineBytes = 16 * 1024 * 1024

// Reader yields the lines of a delimited summary statistics file as fields.
// The first line is the header. Lines whose field count differs from the
// header are skipped and counted. A Reader cannot be rewound; open a new one to
// read the file again.
type Reader struct {
	path      string
	rc        io.ReadCloser
	scanner   *bufio.Scanner
	split     func(string) []string
	header    []string
	fields    []string
	malformed int
	err       error
}

// OpenReader opens path and reads its header. If compressed is set the file
// is read as gzip; otherwise compression is detected from the file itself. An
// empty separator splits on runs of whitespace.
func OpenReader(ctx context.Context, opener gwasbetas.Opener, path string, compressed bool, separator string) (*Reader, error) {
	src, err := opener.Open(ctx, path)
	if err != nil {
		return nil, err
	}

	rc, err := gwasbetas.MaybeDecompressReadCloser(src, compressed)
	if err != nil {
		src.Close()
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	r, err := newReader(path, rc, separator)
	if err != nil {
		rc.Close()
		return nil, err
	}

	return r, nil
}

func newReader(path string, rc io.ReadCloser, separator string) (*Reader, error) {
	buffered := bufio.NewReaderSize(rc, 64*1024)

	if separator == SeparatorAuto {
		// Peek returns what it could along with an error at EOF
		head, _ := buffered.Peek(64 * 1024)
		separator = string(gwasbetas.DetermineDelimiter(bytes.NewReader(head)))

		// Space-aligned files pad columns with runs of spaces
		if separator == " " {
			separator = ""
		}
	}

	r := &Reader{
		path:    path,
		rc:      rc,
		scanner: bufio.NewScanner(buffered),
		split:   splitter(separator),
	}
	r.scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)

	for r.scanner.Scan() {
		line := strings.TrimPrefix(strings.TrimRight(r.scanner.Text(), "\r"), gwasbetas.ByteOrderMark)
		if strings.TrimSpace(line) == "" {
			continue
		}
		r.header = r.split(line)
		break
	}
	if err := r.scanner.Err(); err != nil {
		return nil, pfx.Err(fmt.Errorf("%s: %w", path, err))
	}
	if r.header == nil {
		return nil, fmt.Errorf("%s: no header line", path)
	}

	return r, nil
}

// splitter splits on runs of whitespace when separator is empty, and on every
// occurrence of separator otherwise.
func splitter(separator string) func(string) []string {
	if separator == "" {
		return strings.Fields
	}

	return func(s string) []string { return strings.Split(s, separator) }
}

func (r *Reader) Header() []string {
	return r.header
}

// Next advances to the next well-formed line.
func (r *Reader) Next() bool {
	if r.err != nil {
		return false
	}

	for r.scanner.Scan() {
		line := strings.TrimRight(r.scanner.Text(), "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}

		fields := r.split(line)
		if len(fields) != len(r.header) {
			r.malformed++
			continue
		}

		r.fields = fields
		return true
	}

	if err := r.scanner.Err(); err != nil {
		r.err = pfx.Err(fmt.Errorf("%s: %w", r.path, err))
	}
	return false
}

// Fields returns the current line. The slice is only valid until Next.
func (r *Reader) Fields() []string {
	return r.fields
}

// Malformed is the number of lines skipped for having the wrong field count.
func (r *Reader) Malformed() int {
	return r.malformed
}

func (r *Reader) Err() error {
	return r.err
}

func (r *Reader) Close() error {
	return r.rc.Close()
}
