package gwasbetas

import (
	"bytes"
	"io"

	"github.com/csimplestring/go-csv/detector"
)

// delimiterPreference lists the delimiters found in summary statistics and
// genotype tables, most common first.
var delimiterPreference = []rune{'\t', ',', ' ', ';', '|'}

const delimiterSniffBytes = 64 * 1024

// ByteOrderMark is the UTF-8 BOM some spreadsheet exports put before the
// header.
const ByteOrderMark = "\ufeff"

// DetermineDelimiter returns the delimiter of a CSV-like stream from its
// first bytes. Only the runs in delimiterPreference are considered, so that
// punctuation inside identifiers (chr1_100_A_G, 1:100) is never chosen. When
// the detector finds none of them consistently, the header line decides, and
// tab is assumed if it holds none either.
func DetermineDelimiter(r io.Reader) rune {
	head, err := io.ReadAll(io.LimitReader(r, delimiterSniffBytes))
	if err != nil || len(head) == 0 {
		return '\t'
	}

	candidates := detector.New().DetectDelimiter(bytes.NewReader(head), '"')
	for _, want := range delimiterPreference {
		for _, c := range candidates {
			if len(c) == 1 && rune(c[0]) == want {
				return want
			}
		}
	}

	header := head
	if i := bytes.IndexByte(head, '\n'); i >= 0 {
		header = head[:i]
	}
	for _, want := range delimiterPreference {
		if bytes.ContainsRune(header, want) {
			return want
		}
	}

	return '\t'
}
