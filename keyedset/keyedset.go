// Package keyedset stores per-variant betas as gzip-compressed, tab-delimited
// files keyed by rsid.
package keyedset

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/carbocation/gwasbetas/gwas"
	"github.com/carbocation/pfx"
	"github.com/klauspost/compress/gzip"
	"gopkg.in/guregu/null.v3"
)

// Missing is written in place of absent optional values.
const Missing = "NA"

// Header is the first line of every file.
var Header = []string{"rsid", "beta", "se", "zscore", "frequency"}

// Writer satisfies gwas.Sink.
type Writer struct {
	Level int // gzip level; 0 uses gzip.DefaultCompression
}

// Write stores rs at path. The file is written under a temporary name and
// renamed into place, so path only ever exists complete.
func (w Writer) Write(path string, rs *gwas.ResultSet) (err error) {
	level := w.Level
	if level == 0 {
		level = gzip.DefaultCompression
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return pfx.Err(err)
	}
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()

	zw, err := gzip.NewWriterLevel(tmp, level)
	if err != nil {
		return pfx.Err(err)
	}
	if err := writeRecords(zw, rs); err != nil {
		return pfx.Err(err)
	}
	if err := zw.Close(); err != nil {
		return pfx.Err(err)
	}
	if err := tmp.Close(); err != nil {
		return pfx.Err(err)
	}

	return pfx.Err(os.Rename(tmp.Name(), path))
}

func writeRecords(w io.Writer, rs *gwas.ResultSet) error {
	buf := bufio.NewWriter(w)
	if _, err := fmt.Fprintln(buf, strings.Join(Header, "\t")); err != nil {
		return err
	}

	for _, rec := range rs.Records() {
		if _, err := fmt.Fprintf(buf, "%s\t%s\t%s\t%s\t%s\n",
			rec.RSID,
			strconv.FormatFloat(rec.Beta, 'g', -1, 64),
			NullFloatFormatter(rec.SE),
			NullFloatFormatter(rec.Z),
			NullFloatFormatter(rec.Frequency),
		); err != nil {
			return err
		}
	}

	return buf.Flush()
}

func NullFloatFormatter(n null.Float) string {
	if !n.Valid {
		return Missing
	}

	return strconv.FormatFloat(n.Float64, 'g', -1, 64)
}

// Read loads a file written by Writer.
func Read(path string) ([]gwas.BetaRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, pfx.Err(err)
	}
	defer f.Close()

	zr, err := gzip.NewReader(f)
	if err != nil {
		return nil, pfx.Err(err)
	}
	defer zr.Close()

	out := make([]gwas.BetaRecord, 0)
	scanner := bufio.NewScanner(zr)
	for i := 0; scanner.Scan(); i++ {
		cols := strings.Split(scanner.Text(), "\t")
		if i == 0 {
			if strings.Join(cols, "\t") != strings.Join(Header, "\t") {
				return nil, fmt.Errorf("%s: unexpected header %v", path, cols)
			}
			continue
		}
		if len(cols) != len(Header) {
			return nil, fmt.Errorf("%s: line %d has %d columns, expected %d", path, i+1, len(cols), len(Header))
		}

		beta, err := strconv.ParseFloat(cols[1], 64)
		if err != nil {
			return nil, fmt.Errorf("%s: line %d: %w", path, i+1, err)
		}
		rec := gwas.BetaRecord{RSID: cols[0], Beta: beta}
		if rec.SE, err = parseNullFloat(cols[2]); err != nil {
			return nil, fmt.Errorf("%s: line %d: %w", path, i+1, err)
		}
		if rec.Z, err = parseNullFloat(cols[3]); err != nil {
			return nil, fmt.Errorf("%s: line %d: %w", path, i+1, err)
		}
		if rec.Frequency, err = parseNullFloat(cols[4]); err != nil {
			return nil, fmt.Errorf("%s: line %d: %w", path, i+1, err)
		}
		out = append(out, rec)
	}
	if err := scanner.Err(); err != nil {
		return nil, pfx.Err(err)
	}

	return out, nil
}

func parseNullFloat(s string) (null.Float, error) {
	if s == Missing {
		return null.Float{}, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return null.Float{}, err
	}
	return null.FloatFrom(v), nil
}
