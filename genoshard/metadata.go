package genoshard

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/carbocation/gwasbetas"
	"github.com/gocarina/gocsv"
	"gopkg.in/guregu/null.v3"
)

// VariantMetadata is one row of a metadata shard.
type VariantMetadata struct {
	ID               string        `csv:"id"`
	Chromosome       string        `csv:"chromosome"`
	Position         int           `csv:"position"`
	Allele0          string        `csv:"allele_0"`
	Allele1          string        `csv:"allele_1"`
	Allele1Frequency OptionalFloat `csv:"allele_1_frequency"`
	RSID             string        `csv:"rsid"`
}

// OptionalFloat decodes NA or an empty cell as a null value.
type OptionalFloat struct {
	null.Float
}

func (f *OptionalFloat) UnmarshalCSV(s string) error {
	s = strings.TrimSpace(s)
	if s == "" || s == missing {
		f.Float = null.Float{}
		return nil
	}

	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return err
	}
	f.Float = null.FloatFrom(v)

	return nil
}

var requiredMetadataColumns = []string{"id", "chromosome"}

// readMetadata decodes one metadata file. If whitelist is non-nil, only rows
// whose id it contains are kept.
func readMetadata(ctx context.Context, opener gwasbetas.Opener, path string, whitelist map[string]struct{}) ([]VariantMetadata, error) {
	raw, err := opener.Open(ctx, path)
	if err != nil {
		return nil, err
	}
	rc, err := gwasbetas.MaybeDecompressReadCloser(raw, false)
	if err != nil {
		raw.Close()
		return nil, err
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, err
	}

	data = bytes.TrimPrefix(data, []byte(gwasbetas.ByteOrderMark))
	delim := gwasbetas.DetermineDelimiter(bytes.NewReader(data))

	header, err := newCSVReader(bytes.NewReader(data), delim).Read()
	if err == io.EOF {
		return nil, fmt.Errorf("empty metadata file")
	} else if err != nil {
		return nil, err
	}
	if err := requireColumns(header, requiredMetadataColumns); err != nil {
		return nil, err
	}

	rows := make([]VariantMetadata, 0)
	if err := gocsv.UnmarshalCSV(newCSVReader(bytes.NewReader(data), delim), &rows); err != nil {
		return nil, err
	}

	if whitelist == nil {
		return rows, nil
	}

	kept := rows[:0]
	for _, row := range rows {
		if _, ok := whitelist[row.ID]; ok {
			kept = append(kept, row)
		}
	}

	return kept, nil
}

func newCSVReader(r io.Reader, delim rune) *csv.Reader {
	cr := csv.NewReader(r)
	cr.Comma = delim
	cr.LazyQuotes = true
	return cr
}

func requireColumns(header, required []string) error {
	have := make(map[string]struct{}, len(header))
	for _, col := range header {
		have[strings.TrimSpace(col)] = struct{}{}
	}

	for _, col := range required {
		if _, ok := have[col]; !ok {
			return fmt.Errorf("missing required column %q (header: %v)", col, header)
		}
	}

	return nil
}
