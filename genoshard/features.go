package genoshard

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/carbocation/gwasbetas"
)

// IndividualColumn names the row identifier column of a feature file.
const IndividualColumn = "individual"

// sniffBytes is how much of a feature file is inspected to pick its delimiter.
const sniffBytes = 64 * 1024

// readFeatures reads the dosages of the requested variants from one feature
// file. Rows keep file order. If individuals is non-nil, only the rows it
// names are kept. Every requested variant must be a column of the file.
func readFeatures(ctx context.Context, opener gwasbetas.Opener, path string, variants []string, individuals map[string]struct{}) (*FeatureTable, error) {
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

	buffered := bufio.NewReaderSize(rc, sniffBytes)
	head, err := buffered.Peek(sniffBytes)
	if err != nil && err != io.EOF && err != bufio.ErrBufferFull {
		return nil, err
	}
	cr := newCSVReader(buffered, gwasbetas.DetermineDelimiter(bytes.NewReader(head)))
	cr.ReuseRecord = true

	header, err := cr.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("empty feature file")
	} else if err != nil {
		return nil, err
	}

	columnIndex := make(map[string]int, len(header))
	for i, col := range header {
		if i == 0 {
			col = strings.TrimPrefix(col, gwasbetas.ByteOrderMark)
		}
		columnIndex[strings.TrimSpace(col)] = i
	}
	individualAt, ok := columnIndex[IndividualColumn]
	if !ok {
		return nil, fmt.Errorf("missing required column %q", IndividualColumn)
	}

	wanted := make([]int, 0, len(variants))
	for _, v := range variants {
		idx, ok := columnIndex[v]
		if !ok {
			return nil, fmt.Errorf("variant %s is in the metadata but not in the feature file", v)
		}
		wanted = append(wanted, idx)
	}

	table := &FeatureTable{Variants: append([]string(nil), variants...)}
	data := make([]float64, 0)
	for line := 2; ; line++ {
		record, err := cr.Read()
		if err == io.EOF {
			break
		} else if err != nil {
			return nil, err
		}

		id := strings.TrimSpace(record[individualAt])
		if individuals != nil {
			if _, ok := individuals[id]; !ok {
				continue
			}
		}

		for i, idx := range wanted {
			v, err := parseDosage(record[idx])
			if err != nil {
				return nil, fmt.Errorf("line %d, variant %s: %w", line, variants[i], err)
			}
			data = append(data, v)
		}
		table.Individuals = append(table.Individuals, id)
	}

	table.setDosages(data)

	return table, nil
}

func parseDosage(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" || s == missing {
		return math.NaN(), nil
	}

	return strconv.ParseFloat(s, 64)
}
