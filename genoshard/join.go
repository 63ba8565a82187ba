package genoshard

import "fmt"

// innerJoin folds parts, in order, into a single table. An individual survives
// only if every part has it; survivors keep the order of the first part.
// Columns are the concatenation of every part's columns, and a variant that
// appears in two parts is an error.
func innerJoin(parts []*FeatureTable) (*FeatureTable, error) {
	if len(parts) == 0 {
		return &FeatureTable{}, nil
	}

	acc := parts[0]
	for _, next := range parts[1:] {
		var err error
		if acc, err = joinPair(acc, next); err != nil {
			return nil, err
		}
	}

	return acc, nil
}

func joinPair(left, right *FeatureTable) (*FeatureTable, error) {
	seen := make(map[string]struct{}, len(left.Variants))
	for _, v := range left.Variants {
		seen[v] = struct{}{}
	}
	for _, v := range right.Variants {
		if _, dup := seen[v]; dup {
			return nil, fmt.Errorf("variant %s appears in more than one shard", v)
		}
	}

	rightRow := make(map[string]int, len(right.Individuals))
	for i, id := range right.Individuals {
		rightRow[id] = i
	}

	out := &FeatureTable{
		Variants: append(append(make([]string, 0, len(left.Variants)+len(right.Variants)), left.Variants...), right.Variants...),
	}

	data := make([]float64, 0)
	for i, id := range left.Individuals {
		j, ok := rightRow[id]
		if !ok {
			continue
		}
		out.Individuals = append(out.Individuals, id)
		for c := range left.Variants {
			data = append(data, left.At(i, c))
		}
		for c := range right.Variants {
			data = append(data, right.At(j, c))
		}
	}

	out.setDosages(data)

	return out, nil
}
