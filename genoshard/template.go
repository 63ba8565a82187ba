package genoshard

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/carbocation/gwasbetas"
)

// ChromosomePlaceholder is replaced by 1..22 in a sharded path.
const ChromosomePlaceholder = "{chr}"

var placeholderRE = regexp.MustCompile(`\{[^{}]*\}`)

// Shard is one chromosome's pair of files. Chromosome is 0 when the dataset is
// not split by chromosome.
type Shard struct {
	Chromosome int
	Metadata   string
	Features   string
}

// ResolvePath expands a {chr} template into one path per autosome, in
// ascending order, and reports whether it did so. A path without a placeholder
// is returned alone.
func ResolvePath(path string) ([]string, bool, error) {
	placeholders := placeholderRE.FindAllString(path, -1)
	for _, p := range placeholders {
		if p != ChromosomePlaceholder {
			return nil, false, &PathTemplateError{Path: path, Reason: "unrecognized placeholder " + p}
		}
	}

	// Anything left over after removing well-formed placeholders is a stray brace
	if strings.ContainsAny(placeholderRE.ReplaceAllString(path, ""), "{}") {
		return nil, false, &PathTemplateError{Path: path, Reason: "unbalanced braces"}
	}

	if len(placeholders) == 0 {
		return []string{path}, false, nil
	}

	out := make([]string, 0, gwasbetas.NumAutosomes)
	for chr := 1; chr <= gwasbetas.NumAutosomes; chr++ {
		out = append(out, strings.ReplaceAll(path, ChromosomePlaceholder, strconv.Itoa(chr)))
	}

	return out, true, nil
}

// Shards resolves a metadata and a feature path together. Both must be
// templates, or neither.
func Shards(metadata, features string) ([]Shard, bool, error) {
	metaPaths, metaSharded, err := ResolvePath(metadata)
	if err != nil {
		return nil, false, err
	}
	featurePaths, featureSharded, err := ResolvePath(features)
	if err != nil {
		return nil, false, err
	}

	if metaSharded != featureSharded {
		return nil, false, &PathTemplateError{
			Path:   features,
			Reason: "metadata path " + metadata + " and feature path must both use " + ChromosomePlaceholder + " or neither",
		}
	}

	if !metaSharded {
		return []Shard{{Metadata: metaPaths[0], Features: featurePaths[0]}}, false, nil
	}

	out := make([]Shard, 0, len(metaPaths))
	for i := range metaPaths {
		out = append(out, Shard{Chromosome: i + 1, Metadata: metaPaths[i], Features: featurePaths[i]})
	}

	return out, true, nil
}
