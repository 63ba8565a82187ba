package gwasbetas

import (
	"strconv"
	"strings"
)

// NumAutosomes is the number of chromosomes a sharded dataset is split into.
const NumAutosomes = 22

// NormalizeChromosome strips the common "chrom_" and "chr" prefixes and any
// leading zeroes (BGENIX stores chromosome 1 as "01", etc.) so that the same
// chromosome compares equal across sources.
func NormalizeChromosome(chromosome string) string {
	c := strings.TrimSpace(chromosome)
	c = strings.TrimPrefix(c, "chrom_")
	c = strings.TrimPrefix(c, "chr")

	if chrInt, err := strconv.Atoi(c); err == nil {
		return strconv.Itoa(chrInt)
	}

	// Sex chromosomes and contigs keep their name
	return c
}

// ChromosomeNumber returns the autosome number for chromosome, or 0 if it is
// not an autosome.
func ChromosomeNumber(chromosome string) int {
	n, err := strconv.Atoi(NormalizeChromosome(chromosome))
	if err != nil || n < 1 || n > NumAutosomes {
		return 0
	}

	return n
}

// ChrPosKey is the canonical "chromosome:position" identifier.
func ChrPosKey(chromosome string, position int) string {
	return NormalizeChromosome(chromosome) + ":" + strconv.Itoa(position)
}
