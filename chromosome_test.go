package gwasbetas

import "testing"

func TestNormalizeChromosome(t *testing.T) {
	for input, expected := range map[string]string{
		"1":       "1",
		"01":      "1",
		"chr7":    "7",
		"chrom_9": "9",
		"chrX":    "X",
		" 22 ":    "22",
	} {
		if got := NormalizeChromosome(input); got != expected {
			t.Errorf("NormalizeChromosome(%q) = %q, expected %q", input, got, expected)
		}
	}
}

func TestChromosomeNumber(t *testing.T) {
	if n := ChromosomeNumber("chr22"); n != 22 {
		t.Errorf("Expected 22, got %d", n)
	}
	if n := ChromosomeNumber("X"); n != 0 {
		t.Errorf("Expected 0 for a sex chromosome, got %d", n)
	}
	if n := ChromosomeNumber("23"); n != 0 {
		t.Errorf("Expected 0 out of autosome range, got %d", n)
	}
}
