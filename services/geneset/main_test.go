package genesetService

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCommonGenesIntersectsEachPrescriptionWithDiseaseSet(t *testing.T) {
	diseaseGenes := []string{"TP53", "TNF", "IL6", "EGFR", "VEGFA"}

	// prescription C has no overlap with the disease set
	herbGeneLists := [][]string{
		{"TP53", "TNF", "AKT1"},
		{"TNF", "IL6", "VEGFA", "GAPDH"},
		{"BRCA1", "BRCA2"},
	}

	commonGenes := CommonGenes(diseaseGenes, herbGeneLists)

	assert.Len(t, commonGenes, 3)
	assert.Equal(t, []string{"TNF", "TP53"}, commonGenes[0])
	assert.Equal(t, []string{"IL6", "TNF", "VEGFA"}, commonGenes[1])
	assert.Empty(t, commonGenes[2])
}

func TestCommonGenesDeduplicatesRepeatedSymbols(t *testing.T) {
	diseaseGenes := []string{"TNF", "IL6"}

	// gene symbols repeat once per compound in the herb lookup
	herbGeneLists := [][]string{
		{"TNF", "TNF", "TNF", "IL6", "IL6"},
	}

	commonGenes := CommonGenes(diseaseGenes, herbGeneLists)

	assert.Equal(t, []string{"IL6", "TNF"}, commonGenes[0])
}

func TestUniqueGenesSinglePrescriptionEqualsCommonSet(t *testing.T) {
	allCommonGenes := [][]string{
		{"IL6", "TNF", "TP53"},
	}

	uniqueGenes := UniqueGenes(allCommonGenes)

	assert.Len(t, uniqueGenes, 1)
	assert.Equal(t, allCommonGenes[0], uniqueGenes[0])
}

func TestUniqueGenesSubtractsUnionOfOtherPrescriptions(t *testing.T) {
	allCommonGenes := [][]string{
		{"IL6", "TNF", "TP53"},
		{"EGFR", "TNF", "VEGFA"},
		{"AKT1", "IL6"},
	}

	uniqueGenes := UniqueGenes(allCommonGenes)

	assert.Equal(t, []string{"TP53"}, uniqueGenes[0])
	assert.Equal(t, []string{"EGFR", "VEGFA"}, uniqueGenes[1])
	assert.Equal(t, []string{"AKT1"}, uniqueGenes[2])
}

func TestUniqueGenesAreMutuallyDisjoint(t *testing.T) {
	allCommonGenes := [][]string{
		{"A", "B", "C", "D"},
		{"B", "C", "E"},
		{"C", "D", "F"},
	}

	uniqueGenes := UniqueGenes(allCommonGenes)

	seen := map[string]int{}
	for _, genes := range uniqueGenes {
		for _, gene := range genes {
			seen[gene]++
		}
	}
	for gene, count := range seen {
		assert.Equal(t, 1, count, "gene %s appears in more than one unique set", gene)
	}

	// a gene shared between any two prescriptions vanishes from both
	assert.Equal(t, []string{"A"}, uniqueGenes[0])
	assert.Equal(t, []string{"E"}, uniqueGenes[1])
	assert.Equal(t, []string{"F"}, uniqueGenes[2])
}

func TestUniqueGenesIdenticalPrescriptionsAllEmpty(t *testing.T) {
	allCommonGenes := [][]string{
		{"TNF", "TP53"},
		{"TNF", "TP53"},
	}

	uniqueGenes := UniqueGenes(allCommonGenes)

	assert.Empty(t, uniqueGenes[0])
	assert.Empty(t, uniqueGenes[1])
}

func TestCommonAndUniquePipelineEndToEnd(t *testing.T) {
	diseaseGenes := []string{"TP53", "TNF", "IL6", "EGFR", "VEGFA", "AKT1"}

	herbGeneLists := [][]string{
		{"TP53", "TNF", "IL6", "GAPDH"},
		{"TNF", "EGFR", "ACTB"},
	}

	commonGenes := CommonGenes(diseaseGenes, herbGeneLists)
	uniqueGenes := UniqueGenes(commonGenes)

	// common: A={IL6,TNF,TP53} B={EGFR,TNF}
	assert.Equal(t, []string{"IL6", "TNF", "TP53"}, commonGenes[0])
	assert.Equal(t, []string{"EGFR", "TNF"}, commonGenes[1])

	// unique: TNF shared so dropped from both
	assert.Equal(t, []string{"IL6", "TP53"}, uniqueGenes[0])
	assert.Equal(t, []string{"EGFR"}, uniqueGenes[1])
}
