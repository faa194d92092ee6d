package genesetService

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"herbgene/api/models"
	esRepo "herbgene/api/repositories/elasticsearch"

	"github.com/elastic/go-elasticsearch/v7"
)

type (
	GeneSetService struct {
		Config    *models.Config
		Es7Client *elasticsearch.Client
	}
)

func NewGeneSetService(es *elasticsearch.Client, cfg *models.Config) *GeneSetService {
	return &GeneSetService{
		Config:    cfg,
		Es7Client: es,
	}
}

// ResolveDiseaseGenes maps a disease name (case-insensitive) to the gene
// symbols associated with it
func (s *GeneSetService) ResolveDiseaseGenes(ctx context.Context, diseaseName string) ([]string, error) {
	associations, err := esRepo.GetGenesByDiseaseName(ctx, s.Config, s.Es7Client, diseaseName)
	if err != nil {
		return nil, fmt.Errorf("error resolving disease genes for '%s': %w", diseaseName, err)
	}

	geneSymbols := make([]string, 0, len(associations))
	for _, association := range associations {
		if association.GeneName != "" {
			geneSymbols = append(geneSymbols, association.GeneName)
		}
	}

	return geneSymbols, nil
}

// ResolveHerbGenes maps a list of herb names to the gene symbols their
// compounds target, using one batched store lookup. Gene symbols repeat once
// per compound; deduplication is left to the consuming set operations.
// Herb names with no matching record are reported in `missing`, not failed.
func (s *GeneSetService) ResolveHerbGenes(ctx context.Context, herbNames []string) (geneSymbols []string, missing []string, err error) {
	if len(herbNames) == 0 {
		return nil, nil, nil
	}

	associations, lookupErr := esRepo.GetGenesByHerbNames(ctx, s.Config, s.Es7Client, herbNames)
	if lookupErr != nil {
		return nil, nil, fmt.Errorf("error resolving herb genes: %w", lookupErr)
	}

	foundHerbs := make(map[string]bool)
	geneSymbols = make([]string, 0, len(associations))
	for _, association := range associations {
		foundHerbs[strings.ToLower(association.HerbName)] = true
		if association.GeneName != "" {
			geneSymbols = append(geneSymbols, association.GeneName)
		}
	}

	missing = []string{}
	for _, herbName := range herbNames {
		if !foundHerbs[strings.ToLower(herbName)] {
			missing = append(missing, herbName)
		}
	}

	return geneSymbols, missing, nil
}

// CommonGenes intersects the disease gene set with each prescription's
// (possibly duplicated) herb gene list. Results are sorted for determinism.
func CommonGenes(diseaseGenes []string, herbGeneLists [][]string) [][]string {
	diseaseGeneSet := make(map[string]bool, len(diseaseGenes))
	for _, gene := range diseaseGenes {
		diseaseGeneSet[gene] = true
	}

	allCommonGenes := make([][]string, 0, len(herbGeneLists))
	for _, herbGenes := range herbGeneLists {
		commonSet := make(map[string]bool)
		for _, gene := range herbGenes {
			if diseaseGeneSet[gene] {
				commonSet[gene] = true
			}
		}
		allCommonGenes = append(allCommonGenes, sortedKeys(commonSet))
	}

	return allCommonGenes
}

// UniqueGenes subtracts, for prescription i, the union of every OTHER
// prescription's common-gene set from prescription i's common-gene set.
// With a single prescription the unique set equals the common set.
//
// Note the documented subtraction rule: a gene shared with any other
// prescription is removed from both, even when the other prescription's own
// unique set ends up empty because of it.
func UniqueGenes(allCommonGenes [][]string) [][]string {
	allUniqueGenes := make([][]string, 0, len(allCommonGenes))

	for i, commonGenes := range allCommonGenes {
		if len(allCommonGenes) == 1 {
			allUniqueGenes = append(allUniqueGenes, append([]string{}, commonGenes...))
			continue
		}

		otherGenes := make(map[string]bool)
		for j, otherCommonGenes := range allCommonGenes {
			if j == i {
				continue
			}
			for _, gene := range otherCommonGenes {
				otherGenes[gene] = true
			}
		}

		uniqueSet := make(map[string]bool)
		for _, gene := range commonGenes {
			if !otherGenes[gene] {
				uniqueSet[gene] = true
			}
		}
		allUniqueGenes = append(allUniqueGenes, sortedKeys(uniqueSet))
	}

	return allUniqueGenes
}

func sortedKeys(set map[string]bool) []string {
	keys := make([]string, 0, len(set))
	for key := range set {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
