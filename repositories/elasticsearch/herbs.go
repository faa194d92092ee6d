package elasticsearch

import (
	"context"

	"herbgene/api/models"
	"herbgene/api/models/indexes"

	"github.com/elastic/go-elasticsearch/v7"
	"github.com/mitchellh/mapstructure"
)

// GetGenesByHerbNames returns every herb-gene association for any of the
// requested herb names in a single batched query (one round trip regardless
// of how many herbs are requested). Matching is case-insensitive.
func GetGenesByHerbNames(ctx context.Context, cfg *models.Config, es *elasticsearch.Client, herbNames []string) ([]indexes.HerbGene, error) {
	if len(herbNames) == 0 {
		return nil, nil
	}

	shouldTerms := make([]map[string]interface{}, 0, len(herbNames))
	for _, herbName := range herbNames {
		shouldTerms = append(shouldTerms, map[string]interface{}{
			"term": map[string]interface{}{
				"herbName.keyword": map[string]interface{}{
					"value":            herbName,
					"case_insensitive": true,
				},
			},
		})
	}

	query := map[string]interface{}{
		"query": map[string]interface{}{
			"bool": map[string]interface{}{
				"should":               shouldTerms,
				"minimum_should_match": 1,
			},
		},
		"size": 10000,
	}

	result, err := executeSearch(ctx, cfg, es, herbsIndex, query)
	if err != nil {
		return nil, err
	}

	var associations []indexes.HerbGene
	for _, source := range unwrapHitSources(result) {
		var association indexes.HerbGene
		mapstructure.Decode(source, &association)
		associations = append(associations, association)
	}

	return associations, nil
}

// GetHerbNamesByWildcard returns distinct herb names containing `term`
// (case-insensitive substring match), up to `size` names
func GetHerbNamesByWildcard(ctx context.Context, cfg *models.Config, es *elasticsearch.Client, term string, size int) ([]string, error) {
	query := map[string]interface{}{
		"query": map[string]interface{}{
			"wildcard": map[string]interface{}{
				"herbName.keyword": map[string]interface{}{
					"value":            "*" + term + "*",
					"case_insensitive": true,
				},
			},
		},
		"aggs": map[string]interface{}{
			"distinct_names": map[string]interface{}{
				"terms": map[string]interface{}{
					"field": "herbName.keyword",
					"size":  size,
					"order": map[string]string{
						"_key": "asc",
					},
				},
			},
		},
		"size": 0,
	}

	result, err := executeSearch(ctx, cfg, es, herbsIndex, query)
	if err != nil {
		return nil, err
	}

	return unwrapBucketKeys(result, "distinct_names"), nil
}

// GetDistinctHerbCount returns the number of distinct herb names in the store
func GetDistinctHerbCount(ctx context.Context, cfg *models.Config, es *elasticsearch.Client) (int, error) {
	return getDistinctCount(ctx, cfg, es, herbsIndex, "herbName.keyword")
}
