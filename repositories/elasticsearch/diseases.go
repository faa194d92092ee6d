package elasticsearch

import (
	"context"

	"herbgene/api/models"
	"herbgene/api/models/indexes"

	"github.com/elastic/go-elasticsearch/v7"
	"github.com/mitchellh/mapstructure"
)

// GetGenesByDiseaseName returns every disease-gene association whose disease
// name matches `diseaseName`, compared case-insensitively
func GetGenesByDiseaseName(ctx context.Context, cfg *models.Config, es *elasticsearch.Client, diseaseName string) ([]indexes.DiseaseGene, error) {
	query := map[string]interface{}{
		"query": map[string]interface{}{
			"term": map[string]interface{}{
				"diseaseName.keyword": map[string]interface{}{
					"value":            diseaseName,
					"case_insensitive": true,
				},
			},
		},
		"size": 10000,
	}

	result, err := executeSearch(ctx, cfg, es, diseasesIndex, query)
	if err != nil {
		return nil, err
	}

	var associations []indexes.DiseaseGene
	for _, source := range unwrapHitSources(result) {
		var association indexes.DiseaseGene
		mapstructure.Decode(source, &association)
		associations = append(associations, association)
	}

	return associations, nil
}

// GetDiseaseNamesByWildcard returns distinct disease names containing `term`
// (case-insensitive substring match), up to `size` names
func GetDiseaseNamesByWildcard(ctx context.Context, cfg *models.Config, es *elasticsearch.Client, term string, size int) ([]string, error) {
	query := map[string]interface{}{
		"query": map[string]interface{}{
			"wildcard": map[string]interface{}{
				"diseaseName.keyword": map[string]interface{}{
					"value":            "*" + term + "*",
					"case_insensitive": true,
				},
			},
		},
		"aggs": map[string]interface{}{
			"distinct_names": map[string]interface{}{
				"terms": map[string]interface{}{
					"field": "diseaseName.keyword",
					"size":  size,
					"order": map[string]string{
						"_key": "asc",
					},
				},
			},
		},
		"size": 0,
	}

	result, err := executeSearch(ctx, cfg, es, diseasesIndex, query)
	if err != nil {
		return nil, err
	}

	return unwrapBucketKeys(result, "distinct_names"), nil
}

// GetDistinctDiseaseCount returns the number of distinct disease names in the store
func GetDistinctDiseaseCount(ctx context.Context, cfg *models.Config, es *elasticsearch.Client) (int, error) {
	return getDistinctCount(ctx, cfg, es, diseasesIndex, "diseaseName.keyword")
}

func getDistinctCount(ctx context.Context, cfg *models.Config, es *elasticsearch.Client, index string, field string) (int, error) {
	query := map[string]interface{}{
		"aggs": map[string]interface{}{
			"distinct_count": map[string]interface{}{
				"cardinality": map[string]interface{}{
					"field": field,
				},
			},
		},
		"size": 0,
	}

	result, err := executeSearch(ctx, cfg, es, index, query)
	if err != nil {
		return 0, err
	}

	if aggs, ok := result["aggregations"].(map[string]interface{}); ok {
		if agg, ok := aggs["distinct_count"].(map[string]interface{}); ok {
			if value, ok := agg["value"].(float64); ok {
				return int(value), nil
			}
		}
	}

	return 0, nil
}

// unwrapBucketKeys collects the bucket keys of a top-level terms aggregation
func unwrapBucketKeys(result map[string]interface{}, aggName string) []string {
	keys := []string{}

	aggs, ok := result["aggregations"].(map[string]interface{})
	if !ok {
		return keys
	}
	agg, ok := aggs[aggName].(map[string]interface{})
	if !ok {
		return keys
	}
	buckets, ok := agg["buckets"].([]interface{})
	if !ok {
		return keys
	}

	for _, bucket := range buckets {
		if bucketMapped, ok := bucket.(map[string]interface{}); ok {
			if key, ok := bucketMapped["key"].(string); ok {
				keys = append(keys, key)
			}
		}
	}

	return keys
}
