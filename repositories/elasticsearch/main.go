package elasticsearch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"herbgene/api/models"

	"github.com/elastic/go-elasticsearch/v7"
	"github.com/mitchellh/mapstructure"
)

const (
	diseasesIndex = "diseases"
	herbsIndex    = "herbs"
	analysesIndex = "analyses"
)

// executeSearch encodes `body` and runs it against `index`, decoding the
// whole response into a generic map
func executeSearch(ctx context.Context, cfg *models.Config, es *elasticsearch.Client, index string, body map[string]interface{}) (map[string]interface{}, error) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(body); err != nil {
		return nil, fmt.Errorf("error encoding %s query: %w", index, err)
	}

	if cfg.Debug {
		// view the outbound elasticsearch query
		fmt.Println(buf.String())
	}

	res, searchErr := es.Search(
		es.Search.WithContext(ctx),
		es.Search.WithIndex(index),
		es.Search.WithBody(&buf),
		es.Search.WithTrackTotalHits(true),
	)
	if searchErr != nil {
		return nil, fmt.Errorf("error searching %s: %w", index, searchErr)
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, fmt.Errorf("error searching %s: %s", index, res.Status())
	}

	result := make(map[string]interface{})
	if umErr := json.NewDecoder(res.Body).Decode(&result); umErr != nil {
		return nil, fmt.Errorf("error unmarshalling %s response: %w", index, umErr)
	}

	return result, nil
}

// unwrapHitSources pulls each hit's _source out of a raw search response
func unwrapHitSources(result map[string]interface{}) []map[string]interface{} {
	sources := []map[string]interface{}{}

	hitsWrapper, ok := result["hits"].(map[string]interface{})
	if !ok {
		return sources
	}

	allDocHits := []map[string]interface{}{}
	mapstructure.Decode(hitsWrapper["hits"], &allDocHits)

	for _, r := range allDocHits {
		if source, ok := r["_source"].(map[string]interface{}); ok {
			sources = append(sources, source)
		}
	}

	return sources
}

// unwrapTotalHits reads hits.total.value from a raw search response
func unwrapTotalHits(result map[string]interface{}) int {
	if hitsWrapper, ok := result["hits"].(map[string]interface{}); ok {
		if total, ok := hitsWrapper["total"].(map[string]interface{}); ok {
			if value, ok := total["value"].(float64); ok {
				return int(value)
			}
		}
	}
	return 0
}
