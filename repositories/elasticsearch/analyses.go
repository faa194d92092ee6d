package elasticsearch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"herbgene/api/models"
	"herbgene/api/models/indexes"

	"github.com/elastic/go-elasticsearch/v7"
	"github.com/mitchellh/mapstructure"
)

// IndexAnalysis persists one analysis-history document under its own id
func IndexAnalysis(ctx context.Context, cfg *models.Config, es *elasticsearch.Client, analysis *indexes.Analysis) error {
	documentJson, marshalErr := json.Marshal(analysis)
	if marshalErr != nil {
		return fmt.Errorf("error marshalling analysis document: %w", marshalErr)
	}

	res, indexErr := es.Index(
		analysesIndex,
		bytes.NewReader(documentJson),
		es.Index.WithContext(ctx),
		es.Index.WithDocumentID(analysis.Id),
		es.Index.WithRefresh("true"),
	)
	if indexErr != nil {
		return fmt.Errorf("error indexing analysis %s: %w", analysis.Id, indexErr)
	}
	defer res.Body.Close()

	if res.IsError() {
		return fmt.Errorf("error indexing analysis %s: %s", analysis.Id, res.Status())
	}

	return nil
}

// GetAnalyses returns one page of analysis-history documents, newest first,
// along with the total document count
func GetAnalyses(ctx context.Context, cfg *models.Config, es *elasticsearch.Client, page int, perPage int) ([]indexes.Analysis, int, error) {
	query := map[string]interface{}{
		"query": map[string]interface{}{
			"match_all": map[string]interface{}{},
		},
		"sort": []map[string]interface{}{
			{
				"createdAt": map[string]interface{}{
					"order": "desc",
				},
			},
		},
		"from": (page - 1) * perPage,
		"size": perPage,
	}

	result, err := executeSearch(ctx, cfg, es, analysesIndex, query)
	if err != nil {
		return nil, 0, err
	}

	var analyses []indexes.Analysis
	for _, source := range unwrapHitSources(result) {
		var analysis indexes.Analysis
		mapstructure.Decode(source, &analysis)
		analyses = append(analyses, analysis)
	}

	return analyses, unwrapTotalHits(result), nil
}

// GetAnalysisById fetches a single analysis-history document
func GetAnalysisById(ctx context.Context, cfg *models.Config, es *elasticsearch.Client, id string) (*indexes.Analysis, error) {
	res, getErr := es.Get(analysesIndex, id, es.Get.WithContext(ctx))
	if getErr != nil {
		return nil, fmt.Errorf("error getting analysis %s: %w", id, getErr)
	}
	defer res.Body.Close()

	if res.StatusCode == 404 {
		return nil, nil
	}
	if res.IsError() {
		return nil, fmt.Errorf("error getting analysis %s: %s", id, res.Status())
	}

	wrapper := make(map[string]interface{})
	if umErr := json.NewDecoder(res.Body).Decode(&wrapper); umErr != nil {
		return nil, fmt.Errorf("error unmarshalling analysis %s: %w", id, umErr)
	}

	var analysis indexes.Analysis
	if source, ok := wrapper["_source"].(map[string]interface{}); ok {
		mapstructure.Decode(source, &analysis)
	}

	return &analysis, nil
}

// SetAnalysisAiResult attaches a serialized AI analysis to an existing
// history document
func SetAnalysisAiResult(ctx context.Context, cfg *models.Config, es *elasticsearch.Client, id string, aiAnalysisJson string) error {
	partial := map[string]interface{}{
		"doc": map[string]interface{}{
			"aiAnalysisJson": aiAnalysisJson,
		},
	}

	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(partial); err != nil {
		return fmt.Errorf("error encoding analysis update: %w", err)
	}

	res, updateErr := es.Update(analysesIndex, id, &buf, es.Update.WithContext(ctx), es.Update.WithRefresh("true"))
	if updateErr != nil {
		return fmt.Errorf("error updating analysis %s: %w", id, updateErr)
	}
	defer res.Body.Close()

	if res.IsError() {
		return fmt.Errorf("error updating analysis %s: %s", id, res.Status())
	}

	return nil
}

// DeleteAnalysisById removes a single analysis-history document.
// Returns false when no such document exists.
func DeleteAnalysisById(ctx context.Context, cfg *models.Config, es *elasticsearch.Client, id string) (bool, error) {
	res, deleteErr := es.Delete(analysesIndex, id, es.Delete.WithContext(ctx), es.Delete.WithRefresh("true"))
	if deleteErr != nil {
		return false, fmt.Errorf("error deleting analysis %s: %w", id, deleteErr)
	}
	defer res.Body.Close()

	if res.StatusCode == 404 {
		return false, nil
	}
	if res.IsError() {
		return false, fmt.Errorf("error deleting analysis %s: %s", id, res.Status())
	}

	return true, nil
}

// DeleteAnalysesOlderThan removes history documents past the retention window
func DeleteAnalysesOlderThan(ctx context.Context, cfg *models.Config, es *elasticsearch.Client, retentionDays int) error {
	query := fmt.Sprintf(`{
		"query": {
			"range": {
				"createdAt": {
					"lt": "now-%dd"
				}
			}
		}
	}`, retentionDays)

	res, deleteErr := es.DeleteByQuery(
		[]string{analysesIndex},
		strings.NewReader(query),
		es.DeleteByQuery.WithContext(ctx),
	)
	if deleteErr != nil {
		return fmt.Errorf("error cleaning up analyses: %w", deleteErr)
	}
	defer res.Body.Close()

	if res.IsError() {
		return fmt.Errorf("error cleaning up analyses: %s", res.Status())
	}

	return nil
}

// GetAnalysesCount returns the total number of stored history documents
func GetAnalysesCount(ctx context.Context, cfg *models.Config, es *elasticsearch.Client) (int, error) {
	query := map[string]interface{}{
		"query": map[string]interface{}{
			"match_all": map[string]interface{}{},
		},
		"size": 0,
	}

	result, err := executeSearch(ctx, cfg, es, analysesIndex, query)
	if err != nil {
		return 0, err
	}

	return unwrapTotalHits(result), nil
}
