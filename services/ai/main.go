package aiService

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"herbgene/api/models"
	analysisScope "herbgene/api/models/constants/analysis-scope"
	"herbgene/api/models/dtos"

	"github.com/mitchellh/mapstructure"
)

type (
	AiService struct {
		Config *models.Config
		Client GenerativeClient
	}

	// PrescriptionEnrichment is one prescription group's labelled
	// enrichment records, ordered by prescription index
	PrescriptionEnrichment struct {
		Label   string
		Records []dtos.EnrichmentRecord
	}
)

func NewAiService(cfg *models.Config, client GenerativeClient) *AiService {
	return &AiService{
		Config: cfg,
		Client: client,
	}
}

// GenerateFullAnalysis produces the complete AI analysis (comparison table,
// narrative report, clinical interview questions) for the prescriptions that
// contributed enrichment data. The response always has a consistent shape:
// when the generative service produces nothing usable after all retries, the
// deterministic fallback content is substituted and HasAiAnalysis is false.
func (s *AiService) GenerateFullAnalysis(ctx context.Context, diseaseName string, enrichments []PrescriptionEnrichment) *dtos.AiAnalysisResponse {
	fmt.Printf("[%s] - Starting AI analysis for disease: %s\n", time.Now(), diseaseName)

	response := &dtos.AiAnalysisResponse{
		SummaryTable:      []map[string]string{},
		ClinicalQuestions: []dtos.ClinicalQuestionGroup{},
		GroupMapping:      map[string]string{},
	}

	// only groups that actually produced enrichment data participate
	groups := make([]PrescriptionEnrichment, 0, len(enrichments))
	for _, enrichment := range enrichments {
		if len(enrichment.Records) > 0 {
			groups = append(groups, enrichment)
		}
	}

	// decide the analysis mode once, up front
	switch len(groups) {
	case 0:
		response.AnalysisScope = analysisScope.NoData
		response.Error = "No enrichment data available for analysis. Please ensure the prescriptions have valid gene-disease associations."
		fmt.Printf("[%s] - No enrichment data in any prescription, skipping generative calls\n", time.Now())
		return response
	case 1:
		response.AnalysisScope = analysisScope.Single
		response.ScopeLabel = fmt.Sprintf("%s only", groups[0].Label)
		response.GroupMapping["Finding"] = groups[0].Label
	default:
		response.AnalysisScope = analysisScope.Comparative
		labels := make([]string, 0, len(groups))
		for i, group := range groups {
			labels = append(labels, group.Label)
			response.GroupMapping[fmt.Sprintf("Group %d", i+1)] = group.Label
		}
		response.ScopeLabel = strings.Join(labels, " & ")
	}

	// the two analysis types are independent, run them concurrently
	var (
		wg sync.WaitGroup

		comparison            *dtos.ComparisonResult
		comparisonFromService bool

		clinicalQuestions   []dtos.ClinicalQuestionGroup
		clinicalFromService bool
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		comparison, comparisonFromService = s.generateComparison(ctx, diseaseName, groups)
	}()
	go func() {
		defer wg.Done()
		clinicalQuestions, clinicalFromService = s.generateClinicalQuestions(ctx, diseaseName, groups)
	}()
	wg.Wait()

	response.SummaryTable = comparison.SummaryTable
	response.DetailedAnalysis = comparison.DetailedAnalysis
	response.ClinicalQuestions = clinicalQuestions
	response.HasAiAnalysis = comparisonFromService && clinicalFromService
	if !response.HasAiAnalysis {
		response.Error = fmt.Sprintf("Generative service produced no usable structured output after %d attempts; deterministic fallback content substituted.", s.Config.Llm.MaxAttempts)
	}

	fmt.Printf("[%s] - AI analysis complete. hasAiAnalysis=%t scope=%s\n", time.Now(), response.HasAiAnalysis, response.AnalysisScope)
	return response
}

// generateComparison walks Attempting(1..max); an attempt fails on a client
// error, empty text, failed extraction or missing required keys. On
// exhaustion the deterministic fallback is returned with fromService=false.
func (s *AiService) generateComparison(ctx context.Context, diseaseName string, groups []PrescriptionEnrichment) (result *dtos.ComparisonResult, fromService bool) {
	var prompt string
	if len(groups) == 1 {
		prompt = buildSinglePrompt(diseaseName, groups[0].Records)
	} else {
		prompt = buildComparativePrompt(diseaseName, groups)
	}

	for attempt := 1; attempt <= s.Config.Llm.MaxAttempts; attempt++ {
		fmt.Printf("[%s] - Comparison analysis attempt %d/%d\n", time.Now(), attempt, s.Config.Llm.MaxAttempts)

		text, completionErr := s.Client.Complete(ctx, prompt, true)
		if completionErr != nil || text == "" {
			fmt.Printf("[%s] - Comparison attempt %d failed: %v\n", time.Now(), attempt, completionErr)
			continue
		}

		parsed := ExtractObject(text)
		if parsed == nil {
			fmt.Printf("[%s] - Comparison attempt %d produced no parseable object\n", time.Now(), attempt)
			continue
		}

		if comparison, ok := newComparisonResult(parsed); ok {
			return comparison, true
		}
		fmt.Printf("[%s] - Comparison attempt %d missing required keys\n", time.Now(), attempt)
	}

	fmt.Printf("[%s] - All comparison attempts failed, substituting fallback\n", time.Now())
	return buildComparisonFallback(diseaseName, groups), false
}

// generateClinicalQuestions follows the same retry policy as
// generateComparison; an attempt additionally fails when the returned group
// count does not match the number of contributing prescriptions
func (s *AiService) generateClinicalQuestions(ctx context.Context, diseaseName string, groups []PrescriptionEnrichment) (questionGroups []dtos.ClinicalQuestionGroup, fromService bool) {
	var prompt string
	if len(groups) == 1 {
		prompt = buildSingleClinicalPrompt(diseaseName, groups[0].Records)
	} else {
		prompt = buildClinicalPrompt(diseaseName, groups)
	}

	for attempt := 1; attempt <= s.Config.Llm.MaxAttempts; attempt++ {
		fmt.Printf("[%s] - Clinical questions attempt %d/%d\n", time.Now(), attempt, s.Config.Llm.MaxAttempts)

		text, completionErr := s.Client.Complete(ctx, prompt, false)
		if completionErr != nil || text == "" {
			fmt.Printf("[%s] - Clinical questions attempt %d failed: %v\n", time.Now(), attempt, completionErr)
			continue
		}

		parsed := ExtractArray(text)
		if parsed == nil {
			fmt.Printf("[%s] - Clinical questions attempt %d produced no parseable array\n", time.Now(), attempt)
			continue
		}

		if decoded, ok := newClinicalQuestionGroups(parsed, len(groups)); ok {
			return decoded, true
		}
		fmt.Printf("[%s] - Clinical questions attempt %d produced an invalid group list\n", time.Now(), attempt)
	}

	fmt.Printf("[%s] - All clinical question attempts failed, substituting fallback\n", time.Now())
	return buildClinicalFallback(diseaseName, groups), false
}

// newComparisonResult validates and decodes an extracted object into the
// typed comparison shape: both keys present, at least one table row, every
// row carrying the fixed "Feature" column, and a non-empty narrative
func newComparisonResult(parsed map[string]interface{}) (*dtos.ComparisonResult, bool) {
	if _, ok := parsed["summary_table"]; !ok {
		return nil, false
	}
	if _, ok := parsed["detailed_analysis"]; !ok {
		return nil, false
	}

	var result dtos.ComparisonResult
	if decodeErr := weaklyDecode(parsed, &result); decodeErr != nil {
		return nil, false
	}

	if len(result.SummaryTable) == 0 || result.DetailedAnalysis == "" {
		return nil, false
	}
	for _, row := range result.SummaryTable {
		if _, ok := row["Feature"]; !ok {
			return nil, false
		}
	}

	return &result, true
}

// newClinicalQuestionGroups validates and decodes an extracted array into
// typed group cards; the group count must equal the number of prescriptions
// that contributed enrichment data
func newClinicalQuestionGroups(parsed []interface{}, expectedGroups int) ([]dtos.ClinicalQuestionGroup, bool) {
	if len(parsed) != expectedGroups {
		return nil, false
	}

	var decoded []dtos.ClinicalQuestionGroup
	if decodeErr := weaklyDecode(parsed, &decoded); decodeErr != nil {
		return nil, false
	}

	for _, group := range decoded {
		if group.GroupLabel == "" || len(group.ClinicalQuestions) == 0 {
			return nil, false
		}
	}

	return decoded, true
}

// weaklyDecode tolerates the loose typing of model output (numbers where
// strings are expected and the like)
func weaklyDecode(input interface{}, output interface{}) error {
	decoder, newErr := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           output,
	})
	if newErr != nil {
		return newErr
	}
	return decoder.Decode(input)
}
