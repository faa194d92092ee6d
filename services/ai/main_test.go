package aiService

import (
	"context"
	"errors"
	"sync"
	"testing"

	analysisScope "herbgene/api/models/constants/analysis-scope"
	"herbgene/api/models/dtos"
	common "herbgene/api/tests/common"

	"github.com/stretchr/testify/assert"
)

const (
	validComparisonBody = `{"summary_table": [{"Feature": "Key Pathways", "Group 1": "inflammation", "Group 2": "angiogenesis"}], "detailed_analysis": "Group 1 acts on inflammatory signalling while Group 2 targets vascular growth."}`
	validSingleBody     = `{"summary_table": [{"Feature": "Key Pathways", "Finding": "inflammation"}], "detailed_analysis": "The prescription acts on inflammatory signalling."}`

	validClinicalBodyTwoGroups = `[
		{"group_label": "Group 1: Rx A", "suspected_driver": "TNF signalling", "clinical_questions": ["Any joint pain?"], "rationale_hidden": "TNF terms dominate"},
		{"group_label": "Group 2: Rx B", "suspected_driver": "VEGF signalling", "clinical_questions": ["Any vision changes?"], "rationale_hidden": "VEGF terms dominate"}
	]`
	validClinicalBodyOneGroup = `[
		{"group_label": "Group 1: Rx A", "suspected_driver": "TNF signalling", "clinical_questions": ["Any joint pain?"], "rationale_hidden": "TNF terms dominate"}
	]`
)

// stubClient answers comparison prompts (json mode) and clinical prompts
// (plain mode) independently, failing the first `failuresBefore` calls of each
type stubClient struct {
	mu             sync.Mutex
	failuresBefore int
	comparisonBody string
	clinicalBody   string

	comparisonCalls int
	clinicalCalls   int
}

func (s *stubClient) Complete(ctx context.Context, prompt string, jsonMode bool) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if jsonMode {
		s.comparisonCalls++
		if s.comparisonCalls <= s.failuresBefore {
			return "", errors.New("upstream unavailable")
		}
		return s.comparisonBody, nil
	}

	s.clinicalCalls++
	if s.clinicalCalls <= s.failuresBefore {
		return "", errors.New("upstream unavailable")
	}
	return s.clinicalBody, nil
}

func makeRecords(terms ...string) []dtos.EnrichmentRecord {
	records := make([]dtos.EnrichmentRecord, 0, len(terms))
	for i, term := range terms {
		records = append(records, dtos.EnrichmentRecord{
			Rank:           i + 1,
			Term:           term,
			AdjustedPValue: 0.01,
			CombinedScore:  42.0,
		})
	}
	return records
}

func TestGenerateFullAnalysisComparativeFirstAttempt(t *testing.T) {
	cfg := common.InitConfig()
	client := &stubClient{
		comparisonBody: validComparisonBody,
		clinicalBody:   validClinicalBodyTwoGroups,
	}
	svc := NewAiService(cfg, client)

	response := svc.GenerateFullAnalysis(context.Background(), "Hypertension", []PrescriptionEnrichment{
		{Label: "Rx A", Records: makeRecords("TNF Signalling", "IL-6 Pathway")},
		{Label: "Rx B", Records: makeRecords("VEGF Signalling")},
	})

	assert.True(t, response.HasAiAnalysis)
	assert.Empty(t, response.Error)
	assert.Equal(t, analysisScope.Comparative, response.AnalysisScope)
	assert.Equal(t, "Rx A & Rx B", response.ScopeLabel)
	assert.Equal(t, map[string]string{"Group 1": "Rx A", "Group 2": "Rx B"}, response.GroupMapping)

	assert.Len(t, response.SummaryTable, 1)
	assert.Equal(t, "Key Pathways", response.SummaryTable[0]["Feature"])
	assert.NotEmpty(t, response.DetailedAnalysis)
	assert.Len(t, response.ClinicalQuestions, 2)

	assert.Equal(t, 1, client.comparisonCalls)
	assert.Equal(t, 1, client.clinicalCalls)
}

func TestGenerateFullAnalysisRetriesThenSucceedsOnFinalAttempt(t *testing.T) {
	cfg := common.InitConfig()
	client := &stubClient{
		failuresBefore: cfg.Llm.MaxAttempts - 1,
		comparisonBody: validComparisonBody,
		clinicalBody:   validClinicalBodyTwoGroups,
	}
	svc := NewAiService(cfg, client)

	response := svc.GenerateFullAnalysis(context.Background(), "Hypertension", []PrescriptionEnrichment{
		{Label: "Rx A", Records: makeRecords("TNF Signalling")},
		{Label: "Rx B", Records: makeRecords("VEGF Signalling")},
	})

	assert.True(t, response.HasAiAnalysis)
	assert.Equal(t, cfg.Llm.MaxAttempts, client.comparisonCalls)
	assert.Equal(t, cfg.Llm.MaxAttempts, client.clinicalCalls)
}

func TestGenerateFullAnalysisExhaustedAttemptsSubstitutesFallback(t *testing.T) {
	cfg := common.InitConfig()
	client := &stubClient{
		failuresBefore: cfg.Llm.MaxAttempts * 10, // never recovers
	}
	svc := NewAiService(cfg, client)

	response := svc.GenerateFullAnalysis(context.Background(), "Hypertension", []PrescriptionEnrichment{
		{Label: "Rx A", Records: makeRecords("TNF Signalling", "IL-6 Pathway", "NF-kB Cascade")},
		{Label: "Rx B", Records: makeRecords("VEGF Signalling")},
	})

	// the retry budget is respected per task
	assert.Equal(t, cfg.Llm.MaxAttempts, client.comparisonCalls)
	assert.Equal(t, cfg.Llm.MaxAttempts, client.clinicalCalls)

	// the shape is intact but flagged as fallback content
	assert.False(t, response.HasAiAnalysis)
	assert.NotEmpty(t, response.Error)
	assert.NotEmpty(t, response.SummaryTable)
	assert.Equal(t, "Status", response.SummaryTable[0]["Feature"])
	assert.Contains(t, response.DetailedAnalysis, "TNF Signalling")
	assert.Len(t, response.ClinicalQuestions, 2)
	assert.NotEmpty(t, response.ClinicalQuestions[0].ClinicalQuestions)
}

func TestGenerateFullAnalysisSingleScope(t *testing.T) {
	cfg := common.InitConfig()
	client := &stubClient{
		comparisonBody: validSingleBody,
		clinicalBody:   validClinicalBodyOneGroup,
	}
	svc := NewAiService(cfg, client)

	response := svc.GenerateFullAnalysis(context.Background(), "Hypertension", []PrescriptionEnrichment{
		{Label: "Rx A", Records: makeRecords("TNF Signalling")},
	})

	assert.True(t, response.HasAiAnalysis)
	assert.Equal(t, analysisScope.Single, response.AnalysisScope)
	assert.Equal(t, "Rx A only", response.ScopeLabel)
	assert.Equal(t, map[string]string{"Finding": "Rx A"}, response.GroupMapping)
	assert.Len(t, response.ClinicalQuestions, 1)
}

func TestGenerateFullAnalysisEmptyGroupsAreExcludedFromScope(t *testing.T) {
	cfg := common.InitConfig()
	client := &stubClient{
		comparisonBody: validSingleBody,
		clinicalBody:   validClinicalBodyOneGroup,
	}
	svc := NewAiService(cfg, client)

	// the second prescription produced no enrichment data, so the analysis
	// degrades to single scope
	response := svc.GenerateFullAnalysis(context.Background(), "Hypertension", []PrescriptionEnrichment{
		{Label: "Rx A", Records: makeRecords("TNF Signalling")},
		{Label: "Rx B", Records: nil},
	})

	assert.Equal(t, analysisScope.Single, response.AnalysisScope)
	assert.Equal(t, "Rx A only", response.ScopeLabel)
}

func TestGenerateFullAnalysisNoDataSkipsGenerativeCalls(t *testing.T) {
	cfg := common.InitConfig()
	client := &stubClient{}
	svc := NewAiService(cfg, client)

	response := svc.GenerateFullAnalysis(context.Background(), "Hypertension", []PrescriptionEnrichment{
		{Label: "Rx A", Records: nil},
	})

	assert.Equal(t, analysisScope.NoData, response.AnalysisScope)
	assert.False(t, response.HasAiAnalysis)
	assert.NotEmpty(t, response.Error)
	assert.Equal(t, 0, client.comparisonCalls)
	assert.Equal(t, 0, client.clinicalCalls)
}

func TestGenerateFullAnalysisRejectsWrongClinicalGroupCount(t *testing.T) {
	cfg := common.InitConfig()
	client := &stubClient{
		comparisonBody: validComparisonBody,
		clinicalBody:   validClinicalBodyOneGroup, // one card for two groups
	}
	svc := NewAiService(cfg, client)

	response := svc.GenerateFullAnalysis(context.Background(), "Hypertension", []PrescriptionEnrichment{
		{Label: "Rx A", Records: makeRecords("TNF Signalling")},
		{Label: "Rx B", Records: makeRecords("VEGF Signalling")},
	})

	// every attempt is rejected for the count mismatch; the clinical side
	// falls back while the comparison side still comes from the service
	assert.Equal(t, cfg.Llm.MaxAttempts, client.clinicalCalls)
	assert.False(t, response.HasAiAnalysis)
	assert.Len(t, response.ClinicalQuestions, 2)
}
