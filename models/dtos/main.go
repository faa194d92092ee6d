package dtos

import (
	"herbgene/api/models/constants"
)

// ---- gene-set analysis

// EnrichmentRecord : one ranked term returned by the enrichment service,
// unpacked from its raw 9-tuple representation
type EnrichmentRecord struct {
	Rank                 int      `json:"rank"`
	Term                 string   `json:"term"`
	PValue               float64  `json:"pValue"`
	ZScore               float64  `json:"zScore"`
	CombinedScore        float64  `json:"combinedScore"`
	OverlappingGenes     []string `json:"overlappingGenes"`
	AdjustedPValue       float64  `json:"adjustedPValue"`
	LegacyPValue         float64  `json:"legacyPValue"`
	LegacyAdjustedPValue float64  `json:"legacyAdjustedPValue"`
}

type PrescriptionResult struct {
	Index           int                `json:"index"` // 1-based, as displayed
	Herbs           []string           `json:"herbs"`
	GeneCount       int                `json:"geneCount"`
	MissingHerbs    []string           `json:"missingHerbs"`
	CommonGenes     []string           `json:"commonGenes"`
	CommonGeneCount int                `json:"commonGeneCount"`
	UniqueGenes     []string           `json:"uniqueGenes"`
	UniqueGeneCount int                `json:"uniqueGeneCount"`
	Enrichment      []EnrichmentRecord `json:"enrichment"`
}

type AnalysisResponse struct {
	Id               string               `json:"id,omitempty"`
	DiseaseName      string               `json:"diseaseName"`
	DiseaseGeneCount int                  `json:"diseaseGeneCount"`
	Prescriptions    []PrescriptionResult `json:"prescriptions"`
	Errors           []string             `json:"errors"`
}

type AnalysisRequest struct {
	Disease       string     `json:"disease"`
	Prescriptions [][]string `json:"prescriptions"`
}

// ---- AI analysis

type PrescriptionEnrichmentInput struct {
	Label   string             `json:"label"`
	Records []EnrichmentRecord `json:"records"`
}

type AiAnalysisRequest struct {
	DiseaseName             string                        `json:"disease_name"`
	PrescriptionEnrichments []PrescriptionEnrichmentInput `json:"prescription_enrichments"`
	AnalysisId              string                        `json:"analysis_id,omitempty"` // optional: persist the AI result onto this history document
}

// ClinicalQuestionGroup : one interview-guide card for one prescription group
type ClinicalQuestionGroup struct {
	GroupLabel        string   `json:"group_label" mapstructure:"group_label"`
	SuspectedDriver   string   `json:"suspected_driver" mapstructure:"suspected_driver"`
	ClinicalQuestions []string `json:"clinical_questions" mapstructure:"clinical_questions"`
	RationaleHidden   string   `json:"rationale_hidden" mapstructure:"rationale_hidden"`
}

// ComparisonResult : the "comparison table + narrative" shape. Each summary
// row carries a fixed "Feature" key plus one value per prescription group.
type ComparisonResult struct {
	SummaryTable     []map[string]string `json:"summary_table" mapstructure:"summary_table"`
	DetailedAnalysis string              `json:"detailed_analysis" mapstructure:"detailed_analysis"`
}

// AiAnalysisResponse is the caller-facing AI analysis contract. Its shape is
// identical whether the content came from the generative service or from the
// deterministic fallback; HasAiAnalysis distinguishes the two.
type AiAnalysisResponse struct {
	SummaryTable      []map[string]string     `json:"summary_table"`
	DetailedAnalysis  string                  `json:"detailed_analysis"`
	ClinicalQuestions []ClinicalQuestionGroup `json:"clinical_questions"`
	HasAiAnalysis     bool                    `json:"has_ai_analysis"`
	AnalysisScope     constants.AnalysisScope `json:"analysis_scope"`
	ScopeLabel        string                  `json:"scope_label"`   // e.g. "Prescription 1 & Prescription 2"
	GroupMapping      map[string]string       `json:"group_mapping"` // table column -> prescription label
	Error             string                  `json:"error,omitempty"`
}

// ---- catalog

type SuggestionsResponse struct {
	Term    string   `json:"term"`
	Count   int      `json:"count"`
	Results []string `json:"results"`
	Status  int      `json:"status"`
	Message string   `json:"message"`
}

type HerbValidationResponse struct {
	Valid bool   `json:"valid"`
	Name  string `json:"name,omitempty"`
}

type CompoundGenes struct {
	Compound  string   `json:"compound"`
	Genes     []string `json:"genes"`
	GeneCount int      `json:"geneCount"`
}

type HerbGenesResponse struct {
	Herb           string          `json:"herb"`
	Compounds      []CompoundGenes `json:"compounds"`
	TotalCompounds int             `json:"totalCompounds"`
	TotalGenes     int             `json:"totalGenes"`
}

type DiseaseGeneEntry struct {
	Gene   string `json:"gene"`
	GeneId string `json:"geneId"`
	Score  string `json:"score"`
}

type DiseaseGenesResponse struct {
	Disease string             `json:"disease"`
	Count   int                `json:"count"`
	Genes   []DiseaseGeneEntry `json:"genes"`
}

type OverviewResponse struct {
	Diseases int `json:"diseases"`
	Herbs    int `json:"herbs"`
	Analyses int `json:"analyses"`
}

// ---- history

type AnalysisHistoryEntry struct {
	Id                 string `json:"id"`
	DiseaseName        string `json:"diseaseName"`
	PrescriptionsCount int    `json:"prescriptionsCount"`
	HerbsCount         int    `json:"herbsCount"`
	CommonGenesCount   int    `json:"commonGenesCount"`
	CreatedAt          string `json:"createdAt"`
}

type AnalysisHistoryResponse struct {
	Data       []AnalysisHistoryEntry `json:"data"`
	Total      int                    `json:"total"`
	Page       int                    `json:"page"`
	PerPage    int                    `json:"perPage"`
	TotalPages int                    `json:"totalPages"`
}
