package aiService

import (
	"fmt"
	"strings"

	"herbgene/api/models/dtos"
)

// Deterministic fallback content, built purely from the already-computed
// enrichment records. Substituted when the generative service fails to
// produce usable structured output after all retries, so the caller always
// receives a structurally valid result.

func buildComparisonFallback(diseaseName string, groups []PrescriptionEnrichment) *dtos.ComparisonResult {
	tableRow := map[string]string{"Feature": "Status"}
	if len(groups) == 1 {
		tableRow["Finding"] = "AI analysis unavailable"
	} else {
		for i := range groups {
			tableRow[fmt.Sprintf("Group %d", i+1)] = "AI analysis unavailable"
		}
	}

	detailLines := []string{fmt.Sprintf("## Analysis for %s\n", diseaseName)}
	for i, group := range groups {
		detailLines = append(detailLines, fmt.Sprintf("**Group %d (%s):** Top associations include: %s.\n",
			i+1, group.Label, strings.Join(topTermNames(group.Records, 5), ", ")))
	}
	detailLines = append(detailLines, "*Automated AI analysis could not be completed. The enrichment data above is provided for manual review.*")

	return &dtos.ComparisonResult{
		SummaryTable:     []map[string]string{tableRow},
		DetailedAnalysis: strings.Join(detailLines, "\n"),
	}
}

func buildClinicalFallback(diseaseName string, groups []PrescriptionEnrichment) []dtos.ClinicalQuestionGroup {
	fallbackGroups := make([]dtos.ClinicalQuestionGroup, 0, len(groups))
	for i, group := range groups {
		fallbackGroups = append(fallbackGroups, dtos.ClinicalQuestionGroup{
			GroupLabel:      fmt.Sprintf("Group %d: %s", i+1, group.Label),
			SuspectedDriver: fmt.Sprintf("Associated with: %s", strings.Join(topTermNames(group.Records, 3), ", ")),
			ClinicalQuestions: []string{
				fmt.Sprintf("Do you have a history of conditions related to %s?", diseaseName),
				"Are you currently taking any medications?",
				"Do you have a family history of this condition?",
				"Have you noticed any recent changes in symptoms?",
			},
			RationaleHidden: fmt.Sprintf("**Note:** Automated AI analysis could not be completed. These are general screening questions for %s. Please review the enrichment data for specific pathway-driven questions.", diseaseName),
		})
	}
	return fallbackGroups
}

func topTermNames(records []dtos.EnrichmentRecord, topN int) []string {
	if topN > len(records) {
		topN = len(records)
	}
	names := make([]string, 0, topN)
	for _, record := range records[:topN] {
		names = append(names, record.Term)
	}
	return names
}
