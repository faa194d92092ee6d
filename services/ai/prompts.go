package aiService

import (
	"fmt"
	"strings"

	"herbgene/api/models/dtos"
)

// formatEnrichmentRecords renders the top records as numbered lines the
// generative service can reason over
func formatEnrichmentRecords(records []dtos.EnrichmentRecord, topN int) string {
	if len(records) == 0 {
		return "No enrichment data available."
	}

	if topN > len(records) {
		topN = len(records)
	}

	lines := make([]string, 0, topN)
	for i, record := range records[:topN] {
		lines = append(lines, fmt.Sprintf("%d. %s (p-value: %.2e, score: %.1f)",
			i+1, record.Term, record.AdjustedPValue, record.CombinedScore))
	}

	return strings.Join(lines, "\n")
}

func formatGroups(groups []PrescriptionEnrichment, topN int) string {
	groupsText := make([]string, 0, len(groups))
	for i, group := range groups {
		groupsText = append(groupsText, fmt.Sprintf("**Group %d (%s):**\n%s",
			i+1, group.Label, formatEnrichmentRecords(group.Records, topN)))
	}
	return strings.Join(groupsText, "\n\n")
}

func buildComparativePrompt(diseaseName string, groups []PrescriptionEnrichment) string {
	groupColumns := make([]string, 0, len(groups))
	for i := range groups {
		groupColumns = append(groupColumns, fmt.Sprintf("\"Group %d\"", i+1))
	}

	return fmt.Sprintf(`You are an expert Research Scientist in pathology and bioinformatics. Your task is to perform a comparative analysis of multiple disease clusters provided by the user.

The user is studying **%s** with the following enrichment analysis results:

%s

You must return your response in a strict JSON format with exactly two keys: "summary_table" and "detailed_analysis".

1. "summary_table":
   - An array of objects representing the rows of a comparison table.
   - Each object must have the keys: "Feature", %s.
   - Include rows for: "Primary Driver", "Key Tissue", "Main Consequence", and "Cancer Risk".
   - Keep the values in this table concise (under 10 words).

2. "detailed_analysis":
   - A single string containing a comprehensive, Markdown-formatted report.
   - This report must include:
     - "1. The High-Level Comparison": A brief summary of the fundamental differences.
     - "2. Deep Dive into Pathways": A detailed breakdown of the mechanism for each group.
     - Use bolding and bullet points for readability.

Do not include any text outside the JSON object.`,
		diseaseName, formatGroups(groups, 10), strings.Join(groupColumns, ", "))
}

func buildSinglePrompt(diseaseName string, records []dtos.EnrichmentRecord) string {
	return fmt.Sprintf(`You are an expert Research Scientist in pathology and bioinformatics. Analyze the gene enrichment results for a traditional herbal prescription targeting **%s**.

Enrichment Results:
%s

You must return your response in a strict JSON format with exactly two keys: "summary_table" and "detailed_analysis".

1. "summary_table":
   - An array of objects with keys: "Feature", "Finding".
   - Include rows for: "Primary Driver", "Key Tissue", "Main Consequence", "Cancer Risk".
   - Keep values concise (under 10 words).

2. "detailed_analysis":
   - A Markdown-formatted report including:
     - "1. Key Findings": Main discoveries from the enrichment analysis.
     - "2. Mechanism of Action": How the prescription may work for %s.
     - Use bolding and bullet points for readability.

Do not include any text outside the JSON object.`,
		diseaseName, formatEnrichmentRecords(records, 10), diseaseName)
}

func buildClinicalPrompt(diseaseName string, groups []PrescriptionEnrichment) string {
	return fmt.Sprintf(`You are a senior clinical diagnostician. Your task is to analyze the provided disease groups and generate a structured clinical interview guide.

The patient is being evaluated for **%s**. Here are the enrichment analysis results showing associated conditions and pathways:

%s

You must return your response in a strict JSON format.
The JSON must be a single list (array) of objects, where each object represents one disease group.

Each object in the list must contain exactly these keys:
1. "group_label": A short, descriptive title for the group (e.g., "Group 1: Vascular & Tobacco").
2. "suspected_driver": A concise summary of the underlying pathology (e.g., "Systemic Nicotine Toxicity").
3. "clinical_questions": An array of strings. Each string is a specific high-yield question the doctor should ask the patient.
4. "rationale_hidden": A Markdown-formatted string explaining *why* these questions are critical and what the doctor should look for. This will be shown only when requested.

Generate exactly %d group objects, one for each prescription group.

Do not include any text outside the JSON array.`,
		diseaseName, formatGroups(groups, 5), len(groups))
}

func buildSingleClinicalPrompt(diseaseName string, records []dtos.EnrichmentRecord) string {
	return fmt.Sprintf(`You are a senior clinical diagnostician. Your task is to analyze the provided disease pathway data and generate a structured clinical interview guide.

The patient is being evaluated for **%s**. Here are the enrichment analysis results:

%s

You must return your response in a strict JSON format.
The JSON must be a single list (array) containing exactly ONE object representing this analysis.

The object must contain exactly these keys:
1. "group_label": A short, descriptive title (e.g., "Prescription Analysis: Key Pathways").
2. "suspected_driver": A concise summary of the underlying pathology being screened.
3. "clinical_questions": An array of strings. Each string is a specific high-yield question the doctor should ask the patient. Include 5-8 questions.
4. "rationale_hidden": A Markdown-formatted string explaining *why* these questions are critical and what the doctor should look for. This will be shown only when requested.

Do not include any text outside the JSON array.`,
		diseaseName, formatEnrichmentRecords(records, 8))
}
