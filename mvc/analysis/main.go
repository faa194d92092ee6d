package analysisMvc

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"herbgene/api/contexts"
	"herbgene/api/models/dtos"
	"herbgene/api/models/indexes"
	esRepo "herbgene/api/repositories/elasticsearch"
	aiService "herbgene/api/services/ai"
	"herbgene/api/utils"

	"github.com/google/uuid"
	"github.com/labstack/echo"
)

func RunAnalysis(c echo.Context) error {
	fmt.Printf("[%s] - RunAnalysis hit!\n", time.Now())
	gc := c.(*contexts.HerbGeneContext)

	var request dtos.AnalysisRequest
	if bindErr := c.Bind(&request); bindErr != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid analysis request payload!")
	}

	diseaseName := strings.TrimSpace(request.Disease)
	if diseaseName == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Please provide a disease name!")
	}

	// trim herb names, drop empties and case-insensitive duplicates,
	// drop empty prescriptions
	herbLists := [][]string{}
	for _, herbs := range request.Prescriptions {
		cleaned := []string{}
		for _, herb := range herbs {
			trimmed := strings.TrimSpace(herb)
			if trimmed == "" || utils.StringInSliceFold(trimmed, cleaned) {
				continue
			}
			cleaned = append(cleaned, trimmed)
		}
		if len(cleaned) > 0 {
			herbLists = append(herbLists, cleaned)
		}
	}
	if len(herbLists) == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "Please add at least one prescription with herbs!")
	}

	response := gc.AnalysisService.Analyze(c.Request().Context(), diseaseName, herbLists)

	// persist to history; a save failure must not fail the analysis itself
	if analysisId, saveErr := saveAnalysis(gc, diseaseName, herbLists, response); saveErr != nil {
		fmt.Printf("[%s] - Error saving analysis result: %v\n", time.Now(), saveErr)
	} else {
		response.Id = analysisId
	}

	return c.JSON(http.StatusOK, response)
}

func saveAnalysis(gc *contexts.HerbGeneContext, diseaseName string, herbLists [][]string, response *dtos.AnalysisResponse) (string, error) {
	prescriptionsJson, marshalErr := json.Marshal(herbLists)
	if marshalErr != nil {
		return "", marshalErr
	}
	resultsJson, marshalErr := json.Marshal(response)
	if marshalErr != nil {
		return "", marshalErr
	}

	commonGenesCount := 0
	for _, prescription := range response.Prescriptions {
		commonGenesCount += prescription.CommonGeneCount
	}

	analysis := &indexes.Analysis{
		Id:               uuid.New().String(),
		DiseaseName:      diseaseName,
		Prescriptions:    string(prescriptionsJson),
		ResultsJson:      string(resultsJson),
		CommonGenesCount: commonGenesCount,
		CreatedAt:        time.Now().UTC().Format(time.RFC3339),
	}

	if indexErr := esRepo.IndexAnalysis(gc.Request().Context(), gc.Config, gc.Es7Client, analysis); indexErr != nil {
		return "", indexErr
	}

	return analysis.Id, nil
}

func RunAiAnalysis(c echo.Context) error {
	fmt.Printf("[%s] - RunAiAnalysis hit!\n", time.Now())
	gc := c.(*contexts.HerbGeneContext)

	if gc.Config.Llm.ApiKey == "" {
		return c.JSON(http.StatusServiceUnavailable, map[string]interface{}{
			"error":           "AI analysis not configured. Please set the HERBGENE_LLM_API_KEY environment variable.",
			"has_ai_analysis": false,
		})
	}

	var request dtos.AiAnalysisRequest
	if bindErr := c.Bind(&request); bindErr != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid AI analysis request payload!")
	}
	if strings.TrimSpace(request.DiseaseName) == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Disease name is required!")
	}

	enrichments := make([]aiService.PrescriptionEnrichment, 0, len(request.PrescriptionEnrichments))
	for _, input := range request.PrescriptionEnrichments {
		enrichments = append(enrichments, aiService.PrescriptionEnrichment{
			Label:   input.Label,
			Records: input.Records,
		})
	}

	aiResponse := gc.AiService.GenerateFullAnalysis(c.Request().Context(), request.DiseaseName, enrichments)

	// optionally attach the AI result to an existing history document
	if request.AnalysisId != "" && aiResponse.HasAiAnalysis {
		if aiJson, marshalErr := json.Marshal(aiResponse); marshalErr == nil {
			if saveErr := esRepo.SetAnalysisAiResult(c.Request().Context(), gc.Config, gc.Es7Client, request.AnalysisId, string(aiJson)); saveErr != nil {
				fmt.Printf("[%s] - Error saving AI analysis: %v\n", time.Now(), saveErr)
			}
		}
	}

	return c.JSON(http.StatusOK, aiResponse)
}

func GetAiAnalysisStatus(c echo.Context) error {
	fmt.Printf("[%s] - GetAiAnalysisStatus hit!\n", time.Now())
	gc := c.(*contexts.HerbGeneContext)

	available := gc.Config.Llm.ApiKey != ""
	message := "AI analysis is available"
	if !available {
		message = "HERBGENE_LLM_API_KEY not configured"
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"available": available,
		"message":   message,
	})
}

func GetAnalysisHistory(c echo.Context) error {
	fmt.Printf("[%s] - GetAnalysisHistory hit!\n", time.Now())
	gc := c.(*contexts.HerbGeneContext)

	page := queryParamAsInt(c, "page", 1)
	perPage := queryParamAsInt(c, "perPage", 10)

	analyses, total, historyErr := esRepo.GetAnalyses(c.Request().Context(), gc.Config, gc.Es7Client, page, perPage)
	if historyErr != nil {
		fmt.Printf("[%s] - %v\n", time.Now(), historyErr)
		return c.JSON(http.StatusInternalServerError, map[string]interface{}{
			"status":  500,
			"message": "Something went wrong... Please contact the administrator!",
		})
	}

	entries := make([]dtos.AnalysisHistoryEntry, 0, len(analyses))
	for _, analysis := range analyses {
		var herbLists [][]string
		json.Unmarshal([]byte(analysis.Prescriptions), &herbLists)

		herbsCount := 0
		for _, herbs := range herbLists {
			herbsCount += len(herbs)
		}

		entries = append(entries, dtos.AnalysisHistoryEntry{
			Id:                 analysis.Id,
			DiseaseName:        analysis.DiseaseName,
			PrescriptionsCount: len(herbLists),
			HerbsCount:         herbsCount,
			CommonGenesCount:   analysis.CommonGenesCount,
			CreatedAt:          analysis.CreatedAt,
		})
	}

	return c.JSON(http.StatusOK, dtos.AnalysisHistoryResponse{
		Data:       entries,
		Total:      total,
		Page:       page,
		PerPage:    perPage,
		TotalPages: (total + perPage - 1) / perPage,
	})
}

func GetAnalysisById(c echo.Context) error {
	fmt.Printf("[%s] - GetAnalysisById hit!\n", time.Now())
	gc := c.(*contexts.HerbGeneContext)

	id := strings.TrimSpace(c.QueryParam("id"))
	if id == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Missing 'id' query parameter!")
	}

	analysis, getErr := esRepo.GetAnalysisById(c.Request().Context(), gc.Config, gc.Es7Client, id)
	if getErr != nil {
		fmt.Printf("[%s] - %v\n", time.Now(), getErr)
		return c.JSON(http.StatusInternalServerError, map[string]interface{}{
			"status":  500,
			"message": "Something went wrong... Please contact the administrator!",
		})
	}
	if analysis == nil {
		return c.JSON(http.StatusNotFound, map[string]interface{}{"error": "Analysis not found"})
	}

	var (
		herbLists  [][]string
		results    map[string]interface{}
		aiAnalysis map[string]interface{}
	)
	json.Unmarshal([]byte(analysis.Prescriptions), &herbLists)
	json.Unmarshal([]byte(analysis.ResultsJson), &results)
	if analysis.AiAnalysisJson != "" {
		json.Unmarshal([]byte(analysis.AiAnalysisJson), &aiAnalysis)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"id":            analysis.Id,
		"diseaseName":   analysis.DiseaseName,
		"prescriptions": herbLists,
		"results":       results,
		"aiAnalysis":    aiAnalysis,
		"createdAt":     analysis.CreatedAt,
	})
}

func DeleteAnalysis(c echo.Context) error {
	fmt.Printf("[%s] - DeleteAnalysis hit!\n", time.Now())
	gc := c.(*contexts.HerbGeneContext)

	id := strings.TrimSpace(c.QueryParam("id"))
	if id == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Missing 'id' query parameter!")
	}

	found, deleteErr := esRepo.DeleteAnalysisById(c.Request().Context(), gc.Config, gc.Es7Client, id)
	if deleteErr != nil {
		fmt.Printf("[%s] - %v\n", time.Now(), deleteErr)
		return c.JSON(http.StatusInternalServerError, map[string]interface{}{
			"status":  500,
			"message": "Something went wrong... Please contact the administrator!",
		})
	}
	if !found {
		return c.JSON(http.StatusNotFound, map[string]interface{}{"error": "Analysis not found"})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{"success": true})
}

func queryParamAsInt(c echo.Context, name string, defaultValue int) int {
	raw := c.QueryParam(name)
	if raw == "" {
		return defaultValue
	}
	value, castErr := strconv.Atoi(raw)
	if castErr != nil || value < 1 {
		return defaultValue
	}
	return value
}
