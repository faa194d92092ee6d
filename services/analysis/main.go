package analysisService

import (
	"context"
	"fmt"
	"strings"
	"time"

	"herbgene/api/models"
	"herbgene/api/models/dtos"
	enrichmentService "herbgene/api/services/enrichment"
	genesetService "herbgene/api/services/geneset"

	"github.com/elastic/go-elasticsearch/v7"
)

type (
	AnalysisService struct {
		Config     *models.Config
		Es7Client  *elasticsearch.Client
		GeneSets   *genesetService.GeneSetService
		Enrichment *enrichmentService.EnrichmentService
	}
)

func NewAnalysisService(es *elasticsearch.Client, cfg *models.Config) *AnalysisService {
	return &AnalysisService{
		Config:     cfg,
		Es7Client:  es,
		GeneSets:   genesetService.NewGeneSetService(es, cfg),
		Enrichment: enrichmentService.NewEnrichmentService(cfg),
	}
}

// Analyze runs the whole gene-set pipeline: disease/herb resolution, common
// and unique gene computation, and enrichment for every prescription whose
// unique gene set is non-empty. The response shape is always consistent;
// non-fatal problems are collected into Errors and the analysis continues
// with whatever was resolved.
func (s *AnalysisService) Analyze(ctx context.Context, diseaseName string, herbLists [][]string) *dtos.AnalysisResponse {
	fmt.Printf("[%s] - Analyzing %d prescription(s) for disease: %s\n", time.Now(), len(herbLists), diseaseName)

	response := &dtos.AnalysisResponse{
		DiseaseName:   diseaseName,
		Prescriptions: []dtos.PrescriptionResult{},
		Errors:        []string{},
	}

	// disease genes
	diseaseGenes, diseaseErr := s.GeneSets.ResolveDiseaseGenes(ctx, diseaseName)
	if diseaseErr != nil {
		fmt.Printf("[%s] - %v\n", time.Now(), diseaseErr)
		response.Errors = append(response.Errors, fmt.Sprintf("Could not look up disease genes for: %s", diseaseName))
		return response
	}
	response.DiseaseGeneCount = len(diseaseGenes)

	if len(diseaseGenes) == 0 {
		response.Errors = append(response.Errors, fmt.Sprintf("No genes found for disease: %s", diseaseName))
		return response
	}

	// herb genes, one batched lookup per prescription
	allHerbGenes := make([][]string, 0, len(herbLists))
	for i, herbNames := range herbLists {
		herbGenes, missingHerbs, herbErr := s.GeneSets.ResolveHerbGenes(ctx, herbNames)
		if herbErr != nil {
			fmt.Printf("[%s] - %v\n", time.Now(), herbErr)
			response.Errors = append(response.Errors, fmt.Sprintf("Prescription %d: herb gene lookup failed", i+1))
			herbGenes, missingHerbs = []string{}, []string{}
		}

		response.Prescriptions = append(response.Prescriptions, dtos.PrescriptionResult{
			Index:        i + 1,
			Herbs:        herbNames,
			GeneCount:    len(herbGenes),
			MissingHerbs: missingHerbs,
			Enrichment:   []dtos.EnrichmentRecord{},
		})
		allHerbGenes = append(allHerbGenes, herbGenes)

		if len(missingHerbs) > 0 {
			response.Errors = append(response.Errors,
				fmt.Sprintf("Prescription %d: Herbs not found - %s", i+1, strings.Join(missingHerbs, ", ")))
		}
	}

	// common genes
	commonGenes := genesetService.CommonGenes(diseaseGenes, allHerbGenes)

	anyCommon := false
	for i, genes := range commonGenes {
		response.Prescriptions[i].CommonGenes = genes
		response.Prescriptions[i].CommonGeneCount = len(genes)
		if len(genes) > 0 {
			anyCommon = true
		}
	}
	if !anyCommon {
		response.Errors = append(response.Errors, "No common genes found between disease and any prescription")
		return response
	}

	// unique genes
	uniqueGenes := genesetService.UniqueGenes(commonGenes)
	for i, genes := range uniqueGenes {
		response.Prescriptions[i].UniqueGenes = genes
		response.Prescriptions[i].UniqueGeneCount = len(genes)
	}

	// enrichment, for non-empty unique sets only
	taggedGeneLists := make([]enrichmentService.TaggedGeneList, 0, len(uniqueGenes))
	for i, genes := range uniqueGenes {
		if len(genes) > 0 {
			taggedGeneLists = append(taggedGeneLists, enrichmentService.TaggedGeneList{
				PrescriptionIndex: i,
				Genes:             genes,
			})
		}
	}

	if len(taggedGeneLists) > 0 {
		uploads := s.Enrichment.UploadGeneLists(ctx, taggedGeneLists)
		if len(uploads) < len(taggedGeneLists) {
			response.Errors = append(response.Errors, "Enrichment analysis error: one or more gene list uploads failed")
		}

		recordsByPrescription := s.Enrichment.FetchEnrichment(ctx, uploads, "")
		for prescriptionIndex, records := range recordsByPrescription {
			response.Prescriptions[prescriptionIndex].Enrichment = records
		}
	}

	return response
}
