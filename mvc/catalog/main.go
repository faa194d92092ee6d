package catalogMvc

import (
	"fmt"
	"net/http"
	"sort"
	"strings"
	"sync"
	"time"

	"herbgene/api/contexts"
	"herbgene/api/models/dtos"
	esRepo "herbgene/api/repositories/elasticsearch"
	"herbgene/api/utils"

	"github.com/labstack/echo"
)

func GetDiseaseSuggestions(c echo.Context) error {
	fmt.Printf("[%s] - GetDiseaseSuggestions hit!\n", time.Now())
	gc := c.(*contexts.HerbGeneContext)
	cfg := gc.Config
	es := gc.Es7Client

	term := strings.TrimSpace(c.QueryParam("term"))
	maxSuggestions := cfg.Catalog.MaxSuggestions

	// overfetch, then re-rank by relevance locally
	names, searchErr := esRepo.GetDiseaseNamesByWildcard(c.Request().Context(), cfg, es, term, maxSuggestions*3)
	if searchErr != nil {
		fmt.Printf("[%s] - %v\n", time.Now(), searchErr)
		return c.JSON(http.StatusInternalServerError, map[string]interface{}{
			"status":  500,
			"message": "Something went wrong... Please contact the administrator!",
		})
	}

	suggestions := rankSuggestions(names, term, maxSuggestions)

	return c.JSON(http.StatusOK, dtos.SuggestionsResponse{
		Term:    term,
		Count:   len(suggestions),
		Results: suggestions,
		Status:  200,
		Message: "Success",
	})
}

func GetHerbSuggestions(c echo.Context) error {
	fmt.Printf("[%s] - GetHerbSuggestions hit!\n", time.Now())
	gc := c.(*contexts.HerbGeneContext)
	cfg := gc.Config
	es := gc.Es7Client

	term := strings.TrimSpace(c.QueryParam("term"))
	maxSuggestions := cfg.Catalog.MaxSuggestions

	names, searchErr := esRepo.GetHerbNamesByWildcard(c.Request().Context(), cfg, es, term, maxSuggestions*3)
	if searchErr != nil {
		fmt.Printf("[%s] - %v\n", time.Now(), searchErr)
		return c.JSON(http.StatusInternalServerError, map[string]interface{}{
			"status":  500,
			"message": "Something went wrong... Please contact the administrator!",
		})
	}

	suggestions := rankSuggestions(names, term, maxSuggestions)

	return c.JSON(http.StatusOK, dtos.SuggestionsResponse{
		Term:    term,
		Count:   len(suggestions),
		Results: suggestions,
		Status:  200,
		Message: "Success",
	})
}

func ValidateHerb(c echo.Context) error {
	fmt.Printf("[%s] - ValidateHerb hit!\n", time.Now())
	gc := c.(*contexts.HerbGeneContext)

	name := strings.TrimSpace(c.QueryParam("name"))
	if name == "" {
		return c.JSON(http.StatusOK, dtos.HerbValidationResponse{Valid: false})
	}

	associations, lookupErr := esRepo.GetGenesByHerbNames(c.Request().Context(), gc.Config, gc.Es7Client, []string{name})
	if lookupErr != nil {
		fmt.Printf("[%s] - %v\n", time.Now(), lookupErr)
		return c.JSON(http.StatusInternalServerError, map[string]interface{}{
			"status":  500,
			"message": "Something went wrong... Please contact the administrator!",
		})
	}

	if len(associations) == 0 {
		return c.JSON(http.StatusOK, dtos.HerbValidationResponse{Valid: false})
	}

	// return the store's canonical casing
	return c.JSON(http.StatusOK, dtos.HerbValidationResponse{
		Valid: true,
		Name:  associations[0].HerbName,
	})
}

func GetDiseaseGenes(c echo.Context) error {
	fmt.Printf("[%s] - GetDiseaseGenes hit!\n", time.Now())
	gc := c.(*contexts.HerbGeneContext)

	diseaseName := strings.TrimSpace(c.QueryParam("disease"))

	associations, lookupErr := esRepo.GetGenesByDiseaseName(c.Request().Context(), gc.Config, gc.Es7Client, diseaseName)
	if lookupErr != nil {
		fmt.Printf("[%s] - %v\n", time.Now(), lookupErr)
		return c.JSON(http.StatusInternalServerError, map[string]interface{}{
			"status":  500,
			"message": "Something went wrong... Please contact the administrator!",
		})
	}

	genes := make([]dtos.DiseaseGeneEntry, 0, len(associations))
	for _, association := range associations {
		genes = append(genes, dtos.DiseaseGeneEntry{
			Gene:   association.GeneName,
			GeneId: association.GeneId,
			Score:  association.Score,
		})
	}
	sort.Slice(genes, func(i, j int) bool { return genes[i].Gene < genes[j].Gene })

	return c.JSON(http.StatusOK, dtos.DiseaseGenesResponse{
		Disease: diseaseName,
		Count:   len(genes),
		Genes:   genes,
	})
}

func GetHerbGenes(c echo.Context) error {
	fmt.Printf("[%s] - GetHerbGenes hit!\n", time.Now())
	gc := c.(*contexts.HerbGeneContext)

	herbName := strings.TrimSpace(c.QueryParam("herb"))

	associations, lookupErr := esRepo.GetGenesByHerbNames(c.Request().Context(), gc.Config, gc.Es7Client, []string{herbName})
	if lookupErr != nil {
		fmt.Printf("[%s] - %v\n", time.Now(), lookupErr)
		return c.JSON(http.StatusInternalServerError, map[string]interface{}{
			"status":  500,
			"message": "Something went wrong... Please contact the administrator!",
		})
	}

	// group genes by compound, preserving first-seen compound order
	compoundOrder := []string{}
	compoundGenes := map[string][]string{}
	for _, association := range associations {
		if _, seen := compoundGenes[association.Compound]; !seen {
			compoundOrder = append(compoundOrder, association.Compound)
		}
		compoundGenes[association.Compound] = append(compoundGenes[association.Compound], association.GeneName)
	}

	compounds := make([]dtos.CompoundGenes, 0, len(compoundOrder))
	for _, compound := range compoundOrder {
		genes := utils.UniqueStrings(compoundGenes[compound])
		compounds = append(compounds, dtos.CompoundGenes{
			Compound:  compound,
			Genes:     genes,
			GeneCount: len(genes),
		})
	}

	return c.JSON(http.StatusOK, dtos.HerbGenesResponse{
		Herb:           herbName,
		Compounds:      compounds,
		TotalCompounds: len(compounds),
		TotalGenes:     len(associations),
	})
}

func GetOverview(c echo.Context) error {
	fmt.Printf("[%s] - GetOverview hit!\n", time.Now())
	gc := c.(*contexts.HerbGeneContext)
	cfg := gc.Config
	es := gc.Es7Client

	var (
		wg sync.WaitGroup

		diseaseCount  int
		herbCount     int
		analysesCount int
	)

	wg.Add(3)
	go func() {
		defer wg.Done()
		diseaseCount, _ = esRepo.GetDistinctDiseaseCount(c.Request().Context(), cfg, es)
	}()
	go func() {
		defer wg.Done()
		herbCount, _ = esRepo.GetDistinctHerbCount(c.Request().Context(), cfg, es)
	}()
	go func() {
		defer wg.Done()
		analysesCount, _ = esRepo.GetAnalysesCount(c.Request().Context(), cfg, es)
	}()
	wg.Wait()

	return c.JSON(http.StatusOK, dtos.OverviewResponse{
		Diseases: diseaseCount,
		Herbs:    herbCount,
		Analyses: analysesCount,
	})
}

// rankSuggestions orders candidate names by relevance to the query:
// exact match, prefix match, word-prefix match, then substring matches by
// earliest position; ties broken by name length then alphabetically
func rankSuggestions(names []string, query string, max int) []string {
	queryLower := strings.ToLower(query)

	type ranked struct {
		name  string
		tier  int
		pos   int
		lower string
	}

	candidates := make([]ranked, 0, len(names))
	for _, name := range names {
		nameLower := strings.ToLower(name)
		entry := ranked{name: name, lower: nameLower}

		switch {
		case nameLower == queryLower:
			entry.tier = 0
		case strings.HasPrefix(nameLower, queryLower):
			entry.tier = 1
		case anyWordHasPrefix(nameLower, queryLower):
			entry.tier = 2
		default:
			entry.tier = 3
			entry.pos = strings.Index(nameLower, queryLower)
		}

		candidates = append(candidates, entry)
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		a, b := candidates[i], candidates[j]
		if a.tier != b.tier {
			return a.tier < b.tier
		}
		if a.pos != b.pos {
			return a.pos < b.pos
		}
		if len(a.name) != len(b.name) {
			return len(a.name) < len(b.name)
		}
		return a.lower < b.lower
	})

	if len(candidates) > max {
		candidates = candidates[:max]
	}

	suggestions := make([]string, 0, len(candidates))
	for _, candidate := range candidates {
		suggestions = append(suggestions, candidate.name)
	}
	return suggestions
}

func anyWordHasPrefix(nameLower string, queryLower string) bool {
	for _, word := range strings.Fields(nameLower) {
		if strings.HasPrefix(word, queryLower) {
			return true
		}
	}
	return false
}
