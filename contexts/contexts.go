package contexts

import (
	"herbgene/api/models"
	aiService "herbgene/api/services/ai"
	analysisService "herbgene/api/services/analysis"

	"github.com/elastic/go-elasticsearch/v7"
	"github.com/labstack/echo"
)

type (
	// "Helper" Context to pass into routes that need
	//  an elasticsearch client and other global singletons
	HerbGeneContext struct {
		echo.Context
		Es7Client       *elasticsearch.Client
		Config          *models.Config
		AnalysisService *analysisService.AnalysisService
		AiService       *aiService.AiService
	}
)
