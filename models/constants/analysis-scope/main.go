package analysisScope

import (
	"herbgene/api/models/constants"
	"strings"
)

const (
	Unknown constants.AnalysisScope = "Unknown"

	// Comparative : more than one prescription produced enrichment data
	Comparative constants.AnalysisScope = "Comparative"
	// Single : exactly one prescription produced enrichment data
	Single constants.AnalysisScope = "Single"
	// NoData : nothing to analyze; the generative service is never called
	NoData constants.AnalysisScope = "NoData"
)

func CastToAnalysisScope(text string) constants.AnalysisScope {
	switch strings.ToLower(text) {
	case "comparative":
		return Comparative
	case "single":
		return Single
	case "nodata":
		return NoData
	default:
		return Unknown
	}
}
