package indexes

// Document shapes for the elasticsearch indices backing the association
// store and the analysis history.

// DiseaseGene : one disease-gene association row (sourced from DisGeNET)
type DiseaseGene struct {
	DiseaseId   string `json:"diseaseId" mapstructure:"diseaseId"`
	DiseaseName string `json:"diseaseName" mapstructure:"diseaseName"`
	GeneId      string `json:"geneId" mapstructure:"geneId"`
	GeneName    string `json:"geneName" mapstructure:"geneName"`
	Score       string `json:"score" mapstructure:"score"`
}

// HerbGene : one herb-compound-gene association row (sourced from BATMAN-TCM).
// A herb targets a gene once per compound, so the same (herbName, geneName)
// pair may legitimately appear multiple times.
type HerbGene struct {
	HerbName string `json:"herbName" mapstructure:"herbName"`
	Compound string `json:"compound" mapstructure:"compound"`
	TcmId    string `json:"tcmId" mapstructure:"tcmId"`
	GeneId   string `json:"geneId" mapstructure:"geneId"`
	GeneName string `json:"geneName" mapstructure:"geneName"`
}

// Analysis : one persisted analysis-history document
type Analysis struct {
	Id               string `json:"id" mapstructure:"id"`
	DiseaseName      string `json:"diseaseName" mapstructure:"diseaseName"`
	Prescriptions    string `json:"prescriptions" mapstructure:"prescriptions"`       // herb lists as a JSON string
	ResultsJson      string `json:"resultsJson" mapstructure:"resultsJson"`           // full analysis response as a JSON string
	AiAnalysisJson   string `json:"aiAnalysisJson" mapstructure:"aiAnalysisJson"`     // AI analysis response as a JSON string (optional)
	CommonGenesCount int    `json:"commonGenesCount" mapstructure:"commonGenesCount"`
	CreatedAt        string `json:"createdAt" mapstructure:"createdAt"`
}
