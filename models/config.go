package models

type Config struct {
	Debug bool `yaml:"debug" envconfig:"HERBGENE_DEBUG"`

	Api struct {
		Port string `yaml:"port" envconfig:"HERBGENE_API_INTERNAL_PORT"`
		Url  string `yaml:"url" envconfig:"HERBGENE_API_URL"`
	} `yaml:"api"`

	Elasticsearch struct {
		Url      string `yaml:"url" envconfig:"HERBGENE_ES_URL"`
		Username string `yaml:"username" envconfig:"HERBGENE_ES_USERNAME"`
		Password string `yaml:"password" envconfig:"HERBGENE_ES_PASSWORD"`
	} `yaml:"elasticsearch"`

	Enrichr struct {
		Url                  string  `yaml:"url" envconfig:"HERBGENE_ENRICHR_URL" default:"https://maayanlab.cloud/Enrichr"`
		GeneLibrary          string  `yaml:"geneLibrary" envconfig:"HERBGENE_ENRICHR_GENE_LIBRARY" default:"DisGeNET"`
		AdjustedPValueCutoff float64 `yaml:"adjustedPValueCutoff" envconfig:"HERBGENE_ENRICHR_ADJUSTED_PVALUE_CUTOFF" default:"0.05"`
		MaxResults           int     `yaml:"maxResults" envconfig:"HERBGENE_ENRICHR_MAX_RESULTS" default:"15"`
		ConcurrencyLevel     int     `yaml:"concurrencyLevel" envconfig:"HERBGENE_ENRICHR_CONCURRENCY_LEVEL" default:"3"`
		UploadTimeoutSeconds int     `yaml:"uploadTimeoutSeconds" envconfig:"HERBGENE_ENRICHR_UPLOAD_TIMEOUT_SECONDS" default:"30"`
		EnrichTimeoutSeconds int     `yaml:"enrichTimeoutSeconds" envconfig:"HERBGENE_ENRICHR_ENRICH_TIMEOUT_SECONDS" default:"60"`
	} `yaml:"enrichr"`

	Llm struct {
		ApiKey                string  `yaml:"apiKey" envconfig:"HERBGENE_LLM_API_KEY"`
		Model                 string  `yaml:"model" envconfig:"HERBGENE_LLM_MODEL" default:"gpt-4o-mini"`
		Temperature           float64 `yaml:"temperature" envconfig:"HERBGENE_LLM_TEMPERATURE" default:"0.4"`
		MaxTokens             int     `yaml:"maxTokens" envconfig:"HERBGENE_LLM_MAX_TOKENS" default:"4096"`
		MaxAttempts           int     `yaml:"maxAttempts" envconfig:"HERBGENE_LLM_MAX_ATTEMPTS" default:"3"`
		RequestTimeoutSeconds int     `yaml:"requestTimeoutSeconds" envconfig:"HERBGENE_LLM_REQUEST_TIMEOUT_SECONDS" default:"90"`
	} `yaml:"llm"`

	Catalog struct {
		MaxSuggestions int `yaml:"maxSuggestions" envconfig:"HERBGENE_CATALOG_MAX_SUGGESTIONS" default:"50"`
	} `yaml:"catalog"`

	History struct {
		RetentionDays int `yaml:"retentionDays" envconfig:"HERBGENE_HISTORY_RETENTION_DAYS" default:"180"`
	} `yaml:"history"`
}
