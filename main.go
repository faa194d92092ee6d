package main

import (
	"fmt"
	"net/http"
	"os"
	"time"

	"herbgene/api/contexts"
	gam "herbgene/api/middleware"
	"herbgene/api/models"
	serviceInfo "herbgene/api/models/constants/service-info"
	analysisMvc "herbgene/api/mvc/analysis"
	catalogMvc "herbgene/api/mvc/catalog"
	serviceInfoMvc "herbgene/api/mvc/service-info"
	aiService "herbgene/api/services/ai"
	analysisService "herbgene/api/services/analysis"
	sanitationService "herbgene/api/services/sanitation"
	"herbgene/api/utils"

	"github.com/kelseyhightower/envconfig"
	"github.com/labstack/echo"
	"github.com/labstack/echo/middleware"
)

func main() {
	// Gather environment variables
	var cfg models.Config
	err := envconfig.Process("", &cfg)
	if err != nil {
		fmt.Println(err)
		os.Exit(2)
	}

	fmt.Printf("Using : \n"+

		"\tDebug : %t \n\n"+

		"\tElasticsearch Url : %s \n"+
		"\tElasticsearch Username : %s\n\n"+

		"\tEnrichr Url : %s\n"+
		"\tEnrichr Gene Library : %s\n"+
		"\tEnrichr Adjusted P-Value Cutoff : %f\n"+
		"\tEnrichr Max Results : %d\n"+
		"\tEnrichr Concurrency Level : %d\n\n"+

		"\tLLM Model : %s\n"+
		"\tLLM Max Attempts : %d\n"+
		"\tLLM Configured : %t\n\n"+

		"\tHistory Retention Days : %d\n\n"+

		"Running on Port : %s\n",

		cfg.Debug,
		cfg.Elasticsearch.Url, cfg.Elasticsearch.Username,
		cfg.Enrichr.Url, cfg.Enrichr.GeneLibrary,
		cfg.Enrichr.AdjustedPValueCutoff,
		cfg.Enrichr.MaxResults,
		cfg.Enrichr.ConcurrencyLevel,
		cfg.Llm.Model, cfg.Llm.MaxAttempts, cfg.Llm.ApiKey != "",
		cfg.History.RetentionDays,
		cfg.Api.Port)
	// --

	// Instantiate Server
	e := echo.New()

	// Service Connections:
	// -- Elasticsearch
	es := utils.CreateEsConnection(&cfg)

	// Service Singletons
	az := analysisService.NewAnalysisService(es, &cfg)
	ai := aiService.NewAiService(&cfg, aiService.NewOpenAiClient(&cfg))
	ss := sanitationService.NewSanitationService(es, &cfg)
	ss.Init()

	// Configure Server
	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{echo.GET, echo.PUT, echo.POST, echo.DELETE},
	}))

	// -- Override handlers with "custom HerbGene" context
	//		to be able to provide variables and global singletons
	e.Use(func(h echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			cc := &contexts.HerbGeneContext{
				Context:         c,
				Es7Client:       es,
				Config:          &cfg,
				AnalysisService: az,
				AiService:       ai,
			}
			return h(cc)
		}
	})

	// Begin MVC Routes
	// -- Root
	e.GET("/", func(c echo.Context) error {
		fmt.Printf("[%s] - Root hit!\n", time.Now())
		return c.JSON(http.StatusOK, serviceInfo.SERVICE_WELCOME)
	})

	// -- Service Info
	e.GET("/service-info", serviceInfoMvc.GetServiceInfo)

	// -- Catalog
	e.GET("/overview", catalogMvc.GetOverview)
	e.GET("/diseases/search", catalogMvc.GetDiseaseSuggestions,
		// middleware
		gam.MandateSearchTermAttribute)
	e.GET("/diseases/genes", catalogMvc.GetDiseaseGenes,
		// middleware
		gam.MandateDiseaseAttribute)
	e.GET("/herbs/search", catalogMvc.GetHerbSuggestions,
		// middleware
		gam.MandateSearchTermAttribute)
	e.GET("/herbs/genes", catalogMvc.GetHerbGenes,
		// middleware
		gam.MandateHerbAttribute)
	e.GET("/herbs/validate", catalogMvc.ValidateHerb)

	// -- Analysis
	e.POST("/analysis/run", analysisMvc.RunAnalysis)
	e.POST("/analysis/ai", analysisMvc.RunAiAnalysis)
	e.GET("/analysis/ai/status", analysisMvc.GetAiAnalysisStatus)

	// -- Analysis History
	e.GET("/analysis/history", analysisMvc.GetAnalysisHistory)
	e.GET("/analysis/history/get", analysisMvc.GetAnalysisById)
	e.DELETE("/analysis/history/delete", analysisMvc.DeleteAnalysis)

	// Run
	e.Logger.Fatal(e.Start(":" + cfg.Api.Port))
}
