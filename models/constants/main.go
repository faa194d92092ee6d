package constants

type AnalysisScope string
