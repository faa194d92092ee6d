package serviceInfo

import "fmt"

type ServiceInfo string

var (
	SERVICE_NAME        ServiceInfo = "HerbGene Analysis Service"
	SERVICE_WELCOME     ServiceInfo = "Welcome to the HerbGene disease-herb gene analysis API!"
	SERVICE_DESCRIPTION ServiceInfo = "Gene-set overlap, pathway enrichment and AI interpretation service for herbal prescriptions."

	SERVICE_ARTIFACT    ServiceInfo = "herbgene"
	SERVICE_VERSION     ServiceInfo = "0.0.1"
	SERVICE_TYPE_NO_VER ServiceInfo = ServiceInfo(fmt.Sprintf("org.herbgene:%s", SERVICE_ARTIFACT))
	SERVICE_ID          ServiceInfo = SERVICE_TYPE_NO_VER
	SERVICE_TYPE        ServiceInfo = ServiceInfo(fmt.Sprintf("%s:%s", SERVICE_TYPE_NO_VER, SERVICE_VERSION))
)
