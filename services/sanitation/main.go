package sanitationService

import (
	"context"
	"fmt"
	"time"

	"herbgene/api/models"
	esRepo "herbgene/api/repositories/elasticsearch"

	"github.com/elastic/go-elasticsearch/v7"
	"github.com/go-co-op/gocron"
)

type (
	SanitationService struct {
		Initialized bool
		Config      *models.Config
		Es7Client   *elasticsearch.Client
	}
)

func NewSanitationService(es *elasticsearch.Client, cfg *models.Config) *SanitationService {
	return &SanitationService{
		Initialized: false,
		Config:      cfg,
		Es7Client:   es,
	}
}

func (ss *SanitationService) Init() {
	// initialization if necessary
	if !ss.Initialized {
		// - spin up a go routine that periodically keeps the analysis
		//   history index "sanitary"; i.e. removes documents that have
		//   outlived the configured retention window
		go func() {
			// setup cron job
			s := gocron.NewScheduler(time.UTC)

			s.Every(1).Days().At("04:00:00").Do(func() {
				fmt.Printf("[%s] - Running analysis history cleanup..\n", time.Now())

				cleanupErr := esRepo.DeleteAnalysesOlderThan(context.Background(), ss.Config, ss.Es7Client, ss.Config.History.RetentionDays)
				if cleanupErr != nil {
					fmt.Printf("[%s] - Error cleaning up analysis history : %v..\n", time.Now(), cleanupErr)
					return
				}

				fmt.Printf("[%s] - Analysis history cleanup done (retention: %d days)\n", time.Now(), ss.Config.History.RetentionDays)
			})

			s.StartBlocking()
		}()

		ss.Initialized = true
	}
}
