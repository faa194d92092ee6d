package enrichmentService

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"

	"herbgene/api/models"
	"herbgene/api/models/dtos"

	"github.com/Jeffail/gabs"
	"golang.org/x/sync/errgroup"

	. "github.com/ahmetb/go-linq"
)

type (
	EnrichmentService struct {
		Config *models.Config
		Client *http.Client
	}

	// TaggedGeneList carries the originating prescription index through the
	// upload/fetch pipeline so out-of-order completions can be re-associated
	TaggedGeneList struct {
		PrescriptionIndex int
		Genes             []string
	}

	GeneListUpload struct {
		PrescriptionIndex int
		UserListId        int64
	}
)

func NewEnrichmentService(cfg *models.Config) *EnrichmentService {
	return &EnrichmentService{
		Config: cfg,
		Client: &http.Client{},
	}
}

// UploadGeneLists submits each non-empty gene list to the enrichment service
// concurrently (bounded worker pool) and returns one upload handle per list
// that succeeded. A failed upload is logged and omitted; it never aborts
// sibling uploads.
func (s *EnrichmentService) UploadGeneLists(ctx context.Context, geneLists []TaggedGeneList) []*GeneListUpload {
	// indexed result slots, each written at most once by its owning task
	slots := make([]*GeneListUpload, len(geneLists))

	g := new(errgroup.Group)
	g.SetLimit(s.Config.Enrichr.ConcurrencyLevel)

	for i, geneList := range geneLists {
		i, geneList := i, geneList
		g.Go(func() error {
			upload, uploadErr := s.uploadSingleGeneList(ctx, geneList)
			if uploadErr != nil {
				fmt.Printf("[%s] - Error uploading gene list %d: %v\n", time.Now(), geneList.PrescriptionIndex, uploadErr)
				return nil // isolate the failure
			}
			slots[i] = upload
			return nil
		})
	}
	g.Wait()

	uploads := make([]*GeneListUpload, 0, len(slots))
	for _, upload := range slots {
		if upload != nil {
			uploads = append(uploads, upload)
		}
	}
	return uploads
}

func (s *EnrichmentService) uploadSingleGeneList(ctx context.Context, geneList TaggedGeneList) (*GeneListUpload, error) {
	uploadCtx, cancel := context.WithTimeout(ctx, time.Duration(s.Config.Enrichr.UploadTimeoutSeconds)*time.Second)
	defer cancel()

	// the service expects a multipart form with a newline-joined gene list
	var body strings.Builder
	writer := multipart.NewWriter(&body)
	if err := writer.WriteField("list", strings.Join(geneList.Genes, "\n")); err != nil {
		return nil, fmt.Errorf("error building upload form: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("error building upload form: %w", err)
	}

	req, reqErr := http.NewRequestWithContext(uploadCtx, http.MethodPost, s.Config.Enrichr.Url+"/addList", strings.NewReader(body.String()))
	if reqErr != nil {
		return nil, reqErr
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	res, resErr := s.Client.Do(req)
	if resErr != nil {
		return nil, resErr
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		return nil, fmt.Errorf("upload returned status %d", res.StatusCode)
	}

	responseBody, readErr := io.ReadAll(res.Body)
	if readErr != nil {
		return nil, fmt.Errorf("error reading upload response: %w", readErr)
	}

	jsonParsed, parseErr := gabs.ParseJSON(responseBody)
	if parseErr != nil {
		return nil, fmt.Errorf("error parsing upload response: %w", parseErr)
	}

	userListIdRaw, ok := jsonParsed.Path("userListId").Data().(float64)
	if !ok {
		return nil, fmt.Errorf("upload response carries no userListId")
	}

	return &GeneListUpload{
		PrescriptionIndex: geneList.PrescriptionIndex,
		UserListId:        int64(userListIdRaw),
	}, nil
}

// FetchEnrichment requests ranked terms for each successful upload
// concurrently (bounded worker pool) against the configured reference gene-set
// library. Failures are isolated per upload; final ordering is restored by
// prescription index, not by completion time.
func (s *EnrichmentService) FetchEnrichment(ctx context.Context, uploads []*GeneListUpload, library string) map[int][]dtos.EnrichmentRecord {
	if library == "" {
		library = s.Config.Enrichr.GeneLibrary
	}

	type fetchResult struct {
		prescriptionIndex int
		records           []dtos.EnrichmentRecord
	}
	slots := make([]*fetchResult, len(uploads))

	g := new(errgroup.Group)
	g.SetLimit(s.Config.Enrichr.ConcurrencyLevel)

	for i, upload := range uploads {
		i, upload := i, upload
		g.Go(func() error {
			records, fetchErr := s.fetchSingleEnrichment(ctx, upload.UserListId, library)
			if fetchErr != nil {
				fmt.Printf("[%s] - Error fetching enrichment for userListId %d: %v\n", time.Now(), upload.UserListId, fetchErr)
				return nil // isolate the failure
			}
			slots[i] = &fetchResult{prescriptionIndex: upload.PrescriptionIndex, records: records}
			return nil
		})
	}
	g.Wait()

	recordsByPrescription := make(map[int][]dtos.EnrichmentRecord)
	for _, result := range slots {
		if result != nil {
			recordsByPrescription[result.prescriptionIndex] = result.records
		}
	}
	return recordsByPrescription
}

func (s *EnrichmentService) fetchSingleEnrichment(ctx context.Context, userListId int64, library string) ([]dtos.EnrichmentRecord, error) {
	fetchCtx, cancel := context.WithTimeout(ctx, time.Duration(s.Config.Enrichr.EnrichTimeoutSeconds)*time.Second)
	defer cancel()

	enrichUrl := fmt.Sprintf("%s/enrich?userListId=%d&backgroundType=%s",
		s.Config.Enrichr.Url, userListId, url.QueryEscape(library))

	req, reqErr := http.NewRequestWithContext(fetchCtx, http.MethodGet, enrichUrl, nil)
	if reqErr != nil {
		return nil, reqErr
	}

	res, resErr := s.Client.Do(req)
	if resErr != nil {
		return nil, resErr
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		return nil, fmt.Errorf("enrich returned status %d", res.StatusCode)
	}

	// response shape: { "<library>": [ [rank, term, p, z, combined, [genes...], adjP, legacyP, legacyAdjP], ... ] }
	rawResults := make(map[string][][]interface{})
	if umErr := json.NewDecoder(res.Body).Decode(&rawResults); umErr != nil {
		return nil, fmt.Errorf("error unmarshalling enrich response: %w", umErr)
	}

	return s.processEnrichmentRows(rawResults), nil
}

// processEnrichmentRows unpacks raw 9-tuples into records, retains only rows
// below the adjusted p-value cutoff and truncates to the configured maximum,
// preserving the service's rank order throughout
func (s *EnrichmentService) processEnrichmentRows(rawResults map[string][][]interface{}) []dtos.EnrichmentRecord {
	unpacked := []dtos.EnrichmentRecord{}
	for _, rows := range rawResults {
		for _, row := range rows {
			if record, ok := unpackEnrichmentRow(row); ok {
				unpacked = append(unpacked, record)
			}
		}
	}

	kept := []dtos.EnrichmentRecord{}
	From(unpacked).
		WhereT(func(record dtos.EnrichmentRecord) bool {
			return record.AdjustedPValue < s.Config.Enrichr.AdjustedPValueCutoff
		}).
		Take(s.Config.Enrichr.MaxResults).
		ToSlice(&kept)

	return kept
}

func unpackEnrichmentRow(row []interface{}) (dtos.EnrichmentRecord, bool) {
	if len(row) < 9 {
		return dtos.EnrichmentRecord{}, false
	}

	overlappingGenes := []string{}
	if rawGenes, ok := row[5].([]interface{}); ok {
		for _, rawGene := range rawGenes {
			if gene, ok := rawGene.(string); ok {
				overlappingGenes = append(overlappingGenes, gene)
			}
		}
	}

	return dtos.EnrichmentRecord{
		Rank:                 int(asFloat(row[0])),
		Term:                 asString(row[1]),
		PValue:               asFloat(row[2]),
		ZScore:               asFloat(row[3]),
		CombinedScore:        asFloat(row[4]),
		OverlappingGenes:     overlappingGenes,
		AdjustedPValue:       asFloat(row[6]),
		LegacyPValue:         asFloat(row[7]),
		LegacyAdjustedPValue: asFloat(row[8]),
	}, true
}

func asFloat(value interface{}) float64 {
	f, _ := value.(float64)
	return f
}

func asString(value interface{}) string {
	s, _ := value.(string)
	return s
}
