package enrichmentService

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"herbgene/api/models"
	common "herbgene/api/tests/common"

	"github.com/stretchr/testify/assert"
)

// newEnrichrStub serves the two endpoints the pipeline talks to: a multipart
// upload that hands back sequential list ids, and an enrich endpoint answering
// with whatever rows the test registered for each list id
func newEnrichrStub(t *testing.T, rowsByListId map[int64][][]interface{}) (*httptest.Server, *uploadLog) {
	log := &uploadLog{geneListsByListId: map[int64]string{}}

	mux := http.NewServeMux()
	mux.HandleFunc("/addList", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)

		parseErr := r.ParseMultipartForm(1 << 20)
		assert.Nil(t, parseErr)

		listId := log.record(r.FormValue("list"))
		fmt.Fprintf(w, `{"userListId": %d, "shortId": "abc%d"}`, listId, listId)
	})
	mux.HandleFunc("/enrich", func(w http.ResponseWriter, r *http.Request) {
		var listId int64
		fmt.Sscanf(r.URL.Query().Get("userListId"), "%d", &listId)
		library := r.URL.Query().Get("backgroundType")

		rows, ok := rowsByListId[listId]
		if !ok {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		json.NewEncoder(w).Encode(map[string][][]interface{}{library: rows})
	})

	return httptest.NewServer(mux), log
}

type uploadLog struct {
	mu                sync.Mutex
	nextListId        int64
	geneListsByListId map[int64]string
}

func (l *uploadLog) record(geneList string) int64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.nextListId++
	l.geneListsByListId[l.nextListId] = geneList
	return l.nextListId
}

func newTestConfig(serverUrl string) *models.Config {
	cfg := common.InitConfig()
	cfg.Enrichr.Url = serverUrl
	return cfg
}

// enrichmentRow builds one raw 9-tuple the way the enrichment service wires it
func enrichmentRow(rank int, term string, adjustedPValue float64) []interface{} {
	return []interface{}{
		float64(rank), term, 0.001, 1.5, 25.0,
		[]interface{}{"TNF", "IL6"},
		adjustedPValue, 0.002, 0.04,
	}
}

func TestUploadGeneListsJoinsGenesWithNewlines(t *testing.T) {
	server, log := newEnrichrStub(t, nil)
	defer server.Close()

	svc := NewEnrichmentService(newTestConfig(server.URL))

	uploads := svc.UploadGeneLists(context.Background(), []TaggedGeneList{
		{PrescriptionIndex: 0, Genes: []string{"TNF", "IL6", "TP53"}},
	})

	assert.Len(t, uploads, 1)
	assert.Equal(t, 0, uploads[0].PrescriptionIndex)
	assert.Equal(t, "TNF\nIL6\nTP53", log.geneListsByListId[uploads[0].UserListId])
}

func TestUploadGeneListsPreservesPrescriptionIndexes(t *testing.T) {
	server, _ := newEnrichrStub(t, nil)
	defer server.Close()

	svc := NewEnrichmentService(newTestConfig(server.URL))

	// prescription 1 was skipped upstream (empty unique set)
	uploads := svc.UploadGeneLists(context.Background(), []TaggedGeneList{
		{PrescriptionIndex: 0, Genes: []string{"TNF"}},
		{PrescriptionIndex: 2, Genes: []string{"TP53"}},
	})

	assert.Len(t, uploads, 2)
	indexes := []int{uploads[0].PrescriptionIndex, uploads[1].PrescriptionIndex}
	assert.ElementsMatch(t, []int{0, 2}, indexes)
}

func TestUploadGeneListsIsolatesFailures(t *testing.T) {
	calls := 0
	var mu sync.Mutex

	mux := http.NewServeMux()
	mux.HandleFunc("/addList", func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		calls++
		failing := calls == 1
		mu.Unlock()

		if failing {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		fmt.Fprint(w, `{"userListId": 77}`)
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	svc := NewEnrichmentService(newTestConfig(server.URL))

	uploads := svc.UploadGeneLists(context.Background(), []TaggedGeneList{
		{PrescriptionIndex: 0, Genes: []string{"TNF"}},
		{PrescriptionIndex: 1, Genes: []string{"TP53"}},
	})

	// one failed, the sibling still went through
	assert.Len(t, uploads, 1)
	assert.Equal(t, int64(77), uploads[0].UserListId)
}

func TestFetchEnrichmentFiltersAndTruncates(t *testing.T) {
	rows := [][]interface{}{}
	// 20 significant rows followed by clearly insignificant ones
	for rank := 1; rank <= 20; rank++ {
		rows = append(rows, enrichmentRow(rank, fmt.Sprintf("Significant Term %d", rank), 0.001))
	}
	rows = append(rows,
		enrichmentRow(21, "Insignificant Term A", 0.2),
		enrichmentRow(22, "Insignificant Term B", 0.9),
	)

	server, _ := newEnrichrStub(t, map[int64][][]interface{}{42: rows})
	defer server.Close()

	cfg := newTestConfig(server.URL)
	svc := NewEnrichmentService(cfg)

	recordsByPrescription := svc.FetchEnrichment(context.Background(),
		[]*GeneListUpload{{PrescriptionIndex: 0, UserListId: 42}}, "")

	records := recordsByPrescription[0]
	assert.Len(t, records, cfg.Enrichr.MaxResults)

	for _, record := range records {
		assert.Less(t, record.AdjustedPValue, cfg.Enrichr.AdjustedPValueCutoff)
		assert.False(t, strings.HasPrefix(record.Term, "Insignificant"))
	}

	// the service's rank order survives filtering and truncation
	assert.Equal(t, "Significant Term 1", records[0].Term)
	assert.Equal(t, "Significant Term 15", records[len(records)-1].Term)
}

func TestFetchEnrichmentUnpacksTheFullTuple(t *testing.T) {
	rows := [][]interface{}{enrichmentRow(1, "TNF Signalling", 0.003)}

	server, _ := newEnrichrStub(t, map[int64][][]interface{}{7: rows})
	defer server.Close()

	svc := NewEnrichmentService(newTestConfig(server.URL))

	recordsByPrescription := svc.FetchEnrichment(context.Background(),
		[]*GeneListUpload{{PrescriptionIndex: 3, UserListId: 7}}, "")

	records := recordsByPrescription[3]
	assert.Len(t, records, 1)

	record := records[0]
	assert.Equal(t, 1, record.Rank)
	assert.Equal(t, "TNF Signalling", record.Term)
	assert.Equal(t, 0.001, record.PValue)
	assert.Equal(t, 1.5, record.ZScore)
	assert.Equal(t, 25.0, record.CombinedScore)
	assert.Equal(t, []string{"TNF", "IL6"}, record.OverlappingGenes)
	assert.Equal(t, 0.003, record.AdjustedPValue)
}

func TestFetchEnrichmentSkipsMalformedRows(t *testing.T) {
	rows := [][]interface{}{
		{float64(1), "Too Short"}, // fewer than 9 elements
		enrichmentRow(2, "Valid Term", 0.01),
	}

	server, _ := newEnrichrStub(t, map[int64][][]interface{}{5: rows})
	defer server.Close()

	svc := NewEnrichmentService(newTestConfig(server.URL))

	recordsByPrescription := svc.FetchEnrichment(context.Background(),
		[]*GeneListUpload{{PrescriptionIndex: 0, UserListId: 5}}, "")

	records := recordsByPrescription[0]
	assert.Len(t, records, 1)
	assert.Equal(t, "Valid Term", records[0].Term)
}

func TestFetchEnrichmentIsolatesFailuresAcrossUploads(t *testing.T) {
	rows := [][]interface{}{enrichmentRow(1, "Valid Term", 0.01)}

	// list id 99 is unknown to the stub and answers 500
	server, _ := newEnrichrStub(t, map[int64][][]interface{}{8: rows})
	defer server.Close()

	svc := NewEnrichmentService(newTestConfig(server.URL))

	recordsByPrescription := svc.FetchEnrichment(context.Background(), []*GeneListUpload{
		{PrescriptionIndex: 0, UserListId: 99},
		{PrescriptionIndex: 1, UserListId: 8},
	}, "")

	_, failedPresent := recordsByPrescription[0]
	assert.False(t, failedPresent)
	assert.Len(t, recordsByPrescription[1], 1)
}
