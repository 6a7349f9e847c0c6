package server

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/rpattn/portaldata/internal/api"
	"github.com/rpattn/portaldata/internal/exposure"
	"github.com/rpattn/portaldata/internal/middleware"
	"github.com/rpattn/portaldata/internal/proteinarray"
	"github.com/rpattn/portaldata/internal/repository/memory"
)

func newTestServer(t *testing.T, registry *prometheus.Registry) *httptest.Server {
	t.Helper()
	store, err := memory.LoadSeedFile("../repository/memory/testdata/seed.yaml")
	require.NoError(t, err)

	logger := zap.NewNop()
	handler, err := NewHandler(NewServices(MemoryRepositories(store), logger), Options{
		Limits:   api.Limits{DefaultPageSize: 100, MaxPageSize: 1000},
		Fields:   exposure.Default(),
		Registry: registry,
	}, logger)
	require.NoError(t, err)

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return srv
}

func get(t *testing.T, srv *httptest.Server, path string) (*http.Response, string) {
	t.Helper()
	resp, err := http.Get(srv.URL + path)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, string(body)
}

func TestMetaProjectionAnswersWithCountHeader(t *testing.T) {
	srv := newTestServer(t, nil)

	cases := []struct {
		path  string
		count string
	}{
		{"/api/studies?projection=META", "2"},
		{"/api/studies?projection=META&keyword=breast", "1"},
		{"/api/studies/brca_tcga/samples?projection=META", "4"},
		{"/api/studies/brca_tcga/samples/TCGA-A1-A0SB-01/copy-number-segments?projection=META", "3"},
		{"/api/genes?projection=META", "6"},
	}
	for _, tc := range cases {
		t.Run(tc.path, func(t *testing.T) {
			resp, body := get(t, srv, tc.path)
			assert.Equal(t, http.StatusOK, resp.StatusCode)
			assert.Equal(t, tc.count, resp.Header.Get(api.TotalCountHeader))
			assert.Empty(t, body)
		})
	}
}

func TestMissingParentsAreNotFound(t *testing.T) {
	srv := newTestServer(t, nil)

	for _, path := range []string{
		"/api/studies/nope",
		"/api/studies/nope/samples",
		"/api/studies/brca_tcga/samples/nope",
		"/api/studies/brca_tcga/samples/nope/copy-number-segments",
		"/api/genes/NOT_A_GENE",
		"/api/genes/424242/aliases",
		"/api/studies/nope/protein-arrays/data",
	} {
		t.Run(path, func(t *testing.T) {
			resp, body := get(t, srv, path)
			assert.Equal(t, http.StatusNotFound, resp.StatusCode)
			assert.Contains(t, body, "not found")
		})
	}
}

func TestInvalidParametersAreBadRequests(t *testing.T) {
	srv := newTestServer(t, nil)

	for _, path := range []string{
		"/api/studies?pageSize=0",
		"/api/studies?pageSize=1001",
		"/api/studies?pageNumber=-1",
		"/api/studies?pageSize=100&pageNumber=4611686018427387904",
		"/api/studies?sortBy=internalId",
		"/api/studies?projection=EVERYTHING",
		"/api/studies/brca_tcga/protein-arrays/data?format=csv",
		"/api/studies/brca_tcga/protein-arrays/data?arrayInfo=maybe",
	} {
		t.Run(path, func(t *testing.T) {
			resp, _ := get(t, srv, path)
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		})
	}
}

func TestStudyHidesInternalID(t *testing.T) {
	srv := newTestServer(t, nil)

	resp, body := get(t, srv, "/api/studies/brca_tcga")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var study map[string]any
	require.NoError(t, json.Unmarshal([]byte(body), &study))
	assert.Equal(t, "brca_tcga", study["studyId"])
	assert.NotContains(t, study, "internalId")
}

func TestGeneLookupAndFetch(t *testing.T) {
	srv := newTestServer(t, nil)

	resp, body := get(t, srv, "/api/genes/7157")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var gene map[string]any
	require.NoError(t, json.Unmarshal([]byte(body), &gene))
	assert.Equal(t, "TP53", gene["hugoGeneSymbol"])
	assert.Equal(t, "17", gene["chromosome"])

	resp, body = get(t, srv, "/api/genes/TP53/aliases")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var aliases []string
	require.NoError(t, json.Unmarshal([]byte(body), &aliases))
	assert.ElementsMatch(t, []string{"P53", "LFS1"}, aliases)

	fetch, err := http.Post(srv.URL+"/api/genes/fetch?geneIdType=HUGO_GENE_SYMBOL&projection=META",
		"application/json", strings.NewReader(`["TP53","EGFR","NOPE"]`))
	require.NoError(t, err)
	defer fetch.Body.Close()
	assert.Equal(t, http.StatusOK, fetch.StatusCode)
	assert.Equal(t, "2", fetch.Header.Get(api.TotalCountHeader))
}

func TestProteinArrayMatrixTSV(t *testing.T) {
	srv := newTestServer(t, nil)

	resp, body := get(t, srv, "/api/studies/brca_tcga/protein-arrays/data?genes=TP53,NOPE&arrayInfo=true")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "text/tab-separated-values; charset=utf-8", resp.Header.Get("Content-Type"))
	assert.Equal(t, "NOPE", resp.Header.Get(proteinarray.UnresolvedGenesHeader))
	assert.Equal(t, "ROW_ID\tTYPE\tGENE\tRESIDUE\tTCGA-A1-A0SB-01\nP53\tprotein_level\tTP53\ttotal\t2.0625\n", body)

	resp, body = get(t, srv, "/api/studies/brca_tcga/protein-arrays/data?cases=")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ROW_ID\n", body)

	resp, body = get(t, srv, "/api/studies/brca_tcga/protein-arrays/data?genes=TP53&cases=TCGA-A1-A0SB-01,%20TCGA-A1-A0SB-01")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ROW_ID\tTCGA-A1-A0SB-01\t TCGA-A1-A0SB-01\nP53\t2.0625\tNaN\n", body)
}

func TestProteinArrayInfoTSV(t *testing.T) {
	srv := newTestServer(t, nil)

	resp, body := get(t, srv, "/api/studies/brca_tcga/protein-arrays/info?genes=EGFR&type=phosphorylation")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	lines := strings.Split(strings.TrimSuffix(body, "\n"), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[1], "EGFR_pY1068\tphosphorylation\tEGFR\tpY1068"))
}

func TestProteinArrayMatrixXLSX(t *testing.T) {
	srv := newTestServer(t, nil)

	resp, err := http.Get(srv.URL + "/api/studies/acc_tcga/protein-arrays/data?format=xlsx")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "acc_tcga_protein_array_data.xlsx")

	book, err := excelize.OpenReader(resp.Body)
	require.NoError(t, err)
	defer book.Close()
	rows, err := book.GetRows("protein_array_data")
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"ROW_ID", "TCGA-OR-A5J1-01"}, {"EGFR", "0.33"}}, rows)
}

func TestHealthRequestIDAndMetrics(t *testing.T) {
	registry := prometheus.NewRegistry()
	srv := newTestServer(t, registry)

	req, err := http.NewRequest(http.MethodGet, srv.URL+"/healthz", nil)
	require.NoError(t, err)
	req.Header.Set(middleware.RequestIDHeader, "abc-123")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "abc-123", resp.Header.Get(middleware.RequestIDHeader))

	get(t, srv, "/api/studies/nope")

	resp, body := get(t, srv, "/metrics")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, `portaldata_http_requests_total{code="404",method="GET",route="GET /api/studies/{studyId}"} 1`)
	assert.Contains(t, body, `route="GET /healthz"`)
}
