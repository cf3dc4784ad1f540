package server

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/de-tools/ledger-atlas/pkg/services/ledger"
	"github.com/de-tools/ledger-atlas/pkg/store/snapshot/memory"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	logger := zerolog.New(zerolog.NewTestWriter(t))
	router := ConfigureRouter(&logger, Dependencies{
		Ledger: ledger.NewService(memory.NewStore()),
	})

	server := httptest.NewServer(router)
	t.Cleanup(server.Close)
	return server
}

func upload(t *testing.T, serverURL, csv string) *http.Response {
	t.Helper()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("file", "transactions.csv")
	require.NoError(t, err)
	_, err = part.Write([]byte(csv))
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	resp, err := http.Post(serverURL+"/upload", writer.FormDataContentType(), &body)
	require.NoError(t, err)
	return resp
}

func getJSON[T any](t *testing.T, url string) (int, T) {
	t.Helper()

	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var out T
	require.NoError(t, json.Unmarshal(data, &out))
	return resp.StatusCode, out
}

func TestWebAPI_UploadAndReports(t *testing.T) {
	server := newTestServer(t)

	resp := upload(t, server.URL, `Account Name,Card Number,Transaction Amount
Alice,1111,100
Alice,1111,-30
,2222,50
Bob,3333,abc
`)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	status, accounts := getJSON[map[string]map[string]float64](t, server.URL+"/report/accounts")
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, map[string]map[string]float64{
		"Alice": {"1111": 70},
	}, accounts)

	status, bad := getJSON[[]map[string]string](t, server.URL+"/report/bad-transactions")
	assert.Equal(t, http.StatusOK, status)
	require.Len(t, bad, 2)
	assert.Equal(t, "50", bad[0]["Transaction Amount"])
	assert.Equal(t, "abc", bad[1]["Transaction Amount"])

	status, collections := getJSON[[]string](t, server.URL+"/report/collections")
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, []string{"Alice"}, collections)
}

func TestWebAPI_EmptyUploadRejected(t *testing.T) {
	server := newTestServer(t)

	resp := upload(t, server.URL, "")
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	// The failed upload must not have touched the snapshot.
	status, accounts := getJSON[map[string]map[string]float64](t, server.URL+"/report/accounts")
	assert.Equal(t, http.StatusOK, status)
	assert.Empty(t, accounts)
}

func TestWebAPI_UploadReplacesSnapshot(t *testing.T) {
	server := newTestServer(t)

	resp := upload(t, server.URL, "Account Name,Card Number,Transaction Amount\nAlice,1111,100\n")
	resp.Body.Close()
	resp = upload(t, server.URL, "Account Name,Card Number,Transaction Amount\nBob,2222,10\n")
	resp.Body.Close()

	_, accounts := getJSON[map[string]map[string]float64](t, server.URL+"/report/accounts")
	assert.Equal(t, map[string]map[string]float64{
		"Bob": {"2222": 10},
	}, accounts)
}

func TestWebAPI_Reset(t *testing.T) {
	server := newTestServer(t)

	resp := upload(t, server.URL, "Account Name,Card Number,Transaction Amount\nAlice,1111,-5\n")
	resp.Body.Close()

	resetResp, err := http.Post(server.URL+"/reset", "application/json", nil)
	require.NoError(t, err)
	defer resetResp.Body.Close()
	require.Equal(t, http.StatusOK, resetResp.StatusCode)

	status, accounts := getJSON[map[string]map[string]float64](t, server.URL+"/report/accounts")
	assert.Equal(t, http.StatusOK, status)
	assert.Empty(t, accounts)

	status, collections := getJSON[[]string](t, server.URL+"/report/collections")
	assert.Equal(t, http.StatusOK, status)
	assert.Empty(t, collections)
}

func TestWebAPI_ReportsBeforeAnyUpload(t *testing.T) {
	server := newTestServer(t)

	status, accounts := getJSON[map[string]map[string]float64](t, server.URL+"/report/accounts")
	assert.Equal(t, http.StatusOK, status)
	assert.Empty(t, accounts)

	status, bad := getJSON[[]map[string]string](t, server.URL+"/report/bad-transactions")
	assert.Equal(t, http.StatusOK, status)
	assert.Empty(t, bad)

	status, collections := getJSON[[]string](t, server.URL+"/report/collections")
	assert.Equal(t, http.StatusOK, status)
	assert.Empty(t, collections)
}

func TestWebAPI_CORSPreflight(t *testing.T) {
	server := newTestServer(t)

	req, err := http.NewRequest(http.MethodOptions, server.URL+"/upload", nil)
	require.NoError(t, err)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))
}
