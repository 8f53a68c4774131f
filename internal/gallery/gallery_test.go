package gallery

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testAssets = []Asset{
	{ID: "0x1-1", TokenID: "1", Owner: "0xabc", Creator: "0xabc", TokenURI: "ipfs://a", TxHash: "0x01", CreatedAt: "1717000000"},
	{ID: "0x1-2", TokenID: "2", Owner: "0xdef", Creator: "0xabc", TokenURI: "ipfs://b", TxHash: "0x02", CreatedAt: "1717000100"},
}

func TestListAssets(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req graphQLRequest
		if !assert.NoError(t, json.NewDecoder(r.Body).Decode(&req)) {
			return
		}
		assert.Contains(t, req.Query, "ipNFTs")
		assert.Equal(t, "0xabc", req.Variables["owner"])
		assert.EqualValues(t, 5, req.Variables["first"])

		_ = json.NewEncoder(w).Encode(map[string]any{
			"data": map[string]any{"ipNFTs": testAssets[:1]},
		})
	}))
	defer server.Close()

	assets, err := NewClient(server.URL).ListAssets(context.Background(), "0xABC", 5)
	require.NoError(t, err)
	require.Len(t, assets, 1)
	assert.Equal(t, testAssets[0], assets[0])
}

func TestListAssetsWithoutOwner(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req graphQLRequest
		if !assert.NoError(t, json.NewDecoder(r.Body).Decode(&req)) {
			return
		}
		assert.NotContains(t, req.Variables, "owner")
		assert.EqualValues(t, DefaultLimit, req.Variables["first"])
		_, _ = w.Write([]byte(`{"data":{"ipNFTs":[]}}`))
	}))
	defer server.Close()

	assets, err := NewClient(server.URL).ListAssets(context.Background(), "", 0)
	require.NoError(t, err)
	assert.Empty(t, assets)
}

func TestListAssetsErrors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		errMsg string
	}{
		{name: "graphql error", status: http.StatusOK, body: `{"errors":[{"message":"Type Query has no field ipNFTs"}]}`, errMsg: "has no field"},
		{name: "http error", status: http.StatusBadGateway, body: "bad gateway", errMsg: "502"},
		{name: "missing data", status: http.StatusOK, body: `{"data":{}}`, errMsg: "missing data.ipNFTs"},
		{name: "invalid json", status: http.StatusOK, body: `<html>`, errMsg: "invalid JSON"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer server.Close()

			_, err := NewClient(server.URL).ListAssets(context.Background(), "", 1)
			assert.ErrorContains(t, err, tt.errMsg)
		})
	}

	_, err := NewClient("").ListAssets(context.Background(), "", 1)
	assert.ErrorContains(t, err, "SUBGRAPH_URL")
}

func TestExportRoundTrip(t *testing.T) {
	for _, ext := range []string{".parquet", ".jsonl"} {
		t.Run(ext, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "assets"+ext)
			require.NoError(t, Export(path, testAssets))

			loaded, err := Load(path)
			require.NoError(t, err)
			assert.Equal(t, testAssets, loaded)
		})
	}
}

func TestLoadCorruptParquet(t *testing.T) {
	path := filepath.Join(t.TempDir(), "assets.parquet")
	require.NoError(t, Export(path, testAssets))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	// clobber the first page header, keeping the footer intact
	for i := 4; i < 20; i++ {
		data[i] = 0xff
	}
	require.NoError(t, os.WriteFile(path, data, 0644))

	loaded, err := Load(path)
	assert.Error(t, err)
	assert.Nil(t, loaded)
}

func TestExportUnsupportedFormat(t *testing.T) {
	err := Export(filepath.Join(t.TempDir(), "assets.csv"), testAssets)
	assert.ErrorContains(t, err, "unsupported file format")
}
