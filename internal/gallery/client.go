package gallery

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/tidwall/gjson"
)

const assetsQuery = `query Assets($owner: String, $first: Int!) {
  ipNFTs(first: $first, where: {owner: $owner}, orderBy: createdAt, orderDirection: desc) {
    id
    tokenId
    owner
    creator
    tokenURI
    transactionHash
    createdAt
  }
}`

const allAssetsQuery = `query Assets($first: Int!) {
  ipNFTs(first: $first, orderBy: createdAt, orderDirection: desc) {
    id
    tokenId
    owner
    creator
    tokenURI
    transactionHash
    createdAt
  }
}`

// DefaultLimit is the page size used when none is requested
const DefaultLimit = 20

// Client queries the IP NFT subgraph
type Client struct {
	URL        string
	HTTPClient *http.Client
}

// NewClient creates a subgraph client for url
func NewClient(url string) *Client {
	return &Client{
		URL: url,
		HTTPClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

type graphQLRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables"`
}

// ListAssets returns the newest minted assets, optionally filtered by owner
func (c *Client) ListAssets(ctx context.Context, owner string, first int) ([]Asset, error) {
	if c.URL == "" {
		return nil, fmt.Errorf("SUBGRAPH_URL environment variable not set")
	}
	if first <= 0 {
		first = DefaultLimit
	}

	req := graphQLRequest{Query: allAssetsQuery, Variables: map[string]any{"first": first}}
	if owner = strings.TrimSpace(owner); owner != "" {
		// the indexer stores addresses lowercased
		req.Query = assetsQuery
		req.Variables["owner"] = strings.ToLower(owner)
	}

	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.URL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create new request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	slog.Debug("Querying subgraph", "url", c.URL, "owner", owner, "first", first)

	resp, err := c.HTTPClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("subgraph error: %d - %s", resp.StatusCode, strings.TrimSpace(string(respBody)))
	}
	if !gjson.ValidBytes(respBody) {
		return nil, fmt.Errorf("subgraph returned invalid JSON")
	}

	doc := gjson.ParseBytes(respBody)
	if errs := doc.Get("errors"); errs.Exists() && len(errs.Array()) > 0 {
		return nil, fmt.Errorf("subgraph query failed: %s", errs.Get("0.message").String())
	}

	nfts := doc.Get("data.ipNFTs")
	if !nfts.IsArray() {
		return nil, fmt.Errorf("subgraph response missing data.ipNFTs")
	}

	var assets []Asset
	if err := json.Unmarshal([]byte(nfts.Raw), &assets); err != nil {
		return nil, fmt.Errorf("failed to decode assets: %w", err)
	}
	return assets, nil
}
