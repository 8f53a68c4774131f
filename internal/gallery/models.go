package gallery

// Asset is a minted IP NFT as indexed by the subgraph
type Asset struct {
	ID        string `json:"id" parquet:"id"`
	TokenID   string `json:"tokenId" parquet:"token_id"`
	Owner     string `json:"owner" parquet:"owner"`
	Creator   string `json:"creator" parquet:"creator"`
	TokenURI  string `json:"tokenURI" parquet:"token_uri"`
	TxHash    string `json:"transactionHash" parquet:"transaction_hash"`
	CreatedAt string `json:"createdAt" parquet:"created_at"` // unix seconds as reported by the indexer
}
