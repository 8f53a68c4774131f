package chain

import (
	"context"
	"errors"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/originlabs/ipminter/internal/guard"
)

// ErrNoRPC is returned by providers created without an RPC endpoint
var ErrNoRPC = errors.New("RPC_URL is not configured")

// Receipt summarizes a mined (or pending) transaction
type Receipt struct {
	TransactionHash string `json:"transaction_hash"`
	Status          string `json:"status"` // "success", "failed" or "pending"
	BlockNumber     uint64 `json:"block_number,omitempty"`
	GasUsed         uint64 `json:"gas_used,omitempty"`
}

// Provider is a signing provider bound to one wallet address
type Provider struct {
	address common.Address
	client  *ethclient.Client
	chainID *big.Int
}

// Address returns the checksummed wallet address
func (p *Provider) Address() string {
	return p.address.Hex()
}

// ChainID returns the chain id reported by the RPC endpoint, or nil when offline
func (p *Provider) ChainID() *big.Int {
	return p.chainID
}

// Close releases the RPC connection
func (p *Provider) Close() {
	if p.client != nil {
		p.client.Close()
	}
}

// Receipt looks up the receipt of a transaction
func (p *Provider) Receipt(ctx context.Context, txHash string) (*Receipt, error) {
	if p.client == nil {
		return nil, ErrNoRPC
	}
	hash := common.HexToHash(txHash)

	receipt, err := p.client.TransactionReceipt(ctx, hash)
	if errors.Is(err, ethereum.NotFound) {
		return &Receipt{TransactionHash: hash.Hex(), Status: "pending"}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch receipt: %w", err)
	}

	status := "failed"
	if receipt.Status == types.ReceiptStatusSuccessful {
		status = "success"
	}
	r := &Receipt{
		TransactionHash: hash.Hex(),
		Status:          status,
		GasUsed:         receipt.GasUsed,
	}
	if receipt.BlockNumber != nil {
		r.BlockNumber = receipt.BlockNumber.Uint64()
	}
	return r, nil
}

// Dialer creates providers connected to an RPC endpoint.
// With an empty RPCURL the providers are offline and cannot fetch receipts.
type Dialer struct {
	RPCURL string
}

// NewDialer returns a Dialer for rpcURL
func NewDialer(rpcURL string) *Dialer {
	return &Dialer{RPCURL: rpcURL}
}

// NewProvider dials the RPC endpoint for address
func (d *Dialer) NewProvider(ctx context.Context, address string) (guard.Provider, error) {
	if !common.IsHexAddress(address) {
		return nil, fmt.Errorf("invalid wallet address %q", address)
	}
	p := &Provider{address: common.HexToAddress(address)}
	if d.RPCURL == "" {
		return p, nil
	}

	client, err := ethclient.DialContext(ctx, d.RPCURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RPC: %w", err)
	}
	chainID, err := client.ChainID(ctx)
	if err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to get chain ID: %w", err)
	}
	p.client = client
	p.chainID = chainID
	return p, nil
}
