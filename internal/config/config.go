package config

import (
	"fmt"
	"math/big"
	"os"
	"strconv"

	"github.com/ethereum/go-ethereum/common"
)

const (
	DefaultPinataAPIURL = "https://api.pinata.cloud"
	DefaultGatewayURL   = "https://gateway.pinata.cloud/ipfs/"
	DefaultSubgraphURL  = "https://api.goldsky.com/api/public/project_clu8sr03ji34301z2b4xte1g5/subgraphs/camp-origin-testnet-upgadable/1.0.0/gn"
	DefaultExplorerURL  = "https://basecamp.cloud.blockscout.com"
	defaultPriceWei     = "1000000000000000" // 0.001 native token
	defaultDuration     = 7 * 24 * 60 * 60   // 7 days
	defaultRoyaltyPct   = 0.25
	defaultPaymentToken = "0x0000000000000000000000000000000000000000"
)

// Config holds the environment configuration for ipminter
type Config struct {
	PinataJWT    string
	PinataAPIURL string
	GatewayURL   string

	SubgraphURL string

	OriginAPIURL   string
	OriginClientID string
	OriginAPIKey   string

	RPCURL      string
	ExplorerURL string

	License LicenseConfig
}

// LicenseConfig holds the default license terms applied to every mint
type LicenseConfig struct {
	PriceWei        *big.Int
	DurationSeconds uint64
	RoyaltyPercent  float64
	PaymentToken    common.Address
}

// Load reads the configuration from the environment.
// A missing pinning token is not an error here; the upload step reports it.
func Load() (*Config, error) {
	cfg := &Config{
		PinataJWT:      getenvFirst("PINATA_JWT", "NEXT_PUBLIC_PINATA_JWT"),
		PinataAPIURL:   getenvDefault("PINATA_API_URL", DefaultPinataAPIURL),
		GatewayURL:     getenvDefault("PINATA_GATEWAY_URL", DefaultGatewayURL),
		SubgraphURL:    getenvFirst("SUBGRAPH_URL", "NEXT_PUBLIC_SUBGRAPH_URL"),
		OriginAPIURL:   os.Getenv("ORIGIN_API_URL"),
		OriginClientID: os.Getenv("ORIGIN_CLIENT_ID"),
		OriginAPIKey:   os.Getenv("ORIGIN_API_KEY"),
		RPCURL:         os.Getenv("RPC_URL"),
		ExplorerURL:    getenvDefault("EXPLORER_URL", DefaultExplorerURL),
	}
	if cfg.SubgraphURL == "" {
		cfg.SubgraphURL = DefaultSubgraphURL
	}

	price, ok := new(big.Int).SetString(getenvDefault("LICENSE_PRICE_WEI", defaultPriceWei), 10)
	if !ok || price.Sign() < 0 {
		return nil, fmt.Errorf("invalid LICENSE_PRICE_WEI: %q", os.Getenv("LICENSE_PRICE_WEI"))
	}
	cfg.License.PriceWei = price

	duration, err := strconv.ParseUint(getenvDefault("LICENSE_DURATION_SECONDS", strconv.Itoa(defaultDuration)), 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid LICENSE_DURATION_SECONDS: %w", err)
	}
	cfg.License.DurationSeconds = duration

	royalty, err := strconv.ParseFloat(getenvDefault("LICENSE_ROYALTY_PERCENT", strconv.FormatFloat(defaultRoyaltyPct, 'f', -1, 64)), 64)
	if err != nil {
		return nil, fmt.Errorf("invalid LICENSE_ROYALTY_PERCENT: %w", err)
	}
	cfg.License.RoyaltyPercent = royalty

	token := getenvDefault("LICENSE_PAYMENT_TOKEN", defaultPaymentToken)
	if !common.IsHexAddress(token) {
		return nil, fmt.Errorf("invalid LICENSE_PAYMENT_TOKEN: %q", token)
	}
	cfg.License.PaymentToken = common.HexToAddress(token)

	return cfg, nil
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvFirst(keys ...string) string {
	for _, key := range keys {
		if v := os.Getenv(key); v != "" {
			return v
		}
	}
	return ""
}
