package config

import (
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{
		"PINATA_JWT", "NEXT_PUBLIC_PINATA_JWT", "PINATA_API_URL", "PINATA_GATEWAY_URL",
		"SUBGRAPH_URL", "NEXT_PUBLIC_SUBGRAPH_URL", "EXPLORER_URL",
		"LICENSE_PRICE_WEI", "LICENSE_DURATION_SECONDS", "LICENSE_ROYALTY_PERCENT", "LICENSE_PAYMENT_TOKEN",
	} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	require.NoError(t, err)

	assert.Empty(t, cfg.PinataJWT)
	assert.Equal(t, DefaultPinataAPIURL, cfg.PinataAPIURL)
	assert.Equal(t, DefaultGatewayURL, cfg.GatewayURL)
	assert.Equal(t, DefaultSubgraphURL, cfg.SubgraphURL)
	assert.Equal(t, DefaultExplorerURL, cfg.ExplorerURL)
	assert.Equal(t, "1000000000000000", cfg.License.PriceWei.String())
	assert.Equal(t, uint64(604800), cfg.License.DurationSeconds)
	assert.Equal(t, 0.25, cfg.License.RoyaltyPercent)
	assert.Equal(t, common.Address{}, cfg.License.PaymentToken)
}

func TestLoadPinataFallback(t *testing.T) {
	t.Setenv("PINATA_JWT", "")
	t.Setenv("NEXT_PUBLIC_PINATA_JWT", "public-jwt")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "public-jwt", cfg.PinataJWT)
}

func TestLoadInvalidValues(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{name: "price not a number", key: "LICENSE_PRICE_WEI", value: "lots"},
		{name: "negative price", key: "LICENSE_PRICE_WEI", value: "-1"},
		{name: "duration not a number", key: "LICENSE_DURATION_SECONDS", value: "a week"},
		{name: "royalty not a number", key: "LICENSE_ROYALTY_PERCENT", value: "quarter"},
		{name: "payment token not an address", key: "LICENSE_PAYMENT_TOKEN", value: "0x1234"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			_, err := Load()
			assert.Error(t, err)
		})
	}
}
