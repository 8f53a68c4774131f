package license

import (
	"encoding/json"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// MaxRoyaltyBps is 100% expressed in basis points
const MaxRoyaltyBps = 10000

// Terms are the license terms attached to a minted IP
type Terms struct {
	Price           *big.Int       // smallest currency unit (wei)
	DurationSeconds uint64
	RoyaltyBps      int
	PaymentToken    common.Address // zero address means the native currency
}

// Build converts human-facing license settings into Terms.
// royaltyPercent is multiplied by 100 and truncated toward zero.
func Build(priceWei *big.Int, durationSeconds uint64, royaltyPercent float64, paymentToken common.Address) Terms {
	price := new(big.Int)
	if priceWei != nil {
		price.Set(priceWei)
	}
	return Terms{
		Price:           price,
		DurationSeconds: durationSeconds,
		RoyaltyBps:      int(royaltyPercent * 100),
		PaymentToken:    paymentToken,
	}
}

// Validate checks the invariants the minting API relies on
func (t Terms) Validate() error {
	if t.Price == nil || t.Price.Sign() < 0 {
		return fmt.Errorf("license price must be a non-negative amount")
	}
	if t.DurationSeconds == 0 {
		return fmt.Errorf("license duration must be greater than zero")
	}
	if t.RoyaltyBps < 0 || t.RoyaltyBps > MaxRoyaltyBps {
		return fmt.Errorf("license royalty %d bps is outside [0, %d]", t.RoyaltyBps, MaxRoyaltyBps)
	}
	return nil
}

// IsNativeCurrency reports whether the license is paid in the chain's native token
func (t Terms) IsNativeCurrency() bool {
	return t.PaymentToken == (common.Address{})
}

type wireTerms struct {
	Price        string `json:"price"`
	Duration     uint64 `json:"duration"`
	RoyaltyBps   int    `json:"royaltyBps"`
	PaymentToken string `json:"paymentToken"`
}

func (t Terms) MarshalJSON() ([]byte, error) {
	price := "0"
	if t.Price != nil {
		price = t.Price.String()
	}
	return json.Marshal(wireTerms{
		Price:        price,
		Duration:     t.DurationSeconds,
		RoyaltyBps:   t.RoyaltyBps,
		PaymentToken: t.PaymentToken.Hex(),
	})
}

func (t *Terms) UnmarshalJSON(data []byte) error {
	var w wireTerms
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	price, ok := new(big.Int).SetString(w.Price, 10)
	if !ok {
		return fmt.Errorf("invalid license price %q", w.Price)
	}
	if !common.IsHexAddress(w.PaymentToken) {
		return fmt.Errorf("invalid payment token %q", w.PaymentToken)
	}
	*t = Terms{
		Price:           price,
		DurationSeconds: w.Duration,
		RoyaltyBps:      w.RoyaltyBps,
		PaymentToken:    common.HexToAddress(w.PaymentToken),
	}
	return nil
}
