package receipts

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// License is the license section of a receipt
type License struct {
	PriceWei        string `yaml:"pricewei"`
	DurationSeconds uint64 `yaml:"durationseconds"`
	RoyaltyBps      int    `yaml:"royaltybps"`
	PaymentToken    string `yaml:"paymenttoken"`
}

// Receipt records a successful mint
type Receipt struct {
	Name            string  `yaml:"name"`
	Description     string  `yaml:"description"`
	File            string  `yaml:"file"`
	Mimetype        string  `yaml:"mimetype"`
	SizeBytes       int64   `yaml:"sizebytes"`
	CID             string  `yaml:"cid"`
	Image           string  `yaml:"image"`
	Wallet          string  `yaml:"wallet"`
	TransactionHash string  `yaml:"transactionhash,omitempty"`
	TokenID         string  `yaml:"tokenid,omitempty"`
	ExplorerURL     string  `yaml:"explorerurl,omitempty"`
	License         License `yaml:"license"`
	MintedAt        string  `yaml:"mintedat"`
}

// SaveToYAML writes r into dir and returns the file path
func SaveToYAML(dir string, r Receipt) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create receipts directory: %w", err)
	}

	if r.MintedAt == "" {
		r.MintedAt = time.Now().UTC().Format(time.RFC3339)
	}

	id := r.TransactionHash
	if id == "" {
		id = r.CID
	}
	if len(id) > 12 {
		id = id[:12]
	}
	timestamp := time.Now().Format("2006-01-02_15-04-05")
	filename := filepath.Join(dir, fmt.Sprintf("%s-%s.yaml", timestamp, strings.ToLower(id)))

	data, err := yaml.Marshal(&r)
	if err != nil {
		return "", fmt.Errorf("failed to marshal YAML: %w", err)
	}
	if err := os.WriteFile(filename, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write YAML file: %w", err)
	}
	return filename, nil
}

// Load reads a receipt written by SaveToYAML
func Load(path string) (*Receipt, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read receipt: %w", err)
	}
	var r Receipt
	if err := yaml.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("failed to parse receipt: %w", err)
	}
	return &r, nil
}
