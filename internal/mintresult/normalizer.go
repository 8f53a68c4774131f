package mintresult

import (
	"math/big"
	"regexp"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"
)

// Outcome is what could be recovered from a minting response.
// Empty fields were not found.
type Outcome struct {
	TransactionHash string `json:"transaction_hash,omitempty" yaml:"transactionhash,omitempty"`
	TokenID         string `json:"token_id,omitempty" yaml:"tokenid,omitempty"`
}

// Rule extracts a single value from a raw JSON response.
// Implementations are PathLookup and RegexScan.
type Rule interface {
	extract(doc gjson.Result, raw []byte) (string, bool)
}

// PathLookup reads a dotted property path such as "receipt.transactionHash".
// Only non-empty strings match unless AllowNumber is set, in which case
// numbers match too and are rendered in decimal.
type PathLookup struct {
	Path        string
	AllowNumber bool
}

func (p PathLookup) extract(doc gjson.Result, _ []byte) (string, bool) {
	v := doc.Get(p.Path)
	switch {
	case v.Type == gjson.String && v.Str != "":
		return v.Str, true
	case v.Type == gjson.Number && p.AllowNumber:
		return formatNumber(v), true
	}
	return "", false
}

// RegexScan searches the serialized response for the first match of Pattern
type RegexScan struct {
	Pattern *regexp.Regexp
}

func (r RegexScan) extract(_ gjson.Result, raw []byte) (string, bool) {
	m := r.Pattern.Find(raw)
	if m == nil {
		return "", false
	}
	return string(m), true
}

var txHashPattern = regexp.MustCompile(`0x[a-fA-F0-9]{64}`)

// HashRules locate the transaction hash, in priority order
var HashRules = []Rule{
	PathLookup{Path: "transactionHash"},
	PathLookup{Path: "hash"},
	PathLookup{Path: "txHash"},
	PathLookup{Path: "tx.hash"},
	PathLookup{Path: "transaction.hash"},
	PathLookup{Path: "receipt.transactionHash"},
	PathLookup{Path: "receipt.hash"},
	PathLookup{Path: "wait.transactionHash"},
	PathLookup{Path: "result.transactionHash"},
	PathLookup{Path: "data.transactionHash"},
	PathLookup{Path: "response.transactionHash"},
	RegexScan{Pattern: txHashPattern},
}

// TokenIDRules locate the token identifier, in priority order
var TokenIDRules = []Rule{
	PathLookup{Path: "tokenId", AllowNumber: true},
	PathLookup{Path: "tokenID", AllowNumber: true},
	PathLookup{Path: "id", AllowNumber: true},
	PathLookup{Path: "nftId", AllowNumber: true},
	PathLookup{Path: "token.id", AllowNumber: true},
	PathLookup{Path: "nft.id", AllowNumber: true},
	PathLookup{Path: "result.tokenId", AllowNumber: true},
	PathLookup{Path: "data.tokenId", AllowNumber: true},
}

// FirstMatch evaluates rules in order and returns the first value found
func FirstMatch(rules []Rule, raw []byte) (string, bool) {
	doc := gjson.ParseBytes(raw)
	for _, rule := range rules {
		if v, ok := rule.extract(doc, raw); ok {
			return v, true
		}
	}
	return "", false
}

// Normalize extracts the transaction hash and token id from an untrusted
// minting response. It never fails; missing values are left empty.
func Normalize(raw []byte) Outcome {
	var out Outcome
	doc := gjson.ParseBytes(raw)

	switch {
	case doc.IsObject() || doc.IsArray():
		out.TransactionHash, _ = FirstMatch(HashRules, raw)
		out.TokenID, _ = FirstMatch(TokenIDRules, raw)
	case doc.Type == gjson.String:
		if strings.HasPrefix(doc.Str, "0x") && len(doc.Str) == 66 {
			out.TransactionHash = doc.Str
		}
	}

	return out
}

func formatNumber(v gjson.Result) string {
	if n, ok := new(big.Int).SetString(v.Raw, 10); ok {
		return n.String()
	}
	return strconv.FormatFloat(v.Num, 'f', -1, 64)
}
