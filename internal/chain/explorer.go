package chain

import "strings"

// TxURL links a transaction on the block explorer
func TxURL(explorer, txHash string) string {
	if txHash == "" {
		return ""
	}
	return strings.TrimRight(explorer, "/") + "/tx/" + txHash
}

// ShareText is the message offered when sharing a minted IP
func ShareText(txHash string) string {
	if txHash == "" {
		return "Check out my minted IP NFT!"
	}
	return "Check out my minted IP NFT! Transaction: " + txHash
}

// Truncate shortens s to its first head and last tail characters
func Truncate(s string, head, tail int) string {
	if len(s) <= head+tail {
		return s
	}
	return s[:head] + "..." + s[len(s)-tail:]
}
