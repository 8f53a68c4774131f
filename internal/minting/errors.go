package minting

import (
	"fmt"
	"strings"
)

// PreconditionError aborts a mint before any network call
type PreconditionError struct {
	Reason string
}

func (e *PreconditionError) Error() string {
	return e.Reason
}

// MintError is a classified failure of the minting SDK call
type MintError struct {
	Title       string
	Description string
	Err         error
}

func (e *MintError) Error() string {
	return fmt.Sprintf("%s: %v", e.Title, e.Err)
}

func (e *MintError) Unwrap() error {
	return e.Err
}

// phrase maps vendor error wording to a user-facing message.
// The table is best effort; vendors may change their wording at any time.
type phrase struct {
	needles     []string
	title       string
	description string
}

var phrases = []phrase{
	{
		needles:     []string{"Failed to fetch", "fetch"},
		title:       "Network request failed.",
		description: "There was an issue connecting to the network. Please check your internet connection and try again.",
	},
	{
		needles:     []string{"signature"},
		title:       "Transaction signature failed.",
		description: "Please check your wallet connection and approve the transaction when prompted.",
	},
	{
		needles:     []string{"network", "Network"},
		title:       "Network error. Please check your connection.",
		description: "Make sure you're connected to the correct network.",
	},
	{
		needles:     []string{"gas", "Gas"},
		title:       "Insufficient gas fees.",
		description: "Please ensure you have enough gas for the transaction.",
	},
	{
		needles:     []string{"user rejected", "User rejected"},
		title:       "Transaction was rejected.",
		description: "You declined the transaction. Please try again and approve when prompted.",
	},
	{
		needles:     []string{"IndexedDB"},
		title:       "Storage error.",
		description: "There was an issue with browser storage. Please try refreshing the page.",
	},
}

const genericTitle = "Minting failed. Please try again later."

// Classify maps an SDK error to a MintError. The first matching phrase wins.
func Classify(err error) *MintError {
	msg := err.Error()
	for _, p := range phrases {
		for _, needle := range p.needles {
			if strings.Contains(msg, needle) {
				return &MintError{Title: p.title, Description: p.description, Err: err}
			}
		}
	}

	description := msg
	if description == "" {
		description = "An unknown error occurred."
	}
	return &MintError{Title: genericTitle, Description: description, Err: err}
}
