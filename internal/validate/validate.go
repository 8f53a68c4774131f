package validate

import (
	"fmt"
	"html"
	"slices"
	"strings"
	"unicode/utf8"

	goaway "github.com/TwiN/go-away"
	"github.com/microcosm-cc/bluemonday"
)

const (
	MaxNameLength        = 100
	MaxDescriptionLength = 500
)

// Kind classifies a validation failure
type Kind string

const (
	EmptyField        Kind = "empty_field"
	FieldTooLong      Kind = "field_too_long"
	ProfanityDetected Kind = "profanity_detected"
)

// ValidationError reports a user-correctable problem with a text field
type ValidationError struct {
	Field string // "name" or "description"
	Kind  Kind
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Kind)
}

// Title returns the user-facing headline for the error
func (e *ValidationError) Title() string {
	switch e.Kind {
	case EmptyField:
		return fmt.Sprintf("Please enter an IP %s", e.Field)
	case FieldTooLong:
		return fmt.Sprintf("The IP %s is too long.", e.Field)
	default:
		return fmt.Sprintf("Please enter a valid %s for your IP.", e.Field)
	}
}

// Description returns the user-facing detail for the error
func (e *ValidationError) Description() string {
	switch e.Kind {
	case EmptyField:
		return fmt.Sprintf("IP %s is required to continue.", e.Field)
	case FieldTooLong:
		limit := MaxNameLength
		if e.Field == "description" {
			limit = MaxDescriptionLength
		}
		return fmt.Sprintf("The %s must be at most %d characters.", e.Field, limit)
	default:
		return fmt.Sprintf("The %s contains profanity or invalid characters.", e.Field)
	}
}

var strict = bluemonday.StrictPolicy()

// Validate checks the IP name and description before anything is uploaded
func Validate(name, description string) error {
	fields := []struct {
		field string
		value string
		max   int
	}{
		{"name", name, MaxNameLength},
		{"description", description, MaxDescriptionLength},
	}

	for _, f := range fields {
		if strings.TrimSpace(f.value) == "" {
			return &ValidationError{Field: f.field, Kind: EmptyField}
		}
	}
	for _, f := range fields {
		if utf8.RuneCountInString(f.value) > f.max {
			return &ValidationError{Field: f.field, Kind: FieldTooLong}
		}
	}
	for _, f := range fields {
		if checkProfanity(f.value) {
			return &ValidationError{Field: f.field, Kind: ProfanityDetected}
		}
	}

	return nil
}

// Sanitize trims the field and strips any markup from it
func Sanitize(s string) string {
	return html.UnescapeString(strict.Sanitize(strings.TrimSpace(s)))
}

// artFalsePositives are names common in artwork titles that contain a
// dictionary word once spaces are removed
var artFalsePositives = []string{
	"analog",
	"cockatoo",
	"cockerel",
	"cockpit",
	"cumulus",
	"dickens",
	"dickinson",
	"essex",
	"hancock",
	"hitchcock",
	"peacock",
	"sextant",
	"sextet",
	"shuttlecock",
	"woodcock",
}

var profanity = goaway.NewProfanityDetector().WithCustomDictionary(
	goaway.DefaultProfanities,
	append(slices.Clone(goaway.DefaultFalsePositives), artFalsePositives...),
	goaway.DefaultFalseNegatives,
)

// checkProfanity reports whether the text contains profanity or markup
func checkProfanity(s string) bool {
	if profanity.IsProfane(s) {
		return true
	}
	trimmed := strings.TrimSpace(s)
	return Sanitize(trimmed) != trimmed
}
