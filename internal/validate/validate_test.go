package validate

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name        string
		ipName      string
		description string
		field       string
		kind        Kind
	}{
		{
			name:        "valid input",
			ipName:      "Mountain Sunrise",
			description: "A photograph of a mountain at dawn",
		},
		{
			name:        "blank name",
			ipName:      "   ",
			description: "A photograph of a mountain at dawn",
			field:       "name",
			kind:        EmptyField,
		},
		{
			name:        "blank description",
			ipName:      "Mountain Sunrise",
			description: "\n\t",
			field:       "description",
			kind:        EmptyField,
		},
		{
			name:        "both blank reports name first",
			ipName:      "",
			description: "",
			field:       "name",
			kind:        EmptyField,
		},
		{
			name:        "name too long",
			ipName:      strings.Repeat("a", MaxNameLength+1),
			description: "A photograph of a mountain at dawn",
			field:       "name",
			kind:        FieldTooLong,
		},
		{
			name:        "name at limit",
			ipName:      strings.Repeat("a", MaxNameLength),
			description: "A photograph of a mountain at dawn",
		},
		{
			name:        "description too long",
			ipName:      "Mountain Sunrise",
			description: strings.Repeat("b", MaxDescriptionLength+1),
			field:       "description",
			kind:        FieldTooLong,
		},
		{
			name:        "profane name",
			ipName:      "fuck this",
			description: "A photograph of a mountain at dawn",
			field:       "name",
			kind:        ProfanityDetected,
		},
		{
			name:        "surname containing a dictionary word",
			ipName:      "Dickens novel",
			description: "A first edition of a Dickens novel",
		},
		{
			name:        "bird names are allowed",
			ipName:      "Peacock at dusk",
			description: "A woodcock and a cockatoo",
		},
		{
			name:        "profanity next to an allowed word",
			ipName:      "Dickens fuck",
			description: "A photograph of a mountain at dawn",
			field:       "name",
			kind:        ProfanityDetected,
		},
		{
			name:        "markup in description",
			ipName:      "Mountain Sunrise",
			description: "<script>alert(1)</script>Mountain",
			field:       "description",
			kind:        ProfanityDetected,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.ipName, tt.description)
			if tt.kind == "" {
				assert.NoError(t, err)
				return
			}

			var verr *ValidationError
			require.True(t, errors.As(err, &verr), "expected ValidationError, got %v", err)
			assert.Equal(t, tt.field, verr.Field)
			assert.Equal(t, tt.kind, verr.Kind)
			assert.NotEmpty(t, verr.Title())
			assert.NotEmpty(t, verr.Description())
		})
	}
}

func TestValidationErrorMessages(t *testing.T) {
	err := &ValidationError{Field: "name", Kind: EmptyField}
	assert.Equal(t, "Please enter an IP name", err.Title())
	assert.Equal(t, "IP name is required to continue.", err.Description())

	err = &ValidationError{Field: "description", Kind: ProfanityDetected}
	assert.Equal(t, "Please enter a valid description for your IP.", err.Title())
	assert.Equal(t, "The description contains profanity or invalid characters.", err.Description())
}

func TestSanitize(t *testing.T) {
	assert.Equal(t, "Tom & Jerry", Sanitize("  Tom & Jerry "))
	assert.Equal(t, "bold", Sanitize("<b>bold</b>"))
}
