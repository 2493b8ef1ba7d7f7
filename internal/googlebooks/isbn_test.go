package googlebooks

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeISBN(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"hyphenated ISBN-13", "978-0-13-110362-7", "9780131103627"},
		{"spaces", "978 0131103627", "9780131103627"},
		{"underscores and periods", "978_0131.103627", "9780131103627"},
		{"already clean", "9780131103627", "9780131103627"},
		{"empty string", "", ""},
		{"ISBN-10 with X check digit", "0-8044-2957-X", "080442957X"},
		{"mixed noise", "978-0 13_1103.62-7", "9780131103627"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, NormalizeISBN(tt.input))
		})
	}
}

func TestSelectISBN(t *testing.T) {
	t.Run("prefers first ISBN_13", func(t *testing.T) {
		identifiers := []IndustryIdentifier{
			{Type: "ISBN_10", Identifier: "0131103628"},
			{Type: "ISBN_13", Identifier: "9780131103627"},
			{Type: "ISBN_13", Identifier: "9999999999999"},
		}

		isbn, ok := SelectISBN(identifiers)
		assert.True(t, ok)
		assert.Equal(t, "9780131103627", isbn)
	})

	t.Run("falls back to first identifier of any type", func(t *testing.T) {
		identifiers := []IndustryIdentifier{
			{Type: "ISBN_10", Identifier: "0131103628"},
			{Type: "OTHER", Identifier: "B00ABC1234"},
		}

		isbn, ok := SelectISBN(identifiers)
		assert.True(t, ok)
		assert.Equal(t, "0131103628", isbn)
	})

	t.Run("empty list selects nothing", func(t *testing.T) {
		isbn, ok := SelectISBN(nil)
		assert.False(t, ok)
		assert.Empty(t, isbn)
	})
}
