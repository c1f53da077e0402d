package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlugify(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"simple", "Paris Trip", "paris-trip"},
		{"accents", "Café de Flore 2024", "cafe-de-flore-2024"},
		{"slash", "São Paulo / Rio", "sao-paulo-rio"},
		{"already slug", "paris-trip", "paris-trip"},
		{"punctuation", "Kyoto!!! (Spring)", "kyoto-spring"},
		{"leading and trailing", "  --Oslo--  ", "oslo"},
		{"non latin dropped", "東京 Tokyo", "tokyo"},
		{"empty", "", ""},
		{"only symbols", "!@#$", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Slugify(tt.input))
		})
	}
}

func TestCleanTag(t *testing.T) {
	assert.Equal(t, "caf\u00e9", CleanTag(" cafe\u0301 "))
	assert.Equal(t, "beach", CleanTag("beach"))
	assert.Equal(t, "", CleanTag("   "))
}

func TestCleanTags(t *testing.T) {
	tests := []struct {
		name     string
		input    []string
		expected []string
	}{
		{"nil", nil, []string{}},
		{"order kept", []string{"y", "x"}, []string{"y", "x"}},
		{"trimmed", []string{"  beach ", "city"}, []string{"beach", "city"}},
		{"empty dropped", []string{"", "  ", "food"}, []string{"food"}},
		{"duplicates dropped", []string{"x", "y", "x", " y"}, []string{"x", "y"}},
		{"case kept", []string{"Beach", "beach"}, []string{"Beach", "beach"}},
		{"unicode forms collapse", []string{"caf\u00e9", "cafe\u0301"}, []string{"caf\u00e9"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, CleanTags(tt.input))
		})
	}
}
