package spanish

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPhoneticKey_ConfusablePairs(t *testing.T) {
	tests := []struct {
		name string
		a    string
		b    string
	}{
		{"b and v", "bebida", "vevida"},
		{"c and k", "coca", "koka"},
		{"c and s before e", "cerveza", "serbesa"},
		{"ll and y", "galleta", "gayeta"},
		{"silent h", "helado", "elado"},
		{"z and s", "azucar", "asucar"},
		{"q and k", "queso", "keso"},
		{"g and j before e", "gelatina", "jelatina"},
		{"accented and plain", "azúcar", "azucar"},
		{"enye and plain n", "piña", "pina"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, PhoneticKey(tc.a), PhoneticKey(tc.b),
				"%q and %q should share a bucket", tc.a, tc.b)
		})
	}
}

func TestPhoneticKey_DistinctWords(t *testing.T) {
	assert.NotEqual(t, PhoneticKey("leche"), PhoneticKey("lechuga"))
	assert.NotEqual(t, PhoneticKey("pan"), PhoneticKey("pollo"))
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"lowercase and trim", "  Coca Cola  ", "coca cola"},
		{"accents folded", "azúcar", "azucar"},
		{"internal whitespace collapsed", "sin   azucar", "sin azucar"},
		{"empty", "", ""},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Normalize(tc.input))
		})
	}
}

func TestIsNumeric(t *testing.T) {
	assert.True(t, IsNumeric("10"))
	assert.True(t, IsNumeric("10.5"))
	assert.True(t, IsNumeric("10,5"))
	assert.False(t, IsNumeric("10.5.1"))
	assert.False(t, IsNumeric("diez"))
	assert.False(t, IsNumeric(""))
	assert.False(t, IsNumeric("."))
}
