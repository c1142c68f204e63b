package textnorm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize_Lowercases(t *testing.T) {
	assert.Equal(t, "hello", Normalize("Hello"))
	assert.Equal(t, "hello world", Normalize("HELLO WORLD"))
}

func TestNormalize_FoldsUnicodeCase(t *testing.T) {
	assert.Equal(t, "café", Normalize("CAFÉ"))
	assert.Equal(t, "ångström", Normalize("ÅNGSTRÖM"))
}

func TestNormalize_NFCCombinesDecomposedForms(t *testing.T) {
	// "é" expressed as combining sequence e + acute accent normalizes
	// identically to its precomposed form.
	decomposed := "é"
	precomposed := "é"
	assert.Equal(t, Normalize(precomposed), Normalize(decomposed))
}

func TestNormalize_IsIdempotent(t *testing.T) {
	once := Normalize("Ångström")
	twice := Normalize(once)
	assert.Equal(t, once, twice)
}

func TestEndsInWordBoundary(t *testing.T) {
	assert.False(t, EndsInWordBoundary(""))
	assert.False(t, EndsInWordBoundary("cat"))
	assert.False(t, EndsInWordBoundary("cat5"))
	assert.True(t, EndsInWordBoundary("cat "))
	assert.True(t, EndsInWordBoundary("cat-"))
	assert.True(t, EndsInWordBoundary("cat."))
}
