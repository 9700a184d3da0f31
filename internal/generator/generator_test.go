package generator

import (
	"strings"
	"testing"
	"unicode"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verte-zerg/typestats/internal/model"
)

func TestTextFixed(t *testing.T) {
	g := NewWithSeed(1)
	cfg := model.Config{Text: "the quick fox", Words: 50}
	assert.Equal(t, "the quick fox", g.Text([]string{"a"}, cfg, nil))
}

func TestTextWordCount(t *testing.T) {
	g := NewWithSeed(7)
	words := []string{"alpha", "beta", "gamma"}
	text := g.Text(words, model.Config{Words: 12}, nil)
	parts := strings.Split(text, " ")
	require.Len(t, parts, 12)
	for _, p := range parts {
		assert.Contains(t, words, p)
	}
	assert.Equal(t, "", g.Text(nil, model.Config{Words: 3}, nil))
}

func TestGenerateCapsAndPunct(t *testing.T) {
	g := NewWithSeed(3)
	out := g.Generate([]string{"word"}, 20, 1, 1, []rune{'!'})
	require.Len(t, out, 20)
	for _, w := range out {
		assert.Equal(t, "Word!", w)
	}
}

func TestGenerateWeightedPrefersWeakWords(t *testing.T) {
	g := NewWithSeed(11)
	words := []string{"qqq", "abc"}
	weak := map[rune]struct{}{'q': {}}
	out := g.GenerateWeighted(words, 2000, 0, 0, nil, weak, 10)

	weakHits := 0
	for _, w := range out {
		if w == "qqq" {
			weakHits++
		}
	}
	// qqq weighs 31 against 1.
	assert.Greater(t, weakHits, 1800)
}

func TestWeakCountIgnoresCase(t *testing.T) {
	weak := map[rune]struct{}{'e': {}}
	assert.Equal(t, 2, WeakCount("Eve", weak))
	assert.Equal(t, 0, WeakCount("abc", weak))
}

func TestTextUsesWeakSet(t *testing.T) {
	g := NewWithSeed(5)
	cfg := model.Config{Words: 200, WeakFactor: 50}
	text := g.Text([]string{"zz", "ab"}, cfg, map[rune]struct{}{'z': {}})
	assert.Greater(t, strings.Count(text, "zz"), 150)
	assert.False(t, strings.ContainsFunc(text, unicode.IsUpper))
}
