// Package generator builds practice texts from a word list.
package generator

import (
	"math/rand"
	"strings"
	"time"
	"unicode"

	"github.com/verte-zerg/typestats/internal/model"
)

// Generator produces randomized practice text.
type Generator struct {
	rnd *rand.Rand
}

// New returns a Generator seeded with the current time.
func New() *Generator {
	return NewWithSeed(time.Now().UnixNano())
}

// NewWithSeed returns a deterministic Generator.
func NewWithSeed(seed int64) *Generator {
	return &Generator{rnd: rand.New(rand.NewSource(seed))}
}

// Text builds a practice text for cfg. A fixed cfg.Text is returned as is.
// When weakSet is non-empty, words containing weak characters are drawn
// more often.
func (g *Generator) Text(words []string, cfg model.Config, weakSet map[rune]struct{}) string {
	if cfg.Text != "" {
		return cfg.Text
	}
	if len(words) == 0 || cfg.Words <= 0 {
		return ""
	}
	punct := []rune(cfg.PunctSet)
	var picked []string
	if len(weakSet) > 0 && cfg.WeakFactor > 0 {
		picked = g.GenerateWeighted(words, cfg.Words, cfg.CapsPct, cfg.PunctPct, punct, weakSet, cfg.WeakFactor)
	} else {
		picked = g.Generate(words, cfg.Words, cfg.CapsPct, cfg.PunctPct, punct)
	}
	return strings.Join(picked, " ")
}

// Generate selects words uniformly and applies caps/punctuation rules.
func (g *Generator) Generate(words []string, count int, capsPct, punctPct float64, punctSet []rune) []string {
	result := make([]string, 0, count)
	for i := 0; i < count; i++ {
		result = append(result, g.decorate(words[g.rnd.Intn(len(words))], capsPct, punctPct, punctSet))
	}
	return result
}

// GenerateWeighted selects words with a bias toward weak characters. Each
// word weighs 1 plus factor per weak character it contains.
func (g *Generator) GenerateWeighted(words []string, count int, capsPct, punctPct float64, punctSet []rune, weakSet map[rune]struct{}, factor float64) []string {
	weights := make([]float64, len(words))
	total := 0.0
	for i, word := range words {
		w := 1.0 + float64(WeakCount(word, weakSet))*factor
		weights[i] = w
		total += w
	}

	result := make([]string, 0, count)
	for i := 0; i < count; i++ {
		r := g.rnd.Float64() * total
		acc := 0.0
		idx := len(words) - 1
		for j, w := range weights {
			acc += w
			if r <= acc {
				idx = j
				break
			}
		}
		result = append(result, g.decorate(words[idx], capsPct, punctPct, punctSet))
	}
	return result
}

// WeakCount returns how many runes of word are in weakSet. Letters match
// regardless of case.
func WeakCount(word string, weakSet map[rune]struct{}) int {
	n := 0
	for _, r := range word {
		if _, ok := weakSet[r]; ok {
			n++
			continue
		}
		if _, ok := weakSet[unicode.ToLower(r)]; ok {
			n++
		}
	}
	return n
}

func (g *Generator) decorate(word string, capsPct, punctPct float64, punctSet []rune) string {
	word = applyCaps(g.rnd, word, capsPct)
	return applyPunct(g.rnd, word, punctPct, punctSet)
}

func applyCaps(rnd *rand.Rand, word string, capsPct float64) string {
	if capsPct <= 0 {
		return word
	}
	if rnd.Float64() > capsPct {
		return word
	}
	runes := []rune(word)
	if len(runes) == 0 {
		return word
	}
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}

func applyPunct(rnd *rand.Rand, word string, punctPct float64, punctSet []rune) string {
	if punctPct <= 0 || len(punctSet) == 0 {
		return word
	}
	if rnd.Float64() > punctPct {
		return word
	}
	punct := punctSet[rnd.Intn(len(punctSet))]
	return word + string(punct)
}
