// Copyright 2025 Jurisnorm Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


// Package similarity measures how close two metadata terms are.
//
// The metric is normalized Levenshtein similarity over runes, in [0, 1]:
// 1 means the terms fold to the same string, 0 means nothing in common.
// Comparison is always case-insensitive; diacritic folding is opt-in
// because in Portuguese legal vocabulary accents are often the whole
// difference between a typo and a distinct term.
package similarity

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Engine computes similarity between term pairs with a fixed folding policy.
// An Engine is immutable after construction and safe for concurrent use.
type Engine struct {
	foldDiacritics bool
	folder         transform.Transformer
}

// Option configures an Engine.
type Option func(*Engine) error

// WithFoldDiacritics makes the engine strip combining marks before
// comparing, so "Acórdão" and "Acordao" fold to the same string.
func WithFoldDiacritics() Option {
	return func(e *Engine) error {
		e.foldDiacritics = true
		return nil
	}
}

// NewEngine creates a similarity engine.
func NewEngine(opts ...Option) (*Engine, error) {
	e := &Engine{}
	for _, opt := range opts {
		if err := opt(e); err != nil {
			return nil, err
		}
	}
	if e.foldDiacritics {
		e.folder = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	}
	return e, nil
}

// fold applies the engine's folding policy to a term.
func (e *Engine) fold(s string) string {
	s = strings.ToLower(s)
	if e.folder != nil {
		if folded, _, err := transform.String(e.folder, s); err == nil {
			s = folded
		}
	}
	return s
}

// Distance returns the Levenshtein edit distance between the folded
// forms of a and b, counted in runes.
func (e *Engine) Distance(a, b string) int {
	return levenshtein([]rune(e.fold(a)), []rune(e.fold(b)))
}

// Similarity returns the normalized similarity between a and b:
// 1 - distance/maxLen, where maxLen is the longer folded rune length.
// Two empty terms are identical, so their similarity is 1.
func (e *Engine) Similarity(a, b string) float64 {
	fa := []rune(e.fold(a))
	fb := []rune(e.fold(b))

	maxLen := len(fa)
	if len(fb) > maxLen {
		maxLen = len(fb)
	}
	if maxLen == 0 {
		return 1
	}
	return 1 - float64(levenshtein(fa, fb))/float64(maxLen)
}

// levenshtein computes edit distance with the two-row dynamic program.
func levenshtein(a, b []rune) int {
	if len(a) == 0 {
		return len(b)
	}
	if len(b) == 0 {
		return len(a)
	}

	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)
	for j := range prev {
		prev[j] = j
	}

	for i := 1; i <= len(a); i++ {
		curr[0] = i
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			curr[j] = min3(
				prev[j]+1,      // deletion
				curr[j-1]+1,    // insertion
				prev[j-1]+cost, // substitution
			)
		}
		prev, curr = curr, prev
	}
	return prev[len(b)]
}

func min3(a, b, c int) int {
	if b < a {
		a = b
	}
	if c < a {
		a = c
	}
	return a
}

var defaultEngine = &Engine{}

// Distance computes edit distance with the default case-insensitive engine.
func Distance(a, b string) int {
	return defaultEngine.Distance(a, b)
}

// Similarity computes normalized similarity with the default
// case-insensitive engine.
func Similarity(a, b string) float64 {
	return defaultEngine.Similarity(a, b)
}
