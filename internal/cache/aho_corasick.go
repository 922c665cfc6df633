// AdMatch - Conversational Sponsored Placement Decisioning
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/admatch

package cache

import (
	"strings"
	"sync"
	"unicode"
	"unicode/utf8"
)

// AhoCorasick finds all occurrences of many patterns in one pass over the
// text, in O(n + m + z) for text length n, total pattern length m and z
// matches.
//
//	ac := NewAhoCorasick()
//	ac.AddPattern("buy", "high_commercial")
//	ac.AddPattern("price", "medium_commercial")
//	ac.Build()
//
//	matches := ac.Search("Where can I buy it?")
//	// []Match{{Pattern: "buy", Data: "high_commercial", Start: 12, End: 15}}
type AhoCorasick struct {
	mu            sync.RWMutex
	root          *acNode
	patterns      []Pattern
	built         bool
	caseSensitive bool
}

type acNode struct {
	children map[rune]*acNode
	failure  *acNode
	output   []int // indices into patterns ending here
	depth    int
}

// Pattern is a search pattern with optional associated data.
type Pattern struct {
	Text string
	Data any
}

// Match is a pattern occurrence. Start and End are byte offsets into the
// searched text (lowercased first for case-insensitive automatons), so
// text[Start:End] is the matched span.
type Match struct {
	Pattern string
	Data    any
	Start   int
	End     int
}

// NewAhoCorasick creates a case-insensitive automaton.
func NewAhoCorasick() *AhoCorasick {
	return &AhoCorasick{root: newACNode(0)}
}

// NewAhoCorasickCaseSensitive creates a case-sensitive automaton.
func NewAhoCorasickCaseSensitive() *AhoCorasick {
	return &AhoCorasick{root: newACNode(0), caseSensitive: true}
}

func newACNode(depth int) *acNode {
	return &acNode{
		children: make(map[rune]*acNode),
		depth:    depth,
	}
}

// AddPattern adds a pattern. Empty patterns are ignored. The automaton must
// be rebuilt before the pattern is searchable.
func (ac *AhoCorasick) AddPattern(pattern string, data any) {
	if pattern == "" {
		return
	}

	ac.mu.Lock()
	defer ac.mu.Unlock()

	ac.built = false
	ac.patterns = append(ac.patterns, Pattern{Text: pattern, Data: data})
}

// AddPatterns adds several patterns sharing the same data.
func (ac *AhoCorasick) AddPatterns(patterns []string, data any) {
	for _, p := range patterns {
		ac.AddPattern(p, data)
	}
}

// Build constructs the trie and failure links. Calling Build on an already
// built automaton is a no-op.
func (ac *AhoCorasick) Build() {
	ac.mu.Lock()
	defer ac.mu.Unlock()

	if ac.built {
		return
	}

	ac.root = newACNode(0)
	for i, p := range ac.patterns {
		ac.insertPattern(i, ac.normalize(p.Text))
	}
	ac.buildFailureLinks()
	ac.built = true
}

func (ac *AhoCorasick) normalize(s string) string {
	if ac.caseSensitive {
		return s
	}
	return strings.ToLower(s)
}

func (ac *AhoCorasick) insertPattern(index int, text string) {
	node := ac.root
	for _, ch := range text {
		if node.children[ch] == nil {
			node.children[ch] = newACNode(node.depth + 1)
		}
		node = node.children[ch]
	}
	node.output = append(node.output, index)
}

// buildFailureLinks runs a BFS from the root.
func (ac *AhoCorasick) buildFailureLinks() {
	queue := make([]*acNode, 0, len(ac.root.children))
	for _, child := range ac.root.children {
		child.failure = ac.root
		queue = append(queue, child)
	}

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		for ch, child := range current.children {
			queue = append(queue, child)

			fail := current.failure
			for fail != nil && fail.children[ch] == nil {
				fail = fail.failure
			}

			if fail == nil {
				child.failure = ac.root
			} else {
				child.failure = fail.children[ch]
				child.output = append(child.output, child.failure.output...)
			}
		}
	}
}

// Search returns every match in text, ordered by end offset.
func (ac *AhoCorasick) Search(text string) []Match {
	var matches []Match
	ac.scan(text, func(m Match) bool {
		matches = append(matches, m)
		return true
	})
	return matches
}

// SearchFirst returns the match that ends earliest in text.
func (ac *AhoCorasick) SearchFirst(text string) (Match, bool) {
	var first Match
	found := false
	ac.scan(text, func(m Match) bool {
		first, found = m, true
		return false
	})
	return first, found
}

// Contains reports whether any pattern occurs in text.
func (ac *AhoCorasick) Contains(text string) bool {
	_, found := ac.SearchFirst(text)
	return found
}

// MatchCount returns the number of matches in text.
func (ac *AhoCorasick) MatchCount(text string) int {
	n := 0
	ac.scan(text, func(Match) bool {
		n++
		return true
	})
	return n
}

// PatternCount returns the number of patterns added.
func (ac *AhoCorasick) PatternCount() int {
	ac.mu.RLock()
	defer ac.mu.RUnlock()
	return len(ac.patterns)
}

// Clear removes all patterns.
func (ac *AhoCorasick) Clear() {
	ac.mu.Lock()
	defer ac.mu.Unlock()

	ac.root = newACNode(0)
	ac.patterns = nil
	ac.built = false
}

// scan walks the automaton over text and calls emit for each match until
// emit returns false.
func (ac *AhoCorasick) scan(text string, emit func(Match) bool) {
	ac.mu.RLock()
	defer ac.mu.RUnlock()

	if !ac.built || len(ac.patterns) == 0 {
		return
	}

	searchText := ac.normalize(text)
	node := ac.root

	for i, ch := range searchText {
		for node != nil && node.children[ch] == nil {
			node = node.failure
		}
		if node == nil {
			node = ac.root
			continue
		}
		node = node.children[ch]

		end := i + utf8.RuneLen(ch)
		for _, idx := range node.output {
			p := ac.patterns[idx]
			m := Match{
				Pattern: p.Text,
				Data:    p.Data,
				Start:   end - len(ac.normalize(p.Text)),
				End:     end,
			}
			if !emit(m) {
				return
			}
		}
	}
}

// KeywordMatcher matches keywords as whole words.
//
// A keyword without whitespace only matches when it is not embedded in a
// longer word, so "hi" matches "hi there" but not "this" or "machine".
// A keyword containing whitespace is a phrase and matches literally.
type KeywordMatcher struct {
	ac *AhoCorasick
}

// NewKeywordMatcher builds a matcher over keywords. Duplicates and blank
// entries are dropped.
func NewKeywordMatcher(keywords []string) *KeywordMatcher {
	ac := NewAhoCorasick()
	seen := make(map[string]struct{}, len(keywords))
	for _, kw := range keywords {
		kw = strings.ToLower(strings.TrimSpace(kw))
		if kw == "" {
			continue
		}
		if _, dup := seen[kw]; dup {
			continue
		}
		seen[kw] = struct{}{}
		ac.AddPattern(kw, nil)
	}
	ac.Build()
	return &KeywordMatcher{ac: ac}
}

// Len returns the number of distinct keywords.
func (km *KeywordMatcher) Len() int {
	return km.ac.PatternCount()
}

// MatchWords returns the distinct keywords found in text, in order of first
// occurrence.
func (km *KeywordMatcher) MatchWords(text string) []string {
	lowered := strings.ToLower(text)

	var out []string
	seen := make(map[string]struct{})
	km.ac.scan(lowered, func(m Match) bool {
		if !acceptWord(lowered, m) {
			return true
		}
		if _, dup := seen[m.Pattern]; !dup {
			seen[m.Pattern] = struct{}{}
			out = append(out, m.Pattern)
		}
		return true
	})
	return out
}

// ContainsWord reports whether any keyword occurs in text.
func (km *KeywordMatcher) ContainsWord(text string) bool {
	lowered := strings.ToLower(text)

	found := false
	km.ac.scan(lowered, func(m Match) bool {
		if acceptWord(lowered, m) {
			found = true
			return false
		}
		return true
	})
	return found
}

func acceptWord(text string, m Match) bool {
	if strings.ContainsFunc(m.Pattern, unicode.IsSpace) {
		return true
	}
	if m.Start > 0 {
		r, _ := utf8.DecodeLastRuneInString(text[:m.Start])
		if isWordRune(r) {
			return false
		}
	}
	if m.End < len(text) {
		r, _ := utf8.DecodeRuneInString(text[m.End:])
		if isWordRune(r) {
			return false
		}
	}
	return true
}

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}
