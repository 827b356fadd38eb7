// Package pii provides reversible masking of personally identifiable
// information before text leaves the service boundary. The mapping produced
// by a mask call is scoped to that call and must never be persisted or
// logged.
package pii

import (
	"fmt"
	"regexp"
	"strings"
)

// Category labels one kind of sensitive substring.
type Category string

const (
	CategoryPhone    Category = "PHONE"
	CategoryEmail    Category = "EMAIL"
	CategoryPassport Category = "PASSPORT"
	CategoryTaxID    Category = "TAXID"
	CategoryCard     Category = "CARD"
)

// Match is one detected sensitive substring.
type Match struct {
	Category Category
	Value    string
}

// Detector finds sensitive substrings in text. Implementations must report
// matches grouped in a fixed category order so that masking is
// deterministic; for overlapping patterns the earlier category wins.
type Detector interface {
	Detect(text string) []Match
}

type pattern struct {
	category Category
	re       *regexp.Regexp
}

// RegexDetector is the pattern-based Detector. The generic TAXID pattern is
// deliberately broad (10-12 digits) and can also match phone fragments;
// category order decides which pattern claims an overlapping substring.
type RegexDetector struct {
	patterns []pattern
}

// NewRegexDetector builds the detector with the fixed category order
// PHONE, EMAIL, PASSPORT, TAXID, CARD.
func NewRegexDetector() *RegexDetector {
	return &RegexDetector{patterns: []pattern{
		{CategoryPhone, regexp.MustCompile(`(?:\+7|8)[\s\-]?\(?\d{3}\)?[\s\-]?\d{3}[\s\-]?\d{2,4}[\s\-]?\d{2,4}`)},
		{CategoryEmail, regexp.MustCompile(`[\w.\-]+@[\w.\-]+\.\w+`)},
		{CategoryPassport, regexp.MustCompile(`\b\d{4}\s\d{6}\b`)},
		{CategoryTaxID, regexp.MustCompile(`\b\d{10,12}\b`)},
		{CategoryCard, regexp.MustCompile(`\b\d{4}[\s\-]?\d{4}[\s\-]?\d{4}[\s\-]?\d{4}\b`)},
	}}
}

// Detect returns every distinct matched substring, grouped by category in
// the fixed order, preserving first-occurrence order within a category.
func (d *RegexDetector) Detect(text string) []Match {
	var matches []Match
	for _, p := range d.patterns {
		seen := make(map[string]struct{})
		for _, m := range p.re.FindAllString(text, -1) {
			if _, ok := seen[m]; ok {
				continue
			}
			seen[m] = struct{}{}
			matches = append(matches, Match{Category: p.category, Value: m})
		}
	}
	return matches
}

// Masker replaces detected substrings with placeholder tokens and reverses
// the substitution later.
type Masker struct {
	detector Detector
}

// NewMasker creates a Masker over the given detector.
func NewMasker(d Detector) *Masker {
	return &Masker{detector: d}
}

// Mask replaces every detected substring with a `<CATEGORY_n>` placeholder.
// The counter is shared across categories within one call, every occurrence
// of a matched substring is replaced, and each call allocates a fresh
// mapping from placeholder to original.
func (m *Masker) Mask(text string) (string, map[string]string) {
	mapping := make(map[string]string)
	masked := text
	counter := 1
	for _, match := range m.detector.Detect(text) {
		if !strings.Contains(masked, match.Value) {
			// The substring was already consumed by an earlier category.
			continue
		}
		placeholder := fmt.Sprintf("<%s_%d>", match.Category, counter)
		mapping[placeholder] = match.Value
		masked = strings.ReplaceAll(masked, match.Value, placeholder)
		counter++
	}
	return masked, mapping
}

// Unmask restores the original text using the mapping from the matching
// Mask call. For any text without pre-existing placeholder-shaped
// substrings, Unmask(Mask(text)) == text.
func (m *Masker) Unmask(masked string, mapping map[string]string) string {
	text := masked
	for placeholder, original := range mapping {
		text = strings.ReplaceAll(text, placeholder, original)
	}
	return text
}
