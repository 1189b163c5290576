package utils

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"persian-pages/constants"
)

var ErrSlugExhausted = errors.New("no free slug candidate")

var persianLatin = map[rune]string{
	'آ': "a", 'ا': "a", 'ب': "b", 'پ': "p", 'ت': "t",
	'ث': "s", 'ج': "j", 'چ': "ch", 'ح': "h", 'خ': "kh",
	'د': "d", 'ذ': "z", 'ر': "r", 'ز': "z", 'ژ': "zh",
	'س': "s", 'ش': "sh", 'ص': "s", 'ض': "z", 'ط': "t",
	'ظ': "z", 'ع': "a", 'غ': "gh", 'ف': "f", 'ق': "gh",
	'ک': "k", 'گ': "g", 'ل': "l", 'م': "m", 'ن': "n",
	'و': "v", 'ه': "h", 'ی': "y", 'ي': "y", 'ئ': "y",
	'ة': "h", 'ؤ': "v", 'إ': "e", 'أ': "a", 'ك': "k",

	'۰': "0", '۱': "1", '۲': "2", '۳': "3", '۴': "4",
	'۵': "5", '۶': "6", '۷': "7", '۸': "8", '۹': "9",

	// harakat
	'\u064B': "", '\u064C': "", '\u064D': "", '\u064E': "",
	'\u064F': "", '\u0650': "", '\u0651': "", '\u0652': "",

	// zero-width non-joiner
	'\u200C': "-",
}

var (
	slugInvalidChars = regexp.MustCompile(`[^a-z0-9\s-]`)
	slugWhitespace   = regexp.MustCompile(`\s+`)
	slugDashes       = regexp.MustCompile(`-+`)
)

// Transliterate maps Persian and Arabic letters to Latin. Anything not in the
// table passes through unchanged.
func Transliterate(text string) string {
	var b strings.Builder
	b.Grow(len(text))
	for _, r := range text {
		if latin, ok := persianLatin[r]; ok {
			b.WriteString(latin)
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// SlugBase builds the URL slug stem for a title and city.
func SlugBase(title, city string) string {
	s := strings.ToLower(Transliterate(title + " " + city))
	s = slugInvalidChars.ReplaceAllString(s, "")
	s = slugWhitespace.ReplaceAllString(s, "-")
	s = slugDashes.ReplaceAllString(s, "-")
	s = strings.Trim(s, "-")
	if len(s) > constants.SlugMaxLength {
		s = s[:constants.SlugMaxLength]
	}
	return s
}

// SlugCandidate returns the n-th probe for base: base, base-2, base-3, ...
func SlugCandidate(base string, n int) string {
	if n <= 1 {
		return base
	}
	return fmt.Sprintf("%s-%d", base, n)
}

// PlaceholderSlug is used when a title transliterates to nothing.
func PlaceholderSlug() string {
	return fmt.Sprintf("listing-%d", time.Now().UnixMilli())
}

// SlugLookup reports the id of the listing owning slug, if any.
type SlugLookup func(ctx context.Context, slug string) (ownerID string, found bool, err error)

// UniqueSlug probes base, base-2, ... until a candidate is free or owned by
// excludeID. The result is only a hint: the caller's insert must still handle
// a unique violation by asking again with a higher start.
func UniqueSlug(ctx context.Context, base string, lookup SlugLookup, excludeID string) (string, error) {
	return UniqueSlugFrom(ctx, base, 1, lookup, excludeID)
}

// UniqueSlugFrom is UniqueSlug starting at the start-th candidate.
func UniqueSlugFrom(ctx context.Context, base string, start int, lookup SlugLookup, excludeID string) (string, error) {
	if base == "" {
		return PlaceholderSlug(), nil
	}

	for n := start; n < start+constants.MaxSlugProbes; n++ {
		candidate := SlugCandidate(base, n)
		ownerID, found, err := lookup(ctx, candidate)
		if err != nil {
			return "", fmt.Errorf("lookup slug %q: %w", candidate, err)
		}
		if !found || (excludeID != "" && ownerID == excludeID) {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("%w: %s", ErrSlugExhausted, base)
}

// SlugSet tracks slugs taken within a single import run.
type SlugSet struct {
	used map[string]struct{}
}

func NewSlugSet(existing []string) *SlugSet {
	s := &SlugSet{used: make(map[string]struct{}, len(existing))}
	for _, slug := range existing {
		s.used[slug] = struct{}{}
	}
	return s
}

func (s *SlugSet) Has(slug string) bool {
	_, ok := s.used[slug]
	return ok
}

// Add marks slug as taken, e.g. after the database rejected it.
func (s *SlugSet) Add(slug string) {
	s.used[slug] = struct{}{}
}

// Reserve returns the first free candidate for base and marks it taken.
func (s *SlugSet) Reserve(base string) string {
	if base == "" {
		base = PlaceholderSlug()
	}
	for n := 1; ; n++ {
		candidate := SlugCandidate(base, n)
		if !s.Has(candidate) {
			s.Add(candidate)
			return candidate
		}
	}
}
