// Package slug derives URL-safe identifiers from display names and allocates
// collision-free variants within a profile collection.
package slug

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// ErrEmptySlug indicates the display name normalized to nothing. Callers must
// reject such names instead of writing an empty slug.
var ErrEmptySlug = errors.New("go-directory: name normalizes to an empty slug")

// ErrNoFreeSlug indicates the probe never reported a free candidate within
// the attempt budget.
var ErrNoFreeSlug = errors.New("go-directory: no free slug variant found")

// German-specific replacements applied before generic diacritic folding so
// umlauts keep their two-letter transliteration (ü -> ue, not u).
var replacements = map[rune]string{
	'ä': "ae",
	'ö': "oe",
	'ü': "ue",
	'ß': "ss",
	'&': " und ",
	'+': " und ",
	'@': " at ",
}

var foldDiacritics = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Make normalizes a display name into a slug: lowercase, transliterated to
// ASCII, whitespace runs collapsed to single hyphens, everything outside
// [a-z0-9-] stripped, hyphens collapsed and trimmed. The result may be empty.
func Make(name string) string {
	lowered := strings.ToLower(strings.TrimSpace(name))

	var expanded strings.Builder
	expanded.Grow(len(lowered))
	for _, r := range lowered {
		if repl, ok := replacements[r]; ok {
			expanded.WriteString(repl)
			continue
		}
		expanded.WriteRune(r)
	}

	folded, _, err := transform.String(foldDiacritics, expanded.String())
	if err != nil {
		folded = expanded.String()
	}

	var out strings.Builder
	out.Grow(len(folded))
	pendingHyphen := false
	for _, r := range folded {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			if pendingHyphen && out.Len() > 0 {
				out.WriteByte('-')
			}
			pendingHyphen = false
			out.WriteRune(r)
		default:
			// Whitespace, hyphens, and any leftover symbol all act as a
			// single separator.
			pendingHyphen = true
		}
	}
	return out.String()
}

// HasBase reports whether candidate is base itself or a suffixed variant of
// it ("base-2", "base-3", ...). Used to keep an already-allocated slug stable
// across saves that do not change the name.
func HasBase(candidate, base string) bool {
	if base == "" || candidate == "" {
		return false
	}
	if candidate == base {
		return true
	}
	rest, ok := strings.CutPrefix(candidate, base+"-")
	if !ok || rest == "" {
		return false
	}
	for _, r := range rest {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// Probe reports whether a candidate slug is already taken by someone else.
type Probe func(ctx context.Context, candidate string) (bool, error)

// Allocator finds the lowest free suffixed variant of a base slug.
type Allocator struct {
	// MaxAttempts bounds the suffix search. Zero means the default of 1000.
	MaxAttempts int
}

// Allocate derives the slug for name and probes the collection until a free
// candidate is found, appending -2, -3, ... on collisions. Re-running against
// the same occupied set always yields the lowest free suffix.
func (a Allocator) Allocate(ctx context.Context, name string, probe Probe) (string, error) {
	base := Make(name)
	if base == "" {
		return "", ErrEmptySlug
	}
	if probe == nil {
		return base, nil
	}

	attempts := a.MaxAttempts
	if attempts <= 0 {
		attempts = 1000
	}

	candidate := base
	for i := 1; i <= attempts; i++ {
		if i > 1 {
			candidate = fmt.Sprintf("%s-%d", base, i)
		}
		taken, err := probe(ctx, candidate)
		if err != nil {
			return "", err
		}
		if !taken {
			return candidate, nil
		}
	}
	return "", ErrNoFreeSlug
}
