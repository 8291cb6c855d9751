// Package hints defines the resource-hint enumeration and builds the two
// experimental variants of a page: the original markup and a copy whose hint
// tags are neutralized.
package hints

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/wesleyorama2/hintprobe/internal/timing"
)

// Type is a resource-hint rel token.
type Type string

const (
	DNSPrefetch Type = "dns-prefetch"
	Preconnect  Type = "preconnect"
	Prefetch    Type = "prefetch"
	Preload     Type = "preload"
)

// DisabledPrefix is prepended to a hint token to neutralize it. The tag stays
// in the DOM but the browser no longer acts on it.
const DisabledPrefix = "no"

// AllTypes returns the full enumeration in a stable order.
func AllTypes() []Type {
	return []Type{DNSPrefetch, Preconnect, Prefetch, Preload}
}

// ParseType parses a rel token case-insensitively. Disabled forms
// ("nopreconnect") resolve to their active type.
func ParseType(s string) (Type, error) {
	token := strings.ToLower(strings.TrimSpace(s))
	for _, t := range AllTypes() {
		if token == string(t) || token == DisabledPrefix+string(t) {
			return t, nil
		}
	}
	return "", fmt.Errorf("unknown resource hint type %q", s)
}

// Disabled returns the neutralized rel token for t.
func (t Type) Disabled() string {
	return DisabledPrefix + string(t)
}

// ExtendedRelTypes returns the active and disabled rel tokens for types. The
// trial runner needs both so hints in the no-hints variant are still found.
func ExtendedRelTypes(types []Type) []string {
	if len(types) == 0 {
		types = AllTypes()
	}
	out := make([]string, 0, len(types)*2)
	for _, t := range types {
		out = append(out, string(t))
	}
	for _, t := range types {
		out = append(out, t.Disabled())
	}
	return out
}

// Canonical maps an observed rel attribute to the hint type it carries.
// Returns the input unchanged when no hint token is present.
func Canonical(rel string) string {
	for _, token := range strings.Fields(rel) {
		if t, err := ParseType(token); err == nil {
			return string(t)
		}
	}
	return rel
}

var (
	// startTag matches a start tag, stepping over quoted attribute values so
	// that markup inside them is never taken for an attribute.
	startTag = regexp.MustCompile(`<[a-zA-Z][^\s/>]*(?:\s*(?:[^\s"'>/=]+(?:\s*=\s*(?:"[^"]*"|'[^']*'|[^\s"'>]*))?|/))*\s*>`)
	tagName  = regexp.MustCompile(`^<[a-zA-Z][^\s/>]*`)
	// attribute matches one name[=value] pair inside a start tag.
	attribute = regexp.MustCompile(`([^\s"'>/=]+)(?:(\s*=\s*)("[^"]*"|'[^']*'|[^\s"'>]*))?`)
)

// rewriteRel calls fn with the unquoted content of every quoted rel attribute
// of every start tag in markup and splices the result back in. Unquoted values
// are left alone.
func rewriteRel(markup string, fn func(value string) string) string {
	return startTag.ReplaceAllStringFunc(markup, func(tag string) string {
		nameEnd := tagName.FindStringIndex(tag)[1]
		attrs := tag[nameEnd:]

		var sb strings.Builder
		sb.WriteString(tag[:nameEnd])
		last := 0
		for _, m := range attribute.FindAllStringSubmatchIndex(attrs, -1) {
			if m[6] < 0 || !strings.EqualFold(attrs[m[2]:m[3]], "rel") {
				continue
			}
			value := attrs[m[6]:m[7]]
			if len(value) < 2 || (value[0] != '"' && value[0] != '\'') {
				continue
			}
			sb.WriteString(attrs[last : m[6]+1])
			sb.WriteString(fn(value[1 : len(value)-1]))
			last = m[7] - 1
		}
		sb.WriteString(attrs[last:])
		return sb.String()
	})
}

// Neutralize rewrites every hint token of the given types inside quoted rel
// attribute values to its disabled form. Matching is case-insensitive; the
// original token casing is kept behind the prefix. Applying it twice is the
// same as applying it once.
func Neutralize(markup string, types []Type) string {
	set := typeSet(types)
	return rewriteRel(markup, func(value string) string {
		return rewriteTokens(value, set)
	})
}

// Count returns how many hint tokens of the given types appear in quoted rel values.
func Count(markup string, types []Type) int {
	set := typeSet(types)
	n := 0
	rewriteRel(markup, func(value string) string {
		for _, token := range strings.Fields(value) {
			if set[Type(strings.ToLower(token))] {
				n++
			}
		}
		return value
	})
	return n
}

func rewriteTokens(value string, set map[Type]bool) string {
	var sb strings.Builder
	start := -1
	flush := func(end int) {
		token := value[start:end]
		if set[Type(strings.ToLower(token))] {
			sb.WriteString(DisabledPrefix)
		}
		sb.WriteString(token)
		start = -1
	}
	for i, r := range value {
		if r == ' ' || r == '\t' || r == '\n' || r == '\r' || r == '\f' {
			if start >= 0 {
				flush(i)
			}
			sb.WriteRune(r)
			continue
		}
		if start < 0 {
			start = i
		}
	}
	if start >= 0 {
		flush(len(value))
	}
	return sb.String()
}

func typeSet(types []Type) map[Type]bool {
	if len(types) == 0 {
		types = AllTypes()
	}
	set := make(map[Type]bool, len(types))
	for _, t := range types {
		set[t] = true
	}
	return set
}

// Variant is one experimental rendering of the target page.
type Variant struct {
	Name string
	URL  string
	Body string

	// ContentType is the media type the markup was served with, if known.
	ContentType string
}

// BuildVariants returns the with-hints and no-hints variants of markup, in
// that order. Both are loaded at url so relative references resolve the same way.
func BuildVariants(url, markup string, types []Type) []Variant {
	return []Variant{
		{Name: timing.VariantWithHints, URL: url, Body: markup},
		{Name: timing.VariantNoHints, URL: url, Body: Neutralize(markup, types)},
	}
}
