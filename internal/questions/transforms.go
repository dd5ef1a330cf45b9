package questions

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Transform names used in AutoPopulate sources
const (
	TransformDirect             = "direct"
	TransformFormalize          = "formalize"
	TransformBulletsToParagraph = "bullets-to-paragraph"
	TransformFirstSentence      = "first-sentence"
	TransformCombineSentences   = "combine-sentences"
	TransformCombineSolutions   = "combine-solutions"
	TransformCombineIdeas       = "combine-ideas"
)

// Env carries the draft-level values some transforms depend on
type Env struct {
	Country string
}

// TransformFunc derives a value from the resolved, non-empty source values
type TransformFunc func(values []string, env Env) string

var transforms = map[string]TransformFunc{
	TransformDirect:             single(direct),
	TransformFormalize:          single(formalize),
	TransformBulletsToParagraph: single(bulletsToParagraph),
	TransformFirstSentence:      single(firstSentence),
	TransformCombineSentences:   combineSentences,
	TransformCombineSolutions:   combineSolutions,
	TransformCombineIdeas:       combineIdeas,
}

// HasTransform reports whether name is a registered transform
func HasTransform(name string) bool {
	_, ok := transforms[name]
	return ok
}

// ApplyTransform applies a transform to a single value.
// Whitespace-only input yields "".
func ApplyTransform(value, name string) string {
	if strings.TrimSpace(value) == "" {
		return ""
	}
	fn, ok := transforms[name]
	if !ok {
		return strings.TrimSpace(value)
	}
	return strings.TrimSpace(fn([]string{value}, Env{}))
}

func applyTransform(name string, values []string, env Env) (string, error) {
	fn, ok := transforms[name]
	if !ok {
		return "", fmt.Errorf("unknown transform: %s", name)
	}
	return strings.TrimSpace(fn(values, env)), nil
}

// single adapts a one-value transform; multiple sources are joined line by line first
func single(fn func(string) string) TransformFunc {
	return func(values []string, _ Env) string {
		return fn(strings.Join(values, "\n"))
	}
}

func direct(s string) string {
	return strings.TrimSpace(s)
}

var (
	bulletPrefix = regexp.MustCompile(`^\s*(?:[-*•‣◦>]+|\d+[.)])\s*`)
	whitespace   = regexp.MustCompile(`\s+`)
	sentenceEnd  = regexp.MustCompile(`[.!?](?:\s|$)`)
)

var contractions = []struct {
	pattern *regexp.Regexp
	repl    string
}{
	{regexp.MustCompile(`(?i)\bcan't\b`), "cannot"},
	{regexp.MustCompile(`(?i)\bwon't\b`), "will not"},
	{regexp.MustCompile(`(?i)\bshan't\b`), "shall not"},
	{regexp.MustCompile(`(?i)\b(\w+)n't\b`), "$1 not"},
	{regexp.MustCompile(`(?i)\bit's\b`), "it is"},
	{regexp.MustCompile(`(?i)\bthat's\b`), "that is"},
	{regexp.MustCompile(`(?i)\bthere's\b`), "there is"},
	{regexp.MustCompile(`(?i)\b(\w+)'re\b`), "$1 are"},
	{regexp.MustCompile(`(?i)\b(\w+)'ve\b`), "$1 have"},
	{regexp.MustCompile(`(?i)\b(\w+)'ll\b`), "$1 will"},
	{regexp.MustCompile(`(?i)\bI'm\b`), "I am"},
	{regexp.MustCompile(`(?i)\bgonna\b`), "going to"},
	{regexp.MustCompile(`(?i)\bwanna\b`), "want to"},
	{regexp.MustCompile(`(?i)\bkinda\b`), "somewhat"},
	{regexp.MustCompile(`\s&\s`), " and "},
}

// formalize expands contractions and normalizes casing and punctuation
func formalize(s string) string {
	s = collapse(s)
	if s == "" {
		return ""
	}
	for _, c := range contractions {
		s = c.pattern.ReplaceAllString(s, c.repl)
	}
	return endSentence(capitalize(s))
}

// bulletsToParagraph turns a list of notes into sentences
func bulletsToParagraph(s string) string {
	var sentences []string
	for _, line := range strings.Split(s, "\n") {
		line = bulletPrefix.ReplaceAllString(line, "")
		line = collapse(line)
		if line == "" {
			continue
		}
		sentences = append(sentences, endSentence(capitalize(line)))
	}
	return strings.Join(sentences, " ")
}

func firstSentence(s string) string {
	s = collapse(s)
	if s == "" {
		return ""
	}
	if loc := sentenceEnd.FindStringIndex(s); loc != nil {
		s = s[:loc[0]+1]
	}
	return endSentence(capitalize(s))
}

// combineSentences joins fragments into prose, one terminal mark per fragment
func combineSentences(values []string, _ Env) string {
	var parts []string
	for _, v := range values {
		for _, line := range strings.Split(v, "\n") {
			line = collapse(bulletPrefix.ReplaceAllString(line, ""))
			if line == "" {
				continue
			}
			parts = append(parts, endSentence(capitalize(line)))
		}
	}
	return strings.Join(parts, " ")
}

func combineSolutions(values []string, env Env) string {
	combined := combineSentences(values, env)
	if combined == "" {
		return ""
	}
	country := strings.TrimSpace(env.Country)
	if country == "" {
		return combined
	}
	return country + " proposes the following: " + combined
}

// combineIdeas keeps the notes rough: one idea per line, no punctuation fixes
func combineIdeas(values []string, _ Env) string {
	var parts []string
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			parts = append(parts, v)
		}
	}
	return strings.Join(parts, "\n")
}

func collapse(s string) string {
	return strings.TrimSpace(whitespace.ReplaceAllString(s, " "))
}

func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError || unicode.IsUpper(r) {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}

// EndSentence trims s and ensures it ends in exactly one terminal mark.
// A run like "..", "?." or "!!" collapses to its last mark.
func EndSentence(s string) string {
	return endSentence(s)
}

func endSentence(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	trimmed := strings.TrimRight(s, ".!?")
	if trimmed == s {
		return s + "."
	}
	trimmed = strings.TrimSpace(trimmed)
	if trimmed == "" {
		return ""
	}
	return trimmed + s[len(s)-1:]
}
