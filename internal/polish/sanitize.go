package polish

import (
	"regexp"
	"strings"
)

var preambles = []*regexp.Regexp{
	regexp.MustCompile(`(?i)^(?:sure|certainly|of course|okay|ok|absolutely)\b\s*[!,.:]?\s*`),
	regexp.MustCompile(`(?i)^here(?:'|’)?s\s+(?:a|an|the|your)\b[^:\n]*:\s*`),
	regexp.MustCompile(`(?i)^here\s+(?:it\s+)?is\b[^:\n]*:\s*`),
	regexp.MustCompile(`(?i)^here\s+you\s+(?:go|are)\s*[!.:,]?\s*`),
	regexp.MustCompile(`(?i)^(?:polished|revised|rewritten|improved|formal)\s+(?:version|text|sentence|paragraph)[^:\n]*:\s*`),
}

var quotePairs = [][2]string{
	{`"`, `"`},
	{`'`, `'`},
	{"“", "”"},
	{"‘", "’"},
}

// Sanitize removes the chatter models wrap around their answer
func Sanitize(raw string) string {
	text := stripQuotes(strings.TrimSpace(raw))

	for stripped := true; stripped; {
		stripped = false
		for _, re := range preambles {
			if loc := re.FindStringIndex(text); loc != nil && loc[1] > 0 {
				text = strings.TrimSpace(text[loc[1]:])
				stripped = true
			}
		}
	}

	return strings.TrimSpace(stripQuotes(text))
}

func stripQuotes(s string) string {
	s = strings.TrimSpace(s)
	for _, pair := range quotePairs {
		if len(s) < len(pair[0])+len(pair[1]) || !strings.HasPrefix(s, pair[0]) || !strings.HasSuffix(s, pair[1]) {
			continue
		}
		inner := s[len(pair[0]) : len(s)-len(pair[1])]
		// only a wrapping pair: "a" b "c" is left alone
		if strings.Contains(inner, pair[0]) || strings.Contains(inner, pair[1]) {
			return s
		}
		return strings.TrimSpace(inner)
	}
	return s
}
