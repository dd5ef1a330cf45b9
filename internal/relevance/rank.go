package relevance

import (
	"sort"
	"strings"
	"unicode"

	"github.com/ppiankov/paperforge/internal/model"
)

// DefaultLimit is the number of sections kept when no limit is given
const DefaultLimit = 3

var stopWords = toSet(
	"the", "and", "for", "are", "but", "not", "you", "all", "any", "can", "had", "her",
	"was", "one", "our", "out", "has", "have", "him", "his", "how", "its", "may", "new",
	"now", "old", "see", "way", "who", "did", "does", "let", "say", "she", "too", "use",
	"that", "this", "with", "from", "they", "them", "then", "than", "there", "their",
	"these", "those", "what", "when", "where", "which", "while", "will", "would", "should",
	"could", "been", "being", "were", "into", "onto", "over", "under", "about", "after",
	"before", "also", "only", "such", "some", "more", "most", "other", "each", "very",
	"just", "your", "yours", "ours", "because", "between", "through", "during", "against",
	"here", "whom", "why", "both", "same", "own", "off", "again", "further", "once",
)

func toSet(words ...string) map[string]struct{} {
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[w] = struct{}{}
	}
	return set
}

// Keywords lower-cases text, strips punctuation and returns the remaining
// tokens that are longer than two characters and not stop words
func Keywords(text string) map[string]struct{} {
	cleaned := strings.Map(func(r rune) rune {
		switch {
		case unicode.IsLetter(r), unicode.IsDigit(r), unicode.IsSpace(r), r == '_':
			return unicode.ToLower(r)
		default:
			return -1
		}
	}, text)

	keywords := make(map[string]struct{})
	for _, tok := range strings.Fields(cleaned) {
		if len([]rune(tok)) <= 2 {
			continue
		}
		if _, stop := stopWords[tok]; stop {
			continue
		}
		keywords[tok] = struct{}{}
	}
	return keywords
}

func overlap(a, b map[string]struct{}) int {
	if len(a) > len(b) {
		a, b = b, a
	}
	n := 0
	for k := range a {
		if _, ok := b[k]; ok {
			n++
		}
	}
	return n
}

// Score weights heading matches three times content matches
func Score(section model.BookmarkSection, query map[string]struct{}) int {
	heading := overlap(Keywords(section.HeadingText), query)
	content := overlap(Keywords(PlainText(section.Content)), query)
	return 3*heading + content
}

// SelectRelevantSections returns the limit sections that best match
// queryContext. Inputs no longer than limit are returned unchanged.
func SelectRelevantSections(sections []model.BookmarkSection, queryContext string, limit int) []model.BookmarkSection {
	if limit <= 0 {
		limit = DefaultLimit
	}
	if len(sections) <= limit {
		return sections
	}

	query := Keywords(queryContext)

	type scored struct {
		section model.BookmarkSection
		score   int
	}
	ranked := make([]scored, len(sections))
	for i, s := range sections {
		ranked[i] = scored{section: s, score: Score(s, query)}
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].score > ranked[j].score
	})

	out := make([]model.BookmarkSection, limit)
	for i := range out {
		out[i] = ranked[i].section
	}
	return out
}
