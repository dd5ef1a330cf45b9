package relevance

import (
	"regexp"

	"github.com/ppiankov/paperforge/internal/model"
	"github.com/ppiankov/paperforge/internal/questions"
)

// categoryPatterns map research categories to cue words. Patterns are
// matched against headings and visible content.
var categoryPatterns = []struct {
	category string
	re       *regexp.Regexp
}{
	{questions.CategoryTopic, regexp.MustCompile(`(?i)\b(definition|defined|overview|introduction|what is|meaning|terms?|concept|scope|importance|stakeholders?)\b`)},
	{questions.CategoryHistory, regexp.MustCompile(`(?i)\b(history|historical|timeline|background|origins?|founded|treaty|convention|resolution|agreement|summit|(?:1[89]|20)\d\d)\b`)},
	{questions.CategoryCountry, regexp.MustCompile(`(?i)\b(government|ministry|national|domestic|policy|policies|position|stance|president|parliament|delegation|foreign affairs|allies|alliance)\b`)},
	{questions.CategorySolutions, regexp.MustCompile(`(?i)\b(solutions?|proposals?|recommendations?|strategy|strategies|funding|finance|fund|programs?|initiatives?|framework|implementation|reform)\b`)},
	{questions.CategoryPerspectives, regexp.MustCompile(`(?i)\b(criticism|critics|opposition|opposing|debate|controversy|controversial|concerns?|perspectives?|views?|argue[sd]?|counter)\b`)},
}

// Classify assigns a section to the research category whose cues it
// matches most, headings counting three times as much as content.
// Sections without any cue yield an empty category.
func Classify(section model.BookmarkSection) (string, int) {
	content := PlainText(section.Content)

	best, bestScore := "", 0
	for _, p := range categoryPatterns {
		score := 3*len(p.re.FindAllStringIndex(section.HeadingText, -1)) +
			len(p.re.FindAllStringIndex(content, -1))
		if score > bestScore {
			best, bestScore = p.category, score
		}
	}
	return best, bestScore
}

// ClassifyDraft classifies every imported section of the draft.
// Unclassifiable sections are left out.
func ClassifyDraft(draft *model.Draft) []model.ClassifiedBookmark {
	var out []model.ClassifiedBookmark
	for _, src := range draft.BookmarkSources {
		for _, s := range src.Sections {
			category, score := Classify(s)
			if category == "" {
				continue
			}
			out = append(out, model.ClassifiedBookmark{
				SourceID:    src.ID,
				HeadingText: s.HeadingText,
				Category:    category,
				Score:       score,
			})
		}
	}
	return out
}
