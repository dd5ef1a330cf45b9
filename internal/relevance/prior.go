package relevance

import (
	"strings"

	"github.com/ppiankov/paperforge/internal/model"
)

const (
	// MaxExcerptRunes bounds the excerpt block sent to the model
	MaxExcerptRunes = 3000

	truncationMarker = "\n\n[...truncated]"
)

// GatherPriorContext builds the evidence bundle for one AI polish call
func GatherPriorContext(draft *model.Draft, queryContext string) model.PriorContext {
	if draft == nil {
		return model.PriorContext{}
	}

	pc := model.PriorContext{
		WhyImportant:     strings.TrimSpace(draft.Answer(model.LayerComprehension, "whyImportant")),
		KeyEvents:        strings.TrimSpace(draft.Answer(model.LayerComprehension, "keyEvents")),
		CountryPosition:  strings.TrimSpace(draft.Answer(model.LayerComprehension, "countryPosition")),
		PastActions:      strings.TrimSpace(draft.Answer(model.LayerComprehension, "pastActions")),
		SolutionProposal: strings.TrimSpace(draft.Answer(model.LayerIdeaFormation, "solutionProposal")),
	}

	sections := draft.AllSections()
	for _, s := range sections {
		if h := strings.TrimSpace(s.HeadingText); h != "" {
			pc.BookmarkHeadings = append(pc.BookmarkHeadings, h)
		}
	}

	if len(sections) == 0 {
		return pc
	}

	query := strings.Join(nonEmpty(
		queryContext,
		draft.Topic,
		draft.Country,
		pc.WhyImportant,
		pc.CountryPosition,
		pc.SolutionProposal,
	), " ")

	var blocks []string
	for _, s := range SelectRelevantSections(sections, query, DefaultLimit) {
		blocks = append(blocks, "### "+strings.TrimSpace(s.HeadingText)+"\n\n"+ExcerptText(s.Content))
	}
	pc.RelevantExcerpts = truncate(strings.Join(blocks, "\n\n"), MaxExcerptRunes)

	return pc
}

func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max]) + truncationMarker
}

func nonEmpty(values ...string) []string {
	var out []string
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
