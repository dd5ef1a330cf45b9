package polish

import (
	"fmt"
	"strings"

	"github.com/ppiankov/paperforge/internal/model"
)

// SystemPrompt frames every polish call
const SystemPrompt = "You help Model UN delegates turn their own notes into position paper prose. " +
	"Reply with the rewritten text only, without introductions, quotes or commentary."

// BuildPrompt assembles the user prompt for one polish request
func BuildPrompt(req Request) string {
	var b strings.Builder

	b.WriteString(instruction(req))
	b.WriteString("\n\n")

	if bg := background(req.PriorContext); bg != "" {
		b.WriteString("Background information:\n")
		b.WriteString(bg)
		b.WriteString("\nUse only the background information above and the student's text. ")
		b.WriteString("Do not invent facts, statistics, dates or events that are not supplied.\n\n")
	}

	b.WriteString("Student's text:\n")
	b.WriteString(req.Text)
	b.WriteString("\n\n")
	b.WriteString(lengthDirective(req.TargetLayer))

	return b.String()
}

func instruction(req Request) string {
	c := req.Context
	switch req.TransformType {
	case BulletsToParagraph:
		return fmt.Sprintf("Rewrite these notes as connected prose for %s's position paper to the %s on %q.",
			c.Country, c.Committee, c.Topic)
	case ExpandSentence:
		return fmt.Sprintf("Expand this fragment into a complete sentence for %s's position paper to the %s on %q.",
			c.Country, c.Committee, c.Topic)
	case Formalize:
		return fmt.Sprintf("Rewrite this text in a formal diplomatic register, as the delegation of %s would address the %s on %q.",
			c.Country, c.Committee, c.Topic)
	case CombineSolutions:
		return fmt.Sprintf("Combine these solution ideas into a proposal that %s presents to the %s on %q.",
			c.Country, c.Committee, c.Topic)
	default:
		return fmt.Sprintf("Improve this text for %s's position paper to the %s on %q.",
			c.Country, c.Committee, c.Topic)
	}
}

func background(pc *model.PriorContext) string {
	if pc.IsEmpty() {
		return ""
	}

	var b strings.Builder
	line := func(label, value string) {
		if v := strings.TrimSpace(value); v != "" {
			fmt.Fprintf(&b, "- %s: %s\n", label, v)
		}
	}

	line("Why the topic matters", pc.WhyImportant)
	line("Key events", pc.KeyEvents)
	line("Country position", pc.CountryPosition)
	line("Past actions", pc.PastActions)
	line("Proposed solution", pc.SolutionProposal)
	if len(pc.BookmarkHeadings) > 0 {
		line("Research headings", strings.Join(pc.BookmarkHeadings, "; "))
	}
	if ex := strings.TrimSpace(pc.RelevantExcerpts); ex != "" {
		b.WriteString("- Research excerpts:\n")
		b.WriteString(ex)
		b.WriteString("\n")
	}

	return b.String()
}

func lengthDirective(target model.Layer) string {
	if target == model.LayerParagraphComponents {
		return "Respond with exactly one sentence."
	}
	return "Respond with at most two short sentences in a casual, clear tone."
}
