package paper

import (
	"strings"

	"github.com/ppiankov/paperforge/internal/model"
	"github.com/ppiankov/paperforge/internal/questions"
)

// GenerateParagraphPreview assembles one paragraph from the draft's
// paragraph components. Returns "" for an empty or unknown paragraph.
func GenerateParagraphPreview(draft *model.Draft, paragraph string) string {
	if draft == nil {
		return ""
	}

	var fragments []string
	for _, id := range questions.Default.FieldsForParagraph(paragraph) {
		fragment := strings.TrimSpace(draft.Layers.ParagraphComponents[id])
		if fragment == "" {
			continue
		}
		fragments = append(fragments, terminate(fragment))
	}
	return strings.Join(fragments, " ")
}

func terminate(s string) string {
	if strings.HasSuffix(s, ".") || strings.HasSuffix(s, "!") || strings.HasSuffix(s, "?") {
		return s
	}
	return s + "."
}

// GeneratePositionPaperTemplate renders the whole paper as Markdown
func GeneratePositionPaperTemplate(draft *model.Draft, t Translator) string {
	if t == nil {
		t = DefaultTranslator
	}
	if draft == nil {
		draft = &model.Draft{}
	}

	vars := map[string]string{
		"country":   draft.Country,
		"committee": draft.Committee,
		"topic":     draft.Topic,
	}

	var b strings.Builder
	b.WriteString("# " + t("paper.title", vars) + "\n\n")
	b.WriteString("**" + t("paper.labels.country", nil) + ":** " + draft.Country + "\n")
	b.WriteString("**" + t("paper.labels.committee", nil) + ":** " + draft.Committee + "\n")
	b.WriteString("**" + t("paper.labels.topic", nil) + ":** " + draft.Topic + "\n")

	for _, p := range questions.Paragraphs {
		body := GenerateParagraphPreview(draft, p)
		if body == "" {
			body = "[" + t("paper.placeholders."+p, vars) + "]"
		}
		b.WriteString("\n## " + t("paper.headings."+p, vars) + "\n\n")
		b.WriteString(body + "\n")
	}

	return b.String()
}
