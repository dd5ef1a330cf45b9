package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseLayer(t *testing.T) {
	cases := map[string]Layer{
		"4": LayerComprehension, "comprehension": LayerComprehension,
		"3": LayerIdeaFormation, " ideaFormation ": LayerIdeaFormation,
		"2": LayerParagraphComponents, "paragraphComponents": LayerParagraphComponents,
		"1": LayerFinalPaper, "finalPaper": LayerFinalPaper,
	}
	for in, want := range cases {
		got, ok := ParseLayer(in)
		assert.True(t, ok, in)
		assert.Equal(t, want, got, in)
	}

	_, ok := ParseLayer("5")
	assert.False(t, ok)
	assert.False(t, LayerFinalPaper.IsFieldMap())
	assert.True(t, LayerFinalPaper.Valid())
	assert.False(t, Layer("draft").Valid())
}

func TestDraftAnswers(t *testing.T) {
	d := NewDraft("Kenya", "UNEP", "Plastic Pollution")
	assert.Equal(t, SchemaVersion, d.Version)
	assert.NotEmpty(t, d.ID)

	d.Layers.IdeaFormation = nil
	d.SetAnswer(LayerIdeaFormation, "topicSummary", "oceans")
	assert.Equal(t, "oceans", d.Answer(LayerIdeaFormation, "topicSummary"))

	d.SetAnswer(LayerFinalPaper, "x", "ignored")
	assert.Nil(t, d.Fields(LayerFinalPaper))
	assert.Equal(t, "", d.Answer(LayerComprehension, "missing"))

	var nilDraft *Draft
	assert.Equal(t, "", nilDraft.Answer(LayerComprehension, "whyImportant"))
}

func TestPaperContextValid(t *testing.T) {
	assert.True(t, PaperContext{Country: "Kenya", Committee: "UNEP", Topic: "x"}.Valid())
	assert.False(t, PaperContext{Country: "Kenya", Committee: " ", Topic: "x"}.Valid())
	assert.False(t, PaperContext{}.Valid())
}

func TestPriorContextIsEmpty(t *testing.T) {
	var nilPC *PriorContext
	assert.True(t, nilPC.IsEmpty())
	assert.True(t, (&PriorContext{}).IsEmpty())
	assert.False(t, (&PriorContext{BookmarkHeadings: []string{"h"}}).IsEmpty())
}
