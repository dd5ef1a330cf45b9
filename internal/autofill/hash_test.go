package autofill

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ppiankov/paperforge/internal/model"
)

func TestComputeSourceHash(t *testing.T) {
	o := New()

	a := newDraft()
	a.SetAnswer(model.LayerComprehension, "keyEvents", "2017 ban")
	a.SetAnswer(model.LayerComprehension, "whyImportant", "oceans")
	a.SetAnswer(model.LayerIdeaFormation, "countryStance", "support")

	b := newDraft()
	b.SetAnswer(model.LayerIdeaFormation, "countryStance", "support")
	b.SetAnswer(model.LayerComprehension, "whyImportant", "oceans")
	b.SetAnswer(model.LayerComprehension, "keyEvents", "2017 ban")
	b.SetAnswer(model.LayerComprehension, "allies", "")

	t.Run("insertion order does not matter", func(t *testing.T) {
		assert.Equal(t, o.ComputeSourceHash(model.LayerParagraphComponents, a), o.ComputeSourceHash(model.LayerParagraphComponents, b))
		assert.Equal(t, o.ComputeSourceHash(model.LayerIdeaFormation, a), o.ComputeSourceHash(model.LayerIdeaFormation, b))
	})

	t.Run("any source change changes the hash", func(t *testing.T) {
		before := o.ComputeSourceHash(model.LayerParagraphComponents, a)
		b.SetAnswer(model.LayerComprehension, "keyEvents", "2018 ban")
		assert.NotEqual(t, before, o.ComputeSourceHash(model.LayerParagraphComponents, b))
	})

	t.Run("country is part of the hash", func(t *testing.T) {
		c := newDraft()
		c.Country = "Chile"
		assert.NotEqual(t, o.ComputeSourceHash(model.LayerIdeaFormation, newDraft()), o.ComputeSourceHash(model.LayerIdeaFormation, c))
	})

	t.Run("layer 3 ignores its own layer", func(t *testing.T) {
		d := newDraft()
		before := o.ComputeSourceHash(model.LayerIdeaFormation, d)
		d.SetAnswer(model.LayerIdeaFormation, "topicSummary", "anything")
		assert.Equal(t, before, o.ComputeSourceHash(model.LayerIdeaFormation, d))
	})
}

func TestHashString(t *testing.T) {
	assert.Equal(t, "0", hashString(""))
	// "a" = 97
	assert.Equal(t, "2p", hashString("a"))
	// 31*97 + 98 = 3105
	assert.Equal(t, "2e9", hashString("ab"))
}

func TestNeedsAutofill(t *testing.T) {
	o := New()
	d := newDraft()
	d.SetAnswer(model.LayerComprehension, "whyImportant", "oceans")

	assert.True(t, o.NeedsAutofill(model.LayerIdeaFormation, d))
	o.RecordHash(model.LayerIdeaFormation, d)
	assert.False(t, o.NeedsAutofill(model.LayerIdeaFormation, d))

	d.SetAnswer(model.LayerComprehension, "whyImportant", "oceans and rivers")
	assert.True(t, o.NeedsAutofill(model.LayerIdeaFormation, d))

	assert.False(t, o.NeedsAutofill(model.LayerComprehension, d))
}
