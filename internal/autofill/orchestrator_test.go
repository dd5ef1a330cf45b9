package autofill

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ppiankov/paperforge/internal/model"
	"github.com/ppiankov/paperforge/internal/polish"
)

type fakePolisher struct {
	requests []polish.Request
	reply    func(polish.Request) polish.Result
}

func (f *fakePolisher) PolishText(_ context.Context, req polish.Request) polish.Result {
	f.requests = append(f.requests, req)
	if f.reply != nil {
		return f.reply(req)
	}
	return polish.Result{Success: true, PolishedText: "AI: " + req.Text}
}

func newDraft() *model.Draft {
	return model.NewDraft("Kenya", "UNEP", "Plastic Pollution")
}

func setter(d *model.Draft) UpdateFunc {
	return func(layer model.Layer, id, value string) {
		d.SetAnswer(layer, id, value)
	}
}

func TestPerformAutofill_RejectsLayers(t *testing.T) {
	o := New()
	for _, layer := range []model.Layer{model.LayerComprehension, model.LayerFinalPaper} {
		t.Run(string(layer), func(t *testing.T) {
			d := newDraft()
			d.SetAnswer(model.LayerComprehension, "whyImportant", "oceans")
			calls := 0
			res := o.PerformAutofill(layer, d, func(model.Layer, string, string) { calls++ })
			assert.Zero(t, res.Updated)
			assert.Len(t, res.Errors, 1)
			assert.Zero(t, calls)
		})
	}
}

func TestPerformAutofill_IdeaFormation(t *testing.T) {
	o := New()
	d := newDraft()
	d.SetAnswer(model.LayerComprehension, "topicDefinition", "plastic waste")
	d.SetAnswer(model.LayerComprehension, "whyImportant", "harms oceans")
	d.SetAnswer(model.LayerComprehension, "opposingViews", "   ")

	res := o.PerformAutofill(model.LayerIdeaFormation, d, setter(d))
	assert.Equal(t, 1, res.Updated)
	assert.Equal(t, []string{"topicSummary"}, res.UpdatedFields)
	assert.Empty(t, res.Errors)
	assert.Equal(t, "plastic waste\nharms oceans", d.Answer(model.LayerIdeaFormation, "topicSummary"))
	_, written := d.Layers.IdeaFormation["counterpoint"]
	assert.False(t, written, "fields without source content are never written")

	t.Run("second run is idempotent", func(t *testing.T) {
		again := o.PerformAutofill(model.LayerIdeaFormation, d, setter(d))
		assert.Zero(t, again.Updated)
		assert.Empty(t, again.UpdatedFields)
	})
}

func TestPerformAutofill_NoClobber(t *testing.T) {
	o := New()
	d := newDraft()
	d.SetAnswer(model.LayerComprehension, "topicDefinition", "plastic waste")
	d.SetAnswer(model.LayerComprehension, "solutionIdeas", "deposit scheme")
	d.SetAnswer(model.LayerIdeaFormation, "topicSummary", "my own summary")

	res := o.PerformAutofill(model.LayerIdeaFormation, d, setter(d))
	assert.Equal(t, []string{"solutionProposal"}, res.UpdatedFields)
	assert.Equal(t, "my own summary", d.Answer(model.LayerIdeaFormation, "topicSummary"))
}

func TestPerformAutofill_ResolvesThroughEmptyLayer(t *testing.T) {
	o := New()
	d := newDraft()
	d.SetAnswer(model.LayerComprehension, "countryPosition", "neutral")

	res := o.PerformAutofill(model.LayerParagraphComponents, d, setter(d))
	assert.ElementsMatch(t, []string{"thesis", "countryPolicy", "restateThesis", "closingStatement"}, res.UpdatedFields)
	for _, id := range res.UpdatedFields {
		assert.Equal(t, "Neutral.", d.Answer(model.LayerParagraphComponents, id), id)
	}
	assert.Empty(t, d.Answer(model.LayerIdeaFormation, "countryStance"), "lower layers are never written")
}

func TestPerformAutofillWithAI(t *testing.T) {
	ctx := context.Background()
	paperCtx := model.PaperContext{Country: "Kenya", Committee: "UNEP", Topic: "Plastic Pollution"}

	prepare := func() *model.Draft {
		d := newDraft()
		d.SetAnswer(model.LayerIdeaFormation, "countryStance", "we support bans")
		return d
	}

	t.Run("mapped transforms are polished sequentially", func(t *testing.T) {
		p := &fakePolisher{}
		o := New(WithPolisher(p))
		d := prepare()

		res := o.PerformAutofillWithAI(ctx, model.LayerParagraphComponents, d, setter(d), Options{UseAI: true, PaperContext: paperCtx})
		assert.Equal(t, 3, res.Updated)
		assert.Equal(t, 2, res.AIPolished)
		assert.Empty(t, res.Errors)

		require.Len(t, p.requests, 2)
		assert.Equal(t, polish.BulletsToParagraph, p.requests[0].TransformType)
		assert.Equal(t, "we support bans", p.requests[0].Text)
		assert.Equal(t, model.LayerParagraphComponents, p.requests[0].TargetLayer)
		assert.Equal(t, paperCtx, p.requests[0].Context)

		assert.Equal(t, "AI: we support bans", d.Answer(model.LayerParagraphComponents, "thesis"))
		assert.Equal(t, "AI: we support bans", d.Answer(model.LayerParagraphComponents, "countryPolicy"))
		assert.Equal(t, "We support bans.", d.Answer(model.LayerParagraphComponents, "restateThesis"))
	})

	t.Run("idea formation never goes to AI", func(t *testing.T) {
		p := &fakePolisher{}
		o := New(WithPolisher(p))
		d := newDraft()
		d.SetAnswer(model.LayerComprehension, "keyEvents", "2017 ban")

		res := o.PerformAutofillWithAI(ctx, model.LayerIdeaFormation, d, setter(d), Options{UseAI: true, PaperContext: paperCtx})
		assert.Equal(t, 1, res.Updated)
		assert.Zero(t, res.AIPolished)
		assert.Empty(t, p.requests)
	})

	t.Run("invalid context disables AI with one warning", func(t *testing.T) {
		p := &fakePolisher{}
		o := New(WithPolisher(p))
		d := prepare()

		res := o.PerformAutofillWithAI(ctx, model.LayerParagraphComponents, d, setter(d),
			Options{UseAI: true, PaperContext: model.PaperContext{Country: "Kenya"}})
		assert.Equal(t, 3, res.Updated)
		assert.Zero(t, res.AIPolished)
		assert.Len(t, res.Errors, 1)
		assert.Empty(t, p.requests)
		assert.Equal(t, "We support bans.", d.Answer(model.LayerParagraphComponents, "thesis"))
	})

	t.Run("failures fall back to local text", func(t *testing.T) {
		p := &fakePolisher{reply: func(req polish.Request) polish.Result {
			return polish.Result{Success: false, PolishedText: req.Text, Error: "network down"}
		}}
		o := New(WithPolisher(p))
		d := prepare()

		res := o.PerformAutofillWithAI(ctx, model.LayerParagraphComponents, d, setter(d), Options{UseAI: true, PaperContext: paperCtx})
		assert.Equal(t, 3, res.Updated)
		assert.Zero(t, res.AIPolished)
		assert.Len(t, res.Errors, 2)
		assert.Contains(t, res.Errors[0], "network down")
		assert.Equal(t, "We support bans.", d.Answer(model.LayerParagraphComponents, "thesis"))
		assert.Equal(t, "We support bans.", d.Answer(model.LayerParagraphComponents, "countryPolicy"))
	})

	t.Run("empty AI text falls back", func(t *testing.T) {
		p := &fakePolisher{reply: func(polish.Request) polish.Result {
			return polish.Result{Success: true, PolishedText: "  "}
		}}
		o := New(WithPolisher(p))
		d := prepare()

		res := o.PerformAutofillWithAI(ctx, model.LayerParagraphComponents, d, setter(d), Options{UseAI: true, PaperContext: paperCtx})
		assert.Zero(t, res.AIPolished)
		assert.Equal(t, "We support bans.", d.Answer(model.LayerParagraphComponents, "countryPolicy"))
	})

	t.Run("cancelled context stops AI calls", func(t *testing.T) {
		p := &fakePolisher{}
		o := New(WithPolisher(p))
		d := prepare()
		cancelled, cancel := context.WithCancel(ctx)
		cancel()

		res := o.PerformAutofillWithAI(cancelled, model.LayerParagraphComponents, d, setter(d), Options{UseAI: true, PaperContext: paperCtx})
		assert.Equal(t, 3, res.Updated)
		assert.Empty(t, p.requests)
		assert.Len(t, res.Errors, 1)
	})

	t.Run("prior context travels with the request", func(t *testing.T) {
		p := &fakePolisher{}
		o := New(WithPolisher(p))
		d := prepare()
		d.BookmarkSources = []model.BookmarkSource{{ID: "b", Sections: []model.BookmarkSection{
			{HeadingText: "Bag Ban", Content: "Kenya banned bags in 2017."},
		}}}

		o.PerformAutofillWithAI(ctx, model.LayerParagraphComponents, d, setter(d), Options{UseAI: true, PaperContext: paperCtx})
		require.NotEmpty(t, p.requests)
		require.NotNil(t, p.requests[0].PriorContext)
		assert.Equal(t, []string{"Bag Ban"}, p.requests[0].PriorContext.BookmarkHeadings)
	})
}

func TestAITransform(t *testing.T) {
	tt, ok := AITransform("combine-sentences")
	assert.True(t, ok)
	assert.Equal(t, polish.BulletsToParagraph, tt)

	_, ok = AITransform("combine-ideas")
	assert.False(t, ok)
	_, ok = AITransform("first-sentence")
	assert.False(t, ok)
}
