package autofill

import (
	"context"
	"fmt"
	"strings"

	"github.com/ppiankov/paperforge/internal/logging"
	"github.com/ppiankov/paperforge/internal/model"
	"github.com/ppiankov/paperforge/internal/polish"
	"github.com/ppiankov/paperforge/internal/questions"
	"github.com/ppiankov/paperforge/internal/relevance"
)

// Polisher rewrites one field's text. polish.Client satisfies it.
type Polisher interface {
	PolishText(ctx context.Context, req polish.Request) polish.Result
}

// UpdateFunc commits one field value. It is the only write path.
type UpdateFunc func(layer model.Layer, questionID, value string)

// Translator renders a translation key
type Translator func(key string, values map[string]string) string

// Options configures an AI-assisted run
type Options struct {
	UseAI        bool
	PaperContext model.PaperContext
}

// aiTransforms maps local transforms to the polish transform sent to the
// endpoint. Transforms missing here are always computed locally.
var aiTransforms = map[string]polish.TransformType{
	questions.TransformBulletsToParagraph: polish.BulletsToParagraph,
	questions.TransformCombineSentences:   polish.BulletsToParagraph,
	questions.TransformCombineSolutions:   polish.CombineSolutions,
	questions.TransformFormalize:          polish.Formalize,
}

// AITransform returns the polish transform used for a local transform
func AITransform(local string) (polish.TransformType, bool) {
	t, ok := aiTransforms[local]
	return t, ok
}

// Orchestrator fills empty derived fields of a layer
type Orchestrator struct {
	graph     *questions.Graph
	polisher  Polisher
	translate Translator
	log       *logging.Logger
}

// Option customizes an Orchestrator
type Option func(*Orchestrator)

// WithGraph replaces the default question graph
func WithGraph(g *questions.Graph) Option {
	return func(o *Orchestrator) { o.graph = g }
}

// WithPolisher enables AI polishing
func WithPolisher(p Polisher) Option {
	return func(o *Orchestrator) { o.polisher = p }
}

// WithTranslator sets the translator used for field labels
func WithTranslator(t Translator) Option {
	return func(o *Orchestrator) { o.translate = t }
}

// WithLogger sets the logger
func WithLogger(l *logging.Logger) Option {
	return func(o *Orchestrator) { o.log = l }
}

// New creates an orchestrator over the default question graph
func New(opts ...Option) *Orchestrator {
	o := &Orchestrator{
		graph: questions.Default,
		log:   logging.Nop(),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

func autofillable(target model.Layer) bool {
	return target == model.LayerIdeaFormation || target == model.LayerParagraphComponents
}

// PerformAutofill fills target with locally derived values only
func (o *Orchestrator) PerformAutofill(target model.Layer, draft *model.Draft, update UpdateFunc) model.AutofillResult {
	return o.PerformAutofillWithAI(context.Background(), target, draft, update, Options{})
}

// PerformAutofillWithAI fills every empty derived field of target. Fields
// with an AI-mapped transform are polished one at a time when AI is
// enabled; any polish failure falls back to the local value.
func (o *Orchestrator) PerformAutofillWithAI(ctx context.Context, target model.Layer, draft *model.Draft, update UpdateFunc, opts Options) model.AutofillResult {
	result := model.AutofillResult{UpdatedFields: []string{}}

	if !autofillable(target) {
		result.Errors = append(result.Errors, fmt.Sprintf("layer %q cannot be autofilled", target))
		return result
	}
	if draft == nil || update == nil {
		result.Errors = append(result.Errors, "autofill requires a draft and an update function")
		return result
	}

	useAI := opts.UseAI
	if useAI && !opts.PaperContext.Valid() {
		result.Errors = append(result.Errors, "AI polish disabled: country, committee and topic are required")
		useAI = false
	}
	if useAI && o.polisher == nil {
		result.Errors = append(result.Errors, "AI polish disabled: no polish client configured")
		useAI = false
	}

	read := questions.DraftAccessor(draft)
	log := o.log.With("draft", draft.ID, "layer", target)

	for _, def := range o.graph.QuestionsForLayer(target) {
		if def.AutoPopulate == nil {
			continue
		}
		if strings.TrimSpace(draft.Answer(target, def.ID)) != "" {
			continue
		}

		local := o.graph.EffectiveValue(def.ID, read, questions.WithCountry(draft.Country))
		if strings.TrimSpace(local) == "" {
			continue
		}

		value := local
		if aiType, mapped := aiTransforms[def.AutoPopulate.Transform]; useAI && mapped {
			if err := ctx.Err(); err != nil {
				result.Errors = append(result.Errors, fmt.Sprintf("AI polish stopped: %v; remaining fields use local text", err))
				useAI = false
			} else {
				res := o.polisher.PolishText(ctx, polish.Request{
					Text:          o.sourceText(def, read, draft.Country),
					Context:       opts.PaperContext,
					TransformType: aiType,
					PriorContext:  o.priorContext(draft, def),
					TargetLayer:   target,
				})
				if res.Success && strings.TrimSpace(res.PolishedText) != "" {
					value = res.PolishedText
					result.AIPolished++
				} else {
					reason := res.Error
					if reason == "" {
						reason = "empty response"
					}
					result.Errors = append(result.Errors, fmt.Sprintf("%s: AI polish failed (%s); used local text", def.ID, reason))
					log.Warn("ai polish fell back", "field", def.ID, "reason", reason)
				}
			}
		}

		update(target, def.ID, value)
		result.Updated++
		result.UpdatedFields = append(result.UpdatedFields, def.ID)
	}

	log.Debug("autofill finished", "updated", result.Updated, "aiPolished", result.AIPolished, "warnings", len(result.Errors))
	return result
}

// sourceText joins the resolved source values the field is derived from
func (o *Orchestrator) sourceText(def questions.Definition, read questions.Accessor, country string) string {
	var parts []string
	for _, id := range def.AutoPopulate.IDs {
		if v := strings.TrimSpace(o.graph.EffectiveValue(id, read, questions.WithCountry(country))); v != "" {
			parts = append(parts, v)
		}
	}
	return strings.Join(parts, "\n")
}

func (o *Orchestrator) priorContext(draft *model.Draft, def questions.Definition) *model.PriorContext {
	pc := relevance.GatherPriorContext(draft, o.label(def))
	if pc.IsEmpty() {
		return nil
	}
	return &pc
}

func (o *Orchestrator) label(def questions.Definition) string {
	if o.translate != nil {
		if s := o.translate(def.TranslationKey, nil); s != "" && s != def.TranslationKey {
			return s
		}
	}
	return def.Label
}
