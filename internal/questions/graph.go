package questions

import (
	"fmt"
	"strings"

	"github.com/ppiankov/paperforge/internal/model"
)

// Source describes how a field is derived from other fields
type Source struct {
	IDs       []string // source question IDs, resolved in order
	Transform string   // registered transform name
}

// ParseSource builds a Source from the comma-separated form "a, b, c"
func ParseSource(ids, transform string) *Source {
	var parsed []string
	for _, id := range strings.Split(ids, ",") {
		if id = strings.TrimSpace(id); id != "" {
			parsed = append(parsed, id)
		}
	}
	return &Source{IDs: parsed, Transform: transform}
}

// Definition is the static metadata of one question
type Definition struct {
	ID             string
	Layer          model.Layer
	Category       string // comprehension layer only
	Paragraph      string // paragraph components only
	Label          string
	TranslationKey string
	AutoPopulate   *Source
}

// Accessor reads the live value of a question from a draft
type Accessor func(layer model.Layer, questionID string) string

// DraftAccessor reads answers straight from d
func DraftAccessor(d *model.Draft) Accessor {
	return func(layer model.Layer, questionID string) string {
		return d.Answer(layer, questionID)
	}
}

// ResolveOption configures EffectiveValue
type ResolveOption func(*Env)

// WithCountry supplies the acting country for combine-solutions
func WithCountry(country string) ResolveOption {
	return func(e *Env) {
		e.Country = country
	}
}

// Graph is a validated, immutable set of question definitions
type Graph struct {
	defs    map[string]Definition
	order   []string
	byLayer map[model.Layer][]Definition
}

// NewGraph validates defs and builds a graph
func NewGraph(defs []Definition) (*Graph, error) {
	g := &Graph{
		defs:    make(map[string]Definition, len(defs)),
		byLayer: make(map[model.Layer][]Definition),
	}
	for _, d := range defs {
		if d.ID == "" {
			return nil, fmt.Errorf("question without ID in layer %s", d.Layer)
		}
		if !d.Layer.IsFieldMap() {
			return nil, fmt.Errorf("question %s: layer %q has no fields", d.ID, d.Layer)
		}
		if _, dup := g.defs[d.ID]; dup {
			return nil, fmt.Errorf("duplicate question ID: %s", d.ID)
		}
		g.defs[d.ID] = d
		g.order = append(g.order, d.ID)
		g.byLayer[d.Layer] = append(g.byLayer[d.Layer], d)
	}
	if err := g.Validate(); err != nil {
		return nil, err
	}
	return g, nil
}

// allowedSources lists which layers a field may pull from
var allowedSources = map[model.Layer][]model.Layer{
	model.LayerComprehension:       nil,
	model.LayerIdeaFormation:       {model.LayerComprehension},
	model.LayerParagraphComponents: {model.LayerIdeaFormation, model.LayerComprehension},
}

// Validate checks that every edge points at a known question in an allowed
// layer, every transform exists and the graph has no cycle.
func (g *Graph) Validate() error {
	for _, id := range g.order {
		d := g.defs[id]
		if d.AutoPopulate == nil {
			continue
		}
		if len(d.AutoPopulate.IDs) == 0 {
			return fmt.Errorf("question %s: autoPopulate without sources", id)
		}
		if !HasTransform(d.AutoPopulate.Transform) {
			return fmt.Errorf("question %s: unknown transform %q", id, d.AutoPopulate.Transform)
		}
		for _, srcID := range d.AutoPopulate.IDs {
			src, ok := g.defs[srcID]
			if !ok {
				return fmt.Errorf("question %s: unknown source %q", id, srcID)
			}
			if !layerIn(src.Layer, allowedSources[d.Layer]) {
				return fmt.Errorf("question %s (%s) may not depend on %s (%s)", id, d.Layer, srcID, src.Layer)
			}
		}
	}

	const (
		unvisited = iota
		visiting
		done
	)
	state := make(map[string]int, len(g.defs))
	var visit func(id string, path []string) error
	visit = func(id string, path []string) error {
		switch state[id] {
		case visiting:
			return fmt.Errorf("dependency cycle: %s -> %s", strings.Join(path, " -> "), id)
		case done:
			return nil
		}
		state[id] = visiting
		if d := g.defs[id]; d.AutoPopulate != nil {
			for _, srcID := range d.AutoPopulate.IDs {
				if err := visit(srcID, append(path, id)); err != nil {
					return err
				}
			}
		}
		state[id] = done
		return nil
	}
	for _, id := range g.order {
		if err := visit(id, nil); err != nil {
			return err
		}
	}
	return nil
}

func layerIn(l model.Layer, set []model.Layer) bool {
	for _, s := range set {
		if s == l {
			return true
		}
	}
	return false
}

// Lookup returns the definition of a question
func (g *Graph) Lookup(questionID string) (Definition, bool) {
	d, ok := g.defs[questionID]
	return d, ok
}

// QuestionsForLayer returns the layer's questions in catalog order
func (g *Graph) QuestionsForLayer(layer model.Layer) []Definition {
	defs := g.byLayer[layer]
	out := make([]Definition, len(defs))
	copy(out, defs)
	return out
}

// FieldsForParagraph returns the ordered component IDs of a paper paragraph
func (g *Graph) FieldsForParagraph(paragraph string) []string {
	var ids []string
	for _, d := range g.byLayer[model.LayerParagraphComponents] {
		if d.Paragraph == paragraph {
			ids = append(ids, d.ID)
		}
	}
	return ids
}

// SourceLayers returns every layer that (transitively) feeds target
func (g *Graph) SourceLayers(target model.Layer) []model.Layer {
	return allowedSources[target]
}

// EffectiveValue resolves a question: its own non-empty value wins, otherwise
// its sources are resolved depth-first and combined with its transform.
// Returns "" when nothing can be produced.
func (g *Graph) EffectiveValue(questionID string, read Accessor, opts ...ResolveOption) string {
	var env Env
	for _, opt := range opts {
		opt(&env)
	}
	return g.resolve(questionID, read, env)
}

func (g *Graph) resolve(questionID string, read Accessor, env Env) string {
	d, ok := g.defs[questionID]
	if !ok {
		return ""
	}
	if own := read(d.Layer, questionID); strings.TrimSpace(own) != "" {
		return own
	}
	if d.AutoPopulate == nil {
		return ""
	}

	var values []string
	for _, srcID := range d.AutoPopulate.IDs {
		if v := g.resolve(srcID, read, env); strings.TrimSpace(v) != "" {
			values = append(values, v)
		}
	}
	if len(values) == 0 {
		return ""
	}

	// Validate guarantees the transform exists
	value, _ := applyTransform(d.AutoPopulate.Transform, values, env)
	return value
}

// Default is the compiled-in question graph
var Default = mustGraph(catalog)

func mustGraph(defs []Definition) *Graph {
	g, err := NewGraph(defs)
	if err != nil {
		panic("questions: invalid catalog: " + err.Error())
	}
	return g
}

// QuestionsForLayer returns the default graph's questions for a layer
func QuestionsForLayer(layer model.Layer) []Definition {
	return Default.QuestionsForLayer(layer)
}

// EffectiveValue resolves a question against the default graph
func EffectiveValue(questionID string, read Accessor, opts ...ResolveOption) string {
	return Default.EffectiveValue(questionID, read, opts...)
}
