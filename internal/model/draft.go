package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// SchemaVersion is the current persisted draft schema.
// Version 1 drafts predate the layered model and are never migrated.
const SchemaVersion = 2

// Layer identifies one stage of the authoring pipeline
type Layer string

const (
	LayerComprehension       Layer = "comprehension"       // Layer 4: raw research answers
	LayerIdeaFormation       Layer = "ideaFormation"       // Layer 3: rough restated ideas
	LayerParagraphComponents Layer = "paragraphComponents" // Layer 2: sentence-level building blocks
	LayerFinalPaper          Layer = "finalPaper"          // Layer 1: assembled Markdown
)

// Layers lists every layer, leaves first
var Layers = []Layer{LayerComprehension, LayerIdeaFormation, LayerParagraphComponents, LayerFinalPaper}

// IsFieldMap reports whether the layer stores a question -> answer map
func (l Layer) IsFieldMap() bool {
	switch l {
	case LayerComprehension, LayerIdeaFormation, LayerParagraphComponents:
		return true
	default:
		return false
	}
}

// Valid reports whether l is a known layer
func (l Layer) Valid() bool {
	return l.IsFieldMap() || l == LayerFinalPaper
}

// ParseLayer resolves a layer name, accepting the layer numbers 1-4 as aliases
func ParseLayer(s string) (Layer, bool) {
	switch strings.TrimSpace(s) {
	case "4", string(LayerComprehension):
		return LayerComprehension, true
	case "3", string(LayerIdeaFormation):
		return LayerIdeaFormation, true
	case "2", string(LayerParagraphComponents):
		return LayerParagraphComponents, true
	case "1", string(LayerFinalPaper):
		return LayerFinalPaper, true
	}
	return "", false
}

// FieldMap maps question IDs to answers. An empty string means unfilled.
type FieldMap map[string]string

// LayerData holds the content of all four layers
type LayerData struct {
	Comprehension       FieldMap `json:"comprehension"`
	IdeaFormation       FieldMap `json:"ideaFormation"`
	ParagraphComponents FieldMap `json:"paragraphComponents"`
	FinalPaper          string   `json:"finalPaper"`
}

// Draft is the root aggregate for one position paper
type Draft struct {
	ID        string    `json:"id"`
	Version   int       `json:"version"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	Country   string `json:"country"`
	Committee string `json:"committee"`
	Topic     string `json:"topic"`

	Layers LayerData `json:"layers"`

	BookmarkSources     []BookmarkSource     `json:"bookmarkSources"`
	ClassifiedBookmarks []ClassifiedBookmark `json:"classifiedBookmarks"`

	// AutofillHashes records the source hash of the last autofill per target layer
	AutofillHashes map[Layer]string `json:"autofillHashes,omitempty"`
}

// NewDraft creates an empty draft at the current schema version
func NewDraft(country, committee, topic string) *Draft {
	now := time.Now().UTC()
	return &Draft{
		ID:        uuid.NewString(),
		Version:   SchemaVersion,
		CreatedAt: now,
		UpdatedAt: now,
		Country:   country,
		Committee: committee,
		Topic:     topic,
		Layers: LayerData{
			Comprehension:       FieldMap{},
			IdeaFormation:       FieldMap{},
			ParagraphComponents: FieldMap{},
		},
	}
}

// Fields returns the field map of a layer, or nil for the final paper
func (d *Draft) Fields(layer Layer) FieldMap {
	switch layer {
	case LayerComprehension:
		return d.Layers.Comprehension
	case LayerIdeaFormation:
		return d.Layers.IdeaFormation
	case LayerParagraphComponents:
		return d.Layers.ParagraphComponents
	default:
		return nil
	}
}

// Answer returns the stored value of a question, "" when unset
func (d *Draft) Answer(layer Layer, questionID string) string {
	if d == nil {
		return ""
	}
	return d.Fields(layer)[questionID]
}

// SetAnswer stores a value for a question in a field-map layer
func (d *Draft) SetAnswer(layer Layer, questionID, value string) {
	switch layer {
	case LayerComprehension:
		if d.Layers.Comprehension == nil {
			d.Layers.Comprehension = FieldMap{}
		}
		d.Layers.Comprehension[questionID] = value
	case LayerIdeaFormation:
		if d.Layers.IdeaFormation == nil {
			d.Layers.IdeaFormation = FieldMap{}
		}
		d.Layers.IdeaFormation[questionID] = value
	case LayerParagraphComponents:
		if d.Layers.ParagraphComponents == nil {
			d.Layers.ParagraphComponents = FieldMap{}
		}
		d.Layers.ParagraphComponents[questionID] = value
	default:
		return
	}
	d.UpdatedAt = time.Now().UTC()
}

// PaperContext projects the identifying fields of the draft
func (d *Draft) PaperContext() PaperContext {
	return PaperContext{
		Country:   d.Country,
		Committee: d.Committee,
		Topic:     d.Topic,
	}
}

// AllSections flattens the sections of every imported bookmark source
func (d *Draft) AllSections() []BookmarkSection {
	var sections []BookmarkSection
	for _, src := range d.BookmarkSources {
		sections = append(sections, src.Sections...)
	}
	return sections
}

// PaperContext identifies the paper being written.
// All three fields are required before any AI call.
type PaperContext struct {
	Country   string `json:"country"`
	Committee string `json:"committee"`
	Topic     string `json:"topic"`
}

// Valid reports whether every field is non-empty
func (c PaperContext) Valid() bool {
	return strings.TrimSpace(c.Country) != "" &&
		strings.TrimSpace(c.Committee) != "" &&
		strings.TrimSpace(c.Topic) != ""
}
