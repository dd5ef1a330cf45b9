package polish

import (
	"github.com/ppiankov/paperforge/internal/model"
)

// TransformType selects the rewriting instruction sent to the model
type TransformType string

const (
	BulletsToParagraph TransformType = "bullets-to-paragraph"
	ExpandSentence     TransformType = "expand-sentence"
	Formalize          TransformType = "formalize"
	CombineSolutions   TransformType = "combine-solutions"
)

// TransformTypes lists the accepted transform types
var TransformTypes = []TransformType{BulletsToParagraph, ExpandSentence, Formalize, CombineSolutions}

// Valid reports whether t is one of the accepted transform types
func (t TransformType) Valid() bool {
	for _, known := range TransformTypes {
		if t == known {
			return true
		}
	}
	return false
}

// Request is the body of POST /api/polish-text
type Request struct {
	Text          string              `json:"text"`
	Context       model.PaperContext  `json:"context"`
	TransformType TransformType       `json:"transformType"`
	PriorContext  *model.PriorContext `json:"priorContext,omitempty"`
	TargetLayer   model.Layer         `json:"targetLayer,omitempty"`
}

// Response is the endpoint reply. Error responses carry an empty PolishedText.
type Response struct {
	PolishedText string `json:"polishedText"`
	Error        string `json:"error,omitempty"`
}

// Result is what the client hands back to callers. PolishedText is always
// safe to display: on failure it is the original input.
type Result struct {
	Success      bool
	PolishedText string
	Error        string
}
