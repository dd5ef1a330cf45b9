package autofill

import (
	"sort"
	"strconv"
	"strings"

	"github.com/ppiankov/paperforge/internal/model"
)

// ComputeSourceHash fingerprints every layer feeding target plus the
// country. Empty answers are ignored, so the hash does not depend on map
// order or on keys that were never filled.
func (o *Orchestrator) ComputeSourceHash(target model.Layer, draft *model.Draft) string {
	var lines []string
	for _, layer := range o.graph.SourceLayers(target) {
		for key, value := range draft.Fields(layer) {
			if strings.TrimSpace(value) == "" {
				continue
			}
			lines = append(lines, string(layer)+"."+key+"="+value)
		}
	}
	sort.Strings(lines)
	lines = append(lines, "country="+draft.Country)

	return hashString(strings.Join(lines, "\n"))
}

// hashString is the 32-bit h = h*31 + c string hash rendered in base 36
func hashString(s string) string {
	var h int32
	for _, c := range s {
		h = h*31 + int32(c)
	}
	abs := int64(h)
	if abs < 0 {
		abs = -abs
	}
	return strconv.FormatInt(abs, 36)
}

// NeedsAutofill reports whether target's sources changed since the last
// recorded autofill
func (o *Orchestrator) NeedsAutofill(target model.Layer, draft *model.Draft) bool {
	if !autofillable(target) {
		return false
	}
	return draft.AutofillHashes[target] != o.ComputeSourceHash(target, draft)
}

// RecordHash stores the current source hash of target on the draft
func (o *Orchestrator) RecordHash(target model.Layer, draft *model.Draft) {
	if draft.AutofillHashes == nil {
		draft.AutofillHashes = make(map[model.Layer]string)
	}
	draft.AutofillHashes[target] = o.ComputeSourceHash(target, draft)
}
