package model

import "time"

// BookmarkSource is an imported reference document.
// Created by the import flow; read-only to the engine.
type BookmarkSource struct {
	ID         string            `json:"id"`
	Title      string            `json:"title"`
	URL        string            `json:"url,omitempty"`
	ImportedAt time.Time         `json:"importedAt"`
	Sections   []BookmarkSection `json:"sections"`
}

// BookmarkSection is one heading and its excerpt
type BookmarkSection struct {
	HeadingText string `json:"headingText"`
	Content     string `json:"content"`
}

// ClassifiedBookmark assigns a bookmark section to a research category
type ClassifiedBookmark struct {
	SourceID    string `json:"sourceId"`
	HeadingText string `json:"headingText"`
	Category    string `json:"category"`
	Score       int    `json:"score"`
}

// PriorContext is the evidence bundle sent along with a polish request.
// Every field is optional; absent fields are omitted from the prompt.
type PriorContext struct {
	WhyImportant     string   `json:"whyImportant,omitempty"`
	KeyEvents        string   `json:"keyEvents,omitempty"`
	CountryPosition  string   `json:"countryPosition,omitempty"`
	PastActions      string   `json:"pastActions,omitempty"`
	SolutionProposal string   `json:"solutionProposal,omitempty"`
	BookmarkHeadings []string `json:"bookmarkHeadings,omitempty"`
	RelevantExcerpts string   `json:"relevantExcerpts,omitempty"`
}

// IsEmpty reports whether no evidence is present
func (p *PriorContext) IsEmpty() bool {
	if p == nil {
		return true
	}
	return p.WhyImportant == "" && p.KeyEvents == "" && p.CountryPosition == "" &&
		p.PastActions == "" && p.SolutionProposal == "" &&
		len(p.BookmarkHeadings) == 0 && p.RelevantExcerpts == ""
}

// AutofillResult summarizes one autofill run. Never persisted.
type AutofillResult struct {
	Updated       int      `json:"updated"`
	UpdatedFields []string `json:"updatedFields"`
	AIPolished    int      `json:"aiPolished"`
	Errors        []string `json:"errors,omitempty"`
}
