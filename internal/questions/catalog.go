package questions

import "github.com/ppiankov/paperforge/internal/model"

// Comprehension categories
const (
	CategoryTopic        = "topic"
	CategoryHistory      = "history"
	CategoryCountry      = "country"
	CategorySolutions    = "solutions"
	CategoryPerspectives = "perspectives"
)

// Categories lists the comprehension categories in display order
var Categories = []string{CategoryTopic, CategoryHistory, CategoryCountry, CategorySolutions, CategoryPerspectives}

// Paragraphs of the final paper
const (
	ParagraphIntro      = "intro"
	ParagraphBackground = "background"
	ParagraphPosition   = "position"
	ParagraphSolutions  = "solutions"
	ParagraphConclusion = "conclusion"
)

// Paragraphs lists the paper paragraphs in document order
var Paragraphs = []string{ParagraphIntro, ParagraphBackground, ParagraphPosition, ParagraphSolutions, ParagraphConclusion}

func research(category, id, label string) Definition {
	return Definition{
		ID:             id,
		Layer:          model.LayerComprehension,
		Category:       category,
		Label:          label,
		TranslationKey: "questions.comprehension." + id,
	}
}

func idea(id, label string, sources ...string) Definition {
	return Definition{
		ID:             id,
		Layer:          model.LayerIdeaFormation,
		Label:          label,
		TranslationKey: "questions.ideaFormation." + id,
		AutoPopulate:   &Source{IDs: sources, Transform: TransformCombineIdeas},
	}
}

func component(paragraph, id, label, transform string, sources ...string) Definition {
	return Definition{
		ID:             id,
		Layer:          model.LayerParagraphComponents,
		Paragraph:      paragraph,
		Label:          label,
		TranslationKey: "questions.paragraphComponents." + id,
		AutoPopulate:   &Source{IDs: sources, Transform: transform},
	}
}

// catalog is the compiled-in question set. Order within a paragraph is the
// order in which fragments appear in the final paper.
var catalog = []Definition{
	// Layer 4: Comprehension
	research(CategoryTopic, "topicDefinition", "What is the topic about, in your own words?"),
	research(CategoryTopic, "keyTerms", "Which key terms does a reader need to know?"),
	research(CategoryTopic, "whyImportant", "Why does this topic matter globally?"),
	research(CategoryTopic, "stakeholders", "Who are the main stakeholders affected?"),
	research(CategoryHistory, "keyEvents", "What are the key events in the history of this issue?"),
	research(CategoryHistory, "timeline", "Outline a rough timeline of the issue."),
	research(CategoryHistory, "pastActions", "What has the United Nations already done about it?"),
	research(CategoryHistory, "currentState", "What is the current situation?"),
	research(CategoryCountry, "countryInvolvement", "How is your country involved in this issue?"),
	research(CategoryCountry, "countryPosition", "What is your country's position?"),
	research(CategoryCountry, "pastPositions", "Which positions or votes has your country taken before?"),
	research(CategoryCountry, "countryInterests", "Which national interests are at stake?"),
	research(CategoryCountry, "allies", "Which countries or blocs share your position?"),
	research(CategorySolutions, "existingSolutions", "Which solutions have been tried already?"),
	research(CategorySolutions, "solutionGaps", "Where do existing solutions fall short?"),
	research(CategorySolutions, "solutionIdeas", "What would your country propose?"),
	research(CategorySolutions, "fundingIdeas", "How could the proposal be funded?"),
	research(CategorySolutions, "expectedImpact", "What impact would the proposal have?"),
	research(CategoryPerspectives, "opposingViews", "What do countries that disagree argue?"),

	// Layer 3: Idea Formation
	idea("topicSummary", "Summarize the topic and why it matters", "topicDefinition", "whyImportant"),
	idea("historySummary", "Summarize how the issue developed", "keyEvents", "timeline", "pastActions"),
	idea("countryStance", "State your country's stance", "countryPosition", "pastPositions", "countryInterests"),
	idea("solutionProposal", "Sketch the solution your country proposes", "solutionGaps", "solutionIdeas"),
	idea("counterpoint", "Note the strongest opposing argument", "opposingViews", "stakeholders"),
	idea("impactVision", "Describe what success would look like", "expectedImpact", "fundingIdeas"),

	// Layer 2: Paragraph Components
	component(ParagraphIntro, "introSentence", "Opening hook", TransformFormalize, "whyImportant"),
	component(ParagraphIntro, "broadContext", "Broad context", TransformBulletsToParagraph, "topicSummary"),
	component(ParagraphIntro, "alternatePerspective", "Alternate perspective", TransformBulletsToParagraph, "counterpoint"),
	component(ParagraphIntro, "callToAction", "Call to action", TransformFirstSentence, "solutionProposal"),
	component(ParagraphIntro, "thesis", "Thesis statement", TransformCombineSentences, "countryStance", "solutionProposal"),

	component(ParagraphBackground, "topicOverview", "Topic overview", TransformCombineSentences, "topicDefinition", "keyTerms"),
	component(ParagraphBackground, "historicalContext", "Historical context", TransformBulletsToParagraph, "historySummary"),
	component(ParagraphBackground, "keyEventsSummary", "Key events", TransformBulletsToParagraph, "keyEvents"),
	component(ParagraphBackground, "currentStatus", "Current situation", TransformFormalize, "currentState"),
	component(ParagraphBackground, "unInvolvement", "United Nations involvement", TransformBulletsToParagraph, "pastActions"),

	component(ParagraphPosition, "countryPolicy", "Country policy", TransformBulletsToParagraph, "countryStance"),
	component(ParagraphPosition, "pastPositionsSummary", "Past positions", TransformFormalize, "pastPositions"),
	component(ParagraphPosition, "justification", "Justification", TransformCombineSentences, "countryInterests", "countryInvolvement"),
	component(ParagraphPosition, "nationalInterests", "National interests", TransformFormalize, "countryInterests"),
	component(ParagraphPosition, "allianceSupport", "Allies and blocs", TransformFormalize, "allies"),

	component(ParagraphSolutions, "solutionOverview", "Solution overview", TransformCombineSolutions, "solutionProposal"),
	component(ParagraphSolutions, "solutionDetails", "Solution details", TransformCombineSolutions, "solutionIdeas", "existingSolutions"),
	component(ParagraphSolutions, "implementationPlan", "Implementation plan", TransformBulletsToParagraph, "solutionGaps"),
	component(ParagraphSolutions, "fundingMechanism", "Funding mechanism", TransformFormalize, "fundingIdeas"),
	component(ParagraphSolutions, "expectedOutcomes", "Expected outcomes", TransformBulletsToParagraph, "impactVision"),

	component(ParagraphConclusion, "restateThesis", "Restated thesis", TransformFirstSentence, "countryStance"),
	component(ParagraphConclusion, "summaryOfSolutions", "Summary of solutions", TransformCombineSolutions, "solutionProposal"),
	component(ParagraphConclusion, "closingStatement", "Closing statement", TransformCombineSentences, "whyImportant", "countryPosition"),
	component(ParagraphConclusion, "finalCallToAction", "Final call to action", TransformCombineSentences, "allies", "impactVision"),
}
