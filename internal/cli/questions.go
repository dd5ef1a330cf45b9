package cli

import (
	"fmt"
	"slices"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/ppiankov/paperforge/internal/model"
	"github.com/ppiankov/paperforge/internal/questions"
)

var (
	questionsLayer    string
	questionsCategory string
)

var questionsCmd = &cobra.Command{
	Use:   "questions",
	Short: "List the question catalog",
	Long: `List every question, its layer and how it is autofilled.

Layers may be given by name or number (4 = comprehension ... 1 = finalPaper).

Example:
  paperforge questions
  paperforge questions --layer paragraphComponents
  paperforge questions --layer 3
  paperforge questions --category history`,
	Args: cobra.NoArgs,
	RunE: runQuestions,
}

func init() {
	rootCmd.AddCommand(questionsCmd)
	questionsCmd.Flags().StringVar(&questionsLayer, "layer", "", "only list questions of this layer")
	questionsCmd.Flags().StringVar(&questionsCategory, "category", "",
		"only list comprehension questions of this category ("+strings.Join(questions.Categories, ", ")+")")
}

func runQuestions(cmd *cobra.Command, args []string) error {
	layers := model.Layers
	if questionsLayer != "" {
		l, ok := model.ParseLayer(questionsLayer)
		if !ok {
			return fmt.Errorf("unknown layer: %s", questionsLayer)
		}
		layers = []model.Layer{l}
	}
	if questionsCategory != "" {
		if !slices.Contains(questions.Categories, questionsCategory) {
			return fmt.Errorf("unknown category: %s (want one of %s)", questionsCategory, strings.Join(questions.Categories, ", "))
		}
		if questionsLayer != "" && layers[0] != model.LayerComprehension {
			return fmt.Errorf("--category only applies to the %s layer", model.LayerComprehension)
		}
		layers = []model.Layer{model.LayerComprehension}
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "LAYER\tID\tGROUP\tLABEL\tAUTOFILL")
	for _, layer := range layers {
		for _, def := range questions.QuestionsForLayer(layer) {
			if questionsCategory != "" && def.Category != questionsCategory {
				continue
			}
			group := def.Category
			if def.Paragraph != "" {
				group = def.Paragraph
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", layer, def.ID, dash(group), def.Label, describeSource(def.AutoPopulate))
		}
	}
	return w.Flush()
}

func describeSource(src *questions.Source) string {
	if src == nil {
		return "-"
	}
	return src.Transform + "(" + strings.Join(src.IDs, ", ") + ")"
}

func dash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
