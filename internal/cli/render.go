package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/spf13/cobra"

	"github.com/ppiankov/paperforge/internal/paper"
	"github.com/ppiankov/paperforge/internal/questions"
	"github.com/ppiankov/paperforge/internal/worker"
)

var (
	concurrency   int
	outputDir     string
	renderFrom    string
	renderLocale  string
	renderTimeout time.Duration
)

var previewCmd = &cobra.Command{
	Use:   "preview <id> <paragraph>",
	Short: "Preview one paragraph of the paper",
	Long: `Preview assembles one paragraph from its paragraph components.

Paragraphs: intro, background, position, solutions, conclusion.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if !isParagraph(args[1]) {
			return fmt.Errorf("unknown paragraph: %s", args[1])
		}

		s, err := openSession()
		if err != nil {
			return err
		}
		defer s.Close()

		d, err := loadDraft(cmd, s, args[0])
		if err != nil {
			return err
		}

		text := paper.GenerateParagraphPreview(d, args[1])
		if text == "" {
			fmt.Fprintf(os.Stderr, "Paragraph %s has no components yet\n", args[1])
			return nil
		}
		fmt.Fprintln(cmd.OutOrStdout(), text)
		return nil
	},
}

var renderCmd = &cobra.Command{
	Use:   "render [id...]",
	Short: "Assemble final papers",
	Long: `Render assembles the Markdown paper of each draft from its paragraph
components, stores it as the draft's final paper and prints or writes it.

Drafts are rendered in parallel; rendering never calls the language model.

Example:
  paperforge render 3f2a...
  paperforge render 3f2a... 9c1b... --output-dir ./papers
  paperforge render --from ids.txt --output-dir ./papers --concurrency 8`,
	RunE: runRender,
}

func init() {
	rootCmd.AddCommand(previewCmd)
	rootCmd.AddCommand(renderCmd)

	renderCmd.Flags().IntVar(&concurrency, "concurrency", runtime.NumCPU(), "number of concurrent workers")
	renderCmd.Flags().StringVar(&outputDir, "output-dir", "", "write <id>.md files here instead of printing")
	renderCmd.Flags().StringVar(&renderFrom, "from", "", "read draft ids from a file (one per line)")
	renderCmd.Flags().StringVar(&renderLocale, "locale", "", "YAML translation catalog overriding the English labels")
	renderCmd.Flags().DurationVar(&renderTimeout, "timeout", 5*time.Minute, "total timeout for rendering")
}

func runRender(cmd *cobra.Command, args []string) error {
	ids := append([]string{}, args...)
	if renderFrom != "" {
		fromFile, err := worker.ReadIDsFromFile(renderFrom)
		if err != nil {
			return err
		}
		ids = append(ids, fromFile...)
	}
	if len(ids) == 0 {
		return fmt.Errorf("no drafts given; pass ids or --from <file>")
	}

	var translator paper.Translator
	if renderLocale != "" {
		catalog, err := paper.LoadCatalog(renderLocale)
		if err != nil {
			return err
		}
		translator = catalog.Translate
	}

	if outputDir != "" {
		if err := os.MkdirAll(outputDir, 0755); err != nil {
			return fmt.Errorf("create output directory: %w", err)
		}
	}

	s, err := openSession()
	if err != nil {
		return err
	}
	defer s.Close()

	ctx, cancel := context.WithTimeout(cmd.Context(), renderTimeout)
	defer cancel()

	start := time.Now()
	results := worker.NewBatchRenderer(s.store, translator, concurrency, s.log).RenderDrafts(ctx, ids)

	out := cmd.OutOrStdout()
	failed := 0
	for i, res := range results {
		if res.Error != nil {
			failed++
			fmt.Fprintf(os.Stderr, "✗ %s: %v\n", res.ID, res.Error)
			continue
		}

		if outputDir == "" {
			if i > 0 {
				fmt.Fprintln(out)
			}
			fmt.Fprint(out, res.Paper)
			continue
		}

		path := filepath.Join(outputDir, res.ID+".md")
		if err := os.WriteFile(path, []byte(res.Paper), 0644); err != nil {
			failed++
			fmt.Fprintf(os.Stderr, "✗ %s: write %s: %v\n", res.ID, path, err)
			continue
		}
		if verbose {
			fmt.Fprintf(os.Stderr, "✓ %s -> %s\n", res.ID, path)
		}
	}

	if outputDir != "" {
		fmt.Fprintf(os.Stderr, "Rendered %d/%d draft(s) in %v\n", len(results)-failed, len(results), time.Since(start).Round(time.Millisecond))
	}
	if failed > 0 {
		return fmt.Errorf("%d draft(s) failed to render", failed)
	}
	return nil
}

func isParagraph(p string) bool {
	for _, known := range questions.Paragraphs {
		if p == known {
			return true
		}
	}
	return false
}
