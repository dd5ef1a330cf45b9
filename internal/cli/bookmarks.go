package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/ppiankov/paperforge/internal/model"
	"github.com/ppiankov/paperforge/internal/relevance"
)

var bookmarksQuery string

var bookmarksCmd = &cobra.Command{
	Use:   "bookmarks",
	Short: "Work with a draft's reference sources",
}

var bookmarksAddCmd = &cobra.Command{
	Use:   "add <id> <sources.json>",
	Short: "Attach exported reference sources to a draft",
	Long: `Attach reference sources exported by a bookmark importer.

The file holds a JSON array of sources:
  [{"title": "...", "url": "...", "sections": [{"headingText": "...", "content": "..."}]}]

Section content may be HTML; it is reduced to plain text when ranked.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		raw, err := os.ReadFile(args[1])
		if err != nil {
			return fmt.Errorf("read sources: %w", err)
		}
		var sources []model.BookmarkSource
		if err := json.Unmarshal(raw, &sources); err != nil {
			return fmt.Errorf("parse sources: %w", err)
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

		now := time.Now().UTC()
		for i := range sources {
			if sources[i].ID == "" {
				sources[i].ID = uuid.NewString()
			}
			if sources[i].ImportedAt.IsZero() {
				sources[i].ImportedAt = now
			}
		}
		d.BookmarkSources = append(d.BookmarkSources, sources...)

		if err := s.store.Save(cmd.Context(), d); err != nil {
			return fmt.Errorf("save draft: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Attached %d source(s)\n", len(sources))
		return nil
	},
}

var bookmarksClassifyCmd = &cobra.Command{
	Use:   "classify <id>",
	Short: "Assign each source section to a research category",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession()
		if err != nil {
			return err
		}
		defer s.Close()

		d, err := loadDraft(cmd, s, args[0])
		if err != nil {
			return err
		}

		d.ClassifiedBookmarks = relevance.ClassifyDraft(d)
		if err := s.store.Save(cmd.Context(), d); err != nil {
			return fmt.Errorf("save draft: %w", err)
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "CATEGORY\tSCORE\tHEADING")
		for _, c := range d.ClassifiedBookmarks {
			fmt.Fprintf(w, "%s\t%d\t%s\n", c.Category, c.Score, c.HeadingText)
		}
		return w.Flush()
	},
}

var bookmarksContextCmd = &cobra.Command{
	Use:   "context <id>",
	Short: "Show the evidence that would accompany a polish request",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession()
		if err != nil {
			return err
		}
		defer s.Close()

		d, err := loadDraft(cmd, s, args[0])
		if err != nil {
			return err
		}

		pc := relevance.GatherPriorContext(d, bookmarksQuery)
		out := cmd.OutOrStdout()
		if pc.IsEmpty() {
			fmt.Fprintln(out, "No research answers or sources yet")
			return nil
		}

		section := func(title, body string) {
			if strings.TrimSpace(body) == "" {
				return
			}
			fmt.Fprintf(out, "== %s ==\n%s\n\n", title, body)
		}
		section("Why important", pc.WhyImportant)
		section("Key events", pc.KeyEvents)
		section("Country position", pc.CountryPosition)
		section("Past actions", pc.PastActions)
		section("Solution proposal", pc.SolutionProposal)
		section("Source headings", strings.Join(pc.BookmarkHeadings, "\n"))
		section("Relevant excerpts", pc.RelevantExcerpts)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(bookmarksCmd)
	bookmarksCmd.AddCommand(bookmarksAddCmd, bookmarksClassifyCmd, bookmarksContextCmd)

	bookmarksContextCmd.Flags().StringVar(&bookmarksQuery, "query", "", "extra text to rank source sections against")
}
