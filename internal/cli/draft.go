package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/ppiankov/paperforge/internal/model"
	"github.com/ppiankov/paperforge/internal/questions"
	"github.com/ppiankov/paperforge/internal/store"
)

var (
	draftCountry   string
	draftCommittee string
	draftTopic     string
	draftJSON      bool
)

var draftCmd = &cobra.Command{
	Use:   "draft",
	Short: "Create, inspect and edit drafts",
}

var draftNewCmd = &cobra.Command{
	Use:   "new",
	Short: "Create an empty draft",
	Long: `Create an empty draft and print its id.

Example:
  paperforge draft new --country Kenya --committee UNEP --topic "Plastic Pollution"`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		d := model.NewDraft(draftCountry, draftCommittee, draftTopic)
		if !d.PaperContext().Valid() {
			return errors.New("--country, --committee and --topic are required")
		}

		s, err := openSession()
		if err != nil {
			return err
		}
		defer s.Close()

		if err := s.store.Save(cmd.Context(), d); err != nil {
			return fmt.Errorf("save draft: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), d.ID)
		return nil
	},
}

var draftShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Print a draft",
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

		var out []byte
		if draftJSON {
			out, err = json.MarshalIndent(d, "", "  ")
			if err == nil {
				out = append(out, '\n')
			}
		} else {
			out, err = yaml.Marshal(d)
		}
		if err != nil {
			return fmt.Errorf("encode draft: %w", err)
		}
		_, err = cmd.OutOrStdout().Write(out)
		return err
	},
}

var draftSetCmd = &cobra.Command{
	Use:   "set <id> <question-id> <value>",
	Short: "Answer one question",
	Long: `Store a value for one question. The layer is taken from the catalog;
an empty value clears the answer.

Example:
  paperforge draft set 3f2a... whyImportant "Plastic waste chokes marine life"`,
	Args: cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		def, ok := questions.Default.Lookup(args[1])
		if !ok {
			return fmt.Errorf("unknown question: %s (see 'paperforge questions')", args[1])
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
		d.SetAnswer(def.Layer, def.ID, args[2])
		if err := s.store.Save(cmd.Context(), d); err != nil {
			return fmt.Errorf("save draft: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✓ %s.%s updated\n", def.Layer, def.ID)
		return nil
	},
}

var draftListCmd = &cobra.Command{
	Use:   "list",
	Short: "List drafts, newest first",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession()
		if err != nil {
			return err
		}
		defer s.Close()

		list, err := s.store.List(cmd.Context())
		if err != nil {
			return fmt.Errorf("list drafts: %w", err)
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tCOUNTRY\tCOMMITTEE\tTOPIC\tUPDATED")
		for _, sum := range list {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", sum.ID, sum.Country, sum.Committee, sum.Topic, sum.UpdatedAt.Local().Format("2006-01-02 15:04"))
		}
		return w.Flush()
	},
}

var draftDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a draft",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession()
		if err != nil {
			return err
		}
		defer s.Close()

		if err := s.store.Delete(cmd.Context(), args[0]); err != nil {
			return fmt.Errorf("delete draft: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Deleted %s\n", args[0])
		return nil
	},
}

var draftCleanupCmd = &cobra.Command{
	Use:   "cleanup",
	Short: "Remove drafts saved before the layered schema",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession()
		if err != nil {
			return err
		}
		defer s.Close()

		n, err := s.store.CleanupLegacy(cmd.Context())
		if err != nil {
			return fmt.Errorf("cleanup: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Removed %d legacy draft(s)\n", n)
		return nil
	},
}

// loadDraft loads id, explaining legacy removals
func loadDraft(cmd *cobra.Command, s *session, id string) (*model.Draft, error) {
	d, err := s.store.Load(cmd.Context(), id)
	switch {
	case errors.Is(err, store.ErrLegacyDraft):
		return nil, fmt.Errorf("draft %s used an old format and was removed; start a new draft", id)
	case err != nil:
		return nil, fmt.Errorf("load draft: %w", err)
	}
	return d, nil
}

func init() {
	rootCmd.AddCommand(draftCmd)
	draftCmd.AddCommand(draftNewCmd, draftShowCmd, draftSetCmd, draftListCmd, draftDeleteCmd, draftCleanupCmd)

	draftNewCmd.Flags().StringVar(&draftCountry, "country", "", "represented country")
	draftNewCmd.Flags().StringVar(&draftCommittee, "committee", "", "committee name")
	draftNewCmd.Flags().StringVar(&draftTopic, "topic", "", "agenda topic")

	draftShowCmd.Flags().BoolVar(&draftJSON, "json", false, "print JSON instead of YAML")
}
