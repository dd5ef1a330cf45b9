package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ppiankov/paperforge/internal/autofill"
	"github.com/ppiankov/paperforge/internal/model"
	"github.com/ppiankov/paperforge/internal/polish"
	"github.com/ppiankov/paperforge/internal/ratelimit"
)

var (
	autofillLayer string
	autofillAI    bool
	autofillForce bool
)

var autofillCmd = &cobra.Command{
	Use:   "autofill <id>",
	Short: "Fill empty fields of a layer from the layer below",
	Long: `Autofill derives every empty field of the target layer from its sources.
Fields that already hold a value are never overwritten.

With --ai, fields whose transform has a polished form are sent to the polish
endpoint one at a time; any failure keeps the locally derived text.

A run is skipped when the source answers have not changed since the last
autofill of that layer, unless --force is given.

Example:
  paperforge autofill 3f2a... --layer ideaFormation
  paperforge autofill 3f2a... --layer 2 --ai`,
	Args: cobra.ExactArgs(1),
	RunE: runAutofill,
}

func init() {
	rootCmd.AddCommand(autofillCmd)
	autofillCmd.Flags().StringVar(&autofillLayer, "layer", "", "target layer: ideaFormation (3) or paragraphComponents (2)")
	autofillCmd.Flags().BoolVar(&autofillAI, "ai", false, "polish derived text through the polish endpoint")
	autofillCmd.Flags().BoolVar(&autofillForce, "force", false, "run even if the sources are unchanged")
	_ = autofillCmd.MarkFlagRequired("layer")
}

func runAutofill(cmd *cobra.Command, args []string) error {
	target, ok := model.ParseLayer(autofillLayer)
	if !ok {
		return fmt.Errorf("unknown layer: %s", autofillLayer)
	}
	if target != model.LayerIdeaFormation && target != model.LayerParagraphComponents {
		return fmt.Errorf("layer %s cannot be autofilled; use 'paperforge render' for the final paper", target)
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

	opts := []autofill.Option{autofill.WithLogger(s.log)}
	if autofillAI {
		pacer := ratelimit.NewPacer(float64(s.cfg.Polish.RequestsPerMinute), 1)
		client := polish.NewClient(s.cfg.Polish.EndpointURL, s.cfg.Polish.Timeout,
			polish.WithPacer(pacer),
			polish.WithProxy(s.cfg.Polish.HTTPProxy, s.cfg.Polish.HTTPSProxy),
			polish.WithLogger(s.log),
		)
		opts = append(opts, autofill.WithPolisher(client))
	}
	orch := autofill.New(opts...)

	out := cmd.OutOrStdout()
	if !autofillForce && !orch.NeedsAutofill(target, d) {
		fmt.Fprintf(out, "Sources of %s are unchanged since the last autofill (use --force to rerun)\n", target)
		return nil
	}

	update := func(layer model.Layer, questionID, value string) {
		d.SetAnswer(layer, questionID, value)
	}

	var res model.AutofillResult
	if autofillAI {
		res = orch.PerformAutofillWithAI(cmd.Context(), target, d, update, autofill.Options{
			UseAI:        true,
			PaperContext: d.PaperContext(),
		})
	} else {
		res = orch.PerformAutofill(target, d, update)
	}

	orch.RecordHash(target, d)
	if err := s.store.Save(cmd.Context(), d); err != nil {
		return fmt.Errorf("save draft: %w", err)
	}

	fmt.Fprintf(out, "✓ Updated %d field(s) in %s", res.Updated, target)
	if autofillAI {
		fmt.Fprintf(out, ", %d polished", res.AIPolished)
	}
	fmt.Fprintln(out)
	for _, f := range res.UpdatedFields {
		fmt.Fprintf(out, "  - %s\n", f)
	}
	for _, e := range res.Errors {
		fmt.Fprintf(os.Stderr, "⚠️  %s\n", e)
	}
	return nil
}
