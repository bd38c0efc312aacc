package cli

import (
	"fmt"

	"github.com/RyanBlaney/sonido-wbp/wbp"
	"github.com/spf13/cobra"
)

func newAuditCommand(a *app) *cobra.Command {
	var style string

	cmd := &cobra.Command{
		Use:   "audit",
		Short: "Check the phrase database for coverage gaps and artifacts",
		Long: `Runs the consistency checks over the loaded database:
- every base chord type alone in a bar must be matched by two 1-bar phrases or more
- every pair of configured chord qualities in one bar must be matched the same way
- 1-bar phrases of any style must not contain notes too close to each other or too short

Examples:
  wbp audit
  wbp audit --style 2feel --log-level error`,
		RunE: func(cmd *cobra.Command, args []string) error {
			db, report, err := a.loadDatabase(cmd.Context())
			if err != nil {
				return err
			}

			cfg := a.cfg.Consistency
			if cmd.Flags().Changed("style") {
				cfg.Style = style
			}
			checker, err := wbp.NewConsistencyChecker(db, &cfg)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			printLoadReport(out, report)

			res := checker.Run()
			printSection(out, "consistency report")
			printKeyValue(out, "style", res.Style)
			printKeyValue(out, "single chords checked", res.SingleChordChecked)
			printKeyValue(out, "two chord bars checked", res.TwoChordChecked)
			printKeyValue(out, "phrases scanned", res.PhrasesScanned)
			for _, kind := range []wbp.FindingKind{
				wbp.FindingSingleChordCoverage,
				wbp.FindingTwoChordCoverage,
				wbp.FindingCloseOnsets,
				wbp.FindingShortNote,
			} {
				printKeyValue(out, string(kind), res.Count(kind))
			}

			if len(res.Findings) > 0 {
				printSection(out, "findings")
				for _, f := range res.Findings {
					if f.SourceID != "" {
						fmt.Fprintf(out, "[%s] %s %s: %s\n", f.Level, f.Kind, f.SourceID, f.Description)
					} else {
						fmt.Fprintf(out, "[%s] %s: %s\n", f.Level, f.Kind, f.Description)
					}
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&style, "style", "walking", "bass style to audit (walking, 2feel)")
	return cmd
}
