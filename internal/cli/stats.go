package cli

import (
	"fmt"
	"io"

	"github.com/RyanBlaney/sonido-wbp/corpus"
	"github.com/RyanBlaney/sonido-wbp/wbp"
	"github.com/spf13/cobra"
)

func newStatsCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show phrase database counters",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, report, err := a.loadDatabase(cmd.Context())
			if err != nil {
				return err
			}
			if err := db.CheckCoherence(); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			printLoadReport(out, report)

			stats := db.Stats()
			printSection(out, "database")
			printKeyValue(out, "phrases", stats.Total)
			printKeyValue(out, "sessions", stats.Sessions)
			printKeyValue(out, "style profiles", stats.Profiles)
			for size := 1; size <= wbp.MaxBarCount; size++ {
				printKeyValue(out, fmt.Sprintf("%d bar phrases", size), stats.BySize[size])
			}
			for _, style := range wbp.AllBassStyles() {
				printKeyValue(out, style.String()+" phrases", stats.ByStyle[style])
			}
			return nil
		},
	}
}

func printLoadReport(w io.Writer, report *corpus.LoadReport) {
	printSection(w, "corpus")
	printKeyValue(w, "recordings", report.Recordings)
	printKeyValue(w, "sessions", report.Sessions)
	printKeyValue(w, "candidates", report.Candidates)
	printKeyValue(w, "added", report.Added)
	printKeyValue(w, "redundant", report.Redundant)
	printKeyValue(w, "errors", len(report.Errors))
	for _, err := range report.Errors {
		fmt.Fprintf(w, "  %v\n", err)
	}
}
