package cli

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/RyanBlaney/sonido-wbp/music"
	"github.com/RyanBlaney/sonido-wbp/wbp"
	"github.com/spf13/cobra"
)

// QueryResult is one phrase playable over a queried progression
type QueryResult struct {
	Source        *wbp.Source
	Compatibility int
	Transposition wbp.Transposition
}

// Query returns the phrases of db in style whose harmony fits seq, best first.
// Phrases with no harmonic compatibility are dropped.
func Query(db *wbp.Database, style wbp.BassStyle, seq *music.ChordSequence) ([]QueryResult, error) {
	profile, err := wbp.RootProfileOf(seq)
	if err != nil {
		return nil, err
	}
	first, _ := seq.First()
	destRoot := music.Note{Pitch: wbp.IdealCentralPitch + music.AscendingInterval(music.PitchClass(wbp.IdealCentralPitch), first.Symbol.Root)}

	var res []QueryResult
	for _, src := range db.GetByStyleAndProfile(style, profile) {
		compat := wbp.HarmonicCompatibility(src, seq)
		if compat == wbp.CompatibilityNone {
			continue
		}
		res = append(res, QueryResult{
			Source:        src,
			Compatibility: compat,
			Transposition: src.TranspositionFor(destRoot),
		})
	}

	slices.SortFunc(res, func(a, b QueryResult) int {
		return cmp.Or(
			cmp.Compare(b.Compatibility, a.Compatibility),
			cmp.Compare(b.Transposition.Score, a.Transposition.Score),
			cmp.Compare(a.Source.ID(), b.Source.ID()),
		)
	})
	return res, nil
}

func newQueryCommand(a *app) *cobra.Command {
	var (
		styleName string
		limit     int
	)

	cmd := &cobra.Command{
		Use:   "query <bar> [bar...]",
		Short: "List the phrases playable over a chord progression",
		Long: `Each argument is one bar of the progression. Several chords in a bar are
spread evenly over it.

Examples:
  wbp query "Dm7 G7" Cmaj7
  wbp query F7 Bb7 --style 2feel --limit 5`,
		Args: cobra.RangeArgs(1, wbp.MaxBarCount),
		RunE: func(cmd *cobra.Command, args []string) error {
			style, err := wbp.ParseBassStyle(styleName)
			if err != nil {
				return err
			}
			seq, err := ParseProgression(music.FourFour, args...)
			if err != nil {
				return err
			}

			db, _, err := a.loadDatabase(cmd.Context())
			if err != nil {
				return err
			}
			results, err := Query(db, style, seq)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			printSection(out, fmt.Sprintf("%s phrases over %s", style, seq))
			if len(results) == 0 {
				fmt.Fprintln(out, "no matching phrase")
				return nil
			}
			for i, r := range results {
				if limit > 0 && i >= limit {
					break
				}
				fmt.Fprintf(out, "%-32s compat=%3d score=%3d transpose=%+d chords=%s\n",
					r.Source.ID(), r.Compatibility, r.Transposition.Score, r.Transposition.Semitones, r.Source.Chords())
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&styleName, "style", "walking", "bass style (walking, 2feel)")
	cmd.Flags().IntVar(&limit, "limit", 10, "maximum number of phrases listed, 0 for all")
	return cmd
}
