package cli

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/funfair/internal/archive"
	"github.com/mesh-intelligence/funfair/pkg/types"
)

func newScoresCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scores",
		Short: "Show high scores and score history",
	}
	cmd.AddCommand(newScoresTopCmd(a), newScoresHistoryCmd(a))
	return cmd
}

func newScoresTopCmd(a *app) *cobra.Command {
	var character string
	cmd := &cobra.Command{
		Use:   "top <game> [difficulty]",
		Short: "Print the high score table for a minigame",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.resolveSettings()
			if err != nil {
				return err
			}
			log, err := newLogger(cmd.ErrOrStderr(), s.LogLevel)
			if err != nil {
				return err
			}
			s.History = false
			g := openGame(s, log)
			defer g.Close()

			game := args[0]
			difficulty := types.DifficultyNormal
			if len(args) > 1 {
				difficulty = args[1]
			}
			if character == "" {
				character = g.session.SelectedCharacter()
			}
			if character == "" {
				character = g.session.Catalog().Characters[0]
			}

			top := g.session.TopScores(game, character, difficulty)
			if a.flags.jsonMode {
				return writeJSON(cmd.OutOrStdout(), top)
			}
			return printScores(cmd.OutOrStdout(), top, func(i int, e types.ScoreEntry) []any {
				return []any{i + 1, e.Score, e.PlayerName, e.Date.Local().Format(time.DateTime)}
			}, "#", "SCORE", "PLAYER", "DATE")
		},
	}
	cmd.Flags().StringVar(&character, "character", "", "character (default: selected character)")
	return cmd
}

func newScoresHistoryCmd(a *app) *cobra.Command {
	var f archive.Filter
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Print every recorded round, most recent first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.resolveSettings()
			if err != nil {
				return err
			}
			if !s.History {
				return fmt.Errorf("score history is disabled in %s", s.configPath())
			}
			arc, err := archive.Open(s.historyPath())
			if err != nil {
				return sysErrorf("open score history: %w", err)
			}
			defer arc.Close()

			records, err := arc.History(cmd.Context(), f)
			if err != nil {
				return sysErrorf("read score history: %w", err)
			}
			if a.flags.jsonMode {
				if records == nil {
					records = []archive.Record{}
				}
				return writeJSON(cmd.OutOrStdout(), records)
			}
			entries := make([]types.ScoreEntry, len(records))
			for i, r := range records {
				entries[i] = r.Entry
			}
			return printScores(cmd.OutOrStdout(), entries, func(i int, e types.ScoreEntry) []any {
				r := records[i]
				return []any{e.Date.Local().Format(time.DateTime), r.Game, r.Character, r.Difficulty, e.Score, e.PlayerName}
			}, "DATE", "GAME", "CHARACTER", "DIFFICULTY", "SCORE", "PLAYER")
		},
	}
	cmd.Flags().StringVar(&f.Game, "game", "", "only this minigame")
	cmd.Flags().StringVar(&f.Character, "character", "", "only this character")
	cmd.Flags().StringVar(&f.Difficulty, "difficulty", "", "only this difficulty")
	cmd.Flags().IntVar(&f.Limit, "limit", 20, "maximum rounds to print (0 for all)")
	return cmd
}

// printScores writes a tab-aligned table, or a short note when empty.
func printScores(w io.Writer, entries []types.ScoreEntry, row func(int, types.ScoreEntry) []any, header ...string) error {
	if len(entries) == 0 {
		_, err := fmt.Fprintln(w, "no scores yet")
		return err
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for i, h := range header {
		if i > 0 {
			fmt.Fprint(tw, "\t")
		}
		fmt.Fprint(tw, h)
	}
	fmt.Fprintln(tw)
	for i, e := range entries {
		for j, cell := range row(i, e) {
			if j > 0 {
				fmt.Fprint(tw, "\t")
			}
			fmt.Fprint(tw, cell)
		}
		fmt.Fprintln(tw)
	}
	return tw.Flush()
}
