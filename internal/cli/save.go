package cli

import (
	"fmt"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/funfair/internal/migrate"
	"github.com/mesh-intelligence/funfair/internal/session"
	"github.com/mesh-intelligence/funfair/internal/store"
)

func newSaveCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "save",
		Short: "Inspect or reset the save file",
	}
	cmd.AddCommand(newSavePathCmd(a), newSaveShowCmd(a), newSaveResetCmd(a))
	return cmd
}

func newSavePathCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the save and backup file paths",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.resolveSettings()
			if err != nil {
				return err
			}
			st := store.NewFile(s.SaveDir)
			if a.flags.jsonMode {
				return writeJSON(cmd.OutOrStdout(), map[string]string{
					"save":   st.Path(),
					"backup": st.BackupPath(),
				})
			}
			fmt.Fprintln(cmd.OutOrStdout(), st.Path())
			fmt.Fprintln(cmd.OutOrStdout(), st.BackupPath())
			return nil
		},
	}
}

func newSaveShowCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the save document, migrated to the current schema",
		Long:  "Load the save the same way the game does and print it. Nothing is written.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.resolveSettings()
			if err != nil {
				return err
			}
			log, err := newLogger(cmd.ErrOrStderr(), s.LogLevel)
			if err != nil {
				return err
			}
			sess := session.New(store.NewFile(s.SaveDir, store.WithLogger(log)),
				session.WithLogger(log),
				session.WithHighScoreLimit(s.HighScoreLimit),
			)
			doc := sess.Load()
			logLoad(log, sess.LastLoad())

			data, err := migrate.Encode(doc)
			if err != nil {
				return sysErrorf("encode save: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(data))
			return nil
		},
	}
}

func logLoad(log zerolog.Logger, ls session.LoadStatus) {
	ev := log.Info()
	if ls.Err != nil {
		ev = log.Warn().Err(ls.Err)
	}
	ev.Str("source", ls.Source).Msg("save loaded")
}

func newSaveResetCmd(a *app) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Delete the save and its backup",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				return fmt.Errorf("refusing to delete the save without --yes")
			}
			s, err := a.resolveSettings()
			if err != nil {
				return err
			}
			if err := store.NewFile(s.SaveDir).Reset(); err != nil {
				return sysErrorf("reset save: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "save deleted")
			return nil
		},
	}
	cmd.Flags().BoolVar(&yes, "yes", false, "confirm deletion")
	return cmd
}
