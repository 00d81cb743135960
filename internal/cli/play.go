package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/funfair/internal/engine"
	"github.com/mesh-intelligence/funfair/internal/scene"
	"github.com/mesh-intelligence/funfair/internal/scenes"
	"github.com/mesh-intelligence/funfair/internal/session"
)

func newPlayCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "play",
		Short: "Play at the fair",
		Long:  "Start the game loop. Commands are read one per line from standard input;\n\"quit\" saves and exits.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runPlay(cmd)
		},
	}
	cmd.Flags().StringVar(&a.flags.startScene, "start-scene", "", "scene to start in (overrides FUNFAIR_START_SCENE and start_scene)")
	cmd.Flags().BoolVar(&a.flags.skipTitle, "skip-title", false, "skip the title screen")
	return cmd
}

func (a *app) runPlay(cmd *cobra.Command) error {
	s, err := a.resolveSettings()
	if err != nil {
		return err
	}
	log, err := newLogger(cmd.ErrOrStderr(), s.LogLevel)
	if err != nil {
		return err
	}

	g := openGame(s, log)
	defer g.Close()

	if ls := g.session.LastLoad(); ls.Err != nil {
		fmt.Fprintln(cmd.OutOrStdout(), "Your save could not be read; starting a fresh game.")
	}

	graph := scene.New(scene.WithLogger(log))
	if err := scenes.Register(graph, g.session); err != nil {
		return err
	}
	loop := engine.New(graph, g.session, textSurface{w: cmd.OutOrStdout()},
		engine.WithLogger(log),
		engine.WithSaveOnSceneExit(s.SaveOnSceneExit),
	)
	if err := loop.Start(startScene(s, g.session), nil); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := loop.Run(ctx, readLines(ctx, cmd.InOrStdin())); err != nil {
		return err
	}
	if st := g.session.LastSave(); !st.At.IsZero() && !st.OK() {
		return sysErrorf("final save failed: %w", st.Err)
	}
	return nil
}

// startScene picks the initial scene. Skipping the title goes straight to
// character select or the hub.
func startScene(s settings, sess *session.Session) string {
	if s.SkipTitle && s.StartScene == scenes.Title {
		return scenes.Entry(sess)
	}
	return s.StartScene
}

// readLines forwards lines from r until EOF or ctx is done. It only moves
// text; every game call stays on the loop goroutine. The channel closes once
// ctx is done, but a goroutine blocked in a read of r stays blocked until that
// read returns. For stdin that is process exit.
func readLines(ctx context.Context, r io.Reader) <-chan string {
	lines := make(chan string)
	go func() {
		defer close(lines)
		sc := bufio.NewScanner(r)
		for sc.Scan() {
			select {
			case lines <- sc.Text():
			case <-ctx.Done():
				return
			}
		}
	}()
	return lines
}
