package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/mesh-intelligence/funfair/internal/archive"
	"github.com/mesh-intelligence/funfair/pkg/types"
)

// configFile holds the structure written to config.yaml.
type configFile struct {
	SaveDir          string `yaml:"save_dir,omitempty"`
	DataDir          string `yaml:"data_dir,omitempty"`
	LogLevel         string `yaml:"log_level"`
	AutosaveInterval string `yaml:"autosave_interval"`
	SaveOnSceneExit  bool   `yaml:"save_on_scene_exit"`
	HighScoreLimit   int    `yaml:"high_score_limit"`
	StartScene       string `yaml:"start_scene"`
	History          bool   `yaml:"history"`
}

func newInitCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Create the funfair configuration and data directories",
		Long:  "Create the configuration, save, and data directories, write a default\nconfig.yaml if none exists, and create the score history database.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runInit(cmd)
		},
	}
}

func (a *app) runInit(cmd *cobra.Command) error {
	s, err := a.resolveSettings()
	if err != nil {
		return err
	}

	for _, dir := range []string{s.ConfigDir, s.SaveDir, s.DataDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return sysErrorf("create directory %s: %w", dir, err)
		}
	}

	var saveDir, dataDir string
	if a.flags.saveDir != "" {
		saveDir = s.SaveDir
	}
	if a.flags.dataDir != "" {
		dataDir = s.DataDir
	}
	wrote, err := writeConfigIfMissing(s.configPath(), saveDir, dataDir)
	if err != nil {
		return sysErrorf("write config: %w", err)
	}

	arc, err := archive.Open(s.historyPath())
	if err != nil {
		return sysErrorf("initialize score history: %w", err)
	}
	if err := arc.Close(); err != nil {
		return sysErrorf("finalize score history: %w", err)
	}

	out := cmd.OutOrStdout()
	if wrote {
		fmt.Fprintf(out, "wrote %s\n", s.configPath())
	}
	fmt.Fprintf(out, "save directory: %s\n", s.SaveDir)
	fmt.Fprintf(out, "data directory: %s\n", s.DataDir)
	fmt.Fprintln(out, "funfair initialized successfully")
	return nil
}

// writeConfigIfMissing creates config.yaml with default values if the file
// does not exist. Non-empty directories are recorded in the file. It reports
// whether a file was written.
func writeConfigIfMissing(path, saveDir, dataDir string) (bool, error) {
	if fileExists(path) {
		return false, nil
	}

	def := types.DefaultConfig()
	cfg := configFile{
		SaveDir:          saveDir,
		DataDir:          dataDir,
		LogLevel:         def.LogLevel,
		AutosaveInterval: def.AutosaveInterval.String(),
		SaveOnSceneExit:  def.SaveOnSceneExit,
		HighScoreLimit:   def.HighScoreLimit,
		StartScene:       def.StartScene,
		History:          def.History,
	}

	data, err := yaml.Marshal(&cfg)
	if err != nil {
		return false, fmt.Errorf("marshal config: %w", err)
	}
	return true, os.WriteFile(path, data, 0o644)
}
