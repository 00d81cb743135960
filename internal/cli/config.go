package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/spf13/viper"

	"github.com/mesh-intelligence/funfair/internal/paths"
	"github.com/mesh-intelligence/funfair/pkg/types"
)

const (
	configFileName = "config"
	configFileType = "yaml"

	// Config keys in config.yaml.
	cfgKeySaveDir        = "save_dir"
	cfgKeyDataDir        = "data_dir"
	cfgKeyLogLevel       = "log_level"
	cfgKeyAutosave       = "autosave_interval"
	cfgKeySaveOnExit     = "save_on_scene_exit"
	cfgKeyHighScoreLimit = "high_score_limit"
	cfgKeyStartScene     = "start_scene"
	cfgKeyHistory        = "history"
)

// envOverrides are read from FUNFAIR_* variables once at start. Directory
// overrides are resolved by the paths package.
type envOverrides struct {
	StartScene       string        `env:"FUNFAIR_START_SCENE"`
	SkipTitle        bool          `env:"FUNFAIR_SKIP_TITLE"`
	LogLevel         string        `env:"FUNFAIR_LOG_LEVEL"`
	AutosaveInterval time.Duration `env:"FUNFAIR_AUTOSAVE_INTERVAL"`
}

// settings is the fully resolved runtime configuration.
type settings struct {
	types.Config
	ConfigDir string
	SkipTitle bool
}

// loadConfig reads config.yaml from configDir using Viper. A missing file is
// not an error; the defaults apply.
func loadConfig(configDir string) (*viper.Viper, error) {
	def := types.DefaultConfig()

	v := viper.New()
	v.SetDefault(cfgKeyLogLevel, def.LogLevel)
	v.SetDefault(cfgKeyAutosave, def.AutosaveInterval)
	v.SetDefault(cfgKeySaveOnExit, def.SaveOnSceneExit)
	v.SetDefault(cfgKeyHighScoreLimit, def.HighScoreLimit)
	v.SetDefault(cfgKeyStartScene, def.StartScene)
	v.SetDefault(cfgKeyHistory, def.History)
	v.SetConfigName(configFileName)
	v.SetConfigType(configFileType)
	v.AddConfigPath(configDir)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return v, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}
	return v, nil
}

// resolveSettings applies flag > env > config.yaml > default for every
// setting and validates the result.
func (a *app) resolveSettings() (settings, error) {
	configDir, err := paths.ResolveConfigDir(a.flags.configDir)
	if err != nil {
		return settings{}, fmt.Errorf("resolve config dir: %w", err)
	}
	v, err := loadConfig(configDir)
	if err != nil {
		return settings{}, err
	}

	var overrides envOverrides
	if err := env.Parse(&overrides); err != nil {
		return settings{}, fmt.Errorf("parse env: %w", err)
	}

	s := settings{
		ConfigDir: configDir,
		Config: types.Config{
			AutosaveInterval: v.GetDuration(cfgKeyAutosave),
			SaveOnSceneExit:  v.GetBool(cfgKeySaveOnExit),
			HighScoreLimit:   v.GetInt(cfgKeyHighScoreLimit),
			StartScene:       v.GetString(cfgKeyStartScene),
			LogLevel:         v.GetString(cfgKeyLogLevel),
			History:          v.GetBool(cfgKeyHistory),
		},
	}

	s.SaveDir, err = paths.ResolveSaveDir(a.flags.saveDir, v.GetString(cfgKeySaveDir), configDir)
	if err != nil {
		return settings{}, fmt.Errorf("resolve save dir: %w", err)
	}
	s.DataDir, err = paths.ResolveDataDir(a.flags.dataDir, v.GetString(cfgKeyDataDir))
	if err != nil {
		return settings{}, fmt.Errorf("resolve data dir: %w", err)
	}

	if overrides.StartScene != "" {
		s.StartScene = overrides.StartScene
	}
	if overrides.LogLevel != "" {
		s.LogLevel = overrides.LogLevel
	}
	if overrides.AutosaveInterval != 0 {
		s.AutosaveInterval = overrides.AutosaveInterval
	}
	s.SkipTitle = overrides.SkipTitle

	if a.flags.startScene != "" {
		s.StartScene = a.flags.startScene
	}
	if a.flags.skipTitle {
		s.SkipTitle = true
	}

	if err := s.Validate(); err != nil {
		return settings{}, fmt.Errorf("invalid configuration: %w", err)
	}
	return s, nil
}

// historyPath returns the score archive path.
func (s settings) historyPath() string {
	return filepath.Join(s.DataDir, paths.HistoryDBName)
}

// configPath returns the config.yaml path.
func (s settings) configPath() string {
	return filepath.Join(s.ConfigDir, paths.ConfigFileName)
}

// fileExists reports whether path names an existing file.
func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
