package types

import (
	"errors"
	"testing"
	"time"
)

func TestConfigValidate(t *testing.T) {
	valid := DefaultConfig()
	valid.SaveDir = "/tmp/funfair"

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr error
	}{
		{
			name:    "defaults with a save dir are valid",
			mutate:  func(*Config) {},
			wantErr: nil,
		},
		{
			name:    "empty save dir returns ErrSaveDirEmpty",
			mutate:  func(c *Config) { c.SaveDir = "" },
			wantErr: ErrSaveDirEmpty,
		},
		{
			name:    "zero high score limit returns ErrHighScoreLimitInvalid",
			mutate:  func(c *Config) { c.HighScoreLimit = 0 },
			wantErr: ErrHighScoreLimitInvalid,
		},
		{
			name:    "negative autosave interval returns ErrAutosaveIntervalInvalid",
			mutate:  func(c *Config) { c.AutosaveInterval = -time.Second },
			wantErr: ErrAutosaveIntervalInvalid,
		},
		{
			name:    "zero autosave interval disables timed saves",
			mutate:  func(c *Config) { c.AutosaveInterval = 0 },
			wantErr: nil,
		},
		{
			name:    "empty start scene returns ErrStartSceneEmpty",
			mutate:  func(c *Config) { c.StartScene = "" },
			wantErr: ErrStartSceneEmpty,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("expected nil error, got %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected error %v, got %v", tt.wantErr, err)
			}
		})
	}
}
