package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ajitpratap0/spawnpool/pkg/errors"
	"github.com/ajitpratap0/spawnpool/pkg/spawn"
)

func TestApplyDefaults(t *testing.T) {
	var s Settings
	s.ApplyDefaults()

	assert.Equal(t, "pool", s.Name)
	assert.Equal(t, 16, s.InitialSize)
	assert.Equal(t, "info", s.LogLevel)
	assert.Equal(t, 0, s.MaxSize, "growth stays unbounded by default")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name     string
		settings Settings
		wantErr  bool
	}{
		{"defaults", Settings{Name: "p", InitialSize: 16, LogLevel: "info"}, false},
		{"capped", Settings{Name: "p", InitialSize: 8, MaxSize: 32}, false},
		{"negative initial", Settings{InitialSize: -1}, true},
		{"negative max", Settings{MaxSize: -1}, true},
		{"max below initial", Settings{InitialSize: 10, MaxSize: 5}, true},
		{"bad log level", Settings{LogLevel: "loud"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.settings.Validate()
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.IsType(err, errors.ErrorTypeValidation))
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestApply(t *testing.T) {
	s := Settings{Name: "bullets", InitialSize: 64, MaxSize: 256, EnableMetrics: true}

	cfg := spawn.Config[*struct{ x int }]{}
	Apply(s, &cfg)

	assert.Equal(t, "bullets", cfg.Name)
	assert.Equal(t, 64, cfg.InitialSize)
	assert.Equal(t, 256, cfg.MaxSize)
	assert.True(t, cfg.EnableMetrics)
}

func TestLoadWithEnvSubstitution(t *testing.T) {
	t.Setenv("POOL_NAME", "effects")

	path := filepath.Join(t.TempDir(), "pool.yaml")
	content := "name: ${POOL_NAME}\ninitial_size: 32\nmax_size: 128\nenable_metrics: true\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	var s Settings
	require.NoError(t, Load(path, &s))

	assert.Equal(t, "effects", s.Name)
	assert.Equal(t, 32, s.InitialSize)
	assert.Equal(t, 128, s.MaxSize)
	assert.True(t, s.EnableMetrics)
}

func TestLoadMissingFile(t *testing.T) {
	var s Settings
	err := Load(filepath.Join(t.TempDir(), "absent.yaml"), &s)
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeConfig))
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.yaml")
	in := Settings{Name: "agents", InitialSize: 8, MaxSize: 16, LogLevel: "debug"}
	require.NoError(t, Save(path, &in))

	var out Settings
	require.NoError(t, Load(path, &out))
	assert.Equal(t, in, out)
}
