package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/infinidash-io/dash-manager/internal/core/domain"
	apperrors "github.com/infinidash-io/dash-manager/internal/errors"
)

func TestValidate(t *testing.T) {
	testCases := []struct {
		name     string
		mutate   func(*Config)
		wantErr  bool
		wantCode apperrors.Code
	}{
		{
			name:   "valid present",
			mutate: func(c *Config) { c.Dash.Name = "InfinidashRawks" },
		},
		{
			name: "valid absent",
			mutate: func(c *Config) {
				c.Dash.State = domain.StateAbsent
				c.Dash.DashID = "dash-0123456789abcdef0"
			},
		},
		{
			name: "both config sources rejected",
			mutate: func(c *Config) {
				c.Dash.Name = "InfinidashRawks"
				c.Dash.DashConfigJSON = `{"a":1}`
				c.Dash.ConfigFile = "dash_config.json"
			},
			wantErr:  true,
			wantCode: apperrors.CodeConfigValidation,
		},
		{
			name: "absent without dash_id rejected",
			mutate: func(c *Config) {
				c.Dash.State = domain.StateAbsent
			},
			wantErr:  true,
			wantCode: apperrors.CodeConfigValidation,
		},
		{
			name:     "present without name rejected",
			mutate:   func(c *Config) {},
			wantErr:  true,
			wantCode: apperrors.CodeConfigValidation,
		},
		{
			name: "invalid state rejected",
			mutate: func(c *Config) {
				c.Dash.Name = "InfinidashRawks"
				c.Dash.State = "latest"
			},
			wantErr:  true,
			wantCode: apperrors.CodeConfigValidation,
		},
		{
			name: "unsupported reporter rejected",
			mutate: func(c *Config) {
				c.Dash.Name = "InfinidashRawks"
				c.Settings.ReporterType = "yaml"
			},
			wantErr:  true,
			wantCode: apperrors.CodeConfigValidation,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tc.mutate(cfg)

			err := cfg.Validate()

			if tc.wantErr {
				require.Error(t, err)
				assert.True(t, apperrors.Is(err, tc.wantCode), "unexpected code: %v", apperrors.GetCode(err))
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestResolveDashConfig(t *testing.T) {
	t.Run("no source returns nil", func(t *testing.T) {
		cfg := DefaultConfig()
		doc, err := cfg.ResolveDashConfig()
		require.NoError(t, err)
		assert.Nil(t, doc)
	})

	t.Run("inline json", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.Dash.DashConfigJSON = `{"ReplicaCount": 3, "Edge": {"Enabled": true}}`

		doc, err := cfg.ResolveDashConfig()

		require.NoError(t, err)
		assert.Equal(t, float64(3), doc["ReplicaCount"])
		assert.Equal(t, map[string]any{"Enabled": true}, doc["Edge"])
	})

	t.Run("invalid inline json", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.Dash.DashConfigJSON = `{"ReplicaCount": `

		_, err := cfg.ResolveDashConfig()

		require.Error(t, err)
		assert.True(t, apperrors.Is(err, apperrors.CodeConfigParseError))
	})

	t.Run("config file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "dash_config.json")
		require.NoError(t, os.WriteFile(path, []byte(`{"ReplicaCount": 5}`), 0o600))

		cfg := DefaultConfig()
		cfg.Dash.ConfigFile = path

		doc, err := cfg.ResolveDashConfig()

		require.NoError(t, err)
		assert.Equal(t, float64(5), doc["ReplicaCount"])
	})

	t.Run("missing config file", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.Dash.ConfigFile = filepath.Join(t.TempDir(), "nope.json")

		_, err := cfg.ResolveDashConfig()

		require.Error(t, err)
		assert.True(t, apperrors.Is(err, apperrors.CodeConfigReadError))
	})

	t.Run("config file with invalid json", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "dash_config.json")
		require.NoError(t, os.WriteFile(path, []byte(`not json`), 0o600))

		cfg := DefaultConfig()
		cfg.Dash.ConfigFile = path

		_, err := cfg.ResolveDashConfig()

		require.Error(t, err)
		assert.True(t, apperrors.Is(err, apperrors.CodeConfigParseError))
	})
}

func TestWaitTimeout(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, 320*time.Second, cfg.WaitTimeout())

	cfg.Dash.WaitTimeout = 15
	assert.Equal(t, 15*time.Second, cfg.WaitTimeout())

	cfg.Dash.WaitTimeout = 0
	assert.Equal(t, 320*time.Second, cfg.WaitTimeout())
}
