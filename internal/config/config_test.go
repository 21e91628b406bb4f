package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "jsontab/internal/errors"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), ".jsontab.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestNewConfig_Defaults(t *testing.T) {
	cfg := NewConfig()

	assert.Equal(t, 8, cfg.Arena.PermanentMultiplier)
	assert.Equal(t, 2, cfg.Arena.TemporaryMultiplier)
	assert.Equal(t, 1<<20, cfg.Arena.PermanentFloor)
	assert.Equal(t, 1<<20, cfg.Arena.TemporaryFloor)
	assert.Equal(t, CaseNone, cfg.Headers.Case)
	assert.Nil(t, cfg.HeaderTransform())
	assert.NoError(t, cfg.Validate())
}

func TestLoadConfig_Overrides(t *testing.T) {
	path := writeConfigFile(t, `
arena:
  permanent_multiplier: 16
  temporary_multiplier: 4
headers:
  case: snake
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, 16, cfg.Arena.PermanentMultiplier)
	assert.Equal(t, 4, cfg.Arena.TemporaryMultiplier)
	// Untouched values keep their defaults.
	assert.Equal(t, 1<<20, cfg.Arena.PermanentFloor)
	assert.Equal(t, "snake", cfg.Headers.Case)
}

func TestLoadConfig_MissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)

	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.ErrorTypeConfig, appErr.Type)
}

func TestLoadConfig_MalformedYAML(t *testing.T) {
	path := writeConfigFile(t, "arena: [not a map")

	_, err := LoadConfig(path)
	require.Error(t, err)
}

func TestLoadConfig_UnknownHeaderCase(t *testing.T) {
	path := writeConfigFile(t, "headers:\n  case: shouting\n")

	_, err := LoadConfig(path)
	require.Error(t, err)
	assert.ErrorContains(t, err, "unknown headers.case")
}

func TestValidate_BadMultipliers(t *testing.T) {
	cfg := NewConfig()
	cfg.Arena.PermanentMultiplier = 0
	require.Error(t, cfg.Validate())

	cfg = NewConfig()
	cfg.Arena.TemporaryFloor = -1
	require.Error(t, cfg.Validate())
}

func TestHeaderTransform_Cases(t *testing.T) {
	tests := []struct {
		caseName string
		key      string
		want     string
	}{
		{CaseSnake, "userName.zipCode", "user_name.zip_code"},
		{CaseCamel, "user_name.zip_code", "userName.zipCode"},
		{CasePascal, "user_name", "UserName"},
		{CaseKebab, "userName", "user-name"},
	}
	for _, tt := range tests {
		t.Run(tt.caseName, func(t *testing.T) {
			cfg := NewConfig()
			cfg.Headers.Case = tt.caseName
			fn := cfg.HeaderTransform()
			require.NotNil(t, fn)
			assert.Equal(t, tt.want, fn(tt.key))
		})
	}
}
