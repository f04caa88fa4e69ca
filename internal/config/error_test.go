package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConfigError_Error_Empty(t *testing.T) {
	e := &ConfigError{Path: "/etc/anirange/config.toml"}
	assert.Empty(t, e.Error())
	assert.False(t, e.HasErrors())
}

func TestConfigError_Error_MissingVars(t *testing.T) {
	e := &ConfigError{
		Path:    "/etc/anirange/config.toml",
		Missing: []string{"ANIRANGE_DB", "SECRET"},
	}
	got := e.Error()
	assert.True(t, e.HasErrors())
	assert.Contains(t, got, "/etc/anirange/config.toml")
	assert.Contains(t, got, "missing environment variables: ANIRANGE_DB, SECRET")
	assert.NotContains(t, got, "validation failed")
}

func TestConfigError_Error_ValidationErrors(t *testing.T) {
	e := &ConfigError{
		Path:   "/etc/anirange/config.toml",
		Errors: []string{"log.level: invalid", "quality.default: not defined"},
	}
	got := e.Error()
	assert.Contains(t, got, "validation failed:")
	assert.Contains(t, got, "  - log.level: invalid")
	assert.Contains(t, got, "  - quality.default: not defined")
}

func TestConfigError_Error_Both(t *testing.T) {
	e := &ConfigError{
		Path:    "/etc/anirange/config.toml",
		Missing: []string{"ANIRANGE_DB"},
		Errors:  []string{"log.level: invalid"},
	}
	got := e.Error()
	assert.Contains(t, got, "missing environment variables")
	assert.Contains(t, got, "validation failed")
}
