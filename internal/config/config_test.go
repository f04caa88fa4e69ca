package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vmunix/anirange/pkg/release"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "anirange.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644), "failed to write test config")
	return path
}

func TestQualityProfile_AllFields(t *testing.T) {
	path := writeConfig(t, `
[quality]
default = "premium"

[quality.profiles.premium]
resolution = ["2160p", "1080p"]
sources = ["bluray", "webdl"]
codecs = ["x265", "x264"]
audio = ["flac", "aac"]
languages = ["chs", "cht"]
reject = ["hdtv", "raw"]
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	profile, ok := cfg.Quality.Profiles["premium"]
	require.True(t, ok, "expected premium profile to exist")

	assert.Equal(t, []string{"2160p", "1080p"}, profile.Resolution)
	assert.Equal(t, []string{"bluray", "webdl"}, profile.Sources)
	assert.Equal(t, []string{"x265", "x264"}, profile.Codecs)
	assert.Equal(t, []string{"flac", "aac"}, profile.Audio)
	assert.Equal(t, []string{"chs", "cht"}, profile.Languages)
	assert.Equal(t, []string{"hdtv", "raw"}, profile.Reject)

	sp := profile.Scoring()
	assert.Equal(t, profile.Resolution, sp.Resolution)
	assert.Equal(t, profile.Languages, sp.Languages)
	assert.Equal(t, profile.Reject, sp.Reject)
}

func TestQualityProfile_OmittedFieldsNil(t *testing.T) {
	path := writeConfig(t, `
[quality.profiles.empty]
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	profile, ok := cfg.Quality.Profiles["empty"]
	require.True(t, ok)
	assert.Nil(t, profile.Resolution)
	assert.Nil(t, profile.Sources)
	assert.Nil(t, profile.Reject)
}

func TestConfig_Profile(t *testing.T) {
	cfg := &Config{
		Quality: QualityConfig{
			Default: "hd",
			Profiles: map[string]QualityProfile{
				"hd":  {Resolution: []string{"1080p"}},
				"uhd": {Resolution: []string{"2160p"}},
			},
		},
	}

	p, err := cfg.Profile("")
	require.NoError(t, err)
	assert.Equal(t, []string{"1080p"}, p.Resolution)

	p, err = cfg.Profile("uhd")
	require.NoError(t, err)
	assert.Equal(t, []string{"2160p"}, p.Resolution)

	_, err = cfg.Profile("sd")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "hd, uhd")

	p, err = (&Config{}).Profile("")
	require.NoError(t, err)
	assert.Empty(t, p.Resolution)
}

func TestMatchingConfig_Confidence(t *testing.T) {
	assert.Equal(t, release.ConfidenceHigh, MatchingConfig{MinConfidence: "HIGH"}.Confidence())
	assert.Equal(t, release.ConfidenceMedium, MatchingConfig{MinConfidence: "medium"}.Confidence())
	assert.Equal(t, release.ConfidenceLow, MatchingConfig{MinConfidence: "low"}.Confidence())
	assert.Equal(t, release.ConfidenceLow, MatchingConfig{}.Confidence())
}

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "./data/anirange.db", cfg.Database.Path)
	assert.Equal(t, "low", cfg.Matching.MinConfidence)
	assert.True(t, cfg.Matching.AllowSeasonPacks)
	assert.True(t, cfg.Matching.AllowSpecial)
	assert.True(t, cfg.Danmaku.Enabled)
}

func TestProfileNames_Sorted(t *testing.T) {
	cfg := &Config{Quality: QualityConfig{Profiles: map[string]QualityProfile{"uhd": {}, "hd": {}, "sd": {}}}}
	assert.Equal(t, []string{"hd", "sd", "uhd"}, cfg.ProfileNames())
}
