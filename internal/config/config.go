// Package config handles TOML configuration loading with environment variable substitution.
package config

import (
	"fmt"
	"os"
	"regexp"
	"slices"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/vmunix/anirange/pkg/release"
	"github.com/vmunix/anirange/pkg/release/scoring"
)

// Config is the root configuration structure.
type Config struct {
	Log      LogConfig      `toml:"log"`
	Database DatabaseConfig `toml:"database"`
	Matching MatchingConfig `toml:"matching"`
	Quality  QualityConfig  `toml:"quality"`
	Danmaku  DanmakuConfig  `toml:"danmaku"`
}

type LogConfig struct {
	Level string `toml:"level"`
}

type DatabaseConfig struct {
	Path string `toml:"path"`
}

// MatchingConfig controls how releases are matched to requested episodes.
type MatchingConfig struct {
	MinConfidence    string `toml:"min_confidence"` // low, medium or high
	AllowSeasonPacks bool   `toml:"allow_season_packs"`
	AllowSpecial     bool   `toml:"allow_special"`
}

// Confidence returns MinConfidence as a release.MatchConfidence.
func (m MatchingConfig) Confidence() release.MatchConfidence {
	switch strings.ToLower(m.MinConfidence) {
	case "high":
		return release.ConfidenceHigh
	case "medium":
		return release.ConfidenceMedium
	default:
		return release.ConfidenceLow
	}
}

type QualityConfig struct {
	Default  string                    `toml:"default"`
	Profiles map[string]QualityProfile `toml:"profiles"`
}

// QualityProfile lists preferences in priority order.
type QualityProfile struct {
	Resolution []string `toml:"resolution"`
	Sources    []string `toml:"sources"`
	Codecs     []string `toml:"codecs"`
	Audio      []string `toml:"audio"`
	Languages  []string `toml:"languages"`
	Reject     []string `toml:"reject"`
}

// Scoring converts the profile for use with the scoring package.
func (p QualityProfile) Scoring() scoring.Profile {
	return scoring.Profile{
		Resolution: p.Resolution,
		Sources:    p.Sources,
		Codecs:     p.Codecs,
		Audio:      p.Audio,
		Languages:  p.Languages,
		Reject:     p.Reject,
	}
}

// Profile looks up a quality profile, falling back to quality.default when
// name is empty.
func (c *Config) Profile(name string) (QualityProfile, error) {
	if name == "" {
		name = c.Quality.Default
	}
	if name == "" {
		return QualityProfile{}, nil
	}
	p, ok := c.Quality.Profiles[name]
	if !ok {
		return QualityProfile{}, fmt.Errorf("profile %q not found, available: %s", name, strings.Join(c.ProfileNames(), ", "))
	}
	return p, nil
}

// ProfileNames returns the configured profile names, sorted.
func (c *Config) ProfileNames() []string {
	names := make([]string, 0, len(c.Quality.Profiles))
	for name := range c.Quality.Profiles {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

type DanmakuConfig struct {
	Enabled   bool     `toml:"enabled"`
	Providers []string `toml:"providers"` // Empty enables every registered provider
}

// Default returns a configuration with every default applied.
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg, toml.MetaData{})
	return cfg
}

// Load reads, parses and validates the configuration file.
func Load(path string) (*Config, error) {
	return load(path, true)
}

// LoadWithoutValidation reads and parses the configuration file but skips
// validation. Unresolved environment variables are still reported.
func LoadWithoutValidation(path string) (*Config, error) {
	return load(path, false)
}

func load(path string, validate bool) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	content, missing := substituteEnvVars(string(data))
	if len(missing) > 0 {
		return nil, &ConfigError{Path: path, Missing: missing}
	}

	var cfg Config
	md, err := toml.Decode(content, &cfg)
	if err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	applyDefaults(&cfg, md)

	if validate {
		if errs := cfg.Validate(); len(errs) > 0 {
			return nil, &ConfigError{Path: path, Errors: errs}
		}
	}

	return &cfg, nil
}

func applyDefaults(cfg *Config, md toml.MetaData) {
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Database.Path == "" {
		cfg.Database.Path = "./data/anirange.db"
	}
	if cfg.Matching.MinConfidence == "" {
		cfg.Matching.MinConfidence = "low"
	}
	if !md.IsDefined("matching", "allow_season_packs") {
		cfg.Matching.AllowSeasonPacks = true
	}
	if !md.IsDefined("matching", "allow_special") {
		cfg.Matching.AllowSpecial = true
	}
	if !md.IsDefined("danmaku", "enabled") {
		cfg.Danmaku.Enabled = true
	}
}

// envVarPattern matches ${VAR}, ${VAR:-default} and ${VAR:?message}.
var envVarPattern = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)(?:(:-|:\?)([^}]*))?\}`)

// substituteEnvVars replaces environment references and returns the names
// (or :? messages) of variables that could not be resolved. Unresolved
// references are left as written.
func substituteEnvVars(content string) (string, []string) {
	var missing []string
	out := envVarPattern.ReplaceAllStringFunc(content, func(match string) string {
		m := envVarPattern.FindStringSubmatch(match)
		name, op, arg := m[1], m[2], m[3]
		value, ok := os.LookupEnv(name)

		switch op {
		case ":-":
			if value == "" {
				return arg
			}
			return value
		case ":?":
			if value == "" {
				missing = append(missing, fmt.Sprintf("%s: %s", name, arg))
				return match
			}
			return value
		}

		if !ok {
			missing = append(missing, name)
			return match
		}
		return value
	})
	return out, missing
}
