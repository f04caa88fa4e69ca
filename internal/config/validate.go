package config

import (
	"fmt"
	"slices"

	"github.com/vmunix/anirange/pkg/release"
)

var validLogLevels = map[string]bool{
	"debug": true, "info": true, "warn": true, "error": true, "": true,
}

var validConfidences = map[string]bool{
	"low": true, "medium": true, "high": true, "": true,
}

var validCodecs = map[string]bool{
	"x264": true, "x265": true, "av1": true,
}

// Validate checks the configuration for errors.
// Returns a slice of error messages (empty if valid).
func (c *Config) Validate() []string {
	var errs []string

	if !validLogLevels[c.Log.Level] {
		errs = append(errs, fmt.Sprintf("log.level: must be one of debug, info, warn, error; got %q", c.Log.Level))
	}

	if !validConfidences[c.Matching.MinConfidence] {
		errs = append(errs, fmt.Sprintf("matching.min_confidence: must be one of low, medium, high; got %q", c.Matching.MinConfidence))
	}

	if c.Quality.Default != "" {
		if _, ok := c.Quality.Profiles[c.Quality.Default]; !ok {
			errs = append(errs, fmt.Sprintf("quality.default: profile %q not defined", c.Quality.Default))
		}
	}

	for _, name := range c.ProfileNames() {
		errs = append(errs, c.Quality.Profiles[name].validate(name)...)
	}

	seen := make(map[string]bool)
	for i, p := range c.Danmaku.Providers {
		switch {
		case p == "":
			errs = append(errs, fmt.Sprintf("danmaku.providers[%d]: empty provider name", i))
		case seen[p]:
			errs = append(errs, fmt.Sprintf("danmaku.providers[%d]: duplicate provider %q", i, p))
		}
		seen[p] = true
	}

	return errs
}

func (p QualityProfile) validate(name string) []string {
	var errs []string
	prefix := "quality.profiles." + name

	for _, r := range p.Resolution {
		if release.ParseResolution(r) == release.ResolutionUnknown {
			errs = append(errs, fmt.Sprintf("%s.resolution: unknown resolution %q", prefix, r))
		}
	}
	for _, s := range p.Sources {
		if release.ParseSource(s) == release.SourceUnknown {
			errs = append(errs, fmt.Sprintf("%s.sources: unknown source %q", prefix, s))
		}
	}
	for _, codec := range p.Codecs {
		if !validCodecs[codec] {
			errs = append(errs, fmt.Sprintf("%s.codecs: unknown codec %q", prefix, codec))
		}
	}
	if slices.Contains(p.Reject, "") {
		errs = append(errs, fmt.Sprintf("%s.reject: empty term", prefix))
	}

	return errs
}
