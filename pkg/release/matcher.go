package release

import (
	"regexp"
	"slices"

	"github.com/hbollon/go-edlib"

	"github.com/vmunix/anirange/pkg/episode"
)

// titleNumberRe finds sequel numbers ("2" in "Oshi no Ko 2") in a cleaned title.
var titleNumberRe = regexp.MustCompile(`\b\d+\b`)

// MatchConfidence grades a title similarity score.
type MatchConfidence int

const (
	ConfidenceNone MatchConfidence = iota
	ConfidenceLow
	ConfidenceMedium
	ConfidenceHigh
)

func (c MatchConfidence) String() string {
	switch c {
	case ConfidenceHigh:
		return "high"
	case ConfidenceMedium:
		return "medium"
	case ConfidenceLow:
		return "low"
	default:
		return "none"
	}
}

// confidenceThresholds are the lowest scores for each grade, best first.
var confidenceThresholds = []struct {
	min  float64
	conf MatchConfidence
}{
	{0.95, ConfidenceHigh},
	{0.85, ConfidenceMedium},
	{0.70, ConfidenceLow},
}

func confidenceFor(score float64) MatchConfidence {
	for _, t := range confidenceThresholds {
		if score >= t.min {
			return t.conf
		}
	}
	return ConfidenceNone
}

// MatchResult is the best candidate for a title. Title is empty when
// Confidence is ConfidenceNone.
type MatchResult struct {
	Title      string
	Score      float64 // Jaro-Winkler similarity after number adjustment, 0..1
	Confidence MatchConfidence
}

// MatchTitle compares a parsed title with each candidate by Jaro-Winkler
// similarity of their cleaned forms. Scores move up when both carry the same
// sequel number and down when the numbers disagree or the candidate has none.
func MatchTitle(parsed string, candidates []string) MatchResult {
	key := CleanTitle(parsed)
	nums := titleNumberRe.FindAllString(key, -1)

	var best MatchResult
	for _, candidate := range candidates {
		ckey := CleanTitle(candidate)
		score := float64(edlib.JaroWinklerSimilarity(key, ckey))
		score = min(score*numberAdjustment(nums, titleNumberRe.FindAllString(ckey, -1)), 1.0)
		if score > best.Score {
			best = MatchResult{Title: candidate, Score: score}
		}
	}

	best.Confidence = confidenceFor(best.Score)
	if best.Confidence == ConfidenceNone {
		best.Title = ""
	}
	return best
}

// numberAdjustment is the factor applied to a similarity score for the
// numbers found in the parsed and candidate titles.
func numberAdjustment(parsed, candidate []string) float64 {
	switch {
	case len(parsed) == 0:
		return 1
	case len(candidate) == 0:
		return 0.85
	}
	for _, n := range parsed {
		if slices.Contains(candidate, n) {
			return 1.05
		}
	}
	return 0.90
}

// MatchTitles is MatchTitle over every name a release gives, keeping the
// best result.
func MatchTitles(parsed []string, candidates []string) MatchResult {
	best := MatchResult{Confidence: ConfidenceNone}
	for _, p := range parsed {
		if r := MatchTitle(p, candidates); r.Score > best.Score {
			best = r
		}
	}
	return best
}

// Request describes the episode a caller is looking for.
type Request struct {
	Titles  []string     // Known names of the show
	Season  int          // 0 accepts any season
	Episode episode.Sort // Episode wanted

	// MinConfidence is the lowest title confidence accepted.
	// The zero value accepts ConfidenceLow and above.
	MinConfidence MatchConfidence

	// AllowSeasonPacks lets a whole-season release cover any episode.
	AllowSeasonPacks bool

	// AllowSpecialMatch lets a numbered special match a normal episode
	// with the same number.
	AllowSpecialMatch bool
}

// Coverage is the verdict of Covers.
type Coverage struct {
	Title          MatchResult
	SeasonMatches  bool
	EpisodeMatches bool
}

// OK reports whether the release covers the requested episode.
func (c Coverage) OK() bool {
	return c.Title.Confidence != ConfidenceNone && c.SeasonMatches && c.EpisodeMatches
}

// Covers decides whether a parsed release holds the requested episode of
// the requested show.
func Covers(info *Info, req Request) Coverage {
	titles := info.Titles
	if len(titles) == 0 && info.Title != "" {
		titles = []string{info.Title}
	}

	c := Coverage{Title: MatchTitles(titles, req.Titles)}
	minConf := max(req.MinConfidence, ConfidenceLow)
	if c.Title.Confidence < minConf {
		c.Title.Confidence = ConfidenceNone
	}

	c.SeasonMatches = req.Season == 0 || info.Season == 0 || info.Season == req.Season

	var opts []episode.ContainsOption
	if !req.AllowSeasonPacks {
		opts = append(opts, episode.WithoutSeason())
	}
	if !req.AllowSpecialMatch {
		opts = append(opts, episode.WithoutSpecial())
	}
	c.EpisodeMatches = episode.Contains(info.Episodes, req.Episode, opts...)

	return c
}
