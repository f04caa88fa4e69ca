// Package scoring ranks parsed releases against quality profiles.
package scoring

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"github.com/vmunix/anirange/pkg/release"
)

// Base scores for resolutions.
const (
	ScoreResolution2160p = 100
	ScoreResolution1080p = 80
	ScoreResolution720p  = 60
	ScoreResolutionOther = 40
)

// Bonus values for matching attributes.
const (
	BonusSource   = 10
	BonusCodec    = 10
	BonusAudio    = 15
	BonusLanguage = 15
	BonusVersion  = 5
)

// Profile is an ordered set of preferences. Earlier entries in each list
// are worth more. Empty lists accept anything without a bonus.
type Profile struct {
	Resolution []string
	Sources    []string
	Codecs     []string
	Audio      []string
	Languages  []string
	Reject     []string
}

// Bonus is one line of a score breakdown.
type Bonus struct {
	Attribute string `json:"attribute"`
	Value     string `json:"value"`
	Position  int    `json:"position"` // 0-indexed, -1 if not from preference list
	Bonus     int    `json:"bonus"`
	Note      string `json:"note,omitempty"`
}

// ResolutionBaseScore returns the base score for a given resolution.
func ResolutionBaseScore(r release.Resolution) int {
	switch r {
	case release.Resolution2160p:
		return ScoreResolution2160p
	case release.Resolution1080p:
		return ScoreResolution1080p
	case release.Resolution720p:
		return ScoreResolution720p
	default:
		return ScoreResolutionOther
	}
}

// Score calculates the score of a release and its breakdown.
// A score of 0 means the release is not acceptable under the profile.
func Score(info *release.Info, p Profile) (int, []Bonus) {
	if term, ok := MatchesRejectList(info, p.Reject); ok {
		return 0, []Bonus{{
			Attribute: "Reject",
			Value:     term,
			Position:  -1,
			Note:      "release rejected",
		}}
	}

	resBonus, ok := scoreResolution(info.Resolution, p.Resolution)
	if !ok {
		return 0, []Bonus{resBonus}
	}

	breakdown := []Bonus{resBonus}
	total := resBonus.Bonus

	add := func(b Bonus) {
		breakdown = append(breakdown, b)
		total += b.Bonus
	}

	if info.Source != release.SourceUnknown {
		add(scorePreference("Source", info.Source.String(), p.Sources, BonusSource, strings.EqualFold))
	}
	if info.Codec != release.CodecUnknown {
		add(scorePreference("Codec", info.Codec.String(), p.Codecs, BonusCodec, strings.EqualFold))
	}
	if info.Audio != release.AudioUnknown {
		add(scorePreference("Audio", info.Audio.String(), p.Audio, BonusAudio, audioMatches))
	}
	if b, ok := scoreLanguages(info.Languages, p.Languages); ok {
		add(b)
	}
	if info.Version > 1 {
		add(Bonus{
			Attribute: "Version",
			Value:     fmt.Sprintf("v%d", info.Version),
			Position:  -1,
			Bonus:     BonusVersion,
			Note:      "revised release",
		})
	}

	return total, breakdown
}

// scoreResolution returns the base resolution entry and whether the
// resolution is allowed at all.
func scoreResolution(res release.Resolution, preferences []string) (Bonus, bool) {
	b := Bonus{
		Attribute: "Resolution",
		Value:     res.String(),
		Position:  -1,
		Bonus:     ResolutionBaseScore(res),
	}

	if len(preferences) == 0 {
		b.Note = "no restrictions"
		return b, true
	}

	for i, pref := range preferences {
		if strings.EqualFold(b.Value, pref) {
			b.Position = i
			b.Note = fmt.Sprintf("#%d choice", i+1)
			return b, true
		}
	}

	b.Bonus = 0
	b.Note = "not in allowed list"
	return b, false
}

// scorePreference awards base scaled down by 20% per position.
func scorePreference(attr, value string, preferences []string, base int, match func(value, pref string) bool) Bonus {
	b := Bonus{Attribute: attr, Value: value, Position: -1}
	if len(preferences) == 0 {
		return b
	}

	for i, pref := range preferences {
		if match(value, pref) {
			b.Position = i
			b.Bonus = positionBonus(base, i)
			b.Note = fmt.Sprintf("#%d choice", i+1)
			return b
		}
	}

	b.Note = "not in preference list"
	return b
}

func positionBonus(base, pos int) int {
	multiplier := max(1.0-0.2*float64(pos), 0)
	return int(float64(base) * multiplier)
}

// scoreLanguages scores the best-ranked subtitle language the release has.
func scoreLanguages(langs, preferences []string) (Bonus, bool) {
	if len(langs) == 0 || len(preferences) == 0 {
		return Bonus{}, false
	}

	best := Bonus{
		Attribute: "Languages",
		Value:     strings.Join(langs, ","),
		Position:  -1,
		Note:      "not in preference list",
	}
	for i, pref := range preferences {
		for _, lang := range langs {
			if LanguageMatches(lang, pref) {
				best.Position = i
				best.Bonus = positionBonus(BonusLanguage, i)
				best.Note = fmt.Sprintf("#%d choice", i+1)
				return best, true
			}
		}
	}
	return best, true
}

var languageAliases = map[string][]string{
	release.LangSimplifiedChinese:  {"zh-hans", "chs", "sc", "gb"},
	release.LangTraditionalChinese: {"zh-hant", "cht", "tc", "big5"},
	release.LangJapanese:           {"ja", "jp", "jpn"},
	release.LangEnglish:            {"en", "eng", "english"},
}

// LanguageMatches checks if a subtitle language tag matches a preference
// string such as "chs" or "zh-Hant".
func LanguageMatches(lang, pref string) bool {
	return slices.Contains(languageAliases[lang], strings.ToLower(pref))
}

// AudioMatches checks if an audio codec matches a preference string.
func AudioMatches(audio release.AudioCodec, pref string) bool {
	prefLower := strings.ToLower(pref)
	switch audio {
	case release.AudioTrueHD:
		return prefLower == "truehd"
	case release.AudioDTS:
		return prefLower == "dts"
	case release.AudioEAC3:
		return prefLower == "dd+" || prefLower == "ddp" || prefLower == "eac3"
	case release.AudioAC3:
		return prefLower == "dd" || prefLower == "ac3"
	case release.AudioAAC:
		return prefLower == "aac"
	case release.AudioFLAC:
		return prefLower == "flac"
	case release.AudioOpus:
		return prefLower == "opus"
	default:
		return false
	}
}

func audioMatches(value, pref string) bool {
	for _, a := range []release.AudioCodec{
		release.AudioAAC, release.AudioAC3, release.AudioEAC3, release.AudioDTS,
		release.AudioTrueHD, release.AudioFLAC, release.AudioOpus,
	} {
		if a.String() == value {
			return AudioMatches(a, pref)
		}
	}
	return false
}

// MatchesRejectList checks if a release matches any reject criteria and
// returns the term that matched.
func MatchesRejectList(info *release.Info, rejectList []string) (string, bool) {
	if len(rejectList) == 0 {
		return "", false
	}

	attrs := []string{
		strings.ToLower(info.Resolution.String()),
		strings.ToLower(info.Source.String()),
		strings.ToLower(info.Codec.String()),
	}
	if info.Audio != release.AudioUnknown {
		attrs = append(attrs, strings.ToLower(info.Audio.String()))
	}

	for _, reject := range rejectList {
		rejectLower := strings.ToLower(reject)
		if slices.Contains(attrs, rejectLower) || rejectMatchesSpecial(info, rejectLower) {
			return reject, true
		}
	}

	return "", false
}

// rejectMatchesSpecial handles reject terms that are not plain attribute names.
func rejectMatchesSpecial(info *release.Info, reject string) bool {
	switch reject {
	case "batch":
		return info.IsBatch
	case "raw":
		return len(info.Languages) == 0
	case "h264", "avc":
		return info.Codec == release.CodecX264
	case "h265", "hevc":
		return info.Codec == release.CodecX265
	}
	for _, lang := range info.Languages {
		if LanguageMatches(lang, reject) {
			return true
		}
	}
	return false
}

// Ranked pairs a release with its score.
type Ranked[T any] struct {
	Item      T
	Info      *release.Info
	Score     int
	Breakdown []Bonus
}

// Rank scores items, drops rejected ones and orders the rest best first.
// Ties keep their input order.
func Rank[T any](items []T, info func(T) *release.Info, p Profile) []Ranked[T] {
	ranked := make([]Ranked[T], 0, len(items))
	for _, item := range items {
		ri := info(item)
		score, breakdown := Score(ri, p)
		if score == 0 {
			continue
		}
		ranked = append(ranked, Ranked[T]{Item: item, Info: ri, Score: score, Breakdown: breakdown})
	}
	slices.SortStableFunc(ranked, func(a, b Ranked[T]) int {
		return cmp.Compare(b.Score, a.Score)
	})
	return ranked
}
