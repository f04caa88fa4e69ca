// Package release provides types for parsing and representing anime release
// information, including the episodes a release covers.
package release

import "github.com/vmunix/anirange/pkg/episode"

// Resolution represents the video resolution of a release.
type Resolution int

const (
	ResolutionUnknown Resolution = iota
	Resolution480p
	Resolution720p
	Resolution1080p
	Resolution2160p
)

// unknownStr is the string representation for unknown values.
const unknownStr = "unknown"

func (r Resolution) String() string {
	switch r {
	case Resolution480p:
		return "480p"
	case Resolution720p:
		return "720p"
	case Resolution1080p:
		return "1080p"
	case Resolution2160p:
		return "2160p"
	default:
		return unknownStr
	}
}

// ParseResolution maps a resolution name back to its value.
func ParseResolution(s string) Resolution {
	for _, r := range []Resolution{Resolution480p, Resolution720p, Resolution1080p, Resolution2160p} {
		if r.String() == s {
			return r
		}
	}
	return ResolutionUnknown
}

// Source represents the media source type of a release.
type Source int

const (
	SourceUnknown Source = iota
	SourceBluRay
	SourceWEBDL
	SourceWEBRip
	SourceHDTV
	SourceDVD
)

func (s Source) String() string {
	switch s {
	case SourceBluRay:
		return "bluray"
	case SourceWEBDL:
		return "webdl"
	case SourceWEBRip:
		return "webrip"
	case SourceHDTV:
		return "hdtv"
	case SourceDVD:
		return "dvd"
	default:
		return unknownStr
	}
}

// ParseSource maps a source name back to its value.
func ParseSource(s string) Source {
	for _, src := range []Source{SourceBluRay, SourceWEBDL, SourceWEBRip, SourceHDTV, SourceDVD} {
		if src.String() == s {
			return src
		}
	}
	return SourceUnknown
}

// Codec represents the video codec used in a release.
type Codec int

const (
	CodecUnknown Codec = iota
	CodecX264
	CodecX265
	CodecAV1
)

func (c Codec) String() string {
	switch c {
	case CodecX264:
		return "x264"
	case CodecX265:
		return "x265"
	case CodecAV1:
		return "av1"
	default:
		return unknownStr
	}
}

// AudioCodec represents the audio format of a release.
type AudioCodec int

const (
	AudioUnknown AudioCodec = iota
	AudioAAC
	AudioAC3
	AudioEAC3
	AudioDTS
	AudioTrueHD
	AudioFLAC
	AudioOpus
)

func (a AudioCodec) String() string {
	switch a {
	case AudioAAC:
		return "AAC"
	case AudioAC3:
		return "DD"
	case AudioEAC3:
		return "DD+"
	case AudioDTS:
		return "DTS"
	case AudioTrueHD:
		return "TrueHD"
	case AudioFLAC:
		return "FLAC"
	case AudioOpus:
		return "Opus"
	default:
		return ""
	}
}

// Subtitle language tags reported in Info.Languages.
const (
	LangSimplifiedChinese  = "zh-Hans"
	LangTraditionalChinese = "zh-Hant"
	LangJapanese           = "ja"
	LangEnglish            = "en"
)

// Info contains parsed release information.
type Info struct {
	Title    string   // Primary title, the first of Titles
	Titles   []string // All names the release gives, split on "/"
	Group    string
	Year     int
	Season   int           // 0 when the release names no season
	Episodes episode.Range // Never nil; Empty when no episode marker was found

	Resolution Resolution
	Source     Source
	Codec      Codec
	Audio      AudioCodec
	Languages  []string // Subtitle languages, e.g. zh-Hans, zh-Hant
	Version    int      // Release revision, e.g. 2 for "05v2"; 0 if absent
	Proper     bool
	Repack     bool

	// IsBatch is set for season packs and multi-episode releases.
	IsBatch bool

	// Normalized title for matching
	CleanTitle string
}
