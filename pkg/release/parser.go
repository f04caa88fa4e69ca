package release

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/vmunix/anirange/pkg/episode"
)

var (
	extensionRe     = regexp.MustCompile(`(?i)\.(mkv|mp4|avi|ts|m2ts|webm|mov|flv|rmvb)$`)
	leadingGroupRe  = regexp.MustCompile(`^\s*[\[【]([^\]】]+)[\]】]\s*`)
	trailingGroupRe = regexp.MustCompile(`-([A-Za-z0-9]+)$`)
	bracketRe       = regexp.MustCompile(`[\[【(]([^\]】)]*)[\]】)]`)

	seasonEpisodeRe = regexp.MustCompile(`(?i)\bS(\d{1,2})\s?E(\d{1,4}(?:\.5)?)((?:\s?-?\s?E\d{1,4})*)(?:-(\d{1,4})\b)?`)
	cnRangeRe       = regexp.MustCompile(`第\s*(\d{1,4}(?:\.5)?)\s*[-~～到至]\s*(\d{1,4}(?:\.5)?)\s*[话話集]?`)
	cnSingleRe      = regexp.MustCompile(`第\s*(\d{1,4}(?:\.5)?)\s*[话話集]`)
	bracketRangeRe  = regexp.MustCompile(`(?i)[\[【](?:EP?\s?)?(\d{1,4}(?:\.5)?)\s*[-~～]\s*(?:EP?\s?)?(\d{1,4}(?:\.5)?)(?:\s*(?:END|Fin))?[\]】]`)
	bareRangeRe     = regexp.MustCompile(`(?i)(?:^|\s)(?:EP?)?(\d{1,4}(?:\.5)?)[-~～](?:EP?)?(\d{1,4}(?:\.5)?)(?:\s*(?:END|Fin))?(?:$|\s)`)
	listRe          = regexp.MustCompile(`[\[【](\d{1,4}(?:\s*[,，、]\s*\d{1,4})+)[\]】]`)
	specialRe       = regexp.MustCompile(`(?i)(?:^|[\s\[【(])(SP|OVA|OAD)\s?(\d{1,3}(?:\.5)?)?(?:v\d)?(?:$|[\s\]】)])`)
	dashSingleRe    = regexp.MustCompile(`(?i)\s[-–—]\s*(?:EP?\s?)?(\d{1,4}(?:\.5)?)(?:v\d)?(?:\s*END)?(?:$|[\s\[【(])`)
	bracketSingleRe = regexp.MustCompile(`(?i)[\[【](?:EP?\s?)?(\d{1,4}(?:\.5)?)(?:v\d)?(?:\s*END)?[\]】]`)
	epSingleRe      = regexp.MustCompile(`(?i)\b(?:EP\s?(\d{1,4}(?:\.5)?)|E(\d{2,4}))\b`)

	cnSeasonRe      = regexp.MustCompile(`第([一二三四五六七八九十]+|\d{1,2})季`)
	seasonWordRe    = regexp.MustCompile(`(?i)\bSeason\s*(\d{1,2})\b`)
	ordinalSeasonRe = regexp.MustCompile(`(?i)\b(\d{1,2})(?:st|nd|rd|th)\s+Season\b`)
	seasonOnlyRe    = regexp.MustCompile(`(?i)\bS(\d{1,2})\b`)
	completeRe      = regexp.MustCompile(`(?i)\b(?:complete|batch)\b|全集|合集|全\d+[话話集]`)

	yearRe       = regexp.MustCompile(`\b(19\d{2}|20\d{2})\b`)
	resolutionRe = regexp.MustCompile(`(?i)\b(?:(2160|1080|720|480)[pi]|4k|uhd|3840x2160|1920x1080|1280x720)\b`)
	versionRe    = regexp.MustCompile(`(?i)(?:\d|\s|\[)v(\d)(?:$|[\s\]】])`)

	langRes = []struct {
		lang  string
		ascii *regexp.Regexp
		cjk   []string
	}{
		{LangSimplifiedChinese, regexp.MustCompile(`(?i)\b(?:CHS|GB|SC)\b`), []string{"简", "簡"}},
		{LangTraditionalChinese, regexp.MustCompile(`(?i)\b(?:CHT|BIG5|TC)\b`), []string{"繁"}},
		{LangJapanese, regexp.MustCompile(`(?i)\b(?:JP|JPN|JPSC|JPTC)\b`), []string{"日"}},
		{LangEnglish, regexp.MustCompile(`(?i)\b(?:ENG?|English)\b`), nil},
	}
)

var cnDigits = map[rune]int{
	'一': 1, '二': 2, '三': 3, '四': 4, '五': 5,
	'六': 6, '七': 7, '八': 8, '九': 9,
}

// episodeMatch is the outcome of one episode extractor.
type episodeMatch struct {
	episodes episode.Range
	season   int
	start    int // byte offset of the marker in the searched text
}

type episodeExtractor func(body string) (episodeMatch, bool)

// extractors are tried in order; the first hit wins.
var extractors = []episodeExtractor{
	extractSeasonEpisode,
	extractCNRange,
	extractCNSingle,
	extractBracketRange,
	extractBareRange,
	extractList,
	extractSpecial,
	extractDashSingle,
	extractBracketSingle,
	extractEPSingle,
}

// Parse extracts information from a release name. It never fails; fields
// it cannot find are left at their zero values and Episodes is Empty.
func Parse(name string) *Info {
	info := &Info{Episodes: episode.Empty()}

	name = strings.TrimSpace(extensionRe.ReplaceAllString(strings.TrimSpace(name), ""))

	// Group: "[Group] Title ..." or scene style "Title...-GROUP"
	body := name
	if m := leadingGroupRe.FindStringSubmatch(body); m != nil {
		info.Group = strings.TrimSpace(m[1])
		body = body[len(m[0]):]
	} else if m := trailingGroupRe.FindStringSubmatchIndex(body); m != nil && !strings.Contains(body, " ") {
		if g := body[m[2]:m[3]]; !strings.EqualFold(g, "DL") && !strings.EqualFold(g, "Rip") {
			info.Group = g
			body = body[:m[0]]
		}
	}

	// Scene names use dots for spaces; anime names keep dots for 12.5.
	if !strings.Contains(body, " ") {
		body = strings.ReplaceAll(body, ".", " ")
	}
	body = strings.ReplaceAll(body, "_", " ")

	info.Resolution = parseResolution(body)
	info.Source = parseSource(body)
	info.Codec = parseCodec(body)
	info.Audio = parseAudio(body)
	info.Languages = parseLanguages(body)
	info.Proper = containsAny(body, "proper")
	info.Repack = containsAny(body, "repack", "rerip")
	if m := versionRe.FindStringSubmatch(body); m != nil {
		info.Version, _ = strconv.Atoi(m[1])
	}

	cut := len(body)
	markCut := func(i int) {
		if i >= 0 && i < cut {
			cut = i
		}
	}

	if loc := yearRe.FindStringSubmatchIndex(body); loc != nil {
		info.Year, _ = strconv.Atoi(body[loc[2]:loc[3]])
		markCut(loc[0])
	}
	if loc := resolutionRe.FindStringIndex(body); loc != nil {
		markCut(loc[0])
	}
	if i := strings.IndexAny(body, "[【("); i > 0 {
		markCut(i)
	}

	season, seasonAt := parseSeason(body)
	markCut(seasonAt)
	complete := completeRe.FindStringIndex(body)
	if complete != nil {
		markCut(complete[0])
	}

	if m, ok := extractEpisodes(body); ok {
		info.Episodes = m.episodes
		if m.season > 0 {
			season = m.season
		}
		markCut(m.start)
		info.IsBatch = complete != nil || !episode.IsSingleEpisode(m.episodes)
	} else if season > 0 {
		info.Episodes = episode.NewSeason(season)
		info.IsBatch = true
	} else if complete != nil {
		info.Episodes = episode.UnknownSeason()
		info.IsBatch = true
	}
	info.Season = season

	info.Titles = splitTitles(body[:cut])
	if len(info.Titles) > 0 {
		info.Title = info.Titles[0]
	}
	info.CleanTitle = CleanTitle(info.Title)

	return info
}

func extractEpisodes(body string) (episodeMatch, bool) {
	for _, extract := range extractors {
		if m, ok := extract(body); ok {
			return m, true
		}
	}
	return episodeMatch{}, false
}

func extractSeasonEpisode(body string) (episodeMatch, bool) {
	loc := seasonEpisodeRe.FindStringSubmatchIndex(body)
	if loc == nil {
		return episodeMatch{}, false
	}
	season, _ := strconv.Atoi(body[loc[2]:loc[3]])
	first := episode.ParseSort(body[loc[4]:loc[5]])

	var more []episode.Sort
	joined := ""
	if loc[6] >= 0 {
		joined = body[loc[6]:loc[7]]
		for _, n := range digitsRe.FindAllString(joined, -1) {
			more = append(more, episode.ParseSort(n))
		}
	}
	if loc[8] >= 0 {
		return episodeMatch{
			episodes: episode.NewSpan(first, episode.ParseSort(body[loc[8]:loc[9]])),
			season:   season,
			start:    loc[0],
		}, true
	}

	var r episode.Range
	switch {
	case len(more) == 0:
		r = episode.NewSingle(first)
	case len(more) == 1 && strings.Contains(joined, "-"):
		r = episode.NewSpan(first, more[0])
	default:
		r = episode.FromSorts(append([]episode.Sort{first}, more...)...)
	}
	return episodeMatch{episodes: r, season: season, start: loc[0]}, true
}

var digitsRe = regexp.MustCompile(`\d+`)

func extractCNRange(body string) (episodeMatch, bool) {
	return spanMatch(cnRangeRe, body)
}

func extractCNSingle(body string) (episodeMatch, bool) {
	return singleMatch(cnSingleRe, body)
}

func extractBracketRange(body string) (episodeMatch, bool) {
	return spanMatch(bracketRangeRe, body)
}

func extractBareRange(body string) (episodeMatch, bool) {
	return spanMatch(bareRangeRe, body)
}

func extractList(body string) (episodeMatch, bool) {
	loc := listRe.FindStringSubmatchIndex(body)
	if loc == nil {
		return episodeMatch{}, false
	}
	var sorts []episode.Sort
	for _, n := range digitsRe.FindAllString(body[loc[2]:loc[3]], -1) {
		sorts = append(sorts, episode.ParseSort(n))
	}
	return episodeMatch{episodes: episode.FromSorts(sorts...), start: loc[0]}, true
}

func extractSpecial(body string) (episodeMatch, bool) {
	loc := specialRe.FindStringSubmatchIndex(body)
	if loc == nil {
		return episodeMatch{}, false
	}
	raw := body[loc[2]:loc[3]]
	if loc[4] >= 0 {
		raw += body[loc[4]:loc[5]]
	}
	return episodeMatch{episodes: episode.NewSingle(episode.ParseSort(raw)), start: loc[0]}, true
}

func extractDashSingle(body string) (episodeMatch, bool) {
	return singleMatch(dashSingleRe, body)
}

func extractBracketSingle(body string) (episodeMatch, bool) {
	for _, loc := range bracketSingleRe.FindAllStringSubmatchIndex(body, -1) {
		raw := body[loc[2]:loc[3]]
		if looksLikeYearOrResolution(raw) {
			continue
		}
		return episodeMatch{episodes: episode.NewSingle(episode.ParseSort(raw)), start: loc[0]}, true
	}
	return episodeMatch{}, false
}

func extractEPSingle(body string) (episodeMatch, bool) {
	loc := epSingleRe.FindStringSubmatchIndex(body)
	if loc == nil {
		return episodeMatch{}, false
	}
	var raw string
	if loc[2] >= 0 {
		raw = body[loc[2]:loc[3]]
	} else {
		raw = body[loc[4]:loc[5]]
	}
	return episodeMatch{episodes: episode.NewSingle(episode.ParseSort(raw)), start: loc[0]}, true
}

func spanMatch(re *regexp.Regexp, body string) (episodeMatch, bool) {
	for _, loc := range re.FindAllStringSubmatchIndex(body, -1) {
		start, end := body[loc[2]:loc[3]], body[loc[4]:loc[5]]
		if looksLikeYearOrResolution(start) || looksLikeYearOrResolution(end) {
			continue
		}
		return episodeMatch{
			episodes: episode.NewSpan(episode.ParseSort(start), episode.ParseSort(end)),
			start:    loc[0],
		}, true
	}
	return episodeMatch{}, false
}

func singleMatch(re *regexp.Regexp, body string) (episodeMatch, bool) {
	for _, loc := range re.FindAllStringSubmatchIndex(body, -1) {
		raw := body[loc[2]:loc[3]]
		if looksLikeYearOrResolution(raw) {
			continue
		}
		return episodeMatch{episodes: episode.NewSingle(episode.ParseSort(raw)), start: loc[0]}, true
	}
	return episodeMatch{}, false
}

func looksLikeYearOrResolution(raw string) bool {
	n, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return true
	}
	switch n {
	case 480, 720, 1080, 2160:
		return true
	}
	return n >= 1900
}

// parseSeason returns the season number and the offset of its marker, or
// (0, -1).
func parseSeason(body string) (int, int) {
	if loc := cnSeasonRe.FindStringSubmatchIndex(body); loc != nil {
		if n := parseCNNumber(body[loc[2]:loc[3]]); n > 0 {
			return n, loc[0]
		}
	}
	for _, re := range []*regexp.Regexp{seasonWordRe, ordinalSeasonRe, seasonOnlyRe} {
		if loc := re.FindStringSubmatchIndex(body); loc != nil {
			n, _ := strconv.Atoi(body[loc[2]:loc[3]])
			return n, loc[0]
		}
	}
	return 0, -1
}

// parseCNNumber handles 1-99 written with Chinese numerals or digits.
func parseCNNumber(s string) int {
	if n, err := strconv.Atoi(s); err == nil {
		return n
	}
	runes := []rune(s)
	switch {
	case len(runes) == 1 && runes[0] == '十':
		return 10
	case len(runes) == 1:
		return cnDigits[runes[0]]
	case len(runes) == 2 && runes[0] == '十':
		return 10 + cnDigits[runes[1]]
	case len(runes) == 2 && runes[1] == '十':
		return cnDigits[runes[0]] * 10
	case len(runes) == 3 && runes[1] == '十':
		return cnDigits[runes[0]]*10 + cnDigits[runes[2]]
	}
	return 0
}

func splitTitles(s string) []string {
	var titles []string
	for _, part := range strings.Split(s, "/") {
		part = strings.Trim(part, " -_|.:~·[]【】()")
		if part != "" {
			titles = append(titles, part)
		}
	}
	return titles
}

func parseResolution(name string) Resolution {
	name = strings.ToLower(name)
	switch {
	case containsAny(name, "2160p", "4k", "uhd", "3840x2160"):
		return Resolution2160p
	case containsAny(name, "1080p", "1080i", "1920x1080"):
		return Resolution1080p
	case containsAny(name, "720p", "1280x720"):
		return Resolution720p
	case containsAny(name, "480p"):
		return Resolution480p
	default:
		return ResolutionUnknown
	}
}

func parseSource(name string) Source {
	name = strings.ToLower(name)
	switch {
	case containsAny(name, "bluray", "blu-ray", "bdrip", "bdmv", "bd-rip"):
		return SourceBluRay
	case containsAny(name, "web-dl", "webdl"):
		return SourceWEBDL
	case containsAny(name, "webrip", "web-rip", "web rip"):
		return SourceWEBRip
	case containsAny(name, "hdtv", "tvrip"):
		return SourceHDTV
	case containsAny(name, "dvdrip", "dvd"):
		return SourceDVD
	default:
		return SourceUnknown
	}
}

func parseCodec(name string) Codec {
	name = strings.ToLower(name)
	switch {
	case containsAny(name, "x265", "h265", "h.265", "hevc"):
		return CodecX265
	case containsAny(name, "x264", "h264", "h.264", "avc"):
		return CodecX264
	case containsAny(name, "av1"):
		return CodecAV1
	default:
		return CodecUnknown
	}
}

func parseAudio(name string) AudioCodec {
	name = strings.ToLower(name)
	switch {
	case containsAny(name, "truehd"):
		return AudioTrueHD
	case containsAny(name, "flac"):
		return AudioFLAC
	case containsAny(name, "dts"):
		return AudioDTS
	case containsAny(name, "eac3", "ddp", "dd+"):
		return AudioEAC3
	case containsAny(name, "ac3"):
		return AudioAC3
	case containsAny(name, "opus"):
		return AudioOpus
	case containsAny(name, "aac"):
		return AudioAAC
	default:
		return AudioUnknown
	}
}

// parseLanguages only looks inside brackets, where subtitle tags live.
func parseLanguages(name string) []string {
	var tags strings.Builder
	for _, m := range bracketRe.FindAllStringSubmatch(name, -1) {
		tags.WriteString(m[1])
		tags.WriteByte(' ')
	}
	s := tags.String()

	var langs []string
	for _, l := range langRes {
		if l.ascii.MatchString(s) || containsAny(s, l.cjk...) {
			langs = append(langs, l.lang)
		}
	}
	return langs
}

func containsAny(s string, substrs ...string) bool {
	s = strings.ToLower(s)
	for _, sub := range substrs {
		if strings.Contains(s, strings.ToLower(sub)) {
			return true
		}
	}
	return false
}
