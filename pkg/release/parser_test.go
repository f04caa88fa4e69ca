package release

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vmunix/anirange/pkg/episode"
)

func TestParse_Episodes(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		title    string
		season   int
		episodes string
		batch    bool
	}{
		{"dash single", "[Lilith-Raws] Sousou no Frieren - 05 [Baha][WEB-DL][1080p][AVC AAC][CHT][MP4]", "Sousou no Frieren", 0, "05..05", false},
		{"bracket range", "[Nekomoe kissaten] Bocchi the Rock! [01-12][BDRip 1080p HEVC-10bit FLAC]", "Bocchi the Rock!", 0, "01..12", true},
		{"chinese range", "[Sakurato] Spy x Family [第01-12话 合集][简繁内封字幕][1080P]", "Spy x Family", 0, "01..12", true},
		{"scene", "Frieren.Beyond.Journeys.End.S01E05.1080p.WEB-DL.x264-GROUP.mkv", "Frieren Beyond Journeys End", 1, "05..05", false},
		{"scene multi episode", "Show.Name.S02E01-E03.720p.HDTV.x264-GRP", "Show Name", 2, "01..03", true},
		{"partial episode", "[SubsPlease] Oshi no Ko - 12.5 (1080p) [ABCD1234].mkv", "Oshi no Ko", 0, "12.5..12.5", false},
		{"unnumbered special", "[Group] Made in Abyss OVA [1080p]", "Made in Abyss", 0, "OVA..OVA", false},
		{"numbered special", "[Group] Kimetsu no Yaiba SP02 [1080p]", "Kimetsu no Yaiba", 0, "SP2..SP2", false},
		{"season word", "[Group] Mushoku Tensei Season 2 [1080p]", "Mushoku Tensei", 2, "S2", true},
		{"chinese season", "[Group] 间谍过家家 第二季 全集 [1080p]", "间谍过家家", 2, "S2", true},
		{"episode list", "[Group] Show [01,03,05][1080p]", "Show", 0, "01+03+05", true},
		{"bracket single", "[Group] Show [05][1080p]", "Show", 0, "05..05", false},
		{"ep prefix", "[Group] Show EP05 [1080p]", "Show", 0, "05..05", false},
		{"season complete", "[Group] Show S2 [Complete][1080p]", "Show", 2, "S2", true},
		{"complete without season", "[Group] Show [Complete][1080p]", "Show", 0, "S?", true},
		{"no episode", "[Group] Kimi no Na wa 2016 [1080p]", "Kimi no Na wa", 0, "EpisodeRange(empty)", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info := Parse(tt.input)
			require.NotNil(t, info.Episodes)
			assert.Equal(t, tt.title, info.Title, "title")
			assert.Equal(t, tt.season, info.Season, "season")
			assert.Equal(t, tt.episodes, info.Episodes.String(), "episodes")
			assert.Equal(t, tt.batch, info.IsBatch, "batch")
		})
	}
}

func TestParse_Titles(t *testing.T) {
	info := Parse("[ANi] 葬送的芙莉蓮 / Sousou no Frieren - 28 [1080P][Baha][WEB-DL][AAC AVC][CHT][MP4]")

	assert.Equal(t, "ANi", info.Group)
	assert.Equal(t, []string{"葬送的芙莉蓮", "Sousou no Frieren"}, info.Titles)
	assert.Equal(t, "葬送的芙莉蓮", info.Title)
	assert.True(t, episode.Equal(episode.NewSingle(episode.NormalInt(28)), info.Episodes))
	assert.Equal(t, Resolution1080p, info.Resolution)
}

func TestParse_Metadata(t *testing.T) {
	info := Parse("[Lilith-Raws] Sousou no Frieren - 05 [Baha][WEB-DL][1080p][AVC AAC][CHT][MP4]")

	assert.Equal(t, "Lilith-Raws", info.Group)
	assert.Equal(t, Resolution1080p, info.Resolution)
	assert.Equal(t, SourceWEBDL, info.Source)
	assert.Equal(t, CodecX264, info.Codec)
	assert.Equal(t, AudioAAC, info.Audio)
	assert.Equal(t, []string{LangTraditionalChinese}, info.Languages)
	assert.Equal(t, "sousou no frieren", info.CleanTitle)
	assert.Zero(t, info.Version)
}

func TestParse_Scene(t *testing.T) {
	info := Parse("Frieren.Beyond.Journeys.End.S01E05.1080p.WEB-DL.x264-GROUP.mkv")

	assert.Equal(t, "GROUP", info.Group)
	assert.Equal(t, SourceWEBDL, info.Source)
	assert.Equal(t, CodecX264, info.Codec)
	assert.Empty(t, info.Languages)
}

func TestParse_Languages(t *testing.T) {
	info := Parse("[Sakurato] Spy x Family [第01-12话 合集][简繁内封字幕][1080P]")
	assert.Equal(t, []string{LangSimplifiedChinese, LangTraditionalChinese}, info.Languages)

	info = Parse("[Group] Show - 01 [CHS_JP][1080p]")
	assert.Equal(t, []string{LangSimplifiedChinese, LangJapanese}, info.Languages)
}

func TestParse_Version(t *testing.T) {
	info := Parse("[Group] Show - 03v2 [1080p]")
	assert.Equal(t, 2, info.Version)
	assert.True(t, episode.Equal(episode.NewSingle(episode.NormalInt(3)), info.Episodes))
}

func TestParse_Year(t *testing.T) {
	info := Parse("[Group] Kimi no Na wa 2016 [1080p]")
	assert.Equal(t, 2016, info.Year)
}

func TestParse_Garbage(t *testing.T) {
	for _, input := range []string{"", "   ", "[]", "[Group]", "-", "..."} {
		info := Parse(input)
		require.NotNil(t, info, "%q", input)
		require.NotNil(t, info.Episodes, "%q", input)
	}
}
