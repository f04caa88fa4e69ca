package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vmunix/anirange/internal/catalog"
	"github.com/vmunix/anirange/internal/config"
)

const (
	frieren05 = "[SubsPlease] Sousou no Frieren - 05 (1080p) [ABCD1234].mkv"
	bocchi    = "[Nekomoe kissaten] Bocchi the Rock! [01-12][BDRip 1080p HEVC-10bit FLAC]"
)

func TestCatalogCommands(t *testing.T) {
	cfg := writeTestConfig(t)

	out, err := execute(t, "--config", cfg, "catalog", "add", frieren05, "--hash", "ABCDEF")
	require.NoError(t, err)
	assert.Contains(t, out, "Added #1: Sousou no Frieren")

	out, err = execute(t, "--config", cfg, "catalog", "add", bocchi, "--size", "1073741824")
	require.NoError(t, err)
	assert.Contains(t, out, "Added #2: Bocchi the Rock!")

	_, err = execute(t, "--config", cfg, "catalog", "add", frieren05, "--hash", "abcdef")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already catalogued as #1")

	out, err = execute(t, "--config", cfg, "--json", "catalog", "list")
	require.NoError(t, err)
	var listed struct {
		Releases []releaseJSON `json:"releases"`
		Total    int           `json:"total"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &listed))
	assert.Equal(t, 2, listed.Total)
	require.Len(t, listed.Releases, 2)
	assert.Equal(t, "abcdef", listed.Releases[0].InfoHash)
	assert.Equal(t, "01..12", listed.Releases[1].Episodes)

	out, err = execute(t, "--config", cfg, "--json", "catalog", "find", "Bocchi the Rock", "7")
	require.NoError(t, err)
	var found []releaseJSON
	require.NoError(t, json.Unmarshal([]byte(out), &found))
	require.Len(t, found, 1)
	assert.Equal(t, int64(2), found[0].ID)
	assert.Equal(t, "high", found[0].Confidence)
	assert.Zero(t, found[0].Score)

	out, err = execute(t, "--config", cfg, "--json", "catalog", "find", "--profile", "hd", "Bocchi the Rock", "7")
	require.NoError(t, err)
	found = nil
	require.NoError(t, json.Unmarshal([]byte(out), &found))
	require.Len(t, found, 1)
	assert.Positive(t, found[0].Score)

	out, err = execute(t, "--config", cfg, "catalog", "find", "Bocchi the Rock", "13")
	require.NoError(t, err)
	assert.Contains(t, out, "No releases")

	out, err = execute(t, "--config", cfg, "catalog", "rm", "#1")
	require.NoError(t, err)
	assert.Contains(t, out, "Removed #1")

	_, err = execute(t, "--config", cfg, "catalog", "rm", "1")
	assert.ErrorIs(t, err, catalog.ErrNotFound)

	_, err = execute(t, "--config", cfg, "catalog", "rm", "one")
	assert.Error(t, err)
}

func TestCatalogAdd_Torrent(t *testing.T) {
	cfg := writeTestConfig(t)
	tor := writeTestTorrent(t, "[Group] Show [01-02][1080p]", map[string]int64{
		"[Group] Show - 01 [1080p].mkv": 900,
		"[Group] Show - 02 [1080p].mkv": 950,
	})

	out, err := execute(t, "--config", cfg, "catalog", "add", "--torrent", tor)
	require.NoError(t, err)
	assert.Contains(t, out, "with 2 files")

	out, err = execute(t, "--config", cfg, "--json", "catalog", "files", "1")
	require.NoError(t, err)
	var files []fileJSON
	require.NoError(t, json.Unmarshal([]byte(out), &files))
	require.Len(t, files, 2)
	assert.Equal(t, "[Group] Show - 01 [1080p].mkv", files[0].Path)
	assert.Equal(t, "01..01", files[0].Episodes)

	_, err = execute(t, "--config", cfg, "catalog", "files", "9")
	assert.ErrorIs(t, err, catalog.ErrNotFound)
}

func TestCatalogAdd_RequiresName(t *testing.T) {
	_, err := execute(t, "--config", writeTestConfig(t), "catalog", "add")
	assert.Error(t, err)
}

func TestTorrentCommands(t *testing.T) {
	tor := writeTestTorrent(t, "[Group] Show [01-02][1080p]", map[string]int64{
		"[Group] Show - 01 [1080p].mkv": 900,
		"[Group] Show - 02 [1080p].ass": 10,
		"[Group] Show - 02 [1080p].mkv": 950,
	})

	out, err := execute(t, "torrent", "select", tor, "2")
	require.NoError(t, err)
	assert.Equal(t, "[Group] Show - 02 [1080p].mkv\n", out)

	_, err = execute(t, "torrent", "select", tor, "5")
	assert.Error(t, err)

	out, err = execute(t, "--json", "torrent", "files", tor)
	require.NoError(t, err)
	var got torrentJSON
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, "[Group] Show [01-02][1080p]", got.Name)
	assert.Len(t, got.Files, 3)
	assert.Equal(t, int64(1860), got.Size)
}

func TestContainsCommand(t *testing.T) {
	out, err := execute(t, "contains", "[Group] Show [01-12][1080p]", "7")
	require.NoError(t, err)
	assert.Contains(t, out, "01..12 contains")

	out, err = execute(t, "contains", "[Group] Show S2 [Complete][1080p]", "3")
	require.NoError(t, err)
	assert.Contains(t, out, "S2 contains")

	out, err = execute(t, "contains", "--no-season", "[Group] Show S2 [Complete][1080p]", "3")
	require.NoError(t, err)
	assert.Contains(t, out, "S2 does not contain")

	out, err = execute(t, "--json", "contains", "[Group] Show [01-12][1080p]", "13")
	require.NoError(t, err)
	var got containsResult
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.False(t, got.Contains)
}

func TestParseCommand(t *testing.T) {
	out, err := execute(t, "--json", "parse", frieren05)
	require.NoError(t, err)

	var got ParseResultJSON
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, "Sousou no Frieren", got.Title)
	assert.Equal(t, "05..05", got.Episodes)
	assert.Equal(t, "1080p", got.Resolution)
	assert.Zero(t, got.Score)

	out, err = execute(t, "--config", writeTestConfig(t), "parse", "--score", "hd", frieren05)
	require.NoError(t, err)
	assert.Contains(t, out, "Title:       Sousou no Frieren")
	assert.Contains(t, out, "Score Breakdown (profile: hd)")

	_, err = execute(t, "--config", writeTestConfig(t), "parse", "--score", "nope", frieren05)
	assert.Error(t, err)

	_, err = execute(t, "parse")
	assert.Error(t, err)
}

func TestConfigCommands(t *testing.T) {
	path := filepath.Join(t.TempDir(), "anirange.toml")

	out, err := execute(t, "config", "init", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Wrote "+path)

	_, err = execute(t, "config", "init", path)
	assert.Error(t, err, "existing file needs --force")

	_, err = execute(t, "config", "init", "--force", path)
	require.NoError(t, err)

	out, err = execute(t, "config", "test", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Profiles:   hd, uhd (default: hd)")
	assert.Contains(t, out, "Configuration valid!")

	bad := filepath.Join(t.TempDir(), "bad.toml")
	require.NoError(t, os.WriteFile(bad, []byte("[log]\nlevel = \"loud\"\n"), 0644))
	out, err = execute(t, "config", "test", bad)
	require.Error(t, err)
	assert.Contains(t, out, "Validation errors:")
	assert.Contains(t, out, "log.level")
}

func TestDanmakuCommands(t *testing.T) {
	cfg := writeTestConfig(t)

	out, err := execute(t, "--config", cfg, "danmaku", "status")
	require.NoError(t, err)
	assert.Contains(t, out, "Danmaku enabled")

	_, err = execute(t, "--config", cfg, "danmaku", "disable")
	require.NoError(t, err)

	loaded, err := config.Load(cfg)
	require.NoError(t, err)
	assert.False(t, loaded.Danmaku.Enabled)

	out, err = execute(t, "--config", cfg, "--json", "danmaku", "status")
	require.NoError(t, err)
	var status danmakuStatusJSON
	require.NoError(t, json.Unmarshal([]byte(out), &status))
	assert.False(t, status.Enabled)

	_, err = execute(t, "--config", cfg, "danmaku", "enable")
	require.NoError(t, err)
	loaded, err = config.Load(cfg)
	require.NoError(t, err)
	assert.True(t, loaded.Danmaku.Enabled)
}
