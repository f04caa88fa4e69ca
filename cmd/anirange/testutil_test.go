package main

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/anacrolix/torrent/bencode"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/require"
)

// execute runs the root command with args and returns what it printed.
// Flag values from earlier runs are reset first.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	resetFlags(rootCmd)

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(io.Discard)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}

const testConfig = `
[log]
level = "error"

[database]
path = "%DB%"

[quality]
default = "hd"

[quality.profiles.hd]
resolution = ["1080p", "720p"]
sources = ["bluray", "webdl"]
`

// writeTestConfig writes a config whose catalog lives in a temp dir.
func writeTestConfig(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	content := strings.ReplaceAll(testConfig, "%DB%", filepath.ToSlash(filepath.Join(dir, "data", "catalog.db")))
	path := filepath.Join(dir, "anirange.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

// writeTestTorrent writes a multi-file .torrent and returns its path.
func writeTestTorrent(t *testing.T, name string, files map[string]int64) string {
	t.Helper()

	list := make([]map[string]any, 0, len(files))
	for p, size := range files {
		list = append(list, map[string]any{"length": size, "path": strings.Split(p, "/")})
	}
	info, err := bencode.Marshal(map[string]any{
		"name":         name,
		"piece length": int64(16384),
		"pieces":       "",
		"files":        list,
	})
	require.NoError(t, err)
	data, err := bencode.Marshal(map[string]any{"info": bencode.Bytes(info)})
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "release.torrent")
	require.NoError(t, os.WriteFile(path, data, 0644))
	return path
}
