package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/vmunix/anirange/internal/torrentfile"
	"github.com/vmunix/anirange/pkg/episode"
)

var torrentCmd = &cobra.Command{
	Use:   "torrent",
	Short: "Inspect torrent files",
}

var torrentFilesCmd = &cobra.Command{
	Use:   "files <file|magnet>",
	Short: "List the files of a torrent and the episodes they hold",
	Args:  cobra.ExactArgs(1),
	RunE:  runTorrentFiles,
}

var torrentSelectCmd = &cobra.Command{
	Use:   "select <file> <episode>",
	Short: "Pick the file to play for an episode",
	Args:  cobra.ExactArgs(2),
	RunE:  runTorrentSelect,
}

func init() {
	rootCmd.AddCommand(torrentCmd)
	torrentCmd.AddCommand(torrentFilesCmd, torrentSelectCmd)
}

type torrentJSON struct {
	Name     string     `json:"name"`
	InfoHash string     `json:"info_hash"`
	Episodes string     `json:"episodes"`
	Size     int64      `json:"size"`
	Files    []fileJSON `json:"files"`
}

func toTorrentJSON(t *torrentfile.Torrent) torrentJSON {
	files := make([]fileJSON, len(t.Files))
	for i, f := range t.Files {
		files[i] = fileJSON{Path: f.Path, Episodes: f.Episodes.String(), Size: f.Length}
	}
	return torrentJSON{
		Name:     t.Name,
		InfoHash: t.InfoHash,
		Episodes: t.Episodes.String(),
		Size:     t.Size(),
		Files:    files,
	}
}

func runTorrentFiles(cmd *cobra.Command, args []string) error {
	t, err := loadTorrent(args[0])
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if jsonOutput {
		return writeJSON(out, toTorrentJSON(t))
	}
	printTorrent(out, t)
	return nil
}

func printTorrent(w io.Writer, t *torrentfile.Torrent) {
	_, _ = fmt.Fprintf(w, "Name:      %s\n", t.Name)
	_, _ = fmt.Fprintf(w, "InfoHash:  %s\n", t.InfoHash)
	_, _ = fmt.Fprintf(w, "Episodes:  %s\n", t.Episodes)
	if len(t.Files) == 0 {
		_, _ = fmt.Fprintln(w, "\nNo file list (magnet link).")
		return
	}
	_, _ = fmt.Fprintf(w, "Size:      %s in %d files\n\n", formatSize(t.Size()), len(t.Files))

	rows := make([][]string, len(t.Files))
	for i, f := range t.Files {
		kind := ""
		if f.IsVideo() {
			kind = "video"
		}
		rows[i] = []string{f.Path, f.Episodes.String(), kind, formatSize(f.Length)}
	}
	_, _ = fmt.Fprintln(w, renderTable(
		[]string{"Path", "Episodes", "Kind", "Size"}, rows,
		[]columnAlignment{alignLeft, alignLeft, alignLeft, alignRight}, !isTerminal(w)))
}

func runTorrentSelect(cmd *cobra.Command, args []string) error {
	t, err := loadTorrent(args[0])
	if err != nil {
		return err
	}
	ep := episode.ParseSort(args[1])

	entry, err := t.SelectEpisode(ep)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if jsonOutput {
		return writeJSON(out, fileJSON{Path: entry.Path, Episodes: entry.Episodes.String(), Size: entry.Length})
	}
	_, _ = fmt.Fprintln(out, entry.Path)
	return nil
}
