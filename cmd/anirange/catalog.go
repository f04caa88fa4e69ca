package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/vmunix/anirange/internal/catalog"
	"github.com/vmunix/anirange/internal/config"
	"github.com/vmunix/anirange/internal/torrentfile"
	"github.com/vmunix/anirange/pkg/episode"
	"github.com/vmunix/anirange/pkg/release"
	"github.com/vmunix/anirange/pkg/release/scoring"
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Manage the local release catalog",
}

var catalogAddCmd = &cobra.Command{
	Use:   "add [flags] [release-name]",
	Short: "Add a release to the catalog",
	Long: `Add a release to the catalog. With --torrent the info hash, size and
file list are read from a .torrent file or magnet link, and the release name
defaults to the torrent name.

Examples:
  anirange catalog add "[Group] Show [01-12][1080p]" --hash 0123...
  anirange catalog add --torrent show.torrent`,
	Args: cobra.MaximumNArgs(1),
	RunE: runCatalogAdd,
}

var catalogListCmd = &cobra.Command{
	Use:   "list",
	Short: "List catalogued releases",
	Args:  cobra.NoArgs,
	RunE:  runCatalogList,
}

var catalogFindCmd = &cobra.Command{
	Use:   "find [flags] <title> <episode>",
	Short: "Find releases holding an episode of a title",
	Long: `Find catalogued releases whose title matches and whose episodes hold
the requested episode. Matching follows the [matching] config section.
With --profile the results are ranked by quality instead of title match.`,
	Args: cobra.ExactArgs(2),
	RunE: runCatalogFind,
}

var catalogFilesCmd = &cobra.Command{
	Use:   "files <id>",
	Short: "List the files of a catalogued release",
	Args:  cobra.ExactArgs(1),
	RunE:  runCatalogFiles,
}

var catalogRmCmd = &cobra.Command{
	Use:   "rm <id>...",
	Short: "Remove releases from the catalog",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runCatalogRm,
}

func init() {
	rootCmd.AddCommand(catalogCmd)
	catalogCmd.AddCommand(catalogAddCmd, catalogListCmd, catalogFindCmd, catalogFilesCmd, catalogRmCmd)

	catalogAddCmd.Flags().String("hash", "", "Info hash of the release")
	catalogAddCmd.Flags().Int64("size", 0, "Size in bytes")
	catalogAddCmd.Flags().String("torrent", "", "Read hash, size and files from a .torrent file or magnet link")

	catalogListCmd.Flags().String("title", "", "Filter by title")
	catalogListCmd.Flags().String("group", "", "Filter by release group")
	catalogListCmd.Flags().Int("season", -1, "Filter by season (0 for releases without one)")
	catalogListCmd.Flags().Int("limit", 0, "Maximum number of releases")
	catalogListCmd.Flags().Int("offset", 0, "Skip this many releases")

	catalogFindCmd.Flags().Int("season", 0, "Season of the episode (0 for any)")
	catalogFindCmd.Flags().String("profile", "", "Rank results by quality profile")
}

// releaseJSON is the JSON form of a catalogued release.
type releaseJSON struct {
	ID         int64    `json:"id"`
	Name       string   `json:"name"`
	Title      string   `json:"title"`
	Titles     []string `json:"titles,omitempty"`
	Group      string   `json:"group,omitempty"`
	Season     int      `json:"season,omitempty"`
	Episodes   string   `json:"episodes"`
	Resolution string   `json:"resolution"`
	Source     string   `json:"source"`
	InfoHash   string   `json:"info_hash,omitempty"`
	Size       int64    `json:"size,omitempty"`
	AddedAt    string   `json:"added_at"`

	Confidence string  `json:"confidence,omitempty"`
	MatchScore float64 `json:"match_score,omitempty"`
	Score      int     `json:"score,omitempty"`
}

func toReleaseJSON(r *catalog.Release) releaseJSON {
	return releaseJSON{
		ID:         r.ID,
		Name:       r.Name,
		Title:      r.Title,
		Titles:     r.Titles,
		Group:      r.Group,
		Season:     r.Season,
		Episodes:   r.Episodes.String(),
		Resolution: r.Resolution.String(),
		Source:     r.Source.String(),
		InfoHash:   r.InfoHash,
		Size:       r.Size,
		AddedAt:    r.AddedAt.UTC().Format(time.RFC3339),
	}
}

// withCatalog opens the configured catalog for the duration of fn.
func withCatalog(cmd *cobra.Command, fn func(ctx context.Context, cfg *config.Config, store *catalog.Store) error) error {
	cfg, _, err := loadConfig()
	if err != nil {
		return err
	}

	path := cfg.Database.Path
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return fmt.Errorf("create database directory: %w", err)
		}
	}

	ctx := cmd.Context()
	store, err := catalog.Open(ctx, path, slog.Default().With("component", "catalog"))
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	return fn(ctx, cfg, store)
}

// loadTorrent reads a magnet link or .torrent file.
func loadTorrent(ref string) (*torrentfile.Torrent, error) {
	if strings.HasPrefix(ref, "magnet:") {
		return torrentfile.FromMagnet(ref)
	}
	return torrentfile.LoadFile(ref)
}

// releaseFromTorrent builds the catalog entry for t. name overrides the
// torrent's own name when set.
func releaseFromTorrent(name string, t *torrentfile.Torrent) (*catalog.Release, []*catalog.File) {
	if name == "" {
		name = t.Name
	}
	r := catalog.FromInfo(name, release.Parse(name))
	r.InfoHash = t.InfoHash
	r.Size = t.Size()
	if r.Episodes.IsEmpty() {
		r.Episodes = t.Coverage()
	}

	files := make([]*catalog.File, len(t.Files))
	for i, f := range t.Files {
		files[i] = &catalog.File{Path: f.Path, Size: f.Length, Episodes: f.Episodes}
	}
	return r, files
}

func runCatalogAdd(cmd *cobra.Command, args []string) error {
	hash, _ := cmd.Flags().GetString("hash")
	size, _ := cmd.Flags().GetInt64("size")
	torrentRef, _ := cmd.Flags().GetString("torrent")

	var name string
	if len(args) > 0 {
		name = args[0]
	}
	if name == "" && torrentRef == "" {
		return fmt.Errorf("usage: anirange catalog add <release-name> or anirange catalog add --torrent <file>")
	}

	var (
		r     *catalog.Release
		files []*catalog.File
	)
	if torrentRef != "" {
		t, err := loadTorrent(torrentRef)
		if err != nil {
			return err
		}
		r, files = releaseFromTorrent(name, t)
	} else {
		r = catalog.FromInfo(name, release.Parse(name))
	}
	if hash != "" {
		r.InfoHash = hash
	}
	if size > 0 {
		r.Size = size
	}

	return withCatalog(cmd, func(ctx context.Context, _ *config.Config, store *catalog.Store) error {
		if err := store.AddReleaseWithFiles(ctx, r, files); err != nil {
			if errors.Is(err, catalog.ErrDuplicate) {
				if existing, lookupErr := store.GetReleaseByHash(ctx, r.InfoHash); lookupErr == nil {
					return fmt.Errorf("release already catalogued as #%d", existing.ID)
				}
			}
			return err
		}

		out := cmd.OutOrStdout()
		if jsonOutput {
			return writeJSON(out, toReleaseJSON(r))
		}
		_, _ = fmt.Fprintf(out, "Added #%d: %s [%s]", r.ID, r.Title, r.Episodes)
		if len(files) > 0 {
			_, _ = fmt.Fprintf(out, " with %d files", len(files))
		}
		_, _ = fmt.Fprintln(out)
		return nil
	})
}

func runCatalogList(cmd *cobra.Command, _ []string) error {
	var f catalog.ReleaseFilter
	if title, _ := cmd.Flags().GetString("title"); title != "" {
		f.Title = &title
	}
	if group, _ := cmd.Flags().GetString("group"); group != "" {
		f.Group = &group
	}
	if season, _ := cmd.Flags().GetInt("season"); season >= 0 {
		f.Season = &season
	}
	f.Limit, _ = cmd.Flags().GetInt("limit")
	f.Offset, _ = cmd.Flags().GetInt("offset")

	return withCatalog(cmd, func(ctx context.Context, _ *config.Config, store *catalog.Store) error {
		releases, total, err := store.ListReleases(ctx, f)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if jsonOutput {
			items := make([]releaseJSON, len(releases))
			for i, r := range releases {
				items[i] = toReleaseJSON(r)
			}
			return writeJSON(out, map[string]any{"releases": items, "total": total})
		}

		if len(releases) == 0 {
			_, _ = fmt.Fprintln(out, "No releases catalogued.")
			return nil
		}
		printReleaseTable(out, releases, time.Now())
		if total > len(releases) {
			_, _ = fmt.Fprintf(out, "Showing %d of %d releases\n", len(releases), total)
		}
		return nil
	})
}

func printReleaseTable(w io.Writer, releases []*catalog.Release, now time.Time) {
	headers := []string{"ID", "Title", "Group", "Season", "Episodes", "Quality", "Size", "Added"}
	aligns := []columnAlignment{alignRight, alignLeft, alignLeft, alignRight, alignLeft, alignLeft, alignRight, alignLeft}

	rows := make([][]string, len(releases))
	for i, r := range releases {
		rows[i] = []string{
			strconv.FormatInt(r.ID, 10),
			r.Title,
			r.Group,
			seasonLabel(r.Season),
			r.Episodes.String(),
			r.Resolution.String(),
			formatSize(r.Size),
			humanize.RelTime(r.AddedAt, now, "ago", "from now"),
		}
	}
	_, _ = fmt.Fprintln(w, renderTable(headers, rows, aligns, !isTerminal(w)))
}

func seasonLabel(season int) string {
	if season == 0 {
		return "-"
	}
	return strconv.Itoa(season)
}

func runCatalogFind(cmd *cobra.Command, args []string) error {
	title := args[0]
	ep := episode.ParseSort(args[1])
	season, _ := cmd.Flags().GetInt("season")
	profileName, _ := cmd.Flags().GetString("profile")

	return withCatalog(cmd, func(ctx context.Context, cfg *config.Config, store *catalog.Store) error {
		matches, err := store.FindCovering(ctx, title, ep, catalog.FindOptions{
			Season:           season,
			MinConfidence:    cfg.Matching.Confidence(),
			AllowSeasonPacks: cfg.Matching.AllowSeasonPacks,
			AllowSpecial:     cfg.Matching.AllowSpecial,
		})
		if err != nil {
			return err
		}

		items := make([]releaseJSON, 0, len(matches))
		if profileName != "" {
			qp, err := cfg.Profile(profileName)
			if err != nil {
				return err
			}
			ranked := scoring.Rank(matches, func(m catalog.Match) *release.Info { return m.Release.Info() }, qp.Scoring())
			for _, rk := range ranked {
				item := matchJSON(rk.Item)
				item.Score = rk.Score
				items = append(items, item)
			}
		} else {
			for _, m := range matches {
				items = append(items, matchJSON(m))
			}
		}

		out := cmd.OutOrStdout()
		if jsonOutput {
			return writeJSON(out, items)
		}
		if len(items) == 0 {
			_, _ = fmt.Fprintf(out, "No releases of %q hold %s.\n", title, ep)
			return nil
		}
		printMatchTable(out, items, profileName != "")
		return nil
	})
}

func matchJSON(m catalog.Match) releaseJSON {
	item := toReleaseJSON(m.Release)
	item.Confidence = m.Title.Confidence.String()
	item.MatchScore = m.Title.Score
	return item
}

func printMatchTable(w io.Writer, items []releaseJSON, scored bool) {
	headers := []string{"ID", "Name", "Episodes", "Match", "Size"}
	aligns := []columnAlignment{alignRight, alignLeft, alignLeft, alignLeft, alignRight}
	if scored {
		headers = append(headers, "Score")
		aligns = append(aligns, alignRight)
	}

	rows := make([][]string, len(items))
	for i, it := range items {
		row := []string{
			strconv.FormatInt(it.ID, 10),
			it.Name,
			it.Episodes,
			fmt.Sprintf("%s (%.2f)", it.Confidence, it.MatchScore),
			formatSize(it.Size),
		}
		if scored {
			row = append(row, strconv.Itoa(it.Score))
		}
		rows[i] = row
	}
	_, _ = fmt.Fprintln(w, renderTable(headers, rows, aligns, !isTerminal(w)))
}

func parseID(arg string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimPrefix(arg, "#"), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid release id %q", arg)
	}
	return id, nil
}

func runCatalogFiles(cmd *cobra.Command, args []string) error {
	id, err := parseID(args[0])
	if err != nil {
		return err
	}

	return withCatalog(cmd, func(ctx context.Context, _ *config.Config, store *catalog.Store) error {
		if _, err := store.GetRelease(ctx, id); err != nil {
			return err
		}
		files, err := store.ListFiles(ctx, id)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if jsonOutput {
			return writeJSON(out, filesJSON(files))
		}
		if len(files) == 0 {
			_, _ = fmt.Fprintf(out, "Release #%d has no files recorded.\n", id)
			return nil
		}
		rows := make([][]string, len(files))
		for i, f := range files {
			rows[i] = []string{f.Path, f.Episodes.String(), formatSize(f.Size)}
		}
		_, _ = fmt.Fprintln(out, renderTable(
			[]string{"Path", "Episodes", "Size"}, rows,
			[]columnAlignment{alignLeft, alignLeft, alignRight}, !isTerminal(out)))
		return nil
	})
}

type fileJSON struct {
	Path     string `json:"path"`
	Episodes string `json:"episodes"`
	Size     int64  `json:"size"`
}

func filesJSON(files []*catalog.File) []fileJSON {
	out := make([]fileJSON, len(files))
	for i, f := range files {
		out[i] = fileJSON{Path: f.Path, Episodes: f.Episodes.String(), Size: f.Size}
	}
	return out
}

func runCatalogRm(cmd *cobra.Command, args []string) error {
	ids := make([]int64, len(args))
	for i, arg := range args {
		id, err := parseID(arg)
		if err != nil {
			return err
		}
		ids[i] = id
	}

	return withCatalog(cmd, func(ctx context.Context, _ *config.Config, store *catalog.Store) error {
		out := cmd.OutOrStdout()
		for _, id := range ids {
			r, err := store.GetRelease(ctx, id)
			if err != nil {
				return err
			}
			if err := store.DeleteRelease(ctx, id); err != nil {
				return err
			}
			_, _ = fmt.Fprintf(out, "Removed #%d: %s\n", id, r.Name)
		}
		return nil
	})
}
