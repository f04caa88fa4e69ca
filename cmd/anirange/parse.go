package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vmunix/anirange/pkg/release"
	"github.com/vmunix/anirange/pkg/release/scoring"
)

// ParseResult contains the parsed release info and optional score breakdown.
type ParseResult struct {
	Name      string
	Info      *release.Info
	Score     int
	Profile   string
	Breakdown []scoring.Bonus
}

// ParseResultJSON is the JSON-friendly representation of ParseResult.
type ParseResultJSON struct {
	Name       string          `json:"name"`
	Title      string          `json:"title"`
	Titles     []string        `json:"titles,omitempty"`
	Group      string          `json:"group,omitempty"`
	Year       int             `json:"year,omitempty"`
	Season     int             `json:"season,omitempty"`
	Episodes   string          `json:"episodes"`
	Batch      bool            `json:"batch,omitempty"`
	Resolution string          `json:"resolution"`
	Source     string          `json:"source"`
	Codec      string          `json:"codec"`
	Audio      string          `json:"audio,omitempty"`
	Languages  []string        `json:"languages,omitempty"`
	Version    int             `json:"version,omitempty"`
	Proper     bool            `json:"proper,omitempty"`
	Repack     bool            `json:"repack,omitempty"`
	CleanTitle string          `json:"clean_title"`
	Score      int             `json:"score,omitempty"`
	Profile    string          `json:"profile,omitempty"`
	Breakdown  []scoring.Bonus `json:"breakdown,omitempty"`
}

func (r ParseResult) toJSON() ParseResultJSON {
	info := r.Info
	return ParseResultJSON{
		Name:       r.Name,
		Title:      info.Title,
		Titles:     info.Titles,
		Group:      info.Group,
		Year:       info.Year,
		Season:     info.Season,
		Episodes:   info.Episodes.String(),
		Batch:      info.IsBatch,
		Resolution: info.Resolution.String(),
		Source:     info.Source.String(),
		Codec:      info.Codec.String(),
		Audio:      info.Audio.String(),
		Languages:  info.Languages,
		Version:    info.Version,
		Proper:     info.Proper,
		Repack:     info.Repack,
		CleanTitle: info.CleanTitle,
		Score:      r.Score,
		Profile:    r.Profile,
		Breakdown:  r.Breakdown,
	}
}

var parseCmd = &cobra.Command{
	Use:   "parse [flags] <release-name>",
	Short: "Parse a release name into title, episodes and quality",
	Long: `Parse a release name to extract its title, episode range and quality.

Examples:
  anirange parse "[SubsPlease] Sousou no Frieren - 05 (1080p) [ABCD1234].mkv"
  anirange parse --score hd "[Nekomoe kissaten] Bocchi the Rock! [01-12][BDRip 1080p HEVC-10bit FLAC]"
  anirange parse --file releases.txt --json`,
	RunE: runParseCmd,
}

func init() {
	rootCmd.AddCommand(parseCmd)
	parseCmd.Flags().String("score", "", "Score against quality profile")
	parseCmd.Flags().StringP("file", "f", "", "Read release names from file (one per line)")
}

func runParseCmd(cmd *cobra.Command, args []string) error {
	scoreProfile, _ := cmd.Flags().GetString("score")
	inputFile, _ := cmd.Flags().GetString("file")

	var names []string
	switch {
	case inputFile != "":
		n, err := readReleaseFile(inputFile)
		if err != nil {
			return fmt.Errorf("reading file: %w", err)
		}
		names = n
	case len(args) > 0:
		names = []string{args[0]}
	default:
		return fmt.Errorf("usage: anirange parse <release-name> or anirange parse --file <filename>")
	}

	var profile *scoring.Profile
	if scoreProfile != "" {
		cfg, _, err := loadConfig()
		if err != nil {
			return err
		}
		qp, err := cfg.Profile(scoreProfile)
		if err != nil {
			return err
		}
		sp := qp.Scoring()
		profile = &sp
	}

	results := make([]ParseResult, 0, len(names))
	for _, name := range names {
		results = append(results, parseRelease(name, scoreProfile, profile))
	}

	out := cmd.OutOrStdout()
	if jsonOutput {
		return outputJSON(out, results)
	}
	for i, r := range results {
		if i > 0 {
			_, _ = fmt.Fprintln(out)
		}
		printHumanReadable(out, r)
	}
	return nil
}

func parseRelease(name, profileName string, profile *scoring.Profile) ParseResult {
	info := release.Parse(name)
	result := ParseResult{Name: name, Info: info}
	if profile != nil {
		result.Profile = profileName
		result.Score, result.Breakdown = scoring.Score(info, *profile)
	}
	return result
}

// readReleaseFile reads release names from a file, one per line.
func readReleaseFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	var names []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line != "" && !strings.HasPrefix(line, "#") {
			names = append(names, line)
		}
	}
	return names, scanner.Err()
}

func printHumanReadable(w io.Writer, result ParseResult) {
	info := result.Info
	p := func(format string, a ...any) { _, _ = fmt.Fprintf(w, format, a...) }

	p("Title:       %s\n", valueOrEmpty(info.Title))
	if len(info.Titles) > 1 {
		p("Also:        %s\n", strings.Join(info.Titles[1:], " / "))
	}
	if info.Group != "" {
		p("Group:       %s\n", info.Group)
	}
	if info.Year > 0 {
		p("Year:        %d\n", info.Year)
	}
	if info.Season > 0 {
		p("Season:      %d\n", info.Season)
	}
	p("Episodes:    %s\n", info.Episodes)
	if info.IsBatch {
		p("Batch:       yes\n")
	}
	p("Resolution:  %s\n", info.Resolution)
	p("Source:      %s\n", sourceDisplayName(info.Source))
	p("Codec:       %s\n", info.Codec)
	if info.Audio != release.AudioUnknown {
		p("Audio:       %s\n", info.Audio)
	}
	if len(info.Languages) > 0 {
		p("Subtitles:   %s\n", strings.Join(info.Languages, ", "))
	}
	if info.Version > 0 {
		p("Version:     v%d\n", info.Version)
	}
	if info.Proper {
		p("Proper:      yes\n")
	}
	if info.Repack {
		p("Repack:      yes\n")
	}
	p("CleanTitle:  %s\n", valueOrEmpty(info.CleanTitle))

	if result.Profile != "" && len(result.Breakdown) > 0 {
		p("\nScore Breakdown (profile: %s):\n", result.Profile)
		for _, b := range result.Breakdown {
			note := ""
			if b.Note != "" {
				note = ", " + b.Note
			}
			p("  %-12s (%s%s):  %+d\n", b.Attribute, b.Value, note, b.Bonus)
		}
		p("  %s\n", strings.Repeat("─", 37))
		p("  Total:                           %d\n", result.Score)
	}
}

func sourceDisplayName(s release.Source) string {
	switch s {
	case release.SourceBluRay:
		return "BluRay"
	case release.SourceWEBDL:
		return "WEB-DL"
	case release.SourceWEBRip:
		return "WEBRip"
	case release.SourceHDTV:
		return "HDTV"
	case release.SourceDVD:
		return "DVD"
	default:
		return "unknown"
	}
}

// valueOrEmpty returns the value or an empty placeholder.
func valueOrEmpty(s string) string {
	if s == "" {
		return "(none)"
	}
	return s
}

// outputJSON writes one object for a single result and an array otherwise.
func outputJSON(w io.Writer, results []ParseResult) error {
	out := make([]ParseResultJSON, len(results))
	for i, r := range results {
		out[i] = r.toJSON()
	}
	if len(out) == 1 {
		return writeJSON(w, out[0])
	}
	return writeJSON(w, out)
}
