package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/vmunix/anirange/pkg/episode"
	"github.com/vmunix/anirange/pkg/release"
)

type containsResult struct {
	Name     string `json:"name"`
	Episodes string `json:"episodes"`
	Episode  string `json:"episode"`
	Contains bool   `json:"contains"`
}

var containsCmd = &cobra.Command{
	Use:   "contains [flags] <release-name> <episode>",
	Short: "Check whether a release holds an episode",
	Long: `Parse a release name and report whether its episode range holds the
given episode. Episodes are written as release names write them: 5, 12.5,
SP1, OVA.

Season packs hold every episode unless --no-season is given. A normal
episode number also matches a special with the same number unless
--no-special is given.

Examples:
  anirange contains "[Group] Show [01-12][1080p]" 7
  anirange contains --no-season "[Group] Show S2 [Complete]" 3`,
	Args: cobra.ExactArgs(2),
	RunE: runContainsCmd,
}

func init() {
	rootCmd.AddCommand(containsCmd)
	containsCmd.Flags().Bool("no-season", false, "Do not treat season packs as holding every episode")
	containsCmd.Flags().Bool("no-special", false, "Match specials only by exact type")
}

func runContainsCmd(cmd *cobra.Command, args []string) error {
	noSeason, _ := cmd.Flags().GetBool("no-season")
	noSpecial, _ := cmd.Flags().GetBool("no-special")

	var opts []episode.ContainsOption
	if noSeason {
		opts = append(opts, episode.WithoutSeason())
	}
	if noSpecial {
		opts = append(opts, episode.WithoutSpecial())
	}

	result := checkContains(args[0], episode.ParseSort(args[1]), opts...)
	out := cmd.OutOrStdout()
	if jsonOutput {
		return writeJSON(out, result)
	}
	printContains(out, result)
	return nil
}

func checkContains(name string, ep episode.Sort, opts ...episode.ContainsOption) containsResult {
	info := release.Parse(name)
	return containsResult{
		Name:     name,
		Episodes: info.Episodes.String(),
		Episode:  ep.String(),
		Contains: episode.Contains(info.Episodes, ep, opts...),
	}
}

func printContains(w io.Writer, r containsResult) {
	verdict := "does not contain"
	if r.Contains {
		verdict = "contains"
	}
	_, _ = fmt.Fprintf(w, "%s %s %s\n", r.Episodes, verdict, r.Episode)
}
