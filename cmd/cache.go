package cmd

import (
	"encoding/json"
	"os"
	"time"

	"github.com/AlecAivazis/survey/v2"
	"github.com/cinelane/cinelane/color"
	"github.com/cinelane/cinelane/locator"
	"github.com/cinelane/cinelane/style"
	"github.com/cinelane/cinelane/util"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"golang.org/x/exp/slices"
)

func init() {
	rootCmd.AddCommand(cacheCmd)
}

// cacheCmd groups the locator cache maintenance commands.
var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Inspect and maintain the locator cache",
}

func init() {
	cacheCmd.AddCommand(cacheStatsCmd)
	cacheStatsCmd.Flags().BoolP("json", "j", false, "Format the output as a JSON object")
	cacheStatsCmd.SetOut(os.Stdout)
}

var cacheStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Display the number of cached locators and the age of the oldest",
	Run: func(cmd *cobra.Command, args []string) {
		cache, err := openCache()
		handleErr(err)

		stats := cache.Stats()
		if lo.Must(cmd.Flags().GetBool("json")) {
			handleErr(json.NewEncoder(cmd.OutOrStdout()).Encode(stats))
			return
		}

		label := style.New().Bold(true).Foreground(color.HiPurple).Render
		cmd.Printf("%s %s\n", label("Entries"), util.Quantify(stats.Count, "locator", "locators"))
		if oldest, ok := stats.Oldest.Get(); ok {
			cmd.Printf("%s %s ago\n", label("Oldest"), time.Since(oldest).Round(time.Second))
		}
	},
}

func init() {
	cacheCmd.AddCommand(cacheListCmd)
	cacheListCmd.SetOut(os.Stdout)
}

var cacheListCmd = &cobra.Command{
	Use:   "list",
	Short: "List cached locators, oldest first",
	Run: func(cmd *cobra.Command, args []string) {
		cache, err := openCache()
		handleErr(err)

		entries := cache.Entries()
		slices.SortFunc(entries, func(a, b locator.Entry) int {
			return a.InsertedAt.Compare(b.InsertedAt)
		})

		for _, entry := range entries {
			cmd.Printf("%s %s\n", style.Fg(color.Purple)(entry.Key), entry.Value)
		}
	},
}

func init() {
	cacheCmd.AddCommand(cacheClearCmd)
	cacheClearCmd.Flags().BoolP("yes", "y", false, "Do not ask for confirmation")
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Drop every cached locator",
	Run: func(cmd *cobra.Command, args []string) {
		if !lo.Must(cmd.Flags().GetBool("yes")) && util.IsTerminal() {
			var response bool
			handleErr(survey.AskOne(&survey.Confirm{Message: "Drop every cached locator?"}, &response))
			if !response {
				return
			}
		}

		cache, err := openCache()
		handleErr(err)

		n := cache.Len()
		cache.Clear()
		handleErr(cache.Save())
		success("cleared %s", util.Quantify(n, "locator", "locators"))
	},
}

func init() {
	cacheCmd.AddCommand(cachePruneCmd)
}

var cachePruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Remove expired locators from the cache snapshot",
	Run: func(cmd *cobra.Command, args []string) {
		cache, err := openCache()
		handleErr(err)

		n := cache.Prune()
		handleErr(cache.Save())
		success("pruned %s", util.Quantify(n, "locator", "locators"))
	},
}
