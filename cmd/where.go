package cmd

import (
	"os"

	"github.com/cinelane/cinelane/color"
	"github.com/cinelane/cinelane/open"
	"github.com/cinelane/cinelane/style"
	"github.com/cinelane/cinelane/where"
	"github.com/samber/lo"
	"github.com/samber/mo"
	"github.com/spf13/cobra"
)

// location is a path cinelane reads or writes, selectable with its own flag.
type location struct {
	title string
	flag  string
	short mo.Option[string]
	path  func() string
	// listed locations are printed when no flag is given.
	listed bool
}

var locations = []location{
	{"Config", "config", mo.Some("c"), where.Config, true},
	{"Resolvers", "resolvers", mo.Some("r"), where.Resolvers, true},
	{"Logs", "logs", mo.Some("l"), where.Logs, true},
	{"Cache", "cache", mo.None[string](), where.Cache, true},
	{"Locators", "locators", mo.None[string](), where.Locators, false},
	{"Queries", "queries", mo.None[string](), where.Queries, false},
}

func init() {
	rootCmd.AddCommand(whereCmd)

	for _, l := range locations {
		usage := l.title + " path"
		if short, ok := l.short.Get(); ok {
			whereCmd.Flags().BoolP(l.flag, short, false, usage)
		} else {
			whereCmd.Flags().Bool(l.flag, false, usage)
		}
	}

	whereCmd.MarkFlagsMutuallyExclusive(lo.Map(locations, func(l location, _ int) string {
		return l.flag
	})...)
	whereCmd.Flags().BoolP("open", "o", false, "Open the selected path with the default handler")
	whereCmd.SetOut(os.Stdout)
}

// whereCmd prints the filesystem locations used by cinelane.
var whereCmd = &cobra.Command{
	Use:   "where",
	Short: "Print the filesystem locations used by cinelane",
	Run: func(cmd *cobra.Command, args []string) {
		selected, ok := lo.Find(locations, func(l location) bool {
			return lo.Must(cmd.Flags().GetBool(l.flag))
		})

		if ok {
			if lo.Must(cmd.Flags().GetBool("open")) {
				handleErr(open.Start(selected.path()))
				return
			}
			cmd.Println(selected.path())
			return
		}

		header := style.New().Bold(true).Foreground(color.HiPurple).Render
		listed := lo.Filter(locations, func(l location, _ int) bool { return l.listed })
		for i, l := range listed {
			if i > 0 {
				cmd.Println()
			}
			cmd.Printf("%s %s\n%s\n", header(l.title+"?"), style.Fg(color.Yellow)("--"+l.flag), l.path())
		}
	},
}
