package cmd

import (
	"fmt"

	"github.com/cinelane/cinelane/filesystem"
	"github.com/cinelane/cinelane/icon"
	"github.com/cinelane/cinelane/util"
	"github.com/cinelane/cinelane/where"
	"github.com/samber/lo"
	"github.com/samber/mo"
	"github.com/spf13/cobra"
)

// artifact is generated state that clear may remove.
type artifact struct {
	name  string
	flag  string
	short mo.Option[string]
	path  func() string
}

var artifacts = []artifact{
	{"cache directory", "cache", mo.Some("c"), where.Cache},
	{"locator snapshot", "locators", mo.Some("l"), where.Locators},
	{"queries history", "queries", mo.Some("q"), where.Queries},
	{"logs directory", "logs", mo.None[string](), where.Logs},
}

func init() {
	rootCmd.AddCommand(clearCmd)

	for _, a := range artifacts {
		usage := "clear " + a.name
		if short, ok := a.short.Get(); ok {
			clearCmd.Flags().BoolP(a.flag, short, false, usage)
		} else {
			clearCmd.Flags().Bool(a.flag, false, usage)
		}
	}
}

// clearCmd removes the selected generated artifacts.
var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove cached and generated artifacts",
	Run: func(cmd *cobra.Command, args []string) {
		selected := lo.Filter(artifacts, func(a artifact, _ int) bool {
			return lo.Must(cmd.Flags().GetBool(a.flag))
		})

		if len(selected) == 0 {
			handleErr(cmd.Help())
			return
		}

		for _, a := range selected {
			path := a.path()
			if exists, _ := filesystem.API().Exists(path); !exists {
				continue
			}

			erase := util.PrintErasable(fmt.Sprintf("%s Clearing %s...", icon.Get(icon.Progress), a.name))
			err := util.Delete(path)
			erase()
			handleErr(err)

			success("%s cleared", util.Capitalize(a.name))
		}
	},
}
