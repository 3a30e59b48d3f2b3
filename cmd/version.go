package cmd

import (
	"context"
	"fmt"
	"os"
	"runtime"
	"strings"
	"text/template"

	"github.com/cinelane/cinelane/color"
	"github.com/cinelane/cinelane/constant"
	"github.com/cinelane/cinelane/icon"
	"github.com/cinelane/cinelane/key"
	"github.com/cinelane/cinelane/style"
	"github.com/cinelane/cinelane/util"
	"github.com/cinelane/cinelane/version"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var versionTemplate = lo.Must(template.New("version").Funcs(template.FuncMap{
	"faint":   style.Faint,
	"bold":    style.Bold,
	"magenta": style.Fg(color.Purple),
	"pad": func(s string) string {
		return s + strings.Repeat(" ", max(0, 12-len(s)))
	},
}).Parse(`{{ magenta "▇▇▇" }} {{ magenta .App }}
{{ range .Rows }}
  {{ faint (pad (index . 0)) }} {{ bold (index . 1) }}{{ end }}
`))

func init() {
	rootCmd.AddCommand(versionCmd)
	versionCmd.SetOut(os.Stdout)
	versionCmd.Flags().BoolP("short", "s", false, "Print only the version number")
	versionCmd.Flags().BoolP("check", "c", false, "Check whether a newer release is available")

	helpFunc := rootCmd.HelpFunc()
	rootCmd.SetHelpFunc(func(cmd *cobra.Command, args []string) {
		helpFunc(cmd, args)
		if viper.GetBool(key.CliVersionCheck) {
			notifyNewer()
		}
	})
}

// versionCmd prints the version with build metadata.
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version and build metadata",
	Run: func(cmd *cobra.Command, args []string) {
		if lo.Must(cmd.Flags().GetBool("short")) {
			cmd.Println(constant.Version)
			return
		}

		if viper.GetBool(key.CliVersionCheck) || lo.Must(cmd.Flags().GetBool("check")) {
			defer notifyNewer()
		}

		handleErr(versionTemplate.Execute(cmd.OutOrStdout(), struct {
			App  string
			Rows [][2]string
		}{
			App: constant.App,
			Rows: [][2]string{
				{"Version", constant.Version},
				{"Git Commit", constant.Revision},
				{"Build Date", strings.TrimSpace(constant.BuiltAt)},
				{"Built By", constant.BuiltBy},
				{"Go", runtime.Version()},
				{"Platform", runtime.GOOS + "/" + runtime.GOARCH},
			},
		}))
	},
}

// notifyNewer prints a notice when a newer release is published. Lookup failures are silent.
func notifyNewer() {
	erase := util.PrintErasable(fmt.Sprintf("%s Checking if new version is available...", icon.Get(icon.Progress)))
	latest, newer, err := version.Newer(context.Background())
	erase()

	if err != nil || !newer {
		return
	}

	fmt.Printf("\n%s New version is available %s %s\n%s\n\n",
		style.Fg(color.Green)("▇▇▇"),
		style.Bold(latest),
		style.Faint(fmt.Sprintf("(You're on %s)", constant.Version)),
		style.Faint("https://github.com/cinelane/cinelane/releases/tag/v"+latest),
	)
}
