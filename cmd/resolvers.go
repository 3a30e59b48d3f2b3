package cmd

import (
	"errors"
	"fmt"
	"os"
	"os/user"
	"path/filepath"
	"strings"
	"text/template"

	"github.com/AlecAivazis/survey/v2"
	"github.com/cinelane/cinelane/color"
	"github.com/cinelane/cinelane/constant"
	"github.com/cinelane/cinelane/filesystem"
	"github.com/cinelane/cinelane/icon"
	"github.com/cinelane/cinelane/key"
	"github.com/cinelane/cinelane/resolver"
	"github.com/cinelane/cinelane/resolver/script"
	"github.com/cinelane/cinelane/style"
	"github.com/cinelane/cinelane/util"
	"github.com/cinelane/cinelane/where"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	rootCmd.AddCommand(resolversCmd)
}

// resolversCmd groups the commands managing resolver collaborators.
var resolversCmd = &cobra.Command{
	Use:   "resolvers",
	Short: "Manage the catalog and Lua resolvers",
}

func init() {
	resolversCmd.AddCommand(resolversListCmd)
	resolversListCmd.Flags().BoolP("raw", "r", false, "Print only the resolver names")
	resolversListCmd.SetOut(os.Stdout)
}

var resolversListCmd = &cobra.Command{
	Use:   "list",
	Short: "List every available resolver",
	Run: func(cmd *cobra.Command, args []string) {
		raw := lo.Must(cmd.Flags().GetBool("raw"))
		current := viper.GetString(key.ResolverDefault)

		for _, name := range resolver.Available() {
			if raw {
				cmd.Println(name)
				continue
			}

			mark := style.Fg(color.Blue)(icon.Get(icon.Lua))
			if name == resolver.Catalog {
				mark = style.Fg(color.Yellow)(icon.Get(icon.Search))
			}

			line := fmt.Sprintf("%s %s", mark, name)
			if name == current {
				line += style.Faint(" (default)")
			}
			cmd.Println(line)
		}
	},
}

func init() {
	resolversCmd.AddCommand(resolversNewCmd)
	resolversNewCmd.Flags().StringP("name", "n", "", "The name of the new resolver")
}

// resolversNewCmd scaffolds a Lua resolver script.
var resolversNewCmd = &cobra.Command{
	Use:   "new",
	Short: "Scaffold a new Lua resolver script",
	Run: func(cmd *cobra.Command, args []string) {
		name := lo.Must(cmd.Flags().GetString("name"))
		if name == "" {
			if !util.IsTerminal() {
				handleErr(errors.New("--name is required when not running in a terminal"))
			}
			handleErr(survey.AskOne(&survey.Input{Message: "Resolver name:"}, &name, survey.WithValidator(survey.Required)))
		}

		name = util.SanitizeFilename(strings.TrimSpace(name))
		if name == "" || name == resolver.Catalog {
			handleErr(fmt.Errorf("invalid resolver name %q", name))
		}

		author := "Anonymous"
		if usr, err := user.Current(); err == nil {
			author = usr.Username
		}

		s := struct {
			Name      string
			Author    string
			SearchFn  string
			PopularFn string
		}{
			Name:      name,
			Author:    author,
			SearchFn:  constant.SearchFn,
			PopularFn: constant.PopularFn,
		}

		tmpl, err := template.New("resolver").Funcs(template.FuncMap{
			"repeat": strings.Repeat,
			"plus":   func(a, b int) int { return a + b },
		}).Parse(constant.ResolverTemplate)
		handleErr(err)

		target := filepath.Join(where.Resolvers(), name+".lua")
		if exists, _ := filesystem.API().Exists(target); exists {
			handleErr(fmt.Errorf("resolver %s already exists at %s", name, target))
		}

		f, err := filesystem.API().Create(target)
		handleErr(err)

		err = tmpl.Execute(f, s)
		util.Ignore(f.Close)
		handleErr(err)

		success("created %s", target)
	},
}

func init() {
	resolversCmd.AddCommand(resolversCheckCmd)
}

// resolversCheckCmd loads a script to report syntax errors and missing entry points.
var resolversCheckCmd = &cobra.Command{
	Use:   "check [file]",
	Short: "Load a Lua resolver script and report problems",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		r, err := script.Load(args[0])
		handleErr(err)
		r.Close()

		success("%s defines %s and %s", r.Name(), constant.SearchFn, constant.PopularFn)
	},
}
