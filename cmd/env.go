package cmd

import (
	"encoding/json"
	"os"

	"github.com/cinelane/cinelane/color"
	"github.com/cinelane/cinelane/config"
	"github.com/cinelane/cinelane/style"
	"github.com/cinelane/cinelane/where"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
)

type envVariable struct {
	Name  string `json:"name"`
	Value string `json:"value,omitempty"`
	Set   bool   `json:"set"`
}

func environment() []envVariable {
	names := append([]string{where.EnvConfigPath}, lo.Map(sortedFields(), func(f config.Field, _ int) string {
		return f.Env()
	})...)

	return lo.Map(names, func(name string, _ int) envVariable {
		value, set := os.LookupEnv(name)
		return envVariable{Name: name, Value: value, Set: set && value != ""}
	})
}

func init() {
	rootCmd.AddCommand(envCmd)
	envCmd.Flags().BoolP("set-only", "s", false, "Show only variables that are set")
	envCmd.Flags().BoolP("unset-only", "u", false, "Show only variables that are unset")
	envCmd.Flags().BoolP("json", "j", false, "Format the output as a JSON array")
	envCmd.MarkFlagsMutuallyExclusive("set-only", "unset-only")
	envCmd.SetOut(os.Stdout)
}

// envCmd lists the environment variables that override configuration keys.
var envCmd = &cobra.Command{
	Use:   "env",
	Short: "List the environment variables that override configuration",
	Run: func(cmd *cobra.Command, args []string) {
		setOnly := lo.Must(cmd.Flags().GetBool("set-only"))
		unsetOnly := lo.Must(cmd.Flags().GetBool("unset-only"))

		variables := lo.Filter(environment(), func(v envVariable, _ int) bool {
			return !(setOnly && !v.Set) && !(unsetOnly && v.Set)
		})

		if lo.Must(cmd.Flags().GetBool("json")) {
			handleErr(json.NewEncoder(cmd.OutOrStdout()).Encode(variables))
			return
		}

		name := style.New().Bold(true).Foreground(color.Purple).Render
		for _, v := range variables {
			value := style.Fg(color.Red)("unset")
			if v.Set {
				value = style.Fg(color.Green)(v.Value)
			}
			cmd.Printf("%s=%s\n", name(v.Name), value)
		}
	},
}
