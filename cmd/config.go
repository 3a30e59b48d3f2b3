package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/AlecAivazis/survey/v2"
	"github.com/cinelane/cinelane/color"
	"github.com/cinelane/cinelane/config"
	"github.com/cinelane/cinelane/constant"
	"github.com/cinelane/cinelane/filesystem"
	"github.com/cinelane/cinelane/style"
	"github.com/cinelane/cinelane/util"
	"github.com/cinelane/cinelane/where"
	levenshtein "github.com/ka-weihe/fast-levenshtein"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/exp/slices"
)

func configFilePath() string {
	return filepath.Join(where.Config(), constant.App+".toml")
}

func errUnknownKey(name string) error {
	closest := lo.MinBy(lo.Keys(config.Default), func(a string, b string) bool {
		return levenshtein.Distance(name, a) < levenshtein.Distance(name, b)
	})

	return fmt.Errorf(
		"unknown key %s, did you mean %s?",
		style.Fg(color.Red)(name),
		style.Fg(color.Yellow)(closest),
	)
}

// lookupField returns the registered field or exits with a suggestion.
func lookupField(name string) config.Field {
	field, ok := config.Default[name]
	if !ok {
		handleErr(errUnknownKey(name))
	}
	return field
}

// keyFrom takes the key from the first argument or from --key.
func keyFrom(cmd *cobra.Command, args []string) string {
	if len(args) > 0 {
		return args[0]
	}

	if name := lo.Must(cmd.Flags().GetString("key")); name != "" {
		return name
	}

	handleErr(errors.New("key is required as an argument or --key flag"))
	return ""
}

func sortedFields() []config.Field {
	fields := lo.Values(config.Default)
	slices.SortFunc(fields, func(a, b config.Field) int {
		return strings.Compare(a.Key, b.Key)
	})
	return fields
}

func completionConfigKeys(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
	return lo.Keys(config.Default), cobra.ShellCompDirectiveNoFileComp
}

func init() {
	rootCmd.AddCommand(configCmd)
}

// configCmd serves as the parent command for managing application configuration.
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage application configuration settings and defaults",
}

func init() {
	configCmd.AddCommand(configInfoCmd)
	configInfoCmd.Flags().StringSliceP("key", "k", nil, "Limit the output to these keys")
	configInfoCmd.Flags().BoolP("json", "j", false, "Format the output as a JSON array")
	_ = configInfoCmd.RegisterFlagCompletionFunc("key", completionConfigKeys)
}

// configInfoCmd describes every configuration field, or the selected ones.
var configInfoCmd = &cobra.Command{
	Use:   "info",
	Short: "Describe configuration fields with their current and default values",
	Run: func(cmd *cobra.Command, args []string) {
		fields := sortedFields()

		if keys := lo.Must(cmd.Flags().GetStringSlice("key")); len(keys) > 0 {
			fields = lo.Map(keys, func(name string, _ int) config.Field {
				return lookupField(name)
			})
		}

		if lo.Must(cmd.Flags().GetBool("json")) {
			handleErr(json.NewEncoder(cmd.OutOrStdout()).Encode(lo.ToSlicePtr(fields)))
			return
		}

		cmd.Println(strings.Join(lo.Map(fields, func(f config.Field, _ int) string {
			return f.Pretty()
		}), "\n\n"))
	},
}

func init() {
	configCmd.AddCommand(configSetCmd)
	configSetCmd.Flags().StringP("key", "k", "", "The configuration key to update")
	configSetCmd.Flags().StringP("value", "v", "", "The new value; lists are comma separated")
	_ = configSetCmd.RegisterFlagCompletionFunc("key", completionConfigKeys)
}

// configSetCmd parses a value with the field's type and writes it to the config file.
var configSetCmd = &cobra.Command{
	Use:               "set [key] [value]",
	Short:             "Update the value of a configuration key",
	Example:           "  cinelane config set lanes.grace 750ms",
	Args:              cobra.MaximumNArgs(2),
	ValidArgsFunction: completionConfigKeys,
	Run: func(cmd *cobra.Command, args []string) {
		field := lookupField(keyFrom(cmd, args))

		var raw string
		switch {
		case len(args) == 2:
			raw = args[1]
		case cmd.Flags().Changed("value"):
			raw = lo.Must(cmd.Flags().GetString("value"))
		default:
			handleErr(errors.New("value is required as an argument or --value flag"))
		}

		value, err := field.Parse(raw)
		if err != nil {
			handleErr(fmt.Errorf("invalid %s value %q: %w", field.TypeName(), raw, err))
		}

		viper.Set(field.Key, value)
		handleErr(config.Write())
		success("set %s to %s", style.Fg(color.Purple)(field.Key), style.Fg(color.Yellow)(fmt.Sprint(value)))
	},
}

func init() {
	configCmd.AddCommand(configGetCmd)
	configGetCmd.Flags().StringP("key", "k", "", "The configuration key to read")
	_ = configGetCmd.RegisterFlagCompletionFunc("key", completionConfigKeys)
}

// configGetCmd prints the effective value of a key, environment overrides included.
var configGetCmd = &cobra.Command{
	Use:               "get [key]",
	Short:             "Print the effective value of a configuration key",
	Args:              cobra.MaximumNArgs(1),
	ValidArgsFunction: completionConfigKeys,
	Run: func(cmd *cobra.Command, args []string) {
		field := lookupField(keyFrom(cmd, args))
		cmd.Println(viper.Get(field.Key))
	},
}

func init() {
	configCmd.AddCommand(configWriteCmd)
	configWriteCmd.Flags().BoolP("force", "f", false, "Replace an existing config file")
}

// configWriteCmd writes the effective configuration to a new config file.
var configWriteCmd = &cobra.Command{
	Use:   "write",
	Short: "Write the effective configuration to the config file",
	Run: func(cmd *cobra.Command, args []string) {
		path := configFilePath()

		if lo.Must(cmd.Flags().GetBool("force")) {
			if exists, _ := filesystem.API().Exists(path); exists {
				handleErr(filesystem.API().Remove(path))
			}
		}

		handleErr(viper.SafeWriteConfig())
		success("wrote config to %s", path)
	},
}

func init() {
	configCmd.AddCommand(configDeleteCmd)
	configDeleteCmd.Flags().BoolP("yes", "y", false, "Do not ask for confirmation")
}

// configDeleteCmd removes the config file; defaults and environment still apply afterwards.
var configDeleteCmd = &cobra.Command{
	Use:     "delete",
	Short:   "Remove the config file",
	Aliases: []string{"remove"},
	Run: func(cmd *cobra.Command, args []string) {
		if !lo.Must(cmd.Flags().GetBool("yes")) && util.IsTerminal() {
			var response bool
			handleErr(survey.AskOne(&survey.Confirm{Message: "Delete the config file?"}, &response))
			if !response {
				return
			}
		}

		handleErr(filesystem.API().Remove(configFilePath()))
		success("deleted config")
	},
}

func init() {
	configCmd.AddCommand(configResetCmd)
	configResetCmd.Flags().StringP("key", "k", "", "The configuration key to restore")
	configResetCmd.Flags().BoolP("all", "a", false, "Restore every configuration key")
	configResetCmd.MarkFlagsMutuallyExclusive("key", "all")
	_ = configResetCmd.RegisterFlagCompletionFunc("key", completionConfigKeys)
}

// configResetCmd restores one key, or all of them, to the registered default.
var configResetCmd = &cobra.Command{
	Use:               "reset [key]",
	Short:             "Restore configuration keys to their defaults",
	Args:              cobra.MaximumNArgs(1),
	ValidArgsFunction: completionConfigKeys,
	Run: func(cmd *cobra.Command, args []string) {
		if lo.Must(cmd.Flags().GetBool("all")) {
			for _, field := range config.Default {
				viper.Set(field.Key, field.Value)
			}
			handleErr(config.Write())
			success("reset all config values")
			return
		}

		field := lookupField(keyFrom(cmd, args))
		viper.Set(field.Key, field.Value)
		handleErr(config.Write())
		success("reset %s to %s", style.Fg(color.Purple)(field.Key), style.Fg(color.Yellow)(fmt.Sprint(field.Value)))
	},
}
