package cmd

import (
	"errors"
	"os"
	"strings"

	"github.com/AlecAivazis/survey/v2"
	"github.com/cinelane/cinelane/auth"
	"github.com/cinelane/cinelane/color"
	"github.com/cinelane/cinelane/style"
	"github.com/cinelane/cinelane/util"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(authCmd)
}

// authCmd manages the API token exposed to Lua resolvers through token().
var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Manage the resolver API token stored in the system keyring",
}

func init() {
	authCmd.AddCommand(authSetCmd)
	authSetCmd.Flags().StringP("token", "t", "", "The token to store; prompted for when omitted")
}

var authSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Store the resolver API token",
	Run: func(cmd *cobra.Command, args []string) {
		token := lo.Must(cmd.Flags().GetString("token"))

		if token == "" {
			if !util.IsTerminal() {
				handleErr(errors.New("--token is required when not running in a terminal"))
			}

			handleErr(survey.AskOne(&survey.Password{Message: "Resolver API token:"}, &token, survey.WithValidator(survey.Required)))
		}

		handleErr(auth.SetToken(strings.TrimSpace(token)))
		success("token saved to the keyring")
	},
}

func init() {
	authCmd.AddCommand(authGetCmd)
	authGetCmd.Flags().BoolP("reveal", "r", false, "Print the token instead of masking it")
	authGetCmd.SetOut(os.Stdout)
}

var authGetCmd = &cobra.Command{
	Use:   "get",
	Short: "Show whether a resolver API token is stored",
	Run: func(cmd *cobra.Command, args []string) {
		stored, err := auth.GetToken()
		handleErr(err)

		token, ok := stored.Get()
		if !ok {
			cmd.Println(style.Fg(color.Red)("unset"))
			return
		}

		if !lo.Must(cmd.Flags().GetBool("reveal")) {
			token = maskToken(token)
		}
		cmd.Println(style.Fg(color.Green)(token))
	},
}

func init() {
	authCmd.AddCommand(authDeleteCmd)
	authDeleteCmd.Flags().BoolP("yes", "y", false, "Do not ask for confirmation")
}

var authDeleteCmd = &cobra.Command{
	Use:     "delete",
	Short:   "Remove the resolver API token from the keyring",
	Aliases: []string{"remove"},
	Run: func(cmd *cobra.Command, args []string) {
		if !lo.Must(cmd.Flags().GetBool("yes")) && util.IsTerminal() {
			var response bool
			handleErr(survey.AskOne(&survey.Confirm{Message: "Remove the resolver API token?"}, &response))
			if !response {
				return
			}
		}

		handleErr(auth.DeleteToken())
		success("token removed")
	},
}

// maskToken keeps the last four characters of tokens long enough to stay secret.
func maskToken(token string) string {
	if len(token) <= 8 {
		return strings.Repeat("*", len(token))
	}
	return strings.Repeat("*", len(token)-4) + token[len(token)-4:]
}
