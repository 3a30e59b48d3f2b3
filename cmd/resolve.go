package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"strings"
	"time"

	"github.com/AlecAivazis/survey/v2"
	"github.com/cinelane/cinelane/color"
	"github.com/cinelane/cinelane/icon"
	"github.com/cinelane/cinelane/locator"
	"github.com/cinelane/cinelane/log"
	"github.com/cinelane/cinelane/open"
	"github.com/cinelane/cinelane/query"
	"github.com/cinelane/cinelane/session"
	"github.com/cinelane/cinelane/style"
	"github.com/cinelane/cinelane/util"
	"github.com/invopop/jsonschema"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
)

// resolveOutput is printed by "resolve --json".
type resolveOutput struct {
	Query   string        `json:"query" jsonschema:"description=Title as typed"`
	Key     string        `json:"key" jsonschema:"description=Normalized cache key"`
	State   string        `json:"state" jsonschema:"enum=ready,enum=failed"`
	Locator string        `json:"locator,omitempty" jsonschema:"description=Playable locator when resolved"`
	Cached  bool          `json:"cached" jsonschema:"description=Whether the locator came from the cache"`
	Elapsed time.Duration `json:"elapsed" jsonschema:"description=Resolution time in nanoseconds"`
	Error   string        `json:"error,omitempty"`
}

func init() {
	rootCmd.AddCommand(resolveCmd)
	resolveCmd.Flags().BoolP("json", "j", false, "Format the output as a JSON object")
	resolveCmd.Flags().Bool("schema", false, "Print the JSON schema of the --json output and exit")
	resolveCmd.Flags().BoolP("no-cache", "n", false, "Skip the locator cache lookup")
	resolveCmd.Flags().BoolP("open", "o", false, "Open the locator with the default handler")
	resolveCmd.SetOut(os.Stdout)
}

// resolveCmd resolves a title to a locator without playing it.
var resolveCmd = &cobra.Command{
	Use:     "resolve [title]",
	Short:   "Resolve a title to a playable locator",
	Example: "  cinelane resolve \"big buck bunny\" --json",
	Run: func(cmd *cobra.Command, args []string) {
		if lo.Must(cmd.Flags().GetBool("schema")) {
			reflector := new(jsonschema.Reflector)
			reflector.Anonymous = true
			handleErr(json.NewEncoder(cmd.OutOrStdout()).Encode(reflector.Reflect(&resolveOutput{})))
			return
		}

		asJson := lo.Must(cmd.Flags().GetBool("json"))

		title := strings.TrimSpace(strings.Join(args, " "))
		if title == "" {
			title = promptTitle()
		}

		ctx := context.Background()
		res, err := openResolution(ctx)
		handleErr(err)

		if lo.Must(cmd.Flags().GetBool("no-cache")) {
			res.cache.Remove(title)
		}

		output := resolveOutput{
			Query:  title,
			Key:    locator.NormalizeKey(title),
			Cached: res.cache.Get(title).IsPresent(),
		}

		started := time.Now()
		loc, err := res.sessions.Start(ctx, title).Wait(ctx)
		output.Elapsed = time.Since(started)
		res.Close()

		if err != nil {
			output.State = session.Failed.String()
			output.Error = err.Error()
		} else {
			output.State = session.Ready.String()
			output.Locator = loc
			if err := query.Remember(title, 1); err != nil {
				log.Warnf("remembering query: %s", err)
			}
		}

		if asJson {
			handleErr(json.NewEncoder(cmd.OutOrStdout()).Encode(output))
			return
		}

		handleErr(err)

		mark := style.Fg(color.Blue)(icon.Get(icon.Link))
		if output.Cached {
			mark = style.Fg(color.Yellow)(icon.Get(icon.Cache))
		}
		cmd.Printf("%s %s\n", mark, output.Locator)

		if lo.Must(cmd.Flags().GetBool("open")) {
			handleErr(open.Start(output.Locator))
		}
	},
}

func promptTitle() string {
	if !util.IsTerminal() {
		handleErr(errors.New("a title is required when not running in a terminal"))
	}

	input := survey.Input{
		Message: "Title:",
		Suggest: query.SuggestMany,
	}
	if suggestion, ok := query.Suggest("").Get(); ok {
		input.Default = suggestion
	}

	var title string
	handleErr(survey.AskOne(&input, &title, survey.WithValidator(survey.Required)))
	return strings.TrimSpace(title)
}
