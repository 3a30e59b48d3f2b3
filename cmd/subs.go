package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/cinelane/cinelane/color"
	"github.com/cinelane/cinelane/icon"
	"github.com/cinelane/cinelane/style"
	"github.com/cinelane/cinelane/subtitle"
	"github.com/cinelane/cinelane/util"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
)

type cueOutput struct {
	Start time.Duration `json:"start"`
	End   time.Duration `json:"end"`
	Text  string        `json:"text"`
}

func init() {
	rootCmd.AddCommand(subsCmd)
	subsCmd.Flags().BoolP("json", "j", false, "Format the cues as a JSON array")
	subsCmd.Flags().Bool("sample", false, "Use the built-in sample track instead of a file")
	subsCmd.Flags().StringP("at", "a", "", "Print only the cue visible at this position (e.g. 1m30s)")
	subsCmd.SetOut(os.Stdout)
}

// subsCmd parses a subtitle file and prints its cues.
var subsCmd = &cobra.Command{
	Use:     "subs [file]",
	Short:   "Parse a block (SRT) subtitle file and print its cues",
	Args:    cobra.MaximumNArgs(1),
	Example: "  cinelane subs movie.srt --at 2m5s",
	Run: func(cmd *cobra.Command, args []string) {
		index := subtitle.New()

		switch {
		case lo.Must(cmd.Flags().GetBool("sample")):
			index.Load(subtitle.Sample())
		case len(args) == 1:
			_, err := index.LoadFile(args[0])
			handleErr(err)
		default:
			handleErr(errors.New("a subtitle file or --sample is required"))
		}

		cues := index.Cues()

		if at := lo.Must(cmd.Flags().GetString("at")); at != "" {
			position, err := time.ParseDuration(at)
			handleErr(err)

			transition, ok := index.Resolve(position).Get()
			if !ok {
				handleErr(fmt.Errorf("no cue at %s", position))
			}
			cues = cues[transition.Index : transition.Index+1]
		}

		if lo.Must(cmd.Flags().GetBool("json")) {
			handleErr(json.NewEncoder(cmd.OutOrStdout()).Encode(lo.Map(cues, func(c subtitle.Cue, _ int) cueOutput {
				return cueOutput{Start: c.Start, End: c.End, Text: c.Text}
			})))
			return
		}

		timing := style.Fg(color.Purple)
		for _, cue := range cues {
			cmd.Printf("%s %s\n", timing(cue.Start.String()+" → "+cue.End.String()), strings.ReplaceAll(cue.Text, "\n", " / "))
		}

		cmd.Printf("%s %s\n", style.Fg(color.Blue)(icon.Get(icon.Subtitle)), style.Faint(util.Quantify(len(cues), "cue", "cues")))
	},
}
