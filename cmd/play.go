package cmd

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/cinelane/cinelane/tui"
	"github.com/cinelane/cinelane/util"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
)

func addPlayFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("subs", "s", "", "Subtitle file in block (SRT) format")
	cmd.Flags().Bool("sample-subs", false, "Load the built-in sample subtitle track")
	cmd.Flags().BoolP("mirror", "m", false, "Mirror subtitles on the player on-screen display")
	cmd.Flags().IntP("lanes", "l", 0, "Override the number of live comment lanes")
	cmd.MarkFlagsMutuallyExclusive("subs", "sample-subs")
}

func init() {
	rootCmd.AddCommand(playCmd)
	addPlayFlags(playCmd)
}

// playCmd resolves a title and opens the terminal surface over the player.
var playCmd = &cobra.Command{
	Use:     "play [title]",
	Short:   "Resolve a title and play it with live comment lanes and subtitles",
	Example: "  cinelane play sintel --sample-subs",
	Run:     runPlay,
}

func runPlay(cmd *cobra.Command, args []string) {
	title := strings.TrimSpace(strings.Join(args, " "))
	if title == "" && !util.IsTerminal() {
		handleErr(errors.New("a title is required when not running in a terminal"))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	st, err := openStack(ctx, stackOptions{
		subs:   lo.Must(cmd.Flags().GetString("subs")),
		sample: lo.Must(cmd.Flags().GetBool("sample-subs")),
		mirror: lo.Must(cmd.Flags().GetBool("mirror")),
		lanes:  lo.Must(cmd.Flags().GetInt("lanes")),
	})
	handleErr(err)
	st.cache.ClearOn(ctx, pressure(ctx))

	err = tui.Run(ctx, st.surface, &tui.Options{Title: title})
	st.Close()

	if errors.Is(err, context.Canceled) {
		return
	}
	handleErr(err)
}
