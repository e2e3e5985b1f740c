package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/Typas/GW2-api-img/internal/config"
	"github.com/Typas/GW2-api-img/internal/gw2api"
	"github.com/Typas/GW2-api-img/internal/pipeline"
)

var version = "dev"

var rootCmd = &cobra.Command{
	Use:   "gw2ref",
	Short: "Render Guild Wars 2 buff, trait and skill icons as markdown references",
	Long: `Render Guild Wars 2 buff, trait and skill icons as markdown references.

Fetches every specialization, skill and trait from the v2 API and prints
markdown link references grouped by profession, one per line:

  ## Buffs
  [Might]: https://render.guildwars2.com/file/....png
  ## Guardian
  ### Zeal
  [Fiery Wrath]: https://render.guildwars2.com/file/....png`,
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runPipeline(cmd.Context(), cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(versionCmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func runPipeline(ctx context.Context, out io.Writer) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	slog.SetDefault(newLogger(cfg.Log.Level))

	timeout, err := cfg.RequestTimeout()
	if err != nil {
		return err
	}
	client := gw2api.New(cfg.API.BaseURL, gw2api.Options{
		ChunkSize: cfg.API.ChunkSize,
		Lang:      cfg.API.Lang,
		Timeout:   timeout,
		Logger:    slog.Default(),
	})

	printStep("Fetching reference data from %s", cfg.API.BaseURL)
	lines, stats, err := pipeline.NewDriver(client, slog.Default()).Run(ctx)
	if err != nil {
		return err
	}

	if err := pipeline.Write(out, lines); err != nil {
		return fmt.Errorf("writing output: %w", err)
	}
	printSuccess("Rendered %d buffs, %d traits, %d skills in %s",
		stats.Buffs, stats.Traits, stats.Skills, stats.Duration.Round(time.Millisecond))
	return nil
}

// newLogger writes text logs to stderr so stdout carries only markdown.
func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
}
