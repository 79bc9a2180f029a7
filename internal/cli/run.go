package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/law-makers/shopcrawl/internal/catalog"
	"github.com/law-makers/shopcrawl/internal/config"
	"github.com/law-makers/shopcrawl/internal/crawler"
	"github.com/law-makers/shopcrawl/internal/ui"
)

var runCmd = &cobra.Command{
	Use:   "run [seed-url ...]",
	Short: "Crawl a store from its listing pages",
	Long: `Crawl a store starting from the seed URLs.

Every page is rendered, each product block is read into a record and the
page's product links are followed. Seeds default to --seed, CRAWL_SEED_URLS
or the built-in store URL.`,
	Example: `  # Crawl the default store into storage/datasets/default
  shopcrawl run

  # Crawl a store without a browser and write JSON lines
  shopcrawl run https://shop.example.com/store --mode static -o products.jsonl

  # Use custom selectors and store into SQLite
  shopcrawl run https://shop.example.com --item-selector ".card" --name-selector "h3" -o shop.db`,
	RunE: runCrawl,
}

func init() {
	config.RegisterCrawlFlags(runCmd)
	rootCmd.AddCommand(runCmd)
}

func runCrawl(cmd *cobra.Command, args []string) error {
	a := GetApp(cmd)
	if a == nil {
		return errors.New("application not initialized")
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = a.Close(ctx)
	}()

	seeds := args
	if len(seeds) == 0 {
		seeds = a.Config.SeedURLs
	}

	opts, err := a.RunOptions()
	if err != nil {
		return err
	}

	var bar *progressbar.ProgressBar
	if a.Config.Progress && term.IsTerminal(int(os.Stderr.Fd())) {
		bar = progressbar.NewOptions(-1,
			progressbar.OptionSetWriter(os.Stderr),
			progressbar.OptionSetDescription("Crawling"),
			progressbar.OptionSpinnerType(14),
			progressbar.OptionShowCount(),
			progressbar.OptionSetItsString("pages"),
			progressbar.OptionShowIts(),
			progressbar.OptionClearOnFinish(),
		)
		opts.OnRequestDone = func(*crawler.Request, error) { _ = bar.Add(1) }
	}

	stats, err := catalog.Run(cmd.Context(), opts, seeds)
	if bar != nil {
		_ = bar.Finish()
	}
	if err != nil {
		return err
	}

	if a.Config.LogLevel != "error" {
		printSummary(cmd.OutOrStdout(), stats, a.Config.Output)
	}
	return nil
}

// printSummary writes the end-of-run report
func printSummary(w io.Writer, stats crawler.Stats, output string) {
	fmt.Fprintf(w, "\n%s\n", ui.Bold("Crawl summary"))
	fmt.Fprintf(w, "  Pages stored   %s\n", ui.Success(fmt.Sprint(stats.Finished)))
	if stats.Failed > 0 {
		fmt.Fprintf(w, "  Pages failed   %s\n", ui.Error(fmt.Sprint(stats.Failed)))
	} else {
		fmt.Fprintf(w, "  Pages failed   %d\n", stats.Failed)
	}
	fmt.Fprintf(w, "  Retries        %d\n", stats.Retries)
	fmt.Fprintf(w, "  Duration       %s\n", stats.Duration.Round(time.Millisecond))
	fmt.Fprintf(w, "  Output         %s\n", ui.Info(output))
}
