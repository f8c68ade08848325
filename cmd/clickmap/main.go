package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"clickmap/internal/capture"
	"clickmap/internal/config"
	"clickmap/internal/driver"
	"clickmap/internal/interact"
	"clickmap/internal/repl"
	"clickmap/internal/scan"
)

var (
	headless    bool
	output      string
	screenshot  string
	thumbnail   string
	interactive bool
	width       int
	height      int
	timeout     string
	profile     string
	verbose     bool
)

// thumbnailWidth is the pixel width of --thumbnail output; height follows
// the viewport's aspect ratio.
const thumbnailWidth = 320

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "clickmap <url>",
		Short: "Enumerate, highlight and click the clickable elements of a webpage",
		Long: `clickmap loads a webpage, finds every element a user could plausibly
click, classifies each one, and prints them as an indexed list. Indices can
then be used to highlight or click elements interactively.

Example:
  clickmap "https://example.com" --interact --output elements.json`,
		Args: cobra.ExactArgs(1),
		RunE: run,
	}

	rootCmd.Flags().BoolVar(&headless, "headless", false, "Run the browser headless")
	rootCmd.Flags().StringVarP(&output, "output", "o", "", "Write the analysis to a JSON file")
	rootCmd.Flags().StringVar(&screenshot, "screenshot", "", "Save a PNG screenshot after analysis")
	rootCmd.Flags().StringVar(&thumbnail, "thumbnail", "", "Save a scaled-down PNG screenshot after analysis")
	rootCmd.Flags().BoolVar(&interactive, "interact", false, "Enter interactive mode after analysis")
	rootCmd.Flags().IntVar(&width, "width", 0, "Viewport width")
	rootCmd.Flags().IntVar(&height, "height", 0, "Viewport height")
	rootCmd.Flags().StringVar(&timeout, "timeout", "", "Post-click navigation timeout (e.g. 10s)")
	rootCmd.Flags().StringVar(&profile, "profile", "", "Chrome/Chromium profile directory for authenticated sessions (close browser first)")
	rootCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Show debug logging")

	return rootCmd
}

func run(cmd *cobra.Command, args []string) error {
	url := args[0]
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if err := applyFlags(cfg, cmd); err != nil {
		return err
	}

	log, err := newLogger(verbose)
	if err != nil {
		return err
	}
	defer log.Sync()

	fmt.Printf("→ Launching browser... ")
	session, err := driver.Launch(driver.Options{
		Headless:   cfg.Headless,
		Width:      cfg.Width,
		Height:     cfg.Height,
		ProfileDir: profile,
	}, log)
	if err != nil {
		fmt.Println("failed")
		return err
	}
	defer session.Close()
	fmt.Println("done")

	fmt.Printf("→ Loading %s... ", url)
	if err := session.Navigate(ctx, url); err != nil {
		fmt.Println("failed")
		return err
	}
	fmt.Println("done")

	fmt.Printf("→ Analyzing... ")
	analysis, err := scan.Extract(ctx, session, log)
	if err != nil {
		fmt.Println("failed")
		return err
	}
	fmt.Printf("done (found %d clickable elements)\n\n", len(analysis.Elements))

	printAnalysis(analysis)

	if cfg.Output != "" {
		if err := analysis.SaveFile(cfg.Output); err != nil {
			return err
		}
		fmt.Printf("\nanalysis saved to %s\n", cfg.Output)
	}

	if screenshot != "" {
		if err := capture.Save(ctx, session, screenshot); err != nil {
			return err
		}
		fmt.Printf("screenshot saved to %s\n", screenshot)
	}

	if thumbnail != "" {
		if err := capture.SaveThumbnail(ctx, session, thumbnail, thumbnailWidth); err != nil {
			return err
		}
		fmt.Printf("thumbnail saved to %s\n", thumbnail)
	}

	if interactive {
		ctrl := interact.New(cfg.NavTimeout, cfg.ClickTimeout, log)
		loop := repl.New(session, ctrl, analysis, os.Stdin, os.Stdout, log)
		return loop.Run(ctx)
	}

	return nil
}

// applyFlags lets explicit flags win over env-derived defaults.
func applyFlags(cfg *config.Config, cmd *cobra.Command) error {
	if cmd.Flags().Changed("headless") {
		cfg.Headless = headless
	}
	if cmd.Flags().Changed("output") {
		cfg.Output = output
	}
	if width > 0 {
		cfg.Width = width
	}
	if height > 0 {
		cfg.Height = height
	}
	if timeout != "" {
		d, err := time.ParseDuration(timeout)
		if err != nil {
			return fmt.Errorf("invalid --timeout %q: %w", timeout, err)
		}
		cfg.NavTimeout = d
	}
	return nil
}

func newLogger(verbose bool) (*zap.Logger, error) {
	if verbose {
		return zap.NewDevelopment()
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	return cfg.Build()
}

func printAnalysis(a *scan.Analysis) {
	fmt.Printf("=== Clickable Elements on %s ===\n", a.URL)
	fmt.Printf("Page Title: %s\n", a.Title)
	fmt.Printf("Analysis Time: %s\n", a.Timestamp)
	fmt.Printf("Total Elements: %d\n\n", len(a.Elements))
	for i := range a.Elements {
		fmt.Println(a.Elements[i].String())
	}
}
