package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/fenilsonani/cleanser/internal/cache"
	"github.com/fenilsonani/cleanser/internal/cleaner"
	"github.com/fenilsonani/cleanser/internal/config"
	"github.com/fenilsonani/cleanser/internal/reporter"
	"github.com/fenilsonani/cleanser/internal/scanner"
	"github.com/fenilsonani/cleanser/internal/ui"
	"github.com/fenilsonani/cleanser/internal/ui/styles"
	"github.com/fenilsonani/cleanser/pkg/utils"
)

var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildTime = "unknown"
)

var (
	configPath string
	verbose    bool

	scanPaths      []string
	scanSpeed      string
	scanMinSizeMB  int64
	scanMaxDepth   int
	findDuplicates bool
	outputFmt      string
	jsonOutput     bool
	noCache        bool

	cleanRisk string
	assumeYes bool
	dryRun    bool
	forceScan bool
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "cleanser",
	Short: "Disk cleanup tool for development machines",
	Long: `Cleanser finds and removes reclaimable storage:
  - Development artifacts (node_modules, target, build output)
  - Caches (system, browser, package manager)
  - Oversized logs, temp files, large files, duplicates`,
	Version: fmt.Sprintf("%s (commit: %s, built: %s)", Version, GitCommit, BuildTime),
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := slog.LevelWarn
		if verbose {
			level = slog.LevelDebug
		}
		slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
	},
}

var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Scan for reclaimable storage",
	Long: `Scans the given paths and reports what can be cleaned without making
any changes. Results are cached for an hour so a follow-up clean does
not rescan.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		if jsonOutput {
			outputFmt = "json"
		}

		scanCfg, err := buildScanConfig(cmd, cfg)
		if err != nil {
			return err
		}

		result, err := loadOrScan(cache.New(), cfg, scanCfg, !noCache, !noCache)
		if err != nil {
			return err
		}

		rptr := reporter.New(os.Stdout, parseFormat(outputFmt), useColor())
		if err := rptr.ReportScan(result); err != nil {
			return fmt.Errorf("failed to generate report: %w", err)
		}
		return nil
	},
}

var cleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Delete previously scanned items within a risk level",
	Long: `Deletes scan results at or below the chosen risk level. A fresh cached
scan is reused when available; otherwise the home directory is scanned
first.

Risk levels: safe (caches, logs, temp), moderate (adds build artifacts),
risky (adds large and duplicate files).`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		ceiling, err := scanner.ParseRisk(cleanRisk)
		if err != nil {
			return err
		}

		scanCfg, err := buildScanConfig(cmd, cfg)
		if err != nil {
			return err
		}

		scanCache := cache.New()
		result, err := loadOrScan(scanCache, cfg, scanCfg, !forceScan, true)
		if err != nil {
			return err
		}

		eligible := result.ItemsAtOrBelow(ceiling)
		if len(eligible) == 0 {
			fmt.Println("Nothing to clean at this risk level.")
			return nil
		}

		var total int64
		for _, item := range eligible {
			total += item.Size
		}
		fmt.Printf("%d items (%s) at or below risk %q\n",
			len(eligible), utils.FormatBytes(total), ceiling)

		if dryRun {
			fmt.Println("\n[DRY RUN] No files will be deleted.")
		} else if !assumeYes {
			fmt.Printf("\nProceed with cleanup? (y/N): ")
			var response string
			fmt.Scanln(&response)
			if response != "y" && response != "Y" {
				fmt.Println("Cleanup cancelled")
				return nil
			}
		}

		scnr := scanner.New(cfg)
		clnr := cleaner.New(scnr.Validator(),
			cleaner.WithOutcomeFunc(printOutcome))
		report := clnr.Clean(result, ceiling, dryRun)

		// The disk changed under the cached results; drop them.
		if !dryRun {
			if err := scanCache.Invalidate(); err != nil {
				slog.Warn("failed to invalidate scan cache", "error", err)
			}
		}

		fmt.Println()
		rptr := reporter.New(os.Stdout, parseFormat(outputFmt), useColor())
		return rptr.ReportClean(report)
	},
}

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Inspect or clear the scan cache",
}

var cacheStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show scan cache status",
	RunE: func(cmd *cobra.Command, args []string) error {
		st := cache.New().Inspect()
		fmt.Printf("Cache file: %s\n", st.Path)
		if !st.Exists {
			fmt.Println("No cached scan results.")
			return nil
		}

		state := "stale"
		if st.Fresh {
			state = "fresh"
		}
		fmt.Printf("Created:    %s (%s ago, %s)\n",
			st.CreatedAt.Format("2006-01-02 15:04:05"),
			utils.FormatDuration(int64(st.Age.Seconds())), state)
		fmt.Printf("Contents:   %d items, %s\n", st.Items, utils.FormatBytes(st.TotalSize))
		return nil
	},
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete cached scan results",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cache.New().Invalidate(); err != nil {
			return err
		}
		fmt.Println("Scan cache cleared.")
		return nil
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("cleanser %s (commit: %s, built: %s)\n", Version, GitCommit, BuildTime)
	},
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Display current configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		path := effectiveConfigPath()
		fmt.Printf("Config file: %s\n", path)
		if _, err := os.Stat(path); os.IsNotExist(err) {
			fmt.Println("Config file does not exist. Using default configuration.")
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file path")
	rootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "verbose output")

	for _, cmd := range []*cobra.Command{scanCmd, cleanCmd} {
		cmd.Flags().StringSliceVar(&scanPaths, "paths", nil, "paths to scan (default: home directory)")
		cmd.Flags().StringVar(&scanSpeed, "speed", "normal", "scan speed (quick, normal, thorough)")
		cmd.Flags().Int64Var(&scanMinSizeMB, "min-size", -1, "large file threshold in MB (0 disables)")
		cmd.Flags().IntVar(&scanMaxDepth, "max-depth", 0, "override traversal depth (-1 for unbounded)")
		cmd.Flags().BoolVar(&findDuplicates, "find-duplicates", false, "detect duplicate files by content")
		cmd.Flags().StringVar(&outputFmt, "output", "summary", "output format (summary, json, yaml)")
	}
	scanCmd.Flags().BoolVar(&jsonOutput, "json", false, "shorthand for --output json")
	scanCmd.Flags().BoolVar(&noCache, "no-cache", false, "ignore cached scan results")

	cleanCmd.Flags().StringVar(&cleanRisk, "risk", "safe", "maximum risk level to delete (safe, moderate, risky)")
	cleanCmd.Flags().BoolVarP(&assumeYes, "yes", "y", false, "skip confirmation prompt")
	cleanCmd.Flags().BoolVar(&dryRun, "dry-run", false, "show what would be deleted without deleting")
	cleanCmd.Flags().BoolVar(&forceScan, "force-scan", false, "rescan even when cached results are fresh")

	cacheCmd.AddCommand(cacheStatusCmd)
	cacheCmd.AddCommand(cacheClearCmd)

	rootCmd.AddCommand(scanCmd)
	rootCmd.AddCommand(cleanCmd)
	rootCmd.AddCommand(cacheCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(versionCmd)
}

func loadConfig() (*config.Config, error) {
	return config.Load(effectiveConfigPath())
}

func effectiveConfigPath() string {
	if configPath != "" {
		return configPath
	}
	return config.GetConfigPath()
}

// buildScanConfig assembles the effective scan parameters from flags and
// the file config.
func buildScanConfig(cmd *cobra.Command, cfg *config.Config) (*config.ScanConfig, error) {
	speed, err := config.ParseSpeed(scanSpeed)
	if err != nil {
		return nil, err
	}

	roots := scanPaths
	if len(roots) == 0 {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("cannot determine home directory: %w", err)
		}
		roots = []string{home}
	}
	for i, root := range roots {
		abs, err := filepath.Abs(root)
		if err != nil {
			return nil, fmt.Errorf("invalid scan path %q: %w", root, err)
		}
		roots[i] = abs
	}

	minSize := cfg.MinLargeFileSizeMB
	if cmd.Flags().Changed("min-size") {
		if scanMinSizeMB < 0 {
			return nil, fmt.Errorf("min-size must be >= 0")
		}
		minSize = scanMinSizeMB
	}

	return &config.ScanConfig{
		Roots:            roots,
		Speed:            speed,
		MaxDepth:         scanMaxDepth,
		MinLargeFileSize: minSize * 1024 * 1024,
		FindDuplicates:   findDuplicates,
		SkipSystem:       cfg.SkipSystem,
	}, nil
}

// loadOrScan serves a fresh cached result when useCached allows it,
// scanning otherwise. persist controls whether a fresh scan is written
// back to the cache; with --no-cache nothing is read and nothing lands
// on disk.
func loadOrScan(scanCache *cache.Cache, cfg *config.Config, scanCfg *config.ScanConfig, useCached, persist bool) (*scanner.ScanResult, error) {
	if useCached {
		if cached, ok := scanCache.Load(scanCfg); ok {
			fmt.Fprintln(os.Stderr, "Using cached scan results")
			return cached, nil
		}
	}

	result, err := runScan(cfg, scanCfg)
	if err != nil {
		return nil, err
	}
	if persist {
		if err := scanCache.Save(scanCfg, result); err != nil {
			slog.Warn("failed to cache scan results", "error", err)
		}
	}
	return result, nil
}

// runScan performs a scan, with a live progress view on interactive
// terminals and plain log output otherwise.
func runScan(cfg *config.Config, scanCfg *config.ScanConfig) (*scanner.ScanResult, error) {
	scnr := scanner.New(cfg)

	if useColor() && parseFormat(outputFmt) == reporter.FormatSummary {
		return ui.RunScan(scnr.Reporter(), func() (*scanner.ScanResult, error) {
			return scnr.Scan(scanCfg)
		})
	}

	fmt.Fprintln(os.Stderr, "Scanning...")
	return scnr.Scan(scanCfg)
}

func printOutcome(outcome cleaner.ItemOutcome) {
	switch outcome.Status {
	case cleaner.StatusCleaned:
		fmt.Printf("  %s %s (%s)\n",
			maybeStyle(styles.SuccessStyle.Render, "removed"),
			outcome.Item.Path, utils.FormatBytes(outcome.Item.Size))
	case cleaner.StatusFailed:
		fmt.Printf("  %s %s\n",
			maybeStyle(styles.ErrorStyle.Render, "failed "),
			outcome.Err.UserMessage())
	case cleaner.StatusSkippedDryRun:
		fmt.Printf("  %s %s (%s)\n",
			maybeStyle(styles.DimStyle.Render, "would remove"),
			outcome.Item.Path, utils.FormatBytes(outcome.Item.Size))
	}
}

func maybeStyle(style func(...string) string, s string) string {
	if !useColor() {
		return s
	}
	return style(s)
}

func parseFormat(s string) reporter.OutputFormat {
	switch strings.ToLower(s) {
	case "json":
		return reporter.FormatJSON
	case "yaml":
		return reporter.FormatYAML
	default:
		return reporter.FormatSummary
	}
}

func useColor() bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	return isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())
}
