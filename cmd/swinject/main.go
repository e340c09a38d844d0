package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/precachekit/swinject/internal/cache"
	"github.com/precachekit/swinject/internal/compilation"
	"github.com/precachekit/swinject/internal/config"
	"github.com/precachekit/swinject/internal/injector"
	"github.com/precachekit/swinject/internal/manifest"
	"github.com/precachekit/swinject/internal/utils"
	"github.com/precachekit/swinject/pkg/version"
)

var (
	pipelineFile string
	distDir      string
	dryRun       bool
	listEntries  bool
	verbose      bool
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "swinject",
	Short: "Inject a precache manifest into a built service worker",
	Long: `swinject is a post-processing stage for asset builds: it compiles (or
copies) a service worker source file into the build output, then replaces the
self.__WB_MANIFEST placeholder inside it with a deterministic precache
manifest derived from the built assets, keeping source maps consistent.

It runs against a finished dist directory, either for a single service worker
configured via flags or for several targets listed in a pipeline file.`,
	Version:       version.Short(),
	Args:          cobra.NoArgs,
	RunE:          run,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&pipelineFile, "pipeline", "", "Pipeline file with multiple injection targets")
	rootCmd.PersistentFlags().StringVar(&distDir, "dist", config.DefaultDistDir, "Directory containing the built assets")
	rootCmd.PersistentFlags().BoolVar(&dryRun, "dry-run", false, "Run injection without writing files")
	rootCmd.PersistentFlags().BoolVar(&listEntries, "list", false, "Print the computed manifest entries without writing files")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output")

	rootCmd.PersistentFlags().String("sw-src", "", "Service worker source file")
	rootCmd.PersistentFlags().String("sw-dest", "", "Destination asset name (default: basename of sw-src)")
	rootCmd.PersistentFlags().String("injection-point", config.DefaultInjectionPoint, "Placeholder marker to replace")
	rootCmd.PersistentFlags().Bool("no-compile", false, "Copy sw-src verbatim instead of compiling it")
	rootCmd.PersistentFlags().StringSlice("include", nil, "Glob patterns of assets to precache")
	rootCmd.PersistentFlags().StringSlice("exclude", nil, "Glob patterns of assets to skip")
	rootCmd.PersistentFlags().String("max-file-size", config.DefaultMaxFileSize, "Per-entry size cap (e.g. 2MB)")
	rootCmd.PersistentFlags().String("mode", "", "Build mode override (production or development)")
	rootCmd.PersistentFlags().Bool("cache", false, "Enable the persistent revision cache")
	rootCmd.PersistentFlags().String("cache-dir", "", "Revision cache directory")

	_ = viper.BindPFlag("sw_src", rootCmd.PersistentFlags().Lookup("sw-src"))
	_ = viper.BindPFlag("sw_dest", rootCmd.PersistentFlags().Lookup("sw-dest"))
	_ = viper.BindPFlag("injection_point", rootCmd.PersistentFlags().Lookup("injection-point"))
	_ = viper.BindPFlag("include", rootCmd.PersistentFlags().Lookup("include"))
	_ = viper.BindPFlag("exclude", rootCmd.PersistentFlags().Lookup("exclude"))
	_ = viper.BindPFlag("max_file_size", rootCmd.PersistentFlags().Lookup("max-file-size"))
	_ = viper.BindPFlag("mode", rootCmd.PersistentFlags().Lookup("mode"))
	_ = viper.BindPFlag("cache.enabled", rootCmd.PersistentFlags().Lookup("cache"))
	_ = viper.BindPFlag("cache.directory", rootCmd.PersistentFlags().Lookup("cache-dir"))
}

func run(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger := newLogger()
	fs := afero.NewOsFs()

	targets, dist, err := loadTargets(fs, cmd)
	if err != nil {
		return err
	}

	comp := compilation.New(compilation.Options{
		InputFS:  fs,
		OutputFS: fs,
		Meta: compilation.BuildMeta{
			Mode:      viper.GetString("mode"),
			OutputDir: dist,
		},
	})
	if err := comp.LoadDir(dist); err != nil {
		return fmt.Errorf("loading %s: %w", dist, err)
	}

	for i := range targets {
		opts := []injector.Option{injector.WithLogger(logger)}
		if src := entrySource(targets[i], logger); src != nil {
			opts = append(opts, injector.WithEntrySource(src))
		}
		if listEntries {
			opts = append(opts, injector.WithManifestReport(printEntries))
		}
		plugin := injector.New(targets[i], opts...)
		if err := plugin.Attach(comp); err != nil {
			return err
		}
	}

	runErr := comp.ProcessAssets(ctx)
	report(comp, logger)
	if runErr != nil {
		return runErr
	}
	if errs := comp.Errors(); len(errs) > 0 {
		return fmt.Errorf("injection finished with %d error(s)", len(errs))
	}

	if listEntries || dryRun {
		logger.Info().Msg("dry run, skipping write-back")
		return nil
	}
	return comp.WriteAssets()
}

// printEntries renders one target's manifest entries to stdout for --list.
func printEntries(dest string, entries []manifest.Entry, totalSize int64) {
	fmt.Printf("%s: %d entries, %d bytes\n", dest, len(entries), totalSize)
	for _, e := range entries {
		fmt.Printf("  %s\n", e)
	}
}

// loadTargets resolves the target list: every entry of the pipeline file, or
// the single flag-configured target.
func loadTargets(fs afero.Fs, cmd *cobra.Command) ([]config.Config, string, error) {
	if pipelineFile != "" {
		p, err := config.NewLoader(fs).Load(pipelineFile)
		if err != nil {
			return nil, "", err
		}
		dist := p.Options.Dist
		if cmd.Flags().Changed("dist") {
			dist = distDir
		}
		return p.Targets, dist, nil
	}

	cfg, err := config.Load()
	if err != nil {
		return nil, "", err
	}
	if noCompile, _ := cmd.Flags().GetBool("no-compile"); noCompile {
		compile := false
		cfg.CompileSrc = &compile
	}
	return []config.Config{*cfg}, distDir, nil
}

// entrySource wires the optional badger revision cache into the default
// entry source. A nil return means the plugin's built-in source is fine.
func entrySource(cfg config.Config, logger *utils.Logger) manifest.EntrySource {
	if !cfg.Cache.Enabled {
		return nil
	}
	revCache, err := cache.NewBadgerCache(cache.Options{Directory: cfg.Cache.Directory})
	if err != nil {
		logger.Warn().Err(err).Msg("revision cache unavailable, hashing every asset")
		return nil
	}
	return manifest.NewAssetSource(manifest.AssetSourceOptions{
		RevisionCache: revCache,
		Logger:        logger,
	})
}

func newLogger() *utils.Logger {
	level := viper.GetString("logging.level")
	format := viper.GetString("logging.format")
	if level == "" {
		level = "info"
	}
	if format == "" {
		format = "pretty"
	}
	return utils.NewLogger(utils.LoggerOptions{Level: level, Format: format, Verbose: verbose})
}

// report prints the compilation's diagnostics the way the build consumer
// expects: warnings never stop the run, errors already aborted their stage.
func report(comp *compilation.Compilation, logger *utils.Logger) {
	for _, w := range comp.Warnings() {
		logger.Warn().Msg(w.Error())
	}
	for _, e := range comp.Errors() {
		logger.Error().Msg(e.Error())
	}
}
