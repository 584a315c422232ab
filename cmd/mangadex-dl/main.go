package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"golang.org/x/sync/errgroup"

	"github.com/UnicodingUnicorn/mangadex-downloader-2/internal/config"
	"github.com/UnicodingUnicorn/mangadex-downloader-2/internal/download"
	"github.com/UnicodingUnicorn/mangadex-downloader-2/internal/logger"
	"github.com/UnicodingUnicorn/mangadex-downloader-2/internal/metadata"
)

const progressInterval = 10 * time.Second

// flagKeys maps command line flags onto settings keys.
var flagKeys = map[string]string{
	"output-dir":               "output_dir",
	"language":                 "language",
	"group":                    "preferred_group",
	"range":                    "range",
	"metadata-title-languages": "metadata_title_languages",
	"metadata-file-format":     "metadata_file_format",
	"no-metadata":              "no_metadata",
	"quiet":                    "quiet",
	"log-level":                "log_level",
	"no-color":                 "no_color",
	"covers":                   "save_covers",
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	err := newRootCmd().ExecuteContext(ctx)
	interrupted := ctx.Err() != nil
	cancel()

	if err != nil {
		if interrupted {
			fmt.Fprintln(os.Stderr, "Download cancelled.")
			os.Exit(130)
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		configPath   string
		metadataOnly bool
	)

	cmd := &cobra.Command{
		Use:   "mangadex-dl <url>",
		Short: "Download manga from MangaDex",
		Long: `mangadex-dl downloads the chapters and cover art of a MangaDex title.

Chapters are filtered by translation language and an optional range
(e.g. "1", "1:3", "1-3", "1:2-3:4", "1,3-4"), one scanlation per chapter.`,
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			settings, err := loadSettings(configPath, cmd.Flags())
			if err != nil {
				return err
			}
			logger.InitLogger(settings.EffectiveLogLevel(), settings.NoColor)

			if metadataOnly {
				return printMetadata(cmd.Context(), cmd.OutOrStdout(), settings, args[0])
			}
			return run(cmd.Context(), settings, args[0])
		},
	}

	cmd.PersistentFlags().StringVar(&configPath, "config", "", "config file path (default: auto-detect)")

	flags := cmd.Flags()
	flags.BoolVar(&metadataOnly, "metadata", false, "print the manga's metadata and exit")
	flags.StringP("output-dir", "o", "", "output directory")
	flags.StringP("language", "l", "", "translation language to download")
	flags.String("group", "", "preferred scanlation group")
	flags.StringP("range", "r", "", "chapters to download, e.g. 1:2-3:4")
	flags.StringSlice("metadata-title-languages", nil, "alt title languages kept in the metadata file (all for every language)")
	flags.String("metadata-file-format", "", "metadata file format (toml, json, yaml)")
	flags.Bool("no-metadata", false, "do not write the metadata file")
	flags.BoolP("quiet", "q", false, "only log warnings and errors")
	flags.String("log-level", "", "log level (debug, info, warn, error)")
	flags.Bool("no-color", false, "disable colored output")
	flags.Bool("covers", true, "download cover art")

	cmd.AddCommand(newConfigCmd(&configPath))
	return cmd
}

func newConfigCmd(configPath *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage the configuration file",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "init [path]",
		Short: "Write the default configuration",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := *configPath
			if len(args) == 1 {
				path = args[0]
			}
			if path == "" {
				path = config.ConfigName + ".toml"
			}
			if _, err := os.Stat(path); err == nil {
				return fmt.Errorf("%s already exists", path)
			}
			if err := config.DefaultSettings().Save(path); err != nil {
				return fmt.Errorf("writing config: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", filepath.Clean(path))
			return nil
		},
	})

	return cmd
}

// loadSettings layers the flags that were set on top of the config file and
// environment.
func loadSettings(configPath string, flags *pflag.FlagSet) (*config.Settings, error) {
	v, err := config.NewViper(configPath)
	if err != nil {
		return nil, err
	}
	if err := bindFlags(v, flags); err != nil {
		return nil, err
	}
	return config.FromViper(v)
}

func bindFlags(v *viper.Viper, flags *pflag.FlagSet) error {
	for name, key := range flagKeys {
		f := flags.Lookup(name)
		if f == nil {
			continue
		}
		if err := v.BindPFlag(key, f); err != nil {
			return fmt.Errorf("binding --%s: %w", name, err)
		}
	}
	return nil
}

func printMetadata(ctx context.Context, w io.Writer, settings *config.Settings, input string) error {
	manager, err := download.NewManager(settings, nil)
	if err != nil {
		return err
	}
	manga, err := manager.LoadManga(ctx, input)
	if err != nil {
		return err
	}
	return metadata.Print(w, manga, settings.Language, settings.MetadataTitleLanguages)
}

func run(ctx context.Context, settings *config.Settings, input string) error {
	manager, err := download.NewManager(settings, logEvent)
	if err != nil {
		return err
	}

	g, ctx := errgroup.WithContext(ctx)
	done := make(chan struct{})

	g.Go(func() error {
		defer close(done)
		if err := manager.Initialize(ctx, input); err != nil {
			return err
		}
		return manager.StartDownloads(ctx)
	})
	g.Go(func() error {
		reportProgress(done, manager, progressInterval)
		return nil
	})

	if err := g.Wait(); err != nil {
		return err
	}

	chapters, _, files, _ := manager.GetProgress()
	logger.Success("Complete", logrus.Fields{
		"chapters": chapters,
		"files":    files,
		"path":     manager.OutputDir(),
	})
	return nil
}

// reportProgress logs the manager's counters every interval until done is
// closed.
func reportProgress(done <-chan struct{}, manager *download.Manager, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			chaptersDone, chaptersTotal, filesDone, filesTotal := manager.GetProgress()
			if chaptersTotal == 0 {
				continue
			}
			logger.Info("Progress", logrus.Fields{
				"chapters": fmt.Sprintf("%d/%d", chaptersDone, chaptersTotal),
				"files":    fmt.Sprintf("%d/%d", filesDone, filesTotal),
			})
		}
	}
}

func logEvent(event download.ProgressEvent) {
	switch event.Level {
	case download.LevelError:
		logger.Error(event.Message)
	case download.LevelWarning:
		logger.Warn(event.Message)
	case download.LevelSuccess:
		logger.Success(event.Message)
	case download.LevelVerbose:
		logger.Debug(event.Message)
	default:
		logger.Info(event.Message)
	}
}
