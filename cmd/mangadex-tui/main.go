package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/pflag"

	"github.com/UnicodingUnicorn/mangadex-downloader-2/internal/config"
	"github.com/UnicodingUnicorn/mangadex-downloader-2/internal/logger"
	"github.com/UnicodingUnicorn/mangadex-downloader-2/internal/tui"
)

func main() {
	configPath, err := parseFlags(os.Args[1:], os.Stderr)
	if errors.Is(err, pflag.ErrHelp) {
		return
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	settings, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	// The alt screen owns the terminal; progress reaches the UI as events.
	logger.InitLogger(settings.EffectiveLogLevel(), true)
	logger.SetOutput(io.Discard)

	if err := tui.Run(settings); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// parseFlags returns the --config path.
func parseFlags(args []string, output io.Writer) (string, error) {
	flags := pflag.NewFlagSet("mangadex-tui", pflag.ContinueOnError)
	flags.SetOutput(output)
	configPath := flags.String("config", "", "config file path (default: auto-detect)")

	if err := flags.Parse(args); err != nil {
		return "", err
	}
	if flags.NArg() > 0 {
		return "", fmt.Errorf("unexpected arguments: %v", flags.Args())
	}
	return *configPath, nil
}
