package cli

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/tequmsa/ankhaten/internal/app"
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

// Parse processes command-line arguments. It returns a populated app.Config,
// a boolean indicating if the program should exit cleanly, or an ExitError.
func Parse(args []string, output io.Writer) (*app.Config, bool, error) {
	slog.Debug("CLI parser started.")
	flagSet := flag.NewFlagSet("ankhaten", flag.ContinueOnError)
	flagSet.SetOutput(output)

	// Custom usage/help text function
	flagSet.Usage = func() {
		fmt.Fprint(output, `
Ankh-Aten - A manifest-driven living awareness engine.

Usage:
  ankhaten [options] [MANIFEST_PATH]

Arguments:
  MANIFEST_PATH
    Path to a manifest file (.yaml, .yml, .json, .hcl) or a directory of
    manifest files.

Options:
`)
		flagSet.PrintDefaults()
	}

	manifestFlag := flagSet.String("manifest", "", "Path to the component manifest file or directory.")
	mFlag := flagSet.String("m", "", "Path to the component manifest file or directory (shorthand).")
	improveFlag := flagSet.Bool("improve", false, "Run the self-improvement loop instead of printing a snapshot.")
	cyclesFlag := flagSet.Int("cycles", 10, "Maximum number of self-improvement cycles.")
	servePortFlag := flagSet.Int("serve-port", 0, "Port for the REST API server. 0 is disabled.")
	logFormatFlag := flagSet.String("log-format", "json", "Log output format. Options: 'text' or 'json'.")
	logLevelFlag := flagSet.String("log-level", "info", "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")
	workersFlag := flagSet.Int("workers", 3, "Number of concurrent workers for the improvement loop.")
	logPathFlag := flagSet.String("log-path", "", "Path to the JSON-lines audit journal. Defaults to .ankh_aten/log.jsonl.")

	if err := flagSet.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil, true, nil
		}
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}
	slog.Debug("Arguments parsed successfully.")

	path := ""
	if *manifestFlag != "" {
		path = *manifestFlag
	} else if *mFlag != "" {
		path = *mFlag
	} else if flagSet.NArg() > 0 {
		path = flagSet.Arg(0)
	}
	slog.Debug("Manifest path determined.", "path", path)

	if path == "" {
		slog.Debug("No manifest path provided, printing usage and exiting.")
		flagSet.Usage()
		return nil, true, nil
	}

	logFormat := strings.ToLower(*logFormatFlag)
	if logFormat != "text" && logFormat != "json" {
		return nil, false, &ExitError{Code: 2, Message: "invalid log-format: must be 'text' or 'json'"}
	}

	logLevel := strings.ToLower(*logLevelFlag)
	switch logLevel {
	case "debug", "info", "warn", "error":
		// valid
	default:
		return nil, false, &ExitError{Code: 2, Message: "invalid log-level: must be 'debug', 'info', 'warn', or 'error'"}
	}

	if *cyclesFlag <= 0 {
		return nil, false, &ExitError{Code: 2, Message: "invalid cycles: must be a positive number"}
	}
	slog.Debug("CLI parameter validation complete.")

	config, err := app.NewConfig(app.Config{
		ManifestPath: path,
		Improve:      *improveFlag,
		Cycles:       *cyclesFlag,
		ServePort:    *servePortFlag,
		LogFormat:    logFormat,
		LogLevel:     logLevel,
		LogPath:      *logPathFlag,
		Workers:      *workersFlag,
	})
	if err != nil {
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	slog.Debug("CLI parser finished successfully.", "config", config)
	return config, false, nil
}
