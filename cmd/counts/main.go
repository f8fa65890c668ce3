// Command counts builds the museum object summary from the command line.
//
// With -master it runs unattended:
//
//	counts -master combinedMuseumObjects.csv -lookup flows_country_to_museum.csv -out counts.csv
//
// Without -master (or with -interactive) it asks for each file in turn.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/JonMunkholm/museumcounts/internal/app"
	"github.com/JonMunkholm/museumcounts/internal/config"
	"github.com/JonMunkholm/museumcounts/internal/core"
	"github.com/JonMunkholm/museumcounts/internal/logging"
	"github.com/JonMunkholm/museumcounts/internal/operator"
	"github.com/joho/godotenv"
)

// Exit codes.
const (
	exitOK        = 0
	exitFailed    = 1
	exitCancelled = 2
	exitEmpty     = 3
	exitConfig    = 4
)

func main() {
	os.Exit(run())
}

func run() int {
	var (
		masterPath  = flag.String("master", "", "master objects CSV")
		lookupPath  = flag.String("lookup", "", "country to region lookup CSV (optional)")
		outPath     = flag.String("out", "", "output CSV path or directory (default: OUTPUT_DEFAULT_NAME in the working directory)")
		interactive = flag.Bool("interactive", false, "ask for paths on the terminal")
		quiet       = flag.Bool("quiet", false, "only print warnings and errors")
		envFile     = flag.String("env", ".env", "dotenv file to load if present")
	)
	flag.Parse()

	// Load .env file if it exists (Overload overwrites existing env vars)
	if err := godotenv.Overload(*envFile); err != nil {
		slog.Debug("no .env file found, using environment variables", "file", *envFile)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return exitConfig
	}

	logging.Setup(cfg.Logging.Level, cfg.Logging.Format)
	slog.Debug("configuration loaded", "config", cfg.String())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	go func() {
		// A second interrupt kills the process, even inside a blocked prompt.
		<-ctx.Done()
		stop()
	}()

	service, closeStores, err := app.NewService(ctx, cfg)
	if err != nil {
		slog.Error("failed to initialise", "error", err)
		fmt.Fprintln(os.Stderr, core.FormatUserError(err))
		return exitConfig
	}
	defer closeStores()

	var op core.Operator
	if *interactive || *masterPath == "" {
		op = operator.NewPrompt(os.Stdin, os.Stdout)
	} else {
		op = &operator.Preset{
			Master: *masterPath,
			Lookup: *lookupPath,
			Output: *outPath,
			Out:    os.Stdout,
			Quiet:  *quiet,
		}
	}

	summary, err := service.Run(ctx, op)
	if err != nil {
		slog.Debug("run failed", "run_id", summary.RunID, "error", err)
		if !errors.Is(err, core.ErrCancelled) && !errors.Is(err, core.ErrEmptyResult) {
			fmt.Fprintln(os.Stderr, core.FormatUserError(err))
		}
		return exitCode(summary.Status)
	}

	return exitOK
}

func exitCode(status core.RunStatus) int {
	switch status {
	case core.RunSucceeded:
		return exitOK
	case core.RunCancelled:
		return exitCancelled
	case core.RunEmpty:
		return exitEmpty
	default:
		return exitFailed
	}
}
