package main

import (
	"context"
	"flag"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/okian/territory/internal/config"
	"github.com/okian/territory/internal/slicer"
	"github.com/okian/territory/pkg/logger"
)

const defaultRunTimeout = 10 * time.Minute

func main() {
	_ = godotenv.Load()

	// Flag defaults come from the same layered config as the server
	cfg, err := config.Load(context.Background())
	if err != nil {
		os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		return
	}

	var (
		accounts  = flag.String("accounts", cfg.AccountsSource, "Accounts CSV path or URL")
		reps      = flag.String("reps", cfg.RepsSource, "Reps CSV path or URL")
		workbook  = flag.String("workbook", cfg.WorkbookPath, "xlsx workbook with Accounts and Reps sheets")
		threshold = flag.Int("threshold", cfg.Threshold, "Employee count at which an account is Enterprise")
		out       = flag.String("out", "", "Export path, .csv or .xlsx (default: territory-assignments-<unix-millis>.csv)")
		sweep     = flag.Bool("sweep", false, "Evaluate every threshold between the configured bounds")
		verbose   = flag.Bool("verbose", false, "Enable verbose logging")
		help      = flag.Bool("help", false, "Show help")
	)
	flag.Parse()

	if *help {
		slicer.ShowHelp(os.Stdout)
		return
	}

	if err := logger.InitWithWriter(os.Stderr, cfg.LogFormat); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		return
	}
	level := cfg.LogLevel
	if *verbose {
		level = "debug"
	}
	_ = logger.SetLevelString(level)

	ctx, cancel := context.WithTimeout(context.Background(), defaultRunTimeout)
	defer cancel()

	run := &slicer.Config{
		AccountsPath: *accounts,
		RepsPath:     *reps,
		WorkbookPath: *workbook,
		Threshold:    *threshold,
		Weights:      cfg.Weights,
		Out:          *out,
		ExportDir:    cfg.ExportDir,
		Sweep:        *sweep,
		SweepFrom:    cfg.ThresholdMin,
		SweepTo:      cfg.ThresholdMax,
		SweepStep:    cfg.ThresholdStep,
		Workers:      cfg.SweepWorkers,
		Verbose:      *verbose,
	}

	if _, err := slicer.Run(ctx, run); err != nil {
		os.Stderr.WriteString("slicer failed: " + err.Error() + "\n")
		cancel()
		os.Exit(1)
	}
}
