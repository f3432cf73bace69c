package slicer

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/okian/territory/internal/adapters/export"
	"github.com/okian/territory/internal/adapters/source"
	service "github.com/okian/territory/internal/app"
	"github.com/okian/territory/internal/domain/model"
	"github.com/okian/territory/internal/sweep"
	"github.com/okian/territory/pkg/logger"
)

// File permission constants.
const (
	directoryPermission = 0750
	filePermission      = 0640
)

// Run executes one slicer run.
func Run(ctx context.Context, config *Config) (*Summary, error) {
	mode := "assign"
	if config.Sweep {
		mode = "sweep"
	}
	log := logger.Get().Named("slicer").With(logger.String("mode", mode))
	summary := &Summary{StartTime: time.Now(), Threshold: config.Threshold}

	log.Info(ctx, "starting territory slicer",
		logger.String("accounts", config.AccountsPath),
		logger.String("reps", config.RepsPath),
		logger.String("workbook", config.WorkbookPath),
		logger.Int("threshold", config.Threshold))

	svc := service.New(
		service.WithLogger(log),
		service.WithSources(source.Sources{
			Accounts: config.AccountsPath,
			Reps:     config.RepsPath,
			Workbook: config.WorkbookPath,
		}),
		service.WithLoader(source.New(source.WithLogger(log))),
		service.WithSweepPool(sweep.New(sweep.WithWorkers(config.Workers), sweep.WithLogger(log))),
		service.WithThreshold(config.Threshold, min(config.Threshold, config.SweepFrom), max(config.Threshold, config.SweepTo)),
		service.WithWeights(config.Weights),
		service.WithCacheSize(0),
	)
	defer svc.Stop()

	// Step 1: Load the tables
	d, err := svc.Reload(ctx)
	if err != nil {
		return nil, fmt.Errorf("dataset load failed: %w", err)
	}
	summary.Accounts = len(d.Accounts)
	summary.Reps = len(d.Reps)

	// Step 2: Assign or sweep
	if config.Sweep {
		err = runSweep(ctx, log, svc, config, summary)
	} else {
		err = runAssign(ctx, log, svc, config, summary)
	}
	if err != nil {
		return nil, err
	}

	summary.Duration = time.Since(summary.StartTime)
	log.Info(ctx, "slicer completed",
		logger.Int("accounts", summary.Accounts),
		logger.Int("reps", summary.Reps),
		logger.String("output", summary.Output),
		logger.Duration("duration", summary.Duration))
	return summary, nil
}

func runAssign(ctx context.Context, log logger.Logger, svc *service.Service, config *Config, summary *Summary) error {
	out, format := outputPath(config, time.Now())
	if dir := filepath.Dir(out); dir != "." {
		if err := os.MkdirAll(dir, directoryPermission); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}
	file, err := os.OpenFile(out, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, filePermission)
	if err != nil {
		return fmt.Errorf("failed to create export file: %w", err)
	}

	res, err := svc.Export(ctx, service.AtThreshold(config.Threshold), format, file)
	if cerr := file.Close(); err == nil && cerr != nil {
		err = fmt.Errorf("failed to close export file: %w", cerr)
	}
	if err != nil {
		_ = os.Remove(out)
		return fmt.Errorf("assignment failed: %w", err)
	}

	summary.RunID = res.RunID
	summary.Output = out
	logResult(ctx, log, res, config.Verbose)
	return nil
}

func runSweep(ctx context.Context, log logger.Logger, svc *service.Service, config *Config, summary *Summary) error {
	r := sweep.Range{From: config.SweepFrom, To: config.SweepTo, Step: config.SweepStep}
	res, err := svc.Sweep(ctx, r, &config.Weights)
	if err != nil {
		return fmt.Errorf("sweep failed: %w", err)
	}

	if config.Verbose {
		for _, p := range res.Points {
			fields := []logger.Field{logger.Int("threshold", p.Threshold)}
			for _, s := range model.Segments {
				fields = append(fields, logger.Int(s.Key()+"Accounts", p.Accounts[s]))
			}
			if p.Score != nil {
				fields = append(fields, logger.Float64("score", *p.Score))
			}
			if p.Error != "" {
				fields = append(fields, logger.String("error", p.Error))
			}
			log.Info(ctx, "sweep point", fields...)
		}
	}

	if res.Best == nil {
		log.Warn(ctx, "no threshold produced a balance score", logger.Int("points", len(res.Points)))
		return nil
	}
	summary.Best = res.Best.Threshold
	summary.BestScore = res.Best.Score
	log.Info(ctx, "best threshold",
		logger.Int("threshold", res.Best.Threshold),
		logger.Float64("score", *res.Best.Score),
		logger.Int("points", len(res.Points)))
	return nil
}

// outputPath resolves the export file and its format.
func outputPath(config *Config, now time.Time) (string, string) {
	if config.Out != "" {
		if strings.EqualFold(filepath.Ext(config.Out), "."+export.FormatXLSX) {
			return config.Out, export.FormatXLSX
		}
		return config.Out, export.FormatCSV
	}
	return filepath.Join(config.ExportDir, export.FileName(export.FormatCSV, now)), export.FormatCSV
}
