package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"go.uber.org/zap"

	"github.com/eugenenazirov/binpack-search/internal/config"
	"github.com/eugenenazirov/binpack-search/internal/engine"
	"github.com/eugenenazirov/binpack-search/internal/logging"
	"github.com/eugenenazirov/binpack-search/internal/packing"
	"github.com/eugenenazirov/binpack-search/internal/problem"
	"github.com/eugenenazirov/binpack-search/internal/report"
	"github.com/eugenenazirov/binpack-search/internal/search"
)

var errNoProblem = errors.New("either --problem or --generate is required")

func (c *cli) runSolve(stdout io.Writer) error {
	cfg, err := config.Load(c.overrides())
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer func() {
		_ = logger.Sync()
	}()

	p, err := c.solve.loadProblem(cfg.Seed)
	if err != nil {
		return err
	}
	if path := *c.solve.saveProblem; path != "" {
		if err := problem.Save(path, p); err != nil {
			return err
		}
		logger.Info("problem saved", zap.String("path", path))
	}

	methods, err := parseMethods(*c.solve.method)
	if err != nil {
		return err
	}

	runner, err := engine.NewRunner(cfg.Settings(), logger.Named("engine"))
	if err != nil {
		return err
	}

	ctx, stop := signalContext()
	defer stop()

	exps, err := runner.Compare(ctx, methods, p, cfg.Runs, cfg.Seed)
	if err != nil {
		return err
	}

	return writeResults(stdout, cfg, exps, *c.solve.quiet, *c.solve.noExport)
}

func (s *solveCommand) loadProblem(seed int64) (*packing.Problem, error) {
	switch {
	case *s.problemFile != "":
		return problem.Load(*s.problemFile)
	case *s.generate > 0:
		maxSize := *s.maxSize
		if maxSize <= 0 {
			maxSize = *s.capacity
		}
		return problem.Generate(*s.generate, *s.capacity, maxSize, search.NewRand(seed))
	default:
		return nil, errNoProblem
	}
}

func writeResults(stdout io.Writer, cfg config.Config, exps []engine.Experiment, quiet, noExport bool) error {
	if !quiet {
		for _, e := range exps {
			if err := report.Text(stdout, e.Best()); err != nil {
				return err
			}
			fmt.Fprintln(stdout)
		}
	}
	if err := report.Summary(stdout, exps); err != nil {
		return err
	}
	if noExport {
		return nil
	}

	files, err := report.WriteAll(cfg.OutputDir, exps)
	if err != nil {
		return err
	}
	fmt.Fprintf(stdout, "\nwrote %d files to %s\n", len(files), cfg.OutputDir)
	return nil
}

// parseMethods accepts "all" or a comma-separated list of method names.
func parseMethods(raw string) ([]search.Method, error) {
	if strings.EqualFold(strings.TrimSpace(raw), "all") {
		return search.Methods(), nil
	}

	var methods []search.Method
	seen := make(map[search.Method]bool)
	for _, part := range strings.Split(raw, ",") {
		if strings.TrimSpace(part) == "" {
			continue
		}
		m, err := search.ParseMethod(part)
		if err != nil {
			return nil, err
		}
		if !seen[m] {
			seen[m] = true
			methods = append(methods, m)
		}
	}
	if len(methods) == 0 {
		return nil, fmt.Errorf("%w: no method given", search.ErrUnknownMethod)
	}
	return methods, nil
}

func signalContext() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())
	quit := make(chan os.Signal, 1)
	signalNotify(quit, os.Interrupt, syscall.SIGTERM)
	go func() {
		defer signal.Stop(quit)
		select {
		case <-quit:
			cancel()
		case <-ctx.Done():
		}
	}()
	return ctx, cancel
}
