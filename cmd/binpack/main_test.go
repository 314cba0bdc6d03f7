package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/eugenenazirov/binpack-search/internal/search"
)

func TestSolveGeneratedProblemWritesReports(t *testing.T) {
	dir := t.TempDir()
	problemPath := filepath.Join(dir, "problem.yaml")
	outDir := filepath.Join(dir, "out")

	var stdout bytes.Buffer
	err := run([]string{
		"--log-level", "error",
		"solve",
		"--generate", "12",
		"--capacity", "20",
		"--max-size", "10",
		"--save-problem", problemPath,
		"--method", "hc-steepest,sa",
		"--runs", "2",
		"--seed", "7",
		"--output", outDir,
	}, &stdout)
	if err != nil {
		t.Fatalf("run returned error: %v", err)
	}

	out := stdout.String()
	for _, want := range []string{"METHOD", "hc-steepest", "simulated-annealing", "wrote"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected output to contain %q, got:\n%s", want, out)
		}
	}

	for _, name := range []string{"summary.txt", "report.xlsx", "report.pdf", "hc-steepest.png", "simulated-annealing_history.csv"} {
		if _, err := os.Stat(filepath.Join(outDir, name)); err != nil {
			t.Fatalf("expected %s to be written: %v", name, err)
		}
	}
	if _, err := os.Stat(problemPath); err != nil {
		t.Fatalf("expected problem to be saved: %v", err)
	}
}

func TestSolveProblemFileWithoutExport(t *testing.T) {
	dir := t.TempDir()
	problemPath := filepath.Join(dir, "problem.yaml")
	doc := `capacity: 10
items:
  - {id: a, size: 4}
  - {id: b, size: 4}
  - {id: c, size: 4}
  - {id: d, size: 4}
  - {id: e, size: 4}
`
	if err := os.WriteFile(problemPath, []byte(doc), 0o644); err != nil {
		t.Fatalf("failed to write problem: %v", err)
	}

	var stdout bytes.Buffer
	err := run([]string{
		"--log-level", "error",
		"solve", "-p", problemPath, "-m", "ga", "--runs", "1", "--seed", "3", "--no-export", "-q",
		"--output", filepath.Join(dir, "unused"),
	}, &stdout)
	if err != nil {
		t.Fatalf("run returned error: %v", err)
	}

	if !strings.Contains(stdout.String(), "genetic") {
		t.Fatalf("expected summary for genetic, got:\n%s", stdout.String())
	}
	if strings.Contains(stdout.String(), "Container") {
		t.Fatalf("expected quiet output to omit container listings")
	}
	if _, err := os.Stat(filepath.Join(dir, "unused")); !os.IsNotExist(err) {
		t.Fatalf("expected no output directory, got %v", err)
	}
}

func TestSolveRequiresProblemSource(t *testing.T) {
	err := run([]string{"--log-level", "error", "solve", "--no-export"}, &bytes.Buffer{})
	if !errors.Is(err, errNoProblem) {
		t.Fatalf("expected errNoProblem, got %v", err)
	}
}

func TestSolveRejectsUnknownMethod(t *testing.T) {
	err := run([]string{"--log-level", "error", "solve", "--generate", "3", "--method", "tabu", "--no-export"}, &bytes.Buffer{})
	if !errors.Is(err, search.ErrUnknownMethod) {
		t.Fatalf("expected ErrUnknownMethod, got %v", err)
	}
}

func TestParseMethods(t *testing.T) {
	all, err := parseMethods("ALL")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(all) != len(search.Methods()) {
		t.Fatalf("expected every method, got %v", all)
	}

	got, err := parseMethods(" sa, ga ,simulated-annealing,")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []search.Method{search.SimulatedAnnealing, search.GeneticAlgorithm}
	if len(got) != len(want) || got[0] != want[0] || got[1] != want[1] {
		t.Fatalf("expected %v, got %v", want, got)
	}

	if _, err := parseMethods(" , "); !errors.Is(err, search.ErrUnknownMethod) {
		t.Fatalf("expected ErrUnknownMethod for an empty list, got %v", err)
	}
}

func TestOverridesOnlyCarrySetFlags(t *testing.T) {
	c := newCLI()
	if _, err := c.app.Parse([]string{"serve", "--rate-limit-rps", "0"}); err != nil {
		t.Fatalf("parse failed: %v", err)
	}

	o := c.overrides()
	if o.RateLimitRPS == nil || *o.RateLimitRPS != 0 {
		t.Fatalf("expected explicit zero rate limit to be carried, got %v", o.RateLimitRPS)
	}
	if o.RateLimitBurst != nil {
		t.Fatalf("expected unset burst to stay nil")
	}
	if o.Seed != nil {
		t.Fatalf("expected unset seed to stay nil")
	}
}
