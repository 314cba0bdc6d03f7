package main

import (
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/alecthomas/kingpin/v2"

	"github.com/eugenenazirov/binpack-search/internal/config"
)

var signalNotify = signal.Notify

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "binpack: %v\n", err)
		os.Exit(1)
	}
}

type cli struct {
	app        *kingpin.Application
	configFile *string
	logLevel   *string

	solve solveCommand
	serve serveCommand
}

type solveCommand struct {
	cmd         *kingpin.CmdClause
	problemFile *string
	generate    *int
	capacity    *int
	maxSize     *int
	saveProblem *string
	method      *string
	runs        *int
	seed        *int64
	seedSet     bool
	workers     *int
	output      *string
	noExport    *bool
	quiet       *bool
}

type serveCommand struct {
	cmd            *kingpin.CmdClause
	port           *string
	rateLimitRPS   *float64
	rateLimitBurst *int
}

func newCLI() *cli {
	c := &cli{}
	c.app = kingpin.New("binpack", "Bin packing by local search: hill climbing, simulated annealing and a genetic algorithm")
	c.configFile = c.app.Flag("config", "Path to YAML configuration file").String()
	c.logLevel = c.app.Flag("log-level", "Log level (debug, info, warn, error)").String()

	s := &c.solve
	s.cmd = c.app.Command("solve", "Run one or more search methods on a problem and export reports").Default()
	s.problemFile = s.cmd.Flag("problem", "Problem file (YAML or JSON)").Short('p').String()
	s.generate = s.cmd.Flag("generate", "Generate a random problem with this many items").Int()
	s.capacity = s.cmd.Flag("capacity", "Container capacity of a generated problem").Default("100").Int()
	s.maxSize = s.cmd.Flag("max-size", "Largest item size of a generated problem (defaults to the capacity)").Int()
	s.saveProblem = s.cmd.Flag("save-problem", "Write the problem that was solved to this file").String()
	s.method = s.cmd.Flag("method", "Comma-separated methods, or \"all\"").Short('m').Default("all").String()
	s.runs = s.cmd.Flag("runs", "Independent runs per method").Int()
	s.seed = s.cmd.Flag("seed", "Seed of the first run (0 picks one from the clock)").IsSetByUser(&s.seedSet).Int64()
	s.workers = s.cmd.Flag("workers", "Goroutines evaluating hill climbing neighbors").Int()
	s.output = s.cmd.Flag("output", "Directory for exported reports").Short('o').String()
	s.noExport = s.cmd.Flag("no-export", "Print results without writing report files").Bool()
	s.quiet = s.cmd.Flag("quiet", "Print only the summary table").Short('q').Bool()

	v := &c.serve
	v.cmd = c.app.Command("serve", "Serve the search engine over HTTP")
	v.port = v.cmd.Flag("port", "HTTP port exposed by the service").String()
	v.rateLimitRPS = v.cmd.Flag("rate-limit-rps", "Requests per second allowed (set 0 to disable)").Default("-1").Float64()
	v.rateLimitBurst = v.cmd.Flag("rate-limit-burst", "Burst capacity for rate limiter (set 0 to disable)").Default("-1").Int()

	return c
}

func run(args []string, stdout io.Writer) error {
	c := newCLI()
	command, err := c.app.Parse(args)
	if err != nil {
		return err
	}

	switch command {
	case c.solve.cmd.FullCommand():
		return c.runSolve(stdout)
	case c.serve.cmd.FullCommand():
		return c.runServe()
	default:
		return fmt.Errorf("unknown command %q", command)
	}
}

func (c *cli) overrides() *config.CLIOverrides {
	overrides := &config.CLIOverrides{
		ConfigFile: *c.configFile,
		LogLevel:   c.logLevel,
		Port:       c.serve.port,
		Runs:       c.solve.runs,
		OutputDir:  c.solve.output,
		Workers:    c.solve.workers,
	}

	if *c.serve.rateLimitRPS >= 0 {
		overrides.RateLimitRPS = c.serve.rateLimitRPS
	}

	if *c.serve.rateLimitBurst >= 0 {
		overrides.RateLimitBurst = c.serve.rateLimitBurst
	}

	if c.solve.seedSet {
		overrides.Seed = c.solve.seed
	}

	return overrides
}
