package main

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/alecthomas/kong"

	"jsontab/internal/arena"
	"jsontab/internal/config"
	"jsontab/internal/errors"
	"jsontab/internal/input"
	"jsontab/internal/parser"
	"jsontab/internal/tabulate"
)

// CLI defines the command-line interface
var CLI struct {
	Input   string `arg:"" optional:"" help:"Path to input JSON file (plain or gzipped). If not specified, reads from stdin." type:"path"`
	Output  string `help:"Path to output CSV file. If not specified, writes to stdout." short:"o" type:"path"`
	Config  string `help:"Path to YAML config file." short:"c" type:"path"`
	Version bool   `help:"Show version information." short:"v"`
}

// Version information
const (
	Version = "0.1.0"
)

func main() {
	// Parse CLI arguments with Kong
	argParser := kong.Must(&CLI,
		kong.Name("jsontab"),
		kong.Description("A tool to flatten JSON documents into tabular CSV"),
		kong.UsageOnError(),
	)

	_, err := argParser.Parse(os.Args[1:])
	if err != nil {
		// Usage is already shown by kong.UsageOnError(); a bad or
		// missing argument exits 2, pipeline failures exit 1.
		os.Exit(2)
	}

	if CLI.Version {
		fmt.Printf("jsontab version %s\n", Version)
		return
	}

	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", errors.UserFriendlyError(err))
		os.Exit(1)
	}
}

// run executes the main program logic
func run() error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	data, err := readInput()
	if err != nil {
		return err
	}

	if CLI.Output == "" {
		return convert(data, cfg, os.Stdout)
	}

	f, err := os.Create(CLI.Output)
	if err != nil {
		return errors.NewOutputError(fmt.Sprintf("failed to create output file '%s'", CLI.Output), err)
	}
	if err := convert(data, cfg, f); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return errors.NewOutputError(fmt.Sprintf("failed to close output file '%s'", CLI.Output), err)
	}
	return nil
}

// convert runs the whole pipeline over one input buffer: parse and
// dispatch the document, collect the column set, then stream the rows.
// Rows are written as they are produced; a mid-stream failure leaves
// whatever was already flushed (fail fast, no rollback).
func convert(data []byte, cfg *config.Config, out io.Writer) (err error) {
	// Pool exhaustion surfaces as a panic from the arena; it is
	// converted here, once, into a fatal resource error.
	defer func() {
		if r := recover(); r != nil {
			if r == arena.ErrExhausted { //nolint:errorlint // panic value, not a wrapped chain
				err = errors.NewResourceError(
					"memory pool exhausted; raise the arena multipliers in the config file",
					arena.ErrExhausted,
				)
				return
			}
			panic(r)
		}
	}()

	perm := arena.New(arena.Estimate(len(data), cfg.Arena.PermanentMultiplier, cfg.Arena.PermanentFloor))
	tmp := arena.New(arena.Estimate(len(data), cfg.Arena.TemporaryMultiplier, cfg.Arena.TemporaryFloor))

	records, err := parser.ParseRecords(data, perm)
	if err != nil {
		return err
	}

	// Pass 1: collect the column set.
	headers := tabulate.NewHeaderSet(perm)
	tabulate.Collect(headers, records, tmp)

	// Pass 2: emit header row and data rows.
	bw := bufio.NewWriter(out)
	w := tabulate.NewWriter(bw, headers, tmp)
	if fn := cfg.HeaderTransform(); fn != nil {
		w.SetHeaderTransform(fn)
	}
	if err := w.WriteAll(records); err != nil {
		return err
	}
	if err := bw.Flush(); err != nil {
		return errors.NewOutputError("failed to flush CSV output", err)
	}
	return nil
}

// loadConfig resolves the configuration: explicit -c path, then a
// discovered .jsontab.yaml, then defaults.
func loadConfig() (*config.Config, error) {
	if CLI.Config != "" {
		return config.LoadConfig(CLI.Config)
	}
	if path := config.FindConfigFile(); path != "" {
		return config.LoadConfig(path)
	}
	return config.NewConfig(), nil
}

// readInput loads the input buffer from the positional path or from
// piped stdin
func readInput() ([]byte, error) {
	if CLI.Input != "" {
		return input.Load(CLI.Input)
	}

	stdinInfo, err := os.Stdin.Stat()
	if err != nil {
		return nil, errors.NewInputError("failed to access stdin", err)
	}
	if (stdinInfo.Mode() & os.ModeCharDevice) != 0 {
		// Terminal is interactive (not piped)
		return nil, errors.NewInputError("no input provided", errors.ErrNoInput)
	}
	return input.ReadAll(os.Stdin)
}
