// Command statstables renders a CSV or XLSX file as a LaTeX, HTML or plain
// text table.
//
//	statstables -config table.yaml -index name -out results.tex data.csv
//
// Settings come from flags, then STATSTABLES_* environment variables, then
// defaults.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/kelseyhightower/envconfig"

	"github.com/bjaus/statstables"
)

// env holds the STATSTABLES_* environment settings.
type env struct {
	Format    string `envconfig:"FORMAT"`
	Decimals  int    `envconfig:"DECIMALS" default:"-1"`
	Config    string `envconfig:"CONFIG"`
	LogLevel  string `envconfig:"LOG_LEVEL" default:"warn"`
	LogFormat string `envconfig:"LOG_FORMAT" default:"text"`
}

func main() {
	if err := run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, "statstables:", err)
		os.Exit(1)
	}
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	var e env
	if err := envconfig.Process("statstables", &e); err != nil {
		return fmt.Errorf("environment: %w", err)
	}

	fs := flag.NewFlagSet("statstables", flag.ContinueOnError)
	fs.SetOutput(stderr)
	format := fs.String("format", e.Format, "output format: "+formatList())
	configPath := fs.String("config", e.Config, "YAML table config")
	index := fs.String("index", "", "input column to use as row labels")
	sheet := fs.String("sheet", "", "worksheet to read from an .xlsx input (default first)")
	delim := fs.String("delim", ",", "CSV field delimiter")
	decimals := fs.Int("decimals", e.Decimals, "decimal places for the default format (-1 keeps the config value)")
	title := fs.String("title", "", "table title")
	out := fs.String("out", "", "output file (default stdout)")
	fs.Usage = func() {
		fmt.Fprintln(fs.Output(), "usage: statstables [flags] [input.csv|input.xlsx|-]")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return err
	}
	if fs.NArg() > 1 {
		return fmt.Errorf("expected at most one input, got %d", fs.NArg())
	}

	logger, err := newLogger(stderr, e.LogLevel, e.LogFormat)
	if err != nil {
		return err
	}

	f, err := outputFormat(*format, *out)
	if err != nil {
		return err
	}

	cfg := statstables.DefaultConfig()
	if *configPath != "" {
		cfg, err = statstables.LoadConfigFile(*configPath)
		if err != nil {
			return err
		}
		logger.Debug("loaded config", slog.String("path", *configPath))
	}
	if *decimals >= 0 {
		cfg.Format.Decimals = *decimals
	}
	if *title != "" {
		cfg.Title = *title
	}

	input := fs.Arg(0)
	frame, err := readFrame(input, stdin, *index, *sheet, *delim)
	if err != nil {
		return err
	}
	for id, values := range frame.All() {
		logger.Debug("read column", slog.String("id", id), slog.Int("rows", len(values)))
	}

	t, err := statstables.FromFrame(frame, cfg.Format)
	if err != nil {
		return err
	}
	if err := t.Apply(cfg); err != nil {
		return err
	}

	logger.Info("rendering table",
		slog.String("format", f.String()),
		slog.Int("rows", t.NumRows()),
		slog.Int("columns", t.NumColumns()))

	if *out == "" {
		return statstables.Write(stdout, f, t)
	}
	if err := statstables.WriteFile(*out, f, t); err != nil {
		return err
	}
	logger.Info("wrote table", slog.String("path", *out))
	return nil
}

func newLogger(w io.Writer, level, format string) (*slog.Logger, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return nil, fmt.Errorf("log level %q: %w", level, err)
	}
	opts := &slog.HandlerOptions{Level: lvl}
	switch strings.ToLower(format) {
	case "json":
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	case "text", "":
		return slog.New(slog.NewTextHandler(w, opts)), nil
	}
	return nil, fmt.Errorf("log format %q: want text or json", format)
}

// outputFormat resolves the -format flag, falling back to the extension of
// the output file and then to ASCII.
func outputFormat(name, out string) (statstables.Format, error) {
	if name != "" {
		return statstables.ParseFormat(name)
	}
	switch strings.ToLower(filepath.Ext(out)) {
	case ".tex":
		return statstables.LaTeX, nil
	case ".html", ".htm":
		return statstables.HTML, nil
	}
	return statstables.ASCII, nil
}

func readFrame(path string, stdin io.Reader, index, sheet, delim string) (*statstables.Frame, error) {
	var comma rune
	if delim != "" {
		r := []rune(delim)
		if len(r) != 1 {
			return nil, fmt.Errorf("delimiter %q must be a single character", delim)
		}
		comma = r[0]
	}
	if path == "" || path == "-" {
		return statstables.ReadCSV(stdin, statstables.CSVOptions{Comma: comma, IndexColumn: index})
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm":
		return statstables.ReadXLSX(file, statstables.XLSXOptions{Sheet: sheet, IndexColumn: index})
	case ".tsv":
		return statstables.ReadCSV(file, statstables.CSVOptions{Comma: '\t', IndexColumn: index})
	default:
		return statstables.ReadCSV(file, statstables.CSVOptions{Comma: comma, IndexColumn: index})
	}
}

func formatList() string {
	names := make([]string, 0, len(statstables.Formats()))
	for _, f := range statstables.Formats() {
		names = append(names, f.String())
	}
	return strings.Join(names, ", ")
}
