package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"

	"github.com/alexhholmes/capnpc-js/internal/compiler"
	"github.com/alexhholmes/capnpc-js/internal/config"
	"github.com/alexhholmes/capnpc-js/internal/emit"
	"github.com/alexhholmes/capnpc-js/internal/parser"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	fs := flag.NewFlagSet("capnpc-js", flag.ContinueOnError)
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "usage: capnpc-js [flags] [request-file]\n\nReads the request from stdin when no file is given.\n\n")
		fs.PrintDefaults()
	}
	outDir := fs.String("o", "", "output directory (overrides config)")
	configPath := fs.String("config", "", "YAML config file")
	params := fs.String("param", "", `parameter string, e.g. "out=gen suffix=.mjs workers=2"`)
	formatName := fs.String("format", "auto", "request format: auto, json or yaml")
	workers := fs.Int("j", 0, "concurrent files (0 = config or number of CPUs)")
	noValidate := fs.Bool("no-validate", false, "skip the request contract check")
	verbose := fs.Bool("v", false, "debug logging")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() > 1 {
		fs.Usage()
		return fmt.Errorf("expected at most one request file, got %d", fs.NArg())
	}

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	cfg, err := config.Load(*configPath)
	if err != nil {
		return err
	}
	if err := cfg.ParseParams(*params); err != nil {
		return err
	}
	if *outDir != "" {
		cfg.OutDir = *outDir
	}
	if *workers > 0 {
		cfg.Workers = *workers
	}
	if *noValidate {
		cfg.Validate = false
	}

	format, err := parser.ParseFormat(*formatName)
	if err != nil {
		return err
	}

	var doc *parser.Document
	if fs.NArg() == 1 {
		doc, err = parser.ReadFile(fs.Arg(0), format)
	} else {
		doc, err = parser.Read(os.Stdin, format)
	}
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	c, err := compiler.New(cfg, emit.DirSink{Dir: cfg.OutDir}, logger)
	if err != nil {
		return err
	}
	return c.CompileDocument(ctx, doc)
}
