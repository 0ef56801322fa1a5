// Package compiler drives code generation for a whole request: it indexes the
// schema graph, generates every requested file in parallel and hands the
// results to a sink.
package compiler

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/alexhholmes/capnpc-js/internal/codegen"
	"github.com/alexhholmes/capnpc-js/internal/config"
	"github.com/alexhholmes/capnpc-js/internal/emit"
	"github.com/alexhholmes/capnpc-js/internal/parser"
	"github.com/alexhholmes/capnpc-js/internal/schema"
	"github.com/alexhholmes/capnpc-js/internal/validator"
)

type Compiler struct {
	cfg       *config.Config
	sink      emit.Sink
	logger    *slog.Logger
	validator *validator.Validator
}

// New creates a compiler. A nil cfg uses the defaults and a nil logger uses slog.Default().
func New(cfg *config.Config, sink emit.Sink, logger *slog.Logger) (*Compiler, error) {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	if logger == nil {
		logger = slog.Default()
	}

	c := &Compiler{cfg: cfg, sink: sink, logger: logger}
	if cfg.Validate {
		v, err := validator.New()
		if err != nil {
			return nil, err
		}
		c.validator = v
	}
	return c, nil
}

// CompileDocument validates a decoded request document (when enabled) and compiles it
func (c *Compiler) CompileDocument(ctx context.Context, doc *parser.Document) error {
	if c.validator != nil {
		if err := c.validator.Validate(doc); err != nil {
			return err
		}
		c.logger.Debug("request.validated", "nodes", len(doc.Nodes))
	}

	req, err := doc.Request()
	if err != nil {
		return err
	}
	return c.Run(ctx, req)
}

// Run generates every requested file. Any failure aborts the run before a
// single file is written.
func (c *Compiler) Run(ctx context.Context, req *schema.Request) error {
	start := time.Now()
	c.logger.Info("compile.start", "nodes", len(req.Nodes), "files", len(req.RequestedFiles))

	graph, err := schema.NewGraph(req.Nodes)
	if err != nil {
		return err
	}
	gen := codegen.NewGenerator(graph)

	outputs := make([]*codegen.FileOutput, len(req.RequestedFiles))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.workers())
	for i, rf := range req.RequestedFiles {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			out, err := gen.GenerateFile(rf)
			if err != nil {
				return err
			}
			outputs[i] = out
			c.logger.Debug("file.generated",
				"file", out.Filename,
				"bytes", len(out.Source),
				"imports", len(out.UsedImports))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return fmt.Errorf("generating: %w", err)
	}

	for _, out := range outputs {
		name := out.Filename + c.cfg.Suffix
		if err := c.sink.Write(ctx, name, []byte(out.Source)); err != nil {
			return err
		}
		c.logger.Info("file.written", "file", name, "bytes", len(out.Source))
	}

	c.logger.Info("compile.done", "files", len(outputs), "elapsed", time.Since(start))
	return nil
}

func (c *Compiler) workers() int {
	if c.cfg.Workers > 0 {
		return c.cfg.Workers
	}
	return runtime.NumCPU()
}
