package app

import (
	"io"
	"log"
	"os"

	"iocc/internal/demo"
	"iocc/pkg/container"
	"iocc/pkg/scope"
)

// Wire bundles the container tree and what commands need around it.
type Wire struct {
	Config Config
	Root   *container.Container
	Logger *log.Logger
}

// NewWire builds the container tree for cfg. Greetings go to out; container
// events go to logger when it is non-nil.
func NewWire(cfg Config, h *scope.Hierarchy, out io.Writer, logger *log.Logger) (*Wire, error) {
	kinds, err := demo.ParseKinds(cfg.Languages)
	if err != nil {
		return nil, err
	}
	if out == nil {
		out = os.Stdout
	}

	opts := []container.Option{container.WithHierarchy(h)}
	if logger != nil {
		opts = append(opts, container.WithLogger(logger))
	} else {
		logger = log.New(io.Discard, "", 0)
	}
	if cfg.Strict {
		opts = append(opts, container.WithStrictLifetimes())
	}

	root, err := container.New(demo.Module(demo.Options{
		AppName:   cfg.AppName,
		Languages: kinds,
		Output:    out,
	}), opts...)
	if err != nil {
		return nil, err
	}

	return &Wire{
		Config: cfg,
		Root:   root,
		Logger: logger,
	}, nil
}
