// Copyright 2024 Gustavo C. Viegas. All rights reserved.

// Package cli contains the setup shared by the
// command-line tools.
package cli

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/muesli/termenv"

	"github.com/gviegas/usd"
	"github.com/gviegas/usd/internal/config"
	"github.com/gviegas/usd/native"
	"github.com/gviegas/usd/native/tinyusdz"
)

// Env is the state of a command after setup.
type Env struct {
	Config  config.Config
	Library native.Library
	Stdout  io.Writer
	Stderr  io.Writer
}

// Flags registers the flags common to every command.
// It returns a pointer to the config file path.
func Flags(fs *flag.FlagSet) *string {
	return fs.String("config", "", "configuration `file` (default: user config dir)")
}

// Setup loads the configuration at path, installs the
// logger and selects the native library.
// If no library name is configured, the library already
// selected with usd.Use (if any) is kept.
func Setup(path string, stdout, stderr io.Writer) (*Env, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	slog.SetDefault(cfg.Logger(stderr))
	if cfg.LibraryPath != "" {
		tinyusdz.SetPath(cfg.LibraryPath)
	}
	var lib native.Library
	if cfg.Library != "" {
		lib, err = usd.Load(cfg.Library)
	} else {
		lib, err = usd.Library()
	}
	if err != nil {
		return nil, err
	}
	slog.Debug("library selected", "name", lib.Name())
	return &Env{cfg, lib, stdout, stderr}, nil
}

// Open opens the stage at path, honouring the configured
// timeout.
func (e *Env) Open(ctx context.Context, path string) (*usd.Stage, error) {
	if e.Config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.Config.Timeout)
		defer cancel()
	}
	return usd.OpenContext(ctx, e.Library, path)
}

// Output returns a termenv output over w that follows the
// configured colour mode.
func (e *Env) Output(w io.Writer) *termenv.Output {
	switch e.Config.Color {
	case config.ColorAlways:
		return termenv.NewOutput(w, termenv.WithProfile(termenv.ANSI))
	case config.ColorNever:
		return termenv.NewOutput(w, termenv.WithProfile(termenv.Ascii))
	}
	if f, ok := w.(*os.File); ok {
		return termenv.NewOutput(f)
	}
	return termenv.NewOutput(w, termenv.WithProfile(termenv.Ascii))
}

// Fail prints err to stderr in the tools' format and
// returns the exit code for failures.
func Fail(stderr io.Writer, err error) int {
	fmt.Fprintln(stderr, "Error:", err)
	return 1
}
