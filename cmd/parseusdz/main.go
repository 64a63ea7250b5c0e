// Copyright 2024 Gustavo C. Viegas. All rights reserved.

// Parseusdz parses USD files and prints prim counts by
// type.
//
// Usage:
//
//	parseusdz [-config file] [-j jobs] file...
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"maps"
	"os"
	"slices"

	"golang.org/x/sync/errgroup"

	"github.com/gviegas/usd"
	"github.com/gviegas/usd/internal/cli"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// withPath prefixes err with path unless err names the
// file already.
func withPath(path string, err error) error {
	var pe *usd.ParseError
	if errors.Is(err, usd.ErrNotFound) || errors.As(err, &pe) {
		return err
	}
	return fmt.Errorf("%s: %w", path, err)
}

// stats summarizes one stage.
type stats struct {
	path   string
	total  int
	byType map[string]int
}

// Type names reported on their own line.
var known = [...]struct {
	typ   string
	label string
}{
	{usd.TypeMesh, "Meshes"},
	{usd.TypeXform, "Transforms"},
	{usd.TypeMaterial, "Materials"},
}

func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("parseusdz", flag.ContinueOnError)
	fs.SetOutput(stderr)
	cfgPath := cli.Flags(fs)
	jobs := fs.Int("j", 0, "number of files parsed in parallel (default: config jobs)")
	verbose := fs.Bool("v", false, "print the count of every prim type")
	fs.Usage = func() {
		fmt.Fprintln(stderr, "Usage: parseusdz [flags] file...")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() == 0 {
		fs.Usage()
		return 2
	}
	env, err := cli.Setup(*cfgPath, stdout, stderr)
	if err != nil {
		return cli.Fail(stderr, err)
	}
	if *jobs <= 0 {
		*jobs = env.Config.Jobs
	}

	paths := fs.Args()
	res := make([]stats, len(paths))
	var g errgroup.Group
	g.SetLimit(*jobs)
	for i, path := range paths {
		g.Go(func() error {
			st, err := parse(env, path)
			if err != nil {
				return withPath(path, err)
			}
			res[i] = st
			return nil
		})
	}
	err = g.Wait()
	for _, st := range res {
		if st.path != "" {
			report(stdout, st, *verbose)
		}
	}
	if err != nil {
		return cli.Fail(stderr, err)
	}
	return 0
}

func parse(env *cli.Env, path string) (st stats, err error) {
	s, err := env.Open(context.Background(), path)
	if err != nil {
		return st, err
	}
	defer func() {
		if e := s.Close(); err == nil {
			err = e
		}
	}()
	st = stats{path: path, byType: make(map[string]int)}
	for p, err := range s.All() {
		if err != nil {
			return stats{}, err
		}
		typ, err := p.TypeName()
		if err != nil {
			return stats{}, err
		}
		st.total++
		st.byType[typ]++
	}
	return st, nil
}

func report(w io.Writer, st stats, verbose bool) {
	fmt.Fprintf(w, "%s\n", st.path)
	fmt.Fprintf(w, "  Total prims: %d\n", st.total)
	other := st.total
	for _, k := range known {
		n := st.byType[k.typ]
		other -= n
		fmt.Fprintf(w, "  %s: %d\n", k.label, n)
	}
	fmt.Fprintf(w, "  Other: %d\n", other)
	if !verbose {
		return
	}
	for _, typ := range slices.Sorted(maps.Keys(st.byType)) {
		name := typ
		if name == "" {
			name = "(no type)"
		}
		fmt.Fprintf(w, "    %s: %d\n", name, st.byType[typ])
	}
}
