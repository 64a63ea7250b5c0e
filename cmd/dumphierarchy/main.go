// Copyright 2024 Gustavo C. Viegas. All rights reserved.

// Dumphierarchy prints the prim hierarchy of a USD file
// as an indented tree.
//
// Usage:
//
//	dumphierarchy [-config file] [-n max] [-paths] file
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/muesli/termenv"

	"github.com/gviegas/usd"
	"github.com/gviegas/usd/internal/cli"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("dumphierarchy", flag.ContinueOnError)
	fs.SetOutput(stderr)
	cfgPath := cli.Flags(fs)
	maxProps := fs.Int("n", -1, "maximum properties printed per prim (default: config max_properties)")
	paths := fs.Bool("paths", false, "print full prim paths instead of names")
	fs.Usage = func() {
		fmt.Fprintln(stderr, "Usage: dumphierarchy [flags] file")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() != 1 {
		fs.Usage()
		return 2
	}
	env, err := cli.Setup(*cfgPath, stdout, stderr)
	if err != nil {
		return cli.Fail(stderr, err)
	}
	if *maxProps < 0 {
		*maxProps = env.Config.MaxProperties
	}
	d := dumper{
		out:      env.Output(stdout),
		maxProps: *maxProps,
		paths:    *paths,
	}
	if err := d.dump(env, fs.Arg(0)); err != nil {
		return cli.Fail(stderr, err)
	}
	return 0
}

type dumper struct {
	out      *termenv.Output
	maxProps int
	paths    bool
}

func (d *dumper) dump(env *cli.Env, path string) (err error) {
	s, err := env.Open(context.Background(), path)
	if err != nil {
		return err
	}
	defer func() {
		if e := s.Close(); err == nil {
			err = e
		}
	}()
	fmt.Fprintf(d.out, "Loading: %s\n\nScene Hierarchy:\n================\n", path)
	t := s.Traverse()
	for t.Next() {
		if err := d.prim(t.Prim(), t.Depth()); err != nil {
			return err
		}
	}
	if err := t.Err(); err != nil {
		return err
	}
	fmt.Fprintln(d.out, "\nDone!")
	return nil
}

func (d *dumper) prim(p usd.Prim, depth int) error {
	info, err := p.Info()
	if err != nil {
		return err
	}
	ind := strings.Repeat("  ", depth)
	name := info.Name
	if d.paths {
		name = info.Path
	}
	typ := info.TypeName
	if typ == "" {
		typ = "(no type)"
	}
	fmt.Fprintf(d.out, "%s%s <%s>  %s\n",
		ind,
		d.out.String(name).Bold(),
		d.out.String(typ).Foreground(d.typeColor(info.TypeName)),
		d.out.String(fmt.Sprintf("[%d children, %d properties]", info.NumChildren, len(info.Properties))).Faint())
	n := min(len(info.Properties), d.maxProps)
	for _, prop := range info.Properties[:n] {
		fmt.Fprintf(d.out, "%s    .%s\n", ind, prop)
	}
	if rest := len(info.Properties) - n; rest > 0 {
		fmt.Fprintf(d.out, "%s    ... and %d more properties\n", ind, rest)
	}
	return nil
}

func (d *dumper) typeColor(typ string) termenv.Color {
	switch {
	case usd.IsMesh(typ):
		return d.out.Color("2")
	case usd.IsXform(typ):
		return d.out.Color("4")
	case usd.IsMaterial(typ), usd.IsShader(typ):
		return d.out.Color("5")
	case usd.IsCamera(typ), usd.IsLight(typ):
		return d.out.Color("3")
	}
	return d.out.Color("8")
}
