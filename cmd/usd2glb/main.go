// Copyright 2024 Gustavo C. Viegas. All rights reserved.

// Usd2glb converts the prim hierarchy of a USD file into
// a glTF node tree.
// Geometry and materials are not converted: only the
// hierarchy, cameras and lights are.
//
// Usage:
//
//	usd2glb [-config file] input output
//
// The output is written as JSON if its name ends in
// ".gltf", and as GLB otherwise.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/gviegas/usd"
	"github.com/gviegas/usd/gltf"
	"github.com/gviegas/usd/internal/cli"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("usd2glb", flag.ContinueOnError)
	fs.SetOutput(stderr)
	cfgPath := cli.Flags(fs)
	fs.Usage = func() {
		fmt.Fprintln(stderr, "Usage: usd2glb [flags] input output")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() != 2 {
		fs.Usage()
		return 2
	}
	env, err := cli.Setup(*cfgPath, stdout, stderr)
	if err != nil {
		return cli.Fail(stderr, err)
	}
	in, out := fs.Arg(0), fs.Arg(1)
	g, err := load(env, in)
	if err != nil {
		return cli.Fail(stderr, err)
	}
	if err := write(out, g); err != nil {
		return cli.Fail(stderr, err)
	}
	fmt.Fprintf(stdout, "Wrote %d nodes to %s\n", len(g.Nodes), out)
	fmt.Fprintln(stderr, "Note: geometry and materials are not exported")
	return 0
}

func load(env *cli.Env, path string) (g *gltf.GLTF, err error) {
	s, err := env.Open(context.Background(), path)
	if err != nil {
		return nil, err
	}
	defer func() {
		if e := s.Close(); err == nil {
			err = e
		}
	}()
	return convert(s)
}

// Defaults for cameras, whose attributes cannot be read.
const (
	yfov  = 0.6911
	znear = 0.1
)

// lightType maps light schemas to glTF light types.
// A DiskLight emits over a hemisphere, which no spot cone
// describes, so it is approximated by a point light.
var lightType = map[string]string{
	"DistantLight":  gltf.DIRECTIONAL,
	"SphereLight":   gltf.POINT,
	"DiskLight":     gltf.POINT,
	"RectLight":     gltf.POINT,
	"CylinderLight": gltf.POINT,
}

// convert builds a glTF node for every prim of s.
// The traversal is pre-order, so the parent of a prim at
// depth d is the last node seen at depth d-1.
func convert(s *usd.Stage) (*gltf.GLTF, error) {
	g := &gltf.GLTF{
		Asset:  gltf.Asset{Generator: "usd2glb", Version: "2.0"},
		Scene:  new(int64),
		Scenes: []gltf.Scene{{Name: filepath.Base(s.Path())}},
	}
	var lights []gltf.Light
	var parents []int64
	t := s.Traverse()
	for t.Next() {
		info, err := t.Prim().Info()
		if err != nil {
			return nil, err
		}
		idx := int64(len(g.Nodes))
		n := gltf.Node{
			Name:   info.Name,
			Extras: map[string]any{"path": info.Path, "type": info.TypeName},
		}
		switch {
		case usd.IsCamera(info.TypeName):
			cam := int64(len(g.Cameras))
			n.Camera = &cam
			g.Cameras = append(g.Cameras, gltf.Camera{
				Type:        gltf.PERSPECTIVE,
				Name:        info.Name,
				Perspective: &gltf.Perspective{YFOV: yfov, ZNear: znear},
			})
		case usd.IsLight(info.TypeName):
			typ, ok := lightType[info.TypeName]
			if !ok {
				slog.Warn("light type not supported by glTF", "path", info.Path, "type", info.TypeName)
				break
			}
			n.Extensions = &gltf.NodeExt{Light: &gltf.NodeLight{Light: int64(len(lights))}}
			lights = append(lights, gltf.Light{Type: typ, Name: info.Name})
		}
		g.Nodes = append(g.Nodes, n)

		d := t.Depth()
		parents = append(parents[:d], idx)
		if d == 0 {
			g.Scenes[0].Nodes = append(g.Scenes[0].Nodes, idx)
		} else {
			p := parents[d-1]
			g.Nodes[p].Children = append(g.Nodes[p].Children, idx)
		}
	}
	if err := t.Err(); err != nil {
		return nil, err
	}
	if len(lights) > 0 {
		g.ExtensionsUsed = []string{gltf.LightsExt}
		g.Extensions = &gltf.Ext{Lights: &gltf.KHRLightsPunctual{Lights: lights}}
	}
	return g, g.Check()
}

func write(path string, g *gltf.GLTF) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if e := f.Close(); err == nil {
			err = e
		}
	}()
	if strings.EqualFold(filepath.Ext(path), ".gltf") {
		return gltf.Encode(f, g)
	}
	return gltf.WriteGLB(f, g, nil)
}
