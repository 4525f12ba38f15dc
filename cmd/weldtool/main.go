// weldtool is a CLI utility for welding and joining polygon meshes.
package main

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/Faultbox/meshweld/internal/config"
	"github.com/Faultbox/meshweld/internal/logger"
	"github.com/Faultbox/meshweld/pkg/formats"
	"github.com/Faultbox/meshweld/pkg/weld"
)

func main() {
	// Global flags come before the subcommand.
	config.ParseFlags()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(logger.Options{
		Level: cfg.Logging.Level,
		File:  cfg.Logging.LogFile,
		Quiet: cfg.Logging.Quiet,
	}); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	args := flag.Args()
	if len(args) < 1 {
		printUsage()
		os.Exit(1)
	}

	switch args[0] {
	case "info":
		cmdInfo(args[1:])
	case "weld":
		cmdWeld(cfg, args[1:])
	case "join":
		cmdJoin(cfg, args[1:])
	case "joinweld", "jw":
		cmdJoinWeld(cfg, args[1:])
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", args[0])
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`weldtool - polygon mesh welding utility

Usage:
  weldtool [options] <command> [arguments]

Commands:
  info <mesh>                 Show mesh statistics
  weld <in> <out>             Merge coincident vertices of one mesh
  join <in...> <out>          Concatenate meshes without welding
  joinweld <in...> <out>      Concatenate meshes and weld the result

Options:
  -precision N   Welding precision in decimal places (default 3)
  -force         Overwrite existing output files
  -config PATH   Path to config file
  -debug         Enable debug logging
  -quiet         Suppress console logging

Meshes are read and written as .obj or .stl, chosen by extension.

Examples:
  weldtool info scan.stl
  weldtool -precision 4 weld scan.stl welded.obj
  weldtool join left.obj right.obj combined.obj
  weldtool -force joinweld a.stl b.stl c.stl merged.obj`)
}

func cmdInfo(args []string) {
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "Usage: weldtool info <mesh>")
		os.Exit(1)
	}

	m, err := formats.ReadMeshFile(args[0])
	if err != nil {
		logger.Error("reading mesh", zap.String("path", args[0]), zap.Error(err))
		os.Exit(1)
	}

	bounds := m.Bounds()
	fmt.Printf("Mesh:     %s\n", args[0])
	fmt.Printf("Vertices: %d\n", m.VertexCount())
	fmt.Printf("Faces:    %d\n", m.FaceCount())
	fmt.Printf("Bounds:   min (%g, %g, %g)  max (%g, %g, %g)\n",
		bounds.Min.X, bounds.Min.Y, bounds.Min.Z,
		bounds.Max.X, bounds.Max.Y, bounds.Max.Z)

	// Estimate duplicates at the default precision.
	out, err := weld.Weld(m, weld.DefaultPrecision)
	if err != nil {
		if errors.Is(err, weld.ErrEmptyInput) {
			return
		}
		logger.Error("welding for duplicate estimate", zap.Error(err))
		os.Exit(1)
	}
	fmt.Printf("Coincident vertices at %d decimals: %d\n",
		weld.DefaultPrecision, m.VertexCount()-len(out.Vertices))
}

func cmdWeld(cfg *config.Config, args []string) {
	if len(args) != 2 {
		fmt.Fprintln(os.Stderr, "Usage: weldtool weld <in> <out>")
		os.Exit(1)
	}

	m, err := formats.ReadMeshFile(args[0])
	if err != nil {
		logger.Error("reading mesh", zap.String("path", args[0]), zap.Error(err))
		os.Exit(1)
	}

	prec := weld.Precision(cfg.Weld.Precision)
	out, err := weld.WeldInto(m, prec, weld.NewIndexedMesh)
	if err != nil {
		logger.Error("welding mesh", zap.Error(err))
		os.Exit(1)
	}

	logger.Info("welded mesh",
		zap.Int("vertices_in", m.VertexCount()),
		zap.Int("vertices_out", out.VertexCount()),
		zap.Int("faces", out.FaceCount()),
		zap.Int("precision", cfg.Weld.Precision))

	writeOutput(cfg, args[1], out)
}

func cmdJoin(cfg *config.Config, args []string) {
	if len(args) < 3 {
		fmt.Fprintln(os.Stderr, "Usage: weldtool join <in...> <out>")
		os.Exit(1)
	}

	srcs := readMeshes(args[:len(args)-1])
	out, err := weld.JoinInto(srcs, weld.NewIndexedMesh)
	if err != nil {
		logger.Error("joining meshes", zap.Error(err))
		os.Exit(1)
	}

	logger.Info("joined meshes",
		zap.Int("meshes", len(srcs)),
		zap.Int("vertices", out.VertexCount()),
		zap.Int("faces", out.FaceCount()))

	writeOutput(cfg, args[len(args)-1], out)
}

func cmdJoinWeld(cfg *config.Config, args []string) {
	if len(args) < 3 {
		fmt.Fprintln(os.Stderr, "Usage: weldtool joinweld <in...> <out>")
		os.Exit(1)
	}

	srcs := readMeshes(args[:len(args)-1])
	prec := weld.Precision(cfg.Weld.Precision)
	out, err := weld.JoinAndWeldInto(srcs, prec, weld.NewIndexedMesh)
	if err != nil {
		logger.Error("joining and welding meshes", zap.Error(err))
		os.Exit(1)
	}

	var nv int
	for _, s := range srcs {
		nv += len(s.Vertices())
	}
	logger.Info("joined and welded meshes",
		zap.Int("meshes", len(srcs)),
		zap.Int("vertices_in", nv),
		zap.Int("vertices_out", out.VertexCount()),
		zap.Int("faces", out.FaceCount()),
		zap.Int("precision", cfg.Weld.Precision))

	writeOutput(cfg, args[len(args)-1], out)
}

func readMeshes(paths []string) []weld.Source {
	srcs := make([]weld.Source, 0, len(paths))
	for _, path := range paths {
		m, err := formats.ReadMeshFile(path)
		if err != nil {
			logger.Error("reading mesh", zap.String("path", path), zap.Error(err))
			os.Exit(1)
		}
		logger.Debug("read mesh",
			zap.String("path", path),
			zap.Int("vertices", m.VertexCount()),
			zap.Int("faces", m.FaceCount()))
		srcs = append(srcs, m)
	}
	return srcs
}

func writeOutput(cfg *config.Config, path string, m weld.Source) {
	if !cfg.Output.Overwrite {
		if _, err := os.Stat(path); err == nil {
			fmt.Fprintf(os.Stderr, "Output file %s exists, use -force to overwrite\n", path)
			os.Exit(1)
		}
	}
	if err := formats.WriteMeshFile(path, m); err != nil {
		logger.Error("writing mesh", zap.String("path", path), zap.Error(err))
		os.Exit(1)
	}
	fmt.Printf("Wrote %s\n", path)
}
