// 3dstool inspects 3D Studio (.3ds) scene files.
package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/Faultbox/scene3ds/internal/assets"
	"github.com/Faultbox/scene3ds/internal/config"
	"github.com/Faultbox/scene3ds/internal/logger"
)

var errUsage = errors.New("invalid usage")

func main() {
	config.ParseFlags()
	args := config.Args()
	if len(args) < 1 {
		printUsage(os.Stderr)
		os.Exit(1)
	}

	command := args[0]
	if command == "help" || command == "-h" || command == "--help" {
		printUsage(os.Stdout)
		return
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if err := logger.Init(cfg.Logging.Level, cfg.LogFileConfig()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	tool := newTool(cfg, os.Stdout)
	defer tool.close()

	if err := tool.run(command, args[1:]); err != nil {
		if errors.Is(err, errUsage) {
			printUsage(os.Stderr)
		} else {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		logger.Sync()
		os.Exit(1)
	}
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, `3dstool - 3D Studio scene inspector

Usage:
  3dstool [flags] <command> <file.3ds>

Commands:
  info <file>                Show scene statistics
  tree <file>                Show the node hierarchy with attached meshes
  chunks <file>              Show the raw chunk tree
  dump [-o out.yaml] <file>  Write a YAML summary of the imported scene
  textures <file>            List texture references and probe the images

Flags:
  -config <path>    Config file (default ./3dstool.yaml)
  -debug            Enable debug logging
  -log-file <path>  Also write logs to a rotating file
  -encoding <name>  Code page of names in the file (e.g. windows-1251)
  -no-dedup         Keep one vertex per face corner
  -textures <dirs>  Extra texture search paths

Model files may be compressed (.gz, .zst, .lz4).

Examples:
  3dstool info models/house.3ds
  3dstool -debug tree models/house.3ds.zst
  3dstool dump -o house.yaml models/house.3ds
  3dstool -textures ./maps textures models/house.3ds`)
}

// tool runs commands against an output writer.
type tool struct {
	cfg    *config.Config
	assets *assets.Manager
	out    io.Writer
}

func newTool(cfg *config.Config, out io.Writer) *tool {
	m := assets.NewManager(cfg.Textures.SearchPaths, cfg.Textures.Cache, logger.Named("assets"))
	m.SetMaxModelSize(cfg.MaxModelSize())
	return &tool{cfg: cfg, assets: m, out: out}
}

func (t *tool) close() {
	t.assets.Close()
}

func (t *tool) run(command string, args []string) error {
	switch command {
	case "info":
		return t.cmdInfo(args)
	case "tree":
		return t.cmdTree(args)
	case "chunks":
		return t.cmdChunks(args)
	case "dump":
		return t.cmdDump(args)
	case "textures", "tex":
		return t.cmdTextures(args)
	default:
		return fmt.Errorf("unknown command %q: %w", command, errUsage)
	}
}
