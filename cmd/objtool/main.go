// objtool is a CLI utility for inspecting and converting Wavefront OBJ models.
package main

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/Faultbox/objmesh/internal/config"
	"github.com/Faultbox/objmesh/internal/logger"
)

func main() {
	config.ParseFlags()
	if flag.NArg() < 1 {
		printUsage()
		os.Exit(1)
	}

	command := flag.Arg(0)
	args := flag.Args()[1:]
	if command == "help" || command == "-h" || command == "--help" {
		printUsage()
		return
	}

	cmd, ok := commands[command]
	if !ok {
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}
	logger.Debug("config loaded", zap.String("command", command), zap.Any("config", cfg))

	err = cmd(newApp(cfg, os.Stdout, logger.Named(command)), args)
	if errors.Is(err, errDiagnostics) {
		logger.Warn("check reported diagnostics", zap.Strings("files", args))
	}
	logger.Sync()

	switch {
	case err == nil:
	case errors.Is(err, errDiagnostics):
		os.Exit(2)
	case errors.Is(err, errUsage):
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	default:
		logger.Error("command failed", zap.String("command", command), zap.Error(err))
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`objtool - Wavefront OBJ/MTL utility

Usage:
  objtool [flags] <command> [options]

Commands:
  info <file.obj>...                 Show mesh statistics
  groups <file.obj>                  List groups with index ranges and materials
  materials <file.obj>               List materials and texture bindings
  check <file.obj|file.mtl>...       Report absorbed parse problems (exit 2 if any)
  convert <in.obj> <out.obj>         Write a normalized OBJ (and MTL) copy
  config [-save [path]]              Print or save the effective configuration

A file argument of "-" reads the OBJ document from standard input.

Flags:
  -config <path>    Config file (default ./objtool.yaml, then user config dir)
  -debug            Enable debug logging
  -weld <mode>      Vertex welding: partial, full or none
  -charset <name>   Text encoding of OBJ/MTL files (utf-8, latin1, euc-kr, ...)
  -no-textures      Skip texture decoding

Examples:
  objtool info model.obj
  objtool -weld full groups model.obj
  objtool -charset euc-kr check data/*.obj
  objtool convert -precision 4 model.obj out/model.obj
  cat model.obj | objtool info -`)
}
