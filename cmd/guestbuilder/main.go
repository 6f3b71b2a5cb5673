// Command guestbuilder wraps a package exposing a constructor returning an
// api.Core, New() by default, into a UWB guest module.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path"
)

var (
	output      string
	workDir     string
	constructor string
	remain      bool
)

func init() {
	flag.StringVar(&output, "o", "", "output file (default: {package}.wasm)")
	flag.StringVar(&workDir, "workdir", "", "working directory (default: ./{package})")
	flag.StringVar(&constructor, "constructor", defaultConstructor, "function of {package} returning the api.Core")
	flag.BoolVar(&remain, "remain", false, "keep the working directory after build")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Usage: %s {package}\n", os.Args[0])
		flag.PrintDefaults()
	}
}

func newBuilder(packagePath string) *Builder {
	packageName := path.Base(packagePath)

	b := &Builder{
		WorkDir:     workDir,
		Package:     packagePath,
		PackageName: packageName,
		Output:      output,
		Constructor: constructor,
	}
	if b.Output == "" {
		b.Output = packageName + ".wasm"
	}
	if b.WorkDir == "" {
		b.WorkDir = packageName
	}
	return b
}

func main() {
	flag.Parse()
	if flag.NArg() == 0 {
		flag.Usage()
		return
	}

	builder := newBuilder(flag.Arg(0))

	exitCode := 0
	defer func() {
		if remain {
			slog.Info("Working directory will be kept", "workDir", builder.WorkDir)
		} else if err := builder.Clean(); err != nil {
			slog.Warn("Failed to clean up", "error", err)
		}
		os.Exit(exitCode)
	}()

	if err := builder.Prepare(); err != nil {
		slog.Error("Failed to prepare build", "error", err)
		exitCode = 1
		return
	}
	if err := builder.Build(); err != nil {
		slog.Error("Failed to build package", "error", err)
		exitCode = 1
		return
	}

	slog.Info("Build completed successfully", "output", builder.Output)
}
