package main

import (
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/emberlang/ember/internal/config"
	"github.com/emberlang/ember/internal/interp"
)

func main() {
	var limitsPath string
	var verbose bool
	var script string

	args := os.Args[1:]
	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "--limits":
			if i+1 >= len(args) {
				fmt.Fprintln(os.Stderr, "error: --limits requires a path")
				os.Exit(1)
			}
			i++
			limitsPath = args[i]
		case "--verbose", "-v":
			verbose = true
		case "--help", "-h":
			usage()
			return
		default:
			if script != "" {
				fmt.Fprintf(os.Stderr, "error: unexpected argument %q\n", args[i])
				os.Exit(1)
			}
			script = args[i]
		}
	}

	limits := config.DefaultLimits()
	if limitsPath != "" {
		loaded, err := config.LoadLimits(limitsPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: cannot load limits from %s: %v\n", limitsPath, err)
			os.Exit(1)
		}
		limits = loaded
	}

	logger := zap.NewNop()
	if verbose {
		dev, err := zap.NewDevelopment()
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: cannot initialize logger: %v\n", err)
			os.Exit(1)
		}
		logger = dev
	}
	defer logger.Sync()

	rt := interp.NewRuntime(interp.WithLogger(logger), interp.WithLimits(limits))

	if script != "" {
		if err := runScript(rt, script); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	runREPL(rt)
}

func usage() {
	fmt.Println(`usage: ember [options] [script]

Runs a script of module.fn(arg, ...) call lines, or an interactive
session when no script is given.

options:
  --limits <path>   load runtime limits from a YAML file
  --verbose, -v     log runtime events to stderr
  --help, -h        show this help`)
}

func runScript(rt *interp.Runtime, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return execLines(rt, string(data), func(result interp.Value) {
		fmt.Println(result.String())
	})
}
