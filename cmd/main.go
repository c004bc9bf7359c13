package main

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/charmbracelet/log"

	"pyvm/internal/logger"
	"pyvm/internal/runner"
	"pyvm/pkg/color"
	"pyvm/pkg/vm"
)

// Main entry point for the pyvm runner.
func main() {
	options := runner.Runner{}

	flag.BoolVar(&options.Help, "h", false, "Show help")
	flag.BoolVar(&options.Verbose, "v", false, "Verbose mode (log every call, print the entry listing)")
	flag.BoolVar(&options.NoColor, "n", false, "No color")
	flag.StringVar(&options.ConfigFile, "c", "", "Path to a pyvm.toml config file")
	flag.StringVar(&options.Entry, "e", "", "Entry function (default: config, program, then main)")
	flag.IntVar(&options.MaxDepth, "depth", 0, "Maximum call depth")
	flag.IntVar(&options.MaxSteps, "steps", 0, "Maximum instructions executed (0 = unlimited)")

	flag.Parse()
	args := flag.Args()

	logger.Init(options.Verbose, options.NoColor)
	if options.Help {
		fmt.Printf("Usage: %s [options] <program.yaml> [args...]\n", os.Args[0])
		fmt.Println("Options:")
		flag.PrintDefaults()
		return
	}

	if options.NoColor {
		color.EnableColor(false)
	}

	if len(args) == 0 {
		log.Fatal("No program file provided", "help", fmt.Sprintf("%s -h", os.Args[0]))
	}

	options.ProgramFile = args[0]
	options.Args = args[1:]

	if err := options.Run(); err != nil {
		var verr *vm.Error
		if errors.As(err, &verr) {
			fmt.Fprintln(os.Stderr, runner.Diagnose(err))
			os.Exit(1)
		}
		log.Fatal("Run failed", "error", err)
	}
}
