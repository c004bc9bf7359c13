package runner

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"

	"pyvm/pkg/asm"
	"pyvm/pkg/bytecode"
	"pyvm/pkg/color"
	"pyvm/pkg/value"
	"pyvm/pkg/vm"
)

type Runner struct {
	Help        bool     // Show help message
	Verbose     bool     // Enable debug logging of calls
	NoColor     bool     // Disable colored output
	ConfigFile  string   // Path to an optional pyvm.toml
	Entry       string   // Function to execute; overrides config and program
	MaxDepth    int      // Call depth limit; 0 keeps the configured or default value
	MaxSteps    int      // Instruction budget; 0 keeps the configured value
	ProgramFile string   // Path to the YAML program
	Args        []string // Arguments for the entry function, as YAML scalars

	Out io.Writer // print output and result; defaults to stdout
}

// Run loads the configuration and program, executes the entry function and
// prints its result.
func (opts *Runner) Run() error {
	out := opts.Out
	if out == nil {
		out = os.Stdout
	}

	cfg := &Config{}
	if opts.ConfigFile != "" {
		c, err := LoadConfig(opts.ConfigFile)
		if err != nil {
			return err
		}
		cfg = c
	}

	log.Info("Loading program", "file", opts.ProgramFile)
	prog, err := asm.LoadFile(opts.ProgramFile)
	if err != nil {
		return fmt.Errorf("loading failed: %w", err)
	}

	entry := firstNonEmpty(opts.Entry, cfg.Entry, prog.Entry, "main")
	fn, ok := prog.Function(entry)
	if !ok {
		return fmt.Errorf("%w: entry %q", asm.ErrUnknownFunction, entry)
	}

	args := make([]value.Value, len(opts.Args))
	for i, a := range opts.Args {
		v, err := asm.ParseValue(a)
		if err != nil {
			return fmt.Errorf("argument %d: %w", i, err)
		}
		args[i] = v
	}

	seed, err := cfg.GlobalValues()
	if err != nil {
		return err
	}
	globals := vm.NewGlobals(seed)
	// program globals and functions shadow configured ones
	for name, v := range prog.Globals {
		globals.Declare(name, v)
	}

	// the caller renders failures with Diagnose; the VM only traces them with -v
	vmLog := log.Default().With()
	if !opts.Verbose {
		vmLog.SetLevel(log.FatalLevel)
	}

	machine := vm.New(prog,
		vm.WithGlobals(globals),
		vm.WithWriter(out),
		vm.WithLogger(vmLog),
		vm.WithMaxDepth(firstPositive(opts.MaxDepth, cfg.MaxDepth, vm.DefaultMaxDepth)),
		vm.WithMaxSteps(firstPositive(opts.MaxSteps, cfg.MaxSteps, 0)),
	)

	if opts.Verbose {
		log.Debug("environment", "globals", machine.Globals().Names(), "builtins", machine.Builtins().Names())
		code, _ := prog.Code(mustFunction(fn))
		fmt.Fprintln(out, color.GreenText("=== "+entry+" ==="))
		fmt.Fprint(out, code.Listing())
	}

	res, err := machine.Execute(fn, args...)
	if err != nil {
		return fmt.Errorf("execution failed: %w", err)
	}

	fmt.Fprintln(out, value.Repr(res))
	return nil
}

// Diagnose renders a failure with the failing frame's position, instruction
// and operand stack when available.
func Diagnose(err error) string {
	var verr *vm.Error
	if !errors.As(err, &verr) {
		return color.Error(err.Error())
	}
	context := fmt.Sprintf("  instruction: %s\n  stack: %s", verr.Instruction, verr.StackString())
	return color.ErrorWithPosition(verr.Func, verr.Index, verr.Index*bytecode.Width, verr.Err.Error(), context)
}

func mustFunction(v value.Value) *value.Function {
	fn, _ := v.AsFunction()
	return fn
}

func firstNonEmpty(ss ...string) string {
	for _, s := range ss {
		if s != "" {
			return s
		}
	}
	return ""
}

func firstPositive(ns ...int) int {
	for _, n := range ns {
		if n > 0 {
			return n
		}
	}
	return 0
}
