package vm

import (
	"io"
	"os"

	"github.com/charmbracelet/log"

	"pyvm/pkg/bytecode"
	"pyvm/pkg/value"
)

// DefaultMaxDepth bounds call nesting unless overridden with WithMaxDepth.
const DefaultMaxDepth = 1000

// Provider turns a user-defined callable into its decoded body. The VM never
// mutates what it receives.
type Provider interface {
	Code(fn *value.Function) (*bytecode.Code, error)
}

// VM executes decoded instruction streams one frame at a time. A VM runs at
// most one call chain at a time.
type VM struct {
	provider Provider
	globals  *Globals
	builtins *Builtins
	handlers [bytecode.NumOpcodes]handler

	logger *log.Logger
	out    io.Writer // output writer for print

	maxDepth int // maximum call depth
	maxSteps int // maximum steps per Execute (0 = unlimited)
	steps    int // steps executed
	frames   int // frame ids handed out
}

type Option func(*VM)

// WithGlobals shares an existing global environment.
func WithGlobals(g *Globals) Option {
	return func(vm *VM) { vm.globals = g }
}

// WithBuiltins replaces the native built-in registry.
func WithBuiltins(b *Builtins) Option {
	return func(vm *VM) { vm.builtins = b }
}

// WithLogger sets the logger used for call tracing and failure reports.
func WithLogger(l *log.Logger) Option {
	return func(vm *VM) { vm.logger = l }
}

// WithWriter sets the output writer for the default print builtin.
func WithWriter(w io.Writer) Option {
	return func(vm *VM) { vm.out = w }
}

// WithMaxDepth bounds call nesting; exceeding it fails with ErrRecursionLimit.
func WithMaxDepth(n int) Option {
	return func(vm *VM) { vm.maxDepth = n }
}

// WithMaxSteps sets a maximum number of instructions per Execute before
// failing with ErrMaxStepsExceeded.
func WithMaxSteps(n int) Option {
	return func(vm *VM) { vm.maxSteps = n }
}

// New creates a VM that resolves user-defined callables through p.
func New(p Provider, opts ...Option) *VM {
	vm := &VM{
		provider: p,
		maxDepth: DefaultMaxDepth,
	}

	for _, o := range opts {
		o(vm)
	}

	if vm.out == nil {
		vm.out = os.Stdout
	}
	if vm.logger == nil {
		vm.logger = log.Default()
	}
	if vm.globals == nil {
		vm.globals = NewGlobals(nil)
	}
	if vm.builtins == nil {
		vm.builtins = DefaultBuiltins(vm.out)
	}

	vm.handlers = vm.dispatchTable()
	return vm
}

// Globals returns the global environment.
func (vm *VM) Globals() *Globals {
	return vm.globals
}

// Builtins returns the native built-in registry.
func (vm *VM) Builtins() *Builtins {
	return vm.builtins
}

// Execute calls fn with args and returns the value produced by its return
// instruction. Any failure aborts the whole call chain.
func (vm *VM) Execute(fn value.Value, args ...value.Value) (value.Value, error) {
	vm.steps = 0
	return vm.call(fn, args, 0)
}
