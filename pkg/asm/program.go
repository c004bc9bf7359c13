package asm

import (
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"pyvm/pkg/bytecode"
	"pyvm/pkg/value"
)

var (
	ErrUnknownFunction   = errors.New("unknown function")
	ErrDuplicateFunction = errors.New("duplicate function")
)

// programFile is the on-disk form of a program.
type programFile struct {
	Entry     string               `yaml:"entry"`
	Globals   map[string]yaml.Node `yaml:"globals"`
	Functions []functionFile       `yaml:"functions"`
}

type functionFile struct {
	Name   string      `yaml:"name"`
	Args   int         `yaml:"args"`
	Consts []yaml.Node `yaml:"consts"`
	Code   string      `yaml:"code"`
}

// Program is a set of assembled functions. It provides their instruction
// streams to the VM.
type Program struct {
	Entry     string
	Globals   map[string]value.Value // declared globals, functions included
	functions map[string]value.Value
	codes     map[*value.Function]*bytecode.Code
}

// NewProgram creates an empty program.
func NewProgram() *Program {
	return &Program{
		Globals:   make(map[string]value.Value),
		functions: make(map[string]value.Value),
		codes:     make(map[*value.Function]*bytecode.Code),
	}
}

// LoadFile reads a YAML program from path.
func LoadFile(path string) (*Program, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	p, err := Load(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return p, nil
}

// Load reads a YAML program.
func Load(r io.Reader) (*Program, error) {
	var pf programFile
	if err := yaml.NewDecoder(r).Decode(&pf); err != nil {
		return nil, fmt.Errorf("cannot decode program: %w", err)
	}

	p := NewProgram()
	p.Entry = pf.Entry
	for name, node := range pf.Globals {
		v, err := nodeValue(&node, false)
		if err != nil {
			return nil, fmt.Errorf("global %q: %w", name, err)
		}
		p.Globals[name] = v
	}

	for _, ff := range pf.Functions {
		consts := make([]value.Value, len(ff.Consts))
		for i := range ff.Consts {
			v, err := nodeValue(&ff.Consts[i], true)
			if err != nil {
				return nil, fmt.Errorf("function %q: const %d: %w", ff.Name, i, err)
			}
			consts[i] = v
		}
		if _, err := p.Define(ff.Name, ff.Args, consts, ff.Code); err != nil {
			return nil, err
		}
	}

	if p.Entry != "" {
		if _, ok := p.functions[p.Entry]; !ok {
			return nil, fmt.Errorf("%w: entry %q", ErrUnknownFunction, p.Entry)
		}
	}
	return p, nil
}

// Define assembles listing as a function with the given arity and constant
// pool, and declares it as a global of the same name.
func (p *Program) Define(name string, args int, consts []value.Value, listing string) (value.Value, error) {
	if _, dup := p.functions[name]; dup {
		return value.None, fmt.Errorf("%w: %q", ErrDuplicateFunction, name)
	}
	instructions, names, err := Assemble(listing)
	if err != nil {
		return value.None, fmt.Errorf("function %q: %w", name, err)
	}

	fn := value.NewFunction(name)
	ref, _ := fn.AsFunction()
	p.codes[ref] = &bytecode.Code{
		Name:         name,
		ArgCount:     args,
		Instructions: instructions,
		Consts:       consts,
		Names:        names,
	}
	p.functions[name] = fn
	p.Globals[name] = fn
	return fn, nil
}

// Function returns the callable defined under name.
func (p *Program) Function(name string) (value.Value, bool) {
	fn, ok := p.functions[name]
	return fn, ok
}

// Code implements vm.Provider.
func (p *Program) Code(fn *value.Function) (*bytecode.Code, error) {
	code, ok := p.codes[fn]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownFunction, fn.Name)
	}
	return code, nil
}

// nodeValue converts a YAML node to a Value. Sequences become tuples when
// frozen (constant pools) and lists otherwise.
func nodeValue(n *yaml.Node, frozen bool) (value.Value, error) {
	if n.Kind == yaml.AliasNode {
		return nodeValue(n.Alias, frozen)
	}

	switch n.Kind {
	case yaml.ScalarNode:
		switch n.ShortTag() {
		case "!!null":
			return value.None, nil
		case "!!bool":
			var b bool
			if err := n.Decode(&b); err != nil {
				return value.None, err
			}
			return value.NewBool(b), nil
		case "!!int":
			var i int64
			if err := n.Decode(&i); err != nil {
				return value.None, err
			}
			return value.NewInt(i), nil
		case "!!float":
			var f float64
			if err := n.Decode(&f); err != nil {
				return value.None, err
			}
			return value.NewFloat(f), nil
		default:
			return value.NewStr(n.Value), nil
		}

	case yaml.SequenceNode:
		items := make([]value.Value, len(n.Content))
		for i, c := range n.Content {
			v, err := nodeValue(c, frozen)
			if err != nil {
				return value.None, err
			}
			items[i] = v
		}
		if frozen {
			return value.NewTuple(items...), nil
		}
		return value.NewList(items...), nil

	case yaml.MappingNode:
		if frozen {
			return value.None, fmt.Errorf("line %d: mappings are not allowed in constant pools", n.Line)
		}
		d := value.NewDictStore()
		for i := 0; i+1 < len(n.Content); i += 2 {
			k, err := nodeValue(n.Content[i], true)
			if err != nil {
				return value.None, err
			}
			v, err := nodeValue(n.Content[i+1], false)
			if err != nil {
				return value.None, err
			}
			if err := d.Set(k, v); err != nil {
				return value.None, fmt.Errorf("line %d: %w", n.Content[i].Line, err)
			}
		}
		return value.NewDict(d), nil
	}

	return value.None, fmt.Errorf("line %d: unsupported node kind %d", n.Line, n.Kind)
}

// ParseValue parses a single YAML scalar or flow collection, as given on a
// command line.
func ParseValue(s string) (value.Value, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal([]byte(s), &doc); err != nil {
		return value.None, err
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 {
		return value.None, nil
	}
	return nodeValue(doc.Content[0], false)
}
