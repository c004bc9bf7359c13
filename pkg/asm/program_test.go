package asm_test

import (
	"bytes"
	"errors"
	"io"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/google/go-cmp/cmp"
	"golang.org/x/tools/txtar"

	"pyvm/pkg/asm"
	"pyvm/pkg/value"
	"pyvm/pkg/vm"
)

func TestLoad(t *testing.T) {
	src := `
entry: twice
globals:
  limit: 10
  names: [a, b]
  table: {x: 1}
functions:
  - name: twice
    args: 1
    consts: [null, 2, [1, 2.5, "s"], true]
    code: |
      LOAD_FAST 0
      LOAD_CONST 1
      BINARY_MULTIPLY
      RETURN_VALUE
`
	p, err := asm.Load(strings.NewReader(src))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Entry != "twice" {
		t.Errorf("expected entry twice, got %q", p.Entry)
	}

	globals := map[string]string{}
	for name, v := range p.Globals {
		globals[name] = value.Repr(v)
	}
	fn, ok := p.Function("twice")
	if !ok {
		t.Fatal("function twice not defined")
	}
	expected := map[string]string{
		"limit": "10",
		"names": "['a', 'b']",
		"table": "{'x': 1}",
		"twice": value.Repr(fn),
	}
	if diff := cmp.Diff(expected, globals); diff != "" {
		t.Errorf("globals mismatch (-want +got):\n%s", diff)
	}

	ref, _ := fn.AsFunction()
	code, err := p.Code(ref)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	consts := make([]string, len(code.Consts))
	for i, c := range code.Consts {
		consts[i] = value.Repr(c)
	}
	if diff := cmp.Diff([]string{"None", "2", "(1, 2.5, 's')", "True"}, consts); diff != "" {
		t.Errorf("consts mismatch (-want +got):\n%s", diff)
	}
	if code.ArgCount != 1 || len(code.Instructions) != 4 {
		t.Errorf("expected 1 arg and 4 instructions, got %d and %d", code.ArgCount, len(code.Instructions))
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want error
		text string
	}{
		{
			name: "unknown entry",
			src:  "entry: nope\nfunctions: []\n",
			want: asm.ErrUnknownFunction,
		},
		{
			name: "duplicate function",
			src:  "functions:\n  - {name: f, code: RETURN_VALUE}\n  - {name: f, code: RETURN_VALUE}\n",
			want: asm.ErrDuplicateFunction,
		},
		{
			name: "mapping constant",
			src:  "functions:\n  - name: f\n    consts: [{a: 1}]\n    code: RETURN_VALUE\n",
			text: "mappings are not allowed",
		},
		{
			name: "bad listing",
			src:  "functions:\n  - {name: f, code: NOT_AN_OP}\n",
			text: `function "f": 1:1: unknown mnemonic`,
		},
	}

	for _, tt := range tests {
		_, err := asm.Load(strings.NewReader(tt.src))
		if err == nil {
			t.Errorf("%s: expected an error", tt.name)
			continue
		}
		if tt.want != nil && !errors.Is(err, tt.want) {
			t.Errorf("%s: expected %v, got %v", tt.name, tt.want, err)
		}
		if tt.text != "" && !strings.Contains(err.Error(), tt.text) {
			t.Errorf("%s: expected error containing %q, got %q", tt.name, tt.text, err)
		}
	}
}

func TestCodeOfForeignFunction(t *testing.T) {
	p := asm.NewProgram()
	ref, _ := value.NewFunction("stranger").AsFunction()
	if _, err := p.Code(ref); !errors.Is(err, asm.ErrUnknownFunction) {
		t.Errorf("expected ErrUnknownFunction, got %v", err)
	}
}

func TestParseValue(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"42", "42"},
		{"-3.5", "-3.5"},
		{"true", "True"},
		{"null", "None"},
		{"hello", "'hello'"},
		{"'007'", "'007'"},
		{"[1, two]", "[1, 'two']"},
		{"{a: [1]}", "{'a': [1]}"},
		{"", "None"},
	}

	for _, tt := range tests {
		v, err := asm.ParseValue(tt.input)
		if err != nil {
			t.Errorf("%q: unexpected error: %v", tt.input, err)
			continue
		}
		if got := value.Repr(v); got != tt.expected {
			t.Errorf("%q: expected %s, got %s", tt.input, tt.expected, got)
		}
	}
}

// TestPrograms runs every testdata/*.txtar archive. An archive holds
// program.yaml plus the expected outcome: want (repr of the result),
// stdout, and error (a substring of the failure). args lists the entry
// arguments, one per line.
func TestPrograms(t *testing.T) {
	files, err := filepath.Glob(filepath.Join("testdata", "*.txtar"))
	if err != nil {
		t.Fatal(err)
	}
	if len(files) == 0 {
		t.Fatal("no test programs found")
	}

	for _, file := range files {
		t.Run(strings.TrimSuffix(filepath.Base(file), ".txtar"), func(t *testing.T) {
			ar, err := txtar.ParseFile(file)
			if err != nil {
				t.Fatal(err)
			}
			sections := make(map[string]string, len(ar.Files))
			for _, f := range ar.Files {
				sections[f.Name] = string(f.Data)
			}

			p, err := asm.Load(strings.NewReader(sections["program.yaml"]))
			if err != nil {
				t.Fatalf("load: %v", err)
			}
			entry := p.Entry
			if entry == "" {
				entry = "main"
			}
			fn, ok := p.Function(entry)
			if !ok {
				t.Fatalf("entry %q not defined", entry)
			}

			var args []value.Value
			for _, line := range strings.Split(strings.TrimSpace(sections["args"]), "\n") {
				if line == "" {
					continue
				}
				v, err := asm.ParseValue(line)
				if err != nil {
					t.Fatalf("arg %q: %v", line, err)
				}
				args = append(args, v)
			}

			var out bytes.Buffer
			machine := vm.New(p,
				vm.WithGlobals(vm.NewGlobals(p.Globals)),
				vm.WithWriter(&out),
				vm.WithLogger(log.New(io.Discard)),
			)
			res, err := machine.Execute(fn, args...)

			if want, ok := sections["error"]; ok {
				if err == nil {
					t.Fatalf("expected error containing %q, got result %s", strings.TrimSpace(want), value.Repr(res))
				}
				if !strings.Contains(err.Error(), strings.TrimSpace(want)) {
					t.Errorf("expected error containing %q, got %q", strings.TrimSpace(want), err)
				}
			} else if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if want, ok := sections["want"]; ok {
				if got := value.Repr(res); got != strings.TrimSpace(want) {
					t.Errorf("expected result %s, got %s", strings.TrimSpace(want), got)
				}
			}
			if want, ok := sections["stdout"]; ok {
				if diff := cmp.Diff(want, out.String()); diff != "" {
					t.Errorf("stdout mismatch (-want +got):\n%s", diff)
				}
			}
		})
	}
}
