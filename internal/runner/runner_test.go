package runner_test

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/google/go-cmp/cmp"

	"pyvm/internal/runner"
	"pyvm/pkg/asm"
	"pyvm/pkg/color"
	"pyvm/pkg/value"
	"pyvm/pkg/vm"
)

const program = `
functions:
  - name: main
    args: 1
    code: |
      LOAD_GLOBAL limit
      LOAD_FAST 0
      BINARY_ADD
      RETURN_VALUE
  - name: other
    consts: [null, other]
    code: |
      LOAD_CONST 1
      RETURN_VALUE
  - name: spin
    code: |
      top:
      JUMP_ABSOLUTE top
`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestRun(t *testing.T) {
	color.EnableColor(false)
	prog := writeFile(t, "program.yaml", program)
	config := writeFile(t, "pyvm.toml", "max_depth = 20\n\n[globals]\nlimit = 40\n")

	tests := []struct {
		name     string
		runner   runner.Runner
		expected string
		want     error
	}{
		{
			name:     "config globals",
			runner:   runner.Runner{ConfigFile: config, Args: []string{"2"}},
			expected: "42\n",
		},
		{
			name:     "entry flag",
			runner:   runner.Runner{ConfigFile: config, Entry: "other"},
			expected: "'other'\n",
		},
		{
			name:   "string args",
			runner: runner.Runner{ConfigFile: config, Entry: "main", Args: []string{"x"}},
			want:   value.ErrWrongKind,
		},
	}

	for _, tt := range tests {
		var out bytes.Buffer
		r := tt.runner
		r.ProgramFile = prog
		r.Out = &out

		err := r.Run()
		if tt.want != nil {
			if !errors.Is(err, tt.want) {
				t.Errorf("%s: expected %v, got %v", tt.name, tt.want, err)
			}
			continue
		}
		if err != nil {
			t.Errorf("%s: unexpected error: %v", tt.name, err)
			continue
		}
		if diff := cmp.Diff(tt.expected, out.String()); diff != "" {
			t.Errorf("%s: output mismatch (-want +got):\n%s", tt.name, diff)
		}
	}
}

func TestRunEntryFromConfig(t *testing.T) {
	prog := writeFile(t, "program.yaml", program)
	config := writeFile(t, "pyvm.toml", `entry = "other"`)

	var out bytes.Buffer
	r := runner.Runner{ProgramFile: prog, ConfigFile: config, Out: &out}
	if err := r.Run(); err != nil {
		t.Fatal(err)
	}
	if out.String() != "'other'\n" {
		t.Errorf("expected config entry to run, got %q", out.String())
	}
}

func TestRunVerboseListing(t *testing.T) {
	color.EnableColor(false)
	prog := writeFile(t, "program.yaml", program)
	config := writeFile(t, "pyvm.toml", "[globals]\nlimit = 1\n")

	var out bytes.Buffer
	r := runner.Runner{ProgramFile: prog, ConfigFile: config, Verbose: true, Args: []string{"1"}, Out: &out}
	if err := r.Run(); err != nil {
		t.Fatal(err)
	}

	expected := "=== main ===\n" +
		"0 LOAD_GLOBAL 0 (limit)\n" +
		"2 LOAD_FAST 0\n" +
		"4 BINARY_ADD\n" +
		"6 RETURN_VALUE\n" +
		"2\n"
	if diff := cmp.Diff(expected, out.String()); diff != "" {
		t.Errorf("output mismatch (-want +got):\n%s", diff)
	}
}

func TestRunLimits(t *testing.T) {
	prog := writeFile(t, "program.yaml", program)

	config := writeFile(t, "pyvm.toml", "entry = \"spin\"\nmax_steps = 500\n")
	r := runner.Runner{ProgramFile: prog, ConfigFile: config, Out: &bytes.Buffer{}}
	if err := r.Run(); !errors.Is(err, vm.ErrMaxStepsExceeded) {
		t.Errorf("expected ErrMaxStepsExceeded from config, got %v", err)
	}

	r = runner.Runner{ProgramFile: prog, Entry: "spin", MaxSteps: 10, Out: &bytes.Buffer{}}
	if err := r.Run(); !errors.Is(err, vm.ErrMaxStepsExceeded) {
		t.Errorf("expected ErrMaxStepsExceeded from flag, got %v", err)
	}
}

func TestRunErrors(t *testing.T) {
	prog := writeFile(t, "program.yaml", program)
	tests := []struct {
		name   string
		runner runner.Runner
		text   string
		want   error
	}{
		{
			name:   "missing program",
			runner: runner.Runner{ProgramFile: filepath.Join(t.TempDir(), "none.yaml")},
			text:   "loading failed",
		},
		{
			name:   "missing config",
			runner: runner.Runner{ProgramFile: prog, ConfigFile: filepath.Join(t.TempDir(), "none.toml")},
			text:   "cannot read",
		},
		{
			name:   "bad config",
			runner: runner.Runner{ProgramFile: prog, ConfigFile: writeFile(t, "bad.toml", "max_depth = [")},
			text:   "parse error",
		},
		{
			name:   "negative limit",
			runner: runner.Runner{ProgramFile: prog, ConfigFile: writeFile(t, "neg.toml", "max_steps = -1")},
			text:   "must not be negative",
		},
		{
			name:   "unknown entry",
			runner: runner.Runner{ProgramFile: prog, Entry: "nope"},
			want:   asm.ErrUnknownFunction,
		},
		{
			name:   "undefined global",
			runner: runner.Runner{ProgramFile: prog, Args: []string{"1"}},
			want:   vm.ErrUndefinedName,
		},
	}

	for _, tt := range tests {
		r := tt.runner
		r.Out = &bytes.Buffer{}
		err := r.Run()
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

func TestFailureRenderedOnce(t *testing.T) {
	color.EnableColor(false)
	prog := writeFile(t, "program.yaml", program)
	config := writeFile(t, "pyvm.toml", "[globals]\nlimit = 40\n")

	var logs bytes.Buffer
	log.SetOutput(&logs)
	t.Cleanup(func() { log.SetOutput(os.Stderr) })

	r := runner.Runner{ProgramFile: prog, ConfigFile: config, Args: []string{"x"}, Out: &bytes.Buffer{}}
	err := r.Run()
	if !errors.Is(err, value.ErrWrongKind) {
		t.Fatalf("expected ErrWrongKind, got %v", err)
	}
	if strings.Contains(logs.String(), "execution failed") {
		t.Errorf("expected the VM to stay quiet without -v, got:\n%s", logs.String())
	}
	if got := runner.Diagnose(err); !strings.Contains(got, "Error at main@2") || !strings.Contains(got, "BINARY_ADD") {
		t.Errorf("expected the failing frame in the diagnosis, got %q", got)
	}

	logs.Reset()
	r.Verbose = true
	if err := r.Run(); err == nil {
		t.Fatal("expected an error")
	}
	if strings.Count(logs.String(), "execution failed") != 1 {
		t.Errorf("expected one traced failure with -v, got:\n%s", logs.String())
	}
}

func TestGlobalValues(t *testing.T) {
	config := writeFile(t, "pyvm.toml", `
[globals]
name = "pyvm"
ratio = 0.5
primes = [2, 3, 5]
flags = { fast = true }

[[globals.points]]
x = 1
`)
	c, err := runner.LoadConfig(config)
	if err != nil {
		t.Fatal(err)
	}
	values, err := c.GlobalValues()
	if err != nil {
		t.Fatal(err)
	}

	got := make(map[string]string, len(values))
	for name, v := range values {
		got[name] = value.Repr(v)
	}
	expected := map[string]string{
		"name":   "'pyvm'",
		"ratio":  "0.5",
		"primes": "[2, 3, 5]",
		"flags":  "{'fast': True}",
		"points": "[{'x': 1}]",
	}
	if diff := cmp.Diff(expected, got); diff != "" {
		t.Errorf("globals mismatch (-want +got):\n%s", diff)
	}
}

func TestDiagnose(t *testing.T) {
	color.EnableColor(false)

	p := asm.NewProgram()
	fn, err := p.Define("f", 0, []value.Value{value.NewInt(1)}, "LOAD_CONST 0\nLOAD_CONST 0\nYIELD_VALUE\nRETURN_VALUE")
	if err != nil {
		t.Fatal(err)
	}
	_, err = vm.New(p, vm.WithGlobals(vm.NewGlobals(p.Globals))).Execute(fn)

	expected := "Error at f@2 (offset 4): unsupported instruction: YIELD_VALUE\n" +
		"  instruction: 4 YIELD_VALUE\n" +
		"  stack: [1, 1]"
	if diff := cmp.Diff(expected, runner.Diagnose(err)); diff != "" {
		t.Errorf("diagnosis mismatch (-want +got):\n%s", diff)
	}

	if got := runner.Diagnose(errors.New("plain")); got != "plain" {
		t.Errorf("expected plain message without frame context, got %q", got)
	}
}
