package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"

	"github.com/raymyers/peachcc/pkg/config"
	"github.com/raymyers/peachcc/pkg/parser"
)

func resetFlags() {
	dParse = false
	dTokens = false
	configPath = ""
	natives = nil
	verbose = false
	format = ""
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
	return path
}

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	resetFlags()
	var out, errOut bytes.Buffer
	cmd := newRootCmd(&out, &errOut)
	cmd.SetArgs(normalizeFlags(args))
	err := cmd.Execute()
	return out.String(), errOut.String(), err
}

func TestVersion(t *testing.T) {
	if version == "" {
		t.Error("version should not be empty")
	}
}

func TestFlagsExist(t *testing.T) {
	var out, errOut bytes.Buffer
	cmd := newRootCmd(&out, &errOut)
	for _, name := range []string{"dparse", "dtokens", "config", "native", "verbose", "format"} {
		if cmd.Flags().Lookup(name) == nil {
			t.Errorf("expected flag --%s to exist", name)
		}
	}
}

func TestNoArgsPrintsHelp(t *testing.T) {
	out, _, err := execute(t)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, "peachcc [file]") {
		t.Errorf("expected usage, got %q", out)
	}
}

func TestParseWithoutDump(t *testing.T) {
	testFile := writeFile(t, "test.c", `int main() { return 0; }`)
	out, errOut, err := execute(t, testFile)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != "" {
		t.Errorf("expected no output, got %q", out)
	}
	if !strings.Contains(errOut, "parsed") {
		t.Errorf("expected a status line, got %q", errOut)
	}
}

func TestDParseFlag(t *testing.T) {
	testFile := writeFile(t, "test.c", `int add(int a, int b) { int c = a + b * 2; return c; }`)
	out, _, err := execute(t, "-dparse", testFile)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, want := range []string{"int add(", "offset=8", "offset=12", "(a + (b * 2))", "return c;", "stack=4"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected output to contain %q, got:\n%s", want, out)
		}
	}

	fileContent, err := os.ReadFile(strings.TrimSuffix(testFile, ".c") + ".parsed.c")
	if err != nil {
		t.Fatalf("failed to read output file: %v", err)
	}
	if out != string(fileContent) {
		t.Errorf("output file content doesn't match stdout\nStdout:\n%s\nFile:\n%s", out, fileContent)
	}
}

func TestDParseYAML(t *testing.T) {
	testFile := writeFile(t, "point.c", `struct point { char tag; int x; };`)
	out, _, err := execute(t, "-dparse", "--format", "yaml", testFile)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var doc struct {
		Nodes []struct {
			Kind string `yaml:"kind"`
			Name string `yaml:"name"`
		} `yaml:"nodes"`
	}
	if err := yaml.Unmarshal([]byte(out), &doc); err != nil {
		t.Fatalf("output is not YAML: %v\n%s", err, out)
	}
	if len(doc.Nodes) != 1 || doc.Nodes[0].Kind != "Struct" || doc.Nodes[0].Name != "point" {
		t.Errorf("unexpected nodes %+v", doc.Nodes)
	}
	if _, err := os.Stat(strings.TrimSuffix(testFile, ".c") + ".parsed.yaml"); err != nil {
		t.Errorf("expected output file: %v", err)
	}
}

func TestDTokensFlag(t *testing.T) {
	testFile := writeFile(t, "tokens.c", "int x; // done\n")
	out, _, err := execute(t, "-dtokens", testFile)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 4 {
		t.Fatalf("expected 4 tokens, got %d:\n%s", len(lines), out)
	}
	if !strings.Contains(lines[0], "KEYWORD") || !strings.HasSuffix(lines[0], "int") {
		t.Errorf("unexpected first line %q", lines[0])
	}
}

func TestParseErrorReported(t *testing.T) {
	testFile := writeFile(t, "bad.c", "int main() {\n  return 0\n}\n")
	_, errOut, err := execute(t, testFile)
	var parseErr *parser.Error
	if !errors.As(err, &parseErr) {
		t.Fatalf("expected *parser.Error, got %v", err)
	}
	if !strings.Contains(errOut, "bad.c:") || !strings.Contains(errOut, "expected ';'") {
		t.Errorf("unexpected diagnostics %q", errOut)
	}
}

func TestFileNotFound(t *testing.T) {
	_, errOut, err := execute(t, "-dparse", "nonexistent.c")
	if err == nil {
		t.Error("expected error for nonexistent file, got nil")
	}
	if !strings.Contains(errOut, "error reading") {
		t.Errorf("unexpected diagnostics %q", errOut)
	}
}

func TestNativeFlag(t *testing.T) {
	testFile := writeFile(t, "native.c", "int print(char *s);\nint main() { return print(\"hi\"); }")
	out, _, err := execute(t, "-dparse", "--native", "print", testFile)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, "/* native */") {
		t.Errorf("expected print to be native, got:\n%s", out)
	}
}

func TestConfigFile(t *testing.T) {
	cfgFile := writeFile(t, "peachcc.yaml", "natives: [print]\ndump: yaml\nlog_level: warn\n")
	testFile := writeFile(t, "main.c", "int print(char *s);")

	out, _, err := execute(t, "-dparse", "--config", cfgFile, testFile)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, "kind: Function") || !strings.Contains(out, "native") {
		t.Errorf("expected a YAML dump of a native function, got:\n%s", out)
	}
}

func TestInvalidConfig(t *testing.T) {
	testFile := writeFile(t, "main.c", "int x;")

	_, _, err := execute(t, "--format", "xml", testFile)
	if !errors.Is(err, config.ErrInvalid) {
		t.Errorf("expected ErrInvalid for --format xml, got %v", err)
	}

	cfgFile := writeFile(t, "peachcc.yaml", "natives: [print]\n")
	_, _, err = execute(t, "--config", cfgFile, "--native", "print", testFile)
	if !errors.Is(err, config.ErrInvalid) {
		t.Errorf("expected ErrInvalid for a duplicate native, got %v", err)
	}
}

func TestWarningsLogged(t *testing.T) {
	testFile := writeFile(t, "long.c", "long long big;")
	_, errOut, err := execute(t, testFile)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(errOut, "level=warning") || !strings.Contains(errOut, "long long") {
		t.Errorf("expected a logged warning, got %q", errOut)
	}
}

func TestParsedOutputFilename(t *testing.T) {
	tests := []struct {
		input    string
		dump     string
		expected string
	}{
		{"test.c", config.DumpText, "test.parsed.c"},
		{"path/to/file.c", config.DumpText, "path/to/file.parsed.c"},
		{"no_extension", config.DumpText, "no_extension.parsed.c"},
		{"multiple.dots.c", config.DumpText, "multiple.dots.parsed.c"},
		{"test.c", config.DumpYAML, "test.parsed.yaml"},
	}

	for _, tc := range tests {
		result := parsedOutputFilename(tc.input, tc.dump)
		if result != tc.expected {
			t.Errorf("parsedOutputFilename(%q, %q) = %q, want %q", tc.input, tc.dump, result, tc.expected)
		}
	}
}

func TestNormalizeFlags(t *testing.T) {
	tests := []struct {
		name     string
		input    []string
		expected []string
	}{
		{"single-dash dparse", []string{"-dparse", "test.c"}, []string{"--dparse", "test.c"}},
		{"double-dash dparse unchanged", []string{"--dparse", "test.c"}, []string{"--dparse", "test.c"}},
		{"single-dash dtokens", []string{"test.c", "-dtokens"}, []string{"test.c", "--dtokens"}},
		{"other flags unchanged", []string{"-v", "-c", "cfg.yaml", "test.c"}, []string{"-v", "-c", "cfg.yaml", "test.c"}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			result := normalizeFlags(tc.input)
			if strings.Join(result, " ") != strings.Join(tc.expected, " ") {
				t.Errorf("normalizeFlags(%v) = %v, want %v", tc.input, result, tc.expected)
			}
		})
	}
}
