package specfile

import (
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"sweepgen/internal/cliconf"
)

func TestNextSkipsCommentsAndBlanks(t *testing.T) {
	src := `
# plain comment

run one
# another comment
run two
`
	r := New(strings.NewReader(src))
	got, err := r.All()
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"run one", "run two"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("lines mismatch (-want +got):\n%s", diff)
	}
}

func TestNextForwardOnly(t *testing.T) {
	r := New(strings.NewReader("only line\n"))
	if _, err := r.Next(); err != nil {
		t.Fatal(err)
	}
	if _, err := r.Next(); err != io.EOF {
		t.Errorf("second Next = %v, want io.EOF", err)
	}
	// Exhausted stays exhausted.
	if _, err := r.Next(); err != io.EOF {
		t.Errorf("third Next = %v, want io.EOF", err)
	}
}

func TestLogicalLineContinuation(t *testing.T) {
	src := "run --procs 4 \\\n    --input data.in \\\n    --verbose\n"
	r := New(strings.NewReader(src))
	got, err := r.Next()
	if err != nil {
		t.Fatal(err)
	}
	want := "run --procs 4 --input data.in --verbose"
	if got != want {
		t.Errorf("joined line = %q, want %q", got, want)
	}
}

func TestShellVarExpansion(t *testing.T) {
	t.Setenv("SWEEP_APP", "/opt/bin/app")
	src := "run ${SWEEP_APP} --tag ${SWEEP_UNDEFINED_VAR}x\n"
	r := New(strings.NewReader(src))
	got, err := r.Next()
	if err != nil {
		t.Fatal(err)
	}
	// Defined variables expand; undefined ones become empty strings.
	want := "run /opt/bin/app --tag x"
	if got != want {
		t.Errorf("expanded line = %q, want %q", got, want)
	}
}

// End-to-end flow: a directive sets an argument for the generation
// line that follows; the yielded line itself is untouched.
func TestDirectiveUpdatesResolvedArgs(t *testing.T) {
	schema := cliconf.NewSchema()
	schema.Int("n", "n", 0, "process count")
	resolved, err := schema.Resolve(nil)
	if err != nil {
		t.Fatal(err)
	}

	src := "# -n 4\nrun --procs %n\n"
	r := New(strings.NewReader(src), WithArgs(schema, resolved, nil))

	line, err := r.Next()
	if err != nil {
		t.Fatal(err)
	}
	if line != "run --procs %n" {
		t.Errorf("yielded line = %q, want placeholder untouched", line)
	}
	if resolved.Int("n") != 4 {
		t.Errorf("resolved n = %d, want 4", resolved.Int("n"))
	}
}

func TestDirectiveDoesNotPersist(t *testing.T) {
	schema := cliconf.NewSchema()
	schema.String("tag", "", "base", "run tag")
	resolved, err := schema.Resolve(nil)
	if err != nil {
		t.Fatal(err)
	}

	src := "# --tag first\nline one\nline two\n"
	r := New(strings.NewReader(src), WithArgs(schema, resolved, nil))

	if _, err := r.Next(); err != nil {
		t.Fatal(err)
	}
	if resolved.String("tag") != "first" {
		t.Fatalf("tag after first yield = %q", resolved.String("tag"))
	}

	// The directive was consumed; the second yield re-layers with an
	// empty pending list, leaving the value as-is but not re-applying.
	if _, err := r.Next(); err != nil {
		t.Fatal(err)
	}
	if resolved.String("tag") != "first" {
		t.Errorf("tag after second yield = %q", resolved.String("tag"))
	}
}

// Explicit process-level CLI flags win over directive values.
func TestProcessArgvOverridesDirective(t *testing.T) {
	schema := cliconf.NewSchema()
	schema.Int("n", "n", 0, "process count")
	argv := []string{"-n", "32"}
	resolved, err := schema.Resolve(argv)
	if err != nil {
		t.Fatal(err)
	}

	src := "# -n 4\nrun --procs %n\n"
	r := New(strings.NewReader(src), WithArgs(schema, resolved, argv))
	if _, err := r.Next(); err != nil {
		t.Fatal(err)
	}
	if resolved.Int("n") != 32 {
		t.Errorf("resolved n = %d, want CLI override 32", resolved.Int("n"))
	}
}

func TestDirectiveEnvExpansion(t *testing.T) {
	t.Setenv("SWEEP_NP", "16")
	schema := cliconf.NewSchema()
	schema.Int("n", "n", 0, "process count")
	resolved, err := schema.Resolve(nil)
	if err != nil {
		t.Fatal(err)
	}

	src := "# -n ${SWEEP_NP}\ngo\n"
	r := New(strings.NewReader(src), WithArgs(schema, resolved, nil))
	if _, err := r.Next(); err != nil {
		t.Fatal(err)
	}
	if resolved.Int("n") != 16 {
		t.Errorf("resolved n = %d, want 16", resolved.Int("n"))
	}
}

func TestDirectiveUnknownFlagSurfaces(t *testing.T) {
	schema := cliconf.NewSchema()
	schema.Int("n", "n", 0, "process count")
	resolved, err := schema.Resolve(nil)
	if err != nil {
		t.Fatal(err)
	}

	src := "# --bogus 1\nrun\n"
	r := New(strings.NewReader(src), WithArgs(schema, resolved, nil))
	_, err = r.Next()
	if err == nil {
		t.Fatal("unknown directive flag did not error")
	}
	var se *SyntaxError
	if !errors.As(err, &se) {
		t.Fatalf("error type = %T, want *SyntaxError", err)
	}
}

func TestMalformedDirectiveTokens(t *testing.T) {
	schema := cliconf.NewSchema()
	schema.String("tag", "", "", "run tag")
	resolved, err := schema.Resolve(nil)
	if err != nil {
		t.Fatal(err)
	}

	src := "# --tag 'unterminated\nrun\n"
	r := New(strings.NewReader(src), WithArgs(schema, resolved, nil))
	_, err = r.Next()
	var se *SyntaxError
	if !errors.As(err, &se) {
		t.Fatalf("error = %v, want *SyntaxError", err)
	}
	if !strings.Contains(se.Line, "unterminated") {
		t.Errorf("syntax error does not carry offending line: %v", se)
	}
}

func TestDirectivesIgnoredWithoutSchema(t *testing.T) {
	// Without a bound schema, directives are plain comments.
	src := "# -n 4\nrun --procs %n\n"
	r := New(strings.NewReader(src))
	got, err := r.All()
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{"run --procs %n"}, got); diff != "" {
		t.Errorf("lines mismatch (-want +got):\n%s", diff)
	}
}
