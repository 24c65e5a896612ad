package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newTestCmd() (*cobra.Command, *bytes.Buffer) {
	cmd := &cobra.Command{}
	var out bytes.Buffer
	cmd.SetOut(&out)
	return cmd, &out
}

func TestFactorizeCmd(t *testing.T) {
	logger = zap.NewNop()
	cmd, out := newTestCmd()

	if err := runFactorize(cmd, []string{"64", "2"}); err != nil {
		t.Fatalf("runFactorize failed: %v", err)
	}
	if got := strings.TrimSpace(out.String()); got != "8 x 8" {
		t.Errorf("factorize output = %q, want %q", got, "8 x 8")
	}

	if err := runFactorize(cmd, []string{"x", "2"}); err == nil {
		t.Error("non-integer count did not error")
	}
}

func TestRunCmdsCmd(t *testing.T) {
	logger = zap.NewNop()
	cmd, out := newTestCmd()

	runcmdsSpec = "0, 4, 'srun -n %n', 'nidx + 2'"
	defer func() { runcmdsSpec = "" }()

	if err := runRunCmds(cmd, nil); err != nil {
		t.Fatalf("runRunCmds failed: %v", err)
	}
	want := "srun -n 0\nsrun -n 2\nsrun -n 4\n"
	if out.String() != want {
		t.Errorf("runcmds output = %q, want %q", out.String(), want)
	}
}

func TestGenerateCmd(t *testing.T) {
	logger = zap.NewNop()
	dir := t.TempDir()

	spec := filepath.Join(dir, "sweep.gs")
	content := "# --runcmds \"0, 2, 'x', 'nidx + 1'\"\nsrun -n %n ./app\n"
	if err := os.WriteFile(spec, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	outputPath = dir
	ledgerPath = filepath.Join(dir, "runs.db")
	defer func() { outputPath = ""; ledgerPath = "" }()

	cmd, out := newTestCmd()
	if err := runGenerate(cmd, []string{spec}); err != nil {
		t.Fatalf("runGenerate failed: %v", err)
	}
	want := "srun -n 0 ./app\nsrun -n 1 ./app\nsrun -n 2 ./app\n"
	if out.String() != want {
		t.Errorf("generate output = %q, want %q", out.String(), want)
	}

	// The run landed in the ledger.
	hcmd, hout := newTestCmd()
	if err := runHistory(hcmd, nil); err != nil {
		t.Fatalf("runHistory failed: %v", err)
	}
	if !strings.Contains(hout.String(), "sweep.gs") {
		t.Errorf("history output missing run: %q", hout.String())
	}
}

func TestGenerateCmdConfigLayer(t *testing.T) {
	logger = zap.NewNop()
	dir := t.TempDir()

	spec := filepath.Join(dir, "sweep.gs")
	if err := os.WriteFile(spec, []byte("echo run\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg := filepath.Join(dir, "exp.yaml")
	if err := os.WriteFile(cfg, []byte("name: configured-name\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	outputPath = dir
	configPath = cfg
	defer func() { outputPath = ""; configPath = "" }()

	cmd, out := newTestCmd()
	if err := runGenerate(cmd, []string{spec}); err != nil {
		t.Fatalf("runGenerate failed: %v", err)
	}
	if got := strings.TrimSpace(out.String()); got != "echo run" {
		t.Errorf("generate output = %q, want %q", got, "echo run")
	}
}
