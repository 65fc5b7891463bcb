package main

import (
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"github.com/joshuapare/heapkit/internal/format"
	"github.com/joshuapare/heapkit/internal/trace"
)

func TestGenCommand_File(t *testing.T) {
	resetFlags()
	genIDs = 150
	genSeed = 9
	genReallocPct = 40
	genOutput = filepath.Join(t.TempDir(), "gen.rep")

	if _, err := captureOutput(t, runGen); err != nil {
		t.Fatalf("runGen() error = %v", err)
	}

	tr, err := trace.ParseFile(genOutput)
	if err != nil {
		t.Fatalf("generated trace does not parse: %v", err)
	}
	allocs, reallocs, frees := tr.Counts()
	if allocs != 150 || frees != 150 {
		t.Errorf("allocs/frees = %d/%d, want 150/150", allocs, frees)
	}
	if reallocs == 0 {
		t.Error("expected some reallocs at 40%")
	}
}

func TestGenCommand_Stdout(t *testing.T) {
	resetFlags()
	genIDs = 3

	output, err := captureOutput(t, runGen)
	if err != nil {
		t.Fatalf("runGen() error = %v", err)
	}
	tr, err := trace.Parse(strings.NewReader(output))
	if err != nil {
		t.Fatalf("stdout trace does not parse: %v\n%s", err, output)
	}
	if tr.NumIDs != 3 {
		t.Errorf("NumIDs = %d, want 3", tr.NumIDs)
	}
}

func TestGenCommand_NegativeIDs(t *testing.T) {
	resetFlags()
	genIDs = -1
	if err := runGen(); err == nil {
		t.Error("runGen() succeeded with negative --ids")
	}
}

func TestVersionCommand(t *testing.T) {
	resetFlags()
	output, err := captureOutput(t, runVersion)
	if err != nil {
		t.Fatalf("runVersion() error = %v", err)
	}
	assertContains(t, output, []string{
		"heapctl dev",
		"commit: none",
		"8-byte alignment",
		"15 size classes",
	})
}

func TestVersionCommand_JSON(t *testing.T) {
	resetFlags()
	jsonOut = true
	output, err := captureOutput(t, runVersion)
	if err != nil {
		t.Fatalf("runVersion() error = %v", err)
	}

	var info versionInfo
	if err := json.Unmarshal([]byte(output), &info); err != nil {
		t.Fatalf("unmarshal %q: %v", output, err)
	}
	if info.Commit != commit || info.MaxRegionSize != format.MaxRegionSize {
		t.Errorf("unexpected version info %+v", info)
	}
}

func TestRootVersionMatchesVersionCommand(t *testing.T) {
	if rootCmd.Version != version || currentVersion().Version != version {
		t.Errorf("rootCmd.Version = %q, version command reports %q, want %q",
			rootCmd.Version, currentVersion().Version, version)
	}
}
