package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/joshuapare/heapkit/heap/alloc"
	"github.com/joshuapare/heapkit/heap/mem"
	"github.com/joshuapare/heapkit/internal/trace"
)

// shortTrace allocates two halves of a page, frees one, and grows the other.
const shortTrace = `20000
3
6
1
a 0 2040
a 1 2040
f 1
r 0 4072
a 2 48
f 0
`

// writeTrace stores content as a trace file in a temp dir and returns its path.
func writeTrace(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write trace: %v", err)
	}
	return path
}

// writeGeneratedTrace stores a random trace and returns its path.
func writeGeneratedTrace(t *testing.T, name string, opts trace.GenOptions) string {
	t.Helper()
	var buf bytes.Buffer
	if _, err := trace.Generate(opts).WriteTo(&buf); err != nil {
		t.Fatalf("failed to generate trace: %v", err)
	}
	return writeTrace(t, name, buf.String())
}

// resetFlags restores every command flag to its default.
func resetFlags() {
	verbose = false
	quiet = false
	jsonOut = false
	logDir = ""

	replayRegion = regionSlice
	replayFile = ""
	replayLimit = mem.DefaultLimit
	replayCheckEvery = 0
	replayTrack = false
	replayChunk = alloc.DefaultConfig.ChunkSize
	replaySplit = alloc.DefaultConfig.SplitThreshold
	replayStats = false

	genSeed = 1
	genIDs = 1000
	genMaxSize = trace.DefaultMaxSize
	genReallocPct = 20
	genOutput = ""

	dumpLimit = mem.DefaultLimit
	dumpCheckOnly = false
	dumpBlocks = false
}

// captureOutput captures stdout while running a function
func captureOutput(t *testing.T, fn func() error) (string, error) {
	t.Helper()

	// Save original stdout
	origStdout := os.Stdout

	// Create a pipe to capture output
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("failed to create pipe: %v", err)
	}

	// Redirect stdout to pipe
	os.Stdout = w

	// Drain concurrently so large outputs cannot fill the pipe
	done := make(chan []byte)
	go func() {
		var buf bytes.Buffer
		_, _ = buf.ReadFrom(r)
		done <- buf.Bytes()
	}()

	// Run function
	fnErr := fn()

	// Close write end and restore stdout
	w.Close()
	os.Stdout = origStdout

	return string(<-done), fnErr
}

// assertJSON checks that output is valid JSON
func assertJSON(t *testing.T, output string) {
	t.Helper()
	var result any
	if err := json.Unmarshal([]byte(output), &result); err != nil {
		t.Errorf("invalid JSON output: %v\nOutput: %s", err, output)
	}
}

// assertContains checks that output contains all expected strings
func assertContains(t *testing.T, output string, expected []string) {
	t.Helper()
	for _, want := range expected {
		if !strings.Contains(output, want) {
			t.Errorf("output missing expected string %q\nGot: %s", want, output)
		}
	}
}

// assertNotContains checks that output doesn't contain unwanted strings
func assertNotContains(t *testing.T, output string, unwanted []string) {
	t.Helper()
	for _, dont := range unwanted {
		if strings.Contains(output, dont) {
			t.Errorf("output contains unwanted string %q\nGot: %s", dont, output)
		}
	}
}
