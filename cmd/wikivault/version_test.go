package main

import (
	"bytes"
	"strings"
	"testing"
)

// TestVersionCmd tests the version command output.
func TestVersionCmd(t *testing.T) {
	t.Parallel()

	cmd := NewVersionCmd()
	var buf bytes.Buffer
	cmd.SetOut(&buf)

	cmd.Run(cmd, nil)

	out := buf.String()
	if !strings.HasPrefix(out, "wikivault ") {
		t.Errorf("output = %q", out)
	}
	if !strings.Contains(out, "commit ") || !strings.Contains(out, "built ") {
		t.Errorf("output missing build info: %q", out)
	}
}

// TestGetVersionFallback tests the fallback when no ldflags are set.
func TestGetVersionFallback(t *testing.T) {
	t.Parallel()

	if got := getVersion(); got == "" {
		t.Error("getVersion should never be empty")
	}
}
