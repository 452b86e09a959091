// SPDX-License-Identifier: GPL-2.0-only
package log

import (
	"bytes"
	"strings"
	"testing"
)

func TestLogger_PlainOutputContainsLevelAndMessage(t *testing.T) {
	var buf bytes.Buffer
	l := &Logger{out: &buf, colored: false}

	l.Info("starting %s", "encode")
	l.Warn("dictionary size %d is small", 4096)
	l.Error("failed: %v", "boom")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d: %q", len(lines), buf.String())
	}
	if !strings.Contains(lines[0], "info") || !strings.Contains(lines[0], "starting encode") {
		t.Fatalf("unexpected info line: %q", lines[0])
	}
	if !strings.Contains(lines[1], "warn") || !strings.Contains(lines[1], "4096") {
		t.Fatalf("unexpected warn line: %q", lines[1])
	}
	if !strings.Contains(lines[2], "error") || !strings.Contains(lines[2], "boom") {
		t.Fatalf("unexpected error line: %q", lines[2])
	}
}
