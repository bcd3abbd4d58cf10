package utils

import (
	"io"
	"strings"
	"testing"
)

func readAllLines(t *testing.T, input string) []string {
	t.Helper()
	scanner := NewLineScanner(strings.NewReader(input))

	var lines []string
	for {
		line, err := scanner.Next()
		if err == io.EOF {
			return lines
		}
		if err != nil {
			t.Fatalf("Next: %v", err)
		}
		lines = append(lines, line)
	}
}

func TestLineScanner_SkipsFramingNoise(t *testing.T) {
	input := "data: one\n\n: keep-alive comment\ndata: two\n\n\n\ndata: three\n"
	lines := readAllLines(t, input)

	want := []string{"data: one", "data: two", "data: three"}
	if len(lines) != len(want) {
		t.Fatalf("got %d lines (%v), want %d", len(lines), lines, len(want))
	}
	for i, line := range want {
		if lines[i] != line {
			t.Errorf("line %d = %q, want %q", i, lines[i], line)
		}
	}
}

func TestLineScanner_TrimsCarriageReturns(t *testing.T) {
	lines := readAllLines(t, "data: crlf\r\ndata: lf\n")
	if len(lines) != 2 || lines[0] != "data: crlf" || lines[1] != "data: lf" {
		t.Errorf("lines = %v", lines)
	}
}

func TestLineScanner_HandlesNDJSON(t *testing.T) {
	input := `{"message":{"content":"a"}}` + "\n" + `{"message":{"content":"b"}}` + "\n"
	lines := readAllLines(t, input)
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want 2", len(lines))
	}
}

func TestLineScanner_FinalLineWithoutNewline(t *testing.T) {
	// A vendor closing the connection mid-event must still flush the tail.
	lines := readAllLines(t, "data: tail")
	if len(lines) != 1 || lines[0] != "data: tail" {
		t.Errorf("lines = %v, want the unterminated tail line", lines)
	}
}

func TestLineScanner_EmptyStream(t *testing.T) {
	if lines := readAllLines(t, ""); len(lines) != 0 {
		t.Errorf("lines = %v, want none", lines)
	}
}

func TestLineScanner_LargeLineWithinLimit(t *testing.T) {
	// Larger than bufio's 64 KiB default, below the 1 MB cap.
	large := "data: " + strings.Repeat("x", 200*1024)
	lines := readAllLines(t, large+"\n")
	if len(lines) != 1 || len(lines[0]) != len(large) {
		t.Errorf("large line not returned intact")
	}
}
