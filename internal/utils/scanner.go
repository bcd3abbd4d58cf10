package utils

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// maxWireLineSize is the maximum size of a single wire line (1 MB). The
// default bufio.Scanner limit is 64 KiB, which is too small for large SSE
// events such as long completions. A longer line surfaces as an error wrapping
// bufio.ErrTooLong from Next().
const maxWireLineSize = 1 * 1024 * 1024

// LineScanner reads raw wire lines from a streaming response body, stripping
// the framing noise common to both SSE and newline-delimited JSON: blank lines
// (SSE event separators) and ":"-prefixed comment/keep-alive lines are
// skipped. Everything else — "data:"-prefixed SSE lines and bare NDJSON lines
// alike — is handed back verbatim for the vendor plugin to interpret.
//
// Splitting on '\n' at the byte level is multi-byte safe: no UTF-8 sequence
// contains a newline byte, so a rune split across network chunks is reassembled
// by the scanner before the line is ever converted to a string.
type LineScanner struct {
	scanner *bufio.Scanner
}

// NewLineScanner creates a LineScanner over reader supporting individual lines
// up to maxWireLineSize.
func NewLineScanner(reader io.Reader) *LineScanner {
	scanner := bufio.NewScanner(reader)
	scanner.Buffer(make([]byte, 0, 64*1024), maxWireLineSize)
	return &LineScanner{scanner: scanner}
}

// Next returns the next non-blank, non-comment wire line with trailing CR
// removed. It returns io.EOF when the stream is exhausted.
func (ls *LineScanner) Next() (string, error) {
	for ls.scanner.Scan() {
		line := strings.TrimSuffix(ls.scanner.Text(), "\r")

		if line == "" {
			continue
		}
		// SSE comments and keep-alives (": ping" and friends).
		if strings.HasPrefix(line, ":") {
			continue
		}
		return line, nil
	}

	if err := ls.scanner.Err(); err != nil {
		return "", fmt.Errorf("wire scanner error: %w", err)
	}
	return "", io.EOF
}
