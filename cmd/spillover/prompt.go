package main

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// promptString asks for one line of input, returning def on empty input.
func promptString(in *bufio.Reader, out io.Writer, label, def string) string {
	if def != "" {
		fmt.Fprintf(out, "%s [%s]: ", label, def)
	} else {
		fmt.Fprintf(out, "%s: ", label)
	}
	line, _ := in.ReadString('\n')
	line = strings.TrimSpace(line)
	if line == "" {
		return def
	}
	return line
}

// promptInt asks for a positive integer, returning def on empty, invalid,
// or non-positive input.
func promptInt(in *bufio.Reader, out io.Writer, label string, def int) int {
	line := promptString(in, out, label, strconv.Itoa(def))
	n, err := strconv.Atoi(line)
	if err != nil || n <= 0 {
		return def
	}
	return n
}

// promptRequired re-asks until a non-empty value is entered, failing when
// the input stream ends first.
func promptRequired(in *bufio.Reader, out io.Writer, label string) (string, error) {
	for {
		fmt.Fprintf(out, "%s: ", label)
		line, err := in.ReadString('\n')
		value := strings.TrimSpace(line)
		if value != "" {
			return value, nil
		}
		if err != nil {
			return "", fmt.Errorf("%s is required", strings.ToLower(label))
		}
	}
}
