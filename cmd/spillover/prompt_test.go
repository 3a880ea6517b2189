package main

import (
	"bufio"
	"strings"
	"testing"
)

func reader(input string) *bufio.Reader {
	return bufio.NewReader(strings.NewReader(input))
}

func TestPromptString(t *testing.T) {
	var out strings.Builder
	if got := promptString(reader("custom.txt\n"), &out, "Output file", "issues_output.txt"); got != "custom.txt" {
		t.Errorf("got %q, want entered value", got)
	}
	if !strings.Contains(out.String(), "[issues_output.txt]") {
		t.Errorf("prompt %q does not show the default", out.String())
	}
	if got := promptString(reader("\n"), &out, "Output file", "issues_output.txt"); got != "issues_output.txt" {
		t.Errorf("got %q, want default on empty input", got)
	}
}

func TestPromptInt(t *testing.T) {
	var out strings.Builder
	cases := []struct {
		input string
		want  int
	}{
		{"14\n", 14},
		{"\n", 10},       // empty keeps default
		{"banana\n", 10}, // invalid keeps default
		{"-3\n", 10},     // non-positive keeps default
	}
	for _, tc := range cases {
		if got := promptInt(reader(tc.input), &out, "Window in days", 10); got != tc.want {
			t.Errorf("promptInt(%q) = %d, want %d", tc.input, got, tc.want)
		}
	}
}

func TestPromptRequired(t *testing.T) {
	var out strings.Builder

	got, err := promptRequired(reader("\n\nPROJ\n"), &out, "Project key")
	if err != nil {
		t.Fatalf("promptRequired: %v", err)
	}
	if got != "PROJ" {
		t.Errorf("got %q, want value after re-asking", got)
	}

	if _, err := promptRequired(reader(""), &out, "Project key"); err == nil {
		t.Error("expected error when input ends with no value")
	}
}
