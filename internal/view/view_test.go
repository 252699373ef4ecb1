package view

import (
	"bufio"
	"bytes"
	"strings"
	"testing"
)

func TestPromptUsernameSkipsBlankLines(t *testing.T) {
	in := bufio.NewReader(strings.NewReader("\n   \n  alice  \n"))
	var out bytes.Buffer

	name, err := PromptUsername(in, &out)
	if err != nil {
		t.Fatalf("prompt: %v", err)
	}
	if name != "alice" {
		t.Fatalf("name = %q", name)
	}
	if got := strings.Count(out.String(), "Enter your username:"); got != 3 {
		t.Fatalf("prompt printed %d times, want 3", got)
	}
}

func TestPromptUsernameAcceptsFinalLineWithoutNewline(t *testing.T) {
	in := bufio.NewReader(strings.NewReader("alice"))
	var out bytes.Buffer

	name, err := PromptUsername(in, &out)
	if err != nil {
		t.Fatalf("prompt: %v", err)
	}
	if name != "alice" {
		t.Fatalf("name = %q", name)
	}
}

func TestPromptUsernameEOF(t *testing.T) {
	in := bufio.NewReader(strings.NewReader(""))
	var out bytes.Buffer

	if _, err := PromptUsername(in, &out); err == nil {
		t.Fatal("expected error on EOF")
	}
}
