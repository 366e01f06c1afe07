package main

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/manifoldco/promptui"

	"talentscan/internal/candidate"
)

func TestWriteTable(t *testing.T) {
	var buf bytes.Buffer
	err := writeTable(&buf, []candidate.Candidate{
		{ID: "1", Fields: candidate.Fields{FirstName: "Jane", LastName: "Smith", Email: "jane@x.com",
			CurrentPosition: "Engineer", YearsOfExperience: 5.5, Skills: []string{"Go", "SQL"}}},
	})
	if err != nil {
		t.Fatalf("writeTable: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected header and one row, got %q", buf.String())
	}
	for _, want := range []string{"Jane Smith", "jane@x.com", "5.5", "Go, SQL"} {
		if !strings.Contains(lines[1], want) {
			t.Errorf("row missing %q: %s", want, lines[1])
		}
	}
}

func TestIgnoreInterrupt(t *testing.T) {
	if err := ignoreInterrupt(promptui.ErrInterrupt); err != nil {
		t.Errorf("interrupt should end the session quietly, got %v", err)
	}
	other := errors.New("tty gone")
	if err := ignoreInterrupt(other); err != other {
		t.Errorf("expected other errors to pass through, got %v", err)
	}
}

func TestCommandsRegistered(t *testing.T) {
	want := []string{"parse", "upload", "candidates", "ask", "chat"}
	for _, name := range want {
		cmd, _, err := rootCmd.Find([]string{name})
		if err != nil || cmd.Name() != name {
			t.Errorf("command %s not registered", name)
		}
	}
	if cmd, _, err := rootCmd.Find([]string{"candidates", "search"}); err != nil || cmd.Name() != "search" {
		t.Error("candidates search not registered")
	}
}
