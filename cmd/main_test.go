package main

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"
)

// runCmd executes the command tree in-process against the real config and a
// throwaway data directory, returning captured stdout.
func runCmd(t *testing.T, dataDir string, args ...string) (string, error) {
	t.Helper()
	configDir, err := filepath.Abs(filepath.Join("..", "config"))
	if err != nil {
		t.Fatalf("resolving config dir: %v", err)
	}

	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(append([]string{"--config", configDir, "--data", dataDir}, args...))
	err = root.Execute()
	return out.String(), err
}

func TestClassifyCommand(t *testing.T) {
	tests := []struct {
		name         string
		query        string
		wantCategory string
	}{
		{
			name:         "what-if scenario is predictive",
			query:        "What if wheat prices drop by 15%?",
			wantCategory: "PREDICTIVE",
		},
		{
			name:         "why question is diagnostic",
			query:        "Why did net income beat budget?",
			wantCategory: "DIAGNOSTIC",
		},
		{
			name:         "value lookup is descriptive",
			query:        "What was the revenue for 2025?",
			wantCategory: "DESCRIPTIVE",
		},
		{
			name:         "optimization ask is prescriptive",
			query:        "How should we optimize the crop mix?",
			wantCategory: "PRESCRIPTIVE",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stdout, err := runCmd(t, t.TempDir(), "classify", tt.query)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !strings.Contains(stdout, tt.wantCategory) {
				t.Errorf("expected category %q in output\ngot: %s", tt.wantCategory, stdout)
			}
			for _, field := range []string{"Category:", "Confidence:", "Method:", "Reasoning:"} {
				if !strings.Contains(stdout, field) {
					t.Errorf("output missing field %q\ngot: %s", field, stdout)
				}
			}
		})
	}
}

func TestChatCommandOffline(t *testing.T) {
	// No API key: the answer comes from SQL templates and the knowledge base.
	stdout, err := runCmd(t, t.TempDir(), "chat", "What's our wheat gross margin?")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(stdout, "Gross Margin") {
		t.Errorf("response missing analysis\ngot: %s", stdout)
	}
	if !strings.Contains(stdout, "Session:") {
		t.Errorf("session line missing\ngot: %s", stdout)
	}
}

func TestChatCommandRequiresMessage(t *testing.T) {
	_, err := runCmd(t, t.TempDir(), "chat")
	if err == nil {
		t.Error("expected error for chat with no arguments, got nil")
	}
}

func TestKnowledgeCommand(t *testing.T) {
	stdout, err := runCmd(t, t.TempDir(), "knowledge")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, want := range []string{"CFG Ukraine", "Crops Tracked", "Value-Driver Tree"} {
		if !strings.Contains(stdout, want) {
			t.Errorf("output missing %q\ngot: %s", want, stdout)
		}
	}
}

func TestStatsCommand(t *testing.T) {
	dataDir := t.TempDir()

	// A chat first, so stats are non-trivial; the telemetry database is
	// shared through the data directory.
	if _, err := runCmd(t, dataDir, "chat", "What's our wheat gross margin?"); err != nil {
		t.Fatalf("chat failed: %v", err)
	}

	stdout, err := runCmd(t, dataDir, "stats")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(stdout, "Total queries: 1") {
		t.Errorf("expected one recorded query\ngot: %s", stdout)
	}
	if !strings.Contains(stdout, "By category:") {
		t.Errorf("breakdown missing\ngot: %s", stdout)
	}
}

func TestMissingConfigDir(t *testing.T) {
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs([]string{"--config", "/nonexistent/config/path", "--data", t.TempDir(), "classify", "hello"})
	if err := root.Execute(); err == nil {
		t.Error("expected error for missing config directory, got nil")
	}
}
