package llm

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/anthropics/anthropic-sdk-go"
)

// mockMessenger records calls and returns a canned reply or error.
type mockMessenger struct {
	reply string
	err   error
	calls []anthropic.MessageNewParams
}

func (m *mockMessenger) New(ctx context.Context, params anthropic.MessageNewParams) (*anthropic.Message, error) {
	m.calls = append(m.calls, params)
	if m.err != nil {
		return nil, m.err
	}
	return &anthropic.Message{
		Content: []anthropic.ContentBlockUnion{
			{Type: "text", Text: m.reply},
		},
	}, nil
}

func TestClassifyQuery(t *testing.T) {
	mock := &mockMessenger{reply: "DIAGNOSTIC"}
	c := NewClientWithMessenger(mock)

	got, err := c.ClassifyQuery(context.Background(), "Why did net income beat budget?")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "DIAGNOSTIC" {
		t.Errorf("reply = %q, want DIAGNOSTIC", got)
	}

	if len(mock.calls) != 1 {
		t.Fatalf("expected 1 API call, got %d", len(mock.calls))
	}
	params := mock.calls[0]
	if params.MaxTokens != classifyMaxTokens {
		t.Errorf("max tokens = %d, want %d", params.MaxTokens, classifyMaxTokens)
	}
	if len(params.Messages) != 1 {
		t.Fatalf("expected single user message, got %d", len(params.Messages))
	}
}

func TestClassifyQueryError(t *testing.T) {
	mock := &mockMessenger{err: errors.New("api unavailable")}
	c := NewClientWithMessenger(mock)

	if _, err := c.ClassifyQuery(context.Background(), "anything"); err == nil {
		t.Fatal("expected error to propagate")
	}
}

func TestGenerateSQLCarriesHistory(t *testing.T) {
	mock := &mockMessenger{reply: "SELECT 1"}
	c := NewClientWithMessenger(mock)

	history := []Exchange{
		{Question: "q1", SQL: "SELECT a"},
		{Question: "q2", SQL: "SELECT b"},
		{Question: "q3", SQL: "SELECT c"},
		{Question: "q4", SQL: "SELECT d"},
	}
	sql, err := c.GenerateSQL(context.Background(), "schema here", "DESCRIPTIVE", "show revenue", history)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sql != "SELECT 1" {
		t.Errorf("sql = %q", sql)
	}

	// Only the last 3 exchanges are carried: 3 pairs plus the new question.
	params := mock.calls[0]
	if len(params.Messages) != 7 {
		t.Errorf("message count = %d, want 7", len(params.Messages))
	}
}

func TestGenerateAnswerUsesCategoryTemplate(t *testing.T) {
	mock := &mockMessenger{reply: "analysis text"}
	c := NewClientWithMessenger(mock)

	if _, err := c.GenerateAnswer(context.Background(), "PRESCRIPTIVE", "question + data"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	system := mock.calls[0].System
	if len(system) != 1 {
		t.Fatalf("expected 1 system block, got %d", len(system))
	}
	if !strings.Contains(system[0].Text, "PRESCRIPTIVE Analytics") {
		t.Error("prescriptive answer did not use prescriptive template")
	}
	if !strings.Contains(system[0].Text, "CFG Ukraine") {
		t.Error("system prompt missing business context")
	}
}

func TestSuggestFollowUpsParsing(t *testing.T) {
	mock := &mockMessenger{reply: "1. How does this compare to budget?\n\n2) What drove the change?\n- Should we hedge?"}
	c := NewClientWithMessenger(mock)

	got, err := c.SuggestFollowUps(context.Background(), "DESCRIPTIVE", "What was revenue?", "4 rows")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []string{
		"How does this compare to budget?",
		"What drove the change?",
		"Should we hedge?",
	}
	if len(got) != len(want) {
		t.Fatalf("got %d suggestions %v, want %d", len(got), got, len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("suggestion %d = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestSystemPromptFor(t *testing.T) {
	if p := systemPromptFor("DIAGNOSTIC"); !strings.Contains(p, "DIAGNOSTIC Analytics") {
		t.Error("diagnostic template missing")
	}
	// Unknown categories fall back to the descriptive template.
	if p := systemPromptFor("whatever"); !strings.Contains(p, "DESCRIPTIVE Analytics") {
		t.Error("fallback template missing")
	}
}
