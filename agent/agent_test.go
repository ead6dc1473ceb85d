package agent

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/agrovista/finsight/classify"
	"github.com/agrovista/finsight/config"
	"github.com/agrovista/finsight/llm"
	"github.com/agrovista/finsight/memory"
	"github.com/agrovista/finsight/telemetry"
	"github.com/agrovista/finsight/warehouse"
)

func loadTestConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg, err := config.Load("../config")
	if err != nil {
		t.Fatalf("loading config: %v", err)
	}
	return cfg
}

type stubSQLGen struct {
	sql     string
	source  string
	err     error
	history [][]llm.Exchange
}

func (s *stubSQLGen) Generate(ctx context.Context, category, question string, history []llm.Exchange) (*warehouse.GeneratedSQL, error) {
	s.history = append(s.history, history)
	if s.err != nil {
		return nil, s.err
	}
	return &warehouse.GeneratedSQL{SQL: s.sql, Source: s.source}, nil
}

type stubExecutor struct {
	probe *warehouse.ProbeResult
	panic bool
}

func (s *stubExecutor) Query(ctx context.Context, sqlQuery string) *warehouse.ProbeResult {
	if s.panic {
		panic("executor exploded")
	}
	return s.probe
}

type stubResponder struct {
	answer      string
	answerErr   error
	suggestions []string
}

func (s *stubResponder) GenerateAnswer(ctx context.Context, category, prompt string) (string, error) {
	if s.answerErr != nil {
		return "", s.answerErr
	}
	return s.answer, nil
}

func (s *stubResponder) SuggestFollowUps(ctx context.Context, category, question, dataContext string) ([]string, error) {
	return s.suggestions, nil
}

type stubRecorder struct {
	events []telemetry.QueryEvent
}

func (s *stubRecorder) Record(ev telemetry.QueryEvent) {
	s.events = append(s.events, ev)
}

func usableProbe() *warehouse.ProbeResult {
	return &warehouse.ProbeResult{
		Columns:  []string{"AccountName", "TotalAmount"},
		Rows:     []map[string]any{{"AccountName": "Revenue", "TotalAmount": 846000000.0}},
		RowCount: 1,
	}
}

func newTestAgent(t *testing.T, deps Deps) *Agent {
	t.Helper()
	if deps.Config == nil {
		deps.Config = loadTestConfig(t)
	}
	return New(deps)
}

func TestChatHybridUsesResponder(t *testing.T) {
	responder := &stubResponder{answer: "Revenue for 2025 was 846m SAR.", suggestions: []string{"How does this compare to budget?"}}
	a := newTestAgent(t, Deps{
		SQLGen:    &stubSQLGen{sql: "SELECT 1", source: "financial_summary"},
		Executor:  &stubExecutor{probe: usableProbe()},
		Responder: responder,
	})

	res := a.Chat(context.Background(), "", "What was the total revenue for 2025?")

	if res.DataSource != HybridWarehouseAndKB {
		t.Fatalf("data source = %s, want %s", res.DataSource, HybridWarehouseAndKB)
	}
	if res.Response != responder.answer {
		t.Errorf("response = %q", res.Response)
	}
	if res.SessionID == "" {
		t.Error("no session id assigned")
	}
	if res.SQL != "SELECT 1" || res.SQLSource != "financial_summary" {
		t.Errorf("sql metadata lost: %q from %q", res.SQL, res.SQLSource)
	}
	if res.Error != "" {
		t.Errorf("unexpected error: %s", res.Error)
	}
}

func TestChatBudgetFallback(t *testing.T) {
	a := newTestAgent(t, Deps{
		SQLGen:   &stubSQLGen{sql: "SELECT 1", source: "llm"},
		Executor: &stubExecutor{probe: &warehouse.ProbeResult{Err: "connection refused"}},
	})

	res := a.Chat(context.Background(), "s1", "How are we doing vs budget this year?")

	if res.DataSource != KnowledgeBaseBudget {
		t.Fatalf("data source = %s, want %s", res.DataSource, KnowledgeBaseBudget)
	}
	if !strings.Contains(res.Response, "Forecast vs Budget") {
		t.Errorf("budget response missing comparison table:\n%s", res.Response)
	}
	if res.Error != "" {
		t.Errorf("fallback produced an error: %s", res.Error)
	}
}

func TestChatSensitivityScenario(t *testing.T) {
	a := newTestAgent(t, Deps{
		SQLGen:   &stubSQLGen{err: errors.New("llm unavailable")},
		Executor: &stubExecutor{probe: usableProbe()},
	})

	res := a.Chat(context.Background(), "s1", "What if wheat prices drop by 15%?")

	if res.Category != classify.Predictive {
		t.Fatalf("category = %s, want PREDICTIVE", res.Category)
	}
	if res.DataSource != KnowledgeBaseCrop {
		t.Fatalf("data source = %s, want %s", res.DataSource, KnowledgeBaseCrop)
	}
	// 16.5m per 10% scaled to 15%.
	if !strings.Contains(res.Response, "24.8") {
		t.Errorf("sensitivity impact missing from response:\n%s", res.Response)
	}
	if !strings.Contains(res.Response, "decrease") {
		t.Errorf("direction not reflected:\n%s", res.Response)
	}
}

func TestChatAppendsTurnEvenOnPanic(t *testing.T) {
	store := memory.NewInMemoryStore(0)
	a := newTestAgent(t, Deps{
		SQLGen:   &stubSQLGen{sql: "SELECT 1", source: "llm"},
		Executor: &stubExecutor{panic: true},
		Store:    store,
	})

	res := a.Chat(context.Background(), "s1", "What was the revenue for 2025?")

	if res.Error == "" {
		t.Fatal("panic did not surface in Error")
	}
	if !strings.Contains(res.Response, "encountered an issue") {
		t.Errorf("help text missing:\n%s", res.Response)
	}
	turns, _ := store.RecentTurns("s1", 5)
	if len(turns) != 1 {
		t.Fatalf("turn not recorded after panic: %d turns", len(turns))
	}
}

func TestChatCarriesHistoryIntoSQLGeneration(t *testing.T) {
	gen := &stubSQLGen{sql: "SELECT 1", source: "llm"}
	a := newTestAgent(t, Deps{
		SQLGen:    gen,
		Executor:  &stubExecutor{probe: usableProbe()},
		Responder: &stubResponder{answer: "done"},
	})

	a.Chat(context.Background(), "s1", "What was the revenue for 2025?")
	a.Chat(context.Background(), "s1", "What was the same number for G&A expenses?")

	if len(gen.history) != 2 {
		t.Fatalf("generator called %d times, want 2", len(gen.history))
	}
	if len(gen.history[0]) != 0 {
		t.Errorf("first call carried %d exchanges, want 0", len(gen.history[0]))
	}
	if len(gen.history[1]) != 1 {
		t.Fatalf("second call carried %d exchanges, want 1", len(gen.history[1]))
	}
	if !strings.Contains(gen.history[1][0].Question, "revenue for 2025") {
		t.Errorf("history question = %q", gen.history[1][0].Question)
	}
}

func TestChatRecordsTelemetry(t *testing.T) {
	rec := &stubRecorder{}
	a := newTestAgent(t, Deps{
		SQLGen:    &stubSQLGen{sql: "SELECT 1", source: "financial_summary"},
		Executor:  &stubExecutor{probe: usableProbe()},
		Responder: &stubResponder{answer: "done"},
		Recorder:  rec,
	})

	a.Chat(context.Background(), "s1", "What was the revenue for 2025?")

	if len(rec.events) != 1 {
		t.Fatalf("recorded %d events, want 1", len(rec.events))
	}
	ev := rec.events[0]
	if ev.SessionID != "s1" || ev.DataSource != string(HybridWarehouseAndKB) {
		t.Errorf("event = %+v", ev)
	}
	if ev.RowCount != 1 || ev.SQLSource != "financial_summary" {
		t.Errorf("event metadata = %+v", ev)
	}
}

func TestChatSuggestionsCapped(t *testing.T) {
	a := newTestAgent(t, Deps{
		SQLGen:   &stubSQLGen{sql: "SELECT 1", source: "llm"},
		Executor: &stubExecutor{probe: usableProbe()},
		Responder: &stubResponder{
			answer:      "done",
			suggestions: []string{"one?", "two?", "three?", "four?"},
		},
	})

	res := a.Chat(context.Background(), "s1", "What was the revenue for 2025?")

	if len(res.Suggestions) != 3 {
		t.Fatalf("got %d suggestions, want 3", len(res.Suggestions))
	}
	if res.Suggestions[0] != "one?" || res.Suggestions[1] != "two?" {
		t.Errorf("llm suggestions not leading: %v", res.Suggestions)
	}
}

func TestChatSmartSingleQuestion(t *testing.T) {
	a := newTestAgent(t, Deps{
		SQLGen:    &stubSQLGen{sql: "SELECT 1", source: "llm"},
		Executor:  &stubExecutor{probe: usableProbe()},
		Responder: &stubResponder{answer: "single answer"},
	})

	mr := a.ChatSmart(context.Background(), "s1", "What was the revenue for 2025?")

	if mr.IsMultiQuestion {
		t.Error("single question flagged as multi")
	}
	if mr.QuestionCount != 1 || len(mr.Individual) != 1 {
		t.Fatalf("count = %d, individual = %d", mr.QuestionCount, len(mr.Individual))
	}
	if mr.Response != "single answer" {
		t.Errorf("response = %q", mr.Response)
	}
}

func TestChatSmartMultiQuestion(t *testing.T) {
	a := newTestAgent(t, Deps{
		SQLGen:    &stubSQLGen{sql: "SELECT 1", source: "llm"},
		Executor:  &stubExecutor{probe: usableProbe()},
		Responder: &stubResponder{answer: "part answer"},
	})

	mr := a.ChatSmart(context.Background(), "s1",
		"What was the revenue for 2025? What if wheat prices drop by 15%?")

	if !mr.IsMultiQuestion {
		t.Fatal("compound message not flagged as multi")
	}
	if mr.QuestionCount != 2 || len(mr.Individual) != 2 {
		t.Fatalf("count = %d, individual = %d", mr.QuestionCount, len(mr.Individual))
	}
	if !strings.Contains(mr.Response, "Question 1") || !strings.Contains(mr.Response, "Question 2") {
		t.Errorf("synthesis missing sections:\n%s", mr.Response)
	}
	if !strings.Contains(mr.Response, "Combined Summary") {
		t.Errorf("synthesis missing summary:\n%s", mr.Response)
	}
	total := 0
	for _, n := range mr.Classifications {
		total += n
	}
	if total != 2 {
		t.Errorf("classification counts = %v", mr.Classifications)
	}
}

func TestChatNoWarehouseFallsBackToKnowledge(t *testing.T) {
	a := newTestAgent(t, Deps{})

	res := a.Chat(context.Background(), "s1", "What's our wheat gross margin?")

	if res.DataSource != KnowledgeBaseCrop {
		t.Fatalf("data source = %s, want %s", res.DataSource, KnowledgeBaseCrop)
	}
	if !strings.Contains(res.Response, "Gross Margin") {
		t.Errorf("gross margin table missing:\n%s", res.Response)
	}
}
