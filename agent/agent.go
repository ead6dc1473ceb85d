// Package agent orchestrates the analytics pipeline: classification, driver
// tree analysis, SQL generation and execution, knowledge-base fallback
// routing, response rendering, and conversation memory.
package agent

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/agrovista/finsight/classify"
	"github.com/agrovista/finsight/config"
	"github.com/agrovista/finsight/drivertree"
	"github.com/agrovista/finsight/llm"
	"github.com/agrovista/finsight/memory"
	"github.com/agrovista/finsight/telemetry"
	"github.com/agrovista/finsight/warehouse"
)

// historyDepth bounds the prior exchanges carried into SQL generation.
const historyDepth = 3

// SQLSource generates warehouse SQL for a question.
type SQLSource interface {
	Generate(ctx context.Context, category, question string, history []llm.Exchange) (*warehouse.GeneratedSQL, error)
}

// Responder renders narrative responses and follow-up suggestions via the LLM.
type Responder interface {
	GenerateAnswer(ctx context.Context, category, prompt string) (string, error)
	SuggestFollowUps(ctx context.Context, category, question, dataContext string) ([]string, error)
}

// Recorder receives one telemetry event per processed question.
type Recorder interface {
	Record(ev telemetry.QueryEvent)
}

// Deps wires the agent's collaborators. Classifier, Detector, and Knowledge
// are required; the rest may be nil, in which case the agent degrades: no
// executor means every probe is unusable, no responder means warehouse paths
// fall back to driver-tree rendering, no store means no conversation memory,
// no recorder means no telemetry.
type Deps struct {
	Config    *config.Config
	Oracle    classify.Oracle
	SQLGen    SQLSource
	Executor  warehouse.Executor
	Responder Responder
	Store     memory.Store
	Recorder  Recorder
}

// Agent answers financial-analytics questions for the entity. It is safe for
// concurrent use when its collaborators are.
type Agent struct {
	classifier *classify.Classifier
	detector   *classify.Detector
	calc       *drivertree.Calculator
	kb         *config.Knowledge
	sqlgen     SQLSource
	executor   warehouse.Executor
	responder  Responder
	store      memory.Store
	recorder   Recorder
}

// New builds an Agent from its dependencies. A nil Store is replaced with an
// in-memory store so memory operations never nil-check.
func New(deps Deps) *Agent {
	store := deps.Store
	if store == nil {
		store = memory.NewInMemoryStore(0)
	}
	return &Agent{
		classifier: classify.NewClassifier(deps.Config, deps.Oracle),
		detector:   classify.NewDetector(deps.Config),
		calc:       drivertree.NewCalculator(&deps.Config.Knowledge),
		kb:         &deps.Config.Knowledge,
		sqlgen:     deps.SQLGen,
		executor:   deps.Executor,
		responder:  deps.Responder,
		store:      store,
		recorder:   deps.Recorder,
	}
}

// Knowledge exposes the agent's knowledge base for summary endpoints.
func (a *Agent) Knowledge() *config.Knowledge { return a.kb }

// Classify exposes the classifier for the classification endpoint.
func (a *Agent) Classify(ctx context.Context, query string) classify.Result {
	return a.classifier.ClassifyWithConfidence(ctx, query)
}

// Result is the full outcome of one question.
type Result struct {
	SessionID   string                 `json:"session_id"`
	Question    string                 `json:"question"`
	Timestamp   time.Time              `json:"timestamp"`
	Category    classify.Category      `json:"analytics_type"`
	Confidence  string                 `json:"confidence"`
	SQL         string                 `json:"sql_query,omitempty"`
	SQLSource   string                 `json:"sql_source,omitempty"`
	Data        *warehouse.ProbeResult `json:"data,omitempty"`
	DriverTree  *drivertree.Result     `json:"driver_tree,omitempty"`
	Response    string                 `json:"response"`
	Suggestions []string               `json:"suggestions,omitempty"`
	DataSource  Strategy               `json:"data_source"`
	Error       string                 `json:"error,omitempty"`
}

// Chat processes one question end to end. It never returns an error: any
// failure in the pipeline, including a panic, produces a Result with Error
// set and a help-text response, and the turn is still recorded in memory.
func (a *Agent) Chat(ctx context.Context, sessionID, message string) (res *Result) {
	if sessionID == "" {
		sessionID = uuid.NewString()
	}
	res = &Result{
		SessionID: sessionID,
		Question:  message,
		Timestamp: time.Now().UTC(),
	}
	start := time.Now()

	defer func() {
		if r := recover(); r != nil {
			log.Printf("agent: panic answering %q: %v", message, r)
			res.Error = fmt.Sprintf("internal error: %v", r)
			res.Response = errorResponse(message, res.Error)
		}
		a.remember(res)
		a.record(res, time.Since(start))
	}()

	cls := a.classifier.ClassifyWithConfidence(ctx, message)
	res.Category = cls.Category
	res.Confidence = cls.Confidence
	flags := a.detector.Detect(message)

	history := a.history(sessionID)

	res.DriverTree = a.driverAnalysis(message, cls.Category)

	probe := a.fetchData(ctx, res, string(cls.Category), message, history)
	res.Data = probe

	res.DataSource = route(flags, probe, res.DriverTree != nil)

	response, err := a.render(ctx, res.DataSource, message, string(cls.Category), probe, res.DriverTree)
	if err != nil {
		res.Error = err.Error()
		res.Response = errorResponse(message, err.Error())
		return res
	}
	res.Response = response

	res.Suggestions = a.suggestions(ctx, cls.Category, message, res.DriverTree, probe)
	return res
}

// fetchData generates and runs warehouse SQL for the question. Every failure
// mode lands in the probe's Err field rather than aborting the pipeline, so
// the router can fall back to the knowledge base.
func (a *Agent) fetchData(ctx context.Context, res *Result, category, message string, history []llm.Exchange) *warehouse.ProbeResult {
	if a.sqlgen == nil || a.executor == nil {
		return &warehouse.ProbeResult{Err: "warehouse unavailable"}
	}

	gen, err := a.sqlgen.Generate(ctx, category, message, history)
	if err != nil {
		return &warehouse.ProbeResult{Err: err.Error()}
	}
	res.SQL = gen.SQL
	res.SQLSource = gen.Source

	if v := warehouse.Validate(gen.SQL); !v.Valid {
		return &warehouse.ProbeResult{Err: "sql validation failed: " + strings.Join(v.Issues, "; ")}
	}

	return a.executor.Query(ctx, gen.SQL)
}

// render produces the response text for the chosen strategy. Knowledge-base
// strategies are deterministic; the warehouse strategies go through the LLM
// and fall back to the driver-tree rendering if it is unavailable.
func (a *Agent) render(ctx context.Context, strategy Strategy, message, category string, probe *warehouse.ProbeResult, vdt *drivertree.Result) (string, error) {
	switch strategy {
	case KnowledgeBaseBudget:
		var variance *drivertree.Result
		if vdt != nil && vdt.Kind == drivertree.KindVariance {
			variance = vdt
		}
		return renderBudgetComparison(a.kb, variance), nil
	case KnowledgeBaseAction:
		return renderActionPlan(a.kb, a.calc.CropRanking()), nil
	case KnowledgeBaseCrop:
		return renderDriverTree(message, vdt), nil
	case KnowledgeBaseFinancialPerformance:
		return renderFinancialPerformance(a.kb), nil
	}

	if a.responder == nil {
		if vdt != nil {
			return renderDriverTree(message, vdt), nil
		}
		return "", fmt.Errorf("no response backend configured")
	}

	answer, err := a.responder.GenerateAnswer(ctx, category, buildAnswerPrompt(category, message, probe, vdt))
	if err != nil {
		if vdt != nil {
			log.Printf("agent: response generation failed, using driver-tree fallback: %v", err)
			return renderDriverTree(message, vdt), nil
		}
		return "", fmt.Errorf("response generation: %w", err)
	}
	return answer, nil
}

// history loads the recent exchanges for SQL-generation context. Memory
// errors degrade to an empty history.
func (a *Agent) history(sessionID string) []llm.Exchange {
	turns, err := a.store.RecentTurns(sessionID, historyDepth)
	if err != nil {
		log.Printf("agent: loading history for %s: %v", sessionID, err)
		return nil
	}
	out := make([]llm.Exchange, 0, len(turns))
	for _, t := range turns {
		out = append(out, llm.Exchange{Question: t.Query, SQL: t.SQL})
	}
	return out
}

func (a *Agent) remember(res *Result) {
	err := a.store.AppendTurn(memory.Turn{
		ID:          uuid.NewString(),
		SessionID:   res.SessionID,
		Timestamp:   res.Timestamp,
		Query:       res.Question,
		Category:    string(res.Category),
		SQL:         res.SQL,
		Response:    res.Response,
		DataSummary: dataSummary(res.Data),
	})
	if err != nil {
		log.Printf("agent: recording turn: %v", err)
	}
}

func (a *Agent) record(res *Result, elapsed time.Duration) {
	if a.recorder == nil {
		return
	}
	rowCount := 0
	if res.Data != nil {
		rowCount = res.Data.RowCount
	}
	a.recorder.Record(telemetry.QueryEvent{
		SessionID:  res.SessionID,
		Timestamp:  res.Timestamp,
		Category:   string(res.Category),
		DataSource: string(res.DataSource),
		SQLSource:  res.SQLSource,
		LatencyMS:  elapsed.Milliseconds(),
		RowCount:   rowCount,
		Error:      res.Error,
	})
}

// dataSummary condenses a probe into a one-line description for memory.
func dataSummary(probe *warehouse.ProbeResult) string {
	switch {
	case probe == nil:
		return "no data"
	case probe.Err != "":
		return "query failed: " + probe.Err
	case probe.RowCount == 0:
		return "no rows returned"
	default:
		return fmt.Sprintf("%d rows, columns: %s", probe.RowCount, strings.Join(probe.Columns, ", "))
	}
}
