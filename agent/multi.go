package agent

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/agrovista/finsight/drivertree"
)

// MultiResult is the outcome of a compound message. For a single question it
// wraps the one Result with IsMultiQuestion false.
type MultiResult struct {
	SessionID       string               `json:"session_id"`
	IsMultiQuestion bool                 `json:"is_multi_question"`
	QuestionCount   int                  `json:"question_count"`
	Individual      []*Result            `json:"individual_results,omitempty"`
	Classifications map[string]int       `json:"classifications,omitempty"`
	KeyFindings     []drivertree.Finding `json:"key_findings,omitempty"`
	Response        string               `json:"response"`
}

// ChatSmart decomposes the message and dispatches: a single question goes
// through Chat directly, a compound one through ChatMulti.
func (a *Agent) ChatSmart(ctx context.Context, sessionID, message string) *MultiResult {
	questions := Decompose(message)
	if len(questions) <= 1 {
		res := a.Chat(ctx, sessionID, message)
		return &MultiResult{
			SessionID:       res.SessionID,
			IsMultiQuestion: false,
			QuestionCount:   1,
			Individual:      []*Result{res},
			Classifications: map[string]int{string(res.Category): 1},
			KeyFindings:     findingsOf(res),
			Response:        res.Response,
		}
	}
	return a.chatMulti(ctx, sessionID, questions)
}

// ChatMulti answers each sub-question of a compound message in sequence and
// synthesizes a combined response. All sub-questions share one session so
// later ones can reference earlier answers.
func (a *Agent) ChatMulti(ctx context.Context, sessionID, message string) *MultiResult {
	return a.chatMulti(ctx, sessionID, Decompose(message))
}

func (a *Agent) chatMulti(ctx context.Context, sessionID string, questions []string) *MultiResult {
	if sessionID == "" {
		sessionID = uuid.NewString()
	}

	out := &MultiResult{
		SessionID:       sessionID,
		IsMultiQuestion: len(questions) > 1,
		QuestionCount:   len(questions),
		Classifications: make(map[string]int),
	}

	for _, q := range questions {
		res := a.Chat(ctx, sessionID, q)
		out.Individual = append(out.Individual, res)
		out.Classifications[string(res.Category)]++
		for _, f := range findingsOf(res) {
			out.KeyFindings = appendFinding(out.KeyFindings, f)
		}
	}

	out.Response = synthesize(out)
	return out
}

func findingsOf(res *Result) []drivertree.Finding {
	if res.DriverTree == nil {
		return nil
	}
	return res.DriverTree.Findings()
}

// appendFinding deduplicates by label so the same headline number from two
// sub-questions appears once.
func appendFinding(list []drivertree.Finding, f drivertree.Finding) []drivertree.Finding {
	for _, have := range list {
		if have.Label == f.Label && have.Value == f.Value {
			return list
		}
	}
	return append(list, f)
}

// synthesize renders the combined response: a header, each sub-answer under
// its own numbered heading, and a closing summary of categories and key
// findings.
func synthesize(mr *MultiResult) string {
	if len(mr.Individual) == 1 {
		return mr.Individual[0].Response
	}

	var b strings.Builder
	fmt.Fprintf(&b, "I've identified **%d questions** in your message. Here are the answers:\n\n", mr.QuestionCount)

	for i, res := range mr.Individual {
		fmt.Fprintf(&b, "---\n\n## Question %d: %s\n*%s analysis*\n\n%s\n\n",
			i+1, res.Question, res.Category, res.Response)
	}

	b.WriteString("---\n\n**Combined Summary:**\n")
	fmt.Fprintf(&b, "- Questions answered: %d\n", mr.QuestionCount)
	if len(mr.Classifications) > 0 {
		parts := make([]string, 0, len(mr.Classifications))
		for _, cat := range []string{"DESCRIPTIVE", "DIAGNOSTIC", "PREDICTIVE", "PRESCRIPTIVE"} {
			if n, ok := mr.Classifications[cat]; ok {
				parts = append(parts, fmt.Sprintf("%s (%d)", cat, n))
			}
		}
		fmt.Fprintf(&b, "- Analytics used: %s\n", strings.Join(parts, ", "))
	}
	if len(mr.KeyFindings) > 0 {
		b.WriteString("- Key findings:\n")
		for _, f := range mr.KeyFindings {
			fmt.Fprintf(&b, "  - %s: %s\n", driverTitle(f.Label), f.Value)
		}
	}
	return b.String()
}
