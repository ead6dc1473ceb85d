// Package mcp exposes the analytics agent over the Model Context Protocol
// using stdio transport, so MCP-capable clients can ask financial questions
// as tool calls.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/agrovista/finsight/agent"
	"github.com/agrovista/finsight/telemetry"
	mcpgo "github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// MCPServer wraps the agent and telemetry collector and registers four tools:
// chat, classify, knowledge, and stats.
type MCPServer struct {
	agent     *agent.Agent
	telemetry *telemetry.Collector
}

// NewMCPServer constructs an MCPServer from the already-initialized agent.
// The telemetry collector may be nil, which disables the stats tool.
func NewMCPServer(a *agent.Agent, tel *telemetry.Collector) *MCPServer {
	return &MCPServer{agent: a, telemetry: tel}
}

// Start registers all tools with a new MCP server and begins serving requests
// over stdio. It blocks until stdin is closed or an error occurs.
func (m *MCPServer) Start() error {
	s := server.NewMCPServer(
		"finsight",
		"0.1.0",
		server.WithToolCapabilities(true),
	)

	s.AddTool(mcpgo.NewTool("chat",
		mcpgo.WithDescription("Ask a financial-analytics question about CFG Ukraine; compound messages are decomposed and answered per question"),
		mcpgo.WithString("message",
			mcpgo.Required(),
			mcpgo.Description("The question or questions to answer"),
		),
		mcpgo.WithString("session_id",
			mcpgo.Description("Conversation session for follow-up context; omit to start a new session"),
		),
	), m.handleChat)

	s.AddTool(mcpgo.NewTool("classify",
		mcpgo.WithDescription("Classify a query into DESCRIPTIVE, DIAGNOSTIC, PREDICTIVE, or PRESCRIPTIVE without answering it"),
		mcpgo.WithString("query",
			mcpgo.Required(),
			mcpgo.Description("The query to classify"),
		),
	), m.handleClassify)

	s.AddTool(mcpgo.NewTool("knowledge",
		mcpgo.WithDescription("Summarize the CFG Ukraine knowledge base: baseline data, crops, and available analyses"),
	), m.handleKnowledge)

	s.AddTool(mcpgo.NewTool("stats",
		mcpgo.WithDescription("Show aggregate query statistics: totals, latency, and breakdowns by category and data source"),
		mcpgo.WithString("session_id",
			mcpgo.Description("Scope totals to one session"),
		),
	), m.handleStats)

	return server.ServeStdio(s)
}

// handleChat answers one message through the full pipeline and returns the
// multi-question envelope as JSON.
func (m *MCPServer) handleChat(ctx context.Context, req mcpgo.CallToolRequest) (*mcpgo.CallToolResult, error) {
	message, err := req.RequireString("message")
	if err != nil {
		return mcpgo.NewToolResultError(err.Error()), nil
	}
	sessionID := req.GetString("session_id", "")

	result := m.agent.ChatSmart(ctx, sessionID, message)

	b, err := json.Marshal(result)
	if err != nil {
		return mcpgo.NewToolResultError(fmt.Sprintf("marshal result: %v", err)), nil
	}
	return mcpgo.NewToolResultText(string(b)), nil
}

// classifyResult is the JSON shape returned by the classify tool.
type classifyResult struct {
	Category    string `json:"category"`
	Description string `json:"description"`
	Confidence  string `json:"confidence"`
	Method      string `json:"method"`
	Reasoning   string `json:"reasoning"`
}

// handleClassify runs the classification cascade and returns the result
// without generating a response.
func (m *MCPServer) handleClassify(ctx context.Context, req mcpgo.CallToolRequest) (*mcpgo.CallToolResult, error) {
	query, err := req.RequireString("query")
	if err != nil {
		return mcpgo.NewToolResultError(err.Error()), nil
	}

	res := m.agent.Classify(ctx, query)

	b, err := json.Marshal(classifyResult{
		Category:    string(res.Category),
		Description: res.Category.Description(),
		Confidence:  res.Confidence,
		Method:      res.Method,
		Reasoning:   res.Reasoning,
	})
	if err != nil {
		return mcpgo.NewToolResultError(fmt.Sprintf("marshal result: %v", err)), nil
	}
	return mcpgo.NewToolResultText(string(b)), nil
}

// handleKnowledge returns the knowledge-base summary as markdown text.
func (m *MCPServer) handleKnowledge(ctx context.Context, req mcpgo.CallToolRequest) (*mcpgo.CallToolResult, error) {
	return mcpgo.NewToolResultText(agent.KnowledgeSummary(m.agent.Knowledge())), nil
}

// handleStats returns aggregate query statistics from the telemetry
// collector. An optional "session_id" argument scopes the totals.
func (m *MCPServer) handleStats(ctx context.Context, req mcpgo.CallToolRequest) (*mcpgo.CallToolResult, error) {
	if m.telemetry == nil {
		return mcpgo.NewToolResultError("telemetry collector not available"), nil
	}

	stats, err := m.telemetry.GetStats(req.GetString("session_id", ""))
	if err != nil {
		return mcpgo.NewToolResultError(fmt.Sprintf("get stats: %v", err)), nil
	}

	b, err := json.Marshal(stats)
	if err != nil {
		return mcpgo.NewToolResultError(fmt.Sprintf("marshal result: %v", err)), nil
	}
	return mcpgo.NewToolResultText(string(b)), nil
}
