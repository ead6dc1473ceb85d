// Package server exposes the analytics agent over HTTP: a chat endpoint, per
// session history, capabilities discovery, and the telemetry dashboard.
package server

import (
	"encoding/json"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/agrovista/finsight/agent"
	"github.com/agrovista/finsight/classify"
	"github.com/agrovista/finsight/memory"
	"github.com/agrovista/finsight/telemetry"
	"github.com/agrovista/finsight/warehouse"
)

// Server is the HTTP front end of the agent.
type Server struct {
	agent     *agent.Agent
	store     memory.Store
	telemetry *telemetry.Collector
	port      string
}

// New constructs a Server. The store must be the same one the agent writes
// to, or the history endpoints will see nothing. A nil telemetry collector
// disables the dashboard endpoint.
func New(a *agent.Agent, store memory.Store, tel *telemetry.Collector, port string) *Server {
	return &Server{agent: a, store: store, telemetry: tel, port: port}
}

// Handler builds the route table wrapped in the logging middleware.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/chat", s.handleChat)
	mux.HandleFunc("/classify", s.handleClassify)
	mux.HandleFunc("/history/", s.handleHistory)
	mux.HandleFunc("/capabilities", s.handleCapabilities)
	mux.HandleFunc("/knowledge", s.handleKnowledge)
	mux.HandleFunc("/dashboard", s.handleDashboard)
	mux.HandleFunc("/health", s.handleHealth)
	mux.HandleFunc("/healthz", s.handleHealth)
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/" {
			s.handleHealth(w, r)
			return
		}
		http.NotFound(w, r)
	})
	return loggingMiddleware(mux)
}

// Start begins listening. It blocks until the server returns an error.
func (s *Server) Start() error {
	log.Printf("finsight server starting on port %s", s.port)
	log.Printf("Endpoint: http://localhost:%s/chat", s.port)
	return http.ListenAndServe(":"+s.port, s.Handler())
}

// ChatRequest is the body of POST /chat.
type ChatRequest struct {
	Message   string `json:"message"`
	SessionID string `json:"session_id,omitempty"`
}

// handleChat answers one message. Compound messages are decomposed and
// answered per sub-question; the response is always the multi-question
// envelope.
func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		sendError(w, "invalid_request", "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		sendError(w, "invalid_request", "Invalid JSON: "+err.Error(), http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	if strings.TrimSpace(req.Message) == "" {
		sendError(w, "invalid_request", "message is required", http.StatusBadRequest)
		return
	}

	result := s.agent.ChatSmart(r.Context(), req.SessionID, req.Message)
	writeJSON(w, result)
}

// ClassifyRequest is the body of POST /classify.
type ClassifyRequest struct {
	Query string `json:"query"`
}

// ClassifyResponse reports the category and how it was decided.
type ClassifyResponse struct {
	Query       string `json:"query"`
	Category    string `json:"category"`
	Description string `json:"description"`
	Confidence  string `json:"confidence"`
	Method      string `json:"method"`
	Reasoning   string `json:"reasoning"`
}

func (s *Server) handleClassify(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		sendError(w, "invalid_request", "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req ClassifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		sendError(w, "invalid_request", "Invalid JSON: "+err.Error(), http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	if strings.TrimSpace(req.Query) == "" {
		sendError(w, "invalid_request", "query is required", http.StatusBadRequest)
		return
	}

	res := s.agent.Classify(r.Context(), req.Query)
	writeJSON(w, ClassifyResponse{
		Query:       req.Query,
		Category:    string(res.Category),
		Description: res.Category.Description(),
		Confidence:  res.Confidence,
		Method:      res.Method,
		Reasoning:   res.Reasoning,
	})
}

// handleHistory serves GET and DELETE on /history/{session_id}.
func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	sessionID := strings.TrimPrefix(r.URL.Path, "/history/")
	if sessionID == "" || strings.Contains(sessionID, "/") {
		sendError(w, "invalid_request", "session id is required", http.StatusBadRequest)
		return
	}

	switch r.Method {
	case http.MethodGet:
		turns, err := s.store.RecentTurns(sessionID, 0)
		if err != nil {
			sendError(w, "api_error", "Failed to load history: "+err.Error(), http.StatusInternalServerError)
			return
		}
		writeJSON(w, map[string]interface{}{
			"session_id": sessionID,
			"turn_count": len(turns),
			"turns":      turns,
		})
	case http.MethodDelete:
		if err := s.store.Clear(sessionID); err != nil {
			sendError(w, "api_error", "Failed to clear history: "+err.Error(), http.StatusInternalServerError)
			return
		}
		writeJSON(w, map[string]interface{}{
			"session_id": sessionID,
			"cleared":    true,
		})
	default:
		sendError(w, "invalid_request", "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// handleCapabilities describes the four analytics categories and example
// queries, for client discovery.
func (s *Server) handleCapabilities(w http.ResponseWriter, r *http.Request) {
	categories := make([]map[string]string, 0, len(classify.Categories))
	for _, c := range classify.Categories {
		categories = append(categories, map[string]string{
			"category":    string(c),
			"description": c.Description(),
		})
	}
	writeJSON(w, map[string]interface{}{
		"categories":        categories,
		"suggested_queries": warehouse.SuggestedQueries(),
	})
}

// handleKnowledge returns the knowledge-base summary.
func (s *Server) handleKnowledge(w http.ResponseWriter, r *http.Request) {
	kb := s.agent.Knowledge()
	writeJSON(w, map[string]interface{}{
		"entity":        kb.Entity,
		"fiscal_year":   kb.FiscalYear,
		"total_area_ha": kb.TotalAreaHa,
		"crop_count":    len(kb.Crops),
		"summary":       agent.KnowledgeSummary(kb),
	})
}

// handleDashboard returns aggregate query statistics from telemetry.
func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	if s.telemetry == nil {
		sendError(w, "api_error", "Telemetry not available", http.StatusServiceUnavailable)
		return
	}
	stats, err := s.telemetry.GetStats(r.URL.Query().Get("session_id"))
	if err != nil {
		sendError(w, "api_error", "Failed to get stats: "+err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, stats)
}

// handleHealth returns a simple JSON status payload for liveness probes.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]interface{}{
		"status":  "ok",
		"service": "finsight",
		"entity":  s.agent.Knowledge().Entity,
	})
}

// ErrorResponse is the error envelope for all endpoints.
type ErrorResponse struct {
	Type  string `json:"type"`
	Error struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}

// sendError writes an error response with the given HTTP status.
func sendError(w http.ResponseWriter, errorType string, message string, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	resp := ErrorResponse{Type: "error"}
	resp.Error.Type = errorType
	resp.Error.Message = message
	json.NewEncoder(w).Encode(resp) //nolint:errcheck
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v) //nolint:errcheck
}

// loggingMiddleware logs the method, path, remote address, and elapsed time
// for every request.
func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		log.Printf("<- %s %s from %s", r.Method, r.URL.Path, r.RemoteAddr)
		next.ServeHTTP(w, r)
		log.Printf("-> %s %s completed in %v", r.Method, r.URL.Path, time.Since(start))
	})
}
