package testsupport

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
)

// Reply is one scripted response from an LLMServer. A zero Status means 200
// with Content as the message content.
type Reply struct {
	Status  int
	Content string
}

// ChatRequest is the subset of a chat completion request tests inspect.
type ChatRequest struct {
	Model       string  `json:"model"`
	Temperature float64 `json:"temperature"`
	Messages    []struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	} `json:"messages"`
}

// UserPrompt returns the content of the last user message.
func (r ChatRequest) UserPrompt() string {
	for i := len(r.Messages) - 1; i >= 0; i-- {
		if r.Messages[i].Role == "user" {
			return r.Messages[i].Content
		}
	}
	return ""
}

// LLMServer is a fake OpenAI-compatible completion endpoint. Scripted
// replies are served in order; once they run out, Respond decides.
type LLMServer struct {
	t       testing.TB
	server  *httptest.Server
	mu      sync.Mutex
	replies []Reply
	reqs    []ChatRequest

	// Respond builds replies after the script is exhausted. It may be called
	// concurrently.
	Respond func(req ChatRequest) Reply
}

// NewLLMServer starts a fake server and registers cleanup.
func NewLLMServer(t testing.TB, replies ...Reply) *LLMServer {
	t.Helper()
	s := &LLMServer{t: t, replies: replies}
	s.server = httptest.NewServer(http.HandlerFunc(s.handle))
	t.Cleanup(s.server.Close)
	return s
}

// URL returns the endpoint URL.
func (s *LLMServer) URL() string {
	return s.server.URL
}

// Requests returns the decoded requests received so far.
func (s *LLMServer) Requests() []ChatRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]ChatRequest(nil), s.reqs...)
}

func (s *LLMServer) handle(w http.ResponseWriter, r *http.Request) {
	var req ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.t.Errorf("decode chat request: %v", err)
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	s.reqs = append(s.reqs, req)
	var reply Reply
	scripted := len(s.replies) > 0
	if scripted {
		reply = s.replies[0]
		s.replies = s.replies[1:]
	}
	respond := s.Respond
	s.mu.Unlock()

	if !scripted {
		if respond == nil {
			reply = Reply{Status: http.StatusInternalServerError}
		} else {
			reply = respond(req)
		}
	}

	if reply.Status != 0 && reply.Status != http.StatusOK {
		w.WriteHeader(reply.Status)
		return
	}
	payload := map[string]any{
		"choices": []any{
			map[string]any{
				"message":       map[string]any{"content": reply.Content},
				"finish_reason": "stop",
			},
		},
	}
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.t.Errorf("encode response: %v", err)
	}
}
