// Package main implements a mock LLM server for offline engine testing.
// It serves OpenAI-compatible /v1/chat/completions responses from fixture
// files, routing by which pipeline agent sent the request. This lets the full
// content-engine run against deterministic canned output with no credentials.
//
// Usage:
//
//	mock-llm -fixtures ./fixtures -port 11434
//
// Fixture files are named by agent: research.txt, strategy.txt, writer.txt,
// editor.txt. The file content is returned verbatim as the assistant message.
//
// Sequential fixtures: numbered files (e.g. "writer.1.txt", "writer.2.txt")
// are served in order per agent, with the base file as a repeating fallback
// once the sequence is exhausted. This exercises the editor revision loop:
// serve a weak first draft, then a passing second one.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"
)

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	ID      string       `json:"id"`
	Object  string       `json:"object"`
	Created int64        `json:"created"`
	Model   string       `json:"model"`
	Choices []chatChoice `json:"choices"`
	Usage   chatUsage    `json:"usage"`
}

type chatChoice struct {
	Index        int         `json:"index"`
	Message      chatMessage `json:"message"`
	FinishReason string      `json:"finish_reason"`
}

type chatUsage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// agentMarkers route a request to a fixture by matching the system prompt.
// Every agent shares one model, so the model field cannot distinguish them.
var agentMarkers = []struct {
	agent  string
	marker string
}{
	{"research", "research assistant"},
	{"strategy", "content strategist"},
	{"writer", "ghostwriter"},
	{"editor", "content editor"},
}

type server struct {
	mu       sync.Mutex
	fixtures map[string][]string // agent name, ordered fixture sequence
	calls    map[string]int      // per-agent call counts
	total    int
}

func newServer(fixtures map[string][]string) *server {
	return &server{
		fixtures: fixtures,
		calls:    make(map[string]int),
	}
}

func main() {
	fixtureDir := flag.String("fixtures", "", "directory containing fixture response files")
	port := flag.Int("port", 11434, "port to listen on")
	flag.Parse()

	if envDir := os.Getenv("MOCK_LLM_FIXTURES"); envDir != "" && *fixtureDir == "" {
		*fixtureDir = envDir
	}
	if *fixtureDir == "" {
		*fixtureDir = "fixtures"
	}

	fixtures, err := loadFixtures(*fixtureDir)
	if err != nil {
		log.Fatalf("load fixtures from %s: %v", *fixtureDir, err)
	}
	log.Printf("loaded %d agent fixture(s) from %s", len(fixtures), *fixtureDir)
	for agent, seq := range fixtures {
		log.Printf("  %s: %d response(s)", agent, len(seq))
	}

	s := newServer(fixtures)

	mux := http.NewServeMux()
	mux.HandleFunc("/health", s.handleHealth)
	mux.HandleFunc("/v1/chat/completions", s.handleChatCompletions)
	mux.HandleFunc("/stats", s.handleStats)

	addr := fmt.Sprintf(":%d", *port)
	log.Printf("mock LLM listening on %s", addr)
	if err := http.ListenAndServe(addr, mux); err != nil {
		log.Fatalf("server failed: %v", err)
	}
}

func (s *server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

func (s *server) handleChatCompletions(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, fmt.Sprintf("invalid request body: %v", err), http.StatusBadRequest)
		return
	}

	agent := routeAgent(req.Messages)
	if agent == "" {
		http.Error(w, "request matches no known agent prompt", http.StatusNotFound)
		return
	}

	content, index, ok := s.nextFixture(agent)
	if !ok {
		http.Error(w, fmt.Sprintf("no fixture for agent %q", agent), http.StatusNotFound)
		return
	}
	log.Printf("agent=%s call=%d model=%s", agent, index, req.Model)

	resp := chatResponse{
		ID:      fmt.Sprintf("mock-%d", time.Now().UnixNano()),
		Object:  "chat.completion",
		Created: time.Now().Unix(),
		Model:   req.Model,
		Choices: []chatChoice{
			{
				Message:      chatMessage{Role: "assistant", Content: content},
				FinishReason: "stop",
			},
		},
		Usage: chatUsage{
			PromptTokens:     len(content) / 4,
			CompletionTokens: len(content) / 4,
			TotalTokens:      len(content) / 2,
		},
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(resp)
}

// handleStats reports call counts so test scripts can assert, for example,
// that the writer ran three times during a forced-approval run.
func (s *server) handleStats(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	counts := make(map[string]int, len(s.calls))
	for agent, n := range s.calls {
		counts[agent] = n
	}
	total := s.total
	s.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"total_calls":    total,
		"calls_by_agent": counts,
	})
}

// routeAgent identifies the requesting agent from its system prompt.
func routeAgent(messages []chatMessage) string {
	for _, msg := range messages {
		if msg.Role != "system" {
			continue
		}
		for _, m := range agentMarkers {
			if strings.Contains(msg.Content, m.marker) {
				return m.agent
			}
		}
	}
	return ""
}

// nextFixture returns the fixture for an agent's next call, repeating the
// last entry once the sequence is exhausted.
func (s *server) nextFixture(agent string) (string, int, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	seq, ok := s.fixtures[agent]
	if !ok || len(seq) == 0 {
		return "", 0, false
	}

	index := s.calls[agent]
	s.calls[agent]++
	s.total++

	if index >= len(seq) {
		index = len(seq) - 1
	}
	return seq[index], s.calls[agent], true
}

// numberedFileRe matches sequenced fixtures like "writer.2.txt".
var numberedFileRe = regexp.MustCompile(`^(.+)\.(\d+)\.txt$`)

// loadFixtures reads fixture files from dir into per-agent sequences.
// Numbered files sort first in numeric order; the base file comes last as the
// repeating fallback.
func loadFixtures(dir string) (map[string][]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	type numbered struct {
		index   int
		content string
	}
	sequences := make(map[string][]numbered)
	bases := make(map[string]string)

	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".txt") {
			continue
		}
		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			return nil, fmt.Errorf("read fixture %s: %w", name, err)
		}

		if m := numberedFileRe.FindStringSubmatch(name); m != nil {
			index, _ := strconv.Atoi(m[2])
			sequences[m[1]] = append(sequences[m[1]], numbered{index: index, content: string(data)})
			continue
		}
		agent := strings.TrimSuffix(name, ".txt")
		bases[agent] = string(data)
	}

	fixtures := make(map[string][]string)
	for agent, seq := range sequences {
		sort.Slice(seq, func(i, j int) bool { return seq[i].index < seq[j].index })
		for _, n := range seq {
			fixtures[agent] = append(fixtures[agent], n.content)
		}
	}
	for agent, content := range bases {
		fixtures[agent] = append(fixtures[agent], content)
	}

	if len(fixtures) == 0 {
		return nil, fmt.Errorf("no .txt fixtures in %s", dir)
	}
	return fixtures, nil
}
