package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
)

func writeFixture(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestLoadFixturesSequencing(t *testing.T) {
	dir := t.TempDir()
	writeFixture(t, dir, "writer.1.txt", "first draft")
	writeFixture(t, dir, "writer.2.txt", "second draft")
	writeFixture(t, dir, "writer.txt", "fallback draft")
	writeFixture(t, dir, "editor.txt", "review notes")

	fixtures, err := loadFixtures(dir)
	if err != nil {
		t.Fatalf("loadFixtures: %v", err)
	}

	writer := fixtures["writer"]
	if len(writer) != 3 || writer[0] != "first draft" || writer[1] != "second draft" || writer[2] != "fallback draft" {
		t.Errorf("writer sequence = %v", writer)
	}
	if len(fixtures["editor"]) != 1 {
		t.Errorf("editor sequence = %v", fixtures["editor"])
	}
}

func TestRouteAgent(t *testing.T) {
	tests := []struct {
		system string
		want   string
	}{
		{"You are a LinkedIn research assistant. Gather facts.", "research"},
		{"You are an expert LinkedIn content strategist.", "strategy"},
		{"You are an expert LinkedIn ghostwriter.", "writer"},
		{"You are an expert LinkedIn content editor.", "editor"},
		{"You are something else entirely.", ""},
	}
	for _, tt := range tests {
		got := routeAgent([]chatMessage{{Role: "system", Content: tt.system}, {Role: "user", Content: "go"}})
		if got != tt.want {
			t.Errorf("routeAgent(%q) = %q, want %q", tt.system, got, tt.want)
		}
	}
}

func TestSequentialServing(t *testing.T) {
	s := newServer(map[string][]string{"writer": {"draft one", "draft two"}})

	for i, want := range []string{"draft one", "draft two", "draft two"} {
		got, _, ok := s.nextFixture("writer")
		if !ok || got != want {
			t.Errorf("call %d = %q, want %q", i+1, got, want)
		}
	}
}

func TestChatCompletionsEndpoint(t *testing.T) {
	s := newServer(map[string][]string{"editor": {"solid draft, ship it"}})

	body, _ := json.Marshal(chatRequest{
		Model: "anthropic/claude-3.5-sonnet",
		Messages: []chatMessage{
			{Role: "system", Content: "You are an expert LinkedIn content editor."},
			{Role: "user", Content: "Review this draft."},
		},
	})
	req := httptest.NewRequest(http.MethodPost, "/v1/chat/completions", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	s.handleChatCompletions(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
	var resp chatResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if resp.Choices[0].Message.Content != "solid draft, ship it" {
		t.Errorf("content = %q", resp.Choices[0].Message.Content)
	}
	if resp.Choices[0].FinishReason != "stop" {
		t.Errorf("finish reason = %q", resp.Choices[0].FinishReason)
	}
}

func TestUnknownAgentRejected(t *testing.T) {
	s := newServer(map[string][]string{"writer": {"draft"}})

	body, _ := json.Marshal(chatRequest{
		Messages: []chatMessage{{Role: "system", Content: "You are a poet."}},
	})
	req := httptest.NewRequest(http.MethodPost, "/v1/chat/completions", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	s.handleChatCompletions(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}
