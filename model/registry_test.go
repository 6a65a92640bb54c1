package model

import (
	"testing"
	"time"
)

func TestResolve(t *testing.T) {
	r := NewRegistry(
		map[Capability]*CapabilityConfig{
			CapabilityWriting: {
				Preferred: []string{"sonnet", "haiku"},
				Fallback:  []string{"local"},
			},
		},
		map[string]*EndpointConfig{
			"sonnet": {Provider: "openrouter", Model: "anthropic/claude-3.5-sonnet"},
			"haiku":  {Provider: "openrouter", Model: "anthropic/claude-3-haiku"},
			"local":  {Provider: "ollama", URL: "http://localhost:11434/v1", Model: "llama3.2"},
		},
	)

	if got := r.Resolve(CapabilityWriting); got != "sonnet" {
		t.Errorf("Resolve(writing) = %s, want sonnet", got)
	}
	if got := r.Resolve(CapabilityFast); got != "default" {
		t.Errorf("Resolve(fast) = %s, want default", got)
	}

	chain := r.GetFallbackChain(CapabilityWriting)
	want := []string{"sonnet", "haiku", "local"}
	if len(chain) != len(want) {
		t.Fatalf("chain length = %d, want %d", len(chain), len(want))
	}
	for i := range want {
		if chain[i] != want[i] {
			t.Errorf("chain[%d] = %s, want %s", i, chain[i], want[i])
		}
	}
}

func TestSingleEndpointRegistry(t *testing.T) {
	r := NewSingleEndpointRegistry("main", &EndpointConfig{
		Provider: "openrouter",
		Model:    "anthropic/claude-3.5-sonnet",
	})

	for _, c := range []Capability{CapabilityResearch, CapabilityStrategy, CapabilityWriting, CapabilityEditing, CapabilityFast} {
		if got := r.Resolve(c); got != "main" {
			t.Errorf("Resolve(%s) = %s, want main", c, got)
		}
	}

	ep := r.GetEndpoint("main")
	if ep == nil || ep.Model != "anthropic/claude-3.5-sonnet" {
		t.Errorf("GetEndpoint(main) = %+v", ep)
	}
}

func TestCircuitBreaker(t *testing.T) {
	r := NewSingleEndpointRegistry("main", &EndpointConfig{Provider: "openrouter", Model: "m"})

	if !r.IsEndpointAvailable("main") {
		t.Fatal("fresh endpoint should be available")
	}

	// Failures below threshold keep the circuit closed.
	r.MarkEndpointFailure("main")
	r.MarkEndpointFailure("main")
	if !r.IsEndpointAvailable("main") {
		t.Error("circuit should stay closed below threshold")
	}

	// Third consecutive failure opens the circuit.
	r.MarkEndpointFailure("main")
	if r.IsEndpointAvailable("main") {
		t.Error("circuit should open at threshold")
	}

	// Success closes it again.
	r.MarkEndpointSuccess("main")
	if !r.IsEndpointAvailable("main") {
		t.Error("success should close the circuit")
	}

	health := r.EndpointHealthSnapshot("main")
	if health == nil || health.FailureCount != 0 || health.CircuitOpen {
		t.Errorf("unexpected health after recovery: %+v", health)
	}
}

func TestHalfOpenAfterRecoveryTimeout(t *testing.T) {
	r := NewSingleEndpointRegistry("main", &EndpointConfig{Provider: "openrouter", Model: "m"})
	r.health.config.RecoveryTimeout = 10 * time.Millisecond

	for i := 0; i < 3; i++ {
		r.MarkEndpointFailure("main")
	}
	if r.IsEndpointAvailable("main") {
		t.Fatal("circuit should be open")
	}

	time.Sleep(20 * time.Millisecond)
	if !r.IsEndpointAvailable("main") {
		t.Error("circuit should be half-open after recovery timeout")
	}
}

func TestAvailableFallbackChainNeverEmpty(t *testing.T) {
	r := NewRegistry(
		map[Capability]*CapabilityConfig{
			CapabilityFast: {Preferred: []string{"only"}},
		},
		map[string]*EndpointConfig{
			"only": {Provider: "openrouter", Model: "m"},
		},
	)

	for i := 0; i < 3; i++ {
		r.MarkEndpointFailure("only")
	}

	chain := r.GetAvailableFallbackChain(CapabilityFast)
	if len(chain) == 0 {
		t.Fatal("chain must not be empty even with all circuits open")
	}
}

func TestParseCapability(t *testing.T) {
	if ParseCapability("writing") != CapabilityWriting {
		t.Error("writing should parse")
	}
	if ParseCapability("nonsense") != "" {
		t.Error("unknown capability should parse to empty")
	}
	if CapabilityWriting.Temperature() != 0.7 {
		t.Errorf("writing temperature = %f", CapabilityWriting.Temperature())
	}
	if CapabilityEditing.Temperature() != 0.2 {
		t.Errorf("editing temperature = %f", CapabilityEditing.Temperature())
	}
}
