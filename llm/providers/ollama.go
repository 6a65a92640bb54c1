package providers

import (
	"net/http"
	"strings"

	"github.com/BeenaAbe/linkedin-agent-workflow/llm"
)

// OllamaProvider implements the Ollama OpenAI-compatible chat API.
// It reuses the OpenRouter request/response shapes since Ollama exposes the
// same wire format at /v1.
type OllamaProvider struct {
	OpenRouterProvider
}

func init() {
	llm.RegisterProvider(&OllamaProvider{})
}

// Name returns the provider identifier.
func (o *OllamaProvider) Name() string {
	return "ollama"
}

// BuildURL constructs the chat completions endpoint.
func (o *OllamaProvider) BuildURL(baseURL string) string {
	if baseURL == "" {
		baseURL = "http://localhost:11434/v1"
	}
	baseURL = strings.TrimSuffix(baseURL, "/")
	return baseURL + "/chat/completions"
}

// SetHeaders is a no-op; local Ollama needs no authentication.
func (o *OllamaProvider) SetHeaders(_ *http.Request, _ string) {}
