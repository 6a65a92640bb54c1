// Package main provides the content-engine binary entry point.
package main

import (
	// Register LLM providers via init()
	_ "github.com/BeenaAbe/linkedin-agent-workflow/llm/providers"

	"github.com/BeenaAbe/linkedin-agent-workflow/commands"
)

func main() {
	commands.Execute()
}
