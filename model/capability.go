// Package model provides capability-based model selection for agent steps.
// Instead of hardcoding model names, agents specify capabilities (research,
// strategy, writing, editing) and the registry resolves them to available
// models with fallback chains.
package model

// Capability represents a semantic capability for model selection.
type Capability string

const (
	// CapabilityResearch is for synthesizing search results into a brief.
	CapabilityResearch Capability = "research"

	// CapabilityStrategy is for content strategy and outline generation.
	CapabilityStrategy Capability = "strategy"

	// CapabilityWriting is for drafting post content.
	CapabilityWriting Capability = "writing"

	// CapabilityEditing is for qualitative draft review.
	CapabilityEditing Capability = "editing"

	// CapabilityFast is for quick responses, simple tasks.
	CapabilityFast Capability = "fast"
)

// IsValid checks if a capability string is a known capability.
func (c Capability) IsValid() bool {
	switch c {
	case CapabilityResearch, CapabilityStrategy, CapabilityWriting, CapabilityEditing, CapabilityFast:
		return true
	}
	return false
}

// String returns the string representation of the capability.
func (c Capability) String() string {
	return string(c)
}

// ParseCapability converts a string to a Capability, returning empty for
// invalid values.
func ParseCapability(s string) Capability {
	c := Capability(s)
	if c.IsValid() {
		return c
	}
	return ""
}

// Temperatures holds the per-capability sampling temperature. Research and
// editing run cool for consistency; writing runs warm for variety.
var Temperatures = map[Capability]float64{
	CapabilityResearch: 0.3,
	CapabilityStrategy: 0.4,
	CapabilityWriting:  0.7,
	CapabilityEditing:  0.2,
	CapabilityFast:     0.2,
}

// Temperature returns the sampling temperature for a capability.
func (c Capability) Temperature() float64 {
	if t, ok := Temperatures[c]; ok {
		return t
	}
	return 0.3
}
