// Package workflow provides the content-generation workflow core: the shared
// state model, the step graph with its single conditional edge, the executor
// trampoline, and the quality-gate decision logic.
package workflow

import (
	"time"
)

// Status is the coarse phase tag of a workflow run. It exists for external
// observers (queue status columns, notifications); internal control flow
// never branches on it.
type Status string

const (
	// StatusIdea is the initial state before validation runs.
	StatusIdea Status = "idea"
	// StatusValidated indicates intake validation passed.
	StatusValidated Status = "validated"
	// StatusResearching indicates the research step completed.
	StatusResearching Status = "researching"
	// StatusStrategizing indicates the strategy step completed.
	StatusStrategizing Status = "strategizing"
	// StatusDrafting indicates the writer step completed.
	StatusDrafting Status = "drafting"
	// StatusEditing indicates the editor step completed.
	StatusEditing Status = "editing"
	// StatusFormatting indicates the formatter step completed.
	StatusFormatting Status = "formatting"
	// StatusReady is the terminal success state.
	StatusReady Status = "ready"
	// StatusError is the terminal failure state.
	StatusError Status = "error"
)

// StructureType tags the recommended post structure.
type StructureType string

const (
	StructureStory     StructureType = "story"
	StructureFramework StructureType = "framework"
	StructureArgument  StructureType = "argument"
	StructureCaseStudy StructureType = "case_study"
)

// SupportingItem is a citation drawn from the research brief.
type SupportingItem struct {
	Stat   string `json:"stat,omitempty"`
	Quote  string `json:"quote,omitempty"`
	Author string `json:"author,omitempty"`
	Source string `json:"source,omitempty"`
	Usage  string `json:"usage,omitempty"`
}

// Strategy is the strategist step's output.
type Strategy struct {
	ChosenAngle      string           `json:"chosen_angle"`
	Outline          []string         `json:"outline"`
	StructureType    StructureType    `json:"structure_type"`
	KeyPoints        []string         `json:"key_points"`
	SupportingData   []SupportingItem `json:"supporting_data,omitempty"`
	RecommendedFocus string           `json:"recommended_focus,omitempty"`
	TargetLength     string           `json:"target_length,omitempty"`
	HookApproach     string           `json:"hook_approach,omitempty"`

	// UsedFallback marks a canned-template strategy produced after a parse
	// failure, so downstream consumers can tell degraded output apart from a
	// genuine strategy.
	UsedFallback bool `json:"used_fallback,omitempty"`
}

// VisualFormat is the recommended visual asset type.
type VisualFormat string

const (
	VisualCarousel  VisualFormat = "carousel"
	VisualVideo     VisualFormat = "video"
	VisualPhoto     VisualFormat = "photo"
	VisualQuoteCard VisualFormat = "quote-card"
	VisualTextOnly  VisualFormat = "text-only"
)

// VisualSpec describes the recommended visual asset for a post.
// Format-specific fields are populated only for the matching format.
type VisualSpec struct {
	Format      VisualFormat `json:"format"`
	AspectRatio string       `json:"aspect_ratio,omitempty"`
	Suggestion  string       `json:"suggestion"`

	// Carousel fields.
	Slides          string   `json:"slides,omitempty"`
	CarouselOutline []string `json:"carousel_outline,omitempty"`

	// Video fields.
	Duration          string `json:"duration,omitempty"`
	VideoScript       string `json:"video_script,omitempty"`
	RequiresSubtitles bool   `json:"requires_subtitles,omitempty"`

	// Photo fields.
	Style string `json:"style,omitempty"`

	// Quote card fields.
	QuoteText string `json:"quote_text,omitempty"`

	// GenerationPrompt is prompt text for AI image tools.
	GenerationPrompt string `json:"generation_prompt,omitempty"`
}

// State is the shared record threaded through every workflow step. Steps
// receive a value copy and return an enriched copy; fields are never deleted
// mid-run.
type State struct {
	// Identity and input.
	ItemID  string `json:"item_id"`
	Topic   string `json:"topic"`
	Goal    Goal   `json:"goal"`
	Context string `json:"context,omitempty"`

	// Admin metadata. WorkflowID is assigned exactly once by validation.
	WorkflowID      string    `json:"workflow_id,omitempty"`
	StartedAt       time.Time `json:"started_at,omitzero"`
	CompletedAt     time.Time `json:"completed_at,omitzero"`
	DurationMinutes float64   `json:"duration_minutes,omitempty"`
	TimeAllocation  int       `json:"time_allocation,omitempty"`

	// Research output.
	ResearchBrief string `json:"research_brief,omitempty"`
	SearchResults string `json:"search_results,omitempty"`

	// Strategy output.
	Strategy *Strategy `json:"strategy,omitempty"`
	Outline  []string  `json:"outline,omitempty"`

	// Draft output. Hooks has exactly three entries once drafting completes.
	Hooks         []string `json:"hooks,omitempty"`
	PostBody      string   `json:"post_body,omitempty"`
	CTA           string   `json:"cta,omitempty"`
	DraftFallback bool     `json:"draft_fallback,omitempty"`

	// Editorial state.
	QualityScore   int      `json:"quality_score"`
	EditorFeedback string   `json:"editor_feedback,omitempty"`
	EditorDecision Decision `json:"editor_decision,omitempty"`
	RevisionCount  int      `json:"revision_count"`

	// Finalization output.
	Hashtags          []string    `json:"hashtags,omitempty"`
	Visual            *VisualSpec `json:"visual,omitempty"`
	CharacterCount    int         `json:"character_count,omitempty"`
	WordCount         int         `json:"word_count,omitempty"`
	EstimatedReadTime string      `json:"estimated_read_time,omitempty"`
	FirstComment      string      `json:"first_comment,omitempty"`

	// Pre-publish checklist, informational only.
	Checklist map[string]bool `json:"checklist,omitempty"`

	// Status tracking.
	Status Status `json:"status"`
}

// NewState creates the initial state for a work item. All derived fields
// start at zero values; validation and later steps enrich them.
func NewState(itemID, topic string, goal Goal, context string) State {
	return State{
		ItemID:  itemID,
		Topic:   topic,
		Goal:    goal,
		Context: context,
		Status:  StatusIdea,
	}
}

// Clone returns a deep copy of the state. Steps operate on clones so a
// revision re-entry sees exactly the state the previous pass produced, and
// callers can diff before/after for debugging.
func (s State) Clone() State {
	out := s

	out.Outline = cloneStrings(s.Outline)
	out.Hooks = cloneStrings(s.Hooks)
	out.Hashtags = cloneStrings(s.Hashtags)

	if s.Strategy != nil {
		strategy := *s.Strategy
		strategy.Outline = cloneStrings(s.Strategy.Outline)
		strategy.KeyPoints = cloneStrings(s.Strategy.KeyPoints)
		if s.Strategy.SupportingData != nil {
			strategy.SupportingData = make([]SupportingItem, len(s.Strategy.SupportingData))
			copy(strategy.SupportingData, s.Strategy.SupportingData)
		}
		out.Strategy = &strategy
	}

	if s.Visual != nil {
		visual := *s.Visual
		visual.CarouselOutline = cloneStrings(s.Visual.CarouselOutline)
		out.Visual = &visual
	}

	if s.Checklist != nil {
		out.Checklist = make(map[string]bool, len(s.Checklist))
		for k, v := range s.Checklist {
			out.Checklist[k] = v
		}
	}

	return out
}

func cloneStrings(in []string) []string {
	if in == nil {
		return nil
	}
	out := make([]string, len(in))
	copy(out, in)
	return out
}
