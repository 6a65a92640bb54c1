package workflow

import (
	"fmt"
	"strings"
)

// Goal is the content type of a work item. It drives time budgets, quality
// thresholds, character bands, hashtag templates, and visual formats.
type Goal string

const (
	// GoalThoughtLeadership establishes authority through contrarian or
	// data-backed insights.
	GoalThoughtLeadership Goal = "Thought Leadership"

	// GoalProduct highlights pain points a product solves.
	GoalProduct Goal = "Product"

	// GoalPersonalBrand builds relatability through personal narrative.
	GoalPersonalBrand Goal = "Personal Brand"

	// GoalEducational teaches something actionable.
	GoalEducational Goal = "Educational"

	// GoalInteractive sparks debate or engagement.
	GoalInteractive Goal = "Interactive"

	// GoalInspirational motivates through success stories.
	GoalInspirational Goal = "Inspirational"
)

// Goals returns all valid goals in a stable order.
func Goals() []Goal {
	return []Goal{
		GoalThoughtLeadership,
		GoalProduct,
		GoalPersonalBrand,
		GoalEducational,
		GoalInteractive,
		GoalInspirational,
	}
}

// IsValid reports whether the goal is in the closed set of content types.
func (g Goal) IsValid() bool {
	switch g {
	case GoalThoughtLeadership, GoalProduct, GoalPersonalBrand,
		GoalEducational, GoalInteractive, GoalInspirational:
		return true
	}
	return false
}

// String returns the string representation of the goal.
func (g Goal) String() string {
	return string(g)
}

// ParseGoal converts a string to a Goal. Returns an error naming the invalid
// value and the accepted set.
func ParseGoal(s string) (Goal, error) {
	g := Goal(s)
	if g.IsValid() {
		return g, nil
	}

	names := make([]string, 0, len(Goals()))
	for _, goal := range Goals() {
		names = append(names, goal.String())
	}
	return "", fmt.Errorf("invalid goal type: %q, must be one of: %s", s, strings.Join(names, ", "))
}

// timeAllocations is the time budget per content type, in minutes.
var timeAllocations = map[Goal]int{
	GoalThoughtLeadership: 60,
	GoalProduct:           50,
	GoalPersonalBrand:     35,
	GoalEducational:       25,
	GoalInteractive:       10,
	GoalInspirational:     33,
}

// TimeAllocation returns the time budget for the goal in minutes.
func (g Goal) TimeAllocation() int {
	return timeAllocations[g]
}

// QualityThresholds holds the per-goal quality bands evaluated by the editor.
type QualityThresholds struct {
	// MinChars is the minimum post body length.
	MinChars int
	// MaxChars is the maximum post body length.
	MaxChars int
	// MinLineBreaks is the minimum number of blank-line separations.
	MinLineBreaks int
	// MinQualityScore is the approval threshold for the quality gate.
	MinQualityScore int
}

var qualityThresholds = map[Goal]QualityThresholds{
	GoalThoughtLeadership: {MinChars: 800, MaxChars: 1500, MinLineBreaks: 4, MinQualityScore: 75},
	GoalProduct:           {MinChars: 500, MaxChars: 1300, MinLineBreaks: 3, MinQualityScore: 70},
	GoalEducational:       {MinChars: 400, MaxChars: 1200, MinLineBreaks: 3, MinQualityScore: 75},
	GoalPersonalBrand:     {MinChars: 400, MaxChars: 1000, MinLineBreaks: 4, MinQualityScore: 70},
	GoalInteractive:       {MinChars: 200, MaxChars: 600, MinLineBreaks: 2, MinQualityScore: 65},
	GoalInspirational:     {MinChars: 400, MaxChars: 1000, MinLineBreaks: 4, MinQualityScore: 70},
}

// Thresholds returns the quality bands for the goal. Unknown goals fall back
// to the Educational bands.
func (g Goal) Thresholds() QualityThresholds {
	if t, ok := qualityThresholds[g]; ok {
		return t
	}
	return qualityThresholds[GoalEducational]
}

// characterCaps is the publish-time character cap per goal, checked by the
// pre-publish checklist.
var characterCaps = map[Goal]int{
	GoalThoughtLeadership: 1500,
	GoalProduct:           1300,
	GoalEducational:       1200,
	GoalPersonalBrand:     1000,
	GoalInteractive:       600,
	GoalInspirational:     1000,
}

// CharacterCap returns the publish-time character cap for the goal.
func (g Goal) CharacterCap() int {
	if cap, ok := characterCaps[g]; ok {
		return cap
	}
	return 1500
}
