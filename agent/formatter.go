package agent

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"github.com/BeenaAbe/linkedin-agent-workflow/workflow"
)

// hashtagTemplate holds the broad and niche tag pools for one goal.
type hashtagTemplate struct {
	broad []string
	niche []string
}

var hashtagTemplates = map[workflow.Goal]hashtagTemplate{
	workflow.GoalThoughtLeadership: {
		broad: []string{"#Leadership", "#Innovation", "#FutureOfWork"},
		niche: []string{"#ProductThinking", "#ThoughtLeadership", "#StrategicThinking"},
	},
	workflow.GoalProduct: {
		broad: []string{"#SaaS", "#ProductivityTools", "#Technology"},
		niche: []string{"#PLG", "#ProductLaunch", "#ProductManagement"},
	},
	workflow.GoalPersonalBrand: {
		broad: []string{"#Leadership", "#CareerAdvice", "#PersonalGrowth"},
		niche: []string{"#CareerDevelopment", "#ProfessionalGrowth", "#WorkLifeBalance"},
	},
	workflow.GoalEducational: {
		broad: []string{"#Marketing", "#Productivity", "#BusinessTips"},
		niche: []string{"#MarketingTips", "#GrowthHacking", "#SkillDevelopment"},
	},
	workflow.GoalInteractive: {
		broad: []string{"#LinkedInPoll", "#Discussion", "#TechIndustry"},
		niche: []string{"#Debate", "#CommunityInput", "#IndustryInsights"},
	},
	workflow.GoalInspirational: {
		broad: []string{"#Motivation", "#Inspiration", "#Success"},
		niche: []string{"#GrowthMindset", "#LeadershipDevelopment", "#Vulnerability"},
	},
}

// visualTemplate is the per-goal visual recommendation baseline.
type visualTemplate struct {
	format      workflow.VisualFormat
	aspectRatio string
	slides      string
	duration    string
	suggestion  string
}

var visualTemplates = map[workflow.Goal]visualTemplate{
	workflow.GoalThoughtLeadership: {
		format:      workflow.VisualCarousel,
		aspectRatio: "1:1",
		slides:      "5-15",
		suggestion:  "Multi-slide carousel (PDF) with unique frameworks, trend breakdowns, or proprietary charts",
	},
	workflow.GoalProduct: {
		format:      workflow.VisualVideo,
		aspectRatio: "1:1 or 4:5",
		duration:    "30-90 seconds",
		suggestion:  "Native video with subtitles showing 'Aha!' moment OR high-resolution screenshot/GIF with annotations",
	},
	workflow.GoalPersonalBrand: {
		format:      workflow.VisualPhoto,
		aspectRatio: "1:1 or 4:5",
		suggestion:  "Candid, authentic photo related to story (behind-the-scenes, not corporate headshot)",
	},
	workflow.GoalEducational: {
		format:      workflow.VisualCarousel,
		aspectRatio: "1:1",
		slides:      "3-7",
		suggestion:  "Step-by-step guide carousel or simple infographic summarizing tips",
	},
	workflow.GoalInteractive: {
		format:     workflow.VisualTextOnly,
		suggestion: "Text-only post for immediate commenting OR contrarian quote card (1:1 aspect ratio)",
	},
	workflow.GoalInspirational: {
		format:      workflow.VisualQuoteCard,
		aspectRatio: "1:1",
		suggestion:  "Quote card highlighting profound lesson on textured background OR behind-the-scenes photo",
	},
}

var generationPrompts = map[workflow.Goal]string{
	workflow.GoalThoughtLeadership: "Professional, minimalist design for '%s' carousel. Clean typography, corporate blue and white color scheme, modern iconography, 1:1 aspect ratio",
	workflow.GoalProduct:           "Clean product screenshot or demo for '%s'. Modern UI, bright interface, clear annotations, professional lighting, 1:1 or 4:5 aspect ratio",
	workflow.GoalPersonalBrand:     "Candid, authentic photo related to '%s'. Natural lighting, behind-the-scenes feel, professional but approachable, 4:5 aspect ratio",
	workflow.GoalEducational:       "Infographic style for '%s'. Step-by-step visual guide, numbered sections, clean icons, easy to scan, 1:1 aspect ratio",
	workflow.GoalInteractive:       "Bold quote card for '%s'. Large text, contrarian statement, textured background, eye-catching typography, 1:1 aspect ratio",
	workflow.GoalInspirational:     "Motivational quote card for '%s'. Inspiring imagery, elegant typography, warm colors, hopeful tone, 1:1 aspect ratio",
}

var stopWords = map[string]bool{
	"the": true, "a": true, "an": true, "and": true, "or": true, "but": true,
	"in": true, "on": true, "at": true, "to": true, "for": true, "of": true,
	"with": true, "by": true,
}

var (
	wordPattern = regexp.MustCompile(`\w+`)
	urlPattern  = regexp.MustCompile(`https?://\S+`)
)

// readingSpeedWPM is the skim-reading speed used for the read-time estimate.
const readingSpeedWPM = 150

// Formatter applies the deterministic final polish: hashtags, visual spec,
// counts, read time, first comment, and line-break normalization. No LLM
// calls.
type Formatter struct {
	logger *slog.Logger
}

// NewFormatter creates the formatting step.
func NewFormatter(opts ...Option) *Formatter {
	o := applyOptions(opts)
	return &Formatter{logger: o.logger}
}

func (f *Formatter) Node() workflow.Node { return workflow.NodeFormat }

func (f *Formatter) Run(_ context.Context, state workflow.State) (workflow.State, error) {
	state.PostBody = NormalizeLineBreaks(state.PostBody)
	state.Hashtags = buildHashtags(state.Goal, state.Topic)
	state.Visual = buildVisualSpec(state)
	state.CharacterCount = len(state.PostBody)
	state.WordCount = len(strings.Fields(state.PostBody))
	state.EstimatedReadTime = estimateReadTime(state.WordCount)
	state.FirstComment = buildFirstComment(state.Context)
	state.Status = workflow.StatusFormatting

	f.logger.Info("formatting complete",
		"workflow_id", state.WorkflowID,
		"characters", state.CharacterCount,
		"read_time", state.EstimatedReadTime,
		"hashtags", len(state.Hashtags),
		"visual_format", state.Visual.Format)

	return state, nil
}

// buildHashtags combines 2 broad and 2 niche template tags with a derived
// topic tag, lands in [3,5].
func buildHashtags(goal workflow.Goal, topic string) []string {
	template, ok := hashtagTemplates[goal]
	if !ok {
		template = hashtagTemplates[workflow.GoalEducational]
	}

	hashtags := append([]string{}, template.broad[:2]...)
	hashtags = append(hashtags, template.niche[:2]...)

	if topicTag := topicHashtag(topic); topicTag != "" && !containsTag(hashtags, topicTag) {
		hashtags = append(hashtags, topicTag)
	}

	if len(hashtags) > 5 {
		hashtags = hashtags[:5]
	}
	for _, pad := range []string{"#LinkedIn", "#Business", "#Professional"} {
		if len(hashtags) >= 3 {
			break
		}
		hashtags = append(hashtags, pad)
	}
	return hashtags
}

// topicHashtag derives a tag from the topic: stopwords and short words
// removed, remaining words capitalized and concatenated, length capped.
func topicHashtag(topic string) string {
	words := wordPattern.FindAllString(strings.ToLower(topic), -1)

	var meaningful []string
	for _, w := range words {
		if stopWords[w] || len(w) <= 3 {
			continue
		}
		meaningful = append(meaningful, strings.ToUpper(w[:1])+w[1:])
	}
	if len(meaningful) == 0 {
		return ""
	}

	n := min(3, len(meaningful))
	tag := strings.Join(meaningful[:n], "")
	if len(tag) > 20 {
		tag = strings.Join(meaningful[:min(2, len(meaningful))], "")
	}
	if tag == "" {
		return ""
	}
	return "#" + tag
}

func containsTag(tags []string, tag string) bool {
	for _, t := range tags {
		if t == tag {
			return true
		}
	}
	return false
}

func buildVisualSpec(state workflow.State) *workflow.VisualSpec {
	template, ok := visualTemplates[state.Goal]
	if !ok {
		template = visualTemplates[workflow.GoalEducational]
	}

	spec := &workflow.VisualSpec{
		Format:      template.format,
		AspectRatio: template.aspectRatio,
		Suggestion:  template.suggestion,
	}
	if spec.AspectRatio == "" {
		spec.AspectRatio = "1:1"
	}

	switch template.format {
	case workflow.VisualCarousel:
		spec.Slides = template.slides
		if spec.Slides == "" {
			spec.Slides = "5-10"
		}
		spec.CarouselOutline = carouselOutline(state.Outline)
	case workflow.VisualVideo:
		spec.Duration = template.duration
		if spec.Duration == "" {
			spec.Duration = "30-60 seconds"
		}
		spec.VideoScript = videoScript(state.Hooks)
		spec.RequiresSubtitles = true
	case workflow.VisualPhoto:
		spec.Style = "authentic, candid, behind-the-scenes"
	case workflow.VisualQuoteCard:
		spec.QuoteText = keyQuote(state)
	}

	prompt, ok := generationPrompts[state.Goal]
	if !ok {
		prompt = generationPrompts[workflow.GoalEducational]
	}
	spec.GenerationPrompt = fmt.Sprintf(prompt, state.Topic)

	return spec
}

func carouselOutline(outline []string) []string {
	if len(outline) == 0 {
		return []string{
			"Cover: Post title",
			"Slide 2: Problem statement",
			"Slide 3: Key insight",
			"Slide 4: Supporting data",
			"Slide 5: Call to action",
		}
	}

	slides := []string{"Cover: " + outline[0]}
	rest := outline[1:]
	if len(rest) > 5 {
		rest = rest[:5]
	}
	for i, section := range rest {
		slides = append(slides, fmt.Sprintf("Slide %d: %s", i+2, section))
	}
	return slides
}

func videoScript(hooks []string) string {
	opener := "Attention-grabbing opener"
	if len(hooks) > 0 {
		opener = hooks[0]
	}

	var b strings.Builder
	b.WriteString("Video Script Outline:\n\n")
	fmt.Fprintf(&b, "0-5s: %s\n", opener)
	b.WriteString("5-20s: Show the problem/pain point\n")
	b.WriteString("20-45s: Demonstrate solution/feature\n")
	b.WriteString("45-60s: Show result/outcome (Aha! moment)\n")
	b.WriteString("60-90s: CTA and next steps\n")
	return b.String()
}

// keyQuote picks text for a quote card: the first research quote, else the
// chosen angle, else the topic.
func keyQuote(state workflow.State) string {
	if state.Strategy != nil {
		for _, item := range state.Strategy.SupportingData {
			if item.Quote != "" {
				return item.Quote
			}
		}
		if state.Strategy.ChosenAngle != "" {
			return state.Strategy.ChosenAngle
		}
	}
	if state.Topic != "" {
		return state.Topic
	}
	return "Your key insight here"
}

// buildFirstComment extracts up to 3 URLs from the context into a resources
// comment, empty when the context has no links.
func buildFirstComment(context string) string {
	urls := urlPattern.FindAllString(context, -1)
	if len(urls) == 0 {
		return ""
	}
	if len(urls) > 3 {
		urls = urls[:3]
	}

	var b strings.Builder
	b.WriteString("🔗 Resources mentioned:\n\n")
	for i, url := range urls {
		fmt.Fprintf(&b, "%d. %s\n", i+1, url)
	}
	b.WriteString("\nWhat questions do you have? Comment below!")
	return b.String()
}

func estimateReadTime(wordCount int) string {
	minutes := float64(wordCount) / readingSpeedWPM
	if minutes < 1 {
		return fmt.Sprintf("%d seconds", int(minutes*60))
	}
	if minutes < 2 {
		return "1 minute"
	}
	return fmt.Sprintf("%d minutes", int(minutes))
}

// listPrefixes marks lines that keep single line breaks during
// normalization.
var listPrefixes = []string{"•", "-", "*", "1.", "2.", "3."}

// NormalizeLineBreaks ensures blank-line separation between consecutive
// non-empty, non-list lines. The pass is idempotent: already separated
// paragraphs gain no extra blank lines.
func NormalizeLineBreaks(body string) string {
	if body == "" {
		return body
	}

	lines := strings.Split(body, "\n")
	out := make([]string, 0, len(lines)*2)

	for i, line := range lines {
		out = append(out, line)

		if strings.TrimSpace(line) == "" || i == len(lines)-1 {
			continue
		}
		if strings.TrimSpace(lines[i+1]) == "" {
			continue
		}
		if isListLine(line) {
			continue
		}
		out = append(out, "")
	}

	return strings.Join(out, "\n")
}

func isListLine(line string) bool {
	trimmed := strings.TrimSpace(line)
	for _, prefix := range listPrefixes {
		if strings.HasPrefix(trimmed, prefix) {
			return true
		}
	}
	return false
}
