package planning

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"
)

const maxSteps = 20

var (
	numberedPattern = regexp.MustCompile(`^\d+\.\s*(.+)$`)
	bulletPattern   = regexp.MustCompile(`^[-*•]\s*(.+)$`)
	leadingMarkers  = regexp.MustCompile(`^[\d.\-*•\s]+`)
	sentenceSplit   = regexp.MustCompile(`[.!?]+`)
)

var actionVerbs = []string{
	"create", "develop", "build", "design", "implement", "test", "deploy",
	"analyze", "research", "study", "plan", "organize", "prepare",
	"write", "document", "review", "validate", "verify", "establish",
	"configure", "install", "setup", "initialize", "launch", "publish",
	"gather", "collect", "identify", "define", "specify", "determine",
}

var categoryKeywords = map[string][]string{
	"technical": {"develop", "build", "code", "implement", "deploy", "system", "software", "app"},
	"business":  {"launch", "market", "revenue", "customer", "business", "strategy", "sales"},
	"research":  {"research", "analyze", "study", "investigate", "explore", "understand"},
	"learning":  {"learn", "master", "improve", "skill", "knowledge", "education", "training"},
	"creative":  {"design", "create", "write", "produce", "craft", "artistic", "creative"},
	"process":   {"improve", "optimize", "streamline", "process", "workflow", "efficiency"},
}

var categoryOrder = []string{"technical", "business", "research", "learning", "creative", "process"}

var timeKeywords = []string{"urgent", "asap", "quickly", "immediately", "long-term", "future", "eventually"}

// AnalyzeGoal summarises the complexity and character of a goal. The summary
// feeds the planning prompt so the model sees the same signals a human
// planner would note first.
func AnalyzeGoal(goal string) string {
	var points []string

	wordCount := len(strings.Fields(goal))
	points = append(points, fmt.Sprintf("Word count: %d", wordCount))

	complexity := "Complex"
	switch {
	case wordCount < 10:
		complexity = "Simple"
	case wordCount < 25:
		complexity = "Moderate"
	}
	points = append(points, "Complexity level: "+complexity)

	goalLower := strings.ToLower(goal)
	var categories []string
	for _, category := range categoryOrder {
		for _, kw := range categoryKeywords[category] {
			if strings.Contains(goalLower, kw) {
				categories = append(categories, category)
				break
			}
		}
	}
	if len(categories) > 0 {
		points = append(points, "Detected categories: "+strings.Join(categories, ", "))
	}

	for _, kw := range timeKeywords {
		if strings.Contains(goalLower, kw) {
			points = append(points, "Time sensitivity detected")
			break
		}
	}

	return strings.Join(points, " | ")
}

// extractSteps pulls step items out of model-generated text. Numbered and
// bulleted lines start new steps, lines opening with an action verb start new
// steps, and other lines fold into the step in progress. When nothing matches
// the text splits into sentences instead.
func extractSteps(text string) []string {
	var steps []string
	var current string

	flush := func() {
		if current != "" {
			steps = append(steps, strings.TrimSpace(current))
			current = ""
		}
	}

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if m := numberedPattern.FindStringSubmatch(line); m != nil {
			flush()
			current = m[1]
			continue
		}
		if m := bulletPattern.FindStringSubmatch(line); m != nil {
			flush()
			current = m[1]
			continue
		}

		if startsWithActionVerb(line) {
			flush()
			current = line
			continue
		}

		if current != "" {
			current += " " + line
		}
	}
	flush()

	if len(steps) == 0 && text != "" {
		for _, s := range sentenceSplit.Split(text, -1) {
			s = strings.TrimSpace(s)
			if len(s) > 10 {
				steps = append(steps, s)
			}
		}
	}

	if len(steps) > maxSteps {
		steps = steps[:maxSteps]
	}
	return steps
}

func startsWithActionVerb(line string) bool {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return false
	}
	first := strings.ToLower(fields[0])
	for _, verb := range actionVerbs {
		if strings.HasPrefix(first, verb) {
			return true
		}
	}
	return false
}

// validateSteps cleans extracted steps: leading list markers go, the first
// letter is capitalised, a terminal period is added, and anything under ten
// characters is dropped.
func validateSteps(steps []string) []string {
	var improved []string
	for _, step := range steps {
		step = strings.TrimSpace(step)
		if len(step) < 5 {
			continue
		}

		step = strings.TrimSpace(leadingMarkers.ReplaceAllString(step, ""))

		runes := []rune(step)
		if len(runes) > 0 && unicode.IsLower(runes[0]) {
			runes[0] = unicode.ToUpper(runes[0])
			step = string(runes)
		}

		if step != "" && !strings.HasSuffix(step, ".") && !strings.HasSuffix(step, "!") &&
			!strings.HasSuffix(step, "?") && !strings.HasSuffix(step, ":") {
			step += "."
		}

		if len(step) < 10 {
			continue
		}
		improved = append(improved, step)
	}
	return improved
}

// fallbackPlan is the minimal generic plan used when step extraction yields
// nothing usable.
func fallbackPlan(goal string) []string {
	return []string{
		"Define and clarify the specific requirements for: " + goal,
		"Research best practices and approaches for achieving: " + goal,
		"Create a detailed implementation plan for: " + goal,
		"Execute the plan with regular progress monitoring",
		"Review and validate the results against the original goal",
	}
}
