package models

import (
	"fmt"
	"strings"
)

// TaskType selects the operation performed by the code agent.
type TaskType string

const (
	TaskGenerate TaskType = "generate"
	TaskReview   TaskType = "review"
)

// TargetFormat enumerates the output formats the data agent can produce.
type TargetFormat string

const (
	TargetJSON     TargetFormat = "json"
	TargetCSV      TargetFormat = "csv"
	TargetXML      TargetFormat = "xml"
	TargetYAML     TargetFormat = "yaml"
	TargetMarkdown TargetFormat = "markdown"
	TargetHTML     TargetFormat = "html"
)

// TargetFormats lists every supported target format in a stable order.
func TargetFormats() []TargetFormat {
	return []TargetFormat{TargetJSON, TargetCSV, TargetXML, TargetYAML, TargetMarkdown, TargetHTML}
}

// ParseTargetFormat normalises a user-supplied format name.
func ParseTargetFormat(s string) (TargetFormat, error) {
	f := TargetFormat(strings.ToLower(strings.TrimSpace(s)))
	switch f {
	case TargetJSON, TargetCSV, TargetXML, TargetYAML, TargetMarkdown, TargetHTML:
		return f, nil
	default:
		return "", fmt.Errorf("unsupported target format: %q", s)
	}
}

// ResearchQuery is the input for the research agent.
type ResearchQuery struct {
	Query string `json:"query"`
}

// ResearchResult is the output of the research agent.
type ResearchResult struct {
	Summary    string   `json:"summary"`
	SourceURLs []string `json:"source_urls"`
}

// CodeIssue describes a single finding from a code review.
type CodeIssue struct {
	Severity    string `json:"severity"` // low, medium, high, critical
	Description string `json:"description"`
	FilePath    string `json:"file_path,omitempty"`
	LineNumber  int    `json:"line_number,omitempty"`
}

// CodeRequest is the unified input for the code agent. CodeDescription is
// required for generate tasks, RepoURL for review tasks.
type CodeRequest struct {
	Task            TaskType `json:"task"`
	CodeDescription string   `json:"code_description,omitempty"`
	RepoURL         string   `json:"github_url,omitempty"`
	Branch          string   `json:"branch,omitempty"`
}

// Validate checks that the fields required by the task type are present.
func (r CodeRequest) Validate() error {
	switch r.Task {
	case TaskGenerate:
		if strings.TrimSpace(r.CodeDescription) == "" {
			return fmt.Errorf("code_description is required for %s tasks", TaskGenerate)
		}
	case TaskReview:
		if strings.TrimSpace(r.RepoURL) == "" {
			return fmt.Errorf("github_url is required for %s tasks", TaskReview)
		}
	default:
		return fmt.Errorf("unknown task type: %q", r.Task)
	}
	return nil
}

// CodeResult is the unified output of the code agent.
type CodeResult struct {
	Task          TaskType    `json:"task"`
	GeneratedCode string      `json:"generated_code,omitempty"`
	ReviewSummary string      `json:"review_summary,omitempty"`
	Issues        []CodeIssue `json:"issues,omitempty"`
}

// TransformRequest is the input for the data transformation agent. Data may
// be literal text or an absolute URL.
type TransformRequest struct {
	Data         string       `json:"data"`
	TargetFormat TargetFormat `json:"target_format"`
}

// TransformResult is the output of the data transformation agent. Fetch and
// render failures are reported inside TransformedData rather than as errors;
// callers depend on that shape.
type TransformResult struct {
	TransformedData string `json:"transformed_data"`
}

// PlanRequest is the input for the planning agent.
type PlanRequest struct {
	Goal string `json:"goal"`
}

// PlanResult is the output of the planning agent.
type PlanResult struct {
	Steps []string `json:"steps"`
}

// AgentSkill names one capability advertised on an agent card.
type AgentSkill struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// AgentProvider identifies the organisation behind an agent.
type AgentProvider struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// AgentCard is the discovery document served at
// <agent>/.well-known/agent.json for each mounted agent.
type AgentCard struct {
	Name        string        `json:"name"`
	Description string        `json:"description"`
	URL         string        `json:"url"`
	Version     string        `json:"version"`
	Provider    AgentProvider `json:"provider"`
	Skills      []AgentSkill  `json:"skills"`
}

// Run records a single agent invocation for the history store.
type Run struct {
	ID         string `json:"id"`
	Agent      string `json:"agent"`
	Input      string `json:"input"`
	Output     string `json:"output"`
	Success    bool   `json:"success"`
	Error      string `json:"error,omitempty"`
	DurationMS int64  `json:"duration_ms"`
	TokensUsed int64  `json:"tokens_used"`
	CreatedAt  string `json:"created_at"`
}
