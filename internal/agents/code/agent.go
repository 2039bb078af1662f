package code

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/quadrant-ai/quadrant/models"
	"github.com/quadrant-ai/quadrant/provider"
)

const systemPrompt = `You are an expert Code Agent with deep expertise in software development, code generation, and code review.

Your tasks:
- For GENERATE tasks: Create clean, well-documented, production-ready code
- For REVIEW tasks: Analyze code for bugs, security issues, performance problems, and best practices

When reviewing code, categorize issues by severity:
- CRITICAL: Security vulnerabilities, data loss risks
- HIGH: Bugs that could cause system failures or data corruption
- MEDIUM: Performance issues, maintainability concerns
- LOW: Style issues, minor optimizations`

// Agent generates code from a description or reviews a checked-out GitHub
// repository.
type Agent struct {
	llm    provider.Provider
	logger *log.Logger
}

func NewAgent(llm provider.Provider, logger *log.Logger) *Agent {
	return &Agent{llm: llm, logger: logger}
}

// Process dispatches a request to generation or review based on its task.
func (a *Agent) Process(ctx context.Context, req models.CodeRequest) (models.CodeResult, provider.Usage, error) {
	if err := req.Validate(); err != nil {
		return models.CodeResult{}, provider.Usage{}, err
	}
	switch req.Task {
	case models.TaskGenerate:
		return a.generate(ctx, req)
	case models.TaskReview:
		return a.review(ctx, req)
	default:
		return models.CodeResult{}, provider.Usage{}, fmt.Errorf("unknown task type: %q", req.Task)
	}
}

func (a *Agent) generate(ctx context.Context, req models.CodeRequest) (models.CodeResult, provider.Usage, error) {
	userPrompt := fmt.Sprintf(`Please generate code based on the following description:

Description: %s

Requirements:
1. Generate clean, production-ready code
2. Include proper error handling and input validation
3. Add comprehensive documentation and comments
4. Follow best practices for the chosen language/framework
5. Consider edge cases and potential failure points
6. Make the code modular and maintainable

Please provide the complete code implementation.`, req.CodeDescription)

	out, usage, err := a.llm.Complete(ctx, systemPrompt, userPrompt)
	if err != nil {
		return models.CodeResult{}, provider.Usage{}, fmt.Errorf("code generation failed: %w", err)
	}
	if strings.TrimSpace(out) == "" {
		out = "Unable to generate code."
	}
	return models.CodeResult{Task: models.TaskGenerate, GeneratedCode: out}, usage, nil
}

func (a *Agent) review(ctx context.Context, req models.CodeRequest) (models.CodeResult, provider.Usage, error) {
	branch := req.Branch
	if branch == "" {
		branch = "main"
	}

	a.logger.Printf("cloning %s (branch %s) for review", req.RepoURL, branch)
	repoPath, cleanup, err := a.cloneRepository(ctx, req.RepoURL, branch)
	if err != nil {
		return models.CodeResult{}, provider.Usage{}, err
	}
	defer cleanup()

	structure := analyzeStructure(repoPath)
	content := readCodeFiles(repoPath)

	userPrompt := fmt.Sprintf(`Please review the code from this GitHub repository:

URL: %s
Branch: %s

Repository Analysis:
%s

Key Code Files Content:
%s

Provide:
1. An overall review summary
2. Specific issues found, categorized by severity (CRITICAL, HIGH, MEDIUM, LOW)
3. Recommendations for improvement
4. Security considerations
5. Performance observations
6. Code quality assessment

Please be thorough in your analysis and provide actionable feedback.`, req.RepoURL, branch, structure, content)

	out, usage, err := a.llm.Complete(ctx, systemPrompt, userPrompt)
	if err != nil {
		return models.CodeResult{}, provider.Usage{}, fmt.Errorf("code review failed: %w", err)
	}
	if strings.TrimSpace(out) == "" {
		out = "Unable to complete code review."
	}

	issues := []models.CodeIssue{{
		Severity:    "MEDIUM",
		Description: "Automated code review completed. See summary for details.",
	}}

	return models.CodeResult{Task: models.TaskReview, ReviewSummary: out, Issues: issues}, usage, nil
}
