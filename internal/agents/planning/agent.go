package planning

import (
	"context"
	"fmt"
	"log"

	"github.com/quadrant-ai/quadrant/models"
	"github.com/quadrant-ai/quadrant/provider"
)

const systemPrompt = `You are an expert Logic and Planning Agent specializing in strategic thinking, goal decomposition, and project planning.

Your capabilities:
1. Analyze complex, high-level goals and objectives
2. Break down goals into logical, sequential, actionable steps
3. Identify dependencies and prerequisites between tasks
4. Consider resource requirements and constraints
5. Account for potential risks and contingencies

Guidelines for creating plans:
- Start with high-level phases, then break into detailed steps
- Each step should be specific and actionable (start with action verbs)
- Consider dependencies - what must be completed before each step
- Include verification and validation steps where appropriate
- Make steps measurable with clear success criteria`

// Agent turns a high-level goal into an ordered list of actionable steps. A
// heuristic analysis of the goal is fed to the model alongside the goal, and
// the model's answer is normalised by the step extractor.
type Agent struct {
	llm    provider.Provider // nil yields the fallback plan directly
	logger *log.Logger
}

func NewAgent(llm provider.Provider, logger *log.Logger) *Agent {
	return &Agent{llm: llm, logger: logger}
}

// Plan creates a plan for the goal. Model failures degrade to the fallback
// plan rather than erroring; a goal always gets some plan back.
func (a *Agent) Plan(ctx context.Context, req models.PlanRequest) (models.PlanResult, provider.Usage, error) {
	goal := req.Goal
	analysis := AnalyzeGoal(goal)
	a.logger.Printf("goal analysis: %s", analysis)

	var usage provider.Usage
	var steps []string
	if a.llm != nil {
		userPrompt := fmt.Sprintf(`Please create a detailed, actionable plan to achieve the following goal:

Goal: %q

Goal analysis: %s

Format your response as a numbered list of specific, actionable steps. Each step should:
- Start with an action verb (Create, Develop, Test, etc.)
- Be specific about what needs to be accomplished
- Include relevant details without being overly verbose

Provide a comprehensive plan that someone could follow to achieve this goal.`, goal, analysis)

		response, u, err := a.llm.Complete(ctx, systemPrompt, userPrompt)
		if err != nil {
			a.logger.Printf("plan generation failed, using fallback: %v", err)
		} else {
			usage = u
			steps = validateSteps(extractSteps(response))
		}
	}

	if len(steps) == 0 {
		steps = fallbackPlan(goal)
	}

	return models.PlanResult{Steps: steps}, usage, nil
}
