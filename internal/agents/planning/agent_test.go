package planning

import (
	"context"
	"errors"
	"io"
	"log"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/quadrant-ai/quadrant/models"
	"github.com/quadrant-ai/quadrant/provider"
)

type fakeLLM struct {
	out string
	err error
}

func (f fakeLLM) Complete(ctx context.Context, system, user string) (string, provider.Usage, error) {
	if f.err != nil {
		return "", provider.Usage{}, f.err
	}
	return f.out, provider.Usage{TotalTokens: 11}, nil
}

func testLogger() *log.Logger { return log.New(io.Discard, "", 0) }

func TestAnalyzeGoal(t *testing.T) {
	got := AnalyzeGoal("Build a web app")
	for _, frag := range []string{"Word count: 4", "Complexity level: Simple", "technical"} {
		if !strings.Contains(got, frag) {
			t.Fatalf("missing %q in %q", frag, got)
		}
	}

	long := strings.Repeat("word ", 30) + "urgent"
	got = AnalyzeGoal(long)
	if !strings.Contains(got, "Complexity level: Complex") {
		t.Fatalf("missing complexity in %q", got)
	}
	if !strings.Contains(got, "Time sensitivity detected") {
		t.Fatalf("missing time sensitivity in %q", got)
	}
}

func TestExtractStepsNumberedList(t *testing.T) {
	text := "Here is the plan:\n1. Define scope of the project\n2. Build the prototype\n3. Test with users"
	got := extractSteps(text)
	want := []string{"Define scope of the project", "Build the prototype", "Test with users"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("steps mismatch (-want +got):\n%s", diff)
	}
}

func TestExtractStepsBulletsAndContinuation(t *testing.T) {
	text := "- Gather requirements\n  from stakeholders\n- Write the design doc"
	got := extractSteps(text)
	if len(got) != 2 {
		t.Fatalf("got %v", got)
	}
	if got[0] != "Gather requirements from stakeholders" {
		t.Fatalf("continuation not folded: %q", got[0])
	}
}

func TestExtractStepsActionVerbStart(t *testing.T) {
	text := "Create the database schema\nDeploy to staging"
	got := extractSteps(text)
	if len(got) != 2 {
		t.Fatalf("got %v", got)
	}
}

func TestExtractStepsSentenceFallback(t *testing.T) {
	text := "First we should look at the data. Then we should talk to the team. Ok."
	got := extractSteps(text)
	if len(got) != 2 {
		t.Fatalf("got %v", got)
	}
}

func TestExtractStepsCap(t *testing.T) {
	var b strings.Builder
	for i := 1; i <= 30; i++ {
		b.WriteString("1. Do the next thing in the sequence\n")
	}
	if got := extractSteps(b.String()); len(got) != 20 {
		t.Fatalf("got %d steps, want cap of 20", len(got))
	}
}

func TestValidateSteps(t *testing.T) {
	in := []string{"3. build the service layer", "tiny", "Review results carefully!"}
	got := validateSteps(in)
	if len(got) != 2 {
		t.Fatalf("got %v", got)
	}
	if got[0] != "Build the service layer." {
		t.Fatalf("got %q", got[0])
	}
	if got[1] != "Review results carefully!" {
		t.Fatalf("got %q", got[1])
	}
}

func TestPlanFromLLM(t *testing.T) {
	a := NewAgent(fakeLLM{out: "1. Research the market landscape\n2. Draft the business case"}, testLogger())
	res, usage, err := a.Plan(context.Background(), models.PlanRequest{Goal: "launch a product"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.Steps) != 2 {
		t.Fatalf("steps = %v", res.Steps)
	}
	if res.Steps[0] != "Research the market landscape." {
		t.Fatalf("got %q", res.Steps[0])
	}
	if usage.TotalTokens != 11 {
		t.Fatalf("usage = %+v", usage)
	}
}

func TestPlanFallsBackOnLLMError(t *testing.T) {
	a := NewAgent(fakeLLM{err: errors.New("timeout")}, testLogger())
	res, _, err := a.Plan(context.Background(), models.PlanRequest{Goal: "learn Go"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.Steps) != 5 {
		t.Fatalf("expected fallback plan, got %v", res.Steps)
	}
	if !strings.Contains(res.Steps[0], "learn Go") {
		t.Fatalf("fallback missing goal: %q", res.Steps[0])
	}
}

func TestPlanWithoutLLMUsesFallback(t *testing.T) {
	a := NewAgent(nil, testLogger())
	res, _, err := a.Plan(context.Background(), models.PlanRequest{Goal: "organize the team offsite"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.Steps) != 5 {
		t.Fatalf("got %v", res.Steps)
	}
}
