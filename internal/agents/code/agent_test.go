package code

import (
	"context"
	"errors"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	git "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"

	"github.com/quadrant-ai/quadrant/models"
	"github.com/quadrant-ai/quadrant/provider"
)

type fakeLLM struct {
	out     string
	err     error
	prompts []string
}

func (f *fakeLLM) Complete(ctx context.Context, system, user string) (string, provider.Usage, error) {
	f.prompts = append(f.prompts, user)
	if f.err != nil {
		return "", provider.Usage{}, f.err
	}
	return f.out, provider.Usage{TotalTokens: 33}, nil
}

func testLogger() *log.Logger { return log.New(io.Discard, "", 0) }

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func initRepo(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	repo, err := git.PlainInit(dir, false)
	if err != nil {
		t.Fatalf("init repo: %v", err)
	}
	writeFile(t, dir, "main.go", "package main\n\nfunc main() {}\n")
	writeFile(t, dir, "README.md", "# demo\n")
	wt, err := repo.Worktree()
	if err != nil {
		t.Fatal(err)
	}
	if _, err := wt.Add("."); err != nil {
		t.Fatal(err)
	}
	_, err = wt.Commit("initial commit", &git.CommitOptions{
		Author: &object.Signature{Name: "tester", Email: "tester@example.com", When: time.Now()},
	})
	if err != nil {
		t.Fatalf("commit: %v", err)
	}
	return dir
}

func TestAnalyzeStructure(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.go", "package a\n\nvar X = 1\n")
	writeFile(t, dir, "b.go", "package a\n")
	writeFile(t, dir, "notes.txt", "hi\n")
	writeFile(t, dir, ".hidden/secret.go", "package hidden\n")

	got := analyzeStructure(dir)
	for _, frag := range []string{"Total files: 3", ".go: 2", ".txt: 1", "a.go: 3 lines"} {
		if !strings.Contains(got, frag) {
			t.Fatalf("missing %q in:\n%s", frag, got)
		}
	}
	if strings.Contains(got, "secret.go") {
		t.Fatalf("dot directories must be skipped:\n%s", got)
	}
}

func TestReadCodeFilesTruncates(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "big.go", strings.Repeat("x", 6000))
	got := readCodeFiles(dir)
	if !strings.Contains(got, "... (truncated)") {
		t.Fatalf("missing truncation marker in %d-char output", len(got))
	}
	if !strings.Contains(got, "File: big.go") {
		t.Fatalf("missing file header:\n%.200s", got)
	}
}

func TestReadCodeFilesEmpty(t *testing.T) {
	if got := readCodeFiles(t.TempDir()); got != "No code files found or readable." {
		t.Fatalf("got %q", got)
	}
}

func TestGenerate(t *testing.T) {
	llm := &fakeLLM{out: "func Add(a, b int) int { return a + b }"}
	a := NewAgent(llm, testLogger())
	res, usage, err := a.Process(context.Background(), models.CodeRequest{
		Task:            models.TaskGenerate,
		CodeDescription: "an add function",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Task != models.TaskGenerate || res.GeneratedCode == "" {
		t.Fatalf("result = %+v", res)
	}
	if usage.TotalTokens != 33 {
		t.Fatalf("usage = %+v", usage)
	}
	if !strings.Contains(llm.prompts[0], "an add function") {
		t.Fatalf("prompt missing description:\n%s", llm.prompts[0])
	}
}

func TestGenerateRequiresDescription(t *testing.T) {
	a := NewAgent(&fakeLLM{}, testLogger())
	_, _, err := a.Process(context.Background(), models.CodeRequest{Task: models.TaskGenerate})
	if err == nil {
		t.Fatal("expected a validation error")
	}
}

func TestGenerateLLMErrorPropagates(t *testing.T) {
	a := NewAgent(&fakeLLM{err: errors.New("offline")}, testLogger())
	_, _, err := a.Process(context.Background(), models.CodeRequest{
		Task:            models.TaskGenerate,
		CodeDescription: "anything",
	})
	if err == nil {
		t.Fatal("expected the LLM error to propagate")
	}
}

func TestReviewLocalRepository(t *testing.T) {
	repoDir := initRepo(t)
	llm := &fakeLLM{out: "Overall the code looks fine."}
	a := NewAgent(llm, testLogger())

	// Branch "main" does not exist in the test repo; review must fall back
	// to the default branch instead of failing.
	res, _, err := a.Process(context.Background(), models.CodeRequest{
		Task:    models.TaskReview,
		RepoURL: repoDir,
		Branch:  "main",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.ReviewSummary != "Overall the code looks fine." {
		t.Fatalf("summary = %q", res.ReviewSummary)
	}
	if len(res.Issues) != 1 || res.Issues[0].Severity != "MEDIUM" {
		t.Fatalf("issues = %+v", res.Issues)
	}
	if !strings.Contains(llm.prompts[0], "main.go") {
		t.Fatalf("prompt missing repository content:\n%.400s", llm.prompts[0])
	}
}

func TestReviewCloneFailure(t *testing.T) {
	a := NewAgent(&fakeLLM{out: "x"}, testLogger())
	_, _, err := a.Process(context.Background(), models.CodeRequest{
		Task:    models.TaskReview,
		RepoURL: filepath.Join(t.TempDir(), "missing"),
	})
	if err == nil {
		t.Fatal("expected clone to fail")
	}
	if !strings.Contains(err.Error(), "failed to clone repository") {
		t.Fatalf("err = %v", err)
	}
}
