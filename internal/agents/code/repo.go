package code

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	git "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
)

var codeExtensions = map[string]bool{
	".py": true, ".js": true, ".ts": true, ".java": true,
	".cpp": true, ".c": true, ".go": true, ".rs": true, ".rb": true,
}

var priorityExtensions = []string{".py", ".js", ".ts", ".java", ".cpp", ".c", ".go", ".rs"}

const (
	maxSampledFiles = 10
	maxReadFiles    = 5
	maxFileChars    = 5000
)

// cloneRepository clones the repository into a fresh temp directory and
// checks out the requested branch, staying on the default branch when the
// requested one does not exist. The caller owns the cleanup func.
func (a *Agent) cloneRepository(ctx context.Context, repoURL, branch string) (string, func(), error) {
	dir, err := os.MkdirTemp("", "quadrant-review-*")
	if err != nil {
		return "", nil, fmt.Errorf("failed to create temp dir: %w", err)
	}
	cleanup := func() { _ = os.RemoveAll(dir) }

	repo, err := git.PlainCloneContext(ctx, dir, false, &git.CloneOptions{URL: repoURL})
	if err != nil {
		cleanup()
		return "", nil, fmt.Errorf("failed to clone repository: %w", err)
	}

	if branch != "" {
		wt, err := repo.Worktree()
		if err == nil {
			err = wt.Checkout(&git.CheckoutOptions{Branch: plumbing.NewBranchReferenceName(branch)})
		}
		if err != nil {
			a.logger.Printf("branch %q not found, using default branch", branch)
		}
	}

	return dir, cleanup, nil
}

// analyzeStructure summarises a checked-out repository: total file count,
// per-extension counts and a line-count sample of the code files. Dot
// directories, including .git, are skipped.
func analyzeStructure(repoPath string) string {
	var analysis []string
	analysis = append(analysis, "Repository structure analysis for: "+filepath.Base(repoPath))
	analysis = append(analysis, strings.Repeat("=", 50))

	fileCounts := map[string]int{}
	totalFiles := 0
	var codeFiles []string

	_ = filepath.WalkDir(repoPath, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			if d.Name() != "." && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if strings.HasPrefix(d.Name(), ".") {
			return nil
		}
		totalFiles++
		ext := strings.ToLower(filepath.Ext(path))
		fileCounts[ext]++
		if codeExtensions[ext] {
			codeFiles = append(codeFiles, path)
		}
		return nil
	})

	analysis = append(analysis, fmt.Sprintf("Total files: %d", totalFiles))
	analysis = append(analysis, "File types:")
	type extCount struct {
		ext   string
		count int
	}
	counts := make([]extCount, 0, len(fileCounts))
	for ext, count := range fileCounts {
		counts = append(counts, extCount{ext, count})
	}
	sort.Slice(counts, func(i, j int) bool {
		if counts[i].count != counts[j].count {
			return counts[i].count > counts[j].count
		}
		return counts[i].ext < counts[j].ext
	})
	for _, c := range counts {
		ext := c.ext
		if ext == "" {
			ext = "(no extension)"
		}
		analysis = append(analysis, fmt.Sprintf("  %s: %d", ext, c.count))
	}

	analysis = append(analysis, "", "Code file analysis (sample):")
	for i, file := range codeFiles {
		if i >= maxSampledFiles {
			break
		}
		rel, _ := filepath.Rel(repoPath, file)
		content, err := os.ReadFile(file)
		if err != nil {
			analysis = append(analysis, fmt.Sprintf("  %s: (unable to read)", rel))
			continue
		}
		lines := len(strings.Split(strings.TrimRight(string(content), "\n"), "\n"))
		analysis = append(analysis, fmt.Sprintf("  %s: %d lines", rel, lines))
	}
	if len(codeFiles) > maxSampledFiles {
		analysis = append(analysis, fmt.Sprintf("  ... and %d more code files", len(codeFiles)-maxSampledFiles))
	}

	return strings.Join(analysis, "\n")
}

// readCodeFiles concatenates the content of key code files, taking up to two
// files per priority extension and truncating large files.
func readCodeFiles(repoPath string) string {
	var selected []string
	for _, ext := range priorityExtensions {
		var matches []string
		_ = filepath.WalkDir(repoPath, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return nil
			}
			if d.IsDir() {
				if d.Name() != "." && strings.HasPrefix(d.Name(), ".") {
					return filepath.SkipDir
				}
				return nil
			}
			if strings.ToLower(filepath.Ext(path)) == ext {
				matches = append(matches, path)
			}
			return nil
		})
		if len(matches) > 2 {
			matches = matches[:2]
		}
		selected = append(selected, matches...)
	}
	if len(selected) > maxReadFiles {
		selected = selected[:maxReadFiles]
	}

	var parts []string
	for _, file := range selected {
		rel, _ := filepath.Rel(repoPath, file)
		content, err := os.ReadFile(file)
		if err != nil {
			parts = append(parts, fmt.Sprintf("File: %s - (unable to read)", rel))
			continue
		}
		text := string(content)
		if len(text) > maxFileChars {
			text = text[:maxFileChars] + "\n... (truncated)"
		}
		separator := strings.Repeat("=", 40)
		parts = append(parts, fmt.Sprintf("\nFile: %s\n%s\n%s\n%s\n", rel, separator, text, separator))
	}

	if len(parts) == 0 {
		return "No code files found or readable."
	}
	return strings.Join(parts, "\n")
}
