package ingest

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
)

// Commit is one entry of a file's git history.
type Commit struct {
	SHA     string `json:"sha"`
	Author  string `json:"author"`
	Date    string `json:"date"`
	Subject string `json:"subject"`
}

// FileHistory returns the newest commits touching path inside the
// repository containing dir, newest first. limit <= 0 returns them all.
// A dir outside any repository yields no commits and no error.
func FileHistory(ctx context.Context, dir, path string, limit int) ([]Commit, error) {
	if err := exec.CommandContext(ctx, "git", "-C", dir, "rev-parse", "--is-inside-work-tree").Run(); err != nil {
		return nil, nil
	}

	// unlikely to appear in commit subjects
	const sep = "|||SCRIBE_SEP|||"

	// %H hash, %an author, %aI ISO date, %s subject
	args := []string{"-C", dir, "log", "--follow", "--pretty=format:%H%n%an%n%aI%n%s" + sep}
	if limit > 0 {
		args = append(args, "-n", strconv.Itoa(limit))
	}
	args = append(args, "--", path)

	var out bytes.Buffer
	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Stdout = &out
	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("git log %s: %w", path, err)
	}

	scanner := bufio.NewScanner(&out)
	scanner.Split(func(data []byte, atEOF bool) (advance int, token []byte, err error) {
		if atEOF && len(data) == 0 {
			return 0, nil, nil
		}
		if i := bytes.Index(data, []byte(sep)); i >= 0 {
			return i + len(sep), data[0:i], nil
		}
		if atEOF {
			return len(data), data, nil
		}
		return 0, nil, nil
	})

	var commits []Commit
	for scanner.Scan() {
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}
		lines := strings.SplitN(text, "\n", 4)
		if len(lines) < 3 {
			continue
		}
		if len(lines) == 3 {
			lines = append(lines, "")
		}
		commits = append(commits, Commit{
			SHA:     lines[0],
			Author:  lines[1],
			Date:    lines[2],
			Subject: strings.TrimSpace(lines[3]),
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read git log: %w", err)
	}
	return commits, nil
}
