package cmd

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
)

var promptOut string

func init() {
	agentPromptCmd.Flags().StringVarP(&promptOut, "output", "o", "", "Write to this file instead of stdout")
	rootCmd.AddCommand(agentPromptCmd)
}

// projectMetadata describes the project an agent is pointed at.
type projectMetadata struct {
	Root         string
	ResourceList string
	Translations string
	Languages    []string
	GitRepo      string // org/repo
	GitBranch    string
}

// agentPromptTemplate is the instruction file generated for LLM agents.
const agentPromptTemplate = `# Scribe Agent Environment

You edit the resource list and translation table of a web project through
the scribe MCP server (` + "`scribe serve`" + `). Do not edit these files by hand.

**Project:** %s
**Git:** %s
**Resource list:** %s (the ` + "`resources`" + ` array in <script setup>)
**Translations:** %s (` + "`export const translations`" + `)
**Languages:** %s

## Tools

- list_resources: every resource, in file order
- show_resource {id}: one resource with its translations
- add_resource {resource, translations, dry_run?}
- update_resource {id, resource, translations, dry_run?}
- remove_resource {id, dry_run?}
- lint_project: duplicate ids, invalid resources, missing or orphan translations

A resource has id, subject, levelKey, typeKey, duration, hasVideo and
optionally videoUrl, pdfStatement, pdfSolution. translations maps each
language to {title, description, fullDescription, notes}; title and
description are required in every language.

## Notes

- Every edit is checked before anything is written and snapshotted first;
  ` + "`scribe backup restore <id>`" + ` undoes it.
- Pass dry_run to see the unified diff without writing.
- Run lint_project after a series of edits.
`

// detectGitInfo returns (org/repo, branch) for path, or empty strings
// outside a git repository.
func detectGitInfo(path string) (string, string) {
	out, err := exec.Command("git", "-C", path, "rev-parse", "--show-toplevel").Output()
	if err != nil {
		return "", ""
	}
	root := strings.TrimSpace(string(out))

	branch := "unknown"
	if out, err := exec.Command("git", "-C", root, "rev-parse", "--abbrev-ref", "HEAD").Output(); err == nil {
		branch = strings.TrimSpace(string(out))
	}
	remote := ""
	if out, err := exec.Command("git", "-C", root, "remote", "get-url", "origin").Output(); err == nil {
		remote = strings.TrimSpace(string(out))
	}
	return orgRepo(remote), branch
}

// orgRepo extracts org/repo from an SSH (git@host:org/repo.git) or
// HTTPS (https://host/org/repo.git) remote URL.
func orgRepo(remote string) string {
	switch {
	case strings.HasPrefix(remote, "git@"):
		parts := strings.Split(remote, ":")
		if len(parts) == 2 {
			return strings.TrimSuffix(parts[1], ".git")
		}
	case strings.Contains(remote, "://"):
		parts := strings.Split(remote, "/")
		if len(parts) >= 2 {
			return parts[len(parts)-2] + "/" + strings.TrimSuffix(parts[len(parts)-1], ".git")
		}
	}
	return ""
}

// generatePromptContent renders the agent instructions for meta.
func generatePromptContent(meta projectMetadata) []byte {
	gitInfo := "Not a git repository"
	if meta.GitRepo != "" {
		gitInfo = fmt.Sprintf("%s (branch: %s)", meta.GitRepo, meta.GitBranch)
	} else if meta.GitBranch != "" {
		gitInfo = "branch " + meta.GitBranch
	}
	return []byte(fmt.Sprintf(agentPromptTemplate,
		meta.Root,
		gitInfo,
		meta.ResourceList,
		meta.Translations,
		strings.Join(meta.Languages, ", "),
	))
}

var agentPromptCmd = &cobra.Command{
	Use:   "agent-prompt",
	Short: "Print instructions for an LLM agent using scribe serve",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		root, err := filepath.Abs(cfg.ProjectDir)
		if err != nil {
			return err
		}
		repo, branch := detectGitInfo(root)
		content := generatePromptContent(projectMetadata{
			Root:         root,
			ResourceList: cfg.ResourceList,
			Translations: cfg.Translations,
			Languages:    cfg.Languages,
			GitRepo:      repo,
			GitBranch:    branch,
		})
		if promptOut == "" {
			_, err := cmd.OutOrStdout().Write(content)
			return err
		}
		return os.WriteFile(promptOut, content, 0o644)
	},
}
