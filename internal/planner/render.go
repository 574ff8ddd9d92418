package planner

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/vikas-kashyap97/Jarvis-AI/internal/docs"
	"github.com/vikas-kashyap97/Jarvis-AI/internal/tasks"
)

// PlanSummary renders the chat reply announcing a created plan.
func PlanSummary(p tasks.Project) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Project '%s' plan created:\n", p.ID)
	fmt.Fprintf(&b, "Stakeholders: %s\n", strings.Join(p.Stakeholders, ", "))
	b.WriteString("Steps:\n")
	for i, step := range p.Steps {
		desc := step.Description
		if desc == "" {
			desc = "No description"
		}
		fmt.Fprintf(&b, "  %d. %s\n", i+1, desc)
	}
	return strings.TrimSpace(b.String())
}

// writePlanFile saves the plan as <project>_plan.txt under PlanDir and
// returns the written path.
func (p *Planner) writePlanFile(project tasks.Project) (string, error) {
	var b strings.Builder
	fmt.Fprintf(&b, "Project ID: %s\n", project.ID)
	fmt.Fprintf(&b, "Objective: %s\n", project.Objective)
	b.WriteString("Stakeholders:\n")
	for _, s := range project.Stakeholders {
		fmt.Fprintf(&b, "  - %s\n", s)
	}
	b.WriteString("Steps:\n")
	for _, step := range project.Steps {
		fmt.Fprintf(&b, "  - %s\n", step.Description)
	}

	if err := os.MkdirAll(p.planDir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create plan directory: %w", err)
	}
	path := filepath.Join(p.planDir, project.ID+"_plan.txt")
	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		return "", fmt.Errorf("failed to write plan file: %w", err)
	}
	return path, nil
}

// RenderMarkdown renders a project plan as markdown, the format the
// Google Docs export consumes.
func RenderMarkdown(p tasks.Project) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Project plan: %s\n\n", p.ID)
	fmt.Fprintf(&b, "**Objective:** %s\n\n", p.Objective)
	b.WriteString("## Stakeholders\n")
	for _, s := range p.Stakeholders {
		fmt.Fprintf(&b, "- %s\n", s)
	}
	b.WriteString("\n## Steps\n")
	for i, step := range p.Steps {
		fmt.Fprintf(&b, "%d. %s\n", i+1, step.Description)
	}
	if p.CostEstimate != "" {
		fmt.Fprintf(&b, "\n**Estimated cost:** %s\n", p.CostEstimate)
	}
	return b.String()
}

// ExportToDocs writes the plan to a new Google Doc and returns its
// metadata, including the webViewLink to share.
func (p *Planner) ExportToDocs(project tasks.Project) (*docs.DocumentMetadata, error) {
	if p.exporter == nil {
		return nil, fmt.Errorf("docs export is not configured")
	}
	title := fmt.Sprintf("Project plan: %s", project.ID)
	meta, err := p.exporter.CreateFromMarkdown(title, RenderMarkdown(project))
	if err != nil {
		return nil, fmt.Errorf("failed to export plan to Google Docs: %w", err)
	}
	return meta, nil
}
