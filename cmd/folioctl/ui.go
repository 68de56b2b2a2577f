package main

import (
	"fmt"
	"strings"

	models "folio/internal/domain/models/docsystem"

	"github.com/charmbracelet/glamour"
	"github.com/fatih/color"
)

var (
	faint     = color.New(color.Faint).SprintFunc()
	bold      = color.New(color.Bold).SprintFunc()
	cyan      = color.New(color.FgCyan).SprintFunc()
	okText    = color.New(color.FgGreen).SprintFunc()
	errorText = color.New(color.FgRed, color.Bold).SprintFunc()
)

// formatChild renders one line of a listing
func formatChild(item models.ChildItem) string {
	name := item.Name
	if item.IsFolder() {
		name = cyan(name + "/")
	}
	return fmt.Sprintf("  %s  %s  %s\n", faint(item.ID), name, faint(item.CreatedAt.Format("2006-01-02 15:04")))
}

func formatFolderHeader(f *models.Folder) string {
	var sb strings.Builder
	label := f.Name
	if f.IsRoot {
		label += " (root)"
	}
	sb.WriteString(fmt.Sprintf("%s\n", bold(label)))
	sb.WriteString(fmt.Sprintf("%s %s\n", faint("ID:"), faint(f.ID)))
	return sb.String()
}

func formatDocumentHeader(d *models.Document) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%s\n", bold(d.Title)))
	sb.WriteString(fmt.Sprintf("%s %s\n", faint("ID:"), faint(d.ID)))
	sb.WriteString(fmt.Sprintf("%s %s\n", faint("Owner:"), faint(d.OwnerID)))
	sb.WriteString(fmt.Sprintf("%s %s\n", faint("Folder:"), faint(d.ParentID)))
	sb.WriteString(fmt.Sprintf("%s %s\n", faint("Updated:"), faint(d.UpdatedAt.Format("2006-01-02 15:04"))))
	sb.WriteString(faint(strings.Repeat("─", 40)) + "\n")
	return sb.String()
}

// renderMarkdown falls back to the raw text when the terminal renderer fails
func renderMarkdown(content string) string {
	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(80),
	)
	if err != nil {
		return content
	}
	out, err := renderer.Render(content)
	if err != nil {
		return content
	}
	return out
}
