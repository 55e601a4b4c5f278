package out

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"studyplan/internal/modules/timer/domain"
	timerout "studyplan/internal/modules/timer/port/out"
	"studyplan/internal/platform/markdown"
	"studyplan/internal/platform/weekdate"
)

const summaryBlock = "weekly-summary"

// MarkdownSummaryStore writes one note per week under <dir>/summaries. Re-
// exporting the same week rewrites the generated table and frontmatter and
// keeps anything the user wrote around it.
type MarkdownSummaryStore struct{}

func NewMarkdownSummaryStore() timerout.SummaryNoteStore {
	return MarkdownSummaryStore{}
}

func (MarkdownSummaryStore) Save(_ context.Context, dir string, summary domain.Summary) (string, error) {
	week := weekdate.Format(summary.WeekStart)
	notesDir := filepath.Join(dir, "summaries")
	if err := os.MkdirAll(notesDir, 0o755); err != nil {
		return "", fmt.Errorf("create summary dir: %w", err)
	}
	path := filepath.Join(notesDir, week+".md")

	note := markdown.Note{Body: fmt.Sprintf("# Weekly study summary %s\n", week)}
	existing, err := os.ReadFile(path)
	switch {
	case err == nil:
		parsed, perr := markdown.Parse(string(existing))
		if perr != nil {
			return "", fmt.Errorf("parse existing summary note: %w", perr)
		}
		note = parsed
	case !errors.Is(err, fs.ErrNotExist):
		return "", fmt.Errorf("read summary note: %w", err)
	}

	note.Meta = map[string]any{
		"schema_version": domain.SchemaVersion,
		"week_start":     week,
		"fetched_at":     summary.FetchedAt.Format("2006-01-02T15:04:05Z07:00"),
		"total_seconds":  summary.TotalSeconds(),
		"subjects":       len(summary.Entries),
	}
	note.Body = markdown.ReplaceBlock(note.Body, summaryBlock, RenderSummaryTable(summary))

	rendered, err := note.Render()
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(path, []byte(rendered), 0o644); err != nil {
		return "", fmt.Errorf("write summary note: %w", err)
	}
	return path, nil
}

// RenderSummaryTable is the Markdown table shared by the export note and the
// TUI summary tab.
func RenderSummaryTable(summary domain.Summary) string {
	var sb strings.Builder
	sb.WriteString("| Subject | Time |\n|---|---:|\n")
	for _, e := range summary.Entries {
		name := strings.ReplaceAll(e.SubjectName, "|", "\\|")
		if name == "" {
			name = e.SubjectID
		}
		sb.WriteString(fmt.Sprintf("| %s | %s |\n", name, domain.FormatElapsed(e.TotalSeconds)))
	}
	sb.WriteString(fmt.Sprintf("| **Total** | **%s** |\n", domain.FormatElapsed(summary.TotalSeconds())))
	return sb.String()
}
