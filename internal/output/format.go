// Package output provides formatters for CLI output.
package output

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"todo/internal/task"
)

const (
	// DisplayLayout is how deadlines are shown (dd-MM-yyyy HH:mm).
	DisplayLayout = "02-01-2006 15:04"

	// NoDeadline is shown when a task has no usable deadline.
	NoDeadline = "-"

	// EmptyMessage is printed instead of an empty table.
	EmptyMessage = "no tasks found"
)

// Formatter writes task lines, optionally coloured.
// Completed tasks are faint and overdue tasks red when colour is on.
type Formatter struct {
	w       io.Writer
	color   bool
	done    lipgloss.Style
	overdue lipgloss.Style
}

// NewFormatter creates a Formatter writing to w.
func NewFormatter(w io.Writer, color bool) *Formatter {
	r := lipgloss.NewRenderer(w)
	return &Formatter{
		w:       w,
		color:   color,
		done:    r.NewStyle().Faint(true),
		overdue: r.NewStyle().Foreground(lipgloss.Color("9")),
	}
}

// Task writes one task line.
// Format: "{ID:>4}  [x] {TITLE}  {DEADLINE}" with "  (overdue)" appended when
// the task is overdue at now.
func (f *Formatter) Task(t task.Task, now time.Time) {
	overdue := task.IsOverdue(t, now)
	line := FormatTask(t, now.Location(), overdue)
	if f.color {
		switch {
		case t.IsCompleted:
			line = f.done.Render(line)
		case overdue:
			line = f.overdue.Render(line)
		}
	}
	fmt.Fprintln(f.w, line)
}

// Tasks writes every task followed by the footer. An empty slice prints
// EmptyMessage instead.
func (f *Formatter) Tasks(tasks []task.Task, now time.Time, quiet bool) {
	if len(tasks) == 0 {
		fmt.Fprintln(f.w, EmptyMessage)
		return
	}
	for _, t := range tasks {
		f.Task(t, now)
	}
	if !quiet {
		fmt.Fprintln(f.w, Footer(len(tasks)))
	}
}

// FormatTask returns the uncoloured line for t.
func FormatTask(t task.Task, loc *time.Location, overdue bool) string {
	check := " "
	if t.IsCompleted {
		check = "x"
	}
	line := fmt.Sprintf("%4d  [%s] %s  %s", t.ID, check, NormalizeTitle(t.Title), FormatDeadline(t, loc))
	if overdue {
		line += "  (overdue)"
	}
	return line
}

// FormatDeadline renders the deadline in DisplayLayout, or NoDeadline when
// it is absent or unparseable.
func FormatDeadline(t task.Task, loc *time.Location) string {
	if !t.HasDeadline() {
		return NoDeadline
	}
	d, err := task.ParseDeadline(t.DeadlineString(), loc)
	if err != nil {
		return NoDeadline
	}
	return d.Format(DisplayLayout)
}

// Footer returns the "N task(s) shown" summary line.
func Footer(n int) string {
	return fmt.Sprintf("%d task(s) shown", n)
}

// NormalizeTitle normalizes a task title for display.
// - Empty or whitespace-only titles become "(untitled)"
// - Newlines are replaced with spaces
func NormalizeTitle(title string) string {
	title = strings.ReplaceAll(title, "\r", " ")
	title = strings.ReplaceAll(title, "\n", " ")

	if strings.TrimSpace(title) == "" {
		return "(untitled)"
	}
	return title
}
