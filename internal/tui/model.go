// Package tui is the interactive task screen: a form for new tasks above the
// task table.
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"todo/internal/output"
	"todo/internal/store"
	"todo/internal/task"
)

// Focus targets, cycled with tab.
const (
	fieldTitle = iota
	fieldDate
	fieldTime
	focusTable
	focusCount
)

// Styles
var (
	titleStyle = lipgloss.NewStyle().Bold(true)

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))

	selectedStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("62")).
			Foreground(lipgloss.Color("230"))

	doneStyle = lipgloss.NewStyle().Faint(true)

	overdueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))
)

// Result messages from store calls.
type (
	loadedMsg  struct{ err error }
	addedMsg   struct{ err error }
	toggledMsg struct{ err error }
	deletedMsg struct{ err error }
)

// Model is the bubbletea model for the task screen.
type Model struct {
	ctx      context.Context
	store    *store.Store
	now      func() time.Time
	composer task.Composer

	inputs      []textinput.Model
	deadline    string
	deadlineErr string
	focus       int
	cursor   int
	loading  bool
	width    int
}

// New creates the model. now may be nil, in which case time.Now is used.
func New(ctx context.Context, st *store.Store, now func() time.Time) Model {
	if now == nil {
		now = time.Now
	}

	inputs := make([]textinput.Model, focusTable)
	for i := range inputs {
		ti := textinput.New()
		ti.Prompt = ""
		ti.Cursor.SetMode(cursor.CursorStatic)
		switch i {
		case fieldTitle:
			ti.Placeholder = "Enter task"
			ti.Width = 40
			ti.CharLimit = 200
		case fieldDate:
			ti.Placeholder = "YYYY-MM-DD"
			ti.Width = len(task.DateLayout) + 1
			ti.CharLimit = len(task.DateLayout)
		case fieldTime:
			ti.Placeholder = "HH:mm"
			ti.Width = len(task.TimeLayout) + 1
			ti.CharLimit = len(task.TimeLayout)
		}
		inputs[i] = ti
	}
	inputs[fieldTitle].Focus()

	return Model{
		ctx:      ctx,
		store:    st,
		now:      now,
		composer: task.Composer{Now: now},
		inputs:   inputs,
		loading:  true,
	}
}

// Init starts the initial fetch.
func (m Model) Init() tea.Cmd {
	return m.loadCmd()
}

// Deadline returns the composed deadline of the form.
func (m Model) Deadline() string {
	return m.deadline
}

// Update handles messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		if w := msg.Width - 16; w > 10 {
			m.inputs[fieldTitle].Width = w
		}
		return m, nil

	case loadedMsg:
		m.loading = false
		m.clampCursor()
		return m, nil

	case addedMsg:
		if msg.err == nil {
			m.inputs[fieldTitle].Reset()
			m.inputs[fieldDate].Reset()
			m.inputs[fieldTime].Reset()
			m.deadline = ""
		}
		return m, nil

	case toggledMsg, deletedMsg:
		m.clampCursor()
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "tab":
		m.setFocus((m.focus + 1) % focusCount)
		return m, nil
	case "shift+tab":
		m.setFocus((m.focus + focusCount - 1) % focusCount)
		return m, nil
	}

	if m.focus == focusTable {
		return m.handleTableKey(msg)
	}

	switch msg.String() {
	case "enter":
		if m.deadlineErr != "" {
			return m, nil
		}
		return m, m.addCmd(m.inputs[fieldTitle].Value(), m.deadline)
	case "esc":
		m.setFocus(focusTable)
		return m, nil
	}

	field := m.focus
	before := m.inputs[field].Value()
	var cmd tea.Cmd
	m.inputs[field], cmd = m.inputs[field].Update(msg)
	if m.inputs[field].Value() != before {
		m.syncDeadline(field)
	}
	return m, cmd
}

func (m Model) handleTableKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	tasks := m.store.List()

	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(tasks)-1 {
			m.cursor++
		}
	case " ", "x":
		if m.cursor < len(tasks) {
			return m, m.toggleCmd(tasks[m.cursor].ID)
		}
	case "d":
		if m.cursor < len(tasks) {
			return m, m.deleteCmd(tasks[m.cursor].ID)
		}
	case "r":
		m.loading = true
		return m, m.loadCmd()
	}
	return m, nil
}

// syncDeadline recomposes the deadline after field changed. The other field
// keeps its value; it is only filled in when it was empty and the composer
// supplied a default. A partial value in either field leaves no deadline and
// blocks submission until it is completed or cleared.
func (m *Model) syncDeadline(field int) {
	date := strings.TrimSpace(m.inputs[fieldDate].Value())
	tm := strings.TrimSpace(m.inputs[fieldTime].Value())

	m.deadline = ""
	m.deadlineErr = ""
	switch {
	case date != "" && !task.ValidDatePart(date):
		m.deadlineErr = "Date must be YYYY-MM-DD"
		return
	case tm != "" && !task.ValidTimePart(tm):
		m.deadlineErr = "Time must be HH:mm"
		return
	}

	switch field {
	case fieldDate:
		if date == "" {
			return
		}
		m.deadline = m.composer.SetDatePart(task.Separator+tm, date)
		if tm == "" {
			m.inputs[fieldTime].SetValue(task.TimePart(m.deadline))
		}
	case fieldTime:
		if tm == "" {
			return
		}
		m.deadline = m.composer.SetTimePart(date+task.Separator, tm)
		if date == "" {
			m.inputs[fieldDate].SetValue(task.DatePart(m.deadline))
		}
	}
}

func (m *Model) setFocus(target int) {
	for i := range m.inputs {
		m.inputs[i].Blur()
	}
	if target < focusTable {
		m.inputs[target].Focus()
	}
	m.focus = target
}

func (m *Model) clampCursor() {
	n := m.store.Len()
	if m.cursor >= n {
		m.cursor = n - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m Model) loadCmd() tea.Cmd {
	ctx, st := m.ctx, m.store
	return func() tea.Msg {
		return loadedMsg{err: st.Load(ctx)}
	}
}

func (m Model) addCmd(title, deadline string) tea.Cmd {
	ctx, st := m.ctx, m.store
	return func() tea.Msg {
		_, err := st.Add(ctx, title, deadline)
		return addedMsg{err: err}
	}
}

func (m Model) toggleCmd(id int64) tea.Cmd {
	ctx, st := m.ctx, m.store
	return func() tea.Msg {
		return toggledMsg{err: st.Toggle(ctx, id)}
	}
}

func (m Model) deleteCmd(id int64) tea.Cmd {
	ctx, st := m.ctx, m.store
	return func() tea.Msg {
		return deletedMsg{err: st.Delete(ctx, id)}
	}
}

// View renders the screen
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("ToDo App"))
	b.WriteString("\n\n")

	labels := []string{"Task", "Date", "Time"}
	for i, label := range labels {
		fmt.Fprintf(&b, "%s %s\n", labelStyle.Render(fmt.Sprintf("%-9s", label+":")), m.inputs[i].View())
	}
	deadline := output.NoDeadline
	if m.deadline != "" {
		deadline = m.deadline
	}
	fmt.Fprintf(&b, "%s %s\n", labelStyle.Render(fmt.Sprintf("%-9s", "Deadline:")), deadline)

	if m.deadlineErr != "" {
		b.WriteString(errorStyle.Render(m.deadlineErr))
		b.WriteString("\n")
	}
	if msg := m.store.Error(); msg != "" {
		b.WriteString(errorStyle.Render(msg))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	tasks := m.store.List()
	now := m.now()
	switch {
	case m.loading && len(tasks) == 0:
		b.WriteString(labelStyle.Render("loading..."))
		b.WriteString("\n")
	case len(tasks) == 0:
		b.WriteString(labelStyle.Render(output.EmptyMessage))
		b.WriteString("\n")
	}
	for i, t := range tasks {
		overdue := task.IsOverdue(t, now)
		line := output.FormatTask(t, now.Location(), overdue)

		prefix := "  "
		if m.focus == focusTable && i == m.cursor {
			prefix = "> "
			line = selectedStyle.Render(line)
		} else if t.IsCompleted {
			line = doneStyle.Render(line)
		} else if overdue {
			line = overdueStyle.Render(line)
		}
		b.WriteString(prefix + line + "\n")
	}

	b.WriteString("\n")
	b.WriteString(output.Footer(len(tasks)))
	b.WriteString("\n")
	b.WriteString(labelStyle.Render(m.helpLine()))
	b.WriteString("\n")
	return b.String()
}

func (m Model) helpLine() string {
	if m.focus == focusTable {
		return "tab: form  j/k: move  space: toggle  d: delete  r: refresh  q: quit"
	}
	return "tab: next field  enter: add task  esc: table  ctrl+c: quit"
}
