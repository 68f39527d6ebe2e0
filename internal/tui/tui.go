// Package tui is the terminal front end: a task list with a form for
// adding and editing tasks.
package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/arthur-debert/nanotasks/internal/validation"
	"github.com/arthur-debert/nanotasks/nanotasks"
	"github.com/arthur-debert/nanotasks/nanotasks/form"
	"github.com/arthur-debert/nanotasks/types"
)

type mode int

const (
	modeList mode = iota
	modeForm
)

// form inputs, in tab order.
const (
	inputTitle = iota
	inputDescription
	inputDate
	inputPriority
	inputCount
)

var inputLabels = [inputCount]string{"Title", "Description", "Date", "Priority"}

const listHelp = "a add • e edit • space complete/reopen • d delete • q quit"

var (
	headingStyle   = lipgloss.NewStyle().Bold(true).MarginTop(1)
	cursorStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	completedStyle = lipgloss.NewStyle().Strikethrough(true).Faint(true)
	highStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	statusStyle    = lipgloss.NewStyle().Faint(true).MarginTop(1)
	errorStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).MarginTop(1)
)

// Model is the bubbletea model.
type Model struct {
	app *nanotasks.App
	now func() time.Time

	pending   []types.Task
	completed []types.Task
	cursor    int

	mode    mode
	inputs  []textinput.Model
	focus   int
	status  string
	isError bool
}

// Run starts the terminal UI and blocks until the user quits.
func Run(app *nanotasks.App) error {
	_, err := tea.NewProgram(New(app, time.Now), tea.WithAltScreen()).Run()
	return err
}

// New creates a model over app. now supplies the default date for new tasks.
func New(app *nanotasks.App, now func() time.Time) Model {
	inputs := make([]textinput.Model, inputCount)
	for i := range inputs {
		ti := textinput.New()
		ti.Prompt = fmt.Sprintf("%-12s ", inputLabels[i]+":")
		ti.CharLimit = 1024
		ti.Width = 50
		inputs[i] = ti
	}
	inputs[inputDate].Placeholder = types.DateLayout
	inputs[inputDate].CharLimit = len(types.DateLayout)
	inputs[inputPriority].Placeholder = "low, medium or high"

	m := Model{
		app:    app,
		now:    now,
		inputs: inputs,
		status: listHelp,
	}
	m.refresh()
	return m
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.mode == modeForm {
			return m.updateFormMode(msg)
		}
		return m.updateListMode(msg.String())
	case tea.WindowSizeMsg:
		for i := range m.inputs {
			m.inputs[i].Width = max(msg.Width-16, 10)
		}
	}
	return m, nil
}

func (m Model) updateListMode(key string) (tea.Model, tea.Cmd) {
	switch key {
	case "ctrl+c", "q":
		return m, tea.Quit
	case "down", "j":
		m.cursor = clampCursor(m.cursor+1, m.rowCount())
	case "up", "k":
		m.cursor = clampCursor(m.cursor-1, m.rowCount())
	case "a":
		m.app.Form.Cancel()
		m.app.Form.SetDate(m.now().Format(types.DateLayout))
		return m.openForm("New task")
	case "e":
		task, ok := m.selected()
		if !ok {
			return m, nil
		}
		if task.Completed {
			m.setStatus(fmt.Sprintf("Reopen %q before editing it", task.Title), true)
			return m, nil
		}
		m.app.BeginEdit(task.ID)
		return m.openForm(fmt.Sprintf("Editing %q", task.Title))
	case " ", "space":
		task, ok := m.selected()
		if !ok {
			return m, nil
		}
		if toggled, ok := m.app.Store.ToggleCompleted(task.ID); ok {
			m.setStatus(fmt.Sprintf("%q is %s", toggled.Title, toggled.Status()), false)
		}
		m.refresh()
		m.followTask(task.ID)
	case "d":
		task, ok := m.selected()
		if !ok {
			return m, nil
		}
		m.app.Store.Remove(task.ID)
		m.setStatus(fmt.Sprintf("Deleted %q", task.Title), false)
		m.refresh()
	}
	m.checkSaved()
	return m, nil
}

func (m Model) updateFormMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "esc":
		m.app.Form.Cancel()
		m.mode = modeList
		m.setStatus("Cancelled", false)
		return m, nil
	case "tab", "down":
		return m.focusInput(m.focus + 1)
	case "shift+tab", "up":
		return m.focusInput(m.focus - 1)
	case "enter":
		return m.submit()
	default:
		var cmd tea.Cmd
		m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
		return m, cmd
	}
}

// openForm copies the staged form fields into the inputs.
func (m Model) openForm(status string) (tea.Model, tea.Cmd) {
	f := m.app.Form.Fields()
	m.inputs[inputTitle].SetValue(f.Title)
	m.inputs[inputDescription].SetValue(f.Description)
	m.inputs[inputDate].SetValue(f.Date)
	m.inputs[inputPriority].SetValue(f.Priority.String())
	for i := range m.inputs {
		m.inputs[i].CursorEnd()
	}

	m.mode = modeForm
	m.setStatus(status+" • tab next field • enter "+strings.ToLower(m.app.Form.SubmitLabel())+" • esc cancel", false)
	return m.focusInput(inputTitle)
}

func (m Model) focusInput(i int) (tea.Model, tea.Cmd) {
	m.focus = wrapIndex(i, inputCount)
	var cmd tea.Cmd
	for j := range m.inputs {
		if j == m.focus {
			cmd = m.inputs[j].Focus()
		} else {
			m.inputs[j].Blur()
		}
	}
	return m, cmd
}

func (m Model) submit() (tea.Model, tea.Cmd) {
	priority, err := types.ParsePriority(m.inputs[inputPriority].Value())
	if err != nil {
		m.setStatus(err.Error(), true)
		return m, nil
	}

	label := m.app.Form.SubmitLabel()
	m.app.Form.Stage(form.Fields{
		Title:       m.inputs[inputTitle].Value(),
		Description: m.inputs[inputDescription].Value(),
		Date:        m.inputs[inputDate].Value(),
		Priority:    priority,
	})
	task, err := m.app.Form.Submit()
	if err != nil {
		m.setStatus(strings.Join(fieldMessages(err), "; "), true)
		return m, nil
	}

	m.mode = modeList
	for i := range m.inputs {
		m.inputs[i].Blur()
	}
	m.refresh()
	m.followTask(task.ID)
	if label == "Add task" {
		m.setStatus(fmt.Sprintf("Added %q", task.Title), false)
	} else {
		m.setStatus(fmt.Sprintf("Updated %q", task.Title), false)
	}
	m.checkSaved()
	return m, nil
}

func (m Model) View() string {
	var b strings.Builder

	if m.mode == modeForm {
		b.WriteString(headingStyle.Render(m.app.Form.SubmitLabel()))
		b.WriteString("\n")
		for i := range m.inputs {
			b.WriteString(m.inputs[i].View())
			b.WriteString("\n")
		}
	} else {
		b.WriteString(headingStyle.Render(fmt.Sprintf("Pending (%d)", len(m.pending))))
		b.WriteString("\n")
		m.renderTasks(&b, m.pending, 0, false)
		b.WriteString(headingStyle.Render(fmt.Sprintf("Completed (%d)", len(m.completed))))
		b.WriteString("\n")
		m.renderTasks(&b, m.completed, len(m.pending), true)
	}

	if m.isError {
		b.WriteString(errorStyle.Render(m.status))
	} else {
		b.WriteString(statusStyle.Render(m.status))
	}
	b.WriteString("\n")
	return b.String()
}

func (m Model) renderTasks(b *strings.Builder, tasks []types.Task, offset int, completed bool) {
	if len(tasks) == 0 {
		b.WriteString("  (none)\n")
		return
	}
	for i, t := range tasks {
		prefix := "  "
		if offset+i == m.cursor {
			prefix = cursorStyle.Render("> ")
		}
		line := fmt.Sprintf("%-6s %s  %s", t.Priority.Label(), t.Date, t.Title)
		switch {
		case completed:
			line = completedStyle.Render(line)
		case t.Priority == types.PriorityHigh:
			line = highStyle.Render(line)
		}
		b.WriteString(prefix + line + "\n")
	}
}

// refresh reloads both lists from the store.
func (m *Model) refresh() {
	lists := m.app.View.Partition()
	m.pending, m.completed = lists.Pending, lists.Completed
	m.cursor = clampCursor(m.cursor, m.rowCount())
}

// followTask moves the cursor to the row holding id.
func (m *Model) followTask(id types.ID) {
	for i, t := range append(append([]types.Task(nil), m.pending...), m.completed...) {
		if t.ID == id {
			m.cursor = i
			return
		}
	}
}

func (m *Model) setStatus(status string, isError bool) {
	m.status, m.isError = status, isError
}

// checkSaved reports a failed automatic save in the status line.
func (m *Model) checkSaved() {
	if err := m.app.Store.LastSaveError(); err != nil {
		m.setStatus("Changes could not be saved: "+err.Error(), true)
	}
}

func (m Model) rowCount() int {
	return len(m.pending) + len(m.completed)
}

func (m Model) selected() (types.Task, bool) {
	switch {
	case m.cursor < len(m.pending):
		return m.pending[m.cursor], true
	case m.cursor < m.rowCount():
		return m.completed[m.cursor-len(m.pending)], true
	default:
		return types.Task{}, false
	}
}

func fieldMessages(err error) []string {
	fields := validation.Fields(err)
	var msgs []string
	for _, name := range []string{"title", "date", "priority", "_"} {
		if msg, ok := fields[name]; ok {
			msgs = append(msgs, msg)
		}
	}
	return msgs
}

func wrapIndex(idx, n int) int {
	if n <= 0 {
		return 0
	}
	idx %= n
	if idx < 0 {
		idx += n
	}
	return idx
}

func clampCursor(cur, n int) int {
	if n <= 0 || cur < 0 {
		return 0
	}
	if cur >= n {
		return n - 1
	}
	return cur
}
