package editor

import (
	"context"
	"fmt"
	"strings"
	"time"

	"evaluation/internal/client"
	"evaluation/internal/model"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// sortColumns mirrors the server's sort_column indexes.
var sortColumns = []string{"id", "name", "skill_score", "experience_score", "hire"}

const (
	fieldReviewer = iota
	fieldSkill
	fieldExperience
	fieldHire
	fieldCount
)

type loadedMsg struct {
	records []model.Record
	err     error
}

type submittedMsg struct {
	err error
}

type averagedMsg struct {
	avg model.AverageSummary
	err error
}

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	boxStyle   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	focusStyle = boxStyle.BorderForeground(lipgloss.Color("12"))
)

// Model is the terminal front end of the editor. Every request result is
// folded into vm through the same reducers Editor uses.
type Model struct {
	backend Backend
	timeout time.Duration

	vm       ViewModel
	table    table.Model
	inputs   []textinput.Model
	focus    int
	formOpen bool
}

func NewModel(backend Backend, vm ViewModel, timeout time.Duration) Model {
	t := table.New(
		table.WithColumns([]table.Column{
			{Title: Columns[0], Width: 24},
			{Title: Columns[1], Width: 8},
			{Title: Columns[2], Width: 12},
			{Title: Columns[3], Width: 8},
		}),
		table.WithFocused(true),
		table.WithHeight(12),
	)

	placeholders := []string{"reviewer", "skill", "experience", "yes / no"}
	inputs := make([]textinput.Model, fieldCount)
	for i := range inputs {
		in := textinput.New()
		in.Placeholder = placeholders[i]
		in.Width = 20
		in.CharLimit = 50
		inputs[i] = in
	}

	m := Model{backend: backend, timeout: timeout, vm: vm, table: t, inputs: inputs}
	m.refresh()
	return m
}

// ViewModel exposes the current view state.
func (m Model) ViewModel() ViewModel {
	return m.vm
}

func (m Model) Init() tea.Cmd {
	return m.load()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loadedMsg:
		m.vm = Loaded(m.vm, msg.records, msg.err)
		m.refresh()
		return m, nil
	case submittedMsg:
		m.vm = Submitted(m.vm, msg.err)
		if msg.err != nil {
			return m, nil
		}
		m.resetForm()
		return m, m.load()
	case averagedMsg:
		m.vm = Averaged(m.vm, msg.avg, msg.err)
		m.refresh()
		return m, nil
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		if m.formOpen {
			return m.updateForm(msg)
		}
		return m.updateTable(msg)
	}
	return m, nil
}

func (m Model) updateTable(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "enter":
		if i := m.table.Cursor(); i >= 0 && i < len(m.vm.Records) {
			m.vm = Open(m.vm, m.vm.Records[i])
		}
		return m, nil
	case "esc":
		m.vm = Close(m.vm)
		return m, nil
	case "a":
		m.formOpen = true
		m.setFocus(fieldReviewer)
		return m, textinput.Blink
	case "v":
		return m, m.average()
	case "r":
		return m, m.load()
	case "s":
		next := client.Sort{Column: 1, Asc: true}
		if m.vm.Sort != nil {
			next = client.Sort{Column: (m.vm.Sort.Column + 1) % len(sortColumns), Asc: m.vm.Sort.Asc}
		}
		m.vm = WithSort(m.vm, &next)
		return m, m.load()
	case "o":
		next := client.Sort{Column: 0, Asc: false}
		if m.vm.Sort != nil {
			next = client.Sort{Column: m.vm.Sort.Column, Asc: !m.vm.Sort.Asc}
		}
		m.vm = WithSort(m.vm, &next)
		return m, m.load()
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m Model) updateForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.formOpen = false
		m.blurAll()
		return m, nil
	case "tab", "down":
		m.setFocus((m.focus + 1) % fieldCount)
		return m, nil
	case "shift+tab", "up":
		m.setFocus((m.focus + fieldCount - 1) % fieldCount)
		return m, nil
	case "enter":
		form, err := ParseForm(
			m.inputs[fieldReviewer].Value(),
			m.inputs[fieldSkill].Value(),
			m.inputs[fieldExperience].Value(),
			m.inputs[fieldHire].Value(),
		)
		if err != nil {
			m.vm = failed(m.vm, err)
			return m, nil
		}
		m.vm.Form = form
		m.vm = Loading(m.vm)
		return m, m.submit(form)
	}

	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	return m, cmd
}

func (m *Model) setFocus(i int) {
	m.blurAll()
	m.focus = i
	m.inputs[i].Focus()
}

func (m *Model) blurAll() {
	for i := range m.inputs {
		m.inputs[i].Blur()
	}
}

func (m *Model) resetForm() {
	for i := range m.inputs {
		m.inputs[i].SetValue("")
	}
	m.formOpen = false
	m.blurAll()
}

// refresh rebuilds the table from Rows, the one rendering path.
func (m *Model) refresh() {
	rows := Rows(m.vm)
	tr := make([]table.Row, len(rows))
	for i, r := range rows {
		tr[i] = table.Row(r)
	}
	m.table.SetRows(tr)
}

func (m Model) requestContext() (context.Context, context.CancelFunc) {
	if m.timeout > 0 {
		return context.WithTimeout(context.Background(), m.timeout)
	}
	return context.WithCancel(context.Background())
}

func (m Model) load() tea.Cmd {
	res, sort := m.vm.Resource, m.vm.Sort
	return func() tea.Msg {
		ctx, cancel := m.requestContext()
		defer cancel()
		records, err := m.backend.List(ctx, res, sort)
		return loadedMsg{records: records, err: err}
	}
}

func (m Model) submit(form Form) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := m.requestContext()
		defer cancel()
		return submittedMsg{err: m.backend.Put(ctx, form.Record())}
	}
}

func (m Model) average() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := m.requestContext()
		defer cancel()
		avg, err := m.backend.Average(ctx)
		return averagedMsg{avg: avg, err: err}
	}
}

func (m Model) View() string {
	var sb strings.Builder

	sb.WriteString(titleStyle.Render("Evaluation: " + m.vm.Resource.Path))
	sb.WriteString("  ")
	sb.WriteString(dimStyle.Render(m.sortLabel()))
	sb.WriteString("\n\n")

	box := boxStyle
	if !m.formOpen {
		box = focusStyle
	}
	sb.WriteString(box.Render(m.table.View()))
	sb.WriteString("\n")

	if rec, ok := m.vm.Selected(); ok {
		sb.WriteString(boxStyle.Render(fmt.Sprintf(
			"%s\nskill: %d  experience: %d  hire: %s",
			titleStyle.Render(rec.Name), rec.SkillScore, rec.ExperienceScore, hireLabel(rec.Hire),
		)))
		sb.WriteString("\n")
	}

	if m.formOpen {
		labels := []string{"Reviewer", "Skill", "Experience", "Hire"}
		var form strings.Builder
		for i, in := range m.inputs {
			fmt.Fprintf(&form, "%-11s %s\n", labels[i], in.View())
		}
		sb.WriteString(focusStyle.Render(strings.TrimRight(form.String(), "\n")))
		sb.WriteString("\n")
	}

	if line := StatusLine(m.vm); line != "" {
		sb.WriteString(line)
		sb.WriteString("\n")
	}

	if m.formOpen {
		sb.WriteString(dimStyle.Render("[tab] next field  [enter] add  [esc] cancel"))
	} else {
		sb.WriteString(dimStyle.Render("[enter] open  [a] add  [v] average  [r] reload  [s] sort  [o] order  [q] quit"))
	}
	return sb.String()
}

func (m Model) sortLabel() string {
	if m.vm.Sort == nil {
		return "default order"
	}
	dir := "asc"
	if !m.vm.Sort.Asc {
		dir = "desc"
	}
	col := fmt.Sprintf("column %d", m.vm.Sort.Column)
	if m.vm.Sort.Column >= 0 && m.vm.Sort.Column < len(sortColumns) {
		col = sortColumns[m.vm.Sort.Column]
	}
	return "sorted by " + col + " " + dir
}
