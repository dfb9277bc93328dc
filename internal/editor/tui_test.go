package editor

import (
	"errors"
	"testing"

	"evaluation/internal/client"
	"evaluation/internal/model"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// send feeds msg to m and runs the resulting command chain, one message at a
// time, until it settles.
func send(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, cmd := m.Update(msg)
	m = next.(Model)
	for cmd != nil {
		out := cmd()
		if out == nil {
			break
		}
		if _, ok := out.(tea.QuitMsg); ok {
			break
		}
		next, cmd = m.Update(out)
		m = next.(Model)
	}
	return m
}

// typeText drops the cursor blink commands text input returns.
func typeText(m Model, s string) Model {
	for _, r := range s {
		next, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
		m = next.(Model)
	}
	return m
}

func TestModelInitLoads(t *testing.T) {
	b := &fakeBackend{records: sampleRecords()}
	m := NewModel(b, NewViewModel(client.ReviewerList, nil), 0)

	m = send(t, m, m.Init()())

	assert.Equal(t, sampleRecords(), m.ViewModel().Records)
	assert.Len(t, m.table.Rows(), len(sampleRecords()))
	assert.Contains(t, m.View(), "alice")
}

func TestModelOpenSelected(t *testing.T) {
	b := &fakeBackend{records: sampleRecords()}
	m := NewModel(b, NewViewModel(client.ReviewerList, nil), 0)
	m = send(t, m, m.Init()())

	m = send(t, m, key("enter"))
	require.NotNil(t, m.ViewModel().Route)
	assert.Equal(t, "zed", m.ViewModel().Route.Name)
	assert.Empty(t, b.puts)
	assert.Len(t, b.lists, 1, "opening a row sends no request")

	m = send(t, m, key("esc"))
	assert.Nil(t, m.ViewModel().Route)
}

func TestModelAddThroughForm(t *testing.T) {
	b := &fakeBackend{}
	m := NewModel(b, NewViewModel(client.ReviewerList, nil), 0)

	m = send(t, m, key("a"))
	m = typeText(m, "Alice")
	m = send(t, m, key("tab"))
	m = typeText(m, "8")
	m = send(t, m, key("tab"))
	m = typeText(m, "5")
	m = send(t, m, key("tab"))
	m = typeText(m, "no")
	m = send(t, m, key("enter"))

	require.Len(t, b.puts, 1)
	assert.Equal(t, model.Record{Name: "Alice", SkillScore: 8, ExperienceScore: 5, Hire: -1}, b.puts[0])
	vm := m.ViewModel()
	assert.Equal(t, StatusReady, vm.Status)
	require.Len(t, vm.Records, 1)
	assert.False(t, m.formOpen)
}

func TestModelAddHireNotLiteralNo(t *testing.T) {
	for _, hire := range []string{"no ", " no", "No"} {
		t.Run(hire, func(t *testing.T) {
			b := &fakeBackend{}
			m := NewModel(b, NewViewModel(client.ReviewerList, nil), 0)

			m = send(t, m, key("a"))
			m = typeText(m, "Alice")
			for i := 0; i < fieldHire; i++ {
				m = send(t, m, key("tab"))
			}
			m = typeText(m, hire)
			m = send(t, m, key("enter"))

			require.Len(t, b.puts, 1)
			assert.Equal(t, model.HireYes, b.puts[0].Hire)
		})
	}
}

func TestModelBadScoreShowsError(t *testing.T) {
	b := &fakeBackend{}
	m := NewModel(b, NewViewModel(client.ReviewerList, nil), 0)

	m = send(t, m, key("a"))
	m = typeText(m, "Alice")
	m = send(t, m, key("tab"))
	m = typeText(m, "x")
	m = send(t, m, key("enter"))

	assert.Empty(t, b.puts)
	assert.Equal(t, StatusFailed, m.ViewModel().Status)
	assert.ErrorContains(t, m.ViewModel().Err, "skill")
	assert.True(t, m.formOpen)
}

func TestModelAverageRow(t *testing.T) {
	b := &fakeBackend{
		records: sampleRecords(),
		avg:     model.AverageSummary{Name: model.AverageLabel, SkillScore: 4, ExperienceScore: 5.5, Hire: 1},
	}
	m := NewModel(b, NewViewModel(client.ReviewerList, nil), 0)
	m = send(t, m, m.Init()())

	m = send(t, m, key("v"))

	rows := m.table.Rows()
	require.Len(t, rows, len(sampleRecords())+1)
	assert.Equal(t, "Average", rows[len(rows)-1][0])
	assert.Equal(t, "5.5", rows[len(rows)-1][2])
}

func TestModelSortKeys(t *testing.T) {
	b := &fakeBackend{records: sampleRecords()}
	m := NewModel(b, NewViewModel(client.ReviewerList, nil), 0)

	m = send(t, m, key("s"))
	require.NotNil(t, m.ViewModel().Sort)
	assert.Equal(t, client.Sort{Column: 1, Asc: true}, *m.ViewModel().Sort)

	m = send(t, m, key("o"))
	assert.Equal(t, client.Sort{Column: 1, Asc: false}, *m.ViewModel().Sort)

	require.Len(t, b.sorts, 2)
	assert.Equal(t, client.Sort{Column: 1, Asc: false}, *b.sorts[1])
	assert.Contains(t, m.View(), "sorted by name desc")
}

func TestModelLoadError(t *testing.T) {
	b := &fakeBackend{listErr: errors.New("connection refused")}
	m := NewModel(b, NewViewModel(client.ReviewerList, nil), 0)
	m = send(t, m, m.Init()())

	assert.Equal(t, StatusFailed, m.ViewModel().Status)
	assert.Contains(t, m.View(), "connection refused")
}
