package editor

import (
	"strconv"
	"strings"

	"evaluation/internal/model"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

// Columns heads every rendering of a collection.
var Columns = []string{"Reviewer Name", "Skill", "Experience", "Hire"}

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

// Rows renders the collection, followed by the average when one was fetched.
func Rows(vm ViewModel) [][]string {
	rows := make([][]string, 0, len(vm.Records)+1)
	for _, rec := range vm.Records {
		rows = append(rows, []string{
			rec.Name,
			strconv.Itoa(rec.SkillScore),
			strconv.Itoa(rec.ExperienceScore),
			hireLabel(rec.Hire),
		})
	}
	if vm.Average != nil {
		rows = append(rows, []string{
			vm.Average.Name,
			formatFloat(vm.Average.SkillScore),
			formatFloat(vm.Average.ExperienceScore),
			formatFloat(vm.Average.Hire),
		})
	}
	return rows
}

func hireLabel(v int) string {
	switch v {
	case model.HireYes:
		return "yes"
	case model.HireNo:
		return "no"
	}
	return "-"
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// Render draws the view as a bordered table with a status line underneath.
func Render(vm ViewModel) string {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(dimStyle).
		Headers(Columns...).
		Rows(Rows(vm)...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})

	var b strings.Builder
	b.WriteString(t.String())
	b.WriteString("\n")
	if line := StatusLine(vm); line != "" {
		b.WriteString(line)
		b.WriteString("\n")
	}
	return b.String()
}

// StatusLine is empty unless the view is loading or failed.
func StatusLine(vm ViewModel) string {
	switch vm.Status {
	case StatusFailed:
		if vm.Err != nil {
			return errorStyle.Render("error: " + vm.Err.Error())
		}
		return errorStyle.Render("error")
	case StatusLoading:
		return dimStyle.Render("loading...")
	}
	return ""
}
