package view

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jpcarvalho/recibo/internal/category"
	"github.com/jpcarvalho/recibo/internal/lineitems"
	"github.com/jpcarvalho/recibo/internal/submission"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("205")).
			MarginBottom(1)

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	warnStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("208"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))

	okStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42"))

	selectedRowStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("229")).
				Background(lipgloss.Color("57"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			MarginTop(1)
)

func (m IntakeModel) updateRows(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch keyMsg.String() {
	case "q":
		return m, tea.Quit

	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}

	case "down", "j":
		if m.cursor < m.table.Len()-1 {
			m.cursor++
		}

	case "t":
		if row, ok := m.table.Row(m.cursor); ok {
			m.table.SetObjectType(m.cursor, nextType(row.Item.ObjectType))
			return m, m.loadRowCmd(m.cursor)
		}

	case "c":
		if row, ok := m.table.Row(m.cursor); ok {
			m.table.SetCategory(m.cursor, nextCategory(row))
		}

	case " ":
		m.table.ToggleCreate(m.cursor)

	case "s":
		if m.conn.Connected {
			return m, m.suggestNowCmd(m.cursor)
		}

		m.status = "Suggestions are unavailable while the API is offline."

	case "e", "esc":
		m.orch.Draft().LineItems = m.table.Items()
		m.syncFormFromDraft()
		m.form = m.buildDetailsForm()
		m.state = intakeStateDetails

		return m, m.form.Init()

	case "enter":
		m.orch.Draft().LineItems = m.table.Items()
		m.prog = &submission.Progress{}
		m.state = intakeStateSubmitting

		return m, tea.Batch(m.submitCmd(), progressTick())
	}

	return m, nil
}

// nextType cycles through the object types in their canonical order.
func nextType(current category.ObjectType) category.ObjectType {
	types := category.Types()
	for i, t := range types {
		if t == current {
			return types[(i+1)%len(types)]
		}
	}

	return types[0]
}

// nextCategory cycles through a row's loaded catalog, starting after the
// currently selected category.
func nextCategory(row lineitems.Row) string {
	if len(row.Categories) == 0 {
		return row.Item.Category
	}

	for i, c := range row.Categories {
		if strings.EqualFold(c.Name, row.Item.Category) {
			return row.Categories[(i+1)%len(row.Categories)].Name
		}
	}

	return row.Categories[0].Name
}

func (m IntakeModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Receipt Intake"))
	b.WriteString("\n")

	switch m.state {
	case intakeStateStatus:
		b.WriteString(fmt.Sprintf("%s Checking %s API connection...\n", m.spinner.View(), m.orch.Model()))

	case intakeStateFilePick:
		b.WriteString(m.viewFilePick())

	case intakeStateProcessing:
		b.WriteString(fmt.Sprintf("%s %s\n", m.spinner.View(), m.status))

	case intakeStateDetails:
		if m.status != "" {
			b.WriteString(statusStyle.Render(m.status))
			b.WriteString("\n\n")
		}

		b.WriteString(m.form.View())
		b.WriteString(helpStyle.Render("enter: next field • esc: back to file selection"))

	case intakeStateRows:
		b.WriteString(m.viewRows())

	case intakeStateSubmitting:
		b.WriteString(m.viewSubmitting())

	case intakeStateBlocked:
		b.WriteString(m.viewBlocked())

	case intakeStateResult:
		b.WriteString(m.viewResult())
	}

	return b.String()
}

func (m IntakeModel) viewFilePick() string {
	var b strings.Builder

	if m.conn.Connected {
		b.WriteString(okStyle.Render(m.status))
	} else {
		b.WriteString(warnStyle.Render(m.status))
	}

	b.WriteString("\n\nSelect a receipt image or PDF:\n\n")
	b.WriteString(m.filePicker.View())
	b.WriteString(helpStyle.Render("tab: switch AI model • q: quit"))

	return b.String()
}

func (m IntakeModel) viewRows() string {
	var b strings.Builder

	if m.table.Len() == 0 {
		b.WriteString("No line items recognized.\n")
		b.WriteString(helpStyle.Render("e: edit details • enter: submit • q: quit"))

		return b.String()
	}

	b.WriteString(fmt.Sprintf("Line items (%d):\n\n", m.table.Len()))

	for i := 0; i < m.table.Len(); i++ {
		row, ok := m.table.Row(i)
		if !ok {
			continue
		}

		b.WriteString(m.renderRow(i, row))
		b.WriteString("\n")
	}

	b.WriteString(helpStyle.Render(
		"↑/↓: select • t: object type • c: category • s: suggest • space: toggle create • e: edit details • enter: submit",
	))

	return b.String()
}

func (m IntakeModel) renderRow(index int, row lineitems.Row) string {
	item := row.Item

	categoryCell := item.Category
	switch {
	case row.Suggesting:
		categoryCell = "suggesting..."
	case row.Loading:
		categoryCell = "loading..."
	case row.Err != nil:
		categoryCell = errorStyle.Render("error")
	case categoryCell == "":
		categoryCell = "-"
	}

	create := " "
	if item.CreateObject {
		create = "x"
	}

	line := fmt.Sprintf("[%s] %-30s %3d × %8s %10s  %-10s %s",
		create,
		Truncate(item.Description, 30),
		item.Quantity,
		FormatPrice(item.UnitPrice),
		FormatPrice(item.TotalPrice),
		TypeLabel(item.ObjectType),
		categoryCell,
	)

	if row.Created > 0 {
		line += okStyle.Render(fmt.Sprintf("  (+%d new)", row.Created))
	}

	if index == m.cursor {
		return selectedRowStyle.Render("> " + line)
	}

	return "  " + line
}

func (m IntakeModel) viewSubmitting() string {
	var b strings.Builder

	b.WriteString("Submitting receipt...\n\n")
	b.WriteString(m.progress.ViewAs(m.prog.Value() / 100))
	b.WriteString("\n\n")
	b.WriteString(statusStyle.Render(m.prog.Step(strings.HasSuffix(
		strings.ToLower(m.orch.Draft().SourceFile), ".pdf",
	))))
	b.WriteString("\n")

	return b.String()
}

func (m IntakeModel) viewBlocked() string {
	var b strings.Builder

	b.WriteString(errorStyle.Render("Submission blocked:"))
	b.WriteString("\n\n")

	for _, v := range m.gate.Violations() {
		b.WriteString(fmt.Sprintf("  • %s\n", v.Message))
	}

	b.WriteString(helpStyle.Render("esc: fix details • q: quit"))

	return b.String()
}

func (m IntakeModel) viewResult() string {
	var b strings.Builder

	if m.err != nil {
		b.WriteString(errorStyle.Render("Submission failed: " + m.err.Error()))
		b.WriteString("\n")
		b.WriteString(helpStyle.Render("esc: back to details • q: quit"))

		return b.String()
	}

	b.WriteString(m.progress.ViewAs(1.0))
	b.WriteString("\n\n")
	b.WriteString(okStyle.Render("Receipt submitted."))
	b.WriteString("\n")
	b.WriteString(helpStyle.Render("q: quit"))

	return b.String()
}
