package view

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/filepicker"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/jpcarvalho/recibo/internal/backend"
	"github.com/jpcarvalho/recibo/internal/config"
	"github.com/jpcarvalho/recibo/internal/connectivity"
	"github.com/jpcarvalho/recibo/internal/lineitems"
	"github.com/jpcarvalho/recibo/internal/receipt"
	"github.com/jpcarvalho/recibo/internal/submission"
)

type intakeState int

const (
	intakeStateStatus intakeState = iota
	intakeStateFilePick
	intakeStateProcessing
	intakeStateDetails
	intakeStateRows
	intakeStateSubmitting
	intakeStateBlocked
	intakeStateResult
)

// IntakeModel walks one receipt from file selection through recognition,
// per-row categorization and the submission gate.
type IntakeModel struct {
	CommonModel
	cfg     *config.Config
	monitor *connectivity.Monitor
	orch    *receipt.Orchestrator
	table   *lineitems.Table
	gate    *submission.Gate

	state      intakeState
	conn       connectivity.Status
	filePicker filepicker.Model
	spinner    spinner.Model
	form       *huh.Form
	progress   progress.Model
	prog       *submission.Progress
	cursor     int
	status     string
	err        error

	vendor      string
	date        string
	total       string
	description string
	serial      string
	quantity    string
}

func NewIntakeModel(
	cfg *config.Config,
	monitor *connectivity.Monitor,
	orch *receipt.Orchestrator,
	table *lineitems.Table,
	gate *submission.Gate,
) IntakeModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	fp := filepicker.New()
	fp.CurrentDirectory, _ = os.Getwd()
	fp.AllowedTypes = []string{".jpg", ".jpeg", ".png", ".webp", ".pdf"}
	fp.ShowHidden = false
	fp.DirAllowed = false
	fp.FileAllowed = true
	fp.SetHeight(15)

	return IntakeModel{
		cfg:        cfg,
		monitor:    monitor,
		orch:       orch,
		table:      table,
		gate:       gate,
		filePicker: fp,
		spinner:    s,
		progress:   progress.New(progress.WithDefaultGradient()),
		prog:       &submission.Progress{},
	}
}

func (m IntakeModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.checkStatusCmd())
}

func (m IntakeModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}

	case spinner.TickMsg:
		if m.state == intakeStateStatus || m.state == intakeStateProcessing {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)

			return m, cmd
		}

	case statusCheckedMsg:
		return m.handleStatusChecked(msg)

	case recognizedMsg:
		return m.handleRecognized(msg)

	case rowCatalogMsg, suggestDoneMsg:
		// Row state already advanced inside the table; just re-render.
		return m, nil

	case progressTickMsg:
		if m.state != intakeStateSubmitting {
			return m, nil
		}

		m.prog.Advance()

		return m, progressTick()

	case submitDoneMsg:
		return m.handleSubmitDone(msg)
	}

	switch m.state {
	case intakeStateFilePick:
		return m.updateFilePick(msg)
	case intakeStateDetails:
		return m.updateDetails(msg)
	case intakeStateRows:
		return m.updateRows(msg)
	case intakeStateBlocked, intakeStateResult:
		return m.updateTerminal(msg)
	}

	return m, nil
}

func (m IntakeModel) handleStatusChecked(msg statusCheckedMsg) (tea.Model, tea.Cmd) {
	m.conn = msg.status
	m.state = intakeStateFilePick

	switch {
	case msg.status.Connected:
		m.status = fmt.Sprintf("%s API is connected.", msg.model)
	case msg.status.AuthFailed:
		m.status = fmt.Sprintf(
			"%s API key is missing or invalid. OCR is disabled; enter receipt details manually.",
			msg.model,
		)
	default:
		m.status = fmt.Sprintf(
			"%s API is unreachable. OCR is disabled; enter receipt details manually.",
			msg.model,
		)
	}

	return m, m.filePicker.Init()
}

func (m IntakeModel) updateFilePick(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "q", "esc":
			return m, tea.Quit
		case "tab":
			// Switch recognition backend and re-check it.
			next := backend.ModelOpenAI
			if m.orch.Model() == backend.ModelOpenAI {
				next = backend.ModelClaude
			}

			m.orch.SetModel(next)
			m.state = intakeStateStatus

			return m, tea.Batch(m.spinner.Tick, m.checkStatusCmd())
		}
	}

	var cmd tea.Cmd
	m.filePicker, cmd = m.filePicker.Update(msg)

	if didSelect, path := m.filePicker.DidSelectFile(msg); didSelect {
		m.orch.AttachFile(path)

		if !m.conn.Connected {
			// Degraded mode: no recognition, straight to manual entry.
			m.syncFormFromDraft()
			m.form = m.buildDetailsForm()
			m.state = intakeStateDetails

			return m, m.form.Init()
		}

		m.state = intakeStateProcessing
		m.status = "Analyzing receipt (this may take 10-30 seconds)..."

		return m, tea.Batch(m.spinner.Tick, m.processCmd())
	}

	return m, cmd
}

func (m IntakeModel) handleRecognized(msg recognizedMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		if errors.Is(msg.err, backend.ErrAuthentication) {
			m.status = "API authentication failed. Check your API keys or continue with manual entry."
			m.conn.Connected = false
			m.conn.AuthFailed = true
		} else {
			m.status = "Could not analyze receipt. Enter details manually."
		}

		m.syncFormFromDraft()
		m.form = m.buildDetailsForm()
		m.state = intakeStateDetails

		return m, m.form.Init()
	}

	draft := m.orch.Draft()
	m.table.Load(draft.LineItems)
	m.syncFormFromDraft()

	m.form = m.buildDetailsForm()
	m.state = intakeStateDetails
	m.status = fmt.Sprintf("Receipt analyzed: %d line items recognized.", m.table.Len())

	cmds := []tea.Cmd{m.form.Init()}
	for i := 0; i < m.table.Len(); i++ {
		cmds = append(cmds, m.loadRowCmd(i))
		cmds = append(cmds, m.autoSuggestCmd(i, m.table.Delay(i)))
	}

	return m, tea.Batch(cmds...)
}

func (m IntakeModel) updateDetails(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		if keyMsg.Type == tea.KeyEsc {
			m.state = intakeStateFilePick
			return m, m.filePicker.Init()
		}
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	m.applyFormToDraft()
	m.state = intakeStateRows

	return m, nil
}

func (m IntakeModel) handleSubmitDone(msg submitDoneMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		if errors.Is(msg.err, submission.ErrBlocked) {
			m.state = intakeStateBlocked
			return m, nil
		}

		m.err = msg.err
		m.state = intakeStateResult

		return m, nil
	}

	m.prog.Finish()
	m.err = nil
	m.state = intakeStateResult

	return m, nil
}

func (m IntakeModel) updateTerminal(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch keyMsg.String() {
	case "q":
		return m, tea.Quit
	case "esc":
		if m.state == intakeStateBlocked || m.err != nil {
			// Back to editing with the violation list in hand.
			m.gate.Reset()
			m.syncFormFromDraft()
			m.form = m.buildDetailsForm()
			m.state = intakeStateDetails

			return m, m.form.Init()
		}

		return m, tea.Quit
	}

	return m, nil
}

func (m *IntakeModel) syncFormFromDraft() {
	draft := m.orch.Draft()

	m.vendor = draft.VendorName
	m.date = draft.Date
	m.description = draft.Description
	m.serial = draft.SerialNumber
	m.quantity = strconv.Itoa(draft.Quantity)

	if draft.TotalAmount > 0 {
		m.total = strings.TrimPrefix(FormatPrice(draft.TotalAmount), "$")
	}
}

func (m *IntakeModel) applyFormToDraft() {
	draft := m.orch.Draft()

	draft.VendorName = strings.TrimSpace(m.form.GetString("vendor"))
	draft.Date = strings.TrimSpace(m.form.GetString("date"))
	draft.Description = strings.TrimSpace(m.form.GetString("description"))
	draft.SerialNumber = strings.TrimSpace(m.form.GetString("serial"))

	if cents, err := ParseMoney(m.form.GetString("total")); err == nil {
		draft.TotalAmount = cents
	}

	if qty, err := strconv.Atoi(strings.TrimSpace(m.form.GetString("quantity"))); err == nil && qty >= 1 {
		draft.Quantity = qty
	} else {
		draft.Quantity = 1
	}
}

func (m IntakeModel) buildDetailsForm() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("vendor").
				Title("Vendor Name").
				Value(&m.vendor),
			huh.NewInput().
				Key("date").
				Title("Date").
				Description("YYYY-MM-DD").
				Value(&m.date),
			huh.NewInput().
				Key("total").
				Title("Total Amount").
				Placeholder("0.00").
				Value(&m.total),
			huh.NewInput().
				Key("description").
				Title("Description").
				Value(&m.description),
			huh.NewInput().
				Key("serial").
				Title("Serial Number").
				Description("Only for single serialized assets").
				Value(&m.serial),
			huh.NewInput().
				Key("quantity").
				Title("Quantity").
				Value(&m.quantity),
		),
	).WithWidth(60).WithShowHelp(false)
}

// Messages

type statusCheckedMsg struct {
	model  string
	status connectivity.Status
}

type recognizedMsg struct {
	applied bool
	err     error
}

type rowCatalogMsg struct {
	index int
	err   error
}

type suggestDoneMsg struct {
	index   int
	started bool
	err     error
}

type submitDoneMsg struct {
	err error
}

type progressTickMsg time.Time

// Commands

func (m IntakeModel) checkStatusCmd() tea.Cmd {
	model := m.orch.Model()

	return func() tea.Msg {
		ctx, cancel := ReqCtx(checkTimeout)
		defer cancel()

		return statusCheckedMsg{model: model, status: m.monitor.Check(ctx, model)}
	}
}

func (m IntakeModel) processCmd() tea.Cmd {
	autoLink := m.cfg.AutoLink

	return func() tea.Msg {
		ctx, cancel := ReqCtx(recognizeTimeout)
		defer cancel()

		applied, err := m.orch.ProcessAttached(ctx, autoLink)

		return recognizedMsg{applied: applied, err: err}
	}
}

func (m IntakeModel) loadRowCmd(index int) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := ReqCtx(catalogTimeout)
		defer cancel()

		err := m.table.LoadCatalog(ctx, index)

		return rowCatalogMsg{index: index, err: err}
	}
}

func (m IntakeModel) autoSuggestCmd(index int, delay time.Duration) tea.Cmd {
	vendor := m.orch.Draft().VendorName

	return func() tea.Msg {
		time.Sleep(delay)

		ctx, cancel := ReqCtx(catalogTimeout)
		defer cancel()

		started, err := m.table.Suggest(ctx, index, vendor)

		return suggestDoneMsg{index: index, started: started, err: err}
	}
}

func (m IntakeModel) suggestNowCmd(index int) tea.Cmd {
	return m.autoSuggestCmd(index, 0)
}

func (m IntakeModel) submitCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := ReqCtx(submitTimeout)
		defer cancel()

		return submitDoneMsg{err: m.gate.Submit(ctx, m.orch.Draft())}
	}
}

func progressTick() tea.Cmd {
	return tea.Tick(500*time.Millisecond, func(t time.Time) tea.Msg {
		return progressTickMsg(t)
	})
}
