package ui

import (
	"context"
	"fmt"
	"strings"

	"gymctl/internal/membership"
	"gymctl/internal/models"
	"gymctl/internal/ui/components"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"
)

// LoadFailedMessage is shown when the member list cannot be fetched
const LoadFailedMessage = "Failed to load members. Please try again."

// Controller is what the members view needs from the membership controller
type Controller interface {
	Refresh(ctx context.Context) error
	Filter(search string, status models.Status) []models.Member
	Actions(member models.Member) []models.Action
	Apply(ctx context.Context, memberID string, cmd membership.Command) (membership.Result, error)
}

type mode int

const (
	modeList mode = iota
	modeSearch
	modeMenu
	modeDate
	modeFreeze
	modeConfirmDelete
)

// Model represents the UI model
type Model struct {
	ctx        context.Context
	controller Controller
	logger     *zap.Logger
	title      string

	Members components.MemberListModel
	Spinner spinner.Model
	Search  textinput.Model
	Input   textinput.Model

	mode         mode
	statusFilter int // index into models.AllStatuses, -1 for all

	target  *models.Member
	menu    []models.Action
	cursor  int
	pending models.Action

	IsLoading     bool
	StatusMessage string
	ErrorMessage  string
	Width         int
	Height        int
	Ready         bool
}

// NewModel creates a new UI model
func NewModel(ctx context.Context, controller Controller, title string, logger *zap.Logger) Model {
	if logger == nil {
		logger = zap.NewNop()
	}

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	search := textinput.New()
	search.Placeholder = "Search by name, package or start date"
	search.Prompt = "/ "
	search.CharLimit = 64

	input := textinput.New()
	input.CharLimit = 32

	return Model{
		ctx:           ctx,
		controller:    controller,
		logger:        logger.Named("ui"),
		title:         title,
		Members:       components.NewMemberListModel(80, 20),
		Spinner:       s,
		Search:        search,
		Input:         input,
		statusFilter:  -1,
		IsLoading:     true,
		StatusMessage: "Loading members...",
	}
}

// Init initializes the model
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.Spinner.Tick, m.loadMembers())
}

// StatusFilter returns the active status filter, or "" for all
func (m Model) StatusFilter() models.Status {
	if m.statusFilter < 0 || m.statusFilter >= len(models.AllStatuses) {
		return ""
	}
	return models.AllStatuses[m.statusFilter]
}

// Update handles UI updates
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height
		m.Members.SetSize(msg.Width, max(msg.Height-7, 3))
		m.Ready = true
		return m, nil

	case spinner.TickMsg:
		var spinnerCmd tea.Cmd
		m.Spinner, spinnerCmd = m.Spinner.Update(msg)
		cmds = append(cmds, spinnerCmd)

	case membersLoadedMsg:
		m.IsLoading = false
		m.ErrorMessage = ""
		m.applyFilters()
		m.StatusMessage = fmt.Sprintf("Loaded %d members", len(m.Members.List.Items()))
		return m, nil

	case loadFailedMsg:
		m.logger.Error("failed to load members", zap.Error(msg.err))
		m.IsLoading = false
		m.ErrorMessage = LoadFailedMessage
		m.StatusMessage = "Error"
		return m, nil

	case actionDoneMsg:
		m.IsLoading = false
		m.applyFilters()
		m.StatusMessage = fmt.Sprintf("%s: %s", msg.action.Label(), msg.name)
		return m, nil

	case actionFailedMsg:
		// failures go to the log only; the list keeps showing server state
		m.IsLoading = false
		m.StatusMessage = "Ready"
		m.logger.Error("member action failed",
			zap.String("action", string(msg.action)),
			zap.String("member_id", msg.id),
			zap.Error(msg.err),
		)
		return m, nil
	}

	return m, tea.Batch(cmds...)
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.mode {
	case modeSearch:
		return m.updateSearch(msg)
	case modeMenu:
		return m.updateMenu(msg)
	case modeDate, modeFreeze:
		return m.updateInput(msg)
	case modeConfirmDelete:
		return m.updateConfirm(msg)
	}

	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "r":
		m.IsLoading = true
		m.StatusMessage = "Refreshing members..."
		return m, m.loadMembers()
	case "/":
		m.mode = modeSearch
		return m, m.Search.Focus()
	case "tab":
		m.statusFilter++
		if m.statusFilter >= len(models.AllStatuses) {
			m.statusFilter = -1
		}
		m.applyFilters()
		return m, nil
	case "shift+tab":
		m.statusFilter--
		if m.statusFilter < -1 {
			m.statusFilter = len(models.AllStatuses) - 1
		}
		m.applyFilters()
		return m, nil
	case "enter":
		if m.IsLoading || m.Members.Selected == nil {
			return m, nil
		}
		member := *m.Members.Selected
		m.target = &member
		m.menu = m.controller.Actions(member)
		m.cursor = 0
		m.mode = modeMenu
		return m, nil
	}

	var cmd tea.Cmd
	m.Members, cmd = m.Members.Update(msg)
	return m, cmd
}

func (m Model) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.Search.SetValue("")
		m.Search.Blur()
		m.mode = modeList
		m.applyFilters()
		return m, nil
	case "enter":
		m.Search.Blur()
		m.mode = modeList
		return m, nil
	}

	var cmd tea.Cmd
	m.Search, cmd = m.Search.Update(msg)
	m.applyFilters()
	return m, cmd
}

func (m Model) updateMenu(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "q":
		m.closeDialog()
		return m, nil
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
		return m, nil
	case "down", "j":
		if m.cursor < len(m.menu)-1 {
			m.cursor++
		}
		return m, nil
	case "enter":
		if len(m.menu) == 0 {
			m.closeDialog()
			return m, nil
		}
		action := m.menu[m.cursor]
		m.pending = action

		switch {
		case action == models.ActionDelete:
			m.mode = modeConfirmDelete
			return m, nil
		case action.NeedsDate():
			m.mode = modeDate
			m.Input.SetValue("")
			m.Input.Placeholder = "YYYY-MM-DD, blank for today"
			return m, m.Input.Focus()
		case action.NeedsDuration():
			m.mode = modeFreeze
			m.Input.SetValue("")
			m.Input.Placeholder = "Freeze duration in days"
			return m, m.Input.Focus()
		}
		return m.submit(membership.Command{Action: action})
	}
	return m, nil
}

func (m Model) updateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.closeDialog()
		return m, nil
	case "enter":
		cmd := membership.Command{Action: m.pending}
		if m.mode == modeDate {
			cmd.EffectiveDate = m.Input.Value()
		} else {
			cmd.FreezeDays = m.Input.Value()
		}
		return m.submit(cmd)
	}

	var cmd tea.Cmd
	m.Input, cmd = m.Input.Update(msg)
	return m, cmd
}

func (m Model) updateConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		return m.submit(membership.Command{Action: models.ActionDelete})
	case "n", "N", "esc", "q":
		m.closeDialog()
	}
	return m, nil
}

func (m *Model) closeDialog() {
	m.mode = modeList
	m.target = nil
	m.menu = nil
	m.cursor = 0
	m.pending = ""
	m.Input.Blur()
	m.Input.SetValue("")
}

func (m Model) submit(cmd membership.Command) (tea.Model, tea.Cmd) {
	target := m.target
	m.closeDialog()
	if target == nil {
		return m, nil
	}

	m.IsLoading = true
	m.StatusMessage = fmt.Sprintf("%s %s...", cmd.Action.Label(), target.FullName)
	return m, tea.Batch(m.Spinner.Tick, m.applyAction(*target, cmd))
}

func (m *Model) applyFilters() {
	m.Members.SetMembers(m.controller.Filter(m.Search.Value(), m.StatusFilter()))
}

// View renders the UI
func (m Model) View() string {
	if !m.Ready {
		return "Initializing..."
	}

	var status string
	if m.IsLoading {
		status = fmt.Sprintf("%s %s", m.Spinner.View(), m.StatusMessage)
	} else {
		status = m.StatusMessage
	}

	statusBar := lipgloss.NewStyle().
		Foreground(lipgloss.Color("241")).
		Padding(0, 1).
		Render(status)

	titleBar := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("39")).
		Padding(0, 1).
		Render(m.title)

	filter := "all"
	if s := m.StatusFilter(); s != "" {
		filter = components.StatusStyle(s).Render(string(s))
	}
	filterBar := lipgloss.NewStyle().
		Padding(0, 1).
		Render(fmt.Sprintf("%s  status: %s", m.Search.View(), filter))

	errorView := ""
	if m.ErrorMessage != "" {
		errorView = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("196")).
			Padding(0, 1).
			Render(m.ErrorMessage)
	}

	body := m.Members.View()
	if dialog := m.dialogView(); dialog != "" {
		body = dialog
	}

	return lipgloss.JoinVertical(
		lipgloss.Left,
		titleBar,
		statusBar,
		filterBar,
		body,
		errorView,
		helpStyle.Render(m.help()),
	)
}

var (
	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			Padding(0, 1)

	dialogStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("39")).
			Padding(1, 2)

	cursorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Bold(true)
)

func (m Model) help() string {
	switch m.mode {
	case modeSearch:
		return "enter to keep search, esc to clear"
	case modeMenu:
		return "↑/↓ to choose, enter to confirm, esc to cancel"
	case modeDate, modeFreeze:
		return "enter to submit, esc to cancel"
	case modeConfirmDelete:
		return "y to delete, n to cancel"
	}
	return "q quit · r refresh · / search · tab status filter · enter actions"
}

func (m Model) dialogView() string {
	if m.target == nil {
		return ""
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s (%s)\n\n", m.target.FullName, components.StatusStyle(m.target.Status).Render(string(m.target.Status)))

	switch m.mode {
	case modeMenu:
		for i, action := range m.menu {
			line := "  " + action.Label()
			if i == m.cursor {
				line = cursorStyle.Render("> " + action.Label())
			}
			b.WriteString(line + "\n")
		}
	case modeDate:
		b.WriteString("Activation date\n")
		b.WriteString(m.Input.View())
	case modeFreeze:
		b.WriteString("Freeze for how many days?\n")
		b.WriteString(m.Input.View())
	case modeConfirmDelete:
		b.WriteString("Delete this member permanently? (y/n)")
	default:
		return ""
	}

	return dialogStyle.Render(b.String())
}

// Messages
type membersLoadedMsg struct{}

type loadFailedMsg struct{ err error }

type actionDoneMsg struct {
	action models.Action
	name   string
	result membership.Result
}

type actionFailedMsg struct {
	action models.Action
	id     string
	err    error
}

// Commands
func (m Model) loadMembers() tea.Cmd {
	ctx, controller := m.ctx, m.controller
	return func() tea.Msg {
		if err := controller.Refresh(ctx); err != nil {
			return loadFailedMsg{err: err}
		}
		return membersLoadedMsg{}
	}
}

func (m Model) applyAction(target models.Member, cmd membership.Command) tea.Cmd {
	ctx, controller := m.ctx, m.controller
	return func() tea.Msg {
		result, err := controller.Apply(ctx, target.ID, cmd)
		if err != nil {
			return actionFailedMsg{action: cmd.Action, id: target.ID, err: err}
		}
		return actionDoneMsg{action: cmd.Action, name: target.FullName, result: result}
	}
}
