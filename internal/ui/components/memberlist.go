package components

import (
	"fmt"
	"strings"

	"gymctl/internal/models"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// StatusColors maps each membership status to the colour it is drawn in
var StatusColors = map[models.Status]lipgloss.Color{
	models.StatusActive:   lipgloss.Color("10"),
	models.StatusPending:  lipgloss.Color("14"),
	models.StatusFrozen:   lipgloss.Color("39"),
	models.StatusInactive: lipgloss.Color("8"),
	models.StatusExpired:  lipgloss.Color("196"),
	models.StatusDormant:  lipgloss.Color("11"),
}

// StatusStyle returns the style for a status; unknown statuses are drawn in magenta
func StatusStyle(status models.Status) lipgloss.Style {
	c, ok := StatusColors[status]
	if !ok {
		c = lipgloss.Color("205")
	}
	return lipgloss.NewStyle().Foreground(c)
}

// MemberItem represents a member row in the list
type MemberItem struct {
	Member models.Member
}

// FilterValue returns the filter value for the member item
func (i MemberItem) FilterValue() string {
	return i.Member.FullName
}

// Title returns the title for the member item
func (i MemberItem) Title() string {
	return i.Member.FullName
}

// Description returns the description for the member item
func (i MemberItem) Description() string {
	parts := []string{StatusStyle(i.Member.Status).Render(string(i.Member.Status))}

	if name := i.Member.ServiceName(); name != "" {
		parts = append(parts, name)
	}
	if i.Member.Status.HasDaysLeft() {
		parts = append(parts, fmt.Sprintf("%s days left", i.Member.DaysLeftLabel()))
	}
	if day := i.Member.StartDay(); day != "" {
		parts = append(parts, "since "+day)
	}
	if i.Member.PhoneNumber != "" {
		parts = append(parts, i.Member.PhoneNumber)
	}

	return strings.Join(parts, " · ")
}

// MemberListModel represents the member list model
type MemberListModel struct {
	List     list.Model
	Selected *models.Member
}

// NewMemberListModel creates a new member list model.
// Filtering is done by the caller so search and status filters stay in one place.
func NewMemberListModel(width, height int) MemberListModel {
	listModel := list.New([]list.Item{}, list.NewDefaultDelegate(), width, height)
	listModel.Title = "Members"
	listModel.SetShowStatusBar(true)
	listModel.SetFilteringEnabled(false)
	listModel.SetShowHelp(false)
	listModel.Styles.Title = lipgloss.NewStyle().
		Foreground(lipgloss.Color("39")).
		Bold(true).
		MarginLeft(2)

	return MemberListModel{
		List: listModel,
	}
}

// SetMembers replaces the rows, keeping the cursor on the same member when it is still listed
func (m *MemberListModel) SetMembers(members []models.Member) {
	var selectedID string
	if m.Selected != nil {
		selectedID = m.Selected.ID
	}

	items := make([]list.Item, len(members))
	cursor := 0
	for i, member := range members {
		items[i] = MemberItem{Member: member}
		if member.ID == selectedID {
			cursor = i
		}
	}

	m.List.SetItems(items)
	if len(items) > 0 {
		m.List.Select(cursor)
	}
	m.syncSelected()
}

// SetSize resizes the list
func (m *MemberListModel) SetSize(width, height int) {
	m.List.SetSize(width, height)
}

func (m *MemberListModel) syncSelected() {
	if item, ok := m.List.SelectedItem().(MemberItem); ok {
		member := item.Member
		m.Selected = &member
	} else {
		m.Selected = nil
	}
}

// Update handles member list updates
func (m MemberListModel) Update(msg tea.Msg) (MemberListModel, tea.Cmd) {
	var cmd tea.Cmd
	m.List, cmd = m.List.Update(msg)
	m.syncSelected()
	return m, cmd
}

// View renders the member list
func (m MemberListModel) View() string {
	return m.List.View()
}
