package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/maksimdzmitryew/aqua-weight-sub000/internal/store"
)

type locationsModel struct {
	store  *store.Store
	width  int
	height int

	locations []store.Location
	cursor    int

	formActive bool
	form       *huh.Form
	editing    bool

	formName  *string
	formNotes *string

	editingID int64
}

func newLocationsModel(s *store.Store) locationsModel {
	name, notes := "", ""
	return locationsModel{
		store:     s,
		formName:  &name,
		formNotes: &notes,
	}
}

func (m *locationsModel) setSize(w, h int) {
	m.width = w
	m.height = h
}

type locationsDataMsg struct {
	locations []store.Location
}

func (m locationsModel) refresh() tea.Cmd {
	return func() tea.Msg {
		locations, _ := m.store.ListLocations(false)
		return locationsDataMsg{locations: locations}
	}
}

func (m locationsModel) update(msg tea.Msg) (locationsModel, tea.Cmd) {
	if m.formActive && m.form != nil {
		return m.updateForm(msg)
	}

	switch msg := msg.(type) {
	case locationsDataMsg:
		m.locations = msg.locations
		if m.cursor >= len(m.locations) {
			m.cursor = max(0, len(m.locations)-1)
		}
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Up):
			if m.cursor > 0 {
				m.cursor--
			}
		case key.Matches(msg, keys.Down):
			if m.cursor < len(m.locations)-1 {
				m.cursor++
			}
		case key.Matches(msg, keys.New):
			return m.showForm(nil)
		case key.Matches(msg, keys.Edit):
			if m.cursor < len(m.locations) {
				loc := m.locations[m.cursor]
				return m.showForm(&loc)
			}
		case key.Matches(msg, keys.Delete):
			if m.cursor < len(m.locations) {
				m.store.ArchiveLocation(m.locations[m.cursor].ID)
				return m, m.refresh()
			}
		}
	}
	return m, nil
}

func (m locationsModel) showForm(edit *store.Location) (locationsModel, tea.Cmd) {
	if edit != nil {
		m.editing = true
		m.editingID = edit.ID
		*m.formName = edit.Name
		*m.formNotes = edit.Notes
	} else {
		m.editing = false
		*m.formName = ""
		*m.formNotes = ""
	}

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Location Name").Value(m.formName),
			huh.NewInput().Title("Notes").Value(m.formNotes),
		),
	).WithShowHelp(true).WithShowErrors(true)

	m.formActive = true
	return m, m.form.Init()
}

func (m locationsModel) updateForm(msg tea.Msg) (locationsModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if msg.String() == "esc" {
			m.formActive = false
			m.form = nil
			return m, nil
		}
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State == huh.StateCompleted {
		m.formActive = false
		if *m.formName != "" {
			if m.editing {
				m.store.UpdateLocation(m.editingID, *m.formName, *m.formNotes)
			} else {
				m.store.CreateLocation(*m.formName, *m.formNotes)
			}
		}
		return m, m.refresh()
	}

	return m, cmd
}

func (m locationsModel) view() string {
	w := m.width - 4

	if m.formActive && m.form != nil {
		title := titleStyle.Render("New Location")
		if m.editing {
			title = titleStyle.Render("Edit Location")
		}
		content := lipgloss.JoinVertical(lipgloss.Left, title, "", m.form.View())
		return panelStyle.Width(w).Render(content)
	}

	title := titleStyle.Render("Locations")

	if len(m.locations) == 0 {
		content := lipgloss.JoinVertical(lipgloss.Left,
			title,
			"",
			mutedStyle.Render("No locations yet. Press n to create one."),
		)
		return panelStyle.Width(w).Render(content)
	}

	var rows []string
	rows = append(rows, title)
	rows = append(rows, "")

	for i, loc := range m.locations {
		cursor := "  "
		style := normalItemStyle
		if i == m.cursor {
			cursor = "> "
			style = selectedItemStyle
		}
		notes := ""
		if loc.Notes != "" {
			notes = mutedStyle.Render("  " + loc.Notes)
		}
		rows = append(rows, style.Render(fmt.Sprintf("%s%s", cursor, loc.Name))+notes)
	}

	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("  n: new  e: edit  d: archive"))

	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}
