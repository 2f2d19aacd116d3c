package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/maksimdzmitryew/aqua-weight-sub000/internal/store"
)

var plantColors = []string{"#2ECC71", "#2EC4B6", "#6C63FF", "#F39C12", "#FF6B6B", "#9B59B6", "#3498DB", "#E74C3C"}

type plantsModel struct {
	store  *store.Store
	width  int
	height int

	plants    []store.Plant
	locations []store.Location
	cursor    int

	formActive bool
	form       *huh.Form
	formType   string // "plant", "edit_plant"

	// Form field pointers (survive value copies)
	formName     *string
	formSpecies  *string
	formNotes    *string
	formColor    *string
	formLocation *string // location ID as string, "" for none
	formDry      *string
	formMax      *string
	formThresh   *string

	editingID int64
}

func newPlantsModel(s *store.Store) plantsModel {
	name, species, notes, color := "", "", "", plantColors[0]
	loc, dry, maxW, thresh := "", "", "", ""
	return plantsModel{
		store:        s,
		formName:     &name,
		formSpecies:  &species,
		formNotes:    &notes,
		formColor:    &color,
		formLocation: &loc,
		formDry:      &dry,
		formMax:      &maxW,
		formThresh:   &thresh,
	}
}

func (p *plantsModel) setSize(w, h int) {
	p.width = w
	p.height = h
}

type plantsDataMsg struct {
	plants    []store.Plant
	locations []store.Location
}

func (p plantsModel) refresh() tea.Cmd {
	return func() tea.Msg {
		plants, _ := p.store.ListPlants(false)
		locations, _ := p.store.ListLocations(false)
		return plantsDataMsg{plants: plants, locations: locations}
	}
}

func (p plantsModel) update(msg tea.Msg) (plantsModel, tea.Cmd) {
	if p.formActive && p.form != nil {
		return p.updateForm(msg)
	}

	switch msg := msg.(type) {
	case plantsDataMsg:
		p.plants = msg.plants
		p.locations = msg.locations
		if p.cursor >= len(p.plants) {
			p.cursor = max(0, len(p.plants)-1)
		}
		return p, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Up):
			if p.cursor > 0 {
				p.cursor--
			}
		case key.Matches(msg, keys.Down):
			if p.cursor < len(p.plants)-1 {
				p.cursor++
			}
		case key.Matches(msg, keys.Enter):
			if p.cursor < len(p.plants) {
				id := p.plants[p.cursor].ID
				return p, func() tea.Msg { return openDetailMsg{plantID: id} }
			}
		case key.Matches(msg, keys.New):
			return p.showForm(nil)
		case key.Matches(msg, keys.Edit):
			if p.cursor < len(p.plants) {
				plant := p.plants[p.cursor]
				return p.showForm(&plant)
			}
		case key.Matches(msg, keys.Delete):
			if p.cursor < len(p.plants) {
				p.store.ArchivePlant(p.plants[p.cursor].ID)
				return p, p.refresh()
			}
		}
	}
	return p, nil
}

func (p plantsModel) showForm(edit *store.Plant) (plantsModel, tea.Cmd) {
	if edit != nil {
		p.formType = "edit_plant"
		p.editingID = edit.ID
		*p.formName = edit.Name
		*p.formSpecies = edit.Species
		*p.formNotes = edit.Notes
		*p.formColor = edit.Color
		*p.formLocation = optIDString(edit.LocationID)
		*p.formDry = optFloatString(edit.MinDryWeight)
		*p.formMax = optFloatString(edit.MaxWaterWeight)
		*p.formThresh = optFloatString(edit.ThresholdPct)
	} else {
		p.formType = "plant"
		*p.formName = ""
		*p.formSpecies = ""
		*p.formNotes = ""
		*p.formColor = plantColors[0]
		*p.formLocation = ""
		*p.formDry = ""
		*p.formMax = ""
		*p.formThresh = ""
	}

	colorOptions := make([]huh.Option[string], len(plantColors))
	for i, c := range plantColors {
		colorOptions[i] = huh.NewOption(fmt.Sprintf("● %s", c), c)
	}
	locOptions := []huh.Option[string]{huh.NewOption("(none)", "")}
	for _, l := range p.locations {
		locOptions = append(locOptions, huh.NewOption(l.Name, strconv.FormatInt(l.ID, 10)))
	}

	p.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Plant Name").Value(p.formName),
			huh.NewInput().Title("Species").Value(p.formSpecies),
			huh.NewSelect[string]().Title("Location").Options(locOptions...).Value(p.formLocation),
			huh.NewSelect[string]().Title("Color").Options(colorOptions...).Value(p.formColor),
			huh.NewInput().Title("Notes").Value(p.formNotes),
		).Title("General"),
		huh.NewGroup(
			huh.NewInput().Title("Min dry weight (g)").Value(p.formDry),
			huh.NewInput().Title("Max water weight (g)").Value(p.formMax),
			huh.NewInput().Title("Watering threshold (%)").Value(p.formThresh),
		).Title("Care — leave blank to calibrate from measurements"),
	).WithShowHelp(true).WithShowErrors(true)

	p.formActive = true
	return p, p.form.Init()
}

func (p plantsModel) updateForm(msg tea.Msg) (plantsModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if msg.String() == "esc" {
			p.formActive = false
			p.form = nil
			return p, nil
		}
	}

	form, cmd := p.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		p.form = f
	}

	if p.form.State == huh.StateCompleted {
		p.formActive = false
		if *p.formName != "" {
			in := store.PlantInput{
				Name:           *p.formName,
				Species:        *p.formSpecies,
				Notes:          *p.formNotes,
				Color:          *p.formColor,
				LocationID:     parseOptID(*p.formLocation),
				MinDryWeight:   parseOptFloat(*p.formDry),
				MaxWaterWeight: parseOptFloat(*p.formMax),
				ThresholdPct:   parseOptFloat(*p.formThresh),
			}
			if p.formType == "edit_plant" {
				p.store.UpdatePlant(p.editingID, in)
			} else {
				p.store.CreatePlant(in)
			}
		}
		return p, p.refresh()
	}

	return p, cmd
}

func (p plantsModel) view() string {
	w := p.width - 4

	if p.formActive && p.form != nil {
		title := titleStyle.Render("New Plant")
		if p.formType == "edit_plant" {
			title = titleStyle.Render("Edit Plant")
		}
		formView := p.form.View()
		content := lipgloss.JoinVertical(lipgloss.Left, title, "", formView)
		return panelStyle.Width(w).Render(content)
	}

	title := titleStyle.Render("Plants")

	if len(p.plants) == 0 {
		content := lipgloss.JoinVertical(lipgloss.Left,
			title,
			"",
			mutedStyle.Render("No plants yet. Press n to create one."),
		)
		return panelStyle.Width(w).Render(content)
	}

	locNames := make(map[int64]string, len(p.locations))
	for _, l := range p.locations {
		locNames[l.ID] = l.Name
	}

	var rows []string
	rows = append(rows, title)
	rows = append(rows, "")

	header := mutedStyle.Render(fmt.Sprintf("  %-3s %-22s %-16s %-14s %8s %8s %7s", "", "Name", "Species", "Location", "Dry", "Max", "Thresh"))
	rows = append(rows, header)

	for i, plant := range p.plants {
		colorDot := lipgloss.NewStyle().Foreground(lipgloss.Color(plant.Color)).Render("●")
		cursor := "  "
		style := normalItemStyle
		if i == p.cursor {
			cursor = "> "
			style = selectedItemStyle
		}
		location := ""
		if plant.LocationID != nil {
			location = locNames[*plant.LocationID]
		}
		row := style.Render(fmt.Sprintf("%s%s %-22s %-16s %-14s %8s %8s %7s",
			cursor, colorDot, plant.Name, plant.Species, location,
			formatOptGrams(plant.MinDryWeight),
			formatOptGrams(plant.MaxWaterWeight),
			formatOptPct(plant.ThresholdPct),
		))
		rows = append(rows, row)
	}

	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("  n: new  e: edit  d: archive  enter: chart"))

	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}

func parseOptFloat(s string) *float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &v
}

func parseOptID(s string) *int64 {
	if s == "" {
		return nil
	}
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return nil
	}
	return &id
}

func optFloatString(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}

func optIDString(v *int64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatInt(*v, 10)
}
