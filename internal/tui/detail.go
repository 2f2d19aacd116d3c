package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/maksimdzmitryew/aqua-weight-sub000/internal/series"
	"github.com/maksimdzmitryew/aqua-weight-sub000/internal/store"
)

// detailModel renders the single-plant chart: the full day series with
// reference lines and the optional suggested-watering marker, recomputed
// on every data change and terminal resize.
type detailModel struct {
	store  *store.Store
	width  int
	height int

	plants []store.Plant
	index  int

	plant      *store.Plant
	attrs      series.Attributes
	points     []series.DayPoint
	refs       []series.RefLine
	showMarker bool

	formActive bool
	form       *huh.Form
	formType   string // "weigh", "water", "repot"

	formWeight *string
	formAdded  *string
	formBefore *string
	formNotes  *string
}

func newDetailModel(s *store.Store) detailModel {
	weight, added, before, notes := "", "", "", ""
	return detailModel{
		store:      s,
		formWeight: &weight,
		formAdded:  &added,
		formBefore: &before,
		formNotes:  &notes,
	}
}

func (m *detailModel) setSize(w, h int) {
	m.width = w
	m.height = h
}

type detailDataMsg struct {
	plants     []store.Plant
	index      int
	plant      *store.Plant
	attrs      series.Attributes
	points     []series.DayPoint
	refs       []series.RefLine
	showMarker bool
}

// open loads a plant and its chart inputs. The display preference is
// resolved here, outside the pure core, and passed along as a value.
func (m detailModel) open(plantID int64) tea.Cmd {
	return func() tea.Msg {
		plants, _ := m.store.ListPlants(false)
		index := 0
		for i, p := range plants {
			if p.ID == plantID {
				index = i
				break
			}
		}

		plant, err := m.store.GetPlant(plantID)
		if err != nil {
			return statusMsg{text: fmt.Sprintf("Error: %v", err), isError: true}
		}

		ms, _ := m.store.ListMeasurements(plantID)
		records := store.Records(ms)
		points := series.Aggregate(records)
		points = series.WindowDays(points, m.store.GetIntSetting("chart_days", 90))

		// User-entered anchors win; blank ones are derived from the
		// history for display only, never written back.
		attrs := series.EffectiveAttributes(plant.Attributes(), records)
		refs := series.ReferenceLines(attrs)

		return detailDataMsg{
			plants:     plants,
			index:      index,
			plant:      plant,
			attrs:      attrs,
			points:     points,
			refs:       refs,
			showMarker: m.store.GetBoolSetting("show_watering_marker", true),
		}
	}
}

func (m detailModel) update(msg tea.Msg) (detailModel, tea.Cmd) {
	if m.formActive && m.form != nil {
		return m.updateForm(msg)
	}

	switch msg := msg.(type) {
	case detailDataMsg:
		m.plants = msg.plants
		m.index = msg.index
		m.plant = msg.plant
		m.attrs = msg.attrs
		m.points = msg.points
		m.refs = msg.refs
		m.showMarker = msg.showMarker
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Left):
			return m.cycle(-1)
		case key.Matches(msg, keys.Right):
			return m.cycle(1)
		case key.Matches(msg, keys.Weigh):
			return m.showMeasureForm("weigh")
		case key.Matches(msg, keys.Water):
			return m.showMeasureForm("water")
		case key.Matches(msg, keys.Repot):
			return m.showMeasureForm("repot")
		}
	}
	return m, nil
}

func (m detailModel) cycle(delta int) (detailModel, tea.Cmd) {
	if len(m.plants) == 0 {
		return m, nil
	}
	m.index = (m.index + delta + len(m.plants)) % len(m.plants)
	return m, m.open(m.plants[m.index].ID)
}

func (m detailModel) showMeasureForm(kind string) (detailModel, tea.Cmd) {
	if m.plant == nil {
		return m, nil
	}
	m.formType = kind
	*m.formWeight = ""
	*m.formAdded = ""
	*m.formBefore = ""
	*m.formNotes = ""

	var group *huh.Group
	switch kind {
	case "weigh":
		group = huh.NewGroup(
			huh.NewInput().Title("Measured weight (g)").Value(m.formWeight),
			huh.NewInput().Title("Notes").Value(m.formNotes),
		).Title("Weigh " + m.plant.Name)
	case "water":
		group = huh.NewGroup(
			huh.NewInput().Title("Water added (g)").Value(m.formAdded),
			huh.NewInput().Title("Weight after watering (g)").Value(m.formWeight),
			huh.NewInput().Title("Notes").Value(m.formNotes),
		).Title("Water " + m.plant.Name)
	case "repot":
		group = huh.NewGroup(
			huh.NewInput().Title("Weight before watering (g)").Value(m.formBefore),
			huh.NewInput().Title("Water added (g)").Value(m.formAdded),
			huh.NewInput().Title("Notes").Value(m.formNotes),
		).Title("Repot " + m.plant.Name + " — resets the chart baseline")
	}

	m.form = huh.NewForm(group).WithShowHelp(true).WithShowErrors(true)
	m.formActive = true
	return m, m.form.Init()
}

func (m detailModel) updateForm(msg tea.Msg) (detailModel, tea.Cmd) {
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
		return m, m.saveMeasurement()
	}

	return m, cmd
}

func (m detailModel) saveMeasurement() tea.Cmd {
	plantID := m.plant.ID
	in := store.MeasurementInput{
		MeasuredAt: time.Now().Format("2006-01-02T15:04"),
		Notes:      *m.formNotes,
	}
	switch m.formType {
	case "weigh":
		in.Weight = parseOptFloat(*m.formWeight)
	case "water":
		in.WaterAdded = parseOptFloat(*m.formAdded)
		in.AfterWater = parseOptFloat(*m.formWeight)
	case "repot":
		in.BeforeWater = parseOptFloat(*m.formBefore)
		in.WaterAdded = parseOptFloat(*m.formAdded)
	}

	return func() tea.Msg {
		saved, err := m.store.AddMeasurement(plantID, in)
		if err != nil {
			return statusMsg{text: fmt.Sprintf("Error: %v", err), isError: true}
		}
		return measurementSavedMsg{measurement: saved}
	}
}

func (m detailModel) view() string {
	w := m.width - 4

	if m.plant == nil {
		return panelStyle.Width(w).Render(mutedStyle.Render("No plant selected"))
	}

	if m.formActive && m.form != nil {
		title := titleStyle.Render(m.plant.Name)
		content := lipgloss.JoinVertical(lipgloss.Left, title, "", m.form.View())
		return panelStyle.Width(w).Render(content)
	}

	dot := lipgloss.NewStyle().Foreground(lipgloss.Color(m.plant.Color)).Render("●")
	title := titleStyle.Render(fmt.Sprintf("%s %s", dot, m.plant.Name))
	subtitle := ""
	if m.plant.Species != "" {
		subtitle = mutedStyle.Render("  " + m.plant.Species)
	}
	pos := mutedStyle.Render(fmt.Sprintf("  %d/%d", m.index+1, len(m.plants)))
	header := title + subtitle + pos

	var body string
	if len(m.points) <= 1 {
		// Insufficient data: suppress the path and marker entirely.
		body = mutedStyle.Render("Not enough data to chart yet — add weight measurements on at least two days.")
	} else {
		chartHeight := max(m.height-10, 10)
		body = renderChart(m.points, m.refs, w-4, chartHeight, m.showMarker)
	}

	stats := m.renderStats()
	nav := mutedStyle.Render("  ←/→: switch plant  m: weigh  w: water  r: repot  esc: back")

	return panelStyle.Width(w).Render(
		lipgloss.JoinVertical(lipgloss.Left, header, "", body, "", stats, nav),
	)
}

func (m detailModel) renderStats() string {
	var parts []string
	if len(m.points) > 0 {
		last := m.points[len(m.points)-1]
		parts = append(parts, fmt.Sprintf("last %s (%s)",
			highlightStyle.Render(formatGrams(last.Weight)), last.Label))
		retained := series.WaterRetainedPct(m.attrs.MinDryWeight, m.attrs.MaxWaterWeight, &last.Weight)
		if retained != nil {
			parts = append(parts, fmt.Sprintf("retained %s", formatOptPct(retained)))
		}
	}
	for _, r := range m.refs {
		parts = append(parts, fmt.Sprintf("%s %s", strings.ToLower(r.Label), formatGrams(r.Value)))
	}
	if len(parts) == 0 {
		return ""
	}
	return "  " + strings.Join(parts, "  ·  ")
}
