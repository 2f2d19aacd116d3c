package tui

import (
	"fmt"
	"strings"

	"github.com/NimbleMarkets/ntcharts/sparkline"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/maksimdzmitryew/aqua-weight-sub000/internal/chart"
	"github.com/maksimdzmitryew/aqua-weight-sub000/internal/series"
	"github.com/maksimdzmitryew/aqua-weight-sub000/internal/store"
)

// plantCard is everything the overview needs for one plant: the aggregated
// series plus the derived at-a-glance numbers.
type plantCard struct {
	plant      store.Plant
	points     []series.DayPoint
	retained   *float64
	freqDays   int
	hasFreq    bool
	needsWater bool
}

type dashboardModel struct {
	store  *store.Store
	width  int
	height int

	cards  []plantCard
	cursor int
}

func newDashboardModel(s *store.Store) dashboardModel {
	return dashboardModel{store: s}
}

func (d dashboardModel) Init() tea.Cmd {
	return d.loadData()
}

func (d *dashboardModel) setSize(w, h int) {
	d.width = w
	d.height = h
}

type dashboardDataMsg struct {
	cards []plantCard
}

func (d dashboardModel) loadData() tea.Cmd {
	return func() tea.Msg {
		plants, _ := d.store.ListPlants(false)
		windowDays := d.store.GetIntSetting("chart_days", 90)

		cards := make([]plantCard, 0, len(plants))
		for _, p := range plants {
			ms, _ := d.store.ListMeasurements(p.ID)
			records := store.Records(ms)
			points := series.WindowDays(series.Aggregate(records), windowDays)

			card := plantCard{plant: p, points: points}
			if len(points) > 0 {
				attrs := series.EffectiveAttributes(p.Attributes(), records)
				latest := points[len(points)-1].Weight
				card.retained = series.WaterRetainedPct(attrs.MinDryWeight, attrs.MaxWaterWeight, &latest)
				if _, ok := chart.Marker(points, series.ReferenceLines(attrs), true); ok {
					card.needsWater = true
				}
			}
			card.freqDays, card.hasFreq = series.WateringFrequencyDays(records)
			cards = append(cards, card)
		}
		return dashboardDataMsg{cards: cards}
	}
}

func (d dashboardModel) update(msg tea.Msg) (dashboardModel, tea.Cmd) {
	switch msg := msg.(type) {
	case dashboardDataMsg:
		d.cards = msg.cards
		if d.cursor >= len(d.cards) {
			d.cursor = max(0, len(d.cards)-1)
		}
		return d, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Left), key.Matches(msg, keys.Up):
			if d.cursor > 0 {
				d.cursor--
			}
		case key.Matches(msg, keys.Right), key.Matches(msg, keys.Down):
			if d.cursor < len(d.cards)-1 {
				d.cursor++
			}
		case key.Matches(msg, keys.Enter):
			if d.cursor < len(d.cards) {
				id := d.cards[d.cursor].plant.ID
				return d, func() tea.Msg { return openDetailMsg{plantID: id} }
			}
		}
	}
	return d, nil
}

func (d dashboardModel) view() string {
	if d.width < 20 {
		return "Terminal too small"
	}
	w := d.width - 4

	if len(d.cards) == 0 {
		content := lipgloss.JoinVertical(lipgloss.Left,
			titleStyle.Render("Plants"),
			"",
			mutedStyle.Render("No plants yet. Press 2 to go to Plants and create one."),
		)
		return panelStyle.Width(w).Render(content)
	}

	cardWidth := 30
	perRow := max(1, w/(cardWidth+2))

	var rows []string
	for start := 0; start < len(d.cards); start += perRow {
		end := min(start+perRow, len(d.cards))
		cells := make([]string, 0, end-start)
		for i := start; i < end; i++ {
			cells = append(cells, d.renderCard(d.cards[i], cardWidth, i == d.cursor))
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cells...))
	}
	rows = append(rows, mutedStyle.Render("  ←/→: select  enter: open chart"))

	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func (d dashboardModel) renderCard(c plantCard, width int, selected bool) string {
	dot := lipgloss.NewStyle().Foreground(lipgloss.Color(c.plant.Color)).Render("●")
	name := titleStyle.Render(c.plant.Name)

	latestStyle := highlightStyle
	if c.needsWater {
		latestStyle = warningStyle
	}
	latest := mutedStyle.Render("no data")
	if len(c.points) > 0 {
		latest = latestStyle.Render(formatGrams(c.points[len(c.points)-1].Weight))
	}

	stats := fmt.Sprintf("%s  retained %s", latest, formatOptPct(c.retained))
	freq := mutedStyle.Render("watering cycle unknown")
	if c.hasFreq {
		freq = accentStyle.Render(fmt.Sprintf("waters every ~%d days", c.freqDays))
	}

	// The overview chart is deliberately small and carries no reference
	// lines; the detail view has the full layout.
	spark := d.renderSparkline(c.points, width-2)

	content := strings.Join([]string{
		fmt.Sprintf("%s %s", dot, name),
		stats,
		freq,
		spark,
	}, "\n")

	style := cardStyle
	if selected {
		style = selectedCardStyle
	}
	return style.Width(width).Render(content)
}

func (d dashboardModel) renderSparkline(points []series.DayPoint, width int) string {
	if len(points) <= 1 {
		return mutedStyle.Render("insufficient data")
	}
	sl := sparkline.New(max(width, 8), 3)
	for _, p := range points {
		sl.Push(p.Weight)
	}
	sl.Draw()
	return sl.View()
}
