package tui

import (
	"fmt"

	"github.com/maksimdzmitryew/aqua-weight-sub000/internal/store"
)

// viewState represents the currently active view.
type viewState int

const (
	viewDashboard viewState = iota
	viewPlants
	viewLocations
	viewSettings
	// viewDetail is reached with enter from the dashboard or plant list,
	// not from the tab row.
	viewDetail
)

var viewNames = []string{"Dashboard", "Plants", "Locations", "Settings"}

const tabCount = 4

// --- Messages ---

type statusMsg struct {
	text    string
	isError bool
}

type measurementSavedMsg struct {
	measurement *store.Measurement
}

type openDetailMsg struct {
	plantID int64
}

type exportDoneMsg struct {
	path string
}

// --- Helpers ---

func formatGrams(v float64) string {
	return fmt.Sprintf("%.0f g", v)
}

func formatOptGrams(v *float64) string {
	if v == nil {
		return "—"
	}
	return formatGrams(*v)
}

func formatOptPct(v *float64) string {
	if v == nil {
		return "—"
	}
	return fmt.Sprintf("%.0f%%", *v)
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
