package chart

import (
	"math"
	"testing"

	"github.com/maksimdzmitryew/aqua-weight-sub000/internal/series"
)

var (
	testSurface = Surface{Width: 800, Height: 600}
	testMargins = Margins{Top: 10, Right: 20, Bottom: 30, Left: 40}
)

func point(day string, w float64) series.DayPoint {
	t, ok := series.ParseTime(day)
	if !ok {
		panic("bad test timestamp: " + day)
	}
	return series.DayPoint{Time: t, Weight: w, Label: t.Format("2006-01-02")}
}

func computeSimple(points []series.DayPoint, refs []series.RefLine) Layout {
	return Compute(points, refs, testSurface, testMargins, Options{Nominal: testSurface})
}

// ============================================================
// Domain computation
// ============================================================

func TestEmptySeriesDomain(t *testing.T) {
	l := computeSimple(nil, nil)
	if l.WeightMin != 0 || l.WeightMax != 1 {
		t.Errorf("empty series: expected weight domain [0,1], got [%g,%g]", l.WeightMin, l.WeightMax)
	}
	if l.TimeMin != 0 || l.TimeMax != 1 {
		t.Errorf("empty series: expected time domain [0,1], got [%g,%g]", l.TimeMin, l.TimeMax)
	}
}

func TestAllEqualWeightsDomain(t *testing.T) {
	points := []series.DayPoint{
		point("2024-03-01", 10),
		point("2024-03-02", 10),
	}
	l := computeSimple(points, nil)
	if l.WeightMin != 10 || l.WeightMax != 11 {
		t.Errorf("expected weight domain [10,11], got [%g,%g]", l.WeightMin, l.WeightMax)
	}
}

func TestSinglePointDomain(t *testing.T) {
	l := computeSimple([]series.DayPoint{point("2024-03-01", 42)}, nil)
	if l.WeightMin != 42 || l.WeightMax != 43 {
		t.Errorf("expected weight domain [42,43], got [%g,%g]", l.WeightMin, l.WeightMax)
	}
	if l.TimeMax != l.TimeMin+1 {
		t.Errorf("single-point time domain should be min+1 wide, got [%g,%g]", l.TimeMin, l.TimeMax)
	}
}

func TestDomainIncludesReferenceLines(t *testing.T) {
	points := []series.DayPoint{
		point("2024-03-01", 120),
		point("2024-03-02", 130),
	}
	refs := []series.RefLine{
		{Label: series.LabelDry, Value: 80},
		{Label: series.LabelMax, Value: 250},
	}
	l := computeSimple(points, refs)
	if l.WeightMin != 80 || l.WeightMax != 250 {
		t.Errorf("reference lines must widen the domain, got [%g,%g]", l.WeightMin, l.WeightMax)
	}
}

func TestDomainIgnoresNothing(t *testing.T) {
	// Reference values below and above are both honored independently.
	refs := []series.RefLine{{Label: series.LabelDry, Value: -5}}
	l := computeSimple([]series.DayPoint{point("2024-03-01", 10)}, refs)
	if l.WeightMin != -5 || l.WeightMax != 10 {
		t.Errorf("got [%g,%g]", l.WeightMin, l.WeightMax)
	}
}

// ============================================================
// Pixel mapping
// ============================================================

func TestXSpansDrawableWidth(t *testing.T) {
	points := []series.DayPoint{
		point("2024-03-01", 100),
		point("2024-03-11", 110),
	}
	l := computeSimple(points, nil)

	left := l.X(points[0].Time)
	right := l.X(points[1].Time)
	if left != testMargins.Left {
		t.Errorf("domain min should map to the left margin, got %g", left)
	}
	wantRight := testSurface.Width - testMargins.Right
	if math.Abs(right-wantRight) > 1e-9 {
		t.Errorf("domain max should map to width-right, got %g want %g", right, wantRight)
	}
}

func TestYInverted(t *testing.T) {
	points := []series.DayPoint{
		point("2024-03-01", 100),
		point("2024-03-02", 200),
	}
	l := computeSimple(points, nil)
	if !(l.Y(200) < l.Y(100)) {
		t.Errorf("heavier should be higher on screen: Y(200)=%g Y(100)=%g", l.Y(200), l.Y(100))
	}
	if l.Y(200) != testMargins.Top {
		t.Errorf("domain max should map to the top margin, got %g", l.Y(200))
	}
	wantBottom := testSurface.Height - testMargins.Bottom
	if math.Abs(l.Y(100)-wantBottom) > 1e-9 {
		t.Errorf("domain min should map to height-bottom, got %g want %g", l.Y(100), wantBottom)
	}
}

func TestMappingAlwaysFinite(t *testing.T) {
	nan := math.NaN()
	layouts := []Layout{
		Compute(nil, nil, Surface{Width: nan, Height: nan}, testMargins, Options{}),
		Compute(nil, nil, testSurface, Margins{Top: nan, Right: nan, Bottom: nan, Left: nan}, Options{}),
		Compute(nil, nil, Surface{}, Margins{}, Options{}),
	}
	for i, l := range layouts {
		for _, v := range []float64{-1e12, 0, 1, 1e12} {
			if x := l.XValue(v); !isFinite(x) {
				t.Errorf("layout %d: XValue(%g) = %g, not finite", i, v, x)
			}
			if y := l.Y(v); !isFinite(y) {
				t.Errorf("layout %d: Y(%g) = %g, not finite", i, v, y)
			}
		}
	}
}

func TestNonFiniteMarginsFallBackToOrigin(t *testing.T) {
	nan := math.NaN()
	l := Compute(nil, nil, testSurface, Margins{Top: nan, Left: nan}, Options{Nominal: testSurface})
	if l.Margins.Left != 0 || l.Margins.Top != 0 {
		t.Fatalf("non-finite margins should be zeroed, got %+v", l.Margins)
	}
	if x := l.XValue(0.5); x < 0 || !isFinite(x) {
		t.Errorf("XValue with sanitized margins should stay usable, got %g", x)
	}
}

func TestUnmeasuredSurfaceUsesNominal(t *testing.T) {
	nan := math.NaN()
	l := Compute(nil, nil, Surface{Width: nan, Height: nan}, testMargins, Options{
		Nominal: Surface{Width: 300, Height: 150},
	})
	if l.Width != 300 || l.Height != 150 {
		t.Errorf("expected nominal 300x150, got %gx%g", l.Width, l.Height)
	}
}

func TestPartiallyMeasuredSurface(t *testing.T) {
	// An explicit width with a not-yet-finite height fills the
	// available container height instead.
	l := Compute(nil, nil, Surface{Width: 500, Height: math.Inf(1)}, testMargins, Options{
		Nominal: Surface{Width: 300, Height: 150},
	})
	if l.Width != 500 {
		t.Errorf("observed width must win, got %g", l.Width)
	}
	if l.Height != 150 {
		t.Errorf("non-finite height should fall back to the container extent, got %g", l.Height)
	}
}

func TestZeroDrawableArea(t *testing.T) {
	l := Compute(nil, nil, Surface{Width: 60, Height: 40}, Margins{Left: 30, Right: 30, Top: 20, Bottom: 20}, Options{})
	if x := l.XValue(0.5); x != 30 {
		t.Errorf("zero drawable width should pin X to the left margin, got %g", x)
	}
	if y := l.Y(0.5); y != 20 {
		t.Errorf("zero drawable height should pin Y to the top margin, got %g", y)
	}
}

// ============================================================
// Threshold-crossing marker
// ============================================================

func markerRefs() []series.RefLine {
	return []series.RefLine{
		{Label: series.LabelDry, Value: 100},
		{Label: series.LabelMax, Value: 200},
		{Label: series.LabelThresh, Value: 140},
	}
}

func TestMarkerEarliestAtOrBelowThreshold(t *testing.T) {
	points := []series.DayPoint{
		point("2024-03-01", 180),
		point("2024-03-02", 140), // first at the threshold
		point("2024-03-03", 120),
	}
	at, ok := Marker(points, markerRefs(), true)
	if !ok {
		t.Fatal("expected a marker")
	}
	if want := points[1].Time; !at.Equal(want) {
		t.Errorf("marker at %v, want %v", at, want)
	}
}

func TestMarkerGatedByPreference(t *testing.T) {
	points := []series.DayPoint{point("2024-03-01", 50)}
	if _, ok := Marker(points, markerRefs(), false); ok {
		t.Error("preference off must suppress the marker")
	}
}

func TestMarkerNeedsThresholdLine(t *testing.T) {
	points := []series.DayPoint{point("2024-03-01", 50)}
	refs := []series.RefLine{{Label: series.LabelDry, Value: 100}}
	if _, ok := Marker(points, refs, true); ok {
		t.Error("no threshold line, no marker")
	}
}

func TestMarkerNoQualifyingPoint(t *testing.T) {
	points := []series.DayPoint{
		point("2024-03-01", 180),
		point("2024-03-02", 190),
	}
	if _, ok := Marker(points, markerRefs(), true); ok {
		t.Error("all points above the threshold, expected no marker")
	}
}

// ============================================================
// Degenerate span guard
// ============================================================

func TestSpanNeverZero(t *testing.T) {
	if s := span(5, 5); s != 1 {
		t.Errorf("zero span should substitute 1, got %g", s)
	}
	if s := span(2, 7); s != 5 {
		t.Errorf("span(2,7) = %g", s)
	}
}

func TestRepairDomain(t *testing.T) {
	cases := []struct {
		inMin, inMax     float64
		wantMin, wantMax float64
	}{
		{math.Inf(1), math.Inf(-1), 0, 1},
		{math.NaN(), math.NaN(), 0, 1},
		{10, 10, 10, 11},
		{10, math.NaN(), 10, 11},
		{2, 8, 2, 8},
	}
	for _, c := range cases {
		gotMin, gotMax := repairDomain(c.inMin, c.inMax)
		if gotMin != c.wantMin || gotMax != c.wantMax {
			t.Errorf("repairDomain(%g,%g) = (%g,%g), want (%g,%g)",
				c.inMin, c.inMax, gotMin, gotMax, c.wantMin, c.wantMax)
		}
	}
}
