package dashboard

// DefaultBandWidth is the grid width used when packing first-time layouts.
const DefaultBandWidth = 12

// Pack sizes used when a descriptor carries no minimum.
const (
	packFallbackWidth  = 4
	packFallbackHeight = 3
)

// GettingStartedWidget is selected only when none of the preferred widgets exist.
const GettingStartedWidget = "gstart"

// DefaultPriority is the hand-ordered preference list for new dashboards:
// interactive chart, plain chart, analytics tiles, then single statistics.
var DefaultPriority = []string{
	"filtered-orders-chart",
	"orders-chart",
	"stock-analytics",
	"orders-analytics",
	"low-stk",
	"act-bo",
	"act-so",
	"act-po",
}

// DefaultSelection picks the starter widgets present in items.
func DefaultSelection(items []WidgetDescriptor) []string {
	index := indexDescriptors(items)
	labels := make([]string, 0, len(DefaultPriority))
	for _, label := range DefaultPriority {
		if _, ok := index[label]; ok {
			labels = append(labels, label)
		}
	}
	if len(labels) == 0 {
		if _, ok := index[GettingStartedWidget]; ok {
			labels = append(labels, GettingStartedWidget)
		}
	}
	return labels
}

// Pack places widgets left to right in a band of bandWidth columns. A widget
// that would overflow wraps to column zero below the lowest entry already in
// that column; filling the band exactly wraps by the placed height.
func Pack(widgets []WidgetDescriptor, bandWidth int) []LayoutEntry {
	if bandWidth <= 0 {
		bandWidth = DefaultBandWidth
	}
	entries := make([]LayoutEntry, 0, len(widgets))
	x, y := 0, 0
	for _, widget := range widgets {
		w := widget.MinWidth
		if w <= 0 {
			w = packFallbackWidth
		}
		h := widget.MinHeight
		if h <= 0 {
			h = packFallbackHeight
		}
		if x+w > bandWidth {
			x = 0
			y = columnBottom(entries, x)
		}
		entries = append(entries, LayoutEntry{
			ID:   widget.Label,
			X:    x,
			Y:    y,
			W:    w,
			H:    h,
			MinW: max(widget.MinWidth, 1),
			MinH: max(widget.MinHeight, 1),
		})
		x += w
		if x >= bandWidth {
			x = 0
			y += h
		}
	}
	return entries
}

func columnBottom(entries []LayoutEntry, column int) int {
	bottom := 0
	for _, entry := range entries {
		if entry.X == column {
			bottom = max(bottom, entry.Y+entry.H)
		}
	}
	return bottom
}

// DefaultLayouts packs the labelled widgets into the default breakpoint.
// Labels missing from items are skipped.
func DefaultLayouts(labels []string, items []WidgetDescriptor) Layouts {
	index := indexDescriptors(items)
	widgets := make([]WidgetDescriptor, 0, len(labels))
	for _, label := range labels {
		if desc, ok := index[label]; ok {
			widgets = append(widgets, desc)
		}
	}
	return Layouts{DefaultBreakpoint: Pack(widgets, DefaultBandWidth)}
}
