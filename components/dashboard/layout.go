package dashboard

// Fallback minimums for entries whose widget is not in the catalog.
const (
	fallbackMinWidth  = 1
	fallbackMinHeight = 2
)

// LayoutEntry is one widget's position and size within a breakpoint grid.
// JSON keys follow the grid layout wire format.
type LayoutEntry struct {
	ID     string `json:"i"`
	X      int    `json:"x"`
	Y      int    `json:"y"`
	W      int    `json:"w"`
	H      int    `json:"h"`
	MinW   int    `json:"minW,omitempty"`
	MinH   int    `json:"minH,omitempty"`
	Moved  *bool  `json:"moved,omitempty"`
	Static *bool  `json:"static,omitempty"`
}

// Layouts maps a breakpoint name to its ordered entries.
type Layouts map[string][]LayoutEntry

// Breakpoint describes a responsive grid variant.
type Breakpoint struct {
	Name     string `json:"name"`
	MinWidth int    `json:"min_width"`
	Columns  int    `json:"columns"`
}

// Breakpoints lists the responsive variants from widest to narrowest.
var Breakpoints = []Breakpoint{
	{Name: "lg", MinWidth: 1200, Columns: 12},
	{Name: "md", MinWidth: 996, Columns: 10},
	{Name: "sm", MinWidth: 768, Columns: 6},
	{Name: "xs", MinWidth: 480, Columns: 4},
	{Name: "xxs", MinWidth: 0, Columns: 2},
}

// DefaultBreakpoint is the breakpoint seeded for new dashboards.
const DefaultBreakpoint = "lg"

// Columns returns the grid width for a breakpoint, or zero when unknown.
func Columns(breakpoint string) int {
	for _, bp := range Breakpoints {
		if bp.Name == breakpoint {
			return bp.Columns
		}
	}
	return 0
}

// Clone deep copies the layouts.
func (l Layouts) Clone() Layouts {
	if l == nil {
		return nil
	}
	out := make(Layouts, len(l))
	for bp, entries := range l {
		cp := make([]LayoutEntry, len(entries))
		for i, entry := range entries {
			cp[i] = entry.clone()
		}
		out[bp] = cp
	}
	return out
}

func (e LayoutEntry) clone() LayoutEntry {
	if e.Moved != nil {
		v := *e.Moved
		e.Moved = &v
	}
	if e.Static != nil {
		v := *e.Static
		e.Static = &v
	}
	return e
}

// Reconcile enforces minimum sizes on every entry of every breakpoint. With
// clamp set every entry is reset to exactly its minimum size. Entries are
// never pruned here.
func Reconcile(layouts Layouts, catalog []WidgetDescriptor, clamp bool) Layouts {
	if layouts == nil {
		return Layouts{}
	}
	index := indexDescriptors(catalog)
	out := make(Layouts, len(layouts))
	for bp, entries := range layouts {
		reconciled := make([]LayoutEntry, len(entries))
		for i, entry := range entries {
			minW, minH := minimumSize(index, entry.ID)
			entry = entry.clone()
			entry.W = max(entry.W, minW)
			entry.H = max(entry.H, minH)
			if clamp {
				entry.W = minW
				entry.H = minH
			}
			entry.MinW = minW
			entry.MinH = minH
			reconciled[i] = entry
		}
		out[bp] = reconciled
	}
	return out
}

func minimumSize(index map[string]WidgetDescriptor, label string) (int, int) {
	desc, ok := index[label]
	if !ok {
		return fallbackMinWidth, fallbackMinHeight
	}
	minW, minH := desc.MinWidth, desc.MinHeight
	if minW < 1 {
		minW = fallbackMinWidth
	}
	if minH < 1 {
		minH = fallbackMinHeight
	}
	return minW, minH
}

// PruneLayouts strips every entry for label from all breakpoints.
func PruneLayouts(layouts Layouts, label string) Layouts {
	return filterLayouts(layouts, func(entry LayoutEntry) bool {
		return entry.ID != label
	})
}

// PruneUnselected drops entries whose widget is not in the selection.
func PruneUnselected(layouts Layouts, selection []string) Layouts {
	selected := make(map[string]struct{}, len(selection))
	for _, label := range selection {
		selected[label] = struct{}{}
	}
	return filterLayouts(layouts, func(entry LayoutEntry) bool {
		_, ok := selected[entry.ID]
		return ok
	})
}

func filterLayouts(layouts Layouts, keep func(LayoutEntry) bool) Layouts {
	out := make(Layouts, len(layouts))
	for bp, entries := range layouts {
		filtered := make([]LayoutEntry, 0, len(entries))
		for _, entry := range entries {
			if keep(entry) {
				filtered = append(filtered, entry.clone())
			}
		}
		out[bp] = filtered
	}
	return out
}

// ReduceLayouts prepares layouts for storage: moved/static are only kept
// when true so stored payloads stay stable.
func ReduceLayouts(layouts Layouts) Layouts {
	out := make(Layouts, len(layouts))
	for bp, entries := range layouts {
		reduced := make([]LayoutEntry, len(entries))
		for i, entry := range entries {
			reduced[i] = LayoutEntry{
				ID:     entry.ID,
				X:      entry.X,
				Y:      entry.Y,
				W:      entry.W,
				H:      entry.H,
				MinW:   entry.MinW,
				MinH:   entry.MinH,
				Moved:  trueOrNil(entry.Moved),
				Static: trueOrNil(entry.Static),
			}
		}
		out[bp] = reduced
	}
	return out
}

func trueOrNil(flag *bool) *bool {
	if flag == nil || !*flag {
		return nil
	}
	v := true
	return &v
}

// appendEntry places a new entry for desc below everything else in each
// breakpoint, seeding the default breakpoint when none exist yet.
func appendEntry(layouts Layouts, desc WidgetDescriptor) Layouts {
	out := layouts.Clone()
	if out == nil {
		out = Layouts{}
	}
	if len(out) == 0 {
		out[DefaultBreakpoint] = nil
	}
	for bp, entries := range out {
		out[bp] = append(entries, entryBelow(entries, desc))
	}
	return out
}

// fillMissing appends an entry for every selected widget a breakpoint lacks.
func fillMissing(layouts Layouts, widgets []WidgetDescriptor) Layouts {
	out := layouts.Clone()
	if out == nil {
		out = Layouts{}
	}
	if len(widgets) == 0 {
		return out
	}
	if len(out) == 0 {
		out[DefaultBreakpoint] = nil
	}
	for bp, entries := range out {
		present := make(map[string]struct{}, len(entries))
		for _, entry := range entries {
			present[entry.ID] = struct{}{}
		}
		for _, desc := range widgets {
			if _, ok := present[desc.Label]; !ok {
				entries = append(entries, entryBelow(entries, desc))
			}
		}
		out[bp] = entries
	}
	return out
}

func entryBelow(entries []LayoutEntry, desc WidgetDescriptor) LayoutEntry {
	bottom := 0
	for _, entry := range entries {
		bottom = max(bottom, entry.Y+entry.H)
	}
	minW, minH := minimumSize(map[string]WidgetDescriptor{desc.Label: desc}, desc.Label)
	return LayoutEntry{
		ID:   desc.Label,
		X:    0,
		Y:    bottom,
		W:    minW,
		H:    minH,
		MinW: minW,
		MinH: minH,
	}
}

func indexDescriptors(items []WidgetDescriptor) map[string]WidgetDescriptor {
	index := make(map[string]WidgetDescriptor, len(items))
	for _, item := range items {
		index[item.Label] = item
	}
	return index
}
