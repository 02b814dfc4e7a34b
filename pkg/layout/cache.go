package layout

// Engine remembers the last computed region list so that callers can tell
// whether geometry changed between two passes. It is owned by the bar's
// event loop and is not safe for concurrent use.
type Engine struct {
	regions []Rect
}

// NewEngine creates an engine with no previous layout.
func NewEngine() *Engine {
	return &Engine{}
}

// Relayout computes regions for items and reports whether they differ from
// the previous pass. The first pass always reports a change.
func (e *Engine) Relayout(items []Item, width, height uint32) ([]Rect, bool) {
	next := Compute(items, width, height)
	changed := e.regions == nil || !Equal(e.regions, next)
	e.regions = next
	return e.Regions(), changed
}

// Regions returns a copy of the last computed regions so callers cannot
// mutate the engine's state.
func (e *Engine) Regions() []Rect {
	cp := make([]Rect, len(e.regions))
	copy(cp, e.regions)
	return cp
}
