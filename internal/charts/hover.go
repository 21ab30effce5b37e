package charts

// HoverState tracks which period of one chart is under the pointer. The zero
// value means nothing is hovered.
type HoverState struct {
	index   int
	hovered bool
}

// Enter marks period i as hovered, replacing any previous period.
func (h *HoverState) Enter(i int) {
	h.index = i
	h.hovered = true
}

// Leave clears the hovered period.
func (h *HoverState) Leave() {
	h.index = 0
	h.hovered = false
}

// Reset returns to the idle state. Called whenever the dataset changes.
func (h *HoverState) Reset() {
	h.Leave()
}

// Index reports the hovered period, if any.
func (h HoverState) Index() (int, bool) {
	return h.index, h.hovered
}
