package view

// Dispatcher hands resolved selections to the annotation collaborator.
// It remembers the last dispatched selection so pointer noise without a
// new click does not re-trigger a lookup.
type Dispatcher struct {
	sink func(Selection)
	last *Selection
}

// NewDispatcher creates a dispatcher delivering to sink. A nil sink
// swallows selections.
func NewDispatcher(sink func(Selection)) *Dispatcher {
	return &Dispatcher{sink: sink}
}

// Dispatch delivers the selection unless it equals the previous one.
// Reports whether a delivery happened.
func (d *Dispatcher) Dispatch(sel Selection) bool {
	if d.last != nil && *d.last == sel {
		return false
	}
	s := sel
	d.last = &s
	if d.sink != nil {
		d.sink(sel)
	}
	return true
}

// Last returns the most recently dispatched selection, if any.
func (d *Dispatcher) Last() (Selection, bool) {
	if d.last == nil {
		return Selection{}, false
	}
	return *d.last, true
}

// Clear forgets the last selection so the next identical click
// dispatches again (used after a dataset reload).
func (d *Dispatcher) Clear() {
	d.last = nil
}
