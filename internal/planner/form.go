package planner

import "sync"

// FormControl is what the orchestrator needs from the trip entry form.
type FormControl interface {
	Clear()
	Hide()
}

// Form holds the "add trip" inputs and whether the form is shown.
type Form struct {
	mu        sync.Mutex
	Location  string
	Departing string
	Visible   bool
}

// Toggle flips visibility, as the "Add Trip" control does.
func (f *Form) Toggle() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Visible = !f.Visible
}

func (f *Form) Clear() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Location = ""
	f.Departing = ""
}

func (f *Form) Hide() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Visible = false
}
