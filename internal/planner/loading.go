package planner

import (
	"sync"
	"sync/atomic"
)

// Indicator is the "operation in progress" signal shown to the user.
type Indicator interface {
	Show()
	Hide()
}

// Loading hands out guards over an Indicator.
type Loading struct {
	ind Indicator
}

func NewLoading(ind Indicator) Loading {
	if ind == nil {
		ind = &Flag{}
	}
	return Loading{ind: ind}
}

// Begin shows the indicator. The returned Guard hides it again; Release is
// safe to call more than once and is meant to be deferred.
func (l Loading) Begin() *Guard {
	l.ind.Show()
	return &Guard{ind: l.ind}
}

type Guard struct {
	ind  Indicator
	once sync.Once
}

func (g *Guard) Release() {
	g.once.Do(g.ind.Hide)
}

// Flag is a single shared visibility bit. Overlapping operations are not
// counted: whichever Hide comes last wins, even if another operation is
// still running.
type Flag struct {
	visible atomic.Bool
	shows   atomic.Int64
}

func (f *Flag) Show() {
	f.shows.Add(1)
	f.visible.Store(true)
}

func (f *Flag) Hide() { f.visible.Store(false) }

func (f *Flag) Visible() bool { return f.visible.Load() }

// Shows counts how many times the indicator was raised.
func (f *Flag) Shows() int64 { return f.shows.Load() }
