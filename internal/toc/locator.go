package toc

import (
	"math"
	"sync"
)

// DefaultThreshold is the distance from the top of the viewport at which a
// heading counts as being read.
const DefaultThreshold = 200

// Observer reports where the heading at position i of the indexed list
// currently sits relative to the top of the viewport. ok is false when the
// heading is not laid out.
type Observer interface {
	Offset(i int, h Heading) (offset float64, ok bool)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(i int, h Heading) (float64, bool)

func (f ObserverFunc) Offset(i int, h Heading) (float64, bool) { return f(i, h) }

// Offsets is an Observer backed by offsets in indexed-list order, as
// reported by a browser. Headings past the end or at NaN are not laid out.
// Lookup is positional so headings sharing an id stay distinct.
type Offsets []float64

func (o Offsets) Offset(i int, _ Heading) (float64, bool) {
	if i < 0 || i >= len(o) || math.IsNaN(o[i]) {
		return 0, false
	}
	return o[i], true
}

// State is the lifecycle state of a Locator.
type State int

const (
	Uninitialized State = iota
	Idle
)

func (s State) String() string {
	if s == Idle {
		return "idle"
	}
	return "uninitialized"
}

// Locator tracks the active heading of one mounted page.
type Locator struct {
	mu        sync.Mutex
	threshold float64
	state     State
	headings  []Heading
	obs       Observer
	active    int
}

// NewLocator returns an unmounted Locator. A non-positive threshold uses
// DefaultThreshold.
func NewLocator(threshold float64) *Locator {
	if threshold <= 0 {
		threshold = DefaultThreshold
	}
	return &Locator{threshold: threshold, active: -1}
}

// Mount indexes headings, computes the initial active entry and moves the
// Locator to Idle. It returns the active index.
func (l *Locator) Mount(headings []Heading, obs Observer) int {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.headings = Indexed(headings)
	l.obs = obs
	l.state = Idle
	l.active = -1
	if len(l.headings) > 0 {
		l.active = 0
	}
	l.recompute()
	return l.active
}

// Scroll recomputes the active entry. It returns -1 when unmounted.
func (l *Locator) Scroll() int {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.state != Idle {
		return -1
	}
	l.recompute()
	return l.active
}

// Observe swaps the observer and recomputes, for callers that receive a
// fresh set of offsets with every scroll event.
func (l *Locator) Observe(obs Observer) int {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.state != Idle {
		return -1
	}
	l.obs = obs
	l.recompute()
	return l.active
}

// Unmount drops the observer and headings.
func (l *Locator) Unmount() {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.state = Uninitialized
	l.obs = nil
	l.headings = nil
	l.active = -1
}

// Active returns the current active index, -1 when there is none.
func (l *Locator) Active() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.active
}

// State returns the lifecycle state.
func (l *Locator) State() State {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.state
}

// Headings returns the indexed headings of the mounted page.
func (l *Locator) Headings() []Heading {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]Heading(nil), l.headings...)
}

// recompute keeps the previous index when no heading is laid out.
func (l *Locator) recompute() {
	if l.obs == nil || len(l.headings) == 0 {
		return
	}
	offsets := make([]float64, len(l.headings))
	for i, h := range l.headings {
		v, ok := l.obs.Offset(i, h)
		if !ok {
			v = math.NaN()
		}
		offsets[i] = v
	}
	if i := Nearest(offsets, l.threshold); i >= 0 {
		l.active = i
	}
}

// Nearest returns the index of the offset closest to threshold. NaN entries
// are skipped. Ties go to the earliest entry. It returns -1 when no offset
// is usable.
func Nearest(offsets []float64, threshold float64) int {
	best, bestDist := -1, math.Inf(1)
	for i, v := range offsets {
		if math.IsNaN(v) {
			continue
		}
		if d := math.Abs(v - threshold); d < bestDist {
			best, bestDist = i, d
		}
	}
	return best
}
