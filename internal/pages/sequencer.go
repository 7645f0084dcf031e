package pages

import "time"

// Sequencer cycles through pages, holding each for a fixed duration. Time
// is supplied by the caller, so a Sequencer is deterministic under an
// injected clock.
type Sequencer struct {
	pages    []Descriptor
	duration time.Duration
	index    int
	entered  time.Time
}

// NewSequencer starts on the first page at now. pages must not be empty.
func NewSequencer(pages []Descriptor, duration time.Duration, now time.Time) *Sequencer {
	if len(pages) == 0 {
		panic("pages: NewSequencer with no pages")
	}
	return &Sequencer{
		pages:    pages,
		duration: duration,
		entered:  now,
	}
}

// Current returns the page on screen.
func (s *Sequencer) Current() Descriptor {
	return s.pages[s.index]
}

// Index returns the position of the current page.
func (s *Sequencer) Index() int {
	return s.index
}

// Len returns the number of pages.
func (s *Sequencer) Len() int {
	return len(s.pages)
}

// Next returns the page after the current one, wrapping around.
func (s *Sequencer) Next() Descriptor {
	return s.pages[(s.index+1)%len(s.pages)]
}

// AdvanceIfDue moves to the next page, wrapping around, when the current
// page has been shown for at least the page duration. The new page is
// entered at now. It reports whether the page changed.
func (s *Sequencer) AdvanceIfDue(now time.Time) bool {
	if now.Sub(s.entered) < s.duration {
		return false
	}
	s.index = (s.index + 1) % len(s.pages)
	s.entered = now
	return true
}
