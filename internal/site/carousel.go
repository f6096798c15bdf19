package site

import "time"

// CarouselCooldown is how long a step locks out further steps.
const CarouselCooldown = 500 * time.Millisecond

// Carousel is the index of the active slide in [0, n-1]. Step moves one
// slide at a time and is ignored while the cooldown from the previous step
// is running; static/carousel.js applies the same rules to wheel and key
// input. Jump moves directly and ignores the cooldown.
type Carousel struct {
	n           int
	active      int
	cooldown    time.Duration
	lockedUntil time.Time
	now         func() time.Time
}

func NewCarousel(n int, cooldown time.Duration) *Carousel {
	if n < 0 {
		n = 0
	}
	return &Carousel{n: n, cooldown: cooldown, now: time.Now}
}

func (c *Carousel) Active() int { return c.active }

func (c *Carousel) Len() int { return c.n }

// Step moves one slide forward for delta > 0 and back for delta < 0. Any
// step attempted outside the cooldown starts a new cooldown, even one at
// either end that does not move. It reports whether the index changed.
func (c *Carousel) Step(delta int) bool {
	now := c.now()
	if now.Before(c.lockedUntil) {
		return false
	}
	c.lockedUntil = now.Add(c.cooldown)

	next := c.active
	switch {
	case delta > 0:
		next++
	case delta < 0:
		next--
	}
	if next < 0 || next >= c.n {
		return false
	}
	c.active = next
	return true
}

// Jump sets the active slide, clamped into range.
func (c *Carousel) Jump(i int) {
	c.active = clamp(i, c.n)
}

// CarouselView is a rendered carousel position.
type CarouselView struct {
	Active  int
	Prev    int
	Next    int
	HasPrev bool
	HasNext bool
}

// View renders the current position. The prev and next targets are where a
// step from here would land; a running cooldown does not hide them.
func (c *Carousel) View() CarouselView {
	prev, hasPrev := c.neighbour(-1)
	next, hasNext := c.neighbour(1)
	return CarouselView{
		Active:  c.active,
		Prev:    prev,
		Next:    next,
		HasPrev: hasPrev,
		HasNext: hasNext,
	}
}

func (c *Carousel) neighbour(delta int) (int, bool) {
	peek := *c
	peek.lockedUntil = time.Time{}
	moved := peek.Step(delta)
	return peek.active, moved
}

func clamp(i, n int) int {
	switch {
	case n == 0 || i < 0:
		return 0
	case i >= n:
		return n - 1
	default:
		return i
	}
}
