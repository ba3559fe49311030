package usecase

import "time"

// LocationClock reads the wall clock in a fixed location.
type LocationClock struct {
	loc *time.Location
}

// NewLocationClock creates a clock for loc. A nil loc means time.Local.
func NewLocationClock(loc *time.Location) *LocationClock {
	if loc == nil {
		loc = time.Local
	}
	return &LocationClock{loc: loc}
}

// Now returns the current time in the clock's location.
func (c *LocationClock) Now() time.Time {
	return time.Now().In(c.loc)
}
