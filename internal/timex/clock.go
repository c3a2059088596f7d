package timex

import "time"

// Clock abstracts wall-clock reads so expiry checks can be simulated in tests.
type Clock interface {
	Now() time.Time
}

// RealClock reads the system clock.
type RealClock struct{}

func (RealClock) Now() time.Time { return time.Now() }

// FixedClock always returns the same instant. Test helper.
type FixedClock struct {
	Instant time.Time
}

func (c FixedClock) Now() time.Time { return c.Instant }
