package clock

import "time"

// Clock is injected into the lifecycle managers so tests can pin time.
type Clock interface {
	Now() time.Time
}

type Real struct{}

func (Real) Now() time.Time { return time.Now().UTC() }

// Fixed always returns the same instant. Handy in tests.
type Fixed struct{ T time.Time }

func (f Fixed) Now() time.Time { return f.T }
