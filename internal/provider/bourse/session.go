package bourse

import (
	"time"
	_ "time/tzdata"

	"marketpipeline/internal/market"
)

// Session is the exchange trading window, expressed as wall-clock times of
// day in Location.
type Session struct {
	Location *time.Location
	Open     time.Duration
	Close    time.Duration
}

// DefaultSession is 09:00 to 15:30 Africa/Casablanca, Monday to Friday.
func DefaultSession() Session {
	loc, err := time.LoadLocation("Africa/Casablanca")
	if err != nil {
		loc = time.FixedZone("WET+1", 3600)
	}
	return Session{
		Location: loc,
		Open:     9 * time.Hour,
		Close:    15*time.Hour + 30*time.Minute,
	}
}

// Status classifies t against the session. The window is [Open, Close).
func (s Session) Status(t time.Time) market.Status {
	local := t.In(s.location())
	switch local.Weekday() {
	case time.Saturday, time.Sunday:
		return market.StatusClosed
	}
	// wall-clock time of day, unaffected by zone transitions
	offset := time.Duration(local.Hour())*time.Hour +
		time.Duration(local.Minute())*time.Minute +
		time.Duration(local.Second())*time.Second
	switch {
	case offset < s.Open:
		return market.StatusPreMarket
	case offset >= s.Close:
		return market.StatusAfterHours
	}
	return market.StatusOpen
}

// IsOpen reports whether t falls inside a trading session.
func (s Session) IsOpen(t time.Time) bool { return s.Status(t) == market.StatusOpen }

func (s Session) location() *time.Location {
	if s.Location == nil {
		return time.UTC
	}
	return s.Location
}
