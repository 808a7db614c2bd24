package clock

import "time"

// StampLayout is the day.month format transaction records are stamped with.
// The year is intentionally absent; history ordering works on calendar
// position within a year.
const StampLayout = "02.01"

// Clock supplies the current time. Inject Fixed in tests and System in
// production; nothing in the domain reads the wall clock directly.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// System returns a wall-clock backed Clock.
func System() Clock { return systemClock{} }

type fixedClock struct {
	at time.Time
}

func (f fixedClock) Now() time.Time { return f.at }

// Fixed returns a Clock frozen at the given instant.
func Fixed(at time.Time) Clock { return fixedClock{at: at} }

// Stamp formats an instant as a day.month transaction stamp.
func Stamp(at time.Time) string {
	return at.Format(StampLayout)
}
