package trigger

// ClockTick is a trigger clocktick id. The calorimeter stage counts 25 ns
// ticks, the coincidence stage counts 1600 ns ticks.
type ClockTick int64

const InvalidClockTick ClockTick = -1

const (
	CLOCKTICK_25NS   = 25
	CLOCKTICK_1600NS = 1600
	// Number of 25 ns ticks in one 1600 ns tick
	TICKS_25NS_PER_1600NS = CLOCKTICK_1600NS / CLOCKTICK_25NS
)

func (c ClockTick) IsValid() bool {
	return c >= 0
}

// Clocktick25nsTo1600ns returns the 1600 ns tick containing a 25 ns tick.
func Clocktick25nsTo1600ns(tick ClockTick) ClockTick {
	if !tick.IsValid() {
		return InvalidClockTick
	}
	return tick / TICKS_25NS_PER_1600NS
}
