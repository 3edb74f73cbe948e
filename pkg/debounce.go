package trigger

import (
	"fmt"
)

// Ledger debounces level two decisions: a candidate falling inside the gate
// of an already accepted decision is suppressed.
type Ledger struct {
	gateWidth ClockTick
	// Accepted decisions whose gate may still cover a future tick
	open     []L2Decision
	accepted []L2Decision
	last     ClockTick
}

func NewLedger(gateWidth int) *Ledger {
	return &Ledger{
		gateWidth: ClockTick(gateWidth),
		open:      make([]L2Decision, 0),
		accepted:  make([]L2Decision, 0),
		last:      InvalidClockTick,
	}
}

// Accept records a candidate decision. It returns the stored decision and
// true when the candidate opens a new gate, false when it is suppressed.
func (l *Ledger) Accept(tick ClockTick, mode TriggerMode) (L2Decision, bool, error) {
	if tick < l.last {
		return L2Decision{}, false, fmt.Errorf("ledger at CT %d, candidate at CT %d: %w", l.last, tick, ErrTickOrder)
	}
	l.last = tick
	l.prune(tick)

	if entry, open := l.Covers(tick); open {
		if configuration.Verbosity > 2 {
			logger.Info(fmt.Sprintf("Suppressed %s candidate at CT %d, gate opened at CT %d", mode, tick, entry.Tick), "debounce")
		}
		return entry, false, nil
	}

	decision := L2Decision{Tick: tick, Mode: mode}
	l.open = append(l.open, decision)
	l.accepted = append(l.accepted, decision)
	return decision, true, nil
}

// Covers returns the accepted decision whose gate is open at tick, if any.
func (l *Ledger) Covers(tick ClockTick) (L2Decision, bool) {
	for _, entry := range l.open {
		if entry.Tick <= tick && tick < entry.Tick+l.gateWidth {
			return entry, true
		}
	}
	return L2Decision{}, false
}

// prune drops decisions whose gate closed before tick. Ticks never go
// backwards, so they can not suppress anything anymore.
func (l *Ledger) prune(tick ClockTick) {
	kept := l.open[:0]
	for _, entry := range l.open {
		if entry.Tick+l.gateWidth > tick {
			kept = append(kept, entry)
		}
	}
	l.open = kept
}

// Decisions returns every accepted decision of the run.
func (l *Ledger) Decisions() []L2Decision {
	decisions := make([]L2Decision, len(l.accepted))
	copy(decisions, l.accepted)
	return decisions
}

func (l *Ledger) Reset() {
	l.open = l.open[:0]
	l.accepted = make([]L2Decision, 0)
	l.last = InvalidClockTick
}
