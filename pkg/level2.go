package trigger

import (
	"fmt"
)

// PatternGroup gives the tracker zone data bits read as the right, middle
// and left horizontal pattern. A negative Middle means the group has no
// middle bit.
type PatternGroup struct {
	Right  int `json:"right" yaml:"right"`
	Middle int `json:"middle" yaml:"middle"`
	Left   int `json:"left" yaml:"left"`
}

func (g PatternGroup) hasMiddle() bool {
	return g.Middle >= 0
}

// PatternTable holds the bit groups of every coincidence logic.
type PatternTable struct {
	Prompt PatternGroup `json:"prompt" yaml:"prompt"`
	APE    PatternGroup `json:"ape" yaml:"ape"`
	DAVE   PatternGroup `json:"dave" yaml:"dave"`
}

func DefaultPatternTable() PatternTable {
	general := PatternGroup{Right: TRACKER_RIGHT, Middle: TRACKER_MIDDLE, Left: TRACKER_LEFT}
	return PatternTable{
		Prompt: general,
		APE:    general,
		DAVE:   PatternGroup{Right: TRACKER_NEAR_SOURCE_RIGHT, Middle: -1, Left: TRACKER_NEAR_SOURCE_LEFT},
	}
}

// Level2 matches tracker records against the calorimeter (prompt) and
// against previous accepted events (delayed).
type Level2 struct {
	patterns PatternTable
	living   int
	previous *ring[PreviousEventRecord]
}

func NewLevel2(patterns PatternTable, living int, depth int) *Level2 {
	return &Level2{
		patterns: patterns,
		living:   living,
		previous: newRing[PreviousEventRecord](depth),
	}
}

// Prompt runs the CARACO logic: a tracker pattern in a zone coincides with
// calorimeter activity in the same zone or, for the side bits, in the
// neighbour zone they point to.
func (l *Level2) Prompt(calo CaloCoincidenceRecord, tracker TrackerRecord) CoincidenceRecord {
	record := newCoincidenceRecord(calo.Tick)
	record.copyCalo(calo)
	record.TrackerData = tracker.Data
	if !calo.Decision {
		return record
	}

	g := l.patterns.Prompt
	for side := 0; side < NSIDES; side++ {
		zoning := calo.Zoning[side]
		for zone := 0; zone < NZONES; zone++ {
			data := tracker.Data[side][zone]
			match := false
			if g.hasMiddle() && data.Test(g.Middle) && zoning.Test(zone) {
				match = true
			}
			if data.Test(g.Right) {
				if zoning.Test(zone) || (zone+1 < NZONES && zoning.Test(zone+1)) {
					match = true
				}
			}
			if data.Test(g.Left) {
				if zoning.Test(zone) || (zone > 0 && zoning.Test(zone-1)) {
					match = true
				}
			}
			if match {
				record.CoincidenceZoning[side] = record.CoincidenceZoning[side].Set(zone)
				record.Decision = true
			}
		}
	}
	if record.Decision {
		record.Mode = CARACO
		if configuration.Verbosity > 2 {
			logger.Info(fmt.Sprintf("CARACO at CT %d: %s", record.Tick, record), "level2")
		}
	}
	return record
}

// Delayed matches the tracker record against one previous event record,
// APE first and DAVE only when APE did not match.
func (l *Level2) Delayed(tracker TrackerRecord, per PreviousEventRecord) CoincidenceRecord {
	record := newCoincidenceRecord(tracker.Tick)
	record.TrackerData = tracker.Data
	if !per.Alive() {
		return record
	}

	if zoning, ok := continuation(l.patterns.APE, tracker, per.Record); ok {
		record.CoincidenceZoning = zoning
		record.Decision = true
		record.Mode = APE
	} else if zoning, ok := continuation(l.patterns.DAVE, tracker, per.Record); ok {
		record.CoincidenceZoning = zoning
		record.Decision = true
		record.Mode = DAVE
	}
	if record.Decision && configuration.Verbosity > 2 {
		logger.Info(fmt.Sprintf("%s at CT %d against CT %d", record.Mode, record.Tick, per.Tick), "level2")
	}
	return record
}

// continuation compares the bits of one pattern group in the current
// tracker record with the previous event record. A previous hit on either
// side counts.
func continuation(g PatternGroup, tracker TrackerRecord, previous CoincidenceRecord) ([NSIDES]ZoningWord, bool) {
	prev := func(zone int, bits ...int) bool {
		if zone < 0 || zone >= NZONES {
			return false
		}
		for side := 0; side < NSIDES; side++ {
			for _, bit := range bits {
				if previous.TrackerData[side][zone].Test(bit) {
					return true
				}
			}
		}
		return false
	}
	// Bits of the same zone continuing a left or right hit
	sameLeft, sameRight := []int{g.Left, g.Right}, []int{g.Right, g.Left}
	if g.hasMiddle() {
		sameLeft, sameRight = []int{g.Left, g.Middle}, []int{g.Right, g.Middle}
	}

	var zoning [NSIDES]ZoningWord
	found := false
	for side := 0; side < NSIDES; side++ {
		for zone := 0; zone < NZONES; zone++ {
			current := tracker.Data[side][zone]
			match := false
			if current.Test(g.Left) && (prev(zone, sameLeft...) || prev(zone-1, g.Right)) {
				match = true
			}
			if g.hasMiddle() && current.Test(g.Middle) && prev(zone, g.Left, g.Middle, g.Right) {
				match = true
			}
			if current.Test(g.Right) && (prev(zone, sameRight...) || prev(zone+1, g.Left)) {
				match = true
			}
			if match {
				zoning[side] = zoning[side].Set(zone)
				found = true
			}
		}
	}
	return zoning, found
}

// Age updates the counters of the previous event records at a 1600 ns tick
// and drops the expired ones.
func (l *Level2) Age(tick ClockTick) {
	l.previous.Each(func(per *PreviousEventRecord) bool {
		per.Counter = l.living - int(tick-per.Tick)
		return true
	})
	l.previous.Filter(func(per PreviousEventRecord) bool {
		return per.Alive()
	})
}

// Remember keeps an accepted prompt decision for delayed matching.
func (l *Level2) Remember(record CoincidenceRecord) {
	if !record.Decision || record.Mode != CARACO {
		return
	}
	l.previous.Push(PreviousEventRecord{
		Tick:    record.Tick,
		Counter: l.living,
		Record:  record,
	})
}

// Previous returns the live previous event records, most recent first.
func (l *Level2) Previous() []PreviousEventRecord {
	records := make([]PreviousEventRecord, 0, l.previous.Len())
	l.previous.Each(func(per *PreviousEventRecord) bool {
		records = append(records, *per)
		return true
	})
	return records
}

// DelayedAny matches the tracker record against the live previous event
// records, most recent first, and returns the first match.
func (l *Level2) DelayedAny(tracker TrackerRecord) CoincidenceRecord {
	record := newCoincidenceRecord(tracker.Tick)
	record.TrackerData = tracker.Data
	if tracker.IsEmpty() {
		return record
	}
	for _, per := range l.Previous() {
		delayed := l.Delayed(tracker, per)
		if delayed.Decision {
			return delayed
		}
	}
	return record
}

func (l *Level2) Reset() {
	l.previous.Reset()
}
