package trigger

import (
	"fmt"
	"strings"
)

// CaloRecord is the calorimeter trigger information for one 25 ns clocktick.
type CaloRecord struct {
	Tick             ClockTick
	Zoning           [NSIDES]ZoningWord
	Multiplicity     [NSIDES]Multiplicity
	LTO              [NSIDES]bool
	VetoMultiplicity Multiplicity
	VetoLTO          bool
	// Bit c is set when crate c asserted the external trigger bit
	XT uint8
}

// NewCaloRecord returns an empty record stamped with a clocktick.
func NewCaloRecord(tick ClockTick) CaloRecord {
	return CaloRecord{Tick: tick}
}

func (r CaloRecord) IsEmpty() bool {
	for side := 0; side < NSIDES; side++ {
		if r.Zoning[side].Any() || r.Multiplicity[side] != 0 || r.LTO[side] {
			return false
		}
	}
	return r.VetoMultiplicity == 0 && !r.VetoLTO && r.XT == 0
}

func (r CaloRecord) String() string {
	return fmt.Sprintf("CT %d |XT %03b|LG %t|HG %d|L1 %t|L0 %t|H1 %d|H0 %d| %s %s",
		r.Tick, r.XT, r.VetoLTO, r.VetoMultiplicity, r.LTO[1], r.LTO[0],
		r.Multiplicity[1], r.Multiplicity[0], r.Zoning[1], r.Zoning[0])
}

// SummaryRecord is the reduction of the sliding window for one 25 ns tick.
type SummaryRecord struct {
	CaloRecord
	SingleSideCoinc            bool
	TotalMultiplicityThreshold bool
	FinalDecision              bool
}

func (s SummaryRecord) String() string {
	return fmt.Sprintf("%s single side %t threshold %t decision %t",
		s.CaloRecord, s.SingleSideCoinc, s.TotalMultiplicityThreshold, s.FinalDecision)
}

// Tracker zone data bits
const (
	TRACKER_INNER             = 0
	TRACKER_OUTER             = 1
	TRACKER_RIGHT             = 2
	TRACKER_MIDDLE            = 3
	TRACKER_LEFT              = 4
	TRACKER_NEAR_SOURCE_RIGHT = 5
	TRACKER_NEAR_SOURCE_LEFT  = 6
	TRACKER_ZONE_DATA_SIZE    = 7
)

// TrackerZoneData is the tracker hit classification of one zone:
// [NSZL NSZR L M R O I], I being bit 0.
type TrackerZoneData uint8

func (d TrackerZoneData) Test(bit int) bool {
	if bit < 0 || bit >= TRACKER_ZONE_DATA_SIZE {
		return false
	}
	return CheckBit(uint16(d), uint16(bit))
}

func (d TrackerZoneData) Set(bit int) TrackerZoneData {
	if bit < 0 || bit >= TRACKER_ZONE_DATA_SIZE {
		return d
	}
	return d | 1<<bit
}

func (d TrackerZoneData) Any() bool {
	return d&(1<<TRACKER_ZONE_DATA_SIZE-1) != 0
}

func (d TrackerZoneData) String() string {
	return fmt.Sprintf("%07b", uint8(d)&(1<<TRACKER_ZONE_DATA_SIZE-1))
}

// TrackerRecord is the tracker trigger information for one 1600 ns tick.
type TrackerRecord struct {
	Tick ClockTick
	Data [NSIDES][NZONES]TrackerZoneData
}

func NewTrackerRecord(tick ClockTick) TrackerRecord {
	return TrackerRecord{Tick: tick}
}

func (t TrackerRecord) IsEmpty() bool {
	for side := 0; side < NSIDES; side++ {
		for zone := 0; zone < NZONES; zone++ {
			if t.Data[side][zone].Any() {
				return false
			}
		}
	}
	return true
}

// ZoningPattern returns the zones of a side with any of the R, M, L bits set.
func (t TrackerRecord) ZoningPattern(side int) ZoningWord {
	var word ZoningWord
	for zone := 0; zone < NZONES; zone++ {
		data := t.Data[side][zone]
		if data.Test(TRACKER_RIGHT) || data.Test(TRACKER_MIDDLE) || data.Test(TRACKER_LEFT) {
			word = word.Set(zone)
		}
	}
	return word
}

// ZoningNearSource returns the zones of a side with a near source bit set.
func (t TrackerRecord) ZoningNearSource(side int) ZoningWord {
	var word ZoningWord
	for zone := 0; zone < NZONES; zone++ {
		data := t.Data[side][zone]
		if data.Test(TRACKER_NEAR_SOURCE_RIGHT) || data.Test(TRACKER_NEAR_SOURCE_LEFT) {
			word = word.Set(zone)
		}
	}
	return word
}

func (t TrackerRecord) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Tracker CT %d", t.Tick)
	for side := 0; side < NSIDES; side++ {
		fmt.Fprintf(&sb, " | S%d", side)
		for zone := 0; zone < NZONES; zone++ {
			fmt.Fprintf(&sb, " [%s]", t.Data[side][zone])
		}
	}
	return sb.String()
}

// CaloCoincidenceRecord is the calorimeter view at 1600 ns used by the
// coincidence stage.
type CaloCoincidenceRecord struct {
	Tick                       ClockTick
	Zoning                     [NSIDES]ZoningWord
	Multiplicity               [NSIDES]Multiplicity
	LTO                        [NSIDES]bool
	VetoMultiplicity           Multiplicity
	VetoLTO                    bool
	XT                         uint8
	SingleSideCoinc            bool
	TotalMultiplicityThreshold bool
	Decision                   bool
}

func (c CaloCoincidenceRecord) IsEmpty() bool {
	for side := 0; side < NSIDES; side++ {
		if c.Zoning[side].Any() || c.Multiplicity[side] != 0 || c.LTO[side] {
			return false
		}
	}
	return c.VetoMultiplicity == 0 && !c.VetoLTO && c.XT == 0 &&
		!c.TotalMultiplicityThreshold && !c.Decision
}

// merge folds a decided 25 ns summary into the 1600 ns view.
func (c *CaloCoincidenceRecord) merge(s SummaryRecord) {
	for side := 0; side < NSIDES; side++ {
		c.Zoning[side] = c.Zoning[side].Or(s.Zoning[side])
		if s.Multiplicity[side] > c.Multiplicity[side] {
			c.Multiplicity[side] = s.Multiplicity[side]
		}
		c.LTO[side] = c.LTO[side] || s.LTO[side]
	}
	if s.VetoMultiplicity > c.VetoMultiplicity {
		c.VetoMultiplicity = s.VetoMultiplicity
	}
	c.VetoLTO = c.VetoLTO || s.VetoLTO
	c.XT |= s.XT
	c.SingleSideCoinc = c.Zoning[0].Any() != c.Zoning[1].Any()
	c.TotalMultiplicityThreshold = c.TotalMultiplicityThreshold || s.TotalMultiplicityThreshold
	c.Decision = c.Decision || s.FinalDecision
}

// CoincidenceRecord is the level two output for one 1600 ns tick.
type CoincidenceRecord struct {
	Tick                       ClockTick
	CaloZoning                 [NSIDES]ZoningWord
	Multiplicity               [NSIDES]Multiplicity
	LTO                        [NSIDES]bool
	VetoMultiplicity           Multiplicity
	VetoLTO                    bool
	XT                         uint8
	SingleSideCoinc            bool
	TotalMultiplicityThreshold bool
	TrackerData                [NSIDES][NZONES]TrackerZoneData
	CoincidenceZoning          [NSIDES]ZoningWord
	Decision                   bool
	Mode                       TriggerMode
}

func newCoincidenceRecord(tick ClockTick) CoincidenceRecord {
	return CoincidenceRecord{Tick: tick, Mode: INVALID}
}

func (c *CoincidenceRecord) copyCalo(calo CaloCoincidenceRecord) {
	c.CaloZoning = calo.Zoning
	c.Multiplicity = calo.Multiplicity
	c.LTO = calo.LTO
	c.VetoMultiplicity = calo.VetoMultiplicity
	c.VetoLTO = calo.VetoLTO
	c.XT = calo.XT
	c.SingleSideCoinc = calo.SingleSideCoinc
	c.TotalMultiplicityThreshold = calo.TotalMultiplicityThreshold
}

func (c CoincidenceRecord) IsEmpty() bool {
	if c.Decision || c.TotalMultiplicityThreshold || c.VetoMultiplicity != 0 || c.VetoLTO || c.XT != 0 {
		return false
	}
	for side := 0; side < NSIDES; side++ {
		if c.CaloZoning[side].Any() || c.Multiplicity[side] != 0 || c.LTO[side] || c.CoincidenceZoning[side].Any() {
			return false
		}
	}
	return true
}

func (c CoincidenceRecord) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Coincidence CT %d mode %s decision %t", c.Tick, c.Mode, c.Decision)
	fmt.Fprintf(&sb, " | calo %s %s", c.CaloZoning[1], c.CaloZoning[0])
	fmt.Fprintf(&sb, " | coinc %s %s", c.CoincidenceZoning[1], c.CoincidenceZoning[0])
	return sb.String()
}

// PreviousEventRecord keeps an accepted prompt coincidence for delayed
// matching during its living window.
type PreviousEventRecord struct {
	Tick    ClockTick
	Counter int
	Record  CoincidenceRecord
}

func (p PreviousEventRecord) Alive() bool {
	return p.Counter > 0
}

// L1Decision marks the clocktick at which the calorimeter decision rises.
type L1Decision struct {
	Tick ClockTick
}

// L2Decision is one entry of the debounce ledger.
type L2Decision struct {
	Tick ClockTick
	Mode TriggerMode
}

func (d L2Decision) String() string {
	return fmt.Sprintf("L2 decision CT %d mode %s", d.Tick, d.Mode)
}
