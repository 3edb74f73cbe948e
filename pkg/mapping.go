package trigger

import (
	"fmt"

	"golang.org/x/exp/maps"
)

type TrackerCoordinate struct {
	Side int `db:"Side" json:"side"`
	Zone int `db:"Zone" json:"zone"`
}

// ChannelMapping resolves electronic ids to trigger coordinates: calorimeter
// trigger boards to crates and tracker trigger boards to side and zone.
type ChannelMapping struct {
	Calo    map[int]int
	Tracker map[int]TrackerCoordinate
}

// IdentityMapping maps calorimeter board n to crate n and tracker board
// side*NZONES+zone to (side, zone).
func IdentityMapping() ChannelMapping {
	mapping := ChannelMapping{
		Calo:    make(map[int]int),
		Tracker: make(map[int]TrackerCoordinate),
	}
	for crate := 0; crate < NCRATES; crate++ {
		mapping.Calo[crate] = crate
	}
	for side := 0; side < NSIDES; side++ {
		for zone := 0; zone < NZONES; zone++ {
			mapping.Tracker[side*NZONES+zone] = TrackerCoordinate{Side: side, Zone: zone}
		}
	}
	return mapping
}

func (m ChannelMapping) Clone() ChannelMapping {
	return ChannelMapping{
		Calo:    maps.Clone(m.Calo),
		Tracker: maps.Clone(m.Tracker),
	}
}

func (m ChannelMapping) ResolveCrate(elecID int) (int, error) {
	crate, ok := m.Calo[elecID]
	if !ok || crate < 0 || crate >= NCRATES {
		return 0, &ErrCoordinate{Kind: "calo", ElecID: elecID, Side: -1, Zone: -1}
	}
	return crate, nil
}

func (m ChannelMapping) ResolveTracker(elecID int) (TrackerCoordinate, error) {
	coordinate, ok := m.Tracker[elecID]
	if !ok {
		return TrackerCoordinate{}, &ErrCoordinate{Kind: "tracker", ElecID: elecID, Side: -1, Zone: -1}
	}
	if coordinate.Side < 0 || coordinate.Side >= NSIDES || coordinate.Zone < 0 || coordinate.Zone >= NZONES {
		return TrackerCoordinate{}, &ErrCoordinate{Kind: "tracker", ElecID: elecID, Side: coordinate.Side, Zone: coordinate.Zone}
	}
	return coordinate, nil
}

// RawCaloWord is a crate word as read from the input, addressed by the
// electronic id of its trigger board.
type RawCaloWord struct {
	Tick   ClockTick `json:"clocktick_25ns"`
	ElecID int       `json:"elec_id"`
	Word   uint32    `json:"word"`
}

// RawTrackerWord is the zone data of one tracker trigger board.
type RawTrackerWord struct {
	Tick   ClockTick `json:"clocktick_1600ns"`
	ElecID int       `json:"elec_id"`
	Data   uint8     `json:"data"`
}

// RawEvent is one input event before channel mapping. CaloRange, when set,
// declares the 25 ns tick range of the calorimeter stream.
type RawEvent struct {
	EventID   uint32           `json:"event_id"`
	CaloRange []ClockTick      `json:"calo_range,omitempty"`
	Calo      []RawCaloWord    `json:"calo"`
	Tracker   []RawTrackerWord `json:"tracker"`
}

// BuildEvent resolves the electronic ids of a raw event into trigger
// streams.
func BuildEvent(raw RawEvent, mapping ChannelMapping) (EventType, error) {
	calo := NewWordStream()
	for _, word := range raw.Calo {
		crate, err := mapping.ResolveCrate(word.ElecID)
		if err != nil {
			return EventType{}, fmt.Errorf("event %d: %w", raw.EventID, err)
		}
		calo.Add(PrimitiveWord{Tick: word.Tick, Crate: crate, Word: word.Word})
	}
	if len(raw.CaloRange) == 2 {
		calo.SetRange(raw.CaloRange[0], raw.CaloRange[1])
	}

	tracker := NewTrackerStream()
	for _, word := range raw.Tracker {
		coordinate, err := mapping.ResolveTracker(word.ElecID)
		if err != nil {
			return EventType{}, fmt.Errorf("event %d: %w", raw.EventID, err)
		}
		record := NewTrackerRecord(word.Tick)
		record.Data[coordinate.Side][coordinate.Zone] = TrackerZoneData(word.Data) & (1<<TRACKER_ZONE_DATA_SIZE - 1)
		tracker.Add(record)
	}

	if configuration.Verbosity > 2 {
		message := fmt.Sprintf("Event %d: calo words at CT %v, tracker records at CT %v", raw.EventID, calo.Ticks(), tracker.Ticks())
		logger.Info(message, "mapping")
	}
	return EventType{EventID: raw.EventID, Calo: calo, Tracker: tracker}, nil
}
