package trigger

import (
	"slices"
)

// PrimitiveStream gives access to the calorimeter primitive words of one
// event, indexed by 25 ns clocktick.
type PrimitiveStream interface {
	MinTick() ClockTick
	MaxTick() ClockTick
	WordsAt(tick ClockTick) []PrimitiveWord
}

// TrackerProvider gives access to the tracker records of one event,
// indexed by 1600 ns clocktick.
type TrackerProvider interface {
	MinTick() ClockTick
	MaxTick() ClockTick
	RecordAt(tick ClockTick) (TrackerRecord, bool)
}

type EventType struct {
	EventID uint32
	Calo    PrimitiveStream
	Tracker TrackerProvider
}

// WordStream is an in-memory PrimitiveStream. The tick range covers the
// words it holds and can be widened with SetRange.
type WordStream struct {
	words   map[ClockTick][]PrimitiveWord
	minTick ClockTick
	maxTick ClockTick
}

func NewWordStream(words ...PrimitiveWord) *WordStream {
	stream := &WordStream{
		words:   make(map[ClockTick][]PrimitiveWord),
		minTick: InvalidClockTick,
		maxTick: InvalidClockTick,
	}
	for _, word := range words {
		stream.Add(word)
	}
	return stream
}

func (s *WordStream) Add(word PrimitiveWord) {
	s.words[word.Tick] = append(s.words[word.Tick], word)
	s.extend(word.Tick)
}

// SetRange declares the tick range of the stream, which may contain ticks
// without words.
func (s *WordStream) SetRange(minTick ClockTick, maxTick ClockTick) {
	s.minTick = minTick
	s.maxTick = maxTick
	for tick := range s.words {
		s.extend(tick)
	}
}

func (s *WordStream) extend(tick ClockTick) {
	if !s.minTick.IsValid() || tick < s.minTick {
		s.minTick = tick
	}
	if !s.maxTick.IsValid() || tick > s.maxTick {
		s.maxTick = tick
	}
}

func (s *WordStream) MinTick() ClockTick {
	return s.minTick
}

func (s *WordStream) MaxTick() ClockTick {
	return s.maxTick
}

func (s *WordStream) WordsAt(tick ClockTick) []PrimitiveWord {
	return s.words[tick]
}

// Ticks returns the ticks holding words, sorted.
func (s *WordStream) Ticks() []ClockTick {
	ticks := make([]ClockTick, 0, len(s.words))
	for tick := range s.words {
		ticks = append(ticks, tick)
	}
	slices.Sort(ticks)
	return ticks
}

// TrackerStream is an in-memory TrackerProvider.
type TrackerStream struct {
	records map[ClockTick]TrackerRecord
	minTick ClockTick
	maxTick ClockTick
}

func NewTrackerStream(records ...TrackerRecord) *TrackerStream {
	stream := &TrackerStream{
		records: make(map[ClockTick]TrackerRecord),
		minTick: InvalidClockTick,
		maxTick: InvalidClockTick,
	}
	for _, record := range records {
		stream.Add(record)
	}
	return stream
}

// Add stores a record, merging its bits with a record already stored at the
// same tick.
func (s *TrackerStream) Add(record TrackerRecord) {
	if stored, ok := s.records[record.Tick]; ok {
		for side := 0; side < NSIDES; side++ {
			for zone := 0; zone < NZONES; zone++ {
				record.Data[side][zone] |= stored.Data[side][zone]
			}
		}
	}
	s.records[record.Tick] = record
	if !s.minTick.IsValid() || record.Tick < s.minTick {
		s.minTick = record.Tick
	}
	if !s.maxTick.IsValid() || record.Tick > s.maxTick {
		s.maxTick = record.Tick
	}
}

func (s *TrackerStream) MinTick() ClockTick {
	return s.minTick
}

func (s *TrackerStream) MaxTick() ClockTick {
	return s.maxTick
}

func (s *TrackerStream) RecordAt(tick ClockTick) (TrackerRecord, bool) {
	record, ok := s.records[tick]
	if !ok {
		return NewTrackerRecord(tick), false
	}
	return record, true
}

// Ticks returns the ticks holding a record, sorted.
func (s *TrackerStream) Ticks() []ClockTick {
	ticks := make([]ClockTick, 0, len(s.records))
	for tick := range s.records {
		ticks = append(ticks, tick)
	}
	slices.Sort(ticks)
	return ticks
}
