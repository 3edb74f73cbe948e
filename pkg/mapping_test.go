package trigger

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIdentityMapping(t *testing.T) {
	mapping := IdentityMapping()

	for crate := 0; crate < NCRATES; crate++ {
		resolved, err := mapping.ResolveCrate(crate)
		require.NoError(t, err)
		assert.Equal(t, crate, resolved)
	}
	coordinate, err := mapping.ResolveTracker(1*NZONES + 7)
	require.NoError(t, err)
	assert.Equal(t, TrackerCoordinate{Side: 1, Zone: 7}, coordinate)

	_, err = mapping.ResolveCrate(NCRATES)
	var coordErr *ErrCoordinate
	require.True(t, errors.As(err, &coordErr))
	assert.Equal(t, "calo", coordErr.Kind)

	_, err = mapping.ResolveTracker(NSIDES * NZONES)
	require.True(t, errors.As(err, &coordErr))
	assert.Equal(t, "tracker", coordErr.Kind)
}

func TestMappingRejectsOutOfRangeCoordinates(t *testing.T) {
	mapping := ChannelMapping{
		Calo:    map[int]int{40: 3},
		Tracker: map[int]TrackerCoordinate{90: {Side: 0, Zone: 10}},
	}
	_, err := mapping.ResolveCrate(40)
	assert.Error(t, err)

	_, err = mapping.ResolveTracker(90)
	var coordErr *ErrCoordinate
	require.True(t, errors.As(err, &coordErr))
	assert.Equal(t, 10, coordErr.Zone)
}

func TestMappingClone(t *testing.T) {
	mapping := IdentityMapping()
	clone := mapping.Clone()
	clone.Calo[0] = 2
	delete(clone.Tracker, 0)

	assert.Equal(t, 0, mapping.Calo[0])
	assert.Contains(t, mapping.Tracker, 0)
}

func TestBuildEvent(t *testing.T) {
	mapping := ChannelMapping{
		Calo:    map[int]int{100: CRATE_MAIN_WALL_SIDE_1, 101: CRATE_XWALL_GVETO},
		Tracker: map[int]TrackerCoordinate{200: {Side: 0, Zone: 4}, 201: {Side: 0, Zone: 5}},
	}
	word := NewMainWallWord(0, 0, 2, ZoningWord(0).Set(6), false, false)
	raw := RawEvent{
		EventID:   12,
		CaloRange: []ClockTick{0, 20},
		Calo:      []RawCaloWord{{Tick: 10, ElecID: 100, Word: word.Word}},
		Tracker: []RawTrackerWord{
			{Tick: 3, ElecID: 200, Data: 1 << TRACKER_MIDDLE},
			{Tick: 3, ElecID: 201, Data: 1<<TRACKER_LEFT | 0x80},
		},
	}

	event, err := BuildEvent(raw, mapping)
	require.NoError(t, err)
	assert.Equal(t, uint32(12), event.EventID)
	assert.Equal(t, ClockTick(0), event.Calo.MinTick())
	assert.Equal(t, ClockTick(20), event.Calo.MaxTick())

	words := event.Calo.WordsAt(10)
	require.Len(t, words, 1)
	assert.Equal(t, CRATE_MAIN_WALL_SIDE_1, words[0].Crate)
	assert.Equal(t, ZoningWord(0).Set(6), words[0].Zoning())

	record, ok := event.Tracker.RecordAt(3)
	require.True(t, ok)
	assert.True(t, record.Data[0][4].Test(TRACKER_MIDDLE))
	assert.Equal(t, TrackerZoneData(1<<TRACKER_LEFT), record.Data[0][5])

	_, ok = event.Tracker.RecordAt(4)
	assert.False(t, ok)
}

func TestBuildEventUnknownChannel(t *testing.T) {
	raw := RawEvent{EventID: 1, Calo: []RawCaloWord{{Tick: 0, ElecID: 55}}}
	_, err := BuildEvent(raw, IdentityMapping())
	var coordErr *ErrCoordinate
	require.True(t, errors.As(err, &coordErr))
	assert.Equal(t, 55, coordErr.ElecID)
}

func TestWordStreamRange(t *testing.T) {
	stream := NewWordStream(
		NewMainWallWord(12, 0, 1, 0, false, false),
		NewMainWallWord(4, 1, 1, 0, false, false),
		NewMainWallWord(12, 1, 1, 0, false, false),
	)
	assert.Equal(t, ClockTick(4), stream.MinTick())
	assert.Equal(t, ClockTick(12), stream.MaxTick())
	assert.Equal(t, []ClockTick{4, 12}, stream.Ticks())
	assert.Len(t, stream.WordsAt(12), 2)
	assert.Empty(t, stream.WordsAt(5))

	// A declared range never hides stored words
	stream.SetRange(6, 8)
	assert.Equal(t, ClockTick(4), stream.MinTick())
	assert.Equal(t, ClockTick(12), stream.MaxTick())
}
