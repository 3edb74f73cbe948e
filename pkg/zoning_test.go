package trigger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestZoningWord(t *testing.T) {
	var z ZoningWord
	z = z.Set(0).Set(3).Set(9)

	assert.True(t, z.Test(0))
	assert.True(t, z.Test(3))
	assert.True(t, z.Test(9))
	assert.False(t, z.Test(1))
	assert.Equal(t, 3, z.Count())
	assert.Equal(t, "1000001001", z.String())

	// Out of range zones are ignored
	assert.Equal(t, z, z.Set(10).Set(-1))
	assert.False(t, z.Test(10))
	assert.False(t, z.Test(-1))

	assert.False(t, ZoningWord(0).Any())
	assert.Equal(t, ZoningWord(0x3FF), ZoningWord(0x1FF).Or(ZoningWord(0xE00)))
}

func TestMultiplicitySaturates(t *testing.T) {
	cases := []struct {
		start  Multiplicity
		add    uint
		expect Multiplicity
	}{
		{0, 0, 0},
		{0, 2, 2},
		{1, 2, 3},
		{2, 2, 3},
		{3, 3, 3},
		{3, 100, 3},
	}
	for _, c := range cases {
		assert.Equal(t, c.expect, c.start.Add(c.add), "%d + %d", c.start, c.add)
	}
}

func TestMainWallWordLayout(t *testing.T) {
	zoning := ZoningWord(0).Set(3)
	word := NewMainWallWord(5, 1, 2, zoning, true, true)

	assert.Equal(t, ClockTick(5), word.Tick)
	assert.Equal(t, 1, word.Crate)
	assert.Equal(t, uint32(0b11_0000_0010_0010), word.Word)
	assert.True(t, word.IsMainWall())
	assert.False(t, word.IsXGWall())
	assert.Equal(t, uint(2), word.Multiplicity())
	assert.Equal(t, zoning, word.Zoning())
	assert.True(t, word.LTO())
	assert.True(t, word.XT())
	assert.Equal(t, uint8(0), word.Control())

	clipped := NewMainWallWord(0, 0, 7, 0, false, false)
	assert.Equal(t, uint(3), clipped.Multiplicity())
}

func TestAuxiliaryWordLayout(t *testing.T) {
	word := NewAuxiliaryWord(8, XGWord{
		XWallMultiplicity: [NSIDES]uint{1, 2},
		VetoMultiplicity:  3,
		Zoning:            1<<XG_ZONING_SIDE_0_ZONE_9 | 1<<XG_ZONING_SIDE_1_ZONE_0,
		XWallLTO:          [NSIDES]bool{true, false},
		VetoLTO:           true,
	})

	require.True(t, word.IsXGWall())
	assert.Equal(t, uint(1), word.XWallMultiplicity(0))
	assert.Equal(t, uint(2), word.XWallMultiplicity(1))
	assert.Equal(t, uint(3), word.VetoMultiplicity())
	assert.Equal(t, uint16(0b0110), word.XGZoning())
	assert.True(t, word.XWallLTO(0))
	assert.False(t, word.XWallLTO(1))
	assert.True(t, word.VetoLTO())
	assert.False(t, word.XT())
	assert.Equal(t, uint32(0x1000|0x400|0b0110<<6|3<<4|2<<2|1), word.Word)
}

func TestClocktickRescale(t *testing.T) {
	assert.Equal(t, ClockTick(0), Clocktick25nsTo1600ns(0))
	assert.Equal(t, ClockTick(0), Clocktick25nsTo1600ns(63))
	assert.Equal(t, ClockTick(1), Clocktick25nsTo1600ns(64))
	assert.Equal(t, ClockTick(100), Clocktick25nsTo1600ns(6400))
	assert.Equal(t, InvalidClockTick, Clocktick25nsTo1600ns(InvalidClockTick))
}

func TestTrackerZoneData(t *testing.T) {
	var d TrackerZoneData
	d = d.Set(TRACKER_MIDDLE).Set(TRACKER_NEAR_SOURCE_LEFT).Set(7)

	assert.True(t, d.Test(TRACKER_MIDDLE))
	assert.True(t, d.Test(TRACKER_NEAR_SOURCE_LEFT))
	assert.False(t, d.Test(TRACKER_LEFT))
	assert.False(t, d.Test(-1))
	assert.Equal(t, "1001000", d.String())

	record := NewTrackerRecord(3)
	assert.True(t, record.IsEmpty())
	record.Data[1][4] = d
	record.Data[0][9] = TrackerZoneData(0).Set(TRACKER_INNER)
	assert.False(t, record.IsEmpty())
	assert.Equal(t, ZoningWord(0).Set(4), record.ZoningPattern(1))
	assert.Equal(t, ZoningWord(0).Set(4), record.ZoningNearSource(1))
	assert.False(t, record.ZoningPattern(0).Any())
}
