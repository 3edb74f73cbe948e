package trigger

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildCaloRecordWithoutWords(t *testing.T) {
	for _, tick := range []ClockTick{0, 1, 42, 1 << 40} {
		record, err := BuildCaloRecord(tick, nil)
		require.NoError(t, err)
		assert.Equal(t, tick, record.Tick)
		assert.True(t, record.IsEmpty())
		assert.Equal(t, [NSIDES]Multiplicity{}, record.Multiplicity)
		assert.Equal(t, [NSIDES]ZoningWord{}, record.Zoning)
	}
}

func TestBuildCaloRecordMainWall(t *testing.T) {
	words := []PrimitiveWord{
		NewMainWallWord(7, 0, 2, ZoningWord(0).Set(3), false, false),
		NewMainWallWord(7, 0, 1, ZoningWord(0).Set(4), true, false),
		NewMainWallWord(7, 1, 1, ZoningWord(0).Set(8), false, true),
	}
	record, err := BuildCaloRecord(7, words)
	require.NoError(t, err)

	assert.Equal(t, ClockTick(7), record.Tick)
	assert.Equal(t, Multiplicity(3), record.Multiplicity[0])
	assert.Equal(t, Multiplicity(1), record.Multiplicity[1])
	assert.Equal(t, ZoningWord(0).Set(3).Set(4), record.Zoning[0])
	assert.Equal(t, ZoningWord(0).Set(8), record.Zoning[1])
	assert.True(t, record.LTO[0])
	assert.False(t, record.LTO[1])
	assert.Equal(t, uint8(1<<CRATE_MAIN_WALL_SIDE_1), record.XT)
}

func TestBuildCaloRecordSaturates(t *testing.T) {
	words := []PrimitiveWord{
		NewMainWallWord(0, 1, 3, 0, false, false),
		NewMainWallWord(0, 1, 3, 0, false, false),
		NewAuxiliaryWord(0, XGWord{XWallMultiplicity: [NSIDES]uint{0, 3}, VetoMultiplicity: 2}),
		NewAuxiliaryWord(0, XGWord{VetoMultiplicity: 2}),
	}
	record, err := BuildCaloRecord(0, words)
	require.NoError(t, err)
	assert.Equal(t, Multiplicity(3), record.Multiplicity[1])
	assert.Equal(t, Multiplicity(3), record.VetoMultiplicity)
}

func TestBuildCaloRecordAuxiliaryZoning(t *testing.T) {
	cases := []struct {
		bit  uint16
		side int
		zone int
	}{
		{XG_ZONING_SIDE_0_ZONE_0, 0, 0},
		{XG_ZONING_SIDE_0_ZONE_9, 0, 9},
		{XG_ZONING_SIDE_1_ZONE_0, 1, 0},
		{XG_ZONING_SIDE_1_ZONE_9, 1, 9},
	}
	for _, c := range cases {
		word := NewAuxiliaryWord(3, XGWord{Zoning: 1 << c.bit, XWallLTO: [NSIDES]bool{false, true}, VetoLTO: true, XT: true})
		record, err := BuildCaloRecord(3, []PrimitiveWord{word})
		require.NoError(t, err)
		assert.Equal(t, ZoningWord(0).Set(c.zone), record.Zoning[c.side], "bit %d", c.bit)
		assert.False(t, record.Zoning[1-c.side].Any(), "bit %d", c.bit)
		assert.True(t, record.LTO[1])
		assert.True(t, record.VetoLTO)
		assert.Equal(t, uint8(1<<CRATE_XWALL_GVETO), record.XT)
	}
}

func TestBuildCaloRecordInvalidCrate(t *testing.T) {
	words := []PrimitiveWord{
		NewMainWallWord(12, 0, 1, 0, false, false),
		{Tick: 12, Crate: 5, Word: 1},
	}
	_, err := BuildCaloRecord(12, words)
	require.Error(t, err)

	var crateErr *ErrCrateIndex
	require.True(t, errors.As(err, &crateErr))
	assert.Equal(t, 5, crateErr.Crate)
	assert.Equal(t, ClockTick(12), crateErr.Tick)
}
