package trigger

import (
	"fmt"
)

// BuildCaloRecord aggregates the primitive words of one 25 ns clocktick.
// Ticks without words produce an empty record carrying the tick.
func BuildCaloRecord(tick ClockTick, words []PrimitiveWord) (CaloRecord, error) {
	record := NewCaloRecord(tick)
	for _, word := range words {
		switch {
		case word.IsMainWall():
			side := word.Crate
			record.Multiplicity[side] = record.Multiplicity[side].Add(word.Multiplicity())
			record.Zoning[side] = record.Zoning[side].Or(word.Zoning())
			record.LTO[side] = record.LTO[side] || word.LTO()
		case word.IsXGWall():
			readAuxiliaryWord(&record, word)
		default:
			return CaloRecord{}, &ErrCrateIndex{Crate: word.Crate, Tick: tick}
		}
		if word.XT() {
			record.XT |= 1 << word.Crate
		}
	}

	if configuration.Verbosity > 3 && !record.IsEmpty() {
		logger.Info(fmt.Sprintf("Calo record %s", record), "aggregator")
	}
	return record, nil
}

// readAuxiliaryWord remaps the X-wall zoning bits to the outermost zones of
// each side and adds the X-wall and gamma-veto multiplicities.
func readAuxiliaryWord(record *CaloRecord, word PrimitiveWord) {
	for side := 0; side < NSIDES; side++ {
		record.Multiplicity[side] = record.Multiplicity[side].Add(word.XWallMultiplicity(side))
		record.LTO[side] = record.LTO[side] || word.XWallLTO(side)
	}
	record.VetoMultiplicity = record.VetoMultiplicity.Add(word.VetoMultiplicity())
	record.VetoLTO = record.VetoLTO || word.VetoLTO()

	zoning := word.XGZoning()
	if CheckBit(zoning, XG_ZONING_SIDE_0_ZONE_0) {
		record.Zoning[0] = record.Zoning[0].Set(0)
	}
	if CheckBit(zoning, XG_ZONING_SIDE_0_ZONE_9) {
		record.Zoning[0] = record.Zoning[0].Set(NZONES - 1)
	}
	if CheckBit(zoning, XG_ZONING_SIDE_1_ZONE_0) {
		record.Zoning[1] = record.Zoning[1].Set(0)
	}
	if CheckBit(zoning, XG_ZONING_SIDE_1_ZONE_9) {
		record.Zoning[1] = record.Zoning[1].Set(NZONES - 1)
	}
}
