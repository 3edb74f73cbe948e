package trigger

import (
	"fmt"
)

// PrimitiveWord is the 18-bit crate trigger word sent by one calorimeter
// crate for one 25 ns clocktick.
//
// Main wall crates (0 and 1):
//
//	bits 0-1   HTM multiplicity
//	bits 2-11  zoning word, zone 0 to 9
//	bit  12    LTO
//	bit  13    XT
//	bits 14-17 control
//
// X-wall / gamma-veto crate (2):
//
//	bits 0-1   X-wall multiplicity side 0
//	bits 2-3   X-wall multiplicity side 1
//	bits 4-5   gamma-veto multiplicity
//	bits 6-9   zoning: side 0 zone 0, side 0 zone 9, side 1 zone 0, side 1 zone 9
//	bit  10    LTO side 0
//	bit  11    LTO side 1
//	bit  12    LTO gamma-veto
//	bit  13    XT
type PrimitiveWord struct {
	Tick  ClockTick `json:"clocktick_25ns"`
	Crate int       `json:"crate"`
	Word  uint32    `json:"word"`
}

const (
	TW_HTM_PC  = 0x00003
	TW_ZONING  = 0x00FFC
	TW_LTO_PC  = 0x01000
	TW_XT_PC   = 0x02000
	TW_CONTROL = 0x3C000

	TW_XG_HTM_SIDE_0 = 0x00003
	TW_XG_HTM_SIDE_1 = 0x0000C
	TW_XG_HTM_GVETO  = 0x00030
	TW_XG_ZONING     = 0x003C0
	TW_XG_LTO_SIDE_0 = 0x00400
	TW_XG_LTO_SIDE_1 = 0x00800
	TW_XG_LTO_GVETO  = 0x01000

	TW_SIZE = 18
)

const (
	XG_ZONING_SIDE_0_ZONE_0 = 0
	XG_ZONING_SIDE_0_ZONE_9 = 1
	XG_ZONING_SIDE_1_ZONE_0 = 2
	XG_ZONING_SIDE_1_ZONE_9 = 3
)

func (p PrimitiveWord) IsMainWall() bool {
	return p.Crate == CRATE_MAIN_WALL_SIDE_0 || p.Crate == CRATE_MAIN_WALL_SIDE_1
}

func (p PrimitiveWord) IsXGWall() bool {
	return p.Crate == CRATE_XWALL_GVETO
}

func (p PrimitiveWord) Multiplicity() uint {
	return uint(p.Word & TW_HTM_PC)
}

func (p PrimitiveWord) Zoning() ZoningWord {
	return ZoningWord((p.Word & TW_ZONING) >> 2)
}

func (p PrimitiveWord) LTO() bool {
	return p.Word&TW_LTO_PC != 0
}

func (p PrimitiveWord) XT() bool {
	return p.Word&TW_XT_PC != 0
}

func (p PrimitiveWord) Control() uint8 {
	return uint8((p.Word & TW_CONTROL) >> 14)
}

// XWallMultiplicity returns the X-wall multiplicity of one side, read from the
// auxiliary crate word.
func (p PrimitiveWord) XWallMultiplicity(side int) uint {
	switch side {
	case 0:
		return uint(p.Word & TW_XG_HTM_SIDE_0)
	case 1:
		return uint((p.Word & TW_XG_HTM_SIDE_1) >> 2)
	}
	return 0
}

func (p PrimitiveWord) VetoMultiplicity() uint {
	return uint((p.Word & TW_XG_HTM_GVETO) >> 4)
}

// XGZoning returns the 4 auxiliary zoning bits.
func (p PrimitiveWord) XGZoning() uint16 {
	return uint16((p.Word & TW_XG_ZONING) >> 6)
}

func (p PrimitiveWord) XWallLTO(side int) bool {
	switch side {
	case 0:
		return p.Word&TW_XG_LTO_SIDE_0 != 0
	case 1:
		return p.Word&TW_XG_LTO_SIDE_1 != 0
	}
	return false
}

func (p PrimitiveWord) VetoLTO() bool {
	return p.Word&TW_XG_LTO_GVETO != 0
}

func (p PrimitiveWord) String() string {
	return fmt.Sprintf("CT %d crate %d word %018b", p.Tick, p.Crate, p.Word&(1<<TW_SIZE-1))
}

// NewMainWallWord packs a main wall crate word.
func NewMainWallWord(tick ClockTick, side int, multiplicity uint, zoning ZoningWord, lto bool, xt bool) PrimitiveWord {
	if multiplicity > MAX_MULTIPLICITY {
		multiplicity = MAX_MULTIPLICITY
	}
	word := uint32(multiplicity) & TW_HTM_PC
	word |= (uint32(zoning&zoningMask) << 2) & TW_ZONING
	if lto {
		word |= TW_LTO_PC
	}
	if xt {
		word |= TW_XT_PC
	}
	return PrimitiveWord{Tick: tick, Crate: side, Word: word}
}

// XGWord holds the fields of an auxiliary crate word before packing.
type XGWord struct {
	XWallMultiplicity [NSIDES]uint
	VetoMultiplicity  uint
	// Zoning bits, see XG_ZONING_* for the bit order
	Zoning   uint16
	XWallLTO [NSIDES]bool
	VetoLTO  bool
	XT       bool
}

// NewAuxiliaryWord packs an X-wall / gamma-veto crate word.
func NewAuxiliaryWord(tick ClockTick, fields XGWord) PrimitiveWord {
	clip := func(m uint) uint32 {
		if m > MAX_MULTIPLICITY {
			return MAX_MULTIPLICITY
		}
		return uint32(m)
	}
	word := clip(fields.XWallMultiplicity[0])
	word |= clip(fields.XWallMultiplicity[1]) << 2
	word |= clip(fields.VetoMultiplicity) << 4
	word |= (uint32(fields.Zoning) << 6) & TW_XG_ZONING
	if fields.XWallLTO[0] {
		word |= TW_XG_LTO_SIDE_0
	}
	if fields.XWallLTO[1] {
		word |= TW_XG_LTO_SIDE_1
	}
	if fields.VetoLTO {
		word |= TW_XG_LTO_GVETO
	}
	if fields.XT {
		word |= TW_XT_PC
	}
	return PrimitiveWord{Tick: tick, Crate: CRATE_XWALL_GVETO, Word: word}
}
