package trigger

import (
	"strings"
)

const (
	NSIDES = 2
	NZONES = 10
)

// Crate indices of the calorimeter trigger crates
const (
	CRATE_MAIN_WALL_SIDE_0 = 0
	CRATE_MAIN_WALL_SIDE_1 = 1
	CRATE_XWALL_GVETO      = 2
	NCRATES                = 3
)

const MAX_MULTIPLICITY = 3

// ZoningWord marks which of the 10 zones of one side registered activity.
// Bit z is zone z.
type ZoningWord uint16

const zoningMask ZoningWord = 1<<NZONES - 1

func (z ZoningWord) Test(zone int) bool {
	if zone < 0 || zone >= NZONES {
		return false
	}
	return CheckBit(uint16(z), uint16(zone))
}

func (z ZoningWord) Set(zone int) ZoningWord {
	if zone < 0 || zone >= NZONES {
		return z
	}
	return z | 1<<zone
}

func (z ZoningWord) Or(other ZoningWord) ZoningWord {
	return (z | other) & zoningMask
}

func (z ZoningWord) Any() bool {
	return z&zoningMask != 0
}

func (z ZoningWord) Count() int {
	count := 0
	for zone := 0; zone < NZONES; zone++ {
		if z.Test(zone) {
			count++
		}
	}
	return count
}

// String prints zone 9 first, as the firmware displays it.
func (z ZoningWord) String() string {
	var sb strings.Builder
	for zone := NZONES - 1; zone >= 0; zone-- {
		if z.Test(zone) {
			sb.WriteByte('1')
		} else {
			sb.WriteByte('0')
		}
	}
	return sb.String()
}

// Multiplicity is a saturating 2-bit counter.
type Multiplicity uint8

func (m Multiplicity) Add(value uint) Multiplicity {
	sum := uint(m) + value
	if sum > MAX_MULTIPLICITY {
		return MAX_MULTIPLICITY
	}
	return Multiplicity(sum)
}

func CheckBit(mask uint16, pos uint16) bool {
	return (mask & (1 << pos)) != 0
}
