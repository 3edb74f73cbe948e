package trigger

import (
	"encoding/json"
	"fmt"
)

// TriggerMode tags which coincidence logic produced a decision.
type TriggerMode int

const (
	INVALID TriggerMode = iota
	CALO_ONLY
	CARACO
	APE
	DAVE
)

var triggerModeStrings = []string{
	"invalid",
	"calo_only",
	"caraco",
	"ape",
	"dave",
}

func (m TriggerMode) String() string {
	if m < INVALID || m > DAVE {
		return "UNKNOWN"
	}
	return triggerModeStrings[m]
}

// IsDelayed reports whether the mode comes from a previous event match.
func (m TriggerMode) IsDelayed() bool {
	return m == APE || m == DAVE
}

func (m TriggerMode) MarshalJSON() ([]byte, error) {
	return json.Marshal(m.String())
}

func (m *TriggerMode) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	for i, v := range triggerModeStrings {
		if v == s {
			*m = TriggerMode(i)
			return nil
		}
	}
	return fmt.Errorf("invalid TriggerMode: %s", s)
}

// Pipeline modes accepted in the configuration
const (
	MODE_CALO_ONLY   = "calo_only"
	MODE_COINCIDENCE = "coincidence"
)
