package trigger

import (
	"fmt"
)

// Level1 applies the calorimeter threshold and coincidence inhibits to a
// summary record.
type Level1 struct {
	threshold         uint
	inhibitBothSides  bool
	inhibitSingleSide bool
	current           SummaryRecord
}

func NewLevel1(threshold uint, inhibitBothSides, inhibitSingleSide bool) *Level1 {
	return &Level1{
		threshold:         threshold,
		inhibitBothSides:  inhibitBothSides,
		inhibitSingleSide: inhibitSingleSide,
		current:           SummaryRecord{CaloRecord: NewCaloRecord(InvalidClockTick)},
	}
}

func (l *Level1) Evaluate(summary SummaryRecord) SummaryRecord {
	decision := l.threshold > 0 && summary.TotalMultiplicityThreshold
	if l.inhibitSingleSide && summary.SingleSideCoinc {
		decision = false
	}
	if l.inhibitBothSides && !summary.SingleSideCoinc {
		decision = false
	}
	summary.FinalDecision = decision
	l.current = summary

	if configuration.Verbosity > 2 && decision {
		logger.Info(fmt.Sprintf("L1 decision at CT %d", summary.Tick), "level1")
	}
	return summary
}

// Current returns the last evaluated record, decided or not.
func (l *Level1) Current() SummaryRecord {
	return l.current
}

func (l *Level1) Reset() {
	l.current = SummaryRecord{CaloRecord: NewCaloRecord(InvalidClockTick)}
}

// Level1Edges returns the ticks where the final decision rises, i.e. decided
// records whose previous tick was not decided.
func Level1Edges(records []SummaryRecord) []L1Decision {
	edges := make([]L1Decision, 0)
	previous := InvalidClockTick
	for _, record := range records {
		if !record.FinalDecision {
			continue
		}
		if previous == InvalidClockTick || record.Tick != previous+1 {
			edges = append(edges, L1Decision{Tick: record.Tick})
		}
		previous = record.Tick
	}
	return edges
}
