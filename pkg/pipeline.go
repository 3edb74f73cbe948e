package trigger

import (
	"fmt"
)

// Result collects the trigger outputs of one event.
type Result struct {
	EventID            uint32              `json:"event_id"`
	CaloRecords        []SummaryRecord     `json:"calo_records"`
	L1Decisions        []L1Decision        `json:"l1_decisions"`
	CoincidenceRecords []CoincidenceRecord `json:"coincidence_records"`
	// Accepted L2 decisions, 1600 ns ticks in both modes
	L2Decisions []L2Decision `json:"l2_decisions"`
	// OR of every L1 decision of the event
	CaloDecision bool `json:"calo_decision"`
	// OR of every prompt decision of the event
	FinalDecision bool `json:"final_decision"`
	// OR of every delayed decision of the event
	DelayedFinalDecision bool `json:"delayed_final_decision"`
}

// Pipeline runs the clocktick loops of one event at a time. A pipeline owns
// all its stateful stages and must not be shared between goroutines.
type Pipeline struct {
	config      Config
	initialized bool
	err         error

	summarizer *Summarizer
	level1     *Level1
	level2     *Level2
	ledger     *Ledger
}

func NewPipeline(config Config) (*Pipeline, error) {
	p := &Pipeline{}
	if err := p.Initialize(config); err != nil {
		return nil, err
	}
	return p, nil
}

func (p *Pipeline) Initialize(config Config) error {
	if p.initialized {
		return ErrAlreadyInitialized
	}
	if p.err != nil {
		return fmt.Errorf("pipeline unusable after configuration error: %w", p.err)
	}
	if err := config.Validate(); err != nil {
		p.err = err
		return err
	}
	p.config = config
	p.summarizer = NewSummarizer(config.WindowDepth, config.Threshold)
	p.level1 = NewLevel1(config.Threshold, config.InhibitBothSides, config.InhibitSingleSide)
	p.level2 = NewLevel2(config.Patterns, config.PreviousEventLiving, config.PreviousEventDepth)
	p.ledger = NewLedger(config.GateWidth)
	p.initialized = true
	return nil
}

func (p *Pipeline) Config() Config {
	return p.config
}

func (p *Pipeline) reset() {
	p.summarizer.Reset()
	p.level1.Reset()
	p.level2.Reset()
	p.ledger.Reset()
}

// Process runs one event through every trigger stage.
func (p *Pipeline) Process(event EventType) (Result, error) {
	if !p.initialized {
		return Result{}, ErrNotInitialized
	}
	p.reset()

	result := Result{
		EventID:            event.EventID,
		CaloRecords:        make([]SummaryRecord, 0),
		CoincidenceRecords: make([]CoincidenceRecord, 0),
	}

	if err := p.processCalo(event, &result); err != nil {
		return Result{}, fmt.Errorf("event %d: %w", event.EventID, err)
	}
	result.L1Decisions = Level1Edges(result.CaloRecords)

	switch p.config.Mode {
	case MODE_CALO_ONLY:
		if err := p.processCaloOnly(&result); err != nil {
			return Result{}, fmt.Errorf("event %d: %w", event.EventID, err)
		}
	default:
		if err := p.processCoincidence(event, &result); err != nil {
			return Result{}, fmt.Errorf("event %d: %w", event.EventID, err)
		}
	}
	result.L2Decisions = p.ledger.Decisions()

	if configuration.Verbosity > 1 {
		message := fmt.Sprintf("Event %d: %d calo records, %d coincidence records, L1 %t, L2 prompt %t, L2 delayed %t",
			event.EventID, len(result.CaloRecords), len(result.CoincidenceRecords),
			result.CaloDecision, result.FinalDecision, result.DelayedFinalDecision)
		logger.Info(message, "pipeline")
	}
	return result, nil
}

// processCalo runs the 25 ns loop, extended by the window depth to flush
// the sliding window.
func (p *Pipeline) processCalo(event EventType, result *Result) error {
	if event.Calo == nil || !event.Calo.MinTick().IsValid() {
		return nil
	}
	last := event.Calo.MaxTick() + ClockTick(p.summarizer.Depth()-1)
	for tick := event.Calo.MinTick(); tick <= last; tick++ {
		record, err := BuildCaloRecord(tick, event.Calo.WordsAt(tick))
		if err != nil {
			return err
		}
		summary := p.level1.Evaluate(p.summarizer.Push(record))
		if summary.IsEmpty() {
			continue
		}
		result.CaloRecords = append(result.CaloRecords, summary)
		result.CaloDecision = result.CaloDecision || summary.FinalDecision
	}
	return nil
}

// processCaloOnly promotes every L1 rising edge to an L2 decision, rescaled
// to 1600 ns and debounced like coincidence decisions.
func (p *Pipeline) processCaloOnly(result *Result) error {
	for _, edge := range result.L1Decisions {
		if _, _, err := p.ledger.Accept(Clocktick25nsTo1600ns(edge.Tick), CALO_ONLY); err != nil {
			return err
		}
	}
	result.FinalDecision = result.CaloDecision
	return nil
}

// caloViews rescales the decided calorimeter summaries to 1600 ns. A summary
// at 1600 ns tick d is seen by every tick in [d, d+CalorimeterGateSize).
func (p *Pipeline) caloViews(records []SummaryRecord) map[ClockTick]CaloCoincidenceRecord {
	views := make(map[ClockTick]CaloCoincidenceRecord)
	for _, summary := range records {
		if !summary.FinalDecision {
			continue
		}
		first := Clocktick25nsTo1600ns(summary.Tick)
		for tick := first; tick < first+ClockTick(p.config.CalorimeterGateSize); tick++ {
			view := views[tick]
			view.Tick = tick
			view.merge(summary)
			views[tick] = view
		}
	}
	return views
}

// processCoincidence runs the 1600 ns loop over the union of the
// calorimeter and tracker ranges.
func (p *Pipeline) processCoincidence(event EventType, result *Result) error {
	views := p.caloViews(result.CaloRecords)

	first, last := InvalidClockTick, InvalidClockTick
	widen := func(lo ClockTick, hi ClockTick) {
		if !lo.IsValid() || !hi.IsValid() {
			return
		}
		if !first.IsValid() || lo < first {
			first = lo
		}
		if !last.IsValid() || hi > last {
			last = hi
		}
	}
	for tick := range views {
		widen(tick, tick)
	}
	if event.Tracker != nil {
		widen(event.Tracker.MinTick(), event.Tracker.MaxTick())
	}
	if !first.IsValid() {
		return nil
	}

	for tick := first; tick <= last; tick++ {
		p.level2.Age(tick)

		calo, ok := views[tick]
		if !ok {
			calo = CaloCoincidenceRecord{Tick: tick}
		}
		tracker := NewTrackerRecord(tick)
		if event.Tracker != nil {
			tracker, _ = event.Tracker.RecordAt(tick)
			tracker.Tick = tick
		}

		record := p.level2.Prompt(calo, tracker)
		if !record.Decision || p.promptRepeats(tick) {
			if delayed := p.level2.DelayedAny(tracker); delayed.Decision {
				delayed.copyCalo(calo)
				record = delayed
			}
		}

		if record.Decision {
			if record.Mode.IsDelayed() {
				result.DelayedFinalDecision = true
			} else {
				result.FinalDecision = true
			}
			_, accepted, err := p.ledger.Accept(tick, record.Mode)
			if err != nil {
				return err
			}
			if accepted {
				p.level2.Remember(record)
			}
		}
		if !record.IsEmpty() {
			result.CoincidenceRecords = append(result.CoincidenceRecords, record)
		}
	}
	return nil
}

// promptRepeats reports whether a prompt match at tick comes from a
// calorimeter view already used by an earlier decision: an L2 gate is still
// open, or a live previous event record was taken inside the same view.
func (p *Pipeline) promptRepeats(tick ClockTick) bool {
	if _, open := p.ledger.Covers(tick); open {
		return true
	}
	for _, per := range p.level2.Previous() {
		if per.Tick < tick && tick-per.Tick < ClockTick(p.config.CalorimeterGateSize) {
			return true
		}
	}
	return false
}
