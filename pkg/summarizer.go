package trigger

// Summarizer keeps the last Depth calorimeter records and reduces them into
// one summary per clocktick.
type Summarizer struct {
	window    *ring[CaloRecord]
	threshold uint
}

func NewSummarizer(depth int, threshold uint) *Summarizer {
	return &Summarizer{
		window:    newRing[CaloRecord](depth),
		threshold: threshold,
	}
}

func (s *Summarizer) Depth() int {
	return s.window.Cap()
}

// Push adds a record to the window and returns the reduction of the whole
// window, stamped with the tick of the pushed record.
func (s *Summarizer) Push(record CaloRecord) SummaryRecord {
	s.window.Push(record)

	summary := SummaryRecord{CaloRecord: NewCaloRecord(record.Tick)}
	s.window.Each(func(r *CaloRecord) bool {
		for side := 0; side < NSIDES; side++ {
			summary.Multiplicity[side] = summary.Multiplicity[side].Add(uint(r.Multiplicity[side]))
			summary.Zoning[side] = summary.Zoning[side].Or(r.Zoning[side])
			summary.LTO[side] = summary.LTO[side] || r.LTO[side]
		}
		summary.VetoMultiplicity = summary.VetoMultiplicity.Add(uint(r.VetoMultiplicity))
		summary.VetoLTO = summary.VetoLTO || r.VetoLTO
		summary.XT |= r.XT
		return true
	})

	summary.SingleSideCoinc = summary.Zoning[0].Any() != summary.Zoning[1].Any()
	total := uint(summary.Multiplicity[0]) + uint(summary.Multiplicity[1])
	summary.TotalMultiplicityThreshold = total >= s.threshold
	return summary
}

func (s *Summarizer) Reset() {
	s.window.Reset()
}
