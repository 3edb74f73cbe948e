package trigger

import (
	"errors"
	"fmt"
	"reflect"

	hdf5 "github.com/jmbenlloch/go-hdf5"
)

// Writer stores trigger results in an HDF5 file, one table per record kind
// under the Trigger group.
type Writer struct {
	File               *hdf5.File
	Filename           string
	TriggerGroup       *hdf5.Group
	EventTable         *hdf5.Dataset
	CaloTable          *hdf5.Dataset
	CoincidenceTable   *hdf5.Dataset
	L2Table            *hdf5.Dataset
	TriggerParamsTable *hdf5.Dataset
	EvtCounter         int
	caloCounter        int
	coincCounter       int
	l2Counter          int
}

func NewWriter(filename string) (*Writer, error) {
	writer := &Writer{Filename: filename}
	if configuration.Verbosity > 0 {
		logger.Info(fmt.Sprintf("Creating file: %s", filename), "writer")
	}

	var err error
	if writer.File, err = openFile(filename); err != nil {
		return nil, err
	}
	if writer.TriggerGroup, err = createGroup(writer.File, "Trigger"); err != nil {
		return nil, errors.Join(err, writer.Close())
	}
	tables := []struct {
		table    **hdf5.Dataset
		name     string
		datatype interface{}
	}{
		{&writer.EventTable, "events", EventDecisionHDF5{}},
		{&writer.CaloTable, "calo", CaloRecordHDF5{}},
		{&writer.CoincidenceTable, "coincidence", CoincidenceRecordHDF5{}},
		{&writer.L2Table, "L2", L2DecisionHDF5{}},
		{&writer.TriggerParamsTable, "configuration", TriggerParamsHDF5{}},
	}
	for _, t := range tables {
		if *t.table, err = createTable(writer.TriggerGroup, t.name, t.datatype); err != nil {
			return nil, errors.Join(err, writer.Close())
		}
	}
	return writer, nil
}

func (w *Writer) WriteResult(result Result) error {
	evtNumber := int32(result.EventID)

	entry := []EventDecisionHDF5{{
		evt_number:       evtNumber,
		calo_decision:    boolToInt8(result.CaloDecision),
		final_decision:   boolToInt8(result.FinalDecision),
		delayed_decision: boolToInt8(result.DelayedFinalDecision),
		n_calo_records:   int32(len(result.CaloRecords)),
		n_coinc_records:  int32(len(result.CoincidenceRecords)),
		n_l2_decisions:   int32(len(result.L2Decisions)),
	}}
	if err := writeArrayToTable(w.EventTable, &entry, w.EvtCounter); err != nil {
		return fmt.Errorf("event %d: %w", result.EventID, err)
	}
	w.EvtCounter++

	calo := caloRows(evtNumber, result.CaloRecords)
	if err := writeArrayToTable(w.CaloTable, &calo, w.caloCounter); err != nil {
		return fmt.Errorf("event %d: %w", result.EventID, err)
	}
	w.caloCounter += len(calo)

	coinc := coincidenceRows(evtNumber, result.CoincidenceRecords)
	if err := writeArrayToTable(w.CoincidenceTable, &coinc, w.coincCounter); err != nil {
		return fmt.Errorf("event %d: %w", result.EventID, err)
	}
	w.coincCounter += len(coinc)

	l2 := make([]L2DecisionHDF5, len(result.L2Decisions))
	for i, decision := range result.L2Decisions {
		l2[i] = L2DecisionHDF5{
			evt_number:       evtNumber,
			clocktick_1600ns: int64(decision.Tick),
			mode:             int8(decision.Mode),
		}
	}
	if err := writeArrayToTable(w.L2Table, &l2, w.l2Counter); err != nil {
		return fmt.Errorf("event %d: %w", result.EventID, err)
	}
	w.l2Counter += len(l2)
	return nil
}

func caloRows(evtNumber int32, records []SummaryRecord) []CaloRecordHDF5 {
	// The array MUST be allocated at creation, appends do not work with HDF5
	rows := make([]CaloRecordHDF5, len(records))
	for i, r := range records {
		rows[i] = CaloRecordHDF5{
			evt_number:         evtNumber,
			clocktick_25ns:     int64(r.Tick),
			zoning_side0:       uint16(r.Zoning[0]),
			zoning_side1:       uint16(r.Zoning[1]),
			multiplicity_side0: uint8(r.Multiplicity[0]),
			multiplicity_side1: uint8(r.Multiplicity[1]),
			lto_side0:          boolToInt8(r.LTO[0]),
			lto_side1:          boolToInt8(r.LTO[1]),
			veto_multiplicity:  uint8(r.VetoMultiplicity),
			veto_lto:           boolToInt8(r.VetoLTO),
			xt:                 r.XT,
			single_side:        boolToInt8(r.SingleSideCoinc),
			threshold:          boolToInt8(r.TotalMultiplicityThreshold),
			decision:           boolToInt8(r.FinalDecision),
		}
	}
	return rows
}

func coincidenceRows(evtNumber int32, records []CoincidenceRecord) []CoincidenceRecordHDF5 {
	rows := make([]CoincidenceRecordHDF5, len(records))
	for i, r := range records {
		tracker := TrackerRecord{Tick: r.Tick, Data: r.TrackerData}
		rows[i] = CoincidenceRecordHDF5{
			evt_number:         evtNumber,
			clocktick_1600ns:   int64(r.Tick),
			calo_zoning_side0:  uint16(r.CaloZoning[0]),
			calo_zoning_side1:  uint16(r.CaloZoning[1]),
			track_zoning_side0: uint16(tracker.ZoningPattern(0)),
			track_zoning_side1: uint16(tracker.ZoningPattern(1)),
			near_source_side0:  uint16(tracker.ZoningNearSource(0)),
			near_source_side1:  uint16(tracker.ZoningNearSource(1)),
			coinc_zoning_side0: uint16(r.CoincidenceZoning[0]),
			coinc_zoning_side1: uint16(r.CoincidenceZoning[1]),
			decision:           boolToInt8(r.Decision),
			mode:               int8(r.Mode),
		}
	}
	return rows
}

// WriteTriggerConfiguration stores the scalar fields of the trigger
// configuration, named after their json tags.
func (w *Writer) WriteTriggerConfiguration(config Config) error {
	t := reflect.TypeOf(config)
	v := reflect.ValueOf(config)
	entries := make([]TriggerParamsHDF5, 0, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		paramName := f.Tag.Get("json")
		var value int32
		switch f.Type.Kind() {
		case reflect.Int:
			value = int32(v.Field(i).Int())
		case reflect.Uint:
			value = int32(v.Field(i).Uint())
		case reflect.Bool:
			value = int32(boolToInt8(v.Field(i).Bool()))
		default:
			continue
		}
		entries = append(entries, TriggerParamsHDF5{
			paramStr: convertToHdf5String(paramName),
			value:    value,
		})
	}
	return writeArrayToTable(w.TriggerParamsTable, &entries, 0)
}

func (w *Writer) Close() error {
	if configuration.Verbosity > 0 {
		logger.Info(fmt.Sprintf("Closing file %s", w.Filename), "writer")
	}
	var errs []error
	datasets := []struct {
		name    string
		dataset *hdf5.Dataset
	}{
		{"event table", w.EventTable},
		{"calo table", w.CaloTable},
		{"coincidence table", w.CoincidenceTable},
		{"L2 table", w.L2Table},
		{"trigger params table", w.TriggerParamsTable},
	}
	for _, d := range datasets {
		if d.dataset == nil {
			continue
		}
		if err := d.dataset.Close(); err != nil {
			errs = append(errs, fmt.Errorf("error closing %s: %w", d.name, err))
		}
	}
	if w.TriggerGroup != nil {
		if err := w.TriggerGroup.Close(); err != nil {
			errs = append(errs, fmt.Errorf("error closing trigger group: %w", err))
		}
	}
	if w.File != nil {
		if err := w.File.Close(); err != nil {
			errs = append(errs, fmt.Errorf("error closing file: %w", err))
		}
	}
	return errors.Join(errs...)
}
