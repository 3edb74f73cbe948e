package trigger

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

// EventReader reads a stream of json encoded raw events.
type EventReader struct {
	decoder   *json.Decoder
	EvtCount  int
	skip      int
	maxEvents int
}

func NewEventReader(r io.Reader, skip int, maxEvents int) *EventReader {
	return &EventReader{
		decoder:   json.NewDecoder(r),
		EvtCount:  -1,
		skip:      skip,
		maxEvents: maxEvents,
	}
}

// GetNextEvent returns io.EOF once the input or the event budget is
// exhausted.
func (f *EventReader) GetNextEvent() (RawEvent, error) {
	for {
		var raw RawEvent
		if err := f.decoder.Decode(&raw); err != nil {
			if errors.Is(err, io.EOF) {
				return RawEvent{}, io.EOF
			}
			return RawEvent{}, fmt.Errorf("error decoding event %d: %w", f.EvtCount+1, err)
		}
		f.EvtCount++
		if f.maxEvents > 0 && f.EvtCount >= f.maxEvents {
			if configuration.Verbosity > 0 {
				logger.Info("Max events reached", "eventReader")
			}
			return RawEvent{}, io.EOF
		}
		if f.EvtCount < f.skip {
			if configuration.Verbosity > 0 {
				logger.Info(fmt.Sprintf("Skipping event %d with ID %d", f.EvtCount, raw.EventID), "eventReader")
			}
			continue
		}
		if configuration.Verbosity > 1 {
			logger.Info(fmt.Sprintf("Reading event %d with ID %d", f.EvtCount, raw.EventID), "eventReader")
		}
		return raw, nil
	}
}

// ReadEvents reads every remaining event and resolves its channels.
func (f *EventReader) ReadEvents(mapping ChannelMapping) ([]EventType, error) {
	events := make([]EventType, 0)
	for {
		raw, err := f.GetNextEvent()
		if err == io.EOF {
			return events, nil
		}
		if err != nil {
			return nil, err
		}
		event, err := BuildEvent(raw, mapping)
		if err != nil {
			return nil, err
		}
		events = append(events, event)
	}
}
