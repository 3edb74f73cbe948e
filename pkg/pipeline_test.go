package trigger

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() Config {
	config := DefaultConfig()
	config.WindowDepth = 4
	config.Threshold = 1
	return config
}

func singleHitEvent() EventType {
	calo := NewWordStream(NewMainWallWord(5, 0, 2, ZoningWord(0).Set(3), false, false))
	calo.SetRange(0, 10)
	return EventType{EventID: 1, Calo: calo, Tracker: NewTrackerStream()}
}

func TestPipelineEmptyStream(t *testing.T) {
	calo := NewWordStream()
	calo.SetRange(0, 10)
	pipeline, err := NewPipeline(testConfig())
	require.NoError(t, err)

	result, err := pipeline.Process(EventType{EventID: 3, Calo: calo})
	require.NoError(t, err)
	assert.Equal(t, uint32(3), result.EventID)
	assert.Empty(t, result.CaloRecords)
	assert.Empty(t, result.CoincidenceRecords)
	assert.Empty(t, result.L1Decisions)
	assert.Empty(t, result.L2Decisions)
	assert.False(t, result.CaloDecision)
	assert.False(t, result.FinalDecision)
	assert.False(t, result.DelayedFinalDecision)
}

func TestPipelineSingleHitWindow(t *testing.T) {
	pipeline, err := NewPipeline(testConfig())
	require.NoError(t, err)

	result, err := pipeline.Process(singleHitEvent())
	require.NoError(t, err)

	require.Len(t, result.CaloRecords, 4)
	for i, record := range result.CaloRecords {
		assert.Equal(t, ClockTick(5+i), record.Tick)
		assert.Equal(t, Multiplicity(2), record.Multiplicity[0])
		assert.Equal(t, Multiplicity(0), record.Multiplicity[1])
		assert.True(t, record.SingleSideCoinc)
		assert.True(t, record.FinalDecision)
	}
	assert.True(t, result.CaloDecision)
	assert.Equal(t, []L1Decision{{Tick: 5}}, result.L1Decisions)

	// Without tracker data the coincidence stage only carries the calorimeter view
	assert.False(t, result.FinalDecision)
	assert.Empty(t, result.L2Decisions)
	require.Len(t, result.CoincidenceRecords, testConfig().CalorimeterGateSize)
	for i, record := range result.CoincidenceRecords {
		assert.Equal(t, ClockTick(i), record.Tick)
		assert.False(t, record.Decision)
		assert.Equal(t, ZoningWord(0).Set(3), record.CaloZoning[0])
	}
}

func TestPipelineBothSidesInhibited(t *testing.T) {
	config := testConfig()
	config.InhibitBothSides = true
	pipeline, err := NewPipeline(config)
	require.NoError(t, err)

	calo := NewWordStream(
		NewMainWallWord(5, 0, 1, ZoningWord(0).Set(2), false, false),
		NewMainWallWord(5, 1, 1, ZoningWord(0).Set(7), false, false),
	)
	result, err := pipeline.Process(EventType{EventID: 2, Calo: calo})
	require.NoError(t, err)

	require.NotEmpty(t, result.CaloRecords)
	for _, record := range result.CaloRecords {
		assert.False(t, record.SingleSideCoinc)
		assert.True(t, record.TotalMultiplicityThreshold)
		assert.False(t, record.FinalDecision)
	}
	assert.False(t, result.CaloDecision)
	assert.False(t, result.FinalDecision)
	assert.Empty(t, result.CoincidenceRecords)
}

func delayedEvent(delayedTick ClockTick) EventType {
	calo := NewWordStream(NewMainWallWord(100*TICKS_25NS_PER_1600NS, 0, 1, ZoningWord(0).Set(4), false, false))
	tracker := NewTrackerStream(
		trackerWith(100, 0, 4, TRACKER_MIDDLE),
		trackerWith(delayedTick, 0, 4, TRACKER_MIDDLE),
	)
	return EventType{EventID: 7, Calo: calo, Tracker: tracker}
}

func delayedConfig() Config {
	config := DefaultConfig()
	config.WindowDepth = 1
	config.Threshold = 1
	config.CalorimeterGateSize = 1
	config.PreviousEventLiving = 10
	config.GateWidth = 5
	return config
}

func TestPipelinePromptThenDelayed(t *testing.T) {
	pipeline, err := NewPipeline(delayedConfig())
	require.NoError(t, err)

	result, err := pipeline.Process(delayedEvent(102))
	require.NoError(t, err)

	require.Len(t, result.CoincidenceRecords, 2)
	prompt, delayed := result.CoincidenceRecords[0], result.CoincidenceRecords[1]
	assert.Equal(t, ClockTick(100), prompt.Tick)
	assert.Equal(t, CARACO, prompt.Mode)
	assert.True(t, prompt.Decision)
	assert.Equal(t, ZoningWord(0).Set(4), prompt.CoincidenceZoning[0])

	assert.Equal(t, ClockTick(102), delayed.Tick)
	assert.Equal(t, APE, delayed.Mode)
	assert.True(t, delayed.Decision)

	assert.True(t, result.FinalDecision)
	assert.True(t, result.DelayedFinalDecision)
	// The delayed decision falls inside the gate of the prompt one
	assert.Equal(t, []L2Decision{{Tick: 100, Mode: CARACO}}, result.L2Decisions)
}

func TestPipelineDelayedAfterLivingWindow(t *testing.T) {
	pipeline, err := NewPipeline(delayedConfig())
	require.NoError(t, err)

	result, err := pipeline.Process(delayedEvent(110))
	require.NoError(t, err)

	require.Len(t, result.CoincidenceRecords, 1)
	assert.Equal(t, CARACO, result.CoincidenceRecords[0].Mode)
	assert.True(t, result.FinalDecision)
	assert.False(t, result.DelayedFinalDecision)
	assert.Equal(t, []L2Decision{{Tick: 100, Mode: CARACO}}, result.L2Decisions)
}

func TestPipelineDelayedDecisionOpensGate(t *testing.T) {
	config := delayedConfig()
	config.GateWidth = 1
	pipeline, err := NewPipeline(config)
	require.NoError(t, err)

	result, err := pipeline.Process(delayedEvent(103))
	require.NoError(t, err)
	assert.Equal(t, []L2Decision{{Tick: 100, Mode: CARACO}, {Tick: 103, Mode: APE}}, result.L2Decisions)
}

func TestPipelineDelayedWithDefaultConfig(t *testing.T) {
	pipeline, err := NewPipeline(DefaultConfig())
	require.NoError(t, err)

	result, err := pipeline.Process(delayedEvent(102))
	require.NoError(t, err)

	decided := make(map[ClockTick]TriggerMode)
	for _, record := range result.CoincidenceRecords {
		if record.Decision {
			decided[record.Tick] = record.Mode
		}
	}
	assert.Equal(t, map[ClockTick]TriggerMode{100: CARACO, 102: APE}, decided)
	assert.True(t, result.FinalDecision)
	assert.True(t, result.DelayedFinalDecision)
	assert.Equal(t, []L2Decision{{Tick: 100, Mode: CARACO}}, result.L2Decisions)
}

func TestPipelineDelayedWithDefaultConfigLivingWindow(t *testing.T) {
	config := DefaultConfig()
	living := ClockTick(config.PreviousEventLiving)

	pipeline, err := NewPipeline(config)
	require.NoError(t, err)
	result, err := pipeline.Process(delayedEvent(100 + living - 1))
	require.NoError(t, err)
	assert.True(t, result.DelayedFinalDecision)

	result, err = pipeline.Process(delayedEvent(100 + living))
	require.NoError(t, err)
	assert.False(t, result.DelayedFinalDecision)
	for _, record := range result.CoincidenceRecords {
		assert.NotEqual(t, APE, record.Mode, "CT %d", record.Tick)
	}
}

func TestPipelineRepeatedPromptInsideCaloView(t *testing.T) {
	// The L2 gate closed but the calorimeter view of the prompt event is still open
	config := DefaultConfig()
	config.GateWidth = 1
	pipeline, err := NewPipeline(config)
	require.NoError(t, err)

	result, err := pipeline.Process(delayedEvent(102))
	require.NoError(t, err)
	assert.Equal(t, []L2Decision{{Tick: 100, Mode: CARACO}, {Tick: 102, Mode: APE}}, result.L2Decisions)
}

func TestPipelineRepeatedPromptWithoutContinuation(t *testing.T) {
	event := delayedEvent(102)
	event.Tracker = NewTrackerStream(
		trackerWith(100, 0, 4, TRACKER_MIDDLE),
		trackerWith(102, 0, 5, TRACKER_LEFT),
	)
	pipeline, err := NewPipeline(DefaultConfig())
	require.NoError(t, err)

	result, err := pipeline.Process(event)
	require.NoError(t, err)
	assert.False(t, result.DelayedFinalDecision)

	var repeated *CoincidenceRecord
	for i := range result.CoincidenceRecords {
		if result.CoincidenceRecords[i].Tick == 102 {
			repeated = &result.CoincidenceRecords[i]
		}
	}
	require.NotNil(t, repeated)
	assert.Equal(t, CARACO, repeated.Mode)
	assert.Equal(t, []L2Decision{{Tick: 100, Mode: CARACO}}, result.L2Decisions)
}

func TestPipelineCaloOnly(t *testing.T) {
	config := testConfig()
	config.Mode = MODE_CALO_ONLY
	pipeline, err := NewPipeline(config)
	require.NoError(t, err)

	result, err := pipeline.Process(singleHitEvent())
	require.NoError(t, err)
	assert.True(t, result.FinalDecision)
	assert.False(t, result.DelayedFinalDecision)
	assert.Empty(t, result.CoincidenceRecords)
	assert.Equal(t, []L2Decision{{Tick: 0, Mode: CALO_ONLY}}, result.L2Decisions)
}

func TestPipelineIsReusable(t *testing.T) {
	pipeline, err := NewPipeline(delayedConfig())
	require.NoError(t, err)

	first, err := pipeline.Process(delayedEvent(102))
	require.NoError(t, err)
	second, err := pipeline.Process(delayedEvent(102))
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestPipelineUsageErrors(t *testing.T) {
	var pipeline Pipeline
	_, err := pipeline.Process(singleHitEvent())
	assert.True(t, errors.Is(err, ErrNotInitialized))

	require.NoError(t, pipeline.Initialize(testConfig()))
	err = pipeline.Initialize(testConfig())
	assert.True(t, errors.Is(err, ErrAlreadyInitialized))
}

func TestPipelineInvalidConfigLeavesInstanceUnusable(t *testing.T) {
	bad := testConfig()
	bad.Threshold = 5

	_, err := NewPipeline(bad)
	var configErr *ErrConfig
	require.True(t, errors.As(err, &configErr))
	assert.Equal(t, "threshold", configErr.Field)

	pipeline := &Pipeline{}
	require.Error(t, pipeline.Initialize(bad))
	err = pipeline.Initialize(testConfig())
	require.Error(t, err)
	assert.True(t, errors.As(err, &configErr))

	_, err = pipeline.Process(singleHitEvent())
	assert.True(t, errors.Is(err, ErrNotInitialized))
}

func TestPipelineInvalidCrate(t *testing.T) {
	pipeline, err := NewPipeline(testConfig())
	require.NoError(t, err)

	calo := NewWordStream(PrimitiveWord{Tick: 3, Crate: 3, Word: 1})
	result, err := pipeline.Process(EventType{EventID: 9, Calo: calo})
	require.Error(t, err)
	var crateErr *ErrCrateIndex
	assert.True(t, errors.As(err, &crateErr))
	assert.Equal(t, Result{}, result)
}
