package trigger

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds the trigger pipeline parameters. It is fixed once a pipeline
// is initialized.
type Config struct {
	Mode string `json:"mode" yaml:"mode"`
	// Sliding window depth, 25 ns ticks
	WindowDepth       int  `json:"window_depth" yaml:"window_depth"`
	Threshold         uint `json:"threshold" yaml:"threshold"`
	InhibitBothSides  bool `json:"inhibit_both_sides" yaml:"inhibit_both_sides"`
	InhibitSingleSide bool `json:"inhibit_single_side" yaml:"inhibit_single_side"`
	// L2 decision gate, 1600 ns ticks
	GateWidth int `json:"gate_width" yaml:"gate_width"`
	// Previous event record lifetime, 1600 ns ticks
	PreviousEventLiving int          `json:"previous_event_living" yaml:"previous_event_living"`
	PreviousEventDepth  int          `json:"previous_event_depth" yaml:"previous_event_depth"`
	CalorimeterGateSize int          `json:"calorimeter_gate_size" yaml:"calorimeter_gate_size"`
	Patterns            PatternTable `json:"patterns" yaml:"patterns"`
}

func DefaultConfig() Config {
	return Config{
		Mode:                MODE_COINCIDENCE,
		WindowDepth:         10,
		Threshold:           1,
		InhibitBothSides:    false,
		InhibitSingleSide:   false,
		GateWidth:           5,
		PreviousEventLiving: 625,
		PreviousEventDepth:  1,
		CalorimeterGateSize: 4,
		Patterns:            DefaultPatternTable(),
	}
}

func (c Config) Validate() error {
	if c.Mode != MODE_CALO_ONLY && c.Mode != MODE_COINCIDENCE {
		return &ErrConfig{Field: "mode", Value: c.Mode, Reason: "unknown mode"}
	}
	if c.WindowDepth <= 0 {
		return &ErrConfig{Field: "window_depth", Value: c.WindowDepth, Reason: "must be positive"}
	}
	if c.Threshold > MAX_MULTIPLICITY {
		return &ErrConfig{Field: "threshold", Value: c.Threshold, Reason: "must be between 0 and 3"}
	}
	if c.GateWidth <= 0 {
		return &ErrConfig{Field: "gate_width", Value: c.GateWidth, Reason: "must be positive"}
	}
	if c.PreviousEventLiving <= 0 {
		return &ErrConfig{Field: "previous_event_living", Value: c.PreviousEventLiving, Reason: "must be positive"}
	}
	if c.PreviousEventDepth <= 0 {
		return &ErrConfig{Field: "previous_event_depth", Value: c.PreviousEventDepth, Reason: "must be positive"}
	}
	if c.CalorimeterGateSize <= 0 {
		return &ErrConfig{Field: "calorimeter_gate_size", Value: c.CalorimeterGateSize, Reason: "must be positive"}
	}
	if err := validatePatternGroup("patterns.prompt", c.Patterns.Prompt); err != nil {
		return err
	}
	if err := validatePatternGroup("patterns.ape", c.Patterns.APE); err != nil {
		return err
	}
	return validatePatternGroup("patterns.dave", c.Patterns.DAVE)
}

func validatePatternGroup(field string, g PatternGroup) error {
	inRange := func(bit int) bool {
		return bit >= 0 && bit < TRACKER_ZONE_DATA_SIZE
	}
	if !inRange(g.Right) || !inRange(g.Left) || g.Right == g.Left {
		return &ErrConfig{Field: field, Value: g, Reason: "right and left must be distinct tracker bits"}
	}
	if g.hasMiddle() && (!inRange(g.Middle) || g.Middle == g.Right || g.Middle == g.Left) {
		return &ErrConfig{Field: field, Value: g, Reason: "middle must be a distinct tracker bit or negative"}
	}
	return nil
}

// Configuration is the run configuration of the executables.
type Configuration struct {
	Verbosity        int    `json:"verbosity" yaml:"verbosity"`
	FileIn           string `json:"file_in" yaml:"file_in"`
	FileOut          string `json:"file_out" yaml:"file_out"`
	MetricsFile      string `json:"metrics_file" yaml:"metrics_file"`
	RunNumber        int    `json:"run_number" yaml:"run_number"`
	MaxEvents        int    `json:"max_events" yaml:"max_events"`
	Skip             int    `json:"skip" yaml:"skip"`
	NoDB             bool   `json:"no_db" yaml:"no_db"`
	Host             string `json:"host" yaml:"host"`
	User             string `json:"user" yaml:"user"`
	Passwd           string `json:"pass" yaml:"pass"`
	DBName           string `json:"dbname" yaml:"dbname"`
	NumWorkers       int    `json:"num_workers" yaml:"num_workers"`
	WriteData        bool   `json:"write_data" yaml:"write_data"`
	CompressionLevel int    `json:"compression_level" yaml:"compression_level"`
	Trigger          Config `json:"trigger" yaml:"trigger"`
}

var configuration Configuration

func SetConfiguration(config Configuration) {
	configuration = config
}

// LoadConfiguration reads a json or yaml (by extension) configuration file
// on top of the default values.
func LoadConfiguration(filename string) (Configuration, error) {
	var config Configuration

	// Set default values
	config.Verbosity = 0
	config.RunNumber = 0
	config.MaxEvents = 1000000000
	config.Skip = 0
	config.NoDB = false
	config.Host = "localhost"
	config.User = "triggerreader"
	config.Passwd = "readonly"
	config.DBName = "TRIGGER"
	config.NumWorkers = 1
	config.WriteData = true
	config.CompressionLevel = 4
	config.Trigger = DefaultConfig()

	data, err := os.ReadFile(filename)
	if err != nil {
		return config, &ErrOpenFile{Filename: filename, Err: err}
	}
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &config)
	default:
		err = json.Unmarshal(data, &config)
	}
	if err != nil {
		return config, fmt.Errorf("error parsing %s: %w", filename, err)
	}
	return config, nil
}

func PrintConfiguration(config Configuration, logger Logger) {
	logger.Info(fmt.Sprintf("File in: %s", config.FileIn), "config")
	logger.Info(fmt.Sprintf("File out: %s", config.FileOut), "config")
	logger.Info(fmt.Sprintf("Metrics file: %s", config.MetricsFile), "config")
	logger.Info(fmt.Sprintf("Run number: %d", config.RunNumber), "config")
	logger.Info(fmt.Sprintf("No DB: %t", config.NoDB), "config")
	logger.Info(fmt.Sprintf("Host: %s", config.Host), "config")
	logger.Info(fmt.Sprintf("DB name: %s", config.DBName), "config")
	logger.Info(fmt.Sprintf("Skip: %d", config.Skip), "config")
	logger.Info(fmt.Sprintf("Max events: %d", config.MaxEvents), "config")
	logger.Info(fmt.Sprintf("Verbosity: %d", config.Verbosity), "config")
	logger.Info(fmt.Sprintf("Write data: %t", config.WriteData), "config")
	logger.Info(fmt.Sprintf("Compression level: %d", config.CompressionLevel), "config")
	logger.Info(fmt.Sprintf("Number of workers: %d", config.NumWorkers), "config")
	logger.Info(fmt.Sprintf("Trigger mode: %s", config.Trigger.Mode), "config")
	logger.Info(fmt.Sprintf("Window depth: %d", config.Trigger.WindowDepth), "config")
	logger.Info(fmt.Sprintf("Threshold: %d", config.Trigger.Threshold), "config")
	logger.Info(fmt.Sprintf("Inhibit both sides: %t", config.Trigger.InhibitBothSides), "config")
	logger.Info(fmt.Sprintf("Inhibit single side: %t", config.Trigger.InhibitSingleSide), "config")
	logger.Info(fmt.Sprintf("L2 gate width: %d", config.Trigger.GateWidth), "config")
	logger.Info(fmt.Sprintf("Previous event living: %d", config.Trigger.PreviousEventLiving), "config")
	logger.Info(fmt.Sprintf("Previous event depth: %d", config.Trigger.PreviousEventDepth), "config")
	logger.Info(fmt.Sprintf("Calorimeter gate size: %d", config.Trigger.CalorimeterGateSize), "config")
	logger.Info(fmt.Sprintf("Patterns: %+v", config.Trigger.Patterns), "config")
}
