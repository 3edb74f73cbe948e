package trigger

import (
	"errors"
	"fmt"
)

var (
	ErrNotInitialized     = errors.New("trigger pipeline is not initialized")
	ErrAlreadyInitialized = errors.New("trigger pipeline is already initialized")
	ErrTickOrder          = errors.New("clockticks must be processed in increasing order")
)

// ErrConfig represents an invalid configuration value.
type ErrConfig struct {
	Field  string
	Value  interface{}
	Reason string
}

func (e *ErrConfig) Error() string {
	return fmt.Sprintf("invalid configuration %s=%v: %s", e.Field, e.Value, e.Reason)
}

// ErrCrateIndex represents a primitive word from an unknown crate.
type ErrCrateIndex struct {
	Crate int
	Tick  ClockTick
}

func (e *ErrCrateIndex) Error() string {
	return fmt.Sprintf("invalid crate index %d at clocktick %d", e.Crate, e.Tick)
}

// ErrCoordinate represents a channel that could not be resolved to a valid
// side/zone/crate coordinate.
type ErrCoordinate struct {
	Kind   string
	ElecID int
	Side   int
	Zone   int
}

func (e *ErrCoordinate) Error() string {
	return fmt.Sprintf("invalid %s coordinate for elecID %d (side %d, zone %d)", e.Kind, e.ElecID, e.Side, e.Zone)
}

// ErrOpenFile represents an error when opening a file.
type ErrOpenFile struct {
	Filename string
	Err      error
}

func (e *ErrOpenFile) Error() string {
	return fmt.Sprintf("error opening file %q: %v", e.Filename, e.Err)
}

func (e *ErrOpenFile) Unwrap() error {
	return e.Err
}

// ErrCreateGroup represents an error when creating a group.
type ErrCreateGroup struct {
	GroupName string
	Err       error
}

func (e *ErrCreateGroup) Error() string {
	return fmt.Sprintf("error creating group %q: %v", e.GroupName, e.Err)
}

func (e *ErrCreateGroup) Unwrap() error {
	return e.Err
}

// ErrCreateTable represents an error when creating a table.
type ErrCreateTable struct {
	TableName string
	Err       error
}

func (e *ErrCreateTable) Error() string {
	return fmt.Sprintf("error creating table %q: %v", e.TableName, e.Err)
}

func (e *ErrCreateTable) Unwrap() error {
	return e.Err
}
