package contracts

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinels for errors.Is matching at the edges (API, CLI)
var (
	ErrInsufficientData  = errors.New("insufficient data")
	ErrDataInconsistency = errors.New("data inconsistency")
	ErrInvalidPeriod     = errors.New("invalid period")
	ErrDataUnavailable   = errors.New("data unavailable")
)

// InsufficientDataError: a stage needs at least one point and got none
type InsufficientDataError struct {
	Stage  Stage
	Reason string
}

func (e *InsufficientDataError) Error() string {
	return fmt.Sprintf("%s: %s: %s", e.Stage, ErrInsufficientData, e.Reason)
}

// Is matches ErrInsufficientData
func (e *InsufficientDataError) Is(target error) bool {
	return target == ErrInsufficientData
}

// DataInconsistencyError: groups the stage cannot use, such as numerator
// groups without a denominator group or non-finite values
type DataInconsistencyError struct {
	Stage  Stage
	Keys   []string
	Reason string // defaults to the missing-denominator case
}

func (e *DataInconsistencyError) Error() string {
	reason := e.Reason
	if reason == "" {
		reason = "numerator groups without denominator"
	}
	return fmt.Sprintf("%s: %s: %s: %s",
		e.Stage, ErrDataInconsistency, reason, strings.Join(e.Keys, ", "))
}

// Is matches ErrDataInconsistency
func (e *DataInconsistencyError) Is(target error) bool {
	return target == ErrDataInconsistency
}

// InvalidPeriodError: a quarter outside 1..4, an unparsable label or a duplicate period
type InvalidPeriodError struct {
	Year    int
	Quarter int
	Label   string
	Reason  string
}

func (e *InvalidPeriodError) Error() string {
	if e.Label != "" {
		return fmt.Sprintf("%s %q: %s", ErrInvalidPeriod, e.Label, e.Reason)
	}
	return fmt.Sprintf("%s %d T%d: %s", ErrInvalidPeriod, e.Year, e.Quarter, e.Reason)
}

// Is matches ErrInvalidPeriod
func (e *InvalidPeriodError) Is(target error) bool {
	return target == ErrInvalidPeriod
}

// DataUnavailableError: the data source failed or timed out
type DataUnavailableError struct {
	Source string
	Query  string
	Err    error
}

func (e *DataUnavailableError) Error() string {
	return fmt.Sprintf("%s: %s %s: %v", ErrDataUnavailable, e.Source, e.Query, e.Err)
}

// Is matches ErrDataUnavailable
func (e *DataUnavailableError) Is(target error) bool {
	return target == ErrDataUnavailable
}

// Unwrap exposes the driver or context error
func (e *DataUnavailableError) Unwrap() error {
	return e.Err
}
