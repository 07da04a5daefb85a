package model

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinels for errors.Is. Every typed error below matches exactly one of them.
var (
	ErrInvalidRange  = errors.New("invalid date range")
	ErrInvalidSeries = errors.New("unknown index")
	ErrTransport     = errors.New("transport failure")
	ErrNoData        = errors.New("no data found")
	ErrEmptySeries   = errors.New("empty series")
)

// ErrorKind classifies an error so callers can branch without parsing text.
type ErrorKind string

const (
	KindUnknown       ErrorKind = "UNKNOWN"
	KindInvalidRange  ErrorKind = "INVALID_RANGE"
	KindInvalidSeries ErrorKind = "INVALID_SERIES"
	KindTransport     ErrorKind = "TRANSPORT"
	KindNoData        ErrorKind = "NO_DATA"
	KindEmptySeries   ErrorKind = "EMPTY_SERIES"
)

// KindOf returns the kind of err, looking through wrapping.
func KindOf(err error) ErrorKind {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrInvalidRange):
		return KindInvalidRange
	case errors.Is(err, ErrInvalidSeries):
		return KindInvalidSeries
	case errors.Is(err, ErrTransport):
		return KindTransport
	case errors.Is(err, ErrNoData):
		return KindNoData
	case errors.Is(err, ErrEmptySeries):
		return KindEmptySeries
	default:
		return KindUnknown
	}
}

// RangeError reports a date range the caller must correct.
type RangeError struct {
	Range  DateRange
	Reason string
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("invalid date range %s: %s", e.Range, e.Reason)
}

func (e *RangeError) Unwrap() error { return ErrInvalidRange }

// SeriesError reports an index identifier missing from the catalog.
type SeriesError struct {
	ID    string
	Known []string
}

func (e *SeriesError) Error() string {
	if len(e.Known) == 0 {
		return fmt.Sprintf("unknown index %q", e.ID)
	}
	return fmt.Sprintf("unknown index %q, must be one of: %s", e.ID, strings.Join(e.Known, ", "))
}

func (e *SeriesError) Unwrap() error { return ErrInvalidSeries }

// TransportError reports a network, server or payload failure of one remote lookup.
type TransportError struct {
	Endpoint   string
	StatusCode int // 0 when no response was received
	Err        error
}

func (e *TransportError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("transport failure (status: %d, endpoint: %s): %v", e.StatusCode, e.Endpoint, e.Err)
	}
	return fmt.Sprintf("transport failure (endpoint: %s): %v", e.Endpoint, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

func (e *TransportError) Is(target error) bool { return target == ErrTransport }

// NoDataError reports a successful retrieval that produced no records at all.
type NoDataError struct {
	SeriesID string
	Range    DateRange
}

func (e *NoDataError) Error() string {
	return fmt.Sprintf("no data found for %s in %s, try a different date range", e.SeriesID, e.Range)
}

func (e *NoDataError) Unwrap() error { return ErrNoData }

// ChunkError annotates a failed chunk lookup with the chunk's range.
type ChunkError struct {
	SeriesID string
	Range    DateRange
	Err      error
}

func (e *ChunkError) Error() string {
	return fmt.Sprintf("fetch %s chunk %s: %v", e.SeriesID, e.Range, e.Err)
}

func (e *ChunkError) Unwrap() error { return e.Err }
