package model

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKindOf(t *testing.T) {
	r := DateRange{Start: NewDate(2023, 1, 1), End: NewDate(2023, 1, 31)}

	tests := []struct {
		name string
		err  error
		want ErrorKind
	}{
		{"nil", nil, ""},
		{"range", &RangeError{Range: r, Reason: "x"}, KindInvalidRange},
		{"series", &SeriesError{ID: "X"}, KindInvalidSeries},
		{"transport", &TransportError{Endpoint: "/x", Err: errors.New("boom")}, KindTransport},
		{"no data", &NoDataError{SeriesID: "NIFTY 50", Range: r}, KindNoData},
		{"empty", fmt.Errorf("normalize: %w", ErrEmptySeries), KindEmptySeries},
		{"chunked transport", &ChunkError{SeriesID: "NIFTY 50", Range: r, Err: &TransportError{StatusCode: 503, Err: errors.New("down")}}, KindTransport},
		{"other", errors.New("other"), KindUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, KindOf(tt.err))
		})
	}
}

func TestChunkError_KeepsCauseAndRange(t *testing.T) {
	r := DateRange{Start: NewDate(2023, 1, 1), End: NewDate(2023, 12, 31)}
	cause := &TransportError{Endpoint: "https://example.test", StatusCode: 500, Err: errors.New("status 500")}
	err := fmt.Errorf("retrieve: %w", &ChunkError{SeriesID: "NIFTY 50", Range: r, Err: cause})

	var ce *ChunkError
	require.True(t, errors.As(err, &ce))
	assert.Equal(t, r, ce.Range)

	var te *TransportError
	require.True(t, errors.As(err, &te))
	assert.Equal(t, 500, te.StatusCode)
	assert.Contains(t, err.Error(), "01-01-2023..31-12-2023")
}

func TestDateRange_Validate(t *testing.T) {
	today := NewDate(2024, 6, 15)

	ok := DateRange{Start: NewDate(2024, 1, 1), End: today}
	require.NoError(t, ok.Validate(today))

	reversed := DateRange{Start: NewDate(2024, 2, 1), End: NewDate(2024, 1, 1)}
	err := reversed.Validate(today)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidRange))

	future := DateRange{Start: NewDate(2024, 6, 1), End: NewDate(2024, 6, 16)}
	err = future.Validate(today)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "future")
}

func TestDateRange_Days(t *testing.T) {
	assert.Equal(t, 1, DateRange{Start: NewDate(2023, 1, 1), End: NewDate(2023, 1, 1)}.Days())
	assert.Equal(t, 365, DateRange{Start: NewDate(2023, 1, 1), End: NewDate(2023, 12, 31)}.Days())
	assert.Equal(t, 366, DateRange{Start: NewDate(2024, 1, 1), End: NewDate(2024, 12, 31)}.Days())
	assert.Equal(t, 0, DateRange{Start: NewDate(2023, 1, 2), End: NewDate(2023, 1, 1)}.Days())
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate(" 02-01-2023 ")
	require.NoError(t, err)
	assert.Equal(t, NewDate(2023, 1, 2), d)
	assert.Equal(t, "02-01-2023", FormatDate(d))

	_, err = ParseDate("2023-01-02")
	assert.Error(t, err)
}
