package service

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDayKeyUsesVotingZone(t *testing.T) {
	kyiv := time.FixedZone("UTC+3", 3*3600)
	now := time.Date(2024, 5, 10, 22, 30, 0, 0, time.UTC)
	assert.Equal(t, "2024-05-10", DayKey(now, time.UTC))
	assert.Equal(t, "2024-05-11", DayKey(now, kyiv))
}

func TestClosedDay(t *testing.T) {
	loc := time.UTC
	morning := time.Date(2024, 5, 10, 9, 0, 0, 0, loc)
	atCutoff := time.Date(2024, 5, 10, 12, 0, 0, 0, loc)
	midnight := time.Date(2024, 5, 11, 0, 0, 0, 0, loc)

	assert.Equal(t, "2024-05-09", ClosedDay(morning, loc, 12), "before cutoff today is still open")
	assert.Equal(t, "2024-05-10", ClosedDay(atCutoff, loc, 12))
	assert.Equal(t, "2024-05-10", ClosedDay(midnight, loc, 0), "no cutoff: previous day closes at midnight")
}

func TestParseDay(t *testing.T) {
	day, err := ParseDay(" 2024-02-29 ")
	require.NoError(t, err)
	assert.Equal(t, "2024-02-29", day)

	for _, raw := range []string{"", "2024-13-01", "10.05.2024", "2023-02-29"} {
		_, err := ParseDay(raw)
		assert.True(t, errors.Is(err, ErrInvalidInput), raw)
	}
}
