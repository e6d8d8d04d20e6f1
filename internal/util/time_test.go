package util

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func utcProvider(t *testing.T) *TimeProvider {
	t.Helper()
	tp := &TimeProvider{}
	require.NoError(t, tp.SetTimezone("UTC"))
	return tp
}

func TestSetTimezoneRejectsGarbage(t *testing.T) {
	tp := &TimeProvider{}
	assert.Error(t, tp.SetTimezone("Not/AZone"))
	assert.NoError(t, tp.SetTimezone("Asia/Shanghai"))
	assert.NoError(t, tp.SetTimezone("Local"))
}

func TestParseDateMillis(t *testing.T) {
	tp := utcProvider(t)

	tests := []struct {
		in   string
		want time.Time
	}{
		{"2024-01-10", time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)},
		{"2024-01-10 09:30", time.Date(2024, 1, 10, 9, 30, 0, 0, time.UTC)},
		{"2024-01-10 09:30:15", time.Date(2024, 1, 10, 9, 30, 15, 0, time.UTC)},
		{"2024-01-10T09:30:15Z", time.Date(2024, 1, 10, 9, 30, 15, 0, time.UTC)},
	}

	for _, tt := range tests {
		got, err := tp.ParseDateMillis(tt.in)
		require.NoError(t, err, "input %q", tt.in)
		assert.Equal(t, tt.want.UnixMilli(), got, "input %q", tt.in)
	}

	_, err := tp.ParseDateMillis("10/01/2024")
	assert.Error(t, err)
}

func TestEndOfDayMillis(t *testing.T) {
	tp := utcProvider(t)

	got, err := tp.EndOfDayMillis("2024-01-10")
	require.NoError(t, err)

	// Last millisecond of the day
	want := time.Date(2024, 1, 11, 0, 0, 0, 0, time.UTC).UnixMilli() - 1
	assert.Equal(t, want, got)
}

func TestFormatMillis(t *testing.T) {
	tp := utcProvider(t)
	ms := time.Date(2024, 1, 10, 9, 30, 0, 0, time.UTC).UnixMilli()
	assert.Equal(t, "2024-01-10 09:30", tp.FormatMillis(ms, "2006-01-02 15:04"))
}
