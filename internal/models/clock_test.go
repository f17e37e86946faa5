package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseClockTime(t *testing.T) {
	tests := []struct {
		raw     string
		want    ClockTime
		wantErr bool
	}{
		{raw: "00:00", want: NewClockTime(0, 0)},
		{raw: "09:30", want: NewClockTime(9, 30)},
		{raw: "23:59", want: NewClockTime(23, 59)},
		{raw: "24:00", wantErr: true},
		{raw: "12:60", wantErr: true},
		{raw: "garbage", wantErr: true},
	}

	for _, tc := range tests {
		got, err := ParseClockTime(tc.raw)
		if tc.wantErr {
			require.Error(t, err, tc.raw)
			continue
		}
		require.NoError(t, err, tc.raw)
		assert.Equal(t, tc.want, got, tc.raw)
	}
}

func TestClockTimeString(t *testing.T) {
	assert.Equal(t, "08:05", NewClockTime(8, 5).String())
	assert.Equal(t, "22:00", NewClockTime(22, 0).String())
}

func TestClockTimeOf(t *testing.T) {
	ts := time.Date(2025, 3, 10, 14, 45, 59, 0, time.UTC)
	assert.Equal(t, NewClockTime(14, 45), ClockTimeOf(ts))
}

func TestClockTimeJSONRoundTrip(t *testing.T) {
	raw, err := json.Marshal(NewClockTime(7, 15))
	require.NoError(t, err)
	assert.Equal(t, `"07:15"`, string(raw))

	var decoded ClockTime
	require.NoError(t, json.Unmarshal([]byte(`"19:05"`), &decoded))
	assert.Equal(t, NewClockTime(19, 5), decoded)

	assert.Error(t, json.Unmarshal([]byte(`"25:00"`), &decoded))
}

func TestClockTimeScan(t *testing.T) {
	var ct ClockTime
	require.NoError(t, ct.Scan("13:37"))
	assert.Equal(t, NewClockTime(13, 37), ct)

	require.NoError(t, ct.Scan([]byte("02:00")))
	assert.Equal(t, NewClockTime(2, 0), ct)

	require.NoError(t, ct.Scan(time.Date(2000, 1, 1, 6, 30, 0, 0, time.UTC)))
	assert.Equal(t, NewClockTime(6, 30), ct)

	assert.Error(t, ct.Scan(3.14))
}

func TestClockTimeValue(t *testing.T) {
	v, err := NewClockTime(21, 0).Value()
	require.NoError(t, err)
	assert.Equal(t, "21:00", v)

	_, err = ClockTime(-1).Value()
	assert.Error(t, err)
}
