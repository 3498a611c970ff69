package types

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sriverasc/AireAPI/internal/temporal"
)

func TestTimestamp_MarshalUTC(t *testing.T) {
	ts := Timestamp{Time: time.Date(2025, 3, 11, 21, 55, 0, 0, time.FixedZone("X", 2*3600))}
	b, err := json.Marshal(ts)
	require.NoError(t, err)
	assert.Equal(t, `"2025-03-11T19:55:00Z"`, string(b))
}

func TestTimestamp_Unmarshal(t *testing.T) {
	var ts Timestamp
	require.NoError(t, json.Unmarshal([]byte(`"2025-03-11 19:55:00"`), &ts))
	assert.Equal(t, time.Date(2025, 3, 11, 19, 55, 0, 0, time.UTC), ts.Time)

	require.NoError(t, json.Unmarshal([]byte(`null`), &ts))
	assert.True(t, ts.IsZero())

	var pe *temporal.ParseError
	assert.ErrorAs(t, json.Unmarshal([]byte(`"tomorrow"`), &ts), &pe)
	assert.ErrorAs(t, json.Unmarshal([]byte(`12345`), &ts), &pe)
}

func TestOutsideReading_JSON(t *testing.T) {
	var r OutsideReading
	require.NoError(t, json.Unmarshal([]byte(`{"date_time":"2025-03-11T19:55:00","aqi":42,"heat_index_max_c":31}`), &r))
	require.NotNil(t, r.AQI)
	assert.Equal(t, 42, *r.AQI)
	require.NotNil(t, r.HeatIndexMaxC)
	assert.Equal(t, 31, *r.HeatIndexMaxC)
	assert.Nil(t, r.PM25)

	b, err := json.Marshal(r)
	require.NoError(t, err)
	var out map[string]any
	require.NoError(t, json.Unmarshal(b, &out))
	assert.Len(t, out, len(outsideColumns)+1)
	assert.Contains(t, out, "pm25_ug_m3")
	assert.Nil(t, out["pm25_ug_m3"])
}

func TestReadingMappingsAreConsistent(t *testing.T) {
	check := func(t *testing.T, cols []string, values, targets []any) {
		t.Helper()
		assert.Len(t, values, len(cols))
		assert.Len(t, targets, len(cols))
	}

	var o OutsideReading
	check(t, o.Columns(), o.Values(), o.Targets())
	assert.Equal(t, "outside_readings", o.Table())

	var i InsideReading
	check(t, i.Columns(), i.Values(), i.Targets())
	assert.Equal(t, "inside_readings", i.Table())

	key := time.Date(2025, 1, 2, 3, 4, 5, 0, time.FixedZone("X", 3600))
	i.SetKey(key)
	assert.Equal(t, time.UTC, i.Key().Location())
	assert.True(t, key.Equal(i.Key()))
}
