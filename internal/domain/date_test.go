package domain

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2024-02-29")
	require.NoError(t, err)
	assert.Equal(t, "2024-02-29", d.String())

	d, err = ParseDate("2024-03-01T23:30:00Z")
	require.NoError(t, err)
	assert.Equal(t, "2024-03-01", d.String())

	d, err = ParseDate("  ")
	require.NoError(t, err)
	assert.True(t, d.IsZero())

	_, err = ParseDate("01/03/2024")
	assert.Error(t, err)
}

func TestDateJSON(t *testing.T) {
	var payload struct {
		On  Date `json:"on"`
		Off Date `json:"off"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"on":"2023-07-14","off":null}`), &payload))
	assert.Equal(t, "2023-07-14", payload.On.String())
	assert.True(t, payload.Off.IsZero())

	out, err := json.Marshal(payload)
	require.NoError(t, err)
	assert.JSONEq(t, `{"on":"2023-07-14","off":null}`, string(out))

	assert.Error(t, json.Unmarshal([]byte(`{"on":"tomorrow"}`), &payload))
}

func TestDateValueAndScan(t *testing.T) {
	v, err := Date{}.Value()
	require.NoError(t, err)
	assert.Nil(t, v)

	var d Date
	require.NoError(t, d.Scan(time.Date(2022, 1, 2, 15, 4, 5, 0, time.UTC)))
	assert.Equal(t, "2022-01-02", d.String())
	require.NoError(t, d.Scan("2021-12-31 00:00:00+00:00"))
	assert.Equal(t, "2021-12-31", d.String())
	require.NoError(t, d.Scan([]byte("2020-06-01")))
	assert.Equal(t, "2020-06-01", d.String())
	require.NoError(t, d.Scan(nil))
	assert.True(t, d.IsZero())
	assert.Error(t, d.Scan(42))
}
