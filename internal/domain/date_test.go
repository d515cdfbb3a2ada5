package domain

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDateJSON(t *testing.T) {
	var payload struct {
		Fecha Date `json:"fecha"`
	}

	require.NoError(t, json.Unmarshal([]byte(`{"fecha":"2024-02-29"}`), &payload))
	assert.Equal(t, Date{Year: 2024, Month: time.February, Day: 29}, payload.Fecha)

	raw, err := json.Marshal(payload)
	require.NoError(t, err)
	assert.JSONEq(t, `{"fecha":"2024-02-29"}`, string(raw))

	require.NoError(t, json.Unmarshal([]byte(`{"fecha":""}`), &payload))
	assert.True(t, payload.Fecha.IsZero())

	assert.Error(t, json.Unmarshal([]byte(`{"fecha":"2023-02-29"}`), &payload))
	assert.Error(t, json.Unmarshal([]byte(`{"fecha":"15/03/2024"}`), &payload))
}

func TestDateAfter(t *testing.T) {
	d := Date{Year: 2024, Month: time.March, Day: 15}

	assert.True(t, Date{Year: 2024, Month: time.March, Day: 16}.After(d))
	assert.True(t, Date{Year: 2024, Month: time.April, Day: 1}.After(d))
	assert.True(t, Date{Year: 2025, Month: time.January, Day: 1}.After(d))
	assert.False(t, d.After(d))
	assert.False(t, Date{Year: 2023, Month: time.December, Day: 31}.After(d))
}

func TestDateOfUsesLocalCalendar(t *testing.T) {
	zone := time.FixedZone("CST", -6*60*60)
	late := time.Date(2024, time.March, 15, 23, 30, 0, 0, zone)

	assert.Equal(t, "2024-03-15", DateOf(late).String())
	assert.Equal(t, "2024-03-16", DateOf(late.UTC()).String())
}
