package dto

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHeadcount(t *testing.T) {
	tests := []struct {
		body string
		want Headcount
	}{
		{`{"numberOfPeople": 3}`, 3},
		{`{"numberOfPeople": "2"}`, 2},
		{`{"numberOfPeople": " 4 "}`, 4},
		{`{}`, 0},
		{`{"numberOfPeople": null}`, 0},
		{`{"numberOfPeople": ""}`, 0},
		{`{"numberOfPeople": 0}`, 0},
		{`{"numberOfPeople": 1.5}`, -1},
		{`{"numberOfPeople": "many"}`, -1},
		{`{"numberOfPeople": -2}`, -2},
	}

	for _, tt := range tests {
		var req PublicBookingRequest
		require.NoError(t, json.Unmarshal([]byte(tt.body), &req), tt.body)
		assert.Equal(t, tt.want, req.NumberOfPeople, tt.body)
	}
}

func TestNumericText(t *testing.T) {
	var req GenerateSlotsRequest
	require.NoError(t, json.Unmarshal([]byte(`{"duration_minutes": 30, "max_people": "4"}`), &req))

	assert.Equal(t, NumericText("30"), req.DurationMinutes)
	assert.Equal(t, "4", req.MaxPeople.String())
}
