package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTimestamp_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		expected    time.Time
		shouldError bool
	}{
		{
			name:     "rfc3339 with zone",
			input:    `"2024-03-01T10:00:00+02:00"`,
			expected: time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC),
		},
		{
			name:     "naive with microseconds",
			input:    `"2024-03-01T10:00:00.123456"`,
			expected: time.Date(2024, 3, 1, 10, 0, 0, 123456000, time.UTC),
		},
		{
			name:     "naive without fraction",
			input:    `"2024-03-01T10:00:00"`,
			expected: time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC),
		},
		{
			name:  "empty string",
			input: `""`,
		},
		{
			name:        "not a string",
			input:       `12345`,
			shouldError: true,
		},
		{
			name:        "garbage",
			input:       `"yesterday"`,
			shouldError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var ts Timestamp
			err := json.Unmarshal([]byte(tt.input), &ts)
			if tt.shouldError {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.True(t, tt.expected.Equal(ts.Time), "expected %v, got %v", tt.expected, ts.Time)
		})
	}
}

func TestTimestamp_MarshalJSON(t *testing.T) {
	data, err := json.Marshal(Timestamp{})
	require.NoError(t, err)
	assert.Equal(t, `""`, string(data))

	data, err = json.Marshal(Timestamp{Time: time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)})
	require.NoError(t, err)
	assert.Equal(t, `"2024-03-01T10:00:00Z"`, string(data))
}

func TestPage_Decode(t *testing.T) {
	body := `{"items":[{"id":1,"name":"Flute","type":"wind","brand":"Yamaha","condition":"new","created_at":"2024-01-01T00:00:00"}],"total":1,"page":1,"per_page":10,"pages":1}`

	var page Page[Instrument]
	require.NoError(t, json.Unmarshal([]byte(body), &page))
	require.Len(t, page.Items, 1)
	assert.Equal(t, "Flute", page.Items[0].Name)
	assert.Equal(t, 10, page.PerPage)
}

func TestUpdateBodies_SendOnlySetFields(t *testing.T) {
	data, err := json.Marshal(StudentUpdate{Phone: Ptr("")})
	require.NoError(t, err)
	assert.JSONEq(t, `{"phone":""}`, string(data))

	data, err = json.Marshal(ScheduleUpdate{TeacherID: Ptr(0), Room: Ptr("B2")})
	require.NoError(t, err)
	assert.JSONEq(t, `{"teacher_id":0,"room":"B2"}`, string(data))

	data, err = json.Marshal(InstrumentUpdate{})
	require.NoError(t, err)
	assert.Equal(t, `{}`, string(data))
}
