package fintrack

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDate_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{
			name:  "date only format YYYY-MM-DD",
			input: `"2024-01-02"`,
			want:  "2024-01-02",
		},
		{
			name:  "RFC3339 format",
			input: `"2024-01-02T15:04:05Z"`,
			want:  "2024-01-02",
		},
		{
			name:  "RFC3339 with offset keeps the local day",
			input: `"2024-01-02T23:30:00-05:00"`,
			want:  "2024-01-02",
		},
		{
			name:  "datetime without timezone",
			input: `"2024-01-02T15:04:05"`,
			want:  "2024-01-02",
		},
		{
			name:  "null value",
			input: `null`,
			want:  "",
		},
		{
			name:  "empty string",
			input: `""`,
			want:  "",
		},
		{
			name:    "invalid format",
			input:   `"not-a-date"`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var d Date
			err := json.Unmarshal([]byte(tt.input), &d)

			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, d.String())
		})
	}
}

func TestDate_MarshalJSON(t *testing.T) {
	data, err := json.Marshal(struct {
		Date Date  `json:"date"`
		Zero Date  `json:"zero"`
		Ptr  *Date `json:"ptr,omitempty"`
	}{Date: NewDate(2024, time.March, 9)})
	require.NoError(t, err)

	assert.JSONEq(t, `{"date":"2024-03-09","zero":null}`, string(data))
}

func TestDate_Within(t *testing.T) {
	start := MustParseDate("2024-01-02")
	end := MustParseDate("2024-01-05")

	assert.True(t, MustParseDate("2024-01-02").Within(start, end))
	assert.True(t, MustParseDate("2024-01-05").Within(start, end))
	assert.False(t, MustParseDate("2024-01-01").Within(start, end))
	assert.False(t, MustParseDate("2024-01-06").Within(start, end))
}

func TestDateOf(t *testing.T) {
	loc := time.FixedZone("UTC-8", -8*60*60)

	d := DateOf(time.Date(2024, 1, 2, 22, 0, 0, 0, loc))

	assert.Equal(t, "2024-01-02", d.String())
	assert.Equal(t, time.UTC, d.Location())
	assert.True(t, DateOf(time.Time{}).IsZero())
}

func TestMustParseDatePanics(t *testing.T) {
	assert.Panics(t, func() { MustParseDate("01/02/2024") })
}
