package format_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rooterworks/rmetrack/internal/format"
)

func TestParseTime(t *testing.T) {
	type testCase struct {
		name   string
		input  string
		wantOK bool
	}

	tests := []testCase{
		{name: "RFC3339", input: "2026-08-30T08:15:00-07:00", wantOK: true},
		{name: "RFC3339Nano", input: "2026-08-30T08:15:00.123456-07:00", wantOK: true},
		{name: "SpaceSeparated", input: "2026-08-30 08:15:00", wantOK: true},
		{name: "NoZone", input: "2026-08-30T08:15:00", wantOK: true},
		{name: "DateOnly", input: "2026-08-30", wantOK: true},
		{name: "Empty", input: "", wantOK: false},
		{name: "Whitespace", input: "   ", wantOK: false},
		{name: "Garbage", input: "not a date", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, ok := format.ParseTime(tt.input)
			assert.Equal(t, tt.wantOK, ok)
		})
	}
}

func TestParseTime_ZonelessIsPacific(t *testing.T) {
	got, ok := format.ParseTime("2026-08-30 08:15:00")
	require.True(t, ok)

	want := time.Date(2026, 8, 30, 8, 15, 0, 0, format.Pacific)
	assert.True(t, got.Equal(want))
}

func TestFormatDateTime(t *testing.T) {
	type testCase struct {
		name  string
		input string
		want  string
	}

	tests := []testCase{
		{name: "Formatted", input: "2026-08-30 14:05:00", want: "08/30/2026 2:05 PM"},
		{name: "Morning", input: "2026-08-30 08:15:00", want: "08/30/2026 8:15 AM"},
		{name: "Empty", input: "", want: format.Placeholder},
		{name: "Malformed", input: "08/30/2026??", want: format.Placeholder},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, format.FormatDateTime(tt.input))
		})
	}
}

func TestElapsed(t *testing.T) {
	now := time.Date(2026, 8, 30, 12, 0, 0, 0, format.Pacific)

	type testCase struct {
		name string
		age  time.Duration
		want string
	}

	tests := []testCase{
		{name: "Minutes", age: 45 * time.Minute, want: "45m"},
		{name: "Hours", age: 3*time.Hour + 20*time.Minute, want: "3h"},
		{name: "Days", age: 50 * time.Hour, want: "50h"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			scheduled := now.Add(-tt.age).Format(time.RFC3339)
			assert.Equal(t, tt.want, format.Elapsed(scheduled, now))
		})
	}
}

func TestElapsed_FutureClampsToZero(t *testing.T) {
	now := time.Date(2026, 8, 30, 12, 0, 0, 0, format.Pacific)
	scheduled := now.Add(2 * time.Hour).Format(time.RFC3339)

	assert.Equal(t, "0m", format.Elapsed(scheduled, now))
}

func TestElapsed_Malformed(t *testing.T) {
	now := time.Date(2026, 8, 30, 12, 0, 0, 0, format.Pacific)

	assert.Equal(t, format.Placeholder, format.Elapsed("", now))
	assert.Equal(t, format.Placeholder, format.Elapsed("yesterday", now))
}

func TestElapsedColor(t *testing.T) {
	now := time.Date(2026, 8, 30, 12, 0, 0, 0, format.Pacific)

	type testCase struct {
		name string
		age  time.Duration
		want format.Color
	}

	tests := []testCase{
		{name: "Fresh", age: 10 * time.Minute, want: format.ColorGreen},
		{name: "JustUnder24h", age: 24*time.Hour - time.Minute, want: format.ColorGreen},
		{name: "JustOver24h", age: 24*time.Hour + time.Minute, want: format.ColorOrange},
		{name: "JustUnder48h", age: 48*time.Hour - time.Minute, want: format.ColorOrange},
		{name: "JustOver48h", age: 48*time.Hour + time.Minute, want: format.ColorRed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			scheduled := now.Add(-tt.age).Format(time.RFC3339)
			assert.Equal(t, tt.want, format.ElapsedColor(scheduled, now))
		})
	}
}

func TestElapsedColor_MalformedIsGreen(t *testing.T) {
	now := time.Date(2026, 8, 30, 12, 0, 0, 0, format.Pacific)

	assert.Equal(t, format.ColorGreen, format.ElapsedColor("", now))
	assert.Equal(t, format.ColorGreen, format.ElapsedColor("???", now))
}

func TestTechInitial(t *testing.T) {
	assert.Equal(t, "J", format.TechInitial("james"))
	assert.Equal(t, "M", format.TechInitial("  Maria Lopez"))
	assert.Equal(t, "?", format.TechInitial(""))
	assert.Equal(t, "?", format.TechInitial("   "))
}

func TestSplitAddress(t *testing.T) {
	type testCase struct {
		name  string
		input string
		want  format.Address
	}

	tests := []testCase{
		{
			name:  "ThreeParts",
			input: "123 Main St, Portland, OR 97201",
			want:  format.Address{Street: "123 Main St", City: "Portland", Region: "OR 97201"},
		},
		{
			name:  "ExtraCommasJoinIntoRegion",
			input: "123 Main St, Portland, OR, 97201, USA",
			want:  format.Address{Street: "123 Main St", City: "Portland", Region: "OR, 97201, USA"},
		},
		{
			name:  "StreetOnly",
			input: "123 Main St",
			want:  format.Address{Street: "123 Main St", City: format.Unknown, Region: format.Unknown},
		},
		{
			name:  "Empty",
			input: "",
			want:  format.Address{Street: format.Unknown, City: format.Unknown, Region: format.Unknown},
		},
		{
			name:  "BlankSegments",
			input: " , Portland, ",
			want:  format.Address{Street: format.Unknown, City: "Portland", Region: format.Unknown},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, format.SplitAddress(tt.input))
		})
	}
}
