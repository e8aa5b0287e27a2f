package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDuration(t *testing.T) {
	tests := []struct {
		input string
		want  time.Duration
	}{
		{"90m", 90 * time.Minute},
		{"12h", 12 * time.Hour},
		{"3d", 3 * 24 * time.Hour},
		{"1w", 7 * 24 * time.Hour},
		{"2w", 14 * 24 * time.Hour},
	}
	for _, tt := range tests {
		got, err := ParseDuration(tt.input)
		require.NoError(t, err, "input %q", tt.input)
		assert.Equal(t, tt.want, got, "input %q", tt.input)
	}
}

func TestParseDurationInvalid(t *testing.T) {
	for _, input := range []string{"", "abc", "2x", "w", "threed"} {
		_, err := ParseDuration(input)
		assert.Error(t, err, "input %q", input)
	}
}

func TestPrettyDuration(t *testing.T) {
	tests := []struct {
		input time.Duration
		want  string
	}{
		{0, "a few seconds"},
		{30 * time.Second, "a few seconds"},
		{time.Minute, "1 minute"},
		{90 * time.Minute, "1 hour, 30 minutes"},
		{25 * time.Hour, "1 day, 1 hour"},
		{17*24*time.Hour + time.Hour, "2 weeks, 3 days, 1 hour"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, PrettyDuration(tt.input), "input %s", tt.input)
	}
}
